package skilltree

import "github.com/tufstraka/Skilltree-NFT/types"

// Re-export common types for convenience so users don't have to import types package.

// Tokens is re-exported from types package.
type Tokens = types.Tokens

// Principal is re-exported from types package.
type Principal = types.Principal

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Tokens constructors
var (
	E8s   = types.E8s
	Whole = types.Whole
	Sum   = types.Sum
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
