package skilltree

import (
	"errors"
	"fmt"
)

// Sentinel errors for the ledger's failure taxonomy. Every operation fails
// fast on the first violated precondition and performs no partial mutation.
var (
	// Validation errors
	ErrEmptyTitle       = errors.New("skilltree: title cannot be empty")
	ErrEmptyDescription = errors.New("skilltree: description cannot be empty")
	ErrInvalidPrice     = errors.New("skilltree: price must be greater than zero")
	ErrInvalidAmount    = errors.New("skilltree: amount must be greater than zero")
	ErrNoCaller         = errors.New("skilltree: no caller identity in context")

	// Not-found errors
	ErrAssetNotFound = errors.New("skilltree: asset not found")

	// Authorization errors
	ErrNotOwner   = errors.New("skilltree: only the current owner may do this")
	ErrNotCreator = errors.New("skilltree: only the creator may do this")

	// State errors
	ErrAssetInactive       = errors.New("skilltree: asset is not active")
	ErrSelfPurchase        = errors.New("skilltree: cannot purchase your own asset")
	ErrSelfTransfer        = errors.New("skilltree: new owner must differ from the current owner")
	ErrInsufficientBalance = errors.New("skilltree: insufficient balance")

	// External-dependency errors
	ErrTransferFailed = errors.New("skilltree: funds transfer failed")
	ErrNoClient       = errors.New("skilltree: no funds-transfer client configured")

	// Store errors
	ErrSnapshotFailed = errors.New("skilltree: snapshot save/restore failed")
	ErrStoreClosed    = errors.New("skilltree: store is closed")
)

// ValidationError reports a validation failure with field detail.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("skilltree: validation failed for %s: %s", e.Field, e.Message)
}

// IsValidation returns true if the error is an input validation failure.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrEmptyTitle) ||
		errors.Is(err, ErrEmptyDescription) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidAmount)
}

// IsNotFound returns true if the error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAssetNotFound)
}

// IsAuthorization returns true if the error reports a missing role
// (owner or creator).
func IsAuthorization(err error) bool {
	return errors.Is(err, ErrNotOwner) ||
		errors.Is(err, ErrNotCreator) ||
		errors.Is(err, ErrNoCaller)
}

// IsState returns true if the error reports a precondition on ledger
// state rather than on the input or the caller's role.
func IsState(err error) bool {
	return errors.Is(err, ErrAssetInactive) ||
		errors.Is(err, ErrSelfPurchase) ||
		errors.Is(err, ErrSelfTransfer) ||
		errors.Is(err, ErrInsufficientBalance)
}

// IsExternal returns true if the error came from the external
// funds-transfer service.
func IsExternal(err error) bool {
	return errors.Is(err, ErrTransferFailed)
}
