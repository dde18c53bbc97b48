package funding

import (
	"sync"
	"time"

	"github.com/tufstraka/Skilltree-NFT/id"
	"github.com/tufstraka/Skilltree-NFT/types"
)

// State is the phase of a top-up transfer attempt.
type State string

const (
	// StatePending means the transfer request has been issued and the
	// ledger is suspended awaiting the external service's response.
	StatePending State = "pending"
	// StateSettled means the external ledger confirmed settlement and the
	// caller's balance has been credited.
	StateSettled State = "settled"
	// StateFailed means the external ledger rejected the transfer; no
	// balance changed.
	StateFailed State = "failed"
)

// Transfer is the two-phase record of one top-up attempt. It is created in
// the pre-call phase, before the external request is issued, and moves to
// exactly one of Settled or Failed when the call resolves. The ledger
// mutates no balance while a Transfer is pending.
type Transfer struct {
	mu sync.Mutex

	ID      id.TransferID     `json:"id"`
	Caller  types.Principal   `json:"caller"`
	Amount  types.Tokens      `json:"amount"`
	Fee     types.Tokens      `json:"fee"`
	To      AccountIdentifier `json:"to"`
	Started time.Time         `json:"started"`

	state    State
	block    BlockIndex
	err      error
	resolved time.Time
}

// NewTransfer records a pending top-up attempt for the given caller.
func NewTransfer(caller types.Principal, amount, fee types.Tokens, to AccountIdentifier) *Transfer {
	return &Transfer{
		ID:      id.NewTransferID(),
		Caller:  caller,
		Amount:  amount,
		Fee:     fee,
		To:      to,
		Started: time.Now().UTC(),
		state:   StatePending,
	}
}

// Request builds the external transfer request for this attempt:
// zero memo, the requested amount, the fixed fee, the ledger's funding
// account as destination, default subaccount, no explicit timestamp.
func (t *Transfer) Request() Request {
	return Request{
		Memo:   0,
		Amount: t.Amount,
		Fee:    t.Fee,
		To:     t.To,
	}
}

// Settle moves a pending transfer to the settled state, recording the
// external ledger's block index. Settling a non-pending transfer panics;
// a transfer resolves exactly once.
func (t *Transfer) Settle(block BlockIndex) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StatePending {
		panic("funding: settle on resolved transfer")
	}
	t.state = StateSettled
	t.block = block
	t.resolved = time.Now().UTC()
}

// Fail moves a pending transfer to the failed state, recording the
// external error. Failing a non-pending transfer panics.
func (t *Transfer) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StatePending {
		panic("funding: fail on resolved transfer")
	}
	t.state = StateFailed
	t.err = err
	t.resolved = time.Now().UTC()
}

// State returns the current phase.
func (t *Transfer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Block returns the settlement block index and true once settled.
func (t *Transfer) Block() (BlockIndex, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.block, t.state == StateSettled
}

// Err returns the external failure once failed, nil otherwise.
func (t *Transfer) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Elapsed returns how long the attempt has been (or was) in flight.
func (t *Transfer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.resolved.IsZero() {
		return time.Since(t.Started)
	}
	return t.resolved.Sub(t.Started)
}
