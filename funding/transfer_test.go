package funding

import (
	"errors"
	"testing"

	"github.com/tufstraka/Skilltree-NFT/types"
)

func TestNewTransfer(t *testing.T) {
	xfer := NewTransfer("alice", types.E8s(500), DefaultFee, "funding-account")

	if xfer.State() != StatePending {
		t.Errorf("expected pending, got %s", xfer.State())
	}
	if xfer.ID.IsNil() {
		t.Error("expected a transfer id")
	}
	if xfer.Caller != "alice" {
		t.Errorf("caller: got %s, want alice", xfer.Caller)
	}
	if _, ok := xfer.Block(); ok {
		t.Error("pending transfer should have no block")
	}
	if xfer.Err() != nil {
		t.Errorf("pending transfer should have no error, got %v", xfer.Err())
	}
}

func TestTransferRequest(t *testing.T) {
	xfer := NewTransfer("alice", types.E8s(500), types.E8s(10), "funding-account")
	req := xfer.Request()

	if req.Memo != 0 {
		t.Errorf("memo: got %d, want 0", req.Memo)
	}
	if req.Amount != types.E8s(500) {
		t.Errorf("amount: got %v, want %v", req.Amount, types.E8s(500))
	}
	if req.Fee != types.E8s(10) {
		t.Errorf("fee: got %v, want %v", req.Fee, types.E8s(10))
	}
	if req.To != "funding-account" {
		t.Errorf("to: got %s, want funding-account", req.To)
	}
	if req.FromSubaccount != nil {
		t.Error("expected default subaccount")
	}
}

func TestTransferSettle(t *testing.T) {
	xfer := NewTransfer("alice", types.E8s(500), DefaultFee, "acct")
	xfer.Settle(42)

	if xfer.State() != StateSettled {
		t.Errorf("expected settled, got %s", xfer.State())
	}
	block, ok := xfer.Block()
	if !ok || block != 42 {
		t.Errorf("block: got (%d, %v), want (42, true)", block, ok)
	}
}

func TestTransferFail(t *testing.T) {
	cause := errors.New("ledger unavailable")
	xfer := NewTransfer("alice", types.E8s(500), DefaultFee, "acct")
	xfer.Fail(cause)

	if xfer.State() != StateFailed {
		t.Errorf("expected failed, got %s", xfer.State())
	}
	if !errors.Is(xfer.Err(), cause) {
		t.Errorf("err: got %v, want %v", xfer.Err(), cause)
	}
	if _, ok := xfer.Block(); ok {
		t.Error("failed transfer should have no block")
	}
}

func TestTransferResolvesOnce(t *testing.T) {
	t.Run("SettleAfterSettle", func(t *testing.T) {
		xfer := NewTransfer("alice", types.E8s(1), DefaultFee, "acct")
		xfer.Settle(1)

		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic on double settle")
			}
		}()
		xfer.Settle(2)
	})

	t.Run("FailAfterSettle", func(t *testing.T) {
		xfer := NewTransfer("alice", types.E8s(1), DefaultFee, "acct")
		xfer.Settle(1)

		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic on fail after settle")
			}
		}()
		xfer.Fail(errors.New("late error"))
	})
}
