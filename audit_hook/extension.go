// Package audithook bridges Ledger marketplace events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/tufstraka/Skilltree-NFT/account"
	"github.com/tufstraka/Skilltree-NFT/asset"
	"github.com/tufstraka/Skilltree-NFT/funding"
	"github.com/tufstraka/Skilltree-NFT/id"
	"github.com/tufstraka/Skilltree-NFT/plugin"
	"github.com/tufstraka/Skilltree-NFT/types"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                 = (*Extension)(nil)
	_ plugin.OnAssetMinted          = (*Extension)(nil)
	_ plugin.OnAssetPurchased       = (*Extension)(nil)
	_ plugin.OnResalePriceSet       = (*Extension)(nil)
	_ plugin.OnOwnershipTransferred = (*Extension)(nil)
	_ plugin.OnAssetDeactivated     = (*Extension)(nil)
	_ plugin.OnTopUpSettled         = (*Extension)(nil)
	_ plugin.OnTopUpFailed          = (*Extension)(nil)
	_ plugin.OnSnapshotSaved        = (*Extension)(nil)
	_ plugin.OnSnapshotRestored     = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly; callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Ledger marketplace events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Asset lifecycle hooks
// ──────────────────────────────────────────────────

// OnAssetMinted implements plugin.OnAssetMinted.
func (e *Extension) OnAssetMinted(ctx context.Context, payload interface{}) error {
	a, ok := payload.(*asset.Asset)
	if !ok {
		return e.record(ctx, ActionAssetMinted, SeverityInfo, OutcomeSuccess,
			ResourceAsset, "", CategoryMarketplace, nil,
			"event", "asset_minted",
		)
	}
	return e.record(ctx, ActionAssetMinted, SeverityInfo, OutcomeSuccess,
		ResourceAsset, formatAssetID(a.ID), CategoryMarketplace, nil,
		"creator", string(a.Creator),
		"price", uint64(a.Price),
		"title", a.Title,
	)
}

// OnAssetPurchased implements plugin.OnAssetPurchased.
func (e *Extension) OnAssetPurchased(ctx context.Context, payload interface{}) error {
	receipt, ok := payload.(*account.PurchaseReceipt)
	if !ok {
		return e.record(ctx, ActionAssetPurchased, SeverityInfo, OutcomeSuccess,
			ResourceAsset, "", CategoryMarketplace, nil,
			"event", "asset_purchased",
		)
	}
	return e.record(ctx, ActionAssetPurchased, SeverityInfo, OutcomeSuccess,
		ResourceAsset, formatAssetID(receipt.AssetID), CategoryMarketplace, nil,
		"buyer", string(receipt.Buyer),
		"previous_owner", string(receipt.PreviousOwner),
		"creator", string(receipt.Creator),
		"price", uint64(receipt.Price),
		"royalty", uint64(receipt.Royalty),
	)
}

// OnResalePriceSet implements plugin.OnResalePriceSet.
func (e *Extension) OnResalePriceSet(ctx context.Context, assetID uint64, price types.Tokens) error {
	return e.record(ctx, ActionResalePriceSet, SeverityInfo, OutcomeSuccess,
		ResourceAsset, formatAssetID(assetID), CategoryMarketplace, nil,
		"price", uint64(price),
	)
}

// OnOwnershipTransferred implements plugin.OnOwnershipTransferred.
func (e *Extension) OnOwnershipTransferred(ctx context.Context, assetID uint64, from, to types.Principal) error {
	return e.record(ctx, ActionOwnershipTransferred, SeverityInfo, OutcomeSuccess,
		ResourceAsset, formatAssetID(assetID), CategoryMarketplace, nil,
		"from", string(from),
		"to", string(to),
	)
}

// OnAssetDeactivated implements plugin.OnAssetDeactivated.
func (e *Extension) OnAssetDeactivated(ctx context.Context, assetID uint64) error {
	return e.record(ctx, ActionAssetDeactivated, SeverityWarning, OutcomeSuccess,
		ResourceAsset, formatAssetID(assetID), CategoryMarketplace, nil,
		"event", "asset_deactivated",
	)
}

// ──────────────────────────────────────────────────
// Top-up hooks
// ──────────────────────────────────────────────────

// OnTopUpSettled implements plugin.OnTopUpSettled.
func (e *Extension) OnTopUpSettled(ctx context.Context, payload interface{}) error {
	xfer, ok := payload.(*funding.Transfer)
	if !ok {
		return e.record(ctx, ActionTopUpSettled, SeverityInfo, OutcomeSuccess,
			ResourceTransfer, "", CategoryFunding, nil,
			"event", "topup_settled",
		)
	}
	return e.record(ctx, ActionTopUpSettled, SeverityInfo, OutcomeSuccess,
		ResourceTransfer, xfer.ID.String(), CategoryFunding, nil,
		"caller", string(xfer.Caller),
		"amount", uint64(xfer.Amount),
	)
}

// OnTopUpFailed implements plugin.OnTopUpFailed.
func (e *Extension) OnTopUpFailed(ctx context.Context, payload interface{}, cause error) error {
	xfer, ok := payload.(*funding.Transfer)
	if !ok {
		return e.record(ctx, ActionTopUpFailed, SeverityError, OutcomeFailure,
			ResourceTransfer, "", CategoryFunding, cause,
			"event", "topup_failed",
		)
	}
	return e.record(ctx, ActionTopUpFailed, SeverityError, OutcomeFailure,
		ResourceTransfer, xfer.ID.String(), CategoryFunding, cause,
		"caller", string(xfer.Caller),
		"amount", uint64(xfer.Amount),
	)
}

// ──────────────────────────────────────────────────
// Snapshot hooks
// ──────────────────────────────────────────────────

// OnSnapshotSaved implements plugin.OnSnapshotSaved.
func (e *Extension) OnSnapshotSaved(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionSnapshotSaved, SeverityInfo, OutcomeSuccess,
		ResourceSnapshot, "", CategoryPersistence, nil,
		"event", "snapshot_saved",
	)
}

// OnSnapshotRestored implements plugin.OnSnapshotRestored.
func (e *Extension) OnSnapshotRestored(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionSnapshotRestored, SeverityWarning, OutcomeSuccess,
		ResourceSnapshot, "", CategoryPersistence, nil,
		"event", "snapshot_restored",
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		ID:         id.NewAuditID().String(),
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}

func formatAssetID(assetID uint64) string {
	return strconv.FormatUint(assetID, 10)
}
