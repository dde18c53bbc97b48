// Package observability provides a metrics extension for the skilltree
// ledger that records marketplace event counts and volumes.
package observability

import (
	"context"

	"github.com/tufstraka/Skilltree-NFT/account"
	"github.com/tufstraka/Skilltree-NFT/funding"
	"github.com/tufstraka/Skilltree-NFT/plugin"
	"github.com/tufstraka/Skilltree-NFT/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                 = (*MetricsExtension)(nil)
	_ plugin.OnInit                 = (*MetricsExtension)(nil)
	_ plugin.OnAssetMinted          = (*MetricsExtension)(nil)
	_ plugin.OnAssetPurchased       = (*MetricsExtension)(nil)
	_ plugin.OnResalePriceSet       = (*MetricsExtension)(nil)
	_ plugin.OnOwnershipTransferred = (*MetricsExtension)(nil)
	_ plugin.OnAssetDeactivated     = (*MetricsExtension)(nil)
	_ plugin.OnTopUpSettled         = (*MetricsExtension)(nil)
	_ plugin.OnTopUpFailed          = (*MetricsExtension)(nil)
	_ plugin.OnSnapshotSaved        = (*MetricsExtension)(nil)
	_ plugin.OnSnapshotRestored     = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide marketplace metrics.
// Register it as a Ledger plugin to automatically track activity.
type MetricsExtension struct {
	factory MetricFactory

	// Asset metrics
	AssetsMinted      Counter
	AssetsPurchased   Counter
	AssetsDeactivated Counter
	ResaleListings    Counter
	GiftTransfers     Counter
	SaleVolume        Histogram
	RoyaltyVolume     Histogram

	// Top-up metrics
	TopUpsSettled Counter
	TopUpsFailed  Counter
	TopUpAmount   Histogram

	// Snapshot metrics
	SnapshotsSaved    Counter
	SnapshotsRestored Counter

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Asset metrics
		AssetsMinted:      factory.Counter("skilltree.asset.minted"),
		AssetsPurchased:   factory.Counter("skilltree.asset.purchased"),
		AssetsDeactivated: factory.Counter("skilltree.asset.deactivated"),
		ResaleListings:    factory.Counter("skilltree.asset.resale_listed"),
		GiftTransfers:     factory.Counter("skilltree.asset.transferred"),
		SaleVolume:        factory.Histogram("skilltree.sale.amount_e8s"),
		RoyaltyVolume:     factory.Histogram("skilltree.royalty.amount_e8s"),

		// Top-up metrics
		TopUpsSettled: factory.Counter("skilltree.topup.settled"),
		TopUpsFailed:  factory.Counter("skilltree.topup.failed"),
		TopUpAmount:   factory.Histogram("skilltree.topup.amount_e8s"),

		// Snapshot metrics
		SnapshotsSaved:    factory.Counter("skilltree.snapshot.saved"),
		SnapshotsRestored: factory.Counter("skilltree.snapshot.restored"),

		// Error metrics
		StoreErrors:  factory.Counter("skilltree.store.errors"),
		PluginErrors: factory.Counter("skilltree.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Asset lifecycle hooks
// ──────────────────────────────────────────────────

// OnAssetMinted implements plugin.OnAssetMinted.
func (m *MetricsExtension) OnAssetMinted(_ context.Context, _ interface{}) error {
	m.AssetsMinted.Inc()
	return nil
}

// OnAssetPurchased implements plugin.OnAssetPurchased.
func (m *MetricsExtension) OnAssetPurchased(_ context.Context, payload interface{}) error {
	m.AssetsPurchased.Inc()
	if receipt, ok := payload.(*account.PurchaseReceipt); ok {
		m.SaleVolume.Observe(float64(receipt.Price))
		m.RoyaltyVolume.Observe(float64(receipt.Royalty))
	}
	return nil
}

// OnResalePriceSet implements plugin.OnResalePriceSet.
func (m *MetricsExtension) OnResalePriceSet(_ context.Context, _ uint64, _ types.Tokens) error {
	m.ResaleListings.Inc()
	return nil
}

// OnOwnershipTransferred implements plugin.OnOwnershipTransferred.
func (m *MetricsExtension) OnOwnershipTransferred(_ context.Context, _ uint64, _, _ types.Principal) error {
	m.GiftTransfers.Inc()
	return nil
}

// OnAssetDeactivated implements plugin.OnAssetDeactivated.
func (m *MetricsExtension) OnAssetDeactivated(_ context.Context, _ uint64) error {
	m.AssetsDeactivated.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Top-up hooks
// ──────────────────────────────────────────────────

// OnTopUpSettled implements plugin.OnTopUpSettled.
func (m *MetricsExtension) OnTopUpSettled(_ context.Context, payload interface{}) error {
	m.TopUpsSettled.Inc()
	if xfer, ok := payload.(*funding.Transfer); ok {
		m.TopUpAmount.Observe(float64(xfer.Amount))
	}
	return nil
}

// OnTopUpFailed implements plugin.OnTopUpFailed.
func (m *MetricsExtension) OnTopUpFailed(_ context.Context, _ interface{}, _ error) error {
	m.TopUpsFailed.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Snapshot hooks
// ──────────────────────────────────────────────────

// OnSnapshotSaved implements plugin.OnSnapshotSaved.
func (m *MetricsExtension) OnSnapshotSaved(_ context.Context, _ interface{}) error {
	m.SnapshotsSaved.Inc()
	return nil
}

// OnSnapshotRestored implements plugin.OnSnapshotRestored.
func (m *MetricsExtension) OnSnapshotRestored(_ context.Context, _ interface{}) error {
	m.SnapshotsRestored.Inc()
	return nil
}
