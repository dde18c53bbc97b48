package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/tufstraka/Skilltree-NFT/types"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                 []OnInit
	onShutdown             []OnShutdown
	onAssetMinted          []OnAssetMinted
	onAssetPurchased       []OnAssetPurchased
	onResalePriceSet       []OnResalePriceSet
	onOwnershipTransferred []OnOwnershipTransferred
	onAssetDeactivated     []OnAssetDeactivated
	onTopUpSettled         []OnTopUpSettled
	onTopUpFailed          []OnTopUpFailed
	onSnapshotSaved        []OnSnapshotSaved
	onSnapshotRestored     []OnSnapshotRestored
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnAssetMinted); ok {
		r.onAssetMinted = append(r.onAssetMinted, v)
	}
	if v, ok := p.(OnAssetPurchased); ok {
		r.onAssetPurchased = append(r.onAssetPurchased, v)
	}
	if v, ok := p.(OnResalePriceSet); ok {
		r.onResalePriceSet = append(r.onResalePriceSet, v)
	}
	if v, ok := p.(OnOwnershipTransferred); ok {
		r.onOwnershipTransferred = append(r.onOwnershipTransferred, v)
	}
	if v, ok := p.(OnAssetDeactivated); ok {
		r.onAssetDeactivated = append(r.onAssetDeactivated, v)
	}
	if v, ok := p.(OnTopUpSettled); ok {
		r.onTopUpSettled = append(r.onTopUpSettled, v)
	}
	if v, ok := p.(OnTopUpFailed); ok {
		r.onTopUpFailed = append(r.onTopUpFailed, v)
	}
	if v, ok := p.(OnSnapshotSaved); ok {
		r.onSnapshotSaved = append(r.onSnapshotSaved, v)
	}
	if v, ok := p.(OnSnapshotRestored); ok {
		r.onSnapshotRestored = append(r.onSnapshotRestored, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	// List all interfaces to check
	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnAssetMinted)(nil)).Elem(), "OnAssetMinted")
	checkInterface(reflect.TypeOf((*OnAssetPurchased)(nil)).Elem(), "OnAssetPurchased")
	checkInterface(reflect.TypeOf((*OnResalePriceSet)(nil)).Elem(), "OnResalePriceSet")
	checkInterface(reflect.TypeOf((*OnOwnershipTransferred)(nil)).Elem(), "OnOwnershipTransferred")
	checkInterface(reflect.TypeOf((*OnAssetDeactivated)(nil)).Elem(), "OnAssetDeactivated")
	checkInterface(reflect.TypeOf((*OnTopUpSettled)(nil)).Elem(), "OnTopUpSettled")
	checkInterface(reflect.TypeOf((*OnTopUpFailed)(nil)).Elem(), "OnTopUpFailed")
	checkInterface(reflect.TypeOf((*OnSnapshotSaved)(nil)).Elem(), "OnSnapshotSaved")
	checkInterface(reflect.TypeOf((*OnSnapshotRestored)(nil)).Elem(), "OnSnapshotRestored")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, ledger interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, ledger)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitAssetMinted emits an asset minted event.
func (r *Registry) EmitAssetMinted(ctx context.Context, a interface{}) {
	r.mu.RLock()
	plugins := r.onAssetMinted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnAssetMinted(ctx, a)
		}); err != nil {
			r.logger.Warn("plugin OnAssetMinted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitAssetPurchased emits an asset purchased event.
func (r *Registry) EmitAssetPurchased(ctx context.Context, receipt interface{}) {
	r.mu.RLock()
	plugins := r.onAssetPurchased
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnAssetPurchased(ctx, receipt)
		}); err != nil {
			r.logger.Warn("plugin OnAssetPurchased failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitResalePriceSet emits a resale listing event.
func (r *Registry) EmitResalePriceSet(ctx context.Context, assetID uint64, price types.Tokens) {
	r.mu.RLock()
	plugins := r.onResalePriceSet
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnResalePriceSet(ctx, assetID, price)
		}); err != nil {
			r.logger.Warn("plugin OnResalePriceSet failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitOwnershipTransferred emits an ownership transferred event.
func (r *Registry) EmitOwnershipTransferred(ctx context.Context, assetID uint64, from, to types.Principal) {
	r.mu.RLock()
	plugins := r.onOwnershipTransferred
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOwnershipTransferred(ctx, assetID, from, to)
		}); err != nil {
			r.logger.Warn("plugin OnOwnershipTransferred failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitAssetDeactivated emits an asset deactivated event.
func (r *Registry) EmitAssetDeactivated(ctx context.Context, assetID uint64) {
	r.mu.RLock()
	plugins := r.onAssetDeactivated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnAssetDeactivated(ctx, assetID)
		}); err != nil {
			r.logger.Warn("plugin OnAssetDeactivated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTopUpSettled emits a top-up settled event.
func (r *Registry) EmitTopUpSettled(ctx context.Context, transfer interface{}) {
	r.mu.RLock()
	plugins := r.onTopUpSettled
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTopUpSettled(ctx, transfer)
		}); err != nil {
			r.logger.Warn("plugin OnTopUpSettled failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTopUpFailed emits a top-up failed event.
func (r *Registry) EmitTopUpFailed(ctx context.Context, transfer interface{}, cause error) {
	r.mu.RLock()
	plugins := r.onTopUpFailed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTopUpFailed(ctx, transfer, cause)
		}); err != nil {
			r.logger.Warn("plugin OnTopUpFailed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSnapshotSaved emits a snapshot saved event.
func (r *Registry) EmitSnapshotSaved(ctx context.Context, snap interface{}) {
	r.mu.RLock()
	plugins := r.onSnapshotSaved
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSnapshotSaved(ctx, snap)
		}); err != nil {
			r.logger.Warn("plugin OnSnapshotSaved failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSnapshotRestored emits a snapshot restored event.
func (r *Registry) EmitSnapshotRestored(ctx context.Context, snap interface{}) {
	r.mu.RLock()
	plugins := r.onSnapshotRestored
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSnapshotRestored(ctx, snap)
		}); err != nil {
			r.logger.Warn("plugin OnSnapshotRestored failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the marketplace pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
