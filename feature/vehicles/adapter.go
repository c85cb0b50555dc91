package vehicles

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"autosync/core/autogestor"
	"autosync/core/reconcile"
	"autosync/core/woocommerce"

	"go.uber.org/zap"
)

// SourceClient fetches the vehicle feed.
type SourceClient interface {
	FetchVehicles(ctx context.Context) ([]autogestor.Vehicle, error)
}

// CatalogClient reads and writes catalog products.
type CatalogClient interface {
	ListAll(ctx context.Context) ([]woocommerce.Product, error)
	FindBySKU(ctx context.Context, sku string) ([]woocommerce.Product, error)
	BatchCreate(ctx context.Context, inputs []woocommerce.ProductInput) (woocommerce.BatchResult, error)
	BatchUpdate(ctx context.Context, inputs []woocommerce.ProductInput) (woocommerce.BatchResult, error)
	Delete(ctx context.Context, id int) error
}

// Adapter reconciles the vehicle feed against the catalog products.
// It implements reconcile.Adapter, reconcile.Mutator and reconcile.Querier.
type Adapter struct {
	source     SourceClient
	catalog    CatalogClient
	normalizer *Normalizer
	logger     *zap.Logger
}

var (
	_ reconcile.Adapter = (*Adapter)(nil)
	_ reconcile.Mutator = (*Adapter)(nil)
	_ reconcile.Querier = (*Adapter)(nil)
)

// NewAdapter creates a vehicle adapter.
func NewAdapter(source SourceClient, catalog CatalogClient, normalizer *Normalizer, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		source:     source,
		catalog:    catalog,
		normalizer: normalizer,
		logger:     logger,
	}
}

// Name returns the unique name of this adapter.
func (a *Adapter) Name() string {
	return "vehicles"
}

// LoadSources fetches the full feed.
func (a *Adapter) LoadSources(ctx context.Context) ([]reconcile.SourceItem, error) {
	vehicles, err := a.source.FetchVehicles(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]reconcile.SourceItem, len(vehicles))
	for i, v := range vehicles {
		items[i] = v
	}
	return items, nil
}

// LoadTargets lists every catalog product.
func (a *Adapter) LoadTargets(ctx context.Context) ([]reconcile.TargetItem, error) {
	products, err := a.catalog.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toTargets(products), nil
}

// QueryTargets lists the catalog products carrying the SKU.
func (a *Adapter) QueryTargets(ctx context.Context, key string) ([]reconcile.TargetItem, error) {
	products, err := a.catalog.FindBySKU(ctx, key)
	if err != nil {
		return nil, err
	}
	return toTargets(products), nil
}

func toTargets(products []woocommerce.Product) []reconcile.TargetItem {
	items := make([]reconcile.TargetItem, len(products))
	for i, p := range products {
		items[i] = p
	}
	return items
}

// SourceKey returns the SKU of a vehicle.
func (a *Adapter) SourceKey(item reconcile.SourceItem) string {
	return item.(autogestor.Vehicle).SKU()
}

// TargetKey returns the SKU of a product.
func (a *Adapter) TargetKey(item reconcile.TargetItem) string {
	return item.(woocommerce.Product).SKU
}

// TargetID returns the product id.
func (a *Adapter) TargetID(item reconcile.TargetItem) string {
	return strconv.Itoa(item.(woocommerce.Product).ID)
}

// Normalize converts a vehicle into its catalog payload.
func (a *Adapter) Normalize(item reconcile.SourceItem) (reconcile.Payload, error) {
	return a.normalizer.Normalize(item.(autogestor.Vehicle))
}

// ResolveName returns the product name of a payload.
func (a *Adapter) ResolveName(p reconcile.Payload) string {
	return p.(Payload).Name
}

// CompareFields compares a payload with its product under the active profile.
func (a *Adapter) CompareFields(p reconcile.Payload, target reconcile.TargetItem) []string {
	return Compare(p.(Payload), target.(woocommerce.Product), a.normalizer.Profile())
}

// Exists reports whether a product with the SKU is in the catalog.
func (a *Adapter) Exists(ctx context.Context, key string) (bool, error) {
	products, err := a.catalog.FindBySKU(ctx, key)
	if err != nil {
		return false, err
	}
	return len(products) > 0, nil
}

// CreateBatch creates one batch of products.
func (a *Adapter) CreateBatch(ctx context.Context, actions []reconcile.Action) (reconcile.BatchOutcome, error) {
	inputs := make([]woocommerce.ProductInput, 0, len(actions))
	for _, action := range actions {
		inputs = append(inputs, action.Payload.(Payload).CreateInput())
	}

	res, err := a.catalog.BatchCreate(ctx, inputs)
	if err != nil {
		return reconcile.BatchOutcome{}, err
	}
	a.logItemErrors("create", res.Failed)

	ids := make(map[string]int, len(res.Succeeded))
	for _, item := range res.Succeeded {
		ids[item.SKU] = item.ID
	}
	accepted := make([]reconcile.Action, 0, len(res.Succeeded))
	for _, action := range actions {
		if id, ok := ids[action.Key]; ok {
			action.TargetID = strconv.Itoa(id)
			accepted = append(accepted, action)
		}
	}
	return reconcile.BatchOutcome{Succeeded: len(res.Succeeded), Failed: len(res.Failed), Accepted: accepted}, nil
}

// UpdateBatch updates one batch of products by id.
func (a *Adapter) UpdateBatch(ctx context.Context, actions []reconcile.Action) (reconcile.BatchOutcome, error) {
	inputs := make([]woocommerce.ProductInput, 0, len(actions))
	for _, action := range actions {
		id, err := strconv.Atoi(action.TargetID)
		if err != nil {
			return reconcile.BatchOutcome{}, fmt.Errorf("invalid product id %q for sku %s: %w", action.TargetID, action.Key, err)
		}
		inputs = append(inputs, action.Payload.(Payload).UpdateInput(id))
	}

	res, err := a.catalog.BatchUpdate(ctx, inputs)
	if err != nil {
		return reconcile.BatchOutcome{}, err
	}
	a.logItemErrors("update", res.Failed)

	updated := make(map[string]struct{}, len(res.Succeeded))
	for _, item := range res.Succeeded {
		updated[strconv.Itoa(item.ID)] = struct{}{}
	}
	accepted := make([]reconcile.Action, 0, len(res.Succeeded))
	for _, action := range actions {
		if _, ok := updated[action.TargetID]; ok {
			accepted = append(accepted, action)
		}
	}
	return reconcile.BatchOutcome{Succeeded: len(res.Succeeded), Failed: len(res.Failed), Accepted: accepted}, nil
}

// Delete force-deletes a product. A product that is already gone is not an error.
func (a *Adapter) Delete(ctx context.Context, targetID string) error {
	id, err := strconv.Atoi(targetID)
	if err != nil {
		return fmt.Errorf("invalid product id %q: %w", targetID, err)
	}

	if err := a.catalog.Delete(ctx, id); err != nil {
		if errors.Is(err, woocommerce.ErrNotFound) {
			a.logger.Debug("Product already deleted", zap.Int("id", id))
			return nil
		}
		return err
	}
	return nil
}

func (a *Adapter) logItemErrors(op string, failed []woocommerce.BatchItem) {
	for _, item := range failed {
		a.logger.Warn("Catalog rejected batch item",
			zap.String("operation", op),
			zap.String("sku", item.SKU),
			zap.Int("id", item.ID),
			zap.String("code", item.Error.Code),
			zap.String("message", item.Error.Message),
		)
	}
}
