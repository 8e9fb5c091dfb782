// Package service implements stock business logic on top of the
// ledger engine and repositories.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/cinestock/cinestock-backend/internal/stock/events"
	"github.com/cinestock/cinestock-backend/internal/stock/ledger"
	"github.com/cinestock/cinestock-backend/internal/stock/repository"
	"github.com/cinestock/cinestock-backend/pkg/actor"
	"github.com/cinestock/cinestock-backend/pkg/clock"
	"github.com/cinestock/cinestock-backend/pkg/errors"
	"github.com/cinestock/cinestock-backend/pkg/logger"
)

// StockService handles stock business logic
type StockService struct {
	itemRepo     *repository.ItemRepository
	movementRepo *repository.MovementRepository
	pickingRepo  *repository.PickingRepository
	engine       *ledger.Engine
	publisher    *events.StockEventPublisher
	clock        clock.Clock
	logger       *logger.Logger
}

// NewStockService creates a new stock service
func NewStockService(
	itemRepo *repository.ItemRepository,
	movementRepo *repository.MovementRepository,
	pickingRepo *repository.PickingRepository,
	publisher *events.StockEventPublisher,
	clk clock.Clock,
	log *logger.Logger,
) *StockService {
	return &StockService{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		pickingRepo:  pickingRepo,
		engine:       ledger.NewEngine(clk),
		publisher:    publisher,
		clock:        clk,
		logger:       log,
	}
}

// CreateItemRequest carries the attributes for a new stock item.
type CreateItemRequest struct {
	Name         string `json:"name" validate:"required"`
	Category     string `json:"category" validate:"required"`
	UnitSingular string `json:"unit_singular" validate:"required"`
	UnitPlural   string `json:"unit_plural" validate:"required"`
	PackSingular string `json:"pack_singular" validate:"required"`
	PackPlural   string `json:"pack_plural" validate:"required"`
	UnitsPerPack int    `json:"units_per_pack" validate:"required,gte=1"`
	MinPacks     int    `json:"min_packs" validate:"gte=0"`
}

// UpdateItemRequest carries updatable item attributes. Name is the
// item's identity and cannot change.
type UpdateItemRequest struct {
	Category     string `json:"category" validate:"required"`
	UnitSingular string `json:"unit_singular" validate:"required"`
	UnitPlural   string `json:"unit_plural" validate:"required"`
	PackSingular string `json:"pack_singular" validate:"required"`
	PackPlural   string `json:"pack_plural" validate:"required"`
	UnitsPerPack int    `json:"units_per_pack" validate:"required,gte=1"`
	MinPacks     int    `json:"min_packs" validate:"gte=0"`
}

// CreateItem creates a new stock item. Item names are unique;
// creating a duplicate fails with a conflict.
func (s *StockService) CreateItem(ctx context.Context, req CreateItemRequest) (*ledger.Item, error) {
	if _, err := s.itemRepo.GetByName(ctx, req.Name); err == nil {
		return nil, errors.Conflict("an item with this name already exists")
	} else if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	item := &ledger.Item{
		SchemaVersion: ledger.ItemSchemaVersion,
		ID:            uuid.New().String(),
		Name:          req.Name,
		Category:      req.Category,
		UnitSingular:  req.UnitSingular,
		UnitPlural:    req.UnitPlural,
		PackSingular:  req.PackSingular,
		PackPlural:    req.PackPlural,
		UnitsPerPack:  req.UnitsPerPack,
		MinPacks:      req.MinPacks,
		Variants:      []*ledger.Variant{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.publisher.PublishItemCreated(ctx, item)
	s.logger.Info().Str("item", item.Name).Msg("item created")
	return item, nil
}

// GetItem returns one item by name.
func (s *StockService) GetItem(ctx context.Context, name string) (*ledger.Item, error) {
	return s.itemRepo.GetByName(ctx, name)
}

// ListItems returns all items in insertion order.
func (s *StockService) ListItems(ctx context.Context) ([]*ledger.Item, error) {
	return s.itemRepo.List(ctx)
}

// UpdateItem updates an item's attributes. Variants and totals are
// untouched; only the ledger engine mutates those.
func (s *StockService) UpdateItem(ctx context.Context, name string, req UpdateItemRequest) (*ledger.Item, error) {
	item, err := s.itemRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	item.Category = req.Category
	item.UnitSingular = req.UnitSingular
	item.UnitPlural = req.UnitPlural
	item.PackSingular = req.PackSingular
	item.PackPlural = req.PackPlural
	item.UnitsPerPack = req.UnitsPerPack
	item.MinPacks = req.MinPacks
	item.UpdatedAt = s.clock.Now()

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item and publishes a deletion event. The
// movement history for the item is kept.
func (s *StockService) DeleteItem(ctx context.Context, name string) error {
	item, err := s.itemRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}

	if err := s.itemRepo.Delete(ctx, name); err != nil {
		return err
	}

	s.publisher.PublishItemDeleted(ctx, item)
	s.logger.Info().Str("item", name).Msg("item deleted")
	return nil
}

// RowResult is the outcome of one row of a transaction batch.
type RowResult struct {
	Row      int              `json:"row"`
	Movement *ledger.Movement `json:"movement,omitempty"`
	Item     *ledger.Item     `json:"item,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// ApplyTransactions applies a batch of transaction rows as an ordered
// sequence of independent single-item transactions. There is no
// cross-row atomicity: a failure on one row is recorded in its result
// and later rows still run.
func (s *StockService) ApplyTransactions(ctx context.Context, rows []ledger.TransactionRequest) []RowResult {
	results := make([]RowResult, len(rows))
	for i, row := range rows {
		results[i] = RowResult{Row: i}

		item, mv, err := s.applyOne(ctx, row)
		if err != nil {
			results[i].Error = err.Error()
			s.logger.Warn().Err(err).Int("row", i).Str("item", row.ItemName).Msg("transaction row failed")
			continue
		}
		results[i].Item = item
		results[i].Movement = mv
	}
	return results
}

// ApplyTransaction applies a single transaction row.
func (s *StockService) ApplyTransaction(ctx context.Context, req ledger.TransactionRequest) (*ledger.Item, *ledger.Movement, error) {
	return s.applyOne(ctx, req)
}

// applyOne runs one transaction end to end: load, mutate, persist
// item then movement, then fire events and alert checks. The two
// persistence writes are not atomic; a failure between them leaves
// the movement unrecorded and is surfaced to the caller, who must
// reload rather than trust the returned state.
func (s *StockService) applyOne(ctx context.Context, req ledger.TransactionRequest) (*ledger.Item, *ledger.Movement, error) {
	item, err := s.itemRepo.GetByName(ctx, req.ItemName)
	if err != nil {
		return nil, nil, err
	}

	performer := actor.FromContext(ctx).Performer()
	mv, err := s.engine.Apply(item, req, performer)
	if err != nil {
		return nil, nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, nil, err
	}
	if err := s.movementRepo.Append(ctx, mv); err != nil {
		return nil, nil, err
	}

	s.publisher.PublishMovementRecorded(ctx, mv)
	s.checkAlerts(ctx, item)

	return item, mv, nil
}

// checkAlerts fires alert events from the item's post-transaction
// state. Alerts are derived, never stored.
func (s *StockService) checkAlerts(ctx context.Context, item *ledger.Item) {
	if item.IsLowStock() {
		s.publisher.PublishLowStock(ctx, item)
	}

	now := s.clock.Now()
	for _, v := range item.Variants {
		if v.IsExpiringSoon(now, ledger.ExpiryHorizonDays) {
			days, _ := v.DaysUntilExpiry(now)
			s.publisher.PublishExpiringSoon(ctx, item, v, days)
		}
	}
}

// DashboardStats summarizes the whole inventory.
type DashboardStats struct {
	TotalItems        int            `json:"total_items"`
	TotalPacks        int            `json:"total_packs"`
	TotalValue        float64        `json:"total_value"`
	LowStockCount     int            `json:"low_stock_count"`
	ExpiringCount     int            `json:"expiring_count"`
	MovementsToday    int            `json:"movements_today"`
	CategoryBreakdown map[string]int `json:"category_breakdown"`
}

// GetDashboardStats computes inventory-wide statistics. Recomputed on
// every call; nothing is cached.
func (s *StockService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	today := now.Format(ledger.ExpiryLayout)
	todayMoves, err := s.movementRepo.ByDateRange(ctx, today, today)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		MovementsToday:    len(todayMoves),
		CategoryBreakdown: map[string]int{},
	}
	for _, item := range items {
		stats.TotalItems++
		stats.TotalPacks += item.TotalPacks
		stats.TotalValue += item.InventoryValue()
		stats.CategoryBreakdown[item.Category]++

		if item.IsLowStock() {
			stats.LowStockCount++
		}
		for _, v := range item.Variants {
			if v.IsExpiringSoon(now, ledger.ExpiryHorizonDays) {
				stats.ExpiringCount++
				break
			}
		}
	}
	return stats, nil
}

// matchesFilter reports whether the item passes a name substring
// filter (case-insensitive) and an exact category filter. Empty
// filters match everything.
func matchesFilter(item *ledger.Item, nameFilter, category string) bool {
	if nameFilter != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(nameFilter)) {
		return false
	}
	if category != "" && item.Category != category {
		return false
	}
	return true
}
