package repository

import (
	"context"

	"github.com/cinestock/cinestock-backend/internal/stock/ledger"
	"github.com/cinestock/cinestock-backend/pkg/docstore"
	"github.com/cinestock/cinestock-backend/pkg/errors"
)

// RecentMovementLimit caps the movement feed.
const RecentMovementLimit = 100

// MovementRepository handles the append-only movement history.
type MovementRepository struct {
	store docstore.Store
}

// NewMovementRepository creates a new movement repository
func NewMovementRepository(store docstore.Store) *MovementRepository {
	return &MovementRepository{store: store}
}

// Append records a movement. Movements are immutable; nothing ever
// updates or deletes them.
func (r *MovementRepository) Append(ctx context.Context, mv *ledger.Movement) error {
	if err := r.store.Put(ctx, CollectionMovements, mv.ID, mv); err != nil {
		return errors.Persistence(err)
	}
	return nil
}

// Recent returns the most recent movements, newest first, capped at
// limit. A limit of zero or less falls back to RecentMovementLimit.
func (r *MovementRepository) Recent(ctx context.Context, limit int) ([]*ledger.Movement, error) {
	if limit <= 0 {
		limit = RecentMovementLimit
	}

	all, err := r.all(ctx)
	if err != nil {
		return nil, err
	}

	// Stored in insertion order; reverse for newest-first.
	recent := make([]*ledger.Movement, 0, limit)
	for i := len(all) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, all[i])
	}
	return recent, nil
}

// ByDateRange returns movements whose date falls inside the inclusive
// range [start, end]. Bounds are date-only strings in
// ledger.ExpiryLayout; an empty bound is open-ended. Results keep
// insertion order.
func (r *MovementRepository) ByDateRange(ctx context.Context, start, end string) ([]*ledger.Movement, error) {
	all, err := r.all(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*ledger.Movement, 0, len(all))
	for _, mv := range all {
		day := mv.Timestamp.Format(ledger.ExpiryLayout)
		if start != "" && day < start {
			continue
		}
		if end != "" && day > end {
			continue
		}
		filtered = append(filtered, mv)
	}
	return filtered, nil
}

// ByItem returns all movements for one item in insertion order.
func (r *MovementRepository) ByItem(ctx context.Context, itemName string) ([]*ledger.Movement, error) {
	all, err := r.all(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*ledger.Movement, 0, len(all))
	for _, mv := range all {
		if mv.ItemName == itemName {
			filtered = append(filtered, mv)
		}
	}
	return filtered, nil
}

func (r *MovementRepository) all(ctx context.Context) ([]*ledger.Movement, error) {
	docs, err := r.store.Get(ctx, CollectionMovements)
	if err != nil {
		return nil, errors.Persistence(err)
	}

	movements := make([]*ledger.Movement, 0, len(docs))
	for _, doc := range docs {
		mv := &ledger.Movement{}
		if err := doc.Decode(mv); err != nil {
			return nil, errors.Persistence(err)
		}
		movements = append(movements, mv)
	}
	return movements, nil
}
