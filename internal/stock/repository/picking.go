package repository

import (
	"context"
	"time"

	"github.com/cinestock/cinestock-backend/pkg/docstore"
	"github.com/cinestock/cinestock-backend/pkg/errors"
)

// RecentPickingLimit caps the picking list feed.
const RecentPickingLimit = 50

// PickingSchemaVersion is the persisted document version.
const PickingSchemaVersion = 1

// Picking list statuses.
const (
	PickingPending   = "pending"
	PickingDone      = "done"
	PickingCancelled = "cancelled"
)

// PickingLine is one item line of a picking list.
type PickingLine struct {
	ItemName     string `json:"item_name"`
	PackQuantity int    `json:"pack_quantity"`
	UnitQuantity int    `json:"unit_quantity"`
}

// PickingList is a prepared list of stock to pull. Completing it
// applies the lines as outgoing transactions.
type PickingList struct {
	SchemaVersion int           `json:"schema_version"`
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Status        string        `json:"status"`
	Lines         []PickingLine `json:"lines"`
	Notes         string        `json:"notes,omitempty"`
	CreatedBy     string        `json:"created_by"`
	CreatedAt     time.Time     `json:"created_at"`
	PickedBy      string        `json:"picked_by,omitempty"`
	PickedAt      *time.Time    `json:"picked_at,omitempty"`
	CancelledBy   string        `json:"cancelled_by,omitempty"`
}

// PickingRepository handles picking list persistence.
type PickingRepository struct {
	store docstore.Store
}

// NewPickingRepository creates a new picking repository
func NewPickingRepository(store docstore.Store) *PickingRepository {
	return &PickingRepository{store: store}
}

// GetByID returns the picking list with the given id.
func (r *PickingRepository) GetByID(ctx context.Context, id string) (*PickingList, error) {
	doc, err := r.store.GetByID(ctx, CollectionPickings, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, errors.NotFound("picking list")
		}
		return nil, errors.Persistence(err)
	}

	p := &PickingList{}
	if err := doc.Decode(p); err != nil {
		return nil, errors.Persistence(err)
	}
	return p, nil
}

// Recent returns the most recent picking lists, newest first, capped
// at limit. A limit of zero or less falls back to RecentPickingLimit.
func (r *PickingRepository) Recent(ctx context.Context, limit int) ([]*PickingList, error) {
	if limit <= 0 {
		limit = RecentPickingLimit
	}

	docs, err := r.store.Get(ctx, CollectionPickings)
	if err != nil {
		return nil, errors.Persistence(err)
	}

	recent := make([]*PickingList, 0, limit)
	for i := len(docs) - 1; i >= 0 && len(recent) < limit; i-- {
		p := &PickingList{}
		if err := docs[i].Decode(p); err != nil {
			return nil, errors.Persistence(err)
		}
		recent = append(recent, p)
	}
	return recent, nil
}

// Save upserts the picking list.
func (r *PickingRepository) Save(ctx context.Context, p *PickingList) error {
	if err := r.store.Put(ctx, CollectionPickings, p.ID, p); err != nil {
		return errors.Persistence(err)
	}
	return nil
}
