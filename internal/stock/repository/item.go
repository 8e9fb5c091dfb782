// Package repository persists stock state through the document store.
// Repositories own their collections; nothing else reads or writes
// them directly.
package repository

import (
	"context"

	"github.com/cinestock/cinestock-backend/internal/stock/ledger"
	"github.com/cinestock/cinestock-backend/pkg/docstore"
	"github.com/cinestock/cinestock-backend/pkg/errors"
)

// Collection names.
const (
	CollectionInventory = "inventory"
	CollectionMovements = "movements"
	CollectionPickings  = "picking_lists"
)

// ItemRepository handles stock item persistence. Items are keyed by
// name, which is their identity.
type ItemRepository struct {
	store docstore.Store
}

// NewItemRepository creates a new item repository
func NewItemRepository(store docstore.Store) *ItemRepository {
	return &ItemRepository{store: store}
}

// List returns all items in insertion order.
func (r *ItemRepository) List(ctx context.Context) ([]*ledger.Item, error) {
	docs, err := r.store.Get(ctx, CollectionInventory)
	if err != nil {
		return nil, errors.Persistence(err)
	}

	items := make([]*ledger.Item, 0, len(docs))
	for _, doc := range docs {
		item := &ledger.Item{}
		if err := doc.Decode(item); err != nil {
			return nil, errors.Persistence(err)
		}
		items = append(items, item)
	}
	return items, nil
}

// GetByName returns the item with the given name.
func (r *ItemRepository) GetByName(ctx context.Context, name string) (*ledger.Item, error) {
	doc, err := r.store.GetByID(ctx, CollectionInventory, name)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, errors.NotFound("item")
		}
		return nil, errors.Persistence(err)
	}

	item := &ledger.Item{}
	if err := doc.Decode(item); err != nil {
		return nil, errors.Persistence(err)
	}
	return item, nil
}

// Save upserts the item, overwriting any previous document for the
// same name.
func (r *ItemRepository) Save(ctx context.Context, item *ledger.Item) error {
	if err := r.store.Put(ctx, CollectionInventory, item.Name, item); err != nil {
		return errors.Persistence(err)
	}
	return nil
}

// Delete removes the item.
func (r *ItemRepository) Delete(ctx context.Context, name string) error {
	if err := r.store.Delete(ctx, CollectionInventory, name); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return errors.NotFound("item")
		}
		return errors.Persistence(err)
	}
	return nil
}
