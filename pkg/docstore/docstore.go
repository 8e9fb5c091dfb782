// Package docstore provides a minimal document store: full-document reads and
// last-write-wins upserts keyed by (collection, id). It is the only
// persistence surface the stock core talks to; callers must not assume any
// atomicity across calls.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Document is a stored record. Seq reflects insertion order within a
// collection and is stable across updates.
type Document struct {
	Collection string          `db:"collection" json:"collection"`
	ID         string          `db:"id" json:"id"`
	Seq        int64           `db:"seq" json:"seq"`
	Body       json.RawMessage `db:"body" json:"body"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// Decode unmarshals the document body into v.
func (d *Document) Decode(v interface{}) error {
	return json.Unmarshal(d.Body, v)
}

// Store is a document store. Put is a full-document upsert with
// last-write-wins semantics; Get returns a whole collection in insertion
// order.
type Store interface {
	Get(ctx context.Context, collection string) ([]Document, error)
	GetByID(ctx context.Context, collection, id string) (*Document, error)
	Put(ctx context.Context, collection, id string, record interface{}) error
	Delete(ctx context.Context, collection, id string) error
}
