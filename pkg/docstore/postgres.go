package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/cinestock/cinestock-backend/pkg/database"
)

// Postgres implements Store on a single JSONB documents table. Upserts use
// ON CONFLICT DO UPDATE, so a concurrent writer's full document wins or loses
// wholesale (last write wins), matching the upstream backend's overwrite
// semantics.
type Postgres struct {
	db *database.DB
}

// NewPostgres creates a Postgres-backed document store.
func NewPostgres(db *database.DB) *Postgres {
	return &Postgres{db: db}
}

// Schema is the documents table DDL. Seq is assigned on first insert and kept
// on update so collection scans preserve insertion order.
const Schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	seq        BIGSERIAL,
	body       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS documents_collection_seq_idx ON documents (collection, seq);
`

// Migrate creates the documents table if it does not exist.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return nil
}

// Get returns all documents in a collection in insertion order.
func (s *Postgres) Get(ctx context.Context, collection string) ([]Document, error) {
	var docs []Document
	query := `
		SELECT collection, id, seq, body, updated_at
		FROM documents WHERE collection = $1
		ORDER BY seq
	`
	if err := s.db.SelectContext(ctx, &docs, query, collection); err != nil {
		return nil, err
	}
	return docs, nil
}

// GetByID returns a single document.
func (s *Postgres) GetByID(ctx context.Context, collection, id string) (*Document, error) {
	var doc Document
	query := `
		SELECT collection, id, seq, body, updated_at
		FROM documents WHERE collection = $1 AND id = $2
	`
	if err := s.db.GetContext(ctx, &doc, query, collection, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// Put upserts a full document, last write wins.
func (s *Postgres) Put(ctx context.Context, collection, id string, record interface{}) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	query := `
		INSERT INTO documents (collection, id, body)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id)
		DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, collection, id, body); err != nil {
		return err
	}
	return nil
}

// Delete removes a document.
func (s *Postgres) Delete(ctx context.Context, collection, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
