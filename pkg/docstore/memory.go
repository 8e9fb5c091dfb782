package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Memory implements Store with in-process maps. Collection order is insertion
// order, matching the Postgres implementation. Used by unit tests and local
// tooling.
type Memory struct {
	mu      sync.RWMutex
	docs    map[string]map[string]*Document
	order   map[string][]string
	nextSeq int64

	// FailNext, when set, makes the next mutating call fail with the given
	// error. Tests use it to exercise persistence failure paths.
	FailNext error
}

// NewMemory creates an empty in-memory document store.
func NewMemory() *Memory {
	return &Memory{
		docs:  make(map[string]map[string]*Document),
		order: make(map[string][]string),
	}
}

func (s *Memory) takeFailure() error {
	err := s.FailNext
	s.FailNext = nil
	return err
}

// Get returns all documents in a collection in insertion order.
func (s *Memory) Get(ctx context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.order[collection]
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, *s.docs[collection][id])
	}
	return docs, nil
}

// GetByID returns a single document.
func (s *Memory) GetByID(ctx context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

// Put upserts a full document, last write wins.
func (s *Memory) Put(ctx context.Context, collection, id string, record interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}

	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]*Document)
	}

	if existing, ok := s.docs[collection][id]; ok {
		existing.Body = body
		existing.UpdatedAt = time.Now()
		return nil
	}

	s.nextSeq++
	s.docs[collection][id] = &Document{
		Collection: collection,
		ID:         id,
		Seq:        s.nextSeq,
		Body:       body,
		UpdatedAt:  time.Now(),
	}
	s.order[collection] = append(s.order[collection], id)
	return nil
}

// Delete removes a document.
func (s *Memory) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}

	if _, ok := s.docs[collection][id]; !ok {
		return ErrNotFound
	}
	delete(s.docs[collection], id)

	ids := s.order[collection]
	for i, existing := range ids {
		if existing == id {
			s.order[collection] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}
