// Package memory provides an in-memory document store for tests and local
// development. It enforces the same unique and index constraints as the
// durable backends.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store"
	"github.com/google/uuid"
)

// Store is a map-backed DocumentStore. Safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]store.Document
	notifier    store.Notifier
	closed      bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		collections: make(map[string]map[string]store.Document),
	}
}

// SetNotifier installs the change notifier invoked after every successful
// mutation. Pass nil to disable notifications.
func (s *Store) SetNotifier(n store.Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

func (s *Store) Get(_ context.Context, collection, id string) (store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, ok := s.collections[collection]
	if !ok {
		return nil, store.NewDocumentError("Get", collection, id, store.ErrNotFound)
	}

	doc, ok := docs[id]
	if !ok {
		return nil, store.NewDocumentError("Get", collection, id, store.ErrNotFound)
	}

	return store.CloneDocument(doc), nil
}

func (s *Store) Query(_ context.Context, collection string, filter store.Filter) ([]store.Document, error) {
	if err := validateFilter(collection, filter); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]store.Document, 0)

	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			results = append(results, store.CloneDocument(doc))
		}
	}

	return results, nil
}

func (s *Store) Insert(ctx context.Context, collection string, doc store.Document) (string, error) {
	doc = store.CloneDocument(doc)

	id := doc.ID()
	if id == "" {
		id = uuid.NewString()
		doc["id"] = id
	}

	s.mu.Lock()

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]store.Document)
	}

	if _, exists := s.collections[collection][id]; exists {
		s.mu.Unlock()

		return "", store.NewDocumentError("Insert", collection, id, store.ErrDuplicateValue)
	}

	if err := s.checkUnique(collection, id, doc); err != nil {
		s.mu.Unlock()

		return "", err
	}

	s.collections[collection][id] = doc
	notifier := s.notifier
	s.mu.Unlock()

	if notifier != nil {
		notifier.DocumentChanged(ctx, collection, id, store.OpInsert)
	}

	return id, nil
}

func (s *Store) Patch(ctx context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()

	doc, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()

		return store.NewDocumentError("Patch", collection, id, store.ErrNotFound)
	}

	// Top-level field replacement on a copy, committed only when the
	// unique checks pass.
	updated := store.CloneDocument(doc)
	for field, value := range fields {
		updated[field] = value
	}

	if err := s.checkUnique(collection, id, updated); err != nil {
		s.mu.Unlock()

		return err
	}

	s.collections[collection][id] = store.CloneDocument(updated)
	notifier := s.notifier
	s.mu.Unlock()

	if notifier != nil {
		notifier.DocumentChanged(ctx, collection, id, store.OpPatch)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()

	if _, ok := s.collections[collection][id]; !ok {
		s.mu.Unlock()

		return store.NewDocumentError("Delete", collection, id, store.ErrNotFound)
	}

	delete(s.collections[collection], id)
	notifier := s.notifier
	s.mu.Unlock()

	if notifier != nil {
		notifier.DocumentChanged(ctx, collection, id, store.OpDelete)
	}

	return nil
}

func (s *Store) HealthCheck(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return fmt.Errorf("memory store is closed")
	}

	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true

	return nil
}

// checkUnique verifies that no other document in the collection carries the
// same value for any unique field. Caller must hold the write lock.
func (s *Store) checkUnique(collection, id string, doc store.Document) error {
	for _, field := range store.UniqueFields[collection] {
		value, ok := doc[field]
		if !ok {
			continue
		}

		for otherID, other := range s.collections[collection] {
			if otherID == id {
				continue
			}

			if other[field] == value {
				return store.NewDocumentError("Insert", collection, id,
					fmt.Errorf("%w: %s=%v", store.ErrDuplicateValue, field, value))
			}
		}
	}

	return nil
}

func validateFilter(collection string, filter store.Filter) error {
	indexed := store.IndexedFields[collection]

	for field := range filter {
		allowed := false

		for _, idx := range indexed {
			if idx == field {
				allowed = true

				break
			}
		}

		if !allowed {
			return store.NewDocumentError("Query", collection, "",
				fmt.Errorf("%w: %s", store.ErrUnindexedField, field))
		}
	}

	return nil
}

func matches(doc store.Document, filter store.Filter) bool {
	for field, want := range filter {
		if doc[field] != want {
			return false
		}
	}

	return true
}
