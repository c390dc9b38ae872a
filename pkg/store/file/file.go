// Package file provides a file system backed document store. Each document
// is one JSON file under <root>/<collection>/<id>.json.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store"
	"github.com/google/uuid"
)

// Store persists documents as JSON files. Queries load the whole collection
// and filter in memory, which is acceptable at console scale.
type Store struct {
	root     string
	notifier store.Notifier
}

// New creates a file-backed store rooted at the given directory.
func New(root string) *Store {
	return &Store{root: root}
}

// SetNotifier installs the change notifier invoked after every successful
// mutation.
func (s *Store) SetNotifier(n store.Notifier) {
	s.notifier = n
}

func (s *Store) Get(_ context.Context, collection, id string) (store.Document, error) {
	body, err := os.ReadFile(s.documentPath(collection, id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.NewDocumentError("Get", collection, id, store.ErrNotFound)
		}

		return nil, store.NewDocumentError("Get", collection, id, err)
	}

	var doc store.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, store.NewDocumentError("Get", collection, id,
			fmt.Errorf("failed to unmarshal document: %w", err))
	}

	return doc, nil
}

func (s *Store) Query(ctx context.Context, collection string, filter store.Filter) ([]store.Document, error) {
	if err := validateFilter(collection, filter); err != nil {
		return nil, err
	}

	docs, err := s.loadCollection(ctx, collection)
	if err != nil {
		return nil, err
	}

	results := make([]store.Document, 0)

	for _, doc := range docs {
		if matches(doc, filter) {
			results = append(results, doc)
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

	if _, err := os.Stat(s.documentPath(collection, id)); err == nil {
		return "", store.NewDocumentError("Insert", collection, id, store.ErrDuplicateValue)
	}

	if err := s.checkUnique(ctx, collection, id, doc); err != nil {
		return "", err
	}

	if err := s.write(collection, id, doc); err != nil {
		return "", err
	}

	if s.notifier != nil {
		s.notifier.DocumentChanged(ctx, collection, id, store.OpInsert)
	}

	return id, nil
}

func (s *Store) Patch(ctx context.Context, collection, id string, fields map[string]any) error {
	doc, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}

	for field, value := range fields {
		doc[field] = value
	}

	if err := s.checkUnique(ctx, collection, id, doc); err != nil {
		return err
	}

	if err := s.write(collection, id, doc); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.DocumentChanged(ctx, collection, id, store.OpPatch)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	err := os.Remove(s.documentPath(collection, id))
	if err != nil {
		if os.IsNotExist(err) {
			return store.NewDocumentError("Delete", collection, id, store.ErrNotFound)
		}

		return store.NewDocumentError("Delete", collection, id, err)
	}

	if s.notifier != nil {
		s.notifier.DocumentChanged(ctx, collection, id, store.OpDelete)
	}

	return nil
}

func (s *Store) HealthCheck(_ context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("store root unavailable: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("store root %s is not a directory", s.root)
	}

	return nil
}

func (s *Store) Close(_ context.Context) error {
	return nil
}

func (s *Store) documentPath(collection, id string) string {
	return filepath.Clean(path.Join(s.root, collection, id+".json"))
}

func (s *Store) write(collection, id string, doc store.Document) error {
	if err := os.MkdirAll(path.Join(s.root, collection), 0750); err != nil {
		return store.NewDocumentError("Save", collection, id,
			fmt.Errorf("failed to create collection directory: %w", err))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return store.NewDocumentError("Save", collection, id,
			fmt.Errorf("failed to marshal document: %w", err))
	}

	if err := os.WriteFile(s.documentPath(collection, id), data, 0600); err != nil {
		return store.NewDocumentError("Save", collection, id, err)
	}

	return nil
}

func (s *Store) loadCollection(ctx context.Context, collection string) ([]store.Document, error) {
	dir := path.Join(s.root, collection)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	jsonFiles, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, store.NewDocumentError("Query", collection, "",
			fmt.Errorf("failed to list documents: %w", err))
	}

	docs := make([]store.Document, 0, len(jsonFiles))

	for _, name := range jsonFiles {
		id := name[:len(name)-len(".json")]

		doc, err := s.Get(ctx, collection, id)
		if err != nil {
			if store.IsNotFound(err) {
				continue
			}

			return nil, err
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

// checkUnique scans the collection for another document carrying the same
// value for a unique field.
func (s *Store) checkUnique(ctx context.Context, collection, id string, doc store.Document) error {
	unique := store.UniqueFields[collection]
	if len(unique) == 0 {
		return nil
	}

	others, err := s.loadCollection(ctx, collection)
	if err != nil {
		return err
	}

	for _, field := range unique {
		value, ok := doc[field]
		if !ok {
			continue
		}

		for _, other := range others {
			if other.ID() == id {
				continue
			}

			if other[field] == value {
				return store.NewDocumentError("Save", collection, id,
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
