// Package redis provides a Redis backed document store. Each collection is
// one hash keyed by document id, with JSON-encoded values.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "cxconsole:"

// Store persists documents in Redis hashes. Queries load the collection and
// filter client-side; at console scale collections stay small.
type Store struct {
	client   *goredis.Client
	notifier store.Notifier
}

// New creates a Redis-backed store from a redis:// connection URL.
func New(redisURL string) (*Store, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &Store{client: goredis.NewClient(opts)}, nil
}

// SetNotifier installs the change notifier invoked after every successful
// mutation.
func (s *Store) SetNotifier(n store.Notifier) {
	s.notifier = n
}

func collectionKey(collection string) string {
	return keyPrefix + collection
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.Document, error) {
	body, err := s.client.HGet(ctx, collectionKey(collection), id).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, store.NewDocumentError("Get", collection, id, store.ErrNotFound)
		}

		return nil, store.NewDocumentError("Get", collection, id, err)
	}

	var doc store.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, store.NewDocumentError("Get", collection, id,
			fmt.Errorf("failed to unmarshal document: %w", err))
	}

	return doc, nil
}

func (s *Store) Query(ctx context.Context, collection string, filter store.Filter) ([]store.Document, error) {
	if err := validateFilter(collection, filter); err != nil {
		return nil, err
	}

	values, err := s.client.HVals(ctx, collectionKey(collection)).Result()
	if err != nil {
		return nil, store.NewDocumentError("Query", collection, "", err)
	}

	results := make([]store.Document, 0)

	for _, body := range values {
		var doc store.Document
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, store.NewDocumentError("Query", collection, "",
				fmt.Errorf("failed to unmarshal document: %w", err))
		}

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

	exists, err := s.client.HExists(ctx, collectionKey(collection), id).Result()
	if err != nil {
		return "", store.NewDocumentError("Insert", collection, id, err)
	}

	if exists {
		return "", store.NewDocumentError("Insert", collection, id, store.ErrDuplicateValue)
	}

	if err := s.checkUnique(ctx, collection, id, doc); err != nil {
		return "", err
	}

	if err := s.write(ctx, collection, id, doc); err != nil {
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

	if err := s.write(ctx, collection, id, doc); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.DocumentChanged(ctx, collection, id, store.OpPatch)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	removed, err := s.client.HDel(ctx, collectionKey(collection), id).Result()
	if err != nil {
		return store.NewDocumentError("Delete", collection, id, err)
	}

	if removed == 0 {
		return store.NewDocumentError("Delete", collection, id, store.ErrNotFound)
	}

	if s.notifier != nil {
		s.notifier.DocumentChanged(ctx, collection, id, store.OpDelete)
	}

	return nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

func (s *Store) Close(_ context.Context) error {
	return s.client.Close()
}

func (s *Store) write(ctx context.Context, collection, id string, doc store.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return store.NewDocumentError("Save", collection, id,
			fmt.Errorf("failed to marshal document: %w", err))
	}

	if err := s.client.HSet(ctx, collectionKey(collection), id, string(data)).Err(); err != nil {
		return store.NewDocumentError("Save", collection, id, err)
	}

	return nil
}

func (s *Store) checkUnique(ctx context.Context, collection, id string, doc store.Document) error {
	unique := store.UniqueFields[collection]
	if len(unique) == 0 {
		return nil
	}

	others, err := s.Query(ctx, collection, store.Filter{})
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
