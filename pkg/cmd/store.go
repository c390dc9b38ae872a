// Package cmd wires shared infrastructure (store, event bus) for the
// binaries under cmd/.
package cmd

import (
	"fmt"
	"strings"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store/file"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store/memory"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store/redis"
)

var supportedStoreProviders = []string{"memory", "file", "redis"}

// NotifiableStore is a document store that can emit change notifications.
// All bundled backends satisfy it.
type NotifiableStore interface {
	store.DocumentStore
	SetNotifier(store.Notifier)
}

// NewStore builds a document store from a database URL. "redis://..." selects
// the Redis backend, "memory://" the in-memory one, and anything else is
// treated as a filesystem root for the file backend.
func NewStore(databaseURL string) (NotifiableStore, error) {
	switch parseStoreProvider(databaseURL) {
	case "redis":
		st, err := redis.New(databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis store: %w", err)
		}

		return st, nil
	case "memory":
		return memory.New(), nil
	default:
		return file.New(strings.TrimPrefix(databaseURL, "file://")), nil
	}
}

func parseStoreProvider(databaseURL string) string {
	parts := strings.Split(databaseURL, "://")

	provider := parts[0]
	for _, supported := range supportedStoreProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}
