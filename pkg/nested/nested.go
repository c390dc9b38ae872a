// Package nested implements the patch protocol for embedded collections.
//
// The document store replaces the value of a named top-level field wholesale
// and never merges nested structures, so mutating one sub-entity or flow
// inside a workstream means: read the cached parent, build a new array where
// exactly the targeted element is replaced, and patch the whole field back
// in one document update. This package is that read-modify-write expressed
// once, parameterized by match predicate and collection field, instead of
// being hand-written per entity type.
package nested

import (
	"context"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/models"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store"
)

// Identifiable is implemented by every embedded record that can be targeted
// by id.
type Identifiable interface {
	GetID() string
}

// ByID matches the element with the given id.
func ByID[T Identifiable](id string) func(T) bool {
	return func(elem T) bool {
		return elem.GetID() == id
	}
}

// UpdateElement returns a new slice where the first element matched by match
// is replaced with update(elem). Every other element passes through
// unchanged, which is what keeps sibling data intact when the whole array is
// written back. The boolean reports whether a match was found.
func UpdateElement[T any](list []T, match func(T) bool, update func(T) T) ([]T, bool) {
	result := make([]T, len(list))
	copy(result, list)

	for i := range result {
		if match(result[i]) {
			result[i] = update(result[i])

			return result, true
		}
	}

	return result, false
}

// RemoveElement returns a new slice without the first element matched by
// match. The boolean reports whether a match was found.
func RemoveElement[T any](list []T, match func(T) bool) ([]T, bool) {
	result := make([]T, 0, len(list))
	found := false

	for _, elem := range list {
		if !found && match(elem) {
			found = true

			continue
		}

		result = append(result, elem)
	}

	return result, found
}

// AppendElement returns a new slice with elem added at the end.
func AppendElement[T any](list []T, elem T) []T {
	result := make([]T, len(list), len(list)+1)
	copy(result, list)

	return append(result, elem)
}

// Patcher writes rewritten embedded collections back to one parent document.
type Patcher struct {
	store      store.DocumentStore
	collection string
}

// NewPatcher creates a patcher for parents in the given store collection.
func NewPatcher(st store.DocumentStore, collection string) *Patcher {
	return &Patcher{store: st, collection: collection}
}

// ReplaceField patches the parent document, replacing the named array field
// with value and bumping the parent's lastModified in the same update. The
// store applies both fields atomically at document granularity.
func (p *Patcher) ReplaceField(ctx context.Context, parentID, field string, value any) error {
	encoded, err := store.EncodeValue(value)
	if err != nil {
		return err
	}

	return p.store.Patch(ctx, p.collection, parentID, map[string]any{
		field:          encoded,
		"lastModified": models.Today(),
	})
}

// ReplaceFields patches several array fields of the parent document in one
// update, bumping lastModified alongside.
func (p *Patcher) ReplaceFields(ctx context.Context, parentID string, fields map[string]any) error {
	patch := make(map[string]any, len(fields)+1)

	for field, value := range fields {
		encoded, err := store.EncodeValue(value)
		if err != nil {
			return err
		}

		patch[field] = encoded
	}

	patch["lastModified"] = models.Today()

	return p.store.Patch(ctx, p.collection, parentID, patch)
}
