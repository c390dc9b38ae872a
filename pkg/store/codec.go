package store

import (
	"encoding/json"
	"fmt"
)

// EncodeValue converts any model value into its JSON-shaped form (maps,
// slices, and primitives), suitable for use as a Patch field value.
func EncodeValue(v any) (any, error) {
	var encoded any
	if err := roundTrip(v, &encoded); err != nil {
		return nil, err
	}

	return encoded, nil
}

// CloneDocument returns an independent deep copy of a document. Backends
// hand out clones so callers can never mutate stored state in place.
func CloneDocument(doc Document) Document {
	if doc == nil {
		return nil
	}

	var cloned Document
	if err := roundTrip(doc, &cloned); err != nil {
		// Documents always originate from JSON, so a re-encode cannot fail.
		panic(err)
	}

	return cloned
}

// roundTrip copies src into target through a JSON encode/decode cycle. It is
// the single conversion path between typed models and schemaless documents,
// so field names always match the models' json tags.
func roundTrip(src, target any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	return nil
}
