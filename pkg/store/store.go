// Package store defines the document store abstraction the console is built
// on: schemaless JSON documents grouped into collections, with top-level
// field patching and equality queries over indexed fields. Implementations
// provide read-after-write consistency on a single document and no
// cross-document transactions.
package store

import "context"

// Collection names used by the console.
const (
	CollectionCompanies   = "companies"
	CollectionWorkstreams = "workstreams"
	CollectionKBAssets    = "knowledgeBaseAssets"
	CollectionUsers       = "users"
)

// UniqueFields lists per-collection fields with a uniqueness constraint.
// Implementations must reject an Insert or Patch that would duplicate one.
var UniqueFields = map[string][]string{
	CollectionCompanies: {"slug"},
}

// IndexedFields lists per-collection fields that Query may filter on.
// Implementations may reject filters on other fields.
var IndexedFields = map[string][]string{
	CollectionCompanies:   {"slug"},
	CollectionWorkstreams: {"companyId", "type"},
	CollectionKBAssets:    {"companyId", "type"},
	CollectionUsers:       {"companyId", "email"},
}

// Document is a schemaless record. Field values are whatever
// encoding/json produces for the stored JSON.
type Document map[string]any

// ID returns the document's id field, or "" when absent.
func (d Document) ID() string {
	id, _ := d["id"].(string)

	return id
}

// Filter is an equality predicate over indexed top-level fields. An empty
// filter matches every document in the collection.
type Filter map[string]any

// Op identifies the kind of mutation that produced a change notification.
type Op string

const (
	OpInsert Op = "insert"
	OpPatch  Op = "patch"
	OpDelete Op = "delete"
)

// Notifier receives a change notification after every successful mutation.
// The event bus implements this to re-deliver reactive queries.
type Notifier interface {
	DocumentChanged(ctx context.Context, collection, id string, op Op)
}

// DocumentStore is the persistence contract every backend implements.
//
// Patch replaces the value of each named top-level field wholesale; it never
// deep-merges nested objects or arrays. Callers mutating an embedded array
// must therefore supply the full replacement array (see pkg/nested).
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Query(ctx context.Context, collection string, filter Filter) ([]Document, error)
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	Patch(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// Decode unmarshals a document into a typed model via a JSON round-trip.
func Decode(doc Document, target any) error {
	return roundTrip(doc, target)
}

// Encode converts a typed model into a document via a JSON round-trip.
func Encode(model any) (Document, error) {
	var doc Document
	if err := roundTrip(model, &doc); err != nil {
		return nil, err
	}

	return doc, nil
}
