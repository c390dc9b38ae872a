package mocks

import (
	"context"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store"
	"github.com/stretchr/testify/mock"
)

// MockDocumentStore is a mock implementation of store.DocumentStore. Tests
// that need real persistence semantics should prefer the memory backend;
// this mock exists to script failures.
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Get(ctx context.Context, collection, id string) (store.Document, error) {
	args := m.Called(ctx, collection, id)

	doc, _ := args.Get(0).(store.Document)

	return doc, args.Error(1)
}

func (m *MockDocumentStore) Query(ctx context.Context, collection string, filter store.Filter) ([]store.Document, error) {
	args := m.Called(ctx, collection, filter)

	docs, _ := args.Get(0).([]store.Document)

	return docs, args.Error(1)
}

func (m *MockDocumentStore) Insert(ctx context.Context, collection string, doc store.Document) (string, error) {
	args := m.Called(ctx, collection, doc)

	return args.String(0), args.Error(1)
}

func (m *MockDocumentStore) Patch(ctx context.Context, collection, id string, fields map[string]any) error {
	args := m.Called(ctx, collection, id, fields)

	return args.Error(0)
}

func (m *MockDocumentStore) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)

	return args.Error(0)
}

func (m *MockDocumentStore) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockDocumentStore) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
