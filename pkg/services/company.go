package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/eventbus"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/events"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/models"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store"
	"github.com/google/uuid"
)

// Company manages tenant accounts and their ownership tree.
type Company struct {
	store  store.DocumentStore
	bus    eventbus.EventBus
	logger *slog.Logger
}

// NewCompany creates a company service. The bus may be nil in tests that do
// not observe events.
func NewCompany(st store.DocumentStore, bus eventbus.EventBus, logger *slog.Logger) *Company {
	return &Company{store: st, bus: bus, logger: logger}
}

// HealthCheck reports the health of the underlying store.
func (s *Company) HealthCheck(ctx context.Context) (string, bool) {
	if s.store == nil {
		return "Document store not initialized", false
	}

	if err := s.store.HealthCheck(ctx); err != nil {
		return "Document store is unhealthy: " + err.Error(), false
	}

	return "Document store is healthy", true
}

// Create registers a new company, deriving a unique URL-safe slug from the
// name. A duplicate slug race at insert time surfaces as ErrSlugTaken.
func (s *Company) Create(ctx context.Context, name string) (*models.Company, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrCompanyNameRequired
	}

	slug, err := uniqueSlug(ctx, s.store, Slugify(name))
	if err != nil {
		return nil, err
	}

	company := &models.Company{
		ID:           uuid.NewString(),
		Name:         name,
		Slug:         slug,
		CreatedAt:    time.Now().UTC(),
		LastModified: models.Today(),
	}

	doc, err := store.Encode(company)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Insert(ctx, store.CollectionCompanies, doc); err != nil {
		if store.IsDuplicateValue(err) {
			return nil, ErrSlugTaken
		}

		return nil, err
	}

	return company, nil
}

// Get retrieves a company by id.
func (s *Company) Get(ctx context.Context, id string) (*models.Company, error) {
	doc, err := s.store.Get(ctx, store.CollectionCompanies, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrCompanyNotFound
		}

		return nil, err
	}

	var company models.Company
	if err := store.Decode(doc, &company); err != nil {
		return nil, err
	}

	return &company, nil
}

// GetBySlug retrieves a company by its unique slug.
func (s *Company) GetBySlug(ctx context.Context, slug string) (*models.Company, error) {
	docs, err := s.store.Query(ctx, store.CollectionCompanies, store.Filter{"slug": slug})
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, ErrCompanyNotFound
	}

	var company models.Company
	if err := store.Decode(docs[0], &company); err != nil {
		return nil, err
	}

	return &company, nil
}

// List returns every company.
func (s *Company) List(ctx context.Context) ([]*models.Company, error) {
	docs, err := s.store.Query(ctx, store.CollectionCompanies, store.Filter{})
	if err != nil {
		return nil, err
	}

	companies := make([]*models.Company, 0, len(docs))

	for _, doc := range docs {
		var company models.Company
		if err := store.Decode(doc, &company); err != nil {
			return nil, err
		}

		companies = append(companies, &company)
	}

	return companies, nil
}

// Rename updates a company's display name. The slug is stable: links keep
// working after a rename.
func (s *Company) Rename(ctx context.Context, id, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrCompanyNameRequired
	}

	err := s.store.Patch(ctx, store.CollectionCompanies, id, map[string]any{
		"name":         name,
		"lastModified": models.Today(),
	})
	if err != nil {
		if store.IsNotFound(err) {
			return ErrCompanyNotFound
		}

		return err
	}

	return nil
}

// Delete removes a company and cascades to its workstreams, knowledge base
// assets, and users. The store offers no cross-document transactions, so the
// cascade is a sequence of independent deletes: children first, company
// last. Re-running after a partial failure resumes where it stopped, and a
// second complete run is a no-op. Orphans left by a hard mid-sequence
// failure are reclaimed by the sweeper.
func (s *Company) Delete(ctx context.Context, id string) error {
	workstreams, err := s.deleteChildren(ctx, store.CollectionWorkstreams, id)
	if err != nil {
		return err
	}

	assets, err := s.deleteChildren(ctx, store.CollectionKBAssets, id)
	if err != nil {
		return err
	}

	users, err := s.deleteChildren(ctx, store.CollectionUsers, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, store.CollectionCompanies, id); err != nil && !store.IsNotFound(err) {
		return err
	}

	if s.bus != nil {
		event := events.CompanyDeleted{
			BaseEvent: events.BaseEvent{
				ID:        s.bus.GenerateID(),
				Type:      events.CompanyDeletedEvent,
				Timestamp: time.Now().UTC(),
			},
			CompanyID:          id,
			WorkstreamsDeleted: workstreams,
			AssetsDeleted:      assets,
			UsersDeleted:       users,
		}
		if err := s.bus.Publish(ctx, id, event); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish company deletion", "company_id", id, "error", err)
		}
	}

	return nil
}

// deleteChildren removes every document in a collection owned by the
// company, tolerating documents that vanished since the query.
func (s *Company) deleteChildren(ctx context.Context, collection, companyID string) (int, error) {
	docs, err := s.store.Query(ctx, collection, store.Filter{"companyId": companyID})
	if err != nil {
		return 0, err
	}

	deleted := 0

	for _, doc := range docs {
		if err := s.store.Delete(ctx, collection, doc.ID()); err != nil {
			if store.IsNotFound(err) {
				continue
			}

			return deleted, err
		}

		deleted++
	}

	return deleted, nil
}

// AddUser registers a user under a company.
func (s *Company) AddUser(ctx context.Context, user *models.User) (*models.User, error) {
	if _, err := s.Get(ctx, user.CompanyID); err != nil {
		return nil, err
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	user.CreatedAt = time.Now().UTC()
	user.LastModified = models.Today()

	doc, err := store.Encode(user)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Insert(ctx, store.CollectionUsers, doc); err != nil {
		return nil, err
	}

	return user, nil
}

// ListUsers returns every user of a company.
func (s *Company) ListUsers(ctx context.Context, companyID string) ([]*models.User, error) {
	docs, err := s.store.Query(ctx, store.CollectionUsers, store.Filter{"companyId": companyID})
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, len(docs))

	for _, doc := range docs {
		var user models.User
		if err := store.Decode(doc, &user); err != nil {
			return nil, err
		}

		users = append(users, &user)
	}

	return users, nil
}
