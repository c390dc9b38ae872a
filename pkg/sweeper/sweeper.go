// Package sweeper reclaims orphaned documents. Company deletion cascades
// over children with no cross-document transaction, so a failure mid-cascade
// can leave workstreams, assets, or users pointing at a company that no
// longer exists. The sweeper re-runs that cleanup on a schedule, which makes
// the cascade eventually complete.
package sweeper

import (
	"context"
	"log/slog"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs the sweep at the top of every hour.
const DefaultSchedule = "0 * * * *"

// childCollections are the collections that reference companies by companyId.
var childCollections = []string{
	store.CollectionWorkstreams,
	store.CollectionKBAssets,
	store.CollectionUsers,
}

// Sweeper periodically deletes documents whose owning company is gone.
type Sweeper struct {
	store  store.DocumentStore
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a sweeper over the given store.
func New(st store.DocumentStore, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		store:  st,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start schedules the sweep with the given cron expression and begins
// running it in the background.
func (s *Sweeper) Start(ctx context.Context, schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	_, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Orphan sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	return nil
}

// Stop halts the schedule. A sweep already running completes.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// Sweep deletes every child document whose companyId no longer resolves and
// returns the number removed. Safe to run concurrently with normal traffic:
// a document deleted underneath it is skipped, not an error.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	companies, err := s.store.Query(ctx, store.CollectionCompanies, store.Filter{})
	if err != nil {
		return 0, err
	}

	alive := make(map[string]bool, len(companies))
	for _, doc := range companies {
		alive[doc.ID()] = true
	}

	removed := 0

	for _, collection := range childCollections {
		docs, err := s.store.Query(ctx, collection, store.Filter{})
		if err != nil {
			return removed, err
		}

		for _, doc := range docs {
			companyID, _ := doc["companyId"].(string)
			if alive[companyID] {
				continue
			}

			if err := s.store.Delete(ctx, collection, doc.ID()); err != nil {
				if store.IsNotFound(err) {
					continue
				}

				return removed, err
			}

			s.logger.InfoContext(ctx, "Removed orphaned document",
				"collection", collection, "document_id", doc.ID(), "company_id", companyID)

			removed++
		}
	}

	return removed, nil
}
