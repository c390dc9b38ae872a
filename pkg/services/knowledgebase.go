package services

import (
	"context"
	"time"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/models"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store"
	"github.com/google/uuid"
)

// KnowledgeBase manages per-company text assets. Assets live outside the
// workstream tree, so plain document CRUD is enough here.
type KnowledgeBase struct {
	store store.DocumentStore
}

// NewKnowledgeBase creates a knowledge base service.
func NewKnowledgeBase(st store.DocumentStore) *KnowledgeBase {
	return &KnowledgeBase{store: st}
}

// Create inserts a new asset under a company.
func (s *KnowledgeBase) Create(ctx context.Context, asset *models.KnowledgeBaseAsset) (*models.KnowledgeBaseAsset, error) {
	if _, err := s.store.Get(ctx, store.CollectionCompanies, asset.CompanyID); err != nil {
		if store.IsNotFound(err) {
			return nil, ErrCompanyNotFound
		}

		return nil, err
	}

	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}

	asset.CreatedAt = time.Now().UTC()
	asset.DateCreated = models.Today()
	asset.LastModified = models.Today()

	doc, err := store.Encode(asset)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Insert(ctx, store.CollectionKBAssets, doc); err != nil {
		return nil, err
	}

	return asset, nil
}

// Get retrieves an asset by id.
func (s *KnowledgeBase) Get(ctx context.Context, id string) (*models.KnowledgeBaseAsset, error) {
	doc, err := s.store.Get(ctx, store.CollectionKBAssets, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrAssetNotFound
		}

		return nil, err
	}

	var asset models.KnowledgeBaseAsset
	if err := store.Decode(doc, &asset); err != nil {
		return nil, err
	}

	return &asset, nil
}

// List returns a company's assets, optionally filtered by type.
func (s *KnowledgeBase) List(ctx context.Context, companyID string, assetType models.KnowledgeBaseAssetType) ([]*models.KnowledgeBaseAsset, error) {
	filter := store.Filter{"companyId": companyID}
	if assetType != "" {
		filter["type"] = string(assetType)
	}

	docs, err := s.store.Query(ctx, store.CollectionKBAssets, filter)
	if err != nil {
		return nil, err
	}

	assets := make([]*models.KnowledgeBaseAsset, 0, len(docs))

	for _, doc := range docs {
		var asset models.KnowledgeBaseAsset
		if err := store.Decode(doc, &asset); err != nil {
			return nil, err
		}

		assets = append(assets, &asset)
	}

	return assets, nil
}

// AssetUpdate is a partial update of an asset. Nil fields are left unchanged.
type AssetUpdate struct {
	Name       *string `json:"name,omitempty"`
	Content    *string `json:"content,omitempty"`
	IsInternal *bool   `json:"isInternal,omitempty"`
}

// Update patches an asset's editable fields.
func (s *KnowledgeBase) Update(ctx context.Context, id string, update AssetUpdate) error {
	fields := map[string]any{"lastModified": models.Today()}

	if update.Name != nil {
		fields["name"] = *update.Name
	}

	if update.Content != nil {
		fields["content"] = *update.Content
	}

	if update.IsInternal != nil {
		fields["isInternal"] = *update.IsInternal
	}

	if err := s.store.Patch(ctx, store.CollectionKBAssets, id, fields); err != nil {
		if store.IsNotFound(err) {
			return ErrAssetNotFound
		}

		return err
	}

	return nil
}

// Delete removes an asset.
func (s *KnowledgeBase) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, store.CollectionKBAssets, id); err != nil {
		if store.IsNotFound(err) {
			return ErrAssetNotFound
		}

		return err
	}

	return nil
}
