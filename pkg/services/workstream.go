package services

import (
	"context"
	"time"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/models"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/nested"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store"
	"github.com/google/uuid"
)

// Workstream manages workstream documents and the sub-entities embedded in
// them. Every embedded mutation goes through the nested patch protocol so
// sibling sub-entities are never clobbered.
type Workstream struct {
	store   store.DocumentStore
	patcher *nested.Patcher
}

// NewWorkstream creates a workstream service.
func NewWorkstream(st store.DocumentStore) *Workstream {
	return &Workstream{
		store:   st,
		patcher: nested.NewPatcher(st, store.CollectionWorkstreams),
	}
}

// Create inserts a new workstream with empty sub-entity collections. The
// zero numeric fields are stored explicitly so new documents always carry
// the full shape.
func (s *Workstream) Create(ctx context.Context, ws *models.Workstream) (*models.Workstream, error) {
	if ws.CompanyID == "" {
		return nil, ErrWorkstreamNilCompany
	}

	if _, err := s.store.Get(ctx, store.CollectionCompanies, ws.CompanyID); err != nil {
		if store.IsNotFound(err) {
			return nil, ErrCompanyNotFound
		}

		return nil, err
	}

	if ws.ID == "" {
		ws.ID = uuid.NewString()
	}

	if ws.ContactDrivers == nil {
		ws.ContactDrivers = []models.SubEntity{}
	}

	if ws.Campaigns == nil {
		ws.Campaigns = []models.SubEntity{}
	}

	if ws.Processes == nil {
		ws.Processes = []models.SubEntity{}
	}

	if ws.Flows == nil {
		ws.Flows = []models.SubEntity{}
	}

	ws.CreatedAt = time.Now().UTC()
	ws.LastModified = models.Today()

	doc, err := store.Encode(ws)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Insert(ctx, store.CollectionWorkstreams, doc); err != nil {
		return nil, err
	}

	return ws, nil
}

// Get retrieves a workstream by id.
func (s *Workstream) Get(ctx context.Context, id string) (*models.Workstream, error) {
	doc, err := s.store.Get(ctx, store.CollectionWorkstreams, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrWorkstreamNotFound
		}

		return nil, err
	}

	var ws models.Workstream
	if err := store.Decode(doc, &ws); err != nil {
		return nil, err
	}

	return &ws, nil
}

// List returns a company's workstreams, optionally filtered by type.
func (s *Workstream) List(ctx context.Context, companyID string, wsType models.WorkstreamType) ([]*models.Workstream, error) {
	filter := store.Filter{"companyId": companyID}
	if wsType != "" {
		filter["type"] = string(wsType)
	}

	docs, err := s.store.Query(ctx, store.CollectionWorkstreams, filter)
	if err != nil {
		return nil, err
	}

	workstreams := make([]*models.Workstream, 0, len(docs))

	for _, doc := range docs {
		var ws models.Workstream
		if err := store.Decode(doc, &ws); err != nil {
			return nil, err
		}

		workstreams = append(workstreams, &ws)
	}

	return workstreams, nil
}

// WorkstreamUpdate is a partial update of a workstream's own fields. Nil
// fields are left unchanged.
type WorkstreamUpdate struct {
	Name              *string  `json:"name,omitempty"`
	Description       *string  `json:"description,omitempty"`
	SuccessDefinition *string  `json:"successDefinition,omitempty"`
	VolumePerMonth    *int     `json:"volumePerMonth,omitempty"`
	SuccessPercentage *float64 `json:"successPercentage,omitempty"`
	Priority          *string  `json:"priority,omitempty"`
}

// Update patches a workstream's own metadata fields.
func (s *Workstream) Update(ctx context.Context, id string, update WorkstreamUpdate) error {
	fields := map[string]any{"lastModified": models.Today()}

	if update.Name != nil {
		fields["name"] = *update.Name
	}

	if update.Description != nil {
		fields["description"] = *update.Description
	}

	if update.SuccessDefinition != nil {
		fields["successDefinition"] = *update.SuccessDefinition
	}

	if update.VolumePerMonth != nil {
		fields["volumePerMonth"] = *update.VolumePerMonth
	}

	if update.SuccessPercentage != nil {
		fields["successPercentage"] = *update.SuccessPercentage
	}

	if update.Priority != nil {
		fields["priority"] = *update.Priority
	}

	if err := s.store.Patch(ctx, store.CollectionWorkstreams, id, fields); err != nil {
		if store.IsNotFound(err) {
			return ErrWorkstreamNotFound
		}

		return err
	}

	return nil
}

// Delete removes a workstream and everything embedded in it.
func (s *Workstream) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, store.CollectionWorkstreams, id); err != nil {
		if store.IsNotFound(err) {
			return ErrWorkstreamNotFound
		}

		return err
	}

	return nil
}

// AddEntity appends a sub-entity of the given kind to a workstream. The
// whole collection is rewritten in one patch per the nested protocol.
func (s *Workstream) AddEntity(ctx context.Context, workstreamID string, kind models.SubEntityKind, entity models.SubEntity) (*models.SubEntity, error) {
	if !kind.Valid() {
		return nil, ErrInvalidEntityKind
	}

	ws, err := s.Get(ctx, workstreamID)
	if err != nil {
		return nil, err
	}

	if entity.ID == "" {
		entity.ID = uuid.NewString()
	}

	if entity.Flows == nil {
		entity.Flows = []models.Flow{}
	}

	entity.CreatedAt = time.Now().UTC()
	entity.LastModified = models.Today()

	entities := nested.AppendElement(ws.Entities(kind), entity)

	if err := s.patcher.ReplaceField(ctx, workstreamID, kind.CollectionField(), entities); err != nil {
		return nil, err
	}

	return &entity, nil
}

// EntityUpdate is a partial update of a sub-entity's metric fields. Nil
// fields are left unchanged; the flows collection is never touched here.
type EntityUpdate struct {
	Name                  *string  `json:"name,omitempty"`
	Description           *string  `json:"description,omitempty"`
	VolumePerMonth        *int     `json:"volumePerMonth,omitempty"`
	AvgHandleTime         *float64 `json:"avgHandleTime,omitempty"`
	CSAT                  *float64 `json:"csat,omitempty"`
	QAScore               *float64 `json:"qaScore,omitempty"`
	ContainmentPercentage *float64 `json:"containmentPercentage,omitempty"`
	ContainmentVolume     *int     `json:"containmentVolume,omitempty"`
	PhoneVolume           *int     `json:"phoneVolume,omitempty"`
	EmailVolume           *int     `json:"emailVolume,omitempty"`
	ChatVolume            *int     `json:"chatVolume,omitempty"`
	OtherVolume           *int     `json:"otherVolume,omitempty"`
}

func (u EntityUpdate) apply(entity models.SubEntity) models.SubEntity {
	if u.Name != nil {
		entity.Name = *u.Name
	}

	if u.Description != nil {
		entity.Description = *u.Description
	}

	if u.VolumePerMonth != nil {
		entity.VolumePerMonth = *u.VolumePerMonth
	}

	if u.AvgHandleTime != nil {
		entity.AvgHandleTime = *u.AvgHandleTime
	}

	if u.CSAT != nil {
		entity.CSAT = *u.CSAT
	}

	if u.QAScore != nil {
		entity.QAScore = *u.QAScore
	}

	if u.ContainmentPercentage != nil {
		entity.ContainmentPercentage = *u.ContainmentPercentage
	}

	if u.ContainmentVolume != nil {
		entity.ContainmentVolume = *u.ContainmentVolume
	}

	if u.PhoneVolume != nil {
		entity.PhoneVolume = *u.PhoneVolume
	}

	if u.EmailVolume != nil {
		entity.EmailVolume = *u.EmailVolume
	}

	if u.ChatVolume != nil {
		entity.ChatVolume = *u.ChatVolume
	}

	if u.OtherVolume != nil {
		entity.OtherVolume = *u.OtherVolume
	}

	entity.LastModified = models.Today()

	return entity
}

// UpdateEntity patches one sub-entity in place, passing every sibling
// through unchanged.
func (s *Workstream) UpdateEntity(ctx context.Context, workstreamID string, kind models.SubEntityKind, entityID string, update EntityUpdate) error {
	if !kind.Valid() {
		return ErrInvalidEntityKind
	}

	ws, err := s.Get(ctx, workstreamID)
	if err != nil {
		return err
	}

	entities, found := nested.UpdateElement(ws.Entities(kind), nested.ByID[models.SubEntity](entityID), update.apply)
	if !found {
		return ErrEntityNotFound
	}

	return s.patcher.ReplaceField(ctx, workstreamID, kind.CollectionField(), entities)
}

// RemoveEntity deletes one sub-entity, cascading to every flow it owns
// (they are embedded, so the array rewrite removes them with it).
func (s *Workstream) RemoveEntity(ctx context.Context, workstreamID string, kind models.SubEntityKind, entityID string) error {
	if !kind.Valid() {
		return ErrInvalidEntityKind
	}

	ws, err := s.Get(ctx, workstreamID)
	if err != nil {
		return err
	}

	entities, found := nested.RemoveElement(ws.Entities(kind), nested.ByID[models.SubEntity](entityID))
	if !found {
		return ErrEntityNotFound
	}

	return s.patcher.ReplaceField(ctx, workstreamID, kind.CollectionField(), entities)
}
