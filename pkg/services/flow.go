package services

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/canvas"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/eventbus"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/events"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/models"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/nested"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/otelhelper"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Flow manages the lifecycle of flows embedded in a workstream's
// sub-entities: creation, metadata, duplication, promotion to current, and
// canvas graph saves. Every mutation rewrites the owning sub-entity
// collection through the nested patch protocol.
type Flow struct {
	store   store.DocumentStore
	patcher *nested.Patcher
	bus     eventbus.EventBus
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewFlow creates a flow service. The bus may be nil in tests that do not
// observe events.
func NewFlow(st store.DocumentStore, bus eventbus.EventBus, logger *slog.Logger) *Flow {
	return &Flow{
		store:   st,
		patcher: nested.NewPatcher(st, store.CollectionWorkstreams),
		bus:     bus,
		logger:  logger,
	}
}

// WithTracer enables span emission on graph saves and promotions. Without
// it the service runs untraced.
func (s *Flow) WithTracer(tracer trace.Tracer) *Flow {
	s.tracer = tracer

	return s
}

// nolint:spancheck // span is a no-op when tracing is disabled
func (s *Flow) startSpan(ctx context.Context, name, workstreamID, entityID, flowID string) (context.Context, trace.Span) {
	if s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}

	return otelhelper.StartSpan(ctx, s.tracer, name,
		attribute.String(otelhelper.WorkstreamIDKey, workstreamID),
		attribute.String(otelhelper.EntityIDKey, entityID),
		attribute.String(otelhelper.FlowIDKey, flowID),
	)
}

// Create adds an empty draft flow to a sub-entity. The graph data stays
// absent until the first canvas save.
func (s *Flow) Create(ctx context.Context, workstreamID, entityID, name, description string) (*models.Flow, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrFlowNameRequired
	}

	flow := models.Flow{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  description,
		Type:         models.FlowTypeDraft,
		CreatedAt:    time.Now().UTC(),
		LastModified: models.Today(),
	}

	err := s.rewriteFlows(ctx, workstreamID, entityID, func(flows []models.Flow) ([]models.Flow, error) {
		return nested.AppendElement(flows, flow), nil
	})
	if err != nil {
		return nil, err
	}

	return &flow, nil
}

// FlowMetadataUpdate is a partial update of a flow's name and description.
type FlowMetadataUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateMetadata patches a flow's name and description.
func (s *Flow) UpdateMetadata(ctx context.Context, workstreamID, entityID, flowID string, update FlowMetadataUpdate) error {
	return s.rewriteFlows(ctx, workstreamID, entityID, func(flows []models.Flow) ([]models.Flow, error) {
		updated, found := nested.UpdateElement(flows, nested.ByID[models.Flow](flowID), func(flow models.Flow) models.Flow {
			if update.Name != nil {
				flow.Name = *update.Name
			}

			if update.Description != nil {
				flow.Description = *update.Description
			}

			flow.LastModified = models.Today()

			return flow
		})
		if !found {
			return nil, ErrFlowNotFound
		}

		return updated, nil
	})
}

// Duplicate copies a flow under a new id. The copy is always a draft with
// no version, regardless of the source's state; its graph is deep-copied at
// duplication time.
func (s *Flow) Duplicate(ctx context.Context, workstreamID, entityID, flowID string) (*models.Flow, error) {
	var duplicated models.Flow

	err := s.rewriteFlows(ctx, workstreamID, entityID, func(flows []models.Flow) ([]models.Flow, error) {
		var source *models.Flow

		for i := range flows {
			if flows[i].ID == flowID {
				source = &flows[i]

				break
			}
		}

		if source == nil {
			return nil, ErrFlowNotFound
		}

		duplicated = *source
		duplicated.ID = uuid.NewString()
		duplicated.Name = source.Name + " (copy)"
		duplicated.Type = models.FlowTypeDraft
		duplicated.Version = ""
		duplicated.Data = source.Data.Clone()
		duplicated.CreatedAt = time.Now().UTC()
		duplicated.LastModified = models.Today()

		return nested.AppendElement(flows, duplicated), nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.FlowDuplicated{
		BaseEvent:    s.baseEvent(events.FlowDuplicatedEvent),
		WorkstreamID: workstreamID,
		EntityID:     entityID,
		SourceFlowID: flowID,
		NewFlowID:    duplicated.ID,
	}, duplicated.ID)

	return &duplicated, nil
}

// Delete removes a flow from its sub-entity. Deleting the current flow is
// allowed: the collection simply has no current flow until another is
// promoted.
func (s *Flow) Delete(ctx context.Context, workstreamID, entityID, flowID string) error {
	return s.rewriteFlows(ctx, workstreamID, entityID, func(flows []models.Flow) ([]models.Flow, error) {
		updated, found := nested.RemoveElement(flows, nested.ByID[models.Flow](flowID))
		if !found {
			return nil, ErrFlowNotFound
		}

		return updated, nil
	})
}

// SetAsCurrent promotes a flow to the current version of its sub-entity and
// stamps it with the next version. Any previously current flow is demoted
// to draft keeping its existing version. The whole collection is rewritten
// in one patch, so from the caller's point of view the promotion and the
// demotion land atomically and at most one flow is ever current.
func (s *Flow) SetAsCurrent(ctx context.Context, workstreamID, entityID, flowID string) (*models.Flow, error) {
	ctx, span := s.startSpan(ctx, "flow.set_as_current", workstreamID, entityID, flowID)
	defer span.End()

	var promoted models.Flow

	err := s.rewriteFlows(ctx, workstreamID, entityID, func(flows []models.Flow) ([]models.Flow, error) {
		version := nextVersion(flows)
		found := false

		updated := make([]models.Flow, len(flows))
		copy(updated, flows)

		for i := range updated {
			switch {
			case updated[i].ID == flowID:
				updated[i].Type = models.FlowTypeCurrent
				updated[i].Version = version
				updated[i].LastModified = models.Today()
				promoted = updated[i]
				found = true
			case updated[i].Type == models.FlowTypeCurrent:
				updated[i].Type = models.FlowTypeDraft
			}
		}

		if !found {
			return nil, ErrFlowNotFound
		}

		return updated, nil
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	s.publish(ctx, events.FlowPromoted{
		BaseEvent:    s.baseEvent(events.FlowPromotedEvent),
		WorkstreamID: workstreamID,
		EntityID:     entityID,
		FlowID:       flowID,
		Version:      promoted.Version,
	}, flowID)

	return &promoted, nil
}

// SaveGraph replaces a flow's canvas content. This is the autosave target:
// it must tolerate being called once per debounce window.
func (s *Flow) SaveGraph(ctx context.Context, workstreamID, entityID, flowID string, graph *models.Graph) error {
	if graph == nil {
		return ErrGraphNil
	}

	ctx, span := s.startSpan(ctx, "flow.save_graph", workstreamID, entityID, flowID)
	defer span.End()

	err := s.rewriteFlows(ctx, workstreamID, entityID, func(flows []models.Flow) ([]models.Flow, error) {
		updated, found := nested.UpdateElement(flows, nested.ByID[models.Flow](flowID), func(flow models.Flow) models.Flow {
			flow.Data = graph.Clone()
			flow.LastModified = models.Today()

			return flow
		})
		if !found {
			return nil, ErrFlowNotFound
		}

		return updated, nil
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	s.publish(ctx, events.FlowGraphSaved{
		BaseEvent:    s.baseEvent(events.FlowGraphSavedEvent),
		WorkstreamID: workstreamID,
		EntityID:     entityID,
		FlowID:       flowID,
		NodeCount:    len(graph.Nodes),
		EdgeCount:    len(graph.Edges),
	}, flowID)

	return nil
}

// SaverFor binds a flow's coordinates into a canvas save callback.
func (s *Flow) SaverFor(workstreamID, entityID string) canvas.SaveFunc {
	return func(ctx context.Context, flowID string, nodes []models.Node, edges []models.Edge) error {
		return s.SaveGraph(ctx, workstreamID, entityID, flowID, &models.Graph{Nodes: nodes, Edges: edges})
	}
}

// rewriteFlows loads the workstream, locates the owning sub-entity in
// whichever collection holds it, applies rewrite to its flows, and patches
// the collection back, bumping the sub-entity's and the workstream's
// lastModified along the way.
func (s *Flow) rewriteFlows(ctx context.Context, workstreamID, entityID string, rewrite func([]models.Flow) ([]models.Flow, error)) error {
	doc, err := s.store.Get(ctx, store.CollectionWorkstreams, workstreamID)
	if err != nil {
		if store.IsNotFound(err) {
			return ErrWorkstreamNotFound
		}

		return err
	}

	var ws models.Workstream
	if err := store.Decode(doc, &ws); err != nil {
		return err
	}

	entity, kind := ws.FindEntity(entityID)
	if entity == nil {
		return ErrEntityNotFound
	}

	flows, err := rewrite(entity.Flows)
	if err != nil {
		return err
	}

	entities, _ := nested.UpdateElement(ws.Entities(kind), nested.ByID[models.SubEntity](entityID), func(e models.SubEntity) models.SubEntity {
		e.Flows = flows
		e.LastModified = models.Today()

		return e
	})

	return s.patcher.ReplaceField(ctx, workstreamID, kind.CollectionField(), entities)
}

// nextVersion derives the next version stamp from the highest numeric
// version already present: "v 1", "v 2", ... Stamps are monotonic per
// sub-entity, so demoted flows keep meaningful history.
func nextVersion(flows []models.Flow) string {
	highest := 0

	for _, flow := range flows {
		value, ok := strings.CutPrefix(flow.Version, "v ")
		if !ok {
			continue
		}

		n, err := strconv.Atoi(value)
		if err != nil {
			continue
		}

		if n > highest {
			highest = n
		}
	}

	return "v " + strconv.Itoa(highest+1)
}

func (s *Flow) baseEvent(eventType events.EventType) events.BaseEvent {
	id := ""
	if s.bus != nil {
		id = s.bus.GenerateID()
	}

	return events.BaseEvent{
		ID:        id,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}

func (s *Flow) publish(ctx context.Context, event eventbus.Event, key string) {
	if s.bus == nil {
		return
	}

	if err := s.bus.Publish(ctx, key, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish flow event",
			"event_type", event.GetType(), "key", key, "error", err)
	}
}
