// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"time"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/models"
	"github.com/google/uuid"
)

// CreateTestNode creates a canvas node with default values that can be overridden.
func CreateTestNode(overrides ...func(*models.Node)) models.Node {
	node := models.Node{
		ID:       uuid.New().String(),
		Type:     models.NodeTypeStep,
		Position: models.Position{X: 100, Y: 200},
		Data: models.NodeData{
			Label:    "Test Step",
			Category: models.CategorySelfService,
			StepType: "AI Chatbot",
		},
	}

	for _, override := range overrides {
		override(&node)
	}

	return node
}

// WithEntryNode configures the node as the flow entry point.
func WithEntryNode() func(*models.Node) {
	return func(n *models.Node) {
		n.Type = models.NodeTypeEntry
		n.Data.Category = models.CategoryStart
		n.Data.StepType = "Inbound Call"
		n.Data.Label = "Start"
	}
}

// WithNodeID sets the node id.
func WithNodeID(id string) func(*models.Node) {
	return func(n *models.Node) {
		n.ID = id
	}
}

// WithPosition sets the node position.
func WithPosition(x, y float64) func(*models.Node) {
	return func(n *models.Node) {
		n.Position = models.Position{X: x, Y: y}
	}
}

// CreateTestEdge creates an edge between two nodes.
func CreateTestEdge(source, target string) models.Edge {
	return models.Edge{
		ID:     "edge-" + uuid.New().String(),
		Source: source,
		Target: target,
	}
}

// CreateTestFlow creates a draft flow with default values that can be overridden.
func CreateTestFlow(overrides ...func(*models.Flow)) models.Flow {
	flow := models.Flow{
		ID:           uuid.New().String(),
		Name:         "Test Flow",
		Type:         models.FlowTypeDraft,
		CreatedAt:    time.Now().UTC(),
		LastModified: models.Today(),
	}

	for _, override := range overrides {
		override(&flow)
	}

	return flow
}

// WithCurrent marks the flow as the current version.
func WithCurrent(version string) func(*models.Flow) {
	return func(f *models.Flow) {
		f.Type = models.FlowTypeCurrent
		f.Version = version
	}
}

// WithGraph sets the flow's canvas content.
func WithGraph(nodes []models.Node, edges []models.Edge) func(*models.Flow) {
	return func(f *models.Flow) {
		f.Data = &models.Graph{Nodes: nodes, Edges: edges}
	}
}

// CreateTestEntity creates a sub-entity with default values that can be overridden.
func CreateTestEntity(overrides ...func(*models.SubEntity)) models.SubEntity {
	entity := models.SubEntity{
		ID:             uuid.New().String(),
		Name:           "Test Driver",
		VolumePerMonth: 1200,
		Flows:          []models.Flow{},
		CreatedAt:      time.Now().UTC(),
		LastModified:   models.Today(),
	}

	for _, override := range overrides {
		override(&entity)
	}

	return entity
}

// WithFlows sets the entity's flow collection.
func WithFlows(flows ...models.Flow) func(*models.SubEntity) {
	return func(e *models.SubEntity) {
		e.Flows = flows
	}
}

// CreateTestWorkstream creates an inbound workstream with default values
// that can be overridden.
func CreateTestWorkstream(companyID string, overrides ...func(*models.Workstream)) *models.Workstream {
	ws := &models.Workstream{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		Name:           "Test Workstream",
		Type:           models.WorkstreamTypeInbound,
		ContactDrivers: []models.SubEntity{},
		Campaigns:      []models.SubEntity{},
		Processes:      []models.SubEntity{},
		Flows:          []models.SubEntity{},
		CreatedAt:      time.Now().UTC(),
		LastModified:   models.Today(),
	}

	for _, override := range overrides {
		override(ws)
	}

	return ws
}

// WithEntities sets the collection for the given kind.
func WithEntities(kind models.SubEntityKind, entities ...models.SubEntity) func(*models.Workstream) {
	return func(w *models.Workstream) {
		w.SetEntities(kind, entities)
	}
}
