package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *Graph {
	return &Graph{
		Nodes: []Node{
			{ID: "n1", Type: NodeTypeEntry, Position: Position{X: 1, Y: 2}, Data: NodeData{Label: "Start"}},
			{ID: "n2", Type: NodeTypeStep, Position: Position{X: 3, Y: 4}, Data: NodeData{Label: "Agent"}},
		},
		Edges: []Edge{
			{ID: "e1", Source: "n1", Target: "n2"},
		},
	}
}

func TestGraph_Clone(t *testing.T) {
	original := sampleGraph()
	cloned := original.Clone()

	require.NotSame(t, original, cloned)

	cloned.Nodes[0].Data.Label = "changed"
	cloned.Edges[0].Target = "elsewhere"

	assert.Equal(t, "Start", original.Nodes[0].Data.Label)
	assert.Equal(t, "n2", original.Edges[0].Target)
}

func TestGraph_CloneNil(t *testing.T) {
	var g *Graph
	assert.Nil(t, g.Clone())
}

func TestGraph_Equal(t *testing.T) {
	a := sampleGraph()
	b := sampleGraph()

	assert.True(t, a.Equal(b))

	// Selection is view state and does not affect equality.
	b.Nodes[0].Selected = true
	b.Edges[0].Selected = true
	assert.True(t, a.Equal(b))

	b.Nodes[0].Data.Label = "changed"
	assert.False(t, a.Equal(b))

	assert.False(t, a.Equal(nil))

	var nilGraph *Graph
	assert.True(t, nilGraph.Equal(nil))
}

func TestSubEntityKind(t *testing.T) {
	assert.True(t, KindContactDriver.Valid())
	assert.False(t, SubEntityKind("gadget").Valid())

	assert.Equal(t, "Contact Driver", KindContactDriver.Label())
	assert.Equal(t, "Campaigns", KindCampaign.PluralLabel())

	assert.Equal(t, "contactDrivers", KindContactDriver.CollectionField())
	assert.Equal(t, "flows", KindFlowEntity.CollectionField())
	assert.Empty(t, SubEntityKind("gadget").CollectionField())
}

func TestWorkstream_ActiveKind(t *testing.T) {
	tests := []struct {
		wsType WorkstreamType
		want   SubEntityKind
	}{
		{WorkstreamTypeInbound, KindContactDriver},
		{WorkstreamTypeOutbound, KindCampaign},
		{WorkstreamTypeBackground, KindProcess},
		{WorkstreamTypeBlank, KindFlowEntity},
	}

	for _, tt := range tests {
		ws := Workstream{Type: tt.wsType}
		assert.Equal(t, tt.want, ws.ActiveKind())
	}
}

func TestWorkstream_FindEntity(t *testing.T) {
	ws := Workstream{
		ContactDrivers: []SubEntity{{ID: "d1"}},
		Campaigns:      []SubEntity{{ID: "c1"}},
	}

	entity, kind := ws.FindEntity("c1")
	require.NotNil(t, entity)
	assert.Equal(t, KindCampaign, kind)

	entity, _ = ws.FindEntity("ghost")
	assert.Nil(t, entity)
}

func TestSubEntity_CurrentFlow(t *testing.T) {
	entity := SubEntity{Flows: []Flow{
		{ID: "f1", Type: FlowTypeDraft},
		{ID: "f2", Type: FlowTypeCurrent},
	}}

	current := entity.CurrentFlow()
	require.NotNil(t, current)
	assert.Equal(t, "f2", current.ID)

	assert.Nil(t, SubEntity{}.CurrentFlow())
}
