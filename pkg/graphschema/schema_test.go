package graphschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validGraph = `{
  "nodes": [
    {"id": "entry-1", "type": "entry", "position": {"x": 150, "y": 100},
     "data": {"label": "Start", "category": "start"}},
    {"id": "step-1", "type": "step", "position": {"x": 150, "y": 250},
     "data": {"label": "Agent", "category": "agent", "stepType": "tier1"}}
  ],
  "edges": [
    {"id": "e1", "source": "entry-1", "target": "step-1"}
  ]
}`

func TestValidate_OK(t *testing.T) {
	graph, err := Validate([]byte(validGraph))
	require.NoError(t, err)

	require.Len(t, graph.Nodes, 2)
	require.Len(t, graph.Edges, 1)
	assert.Equal(t, "entry-1", graph.Nodes[0].ID)
}

func TestValidate_EmptyGraph(t *testing.T) {
	graph, err := Validate([]byte(`{"nodes": [], "edges": []}`))
	require.NoError(t, err)
	assert.Empty(t, graph.Nodes)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{`},
		{"missing edges field", `{"nodes": []}`},
		{"node without label", `{"nodes": [{"id": "n1", "type": "step", "position": {"x": 0, "y": 0}, "data": {}}], "edges": []}`},
		{"unknown node type", `{"nodes": [{"id": "n1", "type": "diamond", "position": {"x": 0, "y": 0}, "data": {"label": "x"}}], "edges": []}`},
		{"empty node id", `{"nodes": [{"id": "", "type": "step", "position": {"x": 0, "y": 0}, "data": {"label": "x"}}], "edges": []}`},
		{
			"duplicate node ids",
			`{"nodes": [
			   {"id": "n1", "type": "step", "position": {"x": 0, "y": 0}, "data": {"label": "a"}},
			   {"id": "n1", "type": "step", "position": {"x": 1, "y": 1}, "data": {"label": "b"}}
			 ], "edges": []}`,
		},
		{
			"dangling edge source",
			`{"nodes": [{"id": "n1", "type": "step", "position": {"x": 0, "y": 0}, "data": {"label": "a"}}],
			  "edges": [{"id": "e1", "source": "ghost", "target": "n1"}]}`,
		},
		{
			"dangling edge target",
			`{"nodes": [{"id": "n1", "type": "step", "position": {"x": 0, "y": 0}, "data": {"label": "a"}}],
			  "edges": [{"id": "e1", "source": "n1", "target": "ghost"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate([]byte(tt.raw))
			assert.ErrorIs(t, err, ErrInvalidGraph)
		})
	}
}
