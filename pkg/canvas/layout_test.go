package canvas

import (
	"testing"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layoutNode(id string) models.Node {
	return models.Node{ID: id, Type: models.NodeTypeStep, Position: models.Position{X: 1, Y: 2}}
}

func edge(source, target string) models.Edge {
	return models.Edge{ID: source + "->" + target, Source: source, Target: target}
}

func TestLevels_Chain(t *testing.T) {
	nodes := []models.Node{layoutNode("a"), layoutNode("b"), layoutNode("c")}
	edges := []models.Edge{edge("a", "b"), edge("b", "c")}

	levels, cyclic := Levels(nodes, edges)

	assert.Empty(t, cyclic)
	assert.Equal(t, map[string]int{"a": 0, "b": 1, "c": 2}, levels)
}

func TestLevels_MultiplePredecessorsTakeMax(t *testing.T) {
	// d is fed both directly by a (level 0) and through b->c (level 2);
	// its level is 1 + max, not 1 + min.
	nodes := []models.Node{layoutNode("a"), layoutNode("b"), layoutNode("c"), layoutNode("d")}
	edges := []models.Edge{
		edge("a", "d"),
		edge("a", "b"),
		edge("b", "c"),
		edge("c", "d"),
	}

	levels, cyclic := Levels(nodes, edges)

	assert.Empty(t, cyclic)
	assert.Equal(t, 3, levels["d"])
}

func TestLevels_CycleNodesExcluded(t *testing.T) {
	nodes := []models.Node{layoutNode("a"), layoutNode("b"), layoutNode("c"), layoutNode("x")}
	edges := []models.Edge{
		edge("a", "b"),
		edge("b", "c"),
		edge("c", "b"), // b <-> c cycle
	}

	levels, cyclic := Levels(nodes, edges)

	assert.Equal(t, []string{"b", "c"}, cyclic)
	assert.Equal(t, 0, levels["a"])
	assert.Equal(t, 0, levels["x"], "isolated node is a root")
	assert.NotContains(t, levels, "b")
	assert.NotContains(t, levels, "c")
}

func TestAutoLayout_Hierarchical(t *testing.T) {
	// Two roots, one shared child.
	nodes := []models.Node{layoutNode("r1"), layoutNode("r2"), layoutNode("child")}
	edges := []models.Edge{edge("r1", "child"), edge("r2", "child")}

	result := AutoLayout(nodes, edges)
	require.Len(t, result, 3)

	byID := make(map[string]models.Node)
	for _, node := range result {
		byID[node.ID] = node
	}

	// Roots share the top row, spaced horizontally in input order.
	assert.Equal(t, models.Position{X: 150, Y: 100}, byID["r1"].Position)
	assert.Equal(t, models.Position{X: 450, Y: 100}, byID["r2"].Position)

	// The child sits one row down, first column.
	assert.Equal(t, models.Position{X: 150, Y: 250}, byID["child"].Position)
}

func TestAutoLayout_CycleNodesKeepPositions(t *testing.T) {
	nodes := []models.Node{layoutNode("a"), layoutNode("b"), layoutNode("c")}
	nodes[1].Position = models.Position{X: 777, Y: 888}
	nodes[2].Position = models.Position{X: 999, Y: 111}

	edges := []models.Edge{edge("a", "b"), edge("b", "c"), edge("c", "b")}

	result := AutoLayout(nodes, edges)

	byID := make(map[string]models.Node)
	for _, node := range result {
		byID[node.ID] = node
	}

	assert.Equal(t, models.Position{X: 150, Y: 100}, byID["a"].Position)
	assert.Equal(t, models.Position{X: 777, Y: 888}, byID["b"].Position, "cyclic nodes are left where they were")
	assert.Equal(t, models.Position{X: 999, Y: 111}, byID["c"].Position)
}

func TestAutoLayout_DoesNotMutateInput(t *testing.T) {
	nodes := []models.Node{layoutNode("a"), layoutNode("b")}
	edges := []models.Edge{edge("a", "b")}

	_ = AutoLayout(nodes, edges)

	assert.Equal(t, models.Position{X: 1, Y: 2}, nodes[0].Position)
	assert.Equal(t, models.Position{X: 1, Y: 2}, nodes[1].Position)
}
