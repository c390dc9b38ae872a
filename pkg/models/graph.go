// Package models defines the core domain models for the CX operations console.
package models

// NodeType selects the rendering and behavior variant that owns a node and
// the handle topology it exposes on the canvas.
type NodeType string

const (
	NodeTypeEntry  NodeType = "entry"  // Source-only pill, 3 directional handles
	NodeTypeStep   NodeType = "step"   // Bidirectional rectangle, 4 handles
	NodeTypeRouter NodeType = "router" // 1 target handle + labeled branch sources
)

// NodeCategory groups nodes by their role in the customer journey.
type NodeCategory string

const (
	CategoryStart          NodeCategory = "start"
	CategorySelfService    NodeCategory = "self-service"
	CategoryContactChannel NodeCategory = "contact-channel"
	CategoryAgent          NodeCategory = "agent"
	CategoryOutcome        NodeCategory = "outcome"
)

// Position is a node's location in canvas coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData carries the editable content of a node. StepType is a free-form
// key into a category-specific preset table.
type NodeData struct {
	Label       string       `json:"label"`
	Category    NodeCategory `json:"category"`
	StepType    string       `json:"stepType"`
	Description string       `json:"description"`
}

// Node is a single element on a flow's canvas. IDs are unique within a flow.
type Node struct {
	ID       string   `json:"id"       validate:"required"`
	Position Position `json:"position"`
	Type     NodeType `json:"type"     validate:"required,oneof=entry step router"`
	Data     NodeData `json:"data"`
	Selected bool     `json:"selected,omitempty"`
}

// Edge connects two nodes. Dangling references are never stored: node
// deletion cascades to every edge touching the node.
type Edge struct {
	ID           string `json:"id"     validate:"required"`
	Source       string `json:"source" validate:"required"`
	Target       string `json:"target" validate:"required"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
	Label        string `json:"label,omitempty"`
	Selected     bool   `json:"selected,omitempty"`
}

// Graph is the complete canvas content of a single flow. Consumers must
// treat it as a self-consistent snapshot; partial graphs are not supported
// by any interface in this system. Node order affects z-index only.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}

	cloned := &Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(cloned.Nodes, g.Nodes)
	copy(cloned.Edges, g.Edges)

	return cloned
}

// Equal reports structural equality of two graphs, ignoring selection state.
func (g *Graph) Equal(other *Graph) bool {
	if g == nil || other == nil {
		return g == other
	}

	if len(g.Nodes) != len(other.Nodes) || len(g.Edges) != len(other.Edges) {
		return false
	}

	for i, node := range g.Nodes {
		node.Selected = false

		o := other.Nodes[i]
		o.Selected = false

		if node != o {
			return false
		}
	}

	for i, edge := range g.Edges {
		edge.Selected = false

		o := other.Edges[i]
		o.Selected = false

		if edge != o {
			return false
		}
	}

	return true
}
