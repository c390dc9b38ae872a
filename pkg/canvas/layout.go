package canvas

import (
	"sort"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/models"
)

// Layout spacing constants, in canvas pixels.
const (
	layoutStartX     = 150.0
	layoutStartY     = 100.0
	layoutHSpacing   = 300.0
	layoutVSpacing   = 150.0
	levelUndefined   = -1
	levelComputing   = -2
)

// Levels computes each node's depth: 0 for nodes with no incoming edges,
// otherwise 1 + the maximum level of the node's direct predecessors. Levels
// are memoized per node, and nodes on a cycle have no defined level; their
// ids are returned separately and they are excluded from layout.
func Levels(nodes []models.Node, edges []models.Edge) (map[string]int, []string) {
	predecessors := make(map[string][]string)
	for _, edge := range edges {
		predecessors[edge.Target] = append(predecessors[edge.Target], edge.Source)
	}

	memo := make(map[string]int, len(nodes))

	var level func(id string) int

	level = func(id string) int {
		if l, ok := memo[id]; ok {
			return l
		}

		// Mark in-progress so revisiting the node means a cycle.
		memo[id] = levelComputing

		preds := predecessors[id]
		if len(preds) == 0 {
			memo[id] = 0

			return 0
		}

		maxPred := -1

		for _, pred := range preds {
			l := level(pred)
			if l == levelComputing || l == levelUndefined {
				memo[id] = levelUndefined

				return levelUndefined
			}

			if l > maxPred {
				maxPred = l
			}
		}

		memo[id] = maxPred + 1

		return memo[id]
	}

	levels := make(map[string]int, len(nodes))
	cyclic := make([]string, 0)

	for _, node := range nodes {
		l := level(node.ID)
		if l == levelUndefined || l == levelComputing {
			memo[node.ID] = levelUndefined
			cyclic = append(cyclic, node.ID)

			continue
		}

		levels[node.ID] = l
	}

	sort.Strings(cyclic)

	return levels, cyclic
}

// AutoLayout returns a copy of nodes repositioned hierarchically: levels run
// top to bottom, siblings within a level left to right. Nodes without a
// defined level (on a cycle) keep their current positions.
func AutoLayout(nodes []models.Node, edges []models.Edge) []models.Node {
	levels, _ := Levels(nodes, edges)

	// Group node ids by level, preserving input order inside a level.
	byLevel := make(map[int][]int)
	maxLevel := 0

	for i, node := range nodes {
		l, ok := levels[node.ID]
		if !ok {
			continue
		}

		byLevel[l] = append(byLevel[l], i)
		if l > maxLevel {
			maxLevel = l
		}
	}

	result := make([]models.Node, len(nodes))
	copy(result, nodes)

	for l := 0; l <= maxLevel; l++ {
		for offset, idx := range byLevel[l] {
			result[idx].Position = models.Position{
				X: layoutStartX + float64(offset)*layoutHSpacing,
				Y: layoutStartY + float64(l)*layoutVSpacing,
			}
		}
	}

	return result
}
