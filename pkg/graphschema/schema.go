// Package graphschema validates externally supplied graph documents before
// they are accepted as flow data. The canvas itself always produces valid
// graphs; this guards the import path.
package graphschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidGraph is returned when a graph document fails schema or
// referential checks.
var ErrInvalidGraph = errors.New("invalid graph document")

const graphSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["nodes", "edges"],
  "properties": {
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "position", "type", "data"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "position": {
            "type": "object",
            "required": ["x", "y"],
            "properties": {
              "x": {"type": "number"},
              "y": {"type": "number"}
            }
          },
          "type": {"enum": ["entry", "step", "router"]},
          "data": {
            "type": "object",
            "required": ["label"],
            "properties": {
              "label": {"type": "string"},
              "category": {"enum": ["start", "self-service", "contact-channel", "agent", "outcome", ""]},
              "stepType": {"type": "string"},
              "description": {"type": "string"}
            }
          },
          "selected": {"type": "boolean"}
        }
      }
    },
    "edges": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "source", "target"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "source": {"type": "string", "minLength": 1},
          "target": {"type": "string", "minLength": 1},
          "sourceHandle": {"type": "string"},
          "targetHandle": {"type": "string"},
          "label": {"type": "string"}
        }
      }
    }
  }
}`

var compiledSchema = gojsonschema.NewStringLoader(graphSchema)

// Validate checks a raw graph document against the canvas schema plus the
// structural invariants the schema cannot express: unique node ids and no
// edge referencing a missing node. On success the decoded graph is returned.
func Validate(raw []byte) (*models.Graph, error) {
	result, err := gojsonschema.Validate(compiledSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGraph, err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidGraph, strings.Join(details, "; "))
	}

	var graph models.Graph
	if err := json.Unmarshal(raw, &graph); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGraph, err)
	}

	seen := make(map[string]bool, len(graph.Nodes))

	for _, node := range graph.Nodes {
		if seen[node.ID] {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrInvalidGraph, node.ID)
		}

		seen[node.ID] = true
	}

	for _, edge := range graph.Edges {
		if !seen[edge.Source] {
			return nil, fmt.Errorf("%w: edge %q references missing source %q", ErrInvalidGraph, edge.ID, edge.Source)
		}

		if !seen[edge.Target] {
			return nil, fmt.Errorf("%w: edge %q references missing target %q", ErrInvalidGraph, edge.ID, edge.Target)
		}
	}

	return &graph, nil
}
