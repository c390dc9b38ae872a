package models

import "time"

// FlowType represents the lifecycle state of a flow within its sub-entity.
type FlowType string

const (
	FlowTypeCurrent FlowType = "current" // The live/published version
	FlowTypeDraft   FlowType = "draft"   // Editable working version
)

// Flow is a named, versioned customer-journey diagram owned by a sub-entity.
// At most one flow per sub-entity may be current; the flow service enforces
// this by rewriting the whole collection on promotion.
type Flow struct {
	ID           string    `json:"id"          validate:"required"`
	Name         string    `json:"name"        validate:"required"`
	Description  string    `json:"description"`
	Type         FlowType  `json:"type"        validate:"required,oneof=current draft"`
	Version      string    `json:"version,omitempty"`
	Data         *Graph    `json:"data,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified string    `json:"lastModified"` // ISO date, YYYY-MM-DD
}

func (f Flow) GetID() string {
	return f.ID
}

// IsCurrent reports whether this flow is the live version of its sub-entity.
func (f Flow) IsCurrent() bool {
	return f.Type == FlowTypeCurrent
}
