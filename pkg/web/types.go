// Package web provides HTTP request and response types for the console API.
package web

import (
	"encoding/json"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/services"
)

// CreateCompanyRequest registers a new company. The slug is derived from
// the name server-side.
type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

// RenameCompanyRequest updates a company's display name.
type RenameCompanyRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

// CreateUserRequest registers a user under a company.
type CreateUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// CreateWorkstreamRequest creates a workstream under a company, addressed
// either by id or by slug.
type CreateWorkstreamRequest struct {
	CompanyID         string `json:"companyId"   validate:"required_without=CompanySlug"`
	CompanySlug       string `json:"companySlug" validate:"required_without=CompanyID"`
	Name              string `json:"name"        validate:"required,min=2"`
	Description       string `json:"description"`
	Type              string `json:"type"        validate:"required,oneof=inbound outbound background blank"`
	SuccessDefinition string `json:"successDefinition"`
}

// UpdateWorkstreamRequest is a partial update; it reuses the service's
// pointer-field semantics directly.
type UpdateWorkstreamRequest = services.WorkstreamUpdate

// CreateEntityRequest adds a sub-entity to a workstream.
type CreateEntityRequest struct {
	Name           string  `json:"name" validate:"required,min=1"`
	Description    string  `json:"description"`
	VolumePerMonth int     `json:"volumePerMonth" validate:"min=0"`
	AvgHandleTime  float64 `json:"avgHandleTime"  validate:"min=0"`
	CSAT           float64 `json:"csat"           validate:"min=0,max=100"`
	QAScore        float64 `json:"qaScore"        validate:"min=0,max=100"`
}

// UpdateEntityRequest is a partial sub-entity update.
type UpdateEntityRequest = services.EntityUpdate

// CreateFlowRequest adds an empty draft flow to a sub-entity.
type CreateFlowRequest struct {
	Name        string `json:"name" validate:"required,min=1"`
	Description string `json:"description"`
}

// UpdateFlowRequest patches flow metadata.
type UpdateFlowRequest = services.FlowMetadataUpdate

// ImportFlowRequest creates a draft flow from an externally produced graph
// document.
type ImportFlowRequest struct {
	Name        string          `json:"name" validate:"required,min=1"`
	Description string          `json:"description"`
	Graph       json.RawMessage `json:"graph" validate:"required"`
}

// CreateAssetRequest adds a knowledge base asset to a company.
type CreateAssetRequest struct {
	Name       string `json:"name" validate:"required,min=1"`
	Type       string `json:"type" validate:"required,oneof=Article Macro TokenPoint SOP ProductDescriptionSheet PDFMaterial"`
	Content    string `json:"content"`
	IsInternal bool   `json:"isInternal"`
}

// UpdateAssetRequest is a partial asset update.
type UpdateAssetRequest = services.AssetUpdate
