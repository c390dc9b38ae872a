// Package events defines event types for document change notifications and
// flow lifecycle transitions.
package events

import (
	"time"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store"
)

type EventType string

const Topic = "cxconsole.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Reactive query signal: a document in a collection changed and every
	// open view querying that collection should re-read.
	DocumentChangedEvent EventType = "document.changed"

	// Flow lifecycle events.
	FlowPromotedEvent   EventType = "flow.promoted"
	FlowDuplicatedEvent EventType = "flow.duplicated"
	FlowGraphSavedEvent EventType = "flow.graph.saved"

	// Cascade delete completion.
	CompanyDeletedEvent EventType = "company.deleted"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// DocumentChanged announces any successful store mutation.
type DocumentChanged struct {
	BaseEvent

	Collection string   `json:"collection"`
	DocumentID string   `json:"document_id"`
	Op         store.Op `json:"op"`
}

func (e DocumentChanged) GetType() EventType {
	return DocumentChangedEvent
}

// FlowPromoted announces that a flow became the current version of its
// sub-entity, demoting any previous current flow to draft.
type FlowPromoted struct {
	BaseEvent

	WorkstreamID string `json:"workstream_id"`
	EntityID     string `json:"entity_id"`
	FlowID       string `json:"flow_id"`
	Version      string `json:"version"`
}

func (e FlowPromoted) GetType() EventType {
	return FlowPromotedEvent
}

// FlowDuplicated announces a draft copy of an existing flow.
type FlowDuplicated struct {
	BaseEvent

	WorkstreamID string `json:"workstream_id"`
	EntityID     string `json:"entity_id"`
	SourceFlowID string `json:"source_flow_id"`
	NewFlowID    string `json:"new_flow_id"`
}

func (e FlowDuplicated) GetType() EventType {
	return FlowDuplicatedEvent
}

// FlowGraphSaved announces a canvas autosave landing on a flow's data.
type FlowGraphSaved struct {
	BaseEvent

	WorkstreamID string `json:"workstream_id"`
	EntityID     string `json:"entity_id"`
	FlowID       string `json:"flow_id"`
	NodeCount    int    `json:"node_count"`
	EdgeCount    int    `json:"edge_count"`
}

func (e FlowGraphSaved) GetType() EventType {
	return FlowGraphSavedEvent
}

// CompanyDeleted announces the end of a cascade delete, with counts of the
// children removed along the way.
type CompanyDeleted struct {
	BaseEvent

	CompanyID           string `json:"company_id"`
	WorkstreamsDeleted  int    `json:"workstreams_deleted"`
	AssetsDeleted       int    `json:"assets_deleted"`
	UsersDeleted        int    `json:"users_deleted"`
}

func (e CompanyDeleted) GetType() EventType {
	return CompanyDeletedEvent
}
