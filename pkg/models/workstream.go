package models

import "time"

// WorkstreamType classifies the business process a workstream models and
// selects which sub-entity collection is semantically active.
type WorkstreamType string

const (
	WorkstreamTypeInbound    WorkstreamType = "inbound"    // Contact drivers
	WorkstreamTypeOutbound   WorkstreamType = "outbound"   // Campaigns
	WorkstreamTypeBackground WorkstreamType = "background" // Processes
	WorkstreamTypeBlank      WorkstreamType = "blank"      // Bare flow-entities
)

// Workstream is a typed business process owned by a company. The four
// sub-entity collections are all embedded in the workstream document;
// exactly one is active based on Type.
type Workstream struct {
	ID                    string         `json:"id"        validate:"required"`
	CompanyID             string         `json:"companyId" validate:"required"`
	Name                  string         `json:"name"      validate:"required"`
	Description           string         `json:"description"`
	Type                  WorkstreamType `json:"type"      validate:"required,oneof=inbound outbound background blank"`
	SuccessDefinition     string         `json:"successDefinition,omitempty"`
	VolumePerMonth        int            `json:"volumePerMonth"`
	SuccessPercentage     float64        `json:"successPercentage"`
	AgentsAssigned        int            `json:"agentsAssigned,omitempty"`
	HoursPerAgentPerMonth float64        `json:"hoursPerAgentPerMonth,omitempty"`
	LoadedCostPerAgent    float64        `json:"loadedCostPerAgent,omitempty"`
	AutomationPercentage  float64        `json:"automationPercentage,omitempty"`
	ContactDrivers        []SubEntity    `json:"contactDrivers,omitempty"`
	Campaigns             []SubEntity    `json:"campaigns,omitempty"`
	Processes             []SubEntity    `json:"processes,omitempty"`
	Flows                 []SubEntity    `json:"flows"`
	Tags                  []string       `json:"tags,omitempty"`
	Priority              string         `json:"priority,omitempty"`
	CreatedAt             time.Time      `json:"createdAt"`
	LastModified          string         `json:"lastModified"`
}

func (w *Workstream) GetID() string {
	return w.ID
}

// ActiveKind returns the sub-entity kind selected by the workstream type.
func (w *Workstream) ActiveKind() SubEntityKind {
	switch w.Type {
	case WorkstreamTypeInbound:
		return KindContactDriver
	case WorkstreamTypeOutbound:
		return KindCampaign
	case WorkstreamTypeBackground:
		return KindProcess
	default:
		return KindFlowEntity
	}
}

// Entities returns the sub-entity collection for the given kind.
func (w *Workstream) Entities(kind SubEntityKind) []SubEntity {
	switch kind {
	case KindContactDriver:
		return w.ContactDrivers
	case KindCampaign:
		return w.Campaigns
	case KindProcess:
		return w.Processes
	case KindFlowEntity:
		return w.Flows
	default:
		return nil
	}
}

// SetEntities replaces the sub-entity collection for the given kind.
func (w *Workstream) SetEntities(kind SubEntityKind, entities []SubEntity) {
	switch kind {
	case KindContactDriver:
		w.ContactDrivers = entities
	case KindCampaign:
		w.Campaigns = entities
	case KindProcess:
		w.Processes = entities
	case KindFlowEntity:
		w.Flows = entities
	}
}

// FindEntity returns the sub-entity with the given id, searching every
// collection, together with the kind of the collection that holds it.
func (w *Workstream) FindEntity(entityID string) (*SubEntity, SubEntityKind) {
	for _, kind := range []SubEntityKind{KindContactDriver, KindCampaign, KindProcess, KindFlowEntity} {
		entities := w.Entities(kind)
		for i := range entities {
			if entities[i].ID == entityID {
				return &entities[i], kind
			}
		}
	}

	return nil, ""
}
