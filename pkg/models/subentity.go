package models

import "time"

// SubEntityKind tags the four structurally identical sub-entity shapes a
// workstream can own. They differ only in the labels shown to the user, so
// a single record type parameterized by kind replaces four parallel types.
type SubEntityKind string

const (
	KindContactDriver SubEntityKind = "contact-driver"
	KindCampaign      SubEntityKind = "campaign"
	KindProcess       SubEntityKind = "process"
	KindFlowEntity    SubEntityKind = "flow-entity"
)

// subEntityLabels maps each kind to its user-facing display strings.
var subEntityLabels = map[SubEntityKind]struct {
	Singular string
	Plural   string
}{
	KindContactDriver: {"Contact Driver", "Contact Drivers"},
	KindCampaign:      {"Campaign", "Campaigns"},
	KindProcess:       {"Process", "Processes"},
	KindFlowEntity:    {"Flow", "Flows"},
}

// Label returns the singular display name for the kind.
func (k SubEntityKind) Label() string {
	return subEntityLabels[k].Singular
}

// PluralLabel returns the plural display name for the kind.
func (k SubEntityKind) PluralLabel() string {
	return subEntityLabels[k].Plural
}

// Valid reports whether k names a known sub-entity kind.
func (k SubEntityKind) Valid() bool {
	_, ok := subEntityLabels[k]

	return ok
}

// CollectionField returns the workstream document field that holds
// sub-entities of this kind. The nested patch protocol rewrites the whole
// field on every mutation, so the name doubles as the patch key.
func (k SubEntityKind) CollectionField() string {
	switch k {
	case KindContactDriver:
		return "contactDrivers"
	case KindCampaign:
		return "campaigns"
	case KindProcess:
		return "processes"
	case KindFlowEntity:
		return "flows"
	default:
		return ""
	}
}

// SubEntity is a contact driver, campaign, process, or flow-entity. It lives
// embedded inside its owning workstream's document, never as a top-level
// record: ownership is structural containment, not a foreign reference.
type SubEntity struct {
	ID                    string    `json:"id"   validate:"required"`
	Name                  string    `json:"name" validate:"required"`
	Description           string    `json:"description"`
	VolumePerMonth        int       `json:"volumePerMonth"`
	AvgHandleTime         float64   `json:"avgHandleTime"`
	CSAT                  float64   `json:"csat"`
	QAScore               float64   `json:"qaScore"`
	ContainmentPercentage float64   `json:"containmentPercentage"`
	ContainmentVolume     int       `json:"containmentVolume"`
	PhoneVolume           int       `json:"phoneVolume"`
	EmailVolume           int       `json:"emailVolume"`
	ChatVolume            int       `json:"chatVolume"`
	OtherVolume           int       `json:"otherVolume"`
	Flows                 []Flow    `json:"flows"`
	CreatedAt             time.Time `json:"createdAt"`
	LastModified          string    `json:"lastModified"`
}

func (s SubEntity) GetID() string {
	return s.ID
}

// CurrentFlow returns the live flow of this sub-entity, or nil when every
// flow is a draft. Zero current flows is an allowed state, for example
// right after the current flow was deleted.
func (s SubEntity) CurrentFlow() *Flow {
	for i := range s.Flows {
		if s.Flows[i].IsCurrent() {
			return &s.Flows[i]
		}
	}

	return nil
}
