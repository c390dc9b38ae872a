package canvas

import "github.com/dongiocoder/cx-flow-designer-sub000/pkg/models"

// StepPreset is one entry of a category-specific dropdown: a stepType key,
// the label shown for it, and an icon key.
type StepPreset struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// categoryPresets holds the dropdown options per node category.
var categoryPresets = map[models.NodeCategory][]StepPreset{
	models.CategorySelfService: {
		{Key: "faq", Label: "FAQ / Help Center", Icon: "book-open"},
		{Key: "chatbot", Label: "Chatbot", Icon: "bot"},
		{Key: "ivr", Label: "IVR Menu", Icon: "phone-call"},
		{Key: "knowledge-base", Label: "Knowledge Base", Icon: "library"},
		{Key: "community", Label: "Community Forum", Icon: "users"},
		{Key: "status-page", Label: "Status Page", Icon: "activity"},
	},
	models.CategoryContactChannel: {
		{Key: "phone", Label: "Phone", Icon: "phone"},
		{Key: "email", Label: "Email", Icon: "mail"},
		{Key: "chat", Label: "Live Chat", Icon: "message-circle"},
		{Key: "sms", Label: "SMS", Icon: "message-square"},
		{Key: "social", Label: "Social Media", Icon: "share-2"},
	},
	models.CategoryAgent: {
		{Key: "tier1", Label: "Tier 1 Agent", Icon: "headphones"},
		{Key: "tier2", Label: "Tier 2 Agent", Icon: "headphones"},
		{Key: "specialist", Label: "Specialist", Icon: "user-check"},
		{Key: "supervisor", Label: "Supervisor", Icon: "shield"},
		{Key: "retention", Label: "Retention Team", Icon: "heart-handshake"},
		{Key: "back-office", Label: "Back Office", Icon: "briefcase"},
		{Key: "outsourced", Label: "Outsourced Team", Icon: "globe"},
	},
	models.CategoryOutcome: {
		{Key: "resolved", Label: "Resolved", Icon: "check-circle"},
		{Key: "escalated", Label: "Escalated", Icon: "arrow-up-circle"},
		{Key: "abandoned", Label: "Abandoned", Icon: "x-circle"},
		{Key: "callback", Label: "Callback Scheduled", Icon: "clock"},
		{Key: "churned", Label: "Churned", Icon: "user-minus"},
	},
}

// PresetsFor returns the dropdown options for a category. Categories without
// a preset list (start) return nil: their labels are fixed.
func PresetsFor(category models.NodeCategory) []StepPreset {
	return categoryPresets[category]
}

// DefaultIcon is used when a stepType has no icon mapping.
const DefaultIcon = "square"

// stepTypeIcons resolves a stepType to its icon key.
var stepTypeIcons = map[string]string{
	"faq":            "book-open",
	"chatbot":        "bot",
	"ivr":            "phone-call",
	"knowledge-base": "library",
	"community":      "users",
	"status-page":    "activity",
	"phone":          "phone",
	"email":          "mail",
	"chat":           "message-circle",
	"sms":            "message-square",
	"social":         "share-2",
	"tier1":          "headphones",
	"tier2":          "headphones",
	"specialist":     "user-check",
	"supervisor":     "shield",
	"retention":      "heart-handshake",
	"back-office":    "briefcase",
	"outsourced":     "globe",
	"router":         "git-branch",
}

// IconFor resolves a stepType to an icon key, falling back to DefaultIcon.
func IconFor(stepType string) string {
	if icon, ok := stepTypeIcons[stepType]; ok {
		return icon
	}

	return DefaultIcon
}

// NodeTemplate describes the node AddStep inserts for a toolbox key.
type NodeTemplate struct {
	Type        models.NodeType
	Category    models.NodeCategory
	StepType    string
	Label       string
	Description string
}

// stepTemplates maps the canvas toolbox keys to node templates.
var stepTemplates = map[string]NodeTemplate{
	"start": {
		Type:     models.NodeTypeEntry,
		Category: models.CategoryStart,
		Label:    "Start",
	},
	"self-service": {
		Type:        models.NodeTypeStep,
		Category:    models.CategorySelfService,
		StepType:    "faq",
		Label:       "Self-Service",
		Description: "Customer attempts to self-serve",
	},
	"channel": {
		Type:        models.NodeTypeStep,
		Category:    models.CategoryContactChannel,
		StepType:    "phone",
		Label:       "Contact Channel",
		Description: "Customer reaches out on a channel",
	},
	"agent": {
		Type:        models.NodeTypeStep,
		Category:    models.CategoryAgent,
		StepType:    "tier1",
		Label:       "Agent Step",
		Description: "Handled by an agent",
	},
	"outcome": {
		Type:     models.NodeTypeEntry,
		Category: models.CategoryOutcome,
		StepType: "resolved",
		Label:    "Outcome",
	},
	"router": {
		Type:     models.NodeTypeRouter,
		Category: models.CategoryAgent,
		StepType: "router",
		Label:    "Router",
	},
	"cluster": {
		Type:        models.NodeTypeStep,
		Category:    models.CategoryAgent,
		StepType:    "back-office",
		Label:       "Cluster",
		Description: "Grouped sub-journey",
	},
}

// TemplateFor returns the node template for a toolbox key.
func TemplateFor(key string) (NodeTemplate, bool) {
	template, ok := stepTemplates[key]

	return template, ok
}

// PillColor returns the accent color key for an entry/outcome pill:
// start and resolved render green, abandoned red, everything else gray.
func PillColor(data models.NodeData) string {
	if data.Category == models.CategoryStart {
		return "green"
	}

	if data.Category == models.CategoryOutcome {
		switch data.StepType {
		case "resolved":
			return "green"
		case "abandoned":
			return "red"
		}
	}

	return "gray"
}
