package canvas

import "github.com/dongiocoder/cx-flow-designer-sub000/pkg/models"

// HandleKind is the direction of a connection handle.
type HandleKind string

const (
	HandleSource HandleKind = "source"
	HandleTarget HandleKind = "target"
)

// HandleSide is where on the node the handle sits.
type HandleSide string

const (
	SideTop    HandleSide = "top"
	SideRight  HandleSide = "right"
	SideBottom HandleSide = "bottom"
	SideLeft   HandleSide = "left"
)

// Handle is one connection point on a node.
type Handle struct {
	ID   string     `json:"id"`
	Kind HandleKind `json:"kind"`
	Side HandleSide `json:"side"`
}

// RouterRuleHandles are the labeled branch sources a router exposes. The
// rule rows themselves are presentation only; no rule engine runs here.
var RouterRuleHandles = []string{"rule1", "rule2", "rule3"}

// HandlesFor returns the handle topology a node exposes, determined by its
// type and category:
//   - entry pills are source-only with 3 directional handles
//   - outcome pills are target-only with 3 directional handles
//   - steps are bidirectional with 4 handles
//   - routers expose 1 target plus one labeled source per branch rule
func HandlesFor(node models.Node) []Handle {
	switch node.Type {
	case models.NodeTypeEntry:
		if node.Data.Category == models.CategoryOutcome {
			return []Handle{
				{ID: "top", Kind: HandleTarget, Side: SideTop},
				{ID: "left", Kind: HandleTarget, Side: SideLeft},
				{ID: "right", Kind: HandleTarget, Side: SideRight},
			}
		}

		return []Handle{
			{ID: "bottom", Kind: HandleSource, Side: SideBottom},
			{ID: "left", Kind: HandleSource, Side: SideLeft},
			{ID: "right", Kind: HandleSource, Side: SideRight},
		}
	case models.NodeTypeRouter:
		handles := []Handle{
			{ID: "in", Kind: HandleTarget, Side: SideTop},
		}

		for _, rule := range RouterRuleHandles {
			handles = append(handles, Handle{ID: rule, Kind: HandleSource, Side: SideBottom})
		}

		return handles
	default:
		return []Handle{
			{ID: "top", Kind: HandleTarget, Side: SideTop},
			{ID: "left", Kind: HandleTarget, Side: SideLeft},
			{ID: "right", Kind: HandleSource, Side: SideRight},
			{ID: "bottom", Kind: HandleSource, Side: SideBottom},
		}
	}
}

// EditSession models the inline-edit contract on a node field: clicking
// committed text opens a session pre-filled with the current value, commit
// keeps the edited value, revert restores the pre-edit value and discards
// the session without side effects.
type EditSession struct {
	original string
	value    string
	active   bool
}

// BeginEdit opens an edit session over the current committed value.
func BeginEdit(current string) EditSession {
	return EditSession{original: current, value: current, active: true}
}

// SetValue replaces the in-progress value.
func (s EditSession) SetValue(value string) EditSession {
	if !s.active {
		return s
	}

	s.value = value

	return s
}

// Commit closes the session and returns the value to persist.
func (s EditSession) Commit() (string, EditSession) {
	s.active = false

	return s.value, s
}

// Revert closes the session and returns the pre-edit value.
func (s EditSession) Revert() (string, EditSession) {
	s.active = false
	s.value = s.original

	return s.original, s
}

// Active reports whether the session is still editing.
func (s EditSession) Active() bool {
	return s.active
}

// Value returns the in-progress value.
func (s EditSession) Value() string {
	return s.value
}
