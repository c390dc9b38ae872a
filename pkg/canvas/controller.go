// Package canvas implements the flow editor core: the working node/edge
// state, the gesture operations that mutate it, and the debounced autosave
// scheduler that persists it.
package canvas

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// SaveFunc persists a flow's graph. Invoked at most once per debounce
// window, from the controller's timer goroutine or a synchronous Flush.
type SaveFunc func(ctx context.Context, flowID string, nodes []models.Node, edges []models.Edge) error

// NodeDataPatch is a partial update of a node's data. Nil fields are
// retained from the existing data (shallow merge).
type NodeDataPatch struct {
	Label       *string              `json:"label,omitempty"`
	Category    *models.NodeCategory `json:"category,omitempty"`
	StepType    *string              `json:"stepType,omitempty"`
	Description *string              `json:"description,omitempty"`
}

// Viewport describes the visible canvas area so AddStep can place new nodes
// at the on-screen center regardless of pan and zoom.
type Viewport struct {
	Width  float64
	Height float64
	PanX   float64
	PanY   float64
	Zoom   float64
}

// Center returns the viewport center in canvas coordinates.
func (v Viewport) Center() models.Position {
	zoom := v.Zoom
	if zoom == 0 {
		zoom = 1
	}

	return models.Position{
		X: (v.Width/2 - v.PanX) / zoom,
		Y: (v.Height/2 - v.PanY) / zoom,
	}
}

const (
	defaultDebounce = time.Second
	saveTimeout     = 10 * time.Second

	// AddStep jitter bounds, so consecutive inserts don't stack exactly.
	jitterX = 75.0
	jitterY = 50.0

	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idLength   = 10
)

var (
	// ErrUnknownStepKey is returned when AddStep is called with a key that
	// has no template.
	ErrUnknownStepKey = errors.New("unknown step key")

	// ErrNodeNotFound is returned when an operation targets a node that is
	// not on the canvas.
	ErrNodeNotFound = errors.New("node not found on canvas")

	// ErrControllerClosed is returned by operations on a closed controller.
	ErrControllerClosed = errors.New("canvas controller is closed")
)

// Controller owns the live editing state of one flow at a time. All methods
// are safe for concurrent use; persistence runs through the debounced
// autosave so rapid consecutive edits collapse into a single save call.
type Controller struct {
	mu sync.Mutex

	flowID string
	nodes  []models.Node
	edges  []models.Edge

	loaded      bool
	dirty       bool
	lastSavedAt *time.Time

	save     SaveFunc
	debounce time.Duration
	timer    *time.Timer
	closed   bool

	logger *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce overrides the autosave debounce window.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		c.debounce = d
	}
}

// WithLogger sets the controller's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a controller that persists through save.
func NewController(save SaveFunc, opts ...Option) *Controller {
	c := &Controller{
		save:     save,
		debounce: defaultDebounce,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Load replaces the working nodes and edges wholesale. Switching to a
// different flow first cancels any pending autosave and resets the initial
// load guard, so the switch itself is never treated as a local edit.
func (c *Controller) Load(flowID string, nodes []models.Node, edges []models.Edge) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}

	if flowID != c.flowID {
		c.loaded = false
		c.stopTimerLocked()
	}

	c.flowID = flowID
	c.nodes = cloneNodes(nodes)
	c.edges = cloneEdges(edges)
	c.dirty = false

	if len(nodes) > 0 || len(edges) > 0 {
		now := time.Now().UTC()
		c.lastSavedAt = &now
	} else {
		c.lastSavedAt = nil
	}

	c.loaded = true

	return nil
}

// Connect appends a new edge between two handles. Any topology is allowed:
// the domain is a descriptive journey map, not an executable graph, so
// duplicate and cyclic edges are not rejected.
func (c *Controller) Connect(source, target, sourceHandle, targetHandle string) (models.Edge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return models.Edge{}, ErrControllerClosed
	}

	edge := models.Edge{
		ID:           "edge-" + newID(),
		Source:       source,
		Target:       target,
		SourceHandle: sourceHandle,
		TargetHandle: targetHandle,
	}

	c.edges = append(c.edges, edge)
	c.markDirtyLocked()

	return edge, nil
}

// DeleteNode removes a node and cascades to every edge that references it
// as source or target, so no edge ever points at a missing node.
func (c *Controller) DeleteNode(nodeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}

	found := false
	nodes := c.nodes[:0]

	for _, node := range c.nodes {
		if node.ID == nodeID {
			found = true

			continue
		}

		nodes = append(nodes, node)
	}

	if !found {
		return ErrNodeNotFound
	}

	c.nodes = nodes
	c.edges = dropEdgesTouching(c.edges, map[string]bool{nodeID: true})
	c.markDirtyLocked()

	return nil
}

// EditNode shallow-merges a partial data patch into the node's data.
// Unspecified fields are retained.
func (c *Controller) EditNode(nodeID string, patch NodeDataPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}

	for i := range c.nodes {
		if c.nodes[i].ID != nodeID {
			continue
		}

		data := &c.nodes[i].Data
		if patch.Label != nil {
			data.Label = *patch.Label
		}

		if patch.Category != nil {
			data.Category = *patch.Category
		}

		if patch.StepType != nil {
			data.StepType = *patch.StepType
		}

		if patch.Description != nil {
			data.Description = *patch.Description
		}

		c.markDirtyLocked()

		return nil
	}

	return ErrNodeNotFound
}

// MoveNode updates a node's position after a drag.
func (c *Controller) MoveNode(nodeID string, position models.Position) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}

	for i := range c.nodes {
		if c.nodes[i].ID == nodeID {
			c.nodes[i].Position = position
			c.markDirtyLocked()

			return nil
		}
	}

	return ErrNodeNotFound
}

// SetSelection flags the given nodes and edges selected, clearing every
// other selection.
func (c *Controller) SetSelection(nodeIDs, edgeIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	selectedNodes := toSet(nodeIDs)
	selectedEdges := toSet(edgeIDs)

	for i := range c.nodes {
		c.nodes[i].Selected = selectedNodes[c.nodes[i].ID]
	}

	for i := range c.edges {
		c.edges[i].Selected = selectedEdges[c.edges[i].ID]
	}
}

// DeleteSelected removes every selected node and edge, applying the same
// edge cleanup per deleted node as DeleteNode. This backs the Delete and
// Backspace keyboard gestures.
func (c *Controller) DeleteSelected() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, ErrControllerClosed
	}

	deletedNodes := make(map[string]bool)
	nodes := c.nodes[:0]

	for _, node := range c.nodes {
		if node.Selected {
			deletedNodes[node.ID] = true

			continue
		}

		nodes = append(nodes, node)
	}

	removed := len(deletedNodes)
	edges := make([]models.Edge, 0, len(c.edges))

	for _, edge := range c.edges {
		if edge.Selected || deletedNodes[edge.Source] || deletedNodes[edge.Target] {
			removed++

			continue
		}

		edges = append(edges, edge)
	}

	if removed == 0 {
		return 0, nil
	}

	c.nodes = nodes
	c.edges = edges
	c.markDirtyLocked()

	return removed, nil
}

// AddStep inserts a new node from the toolbox template at the viewport
// center, with bounded random jitter to avoid exact overlap of consecutive
// inserts.
func (c *Controller) AddStep(key string, viewport Viewport) (models.Node, error) {
	template, ok := TemplateFor(key)
	if !ok {
		return models.Node{}, ErrUnknownStepKey
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return models.Node{}, ErrControllerClosed
	}

	center := viewport.Center()
	node := models.Node{
		ID:   key + "-" + newID(),
		Type: template.Type,
		Position: models.Position{
			X: center.X + (rand.Float64()*2-1)*jitterX,
			Y: center.Y + (rand.Float64()*2-1)*jitterY,
		},
		Data: models.NodeData{
			Label:       template.Label,
			Category:    template.Category,
			StepType:    template.StepType,
			Description: template.Description,
		},
	}

	c.nodes = append(c.nodes, node)
	c.markDirtyLocked()

	return node, nil
}

// AutoLayout repositions every node hierarchically (see Layout) and marks
// the canvas dirty so the new positions persist.
func (c *Controller) AutoLayout() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}

	c.nodes = AutoLayout(c.nodes, c.edges)
	c.markDirtyLocked()

	return nil
}

// Nodes returns a copy of the working nodes.
func (c *Controller) Nodes() []models.Node {
	c.mu.Lock()
	defer c.mu.Unlock()

	return cloneNodes(c.nodes)
}

// Edges returns a copy of the working edges.
func (c *Controller) Edges() []models.Edge {
	c.mu.Lock()
	defer c.mu.Unlock()

	return cloneEdges(c.edges)
}

// Dirty reports whether there are unsaved changes.
func (c *Controller) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.dirty
}

// LastSavedAt returns the time of the last successful save, or nil when
// nothing has been persisted for the loaded flow.
func (c *Controller) LastSavedAt() *time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastSavedAt == nil {
		return nil
	}

	t := *c.lastSavedAt

	return &t
}

// Flush synchronously persists pending changes, if any. It cancels the
// debounce timer first so the save runs exactly once.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	c.stopTimerLocked()

	if !c.dirty || c.closed {
		c.mu.Unlock()

		return nil
	}

	flowID, nodes, edges := c.flowID, cloneNodes(c.nodes), cloneEdges(c.edges)
	c.mu.Unlock()

	return c.runSave(ctx, flowID, nodes, edges)
}

// Close flushes any pending save and shuts the controller down. An edit made
// inside the debounce window right before teardown is persisted, not lost.
func (c *Controller) Close(ctx context.Context) error {
	err := c.Flush(ctx)

	c.mu.Lock()
	c.stopTimerLocked()
	c.closed = true
	c.mu.Unlock()

	return err
}

// markDirtyLocked flags unsaved changes and (re)starts the debounce timer.
// Changes made before the initial load completes never schedule a save.
// Caller must hold the lock.
func (c *Controller) markDirtyLocked() {
	if !c.loaded {
		return
	}

	c.dirty = true
	c.stopTimerLocked()

	c.timer = time.AfterFunc(c.debounce, c.fireAutosave)
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// fireAutosave runs on the debounce timer goroutine.
func (c *Controller) fireAutosave() {
	c.mu.Lock()

	// The timer has fired; a non-nil timer from here on means new edits.
	c.timer = nil

	if !c.dirty || c.closed {
		c.mu.Unlock()

		return
	}

	flowID, nodes, edges := c.flowID, cloneNodes(c.nodes), cloneEdges(c.edges)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := c.runSave(ctx, flowID, nodes, edges); err != nil {
		c.logger.Error("Autosave failed", "flow_id", flowID, "error", err)
	}
}

// runSave invokes the save callback and, on success, clears the dirty flag
// unless new edits arrived while the save was in flight.
func (c *Controller) runSave(ctx context.Context, flowID string, nodes []models.Node, edges []models.Edge) error {
	err := c.save(ctx, flowID, nodes, edges)
	if err != nil {
		// Stay dirty so the next edit reschedules a save.
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.flowID == flowID && c.timer == nil {
		c.dirty = false
	}

	if c.flowID == flowID {
		now := time.Now().UTC()
		c.lastSavedAt = &now
	}

	return nil
}

func newID() string {
	return gonanoid.MustGenerate(idAlphabet, idLength)
}

func cloneNodes(nodes []models.Node) []models.Node {
	cloned := make([]models.Node, len(nodes))
	copy(cloned, nodes)

	return cloned
}

func cloneEdges(edges []models.Edge) []models.Edge {
	cloned := make([]models.Edge, len(edges))
	copy(cloned, edges)

	return cloned
}

func dropEdgesTouching(edges []models.Edge, nodeIDs map[string]bool) []models.Edge {
	result := make([]models.Edge, 0, len(edges))

	for _, edge := range edges {
		if nodeIDs[edge.Source] || nodeIDs[edge.Target] {
			continue
		}

		result = append(result, edge)
	}

	return result
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))

	for _, id := range ids {
		set[id] = true
	}

	return set
}
