// Package engine runs the diagram's single-threaded update loop. One
// goroutine owns the model, layout, viewport, and animation scheduler;
// scan events, explanation events, and user commands all funnel into it
// over channels, and state leaves it only as immutable snapshots.
package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"constellation/internal/anim"
	"constellation/internal/diagram"
	"constellation/internal/explain"
	"constellation/internal/geom"
	"constellation/internal/layout"
	"constellation/internal/render"
	"constellation/internal/view"
)

const (
	// tickInterval is the frame cadence of the update loop.
	tickInterval = 16 * time.Millisecond

	// fitDebounce is how long the engine waits after the last mutation
	// before refitting the view, so event bursts cause one fit, not many.
	fitDebounce = 100 * time.Millisecond
)

// CommandKind names a user command.
type CommandKind string

const (
	CmdZoomIn       CommandKind = "zoom_in"
	CmdZoomOut      CommandKind = "zoom_out"
	CmdResetView    CommandKind = "reset_view"
	CmdFitView      CommandKind = "fit_view"
	CmdZoomToRect   CommandKind = "zoom_to_rect"
	CmdToggleNode   CommandKind = "toggle_node"
	CmdMoveNode     CommandKind = "move_node"
	CmdStartExplain CommandKind = "start_explain"
	CmdStopExplain  CommandKind = "stop_explain"
	CmdResize       CommandKind = "resize"
)

// Command is one user action delivered to the engine loop. Fields beyond
// Kind are read only by the kinds that need them.
type Command struct {
	Kind   CommandKind `json:"kind"`
	NodeID int         `json:"node_id,omitempty"`
	Rect   geom.Rect   `json:"rect,omitempty"`
	Pos    geom.Point  `json:"pos,omitempty"`
	Width  float64     `json:"width,omitempty"`
	Height float64     `json:"height,omitempty"`
}

// NodeView is the published form of one node.
type NodeView struct {
	ID          int     `json:"id"`
	Kind        string  `json:"kind"`
	Label       string  `json:"label"`
	Body        string  `json:"body,omitempty"`
	BodyHTML    string  `json:"body_html,omitempty"`
	Expanded    bool    `json:"expanded"`
	Progress    float64 `json:"progress"`
	State       string  `json:"state"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	W           float64 `json:"w"`
	H           float64 `json:"h"`
	Explanation string  `json:"explanation,omitempty"`
}

// ConnectorView is the published form of one connector.
type ConnectorView struct {
	From int     `json:"from"`
	To   int     `json:"to"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	X2   float64 `json:"x2"`
	Y2   float64 `json:"y2"`
}

// ExplainView is the published state of the explanation session.
type ExplainView struct {
	NodeID   int    `json:"node_id"`
	State    string `json:"state"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// Snapshot is one immutable frame of the whole diagram state.
type Snapshot struct {
	Seq        uint64          `json:"seq"`
	Nodes      []NodeView      `json:"nodes"`
	Connectors []ConnectorView `json:"connectors"`
	Scale      float64         `json:"scale"`
	PanX       float64         `json:"pan_x"`
	PanY       float64         `json:"pan_y"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Explain    *ExplainView    `json:"explain,omitempty"`
}

type query struct {
	fn   func(*diagram.Diagram)
	done chan struct{}
}

// Engine owns all mutable diagram state. Every method except Subscribe,
// Latest, Do, and Inspect must be called from the loop goroutine; tests
// drive the loop synchronously through Step and the apply methods.
type Engine struct {
	d      *diagram.Diagram
	vp     *view.Viewport
	sched  *anim.Scheduler
	params layout.Params

	scans   <-chan diagram.Event
	explain *explain.Manager
	cmds    chan Command
	queries chan query

	// now is loop-local virtual time, advanced only by Step. The fit
	// debounce keys off it so tests can drive time explicitly.
	now   time.Time
	fitAt time.Time
	dirty bool

	lastExplain *ExplainView

	mu      sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
	seq     uint64
	latest  Snapshot
}

// New creates an engine over a fresh diagram. scans may be nil when no
// ingestion feed exists; mgr may be nil when explanations are disabled.
func New(scans <-chan diagram.Event, mgr *explain.Manager, width, height float64) *Engine {
	e := &Engine{
		d:       diagram.New(),
		vp:      view.New(width, height),
		sched:   anim.NewScheduler(),
		params:  layout.DefaultParams(),
		scans:   scans,
		explain: mgr,
		cmds:    make(chan Command, 64),
		queries: make(chan query),
		subs:    make(map[int]chan Snapshot),
	}
	layout.Compute(e.d, e.params)
	layout.UpdateConnectors(e.d, e.vp.Scale, e.sched.CollapseThreshold)
	e.publish()
	return e
}

// Do queues a command for the engine loop.
func (e *Engine) Do(cmd Command) {
	e.cmds <- cmd
}

// Inspect runs fn on the engine goroutine with exclusive access to the
// diagram, blocking until fn returns. It must only be called while Run
// is active.
func (e *Engine) Inspect(fn func(*diagram.Diagram)) {
	q := query{fn: fn, done: make(chan struct{})}
	e.queries <- q
	<-q.done
}

// Subscribe registers a snapshot consumer. The returned cancel func
// unregisters it. Slow consumers miss intermediate frames rather than
// stalling the loop.
func (e *Engine) Subscribe() (<-chan Snapshot, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSub
	e.nextSub++
	ch := make(chan Snapshot, 8)
	e.subs[id] = ch
	// Seed with the current frame so new consumers draw immediately.
	ch <- e.latest
	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if c, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(c)
		}
	}
}

// Latest returns the most recently published snapshot.
func (e *Engine) Latest() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latest
}

// Run drives the engine loop until the context is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	var expEvents <-chan explain.Event
	if e.explain != nil {
		expEvents = e.explain.Events()
	}

	for {
		select {
		case <-ctx.Done():
			if e.explain != nil {
				e.explain.Stop()
			}
			return

		case ev, ok := <-e.scans:
			if !ok {
				e.scans = nil
				continue
			}
			e.ApplyScan(ev)

		case ev := <-expEvents:
			e.ApplyExplain(ev)

		case cmd := <-e.cmds:
			e.Apply(cmd)

		case q := <-e.queries:
			q.fn(e.d)
			close(q.done)

		case <-ticker.C:
			e.Step(tickInterval)
		}
	}
}

// ApplyScan folds one ingestion event into the model, relayouts, and
// schedules a debounced fit-to-view.
func (e *Engine) ApplyScan(ev diagram.Event) {
	if !e.d.Apply(ev) {
		return
	}
	if ev.Kind == diagram.EventDetail {
		// Apply appends the detail last, after any on-demand topic.
		e.renderBody(e.d.Nodes[len(e.d.Nodes)-1], ev)
	}
	layout.Compute(e.d, e.params)
	e.sched.Wake(e.d, e.vp.Scale)
	layout.UpdateConnectors(e.d, e.vp.Scale, e.sched.CollapseThreshold)
	e.fitAt = e.now.Add(fitDebounce)
	e.dirty = true
}

// renderBody fills in the node's HTML presentation: captured file
// contents become a highlighted code block, a bare summary becomes
// rendered markdown.
func (e *Engine) renderBody(n *diagram.Node, ev diagram.Event) {
	var html string
	var err error
	switch {
	case ev.Content != "":
		html, err = render.CodeBlock(n.Label, ev.Content)
	case ev.Summary != "":
		html, err = render.Markdown(ev.Summary)
	default:
		return
	}
	if err != nil {
		log.Printf("[Engine] Render body of %s: %v", n.Label, err)
		return
	}
	n.BodyHTML = html
}

// ApplyExplain folds one explanation progress event into its node.
func (e *Engine) ApplyExplain(ev explain.Event) {
	if n := e.d.Node(ev.NodeID); n != nil {
		n.Explanation = ev.HTML
	}
	e.lastExplain = &ExplainView{
		NodeID:   ev.NodeID,
		State:    ev.State.String(),
		Markdown: ev.Markdown,
		HTML:     ev.HTML,
	}
	e.dirty = true
}

// Apply executes one user command.
func (e *Engine) Apply(cmd Command) {
	switch cmd.Kind {
	case CmdZoomIn:
		e.sched.StartZoom(e.vp.Scale, e.vp.Clamp(e.vp.Scale*e.vp.ZoomStep))

	case CmdZoomOut:
		e.sched.StartZoom(e.vp.Scale, e.vp.Clamp(e.vp.Scale/e.vp.ZoomStep))

	case CmdResetView:
		e.sched.StartZoom(e.vp.Scale, 1.0)

	case CmdFitView:
		bounds := e.d.Bounds()
		if !bounds.Empty() {
			e.vp.Pan = bounds.Center()
			e.sched.StartZoom(e.vp.Scale, e.vp.FitScale(bounds))
		}

	case CmdZoomToRect:
		if !cmd.Rect.Empty() {
			target := *e.vp
			target.ZoomToRect(cmd.Rect)
			e.vp.Pan = target.Pan
			e.sched.StartZoom(e.vp.Scale, target.Scale)
		}

	case CmdToggleNode:
		if n := e.d.Node(cmd.NodeID); n != nil {
			n.Toggle()
			e.sched.Wake(e.d, e.vp.Scale)
			e.dirty = true
		}

	case CmdMoveNode:
		if n := e.d.Node(cmd.NodeID); n != nil {
			n.Pos = cmd.Pos
			layout.UpdateConnectors(e.d, e.vp.Scale, e.sched.CollapseThreshold)
			e.dirty = true
		}

	case CmdStartExplain:
		if e.explain == nil {
			return
		}
		if n := e.d.Node(cmd.NodeID); n != nil && n.Kind == diagram.KindDetail {
			e.explain.Start(n.ID, n.Label, n.Body)
		}

	case CmdStopExplain:
		if e.explain != nil {
			e.explain.Stop()
		}

	case CmdResize:
		if cmd.Width > 0 && cmd.Height > 0 {
			e.vp.Width = cmd.Width
			e.vp.Height = cmd.Height
			e.fitAt = e.now.Add(fitDebounce)
			e.dirty = true
		}

	default:
		log.Printf("[Engine] Ignoring unknown command %q", cmd.Kind)
	}
}

// Step advances virtual time by dt, runs animations, applies the
// debounced fit, and publishes a snapshot when anything changed.
func (e *Engine) Step(dt time.Duration) {
	e.now = e.now.Add(dt)

	if scale, ok := e.sched.TickZoom(dt); ok {
		e.vp.Scale = e.vp.Clamp(scale)
		e.sched.Wake(e.d, e.vp.Scale)
		layout.UpdateConnectors(e.d, e.vp.Scale, e.sched.CollapseThreshold)
		e.dirty = true
	}

	if e.sched.TickNodes(e.d, e.vp.Scale, dt) {
		layout.UpdateConnectors(e.d, e.vp.Scale, e.sched.CollapseThreshold)
		e.dirty = true
	}

	if !e.fitAt.IsZero() && !e.now.Before(e.fitAt) {
		e.fitAt = time.Time{}
		bounds := e.d.Bounds()
		if !bounds.Empty() {
			e.vp.Pan = bounds.Center()
			e.sched.StartZoom(e.vp.Scale, e.vp.FitScale(bounds))
		}
	}

	if e.dirty {
		e.dirty = false
		e.publish()
	}
}

// Viewport returns the live viewport. Loop-goroutine access only; tests
// use it to assert on scale and pan between Steps.
func (e *Engine) Viewport() *view.Viewport { return e.vp }

// Diagram returns the live model. Loop-goroutine access only.
func (e *Engine) Diagram() *diagram.Diagram { return e.d }

func (e *Engine) publish() {
	snap := e.snapshot()

	e.mu.Lock()
	e.seq++
	snap.Seq = e.seq
	e.latest = snap
	for _, ch := range e.subs {
		select {
		case ch <- snap:
		default:
		}
	}
	e.mu.Unlock()
}

func (e *Engine) snapshot() Snapshot {
	snap := Snapshot{
		Nodes:      make([]NodeView, 0, len(e.d.Nodes)),
		Connectors: make([]ConnectorView, 0, len(e.d.Connectors)),
		Scale:      e.vp.Scale,
		PanX:       e.vp.Pan.X,
		PanY:       e.vp.Pan.Y,
		Width:      e.vp.Width,
		Height:     e.vp.Height,
		Explain:    e.lastExplain,
	}
	for _, n := range e.d.Nodes {
		r := n.CurrentRect()
		target := n.TargetProgress(e.vp.Scale, e.sched.CollapseThreshold)
		snap.Nodes = append(snap.Nodes, NodeView{
			ID:          n.ID,
			Kind:        n.Kind.String(),
			Label:       n.Label,
			Body:        n.Body,
			BodyHTML:    n.BodyHTML,
			Expanded:    n.Expanded,
			Progress:    n.Progress,
			State:       anim.NodeState(n.Progress, target).String(),
			X:           r.X,
			Y:           r.Y,
			W:           r.W,
			H:           r.H,
			Explanation: n.Explanation,
		})
	}
	for _, c := range e.d.Connectors {
		snap.Connectors = append(snap.Connectors, ConnectorView{
			From: c.From,
			To:   c.To,
			X1:   c.P1.X,
			Y1:   c.P1.Y,
			X2:   c.P2.X,
			Y2:   c.P2.Y,
		})
	}
	return snap
}
