// Package anim advances every running animation from a single explicit
// Tick called once per frame by the engine loop. Node expansion and the
// view zoom are the two animation families; there are no per-node
// timers, only an active set that converged nodes drop out of.
package anim

import (
	"math"
	"time"

	"constellation/internal/diagram"
	"constellation/internal/geom"
)

const (
	// Epsilon is the convergence band: once |progress - target| falls
	// inside it the value snaps to the target and the animation stops.
	Epsilon = 0.01

	// expansionSpeed is the fraction of the remaining distance covered
	// per reference frame.
	expansionSpeed = 0.15

	// frame is the reference frame duration the speed constant is
	// calibrated against (~60 FPS).
	frame = 16 * time.Millisecond

	// ZoomDuration is the length of an animated zoom.
	ZoomDuration = 200 * time.Millisecond
)

// State is the expansion state machine position of one node, derived
// from its progress and target rather than stored separately.
type State int

const (
	Collapsed State = iota
	Expanding
	Expanded
	Collapsing
)

func (s State) String() string {
	switch s {
	case Collapsed:
		return "collapsed"
	case Expanding:
		return "expanding"
	case Expanded:
		return "expanded"
	case Collapsing:
		return "collapsing"
	}
	return "unknown"
}

// NodeState classifies where a node is in its expansion animation given
// the effective target it is heading toward.
func NodeState(progress, target float64) State {
	if math.Abs(progress-target) < Epsilon {
		if target >= 1-Epsilon {
			return Expanded
		}
		return Collapsed
	}
	if target > progress {
		return Expanding
	}
	return Collapsing
}

type zoomAnim struct {
	start, target float64
	elapsed       time.Duration
}

// Scheduler owns the set of in-flight animations.
type Scheduler struct {
	// CollapseThreshold is the view scale below which detail nodes are
	// forced toward the collapsed state.
	CollapseThreshold float64

	active map[int]struct{}
	zoom   *zoomAnim
}

// NewScheduler returns a scheduler with the standard collapse threshold.
func NewScheduler() *Scheduler {
	return &Scheduler{
		CollapseThreshold: 0.5,
		active:            make(map[int]struct{}),
	}
}

// Wake re-evaluates every node against the current view scale and adds
// any node whose progress is away from its target to the active set.
// Call it after a toggle, a scale change, or new nodes arriving; ticks
// then touch only the active set.
func (s *Scheduler) Wake(d *diagram.Diagram, scale float64) {
	for _, n := range d.Nodes {
		target := n.TargetProgress(scale, s.CollapseThreshold)
		if math.Abs(n.Progress-target) >= Epsilon {
			s.active[n.ID] = struct{}{}
		}
	}
}

// Active reports how many node animations are currently running.
func (s *Scheduler) Active() int { return len(s.active) }

// TickNodes advances every active node's expansion progress toward its
// effective target and reports whether any geometry changed. Converged
// nodes snap to the target and leave the active set.
func (s *Scheduler) TickNodes(d *diagram.Diagram, scale float64, dt time.Duration) bool {
	if len(s.active) == 0 {
		return false
	}

	// Exponential approach calibrated so one reference frame covers
	// expansionSpeed of the remaining distance regardless of dt.
	alpha := 1 - math.Pow(1-expansionSpeed, float64(dt)/float64(frame))

	changed := false
	for id := range s.active {
		n := d.Node(id)
		if n == nil {
			delete(s.active, id)
			continue
		}
		target := n.TargetProgress(scale, s.CollapseThreshold)
		if math.Abs(n.Progress-target) < Epsilon {
			n.Progress = target
			delete(s.active, id)
			continue
		}
		n.Progress += (target - n.Progress) * alpha
		changed = true
		if math.Abs(n.Progress-target) < Epsilon {
			n.Progress = target
			delete(s.active, id)
		}
	}
	return changed
}

// StartZoom begins an eased scale animation from the current value. A
// zoom already in flight is replaced.
func (s *Scheduler) StartZoom(current, target float64) {
	s.zoom = &zoomAnim{start: current, target: target}
}

// ZoomActive reports whether a zoom animation is in flight.
func (s *Scheduler) ZoomActive() bool { return s.zoom != nil }

// TickZoom advances the zoom animation and returns the new scale. The
// second result is false once the animation has finished (including
// when none is running).
func (s *Scheduler) TickZoom(dt time.Duration) (float64, bool) {
	if s.zoom == nil {
		return 0, false
	}
	s.zoom.elapsed += dt
	t := float64(s.zoom.elapsed) / float64(ZoomDuration)
	if t >= 1 {
		scale := s.zoom.target
		s.zoom = nil
		return scale, true
	}
	return geom.Lerp(s.zoom.start, s.zoom.target, geom.EaseOutCubic(t)), true
}
