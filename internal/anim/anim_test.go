package anim

import (
	"math"
	"testing"
	"time"

	"constellation/internal/diagram"
)

const tick = 16 * time.Millisecond

func collapsedDetail(t *testing.T) (*diagram.Diagram, *diagram.Node) {
	t.Helper()
	d := diagram.New()
	d.Apply(diagram.Event{Kind: diagram.EventSubtopic, Parent: diagram.RootTopic, Label: "src"})
	d.Apply(diagram.Event{Kind: diagram.EventDetail, Parent: "src", Label: "a.py"})
	n := d.Node(d.Details["src"][0])
	n.Progress = 0
	return d, n
}

func TestTickNodes_Converges(t *testing.T) {
	d, n := collapsedDetail(t)
	s := NewScheduler()
	s.Wake(d, 1.0) // target 1 (expanded), progress 0

	prev := math.Abs(n.Progress - 1)
	ticks := 0
	for s.Active() > 0 {
		s.TickNodes(d, 1.0, tick)
		ticks++
		dist := math.Abs(n.Progress - 1)
		if dist > prev {
			t.Fatalf("tick %d: distance grew from %v to %v", ticks, prev, dist)
		}
		prev = dist
		if ticks > 200 {
			t.Fatal("animation did not converge within 200 ticks")
		}
	}

	if n.Progress != 1 {
		t.Errorf("converged progress = %v, want exactly 1", n.Progress)
	}

	// Further ticks are free and change nothing.
	if s.TickNodes(d, 1.0, tick) {
		t.Error("tick after convergence reported a change")
	}
	if n.Progress != 1 {
		t.Errorf("progress moved after convergence: %v", n.Progress)
	}
}

func TestTickNodes_IdleCostsNothing(t *testing.T) {
	d, _ := collapsedDetail(t)
	s := NewScheduler()
	s.Wake(d, 1.0)
	for s.Active() > 0 {
		s.TickNodes(d, 1.0, tick)
	}
	if s.Active() != 0 {
		t.Errorf("active set = %d after convergence, want 0", s.Active())
	}
}

func TestTickNodes_AutoCollapseOverridesToggle(t *testing.T) {
	d, n := collapsedDetail(t)
	n.Progress = 1 // currently expanded
	s := NewScheduler()

	// Scale below the threshold forces the detail toward collapsed even
	// though the user toggle says expanded.
	s.Wake(d, 0.3)
	if s.Active() == 0 {
		t.Fatal("detail should animate under the collapse threshold")
	}
	for i := 0; i < 500 && s.Active() > 0; i++ {
		s.TickNodes(d, 0.3, tick)
	}
	if n.Progress != 0 {
		t.Fatalf("auto-collapse progress = %v, want 0", n.Progress)
	}

	// Zooming back in restores the user's intent.
	s.Wake(d, 1.0)
	for i := 0; i < 500 && s.Active() > 0; i++ {
		s.TickNodes(d, 1.0, tick)
	}
	if n.Progress != 1 {
		t.Errorf("restored progress = %v, want 1", n.Progress)
	}
}

func TestNodeState(t *testing.T) {
	tests := []struct {
		progress, target float64
		want             State
	}{
		{0, 0, Collapsed},
		{1, 1, Expanded},
		{0.004, 0, Collapsed},
		{0.3, 1, Expanding},
		{0.7, 0, Collapsing},
	}
	for _, tt := range tests {
		if got := NodeState(tt.progress, tt.target); got != tt.want {
			t.Errorf("NodeState(%v, %v) = %v, want %v", tt.progress, tt.target, got, tt.want)
		}
	}
}

func TestZoom_EasedAndTerminates(t *testing.T) {
	s := NewScheduler()
	s.StartZoom(1.0, 2.0)

	var last float64 = 1.0
	steps := 0
	for s.ZoomActive() {
		scale, ok := s.TickZoom(tick)
		if !ok {
			break
		}
		if scale < last-1e-9 {
			t.Fatalf("zoom moved backwards: %v -> %v", last, scale)
		}
		last = scale
		steps++
		if steps > 100 {
			t.Fatal("zoom did not terminate")
		}
	}

	if last != 2.0 {
		t.Errorf("final scale = %v, want 2.0", last)
	}
	wantSteps := int(ZoomDuration/tick) + 1
	if steps > wantSteps {
		t.Errorf("zoom took %d ticks, want at most %d", steps, wantSteps)
	}

	if _, ok := s.TickZoom(tick); ok {
		t.Error("TickZoom after completion should report inactive")
	}
}

func TestZoom_RestartReplaces(t *testing.T) {
	s := NewScheduler()
	s.StartZoom(1.0, 2.0)
	s.TickZoom(tick)
	s.StartZoom(1.5, 0.5)

	var final float64
	for {
		scale, ok := s.TickZoom(ZoomDuration)
		if !ok {
			break
		}
		final = scale
	}
	if final != 0.5 {
		t.Errorf("replaced zoom ended at %v, want 0.5", final)
	}
}
