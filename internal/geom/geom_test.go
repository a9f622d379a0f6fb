package geom

import (
	"math"
	"testing"
)

func TestAnchorPoint_OnBoundary(t *testing.T) {
	r := Rect{X: -50, Y: -20, W: 100, H: 40}

	targets := []Point{
		{200, 0},    // due right
		{-200, 0},   // due left
		{0, 200},    // due below
		{0, -200},   // due above (dead vertical)
		{150, 90},   // diagonal, shallow
		{30, 300},   // diagonal, steep
		{-120, -45}, // upper left
		{1, 1},      // target inside the rect
	}

	for _, target := range targets {
		p := AnchorPoint(r, target)
		if !OnBoundary(r, p, 1e-9) {
			t.Errorf("AnchorPoint(%v) = %v, not on boundary of %v", target, p, r)
		}
	}
}

func TestAnchorPoint_DeadVertical(t *testing.T) {
	r := Rect{X: -50, Y: -20, W: 100, H: 40}

	above := AnchorPoint(r, Point{0, -500})
	if above.X != 0 || above.Y != -20 {
		t.Errorf("dead-vertical above: got %v, want (0,-20)", above)
	}

	below := AnchorPoint(r, Point{0, 500})
	if below.X != 0 || below.Y != 20 {
		t.Errorf("dead-vertical below: got %v, want (0,20)", below)
	}
}

func TestAnchorPoint_EdgeSelection(t *testing.T) {
	// 100x40 rect: aspect ratio h/w = 0.4. A slope below 0.4 must exit
	// through a vertical edge, a steeper one through a horizontal edge.
	r := Rect{X: -50, Y: -20, W: 100, H: 40}

	shallow := AnchorPoint(r, Point{1000, 100}) // slope 0.1
	if shallow.X != 50 {
		t.Errorf("shallow slope should exit right edge, got %v", shallow)
	}

	steep := AnchorPoint(r, Point{100, 1000}) // slope 10
	if steep.Y != 20 {
		t.Errorf("steep slope should exit bottom edge, got %v", steep)
	}
}

func TestAxisAnchor(t *testing.T) {
	r := Rect{X: -40, Y: -10, W: 80, H: 20}

	tests := []struct {
		target Point
		want   Point
	}{
		{Point{300, 5}, Point{40, 0}},   // dominant +x
		{Point{-300, 5}, Point{-40, 0}}, // dominant -x
		{Point{5, 300}, Point{0, 10}},   // dominant +y
		{Point{5, -300}, Point{0, -10}}, // dominant -y
	}
	for _, tt := range tests {
		got := AxisAnchor(r, tt.target)
		if got != tt.want {
			t.Errorf("AxisAnchor(%v) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

func TestTopicAngleDeg_Spacing(t *testing.T) {
	for n := 1; n <= 12; n++ {
		for i := 1; i < n; i++ {
			gap := TopicAngleDeg(i-1, n) - TopicAngleDeg(i, n)
			want := 360 / float64(n)
			if math.Abs(gap-want) > 1e-9 {
				t.Fatalf("n=%d i=%d: gap %v, want %v", n, i, gap, want)
			}
		}
	}
}

func TestDetailAngleDeg_SingleDetail(t *testing.T) {
	// Exactly one detail sits at the arc base, not NaN from a zero
	// denominator.
	got := DetailAngleDeg(90, 120, 0, 1)
	if got != 150 {
		t.Errorf("single detail angle = %v, want 150", got)
	}
}

func TestDetailAngleDeg_SpansArc(t *testing.T) {
	const span = 120.0
	first := DetailAngleDeg(0, span, 0, 5)
	last := DetailAngleDeg(0, span, 4, 5)
	if math.Abs((first-last)-span) > 1e-9 {
		t.Errorf("arc from %v to %v does not span %v degrees", first, last, span)
	}
}

func TestEaseOutCubic(t *testing.T) {
	if EaseOutCubic(0) != 0 || EaseOutCubic(1) != 1 {
		t.Error("easing must be anchored at 0 and 1")
	}
	// Monotone increasing.
	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := EaseOutCubic(float64(i) / 100)
		if v < prev {
			t.Fatalf("easing not monotone at t=%v", float64(i)/100)
		}
		prev = v
	}
	// Out-easing front-loads movement.
	if EaseOutCubic(0.5) <= 0.5 {
		t.Error("out-cubic should exceed linear at t=0.5")
	}
}

func TestRectUnion_EmptyIdentity(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 3, H: 4}
	if got := (Rect{}).Union(r); got != r {
		t.Errorf("empty union r = %v, want %v", got, r)
	}
	if got := r.Union(Rect{}); got != r {
		t.Errorf("r union empty = %v, want %v", got, r)
	}
}
