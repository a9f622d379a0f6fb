// Package view owns the zoom/pan state of the diagram viewport: scale
// bounds, stepped and animated zoom, and the fit-to-content transforms.
package view

import (
	"constellation/internal/geom"
)

// Default zoom bounds and step. The rubber-band zoom ceiling is higher
// than the stepped ceiling so a tight selection can magnify further.
const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 3.0
	DefaultZoomStep = 1.15

	// fitPadding is the margin kept around content by fit operations.
	fitPadding = 50.0
)

// Viewport holds the current view transform over the diagram scene.
type Viewport struct {
	Scale float64    // current zoom factor
	Pan   geom.Point // scene point at the viewport center

	Width  float64 // viewport pixel width
	Height float64 // viewport pixel height

	MinScale float64
	MaxScale float64
	ZoomStep float64
}

// New returns a viewport of the given pixel size at 100% zoom.
func New(width, height float64) *Viewport {
	return &Viewport{
		Scale:    1.0,
		Width:    width,
		Height:   height,
		MinScale: DefaultMinScale,
		MaxScale: DefaultMaxScale,
		ZoomStep: DefaultZoomStep,
	}
}

// Clamp limits a scale to the viewport's bounds.
func (v *Viewport) Clamp(scale float64) float64 {
	return geom.Clamp(scale, v.MinScale, v.MaxScale)
}

// ZoomIn multiplies the scale by one step, clamped.
func (v *Viewport) ZoomIn() { v.Scale = v.Clamp(v.Scale * v.ZoomStep) }

// ZoomOut divides the scale by one step, clamped.
func (v *Viewport) ZoomOut() { v.Scale = v.Clamp(v.Scale / v.ZoomStep) }

// Reset returns the view to 100%.
func (v *Viewport) Reset() { v.Scale = 1.0 }

// PanBy shifts the view center by the given scene-space delta.
func (v *Viewport) PanBy(d geom.Point) { v.Pan = v.Pan.Add(d) }

// FitScale computes the scale that fits the given content bounds in
// the viewport with padding, capped at 100% so fitting never zooms in
// past full size. Degenerate bounds (empty scene, zero extent) return
// the current scale unchanged, so fitting an empty scene is a no-op.
func (v *Viewport) FitScale(bounds geom.Rect) float64 {
	padded := bounds.Inset(-fitPadding)
	if padded.Empty() || v.Width <= 0 || v.Height <= 0 {
		return v.Scale
	}
	scale := v.Width / padded.W
	if h := v.Height / padded.H; h < scale {
		scale = h
	}
	if scale > 1.0 {
		scale = 1.0
	}
	return v.Clamp(scale)
}

// FitInView scales and pans so the content bounds are fully visible and
// centered. Empty bounds leave the viewport untouched.
func (v *Viewport) FitInView(bounds geom.Rect) {
	if bounds.Empty() {
		return
	}
	v.Scale = v.FitScale(bounds)
	v.Pan = bounds.Center()
}

// ZoomToRect fits the given scene rectangle (a rubber-band selection)
// into the viewport, clamped to the zoom bounds, and centers on it.
// Unlike FitInView there is no 100% ceiling: selecting a small region
// zooms in up to MaxScale. Empty rectangles are ignored.
func (v *Viewport) ZoomToRect(r geom.Rect) {
	if r.Empty() || v.Width <= 0 || v.Height <= 0 {
		return
	}
	scale := v.Width / r.W
	if h := v.Height / r.H; h < scale {
		scale = h
	}
	v.Scale = v.Clamp(scale)
	v.Pan = r.Center()
}

// VisibleRect returns the scene rectangle currently covered by the
// viewport.
func (v *Viewport) VisibleRect() geom.Rect {
	w := v.Width / v.Scale
	h := v.Height / v.Scale
	return geom.RectAround(v.Pan, geom.Size{W: w, H: h})
}
