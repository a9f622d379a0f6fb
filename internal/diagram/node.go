package diagram

import (
	"strings"
	"unicode/utf8"

	"constellation/internal/geom"
)

// Kind discriminates the three node variants. Code switches on Kind
// exhaustively instead of carrying ad hoc boolean flags.
type Kind int

const (
	KindRoot Kind = iota
	KindTopic
	KindDetail
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindTopic:
		return "topic"
	case KindDetail:
		return "detail"
	}
	return "unknown"
}

// Default footprints per node kind.
var defaultMinSize = map[Kind]geom.Size{
	KindRoot:   {W: 200, H: 120},
	KindTopic:  {W: 180, H: 100},
	KindDetail: {W: 500, H: 120},
}

// Text metrics used to estimate the expanded footprint of a node from
// its body. The renderer uses a monospace face, so a fixed advance is a
// close enough approximation for layout purposes.
const (
	charWidth  = 7.0
	lineHeight = 16.0

	// maxGrowthFactor caps how far a node may grow past its minimum
	// footprint, bounding runaway text.
	maxGrowthFactor = 3.0

	// widthStep is the increment used when widening a node whose
	// wrapped text would otherwise exceed the height cap.
	widthStep = 50.0
)

// Node is one diagram node. Geometry fields are in diagram space with
// Pos as the node center; Progress interpolates the footprint between
// the collapsed and expanded sizes.
type Node struct {
	ID    int    `json:"id"`
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`

	// Body is the full text payload: a scan summary, file contents, or
	// empty. Explanation holds the rendered secondary body streamed in
	// by an explanation session.
	Body        string `json:"body,omitempty"`
	Explanation string `json:"explanation,omitempty"`

	// BodyHTML is the rendered presentation of Body (a highlighted code
	// block for captured file contents), filled in by the engine when
	// the node is created.
	BodyHTML string `json:"body_html,omitempty"`

	MinSize       geom.Size `json:"-"`
	CollapsedSize geom.Size `json:"-"`
	ExpandedSize  geom.Size `json:"-"`

	// Expanded is the user's toggle intent. Progress is the animation
	// value in [0,1]; 0 = fully collapsed, 1 = fully expanded.
	Expanded bool    `json:"expanded"`
	Progress float64 `json:"progress"`

	Pos geom.Point `json:"pos"`

	// Connectors holds indexes into Diagram.Connectors for every line
	// touching this node, incoming or outgoing.
	Connectors []int `json:"-"`
}

// newNode builds a node of the given kind with measured sizes. Nodes
// start expanded, matching the initial presentation.
func newNode(id int, kind Kind, label, body string) *Node {
	min := defaultMinSize[kind]
	side := min.W
	if min.H < side {
		side = min.H
	}

	n := &Node{
		ID:       id,
		Kind:     kind,
		Label:    label,
		Body:     body,
		MinSize:  min,
		Expanded: true,
		Progress: 1.0,
		CollapsedSize: geom.Size{
			W: side * 0.8,
			H: side * 0.4,
		},
	}
	n.ExpandedSize = measureExpanded(n.displayText(), min)
	return n
}

// displayText is the text whose extent drives the expanded footprint.
func (n *Node) displayText() string {
	if n.Body != "" {
		return n.Body
	}
	return n.Label
}

// SetBody replaces the body payload and re-measures the expanded size.
func (n *Node) SetBody(body string) {
	n.Body = body
	n.ExpandedSize = measureExpanded(n.displayText(), n.MinSize)
}

// Toggle flips the user's expansion intent.
func (n *Node) Toggle() { n.Expanded = !n.Expanded }

// TargetProgress returns the expansion target this node should animate
// toward. Detail nodes are forced collapsed when the view scale is
// below the auto-collapse threshold, overriding the user's toggle;
// the user's intent is restored once the scale rises back.
func (n *Node) TargetProgress(scale, collapseThreshold float64) float64 {
	if n.Kind == KindDetail && scale < collapseThreshold {
		return 0
	}
	if n.Expanded {
		return 1
	}
	return 0
}

// CurrentSize interpolates width and height independently between the
// collapsed and expanded footprints by the animation progress.
func (n *Node) CurrentSize() geom.Size {
	return geom.Size{
		W: geom.Lerp(n.CollapsedSize.W, n.ExpandedSize.W, n.Progress),
		H: geom.Lerp(n.CollapsedSize.H, n.ExpandedSize.H, n.Progress),
	}
}

// CurrentRect is the interpolated rectangle centered on the node position.
func (n *Node) CurrentRect() geom.Rect {
	return geom.RectAround(n.Pos, n.CurrentSize())
}

// BoundsRect is the stable maximal rectangle of the node, used for
// scene bounds so fit-to-view does not jitter while nodes animate.
func (n *Node) BoundsRect() geom.Rect {
	w := n.ExpandedSize.W
	if n.CollapsedSize.W > w {
		w = n.CollapsedSize.W
	}
	h := n.ExpandedSize.H
	if n.CollapsedSize.H > h {
		h = n.CollapsedSize.H
	}
	return geom.RectAround(n.Pos, geom.Size{W: w, H: h})
}

// measureExpanded estimates the footprint of text wrapped at the
// minimum width. If the wrapped height exceeds three times the minimum
// height, the width grows in fixed steps (up to three times the minimum
// width) to trade height for width before giving up and clipping.
func measureExpanded(text string, min geom.Size) geom.Size {
	width := min.W
	maxWidth := min.W * maxGrowthFactor
	maxHeight := min.H * maxGrowthFactor

	h := wrappedHeight(text, width)
	for h > maxHeight && width < maxWidth {
		width += widthStep
		h = wrappedHeight(text, width)
	}

	if width < min.W {
		width = min.W
	}
	if h < min.H {
		h = min.H
	}
	if h > maxHeight {
		h = maxHeight
	}
	return geom.Size{W: width, H: h}
}

// wrappedHeight returns the height of text word-wrapped at the given
// width using the fixed character metrics.
func wrappedHeight(text string, width float64) float64 {
	perLine := int(width / charWidth)
	if perLine < 1 {
		perLine = 1
	}

	lines := 0
	for _, raw := range strings.Split(text, "\n") {
		n := utf8.RuneCountInString(raw)
		if n == 0 {
			lines++
			continue
		}
		lines += (n + perLine - 1) / perLine
	}
	if lines < 1 {
		lines = 1
	}
	return float64(lines) * lineHeight
}
