// Package layout computes absolute positions for every diagram node and
// keeps connector endpoints attached to node boundaries. Layout is a
// full recomputation over the whole model on every mutation; the
// diagram is expected to stay within hundreds of nodes, so O(n) per
// change is a deliberate simplicity trade-off over incremental
// relaxation.
package layout

import (
	"constellation/internal/diagram"
	"constellation/internal/geom"
)

// Params controls the radial placement.
type Params struct {
	// TopicRadius is the distance from the root to every topic node.
	TopicRadius float64
	// DetailRadius is the base distance from a topic to its first
	// detail node; each subsequent sibling moves further out.
	DetailRadius float64
	// DetailSpanDeg is the angular window the details of one topic fan
	// across, centered past the root->topic direction.
	DetailSpanDeg float64
	// DetailSpacingFactor scales a detail node's minimum width into the
	// radial gap between consecutive siblings.
	DetailSpacingFactor float64
}

// DefaultParams mirrors the tuned constants of the interactive view.
func DefaultParams() Params {
	return Params{
		TopicRadius:         500,
		DetailRadius:        300,
		DetailSpanDeg:       120,
		DetailSpacingFactor: 1.5,
	}
}

// Compute assigns a position to every node: the root at the scene
// origin, topics on a circle around it in insertion order, and each
// topic's details on an arc at increasing radius. Zero topics leave
// only the root placed; a topic without details draws no arc.
func Compute(d *diagram.Diagram, p Params) {
	origin := geom.Point{}
	d.Root().Pos = origin

	n := d.TopicCount()
	if n == 0 {
		return
	}

	for i, label := range d.TopicOrder {
		topic := d.TopicNode(label)
		topicDeg := geom.TopicAngleDeg(i, n)
		topic.Pos = geom.PolarOffset(origin, p.TopicRadius, topicDeg)

		details := d.Details[label]
		m := len(details)
		for j, id := range details {
			node := d.Node(id)
			spacing := node.MinSize.W * p.DetailSpacingFactor
			radius := p.DetailRadius + float64(j)*spacing
			deg := geom.DetailAngleDeg(topicDeg, p.DetailSpanDeg, j, m)
			node.Pos = geom.PolarOffset(topic.Pos, radius, deg)
		}
	}
}

// UpdateConnectors recomputes both endpoints of every connector from
// the endpoint nodes' current interpolated rectangles, so lines stay
// visually attached while nodes move, resize, or animate. Detail nodes
// presented as collapsed silhouettes (view scale under the collapse
// threshold) use the axis-aligned edge anchor of their current
// rectangle; everything else uses the true boundary anchor.
func UpdateConnectors(d *diagram.Diagram, scale, collapseThreshold float64) {
	for _, c := range d.Connectors {
		from := d.Node(c.From)
		to := d.Node(c.To)
		c.P1 = anchor(from, to.Pos, scale, collapseThreshold)
		c.P2 = anchor(to, from.Pos, scale, collapseThreshold)
	}
}

func anchor(n *diagram.Node, target geom.Point, scale, threshold float64) geom.Point {
	r := n.CurrentRect()
	if n.Kind == diagram.KindDetail && scale < threshold {
		return geom.AxisAnchor(r, target)
	}
	return geom.AnchorPoint(r, target)
}
