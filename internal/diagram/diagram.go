// Package diagram holds the model of the radial diagram: an arena of
// nodes, the connectors linking them, and the ordered topic membership
// map built up from ingestion events.
package diagram

import "constellation/internal/geom"

// RootTopic is the parent label used for entries directly under the
// scanned root directory.
const RootTopic = "Main Topic"

// RootFilesTopic is the synthetic topic that collects files living
// directly under the scanned root.
const RootFilesTopic = "Root Files"

// Connector is a line between two nodes, referenced by arena index.
// P1/P2 are the current boundary anchor points, maintained by the
// layout engine whenever either endpoint moves or resizes.
type Connector struct {
	From int        `json:"from"`
	To   int        `json:"to"`
	P1   geom.Point `json:"p1"`
	P2   geom.Point `json:"p2"`
}

// Diagram owns all nodes and connectors. Nodes and connectors live in
// flat slices and refer to each other by index, so there are no
// ownership cycles. The model is only ever mutated from the engine
// goroutine; it carries no locking of its own.
type Diagram struct {
	Nodes      []*Node
	Connectors []*Connector

	// TopicOrder preserves topic insertion order; angular placement
	// depends on it. Details maps a topic label to its detail node ids
	// in insertion order.
	TopicOrder []string
	Details    map[string][]int

	// Responses maps a content label to its text payload (summary or
	// captured file contents). It is the same text the owning node's
	// body carries.
	Responses map[string]string

	topicID map[string]int
	seen    map[string]struct{}
}

// New creates a diagram containing only the root node. The root is
// created exactly once per diagram; a new scan root means a new
// diagram, not a mutation of this one.
func New() *Diagram {
	d := &Diagram{
		Details:   make(map[string][]int),
		Responses: make(map[string]string),
		topicID:   make(map[string]int),
		seen:      make(map[string]struct{}),
	}
	d.addNode(KindRoot, RootTopic, "")
	return d
}

// Root returns the root node.
func (d *Diagram) Root() *Node { return d.Nodes[0] }

// Node returns the node with the given id, or nil if out of range.
func (d *Diagram) Node(id int) *Node {
	if id < 0 || id >= len(d.Nodes) {
		return nil
	}
	return d.Nodes[id]
}

// TopicNode returns the node for a topic label, or nil.
func (d *Diagram) TopicNode(label string) *Node {
	id, ok := d.topicID[label]
	if !ok {
		return nil
	}
	return d.Nodes[id]
}

func (d *Diagram) addNode(kind Kind, label, body string) *Node {
	n := newNode(len(d.Nodes), kind, label, body)
	d.Nodes = append(d.Nodes, n)
	return n
}

// connect adds a connector between two nodes and registers it on both.
func (d *Diagram) connect(from, to int) {
	idx := len(d.Connectors)
	d.Connectors = append(d.Connectors, &Connector{From: from, To: to})
	d.Nodes[from].Connectors = append(d.Nodes[from].Connectors, idx)
	d.Nodes[to].Connectors = append(d.Nodes[to].Connectors, idx)
}

// ensureTopic returns the node id of the topic with the given label,
// creating the topic (and its connector from the root) if needed.
func (d *Diagram) ensureTopic(label string) int {
	if id, ok := d.topicID[label]; ok {
		return id
	}
	n := d.addNode(KindTopic, label, "")
	d.topicID[label] = n.ID
	d.TopicOrder = append(d.TopicOrder, label)
	if _, ok := d.Details[label]; !ok {
		d.Details[label] = nil
	}
	d.connect(0, n.ID)
	return n.ID
}

// Apply folds one ingestion event into the model and reports whether
// anything changed. Unknown detail parents fall through to the
// synthetic root-files topic, matching how top-level files are
// announced with the root as parent.
func (d *Diagram) Apply(ev Event) bool {
	switch ev.Kind {
	case EventSubtopic:
		if _, ok := d.topicID[ev.Label]; ok {
			return false
		}
		d.ensureTopic(ev.Label)
		return true

	case EventDetail:
		// Apply is idempotent at the model level, independent of any
		// producer-side dedup.
		if _, dup := d.seen[ev.Key()]; dup {
			return false
		}
		d.seen[ev.Key()] = struct{}{}

		topic := ev.Parent
		if _, ok := d.topicID[topic]; !ok {
			if topic != RootTopic {
				// Parent directory not announced yet; create it so the
				// detail is never orphaned.
				d.ensureTopic(topic)
			} else {
				topic = RootFilesTopic
				d.ensureTopic(topic)
			}
		}

		body := ev.Summary
		if ev.Content != "" {
			body = "File contents:\n\n" + ev.Content
		}
		if body != "" {
			d.Responses[ev.Label] = body
		}

		text := ev.Label
		if body != "" {
			text = ev.Label + "\n" + body
		}

		n := d.addNode(KindDetail, ev.Label, text)
		d.Details[topic] = append(d.Details[topic], n.ID)
		d.connect(d.topicID[topic], n.ID)
		return true
	}
	return false
}

// Bounds returns the union of every node's stable rectangle. An empty
// diagram (impossible in practice, the root always exists) yields the
// zero rectangle.
func (d *Diagram) Bounds() geom.Rect {
	var b geom.Rect
	for _, n := range d.Nodes {
		b = b.Union(n.BoundsRect())
	}
	return b
}

// TopicCount returns the number of topic nodes.
func (d *Diagram) TopicCount() int { return len(d.TopicOrder) }
