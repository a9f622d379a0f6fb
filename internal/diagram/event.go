package diagram

// EventKind classifies an ingestion event.
type EventKind string

const (
	// EventSubtopic announces a directory.
	EventSubtopic EventKind = "subtopic"
	// EventDetail announces a file under a directory.
	EventDetail EventKind = "detail"
)

// Event is one deduplicated ingestion observation: a directory or file
// discovered during a walk, together with its summary and (for files
// small enough) the captured content. Events are idempotent: applying
// the same event twice leaves the model unchanged.
type Event struct {
	Kind    EventKind
	Parent  string // label of the owning directory; RootTopic for top-level entries
	Label   string // directory or file base name
	Summary string // short descriptive string from the summary provider
	Content string // captured file text, empty if unavailable
}

// Key returns the dedup key identifying this event. Two events with the
// same key describe the same filesystem entry.
func (e Event) Key() string {
	return string(e.Kind) + ":" + e.Parent + ":" + e.Label
}
