package scanner

import (
	"fmt"
	"math/rand"
	"path/filepath"
)

// Summarizer produces a short descriptive string for a file. It is
// called synchronously from the walk, so implementations must be fast
// and must not block on the network.
type Summarizer interface {
	Summarize(path string) string
}

// cannedSummaries are the phrases the stub summarizer cycles through.
var cannedSummaries = []string{
	"This file contains important data structures",
	"Multiple function definitions found",
	"Appears to be a configuration file",
	"Complex algorithms detected",
	"Database interactions present",
	"Network communication code",
	"User interface components",
	"Testing framework implementation",
	"Data processing routines",
	"Authentication mechanisms",
}

// StubSummarizer is a deterministic stand-in for a real content
// analyzer: it picks a canned phrase and tags it with the file's
// extension and a pseudo-random id. Seeding makes scans reproducible.
type StubSummarizer struct {
	rng *rand.Rand
}

// NewStubSummarizer returns a stub seeded with the given value.
func NewStubSummarizer(seed int64) *StubSummarizer {
	return &StubSummarizer{rng: rand.New(rand.NewSource(seed))}
}

func (s *StubSummarizer) Summarize(path string) string {
	base := cannedSummaries[s.rng.Intn(len(cannedSummaries))]
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s [%s] - %d", base, ext, 1000+s.rng.Intn(9000))
}
