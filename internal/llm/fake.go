package llm

import (
	"context"
	"strings"
	"time"
)

const fakeExplanation = `## Overview

This code defines the main data structures and entry points of the
module. The top-level declarations establish configuration, and the
remaining functions implement the core behavior.

### Key points

- **Structure**: declarations are grouped by responsibility.
- **Flow**: input is validated, transformed, and handed to the output
  stage.
- **Errors**: failures are reported to the caller rather than handled
  locally.

Overall the file is a self-contained unit with a narrow interface to
the rest of the system.`

// FakeProvider streams a canned markdown explanation word by word. It
// exists for offline use and for tests that exercise the streaming
// machinery without a backend.
type FakeProvider struct {
	// Text overrides the canned explanation when non-empty.
	Text string
	// Delay is the pause between chunks (0 = no pause).
	Delay time.Duration
}

// NewFakeProvider returns a fake provider with no inter-chunk delay.
func NewFakeProvider() *FakeProvider { return &FakeProvider{} }

func (p *FakeProvider) Name() string { return "fake" }

func (p *FakeProvider) Stream(ctx context.Context, req StreamRequest) (<-chan Chunk, error) {
	text := p.Text
	if text == "" {
		text = fakeExplanation
	}

	out := make(chan Chunk)
	go func() {
		defer close(out)
		for _, word := range strings.SplitAfter(text, " ") {
			if p.Delay > 0 {
				select {
				case <-time.After(p.Delay):
				case <-ctx.Done():
					return
				}
			}
			select {
			case out <- Chunk{Content: word}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
