// Package llm defines the text-generation contract the explanation
// stream depends on: a provider turns a prompt into a cancellable
// sequence of text chunks, terminated by channel close (completion) or
// a final chunk carrying an error.
package llm

import "context"

// Chunk is one streamed fragment. A chunk with Err set is the last
// thing a stream delivers before closing.
type Chunk struct {
	Content string
	Err     error
}

// StreamRequest describes one generation request.
type StreamRequest struct {
	Model  string // overrides the provider default when non-empty
	Prompt string
}

// Provider is a streaming text-generation backend. Stream returns
// immediately; chunks arrive on the returned channel until it is
// closed. Cancelling the context stops the stream; the channel still
// closes, and callers must drain it to observe termination.
type Provider interface {
	// Stream begins a generation and returns its chunk channel.
	Stream(ctx context.Context, req StreamRequest) (<-chan Chunk, error)
	// Name returns the name of this provider.
	Name() string
}
