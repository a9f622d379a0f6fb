// Package explain runs cancellable LLM explanation sessions for diagram
// nodes. A session streams chunks from a provider, accumulates them into
// a markdown document, and publishes progress events with rendered HTML.
package explain

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"constellation/internal/llm"
	"constellation/internal/render"
)

// InterruptedMarker is appended to the accumulated markdown exactly once
// when a session is stopped before the stream completes.
const InterruptedMarker = "\n\n*Explanation interrupted.*"

// State is the lifecycle of an explanation session.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateFinished
	StateInterrupted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	case StateInterrupted:
		return "interrupted"
	default:
		return "idle"
	}
}

// Event is one progress update from a session. Markdown carries the full
// accumulated text so far, HTML its rendered form.
type Event struct {
	SessionID string
	NodeID    int
	State     State
	Markdown  string
	HTML      string
}

type session struct {
	id     string
	nodeID int
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager owns at most one explanation session at a time. Starting a new
// session interrupts the previous one first.
type Manager struct {
	provider llm.Provider
	model    string
	events   chan Event

	mu      sync.Mutex
	current *session
}

// NewManager creates a session manager streaming from the given provider.
func NewManager(provider llm.Provider, model string) *Manager {
	return &Manager{
		provider: provider,
		model:    model,
		events:   make(chan Event, 64),
	}
}

// Events returns the channel progress events are delivered on.
func (m *Manager) Events() <-chan Event { return m.events }

// Start begins an explanation for the node's content. Any session still
// running is interrupted before the new one starts.
func (m *Manager) Start(nodeID int, label, content string) string {
	m.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		id:     uuid.New().String(),
		nodeID: nodeID,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	go m.run(ctx, s, label, content)
	return s.id
}

// Stop interrupts the running session, if any, and waits for its worker
// to exit. Calling Stop with no session running is a no-op.
func (m *Manager) Stop() {
	m.mu.Lock()
	s := m.current
	m.current = nil
	m.mu.Unlock()

	if s == nil {
		return
	}
	s.cancel()
	<-s.done
}

// Active reports the node of the running session, or -1 when idle.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return -1
	}
	return m.current.nodeID
}

func (m *Manager) run(ctx context.Context, s *session, label, content string) {
	defer close(s.done)
	defer s.cancel()

	prompt := buildPrompt(label, content)
	ch, err := m.provider.Stream(ctx, llm.StreamRequest{Model: m.model, Prompt: prompt})
	if err != nil {
		md := fmt.Sprintf("**Error:** %v", err)
		m.emit(s, StateFinished, md)
		m.clear(s)
		return
	}

	var acc strings.Builder
	for chunk := range ch {
		if chunk.Err != nil {
			acc.WriteString(fmt.Sprintf("\n\n**Error:** %v", chunk.Err))
			break
		}
		acc.WriteString(chunk.Content)
		m.emit(s, StateRunning, acc.String())
	}

	// Channel closed. Either the stream completed or the session was
	// cancelled; the marker is appended only on cancellation.
	select {
	case <-ctx.Done():
		acc.WriteString(InterruptedMarker)
		m.emit(s, StateInterrupted, acc.String())
	default:
		m.emit(s, StateFinished, acc.String())
	}
	m.clear(s)
}

// clear drops the session from current if it is still the active one.
func (m *Manager) clear(s *session) {
	m.mu.Lock()
	if m.current == s {
		m.current = nil
	}
	m.mu.Unlock()
}

func (m *Manager) emit(s *session, state State, markdown string) {
	html, err := render.Markdown(markdown)
	if err != nil {
		log.Printf("[Explain] Render failed: %v", err)
		html = ""
	}
	ev := Event{
		SessionID: s.id,
		NodeID:    s.nodeID,
		State:     state,
		Markdown:  markdown,
		HTML:      html,
	}
	select {
	case m.events <- ev:
	default:
		// A slow consumer drops intermediate updates. Terminal events
		// must not be lost, so discard stale updates until there is
		// room; emit never blocks, so a Stop waiting on the worker
		// cannot deadlock an undrained consumer.
		if state == StateRunning {
			return
		}
		for {
			select {
			case m.events <- ev:
				return
			case <-m.events:
			}
		}
	}
}

func buildPrompt(label, content string) string {
	var b strings.Builder
	b.WriteString("Explain the following file from a software project. ")
	b.WriteString("Describe its purpose and key parts in concise markdown.\n\n")
	fmt.Fprintf(&b, "File: %s\n\n", label)
	b.WriteString("```\n")
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n")
	return b.String()
}
