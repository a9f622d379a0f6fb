package explain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"constellation/internal/llm"
)

// scriptedProvider delivers chunks pushed by the test, so chunk timing
// is fully controlled.
type scriptedProvider struct {
	chunks chan llm.Chunk
}

func newScriptedProvider() *scriptedProvider {
	return &scriptedProvider{chunks: make(chan llm.Chunk)}
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Stream(ctx context.Context, req llm.StreamRequest) (<-chan llm.Chunk, error) {
	out := make(chan llm.Chunk)
	go func() {
		defer close(out)
		for {
			select {
			case c, ok := <-p.chunks:
				if !ok {
					return
				}
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func waitEvent(t *testing.T, m *Manager) Event {
	t.Helper()
	select {
	case ev := <-m.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestManager_StreamsAndFinishes(t *testing.T) {
	p := newScriptedProvider()
	m := NewManager(p, "test-model")

	m.Start(3, "main.go", "package main")

	p.chunks <- llm.Chunk{Content: "This file "}
	ev := waitEvent(t, m)
	if ev.State != StateRunning || ev.NodeID != 3 {
		t.Fatalf("first event = %v node %d, want running node 3", ev.State, ev.NodeID)
	}
	if ev.HTML == "" {
		t.Error("running event should carry rendered HTML")
	}

	p.chunks <- llm.Chunk{Content: "is the entry point."}
	waitEvent(t, m)
	close(p.chunks)

	ev = waitEvent(t, m)
	if ev.State != StateFinished {
		t.Fatalf("terminal state = %v, want finished", ev.State)
	}
	if ev.Markdown != "This file is the entry point." {
		t.Errorf("accumulated markdown = %q", ev.Markdown)
	}
	if m.Active() != -1 {
		t.Errorf("Active = %d after finish, want -1", m.Active())
	}
}

func TestManager_StopAppendsSingleMarker(t *testing.T) {
	p := newScriptedProvider()
	m := NewManager(p, "")

	m.Start(1, "a.py", "print()")

	want := ""
	for i, c := range []string{"one ", "two ", "three"} {
		p.chunks <- llm.Chunk{Content: c}
		want += c
		ev := waitEvent(t, m)
		if ev.Markdown != want {
			t.Fatalf("after chunk %d markdown = %q, want %q", i+1, ev.Markdown, want)
		}
	}

	m.Stop()

	ev := waitEvent(t, m)
	if ev.State != StateInterrupted {
		t.Fatalf("terminal state = %v, want interrupted", ev.State)
	}
	if ev.Markdown != want+InterruptedMarker {
		t.Errorf("markdown = %q, want chunks plus one marker", ev.Markdown)
	}
	if n := strings.Count(ev.Markdown, InterruptedMarker); n != 1 {
		t.Errorf("marker appears %d times, want exactly once", n)
	}
}

func TestManager_StartInterruptsPrevious(t *testing.T) {
	p := newScriptedProvider()
	m := NewManager(p, "")

	first := m.Start(1, "a.py", "x")
	p.chunks <- llm.Chunk{Content: "partial"}
	waitEvent(t, m)

	second := m.Start(2, "b.py", "y")
	if first == second {
		t.Fatal("sessions should have distinct ids")
	}

	// The first session's terminal event was emitted during Start.
	ev := waitEvent(t, m)
	if ev.SessionID != first || ev.State != StateInterrupted {
		t.Fatalf("event = %+v, want interruption of first session", ev)
	}
	if m.Active() != 2 {
		t.Errorf("Active = %d, want 2", m.Active())
	}

	m.Stop()
}

func TestManager_ErrorChunkFinishesWithMessage(t *testing.T) {
	p := newScriptedProvider()
	m := NewManager(p, "")

	m.Start(5, "c.go", "z")
	p.chunks <- llm.Chunk{Content: "start "}
	waitEvent(t, m)
	p.chunks <- llm.Chunk{Err: errors.New("rate limited")}

	ev := waitEvent(t, m)
	if ev.State != StateFinished {
		t.Fatalf("terminal state = %v, want finished", ev.State)
	}
	if !strings.Contains(ev.Markdown, "**Error:** rate limited") {
		t.Errorf("markdown = %q, want embedded error message", ev.Markdown)
	}
	close(p.chunks)
}

func TestManager_StopReturnsWithoutConsumer(t *testing.T) {
	// A fast provider fills the event buffer in one burst. Stop must
	// still return even though nobody is draining the channel.
	p := &llm.FakeProvider{Text: strings.Repeat("word ", 300)}
	m := NewManager(p, "")

	m.Start(7, "big.txt", "x")

	stopped := make(chan struct{})
	go func() {
		m.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on an undrained events channel")
	}

	// The terminal event survives the backpressure drops: it is the
	// last event left in the buffer.
	var last Event
	got := false
	for {
		select {
		case ev := <-m.Events():
			last = ev
			got = true
			continue
		default:
		}
		break
	}
	if !got {
		t.Fatal("no events buffered")
	}
	if last.State != StateInterrupted && last.State != StateFinished {
		t.Errorf("last buffered state = %v, want terminal", last.State)
	}
}

func TestManager_StopWhenIdleIsNoop(t *testing.T) {
	m := NewManager(newScriptedProvider(), "")
	m.Stop()
	if m.Active() != -1 {
		t.Errorf("Active = %d, want -1", m.Active())
	}
}
