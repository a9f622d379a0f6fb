package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"constellation/internal/diagram"
)

// sampleTree builds the canonical test tree: src/{a.py,b.py} plus a
// root README.md and an excluded .git directory.
func sampleTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, root, "README.md", "# readme\n")
	writeFile(t, root, "src/a.py", "print('a')\n")
	writeFile(t, root, "src/b.py", "print('b')\n")
	writeFile(t, root, ".git/config", "[core]\n")

	return root
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newScanner(t *testing.T, cfg Config) *Scanner {
	t.Helper()
	s, err := New(cfg, NewStubSummarizer(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestWalkOnce_EmitsTreeInOrder(t *testing.T) {
	s := newScanner(t, Config{Root: sampleTree(t)})
	events := s.WalkOnce()

	var got []string
	for _, ev := range events {
		got = append(got, string(ev.Kind)+":"+ev.Label)
	}
	want := []string{"detail:README.md", "subtopic:src", "detail:a.py", "detail:b.py"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", got, want)
	}

	for _, ev := range events {
		switch ev.Label {
		case "README.md":
			if ev.Parent != diagram.RootTopic {
				t.Errorf("README.md parent = %q, want root topic", ev.Parent)
			}
		case "a.py", "b.py":
			if ev.Parent != "src" {
				t.Errorf("%s parent = %q, want src", ev.Label, ev.Parent)
			}
			if ev.Summary == "" {
				t.Errorf("%s has no summary", ev.Label)
			}
			if !strings.Contains(ev.Content, "print") {
				t.Errorf("%s content not captured: %q", ev.Label, ev.Content)
			}
		}
	}
}

func TestWalkOnce_Idempotent(t *testing.T) {
	s := newScanner(t, Config{Root: sampleTree(t)})

	first := s.WalkOnce()
	if len(first) == 0 {
		t.Fatal("first walk emitted nothing")
	}
	second := s.WalkOnce()
	if len(second) != 0 {
		t.Errorf("second walk over unchanged tree emitted %d events, want 0", len(second))
	}
}

func TestWalkOnce_PicksUpNewFiles(t *testing.T) {
	root := sampleTree(t)
	s := newScanner(t, Config{Root: root})
	s.WalkOnce()

	writeFile(t, root, "src/c.py", "print('c')\n")
	events := s.WalkOnce()

	if len(events) != 1 || events[0].Label != "c.py" {
		t.Fatalf("events after new file = %v, want just c.py", events)
	}
}

func TestWalkOnce_SkipsExcludedDirs(t *testing.T) {
	s := newScanner(t, Config{Root: sampleTree(t)})
	for _, ev := range s.WalkOnce() {
		if ev.Label == ".git" || ev.Label == "config" {
			t.Errorf("excluded entry leaked: %v", ev)
		}
	}
}

func TestWalkOnce_FileNamedLikeExcludedDir(t *testing.T) {
	// The built-in exclusion set holds directory names; a regular file
	// that happens to share one of those names is ordinary content.
	root := t.TempDir()
	writeFile(t, root, "build", "#!/bin/sh\nmake all\n")
	writeFile(t, root, "env", "FOO=bar\n")
	writeFile(t, root, "dist/bundle.js", "console.log(1)\n")

	s := newScanner(t, Config{Root: root})
	labels := make(map[string]bool)
	for _, ev := range s.WalkOnce() {
		labels[ev.Label] = true
	}

	if !labels["build"] || !labels["env"] {
		t.Errorf("files named after excluded dirs missing: %v", labels)
	}
	if labels["dist"] || labels["bundle.js"] {
		t.Errorf("excluded directory leaked: %v", labels)
	}
}

func TestWalkOnce_UserGlobExcludes(t *testing.T) {
	root := sampleTree(t)
	writeFile(t, root, "src/gen.pb.go", "package gen\n")

	s := newScanner(t, Config{Root: root, Exclude: []string{"**/*.pb.go"}})
	for _, ev := range s.WalkOnce() {
		if ev.Label == "gen.pb.go" {
			t.Error("glob-excluded file leaked")
		}
	}
}

func TestWalkOnce_TruncatesOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "big.txt", strings.Repeat("x", 500))

	s := newScanner(t, Config{Root: root, MaxFileBytes: 100})
	events := s.WalkOnce()
	if len(events) != 1 {
		t.Fatalf("events = %v, want one", events)
	}
	ev := events[0]
	if len(ev.Content) != 100 {
		t.Errorf("content length = %d, want 100", len(ev.Content))
	}
	if !strings.Contains(ev.Summary, "truncated at 100 bytes") {
		t.Errorf("summary %q does not flag truncation", ev.Summary)
	}
}

func TestWalkOnce_BinaryFilesSummaryOnly(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "blob.bin"), []byte{0x00, 0x01, 0x02}, 0o644); err != nil {
		t.Fatal(err)
	}

	s := newScanner(t, Config{Root: root})
	events := s.WalkOnce()
	if len(events) != 1 {
		t.Fatalf("events = %v, want one", events)
	}
	if events[0].Content != "" {
		t.Errorf("binary file captured content %q", events[0].Content)
	}
	if events[0].Summary == "" {
		t.Error("binary file should still get a summary")
	}
}

func TestRun_StreamsAndStops(t *testing.T) {
	s := newScanner(t, Config{Root: sampleTree(t), Interval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)

	var labels []string
	timeout := time.After(2 * time.Second)
	for len(labels) < 4 {
		select {
		case ev := <-s.Events():
			labels = append(labels, ev.Label)
		case <-timeout:
			t.Fatalf("timed out after %v", labels)
		}
	}

	cancel()
	// Channel closes once the loop observes cancellation.
	for {
		select {
		case _, ok := <-s.Events():
			if !ok {
				return
			}
		case <-time.After(2 * time.Second):
			t.Fatal("events channel never closed after cancel")
		}
	}
}

func TestNew_RejectsMissingRoot(t *testing.T) {
	if _, err := New(Config{Root: filepath.Join(t.TempDir(), "nope")}, nil); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct{ name, want string }{
		{"main.go", "go"},
		{"app.py", "python"},
		{"index.TSX", "typescript"},
		{"Dockerfile", "docker"},
		{"noext", ""},
		{"weird.zzz", ""},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.name); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
