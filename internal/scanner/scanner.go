// Package scanner walks a directory tree on a background goroutine and
// turns it into an ordered stream of deduplicated diagram events. The
// walk repeats on a fixed interval so files appearing on disk show up
// in the diagram; entries already emitted are suppressed by an
// in-memory key set that lives for the scanner's lifetime.
package scanner

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"constellation/internal/diagram"
)

// DefaultMaxFileBytes is the ceiling on captured file content.
const DefaultMaxFileBytes int64 = 10_000

// DefaultInterval is the pause between walks of the tree.
const DefaultInterval = 2 * time.Second

// defaultEventBuffer bounds the channel between the scanner goroutine
// and the engine loop.
const defaultEventBuffer = 256

// DefaultExcludes are directory names never descended into.
var DefaultExcludes = []string{
	".git",
	".idea",
	".vscode",
	"__pycache__",
	"node_modules",
	"vendor",
	"venv",
	".venv",
	"env",
	"dist",
	"build",
	"target",
	".next",
}

// Config controls a Scanner.
type Config struct {
	Root         string        // directory to monitor
	Exclude      []string      // extra glob patterns (doublestar) on relative paths
	Interval     time.Duration // pause between walks (0 = DefaultInterval)
	MaxFileBytes int64         // content capture ceiling (0 = DefaultMaxFileBytes)
}

// Scanner repeatedly walks a directory tree and emits events for
// entries it has not announced before.
type Scanner struct {
	cfg        Config
	summarizer Summarizer
	events     chan diagram.Event
	seen       map[string]struct{}
}

// New creates a Scanner. The summarizer must be fast and synchronous;
// it runs inline during the walk.
func New(cfg Config, summarizer Summarizer) (*Scanner, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("scanner: resolve root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scanner: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scanner: %s is not a directory", root)
	}
	cfg.Root = root

	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = DefaultMaxFileBytes
	}

	return &Scanner{
		cfg:        cfg,
		summarizer: summarizer,
		events:     make(chan diagram.Event, defaultEventBuffer),
		seen:       make(map[string]struct{}),
	}, nil
}

// Events is the ordered stream of deduplicated events. It is closed
// when Run returns.
func (s *Scanner) Events() <-chan diagram.Event { return s.events }

// Run walks the tree immediately, then again every interval, until the
// context is cancelled. Walk errors on individual entries are skipped;
// nothing here terminates the consumer.
func (s *Scanner) Run(ctx context.Context) {
	defer close(s.events)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		for _, ev := range s.WalkOnce() {
			select {
			case s.events <- ev:
			case <-ctx.Done():
				return
			}
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// WalkOnce traverses the tree a single time and returns the events for
// entries not seen in any previous walk, in traversal order. Keys for
// returned events are recorded, so an unchanged tree yields nothing on
// the next call.
func (s *Scanner) WalkOnce() []diagram.Event {
	var out []diagram.Event

	err := filepath.WalkDir(s.cfg.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable entries are skipped, not fatal.
			return nil
		}

		rel, err := filepath.Rel(s.cfg.Root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == s.cfg.Root {
				return nil
			}
			if s.excludedDir(d.Name(), rel) {
				return filepath.SkipDir
			}
			out = s.emit(out, s.dirEvent(path))
			return nil
		}

		if !d.Type().IsRegular() || s.excludedFile(d.Name(), rel) {
			return nil
		}
		out = s.emit(out, s.fileEvent(path, d))
		return nil
	})
	if err != nil {
		log.Printf("scanner: walk %s: %v", s.cfg.Root, err)
	}

	return out
}

// emit appends ev if its dedup key is new, recording the key.
func (s *Scanner) emit(out []diagram.Event, ev diagram.Event) []diagram.Event {
	key := ev.Key()
	if _, dup := s.seen[key]; dup {
		return out
	}
	s.seen[key] = struct{}{}
	return append(out, ev)
}

// dirEvent builds the subtopic event for a directory.
func (s *Scanner) dirEvent(path string) diagram.Event {
	return diagram.Event{
		Kind:   diagram.EventSubtopic,
		Parent: s.parentLabel(filepath.Dir(path)),
		Label:  filepath.Base(path),
	}
}

// fileEvent builds the detail event for a file, capturing a summary and
// (for readable text files under the ceiling) its content. Failures
// degrade to placeholder text in the body.
func (s *Scanner) fileEvent(path string, d fs.DirEntry) diagram.Event {
	ev := diagram.Event{
		Kind:   diagram.EventDetail,
		Parent: s.parentLabel(filepath.Dir(path)),
		Label:  d.Name(),
	}
	if s.summarizer != nil {
		ev.Summary = s.summarizer.Summarize(path)
	}

	content, truncated, err := readCapped(path, s.cfg.MaxFileBytes)
	switch {
	case err != nil:
		ev.Content = fmt.Sprintf("Error reading file: %v", err)
	case content == "":
		// Binary or empty; summary only.
	case truncated:
		ev.Summary = strings.TrimSpace(ev.Summary +
			fmt.Sprintf(" (truncated at %d bytes)", s.cfg.MaxFileBytes))
		ev.Content = content
	default:
		ev.Content = content
	}
	return ev
}

// parentLabel maps a directory path to the parent label used in
// events: the directory's base name, or the root topic for entries
// directly under the scanned root.
func (s *Scanner) parentLabel(dir string) string {
	if dir == s.cfg.Root {
		return diagram.RootTopic
	}
	return filepath.Base(dir)
}

// excludedDir checks the conventional directory name set and the
// configured glob patterns.
func (s *Scanner) excludedDir(name, rel string) bool {
	for _, excl := range DefaultExcludes {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return s.matchesGlobs(name, rel)
}

// excludedFile checks only the configured glob patterns. The built-in
// set holds directory names; a regular file named "build" or "env" is
// ordinary content.
func (s *Scanner) excludedFile(name, rel string) bool {
	return s.matchesGlobs(name, rel)
}

func (s *Scanner) matchesGlobs(name, rel string) bool {
	for _, pattern := range s.cfg.Exclude {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.PathMatch(pattern, rel); err == nil && matched {
			return true
		}
		if matched, err := doublestar.PathMatch(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

// readCapped reads at most maxBytes of a text file. Binary content
// (detected by a NUL byte in the first 512 bytes) yields an empty
// string. The second result reports whether the file was larger than
// the cap.
func readCapped(path string, maxBytes int64) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", false, err
	}

	buf := make([]byte, maxBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", false, err
	}
	data := buf[:n]

	if isBinary(data) {
		return "", false, nil
	}
	return string(data), info.Size() > maxBytes, nil
}

// isBinary checks the first 512 bytes for NUL, a simple but effective
// heuristic for binary content.
func isBinary(data []byte) bool {
	limit := len(data)
	if limit > 512 {
		limit = 512
	}
	for i := 0; i < limit; i++ {
		if data[i] == 0 {
			return true
		}
	}
	return false
}
