package render

import (
	"strings"
	"testing"
)

func TestMarkdown_Basics(t *testing.T) {
	out, err := Markdown("# Title\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestMarkdown_TaskListAndStrikethrough(t *testing.T) {
	out, err := Markdown("- [x] done\n- [ ] todo\n\n~~gone~~")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(out, "checkbox") {
		t.Errorf("task list not rendered: %s", out)
	}
	if !strings.Contains(out, "<del>gone</del>") {
		t.Errorf("strikethrough not rendered: %s", out)
	}
}

func TestMarkdown_HighlightsFences(t *testing.T) {
	out, err := Markdown("```go\npackage main\n```")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	// The highlighter emits inline-styled pre blocks instead of a bare
	// <pre><code>.
	if !strings.Contains(out, "<pre") || !strings.Contains(out, "style") {
		t.Errorf("fence not highlighted: %s", out)
	}
}

func TestCodeBlock_UsesDetectedLanguage(t *testing.T) {
	out, err := CodeBlock("main.go", "package main\n\nfunc main() {}\n")
	if err != nil {
		t.Fatalf("CodeBlock: %v", err)
	}
	if !strings.Contains(out, "package") {
		t.Errorf("content missing from output: %s", out)
	}
	if !strings.Contains(out, "<pre") {
		t.Errorf("expected a pre block: %s", out)
	}
}

func TestCodeBlock_EscapesEmbeddedFences(t *testing.T) {
	content := "documented as:\n```\nexample\n```\n"
	out, err := CodeBlock("README.md", content)
	if err != nil {
		t.Fatalf("CodeBlock: %v", err)
	}
	// The embedded fence must appear as content, not terminate the block.
	if !strings.Contains(out, "example") {
		t.Errorf("embedded fence content lost: %s", out)
	}
}
