// Package render converts markdown (streamed explanations) and raw file
// contents into HTML for display. It is a pure formatting layer with no
// diagram knowledge.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"constellation/internal/scanner"
)

// md is the shared goldmark instance. Goldmark converters are safe for
// concurrent use.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Footnote,
		extension.Linkify,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// Markdown converts markdown source to HTML. Fenced code blocks are
// syntax highlighted.
func Markdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render: markdown: %w", err)
	}
	return buf.String(), nil
}

// CodeBlock renders raw file content as a highlighted code block,
// choosing the language fence hint from the filename. Content that
// itself contains triple backticks gets a longer fence so it cannot
// escape.
func CodeBlock(filename, content string) (string, error) {
	lang := scanner.DetectLanguage(filename)

	fence := "```"
	for strings.Contains(content, fence) {
		fence += "`"
	}

	source := fence + lang + "\n" + content
	if !strings.HasSuffix(source, "\n") {
		source += "\n"
	}
	source += fence + "\n"
	return Markdown(source)
}
