package scanner

import (
	"path/filepath"
	"strings"
)

// extensionToLanguage maps file extensions to the fence hint understood
// by the syntax highlighter.
var extensionToLanguage = map[string]string{
	".go":     "go",
	".py":     "python",
	".pyi":    "python",
	".ts":     "typescript",
	".tsx":    "typescript",
	".js":     "javascript",
	".jsx":    "javascript",
	".mjs":    "javascript",
	".cjs":    "javascript",
	".java":   "java",
	".rs":     "rust",
	".c":      "c",
	".h":      "c",
	".cpp":    "cpp",
	".cc":     "cpp",
	".cxx":    "cpp",
	".hpp":    "cpp",
	".cs":     "csharp",
	".rb":     "ruby",
	".php":    "php",
	".swift":  "swift",
	".kt":     "kotlin",
	".kts":    "kotlin",
	".scala":  "scala",
	".sh":     "bash",
	".bash":   "bash",
	".zsh":    "bash",
	".sql":    "sql",
	".html":   "html",
	".htm":    "html",
	".css":    "css",
	".scss":   "scss",
	".yaml":   "yaml",
	".yml":    "yaml",
	".json":   "json",
	".toml":   "toml",
	".tf":     "terraform",
	".md":     "markdown",
	".proto":  "protobuf",
	".lua":    "lua",
	".r":      "r",
	".dart":   "dart",
	".ex":     "elixir",
	".exs":    "elixir",
	".hs":     "haskell",
	".pl":     "perl",
	".vue":    "vue",
	".svelte": "svelte",
	".xml":    "xml",
	".ini":    "ini",
	".txt":    "text",
}

// filenameToLanguage maps exact filenames without useful extensions.
var filenameToLanguage = map[string]string{
	"Dockerfile":  "docker",
	"Makefile":    "makefile",
	"Jenkinsfile": "groovy",
	"Gemfile":     "ruby",
	"Rakefile":    "ruby",
}

// DetectLanguage returns the highlighter language hint for a filename,
// or an empty string when nothing is recognized (rendered as a plain
// fence).
func DetectLanguage(filename string) string {
	base := filepath.Base(filename)
	if lang, ok := filenameToLanguage[base]; ok {
		return lang
	}
	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		return ""
	}
	return extensionToLanguage[ext]
}
