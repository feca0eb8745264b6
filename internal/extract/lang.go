package extract

import (
	"path/filepath"
	"strings"
)

// languages maps lower-case file extensions to fenced-code language tags.
var languages = map[string]string{
	".go":      "go",
	".py":      "python",
	".pyi":     "python",
	".js":      "javascript",
	".mjs":     "javascript",
	".cjs":     "javascript",
	".jsx":     "jsx",
	".ts":      "typescript",
	".tsx":     "tsx",
	".java":    "java",
	".kt":      "kotlin",
	".kts":     "kotlin",
	".scala":   "scala",
	".c":       "c",
	".h":       "c",
	".cc":      "cpp",
	".cpp":     "cpp",
	".cxx":     "cpp",
	".hpp":     "cpp",
	".cs":      "csharp",
	".rs":      "rust",
	".rb":      "ruby",
	".php":     "php",
	".swift":   "swift",
	".m":       "objectivec",
	".lua":     "lua",
	".pl":      "perl",
	".r":       "r",
	".dart":    "dart",
	".ex":      "elixir",
	".exs":     "elixir",
	".erl":     "erlang",
	".hs":      "haskell",
	".clj":     "clojure",
	".sql":     "sql",
	".sh":      "bash",
	".bash":    "bash",
	".zsh":     "zsh",
	".fish":    "fish",
	".ps1":     "powershell",
	".bat":     "batch",
	".html":    "html",
	".htm":     "html",
	".xml":     "xml",
	".svg":     "xml",
	".css":     "css",
	".scss":    "scss",
	".less":    "less",
	".vue":     "vue",
	".md":      "markdown",
	".rst":     "rst",
	".tex":     "latex",
	".json":    "json",
	".jsonl":   "json",
	".yaml":    "yaml",
	".yml":     "yaml",
	".toml":    "toml",
	".ini":     "ini",
	".cfg":     "ini",
	".env":     "bash",
	".proto":   "protobuf",
	".tf":      "hcl",
	".hcl":     "hcl",
	".graphql": "graphql",
	".gradle":  "groovy",
	".mk":      "makefile",
	".diff":    "diff",
	".patch":   "diff",
	".txt":     "text",
}

// filenames covers files conventionally named without an extension.
var filenames = map[string]string{
	"dockerfile":  "dockerfile",
	"makefile":    "makefile",
	"gnumakefile": "makefile",
	"jenkinsfile": "groovy",
	"go.mod":      "go",
	"go.sum":      "text",
}

// Language returns the fence tag for path. extra overrides and extends the
// built-in extension table; unknown files are tagged "text".
func Language(path string, extra map[string]string) string {
	base := strings.ToLower(filepath.Base(path))
	ext := strings.ToLower(filepath.Ext(path))
	if tag, ok := extra[ext]; ok && ext != "" {
		return tag
	}
	if tag, ok := filenames[base]; ok {
		return tag
	}
	if tag, ok := languages[ext]; ok {
		return tag
	}
	return "text"
}
