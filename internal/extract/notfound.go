package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NotFoundError reports a file-spec path that does not exist on disk.
type NotFoundError struct {
	Path       string // as given
	Abs        string // attempted absolute path
	WorkDir    string
	Suggestion string // a same-named file with different casing, if any
}

func (e *NotFoundError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "file not found: %s (resolved to %s, working directory %s)", e.Path, e.Abs, e.WorkDir)
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, "; did you mean %s?", e.Suggestion)
	} else {
		sb.WriteString("; check that the path is correct and that you are running from the intended directory")
	}
	return sb.String()
}

func notFound(path, abs, cwd string) *NotFoundError {
	return &NotFoundError{
		Path:       path,
		Abs:        abs,
		WorkDir:    cwd,
		Suggestion: caseInsensitiveMatch(abs),
	}
}

// caseInsensitiveMatch looks for an entry in abs's directory whose name
// differs from abs's base name only by letter case.
func caseInsensitiveMatch(abs string) string {
	dir, base := filepath.Split(abs)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.Name() != base && strings.EqualFold(entry.Name(), base) {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}
