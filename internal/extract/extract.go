// Package extract turns validated file specs into fenced markdown blocks:
// whole files, concatenated line ranges, or scoped git diffs.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fakeyudi/snipdoc/internal/filespec"
	"github.com/fakeyudi/snipdoc/internal/gitref"
)

// Extractor produces formatted blocks for file specs.
type Extractor struct {
	// WorkDir is the directory relative paths resolve against. Empty means
	// the process working directory.
	WorkDir string
	// Git validates refs and runs diffs. If nil, a Validator rooted at
	// WorkDir is used.
	Git *gitref.Validator
	// Languages extends the built-in extension table.
	Languages map[string]string
}

func (e *Extractor) workDir() (string, error) {
	if e.WorkDir != "" {
		return e.WorkDir, nil
	}
	return os.Getwd()
}

func (e *Extractor) git() *gitref.Validator {
	if e.Git != nil {
		return e.Git
	}
	return &gitref.Validator{WorkDir: e.WorkDir}
}

// Resolve sets spec.Abs to the absolute path of spec.Path and confirms it
// names an existing regular file. It is a no-op when Abs is already set.
func (e *Extractor) Resolve(spec *filespec.FileSpec) error {
	if spec.Abs != "" {
		return nil
	}
	cwd, err := e.workDir()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	abs := spec.Path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(cwd, abs)
	}
	abs = filepath.Clean(abs)

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return notFound(spec.Path, abs, cwd)
		}
		return fmt.Errorf("stat %s: %w", abs, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", abs)
	}
	spec.Abs = abs
	return nil
}

// Check runs every pre-flight validation for spec without producing
// output: path resolution, line-range bounds, and git refs for diffs.
// On success spec.Abs is set.
func (e *Extractor) Check(spec *filespec.FileSpec) error {
	if err := e.Resolve(spec); err != nil {
		return err
	}
	switch spec.Selector.Kind {
	case filespec.LineRanges:
		data, err := os.ReadFile(spec.Abs)
		if err != nil {
			return fmt.Errorf("read %s: %w", spec.Abs, err)
		}
		count := len(splitLines(string(data)))
		for _, r := range spec.Selector.Ranges {
			if r.From > count {
				return &RangeExceededError{Path: spec.Path, Line: r.From, Count: count}
			}
		}
	case filespec.Diff:
		if _, err := e.git().Validate(spec.Selector.DiffRange); err != nil {
			return err
		}
	}
	return nil
}

// Extract renders spec as a markdown block: a "# File:" header line
// followed by a fenced code or diff block, ending in a newline.
func (e *Extractor) Extract(ctx context.Context, spec filespec.FileSpec) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := e.Resolve(&spec); err != nil {
		return "", err
	}

	switch spec.Selector.Kind {
	case filespec.Diff:
		diff, err := e.diff(spec)
		if err != nil {
			return "", err
		}
		return Render(spec.Header(), "diff", diff), nil

	case filespec.LineRanges:
		data, err := os.ReadFile(spec.Abs)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", spec.Abs, err)
		}
		body, err := ExtractLines(spec.Path, string(data), spec.Selector.Ranges)
		if err != nil {
			return "", err
		}
		return Render(spec.Header(), Language(spec.Path, e.Languages), body), nil

	default:
		data, err := os.ReadFile(spec.Abs)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", spec.Abs, err)
		}
		return Render(spec.Header(), Language(spec.Path, e.Languages), string(data)), nil
	}
}

func (e *Extractor) diff(spec filespec.FileSpec) (string, error) {
	g := e.git()
	root, err := g.Validate(spec.Selector.DiffRange)
	if err != nil {
		return "", err
	}
	rel, err := relativeTo(root, spec.Abs)
	if err != nil {
		return "", err
	}
	out, err := g.Diff(root, spec.Selector.DiffRange, rel)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return fmt.Sprintf("(no changes found for %s in diff=%s)\n", spec.Path, spec.Selector.DiffRange), nil
	}
	return out, nil
}

// relativeTo returns abs relative to root, resolving symlinks on both so
// that e.g. /tmp and /private/tmp compare equal.
func relativeTo(root, abs string) (string, error) {
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	if a, err := filepath.EvalSymlinks(abs); err == nil {
		abs = a
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fmt.Errorf("%s is not inside repository %s: %w", abs, root, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is not inside repository %s", abs, root)
	}
	return rel, nil
}

// splitLines splits text into lines without their terminators. A final
// newline does not start an extra empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// ExtractLines returns the requested 1-indexed inclusive ranges of text,
// in the order given, separated by a blank line. To is clamped to the line
// count; a From beyond it is a *RangeExceededError.
func ExtractLines(path, text string, ranges []filespec.Range) (string, error) {
	lines := splitLines(text)
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		if r.From > len(lines) {
			return "", &RangeExceededError{Path: path, Line: r.From, Count: len(lines)}
		}
		to := min(r.To, len(lines))
		parts = append(parts, strings.Join(lines[r.From-1:to], "\n"))
	}
	return strings.Join(parts, "\n\n"), nil
}

// RangeExceededError reports a range starting past the end of the file.
type RangeExceededError struct {
	Path  string
	Line  int
	Count int
}

func (e *RangeExceededError) Error() string {
	return fmt.Sprintf("line %d requested but %s has only %d lines", e.Line, e.Path, e.Count)
}
