// Package gitref checks that the working directory is a git repository and
// that the refs named by a diff range resolve, then runs the scoped diff.
package gitref

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Runner executes a git command in workDir and returns its stdout.
// This abstraction allows mocking in tests.
type Runner func(workDir string, args ...string) (string, error)

// Validator checks repositories and refs. The zero value runs the real git
// binary in the process working directory.
type Validator struct {
	WorkDir string
	Runner  Runner // if nil, uses the real git subprocess
}

// defaultRunner runs git as a real subprocess.
func defaultRunner(workDir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = workDir
	out, err := cmd.Output()
	return string(out), err
}

func (v *Validator) run(dir string, args ...string) (string, error) {
	runner := v.Runner
	if runner == nil {
		runner = defaultRunner
	}
	return runner(dir, args...)
}

// RepoRoot returns the top-level directory of the repository containing
// WorkDir, or a *RepoError when there is none.
func (v *Validator) RepoRoot() (string, error) {
	out, err := v.run(v.WorkDir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", &RepoError{Dir: v.WorkDir, Err: err}
	}
	root := strings.TrimSpace(out)
	if root == "" {
		return "", &RepoError{Dir: v.WorkDir, Err: errors.New("git reported an empty top-level directory")}
	}
	return filepath.FromSlash(root), nil
}

// Refs splits a diff range into the refs it names. "A..B" and "A...B"
// yield both non-empty sides; anything else is a single ref.
func Refs(diffRange string) []string {
	sep := ""
	switch {
	case strings.Contains(diffRange, "..."):
		sep = "..."
	case strings.Contains(diffRange, ".."):
		sep = ".."
	default:
		return []string{diffRange}
	}
	var refs []string
	for _, side := range strings.SplitN(diffRange, sep, 2) {
		if side != "" {
			refs = append(refs, side)
		}
	}
	return refs
}

// Validate confirms WorkDir is inside a repository and that every ref in
// diffRange resolves. It returns the repository root.
func (v *Validator) Validate(diffRange string) (string, error) {
	root, err := v.RepoRoot()
	if err != nil {
		return "", err
	}
	refs := Refs(diffRange)
	if len(refs) == 0 {
		return "", &RefError{Ref: diffRange, Err: errors.New("range names no refs")}
	}
	for _, ref := range refs {
		if strings.HasPrefix(ref, "-") {
			return "", &RefError{Ref: ref, Err: errors.New("refs may not start with '-'")}
		}
		if _, err := v.run(root, "rev-parse", "--verify", "--quiet", ref); err != nil {
			return "", &RefError{Ref: ref, Err: err}
		}
	}
	return root, nil
}

// Diff returns the unified diff for relPath (relative to root) over
// diffRange. A single ref compares that ref against the working tree.
func (v *Validator) Diff(root, diffRange, relPath string) (string, error) {
	out, err := v.run(root, "diff", diffRange, "--", filepath.ToSlash(relPath))
	if err != nil {
		return "", fmt.Errorf("git diff %s -- %s: %s", diffRange, relPath, describe(err))
	}
	return out, nil
}

// IsExitCode128 reports whether err is an *exec.ExitError with exit code 128,
// which git uses for "not a git repository" and unknown revisions.
func IsExitCode128(err error) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode() == 128
	}
	return false
}

// describe renders a runner error, preferring git's own stderr.
func describe(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg := strings.TrimSpace(string(exitErr.Stderr)); msg != "" {
			return msg
		}
	}
	return err.Error()
}

// RepoError is returned when the working directory is not inside a git
// repository or git cannot be run.
type RepoError struct {
	Dir string
	Err error
}

func (e *RepoError) Error() string {
	if IsExitCode128(e.Err) {
		return fmt.Sprintf("not a git repository: %s", e.Dir)
	}
	var execErr *exec.Error
	if errors.As(e.Err, &execErr) {
		return fmt.Sprintf("git is not available: %v", execErr.Err)
	}
	return fmt.Sprintf("not a git repository: %s (%s)", e.Dir, describe(e.Err))
}

func (e *RepoError) Unwrap() error {
	return e.Err
}

// RefError is returned when a ref named in a diff range does not resolve.
type RefError struct {
	Ref string
	Err error
}

func (e *RefError) Error() string {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) && len(strings.TrimSpace(string(exitErr.Stderr))) == 0 {
		return fmt.Sprintf("invalid git ref %q: does not resolve to an object in this repository", e.Ref)
	}
	return fmt.Sprintf("invalid git ref %q: %s", e.Ref, describe(e.Err))
}

func (e *RefError) Unwrap() error {
	return e.Err
}
