// Package filespec parses file-spec tokens of the form
//
//	path
//	path:<from>-<to>[,<from>-<to>...]
//	path:diff
//	path:diff=<range>
//
// into a path and an optional selector. Only a trailing range or diff suffix
// is ever split off, so drive letters and colons earlier in a path are left
// alone.
package filespec

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultDiffBase is the ref a bare "diff" selector compares against.
const DefaultDiffBase = "master"

// Kind identifies which variant a Selector holds.
type Kind int

const (
	// WholeFile means no selector was given.
	WholeFile Kind = iota
	// LineRanges selects one or more inclusive 1-indexed line ranges.
	LineRanges
	// Diff selects a unified diff against a ref or ref range.
	Diff
)

// Range is an inclusive, 1-indexed line interval.
type Range struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

// Selector is the optional range-or-diff qualifier attached to a path.
type Selector struct {
	Kind      Kind
	Ranges    []Range // LineRanges only, in the order given
	DiffRange string  // Diff only, verbatim
}

// Describe returns the parenthesised header suffix for the selector, or ""
// for a whole file.
func (s Selector) Describe() string {
	switch s.Kind {
	case LineRanges:
		parts := make([]string, len(s.Ranges))
		for i, r := range s.Ranges {
			parts[i] = r.String()
		}
		return "(lines " + strings.Join(parts, ", ") + ")"
	case Diff:
		return "(diff=" + s.DiffRange + ")"
	default:
		return ""
	}
}

// FileSpec is one parsed token. Abs is empty until the spec has been
// resolved during validation; extraction always reads Abs.
type FileSpec struct {
	Raw      string
	Path     string
	Selector Selector
	Abs      string
}

// Header returns the "# File: ..." line (without trailing newline).
func (f FileSpec) Header() string {
	if d := f.Selector.Describe(); d != "" {
		return "# File: " + f.Path + " " + d
	}
	return "# File: " + f.Path
}

var (
	// strictSuffix is the only shape that is split off a token.
	strictSuffix = regexp.MustCompile(`^(.*):(diff(?:=.+)?|\d+[-:]\d+(?:,\d+[-:]\d+)*)$`)
	// looseSuffix catches near-misses such as "file.go:5-" or "file.go:diff="
	// so they surface as format errors instead of as missing files.
	looseSuffix = regexp.MustCompile(`^(.+):(diff=|[\d-][\d,:-]*)$`)
)

// Parser turns tokens into FileSpecs. The zero value uses DefaultDiffBase.
type Parser struct {
	DiffBase string
}

// Parse parses token with the default diff base.
func Parse(token string) (FileSpec, error) {
	return Parser{}.Parse(token)
}

// Parse splits token into a path and selector.
func (p Parser) Parse(token string) (FileSpec, error) {
	spec := FileSpec{Raw: token, Path: token}

	if m := strictSuffix.FindStringSubmatch(token); m != nil && m[1] != "" {
		spec.Path = m[1]
		sel, err := p.parseSelector(m[2])
		if err != nil {
			return spec, err
		}
		spec.Selector = sel
		return spec, nil
	}

	if m := looseSuffix.FindStringSubmatch(token); m != nil {
		spec.Path = m[1]
		if m[2] == "diff=" {
			return spec, &FormatError{Segment: m[2], Reason: "diff range is empty"}
		}
		_, err := ParseRanges(m[2])
		if err == nil {
			// Unreachable in practice: anything ParseRanges accepts also
			// matches strictSuffix.
			err = &FormatError{Segment: m[2], Reason: "unrecognised selector"}
		}
		return spec, err
	}

	return spec, nil
}

func (p Parser) parseSelector(text string) (Selector, error) {
	if text == "diff" || strings.HasPrefix(text, "diff=") {
		return Selector{Kind: Diff, DiffRange: p.diffRange(text)}, nil
	}
	ranges, err := ParseRanges(text)
	if err != nil {
		return Selector{}, err
	}
	return Selector{Kind: LineRanges, Ranges: ranges}, nil
}

func (p Parser) diffRange(text string) string {
	if r, ok := strings.CutPrefix(text, "diff="); ok {
		return r
	}
	if p.DiffBase != "" {
		return p.DiffBase
	}
	return DefaultDiffBase
}
