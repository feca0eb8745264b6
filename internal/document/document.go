// Package document reads back an assembled markdown artifact so its units
// and size can be inspected before more content is appended.
package document

import (
	"errors"
	"strings"
)

// ErrNotDocument is returned for non-empty input with no "# File:" units.
var ErrNotDocument = errors.New("not a snipdoc document: no '# File:' entries found")

// Document summarises an artifact.
type Document struct {
	Size  int64  `json:"size"`
	Units []Unit `json:"units"`
}

// Unit is one "# File:" entry, including a section header emitted directly
// before it. Section is empty for units with no header of their own.
type Unit struct {
	Section  string `json:"section,omitempty"`
	Path     string `json:"path"`
	Selector string `json:"selector,omitempty"` // e.g. "lines 1-5" or "diff=master"
	Lang     string `json:"lang,omitempty"`
	Bytes    int64  `json:"bytes"`
}

// Parse scans data for section headers ("### ") and unit headers
// ("# File: "). Lines inside fenced blocks are never treated as structure.
func Parse(data []byte) (*Document, error) {
	doc := &Document{Size: int64(len(data))}
	if len(data) == 0 {
		return doc, nil
	}

	var (
		starts       []int64
		section      string
		pendingStart int64 = -1
		fence        string
		offset       int64
	)

	text := string(data)
	for len(text) > 0 {
		line, rest, found := strings.Cut(text, "\n")
		lineStart := offset
		offset += int64(len(line))
		if found {
			offset++
		}
		text = rest

		if fence != "" {
			if closesFence(line, fence) {
				fence = ""
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "### "):
			section = strings.TrimSpace(strings.TrimPrefix(line, "### "))
			pendingStart = lineStart
		case strings.HasPrefix(line, "# File: "):
			start := lineStart
			if pendingStart >= 0 {
				start = pendingStart
				pendingStart = -1
			}
			path, sel := splitHeader(strings.TrimPrefix(line, "# File: "))
			doc.Units = append(doc.Units, Unit{Section: section, Path: path, Selector: sel})
			starts = append(starts, start)
			section = ""
		case strings.HasPrefix(line, "```"):
			fence = line[:len(line)-len(strings.TrimLeft(line, "`"))]
			if n := len(doc.Units); n > 0 && doc.Units[n-1].Lang == "" {
				doc.Units[n-1].Lang = strings.TrimSpace(line[len(fence):])
			}
		}
	}

	if len(doc.Units) == 0 {
		return nil, ErrNotDocument
	}
	for i := range doc.Units {
		end := doc.Size
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		doc.Units[i].Bytes = end - starts[i]
	}
	return doc, nil
}

// closesFence reports whether line is a closing fence for an opening fence
// of the given backticks.
func closesFence(line, fence string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return false
	}
	trimmed = strings.TrimRight(trimmed, " \t\r")
	return len(trimmed) >= len(fence) && strings.Trim(trimmed, "`") == ""
}

// splitHeader separates "path (lines 1-2)" into path and selector text.
func splitHeader(h string) (path, selector string) {
	if !strings.HasSuffix(h, ")") {
		return h, ""
	}
	i := strings.LastIndex(h, " (")
	if i < 0 {
		return h, ""
	}
	inner := h[i+2 : len(h)-1]
	if strings.HasPrefix(inner, "lines ") || strings.HasPrefix(inner, "diff=") {
		return h[:i], inner
	}
	return h, ""
}
