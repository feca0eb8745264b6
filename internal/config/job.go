package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Job is a declarative batch: where to write, whether to show size
// tracking, and the ordered sections to assemble.
type Job struct {
	Output    string
	TrackSize *bool
	Sections  []Section
}

// Section is a header applying to every file spec listed under it.
type Section struct {
	Header string
	Files  []string
}

// LoadJob reads a job document. Files ending in .yaml or .yml are parsed
// as YAML; anything else as JSON.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	job, err := ParseJob(data, format)
	if err != nil {
		switch e := err.(type) {
		case *SchemaError:
			e.Path = path
		case *ParseError:
			e.Path = path
		}
		return nil, err
	}
	return job, nil
}

// ParseJob parses a job document in the given format ("json" or "yaml").
// Structural problems are reported as *SchemaError; syntax errors as
// *ParseError.
func ParseJob(data []byte, format string) (*Job, error) {
	var doc any
	var err error
	switch format {
	case "yaml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return buildJob(doc)
}

func buildJob(doc any) (*Job, error) {
	top, ok := doc.(map[string]any)
	if !ok {
		return nil, &SchemaError{Reason: "document must be an object"}
	}

	job := &Job{}
	if v, ok := top["output"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return nil, &SchemaError{Reason: "output must be a string"}
		}
		job.Output = s
	}
	if v, ok := top["track_size"]; ok && v != nil {
		b, ok := v.(bool)
		if !ok {
			return nil, &SchemaError{Reason: "track_size must be a boolean"}
		}
		job.TrackSize = &b
	}

	raw, ok := top["sections"]
	if !ok || raw == nil {
		return nil, &SchemaError{Reason: "sections is missing"}
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &SchemaError{Reason: "sections must be a list"}
	}
	if len(list) == 0 {
		return nil, &SchemaError{Reason: "sections is empty"}
	}

	for i, item := range list {
		pos := i + 1
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &SchemaError{Section: pos, Reason: "section must be an object"}
		}
		var sec Section
		if h, ok := m["header"]; ok && h != nil {
			s, ok := h.(string)
			if !ok {
				return nil, &SchemaError{Section: pos, Reason: "header must be a string"}
			}
			sec.Header = s
		}
		files, ok := m["files"].([]any)
		if !ok || len(files) == 0 {
			return nil, &SchemaError{Section: pos, Header: sec.Header, Reason: "files must be a non-empty list"}
		}
		for j, f := range files {
			s, ok := f.(string)
			if !ok || strings.TrimSpace(s) == "" {
				return nil, &SchemaError{Section: pos, Header: sec.Header, Reason: fmt.Sprintf("files[%d] must be a non-empty string", j)}
			}
			sec.Files = append(sec.Files, s)
		}
		job.Sections = append(job.Sections, sec)
	}
	return job, nil
}

// SchemaError reports a job document with the wrong shape. Section is the
// 1-based position of the offending section, or 0 for top-level problems.
type SchemaError struct {
	Path    string
	Section int
	Header  string
	Reason  string
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid config")
	if e.Path != "" {
		sb.WriteString(" " + e.Path)
	}
	if e.Section > 0 {
		fmt.Fprintf(&sb, ": section %d", e.Section)
		if e.Header != "" {
			fmt.Fprintf(&sb, " (%q)", e.Header)
		}
	}
	sb.WriteString(": " + e.Reason)
	return sb.String()
}
