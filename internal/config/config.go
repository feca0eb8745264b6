// Package config loads user defaults and declarative batch job documents.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds user-level defaults.
type Config struct {
	DiffBase  string            `json:"diff_base"` // what a bare "diff" compares against
	Languages map[string]string `json:"languages"` // extension (".tmpl") -> fence tag
	TrackSize *bool             `json:"track_size"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		DiffBase:  "master",
		Languages: map[string]string{},
	}
}

// ProjectFile is the per-directory defaults file name.
const ProjectFile = ".snipdocconfig"

// LoadGlobal reads ~/.config/snipdoc/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "snipdoc", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .snipdocconfig in dir.
// Returns nil (no error) if the file is absent.
func LoadProject(dir string) (*Config, error) {
	return loadFile(filepath.Join(dir, ProjectFile), false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults. Language maps are merged
// key by key.
func Merge(global, project *Config) Config {
	result := Defaults()

	for _, layer := range []*Config{global, project} {
		if layer == nil {
			continue
		}
		if layer.DiffBase != "" {
			result.DiffBase = layer.DiffBase
		}
		if layer.TrackSize != nil {
			v := *layer.TrackSize
			result.TrackSize = &v
		}
		for ext, tag := range layer.Languages {
			result.Languages[normalizeExt(ext)] = tag
		}
	}

	return result
}

// normalizeExt lower-cases ext and ensures a leading dot.
func normalizeExt(ext string) string {
	if ext == "" {
		return ext
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	return strings.ToLower(ext)
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
