// Package project models the on-disk shape of an analyzed project: its
// optional njs.toml manifest and content digests for cache invalidation.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file looked up at the project root.
const ManifestName = "njs.toml"

// ErrProjectNameMissing indicates that [project].name is missing.
var ErrProjectNameMissing = errors.New("missing [project].name")

// Manifest describes a project's njs.toml.
type Manifest struct {
	Name     string
	Include  []string
	Jobs     int
	MaxDiags int
}

type manifestFile struct {
	Project struct {
		Name    string   `toml:"name"`
		Include []string `toml:"include"`
	} `toml:"project"`
	Analysis struct {
		Jobs     int `toml:"jobs"`
		MaxDiags int `toml:"max_diagnostics"`
	} `toml:"analysis"`
}

// Default returns the manifest used when no njs.toml exists: every *.js
// file under the root, automatic parallelism.
func Default(root string) Manifest {
	return Manifest{
		Name:    filepath.Base(root),
		Include: []string{"*.js"},
	}
}

// Load parses an njs.toml manifest.
func Load(path string) (Manifest, error) {
	var cfg manifestFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project", "name") || cfg.Project.Name == "" {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrProjectNameMissing)
	}
	m := Manifest{
		Name:     cfg.Project.Name,
		Include:  cfg.Project.Include,
		Jobs:     cfg.Analysis.Jobs,
		MaxDiags: cfg.Analysis.MaxDiags,
	}
	if len(m.Include) == 0 {
		m.Include = []string{"*.js"}
	}
	return m, nil
}

// Discover loads the manifest at root, falling back to Default when the
// file does not exist.
func Discover(root string) (Manifest, error) {
	path := filepath.Join(root, ManifestName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(root), nil
		}
		return Manifest{}, err
	}
	return Load(path)
}

// Matches reports whether a path (relative to the project root) matches
// one of the manifest's include globs.
func (m Manifest) Matches(rel string) bool {
	base := filepath.Base(rel)
	for _, pattern := range m.Include {
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
