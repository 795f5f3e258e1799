package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[project]
name = "demo"
include = ["*.js", "lib/*.js"]

[analysis]
jobs = 4
max_diagnostics = 50
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "demo" || m.Jobs != 4 || m.MaxDiags != 50 {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if len(m.Include) != 2 {
		t.Fatalf("include = %v", m.Include)
	}
}

func TestLoadManifestMissingName(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[project]\ninclude = [\"*.js\"]\n")

	if _, err := Load(path); !errors.Is(err, ErrProjectNameMissing) {
		t.Fatalf("expected ErrProjectNameMissing, got %v", err)
	}
}

func TestLoadManifestDefaultsInclude(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[project]\nname = \"demo\"\n")

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(m.Include) != 1 || m.Include[0] != "*.js" {
		t.Fatalf("include = %v, want [*.js]", m.Include)
	}
}

func TestDiscoverFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	m, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if m.Name != filepath.Base(dir) {
		t.Fatalf("default name %q, want %q", m.Name, filepath.Base(dir))
	}
	if !m.Matches("main.js") {
		t.Fatal("default manifest should match *.js")
	}
}

func TestManifestMatches(t *testing.T) {
	m := Manifest{Include: []string{"*.js"}}
	tests := []struct {
		rel  string
		want bool
	}{
		{"main.js", true},
		{"sub/dir/util.js", true}, // matched by base name
		{"readme.md", false},
		{"script.json", false},
	}
	for _, tt := range tests {
		if got := m.Matches(tt.rel); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

func TestDigestCombine(t *testing.T) {
	var a, b Digest
	a[0] = 1
	b[0] = 2

	if Combine(a) == Combine(b) {
		t.Fatal("different content must combine to different digests")
	}
	if Combine(a, b) != Combine(a, b) {
		t.Fatal("Combine must be deterministic")
	}
	if Combine(a, b) == Combine(b, a) {
		t.Fatal("dependency order is part of the digest")
	}
	if !(Digest{}).Zero() || Combine(a).Zero() {
		t.Fatal("Zero is wrong")
	}
}
