package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/lukedgr/nodejstools/internal/project"
)

// Current schema version - increment when Snapshot format changes.
const snapSchemaVersion uint16 = 1

// SnapCache persists per-file export summaries keyed by content digest, so
// a repeat run can tell which modules' inferred surface is unchanged.
// Thread-safe for concurrent access.
type SnapCache struct {
	mu  sync.RWMutex
	dir string
}

// Snapshot is the cached summary of one module's inferred exports.
type Snapshot struct {
	// Schema version for safe invalidation when the format changes
	Schema uint16

	Path    string
	Digest  project.Digest
	Exports []ExportEntry
}

// ExportEntry is one module-scope binding and its rendered value-set.
type ExportEntry struct {
	Name  string
	Types string
}

// OpenSnapCache initializes a cache at the standard XDG location.
func OpenSnapCache(app string) (*SnapCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SnapCache{dir: dir}, nil
}

func (c *SnapCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "mods", hexKey+".mp")
}

// Put serializes and writes a snapshot, replacing atomically.
func (c *SnapCache) Put(key project.Digest, snap *Snapshot) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(snap); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a snapshot. The boolean reports a usable hit; a snapshot with
// a stale schema counts as a miss.
func (c *SnapCache) Get(key project.Digest, out *Snapshot) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "snapcache: close: %v\n", closeErr)
		}
	}()

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if out.Schema != snapSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *SnapCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// sameExports compares a computed summary with a cached one.
func sameExports(a, b []ExportEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
