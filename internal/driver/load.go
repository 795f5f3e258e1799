// Package driver wires the pipeline together: file discovery, parallel
// parsing, analysis to fixed point, and export summaries.
package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/lukedgr/nodejstools/internal/diag"
	"github.com/lukedgr/nodejstools/internal/parse"
	"github.com/lukedgr/nodejstools/internal/project"
	"github.com/lukedgr/nodejstools/internal/source"
	"github.com/lukedgr/nodejstools/internal/syntax"
)

// ParseResult holds the outcome of parsing one file.
type ParseResult struct {
	Path   string
	FileID source.FileID
	Tree   *syntax.Tree
	Bag    *diag.Bag
}

// ListSourceFiles returns the sorted list of files under root matching the
// manifest's include globs. Sorting keeps entry registration order, and
// with it analysis order, deterministic.
func ListSourceFiles(root string, manifest project.Manifest) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if manifest.Matches(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// ParseDir loads and parses every matching file in parallel. The returned
// interner is shared by all trees and must also be handed to the analyzer.
func ParseDir(ctx context.Context, root string, manifest project.Manifest, maxDiagnostics, jobs int) (*source.FileSet, *source.Interner, []ParseResult, error) {
	files, err := ListSourceFiles(root, manifest)
	if err != nil {
		return nil, nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(root)
	interner := source.NewInterner()
	if len(files) == 0 {
		return fileSet, interner, nil, nil
	}

	// Preload sequentially: FileSet.Add is not goroutine-safe.
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine owns its result index; no mutex needed.
	results := make([]ParseResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path // pre-Go 1.22 toolchain: keep per-iteration capture
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(maxDiagnostics)

			if loadErr, hadError := loadErrors[path]; hadError {
				results[i] = ParseResult{Path: path, Bag: bag}
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErr.Error(),
				})
				return nil
			}

			fileID := fileIDs[path]
			file := fileSet.Get(fileID)

			tree := parse.ParseFile(file, interner, parse.Options{
				Reporter:  &diag.BagReporter{Bag: bag},
				MaxErrors: maxDiagnostics,
			})

			results[i] = ParseResult{
				Path:   path,
				FileID: fileID,
				Tree:   tree,
				Bag:    bag,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, interner, results, err
	}
	return fileSet, interner, results, nil
}
