package driver

import (
	"context"
	"sort"
	"strings"

	"github.com/lukedgr/nodejstools/internal/analysis"
	"github.com/lukedgr/nodejstools/internal/diag"
	"github.com/lukedgr/nodejstools/internal/infer"
	"github.com/lukedgr/nodejstools/internal/observ"
	"github.com/lukedgr/nodejstools/internal/project"
	"github.com/lukedgr/nodejstools/internal/source"
)

// AnalyzeOptions configures one AnalyzeDir run.
type AnalyzeOptions struct {
	Jobs           int
	MaxDiagnostics int
	// Cache, when non-nil, is consulted for unchanged-module detection
	// and updated with fresh summaries.
	Cache *SnapCache
	Sink  observ.Sink
}

// ModuleReport summarizes one analyzed module.
type ModuleReport struct {
	Path    string
	Digest  project.Digest
	Exports []ExportEntry
	// Unchanged is set when the cached summary for this exact file
	// content matches the freshly computed one.
	Unchanged bool
}

// AnalyzeResult is the outcome of a full AnalyzeDir run. The Analyzer is
// kept alive so hosts can run eval-only queries against the fixed point.
type AnalyzeResult struct {
	Manifest project.Manifest
	FileSet  *source.FileSet
	Bag      *diag.Bag
	Modules  []ModuleReport
	Timer    *observ.Timer
	Analyzer *analysis.Analyzer
	Walker   *infer.Walker
}

// AnalyzeDir parses every matching file under root, analyzes the project
// to a fixed point and reports per-module export summaries.
func AnalyzeDir(ctx context.Context, root string, opts AnalyzeOptions) (*AnalyzeResult, error) {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}
	if opts.Sink == nil {
		opts.Sink = observ.Nop
	}
	timer := observ.NewTimer()

	manifest, err := project.Discover(root)
	if err != nil {
		return nil, err
	}
	if manifest.Jobs > 0 && opts.Jobs <= 0 {
		opts.Jobs = manifest.Jobs
	}
	if manifest.MaxDiags > 0 {
		opts.MaxDiagnostics = manifest.MaxDiags
	}

	phase := timer.Begin("parse")
	fileSet, interner, parsed, err := ParseDir(ctx, root, manifest, opts.MaxDiagnostics, opts.Jobs)
	timer.End(phase, "")
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(opts.MaxDiagnostics * (len(parsed) + 1))
	for _, pr := range parsed {
		bag.Merge(pr.Bag)
	}

	walker := infer.New()
	analyzer := analysis.New(analysis.Options{
		Walker:   walker,
		Strings:  interner,
		Sink:     opts.Sink,
		Reporter: &diag.BagReporter{Bag: bag},
	})

	phase = timer.Begin("bind")
	for _, pr := range parsed {
		if pr.Tree == nil {
			continue
		}
		analyzer.AddModule(pr.Tree, pr.Path)
	}
	timer.End(phase, "")

	phase = timer.Begin("analyze")
	err = analyzer.Drain(ctx)
	timer.End(phase, "")
	if err != nil {
		return nil, err
	}

	phase = timer.Begin("summarize")
	result := &AnalyzeResult{
		Manifest: manifest,
		FileSet:  fileSet,
		Bag:      bag,
		Timer:    timer,
		Analyzer: analyzer,
		Walker:   walker,
	}
	for _, m := range analyzer.ModulesInOrder() {
		entry := analyzer.Entries.Get(m.Entry)
		if entry == nil || !entry.Live {
			continue
		}
		report := ModuleReport{
			Path:    entry.Path,
			Exports: ExportSummary(analyzer, m),
		}
		if f, ok := fileSet.GetByPath(entry.Path); ok {
			report.Digest = project.Digest(f.Hash)
		}
		if opts.Cache != nil && !report.Digest.Zero() {
			var cached Snapshot
			if hit, err := opts.Cache.Get(report.Digest, &cached); err == nil && hit {
				report.Unchanged = sameExports(report.Exports, cached.Exports)
			}
			if !report.Unchanged {
				_ = opts.Cache.Put(report.Digest, &Snapshot{
					Schema:  snapSchemaVersion,
					Path:    entry.Path,
					Digest:  report.Digest,
					Exports: report.Exports,
				})
			}
		}
		result.Modules = append(result.Modules, report)
	}
	timer.End(phase, "")

	bag.Sort()
	return result, nil
}

// ExportSummary renders the module scope's bindings in name order.
// Synthetic "@" slots stay internal.
func ExportSummary(a *analysis.Analyzer, m *analysis.Module) []ExportEntry {
	scope := a.Scopes.Get(m.Scope)
	if scope == nil {
		return nil
	}
	out := make([]ExportEntry, 0, len(scope.Vars))
	for name, vid := range scope.Vars {
		text, ok := a.Strings.Lookup(name)
		if !ok || strings.HasPrefix(text, "@") {
			continue
		}
		v := a.Vars.Get(vid)
		if v == nil {
			continue
		}
		out = append(out, ExportEntry{Name: text, Types: v.Values.String()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
