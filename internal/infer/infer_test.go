package infer

import (
	"context"
	"testing"

	"github.com/lukedgr/nodejstools/internal/analysis"
	"github.com/lukedgr/nodejstools/internal/diag"
	"github.com/lukedgr/nodejstools/internal/parse"
	"github.com/lukedgr/nodejstools/internal/source"
)

type harness struct {
	fileSet  *source.FileSet
	analyzer *analysis.Analyzer
	bag      *diag.Bag
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	bag := diag.NewBag(100)
	return &harness{
		fileSet: source.NewFileSet(),
		analyzer: analysis.New(analysis.Options{
			Walker:   New(),
			Strings:  source.NewInterner(),
			Reporter: &diag.BagReporter{Bag: bag},
		}),
		bag: bag,
	}
}

// add parses src as a virtual file and registers (or replaces) it under
// path, without draining.
func (h *harness) add(t *testing.T, path, src string) *analysis.Module {
	t.Helper()
	id := h.fileSet.AddVirtual(path, []byte(src))
	tree := parse.ParseFile(h.fileSet.Get(id), h.analyzer.Strings, parse.Options{
		Reporter: &diag.BagReporter{Bag: h.bag},
	})
	return h.analyzer.AddModule(tree, path)
}

func (h *harness) run(t *testing.T, path, src string) *analysis.Module {
	t.Helper()
	m := h.add(t, path, src)
	if err := h.analyzer.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	return m
}

func (h *harness) query(t *testing.T, m *analysis.Module, name string) string {
	t.Helper()
	return h.analyzer.QueryName(m.Unit, name).String()
}

func TestVarDeclLiterals(t *testing.T) {
	h := newHarness(t)
	m := h.run(t, "main.js", `
var n = 1;
var s = "hi";
var b = true;
var z = null;
var u;
var arr = [1, 2, 3];
`)

	for _, tc := range []struct{ name, want string }{
		{"n", "{number}"},
		{"s", "{string}"},
		{"b", "{boolean}"},
		{"z", "{null}"},
		{"u", "{undefined}"},
		{"arr", "{array}"},
	} {
		if got := h.query(t, m, tc.name); got != tc.want {
			t.Errorf("%s = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestBinaryOperators(t *testing.T) {
	h := newHarness(t)
	m := h.run(t, "main.js", `
var add = 1 + 2;
var cat = "a" + 1;
var sub = 3 - 1;
var cmp = 1 < 2;
var either = 1 || "x";
`)

	for _, tc := range []struct{ name, want string }{
		{"add", "{number}"},
		{"cat", "{string}"},
		{"sub", "{number}"},
		{"cmp", "{boolean}"},
		{"either", "{number, string}"},
	} {
		if got := h.query(t, m, tc.name); got != tc.want {
			t.Errorf("%s = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestFunctionReturnInference(t *testing.T) {
	h := newHarness(t)
	m := h.run(t, "main.js", `
function id(v) { return v; }
var a = id(1);
var b = id("s");
function bare() {}
var r = bare();
`)

	// id's parameter unions every call site, so both results see the
	// union. That imprecision is the documented cost of the flow model.
	if got := h.query(t, m, "a"); got != "{number, string}" {
		t.Errorf("a = %s, want {number, string}", got)
	}
	if got := h.query(t, m, "b"); got != "{number, string}" {
		t.Errorf("b = %s, want {number, string}", got)
	}
	if got := h.query(t, m, "id"); got != "{function}" {
		t.Errorf("id = %s, want {function}", got)
	}
	// Falling off the end yields undefined.
	if got := h.query(t, m, "r"); got != "{undefined}" {
		t.Errorf("r = %s, want {undefined}", got)
	}
}

func TestFunctionExpressionAndMissingArg(t *testing.T) {
	h := newHarness(t)
	m := h.run(t, "main.js", `
var f = function (x) { return x; };
var got = f();
`)

	if got := h.query(t, m, "f"); got != "{function}" {
		t.Errorf("f = %s, want {function}", got)
	}
	// A call with no argument feeds undefined into x.
	if got := h.query(t, m, "got"); got != "{undefined}" {
		t.Errorf("got = %s, want {undefined}", got)
	}
}

func TestComprehension(t *testing.T) {
	h := newHarness(t)
	m := h.run(t, "main.js", `
var xs = [1, 2, 3];
var ys = [for (x of xs) x + 1];
`)

	if got := h.query(t, m, "ys"); got != "{array}" {
		t.Errorf("ys = %s, want {array}", got)
	}
}

func TestMemberAccessFlattening(t *testing.T) {
	h := newHarness(t)
	m := h.run(t, "main.js", `
var obj;
obj.count = 1;
obj.name = "a";
var c = obj.count;
var missing = obj.nothere;
`)

	if got := h.query(t, m, "c"); got != "{number}" {
		t.Errorf("c = %s, want {number}", got)
	}
	if got := h.query(t, m, "obj.name"); got != "{string}" {
		t.Errorf("obj.name = %s, want {string}", got)
	}
	// An unwritten property reads as the empty set, not an error.
	if got := h.query(t, m, "missing"); got != "{}" {
		t.Errorf("missing = %s, want {}", got)
	}
	if h.bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", h.bag.Items())
	}
}

func TestAssignmentCreatesGlobal(t *testing.T) {
	h := newHarness(t)
	m := h.run(t, "main.js", `
function setup() { flag = true; }
setup();
`)

	// An unqualified assignment inside a function lands at module scope.
	if got := h.query(t, m, "flag"); got != "{boolean}" {
		t.Errorf("flag = %s, want {boolean}", got)
	}
}

func TestSelfAssignmentWarning(t *testing.T) {
	h := newHarness(t)
	h.run(t, "main.js", "var x = 1;\nx = x;\n")

	found := false
	for _, d := range h.bag.Items() {
		if d.Code == diag.AnSelfAssignment && d.Severity == diag.SevWarning {
			found = true
		}
	}
	if !found {
		t.Fatalf("self-assignment warning missing, diagnostics: %v", h.bag.Items())
	}
}

func TestIncrementalReplaceChangesInference(t *testing.T) {
	h := newHarness(t)
	m := h.run(t, "main.js", `var x = 1;`)
	if got := h.query(t, m, "x"); got != "{number}" {
		t.Fatalf("x = %s, want {number}", got)
	}

	m = h.run(t, "main.js", `var x = "now a string";`)
	if got := h.query(t, m, "x"); got != "{string}" {
		t.Fatalf("after edit x = %s, want {string}", got)
	}
}

func TestIncrementalRemovalEvictsBindings(t *testing.T) {
	h := newHarness(t)
	m := h.run(t, "main.js", `var x = 1; var y = x;`)
	if got := h.query(t, m, "y"); got != "{number}" {
		t.Fatalf("y = %s, want {number}", got)
	}

	m = h.run(t, "main.js", `var y = "solo";`)
	// x is gone from the new parse; its record must not linger.
	if got := h.query(t, m, "x"); got != "{}" {
		t.Fatalf("x should be evicted after the edit, got %s", got)
	}
	if got := h.query(t, m, "y"); got != "{string}" {
		t.Fatalf("y = %s, want {string}", got)
	}
}

func TestAliasGrowthPropagates(t *testing.T) {
	h := newHarness(t)
	m := h.run(t, "main.js", `
var x = 1;
var y = x;
var sum = y - 0;
`)
	if got := h.query(t, m, "y"); got != "{number}" {
		t.Fatalf("y = %s, want {number}", got)
	}

	// Growing x through an edit reaches y's readers via the alias link.
	m = h.run(t, "main.js", `
var x = "s";
var y = x;
var sum = y - 0;
`)
	if got := h.query(t, m, "y"); got != "{string}" {
		t.Fatalf("after edit y = %s, want {string}", got)
	}
}

func TestQueryDoesNotDisturbFixedPoint(t *testing.T) {
	h := newHarness(t)
	m := h.run(t, "main.js", `var x = 1;`)

	for i := 0; i < 3; i++ {
		if got := h.query(t, m, "x"); got != "{number}" {
			t.Fatalf("query %d: x = %s, want {number}", i, got)
		}
	}
	if h.analyzer.QueueLen() != 0 {
		t.Fatalf("queries must not schedule work, queue len = %d", h.analyzer.QueueLen())
	}
}

func TestCrossModuleScopesAreIsolated(t *testing.T) {
	h := newHarness(t)
	one := h.add(t, "one.js", `var shared = 1;`)
	two := h.add(t, "two.js", `var mine = shared;`)
	if err := h.analyzer.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}

	if got := h.query(t, one, "shared"); got != "{number}" {
		t.Fatalf("one.shared = %s, want {number}", got)
	}
	// Modules do not see each other's top-level names.
	if got := h.query(t, two, "mine"); got != "{}" {
		t.Fatalf("two.mine = %s, want {}", got)
	}
}
