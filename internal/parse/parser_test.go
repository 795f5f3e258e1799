package parse

import (
	"testing"

	"github.com/lukedgr/nodejstools/internal/diag"
	"github.com/lukedgr/nodejstools/internal/source"
	"github.com/lukedgr/nodejstools/internal/syntax"
)

func parseSrc(t *testing.T, src string) (*syntax.Tree, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.js", []byte(src))
	bag := diag.NewBag(50)
	tree := ParseFile(fs.Get(id), source.NewInterner(), Options{
		Reporter: &diag.BagReporter{Bag: bag},
	})
	if tree == nil || !tree.Root.IsValid() {
		t.Fatalf("ParseFile returned no tree for %q", src)
	}
	return tree, bag
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestVarDecl(t *testing.T) {
	tree, bag := parseSrc(t, `var x = 1;`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	root := tree.Get(tree.Root)
	if len(root.Kids) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(root.Kids))
	}
	decl := tree.Get(root.Kids[0])
	if decl.Kind != syntax.NodeVarDecl {
		t.Fatalf("statement is %s, want %s", decl.Kind, syntax.NodeVarDecl)
	}
	if got := tree.Strings.MustLookup(decl.Name); got != "x" {
		t.Fatalf("declared name %q, want x", got)
	}
	if len(decl.Kids) != 1 || tree.Get(decl.Kids[0]).Kind != syntax.NodeNumber {
		t.Fatalf("initializer shape wrong: %+v", decl)
	}
	if num := tree.Get(decl.Kids[0]).Num; num != 1 {
		t.Fatalf("initializer value %v, want 1", num)
	}
}

func TestBinaryPrecedence(t *testing.T) {
	tree, bag := parseSrc(t, `var r = 1 + 2 * 3;`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	decl := tree.Get(tree.Get(tree.Root).Kids[0])
	add := tree.Get(decl.Kids[0])
	if add.Kind != syntax.NodeBinary || add.Op != syntax.OpAdd {
		t.Fatalf("top operator is %v, want +", add.Op)
	}
	mul := tree.Get(add.Kids[1])
	if mul.Kind != syntax.NodeBinary || mul.Op != syntax.OpMul {
		t.Fatalf("right operand should be the * node, got %s", mul.Kind)
	}
}

func TestAssignmentRewrite(t *testing.T) {
	tree, bag := parseSrc(t, "x = 1;\nx.y = 2;\n")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	root := tree.Get(tree.Root)
	if len(root.Kids) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(root.Kids))
	}

	plain := tree.Get(root.Kids[0])
	if plain.Kind != syntax.NodeAssign || tree.Get(plain.Kids[0]).Kind != syntax.NodeIdent {
		t.Fatalf("ident assignment parsed as %s", plain.Kind)
	}

	member := tree.Get(root.Kids[1])
	if member.Kind != syntax.NodeAssign {
		t.Fatalf("member assignment parsed as %s", member.Kind)
	}
	target := tree.Get(member.Kids[0])
	if target.Kind != syntax.NodeMember {
		t.Fatalf("member target parsed as %s", target.Kind)
	}
	if got := tree.Strings.MustLookup(target.Name); got != "y" {
		t.Fatalf("property name %q, want y", got)
	}
}

func TestBadAssignmentTarget(t *testing.T) {
	_, bag := parseSrc(t, `1 = 2;`)
	if !hasCode(bag, diag.SynBadAssignTarget) {
		t.Fatalf("expected SynBadAssignTarget, got %v", bag.Items())
	}
}

func TestCallAndMemberChain(t *testing.T) {
	tree, bag := parseSrc(t, `obj.method(1, "two");`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	stmt := tree.Get(tree.Get(tree.Root).Kids[0])
	if stmt.Kind != syntax.NodeExprStmt {
		t.Fatalf("statement is %s, want expression statement", stmt.Kind)
	}
	call := tree.Get(stmt.Kids[0])
	if call.Kind != syntax.NodeCall || len(call.Kids) != 3 {
		t.Fatalf("call shape wrong: kind %s, %d kids", call.Kind, len(call.Kids))
	}
	callee := tree.Get(call.Kids[0])
	if callee.Kind != syntax.NodeMember || tree.Strings.MustLookup(callee.Name) != "method" {
		t.Fatalf("callee shape wrong: %s", callee.Kind)
	}
	if tree.Get(call.Kids[1]).Kind != syntax.NodeNumber || tree.Get(call.Kids[2]).Kind != syntax.NodeString {
		t.Fatalf("argument kinds wrong")
	}
}

func TestFunctionDeclaration(t *testing.T) {
	tree, bag := parseSrc(t, `function add(a, b) { return a + b; }`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	fn := tree.Get(tree.Get(tree.Root).Kids[0])
	if fn.Kind != syntax.NodeFunc || tree.Strings.MustLookup(fn.Name) != "add" {
		t.Fatalf("function shape wrong: %s", fn.Kind)
	}
	params := tree.Get(fn.Kids[0])
	if params.Kind != syntax.NodeParamList || len(params.Kids) != 2 {
		t.Fatalf("expected 2 params, got %d", len(params.Kids))
	}
	body := tree.Get(fn.Kids[1])
	if body.Kind != syntax.NodeBlock || len(body.Kids) != 1 {
		t.Fatalf("body shape wrong")
	}
	if tree.Get(body.Kids[0]).Kind != syntax.NodeReturn {
		t.Fatalf("body statement is %s, want return", tree.Get(body.Kids[0]).Kind)
	}
}

func TestComprehension(t *testing.T) {
	tree, bag := parseSrc(t, `var ys = [for (x of xs) x + 1];`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	decl := tree.Get(tree.Get(tree.Root).Kids[0])
	comp := tree.Get(decl.Kids[0])
	if comp.Kind != syntax.NodeComp {
		t.Fatalf("initializer is %s, want comprehension", comp.Kind)
	}
	if got := tree.Strings.MustLookup(comp.Name); got != "x" {
		t.Fatalf("loop binding %q, want x", got)
	}
	if len(comp.Kids) != 2 {
		t.Fatalf("comprehension needs iterable and element, got %d kids", len(comp.Kids))
	}
	if tree.Get(comp.Kids[0]).Kind != syntax.NodeIdent {
		t.Fatalf("iterable parsed as %s", tree.Get(comp.Kids[0]).Kind)
	}
}

func TestComprehensionMissingOf(t *testing.T) {
	_, bag := parseSrc(t, `var ys = [for (x in xs) x];`)
	if !hasCode(bag, diag.SynForMissingOf) {
		t.Fatalf("expected SynForMissingOf, got %v", bag.Items())
	}
}

func TestRecoveryAfterBadDecl(t *testing.T) {
	tree, bag := parseSrc(t, "var = 1;\nvar y = 2;\n")
	if !hasCode(bag, diag.SynExpectIdentifier) {
		t.Fatalf("expected SynExpectIdentifier, got %v", bag.Items())
	}
	// The second declaration survives error recovery.
	root := tree.Get(tree.Root)
	if len(root.Kids) != 1 {
		t.Fatalf("expected 1 recovered statement, got %d", len(root.Kids))
	}
	decl := tree.Get(root.Kids[0])
	if decl.Kind != syntax.NodeVarDecl || tree.Strings.MustLookup(decl.Name) != "y" {
		t.Fatalf("recovered statement wrong: %s", decl.Kind)
	}
}

func TestScannerDiagnostics(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{`var s = "open`, diag.LexUnterminatedString},
		{`var a = @;`, diag.LexUnknownChar},
	}
	for _, tc := range tests {
		_, bag := parseSrc(t, tc.src)
		if !hasCode(bag, tc.code) {
			t.Errorf("%q: expected %s, got %v", tc.src, tc.code, bag.Items())
		}
	}
}

func TestLineCommentsIgnored(t *testing.T) {
	tree, bag := parseSrc(t, "// leading note\nvar x = 1; // trailing\n")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if got := len(tree.Get(tree.Root).Kids); got != 1 {
		t.Fatalf("expected 1 statement, got %d", got)
	}
}

func TestMaxErrorsStopsParse(t *testing.T) {
	_, bag := parseSrc(t, "@ @ @ @ @ @ @ @ @ @")
	if bag.Len() == 0 {
		t.Fatalf("expected diagnostics for junk input")
	}
	if bag.Len() > 50 {
		t.Fatalf("error flood was not bounded: %d", bag.Len())
	}
}
