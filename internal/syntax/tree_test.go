package syntax

import (
	"testing"

	"github.com/lukedgr/nodejstools/internal/source"
)

func TestArenaSentinel(t *testing.T) {
	a := NewArena[int](4)
	if a.Get(0) != nil {
		t.Error("index 0 is the sentinel and must resolve to nil")
	}
	first := a.Allocate(42)
	if first != 1 {
		t.Errorf("first allocation got index %d, want 1", first)
	}
	if got := a.Get(first); got == nil || *got != 42 {
		t.Errorf("Get(%d) = %v", first, got)
	}
	if a.Get(2) != nil {
		t.Error("out-of-range index must resolve to nil")
	}
}

func TestTreeBuildAndName(t *testing.T) {
	tree := NewTree(source.FileID(1), nil)
	root := tree.New(Node{Kind: NodeModule})
	tree.Root = root

	decl := tree.New(Node{Kind: NodeVarDecl, Name: tree.Strings.Intern("x")})
	tree.AddKid(root, decl)

	if got := tree.Name(decl); got != "x" {
		t.Errorf("Name = %q, want x", got)
	}
	if got := tree.Name(root); got != "" {
		t.Errorf("unnamed node should produce the empty string, got %q", got)
	}
	if tree.Get(NoNodeID) != nil {
		t.Error("NoNodeID must resolve to nil")
	}
	if len(tree.Get(root).Kids) != 1 {
		t.Errorf("root has %d kids, want 1", len(tree.Get(root).Kids))
	}
}

func TestWalkPreorder(t *testing.T) {
	tree := NewTree(source.FileID(1), nil)
	root := tree.New(Node{Kind: NodeModule})
	block := tree.New(Node{Kind: NodeBlock})
	inner := tree.New(Node{Kind: NodeNull})
	after := tree.New(Node{Kind: NodeNumber})
	tree.AddKid(root, block)
	tree.AddKid(block, inner)
	tree.AddKid(root, after)

	var order []NodeKind
	Walk(tree, root, VisitorFunc(func(t *Tree, id NodeID) bool {
		order = append(order, t.Get(id).Kind)
		return true
	}))

	want := []NodeKind{NodeModule, NodeBlock, NodeNull, NodeNumber}
	if len(order) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("visit order %v, want %v", order, want)
		}
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	tree := NewTree(source.FileID(1), nil)
	root := tree.New(Node{Kind: NodeModule})
	block := tree.New(Node{Kind: NodeBlock})
	inner := tree.New(Node{Kind: NodeNull})
	tree.AddKid(root, block)
	tree.AddKid(block, inner)

	count := 0
	Walk(tree, root, VisitorFunc(func(t *Tree, id NodeID) bool {
		count++
		return t.Get(id).Kind != NodeBlock
	}))
	if count != 2 {
		t.Fatalf("visited %d nodes, want 2 (block's children skipped)", count)
	}
}
