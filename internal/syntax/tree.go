package syntax

import (
	"github.com/lukedgr/nodejstools/internal/source"
)

// Tree holds the parsed syntax of one source file. Node identity is stable
// for the lifetime of the tree; a re-parse produces a fresh tree.
type Tree struct {
	File    source.FileID
	Strings *source.Interner
	Root    NodeID

	nodes *Arena[Node]
}

// NewTree creates an empty tree for the given file. If strings is nil, a
// fresh interner is allocated.
func NewTree(file source.FileID, strings *source.Interner) *Tree {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Tree{
		File:    file,
		Strings: strings,
		nodes:   NewArena[Node](1 << 7),
	}
}

// New allocates a node and returns its ID.
func (t *Tree) New(node Node) NodeID {
	return NodeID(t.nodes.Allocate(node))
}

// Get returns the node for id, or nil for NoNodeID.
func (t *Tree) Get(id NodeID) *Node {
	return t.nodes.Get(uint32(id))
}

// AddKid appends child to parent's child list.
func (t *Tree) AddKid(parent, child NodeID) {
	p := t.Get(parent)
	if p == nil {
		panic("syntax: AddKid on invalid parent")
	}
	p.Kids = append(p.Kids, child)
}

// Len reports the number of allocated nodes.
func (t *Tree) Len() int {
	return int(t.nodes.Len())
}

// Name resolves a node's Name field through the interner.
func (t *Tree) Name(id NodeID) string {
	n := t.Get(id)
	if n == nil || n.Name == source.NoStringID {
		return ""
	}
	return t.Strings.MustLookup(n.Name)
}
