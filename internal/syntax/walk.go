package syntax

// Visitor is the traversal contract consumers of a tree rely on.
// Visit returns false to skip the node's children.
type Visitor interface {
	Visit(t *Tree, id NodeID) bool
}

// Walk traverses the subtree rooted at id in preorder.
func Walk(t *Tree, id NodeID, v Visitor) {
	if !id.IsValid() {
		return
	}
	if !v.Visit(t, id) {
		return
	}
	n := t.Get(id)
	for _, kid := range n.Kids {
		Walk(t, kid, v)
	}
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(t *Tree, id NodeID) bool

func (f VisitorFunc) Visit(t *Tree, id NodeID) bool { return f(t, id) }
