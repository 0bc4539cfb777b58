package model

// Node is a syntax tree node of a parsed compilation unit.
//
// Kind is the grammar kind (block, field_declaration, method_invocation, ...)
// and Field is the grammar field the node fills in its parent, if any.
// Start and End are byte offsets into Unit.Text.
type Node struct {
	Kind     string
	Field    string
	Start    int
	End      int
	Named    bool
	Parent   *Node
	Index    int
	Children []*Node
}

// Unit is one parsed compilation unit. It is rebuilt after every applied batch
// of edits and never mutated in place.
type Unit struct {
	Text []byte
	Root *Node
}

// Source returns the text covered by n.
func (u *Unit) Source(n *Node) string {
	return string(u.Text[n.Start:n.End])
}

// ChildByField returns the first child filling the named grammar field.
func (n *Node) ChildByField(field string) *Node {
	for _, child := range n.Children {
		if child.Field == field {
			return child
		}
	}

	return nil
}

// ChildrenByField returns every child filling the named grammar field.
func (n *Node) ChildrenByField(field string) []*Node {
	var children []*Node

	for _, child := range n.Children {
		if child.Field == field {
			children = append(children, child)
		}
	}

	return children
}

// ChildByKind returns the first child of the given kind.
func (n *Node) ChildByKind(kind string) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}

	return nil
}

// NamedChildren returns the named children of n, skipping punctuation tokens.
func (n *Node) NamedChildren() []*Node {
	children := make([]*Node, 0, len(n.Children))

	for _, child := range n.Children {
		if child.Named {
			children = append(children, child)
		}
	}

	return children
}

// Ancestor returns the closest ancestor whose kind is one of kinds.
func (n *Node) Ancestor(kinds ...string) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		for _, kind := range kinds {
			if p.Kind == kind {
				return p
			}
		}
	}

	return nil
}

// Walk visits n and its descendants in pre-order. Returning false from visit
// skips the children of the visited node.
func (n *Node) Walk(visit func(*Node) bool) {
	if !visit(n) {
		return
	}

	for _, child := range n.Children {
		child.Walk(visit)
	}
}
