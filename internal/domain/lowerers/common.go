// Package lowerers computes the edits of single lowering iterations. Every
// function here is pure: it inspects a parsed unit and describes a rewrite
// without applying it.
package lowerers

import (
	"errors"

	m "jlower.dev/pkg/jlower/internal/model"
)

// ErrNoEnclosingBlock reports a candidate that has no statement to be hoisted
// in front of.
var ErrNoEnclosingBlock = errors.New("candidate has no enclosing block")

const (
	kindBlock           = "block"
	kindConstructorBody = "constructor_body"
	kindClassBody       = "class_body"
	kindIdentifier      = "identifier"
)

// Step is the rewrite of one fixpoint iteration. An empty Edits slice means
// the phase has nothing left to do.
type Step struct {
	Edits  []m.Edit
	Count  int
	Target *m.Node
	Name   string
}

// Done reports whether the phase reached its fixpoint.
func (s Step) Done() bool {
	return len(s.Edits) == 0
}

// barrierKinds stop the search for an enclosing block: code under them runs
// at another time than the surrounding statement.
var barrierKinds = map[string]bool{
	kindClassBody:            true,
	"enum_body":              true,
	"enum_body_declarations": true,
	"interface_body":         true,
	"annotation_type_body":   true,
	"switch_block":           true,
	"lambda_expression":      true,
}

var loopKinds = map[string]bool{
	"for_statement":          true,
	"enhanced_for_statement": true,
	"while_statement":        true,
	"do_statement":           true,
}

func isBlock(n *m.Node) bool {
	return n.Kind == kindBlock || n.Kind == kindConstructorBody
}

// enclosingStatement returns the statement that is a direct child of the
// nearest block containing n, or nil when no block is reachable without
// leaving the current evaluation context.
func enclosingStatement(n *m.Node) *m.Node {
	child := n

	for parent := n.Parent; parent != nil; child, parent = parent, parent.Parent {
		if isBlock(parent) {
			return child
		}

		if barrierKinds[parent.Kind] {
			return nil
		}

		if parent.Kind == "if_statement" && (child.Field == "consequence" || child.Field == "alternative") {
			return nil
		}

		if loopKinds[parent.Kind] && (child.Field == "body" || child.Field == "update") {
			return nil
		}
	}

	return nil
}

// Identifiers returns every identifier spelled in unit.
func Identifiers(unit *m.Unit) []string {
	seen := make(map[string]struct{})

	var names []string

	unit.Root.Walk(func(n *m.Node) bool {
		if n.Kind != kindIdentifier {
			return true
		}

		name := unit.Source(n)
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}

		return true
	})

	return names
}
