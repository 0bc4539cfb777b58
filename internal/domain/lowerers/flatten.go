package lowerers

import (
	"fmt"
	"strings"
	"unicode"

	m "jlower.dev/pkg/jlower/internal/model"
)

const kindFieldAccess = "field_access"

var candidateKinds = map[string]bool{
	"binary_expression":              true,
	"method_invocation":              true,
	kindFieldAccess:                  true,
	"object_creation_expression":     true,
	"instanceof_expression":          true,
	"decimal_integer_literal":        true,
	"hex_integer_literal":            true,
	"octal_integer_literal":          true,
	"binary_integer_literal":         true,
	"decimal_floating_point_literal": true,
	"hex_floating_point_literal":     true,
	"true":                           true,
	"false":                          true,
	"character_literal":              true,
	"string_literal":                 true,
	"null_literal":                   true,
}

// skippedKinds are never searched for candidates.
var skippedKinds = map[string]bool{
	"package_declaration":             true,
	"import_declaration":              true,
	"module_declaration":              true,
	"array_initializer":               true,
	"annotation":                      true,
	"marker_annotation":               true,
	"switch_label":                    true,
	"explicit_constructor_invocation": true,
}

// Candidates returns, in pre-order, the expressions the flattener may extract.
func Candidates(unit *m.Unit) []*m.Node {
	var candidates []*m.Node

	declared := declaredNames(unit)

	var visit func(n *m.Node)

	visit = func(n *m.Node) {
		if skippedKinds[n.Kind] {
			return
		}

		if n.Named && candidateKinds[n.Kind] {
			if isEligible(n) && !isOperandChain(unit, n) && !isQualifiedTypeName(unit, n, declared) && enclosingStatement(n) != nil {
				candidates = append(candidates, n)
			}

			// Field accesses are extracted whole.
			if n.Kind == kindFieldAccess {
				return
			}
		}

		for _, child := range n.Children {
			if isGuarded(unit, child) {
				continue
			}

			visit(child)
		}
	}

	visit(unit.Root)

	return candidates
}

// isEligible rejects positions where extraction is either a no-op or would
// change what the expression denotes.
func isEligible(n *m.Node) bool {
	parent := n.Parent
	if parent == nil {
		return false
	}

	switch parent.Kind {
	case "variable_declarator", "resource":
		return n.Field != "value"
	case "assignment_expression":
		return n.Field != "left" && n.Field != "right"
	case "update_expression", "expression_statement":
		return false
	}

	return !isLoopTest(n)
}

// isLoopTest matches the controlling expression of a for, while or do loop.
func isLoopTest(n *m.Node) bool {
	parent := n.Parent

	if parent.Kind == "for_statement" && n.Field == "condition" {
		return true
	}

	if parent.Kind != "parenthesized_expression" || parent.Field != "condition" || parent.Parent == nil {
		return false
	}

	return parent.Parent.Kind == "while_statement" || parent.Parent.Kind == "do_statement"
}

// isOperandChain matches the left operand of a chain of one operator, such
// as `1 + 2` in `1 + 2 + 3`. The chain is a single expression whose operands
// are extracted one by one.
func isOperandChain(unit *m.Unit, n *m.Node) bool {
	parent := n.Parent
	if n.Kind != "binary_expression" || n.Field != "left" || parent.Kind != "binary_expression" {
		return false
	}

	op, parentOp := n.ChildByField("operator"), parent.ChildByField("operator")

	return op != nil && parentOp != nil && unit.Source(op) == unit.Source(parentOp)
}

// isGuarded reports children that only run conditionally relative to their parent.
func isGuarded(unit *m.Unit, child *m.Node) bool {
	parent := child.Parent

	switch parent.Kind {
	case "ternary_expression":
		return child.Field == "consequence" || child.Field == "alternative"
	case "lambda_expression":
		return child.Field == "body" && child.Kind != kindBlock
	case "binary_expression":
		if child.Field != "right" {
			return false
		}

		op := parent.ChildByField("operator")

		return op != nil && (unit.Source(op) == "&&" || unit.Source(op) == "||")
	}

	return false
}

// isQualifiedTypeName matches dotted names such as java.util.List or
// Map.Entry, which parse as field accesses but denote types. A head that
// is declared as a variable in the unit is a value. A capitalized head
// like Color.Red is only a type when it qualifies a further member or a
// class literal; elsewhere it reads as a constant.
func isQualifiedTypeName(unit *m.Unit, n *m.Node, declared map[string]struct{}) bool {
	if n.Kind != kindFieldAccess {
		return false
	}

	field := n.ChildByField("field")
	if field == nil || !isTypeLike(unit.Source(field)) {
		return false
	}

	for object := n.ChildByField("object"); object != nil; object = object.ChildByField("object") {
		switch object.Kind {
		case kindIdentifier:
			name := unit.Source(object)
			if _, ok := declared[name]; ok {
				return false
			}

			return isPackageLike(name) || (isTypeLike(name) && isQualifier(n))
		case kindFieldAccess:
			name := object.ChildByField("field")
			if name == nil || !(isPackageLike(unit.Source(name)) || isTypeLike(unit.Source(name))) {
				return false
			}
		default:
			return false
		}
	}

	return false
}

func isQualifier(n *m.Node) bool {
	return n.Field == "object" || (n.Parent != nil && n.Parent.Kind == "class_literal")
}

// declaredNames collects the variables, parameters and fields declared in unit.
func declaredNames(unit *m.Unit) map[string]struct{} {
	names := make(map[string]struct{})

	unit.Root.Walk(func(n *m.Node) bool {
		var name *m.Node

		switch n.Kind {
		case "variable_declarator", "formal_parameter", "catch_formal_parameter", "enhanced_for_statement", "resource":
			name = n.ChildByField("name")
		case "inferred_parameters":
			for _, child := range n.Children {
				if child.Kind == kindIdentifier {
					names[unit.Source(child)] = struct{}{}
				}
			}
		case "lambda_expression":
			name = n.ChildByField("parameters")
		}

		if name != nil && name.Kind == kindIdentifier {
			names[unit.Source(name)] = struct{}{}
		}

		return true
	})

	return names
}

func isTypeLike(name string) bool {
	if name == "" || !unicode.IsUpper(rune(name[0])) {
		return false
	}

	return strings.ToUpper(name) != name
}

func isPackageLike(name string) bool {
	return name != "" && strings.ToLower(name) == name
}

// Flatten extracts the first candidate of unit into a temporary named by mint.
func Flatten(unit *m.Unit, mint func() string) (Step, error) {
	candidates := Candidates(unit)
	if len(candidates) == 0 {
		return Step{}, nil
	}

	candidate := candidates[0]

	statement := enclosingStatement(candidate)
	if statement == nil {
		return Step{}, fmt.Errorf("%w: %s at byte %d", ErrNoEnclosingBlock, candidate.Kind, candidate.Start)
	}

	name := mint()

	return Step{
		Edits: []m.Edit{
			{
				Op:    m.InsertBefore,
				Start: statement.Start,
				End:   statement.Start,
				Text:  fmt.Sprintf("var %s = %s;", name, unit.Source(candidate)),
			},
			{Op: m.Replace, Start: candidate.Start, End: candidate.End, Text: name},
		},
		Count:  1,
		Target: candidate,
		Name:   name,
	}, nil
}
