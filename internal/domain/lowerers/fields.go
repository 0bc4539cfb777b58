package lowerers

import (
	m "jlower.dev/pkg/jlower/internal/model"
)

const kindArrayInitializer = "array_initializer"

// Fragment is one declarator of a field declaration.
type Fragment struct {
	Declarator *m.Node
	Name       string
	Value      *m.Node
}

// Hoistable reports whether the fragment's initializer can move into an
// initializer block. Array initializers are only legal in declarations.
func (f Fragment) Hoistable() bool {
	return f.Value != nil && f.Value.Kind != kindArrayInitializer
}

// FieldDecl classifies a field declaration of a class body.
type FieldDecl struct {
	Node      *m.Node
	Body      *m.Node
	Static    bool
	Fragments []Fragment
}

// Fields returns the field declarations of class bodies in source order.
// Enums and anonymous classes are not visited, nor is anything nested in
// them; interface constants and record members are not fields here.
func Fields(unit *m.Unit) []FieldDecl {
	var fields []FieldDecl

	unit.Root.Walk(func(n *m.Node) bool {
		switch {
		case n.Kind == "enum_declaration":
			return false
		case n.Kind == kindClassBody && n.Parent != nil && n.Parent.Kind == "object_creation_expression":
			return false
		case n.Kind != "field_declaration":
			return true
		}

		body := n.Parent
		if body == nil || body.Kind != kindClassBody || body.Parent == nil || body.Parent.Kind != "class_declaration" {
			return false
		}

		fields = append(fields, classifyField(unit, n, body))

		return false
	})

	return fields
}

func classifyField(unit *m.Unit, decl, body *m.Node) FieldDecl {
	field := FieldDecl{Node: decl, Body: body, Static: hasModifier(unit, decl, "static")}

	for _, declarator := range decl.ChildrenByField("declarator") {
		fragment := Fragment{Declarator: declarator, Value: declarator.ChildByField("value")}
		if name := declarator.ChildByField("name"); name != nil {
			fragment.Name = unit.Source(name)
		}

		field.Fragments = append(field.Fragments, fragment)
	}

	return field
}

func hasModifier(unit *m.Unit, decl *m.Node, modifier string) bool {
	modifiers := decl.ChildByKind("modifiers")
	if modifiers == nil {
		return false
	}

	for _, child := range modifiers.Children {
		if unit.Source(child) == modifier {
			return true
		}
	}

	return false
}

// initializedNames lists the fields assigned by a top-level `name = ...;`
// statement of an initializer block of body. Static blocks count for static
// fields and instance blocks for instance fields. Assignments to a local
// declared earlier in the same block do not count.
func initializedNames(unit *m.Unit, body *m.Node, static bool) map[string]struct{} {
	names := make(map[string]struct{})

	for _, member := range body.Children {
		block := member
		if member.Kind == "static_initializer" {
			block = member.ChildByKind(kindBlock)
		} else if member.Kind != kindBlock {
			continue
		}

		if block == nil || (member.Kind == "static_initializer") != static {
			continue
		}

		locals := make(map[string]struct{})

		for _, statement := range block.Children {
			if statement.Kind == "local_variable_declaration" {
				for _, declarator := range statement.ChildrenByField("declarator") {
					if name := declarator.ChildByField("name"); name != nil {
						locals[unit.Source(name)] = struct{}{}
					}
				}

				continue
			}

			name, ok := assignedName(unit, statement)
			if _, shadowed := locals[name]; ok && !shadowed {
				names[name] = struct{}{}
			}
		}
	}

	return names
}

func assignedName(unit *m.Unit, statement *m.Node) (string, bool) {
	if statement.Kind != "expression_statement" || len(statement.Children) == 0 {
		return "", false
	}

	assignment := statement.Children[0]
	if assignment.Kind != "assignment_expression" {
		return "", false
	}

	left := assignment.ChildByField("left")
	op := assignment.ChildByField("operator")

	if left == nil || left.Kind != kindIdentifier || op == nil || unit.Source(op) != "=" {
		return "", false
	}

	return unit.Source(left), true
}
