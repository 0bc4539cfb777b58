package lowerers

import (
	"fmt"
	"strings"

	m "jlower.dev/pkg/jlower/internal/model"
)

// HoistWorkList returns the declarations with hoistable fragments: instance
// fields first, then static fields, each group in source order.
func HoistWorkList(unit *m.Unit) []FieldDecl {
	var instance, static []FieldDecl

	for _, decl := range Fields(unit) {
		if !hasHoistable(decl) {
			continue
		}

		if decl.Static {
			static = append(static, decl)
		} else {
			instance = append(instance, decl)
		}
	}

	return append(instance, static...)
}

func hasHoistable(decl FieldDecl) bool {
	for _, fragment := range decl.Fragments {
		if fragment.Hoistable() {
			return true
		}
	}

	return false
}

// Hoist moves the initializers of the first work list entry into a new
// initializer block placed first in the class body.
func Hoist(unit *m.Unit) (Step, error) {
	work := HoistWorkList(unit)
	if len(work) == 0 {
		return Step{}, nil
	}

	decl := work[0]

	var (
		statements []string
		edits      []m.Edit
	)

	for _, fragment := range decl.Fragments {
		if !fragment.Hoistable() {
			continue
		}

		// Each assignment becomes the block's first statement.
		statements = append([]string{fmt.Sprintf("%s = %s;", fragment.Name, unit.Source(fragment.Value))}, statements...)

		edits = append(edits, m.Edit{
			Op:    m.Remove,
			Start: initializerStart(fragment),
			End:   fragment.Value.End,
		})
	}

	first := firstMember(decl.Body)
	if first == nil {
		return Step{}, fmt.Errorf("class body at byte %d has no members", decl.Body.Start)
	}

	edits = append(edits, m.Edit{
		Op:    m.InsertFirst,
		Start: decl.Body.Start,
		End:   decl.Body.End,
		Text:  initializerBlock(unit, first, decl.Static, statements),
	})

	return Step{Edits: edits, Count: len(statements), Target: decl.Node}, nil
}

// initializerStart is where ` = value` begins: right after the name or the
// array dimensions that follow it.
func initializerStart(fragment Fragment) int {
	start := fragment.Declarator.Start

	for _, field := range []string{"name", "dimensions"} {
		if child := fragment.Declarator.ChildByField(field); child != nil && child.End > start {
			start = child.End
		}
	}

	return start
}

func firstMember(body *m.Node) *m.Node {
	for _, child := range body.Children {
		if child.Kind != "{" {
			return child
		}
	}

	return nil
}

func initializerBlock(unit *m.Unit, first *m.Node, static bool, statements []string) string {
	header := "{"
	if static {
		header = "static {"
	}

	indent, ok := unit.LineIndent(first.Start)
	if !ok {
		return header + " " + strings.Join(statements, " ") + " }"
	}

	inner := indent + unit.IndentUnit()

	var b strings.Builder

	b.WriteString(header)

	for _, statement := range statements {
		b.WriteString("\n")
		b.WriteString(inner)
		b.WriteString(statement)
	}

	b.WriteString("\n")
	b.WriteString(indent)
	b.WriteString("}")

	return b.String()
}
