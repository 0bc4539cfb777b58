package lowerers

import (
	m "jlower.dev/pkg/jlower/internal/model"
)

const nullInitializer = " = null"

// Uninitialized returns the fragments of decl that need an explicit initializer.
func Uninitialized(unit *m.Unit, decl FieldDecl) []Fragment {
	assigned := initializedNames(unit, decl.Body, decl.Static)

	var fragments []Fragment

	for _, fragment := range decl.Fragments {
		if fragment.Value != nil {
			continue
		}

		if _, ok := assigned[fragment.Name]; ok {
			continue
		}

		fragments = append(fragments, fragment)
	}

	return fragments
}

// Normalize gives every uninitialized fragment of the first field declaration
// that has one an explicit null initializer.
func Normalize(unit *m.Unit) Step {
	for _, decl := range Fields(unit) {
		fragments := Uninitialized(unit, decl)
		if len(fragments) == 0 {
			continue
		}

		edits := make([]m.Edit, 0, len(fragments))
		for _, fragment := range fragments {
			edits = append(edits, m.Edit{
				Op:    m.InsertAfter,
				Start: fragment.Declarator.Start,
				End:   fragment.Declarator.End,
				Text:  nullInitializer,
			})
		}

		return Step{Edits: edits, Count: len(fragments), Target: decl.Node}
	}

	return Step{}
}
