package model

// EditOp names a structural edit applied to a unit's text.
type EditOp int

const (
	// InsertBefore places Text in front of the statement starting at Start,
	// on its own line when the statement starts a line.
	InsertBefore EditOp = iota
	// InsertAfter places Text verbatim at End.
	InsertAfter
	// InsertFirst places Text as the first member of the body spanning
	// Start..End, repeating the layout that preceded the old first member.
	InsertFirst
	// Replace substitutes the span Start..End with Text.
	Replace
	// Remove deletes the span Start..End.
	Remove
)

func (op EditOp) String() string {
	switch op {
	case InsertBefore:
		return "insert-before"
	case InsertAfter:
		return "insert-after"
	case InsertFirst:
		return "insert-first"
	case Replace:
		return "replace"
	case Remove:
		return "remove"
	default:
		return "unknown"
	}
}

// Edit is a pending change recorded against the text of a unit.
type Edit struct {
	Op    EditOp
	Start int
	End   int
	Text  string
}
