package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	m "jlower.dev/pkg/jlower/internal/model"
)

var (
	// ErrSyntax reports input the Java grammar could not parse cleanly.
	ErrSyntax = errors.New("syntax error")
	// ErrEditConflict reports a batch of edits that touch overlapping text.
	ErrEditConflict = errors.New("conflicting edits")
)

const (
	snippetLimit  = 40
	readChunkSize = 64 * 1024
)

// SyntaxError locates the first ERROR or MISSING node of a failed parse.
type SyntaxError struct {
	Line    int
	Column  int
	Snippet string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d near %q", e.Line, e.Column, e.Snippet)
}

// Is makes errors.Is(err, ErrSyntax) match any SyntaxError.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// JavaFileAdapter is the boundary between the lowering engine and Java source
// text: it parses units and applies batches of edits back onto their text.
type JavaFileAdapter interface {
	// Parse builds an immutable syntax tree for src.
	Parse(ctx context.Context, src []byte) (*m.Unit, error)

	// ApplyEdits applies every edit in one pass and returns the new text.
	// Only the edited regions change; all other bytes are kept verbatim.
	ApplyEdits(src []byte, edits []m.Edit) ([]byte, error)
}

// LocalJavaFileAdapter implements JavaFileAdapter with tree-sitter.
type LocalJavaFileAdapter struct {
	language *sitter.Language
}

// NewLocalJavaFileAdapter constructs a LocalJavaFileAdapter.
func NewLocalJavaFileAdapter() *LocalJavaFileAdapter {
	return &LocalJavaFileAdapter{language: sitter.NewLanguage(java.Language())}
}

// Parse runs the Java grammar over src and converts the result into a model tree.
func (a *LocalJavaFileAdapter) Parse(ctx context.Context, src []byte) (*m.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(a.language); err != nil {
		return nil, fmt.Errorf("set java language: %w", err)
	}

	// The progress callback aborts the parse once ctx is done; the parser
	// then returns no tree.
	tree := parser.ParseWithOptions(readChunk(src), nil, &sitter.ParseOptions{
		ProgressCallback: func(sitter.ParseState) bool { return ctx.Err() != nil },
	})
	if err := ctx.Err(); err != nil {
		if tree != nil {
			tree.Close()
		}

		return nil, err
	}

	if tree == nil {
		return nil, fmt.Errorf("%w: parser produced no tree", ErrSyntax)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, newSyntaxError(root, src)
	}

	cursor := tree.Walk()
	defer cursor.Close()

	return &m.Unit{Text: src, Root: convertNode(cursor, nil, 0)}, nil
}

// readChunk feeds src to the parser in bounded slices.
func readChunk(src []byte) func(int, sitter.Point) []byte {
	return func(offset int, _ sitter.Point) []byte {
		if offset >= len(src) {
			return nil
		}

		return src[offset:min(offset+readChunkSize, len(src))]
	}
}

// convertNode copies the subtree under the cursor into model nodes.
func convertNode(cursor *sitter.TreeCursor, parent *m.Node, index int) *m.Node {
	tsNode := cursor.Node()
	node := &m.Node{
		Kind:   tsNode.Kind(),
		Field:  cursor.FieldName(),
		Start:  int(tsNode.StartByte()),
		End:    int(tsNode.EndByte()),
		Named:  tsNode.IsNamed(),
		Parent: parent,
		Index:  index,
	}

	if cursor.GotoFirstChild() {
		for i := 0; ; i++ {
			node.Children = append(node.Children, convertNode(cursor, node, i))

			if !cursor.GotoNextSibling() {
				break
			}
		}

		cursor.GotoParent()
	}

	return node
}

func newSyntaxError(root *sitter.Node, src []byte) error {
	bad := findErrorNode(root)
	if bad == nil {
		bad = root
	}

	pos := bad.StartPosition()
	snippet := strings.TrimSpace(bad.Utf8Text(src))

	if bad.IsMissing() {
		snippet = "missing " + bad.Kind()
	}

	if len(snippet) > snippetLimit {
		snippet = snippet[:snippetLimit] + "..."
	}

	return &SyntaxError{
		Line:    int(pos.Row) + 1,
		Column:  int(pos.Column) + 1,
		Snippet: snippet,
	}
}

func findErrorNode(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}

	if !node.HasError() {
		return nil
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}

		if found := findErrorNode(child); found != nil {
			return found
		}
	}

	return nil
}

type splice struct {
	start int
	end   int
	text  string
	edit  m.Edit
}

// ApplyEdits resolves each edit into a text splice and applies them together.
func (a *LocalJavaFileAdapter) ApplyEdits(src []byte, edits []m.Edit) ([]byte, error) {
	splices := make([]splice, 0, len(edits))

	for _, edit := range edits {
		s, err := resolveEdit(src, edit)
		if err != nil {
			return nil, err
		}

		splices = append(splices, s)
	}

	// Inserts sort ahead of replacements that start at the same offset.
	sort.SliceStable(splices, func(i, j int) bool {
		if splices[i].start != splices[j].start {
			return splices[i].start < splices[j].start
		}

		return splices[i].end-splices[i].start < splices[j].end-splices[j].start
	})

	for i := 1; i < len(splices); i++ {
		prev, cur := splices[i-1], splices[i]
		if prev.end > cur.start {
			return nil, fmt.Errorf("%w: %s [%d,%d) overlaps %s [%d,%d)",
				ErrEditConflict, prev.edit.Op, prev.start, prev.end, cur.edit.Op, cur.start, cur.end)
		}
	}

	var out bytes.Buffer

	out.Grow(len(src))

	last := 0
	for _, s := range splices {
		out.Write(src[last:s.start])
		out.WriteString(s.text)
		last = s.end
	}

	out.Write(src[last:])

	return out.Bytes(), nil
}

func resolveEdit(src []byte, edit m.Edit) (splice, error) {
	if edit.Start < 0 || edit.End > len(src) || edit.Start > edit.End {
		return splice{}, fmt.Errorf("%s edit span [%d,%d) outside text of length %d", edit.Op, edit.Start, edit.End, len(src))
	}

	switch edit.Op {
	case m.InsertBefore:
		return splice{start: edit.Start, end: edit.Start, text: edit.Text + statementSeparator(src, edit.Start), edit: edit}, nil
	case m.InsertAfter:
		return splice{start: edit.End, end: edit.End, text: edit.Text, edit: edit}, nil
	case m.InsertFirst:
		return resolveInsertFirst(src, edit)
	case m.Replace:
		return splice{start: edit.Start, end: edit.End, text: edit.Text, edit: edit}, nil
	case m.Remove:
		return splice{start: edit.Start, end: edit.End, edit: edit}, nil
	default:
		return splice{}, fmt.Errorf("unsupported edit operation %d", int(edit.Op))
	}
}

// statementSeparator keeps the anchor on its own line at its own indentation.
func statementSeparator(src []byte, offset int) string {
	lineStart := bytes.LastIndexByte(src[:offset], '\n') + 1
	prefix := string(src[lineStart:offset])

	if strings.TrimLeft(prefix, " \t") != "" {
		return " "
	}

	return "\n" + prefix
}

func resolveInsertFirst(src []byte, edit m.Edit) (splice, error) {
	if edit.End-edit.Start < 2 || src[edit.Start] != '{' || src[edit.End-1] != '}' {
		return splice{}, fmt.Errorf("%s target [%d,%d) is not a braced body", edit.Op, edit.Start, edit.End)
	}

	pos := edit.Start + 1
	for pos < edit.End-1 && isSpace(src[pos]) {
		pos++
	}

	gap := string(src[edit.Start+1 : pos])

	switch {
	case pos == edit.End-1:
		return splice{start: pos, end: pos, text: " " + edit.Text + " ", edit: edit}, nil
	case strings.Contains(gap, "\n"):
		return splice{start: pos, end: pos, text: edit.Text + gap, edit: edit}, nil
	default:
		return splice{start: pos, end: pos, text: edit.Text + " ", edit: edit}, nil
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
