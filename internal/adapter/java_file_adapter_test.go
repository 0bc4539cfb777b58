package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "jlower.dev/pkg/jlower/internal/model"
)

func TestLocalJavaFileAdapter_Parse(t *testing.T) {
	adapter := NewLocalJavaFileAdapter()
	src := []byte("class A {\n    int a = 1;\n    void f() { g(1 + 2); }\n}\n")

	unit, err := adapter.Parse(context.Background(), src)
	require.NoError(t, err)
	require.NotNil(t, unit.Root)

	assert.Equal(t, "program", unit.Root.Kind)
	assert.Equal(t, src, unit.Text)

	var kinds []string

	unit.Root.Walk(func(n *m.Node) bool {
		if n.Kind == "binary_expression" {
			kinds = append(kinds, unit.Source(n))
			assert.Equal(t, "1", unit.Source(n.ChildByField("left")))
			assert.Equal(t, "2", unit.Source(n.ChildByField("right")))
			assert.Equal(t, "argument_list", n.Parent.Kind)
		}

		return true
	})

	assert.Equal(t, []string{"1 + 2"}, kinds)
}

func TestLocalJavaFileAdapter_Parse_ParentAndIndex(t *testing.T) {
	adapter := NewLocalJavaFileAdapter()

	unit, err := adapter.Parse(context.Background(), []byte("class A { int a, b; }"))
	require.NoError(t, err)

	unit.Root.Walk(func(n *m.Node) bool {
		for i, child := range n.Children {
			assert.Same(t, n, child.Parent)
			assert.Equal(t, i, child.Index)
		}

		return true
	})

	var declarators []string

	unit.Root.Walk(func(n *m.Node) bool {
		if n.Kind == "field_declaration" {
			for _, d := range n.ChildrenByField("declarator") {
				declarators = append(declarators, unit.Source(d))
			}
		}

		return true
	})

	assert.Equal(t, []string{"a", "b"}, declarators)
}

func TestLocalJavaFileAdapter_Parse_InvalidSource(t *testing.T) {
	adapter := NewLocalJavaFileAdapter()

	_, err := adapter.Parse(context.Background(), []byte("class A {\n    void f( {\n}\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))

	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.GreaterOrEqual(t, syntaxErr.Line, 1)
	assert.Contains(t, err.Error(), "syntax error at")
}

func TestLocalJavaFileAdapter_Parse_ContextCancellation(t *testing.T) {
	adapter := NewLocalJavaFileAdapter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := adapter.Parse(ctx, []byte("class A {}"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLocalJavaFileAdapter_Parse_CancelledMidParse(t *testing.T) {
	adapter := NewLocalJavaFileAdapter()

	var b strings.Builder

	b.WriteString("class Big {\n")

	for i := 0; i < 200000; i++ {
		fmt.Fprintf(&b, "    int m%d() { return f(%d + 1) * 2; }\n", i, i)
	}

	b.WriteString("}\n")

	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(20*time.Millisecond, cancel)
	defer timer.Stop()

	unit, err := adapter.Parse(ctx, []byte(b.String()))
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, unit)

	// The adapter stays usable after an aborted parse.
	unit, err = adapter.Parse(context.Background(), []byte("class A {}"))
	require.NoError(t, err)
	assert.Equal(t, "program", unit.Root.Kind)
}

func TestLocalJavaFileAdapter_ApplyEdits(t *testing.T) {
	adapter := NewLocalJavaFileAdapter()

	tests := []struct {
		name  string
		src   string
		edits func(src string) []m.Edit
		want  string
	}{
		{
			name: "insert before indented statement keeps indentation",
			src:  "{\n        int x = f(1);\n}",
			edits: func(src string) []m.Edit {
				stmt := strings.Index(src, "int x")
				one := strings.Index(src, "1)")

				return []m.Edit{
					{Op: m.InsertBefore, Start: stmt, End: stmt, Text: "var v = 1;"},
					{Op: m.Replace, Start: one, End: one + 1, Text: "v"},
				}
			},
			want: "{\n        var v = 1;\n        int x = f(v);\n}",
		},
		{
			name: "insert before statement sharing the line",
			src:  "{ f(1); }",
			edits: func(src string) []m.Edit {
				stmt := strings.Index(src, "f(")
				return []m.Edit{{Op: m.InsertBefore, Start: stmt, End: stmt, Text: "var v = 1;"}}
			},
			want: "{ var v = 1; f(1); }",
		},
		{
			name: "insert and replace starting at the same offset",
			src:  "{\n  a.b().c();\n}",
			edits: func(src string) []m.Edit {
				stmt := strings.Index(src, "a.b()")

				return []m.Edit{
					{Op: m.Replace, Start: stmt, End: stmt + len("a.b()"), Text: "v"},
					{Op: m.InsertBefore, Start: stmt, End: stmt, Text: "var v = a.b();"},
				}
			},
			want: "{\n  var v = a.b();\n  v.c();\n}",
		},
		{
			name: "insert after appends verbatim",
			src:  "int a, b;",
			edits: func(src string) []m.Edit {
				return []m.Edit{
					{Op: m.InsertAfter, Start: 4, End: 5, Text: " = null"},
					{Op: m.InsertAfter, Start: 7, End: 8, Text: " = null"},
				}
			},
			want: "int a = null, b = null;",
		},
		{
			name: "insert first repeats the leading layout",
			src:  "class A {\n\n    int a;\n}",
			edits: func(src string) []m.Edit {
				body := strings.Index(src, "{")
				return []m.Edit{{Op: m.InsertFirst, Start: body, End: len(src), Text: "{ a = 1; }"}}
			},
			want: "class A {\n\n    { a = 1; }\n\n    int a;\n}",
		},
		{
			name: "insert first into single line body",
			src:  "class A {int a;}",
			edits: func(src string) []m.Edit {
				body := strings.Index(src, "{")
				return []m.Edit{{Op: m.InsertFirst, Start: body, End: len(src), Text: "{ a = 1; }"}}
			},
			want: "class A {{ a = 1; } int a;}",
		},
		{
			name: "remove deletes the span",
			src:  "int a = 1;",
			edits: func(src string) []m.Edit {
				return []m.Edit{{Op: m.Remove, Start: 5, End: 9}}
			},
			want: "int a;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := adapter.ApplyEdits([]byte(tt.src), tt.edits(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestLocalJavaFileAdapter_ApplyEdits_Errors(t *testing.T) {
	adapter := NewLocalJavaFileAdapter()
	src := []byte("class A { int a = 1; }")

	t.Run("overlapping replacements", func(t *testing.T) {
		_, err := adapter.ApplyEdits(src, []m.Edit{
			{Op: m.Replace, Start: 10, End: 20, Text: "x"},
			{Op: m.Remove, Start: 15, End: 18},
		})
		require.ErrorIs(t, err, ErrEditConflict)
	})

	t.Run("insert inside replaced span", func(t *testing.T) {
		_, err := adapter.ApplyEdits(src, []m.Edit{
			{Op: m.Replace, Start: 10, End: 20, Text: "x"},
			{Op: m.InsertAfter, Start: 12, End: 14, Text: "y"},
		})
		require.ErrorIs(t, err, ErrEditConflict)
	})

	t.Run("span out of range", func(t *testing.T) {
		_, err := adapter.ApplyEdits(src, []m.Edit{{Op: m.Remove, Start: 5, End: 500}})
		require.Error(t, err)
	})

	t.Run("insert first needs a braced body", func(t *testing.T) {
		_, err := adapter.ApplyEdits(src, []m.Edit{{Op: m.InsertFirst, Start: 0, End: 5, Text: "{}"}})
		require.Error(t, err)
	})
}
