package lowerers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jlower.dev/pkg/jlower/internal/adapter"
	m "jlower.dev/pkg/jlower/internal/model"
)

func parse(t *testing.T, src string) *m.Unit {
	t.Helper()

	unit, err := adapter.NewLocalJavaFileAdapter().Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	return unit
}

func apply(t *testing.T, unit *m.Unit, step Step) string {
	t.Helper()

	out, err := adapter.NewLocalJavaFileAdapter().ApplyEdits(unit.Text, step.Edits)
	require.NoError(t, err)

	return string(out)
}

func findNode(t *testing.T, unit *m.Unit, kind, text string) *m.Node {
	t.Helper()

	var found *m.Node

	unit.Root.Walk(func(n *m.Node) bool {
		if found == nil && n.Kind == kind && unit.Source(n) == text {
			found = n
		}

		return found == nil
	})

	require.NotNil(t, found, "no %s node %q", kind, text)

	return found
}

func TestStep_Done(t *testing.T) {
	assert.True(t, Step{}.Done())
	assert.False(t, Step{Edits: []m.Edit{{Op: m.Remove}}}.Done())
}

func TestEnclosingStatement(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		kind      string
		text      string
		statement string
	}{
		{
			name:      "local declaration",
			src:       "class A { void f() { int x = g(1); } }",
			kind:      "decimal_integer_literal",
			text:      "1",
			statement: "int x = g(1);",
		},
		{
			name:      "for header",
			src:       "class A { void f() { for (int i = 0; i < n(); i++) { } } }",
			kind:      "method_invocation",
			text:      "n()",
			statement: "for (int i = 0; i < n(); i++) { }",
		},
		{
			name:      "nested block wins",
			src:       "class A { void f() { if (c) { g(2); } } }",
			kind:      "decimal_integer_literal",
			text:      "2",
			statement: "g(2);",
		},
		{
			name:      "constructor body",
			src:       "class A { A() { g(3); } }",
			kind:      "decimal_integer_literal",
			text:      "3",
			statement: "g(3);",
		},
		{
			name:      "static initializer",
			src:       "class A { static { g(4); } }",
			kind:      "decimal_integer_literal",
			text:      "4",
			statement: "g(4);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := parse(t, tt.src)

			statement := enclosingStatement(findNode(t, unit, tt.kind, tt.text))
			require.NotNil(t, statement)
			assert.Equal(t, tt.statement, unit.Source(statement))
		})
	}
}

func TestEnclosingStatement_Barriers(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind string
		text string
	}{
		{name: "field initializer", src: "class A { int a = 1; }", kind: "decimal_integer_literal", text: "1"},
		{name: "unbraced if", src: "class A { void f() { if (c) g(1); } }", kind: "decimal_integer_literal", text: "1"},
		{name: "unbraced else", src: "class A { void f() { if (c) { } else g(1); } }", kind: "decimal_integer_literal", text: "1"},
		{name: "unbraced loop", src: "class A { void f() { while (c) g(1); } }", kind: "decimal_integer_literal", text: "1"},
		{name: "loop update", src: "class A { void f() { for (;; g(1)) { } } }", kind: "decimal_integer_literal", text: "1"},
		{name: "expression lambda", src: "class A { void f() { Runnable r = () -> g(1); } }", kind: "decimal_integer_literal", text: "1"},
		{
			name: "switch group",
			src:  "class A { void f() { switch (x) { case 0: g(1); } } }",
			kind: "decimal_integer_literal",
			text: "1",
		},
		{
			name: "anonymous class field",
			src:  "class A { void f() { Object o = new Object() { int y = 1; }; } }",
			kind: "decimal_integer_literal",
			text: "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := parse(t, tt.src)

			assert.Nil(t, enclosingStatement(findNode(t, unit, tt.kind, tt.text)))
		})
	}
}

func TestIdentifiers(t *testing.T) {
	unit := parse(t, "class A { int b; void c(int d) { e(b); } }")

	assert.Equal(t, []string{"A", "b", "c", "d", "e"}, Identifiers(unit))
}
