package domain

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"jlower.dev/pkg/jlower/internal/adapter"
	adaptermocks "jlower.dev/pkg/jlower/internal/adapter/mocks"
	m "jlower.dev/pkg/jlower/internal/model"
)

type loweringCase struct {
	Name  string   `yaml:"name"`
	Input string   `yaml:"input"`
	Want  string   `yaml:"want"`
	Stats *m.Stats `yaml:"stats"`
}

func loadLoweringCases(t *testing.T) []loweringCase {
	t.Helper()

	data, err := os.ReadFile("testdata/lowering.yaml")
	require.NoError(t, err)

	var cases []loweringCase
	require.NoError(t, yaml.Unmarshal(data, &cases))
	require.NotEmpty(t, cases)

	return cases
}

func newNumberedLowerer(config LowererConfig) Lowerer {
	return NewLowerer(adapter.NewLocalJavaFileAdapter(), NewNamerFactory(NamerConfig{Numbered: true}), config)
}

func TestLowerer_Lower(t *testing.T) {
	lowerer := newNumberedLowerer(LowererConfig{})

	for _, tc := range loadLoweringCases(t) {
		t.Run(tc.Name, func(t *testing.T) {
			result, err := lowerer.Lower(context.Background(), []byte(tc.Input))
			require.NoError(t, err)

			assert.Equal(t, tc.Want, string(result.Text))

			if tc.Stats != nil {
				assert.Equal(t, *tc.Stats, result.Stats)
			}
		})
	}
}

func TestLowerer_Lower_Idempotent(t *testing.T) {
	lowerer := newNumberedLowerer(LowererConfig{})

	for _, tc := range loadLoweringCases(t) {
		t.Run(tc.Name, func(t *testing.T) {
			result, err := lowerer.Lower(context.Background(), []byte(tc.Want))
			require.NoError(t, err)

			assert.Equal(t, tc.Want, string(result.Text))
			assert.Equal(t, m.Stats{Rounds: 1}, result.Stats)
		})
	}
}

func TestLowerer_Lower_NamePrefix(t *testing.T) {
	lowerer := newNumberedLowerer(LowererConfig{NamePrefix: "tmp"})

	result, err := lowerer.Lower(context.Background(), []byte("class T { void f() { g(1, 2); } }"))
	require.NoError(t, err)

	assert.Equal(t, "class T { void f() { var tmp0 = 1; var tmp1 = 2; g(tmp0, tmp1); } }", string(result.Text))
}

func TestLowerer_Lower_RandomNames(t *testing.T) {
	src := []byte("class T { void f() { int x = a.b(1).c(); } }")
	newLowerer := func() Lowerer {
		return NewLowerer(adapter.NewLocalJavaFileAdapter(), NewNamerFactory(NamerConfig{Seed: 42}), LowererConfig{})
	}

	first, err := newLowerer().Lower(context.Background(), src)
	require.NoError(t, err)

	second, err := newLowerer().Lower(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, string(first.Text), string(second.Text))
	assert.NotContains(t, string(first.Text), DefaultNamePrefix)
	assert.Equal(t, 2, strings.Count(string(first.Text), "var "))
	assert.Equal(t, 2, first.Stats.Extractions)

	_, err = adapter.NewLocalJavaFileAdapter().Parse(context.Background(), first.Text)
	assert.NoError(t, err)
}

func TestLowerer_Lower_RunsAreIndependent(t *testing.T) {
	lowerer := newNumberedLowerer(LowererConfig{})
	src := []byte("class T { void f() { g(1); } }")

	first, err := lowerer.Lower(context.Background(), src)
	require.NoError(t, err)

	second, err := lowerer.Lower(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.Contains(t, string(second.Text), "var loweredV0 = 1;")
}

func TestLowerer_Lower_Errors(t *testing.T) {
	t.Run("syntax error", func(t *testing.T) {
		_, err := newNumberedLowerer(LowererConfig{}).Lower(context.Background(), []byte("class T { void f( }"))
		require.Error(t, err)
		assert.ErrorIs(t, err, adapter.ErrSyntax)
	})

	t.Run("iteration cap", func(t *testing.T) {
		lowerer := newNumberedLowerer(LowererConfig{MaxIterations: 1})

		_, err := lowerer.Lower(context.Background(), []byte("class T { void f() { g(1, 2); } }"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoProgress)
		assert.Contains(t, err.Error(), "flatten")
	})

	t.Run("round cap", func(t *testing.T) {
		lowerer := newNumberedLowerer(LowererConfig{MaxRounds: 2})

		_, err := lowerer.Lower(context.Background(), []byte("class T { static int x = f(1); }"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoProgress)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newNumberedLowerer(LowererConfig{}).Lower(ctx, []byte("class T { }"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLowerer_Lower_ApplyFailures(t *testing.T) {
	src := []byte("class T { void f() { g(1); } }")

	tests := []struct {
		name    string
		apply   func([]byte, []m.Edit) ([]byte, error)
		wantErr error
	}{
		{
			name: "conflicting edits",
			apply: func([]byte, []m.Edit) ([]byte, error) {
				return nil, adapter.ErrEditConflict
			},
			wantErr: adapter.ErrEditConflict,
		},
		{
			name: "edits leave the text unchanged",
			apply: func(text []byte, _ []m.Edit) ([]byte, error) {
				return text, nil
			},
			wantErr: ErrNoProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			javaAdapter := adaptermocks.NewMockJavaFileAdapter(t)
			javaAdapter.EXPECT().Parse(mock.Anything, mock.Anything).
				RunAndReturn(adapter.NewLocalJavaFileAdapter().Parse)
			javaAdapter.EXPECT().ApplyEdits(mock.Anything, mock.Anything).RunAndReturn(tt.apply).Once()

			lowerer := NewLowerer(javaAdapter, NewNamerFactory(NamerConfig{Numbered: true}), LowererConfig{})

			result, err := lowerer.Lower(context.Background(), src)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), "flatten iteration 0")
			assert.Nil(t, result.Text)
		})
	}
}

func TestLowerer_Estimate(t *testing.T) {
	src := []byte(`class T {
    int a, b = 1;
    static int[] c = {1};
    static String d;
    void f() { int x = g(1) + 2; }
}`)

	estimate, err := newNumberedLowerer(LowererConfig{}).Estimate(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, m.Estimate{Candidates: 3, UninitializedFields: 2, HoistableFields: 1}, estimate)
}

func TestLowerer_Estimate_SyntaxError(t *testing.T) {
	_, err := newNumberedLowerer(LowererConfig{}).Estimate(context.Background(), []byte("class {"))
	assert.ErrorIs(t, err, adapter.ErrSyntax)
}
