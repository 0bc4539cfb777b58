package domain_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"jlower.dev/pkg/jlower/internal/adapter"
	adaptermocks "jlower.dev/pkg/jlower/internal/adapter/mocks"
	controllermocks "jlower.dev/pkg/jlower/internal/controller/mocks"
	"jlower.dev/pkg/jlower/internal/domain"
	domainmocks "jlower.dev/pkg/jlower/internal/domain/mocks"
	m "jlower.dev/pkg/jlower/internal/model"
)

const (
	plainSource   = "class A { void f() { g(1); } }"
	loweredSource = "class A { void f() { var loweredV0 = 1; g(loweredV0); } }"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func newNumberedLowerer() domain.Lowerer {
	return domain.NewLowerer(
		adapter.NewLocalJavaFileAdapter(),
		domain.NewNamerFactory(domain.NamerConfig{Numbered: true}),
		domain.LowererConfig{},
	)
}

func TestWorkflow_Lower_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	input := filepath.Join(dir, "A.java")
	output := filepath.Join(dir, "out", "A.java")
	writeFile(t, input, plainSource)

	mockUI := controllermocks.NewMockUI(t)
	mockLowerer := domainmocks.NewMockLowerer(t)

	source := m.Source{Origin: m.Path(input), Output: m.Path(output)}

	mockLowerer.EXPECT().Lower(mock.Anything, []byte(plainSource)).
		Return(m.LowerResult{Text: []byte(loweredSource), Stats: m.Stats{Extractions: 1, Rounds: 2}}, nil).Once()
	mockUI.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	mockUI.EXPECT().DisplayLowered(mock.Anything, source, []byte(plainSource), []byte(loweredSource), true).Return(nil).Once()
	mockUI.EXPECT().Close(mock.Anything).Return().Once()

	wf := domain.NewWorkflow(adapter.NewLocalSourceFSAdapter(), adapter.NewReportStore(), mockUI, mockLowerer)

	// Act
	err := wf.Lower(context.Background(), domain.LowerArgs{Input: m.Path(input), Output: m.Path(output), Diff: true})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, loweredSource, readFile(t, output))
}

func TestWorkflow_Lower_OutputExists(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "A.java")
	output := filepath.Join(dir, "B.java")
	writeFile(t, input, plainSource)
	writeFile(t, output, "keep")

	mockUI := controllermocks.NewMockUI(t)
	mockLowerer := domainmocks.NewMockLowerer(t)

	wf := domain.NewWorkflow(adapter.NewLocalSourceFSAdapter(), adapter.NewReportStore(), mockUI, mockLowerer)

	err := wf.Lower(context.Background(), domain.LowerArgs{Input: m.Path(input), Output: m.Path(output)})

	require.ErrorIs(t, err, domain.ErrOutputExists)
	assert.Equal(t, "keep", readFile(t, output))
}

func TestWorkflow_Lower_Failure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "A.java")
	output := filepath.Join(dir, "B.java")
	writeFile(t, input, "class A {")

	mockUI := controllermocks.NewMockUI(t)
	mockUI.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	mockUI.EXPECT().Close(mock.Anything).Return().Once()

	wf := domain.NewWorkflow(adapter.NewLocalSourceFSAdapter(), adapter.NewReportStore(), mockUI, newNumberedLowerer())

	err := wf.Lower(context.Background(), domain.LowerArgs{Input: m.Path(input), Output: m.Path(output)})

	require.ErrorIs(t, err, adapter.ErrSyntax)
	assert.NoFileExists(t, output)
}

func TestWorkflow_Lower_ExistsCheckFails(t *testing.T) {
	mockFS := adaptermocks.NewMockSourceFSAdapter(t)
	mockFS.EXPECT().Exists(m.Path("out/A.java")).Return(false, errors.New("permission denied")).Once()

	wf := domain.NewWorkflow(mockFS, adaptermocks.NewMockReportStore(t), controllermocks.NewMockUI(t), domainmocks.NewMockLowerer(t))

	err := wf.Lower(context.Background(), domain.LowerArgs{Input: "A.java", Output: "out/A.java"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestWorkflow_Batch(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	out := filepath.Join(dir, "out")

	writeFile(t, filepath.Join(in, "A.java"), plainSource)
	writeFile(t, filepath.Join(in, "pkg", "B.java"), plainSource)
	writeFile(t, filepath.Join(in, "C.java"), "class C {")
	writeFile(t, filepath.Join(in, "D.java"), plainSource)
	writeFile(t, filepath.Join(in, "notes.txt"), "not java")
	writeFile(t, filepath.Join(out, "D.java"), "existing")

	mockUI := controllermocks.NewMockUI(t)
	mockUI.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	mockUI.EXPECT().DisplayBatchInfo(mock.Anything, 4, 2).Return().Once()
	mockUI.EXPECT().DisplayStartingFile(mock.Anything, mock.Anything, mock.Anything).Return().Times(4)
	mockUI.EXPECT().DisplayCompletedFile(mock.Anything, mock.Anything).Return().Times(4)
	mockUI.EXPECT().DisplaySummary(mock.Anything, mock.MatchedBy(func(reports []m.Report) bool {
		return len(reports) == 4
	})).Return(nil).Once()
	mockUI.EXPECT().Wait(mock.Anything).Return().Once()
	mockUI.EXPECT().Close(mock.Anything).Return().Once()

	store := adapter.NewReportStore()
	wf := domain.NewWorkflow(adapter.NewLocalSourceFSAdapter(), store, mockUI, newNumberedLowerer())

	// Act
	err := wf.Batch(context.Background(), domain.BatchArgs{Input: m.Path(in), Output: m.Path(out), Threads: 2})

	// Assert
	require.ErrorIs(t, err, domain.ErrBatchFailed)
	assert.Contains(t, err.Error(), "1 of 4")

	assert.Equal(t, loweredSource, readFile(t, filepath.Join(out, "A.java")))
	assert.Equal(t, loweredSource, readFile(t, filepath.Join(out, "pkg", "B.java")))
	assert.Equal(t, "existing", readFile(t, filepath.Join(out, "D.java")))
	assert.NoFileExists(t, filepath.Join(out, "C.java"))

	reports, err := store.LoadReports(m.Path(filepath.Join(out, domain.DefaultReportName)))
	require.NoError(t, err)
	require.Len(t, reports, 4)

	statuses := make(map[string]m.Status)
	for _, report := range reports {
		rel, err := filepath.Rel(in, string(report.Source))
		require.NoError(t, err)

		statuses[filepath.ToSlash(rel)] = report.Status
	}

	assert.Equal(t, map[string]m.Status{
		"A.java":     m.StatusLowered,
		"C.java":     m.StatusFailed,
		"D.java":     m.StatusSkipped,
		"pkg/B.java": m.StatusLowered,
	}, statuses)

	for i := 1; i < len(reports); i++ {
		assert.Less(t, reports[i-1].Source, reports[i].Source)
	}

	for _, report := range reports {
		if report.Status == m.StatusFailed {
			assert.Contains(t, report.Error, "syntax error")
		}

		if report.Status == m.StatusLowered {
			assert.Equal(t, 1, report.Stats.Extractions)
		}
	}
}

func TestWorkflow_Batch_IgnoresNestedOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "lowered")
	report := filepath.Join(dir, "report.yaml")

	writeFile(t, filepath.Join(dir, "A.java"), plainSource)
	writeFile(t, filepath.Join(out, "Old.java"), plainSource)

	mockUI := controllermocks.NewMockUI(t)
	mockUI.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	mockUI.EXPECT().DisplayBatchInfo(mock.Anything, 1, 1).Return().Once()
	mockUI.EXPECT().DisplayStartingFile(mock.Anything, mock.Anything, 0).Return().Once()
	mockUI.EXPECT().DisplayCompletedFile(mock.Anything, mock.Anything).Return().Once()
	mockUI.EXPECT().DisplaySummary(mock.Anything, mock.Anything).Return(nil).Once()
	mockUI.EXPECT().Wait(mock.Anything).Return().Once()
	mockUI.EXPECT().Close(mock.Anything).Return().Once()

	wf := domain.NewWorkflow(adapter.NewLocalSourceFSAdapter(), adapter.NewReportStore(), mockUI, newNumberedLowerer())

	err := wf.Batch(context.Background(), domain.BatchArgs{
		Input:  m.Path(dir),
		Output: m.Path(out),
		Report: m.Path(report),
	})

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "A.java"))
	assert.FileExists(t, report)
	assert.NoFileExists(t, filepath.Join(out, "lowered", "Old.java"))
}

func TestWorkflow_Batch_Exclude(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	out := filepath.Join(dir, "out")

	writeFile(t, filepath.Join(in, "A.java"), plainSource)
	writeFile(t, filepath.Join(in, "ATest.java"), plainSource)

	mockUI := controllermocks.NewMockUI(t)
	mockUI.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	mockUI.EXPECT().DisplayBatchInfo(mock.Anything, 1, 1).Return().Once()
	mockUI.EXPECT().DisplayStartingFile(mock.Anything, mock.Anything, 0).Return().Once()
	mockUI.EXPECT().DisplayCompletedFile(mock.Anything, mock.Anything).Return().Once()
	mockUI.EXPECT().DisplaySummary(mock.Anything, mock.Anything).Return(nil).Once()
	mockUI.EXPECT().Wait(mock.Anything).Return().Once()
	mockUI.EXPECT().Close(mock.Anything).Return().Once()

	wf := domain.NewWorkflow(adapter.NewLocalSourceFSAdapter(), adapter.NewReportStore(), mockUI, newNumberedLowerer())

	err := wf.Batch(context.Background(), domain.BatchArgs{
		Input:   m.Path(in),
		Output:  m.Path(out),
		Exclude: []string{"*Test.java"},
		Threads: 1,
	})

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "A.java"))
	assert.NoFileExists(t, filepath.Join(out, "ATest.java"))
}

func TestWorkflow_Batch_SaveFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "in", "A.java"), plainSource)

	mockStore := adaptermocks.NewMockReportStore(t)
	mockStore.EXPECT().SaveReports(m.Path(filepath.Join(dir, "out", domain.DefaultReportName)), mock.Anything).
		Return(errors.New("disk full")).Once()

	mockUI := controllermocks.NewMockUI(t)
	mockUI.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	mockUI.EXPECT().DisplayBatchInfo(mock.Anything, 1, 4).Return().Once()
	mockUI.EXPECT().DisplayStartingFile(mock.Anything, mock.Anything, mock.Anything).Return().Once()
	mockUI.EXPECT().DisplayCompletedFile(mock.Anything, mock.Anything).Return().Once()
	mockUI.EXPECT().Close(mock.Anything).Return().Once()

	wf := domain.NewWorkflow(adapter.NewLocalSourceFSAdapter(), mockStore, mockUI, newNumberedLowerer())

	err := wf.Batch(context.Background(), domain.BatchArgs{
		Input:   m.Path(filepath.Join(dir, "in")),
		Output:  m.Path(filepath.Join(dir, "out")),
		Threads: 4,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestWorkflow_Batch_Canceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "in", "A.java"), plainSource)

	mockUI := controllermocks.NewMockUI(t)
	mockUI.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	mockUI.EXPECT().DisplayBatchInfo(mock.Anything, 1, 1).Return().Once()
	mockUI.EXPECT().Close(mock.Anything).Return().Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	wf := domain.NewWorkflow(adapter.NewLocalSourceFSAdapter(), adaptermocks.NewMockReportStore(t), mockUI, newNumberedLowerer())

	err := wf.Batch(ctx, domain.BatchArgs{
		Input:  m.Path(filepath.Join(dir, "in")),
		Output: m.Path(filepath.Join(dir, "out")),
	})

	require.ErrorIs(t, err, context.Canceled)
}

func TestWorkflow_Estimate(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "A.java")
	b := filepath.Join(dir, "B.java")
	writeFile(t, a, "class A { }")
	writeFile(t, b, "class B { }")

	mockLowerer := domainmocks.NewMockLowerer(t)
	mockLowerer.EXPECT().Estimate(mock.Anything, []byte("class A { }")).Return(m.Estimate{Candidates: 2}, nil).Once()
	mockLowerer.EXPECT().Estimate(mock.Anything, []byte("class B { }")).Return(m.Estimate{HoistableFields: 1}, nil).Once()

	mockUI := controllermocks.NewMockUI(t)
	mockUI.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	mockUI.EXPECT().DisplayEstimation(mock.Anything, []m.Estimate{
		{Source: m.Path(a), Candidates: 2},
		{Source: m.Path(b), HoistableFields: 1},
	}, nil).Return(nil).Once()
	mockUI.EXPECT().Wait(mock.Anything).Return().Once()
	mockUI.EXPECT().Close(mock.Anything).Return().Once()

	wf := domain.NewWorkflow(adapter.NewLocalSourceFSAdapter(), adapter.NewReportStore(), mockUI, mockLowerer)

	err := wf.Estimate(context.Background(), domain.EstimateArgs{Paths: []m.Path{m.Path(dir)}})
	require.NoError(t, err)
}

func TestWorkflow_Estimate_ReportsErrorsToUI(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.java"), "class A {")

	mockUI := controllermocks.NewMockUI(t)
	mockUI.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	mockUI.EXPECT().DisplayEstimation(mock.Anything, []m.Estimate(nil), mock.MatchedBy(func(err error) bool {
		return errors.Is(err, adapter.ErrSyntax)
	})).Return(nil).Once()
	mockUI.EXPECT().Wait(mock.Anything).Return().Once()
	mockUI.EXPECT().Close(mock.Anything).Return().Once()

	wf := domain.NewWorkflow(adapter.NewLocalSourceFSAdapter(), adapter.NewReportStore(), mockUI, newNumberedLowerer())

	err := wf.Estimate(context.Background(), domain.EstimateArgs{Paths: []m.Path{m.Path(dir)}})
	require.NoError(t, err)
}

func TestWorkflow_View(t *testing.T) {
	reports := []m.Report{
		{Source: "a/A.java", Output: "out/A.java", Status: m.StatusLowered, Stats: m.Stats{Extractions: 3}},
		{Source: "a/B.java", Output: "out/B.java", Status: m.StatusFailed, Error: "syntax error"},
	}

	mockStore := adaptermocks.NewMockReportStore(t)
	mockStore.EXPECT().LoadReports(m.Path("out/.jlower-report.yaml")).Return(reports, nil).Once()

	mockUI := controllermocks.NewMockUI(t)
	mockUI.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	mockUI.EXPECT().DisplaySummary(mock.Anything, reports).Return(nil).Once()
	mockUI.EXPECT().Wait(mock.Anything).Return().Once()
	mockUI.EXPECT().Close(mock.Anything).Return().Once()

	wf := domain.NewWorkflow(adaptermocks.NewMockSourceFSAdapter(t), mockStore, mockUI, domainmocks.NewMockLowerer(t))

	err := wf.View(context.Background(), domain.ViewArgs{Report: "out/.jlower-report.yaml"})
	require.NoError(t, err)
}

func TestWorkflow_View_LoadFails(t *testing.T) {
	mockStore := adaptermocks.NewMockReportStore(t)
	mockStore.EXPECT().LoadReports(m.Path("missing.yaml")).Return(nil, fmt.Errorf("open missing.yaml: %w", os.ErrNotExist)).Once()

	wf := domain.NewWorkflow(adaptermocks.NewMockSourceFSAdapter(t), mockStore, controllermocks.NewMockUI(t), domainmocks.NewMockLowerer(t))

	err := wf.View(context.Background(), domain.ViewArgs{Report: "missing.yaml"})
	require.ErrorIs(t, err, os.ErrNotExist)
}
