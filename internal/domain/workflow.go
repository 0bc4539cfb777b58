package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"jlower.dev/pkg/jlower/internal/adapter"
	"jlower.dev/pkg/jlower/internal/controller"
	m "jlower.dev/pkg/jlower/internal/model"
)

// DefaultReportName is the batch report written into the output directory.
const DefaultReportName = ".jlower-report.yaml"

const outputFilePerm = 0o644

var (
	// ErrOutputExists reports a single-file run whose output is already present.
	ErrOutputExists = errors.New("output path already exists")
	// ErrBatchFailed reports a batch run in which at least one file failed.
	ErrBatchFailed = errors.New("batch lowering failed")
)

// LowerArgs contains the arguments for lowering a single file.
type LowerArgs struct {
	Input  m.Path
	Output m.Path
	Diff   bool
}

// BatchArgs contains the arguments for lowering a directory tree.
type BatchArgs struct {
	Input   m.Path
	Output  m.Path
	Exclude []string
	Threads int
	Report  m.Path
}

// EstimateArgs contains the arguments for estimating lowering work.
type EstimateArgs struct {
	Paths   []m.Path
	Exclude []string
}

// ViewArgs contains the arguments for viewing a saved batch report.
type ViewArgs struct {
	Report m.Path
}

// Workflow drives the CLI use cases.
type Workflow interface {
	Lower(ctx context.Context, args LowerArgs) error
	Batch(ctx context.Context, args BatchArgs) error
	Estimate(ctx context.Context, args EstimateArgs) error
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	controller.UI
	lowerer Lowerer
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	lowerer Lowerer,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		UI:              ui,
		lowerer:         lowerer,
	}
}

// Lower lowers one file. The output must not exist yet; the lowered text is
// written to it and shown on stdout.
func (w *workflow) Lower(ctx context.Context, args LowerArgs) error {
	exists, err := w.Exists(args.Output)
	if err != nil {
		return fmt.Errorf("check output %s: %w", args.Output, err)
	}

	if exists {
		return fmt.Errorf("%w: %s", ErrOutputExists, args.Output)
	}

	if err := w.Start(ctx, controller.WithLowerMode()); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	src, err := w.ReadFile(args.Input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	result, err := w.lowerer.Lower(ctx, src)
	if err != nil {
		slog.Error("Failed to lower file", "path", args.Input, "error", err)
		return fmt.Errorf("lower %s: %w", args.Input, err)
	}

	if err := w.WriteFile(args.Output, result.Text, outputFilePerm); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	slog.Info("Lowered file", "path", args.Input, "output", args.Output, "extractions", result.Stats.Extractions)

	source := m.Source{Origin: args.Input, Output: args.Output}
	if err := w.DisplayLowered(ctx, source, src, result.Text, args.Diff); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

// Batch lowers every Java file under args.Input into the mirrored path under
// args.Output. Existing outputs are skipped; failures are recorded per file.
func (w *workflow) Batch(ctx context.Context, args BatchArgs) error {
	threads := args.Threads
	if threads <= 0 {
		threads = 1
	}

	sources, err := w.batchSources(args)
	if err != nil {
		slog.Error("Failed to collect sources", "input", args.Input, "error", err)
		return fmt.Errorf("collect sources: %w", err)
	}

	if err := w.Start(ctx, controller.WithBatchMode()); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}

	w.DisplayBatchInfo(ctx, len(sources), threads)

	reports, err := w.lowerAll(ctx, sources, threads)
	if err != nil {
		w.Close(ctx)
		return err
	}

	reportPath := args.Report
	if reportPath == "" {
		reportPath = w.JoinPath(string(args.Output), DefaultReportName)
	}

	if err := w.SaveReports(reportPath, reports); err != nil {
		w.Close(ctx)
		slog.Error("Failed to save reports", "path", reportPath, "error", err)

		return fmt.Errorf("save reports: %w", err)
	}

	if err := w.DisplaySummary(ctx, reports); err != nil {
		w.Close(ctx)
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)
	w.Close(ctx)

	failed := 0

	for _, report := range reports {
		if report.Status == m.StatusFailed {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", ErrBatchFailed, failed, len(reports))
	}

	return nil
}

func (w *workflow) batchSources(args BatchArgs) ([]m.Source, error) {
	files, err := w.Get([]m.Path{m.Path(filepath.Join(string(args.Input), "..."))}, args.Exclude...)
	if err != nil {
		return nil, err
	}

	sources := make([]m.Source, 0, len(files))

	for _, file := range files {
		if isWithin(w.SourceFSAdapter, args.Output, file) {
			continue
		}

		rel, err := w.RelPath(args.Input, file)
		if err != nil {
			return nil, fmt.Errorf("relative path of %s: %w", file, err)
		}

		sources = append(sources, m.Source{Origin: file, Output: w.JoinPath(string(args.Output), string(rel))})
	}

	return sources, nil
}

// isWithin reports whether path lies under dir, so outputs of a previous run
// nested in the input tree are not lowered again.
func isWithin(fs adapter.SourceFSAdapter, dir, path m.Path) bool {
	rel, err := fs.RelPath(dir, path)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(string(rel), ".."+string(filepath.Separator))
}

func (w *workflow) lowerAll(ctx context.Context, sources []m.Source, threads int) ([]m.Report, error) {
	var (
		mu      sync.Mutex
		reports = make([]m.Report, 0, len(sources))
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i, source := range sources {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			w.DisplayStartingFile(groupCtx, source, i%threads)

			report := w.lowerSource(groupCtx, source)

			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()

			w.DisplayCompletedFile(groupCtx, report)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Source < reports[j].Source })

	return reports, nil
}

func (w *workflow) lowerSource(ctx context.Context, source m.Source) m.Report {
	started := time.Now()
	report := m.Report{Source: source.Origin, Output: source.Output}

	fail := func(err error) m.Report {
		slog.Error("Failed to lower file", "path", source.Origin, "error", err)

		report.Status = m.StatusFailed
		report.Error = err.Error()
		report.Duration = time.Since(started)

		return report
	}

	exists, err := w.Exists(source.Output)
	if err != nil {
		return fail(fmt.Errorf("check output: %w", err))
	}

	if exists {
		slog.Debug("Skipping existing output", "path", source.Origin, "output", source.Output)

		report.Status = m.StatusSkipped

		return report
	}

	src, err := w.ReadFile(source.Origin)
	if err != nil {
		return fail(fmt.Errorf("read input: %w", err))
	}

	result, err := w.lowerer.Lower(ctx, src)
	if err != nil {
		return fail(err)
	}

	if err := w.WriteFile(source.Output, result.Text, outputFilePerm); err != nil {
		return fail(fmt.Errorf("write output: %w", err))
	}

	report.Status = m.StatusLowered
	report.Stats = result.Stats
	report.Duration = time.Since(started)

	return report
}

// Estimate lists, per file, the work lowering would start with.
func (w *workflow) Estimate(ctx context.Context, args EstimateArgs) error {
	if err := w.Start(ctx, controller.WithEstimateMode()); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	estimates, err := w.estimate(ctx, args)
	if err != nil {
		slog.Error("Failed to estimate", "error", err)
	}

	if displayErr := w.DisplayEstimation(ctx, estimates, err); displayErr != nil {
		return fmt.Errorf("display: %w", displayErr)
	}

	w.Wait(ctx)

	return nil
}

func (w *workflow) estimate(ctx context.Context, args EstimateArgs) ([]m.Estimate, error) {
	files, err := w.Get(args.Paths, args.Exclude...)
	if err != nil {
		return nil, fmt.Errorf("collect sources: %w", err)
	}

	estimates := make([]m.Estimate, 0, len(files))

	for _, file := range files {
		src, err := w.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}

		estimate, err := w.lowerer.Estimate(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("estimate %s: %w", file, err)
		}

		estimate.Source = file
		estimates = append(estimates, estimate)
	}

	return estimates, nil
}

// View renders a report saved by a batch run.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	reports, err := w.LoadReports(args.Report)
	if err != nil {
		slog.Error("Failed to load reports", "path", args.Report, "error", err)
		return fmt.Errorf("load reports: %w", err)
	}

	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	if err := w.DisplaySummary(ctx, reports); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}
