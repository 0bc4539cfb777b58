package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	m "jlower.dev/pkg/jlower/internal/model"
)

const diffContextLines = 3

// SimpleUI implements UI with plain text written to the command's streams.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayLowered writes the lowered text to stdout. The optional unified diff
// goes to stderr so stdout stays exactly the lowered unit.
func (s *SimpleUI) DisplayLowered(ctx context.Context, source m.Source, before, after []byte, showDiff bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.cmd.OutOrStdout().Write(after); err != nil {
		return fmt.Errorf("write lowered text: %w", err)
	}

	if !showDiff {
		return nil
	}

	diff, err := unifiedDiff(source, before, after)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(s.cmd.ErrOrStderr(), diff)

	return err
}

func unifiedDiff(source m.Source, before, after []byte) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: string(source.Origin),
		ToFile:   string(source.Output),
		Context:  diffContextLines,
	})
	if err != nil {
		return "", fmt.Errorf("render diff: %w", err)
	}

	return diff, nil
}

// DisplayEstimation prints the estimation results or error.
func (s *SimpleUI) DisplayEstimation(ctx context.Context, estimates []m.Estimate, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		s.printf("estimation error: %v\n", err)
		return err
	}

	s.printf("\n%s", renderEstimationTable(estimates))

	return nil
}

func renderEstimationTable(estimates []m.Estimate) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Candidates", "Uninitialized", "Hoistable"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
	})

	var total m.Estimate

	for _, estimate := range estimates {
		table.Append([]string{
			string(estimate.Source),
			fmt.Sprintf("%d", estimate.Candidates),
			fmt.Sprintf("%d", estimate.UninitializedFields),
			fmt.Sprintf("%d", estimate.HoistableFields),
		})

		total.Candidates += estimate.Candidates
		total.UninitializedFields += estimate.UninitializedFields
		total.HoistableFields += estimate.HoistableFields
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(estimates)),
		fmt.Sprintf("%d", total.Candidates),
		fmt.Sprintf("%d", total.UninitializedFields),
		fmt.Sprintf("%d", total.HoistableFields),
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayBatchInfo shows how much work a batch run has.
func (s *SimpleUI) DisplayBatchInfo(ctx context.Context, total int, threads int) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Lowering %d file(s) with %d worker(s)\n", total, threads)
}

// DisplayStartingFile shows the file a worker picked up.
func (s *SimpleUI) DisplayStartingFile(ctx context.Context, source m.Source, _ int) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Lowering %s\n", source.Origin)
}

// DisplayCompletedFile shows the outcome for one file.
func (s *SimpleUI) DisplayCompletedFile(ctx context.Context, report m.Report) {
	if ctx.Err() != nil {
		return
	}

	s.printf("%s -> %s (%s)\n", report.Source, report.Output, report.Status)

	if report.Error != "" {
		s.printf("  error: %s\n", report.Error)
	}
}

// DisplaySummary prints one row per report plus totals.
func (s *SimpleUI) DisplaySummary(ctx context.Context, reports []m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderSummaryTable(reports))

	return nil
}

func renderSummaryTable(reports []m.Report) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Source", "Status", "Extractions", "Normalized", "Hoisted"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
	})

	var total m.Stats

	counts := make(map[m.Status]int)

	for _, report := range reports {
		table.Append([]string{
			string(report.Source),
			string(report.Status),
			fmt.Sprintf("%d", report.Stats.Extractions),
			fmt.Sprintf("%d", report.Stats.NormalizedFields),
			fmt.Sprintf("%d", report.Stats.HoistedFields),
		})

		total = total.Add(report.Stats)
		counts[report.Status]++
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(reports)),
		fmt.Sprintf("%d ok / %d skip / %d fail", counts[m.StatusLowered], counts[m.StatusSkipped], counts[m.StatusFailed]),
		fmt.Sprintf("%d", total.Extractions),
		fmt.Sprintf("%d", total.NormalizedFields),
		fmt.Sprintf("%d", total.HoistedFields),
	})

	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
