package controller

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	m "jlower.dev/pkg/jlower/internal/model"
)

const (
	minBarWidth   = 10
	maxBarWidth   = 60
	recentReports = 5
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	loweredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// TUI renders batch runs as a live Bubble Tea progress view. Every other mode
// falls back to the plain text output of SimpleUI.
type TUI struct {
	*SimpleUI

	output  io.Writer
	mode    StartMode
	program *tea.Program
	done    chan struct{}
	mu      sync.Mutex
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{SimpleUI: NewSimpleUI(cmd), output: cmd.OutOrStdout()}
}

// Start launches the progress program in batch mode.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.mode = applyStartOptions(options).mode
	if t.mode != ModeBatch {
		return nil
	}

	t.program = tea.NewProgram(newBatchModel(), tea.WithOutput(t.output))
	t.done = make(chan struct{})

	program, done := t.program, t.done

	go func() {
		defer close(done)

		_, _ = program.Run()
	}()

	return nil
}

// Close stops the progress program, if any.
func (t *TUI) Close(_ context.Context) {
	program, done := t.batchProgram()
	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// Wait blocks until the user leaves the progress view.
func (t *TUI) Wait(ctx context.Context) {
	_, done := t.batchProgram()
	if done == nil {
		return
	}

	select {
	case <-ctx.Done():
	case <-done:
	}
}

func (t *TUI) batchProgram() (*tea.Program, chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.program, t.done
}

// DisplayBatchInfo shows how much work a batch run has.
func (t *TUI) DisplayBatchInfo(ctx context.Context, total int, threads int) {
	if program, _ := t.batchProgram(); program != nil {
		program.Send(batchInfoMsg{total: total, threads: threads})
		return
	}

	t.SimpleUI.DisplayBatchInfo(ctx, total, threads)
}

// DisplayStartingFile shows the file a worker picked up.
func (t *TUI) DisplayStartingFile(ctx context.Context, source m.Source, workerID int) {
	if program, _ := t.batchProgram(); program != nil {
		program.Send(fileStartedMsg{source: source})
		return
	}

	t.SimpleUI.DisplayStartingFile(ctx, source, workerID)
}

// DisplayCompletedFile shows the outcome for one file.
func (t *TUI) DisplayCompletedFile(ctx context.Context, report m.Report) {
	if program, _ := t.batchProgram(); program != nil {
		program.Send(fileCompletedMsg{report: report})
		return
	}

	t.SimpleUI.DisplayCompletedFile(ctx, report)
}

// DisplaySummary marks the batch as finished or prints the summary table.
func (t *TUI) DisplaySummary(ctx context.Context, reports []m.Report) error {
	if program, _ := t.batchProgram(); program != nil {
		program.Send(summaryMsg{reports: reports})
		return nil
	}

	return t.SimpleUI.DisplaySummary(ctx, reports)
}

type batchInfoMsg struct {
	total   int
	threads int
}

type fileStartedMsg struct {
	source m.Source
}

type fileCompletedMsg struct {
	report m.Report
}

type summaryMsg struct {
	reports []m.Report
}

// batchModel is the Bubble Tea model of a running batch.
type batchModel struct {
	bar      progress.Model
	total    int
	threads  int
	counts   map[m.Status]int
	active   map[m.Path]struct{}
	recent   []m.Report
	summary  []m.Report
	finished bool
	quitting bool
}

func newBatchModel() batchModel {
	return batchModel{
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxBarWidth)),
		counts: make(map[m.Status]int),
		active: make(map[m.Path]struct{}),
	}
}

func (bm batchModel) Init() tea.Cmd {
	return nil
}

func (bm batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		bm.bar.Width = max(min(msg.Width-4, maxBarWidth), minBarWidth)

		return bm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			bm.quitting = true
			return bm, tea.Quit
		}

		return bm, nil

	case batchInfoMsg:
		bm.total = msg.total
		bm.threads = msg.threads

		return bm, nil

	case fileStartedMsg:
		bm.active[msg.source.Origin] = struct{}{}

		return bm, nil

	case fileCompletedMsg:
		delete(bm.active, msg.report.Source)
		bm.counts[msg.report.Status]++

		bm.recent = append(bm.recent, msg.report)
		if len(bm.recent) > recentReports {
			bm.recent = bm.recent[len(bm.recent)-recentReports:]
		}

		return bm, nil

	case summaryMsg:
		bm.summary = msg.reports
		bm.finished = true

		return bm, nil
	}

	return bm, nil
}

func (bm batchModel) completed() int {
	return bm.counts[m.StatusLowered] + bm.counts[m.StatusSkipped] + bm.counts[m.StatusFailed]
}

func (bm batchModel) ratio() float64 {
	if bm.total == 0 {
		return 0
	}

	return float64(bm.completed()) / float64(bm.total)
}

func (bm batchModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("jlower - batch lowering"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  %s %d/%d files, %d worker(s)\n\n", bm.bar.ViewAs(bm.ratio()), bm.completed(), bm.total, bm.threads)
	fmt.Fprintf(&b, "  %s  %s  %s\n",
		loweredStyle.Render(fmt.Sprintf("lowered %d", bm.counts[m.StatusLowered])),
		skippedStyle.Render(fmt.Sprintf("skipped %d", bm.counts[m.StatusSkipped])),
		failedStyle.Render(fmt.Sprintf("failed %d", bm.counts[m.StatusFailed])))

	if len(bm.active) > 0 {
		b.WriteString("\n  in progress:\n")

		for _, path := range bm.activePaths() {
			fmt.Fprintf(&b, "    %s\n", path)
		}
	}

	if len(bm.recent) > 0 {
		b.WriteString("\n  recent:\n")

		for _, report := range bm.recent {
			fmt.Fprintf(&b, "    %s %s\n", statusStyle(report.Status).Render(string(report.Status)), report.Source)
		}
	}

	if bm.finished {
		failed := 0

		for _, report := range bm.summary {
			if report.Status == m.StatusFailed {
				failed++
				fmt.Fprintf(&b, "\n  %s %s: %s", failedStyle.Render("✗"), report.Source, report.Error)
			}
		}

		if failed > 0 {
			b.WriteString("\n")
		}

		b.WriteString("\n  " + faintStyle.Render("done, press q to quit") + "\n")
	}

	return b.String()
}

func (bm batchModel) activePaths() []m.Path {
	paths := make([]m.Path, 0, len(bm.active))
	for path := range bm.active {
		paths = append(paths, path)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	return paths
}

func statusStyle(status m.Status) lipgloss.Style {
	switch status {
	case m.StatusLowered:
		return loweredStyle
	case m.StatusSkipped:
		return skippedStyle
	default:
		return failedStyle
	}
}
