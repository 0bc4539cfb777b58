// Package controller provides output adapters for displaying lowering results.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "jlower.dev/pkg/jlower/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeLower StartMode = iota
	ModeBatch
	ModeEstimate
	ModeView
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithLowerMode sets the UI to single file mode.
func WithLowerMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeLower
	}
}

// WithBatchMode sets the UI to batch mode.
func WithBatchMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeBatch
	}
}

// WithEstimateMode sets the UI to estimation mode.
func WithEstimateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeEstimate
	}
}

// WithViewMode sets the UI to report viewing mode.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

func applyStartOptions(options []StartOption) StartConfig {
	config := StartConfig{mode: ModeLower}
	for _, option := range options {
		option(&config)
	}

	return config
}

// UI defines how workflows present their progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
//
//nolint:interfacebloat // One method per workflow event.
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayLowered(ctx context.Context, source m.Source, before, after []byte, showDiff bool) error
	DisplayEstimation(ctx context.Context, estimates []m.Estimate, err error) error
	DisplayBatchInfo(ctx context.Context, total int, threads int)
	DisplayStartingFile(ctx context.Context, source m.Source, workerID int)
	DisplayCompletedFile(ctx context.Context, report m.Report)
	DisplaySummary(ctx context.Context, reports []m.Report) error
}

// NewUI picks the interactive TUI when attached to a terminal.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is an interactive terminal.
func IsTTY(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
