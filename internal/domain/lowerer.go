package domain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"jlower.dev/pkg/jlower/internal/adapter"
	"jlower.dev/pkg/jlower/internal/domain/lowerers"
	m "jlower.dev/pkg/jlower/internal/model"
)

// ErrNoProgress reports a phase or run that failed to reach its fixpoint.
var ErrNoProgress = errors.New("lowering made no progress")

const (
	// DefaultNamePrefix labels extracted temporaries in numbered mode.
	DefaultNamePrefix = "loweredV"
	// DefaultMaxIterations caps the iterations of a single phase.
	DefaultMaxIterations = 100000
	// DefaultMaxRounds caps the flatten/normalize/hoist rounds of a run.
	DefaultMaxRounds = 8
)

// LowererConfig tunes a Lowerer.
type LowererConfig struct {
	NamePrefix    string
	MaxIterations int
	MaxRounds     int
}

// Lowerer rewrites Java source into its lowered form.
type Lowerer interface {
	// Lower runs the flatten, normalize and hoist phases until the text is stable.
	Lower(ctx context.Context, src []byte) (m.LowerResult, error)
	// Estimate counts the work the phases would start with.
	Estimate(ctx context.Context, src []byte) (m.Estimate, error)
}

type lowerer struct {
	adapter.JavaFileAdapter
	newNamer NamerFactory
	config   LowererConfig
}

// NewLowerer creates a Lowerer. Zero config values fall back to the defaults.
func NewLowerer(javaAdapter adapter.JavaFileAdapter, newNamer NamerFactory, config LowererConfig) Lowerer {
	if config.NamePrefix == "" {
		config.NamePrefix = DefaultNamePrefix
	}

	if config.MaxIterations <= 0 {
		config.MaxIterations = DefaultMaxIterations
	}

	if config.MaxRounds <= 0 {
		config.MaxRounds = DefaultMaxRounds
	}

	return &lowerer{JavaFileAdapter: javaAdapter, newNamer: newNamer, config: config}
}

// lowering is the state of one Lower call.
type lowering struct {
	*lowerer
	namer   Namer
	counter int
	stats   m.Stats
}

type phase struct {
	name  string
	step  func(unit *m.Unit) (lowerers.Step, error)
	count func(stats *m.Stats, n int)
}

func (l *lowerer) Lower(ctx context.Context, src []byte) (m.LowerResult, error) {
	unit, err := l.Parse(ctx, src)
	if err != nil {
		return m.LowerResult{}, fmt.Errorf("parse input: %w", err)
	}

	run := &lowering{lowerer: l, namer: l.newNamer()}
	run.namer.Reserve(lowerers.Identifiers(unit)...)

	phases := []phase{
		{
			name:  "flatten",
			step:  func(unit *m.Unit) (lowerers.Step, error) { return lowerers.Flatten(unit, run.mint) },
			count: func(stats *m.Stats, n int) { stats.Extractions += n },
		},
		{
			name:  "normalize",
			step:  func(unit *m.Unit) (lowerers.Step, error) { return lowerers.Normalize(unit), nil },
			count: func(stats *m.Stats, n int) { stats.NormalizedFields += n },
		},
		{
			name:  "hoist",
			step:  lowerers.Hoist,
			count: func(stats *m.Stats, n int) { stats.HoistedFields += n },
		},
	}

	text := src

	// Hoisted initializers land in blocks the flattener has not seen yet, so
	// the phases repeat until a whole round leaves the text unchanged.
	for round := 1; ; round++ {
		if round > l.config.MaxRounds {
			return m.LowerResult{}, fmt.Errorf("%w: text still changing after %d rounds", ErrNoProgress, l.config.MaxRounds)
		}

		run.stats.Rounds = round
		roundInput := text

		for _, p := range phases {
			text, err = run.runPhase(ctx, p, text)
			if err != nil {
				return m.LowerResult{}, err
			}
		}

		if bytes.Equal(roundInput, text) {
			break
		}
	}

	slog.Info("Lowered unit", "rounds", run.stats.Rounds, "extractions", run.stats.Extractions,
		"normalized", run.stats.NormalizedFields, "hoisted", run.stats.HoistedFields)

	return m.LowerResult{Text: text, Stats: run.stats}, nil
}

func (r *lowering) runPhase(ctx context.Context, p phase, text []byte) ([]byte, error) {
	rewrites := 0

	for iteration := 0; ; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if iteration >= r.config.MaxIterations {
			return nil, fmt.Errorf("%s: %w after %d iterations", p.name, ErrNoProgress, iteration)
		}

		unit, err := r.Parse(ctx, text)
		if err != nil {
			slog.Error("Failed to parse intermediate text", "phase", p.name, "iteration", iteration, "error", err)
			return nil, fmt.Errorf("%s iteration %d: %w", p.name, iteration, err)
		}

		step, err := p.step(unit)
		if err != nil {
			slog.Error("Failed to compute lowering step", "phase", p.name, "iteration", iteration, "error", err)
			return nil, fmt.Errorf("%s iteration %d: %w", p.name, iteration, err)
		}

		if step.Done() {
			slog.Debug("Phase reached fixpoint", "phase", p.name, "iterations", iteration, "rewrites", rewrites)
			return text, nil
		}

		next, err := r.ApplyEdits(text, step.Edits)
		if err != nil {
			slog.Error("Failed to apply edits", "phase", p.name, "iteration", iteration, "error", err)
			return nil, fmt.Errorf("%s iteration %d: %w", p.name, iteration, err)
		}

		if bytes.Equal(next, text) {
			return nil, fmt.Errorf("%s iteration %d: %w: edits left the text unchanged", p.name, iteration, ErrNoProgress)
		}

		slog.Debug("Applied lowering step", "phase", p.name, "iteration", iteration,
			"target", step.Target.Kind, "name", step.Name, "count", step.Count)

		p.count(&r.stats, step.Count)
		rewrites += step.Count
		text = next
	}
}

// mint names the next temporary. The counter advances in both naming modes.
func (r *lowering) mint() string {
	seed := fmt.Sprintf("%s%d", r.config.NamePrefix, r.counter)
	r.counter++

	return r.namer.NextName(seed)
}

func (l *lowerer) Estimate(ctx context.Context, src []byte) (m.Estimate, error) {
	unit, err := l.Parse(ctx, src)
	if err != nil {
		return m.Estimate{}, fmt.Errorf("parse input: %w", err)
	}

	estimate := m.Estimate{Candidates: len(lowerers.Candidates(unit))}

	for _, decl := range lowerers.Fields(unit) {
		estimate.UninitializedFields += len(lowerers.Uninitialized(unit, decl))

		for _, fragment := range decl.Fragments {
			if fragment.Hoistable() {
				estimate.HoistableFields++
			}
		}
	}

	return estimate, nil
}
