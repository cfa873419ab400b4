package engine

import (
	"context"
	"log/slog"
	"math"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/roach88/camod/internal/engine"

// Engine runs Direct-Method simulations.
//
// An Engine holds only immutable options, so Run may be called from many
// goroutines at once. Each call owns its state, generator and table.
type Engine struct {
	idGen      RunIDGenerator
	observer   Observer
	newUniform UniformFactory
	tracer     trace.Tracer
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithRunIDGenerator sets the run id source. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.idGen = g
	}
}

// WithObserver registers an observer called after every iteration.
// The observer runs on the simulating goroutine.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithUniformSource replaces the default PCG source. Used by tests to
// script the random draws.
func WithUniformSource(f UniformFactory) Option {
	return func(e *Engine) {
		e.newUniform = f
	}
}

// WithTracer sets the tracer used for run spans.
// Default: the global OpenTelemetry provider.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		idGen:      UUIDv7Generator{},
		newUniform: NewPCGUniform,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	return e
}

// Stats summarizes one run.
type Stats struct {
	Iterations uint64  `json:"iterations"`
	Reactions  uint64  `json:"reactions"`
	Crossings  uint64  `json:"crossings"`
	FinalTime  float64 `json:"final_time"`
}

// Result is the output of a successful run.
type Result struct {
	RunID string `json:"run_id"`
	Model string `json:"model"`
	Seed  uint64 `json:"seed"`
	Table *Table `json:"table"`
	Stats Stats  `json:"stats"`
}

// Run simulates one trajectory.
//
// The loop alternates propensity evaluation, an exponential waiting-time
// draw and a comparison against the next driving-signal change. Either the
// signal step ends first (no reaction, advance to the change time) or one
// reaction fires. Grid rows are emitted as simulated time crosses them.
//
// Returns *RunError on configuration errors, model invariant violations
// and cancellation. ctx is checked once per iteration.
func (e *Engine) Run(ctx context.Context, cfg Config) (_ *Result, err error) {
	modelName := ""
	if cfg.Model != nil {
		modelName = cfg.Model.Name()
	}

	ctx, span := e.tracer.Start(ctx, "engine.Run", trace.WithAttributes(
		attribute.String("camod.model", modelName),
		attribute.String("camod.seed", strconv.FormatUint(cfg.Seed, 10)),
		attribute.Float64("camod.start_time", cfg.StartTime),
		attribute.Float64("camod.end_time", cfg.EndTime),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	p, err := prepare(cfg)
	if err != nil {
		slog.Error("run rejected", "model", modelName, "error", err)
		return nil, err
	}

	runID := e.idGen.Generate()
	span.SetAttributes(attribute.String("camod.run_id", runID), attribute.Int("camod.rows", p.rows))
	slog.Debug("run starting",
		"run_id", runID,
		"model", modelName,
		"seed", cfg.Seed,
		"rows", p.rows,
		"initial_counts", p.counts,
	)

	table := NewTable(p.species, p.rows)
	stats, err := e.simulate(ctx, p, table)
	if err != nil {
		slog.Error("run failed", "run_id", runID, "model", modelName, "error", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("camod.reactions", int64(stats.Reactions)),
		attribute.Int64("camod.crossings", int64(stats.Crossings)),
	)
	slog.Debug("run finished",
		"run_id", runID,
		"iterations", stats.Iterations,
		"reactions", stats.Reactions,
		"crossings", stats.Crossings,
	)

	return &Result{
		RunID: runID,
		Model: modelName,
		Seed:  cfg.Seed,
		Table: table,
		Stats: stats,
	}, nil
}

// simulate is the Direct-Method loop. p's counts are mutated only through
// Model.Apply.
func (e *Engine) simulate(ctx context.Context, p *prepared, table *Table) (Stats, error) {
	var (
		sig        = p.cfg.Signal
		end        = p.cfg.EndTime
		u          = e.newUniform(p.cfg.Seed)
		out        = newResampler(table, p.conv, p.cfg.StartTime, end, p.cfg.Timestep)
		cumulative = make([]float64, p.reactions)
		counts     = p.counts
		now        = p.cfg.StartTime
		idx        = p.drivingIndex
		stats      Stats
	)

	for now < end {
		if err := ctx.Err(); err != nil {
			return stats, &RunError{
				Code:     ErrCodeCancelled,
				Message:  "run interrupted",
				Time:     now,
				Reaction: -1,
				Err:      err,
			}
		}

		driving := sig.ValueAt(idx)
		p.propensity(cumulative, counts, driving)
		a0 := cumulative[p.reactions-1]
		if math.IsNaN(a0) || a0 < 0 {
			return stats, newInvariantError(now, p.reactions-1, "total propensity is negative or NaN", nil)
		}

		// a0 == 0: nothing can fire before the signal changes.
		tau := math.Inf(1)
		if a0 > 0 {
			tau = -math.Log(u.Float64()) / a0
		}

		fired := -1
		next := sig.NextChangeTime(idx)
		boundary := math.Min(next, end)
		if now+tau >= boundary {
			out.flushBefore(boundary, driving, counts)
			now = boundary
			if boundary == next && idx < sig.Len()-1 {
				idx++
				stats.Crossings++
			}
		} else {
			r, err := selectReaction(cumulative, a0*u.Float64())
			if err != nil {
				return stats, newInvariantError(now, r, "cannot select reaction", err)
			}
			now += tau
			out.flushBefore(now, driving, counts)
			if err := p.cfg.Model.Apply(counts, r); err != nil {
				return stats, newInvariantError(now, r, "cannot apply reaction", err)
			}
			fired = r
			stats.Reactions++
		}
		stats.Iterations++

		if e.observer != nil {
			e.observer.OnStep(Step{
				Iteration:    stats.Iterations,
				Time:         now,
				DrivingIndex: idx,
				Reaction:     fired,
				Cumulative:   cumulative,
				Counts:       counts,
			})
		}
	}

	out.fill(sig.ValueAt(idx), counts)
	stats.FinalTime = now
	return stats, nil
}
