package harness

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/roach88/camod/internal/canon"
	"github.com/roach88/camod/internal/config"
	"github.com/roach88/camod/internal/engine"
	"github.com/roach88/camod/internal/model"
	"github.com/roach88/camod/internal/testutil"
)

// DefaultSeed is used when a scenario's run file pins no seed.
const DefaultSeed uint64 = 1

// ScenarioRunID is the run id every scenario run reports.
const ScenarioRunID = "scenario"

// Harness is the test execution engine.
// It runs scenarios against the real engine with a fixed run id, so equal
// scenarios always produce equal results.
type Harness struct {
	registry *model.Registry
	engine   *engine.Engine
	logger   *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithRegistry sets the models scenarios may name. Default: the built-ins.
func WithRegistry(r *model.Registry) Option {
	return func(h *Harness) {
		h.registry = r
	}
}

// WithLogger sets the harness logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// New creates a Harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		registry: model.DefaultRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.engine = engine.New(engine.WithRunIDGenerator(testutil.StaticRunID(ScenarioRunID)))
	return h
}

// Run executes a test scenario with a default Harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(context.Background(), scenario)
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Load the run file (or inline config) and resolve it against the registry
// 2. Run the engine once
// 3. Evaluate assertions, rerunning for deterministic
//
// A returned error means the scenario could not be set up. Run failures are
// reported through Result so run_error assertions can inspect them.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	cfg, err := h.engineConfig(scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.Model = cfg.Model.Name()
	result.Seed = cfg.Seed

	res, runErr := h.engine.Run(ctx, cfg)
	if runErr != nil {
		result.RunErr = runErr
	} else {
		result.Table = res.Table
		result.Stats = res.Stats
		if result.TableDigest, err = canon.TableDigest(res.Table); err != nil {
			return nil, fmt.Errorf("failed to digest table: %w", err)
		}
	}

	actx := &AssertionContext{
		Ctx:    ctx,
		Config: cfg,
		Rerun: func(ctx context.Context) (*engine.Result, error) {
			return h.engine.Run(ctx, cfg)
		},
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	h.logger.Debug("scenario finished",
		"scenario", scenario.Name,
		"model", result.Model,
		"seed", result.Seed,
		"pass", result.Pass,
		"digest", result.TableDigest,
	)
	return result, nil
}

// engineConfig loads and resolves the scenario's run configuration.
func (h *Harness) engineConfig(s *Scenario) (engine.Config, error) {
	var (
		file    *config.File
		baseDir = s.Dir()
		err     error
	)
	if s.Run != "" {
		path := s.RunPath()
		file, err = config.LoadFile(path)
		baseDir = filepath.Dir(path)
	} else {
		file, err = config.LoadBytes(s.Name+".cue", []byte(s.Config))
	}
	if err != nil {
		return engine.Config{}, fmt.Errorf("failed to load run config: %w", err)
	}

	run, err := file.Resolve(h.registry, baseDir)
	if err != nil {
		return engine.Config{}, fmt.Errorf("failed to resolve run config: %w", err)
	}
	if !file.HasSeed() {
		run.Seed = DefaultSeed
	}

	cfg, err := run.EngineConfig(h.registry)
	if err != nil {
		return engine.Config{}, fmt.Errorf("failed to build engine config: %w", err)
	}
	return cfg, nil
}
