package config

import (
	"log/slog"
	"path/filepath"

	"github.com/roach88/camod/internal/engine"
	"github.com/roach88/camod/internal/model"
	"github.com/roach88/camod/internal/signal"
)

// Run is a fully resolved run: model defaults with overrides applied and
// the signal as explicit samples. It carries everything needed to
// reproduce a result.
type Run struct {
	Model      string           `json:"model"`
	Seed       uint64           `json:"seed"`
	StartTime  float64          `json:"start_time"`
	EndTime    float64          `json:"end_time"`
	Timestep   float64          `json:"timestep"`
	Parameters model.Parameters `json:"parameters"`
	Signal     Samples          `json:"signal"`
}

// Samples is the serialized form of a driving signal.
type Samples struct {
	Times  []float64 `json:"times"`
	Values []float64 `json:"values"`
}

// Resolve checks the file against reg and produces a Run. Relative signal
// file paths are read from baseDir. When the file sets no seed the Run's
// seed is zero; callers pick one before running.
func (f *File) Resolve(reg *model.Registry, baseDir string) (*Run, error) {
	m, err := reg.Lookup(f.Model)
	if err != nil {
		return nil, &LoadError{Field: "model", Message: err.Error()}
	}

	sig, err := f.buildSignal(baseDir)
	if err != nil {
		return nil, err
	}

	defaults := m.DefaultParameters()
	warnUnmatched(f.Model, model.CategoryVolumes, defaults.Volumes, f.Overrides.Volumes)
	warnUnmatched(f.Model, model.CategoryInitConc, defaults.InitialConcentrations, f.Overrides.InitialConcentrations)
	warnUnmatched(f.Model, model.CategoryKinetics, defaults.Kinetics, f.Overrides.Kinetics)

	run := &Run{
		Model:      m.Name(),
		StartTime:  sig.Start(),
		EndTime:    f.End,
		Timestep:   f.Timestep,
		Parameters: defaults.Overlay(f.Overrides),
		Signal:     Samples{Times: sig.Times(), Values: sig.Values()},
	}
	if f.Start != nil {
		run.StartTime = *f.Start
	}
	if f.Seed != nil {
		run.Seed = *f.Seed
	}
	return run, nil
}

// buildSignal materializes the signal spec. A constant spans from the
// start time (0 when unset) to the end time.
func (f *File) buildSignal(baseDir string) (*signal.Signal, error) {
	switch {
	case f.Signal.Constant != nil:
		start := 0.0
		if f.Start != nil {
			start = *f.Start
		}
		sig, err := signal.Constant(start, f.End, *f.Signal.Constant)
		if err != nil {
			return nil, &LoadError{Field: "signal.constant", Message: err.Error()}
		}
		return sig, nil

	case len(f.Signal.Samples) > 0:
		times := make([]float64, len(f.Signal.Samples))
		values := make([]float64, len(f.Signal.Samples))
		for i, s := range f.Signal.Samples {
			times[i], values[i] = s[0], s[1]
		}
		sig, err := signal.New(times, values)
		if err != nil {
			return nil, &LoadError{Field: "signal.samples", Message: err.Error()}
		}
		return sig, nil

	case f.Signal.File != "":
		path := f.Signal.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		sig, err := signal.ReadCSVFile(path)
		if err != nil {
			return nil, &LoadError{Field: "signal.file", Message: err.Error()}
		}
		return sig, nil
	}
	return nil, &LoadError{Field: "signal", Message: "no signal given"}
}

func warnUnmatched(modelName, category string, base model.ParamSet, overrides map[string]float64) {
	for _, name := range base.Unmatched(overrides) {
		slog.Warn("override ignored: no such parameter",
			"model", modelName,
			"category", category,
			"name", name,
		)
	}
}

// EngineConfig builds the engine input for r using the model from reg.
// Range checks (volume, timing, concentrations) are left to the engine.
func (r *Run) EngineConfig(reg *model.Registry) (engine.Config, error) {
	m, err := reg.Lookup(r.Model)
	if err != nil {
		return engine.Config{}, err
	}
	sig, err := signal.New(r.Signal.Times, r.Signal.Values)
	if err != nil {
		return engine.Config{}, engine.NewConfigurationError(r.StartTime, "signal", err)
	}
	vol, err := r.Parameters.Volume()
	if err != nil {
		return engine.Config{}, engine.NewConfigurationError(r.StartTime, "parameters", err)
	}
	init, err := r.Parameters.InitialVector(m)
	if err != nil {
		return engine.Config{}, engine.NewConfigurationError(r.StartTime, "parameters", err)
	}
	return engine.Config{
		Model:                 m,
		Signal:                sig,
		StartTime:             r.StartTime,
		EndTime:               r.EndTime,
		Timestep:              r.Timestep,
		Volume:                vol,
		InitialConcentrations: init,
		Kinetics:              r.Parameters.Kinetics,
		Seed:                  r.Seed,
	}, nil
}
