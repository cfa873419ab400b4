package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/camod/internal/engine"
	"github.com/roach88/camod/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requireLoadError(t *testing.T, err error) *LoadError {
	t.Helper()
	require.Error(t, err)
	var le *LoadError
	require.True(t, errors.As(err, &le), "want *LoadError, got %T: %v", err, err)
	return le
}

func TestLoadFile_Constant(t *testing.T) {
	path := writeFile(t, t.TempDir(), "run.cue", `
model: "calmodulin"
seed:  42
time: {end: 100, timestep: 10}
signal: constant: 1.0
`)

	f, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, f.Path)
	assert.Equal(t, "calmodulin", f.Model)
	require.True(t, f.HasSeed())
	assert.Equal(t, uint64(42), *f.Seed)
	assert.Nil(t, f.Start)
	assert.Equal(t, 100.0, f.End)
	assert.Equal(t, 10.0, f.Timestep)
	require.NotNil(t, f.Signal.Constant)
	assert.Equal(t, 1.0, *f.Signal.Constant)
	assert.True(t, f.Overrides.IsEmpty())
}

func TestLoadBytes_SamplesAndOverrides(t *testing.T) {
	f, err := LoadBytes("run.cue", []byte(`
model: "pkc"
time: {start: 0, end: 20, timestep: 0.5}
signal: samples: [[0, 0.1], [10, 2], [20, 0.1]]
overrides: {
	vols: vol: 1e-13
	init_conc: PKC_inact: 1
	params: {k1: 2, AA: 0}
}
`))
	require.NoError(t, err)

	assert.False(t, f.HasSeed())
	require.NotNil(t, f.Start)
	assert.Equal(t, 0.0, *f.Start)
	assert.Equal(t, [][2]float64{{0, 0.1}, {10, 2}, {20, 0.1}}, f.Signal.Samples)
	assert.Equal(t, map[string]float64{"vol": 1e-13}, f.Overrides.Volumes)
	assert.Equal(t, map[string]float64{"PKC_inact": 1}, f.Overrides.InitialConcentrations)
	assert.Equal(t, map[string]float64{"k1": 2, "AA": 0}, f.Overrides.Kinetics)
}

func TestLoadBytes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		field   string
		msg     string
		wantPos bool
	}{
		{
			name:    "syntax error",
			src:     "model: \"calmodulin\"\ntime: {end: \n",
			field:   "cue",
			wantPos: true,
		},
		{
			name:  "missing model",
			src:   `time: {end: 1, timestep: 1}, signal: constant: 1`,
			field: "model",
			msg:   "model is required",
		},
		{
			name:    "model wrong type",
			src:     `model: 3, time: {end: 1, timestep: 1}, signal: constant: 1`,
			field:   "model",
			wantPos: true,
		},
		{
			name:    "unknown field",
			src:     `model: "inert", time: {end: 1, timestep: 1}, signal: constant: 1, volume: 2`,
			field:   "volume",
			msg:     "unknown field",
			wantPos: true,
		},
		{
			name:  "missing end",
			src:   `model: "inert", time: {timestep: 1}, signal: constant: 1`,
			field: "time.end",
			msg:   "time.end is required",
		},
		{
			name:    "zero timestep",
			src:     `model: "inert", time: {end: 1, timestep: 0}, signal: constant: 1`,
			field:   "time.timestep",
			msg:     "must be > 0",
			wantPos: true,
		},
		{
			name:  "two signal sources",
			src:   `model: "inert", time: {end: 1, timestep: 1}, signal: {constant: 1, file: "ca.csv"}`,
			field: "signal",
			msg:   "exactly one of",
		},
		{
			name:    "bad sample",
			src:     `model: "inert", time: {end: 1, timestep: 1}, signal: samples: [[0, 1, 2]]`,
			field:   "signal.samples[0]",
			msg:     "[time, value]",
			wantPos: true,
		},
		{
			name:    "unknown override category",
			src:     `model: "inert", time: {end: 1, timestep: 1}, signal: constant: 1, overrides: rates: {k: 1}`,
			field:   "overrides.rates",
			msg:     "unknown category",
			wantPos: true,
		},
		{
			name:    "negative seed",
			src:     `model: "inert", seed: -1, time: {end: 1, timestep: 1}, signal: constant: 1`,
			field:   "seed",
			wantPos: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes("run.cue", []byte(tt.src))
			le := requireLoadError(t, err)
			assert.Equal(t, tt.field, le.Field)
			if tt.msg != "" {
				assert.Contains(t, le.Message, tt.msg)
			}
			if tt.wantPos {
				assert.True(t, le.Pos.IsValid(), "position for %v", err)
				assert.Equal(t, "run.cue", le.Pos.Filename())
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.cue"))
	le := requireLoadError(t, err)
	assert.Equal(t, "file", le.Field)
}

func TestResolve_ConstantAppliesDefaultsAndOverrides(t *testing.T) {
	f, err := LoadBytes("run.cue", []byte(`
model: "calmodulin"
seed: 7
time: {end: 100, timestep: 10}
signal: constant: 1.0
overrides: params: {k_on: 0.05, not_a_param: 1}
`))
	require.NoError(t, err)

	run, err := f.Resolve(model.DefaultRegistry(), ".")
	require.NoError(t, err)

	assert.Equal(t, "calmodulin", run.Model)
	assert.Equal(t, uint64(7), run.Seed)
	assert.Equal(t, 0.0, run.StartTime)
	assert.Equal(t, Samples{Times: []float64{0, 100}, Values: []float64{1, 1}}, run.Signal)

	kOn, _ := run.Parameters.Kinetics.Get("k_on")
	assert.Equal(t, 0.05, kOn)
	kOff, _ := run.Parameters.Kinetics.Get("k_off")
	assert.Equal(t, 0.005, kOff)
	_, ok := run.Parameters.Kinetics.Get("not_a_param")
	assert.False(t, ok, "unmatched overrides are never added")
}

func TestResolve_SignalFileRelativeToBaseDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ca.csv", "time,Ca\n2,0.5\n4,1.5\n6,0.5\n")
	path := writeFile(t, dir, "run.cue", `
model: "calmodulin"
time: {end: 6, timestep: 1}
signal: file: "ca.csv"
`)

	f, err := LoadFile(path)
	require.NoError(t, err)
	run, err := f.Resolve(model.DefaultRegistry(), filepath.Dir(path))
	require.NoError(t, err)

	assert.Equal(t, 2.0, run.StartTime, "start defaults to the first sample")
	assert.Equal(t, []float64{2, 4, 6}, run.Signal.Times)
	assert.Equal(t, []float64{0.5, 1.5, 0.5}, run.Signal.Values)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"unknown model", `model: "nope", time: {end: 1, timestep: 1}, signal: constant: 1`, "model"},
		{"missing csv", `model: "inert", time: {end: 1, timestep: 1}, signal: file: "missing.csv"`, "signal.file"},
		{"unsorted samples", `model: "inert", time: {end: 1, timestep: 1}, signal: samples: [[1, 1], [0, 1]]`, "signal.samples"},
		{"constant with end before start", `model: "inert", time: {start: 5, end: 1, timestep: 1}, signal: constant: 1`, "signal.constant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := LoadBytes("run.cue", []byte(tt.src))
			require.NoError(t, err)
			_, err = f.Resolve(model.DefaultRegistry(), t.TempDir())
			le := requireLoadError(t, err)
			assert.Equal(t, tt.field, le.Field)
		})
	}
}

func TestRun_EngineConfigRoundTripsThroughJSON(t *testing.T) {
	f, err := LoadBytes("run.cue", []byte(`
model: "calmodulin"
seed: 3
time: {end: 100, timestep: 10}
signal: samples: [[0, 0.5], [50, 2], [100, 0.5]]
overrides: init_conc: Prot_act: 1
`))
	require.NoError(t, err)
	run, err := f.Resolve(model.DefaultRegistry(), ".")
	require.NoError(t, err)

	data, err := json.Marshal(run)
	require.NoError(t, err)
	var decoded Run
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *run, decoded)

	cfg, err := decoded.EngineConfig(model.DefaultRegistry())
	require.NoError(t, err)
	assert.Equal(t, "calmodulin", cfg.Model.Name())
	assert.Equal(t, 5e-14, cfg.Volume)
	assert.Equal(t, []float64{5, 1}, cfg.InitialConcentrations)
	assert.Equal(t, uint64(3), cfg.Seed)
	assert.Equal(t, 3, cfg.Signal.Len())
	assert.NoError(t, engine.Validate(cfg))
}

func TestRun_EngineConfigUnknownModel(t *testing.T) {
	r := Run{Model: "nope"}
	_, err := r.EngineConfig(model.DefaultRegistry())
	assert.Error(t, err)
}

func TestRun_EngineConfigMissingParametersAreConfigurationErrors(t *testing.T) {
	samples := Samples{Times: []float64{0, 10}, Values: []float64{1, 1}}

	tests := []struct {
		name   string
		params model.Parameters
		msg    string
	}{
		{
			name: "missing volume",
			params: model.Parameters{
				InitialConcentrations: model.ParamSet{{Name: "Prot_inact", Value: 5}, {Name: "Prot_act", Value: 0}},
			},
			msg: "volume",
		},
		{
			name: "missing initial concentration",
			params: model.Parameters{
				Volumes:               model.ParamSet{{Name: model.VolumeName, Value: 5e-14}},
				InitialConcentrations: model.ParamSet{{Name: "Prot_inact", Value: 5}},
			},
			msg: "Prot_act",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Run{Model: "calmodulin", EndTime: 10, Timestep: 1, Parameters: tt.params, Signal: samples}
			_, err := r.EngineConfig(model.DefaultRegistry())
			require.Error(t, err)
			assert.True(t, engine.IsConfigurationError(err), "got %v", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestRun_EngineConfigBadSignalIsConfigurationError(t *testing.T) {
	r := Run{Model: "inert", EndTime: 10, Timestep: 1, Signal: Samples{Times: []float64{0}, Values: []float64{1}}}
	_, err := r.EngineConfig(model.DefaultRegistry())
	require.Error(t, err)
	assert.True(t, engine.IsConfigurationError(err), "got %v", err)
}
