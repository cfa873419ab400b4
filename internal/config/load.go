package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/camod/internal/model"
)

// File is a parsed run file. Values are as written; nothing has been
// checked against a model yet.
type File struct {
	// Path is the file the run was loaded from, empty for LoadBytes.
	Path string

	Model string
	Seed  *uint64

	Start    *float64
	End      float64
	Timestep float64

	Signal SignalSpec

	Overrides model.Overrides
}

// HasSeed reports whether the file pins a seed.
func (f *File) HasSeed() bool { return f.Seed != nil }

// SignalSpec is exactly one of a constant value, inline samples or a CSV
// file path.
type SignalSpec struct {
	Constant *float64
	Samples  [][2]float64
	File     string
}

var topLevelFields = map[string]bool{
	"model":     true,
	"seed":      true,
	"time":      true,
	"signal":    true,
	"overrides": true,
}

// LoadFile reads and compiles a run file.
// Returns *LoadError for syntax errors, missing or mistyped fields.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Field: "file", Message: err.Error()}
	}
	f, err := LoadBytes(path, data)
	if err != nil {
		return nil, err
	}
	f.Path = path
	return f, nil
}

// LoadBytes compiles a run file held in memory. filename is used for
// error positions only.
func LoadBytes(filename string, data []byte) (*File, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError("cue", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError("cue", err)
	}
	return parseFile(v)
}

func parseFile(v cue.Value) (*File, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError("cue", err)
	}
	for iter.Next() {
		if !topLevelFields[iter.Label()] {
			return nil, &LoadError{
				Field:   iter.Label(),
				Message: "unknown field",
				Pos:     iter.Value().Pos(),
			}
		}
	}

	f := &File{}

	modelVal := v.LookupPath(cue.ParsePath("model"))
	if !modelVal.Exists() {
		return nil, &LoadError{Field: "model", Message: "model is required", Pos: v.Pos()}
	}
	if f.Model, err = modelVal.String(); err != nil {
		return nil, fieldError("model", modelVal, err)
	}
	if f.Model == "" {
		return nil, &LoadError{Field: "model", Message: "model must not be empty", Pos: modelVal.Pos()}
	}

	if seedVal := v.LookupPath(cue.ParsePath("seed")); seedVal.Exists() {
		seed, err := seedVal.Uint64()
		if err != nil {
			return nil, fieldError("seed", seedVal, err)
		}
		f.Seed = &seed
	}

	if err := parseTime(v, f); err != nil {
		return nil, err
	}

	signalVal := v.LookupPath(cue.ParsePath("signal"))
	if !signalVal.Exists() {
		return nil, &LoadError{Field: "signal", Message: "signal is required", Pos: v.Pos()}
	}
	if f.Signal, err = parseSignal(signalVal); err != nil {
		return nil, err
	}

	if ov := v.LookupPath(cue.ParsePath("overrides")); ov.Exists() {
		if f.Overrides, err = parseOverrides(ov); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func parseTime(v cue.Value, f *File) error {
	timeVal := v.LookupPath(cue.ParsePath("time"))
	if !timeVal.Exists() {
		return &LoadError{Field: "time", Message: "time is required", Pos: v.Pos()}
	}

	if startVal := timeVal.LookupPath(cue.ParsePath("start")); startVal.Exists() {
		start, err := startVal.Float64()
		if err != nil {
			return fieldError("time.start", startVal, err)
		}
		f.Start = &start
	}

	var err error
	if f.End, err = requiredFloat(timeVal, "end", "time.end"); err != nil {
		return err
	}
	if f.Timestep, err = requiredFloat(timeVal, "timestep", "time.timestep"); err != nil {
		return err
	}
	if f.Timestep <= 0 {
		return &LoadError{
			Field:   "time.timestep",
			Message: fmt.Sprintf("must be > 0, got %v", f.Timestep),
			Pos:     timeVal.LookupPath(cue.ParsePath("timestep")).Pos(),
		}
	}
	return nil
}

func requiredFloat(parent cue.Value, name, field string) (float64, error) {
	val := parent.LookupPath(cue.ParsePath(name))
	if !val.Exists() {
		return 0, &LoadError{Field: field, Message: field + " is required", Pos: parent.Pos()}
	}
	f, err := val.Float64()
	if err != nil {
		return 0, fieldError(field, val, err)
	}
	return f, nil
}

func parseSignal(v cue.Value) (SignalSpec, error) {
	var spec SignalSpec
	set := 0

	if c := v.LookupPath(cue.ParsePath("constant")); c.Exists() {
		value, err := c.Float64()
		if err != nil {
			return spec, fieldError("signal.constant", c, err)
		}
		spec.Constant = &value
		set++
	}

	if s := v.LookupPath(cue.ParsePath("samples")); s.Exists() {
		samples, err := parseSamples(s)
		if err != nil {
			return spec, err
		}
		spec.Samples = samples
		set++
	}

	if file := v.LookupPath(cue.ParsePath("file")); file.Exists() {
		path, err := file.String()
		if err != nil {
			return spec, fieldError("signal.file", file, err)
		}
		spec.File = path
		set++
	}

	if set != 1 {
		return spec, &LoadError{
			Field:   "signal",
			Message: "exactly one of constant, samples or file is required",
			Pos:     v.Pos(),
		}
	}
	return spec, nil
}

// parseSamples reads [[t, v], ...].
func parseSamples(v cue.Value) ([][2]float64, error) {
	list, err := v.List()
	if err != nil {
		return nil, fieldError("signal.samples", v, err)
	}

	var out [][2]float64
	for i := 0; list.Next(); i++ {
		field := fmt.Sprintf("signal.samples[%d]", i)
		pair, err := list.Value().List()
		if err != nil {
			return nil, fieldError(field, list.Value(), err)
		}

		var sample [2]float64
		n := 0
		for pair.Next() {
			if n == 2 {
				return nil, &LoadError{Field: field, Message: "sample must be [time, value]", Pos: list.Value().Pos()}
			}
			if sample[n], err = pair.Value().Float64(); err != nil {
				return nil, fieldError(field, pair.Value(), err)
			}
			n++
		}
		if n != 2 {
			return nil, &LoadError{Field: field, Message: "sample must be [time, value]", Pos: list.Value().Pos()}
		}
		out = append(out, sample)
	}
	return out, nil
}

func parseOverrides(v cue.Value) (model.Overrides, error) {
	var o model.Overrides

	iter, err := v.Fields()
	if err != nil {
		return o, fieldError("overrides", v, err)
	}
	for iter.Next() {
		category := iter.Label()
		values, err := parseNumberMap(iter.Value(), "overrides."+category)
		if err != nil {
			return o, err
		}
		switch category {
		case model.CategoryVolumes:
			o.Volumes = values
		case model.CategoryInitConc:
			o.InitialConcentrations = values
		case model.CategoryKinetics:
			o.Kinetics = values
		default:
			return o, &LoadError{
				Field:   "overrides." + category,
				Message: fmt.Sprintf("unknown category (want %s, %s or %s)", model.CategoryVolumes, model.CategoryInitConc, model.CategoryKinetics),
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return o, nil
}

func parseNumberMap(v cue.Value, field string) (map[string]float64, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, fieldError(field, v, err)
	}
	out := make(map[string]float64)
	for iter.Next() {
		f, err := iter.Value().Float64()
		if err != nil {
			return nil, fieldError(field+"."+iter.Label(), iter.Value(), err)
		}
		out[iter.Label()] = f
	}
	return out, nil
}
