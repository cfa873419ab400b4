package model

import (
	"fmt"
	"math"
	"sort"
)

// Category names used in run files and overrides.
const (
	CategoryVolumes  = "vols"
	CategoryInitConc = "init_conc"
	CategoryKinetics = "params"
	VolumeName       = "vol"
)

// Param is one named, overridable scalar.
type Param struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ParamSet is an ordered list of parameters with unique names.
// Order is preserved so defaults print in declaration order.
type ParamSet []Param

// Get returns the value of the named parameter.
func (p ParamSet) Get(name string) (float64, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return 0, false
}

// Names returns parameter names in declaration order.
func (p ParamSet) Names() []string {
	names := make([]string, len(p))
	for i, param := range p {
		names[i] = param.Name
	}
	return names
}

// Clone returns a copy that shares no memory with p.
func (p ParamSet) Clone() ParamSet {
	if p == nil {
		return nil
	}
	out := make(ParamSet, len(p))
	copy(out, p)
	return out
}

// Overlay returns a copy of p with values replaced from overrides.
// Names in overrides that p does not declare are ignored, never added.
func (p ParamSet) Overlay(overrides map[string]float64) ParamSet {
	out := p.Clone()
	for i := range out {
		if v, ok := overrides[out[i].Name]; ok {
			out[i].Value = v
		}
	}
	return out
}

// Unmatched returns the sorted override names p does not declare.
// Used for diagnostics only; Overlay ignores them.
func (p ParamSet) Unmatched(overrides map[string]float64) []string {
	var out []string
	for name := range overrides {
		if _, ok := p.Get(name); !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Parameters groups a model's parameter categories.
type Parameters struct {
	Volumes               ParamSet `json:"vols"`
	InitialConcentrations ParamSet `json:"init_conc"`
	Kinetics              ParamSet `json:"params"`
}

// Overrides holds user-supplied replacements per category.
type Overrides struct {
	Volumes               map[string]float64 `json:"vols,omitempty"`
	InitialConcentrations map[string]float64 `json:"init_conc,omitempty"`
	Kinetics              map[string]float64 `json:"params,omitempty"`
}

// IsEmpty reports whether no override is set.
func (o Overrides) IsEmpty() bool {
	return len(o.Volumes) == 0 && len(o.InitialConcentrations) == 0 && len(o.Kinetics) == 0
}

// Overlay merges overrides onto p category by category. p is not modified.
func (p Parameters) Overlay(o Overrides) Parameters {
	return Parameters{
		Volumes:               p.Volumes.Overlay(o.Volumes),
		InitialConcentrations: p.InitialConcentrations.Overlay(o.InitialConcentrations),
		Kinetics:              p.Kinetics.Overlay(o.Kinetics),
	}
}

// Clone returns a deep copy.
func (p Parameters) Clone() Parameters {
	return Parameters{
		Volumes:               p.Volumes.Clone(),
		InitialConcentrations: p.InitialConcentrations.Clone(),
		Kinetics:              p.Kinetics.Clone(),
	}
}

// Volume returns the system volume in liters.
func (p Parameters) Volume() (float64, error) {
	v, ok := p.Volumes.Get(VolumeName)
	if !ok {
		return 0, fmt.Errorf("volume %q not set", VolumeName)
	}
	return v, nil
}

// InitialVector returns the initial concentrations in m's species order.
func (p Parameters) InitialVector(m ReactionModel) ([]float64, error) {
	species := m.Species()
	out := make([]float64, len(species))
	for i, name := range species {
		v, ok := p.InitialConcentrations.Get(name)
		if !ok {
			return nil, fmt.Errorf("initial concentration for species %q not set", name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("initial concentration for species %q must be finite and >= 0, got %v", name, v)
		}
		out[i] = v
	}
	return out, nil
}
