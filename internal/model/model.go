package model

import (
	"fmt"
)

// ReactionModel is the capability set every reaction network implements.
//
// Implementations must be safe for concurrent use: the engine shares one
// model value across runs and never mutates it.
type ReactionModel interface {
	// Name is the registry key of the model (e.g. "calmodulin").
	Name() string

	// Species lists species names in state-vector order.
	Species() []string

	// ReactionCount is the number of distinct propensity terms.
	ReactionCount() int

	// DefaultParameters returns a fresh copy of the model defaults.
	DefaultParameters() Parameters

	// Bind resolves the kinetic parameters once per run and returns the
	// propensity function for those parameters.
	// Returns an error if a required parameter is missing.
	Bind(kinetics ParamSet) (PropensityFunc, error)

	// Apply fires one reaction against counts.
	// Returns *StoichiometryError for an unknown reaction or an update that
	// would make a count negative; counts are left untouched in that case.
	Apply(counts []uint64, reaction int) error
}

// PropensityFunc writes cumulative propensities into cumulative.
//
// len(cumulative) equals the model's ReactionCount and len(counts) its
// species count. driving is the current value of the external signal.
type PropensityFunc func(cumulative []float64, counts []uint64, driving float64)

// StoichiometryError reports a reaction update that cannot be applied.
type StoichiometryError struct {
	Model    string
	Reaction int
	Species  string // empty when the reaction index itself is invalid
	Message  string
}

func (e *StoichiometryError) Error() string {
	if e.Species != "" {
		return fmt.Sprintf("%s: reaction %d: %s (species %s)", e.Model, e.Reaction, e.Message, e.Species)
	}
	return fmt.Sprintf("%s: reaction %d: %s", e.Model, e.Reaction, e.Message)
}

// MissingParameterError reports a kinetic parameter absent at Bind time.
type MissingParameterError struct {
	Model string
	Name  string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s: missing kinetic parameter %q", e.Model, e.Name)
}

// lookupAll fetches every named parameter or fails on the first missing one.
func lookupAll(model string, kinetics ParamSet, names ...string) ([]float64, error) {
	values := make([]float64, len(names))
	for i, name := range names {
		v, ok := kinetics.Get(name)
		if !ok {
			return nil, &MissingParameterError{Model: model, Name: name}
		}
		values[i] = v
	}
	return values, nil
}
