package model

// Inert is a test network with one species and one reaction whose
// propensity is always zero. Runs advance only through signal changes.
type Inert struct {
	conversionNetwork
}

// NewInert returns the inert test model.
func NewInert() *Inert {
	return &Inert{conversionNetwork{
		name:      "inert",
		species:   []string{"X"},
		transfers: []Transfer{{From: 0, To: 0}},
	}}
}

func (m *Inert) DefaultParameters() Parameters {
	return Parameters{
		Volumes:               ParamSet{{Name: VolumeName, Value: 1e-15}},
		InitialConcentrations: ParamSet{{Name: "X", Value: 10}},
		Kinetics:              ParamSet{},
	}
}

func (m *Inert) Bind(ParamSet) (PropensityFunc, error) {
	return func(cumulative []float64, _ []uint64, _ float64) {
		cumulative[0] = 0
	}, nil
}
