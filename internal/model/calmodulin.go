package model

import "math"

// Calmodulin is the two-state calmodulin activation model.
//
//	0: Prot_inact -> Prot_act   k_on * Ca^h / (Km^h + Ca^h) * Prot_inact
//	1: Prot_act -> Prot_inact   k_off * Prot_act
type Calmodulin struct {
	conversionNetwork
}

// NewCalmodulin returns the calmodulin reference model.
func NewCalmodulin() *Calmodulin {
	return &Calmodulin{conversionNetwork{
		name:    "calmodulin",
		species: []string{"Prot_inact", "Prot_act"},
		transfers: []Transfer{
			{From: 0, To: 1}, // activation
			{From: 1, To: 0}, // deactivation
		},
	}}
}

// DefaultParameters returns the published calmodulin defaults.
func (m *Calmodulin) DefaultParameters() Parameters {
	return Parameters{
		Volumes: ParamSet{{Name: VolumeName, Value: 5e-14}},
		InitialConcentrations: ParamSet{
			{Name: "Prot_inact", Value: 5.0},
			{Name: "Prot_act", Value: 0},
		},
		Kinetics: ParamSet{
			{Name: "k_on", Value: 0.025},
			{Name: "k_off", Value: 0.005},
			{Name: "Km", Value: 1.0},
			{Name: "h", Value: 4.0},
		},
	}
}

// Bind resolves k_on, k_off, Km and h.
func (m *Calmodulin) Bind(kinetics ParamSet) (PropensityFunc, error) {
	k, err := lookupAll(m.name, kinetics, "k_on", "k_off", "Km", "h")
	if err != nil {
		return nil, err
	}
	kOn, kOff, km, h := k[0], k[1], k[2], k[3]
	kmH := math.Pow(km, h)

	return func(cumulative []float64, counts []uint64, ca float64) {
		caH := math.Pow(ca, h)
		activation := 0.0
		if denom := kmH + caH; denom > 0 {
			activation = kOn * caH / denom
		}
		cumulative[0] = activation * float64(counts[0])
		cumulative[1] = cumulative[0] + kOff*float64(counts[1])
	}, nil
}
