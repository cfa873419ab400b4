package model

import "fmt"

// PKC species indices.
const (
	pkcInact = iota
	caPKC
	dagCaPKC
	aadagPKCInact
	aadagPKCAct
	pkcBasal
	aaPKC
	caPKCMemb
	aaCaPKC
	dagPKCMemb
	dagPKC
)

// PKC is the protein kinase C activation cascade: ten reversible
// conversions between eleven species. Arachidonic acid (AA) and
// diacylglycerol (DAG) are held at fixed concentrations; calcium enters
// the PKC_inact -> CaPKC binding step.
type PKC struct {
	conversionNetwork
}

// NewPKC returns the PKC cascade model.
func NewPKC() *PKC {
	return &PKC{conversionNetwork{
		name: "pkc",
		species: []string{
			"PKC_inact", "CaPKC", "DAGCaPKC", "AADAGPKC_inact", "AADAGPKC_act",
			"PKCbasal", "AAPKC", "CaPKCmemb", "AACaPKC", "DAGPKCmemb", "DAGPKC",
		},
		transfers: []Transfer{
			{pkcInact, pkcBasal}, {pkcBasal, pkcInact}, // R1
			{pkcInact, aaPKC}, {aaPKC, pkcInact}, // R2
			{caPKC, caPKCMemb}, {caPKCMemb, caPKC}, // R3
			{caPKC, aaCaPKC}, {aaCaPKC, caPKC}, // R4
			{dagCaPKC, dagPKCMemb}, {dagPKCMemb, dagCaPKC}, // R5
			{aadagPKCInact, aadagPKCAct}, {aadagPKCAct, aadagPKCInact}, // R6
			{pkcInact, caPKC}, {caPKC, pkcInact}, // R7
			{caPKC, dagCaPKC}, {dagCaPKC, caPKC}, // R8
			{pkcInact, dagPKC}, {dagPKC, pkcInact}, // R9
			{dagPKC, aadagPKCInact}, {aadagPKCInact, dagPKC}, // R10
		},
	}}
}

var pkcRates = [...]float64{
	1, 50, 1.2e-7, 0.1, 1.2705, 3.5026, 1.2e-7, 0.1, 1, 0.1,
	2, 0.2, 0.0006, 0.5, 7.998e-6, 8.6348, 6e-7, 0.1, 1.8e-5, 2,
}

// DefaultParameters returns the PKC defaults. AA and DAG are
// concentrations in nmol/l and enter propensities unscaled.
func (m *PKC) DefaultParameters() Parameters {
	kinetics := make(ParamSet, 0, len(pkcRates)+2)
	for i, k := range pkcRates {
		kinetics = append(kinetics, Param{Name: fmt.Sprintf("k%d", i+1), Value: k})
	}
	kinetics = append(kinetics,
		Param{Name: "AA", Value: 11000},
		Param{Name: "DAG", Value: 5000},
	)

	initial := make(ParamSet, len(m.species))
	for i, name := range m.species {
		initial[i] = Param{Name: name}
	}
	initial[pkcInact].Value = 0.2

	return Parameters{
		Volumes:               ParamSet{{Name: VolumeName, Value: 5e-14}},
		InitialConcentrations: initial,
		Kinetics:              kinetics,
	}
}

// Bind resolves k1..k20, AA and DAG.
func (m *PKC) Bind(kinetics ParamSet) (PropensityFunc, error) {
	names := make([]string, 0, len(pkcRates)+2)
	for i := range pkcRates {
		names = append(names, fmt.Sprintf("k%d", i+1))
	}
	names = append(names, "AA", "DAG")
	v, err := lookupAll(m.name, kinetics, names...)
	if err != nil {
		return nil, err
	}
	var k [21]float64 // 1-based to match the reaction table
	copy(k[1:], v[:20])
	aa, dag := v[20], v[21]

	return func(a []float64, x []uint64, ca float64) {
		a[0] = k[1] * float64(x[pkcInact])
		a[1] = a[0] + k[2]*float64(x[pkcBasal])
		a[2] = a[1] + k[3]*aa*float64(x[pkcInact])
		a[3] = a[2] + k[4]*float64(x[aaPKC])
		a[4] = a[3] + k[5]*float64(x[caPKC])
		a[5] = a[4] + k[6]*float64(x[caPKCMemb])
		a[6] = a[5] + k[7]*aa*float64(x[caPKC])
		a[7] = a[6] + k[8]*float64(x[aaCaPKC])
		a[8] = a[7] + k[9]*float64(x[dagCaPKC])
		a[9] = a[8] + k[10]*float64(x[dagPKCMemb])
		a[10] = a[9] + k[11]*float64(x[aadagPKCInact])
		a[11] = a[10] + k[12]*float64(x[aadagPKCAct])
		a[12] = a[11] + ca*k[13]*float64(x[pkcInact])
		a[13] = a[12] + k[14]*float64(x[caPKC])
		a[14] = a[13] + k[15]*dag*float64(x[caPKC])
		a[15] = a[14] + k[16]*float64(x[dagCaPKC])
		a[16] = a[15] + k[17]*dag*float64(x[pkcInact])
		a[17] = a[16] + k[18]*float64(x[dagPKC])
		a[18] = a[17] + k[19]*aa*float64(x[dagPKC])
		a[19] = a[18] + k[20]*float64(x[aadagPKCInact])
	}, nil
}
