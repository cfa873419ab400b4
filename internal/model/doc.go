// Package model describes the reaction networks simulated by the engine.
//
// A ReactionModel is a static, stateless description of one network:
// its species, the number of distinct propensity terms (reversible pairs
// are counted separately), its default parameters and the stoichiometric
// update applied when a reaction fires.
//
// # Cumulative Propensities
//
// Propensity functions fill a slice with RUNNING SUMS, not individual
// propensities. Entry i holds the total propensity of reactions 0..i, so the
// slice is non-decreasing, every entry is >= 0 and the last entry is the
// total propensity a0. The engine's reaction selection scans this slice for
// the first entry that is not less than a0*u.
//
// # Parameters
//
// Parameters are grouped in three categories, mirroring how models are
// configured:
//
//   - vols: system volume(s) in liters
//   - init_conc: initial concentrations in nmol/l, one per species
//   - params: kinetic constants read by the propensity function
//
// Overrides replace defaults by name; unknown names are ignored.
package model
