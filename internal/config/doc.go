// Package config loads simulation run files.
//
// A run file is a single CUE document naming a reaction model, the time
// window, the driving signal and optional parameter overrides:
//
//	model: "calmodulin"
//	seed:  42
//	time: {end: 100, timestep: 10}
//	signal: {constant: 1.0}
//	overrides: params: {k_on: 0.05}
//
// LoadFile compiles and checks the document. File.Resolve applies the
// overrides to the model defaults and materializes the signal into a Run,
// which is self-contained and JSON-serializable: it is what gets stored
// with each result and what replay re-executes.
package config
