// Package harness runs simulation scenarios as executable checks.
//
// A scenario names one run configuration and a list of property
// assertions over the output table. The harness runs the real engine with
// a fixed run id and a default seed, so a scenario always produces the
// same table and the result can be pinned by a golden snapshot.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: calmodulin_constant
//	description: "Calmodulin under constant calcium conserves protein"
//	run: runs/calmodulin.cue      # or an inline CUE file under config:
//	assertions:
//	  - type: row_count
//	    count: 11
//	  - type: conserved
//	    species: [Prot_inact, Prot_act]
//	  - type: bounded
//	    species: [Prot_act]
//	    min: 0
//	    max: 5
//	    exclusive: true
//	    skip: 1
//	  - type: deterministic
//
// # Assertion Types
//
//   - row_count: the table has exactly count rows
//   - grid: row i lies at start + i*timestep
//   - conserved: the summed concentration of species is the same in every row
//   - non_negative: no concentration is negative
//   - bounded: species values lie within [min, max], or (min, max) when exclusive
//   - value: a single cell equals expect within tolerance
//   - deterministic: a second run with the same seed yields the same digest
//   - run_error: the run fails with the given error code
//
// # Golden Snapshots
//
// Snapshot renders a result as canonical JSON. The test command stores
// snapshots next to scenario files in golden/<scenario>.golden;
// RunWithGolden and AssertGolden use goldie with testdata/golden for
// package tests.
package harness
