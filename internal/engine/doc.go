// Package engine implements the hybrid Gillespie Direct-Method simulator.
//
// The engine advances one trajectory of a reaction network whose
// propensities depend on a piecewise-constant driving signal. Waiting times
// are drawn from the total propensity; if the next reaction would land after
// the next signal change, no reaction fires and time jumps to the change
// instead, so every propensity is evaluated with the signal value that
// actually holds.
//
// ARCHITECTURE:
//
// Single-Goroutine Run Loop:
// Each Run call executes on the caller's goroutine with its own state,
// random source and output table. Nothing is shared between runs, so
// independent runs may execute concurrently on one Engine.
//
// Iteration:
// 1. Evaluate cumulative propensities (model.PropensityFunc)
// 2. Draw tau = -ln(u1)/a0; a0 == 0 means tau = +Inf
// 3. If now+tau reaches the next signal change (or the end time): flush
// grid rows, advance to that boundary, move to the next signal sample
// 4. Otherwise select the first reaction with cumulative >= a0*u2,
// advance time, flush grid rows, apply the reaction
//
// No reaction fires at or after the end time. The run ends exactly at the
// end time; remaining grid rows are filled with the final state.
//
// INVARIANTS:
//
// Monotonic Time:
// Simulated time and the signal index never decrease. Every iteration
// strictly advances one of them, so a run always terminates.
//
// Fixed Output Size:
// The row count floor((end-start)/step+0.5)+1 is computed once before the
// loop. The table is allocated once and never grows.
//
// Contract Enforcement:
// Particle counts change only through Model.Apply. A reaction index outside
// [0, ReactionCount) or a malformed cumulative array stops the run with a
// MODEL_INVARIANT_VIOLATION carrying the index and simulated time.
package engine
