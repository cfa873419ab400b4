// Package testutil provides deterministic fixtures for simulation tests:
// scripted random draws, driving-signal builders and static run ids.
//
// Nothing here imports the engine, so both internal and external test
// packages can use it.
package testutil
