package testutil

// StaticRunID always returns the same run id. It satisfies
// engine.RunIDGenerator and keeps golden output stable across any number
// of runs.
type StaticRunID string

// Generate returns the id.
func (s StaticRunID) Generate() string { return string(s) }
