package testutil

import "sync"

// ScriptedUniform replays a fixed list of draws, cycling when exhausted.
//
// It satisfies engine.Uniform. Values must lie in (0, 1].
//
// Thread-safety: ScriptedUniform is safe for concurrent use via internal mutex.
type ScriptedUniform struct {
	mu     sync.Mutex
	values []float64
	idx    int
	calls  int
}

// NewScriptedUniform creates a source that returns values in order.
//
// Panics if values is empty.
func NewScriptedUniform(values ...float64) *ScriptedUniform {
	if len(values) == 0 {
		panic("NewScriptedUniform: no values")
	}
	return &ScriptedUniform{values: values}
}

// Float64 returns the next scripted draw.
func (u *ScriptedUniform) Float64() float64 {
	u.mu.Lock()
	defer u.mu.Unlock()

	v := u.values[u.idx]
	u.idx = (u.idx + 1) % len(u.values)
	u.calls++
	return v
}

// Calls returns how many draws have been taken.
func (u *ScriptedUniform) Calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}
