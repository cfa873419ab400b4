package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScriptedUniform_Cycles(t *testing.T) {
	u := NewScriptedUniform(0.25, 0.5)

	assert.Equal(t, 0.25, u.Float64())
	assert.Equal(t, 0.5, u.Float64())
	assert.Equal(t, 0.25, u.Float64())
	assert.Equal(t, 3, u.Calls())
}

func TestScriptedUniform_PanicsWhenEmpty(t *testing.T) {
	assert.Panics(t, func() { NewScriptedUniform() })
}

func TestStaircaseSignal(t *testing.T) {
	s := StaircaseSignal(t, 0, 10, 2, 1, 0.5)

	assert.Equal(t, []float64{0, 2, 4, 6, 8, 10}, s.Times())
	assert.Equal(t, []float64{1, 1.5, 2, 2.5, 3, 3.5}, s.Values())
}

func TestStaticRunID(t *testing.T) {
	id := StaticRunID("run-fixed")
	assert.Equal(t, "run-fixed", id.Generate())
	assert.Equal(t, "run-fixed", id.Generate())
}
