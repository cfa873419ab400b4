package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPCGUniform_Deterministic(t *testing.T) {
	a, b := NewPCGUniform(123), NewPCGUniform(123)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestPCGUniform_Range(t *testing.T) {
	u := NewPCGUniform(9)
	for i := 0; i < 10000; i++ {
		v := u.Float64()
		assert.Greater(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestPCGUniform_SeedsDiffer(t *testing.T) {
	assert.NotEqual(t, NewPCGUniform(1).Float64(), NewPCGUniform(2).Float64())
}
