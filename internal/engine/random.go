package engine

import "math/rand/v2"

// Uniform is a run-scoped source of draws from the interval (0, 1].
//
// Zero is excluded so that -ln(u) is finite and a0*u is strictly positive,
// which keeps zero-propensity reactions from ever being selected.
type Uniform interface {
	Float64() float64
}

// UniformFactory builds the source for one run from its seed.
type UniformFactory func(seed uint64) Uniform

// pcgUniform adapts a PCG generator to the (0, 1] interval.
type pcgUniform struct {
	r *rand.Rand
}

func (u pcgUniform) Float64() float64 {
	return 1 - u.r.Float64()
}

// seedStream decorrelates the PCG stream from the seed itself.
const seedStream = 0x9e3779b97f4a7c15

// NewPCGUniform returns the default deterministic source for seed.
func NewPCGUniform(seed uint64) Uniform {
	return pcgUniform{r: rand.New(rand.NewPCG(seed, seed^seedStream))}
}
