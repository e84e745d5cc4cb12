package env

import (
	"math"
	"math/rand"
)

// PriceSimulator generates the underlying price path as a discretized
// lognormal walk with zero drift under the risk-neutral measure. It holds
// no state of its own beyond the random source; the step index is supplied
// by the caller.
type PriceSimulator struct {
	params Parameters
	rng    *rand.Rand
}

// NewPriceSimulator creates a simulator drawing from rng. The rng is not
// shared with any other consumer; reproducibility requires seeding it
// before the first episode reset.
func NewPriceSimulator(params Parameters, rng *rand.Rand) *PriceSimulator {
	return &PriceSimulator{params: params, rng: rng}
}

// Next draws one standard-normal sample and returns the price at the given
// step index, clamped to [MinPrice, MaxPrice]. Always returns a finite
// value; consuming one random draw is the only side effect.
func (s *PriceSimulator) Next(stepIndex int) float64 {
	z := s.rng.NormFloat64()
	x := -0.5*s.params.Sigma*s.params.Sigma*float64(stepIndex) + s.params.Sigma*z
	p := s.params.S0 * math.Exp(x)
	return math.Min(math.Max(p, s.params.MinPrice), s.params.MaxPrice)
}
