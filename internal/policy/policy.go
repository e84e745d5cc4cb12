// Package policy provides reference policies for driving the hedging
// environment outside a training loop.
package policy

import (
	"fmt"
	"math"
	"math/rand"

	"hedge-gym/internal/env"
)

// Policy maps an observation to a raw action in [-1, 1].
type Policy func(obs env.Observation) float64

// Zero returns a policy that never trades.
func Zero() Policy {
	return func(env.Observation) float64 { return 0 }
}

// Random returns a policy drawing actions uniformly from [-1, 1].
func Random(rng *rand.Rand) Policy {
	return func(env.Observation) float64 { return 2*rng.Float64() - 1 }
}

// DeltaHedge returns the baseline policy that tracks the Black-Scholes
// hedge ratio: it targets a short position of delta times the option size
// and emits the action that moves the current position toward that target.
func DeltaHedge(params env.Parameters) Policy {
	return func(obs env.Observation) float64 {
		_, delta := env.PriceAndDelta(params.S0, obs.TimeToMaturity, obs.Price, params.Sigma)
		target := -math.Round(delta * float64(params.OptionSize))
		action := (target - float64(obs.Position)) / params.ActionNormalizer
		return math.Max(-1, math.Min(1, action))
	}
}

// ForName returns the named built-in policy: "zero", "random", or "delta".
func ForName(name string, params env.Parameters, rng *rand.Rand) (Policy, error) {
	switch name {
	case "zero":
		return Zero(), nil
	case "random":
		return Random(rng), nil
	case "delta":
		return DeltaHedge(params), nil
	default:
		return nil, fmt.Errorf("unknown policy %q (want zero, random, or delta)", name)
	}
}
