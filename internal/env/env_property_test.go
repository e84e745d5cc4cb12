package env

import (
	"math/rand"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: for any action sequence, every recorded position stays within
// [-OptionSize, OptionSize] and every price within [MinPrice, MaxPrice].
func TestProperty_PositionAndPriceBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	params := DefaultParameters()
	params.Horizon = 30
	// A wild parameter set so the price clamp actually binds sometimes.
	params.Sigma = 0.5
	params.MinPrice = 60
	params.MaxPrice = 160

	actionsGen := gen.SliceOfN(params.Horizon, gen.Float64Range(-1, 1))

	properties.Property("positions and prices stay within declared bounds", prop.ForAll(
		func(actions []float64, seed int64) bool {
			e := NewEpisode(params, rand.New(rand.NewSource(seed)))
			e.Reset()
			for _, a := range actions {
				if _, _, _, err := e.Step(a); err != nil {
					return false
				}
			}
			series := e.Series()
			for _, pos := range series.Positions {
				if pos < -params.OptionSize || pos > params.OptionSize {
					return false
				}
			}
			for _, price := range series.Prices {
				if price < params.MinPrice || price > params.MaxPrice {
					return false
				}
			}
			return true
		},
		actionsGen,
		gen.Int64(),
	))

	properties.TestingRun(t)
}

// Property: done is reported exactly once, at the horizon, for any action
// sequence.
func TestProperty_DoneExactlyAtHorizon(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	params := DefaultParameters()
	params.Horizon = 15

	properties.Property("done flags exactly the final step", prop.ForAll(
		func(actions []float64, seed int64) bool {
			e := NewEpisode(params, rand.New(rand.NewSource(seed)))
			e.Reset()
			for i := 0; i < params.Horizon; i++ {
				a := 0.0
				if i < len(actions) {
					a = actions[i]
				}
				_, _, done, err := e.Step(a)
				if err != nil {
					return false
				}
				if done != (i == params.Horizon-1) {
					return false
				}
			}
			return e.Done()
		},
		gen.SliceOf(gen.Float64Range(-1, 1)),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
