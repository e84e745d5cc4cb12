package env

import (
	"math"
	"math/rand"

	apperrors "hedge-gym/internal/errors"
)

type phase int

const (
	phaseNotStarted phase = iota
	phaseRunning
	phaseDone
)

// Episode simulates one fixed-horizon hedging sequence. It owns per-step
// arrays of length Horizon+1 indexed by step count; entries beyond the
// current step are undefined until reached. An Episode is not safe for
// concurrent use; a training loop holds exactly one Episode per worker.
type Episode struct {
	params Parameters
	sim    *PriceSimulator
	cost   CostModel
	reg    *ShapeRegularizer

	phase phase
	step  int

	prices       []float64
	optionPrices []float64
	positions    []int
	costs        []float64
	profits      []float64
	rewards      []float64
}

// Series is a snapshot of an episode's per-step arrays, consumed by the
// renderer and the store after the episode is done.
type Series struct {
	Prices       []float64
	OptionPrices []float64
	Positions    []int
	Costs        []float64
	Profits      []float64
	Rewards      []float64
}

// NewEpisode creates an episode drawing price innovations from rng.
// Parameters must have been validated; see Parameters.Validate.
func NewEpisode(params Parameters, rng *rand.Rand) *Episode {
	return &Episode{
		params: params,
		sim:    NewPriceSimulator(params, rng),
		cost:   NewCostModel(params.TickSize),
	}
}

// Params returns the episode's fixed parameters.
func (e *Episode) Params() Parameters { return e.params }

// StepCount returns the number of steps taken since the last reset.
func (e *Episode) StepCount() int { return e.step }

// Done reports whether the episode has reached its horizon.
func (e *Episode) Done() bool { return e.phase == phaseDone }

// Reset starts a new episode: all per-step arrays are reallocated, the
// shape log is cleared, and the step counter returns to zero. The initial
// position is flat and both the price and the recorded option value start
// at S0. Returns the initial observation.
func (e *Episode) Reset() Observation {
	n := e.params.Horizon + 1
	e.prices = make([]float64, n)
	e.optionPrices = make([]float64, n)
	e.positions = make([]int, n)
	e.costs = make([]float64, n)
	e.profits = make([]float64, n)
	e.rewards = make([]float64, n)

	e.prices[0] = e.params.S0
	e.optionPrices[0] = e.params.S0
	e.reg = NewShapeRegularizer(e.params.PenaltyWeight, e.params.MaxPenalty, e.params.Horizon)
	e.step = 0
	e.phase = phaseRunning
	return e.observation()
}

func (e *Episode) observation() Observation {
	return Observation{
		Position:       e.positions[e.step],
		TimeToMaturity: float64(e.params.Horizon - e.step),
		Price:          e.prices[e.step],
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Step applies one rebalancing action in [-1, 1] and advances the episode:
// the action is rescaled and rounded to an integer position delta, the new
// position is clamped to [-OptionSize, OptionSize], a new price is drawn,
// the option is revalued, and the mean-variance reward net of trading cost
// and shape penalty is recorded.
//
// On the terminal step the previous option value is carried forward rather
// than repriced at zero remaining time, which would just return (0, 0).
//
// Calling Step before Reset, or again after the episode is done, returns
// ErrEpisodeNotRunning / ErrEpisodeDone.
func (e *Episode) Step(action float64) (Observation, float64, bool, error) {
	switch e.phase {
	case phaseNotStarted:
		return Observation{}, 0, false, apperrors.ErrEpisodeNotRunning
	case phaseDone:
		return Observation{}, 0, true, apperrors.ErrEpisodeDone
	}

	delta := int(math.Round(action * e.params.ActionNormalizer))

	oldPos := e.positions[e.step]
	oldPrice := e.prices[e.step]
	oldOption := e.optionPrices[e.step]

	e.step++
	done := e.step == e.params.Horizon

	newPos := clampInt(oldPos+delta, -e.params.OptionSize, e.params.OptionSize)
	e.positions[e.step] = newPos

	newPrice := e.sim.Next(e.step)
	e.prices[e.step] = newPrice

	newOption := oldOption
	if !done {
		tau := float64(e.params.Horizon - e.step)
		newOption, _ = PriceAndDelta(e.params.S0, tau, newPrice, e.params.Sigma)
	}
	e.optionPrices[e.step] = newOption

	tradeSize := math.Abs(float64(newPos - oldPos))
	cost := e.cost.Cost(tradeSize)
	pnl := (newPrice-oldPrice)*float64(oldPos) + (newOption - oldOption) - cost

	e.costs[e.step] = cost
	e.profits[e.step] = pnl + cost
	reward := pnl - 0.5*e.params.Kappa*pnl*pnl

	// The shape log records the pre-clamp delta, normalized by the held
	// position when one exists.
	normalized := float64(delta)
	if oldPos != 0 {
		normalized = float64(delta) / float64(oldPos)
	}
	reward -= e.reg.Observe(newPrice, normalized)
	e.rewards[e.step] = reward

	if done {
		e.phase = phaseDone
	}
	return e.observation(), reward, done, nil
}

// Series returns a copy of the per-step arrays. Valid once the episode is
// done; entries beyond the current step are zero before then.
func (e *Episode) Series() Series {
	return Series{
		Prices:       append([]float64(nil), e.prices...),
		OptionPrices: append([]float64(nil), e.optionPrices...),
		Positions:    append([]int(nil), e.positions...),
		Costs:        append([]float64(nil), e.costs...),
		Profits:      append([]float64(nil), e.profits...),
		Rewards:      append([]float64(nil), e.rewards...),
	}
}
