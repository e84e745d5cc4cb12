package env

import (
	"errors"
	"math/rand"
	"testing"

	apperrors "hedge-gym/internal/errors"
)

func testParams() Parameters {
	p := DefaultParameters()
	p.Horizon = 20
	return p
}

func TestEpisodeResetInitialConditions(t *testing.T) {
	e := NewEpisode(testParams(), rand.New(rand.NewSource(1)))
	obs := e.Reset()

	if obs.Position != 0 {
		t.Errorf("initial position = %d, want 0", obs.Position)
	}
	if obs.Price != 100 {
		t.Errorf("initial price = %v, want 100", obs.Price)
	}
	if obs.TimeToMaturity != 20 {
		t.Errorf("initial time to maturity = %v, want 20", obs.TimeToMaturity)
	}
	if e.Done() {
		t.Error("episode done immediately after reset")
	}
}

func TestEpisodeStepBeforeReset(t *testing.T) {
	e := NewEpisode(testParams(), rand.New(rand.NewSource(1)))
	_, _, _, err := e.Step(0)
	if !errors.Is(err, apperrors.ErrEpisodeNotRunning) {
		t.Errorf("Step before Reset: err = %v, want ErrEpisodeNotRunning", err)
	}
}

func TestEpisodeTermination(t *testing.T) {
	params := testParams()
	e := NewEpisode(params, rand.New(rand.NewSource(7)))
	e.Reset()

	for i := 1; i <= params.Horizon; i++ {
		_, _, done, err := e.Step(0.1)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if done != (i == params.Horizon) {
			t.Fatalf("step %d: done = %v, want %v", i, done, i == params.Horizon)
		}
	}

	_, _, _, err := e.Step(0)
	if !errors.Is(err, apperrors.ErrEpisodeDone) {
		t.Errorf("Step after done: err = %v, want ErrEpisodeDone", err)
	}

	// Reset makes the episode steppable again.
	e.Reset()
	if _, _, _, err := e.Step(0); err != nil {
		t.Errorf("Step after Reset: %v", err)
	}
}

func TestEpisodeDeterministicFlatScenario(t *testing.T) {
	// Zero volatility and a never-trading policy: the price pins at S0, no
	// costs accrue, the shape log holds only identical points, and every
	// reward after the initial option mark rolls off is exactly zero.
	params := testParams()
	params.Sigma = 0
	params.Kappa = 0
	e := NewEpisode(params, rand.New(rand.NewSource(1)))
	e.Reset()

	for i := 1; i <= params.Horizon; i++ {
		if _, _, _, err := e.Step(0); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	series := e.Series()
	for i, price := range series.Prices {
		if price != 100 {
			t.Errorf("price[%d] = %v, want 100", i, price)
		}
	}
	for i, pos := range series.Positions {
		if pos != 0 {
			t.Errorf("position[%d] = %d, want 0", i, pos)
		}
	}
	for i, cost := range series.Costs {
		if cost != 0 {
			t.Errorf("cost[%d] = %v, want 0", i, cost)
		}
	}
	// The recorded option value starts at S0 and moves to the model value
	// (zero at the money with zero volatility) on the first step.
	if series.Rewards[1] != -100 {
		t.Errorf("reward[1] = %v, want -100", series.Rewards[1])
	}
	for i := 2; i < len(series.Rewards); i++ {
		if series.Rewards[i] != 0 {
			t.Errorf("reward[%d] = %v, want 0", i, series.Rewards[i])
		}
	}
}

func TestEpisodeTerminalOptionValueCarriedForward(t *testing.T) {
	params := testParams()
	e := NewEpisode(params, rand.New(rand.NewSource(3)))
	e.Reset()
	for i := 1; i <= params.Horizon; i++ {
		if _, _, _, err := e.Step(0.2); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	series := e.Series()
	last := len(series.OptionPrices) - 1
	if series.OptionPrices[last] != series.OptionPrices[last-1] {
		t.Errorf("terminal option value %v, want previous value %v carried forward",
			series.OptionPrices[last], series.OptionPrices[last-1])
	}
}

func TestEpisodeReproducible(t *testing.T) {
	run := func(seed int64) Series {
		e := NewEpisode(testParams(), rand.New(rand.NewSource(seed)))
		e.Reset()
		for {
			_, _, done, err := e.Step(0.3)
			if err != nil {
				t.Fatal(err)
			}
			if done {
				return e.Series()
			}
		}
	}

	a, b := run(42), run(42)
	for i := range a.Prices {
		if a.Prices[i] != b.Prices[i] || a.Rewards[i] != b.Rewards[i] {
			t.Fatalf("same seed diverged at step %d", i)
		}
	}
}

func TestEpisodeRewardMatchesComponents(t *testing.T) {
	// One step, fixed action: the recorded reward must equal the
	// mean-variance utility of the step P&L (no shape penalty with a
	// single logged point).
	params := testParams()
	params.Kappa = 0.5
	e := NewEpisode(params, rand.New(rand.NewSource(11)))
	e.Reset()

	_, reward, _, err := e.Step(0.25)
	if err != nil {
		t.Fatal(err)
	}

	series := e.Series()
	// Recompute the step P&L from its components; the starting position is
	// flat so only the option move and the cost contribute.
	pnl := (series.OptionPrices[1] - series.OptionPrices[0]) - series.Costs[1]
	want := pnl - 0.5*params.Kappa*pnl*pnl
	if reward != want {
		t.Errorf("reward = %v, want %v", reward, want)
	}
	if series.Rewards[1] != reward {
		t.Errorf("recorded reward %v differs from returned %v", series.Rewards[1], reward)
	}
}
