// Package env implements the delta-hedging episode environment: price
// simulation, option valuation, transaction costs, and the concavity
// shape regularizer that scores each rebalancing decision.
package env

import (
	apperrors "hedge-gym/internal/errors"
)

// Parameters holds the fixed constants of one environment instance.
// A Parameters value is immutable once passed to NewEpisode; there is no
// runtime reconfiguration.
type Parameters struct {
	// TickSize scales the transaction cost of a trade.
	TickSize float64
	// OptionSize caps the absolute hedge position, in units of the
	// underlying.
	OptionSize int
	// Horizon is the episode length L; an episode runs exactly L steps.
	Horizon int
	// S0 is the initial underlying price and the option strike.
	S0 float64
	// Sigma is the volatility of the simulated price walk and the
	// volatility used for option valuation.
	Sigma float64
	// Kappa is the risk-aversion coefficient of the mean-variance reward.
	Kappa float64
	// PenaltyWeight scales the concavity-violation penalty.
	PenaltyWeight float64
	// MaxPenalty caps a single triple's concavity penalty.
	MaxPenalty float64
	// MinPrice and MaxPrice bound the simulated price path.
	MinPrice float64
	MaxPrice float64
	// ActionNormalizer rescales the raw policy action in [-1, 1] to a
	// position delta in units of the underlying.
	ActionNormalizer float64
}

// DefaultParameters returns the environment constants used when no
// configuration overrides them.
func DefaultParameters() Parameters {
	return Parameters{
		TickSize:         0.1,
		OptionSize:       100,
		Horizon:          100,
		S0:               100,
		Sigma:            0.02,
		Kappa:            0.0001,
		PenaltyWeight:    1.0,
		MaxPenalty:       100,
		MinPrice:         10,
		MaxPrice:         500,
		ActionNormalizer: 100,
	}
}

// Validate checks the positivity preconditions the pricing formulas rely
// on. Option valuation divides by sigma and takes log(spot/strike), so a
// non-positive volatility, price, or bound would poison the whole episode;
// this is checked once at configuration time rather than per step.
func (p Parameters) Validate() error {
	if p.Horizon < 1 {
		return apperrors.NewValidationError("horizon", p.Horizon, "must be at least 1")
	}
	if p.S0 <= 0 {
		return apperrors.NewValidationError("s0", p.S0, "initial price must be positive")
	}
	if p.Sigma <= 0 {
		return apperrors.NewValidationError("sigma", p.Sigma, "volatility must be positive")
	}
	if p.TickSize < 0 {
		return apperrors.NewValidationError("tick_size", p.TickSize, "must be non-negative")
	}
	if p.OptionSize < 1 {
		return apperrors.NewValidationError("option_size", p.OptionSize, "must be at least 1")
	}
	if p.Kappa < 0 {
		return apperrors.NewValidationError("kappa", p.Kappa, "must be non-negative")
	}
	if p.PenaltyWeight < 0 {
		return apperrors.NewValidationError("penalty_weight", p.PenaltyWeight, "must be non-negative")
	}
	if p.MaxPenalty < 0 {
		return apperrors.NewValidationError("max_penalty", p.MaxPenalty, "must be non-negative")
	}
	if p.MinPrice <= 0 || p.MaxPrice <= p.MinPrice {
		return apperrors.NewValidationError("min_price/max_price", [2]float64{p.MinPrice, p.MaxPrice},
			"bounds must be positive and ordered")
	}
	if p.S0 < p.MinPrice || p.S0 > p.MaxPrice {
		return apperrors.NewValidationError("s0", p.S0, "initial price must lie within the price bounds")
	}
	if p.ActionNormalizer <= 0 {
		return apperrors.NewValidationError("action_normalizer", p.ActionNormalizer, "must be positive")
	}
	return nil
}
