package env

import "math"

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// PriceAndDelta values a European call under zero interest rate using the
// standard d1/d2 formulas, returning the price and the hedge ratio.
//
// A non-positive time to maturity returns (0, 0): an expired contract has
// no optionality left. A non-positive volatility degenerates to the
// intrinsic value. Callers must guarantee spot, strike > 0; the formulas
// take log(spot/strike), which is why Parameters.Validate enforces
// positivity up front.
func PriceAndDelta(strike, tau, spot, vol float64) (price, delta float64) {
	if tau <= 0 {
		return 0, 0
	}
	if vol <= 0 {
		// Zero-volatility limit: the call is worth its intrinsic value.
		if spot > strike {
			return spot - strike, 1
		}
		return 0, 0
	}
	denom := vol * math.Sqrt(tau)
	d1 := (math.Log(spot/strike) + 0.5*vol*vol*tau) / denom
	d2 := d1 - denom
	price = spot*normCDF(d1) - strike*normCDF(d2)
	delta = normCDF(d1)
	return price, delta
}
