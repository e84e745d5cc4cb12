package env

import (
	"math"
	"testing"
)

func TestPriceAndDeltaExpired(t *testing.T) {
	cases := []struct {
		strike, tau, spot, vol float64
	}{
		{100, 0, 100, 0.2},
		{100, -1, 80, 0.2},
		{50, 0, 120, 0.01},
	}
	for _, c := range cases {
		price, delta := PriceAndDelta(c.strike, c.tau, c.spot, c.vol)
		if price != 0 || delta != 0 {
			t.Errorf("PriceAndDelta(%v, %v, %v, %v) = (%v, %v), want (0, 0)",
				c.strike, c.tau, c.spot, c.vol, price, delta)
		}
	}
}

func TestPriceAndDeltaBounds(t *testing.T) {
	spots := []float64{50, 80, 100, 120, 200}
	for _, spot := range spots {
		price, delta := PriceAndDelta(100, 10, spot, 0.2)
		intrinsic := math.Max(spot-100, 0)
		if price < intrinsic || price > spot {
			t.Errorf("spot %v: price %v outside [%v, %v]", spot, price, intrinsic, spot)
		}
		if delta < 0 || delta > 1 {
			t.Errorf("spot %v: delta %v outside [0, 1]", spot, delta)
		}
	}
}

func TestPriceAndDeltaMonotoneInSpot(t *testing.T) {
	prevPrice, prevDelta := PriceAndDelta(100, 10, 50, 0.2)
	for spot := 55.0; spot <= 200; spot += 5 {
		price, delta := PriceAndDelta(100, 10, spot, 0.2)
		if price < prevPrice {
			t.Errorf("call price decreased with spot: %v at %v after %v", price, spot, prevPrice)
		}
		if delta < prevDelta {
			t.Errorf("delta decreased with spot: %v at %v after %v", delta, spot, prevDelta)
		}
		prevPrice, prevDelta = price, delta
	}
}

func TestPriceAndDeltaATM(t *testing.T) {
	// At the money, delta is just above one half.
	_, delta := PriceAndDelta(100, 10, 100, 0.2)
	if delta <= 0.5 || delta >= 0.8 {
		t.Errorf("ATM delta = %v, want in (0.5, 0.8)", delta)
	}
}

func TestPriceAndDeltaZeroVol(t *testing.T) {
	price, delta := PriceAndDelta(100, 10, 120, 0)
	if price != 20 || delta != 1 {
		t.Errorf("zero-vol ITM: got (%v, %v), want (20, 1)", price, delta)
	}
	price, delta = PriceAndDelta(100, 10, 100, 0)
	if price != 0 || delta != 0 {
		t.Errorf("zero-vol ATM: got (%v, %v), want (0, 0)", price, delta)
	}
}
