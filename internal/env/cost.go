package env

// CostModel converts a change in hedge position into a trading cost:
// a linear component plus a convex market-impact term.
type CostModel struct {
	tickSize float64
}

// NewCostModel creates a cost model with the given tick size.
func NewCostModel(tickSize float64) CostModel {
	return CostModel{tickSize: tickSize}
}

// Cost returns the cost of trading tradeSize units. It is zero when no
// trade occurs and strictly increasing and convex for tradeSize >= 0.
func (c CostModel) Cost(tradeSize float64) float64 {
	return c.tickSize * (tradeSize + 0.01*tradeSize*tradeSize)
}
