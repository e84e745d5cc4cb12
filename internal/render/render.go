// Package render exports a completed episode's per-step series to files,
// one pair per render call, for plotting by external tooling.
package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"hedge-gym/internal/env"
	"hedge-gym/pkg/utils"
)

// SeriesRow is one step of the main episode series: prices, position, and
// the running total of rewards.
type SeriesRow struct {
	Step             int     `csv:"step"`
	Price            float64 `csv:"price"`
	OptionPrice      float64 `csv:"option_price"`
	Position         int     `csv:"position"`
	CumulativeReward float64 `csv:"cumulative_reward"`
}

// CostProfitRow is one step of the cost/profit series.
type CostProfitRow struct {
	Step             int     `csv:"step"`
	CumulativeCost   float64 `csv:"cumulative_cost"`
	CumulativeProfit float64 `csv:"cumulative_profit"`
}

// Renderer writes episode series into a configured output directory with
// monotonically numbered file names.
type Renderer struct {
	dir   string
	count int
}

// NewRenderer creates a renderer writing into dir, creating it if needed.
func NewRenderer(dir string) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Renderer{dir: dir}, nil
}

// Render writes two files for the given series, mirroring the two plot
// groups of the environment: series_<n>.csv with prices, option prices,
// positions and cumulative rewards, and costs_profits_<n>.csv with
// cumulative costs and profits.
func (r *Renderer) Render(series env.Series) error {
	cumRewards := utils.CumSum(series.Rewards)
	rows := make([]SeriesRow, len(series.Prices))
	for t := range series.Prices {
		rows[t] = SeriesRow{
			Step:             t,
			Price:            series.Prices[t],
			OptionPrice:      series.OptionPrices[t],
			Position:         series.Positions[t],
			CumulativeReward: cumRewards[t],
		}
	}
	if err := r.writeCSV(fmt.Sprintf("series_%d.csv", r.count), rows); err != nil {
		return err
	}

	cumCosts := utils.CumSum(series.Costs)
	cumProfits := utils.CumSum(series.Profits)
	cpRows := make([]CostProfitRow, len(series.Costs))
	for t := range series.Costs {
		cpRows[t] = CostProfitRow{
			Step:             t,
			CumulativeCost:   cumCosts[t],
			CumulativeProfit: cumProfits[t],
		}
	}
	if err := r.writeCSV(fmt.Sprintf("costs_profits_%d.csv", r.count), cpRows); err != nil {
		return err
	}

	r.count++
	return nil
}

func (r *Renderer) writeCSV(name string, rows interface{}) error {
	path := filepath.Join(r.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer f.Close()

	if err := gocsv.Marshal(rows, f); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
