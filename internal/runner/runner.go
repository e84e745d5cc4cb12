// Package runner executes batches of hedging episodes with a chosen
// policy, optionally persisting and rendering the results.
package runner

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hedge-gym/internal/env"
	"hedge-gym/internal/logging"
	"hedge-gym/internal/policy"
	"hedge-gym/internal/render"
	"hedge-gym/internal/store"
	"hedge-gym/pkg/utils"
)

// Options configures one batch run.
type Options struct {
	Episodes int
	Seed     int64
	Workers  int
	Policy   string
	Render   bool
}

// Summary is the result of one completed episode.
type Summary struct {
	Episode     int     `json:"episode"`
	Seed        int64   `json:"seed"`
	Steps       int     `json:"steps"`
	TotalReward float64 `json:"total_reward"`
	TotalCost   float64 `json:"total_cost"`
	TotalProfit float64 `json:"total_profit"`
	FinalPrice  float64 `json:"final_price"`
	StoreID     int64   `json:"store_id,omitempty"`
}

type episodeResult struct {
	summary Summary
	series  env.Series
	err     error
}

// Runner runs episodes against a fixed parameter set.
type Runner struct {
	params   env.Parameters
	logger   zerolog.Logger
	store    store.EpisodeStore
	renderer *render.Renderer
}

// New creates a runner. st may be a NoopStore; renderer may be nil when
// rendering is disabled.
func New(params env.Parameters, logger zerolog.Logger, st store.EpisodeStore, renderer *render.Renderer) *Runner {
	return &Runner{
		params:   params,
		logger:   logger,
		store:    st,
		renderer: renderer,
	}
}

// Run executes opts.Episodes episodes and returns their summaries in
// episode order. Episodes are independent: each gets its own Episode
// instance and its own random source seeded from opts.Seed plus the
// episode index, so results are reproducible for a fixed seed regardless
// of worker count.
func (r *Runner) Run(ctx context.Context, opts Options) ([]Summary, error) {
	if opts.Episodes < 1 {
		return nil, fmt.Errorf("episodes must be at least 1, got %d", opts.Episodes)
	}

	logger := logging.WithPolicy(r.logger, opts.Policy)
	logger.Info().
		Int("episodes", opts.Episodes).
		Int64("seed", opts.Seed).
		Int("workers", opts.Workers).
		Msg("Starting batch run")

	results := make([]episodeResult, opts.Episodes)

	pool := newWorkerPool(opts.Workers)
	pool.start()

	var wg sync.WaitGroup
	for i := 0; i < opts.Episodes; i++ {
		i := i
		wg.Add(1)
		ok := pool.submit(func() {
			defer wg.Done()
			results[i] = r.runEpisode(ctx, i, opts)
		})
		if !ok {
			wg.Done()
			results[i].err = fmt.Errorf("submitting episode %d: pool stopped", i)
		}
	}
	wg.Wait()
	pool.stop()

	// Persist and render serially; the store and renderer are not part of
	// the per-worker state.
	summaries := make([]Summary, opts.Episodes)
	for i := range results {
		if results[i].err != nil {
			return nil, fmt.Errorf("episode %d: %w", i, results[i].err)
		}
		if err := r.finishEpisode(ctx, &results[i], opts); err != nil {
			return nil, fmt.Errorf("episode %d: %w", i, err)
		}
		summaries[i] = results[i].summary
	}
	return summaries, nil
}

// runEpisode runs one full episode to its horizon.
func (r *Runner) runEpisode(ctx context.Context, index int, opts Options) episodeResult {
	seed := opts.Seed + int64(index)
	rng := rand.New(rand.NewSource(seed))

	pol, err := policy.ForName(opts.Policy, r.params, rng)
	if err != nil {
		return episodeResult{err: err}
	}

	episode := env.NewEpisode(r.params, rng)
	obs := episode.Reset()

	for {
		if err := ctx.Err(); err != nil {
			return episodeResult{err: err}
		}
		next, _, done, err := episode.Step(pol(obs))
		if err != nil {
			return episodeResult{err: fmt.Errorf("stepping episode: %w", err)}
		}
		obs = next
		if done {
			break
		}
	}

	series := episode.Series()
	summary := Summary{
		Episode:     index,
		Seed:        seed,
		Steps:       episode.StepCount(),
		TotalReward: utils.Sum(series.Rewards),
		TotalCost:   utils.Sum(series.Costs),
		TotalProfit: utils.Sum(series.Profits),
		FinalPrice:  series.Prices[len(series.Prices)-1],
	}

	logging.LogEpisodeDone(logging.WithEpisode(r.logger, index),
		index, summary.Steps, summary.TotalReward, summary.TotalCost)
	return episodeResult{summary: summary, series: series}
}

// finishEpisode persists and renders one episode's series.
func (r *Runner) finishEpisode(ctx context.Context, result *episodeResult, opts Options) error {
	if r.store != nil {
		id, err := r.store.SaveEpisode(ctx, &store.EpisodeRecord{
			CreatedAt:   time.Now(),
			Policy:      opts.Policy,
			Seed:        result.summary.Seed,
			Steps:       result.summary.Steps,
			TotalReward: result.summary.TotalReward,
			TotalCost:   result.summary.TotalCost,
			TotalProfit: result.summary.TotalProfit,
			Series:      result.series,
		})
		if err != nil {
			return fmt.Errorf("saving episode: %w", err)
		}
		result.summary.StoreID = id
	}

	if opts.Render && r.renderer != nil {
		if err := r.renderer.Render(result.series); err != nil {
			return fmt.Errorf("rendering episode: %w", err)
		}
	}
	return nil
}
