// Package store provides episode persistence interfaces and
// implementations.
package store

import (
	"context"
	"time"

	"hedge-gym/internal/env"
)

// EpisodeRecord is one completed episode with its full per-step series.
type EpisodeRecord struct {
	ID          int64
	CreatedAt   time.Time
	Policy      string
	Seed        int64
	Steps       int
	TotalReward float64
	TotalCost   float64
	TotalProfit float64
	Series      env.Series
}

// EpisodeFilter represents filters for querying episodes.
type EpisodeFilter struct {
	Policy string
	Limit  int
}

// EpisodeStore defines the interface for episode persistence.
type EpisodeStore interface {
	SaveEpisode(ctx context.Context, record *EpisodeRecord) (int64, error)
	GetEpisode(ctx context.Context, id int64) (*EpisodeRecord, error)
	ListEpisodes(ctx context.Context, filter EpisodeFilter) ([]EpisodeRecord, error)
	Close() error
}
