package store

import (
	"context"

	apperrors "hedge-gym/internal/errors"
)

// NoopStore implements EpisodeStore without persisting anything, for runs
// where saving episodes is disabled.
type NoopStore struct{}

// NewNoopStore creates a no-op episode store.
func NewNoopStore() *NoopStore { return &NoopStore{} }

func (*NoopStore) SaveEpisode(context.Context, *EpisodeRecord) (int64, error) { return 0, nil }

func (*NoopStore) GetEpisode(context.Context, int64) (*EpisodeRecord, error) {
	return nil, apperrors.ErrDataNotFound
}

func (*NoopStore) ListEpisodes(context.Context, EpisodeFilter) ([]EpisodeRecord, error) {
	return nil, nil
}

func (*NoopStore) Close() error { return nil }
