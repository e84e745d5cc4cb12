package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"hedge-gym/internal/env"
	apperrors "hedge-gym/internal/errors"
)

// SQLiteStore implements EpisodeStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based episode store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Completed episodes
	CREATE TABLE IF NOT EXISTS episodes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
		policy TEXT NOT NULL,
		seed INTEGER NOT NULL,
		steps INTEGER NOT NULL,
		total_reward REAL NOT NULL,
		total_cost REAL NOT NULL,
		total_profit REAL NOT NULL
	);

	-- Per-step series for each episode
	CREATE TABLE IF NOT EXISTS episode_steps (
		episode_id INTEGER NOT NULL,
		step INTEGER NOT NULL,
		price REAL NOT NULL,
		option_price REAL NOT NULL,
		position INTEGER NOT NULL,
		cost REAL NOT NULL,
		profit REAL NOT NULL,
		reward REAL NOT NULL,
		PRIMARY KEY (episode_id, step),
		FOREIGN KEY (episode_id) REFERENCES episodes(id)
	);

	CREATE INDEX IF NOT EXISTS idx_episodes_policy ON episodes(policy);
	CREATE INDEX IF NOT EXISTS idx_episodes_created ON episodes(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveEpisode persists a completed episode and its full series in one
// transaction, returning the assigned episode id.
func (s *SQLiteStore) SaveEpisode(ctx context.Context, record *EpisodeRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperrors.NewStoreError("save_episode", err)
	}
	defer tx.Rollback()

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO episodes (created_at, policy, seed, steps, total_reward, total_cost, total_profit)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		createdAt, record.Policy, record.Seed, record.Steps,
		record.TotalReward, record.TotalCost, record.TotalProfit)
	if err != nil {
		return 0, apperrors.NewStoreError("save_episode", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.NewStoreError("save_episode", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO episode_steps (episode_id, step, price, option_price, position, cost, profit, reward)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, apperrors.NewStoreError("save_episode", err)
	}
	defer stmt.Close()

	for t := range record.Series.Prices {
		_, err := stmt.ExecContext(ctx, id, t,
			record.Series.Prices[t],
			record.Series.OptionPrices[t],
			record.Series.Positions[t],
			record.Series.Costs[t],
			record.Series.Profits[t],
			record.Series.Rewards[t])
		if err != nil {
			return 0, apperrors.NewStoreError("save_episode", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, apperrors.NewStoreError("save_episode", err)
	}
	return id, nil
}

// GetEpisode loads one episode with its full series.
func (s *SQLiteStore) GetEpisode(ctx context.Context, id int64) (*EpisodeRecord, error) {
	record := &EpisodeRecord{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, policy, seed, steps, total_reward, total_cost, total_profit
		FROM episodes WHERE id = ?`, id).
		Scan(&record.ID, &record.CreatedAt, &record.Policy, &record.Seed,
			&record.Steps, &record.TotalReward, &record.TotalCost, &record.TotalProfit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrDataNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get_episode", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT price, option_price, position, cost, profit, reward
		FROM episode_steps WHERE episode_id = ? ORDER BY step`, id)
	if err != nil {
		return nil, apperrors.NewStoreError("get_episode", err)
	}
	defer rows.Close()

	series := env.Series{}
	for rows.Next() {
		var price, optionPrice, cost, profit, reward float64
		var position int
		if err := rows.Scan(&price, &optionPrice, &position, &cost, &profit, &reward); err != nil {
			return nil, apperrors.NewStoreError("get_episode", err)
		}
		series.Prices = append(series.Prices, price)
		series.OptionPrices = append(series.OptionPrices, optionPrice)
		series.Positions = append(series.Positions, position)
		series.Costs = append(series.Costs, cost)
		series.Profits = append(series.Profits, profit)
		series.Rewards = append(series.Rewards, reward)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("get_episode", err)
	}
	record.Series = series
	return record, nil
}

// ListEpisodes returns episode summaries, newest first, without loading
// the per-step series.
func (s *SQLiteStore) ListEpisodes(ctx context.Context, filter EpisodeFilter) ([]EpisodeRecord, error) {
	query := `
		SELECT id, created_at, policy, seed, steps, total_reward, total_cost, total_profit
		FROM episodes`
	args := []interface{}{}
	if filter.Policy != "" {
		query += " WHERE policy = ?"
		args = append(args, filter.Policy)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("list_episodes", err)
	}
	defer rows.Close()

	var records []EpisodeRecord
	for rows.Next() {
		var r EpisodeRecord
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Policy, &r.Seed,
			&r.Steps, &r.TotalReward, &r.TotalCost, &r.TotalProfit); err != nil {
			return nil, apperrors.NewStoreError("list_episodes", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("list_episodes", err)
	}
	return records, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
