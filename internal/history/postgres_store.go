package history

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mcquiz/internal/quiz"
)

// PostgresStore is the Store implementation for deployments that already run
// Postgres. Same contract and schema shape as the SQLite store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	store := &PostgresStore{pool: pool}
	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			games_played INTEGER NOT NULL DEFAULT 0,
			games_won INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS game_history (
			history_id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			score INTEGER NOT NULL,
			result TEXT NOT NULL,
			played_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_history_user_played_at ON game_history(user_id, played_at DESC);`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) Record(ctx context.Context, result quiz.GameResult) error {
	if result.UserID == "" {
		return errors.New("user id is required")
	}
	if result.PlayedAt.IsZero() {
		result.PlayedAt = time.Now().UTC()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(
		ctx,
		`INSERT INTO game_history (user_id, topic, score, result, played_at) VALUES ($1, $2, $3, $4, $5)`,
		result.UserID,
		result.Topic,
		result.Score,
		string(result.Result),
		result.PlayedAt,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(
		ctx,
		`INSERT INTO users (user_id, games_played, games_won) VALUES ($1, 1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET
			games_played = users.games_played + 1,
			games_won = users.games_won + EXCLUDED.games_won`,
		result.UserID,
		wonIncrement(result.Result),
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) History(ctx context.Context, userID string) ([]Entry, error) {
	rows, err := s.pool.Query(
		ctx,
		`SELECT history_id, user_id, topic, score, result, played_at
		 FROM game_history
		 WHERE user_id = $1
		 ORDER BY played_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			entry  Entry
			result string
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Topic, &entry.Score, &result, &entry.PlayedAt); err != nil {
			return nil, err
		}
		entry.Result = quiz.GameOutcome(result)
		entry.PlayedAt = entry.PlayedAt.UTC()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) Stats(ctx context.Context, userID string) (Stats, error) {
	stats := Stats{UserID: userID}
	err := s.pool.QueryRow(
		ctx,
		`SELECT games_played, games_won FROM users WHERE user_id = $1`,
		userID,
	).Scan(&stats.GamesPlayed, &stats.GamesWon)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return Stats{}, err
	}

	stats.WinRate = winRate(stats.GamesPlayed, stats.GamesWon)
	return stats, nil
}

func (s *PostgresStore) DeleteEntry(ctx context.Context, historyID int64, userID string) error {
	tag, err := s.pool.Exec(
		ctx,
		`DELETE FROM game_history WHERE history_id = $1 AND user_id = $2`,
		historyID,
		userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}
