package history

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"mcquiz/internal/quiz"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "mcquiz.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			games_played INTEGER NOT NULL DEFAULT 0,
			games_won INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS game_history (
			history_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			score INTEGER NOT NULL,
			result TEXT NOT NULL,
			played_at_unix INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_history_user_played_at ON game_history(user_id, played_at_unix DESC);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Record appends the history row and bumps the user's counters in one
// transaction, so the counters can never drift from the rows.
func (s *SQLiteStore) Record(ctx context.Context, result quiz.GameResult) error {
	if result.UserID == "" {
		return errors.New("user id is required")
	}
	if result.PlayedAt.IsZero() {
		result.PlayedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO game_history (user_id, topic, score, result, played_at_unix) VALUES (?, ?, ?, ?, ?)`,
		result.UserID,
		result.Topic,
		result.Score,
		string(result.Result),
		result.PlayedAt.UnixNano(),
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO users (user_id, games_played, games_won) VALUES (?, 1, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			games_played = games_played + 1,
			games_won = games_won + excluded.games_won`,
		result.UserID,
		wonIncrement(result.Result),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) History(ctx context.Context, userID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT history_id, user_id, topic, score, result, played_at_unix
		 FROM game_history
		 WHERE user_id = ?
		 ORDER BY played_at_unix DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			entry        Entry
			playedAtUnix int64
			result       string
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Topic, &entry.Score, &result, &playedAtUnix); err != nil {
			return nil, err
		}
		entry.Result = quiz.GameOutcome(result)
		entry.PlayedAt = time.Unix(0, playedAtUnix).UTC()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Stats(ctx context.Context, userID string) (Stats, error) {
	stats := Stats{UserID: userID}
	err := s.db.QueryRowContext(
		ctx,
		`SELECT games_played, games_won FROM users WHERE user_id = ?`,
		userID,
	).Scan(&stats.GamesPlayed, &stats.GamesWon)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Stats{}, err
	}

	stats.WinRate = winRate(stats.GamesPlayed, stats.GamesWon)
	return stats, nil
}

// DeleteEntry removes one history row, scoped to the owning user so one
// player cannot delete another's games. Counters are left untouched: they
// reflect games played, not rows retained.
func (s *SQLiteStore) DeleteEntry(ctx context.Context, historyID int64, userID string) error {
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM game_history WHERE history_id = ? AND user_id = ?`,
		historyID,
		userID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}
