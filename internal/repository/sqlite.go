package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/ward-risk-dashboard/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// :memory: databases are per connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS preferences (
			username TEXT NOT NULL,
			pref_key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (username, pref_key)
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteDB) CreateSession(ctx context.Context, sess *models.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, username, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.Username, sess.CreatedAt.UnixMilli(), sess.ExpiresAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("error inserting session: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var (
		sess               models.Session
		created, expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, created_at, expires_at FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.Username, &created, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying session: %w", err)
	}
	sess.CreatedAt = time.UnixMilli(created)
	sess.ExpiresAt = time.UnixMilli(expiresAt)
	return &sess, nil
}

func (s *SQLiteDB) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

func (s *SQLiteDB) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("error deleting expired sessions: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteDB) GetPreference(ctx context.Context, username, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE username = ? AND pref_key = ?`, username, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("error querying preference: %w", err)
	}
	return value, nil
}

func (s *SQLiteDB) SetPreference(ctx context.Context, username, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (username, pref_key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (username, pref_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		username, key, value, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("error saving preference: %w", err)
	}
	return nil
}
