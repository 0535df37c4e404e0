package checkpoint

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversation_checkpoints (
	thread_id  TEXT PRIMARY KEY,
	state      JSONB NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore persists checkpoints in Postgres so sessions survive
// restarts.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to Postgres and ensures the checkpoint table
// exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create checkpoint table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Put(ctx context.Context, threadID string, state json.RawMessage, title string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversation_checkpoints (thread_id, state, title)
		VALUES ($1, $2, $3)
		ON CONFLICT (thread_id) DO UPDATE SET
			state = EXCLUDED.state,
			title = CASE WHEN conversation_checkpoints.title = '' THEN EXCLUDED.title ELSE conversation_checkpoints.title END,
			updated_at = now()`,
		threadID, []byte(state), title)
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

func (s *PostgresStore) Latest(ctx context.Context, threadID string) (*Checkpoint, bool, error) {
	var cp Checkpoint
	var state []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT thread_id, state, title, created_at, updated_at
		FROM conversation_checkpoints WHERE thread_id = $1`,
		threadID).Scan(&cp.ThreadID, &state, &cp.Title, &cp.CreatedAt, &cp.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load checkpoint: %w", err)
	}
	cp.State = state
	return &cp, true, nil
}

func (s *PostgresStore) Threads(ctx context.Context) ([]ThreadInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT thread_id, title, updated_at
		FROM conversation_checkpoints ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	defer rows.Close()

	var infos []ThreadInfo
	for rows.Next() {
		var info ThreadInfo
		if err := rows.Scan(&info.ThreadID, &info.Title, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan thread: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, threadID string) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM conversation_checkpoints WHERE thread_id = $1`, threadID); err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Open selects a store from the configured driver.
func Open(ctx context.Context, driver, postgresURL string) (Store, error) {
	switch driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "postgres":
		if postgresURL == "" {
			return nil, fmt.Errorf("postgres checkpoint driver requires a connection URL")
		}
		return NewPostgresStore(ctx, postgresURL)
	default:
		return nil, fmt.Errorf("unknown checkpoint driver %q", driver)
	}
}
