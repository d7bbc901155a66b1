package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parkerwhite/eqchat/internal/model/chat"
)

// PostgresStore implements Store on a pgx connection pool. One row is
// inserted per message; created_at is assigned by the database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database and verifies the connection.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema creates the chats table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chats (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_chats_user_created ON chats (user_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure chats schema: %w", err)
	}
	return nil
}

// Save inserts one conversation row.
func (s *PostgresStore) Save(ctx context.Context, row chat.HistoryRow) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO chats (user_id, role, content) VALUES ($1, $2, $3)`,
		row.UserID, row.Role, row.Content,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat row: %w", err)
	}
	return nil
}

// ListByUser returns the user's rows ordered by creation time ascending.
// The serial id breaks created_at ties so a turn pair written in the same
// instant never replays reversed.
func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]chat.HistoryRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, role, content, created_at
		 FROM chats
		 WHERE user_id = $1
		 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat rows: %w", err)
	}
	defer rows.Close()

	history := make([]chat.HistoryRow, 0)
	for rows.Next() {
		var row chat.HistoryRow
		if err := rows.Scan(&row.UserID, &row.Role, &row.Content, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		history = append(history, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chat rows: %w", err)
	}

	return history, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
