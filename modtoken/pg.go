package modtoken

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ TokenRepo = (*PGTokenRepo)(nil)

// PGTokenRepo stores moderator tokens in Postgres.
type PGTokenRepo struct {
	pool *pgxpool.Pool
}

func NewPGTokenRepo(pool *pgxpool.Pool) *PGTokenRepo {
	return &PGTokenRepo{pool: pool}
}

// EnsureSchema creates the backing table if it does not exist yet.
func (r *PGTokenRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS subreddit_tokens (
			subreddit TEXT PRIMARY KEY,
			refresh_token TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create subreddit_tokens table: %w", err)
	}
	return nil
}

func (r *PGTokenRepo) Save(ctx context.Context, subreddit, refreshToken string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO subreddit_tokens (subreddit, refresh_token)
		VALUES ($1, $2)
		ON CONFLICT (subreddit)
		DO UPDATE SET refresh_token = EXCLUDED.refresh_token, updated_at = now()`,
		subreddit, refreshToken)
	if err != nil {
		return fmt.Errorf("failed to save token for r/%s: %w", subreddit, err)
	}
	return nil
}

func (r *PGTokenRepo) Get(ctx context.Context, subreddit string) (string, error) {
	var refreshToken string
	err := r.pool.QueryRow(ctx,
		`SELECT refresh_token FROM subreddit_tokens WHERE subreddit = $1`,
		subreddit).Scan(&refreshToken)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token for r/%s: %w", subreddit, err)
	}
	return refreshToken, nil
}

func (r *PGTokenRepo) Delete(ctx context.Context, subreddit string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM subreddit_tokens WHERE subreddit = $1`, subreddit)
	if err != nil {
		return fmt.Errorf("failed to delete token for r/%s: %w", subreddit, err)
	}
	return nil
}
