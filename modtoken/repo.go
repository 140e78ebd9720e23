// Package modtoken stores the long-lived Reddit refresh tokens that
// subreddit moderators grant during onboarding, keyed by subreddit.
package modtoken

import "context"

// TokenRepo persists moderator refresh tokens. Get returns an empty
// string when the subreddit was never onboarded; writes are
// last-writer-wins upserts.
type TokenRepo interface {
	Save(ctx context.Context, subreddit, refreshToken string) error
	Get(ctx context.Context, subreddit string) (string, error)
	Delete(ctx context.Context, subreddit string) error
}
