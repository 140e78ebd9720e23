package flair

import (
	"context"
	"fmt"

	"github.com/xkjyeah/myinfo-reddit/reddit"
)

// RedditAPI is the slice of the Reddit client the engine needs.
type RedditAPI interface {
	FlairTemplates(ctx context.Context, accessToken, subreddit string) ([]reddit.FlairTemplate, error)
	SetFlairCSV(ctx context.Context, accessToken, subreddit, flairCSV string) error
	CurrentUserFlair(ctx context.Context, accessToken, subreddit, username string) (reddit.UserFlair, error)
	DeleteUserFlair(ctx context.Context, accessToken, subreddit, username string) error
}

// Engine resolves a subreddit's verified-flair templates and assigns
// them to users by residential status.
type Engine struct {
	api RedditAPI
}

func NewEngine(api RedditAPI) *Engine {
	return &Engine{api: api}
}

// ResolveTemplates fetches the subreddit's template list and maps it to
// statuses. Fails with ErrNoFlairs when the subreddit has no templates.
func (e *Engine) ResolveTemplates(ctx context.Context, accessToken, subreddit string) (map[Status]reddit.FlairTemplate, error) {
	templates, err := e.api.FlairTemplates(ctx, accessToken, subreddit)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, ErrNoFlairs
	}
	return MatchTemplates(templates), nil
}

// Assign sets the user's flair to the template for their status. When
// no template maps to the status the user keeps their flair, except
// that a lingering verified flair is deleted since their status clearly
// no longer warrants it.
func (e *Engine) Assign(ctx context.Context, accessToken, subreddit, username string, status Status, templates map[Status]reddit.FlairTemplate) error {
	if tpl, ok := templates[status]; ok {
		row := CSVRow(username, tpl.Text, tpl.CSSClass)
		if err := e.api.SetFlairCSV(ctx, accessToken, subreddit, row); err != nil {
			return fmt.Errorf("failed to set flair for %s: %w", username, err)
		}
		return nil
	}

	current, err := e.api.CurrentUserFlair(ctx, accessToken, subreddit, username)
	if err != nil {
		return fmt.Errorf("failed to read current flair for %s: %w", username, err)
	}
	if IsVerifiedClass(current.CSSClass) {
		if err := e.api.DeleteUserFlair(ctx, accessToken, subreddit, username); err != nil {
			return fmt.Errorf("failed to delete stale flair for %s: %w", username, err)
		}
	}
	return nil
}
