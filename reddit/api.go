package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// FlairTemplate is one entry of a subreddit's user-flair template list
// as returned by /api/user_flair_v2.
type FlairTemplate struct {
	Text            string `json:"text"`
	TextColor       string `json:"text_color"`
	BackgroundColor string `json:"background_color"`
	ModOnly         bool   `json:"mod_only"`
	CSSClass        string `json:"css_class"`
	Type            string `json:"type"`
}

// UserFlair is a user's currently assigned flair in a subreddit.
type UserFlair struct {
	Text     string `json:"flair_text"`
	CSSClass string `json:"flair_css_class"`
}

// Me returns the authenticated account's username.
func (c *Client) Me(ctx context.Context, accessToken string) (string, error) {
	var identity struct {
		Name string `json:"name"`
	}
	err := c.apiCall(ctx, http.MethodGet, "/api/v1/me", accessToken, nil, &identity)
	if err != nil {
		return "", err
	}
	if identity.Name == "" {
		return "", fmt.Errorf("identity response has no username")
	}
	return identity.Name, nil
}

// FlairTemplates lists a subreddit's user-flair templates. Succeeding
// requires mod rights on the subreddit, which also makes this the
// moderator check during onboarding.
func (c *Client) FlairTemplates(ctx context.Context, accessToken, subreddit string) ([]FlairTemplate, error) {
	var templates []FlairTemplate
	path := fmt.Sprintf("/r/%s/api/user_flair_v2", url.PathEscape(subreddit))
	if err := c.apiCall(ctx, http.MethodGet, path, accessToken, nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// SetFlairCSV bulk-assigns flair rows via /api/flaircsv. Each row is
// `"username","text","css_class"`.
func (c *Client) SetFlairCSV(ctx context.Context, accessToken, subreddit, flairCSV string) error {
	path := fmt.Sprintf("/r/%s/api/flaircsv", url.PathEscape(subreddit))
	form := url.Values{"flair_csv": {flairCSV}}
	return c.apiCall(ctx, http.MethodPost, path, accessToken, form, nil)
}

// CurrentUserFlair fetches a user's current flair in the subreddit via
// the flair selector endpoint.
func (c *Client) CurrentUserFlair(ctx context.Context, accessToken, subreddit, username string) (UserFlair, error) {
	var selector struct {
		Current UserFlair `json:"current"`
	}
	path := fmt.Sprintf("/r/%s/api/flairselector", url.PathEscape(subreddit))
	form := url.Values{"name": {username}}
	if err := c.apiCall(ctx, http.MethodPost, path, accessToken, form, &selector); err != nil {
		return UserFlair{}, err
	}
	return selector.Current, nil
}

// DeleteUserFlair removes a user's flair in the subreddit.
func (c *Client) DeleteUserFlair(ctx context.Context, accessToken, subreddit, username string) error {
	path := fmt.Sprintf("/r/%s/api/deleteflair", url.PathEscape(subreddit))
	form := url.Values{"name": {username}}
	return c.apiCall(ctx, http.MethodPost, path, accessToken, form, nil)
}

func (c *Client) apiCall(ctx context.Context, method, path, accessToken string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request to %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
