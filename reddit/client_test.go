package reddit_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xkjyeah/myinfo-reddit/reddit"
)

const (
	testRedditClientID = "test-reddit-client-id"
	testRedditSecret   = "test-reddit-client-secret"
	testRedirectURI    = "https://example.com/api/reddit/callback"
	testUserAgent      = "myinfo-reddit test agent"
)

func TestAuthorizationURL(t *testing.T) {
	client := reddit.New(testRedditClientID, testRedditSecret, testRedirectURI, testUserAgent)

	t.Run("moderator grant requests a permanent token", func(t *testing.T) {
		st := reddit.NewState(reddit.ModeratorScopes, "testsubreddit")
		rawURL, err := client.AuthorizationURL(st, true)
		require.NoError(t, err)

		u, err := url.Parse(rawURL)
		require.NoError(t, err)
		require.Equal(t, "https://www.reddit.com", u.Scheme+"://"+u.Host)
		require.Equal(t, "/api/v1/authorize", u.Path)

		q := u.Query()
		require.Equal(t, testRedditClientID, q.Get("client_id"))
		require.Equal(t, "code", q.Get("response_type"))
		require.Equal(t, "modflair flair", q.Get("scope"))
		require.Equal(t, testRedirectURI, q.Get("redirect_uri"))
		require.Equal(t, "permanent", q.Get("duration"))

		decoded, err := reddit.DecodeState(q.Get("state"))
		require.NoError(t, err)
		require.Equal(t, st, decoded)
	})

	t.Run("identity grant omits duration", func(t *testing.T) {
		rawURL, err := client.AuthorizationURL(reddit.NewState(reddit.IdentityScopes, ""), false)
		require.NoError(t, err)

		u, err := url.Parse(rawURL)
		require.NoError(t, err)
		q := u.Query()
		require.Equal(t, "identity", q.Get("scope"))
		require.False(t, q.Has("duration"))
	})
}

func TestExchange(t *testing.T) {
	srv := newFakeReddit(t)
	defer srv.Close()
	client := srv.newClient()

	token, err := client.Exchange(context.Background(), "mod-auth-code")
	require.NoError(t, err)
	require.Equal(t, "mock-access-token", token.AccessToken)
	require.Equal(t, "mock-moderator-refresh-token", token.RefreshToken)

	form := srv.tokenForm()
	require.Equal(t, "authorization_code", form.Get("grant_type"))
	require.Equal(t, "mod-auth-code", form.Get("code"))
	require.Equal(t, testRedirectURI, form.Get("redirect_uri"))
	require.Equal(t, testRedditClientID, srv.basicUser())
}

func TestRefreshAccessToken(t *testing.T) {
	srv := newFakeReddit(t)
	defer srv.Close()
	client := srv.newClient()

	accessToken, err := client.RefreshAccessToken(context.Background(), "mock-refresh-token")
	require.NoError(t, err)
	require.Equal(t, "mock-access-token", accessToken)

	form := srv.tokenForm()
	require.Equal(t, "refresh_token", form.Get("grant_type"))
	require.Equal(t, "mock-refresh-token", form.Get("refresh_token"))
}

func TestMe(t *testing.T) {
	srv := newFakeReddit(t)
	defer srv.Close()
	client := srv.newClient()

	username, err := client.Me(context.Background(), "mock-access-token")
	require.NoError(t, err)
	require.Equal(t, "mock_test_user", username)
	require.Equal(t, testUserAgent, srv.lastUserAgent())
}

func TestFlairTemplates(t *testing.T) {
	srv := newFakeReddit(t)
	defer srv.Close()
	client := srv.newClient()

	templates, err := client.FlairTemplates(context.Background(), "mock-access-token", "testsubreddit")
	require.NoError(t, err)
	require.Len(t, templates, 1)
	require.Equal(t, "Citizen", templates[0].Text)
	require.Equal(t, "sg-verified-citizen", templates[0].CSSClass)
}

func TestSetFlairCSV(t *testing.T) {
	srv := newFakeReddit(t)
	defer srv.Close()
	client := srv.newClient()

	err := client.SetFlairCSV(context.Background(), "mock-access-token", "testsubreddit",
		`"mock_test_user","Citizen","sg-verified-citizen"`)
	require.NoError(t, err)
	require.Equal(t, `"mock_test_user","Citizen","sg-verified-citizen"`, srv.flairCSV())
	require.Equal(t, "Bearer mock-access-token", srv.lastAuthorization())
}

func TestCurrentUserFlair(t *testing.T) {
	srv := newFakeReddit(t)
	defer srv.Close()
	client := srv.newClient()

	flair, err := client.CurrentUserFlair(context.Background(), "mock-access-token", "testsubreddit", "mock_test_user")
	require.NoError(t, err)
	require.Equal(t, "Citizen", flair.Text)
	require.Equal(t, "sg-verified-citizen", flair.CSSClass)
}

func TestDeleteUserFlair(t *testing.T) {
	srv := newFakeReddit(t)
	defer srv.Close()
	client := srv.newClient()

	err := client.DeleteUserFlair(context.Background(), "mock-access-token", "testsubreddit", "mock_test_user")
	require.NoError(t, err)
}

func TestAPIErrorSurfaced(t *testing.T) {
	srv := newFakeReddit(t)
	defer srv.Close()
	srv.failAPI = true
	client := srv.newClient()

	_, err := client.FlairTemplates(context.Background(), "mock-access-token", "testsubreddit")
	require.Error(t, err)
	require.Contains(t, err.Error(), "403")
}

// fakeReddit serves both the www token host and the oauth data host
// from one httptest server.
type fakeReddit struct {
	srv     *httptest.Server
	failAPI bool

	mu        sync.Mutex
	form      url.Values
	basic     string
	userAgent string
	auth      string
	csv       string
}

func newFakeReddit(t *testing.T) *fakeReddit {
	t.Helper()
	fake := &fakeReddit{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		user, _, _ := r.BasicAuth()
		fake.mu.Lock()
		fake.form = r.PostForm
		fake.basic = user
		fake.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "mock-access-token",
			"token_type":    "bearer",
			"expires_in":    3600,
			"refresh_token": "mock-moderator-refresh-token",
			"scope":         "modflair flair",
		})
	})
	mux.HandleFunc("GET /api/v1/me", func(w http.ResponseWriter, r *http.Request) {
		fake.record(r)
		_ = json.NewEncoder(w).Encode(map[string]any{"name": "mock_test_user"})
	})
	mux.HandleFunc("GET /r/testsubreddit/api/user_flair_v2", func(w http.ResponseWriter, r *http.Request) {
		fake.record(r)
		if fake.failAPI {
			http.Error(w, `{"error": 403}`, http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{{
			"text":             "Citizen",
			"text_color":       "light",
			"background_color": "#00a6a5",
			"mod_only":         false,
			"css_class":        "sg-verified-citizen",
			"type":             "text",
		}})
	})
	mux.HandleFunc("POST /r/testsubreddit/api/flaircsv", func(w http.ResponseWriter, r *http.Request) {
		fake.record(r)
		_ = r.ParseForm()
		fake.mu.Lock()
		fake.csv = r.PostForm.Get("flair_csv")
		fake.mu.Unlock()
		_ = json.NewEncoder(w).Encode([]map[string]any{{"ok": true}})
	})
	mux.HandleFunc("POST /r/testsubreddit/api/flairselector", func(w http.ResponseWriter, r *http.Request) {
		fake.record(r)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"current": map[string]any{
				"flair_text":      "Citizen",
				"flair_css_class": "sg-verified-citizen",
			},
		})
	})
	mux.HandleFunc("POST /r/testsubreddit/api/deleteflair", func(w http.ResponseWriter, r *http.Request) {
		fake.record(r)
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})

	fake.srv = httptest.NewServer(mux)
	return fake
}

func (f *fakeReddit) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userAgent = r.Header.Get("User-Agent")
	f.auth = r.Header.Get("Authorization")
}

func (f *fakeReddit) newClient() *reddit.Client {
	return reddit.New(testRedditClientID, testRedditSecret, testRedirectURI, testUserAgent,
		reddit.WithBaseURLs(f.srv.URL, f.srv.URL))
}

func (f *fakeReddit) tokenForm() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

func (f *fakeReddit) basicUser() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.basic
}

func (f *fakeReddit) lastUserAgent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userAgent
}

func (f *fakeReddit) lastAuthorization() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auth
}

func (f *fakeReddit) flairCSV() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.csv
}

func (f *fakeReddit) Close() { f.srv.Close() }
