package reddit

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

const (
	defaultAuthBaseURL = "https://www.reddit.com"
	defaultAPIBaseURL  = "https://oauth.reddit.com"
)

// Client talks to Reddit's OAuth2 and data APIs. Reddit rejects
// requests without a descriptive User-Agent, so every outgoing request
// carries the configured one.
type Client struct {
	oauthCfg    *oauth2.Config
	userAgent   string
	apiBaseURL  string
	authBaseURL string
	httpClient  *http.Client
}

// Option adjusts Client construction, mainly so tests can point it at
// local doubles.
type Option func(*Client)

// WithBaseURLs overrides the authorize/token host and the data API host.
func WithBaseURLs(authBaseURL, apiBaseURL string) Option {
	return func(c *Client) {
		c.authBaseURL = strings.TrimSuffix(authBaseURL, "/")
		c.apiBaseURL = strings.TrimSuffix(apiBaseURL, "/")
	}
}

// WithHTTPClient overrides the transport used for all Reddit calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func New(clientID, clientSecret, redirectURL, userAgent string, opts ...Option) *Client {
	client := &Client{
		userAgent:   userAgent,
		authBaseURL: defaultAuthBaseURL,
		apiBaseURL:  defaultAPIBaseURL,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(client)
	}

	client.oauthCfg = &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   client.authBaseURL + "/api/v1/authorize",
			TokenURL:  client.authBaseURL + "/api/v1/access_token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	client.httpClient = &http.Client{
		Transport: userAgentTransport{agent: userAgent, base: client.httpClient.Transport},
		Timeout:   client.httpClient.Timeout,
	}
	return client
}

// AuthorizationURL builds the authorize URL for a state blob. permanent
// adds duration=permanent, which is what makes Reddit issue a refresh
// token alongside the access token.
func (c *Client) AuthorizationURL(st State, permanent bool) (string, error) {
	encoded, err := st.Encode()
	if err != nil {
		return "", err
	}

	cfg := *c.oauthCfg
	cfg.Scopes = st.Scopes

	var opts []oauth2.AuthCodeOption
	if permanent {
		opts = append(opts, oauth2.SetAuthURLParam("duration", "permanent"))
	}
	return cfg.AuthCodeURL(encoded, opts...), nil
}

// Exchange performs the authorization-code grant.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.oauthCfg.Exchange(c.oauthContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}

// RefreshAccessToken turns a stored refresh token into a short-lived
// access token.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	source := c.oauthCfg.TokenSource(c.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("failed to refresh access token: %w", err)
	}
	return token.AccessToken, nil
}

func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

type userAgentTransport struct {
	agent string
	base  http.RoundTripper
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.agent)
	return base.RoundTrip(clone)
}
