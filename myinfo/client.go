package myinfo

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	jose "github.com/go-jose/go-jose/v4"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Scope is the fixed scope requested from the identity provider.
const Scope = "openid residentialstatus"

const (
	clientAssertionType = "urn:ietf:params:oauth:client-assertion-type:jwt-bearer"
	clientAssertionTTL  = 60 * time.Second
)

// ErrInvalidState is returned when the callback's transaction state is
// missing or does not match the state issued at login. It is detected
// before any network call.
var ErrInvalidState = errors.New("invalid state")

// Transaction is the per-login-attempt secret material. The caller
// persists it (as cookies) between the login redirect and the callback.
type Transaction struct {
	CodeVerifier string
	State        string
	Nonce        string
}

// UserInfo is the subset of the userinfo response this app cares about.
// ResidentialStatus is empty when the provider did not return the claim.
type UserInfo struct {
	Sub               string
	ResidentialStatus string
}

// Client is an OIDC relying party for the MyInfo identity provider. It
// authenticates to the token endpoint with a private-key JWT assertion and
// decrypts/verifies the (possibly JWE-wrapped, JWS-signed) userinfo
// response.
//
// Provider discovery runs once and is cached for the client's lifetime;
// concurrent first uses race benignly (identical values, last writer wins).
type Client struct {
	issuer      string
	clientID    string
	redirectURL string
	sigKey      *ecdsa.PrivateKey
	encKey      *ecdsa.PrivateKey
	httpClient  *http.Client

	mu  sync.RWMutex
	cfg *providerConfig
}

type providerConfig struct {
	provider         *oidc.Provider
	verifier         *oidc.IDTokenVerifier
	keySet           oidc.KeySet
	tokenEndpoint    string
	userInfoEndpoint string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for all provider calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a MyInfo client. sigKey signs client assertions; encKey
// decrypts encrypted userinfo responses.
func New(issuer, clientID, redirectURL string, sigKey, encKey *ecdsa.PrivateKey, opts ...Option) *Client {
	c := &Client{
		issuer:      issuer,
		clientID:    clientID,
		redirectURL: redirectURL,
		sigKey:      sigKey,
		encKey:      encKey,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// configuration returns the cached provider metadata, fetching it on first
// use. A failed fetch is not cached, so the next request retries.
func (c *Client) configuration(ctx context.Context) (*providerConfig, error) {
	c.mu.RLock()
	cfg := c.cfg
	c.mu.RUnlock()
	if cfg != nil {
		return cfg, nil
	}

	// The provider's key set outlives this request, so it must not be
	// bound to the request context.
	bctx := oidc.ClientContext(context.Background(), c.httpClient)
	provider, err := oidc.NewProvider(bctx, c.issuer)
	if err != nil {
		return nil, fmt.Errorf("provider discovery failed: %w", err)
	}

	var meta struct {
		TokenEndpoint    string `json:"token_endpoint"`
		UserInfoEndpoint string `json:"userinfo_endpoint"`
		JWKSURI          string `json:"jwks_uri"`
	}
	if err := provider.Claims(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode provider metadata: %w", err)
	}

	cfg = &providerConfig{
		provider: provider,
		verifier: provider.Verifier(&oidc.Config{
			ClientID:             c.clientID,
			SupportedSigningAlgs: []string{oidc.ES256},
		}),
		keySet:           oidc.NewRemoteKeySet(bctx, meta.JWKSURI),
		tokenEndpoint:    meta.TokenEndpoint,
		userInfoEndpoint: meta.UserInfoEndpoint,
	}

	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()

	return cfg, nil
}

// AuthorizationURL builds the provider's authorization URL with a fresh
// PKCE challenge, state and nonce. The returned Transaction must be
// persisted by the caller and presented again at ExchangeCode.
func (c *Client) AuthorizationURL(ctx context.Context) (string, Transaction, error) {
	cfg, err := c.configuration(ctx)
	if err != nil {
		return "", Transaction{}, err
	}

	tx := Transaction{
		CodeVerifier: NewCodeVerifier(),
		State:        randomHex(16),
		Nonce:        randomHex(16),
	}

	u, err := url.Parse(cfg.provider.Endpoint().AuthURL)
	if err != nil {
		return "", Transaction{}, fmt.Errorf("invalid authorization endpoint: %w", err)
	}
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", c.clientID)
	q.Set("scope", Scope)
	q.Set("code_challenge", CodeChallenge(tx.CodeVerifier))
	q.Set("code_challenge_method", "S256")
	q.Set("redirect_uri", c.redirectURL)
	q.Set("state", tx.State)
	q.Set("nonce", tx.Nonce)
	u.RawQuery = q.Encode()

	return u.String(), tx, nil
}

// ExchangeCode validates the callback's transaction state, exchanges the
// authorization code for tokens and returns the verified userinfo claims.
// State validation happens before any network call.
func (c *Client) ExchangeCode(ctx context.Context, code, state string, tx Transaction) (UserInfo, error) {
	if code == "" || state == "" || tx.CodeVerifier == "" || tx.State == "" || tx.Nonce == "" || state != tx.State {
		return UserInfo{}, ErrInvalidState
	}

	cfg, err := c.configuration(ctx)
	if err != nil {
		return UserInfo{}, err
	}

	assertion, err := c.clientAssertion(cfg.tokenEndpoint)
	if err != nil {
		return UserInfo{}, fmt.Errorf("failed to sign client assertion: %w", err)
	}

	form := url.Values{
		"grant_type":            {"authorization_code"},
		"code":                  {code},
		"redirect_uri":          {c.redirectURL},
		"code_verifier":         {tx.CodeVerifier},
		"client_id":             {c.clientID},
		"client_assertion_type": {clientAssertionType},
		"client_assertion":      {assertion},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return UserInfo{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UserInfo{}, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var oauthErr struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&oauthErr)
		return UserInfo{}, fmt.Errorf("token endpoint returned %d: %s %s", resp.StatusCode, oauthErr.Error, oauthErr.ErrorDescription)
	}

	var tokens struct {
		AccessToken string `json:"access_token"`
		IDToken     string `json:"id_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return UserInfo{}, fmt.Errorf("failed to decode token response: %w", err)
	}

	idToken, err := cfg.verifier.Verify(ctx, tokens.IDToken)
	if err != nil {
		return UserInfo{}, fmt.Errorf("id token verification failed: %w", err)
	}

	var idClaims struct {
		Nonce string `json:"nonce"`
	}
	if err := idToken.Claims(&idClaims); err != nil {
		return UserInfo{}, fmt.Errorf("failed to decode id token claims: %w", err)
	}
	if idClaims.Nonce != tx.Nonce {
		return UserInfo{}, errors.New("id token nonce mismatch")
	}

	return c.fetchUserInfo(ctx, cfg, tokens.AccessToken, idToken.Subject)
}

// clientAssertion mints a short-lived private-key JWT asserting this
// client's identity to the token endpoint (RFC 7523).
func (c *Client) clientAssertion(audience string) (string, error) {
	now := NowTimeFunc()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodES256, jwtlib.MapClaims{
		"jti": uuid.New().String(),
		"iss": c.clientID,
		"sub": c.clientID,
		"aud": audience,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(clientAssertionTTL).Unix(),
	})
	return token.SignedString(c.sigKey)
}

func (c *Client) fetchUserInfo(ctx context.Context, cfg *providerConfig, accessToken, expectedSub string) (UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.userInfoEndpoint, nil)
	if err != nil {
		return UserInfo{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/jwt, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UserInfo{}, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return UserInfo{}, fmt.Errorf("failed to read userinfo response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return UserInfo{}, fmt.Errorf("userinfo endpoint returned %d", resp.StatusCode)
	}

	payload, err := c.decodeUserInfoBody(ctx, cfg, body)
	if err != nil {
		return UserInfo{}, err
	}

	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		return UserInfo{}, fmt.Errorf("failed to decode userinfo claims: %w", err)
	}

	sub, _ := claims["sub"].(string)
	if expectedSub != "" && sub != "" && sub != expectedSub {
		return UserInfo{}, errors.New("userinfo subject mismatch")
	}

	// The residential-status claim is extracted leniently: any other shape
	// just means the field is absent.
	info := UserInfo{Sub: sub}
	if rs, ok := claims["residentialstatus"].(map[string]any); ok {
		info.ResidentialStatus, _ = rs["code"].(string)
	}
	return info, nil
}

// decodeUserInfoBody unwraps a userinfo response that may be plain JSON, a
// signed JWT, or a JWE-encrypted signed JWT. Decryption uses our private
// encryption key; signature verification uses the provider's published
// keys.
func (c *Client) decodeUserInfoBody(ctx context.Context, cfg *providerConfig, body []byte) ([]byte, error) {
	raw := strings.TrimSpace(string(body))
	if strings.HasPrefix(raw, "{") {
		return []byte(raw), nil
	}

	if strings.Count(raw, ".") == 4 {
		encrypted, err := jose.ParseEncrypted(raw,
			[]jose.KeyAlgorithm{jose.ECDH_ES, jose.ECDH_ES_A128KW, jose.ECDH_ES_A192KW, jose.ECDH_ES_A256KW},
			[]jose.ContentEncryption{jose.A128GCM, jose.A192GCM, jose.A256GCM},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse encrypted userinfo: %w", err)
		}
		plain, err := encrypted.Decrypt(c.encKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt userinfo: %w", err)
		}
		raw = strings.TrimSpace(string(plain))
		if strings.HasPrefix(raw, "{") {
			return []byte(raw), nil
		}
	}

	if strings.Count(raw, ".") == 2 {
		payload, err := cfg.keySet.VerifySignature(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("userinfo signature verification failed: %w", err)
		}
		return payload, nil
	}

	return nil, errors.New("unrecognized userinfo response format")
}
