package session

import (
	"crypto/sha256"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/pbkdf2"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const (
	// CookieName is the cookie carrying the signed session token.
	CookieName = "auth"

	// DefaultTTL is the session lifetime stamped on every write.
	DefaultTTL = 5 * time.Minute

	keyDerivationSalt   = "reddit-myinfo"
	keyDerivationRounds = 1000
	keyLength           = 32
)

// Store encodes and decodes session claims as compact HS256 JWTs. The MAC
// key is derived from the configured secret with PBKDF2 so the raw secret
// is never used directly as a signing key.
type Store struct {
	key []byte
}

func NewStore(secret string) *Store {
	key := pbkdf2.Key([]byte(secret), []byte(keyDerivationSalt), keyDerivationRounds, keyLength, sha256.New)
	return &Store{key: key}
}

type tokenClaims struct {
	ResidentialStatus string `json:"residentialStatus,omitempty"`
	RedditUsername    string `json:"redditUsername,omitempty"`
	TargetSubreddit   string `json:"targetSubreddit,omitempty"`
	jwtlib.RegisteredClaims
}

// Encode serializes claims into a signed token expiring at now + ttl.
func (s *Store) Encode(claims Claims, ttl time.Duration) (string, error) {
	now := NowTimeFunc()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, tokenClaims{
		ResidentialStatus: claims.ResidentialStatus,
		RedditUsername:    claims.RedditUsername,
		TargetSubreddit:   claims.TargetSubreddit,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Decode verifies the token's signature and expiry and returns its claims.
// A missing, malformed, tampered or expired token yields empty claims, not
// an error: callers treat "no session" and "never logged in" identically.
func (s *Store) Decode(token string) Claims {
	if token == "" {
		return Claims{}
	}

	parsed, err := jwtlib.ParseWithClaims(token, &tokenClaims{},
		func(t *jwtlib.Token) (any, error) { return s.key, nil },
		jwtlib.WithValidMethods([]string{"HS256"}),
		jwtlib.WithTimeFunc(NowTimeFunc),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return Claims{}
	}

	tc, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return Claims{}
	}
	return Claims{
		ResidentialStatus: tc.ResidentialStatus,
		RedditUsername:    tc.RedditUsername,
		TargetSubreddit:   tc.TargetSubreddit,
	}
}
