package myinfo

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// NewCodeVerifier returns a fresh PKCE code verifier: 32 random bytes,
// base64url-encoded to 43 characters (RFC 7636 minimum length).
func NewCodeVerifier() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// CodeChallenge derives the S256 code challenge for a verifier:
// base64url(sha256(verifier)), per RFC 7636.
func CodeChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// randomHex returns n random bytes hex-encoded, used for the state and
// nonce correlation tokens.
func randomHex(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return hex.EncodeToString(b)
}
