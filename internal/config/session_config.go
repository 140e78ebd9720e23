package config

import "time"

type SessionConfig interface {
	GetSessionKey() string
	GetSessionTTL() time.Duration
	GetTransactionTTL() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionKey() string {
	return GetEnv("SESSION_KEY", "")
}

// GetSessionTTL is the lifetime of the signed session cookie. It is
// re-stamped on every write, so each step of the flow extends it.
func (Session) GetSessionTTL() time.Duration {
	return 5 * time.Minute
}

// GetTransactionTTL is the lifetime of the per-login-attempt OAuth
// transaction cookies (code_verifier, auth_state, nonce).
func (Session) GetTransactionTTL() time.Duration {
	return 10 * time.Minute
}
