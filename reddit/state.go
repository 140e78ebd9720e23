package reddit

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
)

// Scope sets for the two login entry points. Identity grants are
// ephemeral; moderator grants request duration=permanent so Reddit
// issues a refresh token.
var (
	IdentityScopes  = []string{"identity"}
	ModeratorScopes = []string{"modflair", "flair"}
)

// GrantKind classifies a completed authorization grant, derived from
// the decoded state and whether a refresh token was issued.
type GrantKind int

const (
	GrantUnknown GrantKind = iota
	GrantIdentity
	GrantModerator
)

// State rides through Reddit's OAuth state parameter as a JSON blob so
// the callback can recover context without server-side storage. Random
// exists purely as an anti-replay nonce and is not validated further.
type State struct {
	Random    string   `json:"random"`
	Scopes    []string `json:"scopes"`
	Subreddit string   `json:"subreddit,omitempty"`
}

// NewState builds a state blob for the given scope set. subreddit is
// empty for identity-only grants.
func NewState(scopes []string, subreddit string) State {
	b := make([]byte, 8)
	rand.Read(b)
	return State{
		Random:    hex.EncodeToString(b),
		Scopes:    scopes,
		Subreddit: subreddit,
	}
}

// Encode serializes the state for the authorize URL.
func (s State) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode state: %w", err)
	}
	return string(data), nil
}

// DecodeState parses and validates a state blob returned by Reddit.
// Unknown fields and missing scopes are rejected rather than guessed
// around.
func DecodeState(raw string) (State, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()

	var s State
	if err := dec.Decode(&s); err != nil {
		return State{}, fmt.Errorf("failed to decode state: %w", err)
	}
	if len(s.Scopes) == 0 {
		return State{}, fmt.Errorf("state has no scopes")
	}
	return s, nil
}

// Kind dispatches the grant: a moderator grant needs the modflair
// scope, a target subreddit and an issued refresh token; an identity
// grant needs the identity scope; anything else is unrecognized.
func (s State) Kind(hasRefreshToken bool) GrantKind {
	switch {
	case slices.Contains(s.Scopes, "modflair") && s.Subreddit != "" && hasRefreshToken:
		return GrantModerator
	case slices.Contains(s.Scopes, "identity"):
		return GrantIdentity
	default:
		return GrantUnknown
	}
}
