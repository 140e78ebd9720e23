package server

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/xkjyeah/myinfo-reddit/internal/utils"
	"github.com/xkjyeah/myinfo-reddit/reddit"
	"github.com/xkjyeah/myinfo-reddit/session"
)

// RedditLoginHandler starts the identity-only Reddit grant. The grant
// is ephemeral, so no duration parameter is requested.
func (s *Server) RedditLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := reddit.NewState(reddit.IdentityScopes, r.URL.Query().Get("subreddit"))

		authURL, err := s.reddit.AuthorizationURL(state, false)
		if err != nil {
			log.Err(err).Msg("Failed to build Reddit authorization URL")
			writeJSONError(w, "Failed to initiate login", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
	}
}

// SubredditOwnerHandler starts the moderator grant: modflair scope with
// duration=permanent, so the callback receives a refresh token that can
// be stored for long-lived flair management.
func (s *Server) SubredditOwnerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subreddit := r.URL.Query().Get("subreddit")
		if subreddit == "" {
			writeJSONError(w, "Missing subreddit parameter", http.StatusBadRequest)
			return
		}

		authURL, err := s.reddit.AuthorizationURL(reddit.NewState(reddit.ModeratorScopes, subreddit), true)
		if err != nil {
			log.Err(err).Msg("Failed to build Reddit authorization URL")
			writeJSONError(w, "Failed to initiate login", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
	}
}

// RedditCallbackHandler completes either Reddit grant. The decoded
// state dispatches the three cases: moderator onboarding, identity
// proof, or an unrecognized scope combination.
func (s *Server) RedditCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		code := query.Get("code")
		if code == "" {
			writeJSONError(w, "No code provided", http.StatusBadRequest)
			return
		}

		state, err := reddit.DecodeState(query.Get("state"))
		if err != nil {
			writeJSONError(w, "Invalid state", http.StatusBadRequest)
			return
		}

		token, err := s.reddit.Exchange(r.Context(), code)
		if err != nil {
			log.Err(err).Msg("Reddit code exchange failed")
			writeJSONError(w, "Authentication failed", http.StatusInternalServerError)
			return
		}

		switch state.Kind(token.RefreshToken != "") {
		case reddit.GrantModerator:
			s.completeModeratorGrant(w, r, state.Subreddit, token.RefreshToken)
		case reddit.GrantIdentity:
			s.completeIdentityGrant(w, r, token.AccessToken)
		default:
			detail := fmt.Sprintf("unrecognized grant: scopes=%v refreshToken=%t", state.Scopes, token.RefreshToken != "")
			writeJSONErrorDetail(w, "Authentication failed", detail, http.StatusBadRequest)
		}
	}
}

// completeModeratorGrant verifies the grantor actually moderates the
// subreddit before storing the refresh token. Reading the flair
// template list requires mod rights, so a failed read is the check.
func (s *Server) completeModeratorGrant(w http.ResponseWriter, r *http.Request, subreddit, refreshToken string) {
	accessToken, err := s.reddit.RefreshAccessToken(r.Context(), refreshToken)
	if err != nil {
		log.Err(err).Str("subreddit", subreddit).Msg("Failed to mint access token from moderator grant")
		writeJSONError(w, "Authentication failed", http.StatusInternalServerError)
		return
	}

	if _, err := s.reddit.FlairTemplates(r.Context(), accessToken, subreddit); err != nil {
		log.Err(err).Str("subreddit", subreddit).Msg("Moderator verification failed")
		writeJSONError(w, "User is not a moderator of the target subreddit", http.StatusBadRequest)
		return
	}

	if err := s.tokens.Save(r.Context(), subreddit, refreshToken); err != nil {
		log.Err(err).Str("subreddit", subreddit).Msg("Failed to save moderator token")
		writeJSONError(w, "Authentication failed", http.StatusInternalServerError)
		return
	}

	redirectURL := utils.WithQuery(utils.ExternalURL(r, PathPostModeratorAuth), "subreddit", subreddit)
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}

func (s *Server) completeIdentityGrant(w http.ResponseWriter, r *http.Request, accessToken string) {
	username, err := s.reddit.Me(r.Context(), accessToken)
	if err != nil {
		log.Err(err).Msg("Failed to fetch Reddit identity")
		writeJSONError(w, "Authentication failed", http.StatusInternalServerError)
		return
	}

	if err := s.mergeSession(w, r, session.Claims{RedditUsername: username}); err != nil {
		log.Err(err).Msg("Failed to update session")
		writeJSONError(w, "Authentication failed", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, utils.ExternalURL(r, RouteRedditFlair), http.StatusTemporaryRedirect)
}
