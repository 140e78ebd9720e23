package server

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	apperrors "github.com/xkjyeah/myinfo-reddit/internal/errors"

	"github.com/xkjyeah/myinfo-reddit/flair"
	"github.com/xkjyeah/myinfo-reddit/reddit"
	"github.com/xkjyeah/myinfo-reddit/session"
)

// validateFlairClaims checks the session has everything the flair step
// needs, reporting the first missing claim.
func validateFlairClaims(claims session.Claims) error {
	switch {
	case claims.ResidentialStatus == "":
		return apperrors.ErrMissingResidentialStatus
	case claims.RedditUsername == "":
		return apperrors.ErrMissingRedditUsername
	case claims.TargetSubreddit == "":
		return apperrors.ErrMissingTargetSubreddit
	default:
		return nil
	}
}

// sessionErrorMessage maps a missing-claim error to its user-facing text.
func sessionErrorMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrMissingResidentialStatus):
		return "Missing residential status"
	case errors.Is(err, apperrors.ErrMissingRedditUsername):
		return "Missing reddit username"
	case errors.Is(err, apperrors.ErrMissingTargetSubreddit):
		return "Missing target subreddit"
	default:
		return err.Error()
	}
}

// FlairHandler performs the final step of the user flow: with a fully
// populated session it resolves the target subreddit's verified-flair
// templates, assigns the one matching the user's residential status,
// and bounces the browser back to the subreddit.
func (s *Server) FlairHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := s.sessionClaims(r)
		if err := validateFlairClaims(claims); err != nil {
			writeJSONError(w, sessionErrorMessage(err), http.StatusBadRequest)
			return
		}

		refreshToken, err := s.tokens.Get(r.Context(), claims.TargetSubreddit)
		if err != nil {
			log.Err(err).Str("subreddit", claims.TargetSubreddit).Msg("Failed to read moderator token")
			writeJSONError(w, "Failed to set flair", http.StatusInternalServerError)
			return
		}
		if refreshToken == "" {
			writeJSONError(w, "This community has not allowed this app to add flair", http.StatusBadRequest)
			return
		}

		accessToken, err := s.reddit.RefreshAccessToken(r.Context(), refreshToken)
		if err != nil {
			log.Err(err).Str("subreddit", claims.TargetSubreddit).Msg("Failed to refresh moderator token")
			writeJSONError(w, "Failed to set flair", http.StatusInternalServerError)
			return
		}

		// An empty template list falls through to the completeness
		// check, which then names all three missing codes.
		templates, err := s.flairs.ResolveTemplates(r.Context(), accessToken, claims.TargetSubreddit)
		if err != nil && !errors.Is(err, flair.ErrNoFlairs) {
			log.Err(err).Str("subreddit", claims.TargetSubreddit).Msg("Failed to resolve flair templates")
			writeJSONErrorDetail(w, "Failed to set flair", err.Error(), http.StatusInternalServerError)
			return
		}
		if err := flair.EnsureComplete(templates); err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}

		status := flair.Status(claims.ResidentialStatus)
		if err := s.flairs.Assign(r.Context(), accessToken, claims.TargetSubreddit, claims.RedditUsername, status, templates); err != nil {
			log.Err(err).Str("subreddit", claims.TargetSubreddit).Msg("Failed to assign flair")
			writeJSONError(w, "Failed to set flair", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "https://reddit.com/r/"+claims.TargetSubreddit, http.StatusTemporaryRedirect)
	}
}

// FlairInfoHandler returns the status-to-template mapping for a
// subreddit, used by the landing page to preview what each status
// would receive.
func (s *Server) FlairInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subreddit := r.URL.Query().Get("subreddit")
		if subreddit == "" {
			writeJSONError(w, "Subreddit is required", http.StatusBadRequest)
			return
		}

		refreshToken, err := s.tokens.Get(r.Context(), subreddit)
		if err != nil {
			log.Err(err).Str("subreddit", subreddit).Msg("Failed to read moderator token")
			writeJSONError(w, "Failed to set flair", http.StatusInternalServerError)
			return
		}
		if refreshToken == "" {
			writeJSONError(w, "Subreddit is not configured. Please ask the moderator to set it up", http.StatusBadRequest)
			return
		}

		accessToken, err := s.reddit.RefreshAccessToken(r.Context(), refreshToken)
		if err != nil {
			log.Err(err).Str("subreddit", subreddit).Msg("Failed to refresh moderator token")
			writeJSONErrorDetail(w, "Failed to set flair", err.Error(), http.StatusInternalServerError)
			return
		}

		templates, err := s.flairs.ResolveTemplates(r.Context(), accessToken, subreddit)
		if err != nil {
			log.Err(err).Str("subreddit", subreddit).Msg("Failed to resolve flair templates")
			writeJSONErrorDetail(w, "Failed to set flair", err.Error(), http.StatusInternalServerError)
			return
		}

		byStatus := make(map[string]reddit.FlairTemplate, len(templates))
		for status, tpl := range templates {
			byStatus[string(status)] = tpl
		}
		writeJSON(w, byStatus)
	}
}
