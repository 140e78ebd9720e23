package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/xkjyeah/myinfo-reddit/session"
)

// InfoHandler exposes the current session claims to the frontend.
func (s *Server) InfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.sessionClaims(r))
	}
}

// SetTargetHandler records which subreddit the user wants flair in,
// posted by the landing page before the login chain starts.
func (s *Server) SetTargetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, "Missing target subreddit", http.StatusBadRequest)
			return
		}

		targetSubreddit := r.PostForm.Get("targetSubreddit")
		if targetSubreddit == "" {
			writeJSONError(w, "Missing target subreddit", http.StatusBadRequest)
			return
		}

		if err := s.mergeSession(w, r, session.Claims{TargetSubreddit: targetSubreddit}); err != nil {
			log.Err(err).Msg("Failed to update session")
			writeJSONError(w, "Failed to save target subreddit", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{})
	}
}

// LogoutHandler drops the session and any half-finished OAuth
// transaction, then returns to the landing page.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clearCookie(w, session.CookieName)
		s.clearTransactionCookies(w)
		http.Redirect(w, r, PathIndex, http.StatusTemporaryRedirect)
	}
}
