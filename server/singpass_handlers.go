package server

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/xkjyeah/myinfo-reddit/internal/utils"
	"github.com/xkjyeah/myinfo-reddit/myinfo"
	"github.com/xkjyeah/myinfo-reddit/session"
)

// SingpassLoginHandler starts the identity-provider flow: it generates
// the PKCE transaction, stashes it in cookies and redirects the browser
// to the provider's authorization page. An optional subreddit query
// parameter is folded into the session so the flair step knows its
// target.
func (s *Server) SingpassLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authURL, tx, err := s.idp.AuthorizationURL(r.Context())
		if err != nil {
			log.Err(err).Msg("Failed to build authorization URL")
			writeJSONError(w, "Failed to initiate login", http.StatusInternalServerError)
			return
		}

		if subreddit := r.URL.Query().Get("subreddit"); subreddit != "" {
			if err := s.mergeSession(w, r, session.Claims{TargetSubreddit: subreddit}); err != nil {
				log.Err(err).Msg("Failed to update session")
				writeJSONError(w, "Failed to initiate login", http.StatusInternalServerError)
				return
			}
		}

		s.setTransactionCookies(w, tx)
		http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
	}
}

// SingpassCallbackHandler completes the identity-provider flow. The
// transaction cookies must match the query parameters exactly; on
// success the verified residential status lands in the session and the
// browser moves on to the Reddit identity step.
func (s *Server) SingpassCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		info, err := s.idp.ExchangeCode(r.Context(), query.Get("code"), query.Get("state"), s.transactionFromCookies(r))
		if errors.Is(err, myinfo.ErrInvalidState) {
			writeJSONError(w, "Invalid state", http.StatusBadRequest)
			return
		}
		if err != nil {
			log.Err(err).Msg("Failed to process identity provider callback")
			writeJSONErrorDetail(w, "Failed to process callback", err.Error(), http.StatusInternalServerError)
			return
		}

		s.clearTransactionCookies(w)

		if err := s.mergeSession(w, r, session.Claims{ResidentialStatus: info.ResidentialStatus}); err != nil {
			log.Err(err).Msg("Failed to update session")
			writeJSONErrorDetail(w, "Failed to process callback", err.Error(), http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, utils.ExternalURL(r, PathRedditAuth), http.StatusTemporaryRedirect)
	}
}
