package server

import (
	"net/http"

	"github.com/xkjyeah/myinfo-reddit/myinfo"
	"github.com/xkjyeah/myinfo-reddit/session"
)

// OAuth transaction cookie names, one per secret the callback needs back.
const (
	cookieCodeVerifier = "code_verifier"
	cookieAuthState    = "auth_state"
	cookieNonce        = "nonce"
)

func (s *Server) secureCookies() bool {
	return s.env == "production"
}

func (s *Server) setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secureCookies(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearCookie(w http.ResponseWriter, name string) {
	s.setCookie(w, name, "", -1)
}

func (s *Server) setTransactionCookies(w http.ResponseWriter, tx myinfo.Transaction) {
	ttl := int(s.config.GetTransactionTTL().Seconds())
	s.setCookie(w, cookieCodeVerifier, tx.CodeVerifier, ttl)
	s.setCookie(w, cookieAuthState, tx.State, ttl)
	s.setCookie(w, cookieNonce, tx.Nonce, ttl)
}

func (s *Server) clearTransactionCookies(w http.ResponseWriter) {
	s.clearCookie(w, cookieCodeVerifier)
	s.clearCookie(w, cookieAuthState)
	s.clearCookie(w, cookieNonce)
}

func (s *Server) transactionFromCookies(r *http.Request) myinfo.Transaction {
	return myinfo.Transaction{
		CodeVerifier: cookieValue(r, cookieCodeVerifier),
		State:        cookieValue(r, cookieAuthState),
		Nonce:        cookieValue(r, cookieNonce),
	}
}

// sessionClaims decodes the auth cookie. Absent, expired or tampered
// cookies all come back as empty claims.
func (s *Server) sessionClaims(r *http.Request) session.Claims {
	return s.sessions.Decode(cookieValue(r, session.CookieName))
}

// mergeSession folds update into the request's current claims and
// rewrites the auth cookie with a fresh TTL.
func (s *Server) mergeSession(w http.ResponseWriter, r *http.Request, update session.Claims) error {
	ttl := s.config.GetSessionTTL()
	token, err := s.sessions.Encode(session.Merge(s.sessionClaims(r), update), ttl)
	if err != nil {
		return err
	}
	s.setCookie(w, session.CookieName, token, int(ttl.Seconds()))
	return nil
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
