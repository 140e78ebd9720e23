package utils

import (
	"net/http"
	"net/url"
)

// ExternalURL builds an absolute URL for path as seen by the client's
// browser. Behind a reverse proxy the request's host and scheme describe
// the internal hop, so X-Forwarded-Host and X-Forwarded-Proto take
// precedence when present.
func ExternalURL(r *http.Request, path string) string {
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}

	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		if r.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}

	u := url.URL{Scheme: scheme, Host: host, Path: path}
	return u.String()
}

// WithQuery appends a single query parameter to a URL string.
func WithQuery(rawURL, key, value string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
