package config

type RedditConfig interface {
	GetRedditClientID() string
	GetRedditClientSecret() string
	GetRedditRedirectURI() string
	GetRedditUserAgent() string
}

type Reddit struct{}

var _ RedditConfig = Reddit{}

func (Reddit) GetRedditClientID() string {
	return GetEnv("REDDIT_CLIENT_ID", "")
}

func (Reddit) GetRedditClientSecret() string {
	return GetEnv("REDDIT_CLIENT_SECRET", "")
}

func (Reddit) GetRedditRedirectURI() string {
	return GetEnv("REDDIT_REDIRECT_URI", "")
}

// GetRedditUserAgent identifies this app to the Reddit API. Reddit rejects
// requests with missing or generic user agents.
func (Reddit) GetRedditUserAgent() string {
	return GetEnv("REDDIT_USER_AGENT", "web:myinfo-reddit:v1.0")
}
