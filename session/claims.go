package session

// Claims is the small bag of facts accumulated across the verification
// flow. Every field is optional; a zero Claims means "never logged in".
type Claims struct {
	// ResidentialStatus is the code returned by the identity provider:
	// "C" (Citizen), "P" (Permanent Resident) or "A" (Foreigner).
	ResidentialStatus string `json:"residentialStatus,omitempty"`

	// RedditUsername is the authenticated Reddit account name.
	RedditUsername string `json:"redditUsername,omitempty"`

	// TargetSubreddit is the community the user wants a flair in.
	TargetSubreddit string `json:"targetSubreddit,omitempty"`
}

// Merge returns base with every non-empty field of update applied.
// It never drops a field: claims only accumulate as the flow progresses.
func Merge(base, update Claims) Claims {
	out := base
	if update.ResidentialStatus != "" {
		out.ResidentialStatus = update.ResidentialStatus
	}
	if update.RedditUsername != "" {
		out.RedditUsername = update.RedditUsername
	}
	if update.TargetSubreddit != "" {
		out.TargetSubreddit = update.TargetSubreddit
	}
	return out
}
