package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Identity provider (Singpass/MyInfo) routes
	RouteSingpassLogin    = "/api/singpass/login"
	RouteSingpassCallback = "/api/singpass/callback"

	// Reddit OAuth routes
	RouteRedditLogin    = "/api/reddit/login"
	RouteRedditCallback = "/api/reddit/callback"
	RouteSubredditOwner = "/api/auth/subreddit-owner"

	// Flair routes
	RouteRedditFlair     = "/api/reddit/flair"
	RouteRedditFlairInfo = "/api/reddit/flair-info"

	// Session routes
	RouteRedditSetTarget = "/api/reddit/set-target"
	RouteInfo            = "/api/info"
	RouteSingpassLogout  = "/api/singpass/logout"

	// Browser pages served between OAuth steps
	PathIndex             = "/"
	PathRedditAuth        = "/reddit-auth"
	PathPostModeratorAuth = "/post-moderator-auth"
)
