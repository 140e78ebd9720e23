package server

func (s *Server) initRoutes() {
	// Identity provider flow
	s.RegisterRouteFunc("GET "+RouteSingpassLogin, s.SingpassLoginHandler())
	s.RegisterRouteFunc("GET "+RouteSingpassCallback, s.SingpassCallbackHandler())

	// Reddit flow
	s.RegisterRouteFunc("GET "+RouteRedditLogin, s.RedditLoginHandler())
	s.RegisterRouteFunc("GET "+RouteSubredditOwner, s.SubredditOwnerHandler())
	s.RegisterRouteFunc("GET "+RouteRedditCallback, s.RedditCallbackHandler())

	// Flair
	s.RegisterRouteFunc("GET "+RouteRedditFlair, s.FlairHandler())
	s.RegisterRouteFunc("GET "+RouteRedditFlairInfo, s.FlairInfoHandler())

	// Session
	s.RegisterRouteFunc("POST "+RouteRedditSetTarget, s.SetTargetHandler())
	s.RegisterRouteFunc("GET "+RouteInfo, s.InfoHandler())
	s.RegisterRouteFunc("GET "+RouteSingpassLogout, s.LogoutHandler())

	// Browser pages
	s.RegisterRouteFunc("GET "+PathIndex, s.PageHandler("index.html"))
	s.RegisterRouteFunc("GET "+PathRedditAuth, s.PageHandler("reddit_auth.html"))
	s.RegisterRouteFunc("GET "+PathPostModeratorAuth, s.PageHandler("post_moderator_auth.html"))
}
