package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/xkjyeah/myinfo-reddit/flair"
	"github.com/xkjyeah/myinfo-reddit/internal/config"
	"github.com/xkjyeah/myinfo-reddit/modtoken"
	"github.com/xkjyeah/myinfo-reddit/myinfo"
	"github.com/xkjyeah/myinfo-reddit/reddit"
	"github.com/xkjyeah/myinfo-reddit/session"
)

type Server struct {
	env    string // Environment (e.g., "development", "production")
	mux    *http.ServeMux
	routes []string
	config config.Config

	sessions *session.Store
	idp      *myinfo.Client
	reddit   *reddit.Client
	flairs   *flair.Engine
	tokens   modtoken.TokenRepo
}

func New(config config.Config, idp *myinfo.Client, redditClient *reddit.Client, tokens modtoken.TokenRepo) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		config:   config,
		sessions: session.NewStore(config.GetSessionKey()),
		idp:      idp,
		reddit:   redditClient,
		flairs:   flair.NewEngine(redditClient),
		tokens:   tokens,
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "development" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			log.Printf("[%-7s] %s\n", parts[0], parts[1])
		} else {
			log.Printf("[%-7s] %s\n", "", parts[0])
		}
	}
}
