package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xkjyeah/myinfo-reddit/internal/config"
	apperrors "github.com/xkjyeah/myinfo-reddit/internal/errors"
	"github.com/xkjyeah/myinfo-reddit/modtoken"
	faketokenrepo "github.com/xkjyeah/myinfo-reddit/modtoken/repofake"
	"github.com/xkjyeah/myinfo-reddit/myinfo"
	"github.com/xkjyeah/myinfo-reddit/reddit"
	"github.com/xkjyeah/myinfo-reddit/server"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("Recovered from panic: %v", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()
	initLogging(c)
	displayAppname(c.GetAppName())

	srv, cleanup, err := buildServer(c)
	if err != nil {
		return err
	}
	defer cleanup()

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func buildServer(c config.Config) (*server.Server, func(), error) {
	sigKey, err := myinfo.ParsePrivateKey(c.GetMyInfoPrivateSigKeyPEM())
	if err != nil {
		return nil, nil, apperrors.Wrapf(err, "invalid MYINFO_PRIVATE_SIG_KEY")
	}
	encKey, err := myinfo.ParsePrivateKey(c.GetMyInfoPrivateEncKeyPEM())
	if err != nil {
		return nil, nil, apperrors.Wrapf(err, "invalid MYINFO_PRIVATE_ENC_KEY")
	}

	idp := myinfo.New(c.GetMyInfoIssuer(), c.GetMyInfoClientID(), c.GetMyInfoRedirectURL(), sigKey, encKey)
	redditClient := reddit.New(c.GetRedditClientID(), c.GetRedditClientSecret(),
		c.GetRedditRedirectURI(), c.GetRedditUserAgent())

	tokens, cleanup, err := buildTokenRepo(c)
	if err != nil {
		return nil, nil, err
	}

	return server.New(c, idp, redditClient, tokens), cleanup, nil
}

func buildTokenRepo(c config.Config) (modtoken.TokenRepo, func(), error) {
	if c.GetTokenStoreBackend() == "memory" {
		log.Warn().Msg("Using in-memory token store; moderator grants will not survive restarts")
		return faketokenrepo.NewFakeTokenRepo(), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, c.GetDatabaseURL())
	if err != nil {
		return nil, nil, apperrors.Wrapf(err, "failed to connect to database")
	}

	repo := modtoken.NewPGTokenRepo(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return repo, pool.Close, nil
}

func initLogging(c config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if c.GetEnv() == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
