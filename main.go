// Command studytrack runs the study tracking API server.
//
// Startup order:
//  1. config
//  2. logger
//  3. database (migrations embedded)
//  4. token signer
//  5. repositories, hub, services, handlers
//  6. routes, CORS, request logging
//  7. HTTP server with graceful shutdown
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/akinalp/studytrack/config"
	"github.com/akinalp/studytrack/database"
	"github.com/akinalp/studytrack/middleware"
	applog "github.com/akinalp/studytrack/pkg/log"
	"github.com/akinalp/studytrack/pkg/ratelimit"
	"github.com/akinalp/studytrack/pkg/token"
	"github.com/akinalp/studytrack/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := applog.New("info", "production")
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	logger := applog.New(cfg.App.LogLevel, cfg.App.Env)
	logger.Info().Str("addr", cfg.Server.Addr()).Str("env", cfg.App.Env).Msg("studytrack server starting")

	db, err := database.Open(cfg.Database.Path, applog.Component(logger, "database"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	signer, err := token.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTTL(), cfg.JWT.RefreshTTL())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init token signer")
	}

	repos := initRepositories(db.Conn)

	hub := ws.NewHub(logger)

	svcs, err := initServices(db.Conn, repos, hub, signer, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init services")
	}

	registerHubCallbacks(hub, svcs.Streak, applog.Component(logger, "ws"))
	go hub.Run()

	var loginLimiter *ratelimit.Limiter
	if cfg.Auth.LoginMaxAttempts > 0 {
		loginLimiter = ratelimit.New(cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
		defer loginLimiter.Stop()
	}

	h := initHandlers(svcs, hub, loginLimiter, cfg.Server.TrustProxyHeaders, originChecker(cfg.CORS.AllowedOrigins))

	mux := http.NewServeMux()
	initRoutes(mux, h, svcs.Token)

	corsHandler := cors.New(corsOptions(cfg.CORS.AllowedOrigins))
	handler := middleware.RequestLogger(applog.Component(logger, "http"))(corsHandler.Handler(mux))

	// No WriteTimeout: it would also cut long-lived WebSocket connections.
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info().Str("addr", cfg.Server.Addr()).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-done
	logger.Info().Msg("shutting down")

	// Close sockets first so clients see the server going away, then stop
	// accepting requests and wait for in-flight ones.
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return
	}

	logger.Info().Msg("server stopped gracefully")
}

// corsOptions reflects any origin when "*" is configured. Credentials are
// allowed, so a literal "*" cannot be sent back.
func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}
	if slices.Contains(origins, "*") {
		opts.AllowOriginFunc = func(string) bool { return true }
	} else {
		opts.AllowedOrigins = origins
	}
	return opts
}

// originChecker applies the CORS origin list to WebSocket upgrades.
func originChecker(origins []string) func(r *http.Request) bool {
	if slices.Contains(origins, "*") {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(origins, origin)
	}
}
