package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/showtrack/internal/auth"
	"github.com/desertthunder/showtrack/internal/repositories"
	"github.com/desertthunder/showtrack/internal/server"
	"github.com/desertthunder/showtrack/internal/shared"
	"github.com/desertthunder/showtrack/internal/tasks"
	"github.com/desertthunder/showtrack/internal/web"
	"github.com/urfave/cli/v3"
)

const (
	sessionCleanupInterval = 5 * time.Minute
	browserDelay           = 500 * time.Millisecond
)

// Serve wires stores, importer and auth gateway into the router and runs the HTTP server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if port := cmd.Int("port"); port > 0 {
		r.config.Server.Port = port
	}
	if dir := cmd.String("public-dir"); dir != "" {
		r.config.Server.PublicDir = dir
	}

	authConfig, err := auth.ConfigFromShared(r.config.Auth)
	if err != nil {
		return err
	}

	provider, err := r.metadataProvider()
	if err != nil {
		return err
	}

	db, closeDB, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer closeDB()

	shows := repositories.NewShowRepository(db)
	users := repositories.NewUserRepository(db)
	importer := tasks.NewShowImporter(provider, shows, shared.WithLogger(r.logger, "component", "importer"))

	sessions := auth.NewMemorySessionStore()
	if authConfig.SessionTTL > 0 {
		sessions.StartCleanupRoutine(ctx, sessionCleanupInterval)
	}
	gateway := auth.NewGateway(users, sessions, authConfig, shared.WithLogger(r.logger, "component", "auth"))

	api := server.NewAPI(shows, users, importer, gateway, r.logger)
	api.SetLoginRateLimit(r.config.Auth.LoginRateLimit)

	var static server.Handler
	if r.config.Server.PublicDir != "" {
		static = web.NewSPAHandler(r.config.Server.PublicDir)
	}

	router := server.NewRouter(api, gateway, static, shared.WithLogger(r.logger, "component", "http"))
	srv := server.NewHTTPServer(r.config.Server.Addr(), router)

	r.logger.Info("starting showtrack",
		"addr", srv.Addr,
		"database", r.config.Database.Path,
		"provider", provider.Name(),
		"public_dir", r.config.Server.PublicDir,
	)

	if cmd.Bool("open") {
		go func() {
			time.Sleep(browserDelay)
			if err := shared.OpenBrowser("http://" + srv.Addr + "/"); err != nil {
				r.logger.Warn("could not open browser", "error", err)
			}
		}()
	}

	if err := server.ListenAndServe(ctx, srv, r.logger); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
