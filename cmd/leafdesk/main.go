package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"leafdesk/frontend/shared/app"
	sessioncontext "leafdesk/frontend/shared/context"
	"leafdesk/infrastructure/apiclient"
	"leafdesk/infrastructure/audit"
	"leafdesk/infrastructure/cache"
	"leafdesk/infrastructure/config"
	httpserver "leafdesk/infrastructure/http"
	"leafdesk/infrastructure/session"
	"leafdesk/infrastructure/sqlite"
)

const (
	pruneInterval = 15 * time.Minute
	factoryTTL    = 10 * time.Minute
)

func main() {
	configFile := flag.String("config", "", "Config file path (optional, defaults to ./leafdesk.toml)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := sqlite.OpenDB(cfg.SQLite.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, ""); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	sessions := session.NewStore(db, cache.NewUserSessionCache(), cfg.Session.SecureCookie)
	deps := &app.Deps{
		API: apiclient.New(cfg.API.BaseURL,
			sessions.TokenSource(sessioncontext.GetSessionFromContext),
			apiclient.WithTimeout(cfg.API.Timeout)),
		DB:        db,
		Sessions:  sessions,
		Audit:     audit.NewService(db),
		Factories: cache.NewFactoryCache(factoryTTL),
		Location:  cfg.Display.Location,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go pruneSessions(ctx, sessions)

	server := httpserver.NewServer(cfg.Server.Addr, deps, cfg.Session.TTL)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	slog.Info("leafdesk listening", slog.String("addr", cfg.Server.Addr), slog.String("api", cfg.API.BaseURL))

	<-ctx.Done()

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

// pruneSessions drops expired sessions until ctx ends.
func pruneSessions(ctx context.Context, sessions *session.Store) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := sessions.PruneExpired(ctx, now)
			if err != nil {
				slog.Error("prune sessions failed", slog.Any("err", err))
				continue
			}
			if n > 0 {
				slog.Info("pruned expired sessions", slog.Int64("count", n))
			}
		}
	}
}
