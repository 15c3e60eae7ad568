package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/globetrotter/internal/config"
	"github.com/playperu/globetrotter/internal/database"
	"github.com/playperu/globetrotter/internal/handler/health"
	"github.com/playperu/globetrotter/internal/memstore"
	"github.com/playperu/globetrotter/internal/migrations"
	"github.com/playperu/globetrotter/internal/server"
	"github.com/playperu/globetrotter/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = rand.Uint64()
	}

	deps := server.Deps{
		PublicURL:   cfg.PublicURL,
		OptionCount: cfg.OptionCount,
		Seed:        seed,
		SessionTTL:  cfg.SessionIdleTTL,
		SPADir:      cfg.SPADir,
	}

	switch cfg.Store {
	case config.StoreMemory:
		if err := useMemory(cfg, logger, &deps); err != nil {
			return err
		}
	default:
		closeDB, err := useSQLite(ctx, cfg, logger, &deps)
		if err != nil {
			return err
		}
		defer closeDB()
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, deps)

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr, "store", cfg.Store)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func useSQLite(ctx context.Context, cfg *config.Config, logger *slog.Logger, deps *server.Deps) (func() error, error) {
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("connecting to sqlite: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	st := store.New(db)

	if cfg.SeedCatalog {
		n, err := st.SeedCatalog(ctx)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("seeding catalog: %w", err)
		}
		if n > 0 {
			logger.Info("seeded destination catalog", "count", n)
		}
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := st.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensuring admin: %w", err)
		}
	}

	deps.Players = st
	deps.Catalog = st
	deps.Admin = st
	deps.Checks = map[string]health.Checker{
		"sqlite":     st,
		"migrations": migrations.Checker{DB: db},
		"catalog":    health.NonEmpty(st),
	}
	return db.Close, nil
}

// useMemory keeps everything in process. There are no admin accounts, so
// /api/admin is not served.
func useMemory(cfg *config.Config, logger *slog.Logger, deps *server.Deps) error {
	ms := memstore.New()
	if cfg.SeedCatalog {
		catalog, err := store.Catalog()
		if err != nil {
			return err
		}
		for _, d := range catalog {
			ms.AddDestination(d)
		}
		logger.Info("seeded destination catalog", "count", len(catalog))
	}
	logger.Warn("using in-memory store, players are lost on restart")

	deps.Players = ms
	deps.Catalog = ms
	deps.Checks = map[string]health.Checker{
		"catalog": health.NonEmpty(ms),
	}
	return nil
}
