// Package main provides the gamebook server binary: it loads the book
// content, wires the engine behind the JSON API, and runs until signalled.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/avalight/herobook/internal/config"
	"github.com/avalight/herobook/internal/content"
	"github.com/avalight/herobook/internal/game/dice"
	"github.com/avalight/herobook/internal/game/engine"
	"github.com/avalight/herobook/internal/observability"
	"github.com/avalight/herobook/internal/server"
	"github.com/avalight/herobook/internal/storage"
	"github.com/avalight/herobook/internal/storage/postgres"
	"github.com/avalight/herobook/internal/web"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := dice.NewSource()

	// Load book content. Every loader degrades gracefully, so a missing
	// file never blocks startup.
	contentStart := time.Now()
	loader := content.NewLoader(cfg.Content, logger)
	manifest := loader.LoadManifest()
	catalog := loader.LoadCatalog(manifest)
	statLabels := loader.LoadStatLabels(manifest)
	menuLabels := loader.LoadMenuLabels(manifest)
	logger.Info("book content loaded",
		zap.String("title", manifest.Title),
		zap.Int("items", catalog.Len()),
		zap.Int("stat_labels", len(statLabels)),
		zap.Int("menu_labels", len(menuLabels)),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	// Connect to PostgreSQL for snapshot persistence. An unreachable
	// database downgrades to in-memory saves unless the config requires it.
	var store storage.Store
	var pool *postgres.Pool
	dbStart := time.Now()
	pool, err = postgres.NewPool(ctx, cfg.Database)
	switch {
	case err == nil:
		store = postgres.NewSaveRepository(pool.DB())
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
	case cfg.Database.Required:
		logger.Fatal("connecting to database", zap.Error(err))
	default:
		store = storage.NewMemoryStore()
		logger.Warn("database unavailable, saves held in memory only",
			zap.Error(err),
		)
	}

	factory := func(ctx context.Context, saveID string) *engine.Engine {
		e := engine.New(logger.With(zap.String("session_id", saveID)), src, store, saveID)
		e.Restore(ctx)
		e.SetCatalog(catalog)
		if e.State().Page == "" {
			e.SetPage(manifest.StartPage)
		}
		return e
	}

	book := web.BookInfo{
		Title:      manifest.Title,
		StatLabels: statLabels,
		MenuLabels: menuLabels,
	}
	httpServer := web.NewServer(cfg.Server, factory, book, logger)

	// The pool is registered first so reverse-order shutdown closes it only
	// after the HTTP listener has drained.
	lifecycle := server.NewLifecycle(logger)
	if pool != nil {
		lifecycle.Add("database", &server.FuncService{
			StartFn: func() error { return nil },
			StopFn:  pool.Close,
		})
	}
	lifecycle.Add("http", httpServer)

	logger.Info("bookserver starting",
		zap.String("addr", cfg.Server.Addr()),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("lifecycle error", zap.Error(err))
	}
}
