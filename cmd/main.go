// Package main wires the HTTP server for the knowledge base service.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Tahskajuha/KEDB-capstone/internal/transport/http/server/handlers-fiber"
	"github.com/Tahskajuha/KEDB-capstone/internal/usecase"

	"github.com/Tahskajuha/KEDB-capstone/config"
	"github.com/Tahskajuha/KEDB-capstone/internal/repository"
	"github.com/Tahskajuha/KEDB-capstone/internal/search"
	"github.com/Tahskajuha/KEDB-capstone/internal/transport/http/middleware"
	"github.com/Tahskajuha/KEDB-capstone/internal/usecase/domain"
	"github.com/Tahskajuha/KEDB-capstone/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}

	repo, err := repository.New(ctx, "postgres", log, cfg)
	if err != nil {
		log.Errorw("repository initialization error", "error", err)
		return
	}
	if err := repo.OnStart(ctx); err != nil {
		log.Errorw("repository start error", "error", err)
		return
	}
	defer func() {
		_ = repo.OnStop(context.Background())
	}()

	var indexer *search.Indexer
	if cfg.Search.Enabled() {
		indexer = search.New(log, repo, cfg.Search)
		indexer.Start(ctx)
		defer func() {
			if err := indexer.Stop(); err != nil {
				log.Errorw("indexer stop error", "error", err)
			}
		}()
	}

	timeout := cfg.HTTP.RequestTimeout
	uc := usecase.New(log, ctx, repo, timeout, indexQueue(indexer))

	serv := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.RequestTimeout,
		WriteTimeout: cfg.HTTP.RequestTimeout,
	})
	serv.Use(recover.New())
	serv.Use(requestid.New())
	serv.Use(middleware.RequestLogger(log))

	serv.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	h := handlers_fiber.NewHandler(log, uc)
	h.Register(serv)

	go func() {
		if err := serv.Listen(cfg.ServerAddr()); err != nil {
			log.Errorw("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = serv.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warnw("server shutdown timeout", "timeout", cfg.Server.ShutdownTimeout)
	}
}

// indexQueue avoids handing a typed nil to the usecase layer when indexing
// is disabled.
func indexQueue(ix *search.Indexer) domain.IndexQueue {
	if ix == nil {
		return nil
	}
	return ix
}
