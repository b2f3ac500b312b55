package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dkotenko/snipvault/internal/config"
	"github.com/dkotenko/snipvault/internal/es"
	"github.com/dkotenko/snipvault/internal/event"
	"github.com/dkotenko/snipvault/internal/handlers"
	"github.com/dkotenko/snipvault/internal/logging"
	"github.com/dkotenko/snipvault/internal/middleware/auth"
	"github.com/dkotenko/snipvault/internal/middleware/loggingmw"
	"github.com/dkotenko/snipvault/internal/repo"
	"github.com/dkotenko/snipvault/internal/service"
	"github.com/dkotenko/snipvault/internal/session"
	httpserver "github.com/dkotenko/snipvault/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.SessionSecret, "SESSION_SECRET")

	log := logging.New(cfg.LogLevel)
	ctx := logging.IntoContext(context.Background(), log)

	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	var esClient *elasticsearch.Client
	if cfg.ESURL != "" {
		esClient, err = es.NewClient(cfg)
		if err != nil {
			log.Error("elasticsearch init failed", "error", err)
			os.Exit(1)
		}
	}

	producer := event.NewProducer(cfg.KafkaBrokers)

	r := repo.New(db)
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	resolver := &auth.Resolver{Repo: r, Sessions: sessions}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(log))

	httpserver.Register(e, &httpserver.Deps{
		Resolver: resolver,
		AuthHandler: &handlers.AuthHandler{
			Auth:     &service.AuthService{Repo: r},
			Sessions: sessions,
			Producer: producer,
		},
		TokenHandler: &handlers.TokenHandler{Tokens: &service.TokenService{Repo: r}},
		SnippetHandler: &handlers.SnippetHandler{
			Repo:     r,
			ES:       esClient,
			ESIndex:  cfg.ESIndex,
			Producer: producer,
		},
		TagHandler:    &handlers.TagHandler{Repo: r},
		SearchHandler: &handlers.SearchHandler{ES: esClient, Index: cfg.ESIndex},
		EnhanceHandler: &handlers.EnhanceHandler{
			Quota:    &service.QuotaService{Repo: r},
			Enhancer: service.NewEnhanceService(cfg.OpenAIKey, cfg.OpenAIModel),
			Repo:     r,
		},
		UserKeyHandler:  &handlers.UserKeyHandler{Repo: r},
		FeedbackHandler: &handlers.FeedbackHandler{Repo: r},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Error("kafka close error", "error", err)
	}

	log.Info("shutdown complete")
}
