package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labdesk/workbench/config"
	"github.com/labdesk/workbench/internal/logger"
	"github.com/labdesk/workbench/internal/postgres"
	"github.com/labdesk/workbench/internal/roulette"
	httpserver "github.com/labdesk/workbench/internal/server/http"
	"github.com/labdesk/workbench/internal/service"
	httpx "github.com/labdesk/workbench/internal/transport/http"
	httpmw "github.com/labdesk/workbench/internal/transport/http/middleware"
	"github.com/labdesk/workbench/internal/transport/ws"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		println("failed to load config:", err.Error())
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	defer logger.Sync()
	slog.Info("starting workbench", "env", cfg.Logging.Env, "version", cfg.Logging.Version)

	if err := run(cfg); err != nil {
		slog.Error("workbench stopped with error", "err", err)
		logger.Sync()
		os.Exit(1)
	}
	slog.Info("stopped")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// --- postgres ---
	db, err := postgres.New(ctx, cfg.Postgres.ToPGConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	// --- repos ---
	memberRepo := postgres.NewMemberRepository(db.Pool)
	memoRepo := postgres.NewMemoRepository(db.Pool)

	// --- ws hub & server ---
	verifier := httpmw.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	hub := ws.NewHub()
	wsServer := ws.NewServer(hub, verifier, cfg.HTTP.CORSOrigins)

	// --- services ---
	memberSvc := service.NewMemberService(memberRepo)
	rouletteSvc := service.NewRouletteService(memberRepo, roulette.NewEngine(nil), hub)
	memoSvc := service.NewMemoService(memoRepo, loc, time.Now)

	// --- http ---
	router := httpx.NewRouter(httpx.Deps{
		Handler:        httpx.NewHandler(memberSvc, rouletteSvc, memoSvc),
		Verifier:       verifier,
		Roulette:       wsServer.HandleRoulette,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})
	srv := httpserver.New(httpserver.Config{
		Addr:            cfg.HTTP.Addr,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		IdleTimeout:     cfg.HTTP.IdleTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, router)

	return srv.Run(ctx)
}
