// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-unlock-service/internal/config"
	"video-unlock-service/internal/domain/ports/adapter"
	slipAdapters "video-unlock-service/internal/infra/adapters/slip"
	pg "video-unlock-service/internal/infra/db/postgres"
	"video-unlock-service/internal/infra/logging"
	"video-unlock-service/internal/infra/metrics"
	red "video-unlock-service/internal/infra/redis"
	"video-unlock-service/internal/infra/web"
	"video-unlock-service/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop slip verifier)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Runtime.Dev {
		log.Printf("[DEV MODE] Enabled")
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis (optional; only the rate limiter depends on it) ----
	var limiter web.PurchaseLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Warn().Msg("redis.url not set; purchase rate limiting disabled")
	}

	// ---- Repositories ----
	codeRepo := pg.NewCodeRepo(pool)
	usageRepo := pg.NewUsageRecordRepo(pool)
	receiptRepo := pg.NewReceiptRepo(pool)
	contentRepo := pg.NewContentRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Slip verifier ----
	var verifier adapter.SlipVerifier
	if cfg.Runtime.Dev {
		verifier = &slipAdapters.NoopVerifier{
			ReceiverTH: cfg.Payment.AccountNameTH,
			ReceiverEN: cfg.Payment.AccountNameEN,
			Proxy:      cfg.Payment.PromptPayNumber,
			Amount:     cfg.Payment.PricePerUnlock,
		}
		logger.Warn().Msg("using noop slip verifier (dev mode)")
	} else {
		verifier, err = slipAdapters.NewEasySlipGateway(cfg.Provider.BaseURL, cfg.Provider.AccessToken, cfg.Provider.Timeout)
		if err != nil {
			log.Fatalf("easyslip gateway: %v", err)
		}
	}

	// ---- Use cases ----
	slipUC := usecase.NewSlipCheckUseCase(verifier, cfg.Payment, logger)
	unlockUC := usecase.NewUnlockUseCase(codeRepo, usageRepo, receiptRepo, contentRepo, slipUC, tm, cfg.Payment, logger)
	catalogUC := usecase.NewCatalogUseCase(contentRepo)

	// ---- HTTP server ----
	sessions := web.NewSessionManager(cfg.Session.JWTSecret, cfg.Session.Secure, cfg.Session.CookieDomain, cfg.Session.TTL)
	srv := web.NewServer(unlockUC, catalogUC, sessions, limiter, cfg.RateLimit.PurchasePerHour, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
	cancel()
}
