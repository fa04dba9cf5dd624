// Command so-mockapi serves the in-memory development API.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/stackclone/internal/crypto"
	"github.com/and161185/stackclone/internal/limiter"
	"github.com/and161185/stackclone/internal/mockapi"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses flags, optionally seeds demo data and serves until SIGINT/SIGTERM.
func main() {
	addr := flag.String("addr", ":8000", "listen address")
	jwtKey := flag.String("jwt-key", "", "HS256 signing key (required)")
	accessTTL := flag.Duration("access-ttl", 24*time.Hour, "access token TTL")
	seed := flag.Bool("seed", true, "load demo users, tags, questions and answers")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", *addr),
	)

	if *jwtKey == "" {
		logger.Fatal("missing jwt signing key (--jwt-key)")
	}

	st := mockapi.NewStore()
	if *seed {
		if err := mockapi.Seed(st, crypto.DefaultParams); err != nil {
			logger.Fatal("seed", zap.Error(err))
		}
		logger.Info("seeded demo data", zap.String("password", mockapi.DemoPassword))
	}

	api, err := mockapi.New(st, []byte(*jwtKey),
		mockapi.WithAccessTTL(*accessTTL),
		mockapi.WithLimiter(limiter.NewMemory(15*time.Minute, 5, 15*time.Minute)),
		mockapi.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("mockapi.New", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", *addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown", zap.Error(err))
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
