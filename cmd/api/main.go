package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"entertablock.io/internal/audit"
	"entertablock.io/internal/config"
	"entertablock.io/internal/httpapi"
	"entertablock.io/internal/obs"
	"entertablock.io/internal/payout"
	"entertablock.io/internal/registry"
	"entertablock.io/internal/store/pg"
	"entertablock.io/internal/store/sqlite"
	"entertablock.io/internal/stream"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// durableStore is what main needs from either SQL backend.
type durableStore interface {
	registry.Store
	httpapi.Pinger
	httpapi.JournalReader
	io.Closer
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Регистрация метрик и JSON-логгера.
	obs.Init()
	obs.InitBuildInfo(version, commit)
	if cfg.LogFile != "" {
		sink := obs.UseFile(obs.FileSink{
			Path:       cfg.LogFile,
			MaxSizeMB:  cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAgeDays: cfg.LogMaxAgeDays,
		})
		defer sink.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	if store != nil {
		defer store.Close()
	}

	operator, payouts, err := payoutSetup(cfg)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	feed := stream.New()

	opts := []registry.Option{
		registry.WithPayouts(payouts),
		registry.WithEmitter(registry.MultiEmitter{feed, audit.Emitter{}}),
		registry.WithObserver(obs.ObserveOperation),
		registry.WithOperator(operator),
	}
	var (
		ready   httpapi.ReadyProbe
		journal httpapi.JournalReader
	)
	if store != nil {
		opts = append(opts, registry.WithStore(store))
		ready = httpapi.ReadyProbe{Store: store}
		journal = store
	}
	engine, err := registry.New(ctx, opts...)
	if err != nil {
		log.Fatalf("registry: %v", err)
	}

	api := httpapi.New(engine, httpapi.Options{
		Version:         version,
		Ready:           ready,
		Stream:          feed,
		Payouts:         payouts,
		Journal:         journal,
		CORSOrigins:     cfg.CORSOrigins,
		Operator:        operator,
		TokenTTL:        cfg.TokenTTL,
		ChallengeWindow: cfg.ChallengeWindow,
		DevTokens:       cfg.DevTokens,
		RateBurst:       cfg.RateLimitBurst,
		RatePerSec:      cfg.RateLimitRPS,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grpcSrv, health := httpapi.NewGRPC(engine)
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("listen grpc: %v", err)
	}

	obs.Info("starting entertablock-api", map[string]any{
		"version":   version,
		"http_addr": cfg.HTTPAddr,
		"grpc_addr": cfg.GRPCAddr,
		"durable":   store != nil,
		"sequence":  engine.Sequence(),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return grpcSrv.Serve(lis)
	})
	g.Go(func() error {
		httpapi.WatchReadiness(gctx, health, ready, 5*time.Second)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		obs.Info("shutting down", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		done := make(chan struct{})
		go func() {
			grpcSrv.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-shutdownCtx.Done():
			grpcSrv.Stop()
		}
		return err
	})

	if err := g.Wait(); err != nil {
		obs.Error("server stopped with error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	obs.Info("stopped", nil)
}

// payoutSetup resolves the operator identity and the payout primitive. Funded
// wallets switch the primitive to enforced balances.
func payoutSetup(cfg config.Config) (registry.Identity, *payout.InMemory, error) {
	operator, err := cfg.OperatorIdentity()
	if err != nil {
		return "", nil, fmt.Errorf("operator: %w", err)
	}
	wallets, err := cfg.Wallets()
	if err != nil {
		return "", nil, fmt.Errorf("payout wallets: %w", err)
	}
	if len(wallets) > 0 {
		return operator, payout.NewFunded(wallets), nil
	}
	return operator, payout.NewInMemory(), nil
}

// openStore picks the configured backend. A nil store keeps state in memory.
func openStore(ctx context.Context, cfg config.Config) (durableStore, error) {
	switch {
	case cfg.PGDSN != "":
		s, err := pg.Open(cfg.PGDSN)
		if err != nil {
			return nil, err
		}
		applied, err := s.Migrate(ctx)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		if len(applied) > 0 {
			obs.Info("applied migrations", map[string]any{"migrations": applied})
		}
		return s, nil
	case cfg.SQLitePath != "":
		return sqlite.Open(cfg.SQLitePath)
	default:
		return nil, nil
	}
}
