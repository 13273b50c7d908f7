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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/auth"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/config"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/metrics"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/profile"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/router"
	"github.com/ovaphlow/pitchfork/service-youapp/internal/user"
	"github.com/ovaphlow/pitchfork/service-youapp/pkg/database"
	"github.com/ovaphlow/pitchfork/service-youapp/pkg/utilities"
)

func main() {
	// best-effort: real env wins when no .env exists
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()
	sugar := lg.Sugar()

	if err := run(sugar); err != nil {
		sugar.Fatalw("service stopped", "err", err)
	}
	sugar.Info("goodbye")
}

func run(sugar *zap.SugaredLogger) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	sugar.Infow("starting service-youapp", "store", cfg.StoreBackend, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, sugar)
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}
	defer st.close()

	var cache profile.Cache = profile.NopCache{}
	if cfg.RedisAddr != "" {
		rdb, err := database.ConnectRedis(ctx, database.RedisConfig{
			Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB, Timeout: cfg.ConnectTimeout,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		cache = profile.NewRedisCache(rdb, cfg.ProfileCacheTTL)
		sugar.Infow("profile cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.ProfileCacheTTL)
	}

	issuer, err := auth.NewIssuer(auth.IssuerConfig{
		Secret:        cfg.JWTSecret,
		PrivateKeyPEM: cfg.JWTPrivateKey,
		Issuer:        cfg.JWTIssuer,
		TTL:           cfg.TokenTTL,
	})
	if err != nil {
		return err
	}
	sugar.Infow("token issuer ready", "alg", issuer.Algorithm(), "ttl", cfg.TokenTTL)

	m := metrics.New()
	ids := utilities.NewIDGenerator(utilities.NodeFromEnv())
	authSvc := auth.NewService(st.users, auth.NewBcryptHasher(cfg.BcryptCost), issuer, ids, sugar)

	handler := router.RegisterRoutes(router.Deps{
		Logger:    sugar,
		Metrics:   m,
		APIPrefix: cfg.APIPrefix,
		Verifier:  issuer,
		Auth:      auth.NewHandler(authSvc, issuer, m, sugar),
		Users:     user.NewHandler(user.NewUserService(st.users, sugar), sugar),
		Profiles:  profile.NewHandler(profile.NewService(st.profiles, cache, m, sugar), sugar),
		Ready:     st.ready,
	})
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	sugar.Info("service is running; press Ctrl+C to stop")

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	sugar.Info("shutting down")
	doneCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnw("http server shutdown failed", "err", err)
	}
	return nil
}
