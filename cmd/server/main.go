package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"dojoroll/internal/identity/handler"
	"dojoroll/internal/identity/media"
	identitymetrics "dojoroll/internal/identity/metrics"
	"dojoroll/internal/identity/notify"
	"dojoroll/internal/identity/service"
	"dojoroll/internal/identity/store/credential"
	"dojoroll/internal/identity/store/profile"
	jwttoken "dojoroll/internal/jwt_token"
	"dojoroll/internal/platform/config"
	"dojoroll/internal/platform/httpserver"
	"dojoroll/internal/platform/logger"
	"dojoroll/internal/platform/metrics"
	"dojoroll/internal/platform/postgres"
	platformredis "dojoroll/internal/platform/redis"
	httptransport "dojoroll/internal/transport/http"
)

// main wires dependencies and runs the server lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Credential store: Redis when configured, in-memory otherwise.
	var credentials credential.Store = credential.NewInMemory()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		credentials = credential.NewRedis(redisClient.Client)
		log.Info("credential store: redis")
	} else {
		log.Info("credential store: in-memory")
	}

	// Profile store: Postgres when configured, in-memory otherwise.
	var profiles profile.Store = profile.NewInMemory()
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		pgStore := profile.NewPostgres(db)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Error("postgres schema setup failed", "error", err)
			os.Exit(1)
		}
		profiles = pgStore
		log.Info("profile store: postgres")
	} else {
		log.Info("profile store: in-memory")
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(identitymetrics.New()),
	}

	if cfg.Media.BaseURL != "" {
		cleaner := media.NewBreakerCleaner(media.NewHTTP(cfg.Media.BaseURL), log)
		opts = append(opts, service.WithMediaCleaner(cleaner))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		notifier, err := notify.NewKafka(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer notifier.Close()
		opts = append(opts, service.WithNotifier(notifier))
		log.Info("lifecycle events: kafka", "topic", cfg.Kafka.Topic)
	}

	coordinator := service.New(credentials, profiles, opts...)

	jwtService := jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience)
	members := handler.New(coordinator, log, metrics.New(), jwttoken.NewJWTServiceAdapter(jwtService))
	router := httptransport.NewRouter(members)

	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting dojoroll", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
