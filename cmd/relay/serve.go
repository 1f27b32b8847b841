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

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"portfolio-relay/internal/config"
	"portfolio-relay/internal/handler"
	"portfolio-relay/internal/httpserver"
	"portfolio-relay/internal/mailer"
	"portfolio-relay/internal/service/contact"
	"portfolio-relay/pkg/logger"
	"portfolio-relay/pkg/mq"
	"portfolio-relay/pkg/otel"
	"portfolio-relay/pkg/ratelimit"
	redisclient "portfolio-relay/pkg/redis"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.env, root.configDir)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log.Level, cfg.Log.Development)
	defer log.Sync()

	log.Info("Starting portfolio-relay...",
		zap.String("version", version),
		zap.String("port", cfg.Server.Port),
		zap.String("mail_transport", cfg.Mail.Transport),
	)

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	// Tracing
	shutdownTracing, err := otel.Init(otel.Config{
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: version,
		Endpoint:       cfg.OTel.Endpoint,
		Enabled:        cfg.OTel.Enabled,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	defer shutdownTracing()

	var checks []httpserver.ReadinessCheck

	// Redis (rate limiting)
	var limiter *ratelimit.Limiter
	rdb, err := redisclient.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn("Redis not reachable at startup, rate limiting fails open until it is", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
		if cfg.RateLimit.MaxRequests > 0 {
			limiter = ratelimit.NewLimiter(
				ratelimit.NewRedisCounter(rdb),
				"contact",
				cfg.RateLimit.MaxRequests,
				time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
				log,
			)
			log.Info("Rate limiting enabled",
				zap.Int64("max_requests", cfg.RateLimit.MaxRequests),
				zap.Int("window_seconds", cfg.RateLimit.WindowSeconds),
			)
		}
		checks = append(checks, redisCheck(rdb))
	}

	// MQ (outcome events)
	var events contact.EventPublisher
	if cfg.MQ.URL != "" {
		publisher, err := mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			return fmt.Errorf("failed to init MQ publisher: %w", err)
		}
		defer publisher.Close()
		events = publisher
		checks = append(checks, httpserver.ReadinessCheck{
			Name: "mq",
			Check: func(context.Context) error {
				if !publisher.IsConnected() {
					return errors.New("publisher connection closed")
				}
				return nil
			},
		})
	}

	// Mail transport
	m, err := mailer.New(ctx, cfg.Mail, log)
	if err != nil {
		return fmt.Errorf("failed to init mail transport: %w", err)
	}

	relay := contact.NewService(relaySettings(cfg), m, events, log)
	contactHandler := handler.NewContactHandler(relay, log)

	router, err := httpserver.NewRouter(contactHandler, httpserver.Options{
		Logger:         log,
		Limiter:        limiter,
		Checks:         checks,
		StaticDir:      cfg.Server.StaticDir,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		Tracing:        cfg.OTel.Enabled,
		TrustedProxies: cfg.Server.TrustedProxies,
	})
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info("portfolio-relay is fully initialized and running")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		log.Info("Shutting down portfolio-relay gracefully...", zap.String("signal", sig.String()))
	case err, ok := <-errCh:
		if ok {
			log.Error("HTTP server failed", zap.Error(err))
			return err
		}
	case <-ctx.Done():
		log.Info("Shutting down portfolio-relay gracefully...", zap.Error(ctx.Err()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}

	log.Info("portfolio-relay shutdown complete")
	return nil
}

func relaySettings(cfg *config.Config) contact.Settings {
	return contact.Settings{
		From:             cfg.Mail.From,
		To:               cfg.Mail.To,
		StrictEmail:      cfg.Relay.StrictEmail,
		MaxMessageLength: cfg.Relay.MaxMessageLength,
	}
}

func redisCheck(rdb *goredis.Client) httpserver.ReadinessCheck {
	return httpserver.ReadinessCheck{
		Name: "redis",
		Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
	}
}
