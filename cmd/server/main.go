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

	"github.com/anonto42/socialfeed/backend/internal/events"
	"github.com/anonto42/socialfeed/backend/internal/metrics"
	"github.com/anonto42/socialfeed/backend/internal/realtime"
	"github.com/anonto42/socialfeed/backend/internal/router"
	"github.com/anonto42/socialfeed/backend/internal/services"
	"github.com/anonto42/socialfeed/backend/pkg/config"
	"github.com/anonto42/socialfeed/backend/pkg/firebase"
	"github.com/anonto42/socialfeed/backend/pkg/log"
	"github.com/anonto42/socialfeed/backend/validators"
	"github.com/fatih/color"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "socialfeed",
	Short:   "Social feed API server",
	Version: Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		banner()

		cfg, err := setup()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		store, err := config.OpenStore(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer config.CloseStore(context.Background(), store)

		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate store: %w", err)
		}

		deps := router.Dependencies{
			AuthMode:      cfg.AuthMode,
			JWTSecret:     cfg.JWTSecret,
			WebhookSecret: cfg.WebhookSecret,
		}

		if cfg.FirebaseCredentialsPath != "" {
			app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
			if err != nil {
				if cfg.AuthMode == config.AuthModeFirebase {
					return err
				}
				log.Errorf("Firebase login disabled", err)
			} else {
				deps.Verifier = app.AuthClient
			}
		}

		var fanouts []services.Fanout
		if cfg.NatsURL != "" {
			publisher, err := events.Connect(cfg.NatsURL)
			if err != nil {
				return err
			}
			defer publisher.Close()
			fanouts = append(fanouts, publisher)
		}
		if cfg.RedisAddr != "" {
			hub, err := realtime.Connect(ctx, cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer hub.Close()
			fanouts = append(fanouts, hub)
			deps.Subscriber = hub
		}
		deps.Services = services.New(store, services.WithFanout(fanouts...))

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.JSONSerializer = router.JSONSerializer{}
		e.Validator = validators.NewValidator()
		config.SetupMiddleware(e, log.WithComponent("http"))
		router.SetupRoutes(e, deps)

		metricsServer := &http.Server{
			Addr:              ":" + cfg.MetricsPort,
			Handler:           metrics.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 2)
		go func() {
			log.Logger.Info().Str("port", cfg.Port).Msg("Starting API server")
			if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("API server error: %w", err)
			}
		}()
		go func() {
			log.Logger.Info().Str("port", cfg.MetricsPort).Msg("Starting metrics server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server error: %w", err)
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Logger.Info().Str("signal", sig.String()).Msg("Shutting down")
		case err := <-errCh:
			log.Errorf("Server failed", err)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Error shutting down API server", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Error shutting down metrics server", err)
		}
		log.Info("Shutdown complete")
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the collections, tables and indexes of the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		store, err := config.OpenStore(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer config.CloseStore(context.Background(), store)

		if err := store.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("failed to migrate store: %w", err)
		}
		log.Logger.Info().Str("driver", cfg.StoreDriver).Msg("Migrations completed")
		return nil
	},
}

func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log.Init(log.Config{
		Level:      log.Level(cfg.LogLevel),
		JSONOutput: cfg.LogJSON,
	})
	return cfg, nil
}

func banner() {
	fmt.Printf("%s v%s\n", color.New(color.FgHiCyan).Add(color.Bold).Sprintf("SocialFeed"), Version)
	fmt.Println("Likes, follows, threaded comments and notifications")
	color.HiBlack("=====================================================\n")
}
