package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sepsiswatch/sepsiswatch/internal/config"
	"github.com/sepsiswatch/sepsiswatch/internal/domain/alert"
	"github.com/sepsiswatch/sepsiswatch/internal/domain/feedback"
	"github.com/sepsiswatch/sepsiswatch/internal/domain/identity"
	"github.com/sepsiswatch/sepsiswatch/internal/domain/patient"
	"github.com/sepsiswatch/sepsiswatch/internal/domain/prediction"
	"github.com/sepsiswatch/sepsiswatch/internal/ml/explain"
	"github.com/sepsiswatch/sepsiswatch/internal/ml/model"
	"github.com/sepsiswatch/sepsiswatch/internal/platform/auth"
	"github.com/sepsiswatch/sepsiswatch/internal/platform/db"
	"github.com/sepsiswatch/sepsiswatch/internal/platform/middleware"
	"github.com/sepsiswatch/sepsiswatch/internal/platform/notification"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sepsis-server",
		Short: "Sepsis risk scoring and alerting service",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the sepsis API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Model artifacts. Load never fails: missing artifacts degrade to the
	// low-risk stub so the API stays up.
	mdl := model.Load(model.Config{
		ClassifierPath: cfg.ModelPath,
		SchemaPath:     cfg.FeatureConfigPath,
	}, logger)
	explainer := explain.New(mdl, logger)

	// Notification stack
	broadcaster := notification.NewBroadcaster(cfg.RedisURL, logger)
	defer broadcaster.Close()
	emailSender := notification.NewSMTPSender(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, logger)
	smsSender := notification.NewLogSMSSender(logger)
	dispatcher := notification.NewDispatcher(broadcaster, emailSender, smsSender, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.AuthSigningKey),
		}))
	}

	// API group
	api := e.Group("/api")
	api.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))

	// Repositories
	patientRepo := patient.NewPatientRepoPG(pool)
	observationRepo := patient.NewObservationRepoPG(pool)
	userRepo := identity.NewUserRepoPG(pool)
	alertRepo := alert.NewRepoPG(pool)
	predictionRepo := prediction.NewRepoPG(pool)

	// Services and handlers
	patientSvc := patient.NewService(patientRepo, observationRepo)
	patientHandler := patient.NewHandler(patientSvc)
	patientHandler.RegisterRoutes(api)

	identitySvc := identity.NewService(userRepo)
	identityHandler := identity.NewHandler(identitySvc)
	identityHandler.RegisterRoutes(api)

	alertSvc := alert.NewService(alertRepo)
	alertHandler := alert.NewHandler(alertSvc)
	alertHandler.RegisterRoutes(api)

	predictionSvc := prediction.NewService(
		patientRepo,
		observationRepo,
		predictionRepo,
		alertSvc,
		userRepo,
		mdl,
		explainer,
		dispatcher,
		logger,
	)
	predictionHandler := prediction.NewHandler(predictionSvc)
	predictionHandler.RegisterRoutes(api)

	feedbackSvc := feedback.NewService(feedback.NewRepoPG(pool), predictionRepo, userRepo)
	feedbackHandler := feedback.NewHandler(feedbackSvc)
	feedbackHandler.RegisterRoutes(api)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	modelCheck := func(ctx context.Context) db.ComponentStatus {
		cs := db.ComponentStatus{Name: "model", Status: "ok", Detail: mdl.Version()}
		if mdl.Degraded() {
			cs.Status = "degraded"
		}
		return cs
	}
	redisCheck := func(ctx context.Context) db.ComponentStatus {
		cs := db.ComponentStatus{Name: "redis", Status: "ok"}
		if err := broadcaster.Ping(ctx); err != nil {
			cs.Status = "degraded"
			cs.Detail = err.Error()
		}
		return cs
	}
	e.GET("/health/db", db.HealthHandler(pool, modelCheck, redisCheck))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
