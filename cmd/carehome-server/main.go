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

	"github.com/carehome/carehome/internal/config"
	"github.com/carehome/carehome/internal/domain/audit"
	"github.com/carehome/carehome/internal/domain/clinical"
	"github.com/carehome/carehome/internal/domain/compliance"
	"github.com/carehome/carehome/internal/domain/coverage"
	"github.com/carehome/carehome/internal/domain/directory"
	"github.com/carehome/carehome/internal/domain/patient"
	"github.com/carehome/carehome/internal/domain/roster"
	"github.com/carehome/carehome/internal/domain/ward"
	"github.com/carehome/carehome/internal/platform/auth"
	"github.com/carehome/carehome/internal/platform/db"
	"github.com/carehome/carehome/internal/platform/jobs"
	"github.com/carehome/carehome/internal/platform/middleware"
	"github.com/carehome/carehome/pkg/weektime"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "carehome-server",
		Short: "Residential care facility rule engine and API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the care home API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
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

// seedCmd materializes the ward layout into the bed table and, in
// development, registers the dev-user manager that DevAuthMiddleware acts
// as.
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the bed layout",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			wardSvc := ward.NewService(ward.DefaultLayout(), ward.NewRepo(pool))
			if err := wardSvc.SeedLayout(ctx); err != nil {
				return fmt.Errorf("seed beds: %w", err)
			}
			fmt.Println("Bed layout seeded.")

			if cfg.IsDev() {
				logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
				trail := audit.NewService(audit.NewRepo(pool), logger)
				dirSvc := directory.NewService(directory.NewRepo(pool), trail)
				devCtx := context.WithValue(ctx, auth.StaffIDKey, audit.SystemActor)
				if _, err := dirSvc.Register(devCtx, "dev-user", "Dev User", directory.RoleManager); err != nil {
					fmt.Printf("dev-user already present: %v\n", err)
				} else {
					fmt.Println("Registered dev-user manager.")
				}
			}
			return nil
		},
	}
}

// rosterRules builds the shift shapes from the configured windows.
func rosterRules(cfg *config.Config) (roster.Rules, error) {
	rules := roster.DefaultRules()

	parse := func(name, value string, dst *weektime.TimeOfDay) error {
		t, err := weektime.ParseTimeOfDay(value)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = t
		return nil
	}
	if err := parse("SHIFT_A_START", cfg.ShiftAStart, &rules.ShapeA.Start); err != nil {
		return roster.Rules{}, err
	}
	if err := parse("SHIFT_A_END", cfg.ShiftAEnd, &rules.ShapeA.End); err != nil {
		return roster.Rules{}, err
	}
	if err := parse("SHIFT_B_START", cfg.ShiftBStart, &rules.ShapeB.Start); err != nil {
		return roster.Rules{}, err
	}
	if err := parse("SHIFT_B_END", cfg.ShiftBEnd, &rules.ShapeB.End); err != nil {
		return roster.Rules{}, err
	}
	rules.DailyHourCap = cfg.NurseDailyHourCap

	if !rules.ShapeA.Valid() || !rules.ShapeB.Valid() {
		return roster.Rules{}, fmt.Errorf("shift windows must start before they end")
	}
	return rules, nil
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	shiftRules, err := rosterRules(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid shift configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	authCfg := auth.Config{
		SigningKey: []byte(cfg.AuthSigningKey),
		Issuer:     "carehome",
		TokenTTL:   time.Duration(cfg.TokenTTLMinutes) * time.Minute,
	}

	// Domain wiring
	trail := audit.NewService(audit.NewRepo(pool), logger)
	dirSvc := directory.NewService(directory.NewRepo(pool), trail)

	layout := ward.DefaultLayout()
	wardSvc := ward.NewService(layout, ward.NewRepo(pool))
	patientSvc := patient.NewService(patient.NewRepo(pool))
	placement := ward.NewPlacement(layout, patientSvc.Occupancy())

	rosterSvc := roster.NewService(shiftRules, roster.NewRepo(pool), trail)
	coverageSvc := coverage.NewService(coverage.Rules{DailyMinutesMin: cfg.DoctorMinutesMin}, coverage.NewRepo(pool), trail)
	checker := compliance.NewChecker(rosterSvc, coverageSvc, trail)

	clinicalSvc := clinical.NewService(
		dirSvc, patientSvc, wardSvc, placement, rosterSvc, coverageSvc,
		clinical.NewPrescriptionRepo(pool), clinical.NewAdministrationRepo(pool), trail,
	)

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	dirHandler := directory.NewHandler(dirSvc, authCfg)

	// Login stays outside the auth middleware.
	public := e.Group("/api/v1")
	dirHandler.RegisterAuthRoutes(public)

	var authMW echo.MiddlewareFunc
	if cfg.IsDev() {
		authMW = auth.DevAuthMiddleware()
	} else {
		authMW = auth.JWTMiddleware(authCfg)
	}

	apiV1 := e.Group("/api/v1", authMW)
	apiV1.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))

	dirHandler.RegisterRoutes(apiV1)
	ward.NewHandler(wardSvc).RegisterRoutes(apiV1)
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	roster.NewHandler(rosterSvc).RegisterRoutes(apiV1)
	coverage.NewHandler(coverageSvc).RegisterRoutes(apiV1)
	compliance.NewHandler(checker).RegisterRoutes(apiV1)
	clinical.NewHandler(clinicalSvc).RegisterRoutes(apiV1)
	audit.NewHandler(trail).RegisterRoutes(apiV1)

	// Nightly compliance job
	runner := jobs.NewComplianceRunner(checker, logger)
	stopJobs, err := runner.Start(cfg.ComplianceCronSpec)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to schedule compliance job")
	}
	defer stopJobs()

	// Serve until interrupted, then drain.
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
