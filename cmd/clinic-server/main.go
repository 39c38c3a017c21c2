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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/matabyar/clinic/internal/config"
	"github.com/matabyar/clinic/internal/domain/identity"
	"github.com/matabyar/clinic/internal/domain/pharmacy"
	"github.com/matabyar/clinic/internal/domain/records"
	"github.com/matabyar/clinic/internal/domain/scheduling"
	"github.com/matabyar/clinic/internal/domain/staff"
	"github.com/matabyar/clinic/internal/platform/auth"
	"github.com/matabyar/clinic/internal/platform/db"
	"github.com/matabyar/clinic/internal/platform/middleware"
)

// doctorDirectoryAdapter adapts the identity doctor repository to the
// staff.DoctorDirectory interface, avoiding circular imports between the
// staff and identity packages.
type doctorDirectoryAdapter struct {
	doctors identity.DoctorRepository
}

func (a *doctorDirectoryAdapter) GetByNationalCode(ctx context.Context, nationalCode string) (*staff.DoctorAccount, error) {
	d, err := a.doctors.GetByNationalCode(ctx, nationalCode)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, staff.ErrNotFound
		}
		return nil, err
	}
	return &staff.DoctorAccount{
		NationalCode: d.NationalCode,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		PasswordHash: d.PasswordHash,
	}, nil
}

func (a *doctorDirectoryAdapter) UpdateCredentials(ctx context.Context, currentNationalCode, newNationalCode, passwordHash string) error {
	err := a.doctors.UpdateCredentials(ctx, currentNationalCode, newNationalCode, passwordHash)
	if errors.Is(err, identity.ErrNotFound) {
		return staff.ErrNotFound
	}
	return err
}

// patientUpserterAdapter lets the booking flow register patients through the
// identity service without the scheduling package importing it.
type patientUpserterAdapter struct {
	identity *identity.Service
}

func (a *patientUpserterAdapter) UpsertPatient(ctx context.Context, info scheduling.PatientInfo) (int64, error) {
	p := &identity.Patient{
		FirstName:    info.FirstName,
		LastName:     info.LastName,
		NationalCode: info.NationalCode,
		BirthDate:    info.BirthDate,
		PhoneNumber:  info.PhoneNumber,
		Gender:       info.Gender,
	}
	if err := a.identity.UpsertPatientByNationalCode(ctx, p); err != nil {
		if errors.Is(err, identity.ErrInvalid) {
			return 0, fmt.Errorf("%w: %v", scheduling.ErrInvalid, err)
		}
		return 0, err
	}
	return p.ID, nil
}

// appointmentCompleterAdapter lets the records service close out the visit's
// appointment through the scheduling service.
type appointmentCompleterAdapter struct {
	scheduling *scheduling.Service
}

func (a *appointmentCompleterAdapter) CompleteAppointment(ctx context.Context, appointmentID int64) error {
	return a.scheduling.UpdateStatus(ctx, appointmentID, scheduling.StatusCompleted)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic front-office API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
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

			pool, ctx, err := connect()
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

			pool, ctx, err := connect()
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

func connect() (*pgxpool.Pool, context.Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, err
	}
	return pool, ctx, nil
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
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeoutSeconds) * time.Second))

	// Token issuer shared by the login flow and the JWT middleware.
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	// Repositories
	patientRepo := identity.NewPatientRepoPG(pool)
	doctorRepo := identity.NewDoctorRepoPG(pool)
	personnelRepo := staff.NewPersonnelRepoPG(pool)
	medicineRepo := pharmacy.NewMedicineRepoPG(pool)
	appointmentRepo := scheduling.NewAppointmentRepoPG(pool)
	recordRepo := records.NewRecordRepoPG(pool)

	// Services
	identitySvc := identity.NewService(patientRepo, doctorRepo)
	staffSvc := staff.NewService(personnelRepo, &doctorDirectoryAdapter{doctors: doctorRepo}, issuer)
	pharmacySvc := pharmacy.NewService(medicineRepo)
	schedulingSvc := scheduling.NewService(appointmentRepo, &patientUpserterAdapter{identity: identitySvc})
	recordsSvc := records.NewService(recordRepo,
		&appointmentCompleterAdapter{scheduling: schedulingSvc},
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return db.RunInTx(ctx, pool, fn)
		})

	// Public routes
	staffHandler := staff.NewHandler(staffSvc)
	staffHandler.RegisterPublicRoutes(e)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Authenticated API
	apiV1 := e.Group("/api/v1")
	apiV1.Use(auth.JWTMiddleware(issuer))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	staffHandler.RegisterRoutes(apiV1)
	identity.NewHandler(identitySvc).RegisterRoutes(apiV1)
	pharmacy.NewHandler(pharmacySvc).RegisterRoutes(apiV1)
	scheduling.NewHandler(schedulingSvc).RegisterRoutes(apiV1)
	records.NewHandler(recordsSvc).RegisterRoutes(apiV1)

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
