package main

import (
	"context"
	"encoding/json"
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

	"github.com/cabmed/cabmed/internal/config"
	"github.com/cabmed/cabmed/internal/domain/absence"
	"github.com/cabmed/cabmed/internal/domain/appointment"
	"github.com/cabmed/cabmed/internal/domain/listsection"
	"github.com/cabmed/cabmed/internal/domain/patient"
	"github.com/cabmed/cabmed/internal/domain/reminder"
	"github.com/cabmed/cabmed/internal/domain/supply"
	"github.com/cabmed/cabmed/internal/domain/user"
	"github.com/cabmed/cabmed/internal/platform/auth"
	"github.com/cabmed/cabmed/internal/platform/backup"
	"github.com/cabmed/cabmed/internal/platform/middleware"
	"github.com/cabmed/cabmed/internal/platform/seed"
	"github.com/cabmed/cabmed/internal/platform/storage"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cabinet-server",
		Short: "Medical office management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(resetCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the office API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a patients+appointments backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")

			app, err := buildApp(context.Background())
			if err != nil {
				return err
			}
			defer app.Close()

			f, err := app.Backup.Export(context.Background())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(f, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("Exported %d patient(s) and %d appointment(s) to %s\n", len(f.Patients), len(f.Appointments), out)
			return nil
		},
	}
	cmd.Flags().String("out", "cabinet-backup.json", "Output file path")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Restore a backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			if in == "" {
				return fmt.Errorf("--in is required")
			}
			data, err := os.ReadFile(in)
			if err != nil {
				return err
			}

			app, err := buildApp(context.Background())
			if err != nil {
				return err
			}
			defer app.Close()

			f, err := app.Backup.Import(context.Background(), data)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d patient(s) and %d appointment(s)\n", len(f.Patients), len(f.Appointments))
			return nil
		},
	}
	cmd.Flags().String("in", "", "Backup file to restore")
	return cmd
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear storage and restore seed data",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(context.Background())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Backup.Reset(context.Background()); err != nil {
				return err
			}
			fmt.Println("Storage cleared, seed data restored.")
			return nil
		},
	}
}

// App holds the wired services. Stores are explicit objects injected
// into each other at construction, so there is no ambient state: the
// reminder engine gets the appointment and patient services handed to
// it, and the patient service gets the appointment cascade.
type App struct {
	Config       *config.Config
	Logger       zerolog.Logger
	Store        storage.Store
	Patients     *patient.Service
	Appointments *appointment.Service
	Supplies     *supply.Service
	Absences     *absence.Service
	Users        *user.Service
	Reminders    *reminder.Service
	Lists        *listsection.Service
	Backup       *backup.Service

	closers []func()
}

func (a *App) Close() {
	for _, fn := range a.closers {
		fn()
	}
}

func buildApp(ctx context.Context) (*App, error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	app := &App{Config: cfg, Logger: logger}

	switch cfg.StorageBackend {
	case "memory":
		app.Store = storage.NewMemoryStore()
	case "file":
		fs, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open data dir: %w", err)
		}
		app.Store = fs
	case "postgres":
		pg, err := storage.NewPGStore(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		app.Store = pg
		app.closers = append(app.closers, pg.Close)
	}
	logger.Info().Str("backend", cfg.StorageBackend).Msg("storage ready")

	tokens := auth.NewTokenIssuer([]byte(cfg.AuthSecret), time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	app.Appointments = appointment.NewService(appointment.NewStoreRepo(ctx, app.Store, logger, nil))
	app.Patients = patient.NewService(patient.NewStoreRepo(ctx, app.Store, logger, seed.Patients()), app.Appointments)
	app.Supplies = supply.NewService(supply.NewStoreRepo(ctx, app.Store, logger, seed.Supplies()))
	app.Absences = absence.NewService(absence.NewStoreRepo(ctx, app.Store, logger, seed.Absences()))
	app.Users = user.NewService(user.NewStoreRepo(ctx, app.Store, logger, seed.Users()), tokens)
	app.Lists = listsection.NewService(listsection.NewStoreRepo(ctx, app.Store, logger, seed.ListSections()))

	app.Reminders = reminder.NewService(reminder.NewStoreRepo(ctx, app.Store, logger), app.Appointments, app.Patients, logger)
	app.Appointments.Subscribe(app.Reminders)

	app.Backup = backup.NewService(app.Patients, app.Appointments, app.Supplies, app.Absences, app.Users, app.Reminders, app.Lists, app.Store, logger)
	return app, nil
}

func runServer() error {
	ctx := context.Background()
	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	cfg, logger := app.Config, app.Logger

	// Catch up with appointments mutated while the server was down.
	if err := app.Reminders.Scan(ctx); err != nil {
		logger.Error().Err(err).Msg("initial reminder scan")
	}

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

	public := e.Group("/api/v1")

	apiV1 := e.Group("/api/v1")
	if cfg.IsDev() && cfg.AuthSecret == "" {
		logger.Warn().Msg("AUTH_SECRET not set; requests run as a development admin")
		apiV1.Use(auth.DevMiddleware())
	} else {
		apiV1.Use(auth.Middleware([]byte(cfg.AuthSecret)))
	}

	user.NewHandler(app.Users).RegisterRoutes(public, apiV1)
	patient.NewHandler(app.Patients).RegisterRoutes(apiV1)
	appointment.NewHandler(app.Appointments).RegisterRoutes(apiV1)
	supply.NewHandler(app.Supplies).RegisterRoutes(apiV1)
	absence.NewHandler(app.Absences).RegisterRoutes(apiV1)
	reminder.NewHandler(app.Reminders).RegisterRoutes(apiV1)
	listsection.NewHandler(app.Lists).RegisterRoutes(apiV1)
	backup.NewHandler(app.Backup).RegisterRoutes(apiV1)

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
