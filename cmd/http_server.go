package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/employee"
	employeePostgres "github.com/frahmantamala/leave-management/internal/employee/postgres"
	ledgerPostgres "github.com/frahmantamala/leave-management/internal/ledger/postgres"
	"github.com/frahmantamala/leave-management/internal/notification"
	"github.com/frahmantamala/leave-management/internal/transport/rest"
	"github.com/frahmantamala/leave-management/internal/vacation"
	vacationPostgres "github.com/frahmantamala/leave-management/internal/vacation/postgres"
	"github.com/frahmantamala/leave-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.InitWithLevel(config.Observability.Logging.Format, config.Observability.Logging.Level)
	lg := logger.L()

	sqlDB, gormDB, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	router := chi.NewRouter()

	bus := events.NewEventBus(lg)
	registerNotifications(config, bus, lg)

	ledgerRepo := ledgerPostgres.NewLedgerRepository(gormDB)
	employeeRepo := employeePostgres.NewEmployeeRepository(gormDB)
	vacationRepo := vacationPostgres.NewVacationRepository(gormDB, ledgerRepo)

	validator := vacation.NewValidator(nil)
	vacationService := vacation.NewService(vacationRepo, employeeRepo, validator, bus, lg, config.Leave.RetryAttempts())
	employeeService := employee.NewService(employeeRepo, vacationRepo, lg)

	vacationHandler := vacation.NewHandler(vacationService)
	employeeHandler := employee.NewHandler(employeeService)

	rest.RegisterAllRoutes(router, sqlDB.DB, vacationHandler, employeeHandler, config.Server.AllowedOrigins, lg)

	addr := fmt.Sprintf(":%d", config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
		IdleTimeout:  config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := sqlDB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

// registerNotifications wires the configured delivery channels onto the bus.
func registerNotifications(config *internal.Config, bus *events.EventBus, lg *slog.Logger) {
	var email notification.EmailSender
	if config.Notification.Email.Enabled {
		email = notification.NewSMTPSender(
			config.Notification.Email.SMTPHost,
			config.Notification.Email.SMTPPort,
			config.Notification.Email.From,
			config.Notification.Email.FromName,
			lg,
		)
	}

	var text notification.TextSender
	if config.Notification.WhatsApp.Enabled {
		text = notification.NewWhatsAppClient(
			config.Notification.WhatsApp.APIURL,
			config.Notification.WhatsApp.APIKey,
			config.Notification.WhatsApp.Timeout,
			lg,
		)
	}

	dispatcher := notification.NewDispatcher(email, text, lg)
	dispatcher.RegisterEventHandlers(bus)
}

// initDB opens one pgx-backed connection pool and shares it between sqlx
// (health checks) and gorm (repositories).
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	if cfg.ConnMaxLifetime > 0 {
		dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: dbConn.DB}), &gorm.Config{})
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	return dbConn, gormDB, nil
}
