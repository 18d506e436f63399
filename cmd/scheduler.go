package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/leave-management/internal/core/events"
	employeePostgres "github.com/frahmantamala/leave-management/internal/employee/postgres"
	"github.com/frahmantamala/leave-management/internal/ledger"
	ledgerPostgres "github.com/frahmantamala/leave-management/internal/ledger/postgres"
	"github.com/frahmantamala/leave-management/internal/scheduler"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/spf13/cobra"
)

var schedulerRunOnce bool

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the leave eligibility scheduler",
	Long:  `Periodically grants the annual leave allotment to employees who reached the tenure threshold. Use --once for a single batch.`,
	Run: func(cmd *cobra.Command, args []string) {
		startScheduler()
	},
}

func init() {
	schedulerCmd.Flags().BoolVar(&schedulerRunOnce, "once", false, "run a single eligibility batch and exit")
}

func startScheduler() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Format)
	lg := logger.L()

	_, gormDB, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	bus := events.NewEventBus(lg)
	registerNotifications(config, bus, lg)

	employeeRepo := employeePostgres.NewEmployeeRepository(gormDB)
	ledgerService := ledger.NewService(ledgerPostgres.NewLedgerRepository(gormDB), lg)

	eligibility := scheduler.NewEligibilityService(employeeRepo, ledgerService, bus, lg, scheduler.Config{
		DefaultGrantDays: config.Leave.DefaultGrantDays,
		TenureMonths:     config.Leave.TenureMonths,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if schedulerRunOnce {
		result, err := eligibility.Run(ctx)
		if err != nil {
			lg.Error("eligibility batch failed", "error", err)
			os.Exit(1)
		}
		out, _ := json.Marshal(result)
		fmt.Println(string(out))
		return
	}

	runner := scheduler.NewRunner(eligibility, config.Leave.SchedulerInterval, lg)
	runner.Start(ctx)

	lg.Info("scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	lg.Info("received signal, shutting down scheduler", "signal", sig)

	cancel()
	runner.Stop()
	lg.Info("scheduler shutdown complete")
}
