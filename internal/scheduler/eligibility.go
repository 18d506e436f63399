package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/employee"
)

// EmployeeSource lists employees due their one-time annual grant.
type EmployeeSource interface {
	ListGrantEligible(hiredBefore time.Time) ([]*employee.Employee, error)
}

// Granter applies the idempotent grant; the ledger service satisfies it.
type Granter interface {
	GrantInitial(employeeID int64, days int, at time.Time) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

type Config struct {
	DefaultGrantDays int
	TenureMonths     int
}

type BatchError struct {
	EmployeeID int64  `json:"employee_id"`
	Reason     string `json:"reason"`
}

// BatchResult summarizes one eligibility run.
type BatchResult struct {
	Granted []int64      `json:"granted"`
	Skipped []int64      `json:"skipped"`
	Errors  []BatchError `json:"errors"`
}

// EligibilityService grants the default leave allotment to employees who
// reached the tenure threshold. Each employee is processed independently:
// one failure never aborts the rest of the batch, and the durable grant
// marker makes re-runs no-ops.
type EligibilityService struct {
	employees EmployeeSource
	ledger    Granter
	bus       EventPublisher
	logger    *slog.Logger
	cfg       Config
	now       func() time.Time
}

func NewEligibilityService(employees EmployeeSource, ledger Granter, bus EventPublisher, logger *slog.Logger, cfg Config, now func() time.Time) *EligibilityService {
	if now == nil {
		now = time.Now
	}
	if cfg.DefaultGrantDays <= 0 {
		cfg.DefaultGrantDays = 15
	}
	if cfg.TenureMonths <= 0 {
		cfg.TenureMonths = 12
	}
	return &EligibilityService{
		employees: employees,
		ledger:    ledger,
		bus:       bus,
		logger:    logger,
		cfg:       cfg,
		now:       now,
	}
}

// Run executes one eligibility batch.
func (s *EligibilityService) Run(ctx context.Context) (*BatchResult, error) {
	asOf := s.now()
	cutoff := asOf.AddDate(0, -s.cfg.TenureMonths, 0)

	eligible, err := s.employees.ListGrantEligible(cutoff)
	if err != nil {
		s.logger.Error("eligibility scan failed", "error", err)
		return nil, err
	}

	s.logger.Info("eligibility batch started",
		"eligible", len(eligible),
		"grant_days", s.cfg.DefaultGrantDays,
		"tenure_months", s.cfg.TenureMonths)

	result := &BatchResult{
		Granted: []int64{},
		Skipped: []int64{},
		Errors:  []BatchError{},
	}

	for _, emp := range eligible {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		granted, err := s.ledger.GrantInitial(emp.ID, s.cfg.DefaultGrantDays, asOf)
		if err != nil {
			s.logger.Error("grant failed, skipping employee",
				"error", err,
				"employee_id", emp.ID)
			result.Errors = append(result.Errors, BatchError{EmployeeID: emp.ID, Reason: err.Error()})
			continue
		}

		if !granted {
			// another run got there first
			result.Skipped = append(result.Skipped, emp.ID)
			continue
		}

		result.Granted = append(result.Granted, emp.ID)

		if s.bus != nil {
			s.bus.Publish(ctx, events.NewLeaveGrantedEvent(
				emp.ID,
				events.Contact{Name: emp.FullName, Email: emp.Email, Phone: emp.PhoneNumber()},
				s.cfg.DefaultGrantDays,
			))
		}
	}

	s.logger.Info("eligibility batch finished",
		"granted", len(result.Granted),
		"skipped", len(result.Skipped),
		"errors", len(result.Errors))

	return result, nil
}
