package ledger

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-management/internal"
)

// Store is the persistence contract for balance mutation. Implementations
// must apply each mutation as a single atomic statement so concurrent
// mutations on the same employee serialize on the row.
type Store interface {
	// Credit increments the employee's balance.
	Credit(employeeID int64, days int) error
	// Debit decrements the balance; fails with ErrInsufficientBalance
	// instead of letting it go negative.
	Debit(employeeID int64, days int) error
	// GrantInitial credits the one-time annual allotment and stamps the
	// durable grant marker. Returns false when the employee was already
	// granted; re-running is safe.
	GrantInitial(employeeID int64, days int, at time.Time) (bool, error)
}

// Service owns all balance mutation. No other component writes
// vacation_days.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) Credit(employeeID int64, days int) error {
	if days <= 0 {
		return internal.NewValidationError("credit amount must be positive", internal.ErrCodeValidationFailed)
	}
	if err := s.store.Credit(employeeID, days); err != nil {
		s.logger.Error("ledger credit failed", "error", err, "employee_id", employeeID, "days", days)
		return err
	}
	s.logger.Info("ledger credit applied", "employee_id", employeeID, "days", days)
	return nil
}

func (s *Service) Debit(employeeID int64, days int) error {
	if days <= 0 {
		return internal.NewValidationError("debit amount must be positive", internal.ErrCodeValidationFailed)
	}
	if err := s.store.Debit(employeeID, days); err != nil {
		s.logger.Warn("ledger debit failed", "error", err, "employee_id", employeeID, "days", days)
		return err
	}
	s.logger.Info("ledger debit applied", "employee_id", employeeID, "days", days)
	return nil
}

func (s *Service) GrantInitial(employeeID int64, days int, at time.Time) (bool, error) {
	if days <= 0 {
		return false, internal.NewValidationError("grant amount must be positive", internal.ErrCodeValidationFailed)
	}
	granted, err := s.store.GrantInitial(employeeID, days, at)
	if err != nil {
		s.logger.Error("ledger grant failed", "error", err, "employee_id", employeeID, "days", days)
		return false, err
	}
	if granted {
		s.logger.Info("annual leave granted", "employee_id", employeeID, "days", days)
	}
	return granted, nil
}
