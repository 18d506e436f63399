package employee

import (
	"errors"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal"
)

// Repository defines the data access methods for employees.
type Repository interface {
	GetByID(id int64) (*Employee, error)
	GetSupervisor(employeeID int64) (*Employee, error)
}

// PendingCounter reports the employee's open request load; implemented by
// the vacation repository.
type PendingCounter interface {
	CountPending(employeeID int64) (requests int, days int, err error)
}

type Service struct {
	repo    Repository
	pending PendingCounter
	logger  *slog.Logger
}

func NewService(repo Repository, pending PendingCounter, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		pending: pending,
		logger:  logger,
	}
}

func (s *Service) GetEmployee(id int64) (*Employee, error) {
	emp, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, internal.ErrEmployeeNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		s.logger.Error("failed to load employee", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("could not load employee", err)
	}
	return emp, nil
}

// GetBalance returns the employee's current balance together with the
// pending request load against it.
func (s *Service) GetBalance(employeeID int64) (*BalanceDTO, error) {
	emp, err := s.GetEmployee(employeeID)
	if err != nil {
		return nil, err
	}

	requests, days, err := s.pending.CountPending(employeeID)
	if err != nil {
		s.logger.Error("failed to count pending requests", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("could not load balance", err)
	}

	return &BalanceDTO{
		EmployeeID:      emp.ID,
		VacationDays:    emp.VacationDays,
		PendingRequests: requests,
		PendingDays:     days,
		Granted:         emp.LeaveGrantedAt != nil,
	}, nil
}
