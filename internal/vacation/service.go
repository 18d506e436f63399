package vacation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/employee"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository defines the data access methods for vacation requests.
// Approve and Reject flip the status with a pending-only guard and return
// internal.ErrRequestNotActionable when the request was already decided;
// Approve additionally debits the balance in the same transaction.
type Repository interface {
	Create(req *Request) error
	GetByID(id int64) (*Request, error)
	ListByEmployee(employeeID int64, limit, offset int) ([]*Request, error)
	ListPendingByEmployee(employeeID int64) ([]*Request, error)
	ListPendingBySupervisor(supervisorID int64) ([]*Request, error)
	Approve(requestID, employeeID int64, days int, comment string, processedAt time.Time) error
	Reject(requestID int64, comment string, processedAt time.Time) error
}

// EmployeeStore is the slice of employee data the lifecycle needs.
type EmployeeStore interface {
	GetByID(id int64) (*employee.Employee, error)
}

// EventPublisher decouples lifecycle transitions from notification
// delivery; the event bus satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

// Service owns the request state machine: pending is the initial state,
// approved and rejected are terminal, and no other transition exists.
type Service struct {
	repo          Repository
	employees     EmployeeStore
	validator     *Validator
	bus           EventPublisher
	logger        *slog.Logger
	retryAttempts int
}

func NewService(repo Repository, employees EmployeeStore, validator *Validator, bus EventPublisher, logger *slog.Logger, retryAttempts int) *Service {
	if retryAttempts <= 0 {
		retryAttempts = 3
	}
	return &Service{
		repo:          repo,
		employees:     employees,
		validator:     validator,
		bus:           bus,
		logger:        logger,
		retryAttempts: retryAttempts,
	}
}

// SubmitRequest validates and persists a new pending request. The insert is
// a single statement, so a validation pass either becomes a visible pending
// request or nothing at all.
func (s *Service) SubmitRequest(ctx context.Context, employeeID int64, dto CreateRequestDTO) (*Request, error) {
	start, end, err := dto.ParseDates()
	if err != nil {
		return nil, err
	}

	emp, err := s.employees.GetByID(employeeID)
	if err != nil {
		if errors.Is(err, internal.ErrEmployeeNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		s.logger.Error("failed to load employee for submission", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("could not submit request", err)
	}

	pending, err := s.repo.ListPendingByEmployee(employeeID)
	if err != nil {
		s.logger.Error("failed to load pending requests", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("could not submit request", err)
	}

	days, err := s.validator.Validate(emp, pending, start, end, dto.Reason)
	if err != nil {
		s.logger.Info("submission rejected by validation",
			"employee_id", employeeID,
			"start_date", dto.StartDate,
			"end_date", dto.EndDate,
			"error", err)
		return nil, err
	}

	req := &Request{
		EmployeeID:    employeeID,
		StartDate:     TruncateToDate(start),
		EndDate:       TruncateToDate(end),
		DaysRequested: days,
		Reason:        dto.Reason,
		Status:        StatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.repo.Create(req); err != nil {
		s.logger.Error("failed to persist request", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("could not submit request", err)
	}

	s.logger.Info("vacation request submitted",
		"request_id", req.ID,
		"employee_id", employeeID,
		"days", days)

	s.publishSubmitted(ctx, req, emp)

	return req, nil
}

// DecideRequest applies a supervisor decision. Exactly one decision can ever
// succeed for a request; the loser of a race observes it as not actionable.
func (s *Service) DecideRequest(ctx context.Context, requestID, supervisorID int64, decision string, dto DecideRequestDTO) (*Request, error) {
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, internal.NewValidationError("decision must be approve or reject", internal.ErrCodeValidationFailed)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(requestID)
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			// reported identically to an already-decided request so callers
			// cannot probe for existence
			s.logger.Warn("decide on missing request", "request_id", requestID, "supervisor_id", supervisorID)
			return nil, internal.ErrRequestNotActionable
		}
		s.logger.Error("failed to load request for decision", "error", err, "request_id", requestID)
		return nil, internal.NewInternalError("could not process decision", err)
	}

	if !req.IsPending() {
		s.logger.Warn("decide on processed request",
			"request_id", requestID,
			"supervisor_id", supervisorID,
			"status", req.Status)
		return nil, internal.ErrRequestNotActionable
	}

	emp, err := s.employees.GetByID(req.EmployeeID)
	if err != nil {
		s.logger.Error("failed to load request owner", "error", err, "request_id", requestID, "employee_id", req.EmployeeID)
		return nil, internal.NewInternalError("could not process decision", err)
	}

	if !emp.IsSupervisedBy(supervisorID) {
		s.logger.Warn("decision denied: not the assigned supervisor",
			"request_id", requestID,
			"supervisor_id", supervisorID,
			"employee_id", emp.ID)
		return nil, internal.ErrNotAuthorized
	}

	processedAt := time.Now()
	balanceBefore := emp.VacationDays

	if decision == DecisionApprove {
		err = s.withConflictRetry(func() error {
			return s.repo.Approve(requestID, req.EmployeeID, req.DaysRequested, dto.Comment, processedAt)
		})
	} else {
		err = s.withConflictRetry(func() error {
			return s.repo.Reject(requestID, dto.Comment, processedAt)
		})
	}
	if err != nil {
		switch {
		case errors.Is(err, internal.ErrRequestNotActionable):
			s.logger.Warn("lost decision race", "request_id", requestID, "supervisor_id", supervisorID)
			return nil, internal.ErrRequestNotActionable
		case errors.Is(err, internal.ErrInsufficientBalance):
			// balance moved since submission, surfaced at decision time
			s.logger.Warn("approval denied: balance exhausted",
				"request_id", requestID,
				"employee_id", emp.ID,
				"balance", balanceBefore,
				"days_requested", req.DaysRequested)
			return nil, internal.ErrInsufficientBalance
		default:
			s.logger.Error("decision transaction failed", "error", err, "request_id", requestID)
			return nil, internal.NewInternalError("could not process decision", err)
		}
	}

	status := StatusRejected
	balanceAfter := balanceBefore
	if decision == DecisionApprove {
		status = StatusApproved
		balanceAfter = balanceBefore - req.DaysRequested
	}

	req.Status = status
	req.SupervisorComment = &dto.Comment
	req.ProcessedAt = &processedAt
	req.UpdatedAt = processedAt

	s.logger.Info("vacation request decided",
		"request_id", requestID,
		"supervisor_id", supervisorID,
		"decision", status,
		"balance_before", balanceBefore,
		"balance_after", balanceAfter)

	s.publishDecided(ctx, req, emp, status, dto.Comment, balanceBefore, balanceAfter)

	return req, nil
}

// GetRequest loads a request for a viewer. Only the owner and the owner's
// supervisor may see it; everyone else, and missing ids, get the same
// not-authorized answer.
func (s *Service) GetRequest(ctx context.Context, requestID, requesterID int64) (*Request, error) {
	req, err := s.repo.GetByID(requestID)
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			s.logger.Info("request view denied: not found", "request_id", requestID, "requester_id", requesterID)
			return nil, internal.ErrNotAuthorized
		}
		s.logger.Error("failed to load request", "error", err, "request_id", requestID)
		return nil, internal.NewInternalError("could not load request", err)
	}

	if req.EmployeeID == requesterID {
		return req, nil
	}

	emp, err := s.employees.GetByID(req.EmployeeID)
	if err != nil {
		s.logger.Error("failed to load request owner", "error", err, "request_id", requestID)
		return nil, internal.NewInternalError("could not load request", err)
	}

	if !emp.IsSupervisedBy(requesterID) {
		s.logger.Info("request view denied: not owner or supervisor",
			"request_id", requestID,
			"requester_id", requesterID)
		return nil, internal.ErrNotAuthorized
	}

	return req, nil
}

func (s *Service) ListMyRequests(ctx context.Context, employeeID int64, limit, offset int) ([]*Request, error) {
	requests, err := s.repo.ListByEmployee(employeeID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list requests", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("could not list requests", err)
	}
	return requests, nil
}

// ListPendingForSupervisor returns the approval queue scoped to the
// supervisor's direct reports.
func (s *Service) ListPendingForSupervisor(ctx context.Context, supervisorID int64) ([]*Request, error) {
	requests, err := s.repo.ListPendingBySupervisor(supervisorID)
	if err != nil {
		s.logger.Error("failed to list pending requests", "error", err, "supervisor_id", supervisorID)
		return nil, internal.NewInternalError("could not list pending requests", err)
	}
	return requests, nil
}

// withConflictRetry re-runs the transaction on transient serialization
// conflicts, bounded with short backoff. Domain errors pass through
// untouched.
func (s *Service) withConflictRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < s.retryAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 50 * time.Millisecond)
			s.logger.Warn("retrying decision after transient conflict", "attempt", attempt+1)
		}
		err = fn()
		if err == nil || !isTransientConflict(err) {
			return err
		}
	}
	return err
}

// isTransientConflict recognizes postgres serialization failures and
// deadlocks, which are safe to retry.
func isTransientConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func (s *Service) publishSubmitted(ctx context.Context, req *Request, emp *employee.Employee) {
	if s.bus == nil {
		return
	}

	supervisor, err := s.employees.GetByID(*emp.SupervisorID)
	if err != nil {
		// notification only; the submission already committed
		s.logger.Warn("could not load supervisor for notification", "error", err, "request_id", req.ID)
		return
	}

	s.bus.Publish(ctx, events.NewRequestSubmittedEvent(
		req.ID,
		emp.ID,
		emp.FullName,
		events.Contact{Name: supervisor.FullName, Email: supervisor.Email, Phone: supervisor.PhoneNumber()},
		req.StartDate,
		req.EndDate,
		req.DaysRequested,
		req.Reason,
	))
}

func (s *Service) publishDecided(ctx context.Context, req *Request, emp *employee.Employee, status, comment string, balanceBefore, balanceAfter int) {
	if s.bus == nil {
		return
	}

	s.bus.Publish(ctx, events.NewRequestDecidedEvent(
		req.ID,
		emp.ID,
		events.Contact{Name: emp.FullName, Email: emp.Email, Phone: emp.PhoneNumber()},
		status,
		comment,
		req.StartDate,
		req.EndDate,
		req.DaysRequested,
		balanceBefore,
		balanceAfter,
	))
}
