package vacation

import (
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/employee"
)

// Validator enforces the submission business rules. It is a pure check: it
// never touches the store, the caller supplies the employee's current state
// and open requests.
type Validator struct {
	now func() time.Time
}

func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now}
}

// Validate runs every submission rule and returns the inclusive day count
// on success. Rules run in a fixed order so callers always see the most
// fundamental failure first.
func (v *Validator) Validate(emp *employee.Employee, pending []*Request, start, end time.Time, reason string) (int, error) {
	if reason == "" {
		return 0, internal.NewValidationError("reason is required", internal.ErrCodeValidationFailed)
	}

	if !emp.HasSupervisor() {
		return 0, internal.ErrNoSupervisor
	}

	start = TruncateToDate(start)
	end = TruncateToDate(end)
	today := TruncateToDate(v.now())

	if start.Before(today) {
		return 0, internal.ErrStartDateInPast
	}

	if end.Before(start) {
		return 0, internal.ErrEndBeforeStart
	}

	days := DaysInclusive(start, end)

	if days > emp.VacationDays {
		return 0, internal.ErrInsufficientBalance
	}

	for _, req := range pending {
		if req.Overlaps(start, end) {
			return 0, internal.ErrOverlappingRequest
		}
	}

	return days, nil
}
