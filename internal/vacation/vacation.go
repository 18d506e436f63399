package vacation

import (
	"errors"
	"time"

	vacationDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/vacation"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// ErrRequestNotFound is internal to the vacation packages. The boundary
// never surfaces it directly: decide reports the shared not-actionable
// error and reads report not-authorized, so existence cannot be probed.
var ErrRequestNotFound = errors.New("vacation request not found")

type Request struct {
	ID                int64      `json:"id"`
	EmployeeID        int64      `json:"employee_id"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           time.Time  `json:"end_date"`
	DaysRequested     int        `json:"days_requested"`
	Reason            string     `json:"reason"`
	Status            string     `json:"status"`
	SupervisorComment *string    `json:"supervisor_comment,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	ProcessedAt       *time.Time `json:"processed_at,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

// Overlaps reports whether the request's date range intersects [start, end],
// endpoints included.
func (r *Request) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(end) && !start.After(r.EndDate)
}

// DaysInclusive counts whole days between two date-only values, both
// endpoints included. Same-day start and end is one day.
func DaysInclusive(start, end time.Time) int {
	start = TruncateToDate(start)
	end = TruncateToDate(end)
	return int(end.Sub(start).Hours()/24) + 1
}

// TruncateToDate drops the time-of-day component in UTC.
func TruncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ToDataModel(r *Request) *vacationDatamodel.VacationRequest {
	return &vacationDatamodel.VacationRequest{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		DaysRequested:     r.DaysRequested,
		Reason:            r.Reason,
		Status:            r.Status,
		SupervisorComment: r.SupervisorComment,
		CreatedAt:         r.CreatedAt,
		ProcessedAt:       r.ProcessedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func FromDataModel(r *vacationDatamodel.VacationRequest) *Request {
	return &Request{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		DaysRequested:     r.DaysRequested,
		Reason:            r.Reason,
		Status:            r.Status,
		SupervisorComment: r.SupervisorComment,
		CreatedAt:         r.CreatedAt,
		ProcessedAt:       r.ProcessedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func FromDataModelSlice(requests []*vacationDatamodel.VacationRequest) []*Request {
	result := make([]*Request, len(requests))
	for i, r := range requests {
		result[i] = FromDataModel(r)
	}
	return result
}
