package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRequestSubmitted = "vacation.request_submitted"
	EventTypeRequestApproved  = "vacation.request_approved"
	EventTypeRequestRejected  = "vacation.request_rejected"
	EventTypeLeaveGranted     = "vacation.leave_granted"
)

// Contact is the recipient information carried on every leave event so the
// notification layer never has to query employee data itself.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type RequestSubmittedEvent struct {
	BaseEvent
	RequestID  int64   `json:"request_id"`
	EmployeeID int64   `json:"employee_id"`
	Employee   string  `json:"employee"`
	Supervisor Contact `json:"supervisor"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Days       int     `json:"days"`
	Reason     string  `json:"reason"`
}

func NewRequestSubmittedEvent(requestID, employeeID int64, employeeName string, supervisor Contact, start, end time.Time, days int, reason string) *RequestSubmittedEvent {
	return &RequestSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRequestSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":  requestID,
				"employee_id": employeeID,
				"start_date":  start.Format("2006-01-02"),
				"end_date":    end.Format("2006-01-02"),
				"days":        days,
			},
		},
		RequestID:  requestID,
		EmployeeID: employeeID,
		Employee:   employeeName,
		Supervisor: supervisor,
		StartDate:  start.Format("2006-01-02"),
		EndDate:    end.Format("2006-01-02"),
		Days:       days,
		Reason:     reason,
	}
}

// RequestDecidedEvent covers both approval and rejection; Decision selects
// the event type. BalanceBefore equals BalanceAfter on rejection.
type RequestDecidedEvent struct {
	BaseEvent
	RequestID     int64   `json:"request_id"`
	EmployeeID    int64   `json:"employee_id"`
	Employee      Contact `json:"employee"`
	Decision      string  `json:"decision"`
	Comment       string  `json:"comment"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Days          int     `json:"days"`
	BalanceBefore int     `json:"balance_before"`
	BalanceAfter  int     `json:"balance_after"`
}

func NewRequestDecidedEvent(requestID, employeeID int64, emp Contact, decision, comment string, start, end time.Time, days, balanceBefore, balanceAfter int) *RequestDecidedEvent {
	eventType := EventTypeRequestRejected
	if decision == "approved" {
		eventType = EventTypeRequestApproved
	}
	return &RequestDecidedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":     requestID,
				"employee_id":    employeeID,
				"decision":       decision,
				"days":           days,
				"balance_before": balanceBefore,
				"balance_after":  balanceAfter,
			},
		},
		RequestID:     requestID,
		EmployeeID:    employeeID,
		Employee:      emp,
		Decision:      decision,
		Comment:       comment,
		StartDate:     start.Format("2006-01-02"),
		EndDate:       end.Format("2006-01-02"),
		Days:          days,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
	}
}

type LeaveGrantedEvent struct {
	BaseEvent
	EmployeeID int64   `json:"employee_id"`
	Employee   Contact `json:"employee"`
	Days       int     `json:"days"`
}

func NewLeaveGrantedEvent(employeeID int64, emp Contact, days int) *LeaveGrantedEvent {
	return &LeaveGrantedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveGranted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"employee_id": employeeID,
				"days":        days,
			},
		},
		EmployeeID: employeeID,
		Employee:   emp,
		Days:       days,
	}
}
