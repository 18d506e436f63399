package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal/core/events"
)

// EmailSender delivers a single email. Implementations must be safe for
// concurrent use; the bus fans events out on separate goroutines.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// TextSender delivers a short text message to a phone number.
type TextSender interface {
	Send(ctx context.Context, phone, message string) error
}

// Dispatcher turns lifecycle events into human-readable messages. Delivery
// is best effort: every failure is logged and none is ever propagated back
// into the lifecycle that emitted the event.
type Dispatcher struct {
	email   EmailSender
	text    TextSender
	logger  *slog.Logger
	appName string
}

func NewDispatcher(email EmailSender, text TextSender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		email:   email,
		text:    text,
		logger:  logger,
		appName: "Leave Management",
	}
}

func (d *Dispatcher) RegisterEventHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeRequestSubmitted, d.HandleRequestSubmitted)
	bus.Subscribe(events.EventTypeRequestApproved, d.HandleRequestDecided)
	bus.Subscribe(events.EventTypeRequestRejected, d.HandleRequestDecided)
	bus.Subscribe(events.EventTypeLeaveGranted, d.HandleLeaveGranted)

	d.logger.Info("notification handlers registered",
		"handlers", []string{
			events.EventTypeRequestSubmitted,
			events.EventTypeRequestApproved,
			events.EventTypeRequestRejected,
			events.EventTypeLeaveGranted,
		})
}

// HandleRequestSubmitted tells the supervisor there is a request waiting.
func (d *Dispatcher) HandleRequestSubmitted(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.RequestSubmittedEvent)
	if !ok {
		return fmt.Errorf("expected RequestSubmittedEvent, got %T", event)
	}

	subject := fmt.Sprintf("New Vacation Request - %s", d.appName)
	body := fmt.Sprintf(
		"Dear %s,\n\nA new vacation request has been submitted by %s.\n\nStart Date: %s\nEnd Date: %s\nDays Requested: %d\nReason: %s\n\nPlease log in to approve or reject this request.\n",
		e.Supervisor.Name, e.Employee, e.StartDate, e.EndDate, e.Days, e.Reason,
	)
	text := fmt.Sprintf("New vacation request from %s\nStart: %s\nEnd: %s\nDays: %d",
		e.Employee, e.StartDate, e.EndDate, e.Days)

	d.deliver(ctx, e.Supervisor, subject, body, text, "request_id", e.RequestID)
	return nil
}

// HandleRequestDecided tells the employee the outcome, including the
// balance movement on approval.
func (d *Dispatcher) HandleRequestDecided(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.RequestDecidedEvent)
	if !ok {
		return fmt.Errorf("expected RequestDecidedEvent, got %T", event)
	}

	subject := fmt.Sprintf("Vacation Request %s - %s", e.Decision, d.appName)

	balanceLine := fmt.Sprintf("Your vacation days remain unchanged: %d", e.BalanceAfter)
	if e.BalanceAfter != e.BalanceBefore {
		balanceLine = fmt.Sprintf("Your remaining vacation days: %d", e.BalanceAfter)
	}

	body := fmt.Sprintf(
		"Dear %s,\n\nYour vacation request has been %s.\n\nStart Date: %s\nEnd Date: %s\nDays Requested: %d\nSupervisor Comments: %s\n\n%s\n",
		e.Employee.Name, e.Decision, e.StartDate, e.EndDate, e.Days, e.Comment, balanceLine,
	)
	text := fmt.Sprintf("Your vacation request has been %s\nStart: %s\nEnd: %s\nSupervisor Comments: %s",
		e.Decision, e.StartDate, e.EndDate, e.Comment)

	d.deliver(ctx, e.Employee, subject, body, text, "request_id", e.RequestID)
	return nil
}

// HandleLeaveGranted congratulates the employee on their annual allotment.
func (d *Dispatcher) HandleLeaveGranted(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.LeaveGrantedEvent)
	if !ok {
		return fmt.Errorf("expected LeaveGrantedEvent, got %T", event)
	}

	subject := fmt.Sprintf("Vacation Days Credited - %s", d.appName)
	body := fmt.Sprintf(
		"Dear %s,\n\nCongratulations on completing one year with us!\n\n%d vacation days have been credited to your account. You can now submit vacation requests through the system.\n",
		e.Employee.Name, e.Days,
	)
	text := fmt.Sprintf("Congratulations on completing one year!\n%d vacation days have been credited to your account.", e.Days)

	d.deliver(ctx, e.Employee, subject, body, text, "employee_id", e.EmployeeID)
	return nil
}

// deliver attempts each configured channel independently. A channel failure
// is logged and does not block the other channel.
func (d *Dispatcher) deliver(ctx context.Context, to events.Contact, subject, body, text string, refKey string, refID int64) {
	if d.email != nil && to.Email != "" {
		if err := d.email.Send(ctx, to.Email, subject, body); err != nil {
			d.logger.Error("email notification failed", "error", err, "recipient", to.Email, refKey, refID)
		} else {
			d.logger.Info("email notification sent", "recipient", to.Email, refKey, refID)
		}
	}

	if d.text != nil && to.Phone != "" {
		if err := d.text.Send(ctx, to.Phone, text); err != nil {
			d.logger.Error("whatsapp notification failed", "error", err, refKey, refID)
		} else {
			d.logger.Info("whatsapp notification sent", refKey, refID)
		}
	}
}
