package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextEmployeeKey ctxKey = "employeeID"

func EmployeeIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(ContextEmployeeKey).(int64)
	return id, ok
}

func ContextWithEmployeeID(ctx context.Context, employeeID int64) context.Context {
	return context.WithValue(ctx, ContextEmployeeKey, employeeID)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if
// duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
