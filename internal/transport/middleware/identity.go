package middleware

import (
	"net/http"
	"strconv"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

const employeeIDHeader = "X-Employee-ID"

// Identity resolves the caller's employee id from the gateway-set header
// and puts it on the context. Authentication itself happens upstream; this
// service only ever works with explicit caller identities.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(employeeIDHeader)
		if raw == "" {
			http.Error(w, `{"code":401,"message":"missing caller identity"}`, http.StatusUnauthorized)
			return
		}

		employeeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || employeeID <= 0 {
			http.Error(w, `{"code":401,"message":"invalid caller identity"}`, http.StatusUnauthorized)
			return
		}

		ctx := internal.ContextWithEmployeeID(r.Context(), employeeID)
		ctx = logger.With(ctx, "employee_id", employeeID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
