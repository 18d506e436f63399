package employee

import (
	"net/http"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

type ServiceAPI interface {
	GetEmployee(id int64) (*Employee, error)
	GetBalance(employeeID int64) (*BalanceDTO, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
	}
}

func (h *Handler) GetCurrentEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := internal.EmployeeIDFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	emp, err := h.Service.GetEmployee(employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, emp)
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := internal.EmployeeIDFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	balance, err := h.Service.GetBalance(employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, balance)
}
