package vacation

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	SubmitRequest(ctx context.Context, employeeID int64, dto CreateRequestDTO) (*Request, error)
	DecideRequest(ctx context.Context, requestID, supervisorID int64, decision string, dto DecideRequestDTO) (*Request, error)
	GetRequest(ctx context.Context, requestID, requesterID int64) (*Request, error)
	ListMyRequests(ctx context.Context, employeeID int64, limit, offset int) ([]*Request, error)
	ListPendingForSupervisor(ctx context.Context, supervisorID int64) ([]*Request, error)
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

func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := internal.EmployeeIDFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SubmitRequest: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.SubmitRequest(r.Context(), employeeID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, DecisionApprove)
}

func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, DecisionReject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, decision string) {
	supervisorID, ok := internal.EmployeeIDFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestID, err := h.requestIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	var dto DecideRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("decide: invalid request body", "error", err, "request_id", requestID)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.DecideRequest(r.Context(), requestID, supervisorID, decision, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := internal.EmployeeIDFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestID, err := h.requestIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	req, err := h.Service.GetRequest(r.Context(), requestID, requesterID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := internal.EmployeeIDFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 20
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	requests, err := h.Service.ListMyRequests(r.Context(), employeeID, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *Handler) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	supervisorID, ok := internal.EmployeeIDFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requests, err := h.Service.ListPendingForSupervisor(r.Context(), supervisorID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}

func (h *Handler) requestIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
