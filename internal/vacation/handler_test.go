package vacation_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/vacation"
)

type stubService struct {
	submitResult *vacation.Request
	submitError  error
	decideResult *vacation.Request
	decideError  error
	getResult    *vacation.Request
	getError     error
	listResult   []*vacation.Request
	listError    error

	lastDecision   string
	lastLimit      int
	lastOffset     int
	lastEmployeeID int64
}

func (s *stubService) SubmitRequest(ctx context.Context, employeeID int64, dto vacation.CreateRequestDTO) (*vacation.Request, error) {
	s.lastEmployeeID = employeeID
	return s.submitResult, s.submitError
}

func (s *stubService) DecideRequest(ctx context.Context, requestID, supervisorID int64, decision string, dto vacation.DecideRequestDTO) (*vacation.Request, error) {
	s.lastDecision = decision
	return s.decideResult, s.decideError
}

func (s *stubService) GetRequest(ctx context.Context, requestID, requesterID int64) (*vacation.Request, error) {
	return s.getResult, s.getError
}

func (s *stubService) ListMyRequests(ctx context.Context, employeeID int64, limit, offset int) ([]*vacation.Request, error) {
	s.lastLimit = limit
	s.lastOffset = offset
	return s.listResult, s.listError
}

func (s *stubService) ListPendingForSupervisor(ctx context.Context, supervisorID int64) ([]*vacation.Request, error) {
	return s.listResult, s.listError
}

var _ = Describe("VacationHandler", func() {
	var (
		handler *vacation.Handler
		service *stubService
	)

	asEmployee := func(req *http.Request, employeeID int64) *http.Request {
		return req.WithContext(internal.ContextWithEmployeeID(req.Context(), employeeID))
	}

	withURLParam := func(req *http.Request, key, value string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add(key, value)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	BeforeEach(func() {
		service = &stubService{}
		handler = vacation.NewHandler(service)
	})

	Describe("SubmitRequest", func() {
		It("should return 201 with the created request", func() {
			service.submitResult = &vacation.Request{
				ID:            1,
				EmployeeID:    1,
				DaysRequested: 5,
				Status:        vacation.StatusPending,
			}

			body := bytes.NewBufferString(`{"start_date":"2026-07-01","end_date":"2026-07-05","reason":"trip"}`)
			req := asEmployee(httptest.NewRequest(http.MethodPost, "/requests", body), 1)
			w := httptest.NewRecorder()

			handler.SubmitRequest(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(service.lastEmployeeID).To(Equal(int64(1)))

			var response vacation.Request
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.ID).To(Equal(int64(1)))
			Expect(response.Status).To(Equal(vacation.StatusPending))
		})

		It("should return 401 without caller identity", func() {
			body := bytes.NewBufferString(`{"start_date":"2026-07-01","end_date":"2026-07-05","reason":"trip"}`)
			req := httptest.NewRequest(http.MethodPost, "/requests", body)
			w := httptest.NewRecorder()

			handler.SubmitRequest(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return 400 for a malformed body", func() {
			body := bytes.NewBufferString(`{not json`)
			req := asEmployee(httptest.NewRequest(http.MethodPost, "/requests", body), 1)
			w := httptest.NewRecorder()

			handler.SubmitRequest(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should map domain errors to their status and code", func() {
			service.submitError = internal.ErrInsufficientBalance

			body := bytes.NewBufferString(`{"start_date":"2026-07-01","end_date":"2026-07-05","reason":"trip"}`)
			req := asEmployee(httptest.NewRequest(http.MethodPost, "/requests", body), 1)
			w := httptest.NewRecorder()

			handler.SubmitRequest(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))

			var response internal.Response
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Error.Code).To(Equal(internal.ErrCodeInsufficientBalance))
		})

		It("should hide store errors behind an opaque 500", func() {
			service.submitError = errors.New("pq: connection reset")

			body := bytes.NewBufferString(`{"start_date":"2026-07-01","end_date":"2026-07-05","reason":"trip"}`)
			req := asEmployee(httptest.NewRequest(http.MethodPost, "/requests", body), 1)
			w := httptest.NewRecorder()

			handler.SubmitRequest(w, req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).NotTo(ContainSubstring("connection reset"))
		})
	})

	Describe("ApproveRequest", func() {
		It("should pass the approve decision through", func() {
			service.decideResult = &vacation.Request{ID: 7, Status: vacation.StatusApproved}

			body := bytes.NewBufferString(`{"comment":"enjoy"}`)
			req := asEmployee(httptest.NewRequest(http.MethodPatch, "/requests/7/approve", body), 2)
			req = withURLParam(req, "id", "7")
			w := httptest.NewRecorder()

			handler.ApproveRequest(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(service.lastDecision).To(Equal(vacation.DecisionApprove))
		})

		It("should return 409 for an already processed request", func() {
			service.decideError = internal.ErrRequestNotActionable

			body := bytes.NewBufferString(`{"comment":"enjoy"}`)
			req := asEmployee(httptest.NewRequest(http.MethodPatch, "/requests/7/approve", body), 2)
			req = withURLParam(req, "id", "7")
			w := httptest.NewRecorder()

			handler.ApproveRequest(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))

			var response internal.Response
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Error.Code).To(Equal(internal.ErrCodeAlreadyProcessed))
			Expect(response.Error.Message).To(Equal("request not found or already processed"))
		})

		It("should return 400 for a non-numeric id", func() {
			body := bytes.NewBufferString(`{"comment":"enjoy"}`)
			req := asEmployee(httptest.NewRequest(http.MethodPatch, "/requests/abc/approve", body), 2)
			req = withURLParam(req, "id", "abc")
			w := httptest.NewRecorder()

			handler.ApproveRequest(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("RejectRequest", func() {
		It("should pass the reject decision through", func() {
			service.decideResult = &vacation.Request{ID: 7, Status: vacation.StatusRejected}

			body := bytes.NewBufferString(`{"comment":"bad timing"}`)
			req := asEmployee(httptest.NewRequest(http.MethodPatch, "/requests/7/reject", body), 2)
			req = withURLParam(req, "id", "7")
			w := httptest.NewRecorder()

			handler.RejectRequest(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(service.lastDecision).To(Equal(vacation.DecisionReject))
		})
	})

	Describe("GetRequest", func() {
		It("should return 403 when the service denies access", func() {
			service.getError = internal.ErrNotAuthorized

			req := asEmployee(httptest.NewRequest(http.MethodGet, "/requests/7", nil), 3)
			req = withURLParam(req, "id", "7")
			w := httptest.NewRecorder()

			handler.GetRequest(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("ListMyRequests", func() {
		It("should apply default pagination", func() {
			req := asEmployee(httptest.NewRequest(http.MethodGet, "/requests", nil), 1)
			w := httptest.NewRecorder()

			handler.ListMyRequests(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(service.lastLimit).To(Equal(20))
			Expect(service.lastOffset).To(Equal(0))
		})

		It("should cap the limit at 100", func() {
			req := asEmployee(httptest.NewRequest(http.MethodGet, "/requests?limit=500&offset=10", nil), 1)
			w := httptest.NewRecorder()

			handler.ListMyRequests(w, req)

			Expect(service.lastLimit).To(Equal(20))
			Expect(service.lastOffset).To(Equal(10))
		})

		It("should accept an explicit limit inside the cap", func() {
			req := asEmployee(httptest.NewRequest(http.MethodGet, "/requests?limit=50", nil), 1)
			w := httptest.NewRecorder()

			handler.ListMyRequests(w, req)

			Expect(service.lastLimit).To(Equal(50))
		})
	})
})
