package vacation_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/employee"
	"github.com/frahmantamala/leave-management/internal/vacation"
)

// Mock repository for testing
type mockRequestRepository struct {
	requests    map[int64]*vacation.Request
	createError error
	getError    error
	listError   error
	decideError error
	nextID      int64
}

func newMockRequestRepository() *mockRequestRepository {
	return &mockRequestRepository{
		requests: make(map[int64]*vacation.Request),
		nextID:   1,
	}
}

func (m *mockRequestRepository) Create(req *vacation.Request) error {
	if m.createError != nil {
		return m.createError
	}
	req.ID = m.nextID
	m.nextID++
	m.requests[req.ID] = req
	return nil
}

func (m *mockRequestRepository) GetByID(id int64) (*vacation.Request, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	req, exists := m.requests[id]
	if !exists {
		return nil, vacation.ErrRequestNotFound
	}
	copied := *req
	return &copied, nil
}

func (m *mockRequestRepository) ListByEmployee(employeeID int64, limit, offset int) ([]*vacation.Request, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	result := []*vacation.Request{}
	for _, req := range m.requests {
		if req.EmployeeID == employeeID {
			result = append(result, req)
		}
	}
	return result, nil
}

func (m *mockRequestRepository) ListPendingByEmployee(employeeID int64) ([]*vacation.Request, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	result := []*vacation.Request{}
	for _, req := range m.requests {
		if req.EmployeeID == employeeID && req.IsPending() {
			result = append(result, req)
		}
	}
	return result, nil
}

func (m *mockRequestRepository) ListPendingBySupervisor(supervisorID int64) ([]*vacation.Request, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return []*vacation.Request{}, nil
}

func (m *mockRequestRepository) Approve(requestID, employeeID int64, days int, comment string, processedAt time.Time) error {
	if m.decideError != nil {
		return m.decideError
	}
	return m.markDecided(requestID, vacation.StatusApproved, comment, processedAt)
}

func (m *mockRequestRepository) Reject(requestID int64, comment string, processedAt time.Time) error {
	if m.decideError != nil {
		return m.decideError
	}
	return m.markDecided(requestID, vacation.StatusRejected, comment, processedAt)
}

func (m *mockRequestRepository) markDecided(requestID int64, status, comment string, processedAt time.Time) error {
	req, exists := m.requests[requestID]
	if !exists || !req.IsPending() {
		return internal.ErrRequestNotActionable
	}
	req.Status = status
	req.SupervisorComment = &comment
	req.ProcessedAt = &processedAt
	return nil
}

// Mock employee store for testing
type mockEmployeeStore struct {
	employees map[int64]*employee.Employee
	getError  error
}

func newMockEmployeeStore() *mockEmployeeStore {
	return &mockEmployeeStore{employees: make(map[int64]*employee.Employee)}
}

func (m *mockEmployeeStore) GetByID(id int64) (*employee.Employee, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	emp, exists := m.employees[id]
	if !exists {
		return nil, internal.ErrEmployeeNotFound
	}
	return emp, nil
}

// Mock event publisher capturing published events
type mockPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockPublisher) published() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.Event{}, m.events...)
}

var _ = Describe("VacationService", func() {
	var (
		service   *vacation.Service
		mockRepo  *mockRequestRepository
		mockStore *mockEmployeeStore
		publisher *mockPublisher
		logger    *slog.Logger
		today     time.Time
		ctx       context.Context
	)

	supervisorID := int64(2)
	otherSupervisorID := int64(9)

	BeforeEach(func() {
		today = date("2026-06-15")
		mockRepo = newMockRequestRepository()
		mockStore = newMockEmployeeStore()
		publisher = &mockPublisher{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		ctx = context.Background()

		mockStore.employees[1] = &employee.Employee{
			ID:           1,
			FullName:     "Fadhil Rahman",
			Email:        "fadhil@example.com",
			SupervisorID: &supervisorID,
			VacationDays: 15,
		}
		mockStore.employees[2] = &employee.Employee{
			ID:       2,
			FullName: "Sari Putri",
			Email:    "sari@example.com",
			Role:     employee.RoleSupervisor,
		}

		validator := vacation.NewValidator(func() time.Time { return today })
		service = vacation.NewService(mockRepo, mockStore, validator, publisher, logger, 3)
	})

	Describe("SubmitRequest", func() {
		Context("with a valid request", func() {
			It("should persist a pending request and publish an event", func() {
				dto := vacation.CreateRequestDTO{
					StartDate: "2026-07-01",
					EndDate:   "2026-07-05",
					Reason:    "family trip",
				}

				result, err := service.SubmitRequest(ctx, 1, dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(result).ToNot(BeNil())
				Expect(result.ID).To(BeNumerically(">", 0))
				Expect(result.EmployeeID).To(Equal(int64(1)))
				Expect(result.Status).To(Equal(vacation.StatusPending))
				Expect(result.DaysRequested).To(Equal(5))
				Expect(result.ProcessedAt).To(BeNil())

				published := publisher.published()
				Expect(published).To(HaveLen(1))
				Expect(published[0].EventType()).To(Equal(events.EventTypeRequestSubmitted))
				submitted := published[0].(*events.RequestSubmittedEvent)
				Expect(submitted.Supervisor.Email).To(Equal("sari@example.com"))
			})
		})

		Context("with an unparseable date", func() {
			It("should fail without touching the repository", func() {
				dto := vacation.CreateRequestDTO{
					StartDate: "01-07-2026",
					EndDate:   "2026-07-05",
					Reason:    "trip",
				}

				result, err := service.SubmitRequest(ctx, 1, dto)

				Expect(err).To(HaveOccurred())
				Expect(result).To(BeNil())
				Expect(mockRepo.requests).To(BeEmpty())
			})
		})

		Context("when validation fails", func() {
			It("should reject a past start date and publish nothing", func() {
				dto := vacation.CreateRequestDTO{
					StartDate: "2026-06-01",
					EndDate:   "2026-06-05",
					Reason:    "trip",
				}

				result, err := service.SubmitRequest(ctx, 1, dto)

				Expect(errors.Is(err, internal.ErrStartDateInPast)).To(BeTrue())
				Expect(result).To(BeNil())
				Expect(publisher.published()).To(BeEmpty())
			})

			It("should reject an overlap with an existing pending request", func() {
				first := vacation.CreateRequestDTO{
					StartDate: "2026-07-01",
					EndDate:   "2026-07-05",
					Reason:    "trip",
				}
				_, err := service.SubmitRequest(ctx, 1, first)
				Expect(err).ToNot(HaveOccurred())

				second := vacation.CreateRequestDTO{
					StartDate: "2026-07-05",
					EndDate:   "2026-07-08",
					Reason:    "another trip",
				}
				result, err := service.SubmitRequest(ctx, 1, second)

				Expect(errors.Is(err, internal.ErrOverlappingRequest)).To(BeTrue())
				Expect(result).To(BeNil())
			})
		})

		Context("when the employee does not exist", func() {
			It("should return not found", func() {
				dto := vacation.CreateRequestDTO{
					StartDate: "2026-07-01",
					EndDate:   "2026-07-05",
					Reason:    "trip",
				}

				_, err := service.SubmitRequest(ctx, 999, dto)

				Expect(errors.Is(err, internal.ErrEmployeeNotFound)).To(BeTrue())
			})
		})

		Context("when the repository fails", func() {
			It("should return an internal error", func() {
				mockRepo.createError = errors.New("database error")
				dto := vacation.CreateRequestDTO{
					StartDate: "2026-07-01",
					EndDate:   "2026-07-05",
					Reason:    "trip",
				}

				result, err := service.SubmitRequest(ctx, 1, dto)

				Expect(err).To(HaveOccurred())
				Expect(result).To(BeNil())
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
			})
		})
	})

	Describe("DecideRequest", func() {
		var pendingID int64

		BeforeEach(func() {
			dto := vacation.CreateRequestDTO{
				StartDate: "2026-07-01",
				EndDate:   "2026-07-05",
				Reason:    "family trip",
			}
			req, err := service.SubmitRequest(ctx, 1, dto)
			Expect(err).ToNot(HaveOccurred())
			pendingID = req.ID
			publisher.events = nil
		})

		Context("when the assigned supervisor approves", func() {
			It("should return the approved request with balance movement", func() {
				result, err := service.DecideRequest(ctx, pendingID, supervisorID, vacation.DecisionApprove, vacation.DecideRequestDTO{Comment: "enjoy"})

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Status).To(Equal(vacation.StatusApproved))
				Expect(result.ProcessedAt).ToNot(BeNil())
				Expect(*result.SupervisorComment).To(Equal("enjoy"))

				published := publisher.published()
				Expect(published).To(HaveLen(1))
				Expect(published[0].EventType()).To(Equal(events.EventTypeRequestApproved))
				decided := published[0].(*events.RequestDecidedEvent)
				Expect(decided.BalanceBefore).To(Equal(15))
				Expect(decided.BalanceAfter).To(Equal(10))
			})
		})

		Context("when the assigned supervisor rejects", func() {
			It("should return the rejected request and leave the balance alone", func() {
				result, err := service.DecideRequest(ctx, pendingID, supervisorID, vacation.DecisionReject, vacation.DecideRequestDTO{Comment: "bad timing"})

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Status).To(Equal(vacation.StatusRejected))

				published := publisher.published()
				Expect(published).To(HaveLen(1))
				Expect(published[0].EventType()).To(Equal(events.EventTypeRequestRejected))
				decided := published[0].(*events.RequestDecidedEvent)
				Expect(decided.BalanceBefore).To(Equal(decided.BalanceAfter))
			})
		})

		Context("when the caller is not the assigned supervisor", func() {
			It("should deny the decision", func() {
				mockStore.employees[otherSupervisorID] = &employee.Employee{
					ID:   otherSupervisorID,
					Role: employee.RoleSupervisor,
				}

				_, err := service.DecideRequest(ctx, pendingID, otherSupervisorID, vacation.DecisionApprove, vacation.DecideRequestDTO{Comment: "mine now"})

				Expect(errors.Is(err, internal.ErrNotAuthorized)).To(BeTrue())

				stored, _ := mockRepo.GetByID(pendingID)
				Expect(stored.Status).To(Equal(vacation.StatusPending))
			})
		})

		Context("when the request was already decided", func() {
			It("should report it as not actionable", func() {
				_, err := service.DecideRequest(ctx, pendingID, supervisorID, vacation.DecisionApprove, vacation.DecideRequestDTO{Comment: "enjoy"})
				Expect(err).ToNot(HaveOccurred())

				_, err = service.DecideRequest(ctx, pendingID, supervisorID, vacation.DecisionReject, vacation.DecideRequestDTO{Comment: "changed my mind"})

				Expect(errors.Is(err, internal.ErrRequestNotActionable)).To(BeTrue())
			})
		})

		Context("when the request does not exist", func() {
			It("should report the same not-actionable error", func() {
				_, err := service.DecideRequest(ctx, 9999, supervisorID, vacation.DecisionApprove, vacation.DecideRequestDTO{Comment: "enjoy"})

				Expect(errors.Is(err, internal.ErrRequestNotActionable)).To(BeTrue())
			})
		})

		Context("when the balance no longer covers the request", func() {
			It("should surface insufficient balance at decision time", func() {
				mockRepo.decideError = internal.ErrInsufficientBalance

				_, err := service.DecideRequest(ctx, pendingID, supervisorID, vacation.DecisionApprove, vacation.DecideRequestDTO{Comment: "enjoy"})

				Expect(errors.Is(err, internal.ErrInsufficientBalance)).To(BeTrue())
				Expect(publisher.published()).To(BeEmpty())
			})
		})

		Context("when the comment is missing", func() {
			It("should fail validation before loading the request", func() {
				_, err := service.DecideRequest(ctx, pendingID, supervisorID, vacation.DecisionApprove, vacation.DecideRequestDTO{})

				Expect(err).To(HaveOccurred())
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
			})
		})

		Context("when the decision verb is unknown", func() {
			It("should fail validation", func() {
				_, err := service.DecideRequest(ctx, pendingID, supervisorID, "maybe", vacation.DecideRequestDTO{Comment: "hm"})

				Expect(err).To(HaveOccurred())
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
			})
		})
	})

	Describe("GetRequest", func() {
		var requestID int64

		BeforeEach(func() {
			dto := vacation.CreateRequestDTO{
				StartDate: "2026-07-01",
				EndDate:   "2026-07-05",
				Reason:    "family trip",
			}
			req, err := service.SubmitRequest(ctx, 1, dto)
			Expect(err).ToNot(HaveOccurred())
			requestID = req.ID
		})

		It("should let the owner view the request", func() {
			result, err := service.GetRequest(ctx, requestID, 1)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.ID).To(Equal(requestID))
		})

		It("should let the assigned supervisor view the request", func() {
			result, err := service.GetRequest(ctx, requestID, supervisorID)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.ID).To(Equal(requestID))
		})

		It("should deny anyone else", func() {
			_, err := service.GetRequest(ctx, requestID, otherSupervisorID)

			Expect(errors.Is(err, internal.ErrNotAuthorized)).To(BeTrue())
		})

		It("should answer a missing id exactly like a denied one", func() {
			_, err := service.GetRequest(ctx, 9999, 1)

			Expect(errors.Is(err, internal.ErrNotAuthorized)).To(BeTrue())
		})
	})
})
