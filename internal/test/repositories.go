package test

import (
	"context"
	"time"

	"github.com/dsmirnov/coursegate/internal/adapter/gateway"
	domainErrors "github.com/dsmirnov/coursegate/internal/domain/errors"
	"github.com/dsmirnov/coursegate/internal/domain/model"
)

// StatusUpdate records one order status write.
type StatusUpdate struct {
	OrderID int64
	Status  model.OrderStatus
}

// OrderRepositoryStub implements repository.OrderRepository for tests.
type OrderRepositoryStub struct {
	Orders      []model.Order
	Jobs        []model.ProvisionJob
	CreateFn    func(context.Context, *model.Order, *model.Payment) (*model.Order, error)
	GetFn       func(context.Context, string) (*model.Order, error)
	UpdateCalls []StatusUpdate
}

func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order, payment *model.Payment) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order, payment)
	}
	stored := *order
	stored.ID = int64(len(s.Orders) + 1)
	s.Orders = append(s.Orders, stored)
	return &stored, nil
}

func (s *OrderRepositoryStub) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, number)
	}
	for i := range s.Orders {
		if s.Orders[i].Number == number {
			return &s.Orders[i], nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) ListByCustomer(ctx context.Context, studentEmail string) ([]model.Order, error) {
	var out []model.Order
	for _, o := range s.Orders {
		if o.StudentEmail == studentEmail {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	s.UpdateCalls = append(s.UpdateCalls, StatusUpdate{OrderID: orderID, Status: status})
	return nil
}

func (s *OrderRepositoryStub) SelectUnprovisioned(ctx context.Context, limit int) ([]model.ProvisionJob, error) {
	if limit < len(s.Jobs) {
		return s.Jobs[:limit], nil
	}
	return s.Jobs, nil
}

// PaymentRepositoryStub implements repository.PaymentRepository for tests.
type PaymentRepositoryStub struct {
	Payment *model.Payment
	Events  map[string]struct{}
	ApplyFn func(context.Context, int64, model.WebhookEvent, []model.PaymentStatus, *time.Time) (bool, bool, error)
}

func (s *PaymentRepositoryStub) GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Payment, error) {
	if s.Payment == nil {
		return nil, domainErrors.ErrNotFound
	}
	return s.Payment, nil
}

func (s *PaymentRepositoryStub) ApplyEvent(ctx context.Context, paymentID int64, event model.WebhookEvent, from []model.PaymentStatus, paidAt *time.Time) (bool, bool, error) {
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, paymentID, event, from, paidAt)
	}
	if s.Events == nil {
		s.Events = make(map[string]struct{})
	}
	if _, seen := s.Events[event.EventID]; seen {
		return false, false, nil
	}
	s.Events[event.EventID] = struct{}{}
	applied := false
	if s.Payment != nil {
		for _, allowed := range from {
			if s.Payment.Status == allowed {
				s.Payment.Status = event.Status
				if paidAt != nil {
					s.Payment.PaidAt = paidAt
				}
				applied = true
				break
			}
		}
	}
	return true, applied, nil
}

// EnrollmentRepositoryStub implements repository.EnrollmentRepository for tests.
type EnrollmentRepositoryStub struct {
	Enrollments []model.Enrollment
	ProvisionFn func(context.Context, model.ProvisionJob) (*model.Enrollment, bool, error)
}

func (s *EnrollmentRepositoryStub) ProvisionItem(ctx context.Context, job model.ProvisionJob) (*model.Enrollment, bool, error) {
	if s.ProvisionFn != nil {
		return s.ProvisionFn(ctx, job)
	}
	enrollment := model.Enrollment{StudentEmail: job.StudentEmail, CourseID: job.CourseID, Status: model.EnrollmentStatusActive}
	s.Enrollments = append(s.Enrollments, enrollment)
	return &enrollment, true, nil
}

func (s *EnrollmentRepositoryStub) Get(ctx context.Context, studentEmail, courseID string) (*model.Enrollment, error) {
	for i := range s.Enrollments {
		if s.Enrollments[i].StudentEmail == studentEmail && s.Enrollments[i].CourseID == courseID {
			return &s.Enrollments[i], nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *EnrollmentRepositoryStub) ListByStudent(ctx context.Context, studentEmail string) ([]model.Enrollment, error) {
	var out []model.Enrollment
	for _, e := range s.Enrollments {
		if e.StudentEmail == studentEmail {
			out = append(out, e)
		}
	}
	return out, nil
}

// ExamRepositoryStub implements repository.ExamRepository for tests.
type ExamRepositoryStub struct {
	Exam     *model.ModuleExam
	Attempts []model.ExamAttempt
	Watched  map[int64]struct{}
	Required int
}

func (s *ExamRepositoryStub) GetExam(ctx context.Context, examID int64) (*model.ModuleExam, error) {
	if s.Exam == nil || s.Exam.ID != examID {
		return nil, domainErrors.ErrNotFound
	}
	return s.Exam, nil
}

func (s *ExamRepositoryStub) ExamByModule(ctx context.Context, moduleID int64) (*model.ModuleExam, error) {
	if s.Exam == nil || s.Exam.ModuleID != moduleID {
		return nil, domainErrors.ErrNotFound
	}
	return s.Exam, nil
}

func (s *ExamRepositoryStub) CreateAttempt(ctx context.Context, attempt *model.ExamAttempt) (*model.ExamAttempt, error) {
	stored := *attempt
	stored.ID = int64(len(s.Attempts) + 1)
	s.Attempts = append(s.Attempts, stored)
	return &stored, nil
}

func (s *ExamRepositoryStub) AttemptsByStudent(ctx context.Context, studentEmail string, examID int64) ([]model.ExamAttempt, error) {
	var out []model.ExamAttempt
	for _, a := range s.Attempts {
		if a.StudentEmail == studentEmail && a.ExamID == examID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *ExamRepositoryStub) HasPassed(ctx context.Context, studentEmail string, examID int64) (bool, error) {
	for _, a := range s.Attempts {
		if a.StudentEmail == studentEmail && a.ExamID == examID && a.Passed {
			return true, nil
		}
	}
	return false, nil
}

func (s *ExamRepositoryStub) MarkLessonWatched(ctx context.Context, studentEmail string, lessonID int64) (bool, error) {
	if s.Watched == nil {
		s.Watched = make(map[int64]struct{})
	}
	if _, seen := s.Watched[lessonID]; seen {
		return false, nil
	}
	s.Watched[lessonID] = struct{}{}
	return true, nil
}

func (s *ExamRepositoryStub) LessonCounts(ctx context.Context, studentEmail string, moduleID int64) (int, int, error) {
	return s.Required, len(s.Watched), nil
}

// CatalogStub implements catalog.Client with a fixed course list.
type CatalogStub struct {
	Courses map[string]model.Course
	FetchFn func(context.Context, string) (*model.Course, error)
}

func (s CatalogStub) Fetch(ctx context.Context, courseID string) (*model.Course, error) {
	if s.FetchFn != nil {
		return s.FetchFn(ctx, courseID)
	}
	if course, ok := s.Courses[courseID]; ok {
		return &course, nil
	}
	course := model.Course{ID: courseID, Name: "course", PriceCents: 10000, Active: true}
	return &course, nil
}

// GatewayStub implements gateway.Client, always answering pending.
type GatewayStub struct {
	CreateFn func(context.Context, gateway.Intent) (*gateway.IntentResult, error)
}

func (s GatewayStub) CreateIntent(ctx context.Context, intent gateway.Intent) (*gateway.IntentResult, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, intent)
	}
	return &gateway.IntentResult{GatewayRef: "ref-1", Status: model.PaymentStatusPending}, nil
}

// StrategyStub implements auth.Strategy for tests.
type StrategyStub struct {
	IssueFn func(string) (string, error)
	ParseFn func(string) (string, error)
}

func (s StrategyStub) IssueToken(studentEmail string) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(studentEmail)
	}
	return "token", nil
}

func (s StrategyStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return "student@example.com", nil
}

func (s StrategyStub) Name() string { return "stub" }
