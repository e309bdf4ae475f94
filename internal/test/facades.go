package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dsmirnov/coursegate/internal/domain/model"
	"github.com/dsmirnov/coursegate/internal/usecase"
)

// PlatformFacadeStub provides controllable behaviour for HTTP handler tests.
// Unset functions fall back to benign defaults.
type PlatformFacadeStub struct {
	ParseTokenFn     func(string) (string, error)
	CheckoutFn       func(context.Context, string, model.CustomerSnapshot, []usecase.CheckoutItem, model.PaymentMethod, model.MethodDetails) (*model.Order, *model.PaymentInstructions, error)
	OrdersFn         func(context.Context, string) ([]model.Order, error)
	OrderByNumberFn  func(context.Context, string) (*model.Order, error)
	PaymentByOrderFn func(context.Context, string) (*model.Payment, error)
	WebhookFn        func(context.Context, model.WebhookEvent) error
	EnrollmentsFn    func(context.Context, string) ([]model.Enrollment, error)
	StartExamFn      func(context.Context, int64) (*model.ExamSession, error)
	SubmitExamFn     func(context.Context, string, int64, map[int64]int64) (*model.ExamResult, error)
	AttemptsFn       func(context.Context, string, int64) ([]model.ExamAttempt, error)
	LessonWatchedFn  func(context.Context, string, int64) error
	ProgressFn       func(context.Context, string, int64) (*model.ModuleProgress, error)
}

func (s PlatformFacadeStub) ParseToken(token string) (string, error) {
	if s.ParseTokenFn != nil {
		return s.ParseTokenFn(token)
	}
	return "student@example.com", nil
}

func (s PlatformFacadeStub) Checkout(ctx context.Context, studentEmail string, customer model.CustomerSnapshot, items []usecase.CheckoutItem, method model.PaymentMethod, details model.MethodDetails) (*model.Order, *model.PaymentInstructions, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, studentEmail, customer, items, method, details)
	}
	return &model.Order{Number: "ORD-1", Status: model.OrderStatusCreated},
		&model.PaymentInstructions{Method: method, Status: model.PaymentStatusPending}, nil
}

func (s PlatformFacadeStub) Orders(ctx context.Context, studentEmail string) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, studentEmail)
	}
	return []model.Order{{Number: "ORD-1"}}, nil
}

func (s PlatformFacadeStub) OrderByNumber(ctx context.Context, number string) (*model.Order, error) {
	if s.OrderByNumberFn != nil {
		return s.OrderByNumberFn(ctx, number)
	}
	return &model.Order{Number: number, StudentEmail: "student@example.com"}, nil
}

func (s PlatformFacadeStub) PaymentByOrder(ctx context.Context, number string) (*model.Payment, error) {
	if s.PaymentByOrderFn != nil {
		return s.PaymentByOrderFn(ctx, number)
	}
	return &model.Payment{OrderNumber: number, Status: model.PaymentStatusPending}, nil
}

func (s PlatformFacadeStub) HandleGatewayEvent(ctx context.Context, event model.WebhookEvent) error {
	if s.WebhookFn != nil {
		return s.WebhookFn(ctx, event)
	}
	return nil
}

func (s PlatformFacadeStub) Enrollments(ctx context.Context, studentEmail string) ([]model.Enrollment, error) {
	if s.EnrollmentsFn != nil {
		return s.EnrollmentsFn(ctx, studentEmail)
	}
	return []model.Enrollment{{CourseID: "go-101", Status: model.EnrollmentStatusActive}}, nil
}

func (s PlatformFacadeStub) StartExam(ctx context.Context, examID int64) (*model.ExamSession, error) {
	if s.StartExamFn != nil {
		return s.StartExamFn(ctx, examID)
	}
	return &model.ExamSession{ExamID: examID, Title: "exam"}, nil
}

func (s PlatformFacadeStub) SubmitExam(ctx context.Context, studentEmail string, examID int64, answers map[int64]int64) (*model.ExamResult, error) {
	if s.SubmitExamFn != nil {
		return s.SubmitExamFn(ctx, studentEmail, examID, answers)
	}
	return &model.ExamResult{AttemptID: 1, Score: 100, Passed: true}, nil
}

func (s PlatformFacadeStub) ExamAttempts(ctx context.Context, studentEmail string, examID int64) ([]model.ExamAttempt, error) {
	if s.AttemptsFn != nil {
		return s.AttemptsFn(ctx, studentEmail, examID)
	}
	return []model.ExamAttempt{{ExamID: examID, Score: 80, Passed: true, SubmittedAt: time.Unix(0, 0)}}, nil
}

func (s PlatformFacadeStub) MarkLessonWatched(ctx context.Context, studentEmail string, lessonID int64) error {
	if s.LessonWatchedFn != nil {
		return s.LessonWatchedFn(ctx, studentEmail, lessonID)
	}
	return nil
}

func (s PlatformFacadeStub) ModuleProgress(ctx context.Context, studentEmail string, moduleID int64) (*model.ModuleProgress, error) {
	if s.ProgressFn != nil {
		return s.ProgressFn(ctx, studentEmail, moduleID)
	}
	return &model.ModuleProgress{ModuleID: moduleID, Complete: true}, nil
}

// TokenParserStub resolves every token to the configured email unless Err is set.
type TokenParserStub struct {
	Email string
	Err   error
}

func (s TokenParserStub) ParseToken(string) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	if s.Email != "" {
		return s.Email, nil
	}
	return "student@example.com", nil
}

// ProvisionCall stores information about ProvisionItem invocations.
type ProvisionCall struct {
	Job model.ProvisionJob
}

// WorkerFacadeStub mimics worker interactions with the platform facade.
type WorkerFacadeStub struct {
	Batches        [][]model.ProvisionJob
	ItemsFn        func(context.Context, int) ([]model.ProvisionJob, error)
	ProvisionFn    func(context.Context, model.ProvisionJob) (*model.Enrollment, bool, error)
	Provisioned    []ProvisionCall
	mu             sync.Mutex
	itemsCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// UnprovisionedItems returns batches from configured queue.
func (s *WorkerFacadeStub) UnprovisionedItems(ctx context.Context, limit int) ([]model.ProvisionJob, error) {
	if s.ItemsFn != nil {
		return s.ItemsFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.itemsCallCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// ProvisionItem records provisioning requests.
func (s *WorkerFacadeStub) ProvisionItem(ctx context.Context, job model.ProvisionJob) (*model.Enrollment, bool, error) {
	if s.ProvisionFn != nil {
		return s.ProvisionFn(ctx, job)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Provisioned = append(s.Provisioned, ProvisionCall{Job: job})
	return &model.Enrollment{StudentEmail: job.StudentEmail, CourseID: job.CourseID, Status: model.EnrollmentStatusActive}, true, nil
}
