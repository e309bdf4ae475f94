package app

import (
	"context"

	"github.com/dsmirnov/coursegate/internal/domain/model"
	"github.com/dsmirnov/coursegate/internal/pkg/auth"
	"github.com/dsmirnov/coursegate/internal/usecase"
)

// PlatformFacade aggregates use cases behind one application surface shared by
// the HTTP handlers and the provisioner worker.
type PlatformFacade struct {
	auth        auth.Strategy
	orders      *usecase.OrderUseCase
	payments    *usecase.PaymentUseCase
	enrollments *usecase.EnrollmentUseCase
	exams       *usecase.ExamUseCase
}

func NewPlatformFacade(strategy auth.Strategy, orders *usecase.OrderUseCase, payments *usecase.PaymentUseCase, enrollments *usecase.EnrollmentUseCase, exams *usecase.ExamUseCase) *PlatformFacade {
	return &PlatformFacade{
		auth:        strategy,
		orders:      orders,
		payments:    payments,
		enrollments: enrollments,
		exams:       exams,
	}
}

func (f *PlatformFacade) ParseToken(token string) (string, error) {
	return f.auth.ParseToken(token)
}

func (f *PlatformFacade) Checkout(ctx context.Context, studentEmail string, customer model.CustomerSnapshot, items []usecase.CheckoutItem, method model.PaymentMethod, details model.MethodDetails) (*model.Order, *model.PaymentInstructions, error) {
	return f.orders.Checkout(ctx, studentEmail, customer, items, method, details)
}

func (f *PlatformFacade) Orders(ctx context.Context, studentEmail string) ([]model.Order, error) {
	return f.orders.OrdersByCustomer(ctx, studentEmail)
}

func (f *PlatformFacade) OrderByNumber(ctx context.Context, number string) (*model.Order, error) {
	return f.orders.OrderByNumber(ctx, number)
}

func (f *PlatformFacade) PaymentByOrder(ctx context.Context, number string) (*model.Payment, error) {
	return f.payments.PaymentByOrderNumber(ctx, number)
}

func (f *PlatformFacade) HandleGatewayEvent(ctx context.Context, event model.WebhookEvent) error {
	return f.payments.HandleWebhook(ctx, event)
}

func (f *PlatformFacade) Enrollments(ctx context.Context, studentEmail string) ([]model.Enrollment, error) {
	return f.enrollments.EnrollmentsByStudent(ctx, studentEmail)
}

func (f *PlatformFacade) StartExam(ctx context.Context, examID int64) (*model.ExamSession, error) {
	return f.exams.StartAttempt(ctx, examID)
}

func (f *PlatformFacade) SubmitExam(ctx context.Context, studentEmail string, examID int64, answers map[int64]int64) (*model.ExamResult, error) {
	return f.exams.SubmitAttempt(ctx, studentEmail, examID, answers)
}

func (f *PlatformFacade) ExamAttempts(ctx context.Context, studentEmail string, examID int64) ([]model.ExamAttempt, error) {
	return f.exams.Attempts(ctx, studentEmail, examID)
}

func (f *PlatformFacade) MarkLessonWatched(ctx context.Context, studentEmail string, lessonID int64) error {
	return f.exams.MarkLessonWatched(ctx, studentEmail, lessonID)
}

func (f *PlatformFacade) ModuleProgress(ctx context.Context, studentEmail string, moduleID int64) (*model.ModuleProgress, error) {
	return f.exams.ModuleProgress(ctx, studentEmail, moduleID)
}

func (f *PlatformFacade) UnprovisionedItems(ctx context.Context, limit int) ([]model.ProvisionJob, error) {
	return f.orders.UnprovisionedItems(ctx, limit)
}

func (f *PlatformFacade) ProvisionItem(ctx context.Context, job model.ProvisionJob) (*model.Enrollment, bool, error) {
	return f.enrollments.ProvisionItem(ctx, job)
}
