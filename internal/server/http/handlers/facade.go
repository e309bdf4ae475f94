package handlers

import (
	"context"

	"github.com/dsmirnov/coursegate/internal/domain/model"
	"github.com/dsmirnov/coursegate/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	ParseToken(token string) (string, error)
}

// OrderFacade encapsulates purchase operations exposed via HTTP.
type OrderFacade interface {
	Checkout(ctx context.Context, studentEmail string, customer model.CustomerSnapshot, items []usecase.CheckoutItem, method model.PaymentMethod, details model.MethodDetails) (*model.Order, *model.PaymentInstructions, error)
	Orders(ctx context.Context, studentEmail string) ([]model.Order, error)
	OrderByNumber(ctx context.Context, number string) (*model.Order, error)
	PaymentByOrder(ctx context.Context, number string) (*model.Payment, error)
}

// WebhookFacade processes asynchronous gateway confirmations.
type WebhookFacade interface {
	HandleGatewayEvent(ctx context.Context, event model.WebhookEvent) error
}

// EnrollmentFacade provides access-grant reads.
type EnrollmentFacade interface {
	Enrollments(ctx context.Context, studentEmail string) ([]model.Enrollment, error)
}

// ExamFacade covers the exam and lesson progress surface.
type ExamFacade interface {
	StartExam(ctx context.Context, examID int64) (*model.ExamSession, error)
	SubmitExam(ctx context.Context, studentEmail string, examID int64, answers map[int64]int64) (*model.ExamResult, error)
	ExamAttempts(ctx context.Context, studentEmail string, examID int64) ([]model.ExamAttempt, error)
	MarkLessonWatched(ctx context.Context, studentEmail string, lessonID int64) error
	ModuleProgress(ctx context.Context, studentEmail string, moduleID int64) (*model.ModuleProgress, error)
}

// PlatformFacade aggregates the full set of operations used across handlers.
type PlatformFacade interface {
	AuthFacade
	OrderFacade
	WebhookFacade
	EnrollmentFacade
	ExamFacade
}
