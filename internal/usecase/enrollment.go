package usecase

import (
	"context"
	"time"

	"github.com/dsmirnov/coursegate/internal/domain/model"
	"github.com/dsmirnov/coursegate/internal/domain/repository"
)

// EnrollmentUseCase manages course access grants.
type EnrollmentUseCase struct {
	enrollments repository.EnrollmentRepository
	now         func() time.Time
}

// NewEnrollmentUseCase constructs EnrollmentUseCase.
func NewEnrollmentUseCase(enrollments repository.EnrollmentRepository) *EnrollmentUseCase {
	return &EnrollmentUseCase{enrollments: enrollments, now: time.Now}
}

// ProvisionItem grants or extends the enrollment owed by one paid order item.
// Returns false when the item was already provisioned.
func (u *EnrollmentUseCase) ProvisionItem(ctx context.Context, job model.ProvisionJob) (*model.Enrollment, bool, error) {
	return u.enrollments.ProvisionItem(ctx, job)
}

// EnrollmentsByStudent returns the student's enrollments with expiry resolved
// at read time: a grant past its expires_at reports expired without any
// background job having touched the row.
func (u *EnrollmentUseCase) EnrollmentsByStudent(ctx context.Context, studentEmail string) ([]model.Enrollment, error) {
	enrollments, err := u.enrollments.ListByStudent(ctx, studentEmail)
	if err != nil {
		return nil, err
	}
	now := u.now()
	for i := range enrollments {
		enrollments[i].Status = enrollments[i].EffectiveStatus(now)
	}
	return enrollments, nil
}

// Enrollment returns a single grant with its computed status.
func (u *EnrollmentUseCase) Enrollment(ctx context.Context, studentEmail, courseID string) (*model.Enrollment, error) {
	enrollment, err := u.enrollments.Get(ctx, studentEmail, courseID)
	if err != nil {
		return nil, err
	}
	enrollment.Status = enrollment.EffectiveStatus(u.now())
	return enrollment, nil
}
