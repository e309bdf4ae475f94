package repository

import (
	"context"

	"github.com/dsmirnov/coursegate/internal/domain/model"
)

// EnrollmentRepository describes persistence operations with access grants.
type EnrollmentRepository interface {
	// ProvisionItem grants or extends the enrollment owed by one paid order
	// item, exactly once: the item's provisioned marker and the enrollment
	// upsert are committed in one transaction. Returns false when the item
	// was already provisioned (webhook replay, racing worker).
	ProvisionItem(ctx context.Context, job model.ProvisionJob) (*model.Enrollment, bool, error)

	Get(ctx context.Context, studentEmail, courseID string) (*model.Enrollment, error)
	ListByStudent(ctx context.Context, studentEmail string) ([]model.Enrollment, error)
}
