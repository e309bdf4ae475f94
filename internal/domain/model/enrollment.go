package model

import "time"

// EnrollmentStatus describes a student's access grant state.
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusExpired   EnrollmentStatus = "expired"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

// Enrollment is a student's time-bounded access grant to one course. At most
// one row exists per (student, course); repeat purchases extend ExpiresAt.
type Enrollment struct {
	ID           int64
	StudentEmail string
	CourseID     string
	Status       EnrollmentStatus
	EnrolledAt   time.Time
	ExpiresAt    *time.Time
}

// EffectiveStatus computes the status as of the given instant. Expiry is
// derived at read time, never flipped by a background job.
func (e Enrollment) EffectiveStatus(now time.Time) EnrollmentStatus {
	if e.Status == EnrollmentStatusActive && e.ExpiresAt != nil && e.ExpiresAt.Before(now) {
		return EnrollmentStatusExpired
	}
	return e.Status
}
