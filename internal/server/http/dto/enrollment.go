package dto

import "time"

// EnrollmentResponse is one access grant with its status computed at read time.
type EnrollmentResponse struct {
	CourseID   string     `json:"course_id"`
	Status     string     `json:"status"`
	EnrolledAt time.Time  `json:"enrolled_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}
