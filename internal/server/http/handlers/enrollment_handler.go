package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dsmirnov/coursegate/internal/server/http/dto"
)

// EnrollmentHandler manages enrollment read endpoints.
type EnrollmentHandler struct {
	facade EnrollmentFacade
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(facade EnrollmentFacade) *EnrollmentHandler {
	return &EnrollmentHandler{facade: facade}
}

// List handles GET /api/enrollments.
func (h *EnrollmentHandler) List(c *gin.Context) {
	email := CurrentStudentEmail(c)
	enrollments, err := h.facade.Enrollments(c.Request.Context(), email)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(enrollments) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		response = append(response, dto.EnrollmentResponse{
			CourseID:   e.CourseID,
			Status:     string(e.Status),
			EnrolledAt: e.EnrolledAt,
			ExpiresAt:  e.ExpiresAt,
		})
	}

	c.JSON(http.StatusOK, response)
}
