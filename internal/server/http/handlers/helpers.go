package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/dsmirnov/coursegate/internal/server/http/middleware"
)

// CurrentStudentEmail extracts the authenticated student from context.
func CurrentStudentEmail(c *gin.Context) string {
	val, ok := c.Get(middleware.StudentEmailContextKey)
	if !ok {
		return ""
	}
	email, _ := val.(string)
	return email
}
