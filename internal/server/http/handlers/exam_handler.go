package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/dsmirnov/coursegate/internal/domain/errors"
	"github.com/dsmirnov/coursegate/internal/server/http/dto"
)

// ExamHandler manages exam and lesson progress endpoints.
type ExamHandler struct {
	facade ExamFacade
}

// NewExamHandler constructs ExamHandler.
func NewExamHandler(facade ExamFacade) *ExamHandler {
	return &ExamHandler{facade: facade}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.Status(http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// Start handles POST /api/exams/:id/start.
func (h *ExamHandler) Start(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}

	session, err := h.facade.StartExam(c.Request.Context(), examID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	questions := make([]dto.QuestionResponse, 0, len(session.Questions))
	for _, q := range session.Questions {
		options := make([]dto.OptionResponse, 0, len(q.Options))
		for _, o := range q.Options {
			options = append(options, dto.OptionResponse{ID: o.ID, Position: o.Position, Text: o.Text})
		}
		questions = append(questions, dto.QuestionResponse{ID: q.ID, Position: q.Position, Text: q.Text, Options: options})
	}

	c.JSON(http.StatusOK, dto.ExamSessionResponse{
		ExamID:           session.ExamID,
		Title:            session.Title,
		TimeLimitMinutes: session.TimeLimitMinutes,
		Deadline:         session.Deadline,
		StartedAt:        session.StartedAt,
		Questions:        questions,
	})
}

// Submit handles POST /api/exams/:id/submit.
func (h *ExamHandler) Submit(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.SubmitExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	result, err := h.facade.SubmitExam(c.Request.Context(), CurrentStudentEmail(c), examID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrInvalidAnswerSheet):
			c.Status(http.StatusUnprocessableEntity)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, dto.ExamResultResponse{
		AttemptID:      result.AttemptID,
		Score:          result.Score,
		CorrectAnswers: result.CorrectAnswers,
		TotalQuestions: result.TotalQuestions,
		PassingScore:   result.PassingScore,
		Passed:         result.Passed,
		SubmittedAt:    result.SubmittedAt,
	})
}

// Attempts handles GET /api/exams/:id/attempts.
func (h *ExamHandler) Attempts(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		return
	}

	attempts, err := h.facade.ExamAttempts(c.Request.Context(), CurrentStudentEmail(c), examID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(attempts) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.AttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		response = append(response, dto.AttemptResponse{
			Score:          a.Score,
			CorrectAnswers: a.CorrectAnswers,
			TotalQuestions: a.TotalQuestions,
			Passed:         a.Passed,
			SubmittedAt:    a.SubmittedAt,
		})
	}

	c.JSON(http.StatusOK, response)
}

// LessonWatched handles POST /api/lessons/:id/watched.
func (h *ExamHandler) LessonWatched(c *gin.Context) {
	lessonID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.facade.MarkLessonWatched(c.Request.Context(), CurrentStudentEmail(c), lessonID); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}

// Progress handles GET /api/modules/:id/progress.
func (h *ExamHandler) Progress(c *gin.Context) {
	moduleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	progress, err := h.facade.ModuleProgress(c.Request.Context(), CurrentStudentEmail(c), moduleID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.ModuleProgressResponse{
		ModuleID:        progress.ModuleID,
		RequiredLessons: progress.RequiredLessons,
		WatchedLessons:  progress.WatchedLessons,
		ExamRequired:    progress.ExamRequired,
		ExamPassed:      progress.ExamPassed,
		Complete:        progress.Complete,
	})
}
