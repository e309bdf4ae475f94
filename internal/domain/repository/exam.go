package repository

import (
	"context"

	"github.com/dsmirnov/coursegate/internal/domain/model"
)

// ExamRepository describes persistence operations with exams, attempts and
// lesson progress. Exam content is authored elsewhere; the core only reads it.
type ExamRepository interface {
	GetExam(ctx context.Context, examID int64) (*model.ModuleExam, error)
	ExamByModule(ctx context.Context, moduleID int64) (*model.ModuleExam, error)
	CreateAttempt(ctx context.Context, attempt *model.ExamAttempt) (*model.ExamAttempt, error)
	AttemptsByStudent(ctx context.Context, studentEmail string, examID int64) ([]model.ExamAttempt, error)
	HasPassed(ctx context.Context, studentEmail string, examID int64) (bool, error)

	// MarkLessonWatched records lesson completion. Returns false when the
	// lesson was already marked (repeat playback is a no-op).
	MarkLessonWatched(ctx context.Context, studentEmail string, lessonID int64) (bool, error)
	LessonCounts(ctx context.Context, studentEmail string, moduleID int64) (required, watched int, err error)
}
