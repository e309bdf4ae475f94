package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/dsmirnov/coursegate/internal/domain/errors"
	"github.com/dsmirnov/coursegate/internal/domain/model"
	"github.com/dsmirnov/coursegate/internal/domain/repository"
)

// ExamUseCase grades exam attempts and reports module completion.
type ExamUseCase struct {
	exams repository.ExamRepository
	now   func() time.Time
}

// NewExamUseCase constructs ExamUseCase.
func NewExamUseCase(exams repository.ExamRepository) *ExamUseCase {
	return &ExamUseCase{exams: exams, now: time.Now}
}

// StartAttempt opens an exam for the student: questions and options in
// authored order with correct answers stripped, plus the submission deadline
// when the exam is timed. Attempts are unlimited, so starting records nothing.
func (u *ExamUseCase) StartAttempt(ctx context.Context, examID int64) (*model.ExamSession, error) {
	exam, err := u.exams.GetExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	startedAt := u.now()
	session := &model.ExamSession{
		ExamID:           exam.ID,
		Title:            exam.Title,
		TimeLimitMinutes: exam.TimeLimitMinutes,
		StartedAt:        startedAt,
	}
	if exam.TimeLimitMinutes != nil {
		deadline := startedAt.Add(time.Duration(*exam.TimeLimitMinutes) * time.Minute)
		session.Deadline = &deadline
	}
	for _, q := range exam.Questions {
		session.Questions = append(session.Questions, model.Question{
			ID:       q.ID,
			Position: q.Position,
			Text:     q.Text,
			Options:  q.Options,
		})
	}
	return session, nil
}

// SubmitAttempt scores an answer sheet and persists the attempt. Unanswered
// questions count as incorrect. Answers referencing questions or options that
// are not part of the exam make the whole sheet invalid.
func (u *ExamUseCase) SubmitAttempt(ctx context.Context, studentEmail string, examID int64, answers map[int64]int64) (*model.ExamResult, error) {
	exam, err := u.exams.GetExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if err := validateAnswerSheet(exam, answers); err != nil {
		return nil, err
	}

	score, correct := exam.ScoreAttempt(answers)
	attempt := &model.ExamAttempt{
		StudentEmail:   studentEmail,
		ExamID:         exam.ID,
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: len(exam.Questions),
		Passed:         score >= exam.PassingScore,
		SubmittedAt:    u.now(),
	}
	saved, err := u.exams.CreateAttempt(ctx, attempt)
	if err != nil {
		return nil, fmt.Errorf("persist attempt: %w", err)
	}

	return &model.ExamResult{
		AttemptID:      saved.ID,
		Score:          saved.Score,
		CorrectAnswers: saved.CorrectAnswers,
		TotalQuestions: saved.TotalQuestions,
		PassingScore:   exam.PassingScore,
		Passed:         saved.Passed,
		SubmittedAt:    saved.SubmittedAt,
	}, nil
}

func validateAnswerSheet(exam *model.ModuleExam, answers map[int64]int64) error {
	options := make(map[int64]map[int64]bool, len(exam.Questions))
	for _, q := range exam.Questions {
		opts := make(map[int64]bool, len(q.Options))
		for _, o := range q.Options {
			opts[o.ID] = true
		}
		options[q.ID] = opts
	}
	for questionID, optionID := range answers {
		opts, ok := options[questionID]
		if !ok {
			return fmt.Errorf("%w: unknown question %d", domainErrors.ErrInvalidAnswerSheet, questionID)
		}
		if !opts[optionID] {
			return fmt.Errorf("%w: option %d does not belong to question %d", domainErrors.ErrInvalidAnswerSheet, optionID, questionID)
		}
	}
	return nil
}

// Attempts returns the student's attempt history for an exam, newest first.
func (u *ExamUseCase) Attempts(ctx context.Context, studentEmail string, examID int64) ([]model.ExamAttempt, error) {
	return u.exams.AttemptsByStudent(ctx, studentEmail, examID)
}

// MarkLessonWatched records lesson completion. Repeat playback is a no-op.
func (u *ExamUseCase) MarkLessonWatched(ctx context.Context, studentEmail string, lessonID int64) error {
	_, err := u.exams.MarkLessonWatched(ctx, studentEmail, lessonID)
	return err
}

// ModuleProgress reports completion of one module: all required lessons
// watched and, when the module carries a required exam, at least one passing
// attempt. A module with neither lessons nor an exam is treated as unknown.
func (u *ExamUseCase) ModuleProgress(ctx context.Context, studentEmail string, moduleID int64) (*model.ModuleProgress, error) {
	required, watched, err := u.exams.LessonCounts(ctx, studentEmail, moduleID)
	if err != nil {
		return nil, err
	}

	exam, err := u.exams.ExamByModule(ctx, moduleID)
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		exam = nil
	case err != nil:
		return nil, err
	}

	if required == 0 && exam == nil {
		return nil, domainErrors.ErrNotFound
	}

	progress := &model.ModuleProgress{
		ModuleID:        moduleID,
		RequiredLessons: required,
		WatchedLessons:  watched,
	}
	if exam != nil && exam.IsRequired {
		progress.ExamRequired = true
		passed, err := u.exams.HasPassed(ctx, studentEmail, exam.ID)
		if err != nil {
			return nil, err
		}
		progress.ExamPassed = passed
	}
	progress.Complete = watched >= required && (!progress.ExamRequired || progress.ExamPassed)
	return progress, nil
}
