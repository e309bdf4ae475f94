package dto

import "time"

// OptionResponse is one selectable answer.
type OptionResponse struct {
	ID       int64  `json:"id"`
	Position int    `json:"position"`
	Text     string `json:"text"`
}

// QuestionResponse is one question with its options, correct answer withheld.
type QuestionResponse struct {
	ID       int64            `json:"id"`
	Position int              `json:"position"`
	Text     string           `json:"text"`
	Options  []OptionResponse `json:"options"`
}

// ExamSessionResponse is the student's view of a started exam.
type ExamSessionResponse struct {
	ExamID           int64              `json:"exam_id"`
	Title            string             `json:"title"`
	TimeLimitMinutes *int               `json:"time_limit_minutes,omitempty"`
	Deadline         *time.Time         `json:"deadline,omitempty"`
	StartedAt        time.Time          `json:"started_at"`
	Questions        []QuestionResponse `json:"questions"`
}

// SubmitExamRequest maps question identifiers to the chosen option.
type SubmitExamRequest struct {
	Answers map[int64]int64 `json:"answers"`
}

// ExamResultResponse is the graded outcome of one submission.
type ExamResultResponse struct {
	AttemptID      int64     `json:"attempt_id"`
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	PassingScore   int       `json:"passing_score"`
	Passed         bool      `json:"passed"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// AttemptResponse is one history entry.
type AttemptResponse struct {
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	Passed         bool      `json:"passed"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// ModuleProgressResponse reports completion of one module.
type ModuleProgressResponse struct {
	ModuleID        int64 `json:"module_id"`
	RequiredLessons int   `json:"required_lessons"`
	WatchedLessons  int   `json:"watched_lessons"`
	ExamRequired    bool  `json:"exam_required"`
	ExamPassed      bool  `json:"exam_passed"`
	Complete        bool  `json:"complete"`
}
