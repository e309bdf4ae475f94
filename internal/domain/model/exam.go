package model

import (
	"math"
	"time"
)

// Option is one selectable answer of a question.
type Option struct {
	ID       int64
	Position int
	Text     string
}

// Question holds ordered options and the identifier of the single correct one.
// CorrectOptionID never leaves the server.
type Question struct {
	ID              int64
	Position        int
	Text            string
	CorrectOptionID int64
	Options         []Option
}

// ModuleExam gates completion of one course module.
type ModuleExam struct {
	ID               int64
	ModuleID         int64
	Title            string
	PassingScore     int
	TimeLimitMinutes *int
	IsRequired       bool
	Questions        []Question
}

// ExamAttempt is one scored submission, append-only.
type ExamAttempt struct {
	ID             int64
	StudentEmail   string
	ExamID         int64
	Score          int
	CorrectAnswers int
	TotalQuestions int
	Passed         bool
	SubmittedAt    time.Time
}

// ExamSession is what the student sees when starting an attempt: questions
// and options with the correct answers stripped, plus the submission deadline
// when the exam is timed.
type ExamSession struct {
	ExamID           int64
	Title            string
	TimeLimitMinutes *int
	Deadline         *time.Time
	Questions        []Question
	StartedAt        time.Time
}

// ExamResult carries everything the UI needs to render pass/fail without
// re-deriving scoring rules.
type ExamResult struct {
	AttemptID      int64
	Score          int
	CorrectAnswers int
	TotalQuestions int
	PassingScore   int
	Passed         bool
	SubmittedAt    time.Time
}

// ModuleProgress reports completion of one course module.
type ModuleProgress struct {
	ModuleID        int64
	RequiredLessons int
	WatchedLessons  int
	ExamRequired    bool
	ExamPassed      bool
	Complete        bool
}

// ScoreAttempt grades an answer sheet against the exam. Unanswered questions
// count as incorrect; they are never excluded from the denominator.
func (e ModuleExam) ScoreAttempt(answers map[int64]int64) (score, correct int) {
	total := len(e.Questions)
	if total == 0 {
		return 0, 0
	}
	for _, q := range e.Questions {
		if picked, ok := answers[q.ID]; ok && picked == q.CorrectOptionID {
			correct++
		}
	}
	score = int(math.Round(100 * float64(correct) / float64(total)))
	return score, correct
}
