package model

import (
	"testing"
	"time"
)

func TestPaymentStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   PaymentStatus
		value string
	}{
		{"pending", PaymentStatusPending, "pending"},
		{"processing", PaymentStatusProcessing, "processing"},
		{"paid", PaymentStatusPaid, "paid"},
		{"cancelled", PaymentStatusCancelled, "cancelled"},
		{"refunded", PaymentStatusRefunded, "refunded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from PaymentStatus
		to   PaymentStatus
		want bool
	}{
		{"pending to paid", PaymentStatusPending, PaymentStatusPaid, true},
		{"pending to processing", PaymentStatusPending, PaymentStatusProcessing, true},
		{"pending to cancelled", PaymentStatusPending, PaymentStatusCancelled, true},
		{"processing to paid", PaymentStatusProcessing, PaymentStatusPaid, true},
		{"processing to cancelled", PaymentStatusProcessing, PaymentStatusCancelled, true},
		{"paid to refunded", PaymentStatusPaid, PaymentStatusRefunded, true},
		{"cancelled to paid", PaymentStatusCancelled, PaymentStatusPaid, false},
		{"refunded to paid", PaymentStatusRefunded, PaymentStatusPaid, false},
		{"paid to cancelled", PaymentStatusPaid, PaymentStatusCancelled, false},
		{"paid to paid", PaymentStatusPaid, PaymentStatusPaid, false},
		{"pending to refunded", PaymentStatusPending, PaymentStatusRefunded, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to); got != tc.want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestLegalPredecessors(t *testing.T) {
	if got := LegalPredecessors(PaymentStatusPending); len(got) != 0 {
		t.Fatalf("pending must not be reachable via events, got %v", got)
	}
	if got := LegalPredecessors(PaymentStatusPaid); len(got) != 2 {
		t.Fatalf("expected two predecessors for paid, got %v", got)
	}
}

func TestEnrollmentEffectiveStatus(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name       string
		enrollment Enrollment
		want       EnrollmentStatus
	}{
		{"active unlimited", Enrollment{Status: EnrollmentStatusActive}, EnrollmentStatusActive},
		{"active not expired", Enrollment{Status: EnrollmentStatusActive, ExpiresAt: &future}, EnrollmentStatusActive},
		{"active past expiry", Enrollment{Status: EnrollmentStatusActive, ExpiresAt: &past}, EnrollmentStatusExpired},
		{"cancelled stays cancelled", Enrollment{Status: EnrollmentStatusCancelled, ExpiresAt: &past}, EnrollmentStatusCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.enrollment.EffectiveStatus(now); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func fourQuestionExam() ModuleExam {
	return ModuleExam{
		ID:           1,
		PassingScore: 70,
		Questions: []Question{
			{ID: 1, CorrectOptionID: 11},
			{ID: 2, CorrectOptionID: 22},
			{ID: 3, CorrectOptionID: 33},
			{ID: 4, CorrectOptionID: 44},
		},
	}
}

func TestScoreAttempt(t *testing.T) {
	exam := fourQuestionExam()

	score, correct := exam.ScoreAttempt(map[int64]int64{1: 11, 2: 22, 3: 33, 4: 40})
	if score != 75 || correct != 3 {
		t.Fatalf("expected 75/3, got %d/%d", score, correct)
	}

	score, correct = exam.ScoreAttempt(map[int64]int64{1: 11, 2: 22, 3: 30, 4: 40})
	if score != 50 || correct != 2 {
		t.Fatalf("expected 50/2, got %d/%d", score, correct)
	}
}

func TestScoreAttemptUnansweredCountAsWrong(t *testing.T) {
	exam := ModuleExam{
		PassingScore: 70,
		Questions: []Question{
			{ID: 1, CorrectOptionID: 11},
			{ID: 2, CorrectOptionID: 22},
			{ID: 3, CorrectOptionID: 33},
			{ID: 4, CorrectOptionID: 44},
			{ID: 5, CorrectOptionID: 55},
		},
	}

	score, correct := exam.ScoreAttempt(map[int64]int64{1: 11, 2: 22, 3: 33})
	if score != 60 || correct != 3 {
		t.Fatalf("expected 60/3, got %d/%d", score, correct)
	}
}

func TestScoreAttemptEmptyExam(t *testing.T) {
	exam := ModuleExam{}
	if score, correct := exam.ScoreAttempt(nil); score != 0 || correct != 0 {
		t.Fatalf("expected 0/0 for empty exam, got %d/%d", score, correct)
	}
}

func TestScoreAttemptIgnoresUnknownQuestions(t *testing.T) {
	exam := fourQuestionExam()
	score, correct := exam.ScoreAttempt(map[int64]int64{99: 11, 1: 11})
	if correct != 1 || score != 25 {
		t.Fatalf("expected 25/1, got %d/%d", score, correct)
	}
}
