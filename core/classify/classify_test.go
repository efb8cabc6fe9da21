package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestType(t *testing.T) {
	tests := []struct {
		name string
		want Label
	}{
		{"Quiz: Module 3 Homework", LabelQuiz},
		{"Midterm Exam", LabelExam},
		{"Unit Test 2", LabelExam},
		{"Discussion: Week 1", LabelDiscussion},
		{"Lecture 4 notes", LabelLecture},
		{"Extra Credit Essay", LabelExtraCredit},
		{"Reading Response", LabelReading},
		{"Animation Project", LabelAnimation},
		{"ChatGPT reflection", LabelChatGPT},
		{"Short Answer Worksheet 2", LabelWorksheet},
		{"Homework 5", LabelHomework},
		{"Final Assignment", LabelHomework},
		{"Lab Report", LabelWorksheet},
		{"", LabelWorksheet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Type(tt.name))
		})
	}
}

func TestModule(t *testing.T) {
	assert.Equal(t, Label("Module 3"), Module("Quiz: Module 3 Homework"))
	assert.Equal(t, Label("Chapter 7"), Module("Module 2 - Chapter 7 reading"))
	assert.Equal(t, Label("Module 12"), Module("module12 worksheet"))
	assert.Equal(t, LabelUncategorized, Module("Syllabus"))
}

func TestCleanDisplayName(t *testing.T) {
	tests := []struct {
		raw   string
		label Label
		want  string
	}{
		{"Homework: Module 3 - Fractions", LabelHomework, "Fractions"},
		{"Worksheet: Chapter 2: Short Answer 4", LabelWorksheet, "Short Answer Worksheet 4"},
		{"Module 1 Short Answer #2 (due Friday)", LabelWorksheet, "Short Answer Worksheet 2"},
		{"Quiz: Module 3 Homework", LabelQuiz, "Quiz: Module 3 Homework"},
		{"  Exam: Module 1  ", LabelExam, "Exam: Module 1"},
		{"Reading: Module 4", LabelReading, "Reading: Module 4"},
		{"Lab Report", LabelWorksheet, "Lab Report"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanDisplayName(tt.raw, tt.label))
		})
	}
}

func TestSubmissionStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	t.Run("never submitted past due is sticky", func(t *testing.T) {
		sub := &Submission{Missing: true}
		got := SubmissionStatus(sub, &past, StatusNeverSubmittedPastDue, now)
		assert.Equal(t, StatusNeverSubmittedPastDue, got)
	})

	t.Run("sticky state released by submission", func(t *testing.T) {
		sub := &Submission{SubmittedAt: ptr(now)}
		got := SubmissionStatus(sub, &past, StatusNeverSubmittedPastDue, now)
		assert.Equal(t, StatusSubmitted, got)
	})

	t.Run("sticky state released by grade", func(t *testing.T) {
		sub := &Submission{Score: ptr(0.0), Missing: true}
		got := SubmissionStatus(sub, &past, StatusNeverSubmittedPastDue, now)
		assert.Equal(t, StatusLateOrMissing, got)
	})

	t.Run("sticky state released before due", func(t *testing.T) {
		got := SubmissionStatus(&Submission{}, &future, StatusNeverSubmittedPastDue, now)
		assert.Equal(t, StatusNeverSubmittedPastDue, got, "falls through to previous")
		got = SubmissionStatus(nil, &future, StatusNeverSubmittedPastDue, now)
		assert.Equal(t, StatusPending, got)
	})

	t.Run("late wins over pending", func(t *testing.T) {
		got := SubmissionStatus(&Submission{Late: true}, &past, "", now)
		assert.Equal(t, StatusLateOrMissing, got)
	})

	t.Run("no submission record is pending", func(t *testing.T) {
		got := SubmissionStatus(nil, &future, StatusSubmitted, now)
		assert.Equal(t, StatusPending, got)
	})

	t.Run("keeps previous otherwise", func(t *testing.T) {
		got := SubmissionStatus(&Submission{}, &future, StatusLateOrMissing, now)
		assert.Equal(t, StatusLateOrMissing, got)
		got = SubmissionStatus(&Submission{}, nil, "", now)
		assert.Equal(t, StatusPending, got)
	})
}

func TestGrade(t *testing.T) {
	assert.Equal(t, "85 / 100", Grade(&Submission{Score: ptr(85.0)}, ptr(100.0)))
	assert.Equal(t, "7.5 / 10", Grade(&Submission{Score: ptr(7.5)}, ptr(10.0)))
	assert.Equal(t, NotGraded, Grade(&Submission{}, ptr(100.0)))
	assert.Equal(t, NotGraded, Grade(&Submission{Score: ptr(85.0)}, nil))
	assert.Equal(t, NotGraded, Grade(nil, ptr(100.0)))
}

func TestClosed(t *testing.T) {
	assert.Equal(t, "Yes", Closed(true))
	assert.Equal(t, "No", Closed(false))
}
