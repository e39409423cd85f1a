package quiz

import (
	"database/sql"
	"time"
)

// Mode selects the quiz composition policy.
type Mode string

const (
	ModeDaily  Mode = "daily"
	ModeFriday Mode = "friday"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeDaily || m == ModeFriday
}

// DueDate returns the submission deadline for a quiz assigned at assignedAt.
func DueDate(mode Mode, assignedAt time.Time) time.Time {
	if mode == ModeFriday {
		return assignedAt.Add(3 * 24 * time.Hour)
	}
	return assignedAt.Add(24 * time.Hour)
}

// Quiz is the aggregate root. It is created once and mutated exactly once,
// to set CompletedAt on submission.
type Quiz struct {
	ID            string       `db:"id"`
	StudentID     string       `db:"student_id"`
	TeacherUID    string       `db:"teacher_uid"`
	WeekID        string       `db:"week_id"`
	Mode          Mode         `db:"mode"`
	AssignedAt    time.Time    `db:"assigned_at"`
	DueAt         time.Time    `db:"due_at"`
	CompletedAt   sql.NullTime `db:"completed_at"`
	QuestionCount int          `db:"question_count"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

// Completed reports whether the quiz has already been submitted.
func (q Quiz) Completed() bool {
	return q.CompletedAt.Valid
}

// Attempt is the immutable record of one submission.
type Attempt struct {
	ID           string
	QuizID       string
	StudentID    string
	SubmittedAt  time.Time
	ScorePercent int
	Responses    []ScoredResponse
}
