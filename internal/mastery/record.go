// Package mastery owns per-student-per-word mastery records: streak
// tracking, status progression and spiral-review due dates.
package mastery

import "time"

// Status is the mastery ladder stage for one student/word pair.
// Progression is one-way: a status never regresses to an earlier stage,
// even when the correct streak resets.
type Status string

const (
	StatusNew       Status = "new"
	StatusLearning  Status = "learning"
	StatusPracticed Status = "practiced"
	StatusMastered  Status = "mastered"
)

// rank orders statuses along the ladder. Unknown statuses sort first so
// they can only be advanced, never preserved over a known stage.
func (s Status) rank() int {
	switch s {
	case StatusNew:
		return 0
	case StatusLearning:
		return 1
	case StatusPracticed:
		return 2
	case StatusMastered:
		return 3
	}
	return -1
}

// Valid reports whether s is one of the four ladder stages.
func (s Status) Valid() bool {
	return s.rank() >= 0
}

// Record is the mastery state for one (student, word) pair.
type Record struct {
	StudentID       string    `db:"student_id"`
	WordID          string    `db:"word_id"`
	Status          Status    `db:"status"`
	CorrectStreak   int       `db:"correct_streak"`
	TotalAttempts   int       `db:"total_attempts"`
	CorrectAttempts int       `db:"correct_attempts"`
	LastSeenAt      time.Time `db:"last_seen_at"`
	NextDueAt       time.Time `db:"next_due_at"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// Due reports whether the word is eligible for spiral review at ref.
func (r Record) Due(ref time.Time) bool {
	return r.Status != StatusMastered && !r.NextDueAt.After(ref)
}

// Accuracy returns the lifetime correct-answer ratio, or 0 with no attempts.
func (r Record) Accuracy() float64 {
	if r.TotalAttempts == 0 {
		return 0
	}
	return float64(r.CorrectAttempts) / float64(r.TotalAttempts)
}
