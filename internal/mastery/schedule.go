package mastery

import "time"

const day = 24 * time.Hour

// NextDueDate computes when a word is next due for spiral review.
// A wrong answer always schedules one day out; the caller has already
// reset the streak to zero by then. A correct answer schedules on a step
// function of the new streak: 1 -> 3 days, 2 -> 7 days, >= 3 -> 14 days.
func NextDueDate(isCorrect bool, newStreak int, now time.Time) time.Time {
	if !isCorrect {
		return now.Add(day)
	}

	days := 1
	switch {
	case newStreak >= 3:
		days = 14
	case newStreak == 2:
		days = 7
	case newStreak == 1:
		days = 3
	}
	return now.Add(time.Duration(days) * day)
}

// AdvanceStatus moves the status up the ladder once the new streak reaches
// the next stage's threshold. The status never moves down.
func AdvanceStatus(current Status, newStreak int) Status {
	if current == StatusNew && newStreak >= 1 {
		return StatusLearning
	}
	if current == StatusLearning && newStreak >= 2 {
		return StatusPracticed
	}
	if current == StatusPracticed && newStreak >= 3 {
		return StatusMastered
	}
	return current
}

// ApplyAttempt folds one scored answer into a record and returns the
// updated record. existing may be nil for a first-ever attempt. The
// repository upsert is the caller's responsibility; calling this exactly
// once per scored question keeps the counters honest.
func ApplyAttempt(existing *Record, studentID, wordID string, isCorrect bool, now time.Time) Record {
	if existing == nil {
		newStreak := 0
		status := StatusNew
		correct := 0
		if isCorrect {
			newStreak = 1
			status = StatusLearning
			correct = 1
		}
		return Record{
			StudentID:       studentID,
			WordID:          wordID,
			Status:          status,
			CorrectStreak:   newStreak,
			TotalAttempts:   1,
			CorrectAttempts: correct,
			LastSeenAt:      now,
			NextDueAt:       NextDueDate(isCorrect, newStreak, now),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
	}

	newStreak := 0
	if isCorrect {
		newStreak = existing.CorrectStreak + 1
	}

	updated := *existing
	updated.CorrectStreak = newStreak
	updated.TotalAttempts = existing.TotalAttempts + 1
	if isCorrect {
		updated.CorrectAttempts = existing.CorrectAttempts + 1
	}
	updated.Status = AdvanceStatus(existing.Status, newStreak)
	updated.LastSeenAt = now
	updated.NextDueAt = NextDueDate(isCorrect, newStreak, now)
	updated.UpdatedAt = now
	return updated
}
