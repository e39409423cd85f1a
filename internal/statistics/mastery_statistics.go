// Package statistics summarizes a student's mastery records into the
// figures surfaced in teacher progress reports.
package statistics

import (
	"sort"
	"time"

	"github.com/lexio-app/lexio/internal/mastery"
)

// StatusDistribution counts a student's words per mastery status.
type StatusDistribution struct {
	New       int
	Learning  int
	Practiced int
	Mastered  int
}

// Total returns the number of tracked words.
func (d StatusDistribution) Total() int {
	return d.New + d.Learning + d.Practiced + d.Mastered
}

// MasteredPercent returns the share of tracked words that are mastered,
// rounded down. Zero tracked words yields zero.
func (d StatusDistribution) MasteredPercent() int {
	total := d.Total()
	if total == 0 {
		return 0
	}
	return 100 * d.Mastered / total
}

// StudentStatistics holds one student's aggregate figures.
type StudentStatistics struct {
	StudentID       string
	Distribution    StatusDistribution
	TotalAttempts   int
	TotalCorrect    int
	AccuracyPercent int
	DueCount        int

	// StrugglingWords lists the word ids with the lowest accuracy among
	// words attempted at least minAttemptsForStruggling times, worst first.
	StrugglingWords []WordAccuracy
}

// WordAccuracy pairs a word with its lifetime accuracy.
type WordAccuracy struct {
	WordID          string
	TotalAttempts   int
	CorrectAttempts int
	AccuracyPercent int
}

const (
	// A word needs this many attempts before its accuracy is meaningful
	// enough to flag it as struggling.
	minAttemptsForStruggling = 3
	maxStrugglingWords       = 5
	strugglingThreshold      = 60
)

// CalculateStudentStatistics aggregates a student's mastery records as of
// the reference time.
func CalculateStudentStatistics(studentID string, records []mastery.Record, ref time.Time) StudentStatistics {
	stats := StudentStatistics{StudentID: studentID}

	var struggling []WordAccuracy
	for _, record := range records {
		switch record.Status {
		case mastery.StatusNew:
			stats.Distribution.New++
		case mastery.StatusLearning:
			stats.Distribution.Learning++
		case mastery.StatusPracticed:
			stats.Distribution.Practiced++
		case mastery.StatusMastered:
			stats.Distribution.Mastered++
		}

		stats.TotalAttempts += record.TotalAttempts
		stats.TotalCorrect += record.CorrectAttempts
		if record.Due(ref) {
			stats.DueCount++
		}

		if record.TotalAttempts >= minAttemptsForStruggling {
			accuracy := 100 * record.CorrectAttempts / record.TotalAttempts
			if accuracy < strugglingThreshold {
				struggling = append(struggling, WordAccuracy{
					WordID:          record.WordID,
					TotalAttempts:   record.TotalAttempts,
					CorrectAttempts: record.CorrectAttempts,
					AccuracyPercent: accuracy,
				})
			}
		}
	}

	if stats.TotalAttempts > 0 {
		stats.AccuracyPercent = 100 * stats.TotalCorrect / stats.TotalAttempts
	}

	sort.Slice(struggling, func(i, j int) bool {
		if struggling[i].AccuracyPercent != struggling[j].AccuracyPercent {
			return struggling[i].AccuracyPercent < struggling[j].AccuracyPercent
		}
		return struggling[i].WordID < struggling[j].WordID
	})
	if len(struggling) > maxStrugglingWords {
		struggling = struggling[:maxStrugglingWords]
	}
	stats.StrugglingWords = struggling

	return stats
}
