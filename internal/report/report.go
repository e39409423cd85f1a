// Package report renders a teacher-facing progress report for one
// student as markdown, with optional PDF export.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/lexio-app/lexio/internal/content"
	"github.com/lexio-app/lexio/internal/statistics"
)

// ProgressReport is the data behind one rendered report.
type ProgressReport struct {
	Student     content.Student
	Stats       statistics.StudentStatistics
	WordsByID   map[string]content.VocabWord
	GeneratedAt time.Time
}

// RenderMarkdown builds the report as a markdown document.
func RenderMarkdown(r ProgressReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Progress Report: %s\n\n", r.Student.DisplayName)
	fmt.Fprintf(&b, "Generated %s\n\n", r.GeneratedAt.Format("January 2, 2006"))

	dist := r.Stats.Distribution
	b.WriteString("## Mastery Overview\n\n")
	fmt.Fprintf(&b, "| Status | Words |\n")
	fmt.Fprintf(&b, "|--------|-------|\n")
	fmt.Fprintf(&b, "| New | %d |\n", dist.New)
	fmt.Fprintf(&b, "| Learning | %d |\n", dist.Learning)
	fmt.Fprintf(&b, "| Practiced | %d |\n", dist.Practiced)
	fmt.Fprintf(&b, "| Mastered | %d |\n", dist.Mastered)
	fmt.Fprintf(&b, "\n%d of %d tracked words mastered (%d%%).\n\n",
		dist.Mastered, dist.Total(), dist.MasteredPercent())

	b.WriteString("## Quiz Accuracy\n\n")
	if r.Stats.TotalAttempts == 0 {
		b.WriteString("No quiz answers recorded yet.\n\n")
	} else {
		fmt.Fprintf(&b, "%d correct out of %d answers (%d%%).\n\n",
			r.Stats.TotalCorrect, r.Stats.TotalAttempts, r.Stats.AccuracyPercent)
	}

	if r.Stats.DueCount > 0 {
		fmt.Fprintf(&b, "%d words are due for spiral review.\n\n", r.Stats.DueCount)
	}

	if len(r.Stats.StrugglingWords) > 0 {
		b.WriteString("## Words Needing Attention\n\n")
		for _, wa := range r.Stats.StrugglingWords {
			label := wa.WordID
			if word, ok := r.WordsByID[wa.WordID]; ok {
				label = word.Word
			}
			fmt.Fprintf(&b, "- **%s**: %d of %d correct (%d%%)\n",
				label, wa.CorrectAttempts, wa.TotalAttempts, wa.AccuracyPercent)
		}
		b.WriteString("\n")
	}

	return b.String()
}
