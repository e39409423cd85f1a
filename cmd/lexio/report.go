package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexio-app/lexio/internal/content"
	"github.com/lexio-app/lexio/internal/mastery"
	"github.com/lexio-app/lexio/internal/report"
	"github.com/lexio-app/lexio/internal/statistics"
)

func newReportCommand() *cobra.Command {
	reportCommand := &cobra.Command{
		Use:   "report",
		Short: "Generate student progress reports",
	}

	reportCommand.AddCommand(newReportProgressCommand())

	return reportCommand
}

func newReportProgressCommand() *cobra.Command {
	var outputDir string
	var generatePDF bool

	command := &cobra.Command{
		Use:   "progress <student id>",
		Short: "Render a mastery progress report for one student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			ctx := cmd.Context()
			studentID := args[0]

			students := content.NewDBStudentRepository(db)
			student, err := students.Get(ctx, studentID)
			if err != nil {
				return fmt.Errorf("students.Get() > %w", err)
			}
			if student == nil {
				return fmt.Errorf("student %q not found", studentID)
			}

			records, err := mastery.NewDBRepository(db).FindByStudent(ctx, studentID)
			if err != nil {
				return fmt.Errorf("mastery.FindByStudent() > %w", err)
			}

			now := time.Now()
			stats := statistics.CalculateStudentStatistics(studentID, records, now)

			wordsByID := make(map[string]content.VocabWord)
			if len(stats.StrugglingWords) > 0 {
				ids := make([]string, 0, len(stats.StrugglingWords))
				for _, wa := range stats.StrugglingWords {
					ids = append(ids, wa.WordID)
				}
				words, err := content.NewDBVocabRepository(db).FindByIDs(ctx, ids)
				if err != nil {
					return fmt.Errorf("vocab.FindByIDs() > %w", err)
				}
				for _, word := range words {
					wordsByID[word.ID] = word
				}
			}

			markdown := report.RenderMarkdown(report.ProgressReport{
				Student:     *student,
				Stats:       stats,
				WordsByID:   wordsByID,
				GeneratedAt: now,
			})

			fileName := fmt.Sprintf("progress-%s-%s.md",
				strings.ReplaceAll(strings.ToLower(student.DisplayName), " ", "-"),
				now.Format("2006-01-02"))
			markdownPath := filepath.Join(outputDir, fileName)
			if err := os.WriteFile(markdownPath, []byte(markdown), 0o644); err != nil {
				return fmt.Errorf("os.WriteFile(%s) > %w", markdownPath, err)
			}
			fmt.Printf("Wrote %s\n", markdownPath)

			if generatePDF {
				pdfPath, err := report.ConvertMarkdownToPDF(markdownPath)
				if err != nil {
					return fmt.Errorf("report.ConvertMarkdownToPDF() > %w", err)
				}
				fmt.Printf("Wrote %s\n", pdfPath)
			}
			return nil
		},
	}

	flags := command.Flags()
	flags.StringVar(&outputDir, "output", ".", "Directory to write the report into")
	flags.BoolVar(&generatePDF, "pdf", false, "Also export the report as PDF")

	return command
}
