// Package roster bulk-imports students from a teacher's class
// spreadsheet.
package roster

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/lexio-app/lexio/internal/content"
)

// ImportConfig defines how the spreadsheet is read.
type ImportConfig struct {
	FilePath    string // Path to the Excel file
	SheetName   string // Name of the sheet to import
	NameColumn  string // Column with the student's display name
	EmailColumn string // Column with the student's email
	StartRow    int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration.
func DefaultImportConfig(filePath string) ImportConfig {
	return ImportConfig{
		FilePath:    filePath,
		SheetName:   "Sheet1",
		NameColumn:  "A",
		EmailColumn: "B",
		StartRow:    2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation.
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// Importer imports roster rows into the student repository.
type Importer struct {
	students content.StudentRepository
	now      func() time.Time
}

// NewImporter creates an Importer.
func NewImporter(students content.StudentRepository) *Importer {
	return &Importer{
		students: students,
		now:      time.Now,
	}
}

// Import reads the spreadsheet and creates one unclaimed roster entry per
// row. Rows whose email already exists under the teacher are skipped, and
// malformed rows are reported without aborting the rest of the file.
func (imp *Importer) Import(ctx context.Context, teacherUID string, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("excelize.OpenFile > %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("f.GetRows > %w", err)
	}

	result := &ImportResult{}
	nameIdx := columnToIndex(config.NameColumn)
	emailIdx := columnToIndex(config.EmailColumn)

	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		if err := imp.importRow(ctx, teacherUID, row, nameIdx, emailIdx, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

func (imp *Importer) importRow(ctx context.Context, teacherUID string, row []string, nameIdx, emailIdx int, result *ImportResult) error {
	var name, email string
	if nameIdx < len(row) {
		name = strings.TrimSpace(row[nameIdx])
	}
	if emailIdx < len(row) {
		email = strings.ToLower(strings.TrimSpace(row[emailIdx]))
	}

	if name == "" {
		return fmt.Errorf("display name cannot be empty")
	}
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email %q", email)
	}

	existing, err := imp.students.GetByTeacherAndEmail(ctx, teacherUID, email)
	if err != nil {
		return fmt.Errorf("students.GetByTeacherAndEmail > %w", err)
	}
	if existing != nil {
		result.Skipped++
		return nil
	}

	now := imp.now()
	student := &content.Student{
		ID:          uuid.NewString(),
		TeacherUID:  teacherUID,
		DisplayName: name,
		Email:       email,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := imp.students.Create(ctx, student); err != nil {
		return fmt.Errorf("students.Create > %w", err)
	}
	result.Imported++
	return nil
}

// columnToIndex converts an Excel column letter to a zero-based index.
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
