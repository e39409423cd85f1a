package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Week is one week of instruction for one student.
type Week struct {
	ID           string    `db:"id"`
	TeacherUID   string    `db:"teacher_uid"`
	StudentID    string    `db:"student_id"`
	WeekOf       time.Time `db:"week_of"`
	SubjectFocus string    `db:"subject_focus"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// WeekRepository defines operations for managing weeks.
type WeekRepository interface {
	Get(ctx context.Context, id string) (*Week, error)
	FindByStudent(ctx context.Context, studentID string) ([]Week, error)
	Create(ctx context.Context, week *Week) error
}

// DBWeekRepository implements WeekRepository using MySQL.
type DBWeekRepository struct {
	db *sqlx.DB
}

// NewDBWeekRepository creates a new DBWeekRepository.
func NewDBWeekRepository(db *sqlx.DB) *DBWeekRepository {
	return &DBWeekRepository{db: db}
}

// Get returns a week by id, or nil if not found.
func (r *DBWeekRepository) Get(ctx context.Context, id string) (*Week, error) {
	var week Week
	err := r.db.GetContext(ctx, &week, "SELECT * FROM weeks WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(week) > %w", err)
	}
	return &week, nil
}

// FindByStudent returns all weeks for a student, most recent first.
func (r *DBWeekRepository) FindByStudent(ctx context.Context, studentID string) ([]Week, error) {
	var weeks []Week
	if err := r.db.SelectContext(ctx, &weeks,
		"SELECT * FROM weeks WHERE student_id = ? ORDER BY week_of DESC", studentID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(weeks by student) > %w", err)
	}
	return weeks, nil
}

// Create inserts a new week.
func (r *DBWeekRepository) Create(ctx context.Context, week *Week) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO weeks (id, teacher_uid, student_id, week_of, subject_focus, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		week.ID, week.TeacherUID, week.StudentID, week.WeekOf, week.SubjectFocus,
		week.CreatedAt, week.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert week) > %w", err)
	}
	return nil
}
