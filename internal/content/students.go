package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Student is a roster entry owned by a teacher. StudentUID stays null
// until the student claims the entry with a matching login email.
type Student struct {
	ID          string         `db:"id"`
	TeacherUID  string         `db:"teacher_uid"`
	StudentUID  sql.NullString `db:"student_uid"`
	DisplayName string         `db:"display_name"`
	Email       string         `db:"email"`
	Active      bool           `db:"active"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// StudentRepository defines operations for managing roster entries.
type StudentRepository interface {
	Get(ctx context.Context, id string) (*Student, error)
	GetByTeacherAndEmail(ctx context.Context, teacherUID, email string) (*Student, error)
	FindByTeacher(ctx context.Context, teacherUID string) ([]Student, error)
	Create(ctx context.Context, student *Student) error
	ClaimByEmail(ctx context.Context, email, studentUID string, now time.Time) (*Student, error)
}

// DBStudentRepository implements StudentRepository using MySQL.
type DBStudentRepository struct {
	db *sqlx.DB
}

// NewDBStudentRepository creates a new DBStudentRepository.
func NewDBStudentRepository(db *sqlx.DB) *DBStudentRepository {
	return &DBStudentRepository{db: db}
}

// Get returns a student by id, or nil if not found.
func (r *DBStudentRepository) Get(ctx context.Context, id string) (*Student, error) {
	var student Student
	err := r.db.GetContext(ctx, &student, "SELECT * FROM students WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(student) > %w", err)
	}
	return &student, nil
}

// GetByTeacherAndEmail returns the teacher's student with the given email,
// or nil if not found.
func (r *DBStudentRepository) GetByTeacherAndEmail(ctx context.Context, teacherUID, email string) (*Student, error) {
	var student Student
	err := r.db.GetContext(ctx, &student,
		"SELECT * FROM students WHERE teacher_uid = ? AND email = ?", teacherUID, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(student by email) > %w", err)
	}
	return &student, nil
}

// FindByTeacher returns all roster entries owned by a teacher.
func (r *DBStudentRepository) FindByTeacher(ctx context.Context, teacherUID string) ([]Student, error) {
	var students []Student
	if err := r.db.SelectContext(ctx, &students,
		"SELECT * FROM students WHERE teacher_uid = ? ORDER BY display_name", teacherUID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(students by teacher) > %w", err)
	}
	return students, nil
}

// Create inserts a new roster entry.
func (r *DBStudentRepository) Create(ctx context.Context, student *Student) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO students (id, teacher_uid, student_uid, display_name, email, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		student.ID, student.TeacherUID, student.StudentUID, student.DisplayName,
		student.Email, student.Active, student.CreatedAt, student.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert student) > %w", err)
	}
	return nil
}

// ClaimByEmail links an unclaimed roster entry with a matching email to the
// given student identity. Returns nil if no unclaimed entry exists.
func (r *DBStudentRepository) ClaimByEmail(ctx context.Context, email, studentUID string, now time.Time) (*Student, error) {
	var student Student
	err := r.db.GetContext(ctx, &student,
		"SELECT * FROM students WHERE email = ? AND student_uid IS NULL LIMIT 1", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(unclaimed student) > %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		"UPDATE students SET student_uid = ?, updated_at = ? WHERE id = ? AND student_uid IS NULL",
		studentUID, now, student.ID); err != nil {
		return nil, fmt.Errorf("db.ExecContext(claim student) > %w", err)
	}

	student.StudentUID = sql.NullString{String: studentUID, Valid: true}
	student.UpdatedAt = now
	return &student, nil
}
