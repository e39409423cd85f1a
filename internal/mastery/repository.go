package mastery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository defines operations for managing mastery records.
type Repository interface {
	Get(ctx context.Context, studentID, wordID string) (*Record, error)
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, studentID, wordID string) (*Record, error)
	Upsert(ctx context.Context, tx *sqlx.Tx, record *Record) error
	FindDueByStudent(ctx context.Context, studentID string, ref time.Time, limit int) ([]Record, error)
	FindByStudent(ctx context.Context, studentID string) ([]Record, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// Get returns the mastery record for a student/word pair, or nil if not found.
func (r *DBRepository) Get(ctx context.Context, studentID, wordID string) (*Record, error) {
	var record Record
	err := r.db.GetContext(ctx, &record,
		"SELECT * FROM word_mastery WHERE student_id = ? AND word_id = ?",
		studentID, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(word_mastery) > %w", err)
	}
	return &record, nil
}

// GetForUpdate locks and returns the record inside tx, or nil if not found.
// The row lock serializes concurrent read-modify-write cycles on one
// (student, word) key.
func (r *DBRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, studentID, wordID string) (*Record, error) {
	var record Record
	err := tx.GetContext(ctx, &record,
		"SELECT * FROM word_mastery WHERE student_id = ? AND word_id = ? FOR UPDATE",
		studentID, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tx.GetContext(word_mastery for update) > %w", err)
	}
	return &record, nil
}

// Upsert writes a record keyed by (student_id, word_id) inside tx.
func (r *DBRepository) Upsert(ctx context.Context, tx *sqlx.Tx, record *Record) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO word_mastery
		(student_id, word_id, status, correct_streak, total_attempts, correct_attempts, last_seen_at, next_due_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		status = VALUES(status), correct_streak = VALUES(correct_streak),
		total_attempts = VALUES(total_attempts), correct_attempts = VALUES(correct_attempts),
		last_seen_at = VALUES(last_seen_at), next_due_at = VALUES(next_due_at),
		updated_at = VALUES(updated_at)`,
		record.StudentID, record.WordID, record.Status, record.CorrectStreak,
		record.TotalAttempts, record.CorrectAttempts, record.LastSeenAt,
		record.NextDueAt, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("tx.ExecContext(upsert word_mastery) > %w", err)
	}
	return nil
}

// FindDueByStudent returns unmastered records due at ref, oldest due first,
// so the most overdue words win when the caller truncates to a budget.
func (r *DBRepository) FindDueByStudent(ctx context.Context, studentID string, ref time.Time, limit int) ([]Record, error) {
	var records []Record
	if err := r.db.SelectContext(ctx, &records,
		`SELECT * FROM word_mastery
		WHERE student_id = ? AND status != ? AND next_due_at <= ?
		ORDER BY next_due_at ASC LIMIT ?`,
		studentID, StatusMastered, ref, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(due word_mastery) > %w", err)
	}
	return records, nil
}

// FindByStudent returns all mastery records for a student.
func (r *DBRepository) FindByStudent(ctx context.Context, studentID string) ([]Record, error) {
	var records []Record
	if err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM word_mastery WHERE student_id = ? ORDER BY word_id",
		studentID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(word_mastery by student) > %w", err)
	}
	return records, nil
}
