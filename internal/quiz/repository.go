package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository defines persistence for quizzes, answer keys and attempts.
// The public question list and the answer key live in separate tables so
// student-facing reads can never touch answers.
type Repository interface {
	CreateWithKey(ctx context.Context, q *Quiz, questions []Question, key AnswerKey) error
	Get(ctx context.Context, id string) (*Quiz, error)
	GetQuestions(ctx context.Context, quizID string) ([]Question, error)
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*Quiz, error)
	GetAnswerKey(ctx context.Context, tx *sqlx.Tx, quizID string) (AnswerKey, error)
	MarkCompleted(ctx context.Context, tx *sqlx.Tx, quizID string, now time.Time) error
	CreateAttempt(ctx context.Context, tx *sqlx.Tx, attempt *Attempt) error
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

type questionRow struct {
	ID       string         `db:"id"`
	QuizID   string         `db:"quiz_id"`
	Position int            `db:"position"`
	Type     Type           `db:"type"`
	Prompt   string         `db:"prompt"`
	Choices  string         `db:"choices"`
	WordID   sql.NullString `db:"word_id"`
	AffixID  sql.NullString `db:"affix_id"`
}

func toQuestionRow(quizID string, position int, q Question) (questionRow, error) {
	choices, err := json.Marshal(q.Choices)
	if err != nil {
		return questionRow{}, fmt.Errorf("json.Marshal(choices) > %w", err)
	}

	row := questionRow{
		ID:       q.ID,
		QuizID:   quizID,
		Position: position,
		Type:     q.Type,
		Prompt:   q.Prompt,
		Choices:  string(choices),
	}
	switch source := q.Source.(type) {
	case WordSource:
		row.WordID = sql.NullString{String: source.WordID, Valid: true}
	case AffixSource:
		row.AffixID = sql.NullString{String: source.AffixID, Valid: true}
	}
	return row, nil
}

func (row questionRow) toQuestion() (Question, error) {
	var choices []string
	if err := json.Unmarshal([]byte(row.Choices), &choices); err != nil {
		return Question{}, fmt.Errorf("json.Unmarshal(choices) > %w", err)
	}

	question := Question{
		ID:      row.ID,
		Type:    row.Type,
		Prompt:  row.Prompt,
		Choices: choices,
	}
	switch {
	case row.WordID.Valid:
		question.Source = WordSource{WordID: row.WordID.String}
	case row.AffixID.Valid:
		question.Source = AffixSource{AffixID: row.AffixID.String}
	}
	return question, nil
}

// CreateWithKey atomically persists the quiz, its public question list and
// its private answer key. Either all three land or none do.
func (r *DBRepository) CreateWithKey(ctx context.Context, q *Quiz, questions []Question, key AnswerKey) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx() > %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO quizzes
		(id, student_id, teacher_uid, week_id, mode, assigned_at, due_at, completed_at, question_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.StudentID, q.TeacherUID, q.WeekID, q.Mode, q.AssignedAt, q.DueAt,
		q.CompletedAt, q.QuestionCount, q.CreatedAt, q.UpdatedAt); err != nil {
		return fmt.Errorf("tx.ExecContext(insert quiz) > %w", err)
	}

	for i, question := range questions {
		row, err := toQuestionRow(q.ID, i, question)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO quiz_questions (id, quiz_id, position, type, prompt, choices, word_id, affix_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			row.ID, row.QuizID, row.Position, row.Type, row.Prompt, row.Choices,
			row.WordID, row.AffixID); err != nil {
			return fmt.Errorf("tx.ExecContext(insert quiz_question) > %w", err)
		}

		correctIndex, ok := key.CorrectIndex[question.ID]
		if !ok {
			return fmt.Errorf("question %q missing from answer key", question.ID)
		}
		var wordID sql.NullString
		if id, ok := key.WordID[question.ID]; ok {
			wordID = sql.NullString{String: id, Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO quiz_answer_keys (question_id, quiz_id, correct_index, word_id)
			VALUES (?, ?, ?, ?)`,
			question.ID, q.ID, correctIndex, wordID); err != nil {
			return fmt.Errorf("tx.ExecContext(insert quiz_answer_key) > %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit() > %w", err)
	}
	return nil
}

// Get returns a quiz by id, or nil if not found.
func (r *DBRepository) Get(ctx context.Context, id string) (*Quiz, error) {
	var q Quiz
	err := r.db.GetContext(ctx, &q, "SELECT * FROM quizzes WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(quiz) > %w", err)
	}
	return &q, nil
}

// GetQuestions returns the public question list in assigned order.
func (r *DBRepository) GetQuestions(ctx context.Context, quizID string) ([]Question, error) {
	var rows []questionRow
	if err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM quiz_questions WHERE quiz_id = ? ORDER BY position", quizID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(quiz_questions) > %w", err)
	}

	questions := make([]Question, 0, len(rows))
	for _, row := range rows {
		question, err := row.toQuestion()
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, nil
}

// GetForUpdate locks and returns a quiz row inside tx, or nil if not
// found. The lock makes the completed-at precondition authoritative
// against a concurrent second submission.
func (r *DBRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*Quiz, error) {
	var q Quiz
	err := tx.GetContext(ctx, &q, "SELECT * FROM quizzes WHERE id = ? FOR UPDATE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tx.GetContext(quiz for update) > %w", err)
	}
	return &q, nil
}

type answerKeyRow struct {
	QuestionID   string         `db:"question_id"`
	QuizID       string         `db:"quiz_id"`
	CorrectIndex int            `db:"correct_index"`
	WordID       sql.NullString `db:"word_id"`
}

// GetAnswerKey loads the private answer key for a quiz inside tx.
func (r *DBRepository) GetAnswerKey(ctx context.Context, tx *sqlx.Tx, quizID string) (AnswerKey, error) {
	var rows []answerKeyRow
	if err := tx.SelectContext(ctx, &rows,
		"SELECT * FROM quiz_answer_keys WHERE quiz_id = ?", quizID); err != nil {
		return AnswerKey{}, fmt.Errorf("tx.SelectContext(quiz_answer_keys) > %w", err)
	}

	key := NewAnswerKey()
	for _, row := range rows {
		key.CorrectIndex[row.QuestionID] = row.CorrectIndex
		if row.WordID.Valid {
			key.WordID[row.QuestionID] = row.WordID.String
		}
	}
	return key, nil
}

// MarkCompleted sets the quiz's completion timestamp inside tx.
func (r *DBRepository) MarkCompleted(ctx context.Context, tx *sqlx.Tx, quizID string, now time.Time) error {
	if _, err := tx.ExecContext(ctx,
		"UPDATE quizzes SET completed_at = ?, updated_at = ? WHERE id = ?",
		now, now, quizID); err != nil {
		return fmt.Errorf("tx.ExecContext(mark quiz completed) > %w", err)
	}
	return nil
}

// CreateAttempt inserts the immutable attempt record inside tx.
func (r *DBRepository) CreateAttempt(ctx context.Context, tx *sqlx.Tx, attempt *Attempt) error {
	responses, err := json.Marshal(attempt.Responses)
	if err != nil {
		return fmt.Errorf("json.Marshal(responses) > %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO quiz_attempts (id, quiz_id, student_id, submitted_at, score_percent, responses, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		attempt.ID, attempt.QuizID, attempt.StudentID, attempt.SubmittedAt,
		attempt.ScorePercent, string(responses), attempt.SubmittedAt); err != nil {
		return fmt.Errorf("tx.ExecContext(insert quiz_attempt) > %w", err)
	}
	return nil
}
