package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// VocabWord is one vocabulary word assigned to a week.
type VocabWord struct {
	ID              string         `db:"id"`
	WeekID          string         `db:"week_id"`
	Word            string         `db:"word"`
	Definition      string         `db:"definition"`
	ExampleSentence string         `db:"example_sentence"`
	PartOfSpeech    string         `db:"part_of_speech"`
	WhatItIs        sql.NullString `db:"what_it_is"`
	WhatItIsNot     sql.NullString `db:"what_it_is_not"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// VocabRepository defines operations for managing vocabulary words.
type VocabRepository interface {
	Get(ctx context.Context, id string) (*VocabWord, error)
	FindByWeek(ctx context.Context, weekID string) ([]VocabWord, error)
	FindByIDs(ctx context.Context, ids []string) ([]VocabWord, error)
	Create(ctx context.Context, word *VocabWord) error
	UpdateClarification(ctx context.Context, id, partOfSpeech, whatItIs, whatItIsNot string, now time.Time) error
}

// DBVocabRepository implements VocabRepository using MySQL.
type DBVocabRepository struct {
	db *sqlx.DB
}

// NewDBVocabRepository creates a new DBVocabRepository.
func NewDBVocabRepository(db *sqlx.DB) *DBVocabRepository {
	return &DBVocabRepository{db: db}
}

// Get returns a vocabulary word by id, or nil if not found.
func (r *DBVocabRepository) Get(ctx context.Context, id string) (*VocabWord, error) {
	var word VocabWord
	err := r.db.GetContext(ctx, &word, "SELECT * FROM vocab_words WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(vocab_word) > %w", err)
	}
	return &word, nil
}

// FindByWeek returns all vocabulary words for a week.
func (r *DBVocabRepository) FindByWeek(ctx context.Context, weekID string) ([]VocabWord, error) {
	var words []VocabWord
	if err := r.db.SelectContext(ctx, &words,
		"SELECT * FROM vocab_words WHERE week_id = ? ORDER BY word", weekID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(vocab_words by week) > %w", err)
	}
	return words, nil
}

// FindByIDs returns the words with the given ids, in no particular order.
func (r *DBVocabRepository) FindByIDs(ctx context.Context, ids []string) ([]VocabWord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In("SELECT * FROM vocab_words WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In(vocab_words) > %w", err)
	}

	var words []VocabWord
	if err := r.db.SelectContext(ctx, &words, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(vocab_words by ids) > %w", err)
	}
	return words, nil
}

// Create inserts a new vocabulary word.
func (r *DBVocabRepository) Create(ctx context.Context, word *VocabWord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vocab_words
		(id, week_id, word, definition, example_sentence, part_of_speech, what_it_is, what_it_is_not, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		word.ID, word.WeekID, word.Word, word.Definition, word.ExampleSentence,
		word.PartOfSpeech, word.WhatItIs, word.WhatItIsNot, word.CreatedAt, word.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert vocab_word) > %w", err)
	}
	return nil
}

// UpdateClarification stores AI-generated clarification fields for a word.
func (r *DBVocabRepository) UpdateClarification(ctx context.Context, id, partOfSpeech, whatItIs, whatItIsNot string, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE vocab_words SET part_of_speech = ?, what_it_is = ?, what_it_is_not = ?, updated_at = ? WHERE id = ?`,
		partOfSpeech, whatItIs, whatItIsNot, now, id)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update vocab clarification) > %w", err)
	}
	return nil
}
