package content

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// AffixKind classifies an affix.
type AffixKind string

const (
	AffixPrefix AffixKind = "prefix"
	AffixSuffix AffixKind = "suffix"
	AffixRoot   AffixKind = "root"
)

// Affix is one affix assigned to a week.
type Affix struct {
	ID        string     `db:"id"`
	WeekID    string     `db:"week_id"`
	Affix     string     `db:"affix"`
	Kind      AffixKind  `db:"kind"`
	Meaning   string     `db:"meaning"`
	Examples  StringList `db:"examples"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// AffixRepository defines operations for managing affixes.
type AffixRepository interface {
	FindByWeek(ctx context.Context, weekID string) ([]Affix, error)
	Create(ctx context.Context, affix *Affix) error
}

// DBAffixRepository implements AffixRepository using MySQL.
type DBAffixRepository struct {
	db *sqlx.DB
}

// NewDBAffixRepository creates a new DBAffixRepository.
func NewDBAffixRepository(db *sqlx.DB) *DBAffixRepository {
	return &DBAffixRepository{db: db}
}

// FindByWeek returns all affixes for a week.
func (r *DBAffixRepository) FindByWeek(ctx context.Context, weekID string) ([]Affix, error) {
	var affixes []Affix
	if err := r.db.SelectContext(ctx, &affixes,
		"SELECT * FROM affixes WHERE week_id = ? ORDER BY affix", weekID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(affixes by week) > %w", err)
	}
	return affixes, nil
}

// Create inserts a new affix.
func (r *DBAffixRepository) Create(ctx context.Context, affix *Affix) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO affixes (id, week_id, affix, kind, meaning, examples, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		affix.ID, affix.WeekID, affix.Affix, affix.Kind, affix.Meaning,
		affix.Examples, affix.CreatedAt, affix.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert affix) > %w", err)
	}
	return nil
}
