package mastery

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var masteryColumns = []string{
	"student_id", "word_id", "status", "correct_streak", "total_attempts",
	"correct_attempts", "last_seen_at", "next_due_at", "created_at", "updated_at",
}

func TestDBRepository_Get(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantNil   bool
		wantErr   bool
	}{
		{
			name: "returns record",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(masteryColumns).
					AddRow("student-1", "word-1", "learning", 1, 3, 2, now, now.Add(3*24*time.Hour), now, now)
				mock.ExpectQuery("SELECT \\* FROM word_mastery WHERE student_id = \\? AND word_id = \\?").
					WithArgs("student-1", "word-1").
					WillReturnRows(rows)
			},
		},
		{
			name: "not found returns nil",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM word_mastery WHERE student_id = \\? AND word_id = \\?").
					WithArgs("student-1", "word-1").
					WillReturnRows(sqlmock.NewRows(masteryColumns))
			},
			wantNil: true,
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM word_mastery WHERE student_id = \\? AND word_id = \\?").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			got, err := repo.Get(context.Background(), "student-1", "word-1")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, "word-1", got.WordID)
				assert.Equal(t, StatusLearning, got.Status)
				assert.Equal(t, 1, got.CorrectStreak)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_Upsert(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	record := Record{
		StudentID:       "student-1",
		WordID:          "word-1",
		Status:          StatusPracticed,
		CorrectStreak:   2,
		TotalAttempts:   5,
		CorrectAttempts: 4,
		LastSeenAt:      now,
		NextDueAt:       now.Add(7 * 24 * time.Hour),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "mysql")
	repo := NewDBRepository(sqlxDB)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO word_mastery").
		WithArgs("student-1", "word-1", "practiced", 2, 5, 4, now, now.Add(7*24*time.Hour), now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := sqlxDB.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(context.Background(), tx, &record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBRepository_FindDueByStudent(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDBRepository(sqlx.NewDb(db, "mysql"))

	rows := sqlmock.NewRows(masteryColumns).
		AddRow("student-1", "word-oldest", "learning", 0, 2, 1, now, now.Add(-3*24*time.Hour), now, now).
		AddRow("student-1", "word-newer", "practiced", 2, 4, 3, now, now.Add(-24*time.Hour), now, now)
	mock.ExpectQuery("SELECT \\* FROM word_mastery\\s+WHERE student_id = \\? AND status != \\? AND next_due_at <= \\?\\s+ORDER BY next_due_at ASC LIMIT \\?").
		WithArgs("student-1", "mastered", now, 10).
		WillReturnRows(rows)

	got, err := repo.FindDueByStudent(context.Background(), "student-1", now, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "word-oldest", got[0].WordID, "oldest due first")
	assert.Equal(t, "word-newer", got[1].WordID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBRepository_GetForUpdate(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "mysql")
	repo := NewDBRepository(sqlxDB)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM word_mastery WHERE student_id = \\? AND word_id = \\? FOR UPDATE").
		WithArgs("student-1", "word-1").
		WillReturnRows(sqlmock.NewRows(masteryColumns).
			AddRow("student-1", "word-1", "new", 0, 1, 0, now, now.Add(24*time.Hour), now, now))

	tx, err := sqlxDB.Beginx()
	require.NoError(t, err)

	got, err := repo.GetForUpdate(context.Background(), tx, "student-1", "word-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StatusNew, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
