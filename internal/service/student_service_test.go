package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexio-app/lexio/internal/content"
)

func newStudentServiceFixture() (*StudentService, *fakeStudentRepo) {
	repo := &fakeStudentRepo{students: map[string]*content.Student{}}
	service := NewStudentService(repo)
	service.now = func() time.Time { return testNow }
	return service, repo
}

func TestStudentService_CreateStudent(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		service, repo := newStudentServiceFixture()

		_, err := service.CreateStudent(context.Background(), CreateStudentRequest{TeacherUID: "t-1"})
		require.Error(t, err)
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
		assert.Empty(t, repo.students)
	})

	t.Run("duplicate email under same teacher", func(t *testing.T) {
		service, repo := newStudentServiceFixture()
		repo.students["s-1"] = &content.Student{
			ID:         "s-1",
			TeacherUID: "t-1",
			Email:      "maria@school.example",
		}

		_, err := service.CreateStudent(context.Background(), CreateStudentRequest{
			TeacherUID:  "t-1",
			Email:       "maria@school.example",
			DisplayName: "Maria",
		})
		require.Error(t, err)
		assert.Equal(t, connect.CodeAlreadyExists, connect.CodeOf(err))
	})

	t.Run("same email under another teacher is fine", func(t *testing.T) {
		service, repo := newStudentServiceFixture()
		repo.students["s-1"] = &content.Student{
			ID:         "s-1",
			TeacherUID: "t-other",
			Email:      "maria@school.example",
		}

		student, err := service.CreateStudent(context.Background(), CreateStudentRequest{
			TeacherUID:  "t-1",
			Email:       "maria@school.example",
			DisplayName: "Maria",
		})
		require.NoError(t, err)
		assert.Equal(t, "t-1", student.TeacherUID)
	})

	t.Run("creates an unclaimed entry", func(t *testing.T) {
		service, repo := newStudentServiceFixture()

		student, err := service.CreateStudent(context.Background(), CreateStudentRequest{
			TeacherUID:  "t-1",
			Email:       "maria@school.example",
			DisplayName: "Maria",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, student.ID)
		assert.Equal(t, "Maria", student.DisplayName)
		assert.True(t, student.Active)
		assert.False(t, student.StudentUID.Valid, "a fresh roster entry is unclaimed")
		assert.Equal(t, testNow, student.CreatedAt)
		assert.Same(t, student, repo.students[student.ID])
	})
}

func TestStudentService_ClaimStudentAccount(t *testing.T) {
	t.Run("empty email", func(t *testing.T) {
		service, _ := newStudentServiceFixture()

		_, err := service.ClaimStudentAccount(context.Background(), "uid-1", "")
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})

	t.Run("no unclaimed entry", func(t *testing.T) {
		service, repo := newStudentServiceFixture()
		repo.students["s-1"] = &content.Student{
			ID:         "s-1",
			Email:      "maria@school.example",
			StudentUID: sql.NullString{String: "uid-other", Valid: true},
		}

		_, err := service.ClaimStudentAccount(context.Background(), "uid-1", "maria@school.example")
		assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	})

	t.Run("claims the matching entry", func(t *testing.T) {
		service, repo := newStudentServiceFixture()
		repo.students["s-1"] = &content.Student{
			ID:    "s-1",
			Email: "maria@school.example",
		}

		student, err := service.ClaimStudentAccount(context.Background(), "uid-1", "maria@school.example")
		require.NoError(t, err)

		assert.Equal(t, "s-1", student.ID)
		assert.True(t, student.StudentUID.Valid)
		assert.Equal(t, "uid-1", student.StudentUID.String)
		assert.Equal(t, testNow, student.UpdatedAt)
		assert.True(t, repo.students["s-1"].StudentUID.Valid, "claim is persisted")
	})
}
