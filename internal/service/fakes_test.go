package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lexio-app/lexio/internal/content"
	"github.com/lexio-app/lexio/internal/mastery"
	"github.com/lexio-app/lexio/internal/quiz"
)

type fakeStudentRepo struct {
	students map[string]*content.Student
}

func (f *fakeStudentRepo) Get(ctx context.Context, id string) (*content.Student, error) {
	return f.students[id], nil
}

func (f *fakeStudentRepo) GetByTeacherAndEmail(ctx context.Context, teacherUID, email string) (*content.Student, error) {
	for _, student := range f.students {
		if student.TeacherUID == teacherUID && student.Email == email {
			return student, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentRepo) FindByTeacher(ctx context.Context, teacherUID string) ([]content.Student, error) {
	var out []content.Student
	for _, student := range f.students {
		if student.TeacherUID == teacherUID {
			out = append(out, *student)
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *content.Student) error {
	if f.students == nil {
		f.students = map[string]*content.Student{}
	}
	f.students[student.ID] = student
	return nil
}

func (f *fakeStudentRepo) ClaimByEmail(ctx context.Context, email, studentUID string, now time.Time) (*content.Student, error) {
	for _, student := range f.students {
		if student.Email == email && !student.StudentUID.Valid {
			claimed := *student
			claimed.StudentUID.String = studentUID
			claimed.StudentUID.Valid = true
			claimed.UpdatedAt = now
			f.students[student.ID] = &claimed
			return &claimed, nil
		}
	}
	return nil, nil
}

type fakeWeekRepo struct {
	weeks map[string]*content.Week
}

func (f *fakeWeekRepo) Get(ctx context.Context, id string) (*content.Week, error) {
	return f.weeks[id], nil
}

func (f *fakeWeekRepo) FindByStudent(ctx context.Context, studentID string) ([]content.Week, error) {
	return nil, nil
}

func (f *fakeWeekRepo) Create(ctx context.Context, week *content.Week) error {
	return nil
}

type fakeVocabRepo struct {
	byWeek map[string][]content.VocabWord
}

func (f *fakeVocabRepo) Get(ctx context.Context, id string) (*content.VocabWord, error) {
	for _, words := range f.byWeek {
		for _, word := range words {
			if word.ID == id {
				return &word, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeVocabRepo) FindByWeek(ctx context.Context, weekID string) ([]content.VocabWord, error) {
	return f.byWeek[weekID], nil
}

func (f *fakeVocabRepo) FindByIDs(ctx context.Context, ids []string) ([]content.VocabWord, error) {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var out []content.VocabWord
	for _, words := range f.byWeek {
		for _, word := range words {
			if _, ok := wanted[word.ID]; ok {
				out = append(out, word)
			}
		}
	}
	return out, nil
}

func (f *fakeVocabRepo) Create(ctx context.Context, word *content.VocabWord) error {
	return nil
}

func (f *fakeVocabRepo) UpdateClarification(ctx context.Context, id, partOfSpeech, whatItIs, whatItIsNot string, now time.Time) error {
	return nil
}

type fakeAffixRepo struct {
	byWeek map[string][]content.Affix
}

func (f *fakeAffixRepo) FindByWeek(ctx context.Context, weekID string) ([]content.Affix, error) {
	return f.byWeek[weekID], nil
}

func (f *fakeAffixRepo) Create(ctx context.Context, affix *content.Affix) error {
	return nil
}

type masteryKey struct {
	studentID string
	wordID    string
}

type fakeMasteryRepo struct {
	records  map[masteryKey]*mastery.Record
	due      []mastery.Record
	upserted []mastery.Record
}

func (f *fakeMasteryRepo) Get(ctx context.Context, studentID, wordID string) (*mastery.Record, error) {
	return f.records[masteryKey{studentID, wordID}], nil
}

func (f *fakeMasteryRepo) GetForUpdate(ctx context.Context, tx *sqlx.Tx, studentID, wordID string) (*mastery.Record, error) {
	return f.records[masteryKey{studentID, wordID}], nil
}

func (f *fakeMasteryRepo) Upsert(ctx context.Context, tx *sqlx.Tx, record *mastery.Record) error {
	if f.records == nil {
		f.records = map[masteryKey]*mastery.Record{}
	}
	stored := *record
	f.records[masteryKey{record.StudentID, record.WordID}] = &stored
	f.upserted = append(f.upserted, stored)
	return nil
}

func (f *fakeMasteryRepo) FindDueByStudent(ctx context.Context, studentID string, ref time.Time, limit int) ([]mastery.Record, error) {
	if len(f.due) > limit {
		return f.due[:limit], nil
	}
	return f.due, nil
}

func (f *fakeMasteryRepo) FindByStudent(ctx context.Context, studentID string) ([]mastery.Record, error) {
	var out []mastery.Record
	for key, record := range f.records {
		if key.studentID == studentID {
			out = append(out, *record)
		}
	}
	return out, nil
}

type fakeQuizRepo struct {
	quizzes   map[string]*quiz.Quiz
	questions map[string][]quiz.Question
	keys      map[string]quiz.AnswerKey

	created   []*quiz.Quiz
	attempts  []*quiz.Attempt
	completed []string
}

func (f *fakeQuizRepo) CreateWithKey(ctx context.Context, q *quiz.Quiz, questions []quiz.Question, key quiz.AnswerKey) error {
	if f.quizzes == nil {
		f.quizzes = map[string]*quiz.Quiz{}
		f.questions = map[string][]quiz.Question{}
		f.keys = map[string]quiz.AnswerKey{}
	}
	f.quizzes[q.ID] = q
	f.questions[q.ID] = questions
	f.keys[q.ID] = key
	f.created = append(f.created, q)
	return nil
}

func (f *fakeQuizRepo) Get(ctx context.Context, id string) (*quiz.Quiz, error) {
	return f.quizzes[id], nil
}

func (f *fakeQuizRepo) GetQuestions(ctx context.Context, quizID string) ([]quiz.Question, error) {
	return f.questions[quizID], nil
}

func (f *fakeQuizRepo) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*quiz.Quiz, error) {
	return f.quizzes[id], nil
}

func (f *fakeQuizRepo) GetAnswerKey(ctx context.Context, tx *sqlx.Tx, quizID string) (quiz.AnswerKey, error) {
	key, ok := f.keys[quizID]
	if !ok {
		return quiz.NewAnswerKey(), nil
	}
	return key, nil
}

func (f *fakeQuizRepo) MarkCompleted(ctx context.Context, tx *sqlx.Tx, quizID string, now time.Time) error {
	if q, ok := f.quizzes[quizID]; ok {
		q.CompletedAt.Time = now
		q.CompletedAt.Valid = true
	}
	f.completed = append(f.completed, quizID)
	return nil
}

func (f *fakeQuizRepo) CreateAttempt(ctx context.Context, tx *sqlx.Tx, attempt *quiz.Attempt) error {
	f.attempts = append(f.attempts, attempt)
	return nil
}
