package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/lexio-app/lexio/internal/content"
	"github.com/lexio-app/lexio/internal/mastery"
	"github.com/lexio-app/lexio/internal/quiz"
)

// QuizService implements quiz generation, retrieval and submission.
type QuizService struct {
	db         *sqlx.DB
	students   content.StudentRepository
	weeks      content.WeekRepository
	vocab      content.VocabRepository
	affixes    content.AffixRepository
	mastery    mastery.Repository
	quizzes    quiz.Repository
	dueWordCap int

	now     func() time.Time
	newRand func() *rand.Rand
}

// NewQuizService creates a QuizService. dueWordCap bounds how many due
// spiral words one generation call pulls in.
func NewQuizService(
	db *sqlx.DB,
	students content.StudentRepository,
	weeks content.WeekRepository,
	vocab content.VocabRepository,
	affixes content.AffixRepository,
	masteryRepo mastery.Repository,
	quizzes quiz.Repository,
	dueWordCap int,
) *QuizService {
	return &QuizService{
		db:         db,
		students:   students,
		weeks:      weeks,
		vocab:      vocab,
		affixes:    affixes,
		mastery:    masteryRepo,
		quizzes:    quizzes,
		dueWordCap: dueWordCap,
		now:        time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// GenerateQuizRequest identifies whose quiz to build and how.
type GenerateQuizRequest struct {
	TeacherUID   string
	StudentID    string
	WeekID       string
	Mode         quiz.Mode
	NumQuestions int
}

// GenerateQuizResponse reports the created quiz.
type GenerateQuizResponse struct {
	QuizID        string
	QuestionCount int
}

// GenerateQuiz composes and persists a quiz for a student. Validation and
// ownership checks fully precede any write; a failed call leaves no state
// behind, and a second successful call creates a second, independent quiz.
func (s *QuizService) GenerateQuiz(ctx context.Context, req GenerateQuizRequest) (*GenerateQuizResponse, error) {
	var violations []*errdetails.BadRequest_FieldViolation
	if req.StudentID == "" {
		violations = append(violations, fieldViolation("student_id", "student_id is required"))
	}
	if req.WeekID == "" {
		violations = append(violations, fieldViolation("week_id", "week_id is required"))
	}
	if !req.Mode.Valid() {
		violations = append(violations, fieldViolation("mode", `mode must be "daily" or "friday"`))
	}
	if req.NumQuestions <= 0 {
		violations = append(violations, fieldViolation("num_questions", "num_questions must be positive"))
	}
	if len(violations) > 0 {
		return nil, invalidRequest(violations)
	}

	student, err := s.students.Get(ctx, req.StudentID)
	if err != nil {
		return nil, internalf("load student: %w", err)
	}
	if student == nil {
		return nil, notFoundf("student %q not found", req.StudentID)
	}
	if student.TeacherUID != req.TeacherUID {
		return nil, permissionDeniedf("student not managed by this teacher")
	}

	week, err := s.weeks.Get(ctx, req.WeekID)
	if err != nil {
		return nil, internalf("load week: %w", err)
	}
	if week == nil {
		return nil, notFoundf("week %q not found", req.WeekID)
	}
	if week.TeacherUID != req.TeacherUID {
		return nil, permissionDeniedf("week not owned by this teacher")
	}

	now := s.now()

	currentWords, err := s.vocab.FindByWeek(ctx, req.WeekID)
	if err != nil {
		return nil, internalf("load vocab words: %w", err)
	}
	currentAffixes, err := s.affixes.FindByWeek(ctx, req.WeekID)
	if err != nil {
		return nil, internalf("load affixes: %w", err)
	}
	dueWords, err := s.loadDueWords(ctx, req.StudentID, now)
	if err != nil {
		return nil, err
	}

	composer := quiz.NewComposer(s.newRand())
	questions, key := composer.Compose(quiz.Params{
		Mode:           req.Mode,
		NumQuestions:   req.NumQuestions,
		CurrentWords:   toComposerWords(currentWords),
		CurrentAffixes: toComposerAffixes(currentAffixes),
		DueWords:       dueWords,
	})

	created := &quiz.Quiz{
		ID:            uuid.NewString(),
		StudentID:     req.StudentID,
		TeacherUID:    req.TeacherUID,
		WeekID:        req.WeekID,
		Mode:          req.Mode,
		AssignedAt:    now,
		DueAt:         quiz.DueDate(req.Mode, now),
		QuestionCount: len(questions),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.quizzes.CreateWithKey(ctx, created, questions, key); err != nil {
		return nil, internalf("create quiz: %w", err)
	}

	return &GenerateQuizResponse{
		QuizID:        created.ID,
		QuestionCount: len(questions),
	}, nil
}

// loadDueWords resolves the student's due mastery records to words,
// preserving oldest-due-first order. Records whose word has been deleted
// are dropped.
func (s *QuizService) loadDueWords(ctx context.Context, studentID string, ref time.Time) ([]quiz.Word, error) {
	records, err := s.mastery.FindDueByStudent(ctx, studentID, ref, s.dueWordCap)
	if err != nil {
		return nil, internalf("load due mastery records: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.WordID)
	}
	words, err := s.vocab.FindByIDs(ctx, ids)
	if err != nil {
		return nil, internalf("load due words: %w", err)
	}

	byID := make(map[string]content.VocabWord, len(words))
	for _, word := range words {
		byID[word.ID] = word
	}

	ordered := make([]quiz.Word, 0, len(records))
	for _, record := range records {
		word, ok := byID[record.WordID]
		if !ok {
			continue
		}
		ordered = append(ordered, quiz.Word{ID: word.ID, Word: word.Word, Definition: word.Definition})
	}
	return ordered, nil
}

// SubmitQuizAttemptRequest is one student submission.
type SubmitQuizAttemptRequest struct {
	StudentUID string
	QuizID     string
	Responses  []quiz.Response
}

// SubmitQuizAttemptResponse reports the scored attempt.
type SubmitQuizAttemptResponse struct {
	AttemptID      string
	ScorePercent   int
	CorrectCount   int
	TotalQuestions int
}

// SubmitQuizAttempt scores a submission and feeds every word-backed answer
// into the mastery tracker. The whole pipeline runs in one transaction:
// the locked completed-at check, the attempt insert, the per-word mastery
// upserts and the completion mark commit together or not at all.
func (s *QuizService) SubmitQuizAttempt(ctx context.Context, req SubmitQuizAttemptRequest) (*SubmitQuizAttemptResponse, error) {
	var violations []*errdetails.BadRequest_FieldViolation
	if req.QuizID == "" {
		violations = append(violations, fieldViolation("quiz_id", "quiz_id is required"))
	}
	if len(req.Responses) == 0 {
		violations = append(violations, fieldViolation("responses", "responses must not be empty"))
	}
	if len(violations) > 0 {
		return nil, invalidRequest(violations)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, internalf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	q, err := s.quizzes.GetForUpdate(ctx, tx, req.QuizID)
	if err != nil {
		return nil, internalf("load quiz: %w", err)
	}
	if q == nil {
		return nil, notFoundf("quiz %q not found", req.QuizID)
	}

	student, err := s.students.Get(ctx, q.StudentID)
	if err != nil {
		return nil, internalf("load student: %w", err)
	}
	if student == nil || !student.StudentUID.Valid || student.StudentUID.String != req.StudentUID {
		return nil, permissionDeniedf("quiz does not belong to this student")
	}

	if q.Completed() {
		return nil, failedPreconditionf("quiz already completed")
	}

	key, err := s.quizzes.GetAnswerKey(ctx, tx, req.QuizID)
	if err != nil {
		return nil, internalf("load answer key: %w", err)
	}
	if len(key.CorrectIndex) == 0 {
		return nil, notFoundf("quiz answers not found")
	}

	result, err := quiz.Score(key, req.Responses)
	if err != nil {
		return nil, invalidArgumentf("score responses: %w", err)
	}

	now := s.now()
	attempt := &quiz.Attempt{
		ID:           uuid.NewString(),
		QuizID:       req.QuizID,
		StudentID:    q.StudentID,
		SubmittedAt:  now,
		ScorePercent: result.ScorePercent,
		Responses:    result.Responses,
	}
	if err := s.quizzes.CreateAttempt(ctx, tx, attempt); err != nil {
		return nil, internalf("create attempt: %w", err)
	}

	for _, outcome := range result.WordOutcomes {
		record, err := s.mastery.GetForUpdate(ctx, tx, q.StudentID, outcome.WordID)
		if err != nil {
			return nil, internalf("load mastery record: %w", err)
		}
		updated := mastery.ApplyAttempt(record, q.StudentID, outcome.WordID, outcome.IsCorrect, now)
		if err := s.mastery.Upsert(ctx, tx, &updated); err != nil {
			return nil, internalf("upsert mastery record: %w", err)
		}
	}

	if err := s.quizzes.MarkCompleted(ctx, tx, req.QuizID, now); err != nil {
		return nil, internalf("mark quiz completed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, internalf("commit submission: %w", err)
	}

	return &SubmitQuizAttemptResponse{
		AttemptID:      attempt.ID,
		ScorePercent:   result.ScorePercent,
		CorrectCount:   result.CorrectCount,
		TotalQuestions: len(req.Responses),
	}, nil
}

// GetQuiz returns the public projection of a quiz for its student or its
// teacher. The answer key is never loaded here.
func (s *QuizService) GetQuiz(ctx context.Context, caller Caller, quizID string) (*quiz.Quiz, []quiz.Question, error) {
	if quizID == "" {
		return nil, nil, invalidArgumentf("quiz_id is required")
	}

	q, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return nil, nil, internalf("load quiz: %w", err)
	}
	if q == nil {
		return nil, nil, notFoundf("quiz %q not found", quizID)
	}

	if !s.callerOwnsQuiz(ctx, caller, q) {
		return nil, nil, permissionDeniedf("access denied")
	}

	questions, err := s.quizzes.GetQuestions(ctx, quizID)
	if err != nil {
		return nil, nil, internalf("load questions: %w", err)
	}
	return q, questions, nil
}

func (s *QuizService) callerOwnsQuiz(ctx context.Context, caller Caller, q *quiz.Quiz) bool {
	if caller.TeacherUID != "" {
		return caller.TeacherUID == q.TeacherUID
	}
	if caller.StudentUID == "" {
		return false
	}
	student, err := s.students.Get(ctx, q.StudentID)
	if err != nil || student == nil {
		return false
	}
	return student.StudentUID.Valid && student.StudentUID.String == caller.StudentUID
}

// DueWord pairs a due mastery record with its word for teacher review.
type DueWord struct {
	Record mastery.Record
	Word   string
}

// ListDueWords returns a student's due spiral words, oldest due first.
func (s *QuizService) ListDueWords(ctx context.Context, teacherUID, studentID string) ([]DueWord, error) {
	student, err := s.students.Get(ctx, studentID)
	if err != nil {
		return nil, internalf("load student: %w", err)
	}
	if student == nil {
		return nil, notFoundf("student %q not found", studentID)
	}
	if student.TeacherUID != teacherUID {
		return nil, permissionDeniedf("student not managed by this teacher")
	}

	now := s.now()
	records, err := s.mastery.FindDueByStudent(ctx, studentID, now, s.dueWordCap)
	if err != nil {
		return nil, internalf("load due mastery records: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.WordID)
	}
	words, err := s.vocab.FindByIDs(ctx, ids)
	if err != nil {
		return nil, internalf("load due words: %w", err)
	}
	byID := make(map[string]content.VocabWord, len(words))
	for _, word := range words {
		byID[word.ID] = word
	}

	due := make([]DueWord, 0, len(records))
	for _, record := range records {
		word, ok := byID[record.WordID]
		if !ok {
			continue
		}
		due = append(due, DueWord{Record: record, Word: word.Word})
	}
	return due, nil
}

func toComposerWords(words []content.VocabWord) []quiz.Word {
	out := make([]quiz.Word, 0, len(words))
	for _, word := range words {
		out = append(out, quiz.Word{ID: word.ID, Word: word.Word, Definition: word.Definition})
	}
	return out
}

func toComposerAffixes(affixes []content.Affix) []quiz.Affix {
	out := make([]quiz.Affix, 0, len(affixes))
	for _, affix := range affixes {
		out = append(out, quiz.Affix{ID: affix.ID, Affix: affix.Affix, Meaning: affix.Meaning})
	}
	return out
}
