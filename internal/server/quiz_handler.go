package server

import (
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/lexio-app/lexio/internal/quiz"
	"github.com/lexio-app/lexio/internal/service"
)

type generateQuizRequest struct {
	StudentID    string `json:"studentId"`
	WeekID       string `json:"weekId"`
	Mode         string `json:"mode"`
	NumQuestions int    `json:"numQuestions"`
}

type generateQuizResponse struct {
	QuizID        string `json:"quizId"`
	QuestionCount int    `json:"questionCount"`
}

// POST /api/quizzes
func (h *Handler) generateQuiz(w http.ResponseWriter, r *http.Request) {
	teacherUID := r.Header.Get(headerTeacherUID)
	if teacherUID == "" {
		writeError(w, connect.NewError(connect.CodeUnauthenticated, errUnauthenticated))
		return
	}

	var req generateQuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.quizzes.GenerateQuiz(r.Context(), service.GenerateQuizRequest{
		TeacherUID:   teacherUID,
		StudentID:    req.StudentID,
		WeekID:       req.WeekID,
		Mode:         quiz.Mode(req.Mode),
		NumQuestions: req.NumQuestions,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, generateQuizResponse{
		QuizID:        resp.QuizID,
		QuestionCount: resp.QuestionCount,
	})
}

type questionMeta struct {
	WordID  string `json:"wordId,omitempty"`
	AffixID string `json:"affixId,omitempty"`
}

type questionView struct {
	ID      string       `json:"id"`
	Type    string       `json:"type"`
	Prompt  string       `json:"prompt"`
	Choices []string     `json:"choices"`
	Meta    questionMeta `json:"meta"`
}

type quizView struct {
	ID            string         `json:"id"`
	StudentID     string         `json:"studentId"`
	WeekID        string         `json:"weekId"`
	Mode          string         `json:"mode"`
	AssignedAt    time.Time      `json:"assignedAt"`
	DueAt         time.Time      `json:"dueAt"`
	CompletedAt   *time.Time     `json:"completedAt"`
	QuestionCount int            `json:"questionCount"`
	Questions     []questionView `json:"questions"`
}

// GET /api/quizzes/{id}
func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	q, questions, err := h.quizzes.GetQuiz(r.Context(), caller(r), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	view := quizView{
		ID:            q.ID,
		StudentID:     q.StudentID,
		WeekID:        q.WeekID,
		Mode:          string(q.Mode),
		AssignedAt:    q.AssignedAt,
		DueAt:         q.DueAt,
		QuestionCount: q.QuestionCount,
		Questions:     make([]questionView, 0, len(questions)),
	}
	if q.CompletedAt.Valid {
		view.CompletedAt = &q.CompletedAt.Time
	}
	for _, question := range questions {
		qv := questionView{
			ID:      question.ID,
			Type:    string(question.Type),
			Prompt:  question.Prompt,
			Choices: question.Choices,
		}
		if wordID, ok := question.SourceWordID(); ok {
			qv.Meta.WordID = wordID
		}
		if affixID, ok := question.SourceAffixID(); ok {
			qv.Meta.AffixID = affixID
		}
		view.Questions = append(view.Questions, qv)
	}

	writeJSON(w, http.StatusOK, view)
}

type submitAttemptRequest struct {
	Responses []quiz.Response `json:"responses"`
}

type submitAttemptResponse struct {
	AttemptID      string `json:"attemptId"`
	ScorePercent   int    `json:"scorePercent"`
	CorrectCount   int    `json:"correctCount"`
	TotalQuestions int    `json:"totalQuestions"`
}

// POST /api/quizzes/{id}/attempts
func (h *Handler) submitQuizAttempt(w http.ResponseWriter, r *http.Request) {
	studentUID := r.Header.Get(headerStudentUID)
	if studentUID == "" {
		writeError(w, connect.NewError(connect.CodeUnauthenticated, errUnauthenticated))
		return
	}

	var req submitAttemptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.quizzes.SubmitQuizAttempt(r.Context(), service.SubmitQuizAttemptRequest{
		StudentUID: studentUID,
		QuizID:     r.PathValue("id"),
		Responses:  req.Responses,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submitAttemptResponse{
		AttemptID:      resp.AttemptID,
		ScorePercent:   resp.ScorePercent,
		CorrectCount:   resp.CorrectCount,
		TotalQuestions: resp.TotalQuestions,
	})
}

type dueWordView struct {
	WordID        string    `json:"wordId"`
	Word          string    `json:"word"`
	Status        string    `json:"status"`
	CorrectStreak int       `json:"correctStreak"`
	NextDueAt     time.Time `json:"nextDueAt"`
}

// GET /api/students/{id}/due-words
func (h *Handler) listDueWords(w http.ResponseWriter, r *http.Request) {
	teacherUID := r.Header.Get(headerTeacherUID)
	if teacherUID == "" {
		writeError(w, connect.NewError(connect.CodeUnauthenticated, errUnauthenticated))
		return
	}

	due, err := h.quizzes.ListDueWords(r.Context(), teacherUID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]dueWordView, 0, len(due))
	for _, d := range due {
		views = append(views, dueWordView{
			WordID:        d.Record.WordID,
			Word:          d.Word,
			Status:        string(d.Record.Status),
			CorrectStreak: d.Record.CorrectStreak,
			NextDueAt:     d.Record.NextDueAt,
		})
	}
	writeJSON(w, http.StatusOK, views)
}
