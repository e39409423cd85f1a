// Package server exposes the platform core over HTTP JSON endpoints.
// Authentication is a collaborator's concern: requests arrive with a
// trusted identity header set by the auth proxy in front of this service.
package server

import (
	"net/http"

	"github.com/lexio-app/lexio/internal/service"
)

// Identity headers set by the authentication collaborator.
const (
	headerTeacherUID = "X-Teacher-Uid"
	headerStudentUID = "X-Student-Uid"
)

// Handler bundles the HTTP handlers for the quiz and roster services.
type Handler struct {
	quizzes  *service.QuizService
	students *service.StudentService
}

// NewHandler creates a Handler.
func NewHandler(quizzes *service.QuizService, students *service.StudentService) *Handler {
	return &Handler{quizzes: quizzes, students: students}
}

// Routes returns the configured request multiplexer.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/quizzes", h.generateQuiz)
	mux.HandleFunc("GET /api/quizzes/{id}", h.getQuiz)
	mux.HandleFunc("POST /api/quizzes/{id}/attempts", h.submitQuizAttempt)
	mux.HandleFunc("GET /api/students/{id}/due-words", h.listDueWords)
	mux.HandleFunc("POST /api/students", h.createStudent)
	mux.HandleFunc("POST /api/students/claim", h.claimStudentAccount)

	return mux
}

func caller(r *http.Request) service.Caller {
	return service.Caller{
		TeacherUID: r.Header.Get(headerTeacherUID),
		StudentUID: r.Header.Get(headerStudentUID),
	}
}

// CORSMiddleware allows the configured browser origin to call the API.
func CORSMiddleware(allowedOrigin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Teacher-Uid, X-Student-Uid")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
