package server

import (
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/lexio-app/lexio/internal/content"
	"github.com/lexio-app/lexio/internal/service"
)

type createStudentRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type claimStudentRequest struct {
	Email string `json:"email"`
}

type studentView struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	Claimed     bool      `json:"claimed"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toStudentView(student *content.Student) studentView {
	return studentView{
		ID:          student.ID,
		DisplayName: student.DisplayName,
		Email:       student.Email,
		Claimed:     student.StudentUID.Valid,
		Active:      student.Active,
		CreatedAt:   student.CreatedAt,
	}
}

// POST /api/students
func (h *Handler) createStudent(w http.ResponseWriter, r *http.Request) {
	teacherUID := r.Header.Get(headerTeacherUID)
	if teacherUID == "" {
		writeError(w, connect.NewError(connect.CodeUnauthenticated, errUnauthenticated))
		return
	}

	var req createStudentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	student, err := h.students.CreateStudent(r.Context(), service.CreateStudentRequest{
		TeacherUID:  teacherUID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toStudentView(student))
}

// POST /api/students/claim
func (h *Handler) claimStudentAccount(w http.ResponseWriter, r *http.Request) {
	studentUID := r.Header.Get(headerStudentUID)
	if studentUID == "" {
		writeError(w, connect.NewError(connect.CodeUnauthenticated, errUnauthenticated))
		return
	}

	var req claimStudentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	student, err := h.students.ClaimStudentAccount(r.Context(), studentUID, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStudentView(student))
}
