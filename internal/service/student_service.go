package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/lexio-app/lexio/internal/content"
)

// Caller is the resolved identity of a request, produced by the
// authentication collaborator. Exactly one of the fields is set.
type Caller struct {
	TeacherUID string
	StudentUID string
}

// StudentService implements roster operations.
type StudentService struct {
	students content.StudentRepository

	now func() time.Time
}

// NewStudentService creates a StudentService.
func NewStudentService(students content.StudentRepository) *StudentService {
	return &StudentService{
		students: students,
		now:      time.Now,
	}
}

// CreateStudentRequest creates one roster entry for a teacher.
type CreateStudentRequest struct {
	TeacherUID  string
	Email       string
	DisplayName string
}

// CreateStudent adds an unclaimed roster entry. A second entry with the
// same email under the same teacher is rejected with AlreadyExists.
func (s *StudentService) CreateStudent(ctx context.Context, req CreateStudentRequest) (*content.Student, error) {
	var violations []*errdetails.BadRequest_FieldViolation
	if req.Email == "" {
		violations = append(violations, fieldViolation("email", "email is required"))
	}
	if req.DisplayName == "" {
		violations = append(violations, fieldViolation("display_name", "display_name is required"))
	}
	if len(violations) > 0 {
		return nil, invalidRequest(violations)
	}

	existing, err := s.students.GetByTeacherAndEmail(ctx, req.TeacherUID, req.Email)
	if err != nil {
		return nil, internalf("look up student: %w", err)
	}
	if existing != nil {
		return nil, alreadyExistsf("student with email %q already exists", req.Email)
	}

	now := s.now()
	student := &content.Student{
		ID:          uuid.NewString(),
		TeacherUID:  req.TeacherUID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, internalf("create student: %w", err)
	}
	return student, nil
}

// ClaimStudentAccount links the caller's identity to the unclaimed roster
// entry matching their email.
func (s *StudentService) ClaimStudentAccount(ctx context.Context, studentUID, email string) (*content.Student, error) {
	if email == "" {
		return nil, invalidArgumentf("email is required")
	}

	student, err := s.students.ClaimByEmail(ctx, email, studentUID, s.now())
	if err != nil {
		return nil, internalf("claim student: %w", err)
	}
	if student == nil {
		return nil, notFoundf("no unclaimed student account found for this email")
	}
	return student, nil
}
