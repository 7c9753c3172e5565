package courses

import (
	"context"
	"errors"

	"qrattend/internal/users"
)

var (
	ErrNotFound        = errors.New("course not found")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, c Course) (Course, error)
	Get(ctx context.Context, id int64) (Course, error)
	ListForLecturer(ctx context.Context, lecturerID int64) ([]Course, error)
	ListForStudent(ctx context.Context, studentID int64) ([]Course, error)
	ListAvailable(ctx context.Context, studentID int64, search string) ([]Course, error)
	ListAll(ctx context.Context) ([]Course, error)
	Enroll(ctx context.Context, courseID, studentID int64) error
	Students(ctx context.Context, courseID int64) ([]EnrolledStudent, error)
}

// Service implements the course and enrollment registry.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInput is the data required to create a course.
type CreateInput struct {
	CourseCode  string
	CourseTitle string
	Department  *string
	Faculty     *string
	Level       *string
	Semester    *string
}

// Create records a course owned by the requesting lecturer.
func (s *Service) Create(ctx context.Context, in CreateInput, lecturerID int64) (Course, error) {
	return s.store.Create(ctx, Course{
		CourseCode:  in.CourseCode,
		CourseTitle: in.CourseTitle,
		LecturerID:  lecturerID,
		Department:  in.Department,
		Faculty:     in.Faculty,
		Level:       in.Level,
		Semester:    in.Semester,
	})
}

// ListForUser returns the courses visible to the requester: enrolled courses
// for students, owned courses for everyone else.
func (s *Service) ListForUser(ctx context.Context, userID int64, role string) ([]Course, error) {
	if role == users.RoleStudent {
		return s.store.ListForStudent(ctx, userID)
	}
	return s.store.ListForLecturer(ctx, userID)
}

// Available returns courses the student can still enroll in.
func (s *Service) Available(ctx context.Context, studentID int64, search string) ([]Course, error) {
	return s.store.ListAvailable(ctx, studentID, search)
}

// Get returns one course.
func (s *Service) Get(ctx context.Context, id int64) (Course, error) {
	return s.store.Get(ctx, id)
}

// Enroll records the student into the course. At most one enrollment can
// exist per (student, course) pair.
func (s *Service) Enroll(ctx context.Context, courseID, studentID int64) error {
	if _, err := s.store.Get(ctx, courseID); err != nil {
		return err
	}
	return s.store.Enroll(ctx, courseID, studentID)
}

// Students returns the roster for a course.
func (s *Service) Students(ctx context.Context, courseID int64) ([]EnrolledStudent, error) {
	return s.store.Students(ctx, courseID)
}

// ListAll returns every course with enrollment counts.
func (s *Service) ListAll(ctx context.Context) ([]Course, error) {
	return s.store.ListAll(ctx)
}
