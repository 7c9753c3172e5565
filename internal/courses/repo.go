package courses

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Repository persists courses and enrollments in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a course and returns it with id and created_at filled in.
func (r *Repository) Create(ctx context.Context, c Course) (Course, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO courses (course_code, course_title, lecturer_id, department, faculty, level, semester)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at
	`, c.CourseCode, c.CourseTitle, c.LecturerID, c.Department, c.Faculty, c.Level, c.Semester)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		return Course{}, err
	}
	return c, nil
}

// Get returns one course with the lecturer name joined in, or ErrNotFound.
func (r *Repository) Get(ctx context.Context, id int64) (Course, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT c.id, c.course_code, c.course_title, c.lecturer_id, u.full_name,
		       c.department, c.faculty, c.level, c.semester, c.created_at
		FROM courses c
		JOIN users u ON c.lecturer_id = u.id
		WHERE c.id = $1
	`, id)
	c, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Course{}, ErrNotFound
	}
	return c, err
}

// ListForLecturer returns courses owned by the lecturer, newest first.
func (r *Repository) ListForLecturer(ctx context.Context, lecturerID int64) ([]Course, error) {
	return r.queryCourses(ctx, `
		SELECT c.id, c.course_code, c.course_title, c.lecturer_id, u.full_name,
		       c.department, c.faculty, c.level, c.semester, c.created_at
		FROM courses c
		JOIN users u ON c.lecturer_id = u.id
		WHERE c.lecturer_id = $1
		ORDER BY c.created_at DESC
	`, lecturerID)
}

// ListForStudent returns courses the student is enrolled in, newest first.
func (r *Repository) ListForStudent(ctx context.Context, studentID int64) ([]Course, error) {
	return r.queryCourses(ctx, `
		SELECT c.id, c.course_code, c.course_title, c.lecturer_id, u.full_name,
		       c.department, c.faculty, c.level, c.semester, c.created_at
		FROM courses c
		JOIN users u ON c.lecturer_id = u.id
		JOIN enrollments e ON c.id = e.course_id
		WHERE e.student_id = $1
		ORDER BY c.created_at DESC
	`, studentID)
}

// ListAvailable returns courses the student has not enrolled in yet, with an
// optional case-insensitive search over code and title, ordered by code.
func (r *Repository) ListAvailable(ctx context.Context, studentID int64, search string) ([]Course, error) {
	pattern := "%"
	if search != "" {
		pattern = "%" + search + "%"
	}
	return r.queryCourses(ctx, `
		SELECT c.id, c.course_code, c.course_title, c.lecturer_id, u.full_name,
		       c.department, c.faculty, c.level, c.semester, c.created_at
		FROM courses c
		JOIN users u ON c.lecturer_id = u.id
		WHERE c.id NOT IN (SELECT course_id FROM enrollments WHERE student_id = $1)
		  AND (c.course_code ILIKE $2 OR c.course_title ILIKE $2)
		ORDER BY c.course_code
	`, studentID, pattern)
}

// ListAll returns every course with its enrollment count, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]Course, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.course_code, c.course_title, c.lecturer_id, u.full_name,
		       c.department, c.faculty, c.level, c.semester, c.created_at,
		       (SELECT COUNT(*) FROM enrollments WHERE course_id = c.id)
		FROM courses c
		JOIN users u ON c.lecturer_id = u.id
		ORDER BY c.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.CourseCode, &c.CourseTitle, &c.LecturerID, &c.LecturerName,
			&c.Department, &c.Faculty, &c.Level, &c.Semester, &c.CreatedAt, &c.StudentCount); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// Enroll records a student into a course. The unique key on
// (course_id, student_id) makes re-enrollment surface as ErrAlreadyEnrolled.
func (r *Repository) Enroll(ctx context.Context, courseID, studentID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO enrollments (course_id, student_id) VALUES ($1, $2)
	`, courseID, studentID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyEnrolled
		}
	}
	return err
}

// Students returns the roster for a course ordered by student name.
func (r *Repository) Students(ctx context.Context, courseID int64) ([]EnrolledStudent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.full_name, u.reg_number, u.email, u.level, e.enrolled_at
		FROM users u
		JOIN enrollments e ON u.id = e.student_id
		WHERE e.course_id = $1
		ORDER BY u.full_name
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []EnrolledStudent
	for rows.Next() {
		var s EnrolledStudent
		if err := rows.Scan(&s.ID, &s.FullName, &s.RegNumber, &s.Email, &s.Level, &s.EnrolledAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r *Repository) queryCourses(ctx context.Context, query string, args ...any) ([]Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func scanCourse(row interface{ Scan(...any) error }) (Course, error) {
	var c Course
	err := row.Scan(&c.ID, &c.CourseCode, &c.CourseTitle, &c.LecturerID, &c.LecturerName,
		&c.Department, &c.Faculty, &c.Level, &c.Semester, &c.CreatedAt)
	return c, err
}
