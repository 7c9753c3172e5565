package attendance

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"qrattend/internal/sessions"
)

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// FindSession looks a session up by id and code together. A code mismatch and
// a missing id both come back as ErrSessionNotFound.
func (r *Repository) FindSession(ctx context.Context, sessionID int64, sessionCode string) (sessions.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, course_id, session_code, session_title, created_by, created_at, expires_at
		FROM attendance_sessions
		WHERE id = $1 AND session_code = $2
	`, sessionID, sessionCode)
	var s sessions.Session
	err := row.Scan(&s.ID, &s.CourseID, &s.SessionCode, &s.SessionTitle, &s.CreatedBy, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sessions.Session{}, ErrSessionNotFound
	}
	return s, err
}

// IsEnrolled reports whether the student is enrolled in the course.
func (r *Repository) IsEnrolled(ctx context.Context, courseID, studentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM enrollments WHERE course_id = $1 AND student_id = $2)
	`, courseID, studentID).Scan(&exists)
	return exists, err
}

// HasRecord reports whether a record already exists for (session, student).
func (r *Repository) HasRecord(ctx context.Context, sessionID, studentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM attendance_records WHERE session_id = $1 AND student_id = $2)
	`, sessionID, studentID).Scan(&exists)
	return exists, err
}

// Insert appends a record. The unique key on (session_id, student_id) turns a
// concurrent duplicate into ErrAlreadyMarked rather than a second row.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance_records (session_id, student_id, course_id, marked_at)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`, rec.SessionID, rec.StudentID, rec.CourseID, rec.MarkedAt)
	if err := row.Scan(&rec.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Record{}, ErrAlreadyMarked
		}
		return Record{}, err
	}
	return rec, nil
}
