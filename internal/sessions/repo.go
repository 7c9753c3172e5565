package sessions

import (
	"context"
	"database/sql"
	"errors"
)

// Repository persists attendance sessions in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new session and returns it with its id filled in.
func (r *Repository) Insert(ctx context.Context, s Session) (Session, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance_sessions (course_id, session_code, session_title, created_by, created_at, expires_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, s.CourseID, s.SessionCode, s.SessionTitle, s.CreatedBy, s.CreatedAt, s.ExpiresAt)
	if err := row.Scan(&s.ID); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Get returns one session by id, or ErrNotFound.
func (r *Repository) Get(ctx context.Context, id int64) (Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, course_id, session_code, session_title, created_by, created_at, expires_at
		FROM attendance_sessions WHERE id = $1
	`, id)
	var s Session
	err := row.Scan(&s.ID, &s.CourseID, &s.SessionCode, &s.SessionTitle, &s.CreatedBy, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	return s, err
}

// ListForCourse returns all sessions of a course, newest first, each with its
// attendance count.
func (r *Repository) ListForCourse(ctx context.Context, courseID int64) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.course_id, s.session_code, s.session_title, s.created_by, s.created_at, s.expires_at,
		       (SELECT COUNT(*) FROM attendance_records WHERE session_id = s.id)
		FROM attendance_sessions s
		WHERE s.course_id = $1
		ORDER BY s.created_at DESC
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.CourseID, &s.SessionCode, &s.SessionTitle, &s.CreatedBy,
			&s.CreatedAt, &s.ExpiresAt, &s.AttendanceCount); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// CourseOwner returns the lecturer id owning the course, or ErrCourseNotFound.
func (r *Repository) CourseOwner(ctx context.Context, courseID int64) (int64, error) {
	var ownerID int64
	err := r.db.QueryRowContext(ctx, `SELECT lecturer_id FROM courses WHERE id = $1`, courseID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrCourseNotFound
	}
	return ownerID, err
}
