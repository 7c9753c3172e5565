package reports

import (
	"context"
	"database/sql"
)

// Repository reads report data from Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CourseSessions returns a course's sessions ascending by creation time.
func (r *Repository) CourseSessions(ctx context.Context, courseID int64) ([]SessionSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_title, created_at
		FROM attendance_sessions
		WHERE course_id = $1
		ORDER BY created_at
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []SessionSummary
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.ID, &s.SessionTitle, &s.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// CourseRoster returns enrolled students ordered by name.
func (r *Repository) CourseRoster(ctx context.Context, courseID int64) ([]RosterEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.full_name, u.reg_number
		FROM users u
		JOIN enrollments e ON u.id = e.student_id
		WHERE e.course_id = $1
		ORDER BY u.full_name
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []RosterEntry
	for rows.Next() {
		var e RosterEntry
		if err := rows.Scan(&e.StudentID, &e.FullName, &e.RegNumber); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// CoursePresence returns every (student, session) attendance fact of a course.
func (r *Repository) CoursePresence(ctx context.Context, courseID int64) ([]PresencePair, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT student_id, session_id FROM attendance_records WHERE course_id = $1
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []PresencePair
	for rows.Next() {
		var p PresencePair
		if err := rows.Scan(&p.StudentID, &p.SessionID); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// SessionRecords returns one session's records with the student joined in,
// ordered by mark time.
func (r *Repository) SessionRecords(ctx context.Context, sessionID int64) ([]SessionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ar.id, ar.session_id, ar.student_id, u.full_name, u.reg_number, u.email, ar.marked_at
		FROM attendance_records ar
		JOIN users u ON ar.student_id = u.id
		WHERE ar.session_id = $1
		ORDER BY ar.marked_at
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.StudentID, &rec.FullName,
			&rec.RegNumber, &rec.Email, &rec.MarkedAt); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// StudentHistory returns a student's records joined with course and session
// titles, newest first.
func (r *Repository) StudentHistory(ctx context.Context, studentID int64) ([]HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ar.id, ar.session_id, ar.course_id, c.course_code, c.course_title, s.session_title, ar.marked_at
		FROM attendance_records ar
		JOIN courses c ON ar.course_id = c.id
		JOIN attendance_sessions s ON ar.session_id = s.id
		WHERE ar.student_id = $1
		ORDER BY ar.marked_at DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.ID, &h.SessionID, &h.CourseID, &h.CourseCode,
			&h.CourseTitle, &h.SessionTitle, &h.MarkedAt); err != nil {
			return nil, err
		}
		res = append(res, h)
	}
	return res, rows.Err()
}

// Stats returns the platform counters in one round trip.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE role = 'student'),
			(SELECT COUNT(*) FROM users WHERE role = 'lecturer'),
			(SELECT COUNT(*) FROM courses),
			(SELECT COUNT(*) FROM attendance_sessions),
			(SELECT COUNT(*) FROM attendance_records)
	`).Scan(&st.TotalUsers, &st.TotalStudents, &st.TotalLecturers,
		&st.TotalCourses, &st.TotalSessions, &st.TotalAttendance)
	return st, err
}
