package store

import "context"

// Schema is applied on startup. Statements are idempotent so repeated boots
// are safe. The unique keys on users.email, enrollments and attendance_records
// are what the application relies on for integrity; the pre-insert existence
// checks in the services only exist to produce friendlier errors.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name     TEXT NOT NULL,
		reg_number    TEXT,
		role          TEXT NOT NULL CHECK (role IN ('student', 'lecturer', 'admin')),
		department    TEXT,
		faculty       TEXT,
		level         TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id           BIGSERIAL PRIMARY KEY,
		course_code  TEXT NOT NULL,
		course_title TEXT NOT NULL,
		lecturer_id  BIGINT NOT NULL REFERENCES users(id),
		department   TEXT,
		faculty      TEXT,
		level        TEXT,
		semester     TEXT,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS enrollments (
		id          BIGSERIAL PRIMARY KEY,
		course_id   BIGINT NOT NULL REFERENCES courses(id),
		student_id  BIGINT NOT NULL REFERENCES users(id),
		enrolled_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (course_id, student_id)
	)`,
	`CREATE TABLE IF NOT EXISTS attendance_sessions (
		id            BIGSERIAL PRIMARY KEY,
		course_id     BIGINT NOT NULL REFERENCES courses(id),
		session_code  TEXT NOT NULL UNIQUE,
		session_title TEXT NOT NULL,
		created_by    BIGINT NOT NULL REFERENCES users(id),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at    TIMESTAMPTZ NOT NULL,
		CHECK (expires_at > created_at)
	)`,
	`CREATE TABLE IF NOT EXISTS attendance_records (
		id         BIGSERIAL PRIMARY KEY,
		session_id BIGINT NOT NULL REFERENCES attendance_sessions(id),
		student_id BIGINT NOT NULL REFERENCES users(id),
		course_id  BIGINT NOT NULL REFERENCES courses(id),
		marked_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (session_id, student_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_course ON attendance_sessions (course_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_records_course ON attendance_records (course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_enrollments_student ON enrollments (student_id)`,
}

// Migrate applies the schema statements in order.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.Client.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
