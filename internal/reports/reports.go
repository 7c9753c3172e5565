package reports

import "time"

// SessionSummary is one column header of the presence matrix.
type SessionSummary struct {
	ID           int64     `json:"id"`
	SessionTitle string    `json:"session_title"`
	CreatedAt    time.Time `json:"created_at"`
}

// SessionPresence is one cell of the presence matrix.
type SessionPresence struct {
	SessionID    int64  `json:"session_id"`
	SessionTitle string `json:"session_title"`
	Present      bool   `json:"present"`
}

// StudentReport is one row: the full per-session vector plus the rollup.
type StudentReport struct {
	StudentID     int64             `json:"student_id"`
	FullName      string            `json:"full_name"`
	RegNumber     *string           `json:"reg_number,omitempty"`
	Attendance    []SessionPresence `json:"attendance"`
	TotalPresent  int               `json:"total_present"`
	TotalSessions int               `json:"total_sessions"`
	Percentage    int               `json:"percentage"`
}

// Report is the full course report: sessions ascending by creation time,
// students ascending by name.
type Report struct {
	CourseID int64            `json:"course_id"`
	Sessions []SessionSummary `json:"sessions"`
	Students []StudentReport  `json:"students"`
}

// RosterEntry is one enrolled student, as loaded for the report.
type RosterEntry struct {
	StudentID int64
	FullName  string
	RegNumber *string
}

// PresencePair is one (student, session) attendance fact.
type PresencePair struct {
	StudentID int64
	SessionID int64
}

// SessionRecord is one attendance record of a session with the student
// joined in.
type SessionRecord struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	StudentID int64     `json:"student_id"`
	FullName  string    `json:"full_name"`
	RegNumber *string   `json:"reg_number,omitempty"`
	Email     string    `json:"email"`
	MarkedAt  time.Time `json:"marked_at"`
}

// HistoryEntry is one row of a student's own attendance history.
type HistoryEntry struct {
	ID           int64     `json:"id"`
	SessionID    int64     `json:"session_id"`
	CourseID     int64     `json:"course_id"`
	CourseCode   string    `json:"course_code"`
	CourseTitle  string    `json:"course_title"`
	SessionTitle string    `json:"session_title"`
	MarkedAt     time.Time `json:"marked_at"`
}

// Stats are the admin dashboard counters.
type Stats struct {
	TotalUsers      int `json:"total_users"`
	TotalStudents   int `json:"total_students"`
	TotalLecturers  int `json:"total_lecturers"`
	TotalCourses    int `json:"total_courses"`
	TotalSessions   int `json:"total_sessions"`
	TotalAttendance int `json:"total_attendance"`
}
