package sessions

import "time"

// Session is one time-boxed attendance window for a course. SessionCode is an
// unguessable capability token: knowledge of (id, code) is what a scanning
// client presents as proof of authenticity.
type Session struct {
	ID           int64     `json:"id"`
	CourseID     int64     `json:"course_id"`
	SessionCode  string    `json:"session_code"`
	SessionTitle string    `json:"session_title"`
	CreatedBy    int64     `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`

	// AttendanceCount is only populated by course session listings.
	AttendanceCount int `json:"attendance_count,omitempty"`
}

// ActiveAt reports whether the session accepts marks at the given instant.
// It must be recomputed on every check; the expiry window closes the moment
// now passes ExpiresAt.
func (s Session) ActiveAt(now time.Time) bool {
	return !now.After(s.ExpiresAt)
}

// Payload is the structure embedded in the QR image. A scanning client
// round-trips it verbatim to the mark-attendance endpoint.
type Payload struct {
	SessionID   int64     `json:"session_id"`
	SessionCode string    `json:"session_code"`
	CourseID    int64     `json:"course_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Payload returns the encodable form of the session.
func (s Session) Payload() Payload {
	return Payload{
		SessionID:   s.ID,
		SessionCode: s.SessionCode,
		CourseID:    s.CourseID,
		ExpiresAt:   s.ExpiresAt,
	}
}
