package attendance

import (
	"context"
	"errors"
	"time"

	"qrattend/internal/sessions"
)

// Record is one accepted attendance fact. Records are append-only: nothing
// updates or deletes them after the insert.
type Record struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	StudentID int64     `json:"student_id"`
	CourseID  int64     `json:"course_id"`
	MarkedAt  time.Time `json:"marked_at"`
}

// Mark failures, one per gate. Handlers and tests branch on these; none is
// retryable.
var (
	// ErrSessionNotFound covers both an unknown session id and a wrong
	// session code. The two must be indistinguishable so a caller cannot
	// probe which ids exist.
	ErrSessionNotFound = errors.New("invalid session")
	ErrSessionExpired  = errors.New("this attendance session has expired")
	ErrNotEnrolled     = errors.New("you are not enrolled in this course")
	ErrAlreadyMarked   = errors.New("attendance already marked for this session")
)

// Store is the persistence surface the ledger needs. Insert must enforce
// uniqueness of (session_id, student_id) and return ErrAlreadyMarked on a
// violation; that constraint, not the HasRecord pre-check, is what keeps
// concurrent marks from double-recording.
type Store interface {
	FindSession(ctx context.Context, sessionID int64, sessionCode string) (sessions.Session, error)
	IsEnrolled(ctx context.Context, courseID, studentID int64) (bool, error)
	HasRecord(ctx context.Context, sessionID, studentID int64) (bool, error)
	Insert(ctx context.Context, rec Record) (Record, error)
}

// Ledger accepts or rejects attendance-marking attempts.
type Ledger struct {
	store Store
	now   func() time.Time
}

// NewLedger creates a ledger backed by a store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// Mark runs the marking gates in order and appends a record when all pass:
//
//  1. session exists and the code matches  -> ErrSessionNotFound
//  2. session is still active              -> ErrSessionExpired
//  3. student is enrolled in the course    -> ErrNotEnrolled
//  4. no record exists yet                 -> ErrAlreadyMarked
//  5. insert the record
//
// Existence is checked before expiry so an unknown session never leaks
// whether the id exists; expiry before enrollment so a late scanner gets the
// clearer signal; the duplicate check last so a re-scan after the window
// closes still reads as "already marked" rather than "expired".
func (l *Ledger) Mark(ctx context.Context, sessionID int64, sessionCode string, studentID int64) (Record, error) {
	sess, err := l.store.FindSession(ctx, sessionID, sessionCode)
	if err != nil {
		return Record{}, err
	}

	if !sess.ActiveAt(l.now()) {
		return Record{}, ErrSessionExpired
	}

	enrolled, err := l.store.IsEnrolled(ctx, sess.CourseID, studentID)
	if err != nil {
		return Record{}, err
	}
	if !enrolled {
		return Record{}, ErrNotEnrolled
	}

	// Friendlier duplicate error; the unique key on the insert below is the
	// actual guard against a concurrent double-mark.
	marked, err := l.store.HasRecord(ctx, sessionID, studentID)
	if err != nil {
		return Record{}, err
	}
	if marked {
		return Record{}, ErrAlreadyMarked
	}

	return l.store.Insert(ctx, Record{
		SessionID: sessionID,
		StudentID: studentID,
		CourseID:  sess.CourseID,
		MarkedAt:  l.now().UTC(),
	})
}

// MarkedEvent is the audit message published after a successful mark.
type MarkedEvent struct {
	RecordID  int64     `json:"record_id"`
	SessionID int64     `json:"session_id"`
	StudentID int64     `json:"student_id"`
	CourseID  int64     `json:"course_id"`
	MarkedAt  time.Time `json:"marked_at"`
}
