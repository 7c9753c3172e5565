package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("session not found")
	ErrCourseNotFound = errors.New("course not found")
	ErrNotOwner       = errors.New("you do not own this course")
	ErrBadDuration    = errors.New("duration must be positive")
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, s Session) (Session, error)
	Get(ctx context.Context, id int64) (Session, error)
	ListForCourse(ctx context.Context, courseID int64) ([]Session, error)
	CourseOwner(ctx context.Context, courseID int64) (int64, error)
}

// Service manages the session lifecycle: opening time-boxed sessions and
// answering validity checks.
type Service struct {
	store           Store
	defaultDuration time.Duration
	now             func() time.Time
}

// NewService creates a service backed by a store. defaultDuration applies
// when a create request does not name one.
func NewService(store Store, defaultDuration time.Duration) *Service {
	if defaultDuration <= 0 {
		defaultDuration = 15 * time.Minute
	}
	return &Service{store: store, defaultDuration: defaultDuration, now: time.Now}
}

// CreateInput is the data required to open a session.
type CreateInput struct {
	CourseID int64
	Title    string
	Duration time.Duration
}

// Create opens a session for a course the requester owns. The session code
// is a fresh v4 UUID; it is the capability a scanning client must echo back,
// so it must never be derivable from the session id.
func (s *Service) Create(ctx context.Context, in CreateInput, requesterID int64) (Session, error) {
	ownerID, err := s.store.CourseOwner(ctx, in.CourseID)
	if err != nil {
		return Session{}, err
	}
	if ownerID != requesterID {
		return Session{}, ErrNotOwner
	}

	dur := in.Duration
	if dur == 0 {
		dur = s.defaultDuration
	}
	if dur < 0 {
		return Session{}, ErrBadDuration
	}

	now := s.now().UTC()
	title := in.Title
	if title == "" {
		title = "Session " + now.Format("2006-01-02")
	}

	return s.store.Insert(ctx, Session{
		CourseID:     in.CourseID,
		SessionCode:  uuid.NewString(),
		SessionTitle: title,
		CreatedBy:    requesterID,
		CreatedAt:    now,
		ExpiresAt:    now.Add(dur),
	})
}

// Get returns one session.
func (s *Service) Get(ctx context.Context, id int64) (Session, error) {
	return s.store.Get(ctx, id)
}

// ListForCourse returns a course's sessions with attendance counts.
func (s *Service) ListForCourse(ctx context.Context, courseID int64) ([]Session, error) {
	return s.store.ListForCourse(ctx, courseID)
}

// Expired reports whether the session is past its window right now.
func (s *Service) Expired(sess Session) bool {
	return !sess.ActiveAt(s.now())
}
