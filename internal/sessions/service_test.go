package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeStore struct {
	owners   map[int64]int64 // course -> lecturer
	inserted []Session
	nextID   int64
}

func (f *fakeStore) Insert(_ context.Context, s Session) (Session, error) {
	f.nextID++
	s.ID = f.nextID
	f.inserted = append(f.inserted, s)
	return s, nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (Session, error) {
	for _, s := range f.inserted {
		if s.ID == id {
			return s, nil
		}
	}
	return Session{}, ErrNotFound
}

func (f *fakeStore) ListForCourse(_ context.Context, courseID int64) ([]Session, error) {
	var res []Session
	for _, s := range f.inserted {
		if s.CourseID == courseID {
			res = append(res, s)
		}
	}
	return res, nil
}

func (f *fakeStore) CourseOwner(_ context.Context, courseID int64) (int64, error) {
	owner, ok := f.owners[courseID]
	if !ok {
		return 0, ErrCourseNotFound
	}
	return owner, nil
}

func testService(f *fakeStore, now time.Time) *Service {
	svc := NewService(f, 15*time.Minute)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreate(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		in        CreateInput
		requester int64
		wantErr   error
		wantTTL   time.Duration
		wantTitle string
	}{
		{
			name:      "unknown course",
			in:        CreateInput{CourseID: 99},
			requester: 1,
			wantErr:   ErrCourseNotFound,
		},
		{
			name:      "not the owner",
			in:        CreateInput{CourseID: 10},
			requester: 2,
			wantErr:   ErrNotOwner,
		},
		{
			name:      "defaults applied",
			in:        CreateInput{CourseID: 10},
			requester: 1,
			wantTTL:   15 * time.Minute,
			wantTitle: "Session 2026-03-02",
		},
		{
			name:      "explicit duration and title",
			in:        CreateInput{CourseID: 10, Title: "Week 7", Duration: time.Minute},
			requester: 1,
			wantTTL:   time.Minute,
			wantTitle: "Week 7",
		},
		{
			name:      "negative duration rejected",
			in:        CreateInput{CourseID: 10, Duration: -time.Minute},
			requester: 1,
			wantErr:   ErrBadDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeStore{owners: map[int64]int64{10: 1}}
			svc := testService(f, now)

			sess, err := svc.Create(context.Background(), tt.in, tt.requester)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if len(f.inserted) != 0 {
					t.Errorf("rejected create still persisted %d sessions", len(f.inserted))
				}
				return
			}
			if sess.ID == 0 {
				t.Error("created session has no id")
			}
			if sess.SessionCode == "" {
				t.Error("created session has no code")
			}
			if sess.SessionTitle != tt.wantTitle {
				t.Errorf("title = %q, want %q", sess.SessionTitle, tt.wantTitle)
			}
			if got := sess.ExpiresAt.Sub(sess.CreatedAt); got != tt.wantTTL {
				t.Errorf("window = %v, want %v", got, tt.wantTTL)
			}
			if !sess.ExpiresAt.After(sess.CreatedAt) {
				t.Error("expiry must be strictly after creation")
			}
		})
	}
}

func TestCreateCodesAreUnique(t *testing.T) {
	f := &fakeStore{owners: map[int64]int64{10: 1}}
	svc := testService(f, time.Now())

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		sess, err := svc.Create(context.Background(), CreateInput{CourseID: 10}, 1)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if seen[sess.SessionCode] {
			t.Fatalf("duplicate session code %q", sess.SessionCode)
		}
		seen[sess.SessionCode] = true
	}
}

func TestActiveAt(t *testing.T) {
	exp := time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC)
	s := Session{ExpiresAt: exp}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"well before expiry", exp.Add(-10 * time.Minute), true},
		{"one nanosecond before", exp.Add(-time.Nanosecond), true},
		{"exactly at expiry", exp, true},
		{"one nanosecond after", exp.Add(time.Nanosecond), false},
		{"well after expiry", exp.Add(time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ActiveAt(tt.now); got != tt.want {
				t.Errorf("ActiveAt(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestPayloadShape(t *testing.T) {
	exp := time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC)
	s := Session{ID: 7, CourseID: 3, SessionCode: "abc", ExpiresAt: exp}

	data, err := json.Marshal(s.Payload())
	if err != nil {
		t.Fatal(err)
	}

	// A scanning client round-trips these exact fields back to the mark
	// endpoint.
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"session_id", "session_code", "course_id", "expires_at"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("payload missing %q: %s", key, data)
		}
	}
	if decoded["session_id"].(float64) != 7 {
		t.Errorf("session_id = %v, want 7", decoded["session_id"])
	}
	if decoded["session_code"].(string) != "abc" {
		t.Errorf("session_code = %v, want abc", decoded["session_code"])
	}
	if decoded["expires_at"].(string) != "2026-03-02T10:15:00Z" {
		t.Errorf("expires_at = %v, want RFC 3339", decoded["expires_at"])
	}
}

func TestQRDataURL(t *testing.T) {
	s := Session{ID: 7, CourseID: 3, SessionCode: "abc", ExpiresAt: time.Now().Add(15 * time.Minute)}

	url, err := QRDataURL(s.Payload())
	if err != nil {
		t.Fatalf("QRDataURL() error = %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("not a PNG data URL: %.40s", url)
	}
	if len(url) <= len("data:image/png;base64,") {
		t.Error("data URL carries no image bytes")
	}
}
