package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"qrattend/internal/sessions"
)

// fakeStore enforces the same (session_id, student_id) unique key the real
// schema does, so concurrent Mark calls race exactly like they would against
// Postgres.
type fakeStore struct {
	mu         sync.Mutex
	sessions   map[int64]sessions.Session
	enrolled   map[[2]int64]bool // (course, student)
	records    map[[2]int64]Record
	nextID     int64
	insertErr  error
	skipChecks bool // make HasRecord lie so the insert constraint is exercised
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: make(map[int64]sessions.Session),
		enrolled: make(map[[2]int64]bool),
		records:  make(map[[2]int64]Record),
	}
}

func (f *fakeStore) FindSession(_ context.Context, id int64, code string) (sessions.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.SessionCode != code {
		return sessions.Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeStore) IsEnrolled(_ context.Context, courseID, studentID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enrolled[[2]int64{courseID, studentID}], nil
}

func (f *fakeStore) HasRecord(_ context.Context, sessionID, studentID int64) (bool, error) {
	if f.skipChecks {
		return false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.records[[2]int64{sessionID, studentID}]
	return ok, nil
}

func (f *fakeStore) Insert(_ context.Context, rec Record) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return Record{}, f.insertErr
	}
	key := [2]int64{rec.SessionID, rec.StudentID}
	if _, ok := f.records[key]; ok {
		return Record{}, ErrAlreadyMarked
	}
	f.nextID++
	rec.ID = f.nextID
	f.records[key] = rec
	return rec, nil
}

func testLedger(store Store, now time.Time) *Ledger {
	l := NewLedger(store)
	l.now = func() time.Time { return now }
	return l
}

func TestMarkGates(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	setup := func() *fakeStore {
		f := newFakeStore()
		f.sessions[1] = sessions.Session{
			ID:          1,
			CourseID:    10,
			SessionCode: "code-1",
			CreatedAt:   base,
			ExpiresAt:   base.Add(time.Minute),
		}
		f.enrolled[[2]int64{10, 100}] = true // student 100 enrolled in course 10
		return f
	}

	tests := []struct {
		name        string
		sessionID   int64
		sessionCode string
		studentID   int64
		now         time.Time
		prepare     func(*fakeStore)
		wantErr     error
	}{
		{
			name:      "unknown session id",
			sessionID: 99, sessionCode: "code-1", studentID: 100,
			now: base, wantErr: ErrSessionNotFound,
		},
		{
			name:      "wrong code same error as unknown id",
			sessionID: 1, sessionCode: "wrong", studentID: 100,
			now: base, wantErr: ErrSessionNotFound,
		},
		{
			name:      "expired session",
			sessionID: 1, sessionCode: "code-1", studentID: 100,
			now: base.Add(2 * time.Minute), wantErr: ErrSessionExpired,
		},
		{
			name:      "wrong code on expired session still reads as not found",
			sessionID: 1, sessionCode: "wrong", studentID: 100,
			now: base.Add(2 * time.Minute), wantErr: ErrSessionNotFound,
		},
		{
			name:      "not enrolled",
			sessionID: 1, sessionCode: "code-1", studentID: 200,
			now: base, wantErr: ErrNotEnrolled,
		},
		{
			name:      "not enrolled loses to expiry",
			sessionID: 1, sessionCode: "code-1", studentID: 200,
			now: base.Add(2 * time.Minute), wantErr: ErrSessionExpired,
		},
		{
			name:      "duplicate mark",
			sessionID: 1, sessionCode: "code-1", studentID: 100,
			now: base,
			prepare: func(f *fakeStore) {
				f.records[[2]int64{1, 100}] = Record{ID: 1, SessionID: 1, StudentID: 100}
			},
			wantErr: ErrAlreadyMarked,
		},
		{
			name:      "success",
			sessionID: 1, sessionCode: "code-1", studentID: 100,
			now: base.Add(30 * time.Second),
		},
		{
			name:      "success at exact expiry instant",
			sessionID: 1, sessionCode: "code-1", studentID: 100,
			now: base.Add(time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup()
			if tt.prepare != nil {
				tt.prepare(f)
			}
			l := testLedger(f, tt.now)

			rec, err := l.Mark(context.Background(), tt.sessionID, tt.sessionCode, tt.studentID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Mark() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if rec.ID == 0 {
				t.Error("accepted record has no id")
			}
			if rec.SessionID != tt.sessionID || rec.StudentID != tt.studentID {
				t.Errorf("record = %+v, want session %d student %d", rec, tt.sessionID, tt.studentID)
			}
			if rec.CourseID != 10 {
				t.Errorf("record course = %d, want 10", rec.CourseID)
			}
			if !rec.MarkedAt.Equal(tt.now) {
				t.Errorf("marked_at = %v, want %v", rec.MarkedAt, tt.now)
			}
		})
	}
}

func TestMarkStoreUniquenessBackstopsRace(t *testing.T) {
	// With the duplicate pre-check disabled, the insert constraint alone must
	// turn the second mark into ErrAlreadyMarked.
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	f := newFakeStore()
	f.skipChecks = true
	f.sessions[1] = sessions.Session{ID: 1, CourseID: 10, SessionCode: "c", CreatedAt: base, ExpiresAt: base.Add(time.Minute)}
	f.enrolled[[2]int64{10, 100}] = true
	l := testLedger(f, base)

	if _, err := l.Mark(context.Background(), 1, "c", 100); err != nil {
		t.Fatalf("first mark failed: %v", err)
	}
	if _, err := l.Mark(context.Background(), 1, "c", 100); !errors.Is(err, ErrAlreadyMarked) {
		t.Fatalf("second mark error = %v, want ErrAlreadyMarked", err)
	}
}

func TestMarkConcurrentDuplicates(t *testing.T) {
	const attempts = 50

	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	f := newFakeStore()
	f.sessions[1] = sessions.Session{ID: 1, CourseID: 10, SessionCode: "c", CreatedAt: base, ExpiresAt: base.Add(time.Minute)}
	f.enrolled[[2]int64{10, 100}] = true
	l := testLedger(f, base)

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Mark(context.Background(), 1, "c", 100)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyMarked):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("successes = %d, want exactly 1", ok)
	}
	if dup != attempts-1 {
		t.Errorf("duplicates = %d, want %d", dup, attempts-1)
	}
	if len(f.records) != 1 {
		t.Errorf("records stored = %d, want 1", len(f.records))
	}
}

func TestMarkStoreFailurePropagates(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	f := newFakeStore()
	f.sessions[1] = sessions.Session{ID: 1, CourseID: 10, SessionCode: "c", CreatedAt: base, ExpiresAt: base.Add(time.Minute)}
	f.enrolled[[2]int64{10, 100}] = true
	f.insertErr = errors.New("connection reset")
	l := testLedger(f, base)

	_, err := l.Mark(context.Background(), 1, "c", 100)
	if err == nil || errors.Is(err, ErrAlreadyMarked) {
		t.Fatalf("error = %v, want raw store failure", err)
	}
	if len(f.records) != 0 {
		t.Errorf("records stored = %d, want 0 after failed insert", len(f.records))
	}
}
