package users

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	byEmail map[string]User
	nextID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{byEmail: make(map[string]User)}
}

func (f *fakeStore) Create(_ context.Context, u User) (User, error) {
	if _, ok := f.byEmail[u.Email]; ok {
		return User{}, ErrEmailTaken
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (f *fakeStore) List(context.Context) ([]User, error) { return nil, nil }

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		in      RegisterInput
		prepare func(*fakeStore)
		wantErr error
	}{
		{
			name: "student ok",
			in:   RegisterInput{Email: "a@test.edu", Password: "secret1", FullName: "A", Role: "student"},
		},
		{
			name: "lecturer ok with mixed case role",
			in:   RegisterInput{Email: "b@test.edu", Password: "secret1", FullName: "B", Role: "Lecturer"},
		},
		{
			name:    "admin rejected",
			in:      RegisterInput{Email: "c@test.edu", Password: "secret1", FullName: "C", Role: "admin"},
			wantErr: ErrInvalidRole,
		},
		{
			name:    "unknown role rejected",
			in:      RegisterInput{Email: "d@test.edu", Password: "secret1", FullName: "D", Role: "dean"},
			wantErr: ErrInvalidRole,
		},
		{
			name: "duplicate email",
			in:   RegisterInput{Email: "a@test.edu", Password: "secret1", FullName: "A2", Role: "student"},
			prepare: func(f *fakeStore) {
				f.byEmail["a@test.edu"] = User{ID: 1, Email: "a@test.edu"}
			},
			wantErr: ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeStore()
			if tt.prepare != nil {
				tt.prepare(f)
			}
			svc := NewService(f)

			u, err := svc.Register(context.Background(), tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Register() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if u.ID == 0 {
				t.Error("registered user has no id")
			}
			if !ValidRole(u.Role) || u.Role == RoleAdmin {
				t.Errorf("role = %q, want normalized student/lecturer", u.Role)
			}
			if u.PasswordHash == tt.in.Password || u.PasswordHash == "" {
				t.Error("password stored without hashing")
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	f := newFakeStore()
	svc := NewService(f)
	if _, err := svc.Register(context.Background(), RegisterInput{
		Email: "a@test.edu", Password: "secret1", FullName: "A", Role: "student",
	}); err != nil {
		t.Fatal(err)
	}

	if u, err := svc.Authenticate(context.Background(), "a@test.edu", "secret1"); err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	} else if u.Email != "a@test.edu" {
		t.Errorf("user = %+v", u)
	}

	// Wrong password and unknown account must be indistinguishable.
	if _, err := svc.Authenticate(context.Background(), "a@test.edu", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody@test.edu", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}
