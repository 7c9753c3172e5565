package users

import (
	"context"
	"errors"
	"strings"

	"qrattend/internal/auth"
)

// Business-rule failures callers branch on.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidRole        = errors.New("role must be student or lecturer")
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, u User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	List(ctx context.Context) ([]User, error)
}

// Service implements registration, login and profile lookups.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// RegisterInput is the data required to create an account.
type RegisterInput struct {
	Email      string
	Password   string
	FullName   string
	RegNumber  *string
	Role       string
	Department *string
	Faculty    *string
	Level      *string
}

// Register creates a new account. Only student and lecturer accounts can be
// self-registered; admin accounts are seeded out of band.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role != RoleStudent && role != RoleLecturer {
		return User{}, ErrInvalidRole
	}

	// Friendlier error than the unique-violation path, which still backstops
	// concurrent registrations.
	if _, err := s.store.GetByEmail(ctx, in.Email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}

	return s.store.Create(ctx, User{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		RegNumber:    in.RegNumber,
		Role:         role,
		Department:   in.Department,
		Faculty:      in.Faculty,
		Level:        in.Level,
	})
}

// Authenticate verifies credentials and returns the matching user. A missing
// user and a wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Profile returns the user with the given id.
func (s *Service) Profile(ctx context.Context, id int64) (User, error) {
	return s.store.GetByID(ctx, id)
}

// List returns every registered user, newest first.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}
