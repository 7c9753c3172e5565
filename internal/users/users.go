package users

import "time"

// Roles. A user's role is fixed at registration and drives every
// authorization decision.
const (
	RoleStudent  = "student"
	RoleLecturer = "lecturer"
	RoleAdmin    = "admin"
)

// User is a registered account. PasswordHash never leaves the package
// boundary in API responses.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	RegNumber    *string   `json:"reg_number,omitempty"`
	Role         string    `json:"role"`
	Department   *string   `json:"department,omitempty"`
	Faculty      *string   `json:"faculty,omitempty"`
	Level        *string   `json:"level,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleLecturer || role == RoleAdmin
}
