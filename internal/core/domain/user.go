package domain

import "time"

// UserRole defines what a staff member is allowed to do.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleOperator UserRole = "OPERATOR"
)

// IsValid reports whether r is a known role.
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleOperator
}

// Satisfies reports whether a user holding r may perform an action requiring required.
// ADMIN satisfies every role.
func (r UserRole) Satisfies(required UserRole) bool {
	if r == RoleAdmin {
		return true
	}
	return r == required
}

// User represents a staff member of the exchange office.
type User struct {
	UserID       string     `json:"userID"` // Primary Key (UUID)
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}
