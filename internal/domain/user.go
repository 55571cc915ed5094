package domain

import "time"

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// UserRole decides which workflow steps a user may perform.
type UserRole string

const (
	UserRoleUser    UserRole = "USER"
	UserRoleWorker  UserRole = "WORKER"
	UserRoleManager UserRole = "MANAGER"
	UserRoleAdmin   UserRole = "ADMIN"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleUser, UserRoleWorker, UserRoleManager, UserRoleAdmin:
		return true
	}
	return false
}

// User is anyone who raises, works on, or approves tickets.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Role          UserRole
	Status        UserStatus
	DepartmentID  *string
	DesignationID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Identity returns the caller view of u.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
