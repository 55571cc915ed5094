package dto

import (
	"time"

	"github.com/deskflow/helpdesk-service/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8"`
	DepartmentID *string `json:"department_id"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SetRoleRequest changes a user's role.
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER WORKER MANAGER ADMIN"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is a user without credentials.
type UserResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Role          domain.UserRole   `json:"role"`
	Status        domain.UserStatus `json:"status"`
	DepartmentID  *string           `json:"department_id"`
	DesignationID *string           `json:"designation_id"`
	CreatedAt     time.Time         `json:"created_at"`
}

// MasterDataResponse is one selectable row of a master-data list.
type MasterDataResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Level       *int   `json:"level,omitempty"`
}
