package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name         string      `json:"name" validate:"required"`
	Email        string      `json:"email" validate:"required,email"`
	Password     string      `json:"password" validate:"required,min=8"`
	Role         domain.Role `json:"role" validate:"omitempty,oneof=admin hod staff complainant"`
	DepartmentID *string     `json:"department_id"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest payload for admin edits.
type UpdateUserRequest struct {
	Name         string      `json:"name"`
	Email        string      `json:"email" validate:"omitempty,email"`
	Role         domain.Role `json:"role" validate:"required,oneof=admin hod staff complainant"`
	DepartmentID *string     `json:"department_id"`
}

// UserResponse is the account view without credentials.
type UserResponse struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	DepartmentID *string     `json:"department_id"`
}

// AuthResponse carries a session token and the account it belongs to.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
	}
}
