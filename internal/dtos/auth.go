// File: internal/dtos/auth.go
package dtos

import (
	"time"

	"github.com/iyunix/go-chatnest/internal/domain"
)

// RegisterRequestDTO is the payload for creating an account.
type RegisterRequestDTO struct {
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequestDTO is the credentials payload.
type LoginRequestDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UserResponseDTO defines what fields to expose in user API responses.
// The password hash is never included.
type UserResponseDTO struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// LoginResponseDTO carries the session token; the same token is also set
// as the auth cookie.
type LoginResponseDTO struct {
	Token string          `json:"token"`
	User  UserResponseDTO `json:"user"`
}

// ToUserResponseDTO converts a domain user to its public shape.
func ToUserResponseDTO(user *domain.User) UserResponseDTO {
	if user == nil {
		return UserResponseDTO{}
	}
	return UserResponseDTO{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
