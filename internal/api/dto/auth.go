package dto

import (
	"strings"

	"github.com/ivanquesadapalmero/planazo-backend/internal/auth"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
	Name     string `json:"name" validate:"notblank,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"notblank"`
	NewPassword string `json:"newPassword" validate:"required,min=8,maxbytes=72"`
}

// Normalize trims the e-mail so padded input still passes the email rule.
func (r *RegisterRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *ForgotPasswordRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

type AuthResponse struct {
	Token string       `json:"token"`
	Type  string       `json:"type"`
	User  UserResponse `json:"user"`
}

func ToAuthResponse(result *auth.AuthResult) AuthResponse {
	return AuthResponse{
		Token: result.Token,
		Type:  "Bearer",
		User:  ToUser(result.User),
	}
}
