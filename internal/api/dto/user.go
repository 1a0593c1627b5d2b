package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
)

type UserResponse struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email,omitempty"`
	Name             string    `json:"name"`
	ProfilePicture   string    `json:"profilePicture,omitempty"`
	Bio              string    `json:"bio,omitempty"`
	RegistrationDate time.Time `json:"registrationDate"`
	Active           bool      `json:"active"`
}

type UpdateProfileRequest struct {
	Name           *string `json:"name" validate:"omitnil,max=100"`
	Bio            *string `json:"bio" validate:"omitnil,max=500"`
	ProfilePicture *string `json:"profilePicture" validate:"omitnil,max=500"`
}

// ToUser is the owner's view of an account.
func ToUser(u *models.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		ProfilePicture:   u.ProfilePicture,
		Bio:              u.Bio,
		RegistrationDate: u.RegisteredAt,
		Active:           u.IsActive(),
	}
}

// ToPublicUser is the view of an account shown to other users. It omits the
// e-mail address.
func ToPublicUser(u *models.User) UserResponse {
	resp := ToUser(u)
	resp.Email = ""
	return resp
}
