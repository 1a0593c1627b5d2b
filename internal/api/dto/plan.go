package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
)

type CreatePlanRequest struct {
	Title           string    `json:"title" validate:"notblank,min=3,max=100"`
	Description     string    `json:"description" validate:"max=1000"`
	CategoryID      uuid.UUID `json:"categoryId" validate:"required"`
	Location        string    `json:"location" validate:"notblank,max=200"`
	Latitude        *float64  `json:"latitude" validate:"omitnil,latitude"`
	Longitude       *float64  `json:"longitude" validate:"omitnil,longitude"`
	EventDate       time.Time `json:"eventDate" validate:"required,future"`
	MaxParticipants int       `json:"maxParticipants" validate:"required,min=2,max=100"`
	ImageURL        string    `json:"imageUrl" validate:"omitempty,url,max=500"`
}

// UpdatePlanRequest is a partial update; absent fields are left unchanged. An
// empty imageUrl clears the image.
type UpdatePlanRequest struct {
	Title           *string    `json:"title" validate:"omitnil,min=3,max=100"`
	Description     *string    `json:"description" validate:"omitnil,max=1000"`
	Location        *string    `json:"location" validate:"omitnil,max=200"`
	Latitude        *float64   `json:"latitude" validate:"omitnil,latitude"`
	Longitude       *float64   `json:"longitude" validate:"omitnil,longitude"`
	EventDate       *time.Time `json:"eventDate" validate:"omitnil,future"`
	MaxParticipants *int       `json:"maxParticipants" validate:"omitnil,min=2,max=100"`
	ImageURL        *string    `json:"imageUrl" validate:"omitnil,max=500,urlorempty"`
}

type PlanResponse struct {
	ID                  uuid.UUID         `json:"id"`
	Title               string            `json:"title"`
	Description         string            `json:"description,omitempty"`
	Category            *CategoryResponse `json:"category,omitempty"`
	Creator             *UserResponse     `json:"creator,omitempty"`
	Location            string            `json:"location"`
	Latitude            *float64          `json:"latitude,omitempty"`
	Longitude           *float64          `json:"longitude,omitempty"`
	EventDate           time.Time         `json:"eventDate"`
	MaxParticipants     int               `json:"maxParticipants"`
	CurrentParticipants int               `json:"currentParticipants"`
	Status              models.PlanStatus `json:"status"`
	ImageURL            string            `json:"imageUrl,omitempty"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
	IsFull              bool              `json:"isFull"`
	CanJoin             bool              `json:"canJoin"`
}

// ToPlan builds the plan view. category and creator may be nil when the
// referenced rows are gone.
func ToPlan(p *models.Plan, category *models.Category, creator *models.User) PlanResponse {
	resp := PlanResponse{
		ID:                  p.ID,
		Title:               p.Title,
		Description:         p.Description,
		Location:            p.Location,
		Latitude:            p.Latitude,
		Longitude:           p.Longitude,
		EventDate:           p.EventDate,
		MaxParticipants:     p.MaxParticipants,
		CurrentParticipants: p.CurrentParticipants,
		Status:              p.Status,
		ImageURL:            p.ImageURL,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
		IsFull:              p.IsFull(),
		CanJoin:             p.CanJoin(),
	}
	if category != nil {
		c := ToCategory(category)
		resp.Category = &c
	}
	if creator != nil {
		u := ToPublicUser(creator)
		resp.Creator = &u
	}
	return resp
}
