package dto

import (
	"github.com/google/uuid"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
)

type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IconEmoji   string    `json:"iconEmoji,omitempty"`
	ColorHex    string    `json:"colorHex,omitempty"`
	Active      bool      `json:"active"`
}

func ToCategory(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IconEmoji:   c.IconEmoji,
		ColorHex:    c.ColorHex,
		Active:      c.Active,
	}
}

func ToCategories(cs []models.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(cs))
	for i := range cs {
		out[i] = ToCategory(&cs[i])
	}
	return out
}
