package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
)

type ParticipationResponse struct {
	ID       uuid.UUID                  `json:"id"`
	PlanID   uuid.UUID                  `json:"planId"`
	User     *UserResponse              `json:"user,omitempty"`
	Status   models.ParticipationStatus `json:"status"`
	JoinedAt time.Time                  `json:"joinedAt"`
	LeftAt   *time.Time                 `json:"leftAt,omitempty"`
}

func ToParticipation(p *models.Participation, user *models.User) ParticipationResponse {
	resp := ParticipationResponse{
		ID:       p.ID,
		PlanID:   p.PlanID,
		Status:   p.Status,
		JoinedAt: p.JoinedAt,
		LeftAt:   p.LeftAt,
	}
	if user != nil {
		u := ToPublicUser(user)
		resp.User = &u
	}
	return resp
}

type ParticipationCheckResponse struct {
	PlanID        uuid.UUID `json:"planId"`
	Participating bool      `json:"participating"`
}
