package models

import (
	"time"

	"github.com/google/uuid"
)

type ParticipationStatus string

const (
	ParticipationConfirmed ParticipationStatus = "CONFIRMED"
	ParticipationLeft      ParticipationStatus = "LEFT"    // self-initiated
	ParticipationRemoved   ParticipationStatus = "REMOVED" // creator-initiated
)

// Participation is the single history row for a (plan, user) pair.
type Participation struct {
	Base
	PlanID   uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_participations_plan_user" json:"plan_id"`
	UserID   uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_participations_plan_user;index" json:"user_id"`
	Status   ParticipationStatus `gorm:"size:20;not null;index" json:"status"`
	JoinedAt time.Time           `gorm:"not null" json:"joined_at"`
	LeftAt   *time.Time          `json:"left_at,omitempty"`
}

func (Participation) TableName() string {
	return "participations"
}
