package models

import (
	"time"

	"github.com/google/uuid"
)

type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "ACTIVE"
	PlanStatusFull      PlanStatus = "FULL"
	PlanStatusCancelled PlanStatus = "CANCELLED"
	PlanStatusCompleted PlanStatus = "COMPLETED"
)

func (s PlanStatus) Valid() bool {
	switch s {
	case PlanStatusActive, PlanStatusFull, PlanStatusCancelled, PlanStatusCompleted:
		return true
	}
	return false
}

// Plan is an event. The creator counts towards CurrentParticipants but has no
// Participation row.
type Plan struct {
	Base
	Title               string     `gorm:"size:100;not null" json:"title"`
	Description         string     `gorm:"type:text" json:"description"`
	CategoryID          uuid.UUID  `gorm:"type:uuid;index;not null" json:"category_id"`
	CreatorID           uuid.UUID  `gorm:"type:uuid;index;not null" json:"creator_id"`
	Location            string     `gorm:"size:200;not null" json:"location"`
	Latitude            *float64   `json:"latitude,omitempty"`
	Longitude           *float64   `json:"longitude,omitempty"`
	EventDate           time.Time  `gorm:"index;not null" json:"event_date"`
	MaxParticipants     int        `gorm:"not null" json:"max_participants"`
	CurrentParticipants int        `gorm:"not null;default:1" json:"current_participants"`
	Status              PlanStatus `gorm:"size:20;index;not null;default:'ACTIVE'" json:"status"`
	ImageURL            string     `gorm:"size:500" json:"image_url,omitempty"`
}

func (Plan) TableName() string {
	return "plans"
}

func (p *Plan) IsFull() bool {
	return p.CurrentParticipants >= p.MaxParticipants
}

func (p *Plan) CanJoin() bool {
	return p.Status == PlanStatusActive && !p.IsFull()
}

// IsOpen reports whether the plan is in the ACTIVE/FULL pair, the only
// statuses that capacity changes may flip between.
func (p *Plan) IsOpen() bool {
	return p.Status == PlanStatusActive || p.Status == PlanStatusFull
}

// SyncCapacityStatus flips an open plan between ACTIVE and FULL.
// Terminal statuses are left alone.
func (p *Plan) SyncCapacityStatus() {
	if !p.IsOpen() {
		return
	}
	if p.IsFull() {
		p.Status = PlanStatusFull
	} else {
		p.Status = PlanStatusActive
	}
}
