package models

import (
	"time"

	"gorm.io/gorm"
)

// AccountStatus is the lifecycle state of an account. Deactivated accounts keep their row.
type AccountStatus string

const (
	AccountStatusActive      AccountStatus = "ACTIVE"
	AccountStatusDeactivated AccountStatus = "DEACTIVATED"
)

type User struct {
	Base
	Email          string        `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash   string        `gorm:"not null" json:"-"`
	Name           string        `gorm:"size:100;not null" json:"name"`
	Bio            string        `gorm:"size:500" json:"bio,omitempty"`
	ProfilePicture string        `gorm:"size:500" json:"profile_picture,omitempty"`
	RegisteredAt   time.Time     `gorm:"<-:create;not null" json:"registered_at"`
	Status         AccountStatus `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if err := u.Base.BeforeCreate(tx); err != nil {
		return err
	}
	if u.RegisteredAt.IsZero() {
		u.RegisteredAt = time.Now().UTC()
	}
	if u.Status == "" {
		u.Status = AccountStatusActive
	}
	return nil
}

func (u *User) IsActive() bool {
	return u.Status == AccountStatusActive
}
