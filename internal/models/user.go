package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/plugin/soft_delete"
)

const MaxAchievement = 5

var ErrAchievementRange = errors.New("achievement must be between 0 and 5")

type User struct {
	ID            uint                  `gorm:"primaryKey" json:"id"`
	Username      string                `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email         string                `gorm:"size:254" json:"-"`
	Password      string                `gorm:"not null" json:"-"` // bcrypt hash
	FirstName     string                `gorm:"size:150" json:"first_name"`
	LastName      string                `gorm:"size:150" json:"last_name"`
	IsStaff       bool                  `gorm:"default:false" json:"is_staff"`
	Achievement   int                   `gorm:"default:0" json:"achievement"` // 0..5
	Points        int                   `gorm:"default:0" json:"-"`
	AvatarLink    string                `gorm:"size:1024" json:"avatar_link"`
	Phone         string                `gorm:"size:10" json:"-"`
	CountViolated int                   `gorm:"default:0" json:"count_violated"`
	TimeBanned    *time.Time            `json:"time_banned"` // banned until
	IsDeleted     soft_delete.DeletedAt `gorm:"softDelete:flag;index" json:"-"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// BeforeSave keeps the achievement tier inside its display range.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Achievement < 0 || u.Achievement > MaxAchievement {
		return ErrAchievementRange
	}
	return nil
}

// IsBanned reports whether a ban is still running at now.
func (u *User) IsBanned(now time.Time) bool {
	return u.TimeBanned != nil && now.Before(*u.TimeBanned)
}

// FullName falls back to the username when no name is set.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "" || u.LastName != "":
		return u.FirstName + u.LastName
	}
	return u.Username
}
