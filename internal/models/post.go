package models

import (
	"time"

	"gorm.io/plugin/soft_delete"
)

// Post modes
const (
	ModePublic  = 0
	ModePrivate = 1
)

// Post moderation states
const (
	StatusDraft    = 0
	StatusNormal   = 1
	StatusDeleted  = 2
	StatusBanned   = 3
	StatusPending  = 4
	StatusRejected = 5
)

type Post struct {
	ID         uint                  `gorm:"primaryKey" json:"id"`
	UserID     uint                  `gorm:"not null;index" json:"user_id"`
	User       User                  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Title      string                `gorm:"size:255;not null" json:"title"`
	Content    string                `gorm:"type:text;not null" json:"content"`
	Mode       int                   `gorm:"default:0;not null" json:"mode"`
	Status     int                   `gorm:"not null;index" json:"status"`
	ViewCount  int                   `gorm:"default:0" json:"view_count"`
	Categories []Category            `gorm:"many2many:post_categories;" json:"categories"`
	HashTags   []HashTag             `gorm:"many2many:post_hashtags;" json:"hashtags"`
	IsDeleted  soft_delete.DeletedAt `gorm:"softDelete:flag;index" json:"-"`
	CreatedAt  time.Time             `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

func (p *Post) IsPrivate() bool {
	return p.Mode == ModePrivate
}

// StatusName is the lifecycle label shown to owners and staff.
func StatusName(status int) string {
	switch status {
	case StatusDraft:
		return "draft"
	case StatusNormal:
		return "normal"
	case StatusDeleted:
		return "deleted"
	case StatusBanned:
		return "banned"
	case StatusPending:
		return "pending"
	case StatusRejected:
		return "rejected"
	}
	return "unknown"
}
