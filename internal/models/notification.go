package models

import (
	"time"
)

type NotificationType int

const (
	NotifyLike    NotificationType = 0
	NotifyComment NotificationType = 1
	NotifyReply   NotificationType = 2
)

func (t NotificationType) String() string {
	switch t {
	case NotifyLike:
		return "like"
	case NotifyComment:
		return "comment"
	case NotifyReply:
		return "reply"
	}
	return "unknown"
}

type Notification struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	ActionUserID  uint             `gorm:"not null;index" json:"action_user_id"`
	ActionUser    User             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"action_user"`
	ReceiveUserID uint             `gorm:"not null;index" json:"receive_user_id"`
	ReceiveUser   User             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	TypeNotify    NotificationType `gorm:"not null" json:"type_notify"`
	Content       uint             `gorm:"not null;index" json:"content"` // post id
	IsRead        bool             `gorm:"default:false;index" json:"is_read"`
	Time          time.Time        `gorm:"autoCreateTime;index" json:"time"`
}
