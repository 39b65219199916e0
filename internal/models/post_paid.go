package models

import (
	"time"
)

// PostPaid is the one-time unlock of a private post by a user. The unique
// index settles concurrent purchases of the same post.
type PostPaid struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uint      `gorm:"not null;uniqueIndex:idx_paid_user_post" json:"user_id"`
	User   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PostID uint      `gorm:"not null;uniqueIndex:idx_paid_user_post" json:"post_id"`
	Post   Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	Time   time.Time `gorm:"autoCreateTime" json:"time"`
}
