package models

import (
	"time"
)

const (
	FeedbackUpvote   = 1
	FeedbackDownvote = -1
)

// PostReaction holds a single +1/-1 per (user, post). The engagement service
// keeps the pair unique; the table has no unique index.
type PostReaction struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index:idx_reaction_user_post" json:"user_id"`
	User          User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PostID        uint      `gorm:"not null;index:idx_reaction_user_post;index" json:"post_id"`
	Post          Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	FeedbackValue int       `gorm:"not null" json:"feedback_value"`
	Time          time.Time `gorm:"autoCreateTime;index" json:"time"`
}
