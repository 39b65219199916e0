package models

import (
	"time"
)

// Bookmark marks a post saved by a user.
type Bookmark struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uint      `gorm:"not null;index:idx_bookmark_user_post" json:"user_id"`
	PostID uint      `gorm:"not null;index:idx_bookmark_user_post;index" json:"post_id"`
	Post   Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	Time   time.Time `gorm:"autoCreateTime" json:"time"`
}

// Follow means Follower follows Followed.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;index:idx_follow_pair" json:"follower_id"`
	Follower   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	FollowedID uint      `gorm:"not null;index:idx_follow_pair;index" json:"followed_id"`
	Followed   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Time       time.Time `gorm:"autoCreateTime" json:"time"`
}
