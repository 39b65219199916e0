package models

import (
	"time"
)

type ReportPost struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReporterID uint      `gorm:"not null;index" json:"reporter_id"`
	Reporter   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"reporter"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	Post       Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	Reason     string    `gorm:"size:1024;not null" json:"reason"`
	IsResolved bool      `gorm:"default:false" json:"is_resolved"`
	Time       time.Time `gorm:"autoCreateTime" json:"time"`
}

type ReportUser struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ReporterID     uint      `gorm:"not null;index" json:"reporter_id"`
	Reporter       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"reporter"`
	ReportedUserID uint      `gorm:"not null;index" json:"reported_user_id"`
	ReportedUser   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"reported_user"`
	Reason         string    `gorm:"size:1024;not null" json:"reason"`
	IsResolved     bool      `gorm:"default:false" json:"is_resolved"`
	Time           time.Time `gorm:"autoCreateTime" json:"time"`
}
