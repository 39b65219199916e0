package models

import (
	"time"
)

type PointLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PostID    *uint     `gorm:"index" json:"post_id"`
	Amount    int       `gorm:"not null" json:"amount"`          // positive credit, negative debit
	Action    string    `gorm:"size:100;not null" json:"action"` // ledger description
	CreatedAt time.Time `json:"created_at"`
}
