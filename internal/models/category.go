package models

import (
	"time"

	"gorm.io/plugin/soft_delete"
)

type Category struct {
	ID        uint                  `gorm:"primaryKey" json:"id"`
	Name      string                `gorm:"size:255;not null" json:"name"`
	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag;index" json:"-"`
	CreatedAt time.Time             `json:"created_at"`
}

// HashTag rows are created on demand by name.
type HashTag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;uniqueIndex;not null" json:"name"`
}
