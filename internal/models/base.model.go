package models

import (
	"time"

	"gorm.io/gorm"
)

type BaseModel struct {
	ID        int            `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime"                    json:"createdAt,omitzero"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"                    json:"updatedAt,omitzero"`
	DeletedAt gorm.DeletedAt `gorm:"index"                             json:"-"`
}
