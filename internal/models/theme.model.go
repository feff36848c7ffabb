package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Theme struct {
	BaseModel
	StoreID      int             `gorm:"type:int;not null;index" json:"storeId"`
	Store        *Store          `gorm:"foreignKey:StoreID"      json:"store,omitempty"`
	Name         string          `gorm:"type:text;not null"      json:"name"`
	Genres       datatypes.JSON  `gorm:"type:jsonb"              json:"genres,omitempty"`
	Difficulty   int             `gorm:"type:int;default:3"      json:"difficulty"`
	PlayTime     int             `gorm:"type:int;not null"       json:"playTime"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2)"      json:"price"`
	MinHeadCount int             `gorm:"type:int;default:1"      json:"minHeadCount"`
	MaxHeadCount int             `gorm:"type:int;default:6"      json:"maxHeadCount"`
	Image        *string         `gorm:"type:text"               json:"image,omitempty"`
	Description  string          `gorm:"type:text"               json:"description"`
}

// ThemeStats is the cached review aggregate for a theme, refreshed by the stats job.
type ThemeStats struct {
	ThemeID       int             `json:"themeId"`
	ReviewCount   int64           `json:"reviewCount"`
	AverageRating decimal.Decimal `json:"averageRating"`
}
