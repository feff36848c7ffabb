package models

type Store struct {
	BaseModel
	Name     string  `gorm:"type:text;not null;index" json:"name"`
	Address  string  `gorm:"type:text"                json:"address"`
	Phone    *string `gorm:"type:text"                json:"phone,omitempty"`
	Homepage *string `gorm:"type:text"                json:"homepage,omitempty"`
	Themes   []Theme `gorm:"foreignKey:StoreID"       json:"themes,omitempty"`
}
