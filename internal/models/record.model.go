package models

import "time"

// Record is a single attempt at a theme, owned by its writer.
type Record struct {
	BaseModel
	WriterID  int       `gorm:"type:int;not null;index"  json:"writerId"`
	Writer    *User     `gorm:"foreignKey:WriterID"      json:"writer,omitempty"`
	ThemeID   int       `gorm:"type:int;not null;index"  json:"themeId"`
	Theme     *Theme    `gorm:"foreignKey:ThemeID"       json:"theme,omitempty"`
	PlayDate  time.Time `gorm:"not null"                 json:"playDate"`
	IsSuccess bool      `gorm:"type:bool;default:false"  json:"isSuccess"`
	HeadCount int       `gorm:"type:int;not null"        json:"headCount"`
	HintCount *int      `gorm:"type:int"                 json:"hintCount,omitempty"`
	PlayTime  *int      `gorm:"type:int"                 json:"playTime,omitempty"`
	Image     *string   `gorm:"type:text"                json:"image,omitempty"`
	Note      *string   `gorm:"type:text"                json:"note,omitempty"`
	Tags      []Tag     `gorm:"foreignKey:RecordID"      json:"tags,omitempty"`
	Reviews   []Review  `gorm:"foreignKey:RecordID"      json:"reviews,omitempty"`
}
