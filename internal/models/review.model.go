package models

import "github.com/shopspring/decimal"

type Review struct {
	BaseModel
	WriterID int             `gorm:"type:int;not null;index:idx_reviews_writer_record" json:"writerId"`
	Writer   *User           `gorm:"foreignKey:WriterID"                               json:"writer,omitempty"`
	RecordID int             `gorm:"type:int;not null;index:idx_reviews_writer_record" json:"recordId"`
	ThemeID  int             `gorm:"type:int;not null;index"                           json:"themeId"`
	Rating   decimal.Decimal `gorm:"type:decimal(2,1);not null"                        json:"rating"`
	Content  string          `gorm:"type:text"                                         json:"content"`
}
