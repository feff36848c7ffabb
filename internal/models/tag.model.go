package models

import "time"

// Tag marks a user as having played in a record. Tags are never hard deleted:
// removal stamps RemovedAt and every lookup filters on removed_at IS NULL.
// Re-adding a removed member inserts a new row.
type Tag struct {
	ID         int        `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt  time.Time  `gorm:"autoCreateTime"                              json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime"                              json:"updatedAt"`
	UserID     int        `gorm:"type:int;not null;index:idx_tags_user_record" json:"userId"`
	User       *User      `gorm:"foreignKey:UserID"                           json:"user,omitempty"`
	RecordID   int        `gorm:"type:int;not null;index:idx_tags_user_record;index" json:"recordId"`
	Record     *Record    `gorm:"foreignKey:RecordID"                         json:"record,omitempty"`
	IsWriter   bool       `gorm:"type:bool;not null;default:false"            json:"isWriter"`
	Visibility bool       `gorm:"type:bool;not null;default:true"             json:"visibility"`
	RemovedAt  *time.Time `gorm:"index"                                       json:"removedAt,omitempty"`
}

func (t *Tag) IsActive() bool {
	return t.RemovedAt == nil
}

// NewMemberTag builds the tag a party member receives when added to a record.
func NewMemberTag(userID, recordID int) *Tag {
	return &Tag{
		UserID:     userID,
		RecordID:   recordID,
		IsWriter:   false,
		Visibility: true,
	}
}

// NewWriterTag builds the single writer tag created alongside a record.
func NewWriterTag(userID, recordID int) *Tag {
	return &Tag{
		UserID:     userID,
		RecordID:   recordID,
		IsWriter:   true,
		Visibility: true,
	}
}
