package models

type User struct {
	BaseModel
	Email        string  `gorm:"type:text;not null;uniqueIndex" json:"email,omitempty"`
	Nickname     string  `gorm:"type:text;not null;uniqueIndex" json:"nickname"`
	PasswordHash string  `gorm:"type:text;not null"             json:"-"`
	ProfileImage *string `gorm:"type:text"                      json:"profileImage,omitempty"`
}

// UserProfile is the public view of a User, used for writers and tagged members.
type UserProfile struct {
	ID           int     `json:"id"`
	Nickname     string  `json:"nickname"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:           u.ID,
		Nickname:     u.Nickname,
		ProfileImage: u.ProfileImage,
	}
}
