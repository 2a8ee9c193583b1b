package models

// UserPreference keeps presentation settings for a chat user.
type UserPreference struct {
	UserID   int64  `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	Language string `gorm:"column:lang;type:varchar(8);not null;default:'ru'"`
}

func (UserPreference) TableName() string {
	return "users"
}
