package models

// User is a library member. Username is stored trimmed and lower-cased so the
// unique index enforces case-insensitive uniqueness.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Username string `gorm:"uniqueIndex:idx_users_username;not null" json:"username"`
}

func (User) TableName() string {
	return "users"
}
