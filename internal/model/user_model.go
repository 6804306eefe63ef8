package model

import "time"

type User struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Username  string    `gorm:"column:username;uniqueIndex;not null"`
	Password  string    `gorm:"column:password;not null"` // formatted hash-string, never plaintext
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}
