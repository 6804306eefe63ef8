package model

import "time"

type Client struct {
	ID                uint       `gorm:"column:id;primaryKey"`
	UserID            uint       `gorm:"column:user_id;not null"`
	Name              string     `gorm:"column:name;uniqueIndex;not null"`
	Secret            string     `gorm:"column:secret;uniqueIndex;not null"` // immutable after creation
	LastAuthenticated *time.Time `gorm:"column:last_authenticated"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
}

func (Client) TableName() string {
	return "clients"
}
