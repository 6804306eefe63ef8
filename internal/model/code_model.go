package model

import "time"

// Code is a single-use authorization code. Lifecycle: issued, then either
// consumed exactly once or left to expire. Never updated otherwise.
type Code struct {
	ID          uint      `gorm:"column:id;primaryKey"`
	Value       string    `gorm:"column:value;index;not null"`
	ClientID    uint      `gorm:"column:client_id;not null"`
	RedirectURI string    `gorm:"column:redirect_uri;not null"`
	ValidUntil  time.Time `gorm:"column:valid_until;not null"`
	IsUsed      bool      `gorm:"column:is_used;default:false;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (Code) TableName() string {
	return "codes"
}

func (c *Code) IsExpired() bool {
	return time.Now().After(c.ValidUntil)
}

func (c *Code) IsValid() bool {
	return !c.IsUsed && !c.IsExpired()
}
