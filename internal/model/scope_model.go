package model

import "time"

type Scope struct {
	ID   uint   `gorm:"column:id;primaryKey"`
	Type string `gorm:"column:type;uniqueIndex;not null"`
}

func (Scope) TableName() string {
	return "scopes"
}

// ClientScope is the many-to-many grant relation between clients and scopes.
type ClientScope struct {
	ClientID  uint      `gorm:"column:client_id;primaryKey"`
	ScopeID   uint      `gorm:"column:scope_id;primaryKey"`
	GrantedAt time.Time `gorm:"column:granted_at"`
}

func (ClientScope) TableName() string {
	return "client_scopes"
}
