package auth

import "time"

type Session struct {
	SessionID string    `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"not null;unique" json:"-"`
	ExpiresAt time.Time `gorm:"not null"`
}

// User is a staff login for the map pages.
type User struct {
	UserID         string `gorm:"primaryKey" json:"user_id"`
	Username       string `gorm:"not null;uniqueIndex" json:"username"`
	Password       string `json:"password" gorm:"-"`
	HashedPassword string `json:"-"`
	Role           string `gorm:"default:'viewer'" json:"role"`
}

func (Session) TableName() string { return "map_auth.sessions" }
func (User) TableName() string    { return "map_auth.users" }
