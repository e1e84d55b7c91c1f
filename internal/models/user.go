package models

import (
	"time"
)

// User is a registered account. The password column stores a bcrypt
// hash and never leaves the API.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Email     string    `gorm:"size:255" json:"email,omitempty"`
	Phone     string    `gorm:"size:20" json:"phone,omitempty"`
	FPLTeamID *int      `gorm:"column:fpl_team_id" json:"fpl_team_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
