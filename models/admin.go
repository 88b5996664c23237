// models/admin.go
package models

import "time"

// AdminUser is an instructor/operator account with access to the admin console.
// Participants never get rows here; they authenticate through access codes.
type AdminUser struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Password  string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
