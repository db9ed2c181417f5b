package model

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string    `gorm:"type:varchar(32)" json:"first_name"`
	LastName     string    `gorm:"type:varchar(32)" json:"last_name"`
	Email        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:hashed_password;type:varchar(100);not null" json:"-"`
	Active       bool      `gorm:"not null" json:"active"`
	Staff        bool      `gorm:"not null" json:"staff"`
	Admin        bool      `gorm:"not null" json:"admin"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// CanAccessBackOffice reports whether the user may use the admin API.
func (u User) CanAccessBackOffice() bool {
	return u.Active && (u.Staff || u.Admin)
}
