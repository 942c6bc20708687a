package model

import "time"

// User is an admin dashboard account.
type User struct {
	ID          int64      `gorm:"primaryKey"`
	Name        string     `gorm:"size:255;not null"`
	Email       string     `gorm:"size:255;uniqueIndex;not null"`
	Password    string     `gorm:"not null"` // bcrypt hash
	Role        string     `gorm:"size:50;not null;default:'admin'"`
	LastLoginAt *time.Time `gorm:"column:lastlogin_at"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RefreshToken is an issued refresh JWT; deleting the row revokes it.
type RefreshToken struct {
	ID        int64  `gorm:"primaryKey"`
	Token     string `gorm:"type:text;uniqueIndex;not null"`
	UserID    int64  `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
