package model

import "time"

// ErrorLog stores a diagnostic record for a failed write request. It is
// written outside the failed transaction.
type ErrorLog struct {
	ID           int64     `gorm:"primaryKey"`
	Timestamp    time.Time `gorm:"not null"`
	Endpoint     string    `gorm:"not null"`
	RequestBody  string    `gorm:"type:text"`
	ErrorMessage string    `gorm:"type:text;not null"`
	StackTrace   *string   `gorm:"type:text"`
	CreatedAt    time.Time
}
