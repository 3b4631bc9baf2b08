package models

import (
	"time"
)

// Budget is a planning window. Start and end are whole days, inclusive
// on both ends, and live budgets may never overlap each other.
type Budget struct {
	Base
	Name        string    `json:"name" gorm:"size:64;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null;index"`
	EndDate     time.Time `json:"end_date" gorm:"not null;index"`
	Description string    `json:"description" gorm:"size:255"`
	Enabled     bool      `json:"enabled" gorm:"not null;default:true"`
}

func (Budget) TableName() string {
	return "budgets"
}
