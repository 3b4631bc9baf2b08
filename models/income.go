package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Income is an expected deposit. Like a Bill it recurs from StartFreq;
// nothing lands on the account until a deposit is verified.
type Income struct {
	Base
	AccountID   uuid.UUID       `json:"account_id" gorm:"type:char(36);not null;index"`
	Name        string          `json:"name" gorm:"size:64;not null"`
	Description string          `json:"description" gorm:"size:255"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null;default:0"`
	Frequency   Frequency       `json:"frequency" gorm:"size:16;not null"`
	StartFreq   time.Time       `json:"start_freq" gorm:"not null"`
	Enabled     bool            `json:"enabled" gorm:"not null;default:true"`
	Account     Account         `json:"-" gorm:"foreignKey:AccountID"`
}

func (Income) TableName() string {
	return "incomes"
}
