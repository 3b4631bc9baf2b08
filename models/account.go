package models

import (
	"github.com/shopspring/decimal"
)

// Account is a pool of money that bills draw from and income lands in.
type Account struct {
	Base
	Name        string          `json:"name" gorm:"size:64;not null;index"`
	AccountType AccountType     `json:"account_type" gorm:"size:32;not null"`
	Description string          `json:"description" gorm:"size:255"`
	Balance     decimal.Decimal `json:"balance" gorm:"type:decimal(20,2);not null;default:0"`
	Enabled     bool            `json:"enabled" gorm:"not null;default:true"`
}

func (Account) TableName() string {
	return "accounts"
}
