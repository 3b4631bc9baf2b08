package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod records how a bill usually gets paid. It is descriptive
// only; the ledger treats every payment the same.
type PaymentMethod string

const (
	PaymentMethodManual    PaymentMethod = "manual"
	PaymentMethodAutomatic PaymentMethod = "automatic"
	PaymentMethodTransfer  PaymentMethod = "transfer"
	PaymentMethodOther     PaymentMethod = "other"
)

// PaymentMethods lists every valid payment method.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		PaymentMethodManual,
		PaymentMethodAutomatic,
		PaymentMethodTransfer,
		PaymentMethodOther,
	}
}

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodManual, PaymentMethodAutomatic, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}
	return false
}

// Bill is a recurring obligation. StartFreq anchors the recurrence: the
// schedule of a monthly bill starting Jan 15 is the 15th of each month.
// TransferAccountID marks bills that move money to another account when
// paid (credit card payments and the like).
type Bill struct {
	Base
	AccountID         uuid.UUID       `json:"account_id" gorm:"type:char(36);not null;index"`
	CategoryID        *uuid.UUID      `json:"category_id" gorm:"type:char(36);index"`
	TransferAccountID *uuid.UUID      `json:"transfer_account_id" gorm:"type:char(36)"`
	Name              string          `json:"name" gorm:"size:64;not null"`
	Description       string          `json:"description" gorm:"size:255"`
	BudgetedAmount    decimal.Decimal `json:"budgeted_amount" gorm:"type:decimal(20,2);not null;default:0"`
	Frequency         Frequency       `json:"frequency" gorm:"size:16;not null"`
	PaymentMethod     PaymentMethod   `json:"payment_method" gorm:"size:16;not null;default:manual"`
	StartFreq         time.Time       `json:"start_freq" gorm:"not null"`
	Enabled           bool            `json:"enabled" gorm:"not null;default:true"`
	Account           Account         `json:"-" gorm:"foreignKey:AccountID"`
}

func (Bill) TableName() string {
	return "bills"
}
