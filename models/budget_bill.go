package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetBill attaches a bill to a budget window. Account, transfer
// account and amount are snapshotted from the bill at attach time so a
// later bill edit does not rewrite history. DueDate is null for
// always-frequency bills. PaidAmount/PaidOn are written exactly once,
// by the ledger, when the attachment is paid.
type BudgetBill struct {
	Base
	BudgetID          uuid.UUID       `json:"budget_id" gorm:"type:char(36);not null;index"`
	BillID            uuid.UUID       `json:"bill_id" gorm:"type:char(36);not null;index"`
	AccountID         uuid.UUID       `json:"account_id" gorm:"type:char(36);not null"`
	TransferAccountID *uuid.UUID      `json:"transfer_account_id" gorm:"type:char(36)"`
	BudgetedAmount    decimal.Decimal `json:"budgeted_amount" gorm:"type:decimal(20,2);not null;default:0"`
	DueDate           *time.Time      `json:"due_date"`
	PaidAmount        decimal.Decimal `json:"paid_amount" gorm:"type:decimal(20,2);not null;default:0"`
	PaidOn            *time.Time      `json:"paid_on"`
	Note              string          `json:"note" gorm:"size:255"`
	Budget            Budget          `json:"-" gorm:"foreignKey:BudgetID"`
	Bill              Bill            `json:"-" gorm:"foreignKey:BillID"`
}

func (BudgetBill) TableName() string {
	return "budget_bills"
}

// Paid reports whether the attachment has already been settled.
func (b *BudgetBill) Paid() bool {
	return b.PaidOn != nil || b.PaidAmount.IsPositive()
}
