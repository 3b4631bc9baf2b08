package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType marks which side of the ledger an entry is on.
type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionCredit || t == TransactionDebit
}

// Transaction is one append-only ledger entry. There is deliberately no
// UpdatedAt and no DeletedAt: entries are never modified or removed, a
// correction is a new entry. BudgetBillID links payment entries back to
// the attachment that produced them.
type Transaction struct {
	ID              uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	AccountID       uuid.UUID       `json:"account_id" gorm:"type:char(36);not null;index"`
	BudgetBillID    *uuid.UUID      `json:"budget_bill_id" gorm:"type:char(36);index"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	TransactionType TransactionType `json:"transaction_type" gorm:"size:8;not null"`
	OccurredAt      time.Time       `json:"occurred_at" gorm:"not null;index"`
	CreatedAt       time.Time       `json:"created_at"`
	Note            string          `json:"note" gorm:"size:255"`
	Account         Account         `json:"-" gorm:"foreignKey:AccountID"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// BeforeCreate assigns the primary key when the caller did not.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		t.ID = id
	}
	return nil
}
