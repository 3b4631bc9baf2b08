package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hornetmadness/MyBudget/database"
	"github.com/hornetmadness/MyBudget/models"
)

// LedgerService is the only writer of account balances. Every mutation
// runs inside one storage transaction that locks the account rows it
// touches, appends the matching Transaction entries and updates the
// balances together. Overdrafts are allowed: balances go negative
// rather than a payment being refused.
type LedgerService struct{}

// NewLedgerService creates the ledger writer.
func NewLedgerService() *LedgerService {
	return &LedgerService{}
}

// LedgerEntry is the result of a single-account mutation.
type LedgerEntry struct {
	Account     *models.Account     `json:"account"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

// TransferResult is the result of moving money between two accounts.
type TransferResult struct {
	FromAccount *models.Account     `json:"from_account"`
	ToAccount   *models.Account     `json:"to_account"`
	Debit       *models.Transaction `json:"debit"`
	Credit      *models.Transaction `json:"credit"`
}

// lockAccount loads a live account for update. MySQL readers need the
// explicit row lock; sqlite write transactions already exclude each
// other.
func lockAccount(tx *gorm.DB, id uuid.UUID) (*models.Account, error) {
	q := tx
	if tx.Dialector.Name() == "mysql" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var account models.Account
	if err := q.First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("account %s not found", id)
		}
		return nil, err
	}
	return &account, nil
}

func (s *LedgerService) write(accountID uuid.UUID, amount decimal.Decimal, txType models.TransactionType, budgetBillID *uuid.UUID, note string, occurredAt time.Time) (*LedgerEntry, error) {
	var entry LedgerEntry
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, accountID)
		if err != nil {
			return err
		}

		if txType == models.TransactionCredit {
			account.Balance = account.Balance.Add(amount)
		} else {
			account.Balance = account.Balance.Sub(amount)
		}
		if err := tx.Model(account).Update("balance", account.Balance).Error; err != nil {
			return err
		}

		txn := models.Transaction{
			AccountID:       account.ID,
			BudgetBillID:    budgetBillID,
			Amount:          amount,
			TransactionType: txType,
			OccurredAt:      occurredAt,
			Note:            note,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		entry.Account = account
		entry.Transaction = &txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// AddFunds credits the account.
func (s *LedgerService) AddFunds(accountID uuid.UUID, amount decimal.Decimal, note string) (*LedgerEntry, error) {
	if !amount.IsPositive() {
		return nil, NewValidationError("amount must be greater than zero")
	}
	if note == "" {
		note = "Funds added to account"
	}
	return s.write(accountID, amount, models.TransactionCredit, nil, note, time.Now().UTC())
}

// DeductFunds debits the account. The balance may go negative.
func (s *LedgerService) DeductFunds(accountID uuid.UUID, amount decimal.Decimal, note string) (*LedgerEntry, error) {
	if !amount.IsPositive() {
		return nil, NewValidationError("amount must be greater than zero")
	}
	if note == "" {
		note = "Funds deducted from account"
	}
	return s.write(accountID, amount, models.TransactionDebit, nil, note, time.Now().UTC())
}

// Transfer moves amount between two accounts atomically, writing a
// debit on the source and a credit on the destination. The sum of the
// two balances is unchanged.
func (s *LedgerService) Transfer(fromID, toID uuid.UUID, amount decimal.Decimal, note string) (*TransferResult, error) {
	if !amount.IsPositive() {
		return nil, NewValidationError("amount must be greater than zero")
	}
	if fromID == toID {
		return nil, NewValidationError("cannot transfer to the same account")
	}

	var res TransferResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// lock in a fixed order so opposite transfers cannot deadlock
		first, second := fromID, toID
		if second.String() < first.String() {
			first, second = second, first
		}
		a1, err := lockAccount(tx, first)
		if err != nil {
			return err
		}
		a2, err := lockAccount(tx, second)
		if err != nil {
			return err
		}
		from, to := a1, a2
		if from.ID != fromID {
			from, to = a2, a1
		}

		now := time.Now().UTC()
		debitNote := note
		if debitNote == "" {
			debitNote = fmt.Sprintf("Transfer to %s", to.Name)
		}
		creditNote := note
		if creditNote == "" {
			creditNote = fmt.Sprintf("Transfer from %s", from.Name)
		}

		from.Balance = from.Balance.Sub(amount)
		if err := tx.Model(from).Update("balance", from.Balance).Error; err != nil {
			return err
		}
		to.Balance = to.Balance.Add(amount)
		if err := tx.Model(to).Update("balance", to.Balance).Error; err != nil {
			return err
		}

		debit := models.Transaction{
			AccountID:       from.ID,
			Amount:          amount,
			TransactionType: models.TransactionDebit,
			OccurredAt:      now,
			Note:            debitNote,
		}
		if err := tx.Create(&debit).Error; err != nil {
			return err
		}
		credit := models.Transaction{
			AccountID:       to.ID,
			Amount:          amount,
			TransactionType: models.TransactionCredit,
			OccurredAt:      now,
			Note:            creditNote,
		}
		if err := tx.Create(&credit).Error; err != nil {
			return err
		}

		res = TransferResult{FromAccount: from, ToAccount: to, Debit: &debit, Credit: &credit}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// PayBudgetBillInput carries the optional overrides for a payment.
type PayBudgetBillInput struct {
	Amount *decimal.Decimal
	Note   string
	PaidOn *time.Time
}

// PayBudgetBill settles one budget attachment: exactly one debit
// against the funding account, plus a matching credit on the transfer
// account when the attachment has one. Paying an attachment twice is
// rejected; a correction means a new ledger entry, not a rewrite.
func (s *LedgerService) PayBudgetBill(budgetID, budgetBillID uuid.UUID, in PayBudgetBillInput) (*models.BudgetBill, error) {
	var paid models.BudgetBill
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var budget models.Budget
		if err := tx.First(&budget, "id = ?", budgetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("budget %s not found", budgetID)
			}
			return err
		}

		var bb models.BudgetBill
		if err := tx.First(&bb, "id = ? AND budget_id = ?", budgetBillID, budgetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("budget bill %s not found", budgetBillID)
			}
			return err
		}

		if bb.Paid() {
			return NewValidationError("budget bill has already been paid")
		}

		amount := bb.BudgetedAmount
		if in.Amount != nil {
			amount = *in.Amount
		}
		if !amount.IsPositive() {
			return NewValidationError("payment amount must be greater than zero")
		}

		account, err := lockAccount(tx, bb.AccountID)
		if err != nil {
			return err
		}

		paidOn := time.Now().UTC()
		if in.PaidOn != nil {
			paidOn = in.PaidOn.UTC()
		}
		note := in.Note
		if note == "" {
			note = fmt.Sprintf("Payment for bill via budget %s", budget.Name)
		}

		account.Balance = account.Balance.Sub(amount)
		if err := tx.Model(account).Update("balance", account.Balance).Error; err != nil {
			return err
		}
		debit := models.Transaction{
			AccountID:       account.ID,
			BudgetBillID:    &bb.ID,
			Amount:          amount,
			TransactionType: models.TransactionDebit,
			OccurredAt:      paidOn,
			Note:            note,
		}
		if err := tx.Create(&debit).Error; err != nil {
			return err
		}

		if bb.TransferAccountID != nil {
			target, err := lockAccount(tx, *bb.TransferAccountID)
			if err != nil {
				return err
			}
			target.Balance = target.Balance.Add(amount)
			if err := tx.Model(target).Update("balance", target.Balance).Error; err != nil {
				return err
			}
			credit := models.Transaction{
				AccountID:       target.ID,
				BudgetBillID:    &bb.ID,
				Amount:          amount,
				TransactionType: models.TransactionCredit,
				OccurredAt:      paidOn,
				Note:            fmt.Sprintf("Transfer from %s: %s", account.Name, note),
			}
			if err := tx.Create(&credit).Error; err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"paid_amount": amount,
			"paid_on":     paidOn,
		}
		if err := tx.Model(&bb).Updates(updates).Error; err != nil {
			return err
		}
		bb.PaidAmount = amount
		bb.PaidOn = &paidOn
		paid = bb
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &paid, nil
}

// VerifyIncome records an expected deposit as real money: a credit on
// the income's account, defaulting to the income's amount.
func (s *LedgerService) VerifyIncome(incomeID uuid.UUID, amount *decimal.Decimal, occurredOn *time.Time) (*LedgerEntry, error) {
	var income models.Income
	if err := database.DB.First(&income, "id = ?", incomeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("income %s not found", incomeID)
		}
		return nil, err
	}

	amt := income.Amount
	if amount != nil {
		amt = *amount
	}
	if !amt.IsPositive() {
		return nil, NewValidationError("amount must be greater than zero")
	}

	when := time.Now().UTC()
	if occurredOn != nil {
		when = occurredOn.UTC()
	}

	return s.write(income.AccountID, amt, models.TransactionCredit, nil,
		fmt.Sprintf("Income verified: %s", income.Name), when)
}

// AdjustBalance sets the balance to an explicit value and records the
// difference as a ledger entry, so even manual corrections leave a
// trail. Setting the current balance is a no-op.
func (s *LedgerService) AdjustBalance(accountID uuid.UUID, newBalance decimal.Decimal, note string) (*LedgerEntry, error) {
	if note == "" {
		note = "Account balance adjustment"
	}
	var entry LedgerEntry
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, accountID)
		if err != nil {
			return err
		}

		diff := newBalance.Sub(account.Balance)
		if diff.IsZero() {
			entry.Account = account
			return nil
		}

		txType := models.TransactionCredit
		if diff.IsNegative() {
			txType = models.TransactionDebit
		}

		account.Balance = newBalance
		if err := tx.Model(account).Update("balance", account.Balance).Error; err != nil {
			return err
		}

		txn := models.Transaction{
			AccountID:       account.ID,
			Amount:          diff.Abs(),
			TransactionType: txType,
			OccurredAt:      time.Now().UTC(),
			Note:            note,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		entry.Account = account
		entry.Transaction = &txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
