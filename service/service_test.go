package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hornetmadness/MyBudget/config"
	"github.com/hornetmadness/MyBudget/database"
	"github.com/hornetmadness/MyBudget/models"
)

// setupTestDB points database.DB at a fresh sqlite file for one test,
// migrated and seeded the same way the real boot path does it.
func setupTestDB(t *testing.T) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "mybudget_test.db")

	old := database.DB
	require.NoError(t, database.Init(cfg))
	t.Cleanup(func() {
		if sqlDB, err := database.DB.DB(); err == nil {
			sqlDB.Close()
		}
		database.DB = old
	})
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func makeAccount(t *testing.T, name, balance string) *models.Account {
	t.Helper()
	account := &models.Account{
		Name:        name,
		AccountType: models.AccountTypeChecking,
		Balance:     mustDecimal(t, balance),
		Enabled:     true,
	}
	require.NoError(t, database.DB.Create(account).Error)
	return account
}

func makeBill(t *testing.T, account *models.Account, name, amount string, freq models.Frequency, start time.Time) *models.Bill {
	t.Helper()
	bill := &models.Bill{
		AccountID:      account.ID,
		Name:           name,
		BudgetedAmount: mustDecimal(t, amount),
		Frequency:      freq,
		PaymentMethod:  models.PaymentMethodManual,
		StartFreq:      start,
		Enabled:        true,
	}
	require.NoError(t, database.DB.Create(bill).Error)
	return bill
}

func makeIncome(t *testing.T, account *models.Account, name, amount string, freq models.Frequency, start time.Time) *models.Income {
	t.Helper()
	income := &models.Income{
		AccountID: account.ID,
		Name:      name,
		Amount:    mustDecimal(t, amount),
		Frequency: freq,
		StartFreq: start,
		Enabled:   true,
	}
	require.NoError(t, database.DB.Create(income).Error)
	return income
}

func reloadAccount(t *testing.T, account *models.Account) *models.Account {
	t.Helper()
	var fresh models.Account
	require.NoError(t, database.DB.First(&fresh, "id = ?", account.ID).Error)
	return &fresh
}

func countTransactions(t *testing.T, account *models.Account) int64 {
	t.Helper()
	var n int64
	require.NoError(t, database.DB.Model(&models.Transaction{}).
		Where("account_id = ?", account.ID).Count(&n).Error)
	return n
}
