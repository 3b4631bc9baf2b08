package api

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hornetmadness/MyBudget/database"
	"github.com/hornetmadness/MyBudget/models"
	"github.com/hornetmadness/MyBudget/service"
)

// seedLedger writes four entries: three on Checking, one on Savings.
func seedLedger(t *testing.T) (*models.Account, *models.Account) {
	ledger := service.NewLedgerService()
	a := seedAccount(t, "Checking", "0.00")
	b := seedAccount(t, "Savings", "0.00")

	_, err := ledger.AddFunds(a.ID, mustDecimal(t, "100.00"), "First deposit")
	require.NoError(t, err)
	_, err = ledger.DeductFunds(a.ID, mustDecimal(t, "40.00"), "Groceries")
	require.NoError(t, err)
	_, err = ledger.AddFunds(a.ID, mustDecimal(t, "60.00"), "Second deposit")
	require.NoError(t, err)
	_, err = ledger.AddFunds(b.ID, mustDecimal(t, "10.00"), "Pocket change")
	require.NoError(t, err)
	return a, b
}

func TestTransactionHandler_ListPaged(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()
	seedLedger(t)

	w := doRequest(r, "GET", "/api/v1/transactions?page_size=2", "")
	assert.Equal(t, 200, w.Code)
	data := dataMap(t, decodeResponse(t, w))
	assert.EqualValues(t, 4, data["total"])
	assert.EqualValues(t, 1, data["page"])
	assert.EqualValues(t, 2, data["page_size"])
	assert.Len(t, data["list"].([]interface{}), 2)

	w = doRequest(r, "GET", "/api/v1/transactions?page=2&page_size=2", "")
	assert.Equal(t, 200, w.Code)
	data = dataMap(t, decodeResponse(t, w))
	assert.EqualValues(t, 2, data["page"])
	assert.Len(t, data["list"].([]interface{}), 2)
}

func TestTransactionHandler_Filters(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()
	_, b := seedLedger(t)

	w := doRequest(r, "GET", "/api/v1/transactions?type=credit", "")
	assert.Equal(t, 200, w.Code)
	assert.EqualValues(t, 3, dataMap(t, decodeResponse(t, w))["total"])

	w = doRequest(r, "GET", "/api/v1/transactions?type=debit", "")
	assert.Equal(t, 200, w.Code)
	assert.EqualValues(t, 1, dataMap(t, decodeResponse(t, w))["total"])

	w = doRequest(r, "GET", "/api/v1/transactions?account_id="+b.ID.String(), "")
	assert.Equal(t, 200, w.Code)
	assert.EqualValues(t, 1, dataMap(t, decodeResponse(t, w))["total"])

	w = doRequest(r, "GET", "/api/v1/transactions?account_id=bogus", "")
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "invalid account_id", decodeResponse(t, w)["message"])

	w = doRequest(r, "GET", "/api/v1/transactions?type=refund", "")
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "invalid transaction type", decodeResponse(t, w)["message"])

	w = doRequest(r, "GET", "/api/v1/transactions?budget_bill_id=bogus", "")
	assert.Equal(t, 400, w.Code)
}

func TestTransactionHandler_DateWindow(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()
	seedLedger(t)

	today := time.Now().UTC().Format("2006-01-02")
	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")

	w := doRequest(r, "GET", "/api/v1/transactions?from="+tomorrow, "")
	assert.Equal(t, 200, w.Code)
	assert.EqualValues(t, 0, dataMap(t, decodeResponse(t, w))["total"])

	// a date-only upper bound includes that whole day
	w = doRequest(r, "GET", "/api/v1/transactions?to="+today, "")
	assert.Equal(t, 200, w.Code)
	assert.EqualValues(t, 4, dataMap(t, decodeResponse(t, w))["total"])

	w = doRequest(r, "GET", "/api/v1/transactions?from=bogus", "")
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, decodeResponse(t, w)["message"], "invalid date")
}

func TestTransactionHandler_Get(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()
	a, _ := seedLedger(t)

	var txn models.Transaction
	require.NoError(t, database.DB.First(&txn, "account_id = ?", a.ID).Error)

	w := doRequest(r, "GET", "/api/v1/transactions/"+txn.ID.String(), "")
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, txn.ID.String(), dataMap(t, decodeResponse(t, w))["id"])

	w = doRequest(r, "GET", "/api/v1/transactions/"+uuid.NewString(), "")
	assert.Equal(t, 404, w.Code)
	assert.Equal(t, "transaction not found", decodeResponse(t, w)["message"])
}

func TestTransactionHandler_ListByAccount(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()
	a, _ := seedLedger(t)

	w := doRequest(r, "GET", "/api/v1/transactions/account/"+a.ID.String(), "")
	assert.Equal(t, 200, w.Code)
	assert.Len(t, dataList(t, decodeResponse(t, w)), 3)

	w = doRequest(r, "GET", "/api/v1/transactions/account/"+a.ID.String()+"?limit=2", "")
	assert.Equal(t, 200, w.Code)
	assert.Len(t, dataList(t, decodeResponse(t, w)), 2)

	w = doRequest(r, "GET", "/api/v1/transactions/account/"+uuid.NewString(), "")
	assert.Equal(t, 404, w.Code)
	assert.Equal(t, "account not found", decodeResponse(t, w)["message"])
}

func TestTransactionHandler_ListByBudgetBill(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	funding := seedAccount(t, "Checking", "500.00")
	card := seedAccount(t, "Credit Card", "0.00")

	// a transfer-method bill pays out two legs against the same attachment
	bill := &models.Bill{
		AccountID:         funding.ID,
		TransferAccountID: &card.ID,
		Name:              "Card payment",
		BudgetedAmount:    mustDecimal(t, "200.00"),
		Frequency:         models.FrequencyMonthly,
		PaymentMethod:     models.PaymentMethodTransfer,
		StartFreq:         time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		Enabled:           true,
	}
	require.NoError(t, database.DB.Create(bill).Error)

	budgets := service.NewBudgetService()
	budget, err := budgets.Create(service.BudgetInput{
		Name:      "January 2026",
		StartDate: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	bb, err := budgets.AttachBill(budget.ID, service.AttachBillInput{BillID: bill.ID})
	require.NoError(t, err)

	ledger := service.NewLedgerService()
	_, err = ledger.PayBudgetBill(budget.ID, bb.ID, service.PayBudgetBillInput{})
	require.NoError(t, err)

	w := doRequest(r, "GET", "/api/v1/transactions/budget-bill/"+bb.ID.String(), "")
	assert.Equal(t, 200, w.Code)
	assert.Len(t, dataList(t, decodeResponse(t, w)), 2)

	w = doRequest(r, "GET", "/api/v1/transactions/budget-bill/not-a-uuid", "")
	assert.Equal(t, 400, w.Code)
}
