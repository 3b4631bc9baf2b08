package api

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hornetmadness/MyBudget/database"
	"github.com/hornetmadness/MyBudget/models"
)

// TestBudgetFlow walks the whole monthly routine over HTTP: fund an
// account, define a bill, open a budget window, attach the bill and pay
// it, then clone the window for the next month.
func TestBudgetFlow(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	w := doRequest(r, "POST", "/api/v1/accounts",
		`{"name":"Checking","account_type":"checking","balance":1000.00}`)
	require.Equal(t, 200, w.Code)
	accountID := dataMap(t, decodeResponse(t, w))["id"].(string)

	w = doRequest(r, "POST", "/api/v1/bills/"+accountID,
		`{"name":"Electric","frequency":"monthly","budgeted_amount":125.50,"start_freq":"2026-01-15"}`)
	require.Equal(t, 200, w.Code)
	billID := dataMap(t, decodeResponse(t, w))["id"].(string)

	w = doRequest(r, "POST", "/api/v1/budgets",
		`{"name":"January 2026","start_date":"2026-01-01","end_date":"2026-01-31"}`)
	require.Equal(t, 200, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "budget created", resp["message"])
	budgetID := dataMap(t, resp)["id"].(string)

	// a due date outside the window is rejected before anything sticks
	w = doRequest(r, "POST", "/api/v1/budgets/"+budgetID+"/bills",
		fmt.Sprintf(`{"bill_id":%q,"due_date":"2026-02-15"}`, billID))
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, decodeResponse(t, w)["message"], "outside the budget window")

	// without a due date the schedule supplies one
	w = doRequest(r, "POST", "/api/v1/budgets/"+budgetID+"/bills",
		fmt.Sprintf(`{"bill_id":%q}`, billID))
	require.Equal(t, 200, w.Code)
	resp = decodeResponse(t, w)
	assert.Equal(t, "bill attached", resp["message"])
	attached := dataMap(t, resp)
	budgetBillID := attached["id"].(string)
	assert.True(t, strings.HasPrefix(attached["due_date"].(string), "2026-01-15"))

	w = doRequest(r, "POST", "/api/v1/budgets/"+budgetID+"/bills/"+budgetBillID+"/pay", `{}`)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "budget bill paid", decodeResponse(t, w)["message"])

	var account models.Account
	require.NoError(t, database.DB.First(&account, "id = ?", accountID).Error)
	assert.Equal(t, "874.50", account.Balance.StringFixed(2))

	var txns []models.Transaction
	require.NoError(t, database.DB.Where("budget_bill_id = ?", budgetBillID).Find(&txns).Error)
	require.Len(t, txns, 1)
	assert.Equal(t, models.TransactionDebit, txns[0].TransactionType)
	assert.Equal(t, "125.50", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "Payment for bill via budget January 2026", txns[0].Note)

	// paying twice is a client error, not a second debit
	w = doRequest(r, "POST", "/api/v1/budgets/"+budgetID+"/bills/"+budgetBillID+"/pay", `{}`)
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, decodeResponse(t, w)["message"], "already been paid")
	require.NoError(t, database.DB.First(&account, "id = ?", accountID).Error)
	assert.Equal(t, "874.50", account.Balance.StringFixed(2))

	// windows may not overlap, boundary day included
	w = doRequest(r, "POST", "/api/v1/budgets",
		`{"name":"Overlap","start_date":"2026-01-31","end_date":"2026-02-28"}`)
	assert.Equal(t, 409, w.Code)

	w = doRequest(r, "GET", "/api/v1/budgets/"+budgetID+"/bills", "")
	assert.Equal(t, 200, w.Code)
	items := dataList(t, decodeResponse(t, w))
	require.Len(t, items, 1)
	assert.NotNil(t, items[0].(map[string]interface{})["paid_on"])

	// clone into February: due date re-derived, paid state left behind
	w = doRequest(r, "POST", "/api/v1/budgets/"+budgetID+"/clone",
		`{"name":"February 2026","start_date":"2026-02-01","end_date":"2026-02-28"}`)
	require.Equal(t, 200, w.Code)
	resp = decodeResponse(t, w)
	assert.Equal(t, "budget cloned", resp["message"])
	clone := dataMap(t, resp)

	cloneAttached := clone["attached"].([]interface{})
	require.Len(t, cloneAttached, 1)
	first := cloneAttached[0].(map[string]interface{})
	assert.True(t, strings.HasPrefix(first["due_date"].(string), "2026-02-15"))
	assert.Nil(t, first["paid_on"])
	assert.Len(t, clone["skipped"].([]interface{}), 0)

	w = doRequest(r, "GET", "/api/v1/budgets?include_old=true", "")
	assert.Equal(t, 200, w.Code)
	assert.Len(t, dataList(t, decodeResponse(t, w)), 2)
}

func TestBudgetHandler_Create_Validation(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	w := doRequest(r, "POST", "/api/v1/budgets",
		`{"name":"Broken","start_date":"not-a-date","end_date":"2026-01-31"}`)
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, decodeResponse(t, w)["message"], "invalid date")

	w = doRequest(r, "POST", "/api/v1/budgets",
		`{"name":"Backwards","start_date":"2026-01-31","end_date":"2026-01-01"}`)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "start date must be on or before end date", decodeResponse(t, w)["message"])
}

func TestBudgetHandler_UpdateBillIgnoresPaidFields(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	account := seedAccount(t, "Checking", "500.00")
	bill := seedBill(t, account, "Groceries", "400.00", models.FrequencyAlways,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))

	w := doRequest(r, "POST", "/api/v1/budgets",
		`{"name":"January 2026","start_date":"2026-01-01","end_date":"2026-01-31"}`)
	require.Equal(t, 200, w.Code)
	budgetID := dataMap(t, decodeResponse(t, w))["id"].(string)

	w = doRequest(r, "POST", "/api/v1/budgets/"+budgetID+"/bills",
		fmt.Sprintf(`{"bill_id":%q}`, bill.ID))
	require.Equal(t, 200, w.Code)
	attached := dataMap(t, decodeResponse(t, w))
	budgetBillID := attached["id"].(string)
	// always-frequency bills carry no due date
	assert.Nil(t, attached["due_date"])

	w = doRequest(r, "PATCH", "/api/v1/budgets/"+budgetID+"/bills/"+budgetBillID,
		`{"budgeted_amount":350.00,"note":"trimmed"}`)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "budget bill updated", decodeResponse(t, w)["message"])

	// paid state is the ledger's; a PATCH cannot fake it
	w = doRequest(r, "PATCH", "/api/v1/budgets/"+budgetID+"/bills/"+budgetBillID,
		`{"paid_amount":400.00}`)
	assert.Equal(t, 200, w.Code)

	var bb models.BudgetBill
	require.NoError(t, database.DB.First(&bb, "id = ?", budgetBillID).Error)
	assert.Equal(t, "350.00", bb.BudgetedAmount.StringFixed(2))
	assert.Equal(t, "trimmed", bb.Note)
	assert.True(t, bb.PaidAmount.IsZero())
	assert.Nil(t, bb.PaidOn)

	w = doRequest(r, "DELETE", "/api/v1/budgets/"+budgetID+"/bills/"+budgetBillID, "")
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "bill detached", decodeResponse(t, w)["message"])
}

func TestBudgetHandler_PruneEndpoints(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	w := doRequest(r, "POST", "/api/v1/budgets",
		`{"name":"Ancient","start_date":"2020-01-01","end_date":"2020-01-31"}`)
	require.Equal(t, 200, w.Code)

	w = doRequest(r, "GET", "/api/v1/budgets/prune/list", "")
	assert.Equal(t, 200, w.Code)
	assert.Len(t, dataList(t, decodeResponse(t, w)), 1)

	w = doRequest(r, "POST", "/api/v1/budgets/prune", "")
	assert.Equal(t, 200, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "budgets pruned", resp["message"])
	assert.Len(t, dataList(t, resp), 1)

	w = doRequest(r, "GET", "/api/v1/budgets?include_old=true", "")
	assert.Equal(t, 200, w.Code)
	assert.Empty(t, decodeResponse(t, w)["data"])
}
