package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/hornetmadness/MyBudget/config"
	"github.com/hornetmadness/MyBudget/database"
	"github.com/hornetmadness/MyBudget/models"
)

// setupMockDB swaps database.DB for a sqlmock-backed connection. Used
// for read paths where the exact SQL is the thing under test.
func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	return mock, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

// setupTestDB boots a throwaway sqlite database through the real Init
// path, so migrations and seeded settings match production.
func setupTestDB(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "mybudget_test.db")

	oldDB := database.DB
	oldCfg := config.GlobalConfig
	require.NoError(t, database.Init(cfg))
	config.GlobalConfig = cfg
	t.Cleanup(func() {
		if sqlDB, err := database.DB.DB(); err == nil {
			sqlDB.Close()
		}
		database.DB = oldDB
		config.GlobalConfig = oldCfg
	})
	return cfg
}

// newTestRouter registers every endpoint under the same paths the
// server uses, without middleware.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	v1 := r.Group("/api/v1")

	accountHandler := NewAccountHandler()
	accounts := v1.Group("/accounts")
	accounts.POST("", accountHandler.Create)
	accounts.GET("", accountHandler.List)
	accounts.GET("/:account_id", accountHandler.Get)
	accounts.PATCH("/:account_id", accountHandler.Update)
	accounts.DELETE("/:account_id", accountHandler.Delete)
	accounts.POST("/:account_id/add-funds", accountHandler.AddFunds)
	accounts.POST("/:account_id/deduct-funds", accountHandler.DeductFunds)
	accounts.POST("/:account_id/transfer", accountHandler.Transfer)
	v1.GET("/account-types", accountHandler.ListTypes)

	categoryHandler := NewCategoryHandler()
	categories := v1.Group("/categories")
	categories.POST("", categoryHandler.Create)
	categories.GET("", categoryHandler.List)
	categories.GET("/:category_id", categoryHandler.Get)
	categories.PATCH("/:category_id", categoryHandler.Update)
	categories.DELETE("/:category_id", categoryHandler.Delete)

	billHandler := NewBillHandler()
	bills := v1.Group("/bills")
	bills.GET("", billHandler.List)
	bills.GET("/upcoming", billHandler.Upcoming)
	bills.GET("/account/:account_id", billHandler.ListByAccount)
	bills.GET("/:bill_id", billHandler.Get)
	bills.POST("/:account_id", billHandler.Create)
	bills.PATCH("/:bill_id", billHandler.Update)
	bills.DELETE("/:bill_id", billHandler.Delete)

	incomeHandler := NewIncomeHandler()
	income := v1.Group("/income")
	income.GET("", incomeHandler.List)
	income.GET("/upcoming", incomeHandler.Upcoming)
	income.GET("/account/:account_id", incomeHandler.ListByAccount)
	income.GET("/:income_id", incomeHandler.Get)
	income.POST("/:account_id", incomeHandler.Create)
	income.PATCH("/:income_id", incomeHandler.Update)
	income.DELETE("/:income_id", incomeHandler.Delete)
	income.POST("/verify/:income_id", incomeHandler.Verify)

	budgetHandler := NewBudgetHandler()
	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.Create)
	budgets.GET("", budgetHandler.List)
	budgets.GET("/prune/list", budgetHandler.ListPrunable)
	budgets.POST("/prune", budgetHandler.Prune)
	budgets.GET("/:budget_id", budgetHandler.Get)
	budgets.PATCH("/:budget_id", budgetHandler.Update)
	budgets.DELETE("/:budget_id", budgetHandler.Delete)
	budgets.POST("/:budget_id/clone", budgetHandler.Clone)
	budgets.POST("/:budget_id/bills", budgetHandler.AttachBill)
	budgets.GET("/:budget_id/bills", budgetHandler.ListBills)
	budgets.PATCH("/:budget_id/bills/:budget_bill_id", budgetHandler.UpdateBill)
	budgets.DELETE("/:budget_id/bills/:budget_bill_id", budgetHandler.DetachBill)
	budgets.POST("/:budget_id/bills/:budget_bill_id/pay", budgetHandler.PayBill)

	transactionHandler := NewTransactionHandler()
	exportHandler := NewExportHandler()
	transactions := v1.Group("/transactions")
	transactions.GET("", transactionHandler.List)
	transactions.GET("/account/:account_id", transactionHandler.ListByAccount)
	transactions.GET("/budget-bill/:budget_bill_id", transactionHandler.ListByBudgetBill)
	transactions.GET("/:transaction_id", transactionHandler.Get)
	transactions.GET("/export/excel", exportHandler.ExportExcel)
	transactions.GET("/export/csv", exportHandler.ExportCSV)
	transactions.GET("/export/json", exportHandler.ExportJSON)

	settingsHandler := NewSettingsHandler()
	settings := v1.Group("/settings")
	settings.GET("", settingsHandler.List)
	settings.POST("", settingsHandler.Upsert)
	settings.PATCH("/:key", settingsHandler.Update)
	settings.GET("/database", settingsHandler.DownloadDatabase)

	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req = httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// dataMap pulls the data object out of a decoded envelope.
func dataMap(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response data is not an object: %v", resp)
	return data
}

// dataList pulls the data array out of a decoded envelope.
func dataList(t *testing.T, resp map[string]interface{}) []interface{} {
	data, ok := resp["data"].([]interface{})
	require.True(t, ok, "response data is not an array: %v", resp)
	return data
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// seedAccount inserts an account directly, for tests whose subject is
// some other handler.
func seedAccount(t *testing.T, name, balance string) *models.Account {
	account := &models.Account{
		Name:        name,
		AccountType: models.AccountTypeChecking,
		Balance:     mustDecimal(t, balance),
		Enabled:     true,
	}
	require.NoError(t, database.DB.Create(account).Error)
	return account
}

func seedBill(t *testing.T, account *models.Account, name, amount string, freq models.Frequency, start time.Time) *models.Bill {
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

func reloadAccount(t *testing.T, account *models.Account) *models.Account {
	var fresh models.Account
	require.NoError(t, database.DB.First(&fresh, "id = ?", account.ID).Error)
	return &fresh
}
