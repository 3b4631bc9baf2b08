package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hornetmadness/MyBudget/api"
	"github.com/hornetmadness/MyBudget/config"
	"github.com/hornetmadness/MyBudget/middleware"
)

// SetupRouter wires every endpoint. Money-moving routes sit behind the
// per-IP write rate limit from config.
func SetupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	r.Use(CORSMiddleware())

	v1 := r.Group("/api/v1")
	{
		writeLimit := middleware.WriteRateLimit(cfg.Server.WriteRateLimit, time.Minute)

		accountHandler := api.NewAccountHandler()
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("", accountHandler.List)
			accounts.GET("/:account_id", accountHandler.Get)
			accounts.PATCH("/:account_id", accountHandler.Update)
			accounts.DELETE("/:account_id", accountHandler.Delete)

			accounts.POST("/:account_id/add-funds", writeLimit, accountHandler.AddFunds)
			accounts.POST("/:account_id/deduct-funds", writeLimit, accountHandler.DeductFunds)
			accounts.POST("/:account_id/transfer", writeLimit, accountHandler.Transfer)
		}
		v1.GET("/account-types", accountHandler.ListTypes)

		categoryHandler := api.NewCategoryHandler()
		categories := v1.Group("/categories")
		{
			categories.POST("", categoryHandler.Create)
			categories.GET("", categoryHandler.List)
			categories.GET("/:category_id", categoryHandler.Get)
			categories.PATCH("/:category_id", categoryHandler.Update)
			categories.DELETE("/:category_id", categoryHandler.Delete)
		}

		billHandler := api.NewBillHandler()
		bills := v1.Group("/bills")
		{
			bills.GET("", billHandler.List)
			bills.GET("/upcoming", billHandler.Upcoming)
			bills.GET("/account/:account_id", billHandler.ListByAccount)
			bills.GET("/:bill_id", billHandler.Get)
			bills.POST("/:account_id", billHandler.Create)
			bills.PATCH("/:bill_id", billHandler.Update)
			bills.DELETE("/:bill_id", billHandler.Delete)
		}

		incomeHandler := api.NewIncomeHandler()
		income := v1.Group("/income")
		{
			income.GET("", incomeHandler.List)
			income.GET("/upcoming", incomeHandler.Upcoming)
			income.GET("/account/:account_id", incomeHandler.ListByAccount)
			income.GET("/:income_id", incomeHandler.Get)
			income.POST("/:account_id", incomeHandler.Create)
			income.PATCH("/:income_id", incomeHandler.Update)
			income.DELETE("/:income_id", incomeHandler.Delete)
			income.POST("/verify/:income_id", writeLimit, incomeHandler.Verify)
		}

		budgetHandler := api.NewBudgetHandler()
		budgets := v1.Group("/budgets")
		{
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
			budgets.POST("/:budget_id/bills/:budget_bill_id/pay", writeLimit, budgetHandler.PayBill)
		}

		transactionHandler := api.NewTransactionHandler()
		exportHandler := api.NewExportHandler()
		transactions := v1.Group("/transactions")
		{
			transactions.GET("", transactionHandler.List)
			transactions.GET("/account/:account_id", transactionHandler.ListByAccount)
			transactions.GET("/budget-bill/:budget_bill_id", transactionHandler.ListByBudgetBill)
			transactions.GET("/:transaction_id", transactionHandler.Get)

			transactions.GET("/export/excel", exportHandler.ExportExcel)
			transactions.GET("/export/csv", exportHandler.ExportCSV)
			transactions.GET("/export/json", exportHandler.ExportJSON)
		}

		settingsHandler := api.NewSettingsHandler()
		settings := v1.Group("/settings")
		{
			settings.GET("", settingsHandler.List)
			settings.POST("", settingsHandler.Upsert)
			settings.PATCH("/:key", settingsHandler.Update)
			settings.GET("/database", settingsHandler.DownloadDatabase)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware answers preflight requests and opens the API to
// browser clients.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
