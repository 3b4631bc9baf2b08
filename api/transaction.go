package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hornetmadness/MyBudget/database"
	"github.com/hornetmadness/MyBudget/models"
)

// TransactionHandler serves the append-only ledger. Entries are written
// by the ledger service only; this handler reads.
type TransactionHandler struct{}

// NewTransactionHandler creates the transaction handler.
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

// transactionQuery builds the filtered ledger query from the request.
// Answers 400 itself and returns false on a bad filter.
func transactionQuery(c *gin.Context) (*gorm.DB, bool) {
	query := database.DB.Model(&models.Transaction{})

	if v := c.Query("account_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			BadRequest(c, "invalid account_id")
			return nil, false
		}
		query = query.Where("account_id = ?", id)
	}
	if v := c.Query("budget_bill_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			BadRequest(c, "invalid budget_bill_id")
			return nil, false
		}
		query = query.Where("budget_bill_id = ?", id)
	}
	if v := c.Query("type"); v != "" {
		txType := models.TransactionType(v)
		if !txType.Valid() {
			BadRequest(c, "invalid transaction type")
			return nil, false
		}
		query = query.Where("transaction_type = ?", txType)
	}
	if v := c.Query("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			BadRequest(c, err.Error())
			return nil, false
		}
		query = query.Where("occurred_at >= ?", t)
	}
	if v := c.Query("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			BadRequest(c, err.Error())
			return nil, false
		}
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			// a date-only upper bound covers that whole day
			t = t.AddDate(0, 0, 1)
		}
		query = query.Where("occurred_at < ?", t)
	}

	return query, true
}

// List lists ledger entries
// @Summary List transactions
// @Description Newest first. Filterable by account, budget bill, type
// @Description and date range.
// @Tags transactions
// @Produce json
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Param account_id query string false "filter by account"
// @Param budget_bill_id query string false "filter by budget bill"
// @Param type query string false "credit or debit"
// @Param from query string false "occurred on or after"
// @Param to query string false "occurred on or before"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}}
// @Failure 400 {object} Response
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}

	query, ok := transactionQuery(c)
	if !ok {
		return
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to count transactions"))
		return
	}

	var txns []models.Transaction
	if err := query.
		Order("occurred_at DESC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&txns).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list transactions"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     txns,
	})
}

// Get fetches one ledger entry
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param transaction_id path string true "transaction id"
// @Success 200 {object} Response{data=models.Transaction}
// @Failure 404 {object} Response
// @Router /api/v1/transactions/{transaction_id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "transaction_id")
	if !ok {
		return
	}

	var txn models.Transaction
	if err := database.DB.First(&txn, "id = ?", id).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}
	Success(c, txn)
}

// ListByBudgetBill lists the ledger entries one payment produced
// @Summary List transactions for a budget bill
// @Tags transactions
// @Produce json
// @Param budget_bill_id path string true "budget bill id"
// @Success 200 {object} Response{data=[]models.Transaction}
// @Failure 400 {object} Response
// @Router /api/v1/transactions/budget-bill/{budget_bill_id} [get]
func (h *TransactionHandler) ListByBudgetBill(c *gin.Context) {
	budgetBillID, ok := parseUUIDParam(c, "budget_bill_id")
	if !ok {
		return
	}

	var txns []models.Transaction
	if err := database.DB.
		Where("budget_bill_id = ?", budgetBillID).
		Order("occurred_at DESC, created_at DESC").
		Find(&txns).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list transactions"))
		return
	}
	Success(c, txns)
}

// ListByAccount lists one account's ledger entries newest first
// @Summary List transactions for an account
// @Tags transactions
// @Produce json
// @Param account_id path string true "account id"
// @Param limit query int false "max entries" default(100)
// @Success 200 {object} Response{data=[]models.Transaction}
// @Failure 404 {object} Response
// @Router /api/v1/transactions/account/{account_id} [get]
func (h *TransactionHandler) ListByAccount(c *gin.Context) {
	accountID, ok := parseUUIDParam(c, "account_id")
	if !ok {
		return
	}
	if !accountExists(c, accountID) {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit < 1 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	var txns []models.Transaction
	if err := database.DB.
		Where("account_id = ?", accountID).
		Order("occurred_at DESC, created_at DESC").
		Limit(limit).
		Find(&txns).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list transactions"))
		return
	}
	Success(c, txns)
}
