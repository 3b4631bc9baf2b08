package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hornetmadness/MyBudget/database"
	"github.com/hornetmadness/MyBudget/models"
	"github.com/hornetmadness/MyBudget/service"
)

// BillHandler serves bill CRUD and schedule projections.
type BillHandler struct{}

// NewBillHandler creates the bill handler.
func NewBillHandler() *BillHandler {
	return &BillHandler{}
}

// CreateBillRequest creates a bill against the account in the path.
// StartFreq anchors the recurrence and defaults to today.
type CreateBillRequest struct {
	Name              string          `json:"name" binding:"required" example:"Electric"`
	Description       string          `json:"description"`
	CategoryID        *uuid.UUID      `json:"category_id"`
	TransferAccountID *uuid.UUID      `json:"transfer_account_id"`
	BudgetedAmount    decimal.Decimal `json:"budgeted_amount" example:"125.50"`
	Frequency         string          `json:"frequency" binding:"required" example:"monthly"`
	PaymentMethod     string          `json:"payment_method" example:"manual"`
	StartFreq         string          `json:"start_freq" example:"2026-01-15"`
}

// UpdateBillRequest updates bill fields.
type UpdateBillRequest struct {
	Name              *string          `json:"name"`
	Description       *string          `json:"description"`
	AccountID         *uuid.UUID       `json:"account_id"`
	CategoryID        *uuid.UUID       `json:"category_id"`
	TransferAccountID *uuid.UUID       `json:"transfer_account_id"`
	BudgetedAmount    *decimal.Decimal `json:"budgeted_amount"`
	Frequency         *string          `json:"frequency"`
	PaymentMethod     *string          `json:"payment_method"`
	StartFreq         *string          `json:"start_freq"`
	Enabled           *bool            `json:"enabled"`
}

func accountExists(c *gin.Context, id uuid.UUID) bool {
	var account models.Account
	if err := database.DB.First(&account, "id = ?", id).Error; err != nil {
		NotFound(c, "account not found")
		return false
	}
	return true
}

// Create creates a bill
// @Summary Create a bill
// @Tags bills
// @Accept json
// @Produce json
// @Param account_id path string true "funding account id"
// @Param request body CreateBillRequest true "bill"
// @Success 200 {object} Response{data=models.Bill}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/bills/{account_id} [post]
func (h *BillHandler) Create(c *gin.Context) {
	accountID, ok := parseUUIDParam(c, "account_id")
	if !ok {
		return
	}
	if !accountExists(c, accountID) {
		return
	}

	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	frequency := models.Frequency(req.Frequency)
	if !frequency.Valid() {
		BadRequest(c, "invalid frequency")
		return
	}

	method := models.PaymentMethodManual
	if req.PaymentMethod != "" {
		method = models.PaymentMethod(req.PaymentMethod)
		if !method.Valid() {
			BadRequest(c, "invalid payment method")
			return
		}
	}

	if req.BudgetedAmount.IsNegative() {
		BadRequest(c, "budgeted amount cannot be negative")
		return
	}

	startFreq := service.DateOnly(time.Now().UTC())
	if req.StartFreq != "" {
		t, err := parseDate(req.StartFreq)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		startFreq = service.DateOnly(t)
	}

	if req.CategoryID != nil {
		var category models.Category
		if err := database.DB.First(&category, "id = ?", *req.CategoryID).Error; err != nil {
			NotFound(c, "category not found")
			return
		}
	}
	if req.TransferAccountID != nil {
		if !accountExists(c, *req.TransferAccountID) {
			return
		}
	}

	bill := models.Bill{
		AccountID:         accountID,
		CategoryID:        req.CategoryID,
		TransferAccountID: req.TransferAccountID,
		Name:              req.Name,
		Description:       req.Description,
		BudgetedAmount:    req.BudgetedAmount,
		Frequency:         frequency,
		PaymentMethod:     method,
		StartFreq:         startFreq,
		Enabled:           true,
	}
	if err := database.DB.Create(&bill).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create bill"))
		return
	}

	SuccessWithMessage(c, "bill created", bill)
}

// List lists bills
// @Summary List bills
// @Tags bills
// @Produce json
// @Success 200 {object} Response{data=[]models.Bill}
// @Router /api/v1/bills [get]
func (h *BillHandler) List(c *gin.Context) {
	var bills []models.Bill
	if err := database.DB.Order("name ASC").Find(&bills).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list bills"))
		return
	}
	Success(c, bills)
}

// Get fetches one bill
// @Summary Get a bill
// @Tags bills
// @Produce json
// @Param bill_id path string true "bill id"
// @Success 200 {object} Response{data=models.Bill}
// @Failure 404 {object} Response
// @Router /api/v1/bills/{bill_id} [get]
func (h *BillHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "bill_id")
	if !ok {
		return
	}

	var bill models.Bill
	if err := database.DB.First(&bill, "id = ?", id).Error; err != nil {
		NotFound(c, "bill not found")
		return
	}
	Success(c, bill)
}

// ListByAccount lists bills funded by one account
// @Summary List bills for an account
// @Tags bills
// @Produce json
// @Param account_id path string true "account id"
// @Success 200 {object} Response{data=[]models.Bill}
// @Failure 404 {object} Response
// @Router /api/v1/bills/account/{account_id} [get]
func (h *BillHandler) ListByAccount(c *gin.Context) {
	accountID, ok := parseUUIDParam(c, "account_id")
	if !ok {
		return
	}
	if !accountExists(c, accountID) {
		return
	}

	var bills []models.Bill
	if err := database.DB.Where("account_id = ?", accountID).Order("name ASC").Find(&bills).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list bills"))
		return
	}
	Success(c, bills)
}

// UpcomingBill is one bill with its due dates inside the projection
// window.
type UpcomingBill struct {
	Bill     models.Bill `json:"bill"`
	DueDates []string    `json:"due_dates"`
}

// Upcoming projects bill due dates
// @Summary Project upcoming bills
// @Description Walks each enabled bill's schedule from today and
// @Description returns the ones that fire within the window.
// @Description Always-frequency bills have no discrete dates and are
// @Description not listed.
// @Tags bills
// @Produce json
// @Param days query int false "window in days" default(30)
// @Success 200 {object} Response{data=[]UpcomingBill}
// @Router /api/v1/bills/upcoming [get]
func (h *BillHandler) Upcoming(c *gin.Context) {
	days := 30
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			BadRequest(c, "days must be a positive integer")
			return
		}
		days = n
	}
	if days > 365 {
		days = 365
	}

	var bills []models.Bill
	if err := database.DB.Where("enabled = ?", true).Order("name ASC").Find(&bills).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list bills"))
		return
	}

	from := service.DateOnly(time.Now().UTC())
	to := from.AddDate(0, 0, days)

	out := make([]UpcomingBill, 0)
	for _, bill := range bills {
		occs := service.OccurrencesInRange(bill.Frequency, bill.StartFreq, from, to)
		if len(occs) == 0 {
			continue
		}
		dates := make([]string, 0, len(occs))
		for _, occ := range occs {
			dates = append(dates, occ.Format("2006-01-02"))
		}
		out = append(out, UpcomingBill{Bill: bill, DueDates: dates})
	}
	Success(c, out)
}

// Update updates a bill
// @Summary Update a bill
// @Tags bills
// @Accept json
// @Produce json
// @Param bill_id path string true "bill id"
// @Param request body UpdateBillRequest true "fields to update"
// @Success 200 {object} Response{data=models.Bill}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/bills/{bill_id} [patch]
func (h *BillHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "bill_id")
	if !ok {
		return
	}

	var bill models.Bill
	if err := database.DB.First(&bill, "id = ?", id).Error; err != nil {
		NotFound(c, "bill not found")
		return
	}

	var req UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.AccountID != nil {
		if !accountExists(c, *req.AccountID) {
			return
		}
		updates["account_id"] = *req.AccountID
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := database.DB.First(&category, "id = ?", *req.CategoryID).Error; err != nil {
			NotFound(c, "category not found")
			return
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.TransferAccountID != nil {
		if !accountExists(c, *req.TransferAccountID) {
			return
		}
		updates["transfer_account_id"] = *req.TransferAccountID
	}
	if req.BudgetedAmount != nil {
		if req.BudgetedAmount.IsNegative() {
			BadRequest(c, "budgeted amount cannot be negative")
			return
		}
		updates["budgeted_amount"] = *req.BudgetedAmount
	}
	if req.Frequency != nil {
		frequency := models.Frequency(*req.Frequency)
		if !frequency.Valid() {
			BadRequest(c, "invalid frequency")
			return
		}
		updates["frequency"] = frequency
	}
	if req.PaymentMethod != nil {
		method := models.PaymentMethod(*req.PaymentMethod)
		if !method.Valid() {
			BadRequest(c, "invalid payment method")
			return
		}
		updates["payment_method"] = method
	}
	if req.StartFreq != nil {
		t, err := parseDate(*req.StartFreq)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		updates["start_freq"] = service.DateOnly(t)
	}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&bill).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "failed to update bill"))
			return
		}
	}

	database.DB.First(&bill, "id = ?", bill.ID)
	SuccessWithMessage(c, "bill updated", bill)
}

// Delete soft-deletes a bill
// @Summary Delete a bill
// @Tags bills
// @Produce json
// @Param bill_id path string true "bill id"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/bills/{bill_id} [delete]
func (h *BillHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "bill_id")
	if !ok {
		return
	}

	var bill models.Bill
	if err := database.DB.First(&bill, "id = ?", id).Error; err != nil {
		NotFound(c, "bill not found")
		return
	}

	if err := database.DB.Delete(&bill).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete bill"))
		return
	}

	SuccessWithMessage(c, "bill deleted", nil)
}
