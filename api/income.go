package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hornetmadness/MyBudget/database"
	"github.com/hornetmadness/MyBudget/models"
	"github.com/hornetmadness/MyBudget/service"
)

// IncomeHandler serves income source CRUD and deposit verification.
type IncomeHandler struct {
	ledger *service.LedgerService
}

// NewIncomeHandler creates the income handler.
func NewIncomeHandler() *IncomeHandler {
	return &IncomeHandler{ledger: service.NewLedgerService()}
}

// CreateIncomeRequest creates an income source paying into the account
// in the path.
type CreateIncomeRequest struct {
	Name        string          `json:"name" binding:"required" example:"Paycheck"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" example:"2500.00"`
	Frequency   string          `json:"frequency" binding:"required" example:"biweekly"`
	StartFreq   string          `json:"start_freq" example:"2026-01-02"`
}

// UpdateIncomeRequest updates income source fields.
type UpdateIncomeRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Frequency   *string          `json:"frequency"`
	StartFreq   *string          `json:"start_freq"`
	Enabled     *bool            `json:"enabled"`
}

// VerifyIncomeRequest records an expected deposit as received. Amount
// defaults to the income source's amount, occurred_on to now.
type VerifyIncomeRequest struct {
	Amount     *decimal.Decimal `json:"amount"`
	OccurredOn string           `json:"occurred_on" example:"2026-01-02"`
}

// Create creates an income source
// @Summary Create an income source
// @Tags income
// @Accept json
// @Produce json
// @Param account_id path string true "destination account id"
// @Param request body CreateIncomeRequest true "income source"
// @Success 200 {object} Response{data=models.Income}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/income/{account_id} [post]
func (h *IncomeHandler) Create(c *gin.Context) {
	accountID, ok := parseUUIDParam(c, "account_id")
	if !ok {
		return
	}
	if !accountExists(c, accountID) {
		return
	}

	var req CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	frequency := models.Frequency(req.Frequency)
	if !frequency.Valid() {
		BadRequest(c, "invalid frequency")
		return
	}

	if req.Amount.IsNegative() {
		BadRequest(c, "amount cannot be negative")
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

	income := models.Income{
		AccountID:   accountID,
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		Frequency:   frequency,
		StartFreq:   startFreq,
		Enabled:     true,
	}
	if err := database.DB.Create(&income).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create income source"))
		return
	}

	SuccessWithMessage(c, "income source created", income)
}

// List lists income sources
// @Summary List income sources
// @Tags income
// @Produce json
// @Success 200 {object} Response{data=[]models.Income}
// @Router /api/v1/income [get]
func (h *IncomeHandler) List(c *gin.Context) {
	var incomes []models.Income
	if err := database.DB.Order("name ASC").Find(&incomes).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list income sources"))
		return
	}
	Success(c, incomes)
}

// Get fetches one income source
// @Summary Get an income source
// @Tags income
// @Produce json
// @Param income_id path string true "income id"
// @Success 200 {object} Response{data=models.Income}
// @Failure 404 {object} Response
// @Router /api/v1/income/{income_id} [get]
func (h *IncomeHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "income_id")
	if !ok {
		return
	}

	var income models.Income
	if err := database.DB.First(&income, "id = ?", id).Error; err != nil {
		NotFound(c, "income source not found")
		return
	}
	Success(c, income)
}

// ListByAccount lists income sources paying into one account
// @Summary List income sources for an account
// @Tags income
// @Produce json
// @Param account_id path string true "account id"
// @Success 200 {object} Response{data=[]models.Income}
// @Failure 404 {object} Response
// @Router /api/v1/income/account/{account_id} [get]
func (h *IncomeHandler) ListByAccount(c *gin.Context) {
	accountID, ok := parseUUIDParam(c, "account_id")
	if !ok {
		return
	}
	if !accountExists(c, accountID) {
		return
	}

	var incomes []models.Income
	if err := database.DB.Where("account_id = ?", accountID).Order("name ASC").Find(&incomes).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list income sources"))
		return
	}
	Success(c, incomes)
}

// UpcomingIncome is one income source with its expected deposit dates
// inside the projection window.
type UpcomingIncome struct {
	Income   models.Income `json:"income"`
	DueDates []string      `json:"due_dates"`
}

// Upcoming projects income deposit dates
// @Summary Project upcoming income
// @Description Walks each enabled income source's schedule from today
// @Description and returns the ones that pay out within the window.
// @Tags income
// @Produce json
// @Param days query int false "window in days" default(30)
// @Success 200 {object} Response{data=[]UpcomingIncome}
// @Router /api/v1/income/upcoming [get]
func (h *IncomeHandler) Upcoming(c *gin.Context) {
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

	var incomes []models.Income
	if err := database.DB.Where("enabled = ?", true).Order("name ASC").Find(&incomes).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list income sources"))
		return
	}

	from := service.DateOnly(time.Now().UTC())
	to := from.AddDate(0, 0, days)

	out := make([]UpcomingIncome, 0)
	for _, income := range incomes {
		occs := service.OccurrencesInRange(income.Frequency, income.StartFreq, from, to)
		if len(occs) == 0 {
			continue
		}
		dates := make([]string, 0, len(occs))
		for _, occ := range occs {
			dates = append(dates, occ.Format("2006-01-02"))
		}
		out = append(out, UpcomingIncome{Income: income, DueDates: dates})
	}
	Success(c, out)
}

// Update updates an income source
// @Summary Update an income source
// @Tags income
// @Accept json
// @Produce json
// @Param income_id path string true "income id"
// @Param request body UpdateIncomeRequest true "fields to update"
// @Success 200 {object} Response{data=models.Income}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/income/{income_id} [patch]
func (h *IncomeHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "income_id")
	if !ok {
		return
	}

	var income models.Income
	if err := database.DB.First(&income, "id = ?", id).Error; err != nil {
		NotFound(c, "income source not found")
		return
	}

	var req UpdateIncomeRequest
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
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			BadRequest(c, "amount cannot be negative")
			return
		}
		updates["amount"] = *req.Amount
	}
	if req.Frequency != nil {
		frequency := models.Frequency(*req.Frequency)
		if !frequency.Valid() {
			BadRequest(c, "invalid frequency")
			return
		}
		updates["frequency"] = frequency
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
		if err := database.DB.Model(&income).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "failed to update income source"))
			return
		}
	}

	database.DB.First(&income, "id = ?", income.ID)
	SuccessWithMessage(c, "income source updated", income)
}

// Delete soft-deletes an income source
// @Summary Delete an income source
// @Tags income
// @Produce json
// @Param income_id path string true "income id"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/income/{income_id} [delete]
func (h *IncomeHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "income_id")
	if !ok {
		return
	}

	var income models.Income
	if err := database.DB.First(&income, "id = ?", id).Error; err != nil {
		NotFound(c, "income source not found")
		return
	}

	if err := database.DB.Delete(&income).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete income source"))
		return
	}

	SuccessWithMessage(c, "income source deleted", nil)
}

// Verify records a deposit against an income source
// @Summary Verify an income deposit
// @Description Credits the destination account and writes a ledger
// @Description entry. The amount defaults to the income source's
// @Description expected amount.
// @Tags income
// @Accept json
// @Produce json
// @Param income_id path string true "income id"
// @Param request body VerifyIncomeRequest true "deposit"
// @Success 200 {object} Response{data=service.LedgerEntry}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/income/verify/{income_id} [post]
func (h *IncomeHandler) Verify(c *gin.Context) {
	id, ok := parseUUIDParam(c, "income_id")
	if !ok {
		return
	}

	var req VerifyIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var occurredOn *time.Time
	if req.OccurredOn != "" {
		t, err := parseDate(req.OccurredOn)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		occurredOn = &t
	}

	entry, err := h.ledger.VerifyIncome(id, req.Amount, occurredOn)
	if err != nil {
		RespondError(c, err, "failed to verify income")
		return
	}

	SuccessWithMessage(c, "income verified", entry)
}
