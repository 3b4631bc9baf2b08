package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hornetmadness/MyBudget/database"
	"github.com/hornetmadness/MyBudget/models"
	"github.com/hornetmadness/MyBudget/service"
)

// BudgetHandler serves budget windows, their bill attachments and
// payments against them.
type BudgetHandler struct {
	budgets *service.BudgetService
	ledger  *service.LedgerService
}

// NewBudgetHandler creates the budget handler.
func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{
		budgets: service.NewBudgetService(),
		ledger:  service.NewLedgerService(),
	}
}

// CreateBudgetRequest creates a budget window. Dates are whole days,
// both ends inclusive.
type CreateBudgetRequest struct {
	Name        string `json:"name" binding:"required" example:"January 2026"`
	StartDate   string `json:"start_date" binding:"required" example:"2026-01-01"`
	EndDate     string `json:"end_date" binding:"required" example:"2026-01-31"`
	Description string `json:"description"`
}

// UpdateBudgetRequest updates budget fields.
type UpdateBudgetRequest struct {
	Name        *string `json:"name"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Description *string `json:"description"`
	Enabled     *bool   `json:"enabled"`
}

// AttachBillRequest attaches a bill to a budget. An omitted due date is
// derived from the bill's schedule.
type AttachBillRequest struct {
	BillID         uuid.UUID        `json:"bill_id" binding:"required"`
	DueDate        string           `json:"due_date" example:"2026-01-15"`
	BudgetedAmount *decimal.Decimal `json:"budgeted_amount"`
	Note           string           `json:"note"`
}

// UpdateBudgetBillRequest edits an attachment. Paid state is not
// editable here; payments go through the pay endpoint.
type UpdateBudgetBillRequest struct {
	DueDate        *string          `json:"due_date"`
	BudgetedAmount *decimal.Decimal `json:"budgeted_amount"`
	Note           *string          `json:"note"`
}

// PayBudgetBillRequest settles an attachment. Amount defaults to the
// attachment's budgeted amount, paid_on to now.
type PayBudgetBillRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Note   string           `json:"note"`
	PaidOn string           `json:"paid_on"`
}

// Create creates a budget
// @Summary Create a budget
// @Description The window may not overlap any existing budget, boundary
// @Description days included.
// @Tags budgets
// @Accept json
// @Produce json
// @Param request body CreateBudgetRequest true "budget"
// @Success 200 {object} Response{data=models.Budget}
// @Failure 400 {object} Response
// @Failure 409 {object} Response
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	budget, err := h.budgets.Create(service.BudgetInput{
		Name:        req.Name,
		StartDate:   start,
		EndDate:     end,
		Description: req.Description,
	})
	if err != nil {
		RespondError(c, err, "failed to create budget")
		return
	}

	SuccessWithMessage(c, "budget created", budget)
}

// List lists budgets
// @Summary List budgets
// @Description Past budgets are trimmed to the show_num_old_budgets
// @Description setting unless include_old=true.
// @Tags budgets
// @Produce json
// @Param include_old query bool false "return ended budgets too"
// @Success 200 {object} Response{data=[]models.Budget}
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	includeOld := c.Query("include_old") == "true"
	budgets, err := h.budgets.List(includeOld)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list budgets"))
		return
	}
	Success(c, budgets)
}

// Get fetches one budget
// @Summary Get a budget
// @Tags budgets
// @Produce json
// @Param budget_id path string true "budget id"
// @Success 200 {object} Response{data=models.Budget}
// @Failure 404 {object} Response
// @Router /api/v1/budgets/{budget_id} [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "budget_id")
	if !ok {
		return
	}

	var budget models.Budget
	if err := database.DB.First(&budget, "id = ?", id).Error; err != nil {
		NotFound(c, "budget not found")
		return
	}
	Success(c, budget)
}

// Update updates a budget
// @Summary Update a budget
// @Description Moving either date re-validates the window against
// @Description every other budget.
// @Tags budgets
// @Accept json
// @Produce json
// @Param budget_id path string true "budget id"
// @Param request body UpdateBudgetRequest true "fields to update"
// @Success 200 {object} Response{data=models.Budget}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /api/v1/budgets/{budget_id} [patch]
func (h *BudgetHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "budget_id")
	if !ok {
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	in := service.UpdateBudgetInput{
		Name:        req.Name,
		Description: req.Description,
		Enabled:     req.Enabled,
	}
	if req.StartDate != nil {
		t, err := parseDate(*req.StartDate)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		in.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := parseDate(*req.EndDate)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		in.EndDate = &t
	}

	budget, err := h.budgets.Update(id, in)
	if err != nil {
		RespondError(c, err, "failed to update budget")
		return
	}

	SuccessWithMessage(c, "budget updated", budget)
}

// Delete soft-deletes a budget and its attachments
// @Summary Delete a budget
// @Description Attachments are removed with the budget. Ledger entries
// @Description they produced are kept.
// @Tags budgets
// @Produce json
// @Param budget_id path string true "budget id"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/budgets/{budget_id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "budget_id")
	if !ok {
		return
	}

	if err := h.budgets.Delete(id); err != nil {
		RespondError(c, err, "failed to delete budget")
		return
	}

	SuccessWithMessage(c, "budget deleted", nil)
}

// Clone copies a budget into a new window
// @Summary Clone a budget
// @Description Re-attaches the source budget's bills with due dates
// @Description derived for the new window. Bills that no longer exist
// @Description or never occur in the new window are skipped and
// @Description reported. Paid state does not carry over.
// @Tags budgets
// @Accept json
// @Produce json
// @Param budget_id path string true "source budget id"
// @Param request body CreateBudgetRequest true "new window"
// @Success 200 {object} Response{data=service.CloneResult}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /api/v1/budgets/{budget_id}/clone [post]
func (h *BudgetHandler) Clone(c *gin.Context) {
	id, ok := parseUUIDParam(c, "budget_id")
	if !ok {
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	res, err := h.budgets.Clone(id, service.BudgetInput{
		Name:        req.Name,
		StartDate:   start,
		EndDate:     end,
		Description: req.Description,
	})
	if err != nil {
		RespondError(c, err, "failed to clone budget")
		return
	}

	SuccessWithMessage(c, "budget cloned", res)
}

// ListPrunable lists budgets old enough to prune
// @Summary List prunable budgets
// @Description Candidates ended more than prune_budgets_after_months
// @Description ago.
// @Tags budgets
// @Produce json
// @Success 200 {object} Response{data=[]models.Budget}
// @Router /api/v1/budgets/prune/list [get]
func (h *BudgetHandler) ListPrunable(c *gin.Context) {
	budgets, err := h.budgets.ListPrunable()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list prunable budgets"))
		return
	}
	Success(c, budgets)
}

// Prune deletes old budgets
// @Summary Prune old budgets
// @Tags budgets
// @Produce json
// @Success 200 {object} Response{data=[]models.Budget}
// @Router /api/v1/budgets/prune [post]
func (h *BudgetHandler) Prune(c *gin.Context) {
	pruned, err := h.budgets.Prune()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to prune budgets"))
		return
	}
	SuccessWithMessage(c, "budgets pruned", pruned)
}

// AttachBill attaches a bill to a budget
// @Summary Attach a bill to a budget
// @Description An explicit due date must sit inside the window and on
// @Description the bill's schedule. An omitted one is derived as the
// @Description first occurrence inside the window.
// @Tags budgets
// @Accept json
// @Produce json
// @Param budget_id path string true "budget id"
// @Param request body AttachBillRequest true "attachment"
// @Success 200 {object} Response{data=models.BudgetBill}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /api/v1/budgets/{budget_id}/bills [post]
func (h *BudgetHandler) AttachBill(c *gin.Context) {
	id, ok := parseUUIDParam(c, "budget_id")
	if !ok {
		return
	}

	var req AttachBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	in := service.AttachBillInput{
		BillID:         req.BillID,
		BudgetedAmount: req.BudgetedAmount,
		Note:           req.Note,
	}
	if req.DueDate != "" {
		t, err := parseDate(req.DueDate)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		in.DueDate = &t
	}

	bb, err := h.budgets.AttachBill(id, in)
	if err != nil {
		RespondError(c, err, "failed to attach bill")
		return
	}

	SuccessWithMessage(c, "bill attached", bb)
}

// ListBills lists a budget's attachments
// @Summary List a budget's bills
// @Tags budgets
// @Produce json
// @Param budget_id path string true "budget id"
// @Success 200 {object} Response{data=[]models.BudgetBill}
// @Failure 404 {object} Response
// @Router /api/v1/budgets/{budget_id}/bills [get]
func (h *BudgetHandler) ListBills(c *gin.Context) {
	id, ok := parseUUIDParam(c, "budget_id")
	if !ok {
		return
	}

	var budget models.Budget
	if err := database.DB.First(&budget, "id = ?", id).Error; err != nil {
		NotFound(c, "budget not found")
		return
	}

	var items []models.BudgetBill
	if err := database.DB.Where("budget_id = ?", id).
		Preload("Bill").
		Order("due_date ASC").
		Find(&items).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list budget bills"))
		return
	}
	Success(c, items)
}

// UpdateBill edits one attachment
// @Summary Update a budget bill
// @Tags budgets
// @Accept json
// @Produce json
// @Param budget_id path string true "budget id"
// @Param budget_bill_id path string true "budget bill id"
// @Param request body UpdateBudgetBillRequest true "fields to update"
// @Success 200 {object} Response{data=models.BudgetBill}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/budgets/{budget_id}/bills/{budget_bill_id} [patch]
func (h *BudgetHandler) UpdateBill(c *gin.Context) {
	budgetID, ok := parseUUIDParam(c, "budget_id")
	if !ok {
		return
	}
	budgetBillID, ok := parseUUIDParam(c, "budget_bill_id")
	if !ok {
		return
	}

	var req UpdateBudgetBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	in := service.UpdateAttachmentInput{
		BudgetedAmount: req.BudgetedAmount,
		Note:           req.Note,
	}
	if req.DueDate != nil {
		t, err := parseDate(*req.DueDate)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		in.DueDate = &t
	}

	bb, err := h.budgets.UpdateAttachment(budgetID, budgetBillID, in)
	if err != nil {
		RespondError(c, err, "failed to update budget bill")
		return
	}

	SuccessWithMessage(c, "budget bill updated", bb)
}

// DetachBill removes one attachment
// @Summary Detach a bill from a budget
// @Tags budgets
// @Produce json
// @Param budget_id path string true "budget id"
// @Param budget_bill_id path string true "budget bill id"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/budgets/{budget_id}/bills/{budget_bill_id} [delete]
func (h *BudgetHandler) DetachBill(c *gin.Context) {
	budgetID, ok := parseUUIDParam(c, "budget_id")
	if !ok {
		return
	}
	budgetBillID, ok := parseUUIDParam(c, "budget_bill_id")
	if !ok {
		return
	}

	if err := h.budgets.DetachBill(budgetID, budgetBillID); err != nil {
		RespondError(c, err, "failed to detach bill")
		return
	}

	SuccessWithMessage(c, "bill detached", nil)
}

// PayBill pays one attachment
// @Summary Pay a budget bill
// @Description Debits the funding account, credits the transfer account
// @Description when the attachment has one, and marks the attachment
// @Description paid. Paying twice is rejected.
// @Tags budgets
// @Accept json
// @Produce json
// @Param budget_id path string true "budget id"
// @Param budget_bill_id path string true "budget bill id"
// @Param request body PayBudgetBillRequest true "payment"
// @Success 200 {object} Response{data=models.BudgetBill}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/budgets/{budget_id}/bills/{budget_bill_id}/pay [post]
func (h *BudgetHandler) PayBill(c *gin.Context) {
	budgetID, ok := parseUUIDParam(c, "budget_id")
	if !ok {
		return
	}
	budgetBillID, ok := parseUUIDParam(c, "budget_bill_id")
	if !ok {
		return
	}

	var req PayBudgetBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	in := service.PayBudgetBillInput{
		Amount: req.Amount,
		Note:   req.Note,
	}
	if req.PaidOn != "" {
		t, err := parseDate(req.PaidOn)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		in.PaidOn = &t
	}

	bb, err := h.ledger.PayBudgetBill(budgetID, budgetBillID, in)
	if err != nil {
		RespondError(c, err, "failed to pay budget bill")
		return
	}

	SuccessWithMessage(c, "budget bill paid", bb)
}
