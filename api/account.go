package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hornetmadness/MyBudget/database"
	"github.com/hornetmadness/MyBudget/models"
	"github.com/hornetmadness/MyBudget/service"
)

// AccountHandler serves account CRUD and the money-moving endpoints.
type AccountHandler struct {
	ledger *service.LedgerService
}

// NewAccountHandler creates the account handler.
func NewAccountHandler() *AccountHandler {
	return &AccountHandler{ledger: service.NewLedgerService()}
}

// CreateAccountRequest creates an account. Balance is the opening
// balance and does not produce a ledger entry.
type CreateAccountRequest struct {
	Name        string          `json:"name" binding:"required" example:"Checking"`
	AccountType string          `json:"account_type" binding:"required" example:"checking"`
	Description string          `json:"description" example:"Primary checking account"`
	Balance     decimal.Decimal `json:"balance" example:"1000.00"`
	Enabled     *bool           `json:"enabled"`
}

// UpdateAccountRequest updates account fields. A balance change is
// recorded through the ledger as an adjustment entry.
type UpdateAccountRequest struct {
	Name        *string          `json:"name"`
	AccountType *string          `json:"account_type"`
	Description *string          `json:"description"`
	Balance     *decimal.Decimal `json:"balance"`
	Enabled     *bool            `json:"enabled"`
	Note        string           `json:"note"`
}

// FundsRequest adds or removes money.
type FundsRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required" example:"50.00"`
	Note   string          `json:"note" example:"Paycheck"`
}

// TransferRequest moves money to another account.
type TransferRequest struct {
	ToAccountID uuid.UUID       `json:"to_account_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required" example:"50.00"`
	Note        string          `json:"note"`
}

// Create creates an account
// @Summary Create an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "account"
// @Success 200 {object} Response{data=models.Account}
// @Failure 400 {object} Response
// @Failure 409 {object} Response
// @Router /api/v1/accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	accountType := models.AccountType(req.AccountType)
	if !accountType.Valid() {
		BadRequest(c, "invalid account type")
		return
	}

	var count int64
	if err := database.DB.Model(&models.Account{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create account"))
		return
	}
	if count > 0 {
		Conflict(c, "an account with this name already exists")
		return
	}

	account := models.Account{
		Name:        req.Name,
		AccountType: accountType,
		Description: req.Description,
		Balance:     req.Balance,
		Enabled:     true,
	}
	if req.Enabled != nil {
		account.Enabled = *req.Enabled
	}

	if err := database.DB.Create(&account).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create account"))
		return
	}

	SuccessWithMessage(c, "account created", account)
}

// List lists accounts
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Success 200 {object} Response{data=[]models.Account}
// @Router /api/v1/accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	var accounts []models.Account
	if err := database.DB.Order("name ASC").Find(&accounts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list accounts"))
		return
	}
	Success(c, accounts)
}

// Get fetches one account
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param account_id path string true "account id"
// @Success 200 {object} Response{data=models.Account}
// @Failure 404 {object} Response
// @Router /api/v1/accounts/{account_id} [get]
func (h *AccountHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "account_id")
	if !ok {
		return
	}

	var account models.Account
	if err := database.DB.First(&account, "id = ?", id).Error; err != nil {
		NotFound(c, "account not found")
		return
	}
	Success(c, account)
}

// Update updates an account
// @Summary Update an account
// @Description Updates account fields. Changing the balance goes
// @Description through the ledger and leaves an adjustment entry.
// @Tags accounts
// @Accept json
// @Produce json
// @Param account_id path string true "account id"
// @Param request body UpdateAccountRequest true "fields to update"
// @Success 200 {object} Response{data=models.Account}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/accounts/{account_id} [patch]
func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "account_id")
	if !ok {
		return
	}

	var account models.Account
	if err := database.DB.First(&account, "id = ?", id).Error; err != nil {
		NotFound(c, "account not found")
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil && *req.Name != account.Name {
		var count int64
		if err := database.DB.Model(&models.Account{}).
			Where("name = ? AND id <> ?", *req.Name, account.ID).
			Count(&count).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "failed to update account"))
			return
		}
		if count > 0 {
			Conflict(c, "an account with this name already exists")
			return
		}
		updates["name"] = *req.Name
	}
	if req.AccountType != nil {
		accountType := models.AccountType(*req.AccountType)
		if !accountType.Valid() {
			BadRequest(c, "invalid account type")
			return
		}
		updates["account_type"] = accountType
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&account).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "failed to update account"))
			return
		}
	}

	if req.Balance != nil && !req.Balance.Equal(account.Balance) {
		if _, err := h.ledger.AdjustBalance(account.ID, *req.Balance, req.Note); err != nil {
			RespondError(c, err, "failed to adjust balance")
			return
		}
	}

	database.DB.First(&account, "id = ?", account.ID)
	SuccessWithMessage(c, "account updated", account)
}

// Delete soft-deletes an account
// @Summary Delete an account
// @Tags accounts
// @Produce json
// @Param account_id path string true "account id"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/accounts/{account_id} [delete]
func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "account_id")
	if !ok {
		return
	}

	var account models.Account
	if err := database.DB.First(&account, "id = ?", id).Error; err != nil {
		NotFound(c, "account not found")
		return
	}

	if err := database.DB.Delete(&account).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete account"))
		return
	}

	SuccessWithMessage(c, "account deleted", nil)
}

// AddFunds credits an account
// @Summary Add funds to an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param account_id path string true "account id"
// @Param request body FundsRequest true "amount and note"
// @Success 200 {object} Response{data=service.LedgerEntry}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/accounts/{account_id}/add-funds [post]
func (h *AccountHandler) AddFunds(c *gin.Context) {
	id, ok := parseUUIDParam(c, "account_id")
	if !ok {
		return
	}

	var req FundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	entry, err := h.ledger.AddFunds(id, req.Amount, req.Note)
	if err != nil {
		RespondError(c, err, "failed to add funds")
		return
	}
	SuccessWithMessage(c, "funds added", entry)
}

// DeductFunds debits an account
// @Summary Deduct funds from an account
// @Description The balance is allowed to go negative; nothing checks
// @Description for sufficient funds.
// @Tags accounts
// @Accept json
// @Produce json
// @Param account_id path string true "account id"
// @Param request body FundsRequest true "amount and note"
// @Success 200 {object} Response{data=service.LedgerEntry}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/accounts/{account_id}/deduct-funds [post]
func (h *AccountHandler) DeductFunds(c *gin.Context) {
	id, ok := parseUUIDParam(c, "account_id")
	if !ok {
		return
	}

	var req FundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	entry, err := h.ledger.DeductFunds(id, req.Amount, req.Note)
	if err != nil {
		RespondError(c, err, "failed to deduct funds")
		return
	}
	SuccessWithMessage(c, "funds deducted", entry)
}

// Transfer moves money between accounts
// @Summary Transfer between accounts
// @Tags accounts
// @Accept json
// @Produce json
// @Param account_id path string true "source account id"
// @Param request body TransferRequest true "destination, amount and note"
// @Success 200 {object} Response{data=service.TransferResult}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/accounts/{account_id}/transfer [post]
func (h *AccountHandler) Transfer(c *gin.Context) {
	id, ok := parseUUIDParam(c, "account_id")
	if !ok {
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	res, err := h.ledger.Transfer(id, req.ToAccountID, req.Amount, req.Note)
	if err != nil {
		RespondError(c, err, "failed to transfer")
		return
	}
	SuccessWithMessage(c, "transfer complete", res)
}

// AccountTypeInfo pairs a tag with its display label.
type AccountTypeInfo struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ListTypes lists the closed set of account types
// @Summary List account types
// @Tags accounts
// @Produce json
// @Success 200 {object} Response{data=[]AccountTypeInfo}
// @Router /api/v1/account-types [get]
func (h *AccountHandler) ListTypes(c *gin.Context) {
	types := models.AccountTypes()
	out := make([]AccountTypeInfo, 0, len(types))
	for _, t := range types {
		out = append(out, AccountTypeInfo{Value: string(t), Label: t.Label()})
	}
	Success(c, out)
}
