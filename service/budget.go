package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hornetmadness/MyBudget/database"
	"github.com/hornetmadness/MyBudget/models"
)

// BudgetService owns budget windows and their bill attachments.
// Windows are whole-day closed intervals and live budgets may never
// overlap, boundary days included.
type BudgetService struct{}

// NewBudgetService creates the budget service.
func NewBudgetService() *BudgetService {
	return &BudgetService{}
}

// BudgetInput is the required shape for creating or cloning a budget.
type BudgetInput struct {
	Name        string
	StartDate   time.Time
	EndDate     time.Time
	Description string
}

// UpdateBudgetInput carries optional budget field changes.
type UpdateBudgetInput struct {
	Name        *string
	StartDate   *time.Time
	EndDate     *time.Time
	Description *string
	Enabled     *bool
}

// AttachBillInput attaches one bill to a budget. A nil DueDate means
// derive it from the bill's schedule; a nil BudgetedAmount snapshots
// the bill's amount.
type AttachBillInput struct {
	BillID         uuid.UUID
	DueDate        *time.Time
	BudgetedAmount *decimal.Decimal
	Note           string
}

// UpdateAttachmentInput carries optional attachment field changes.
// Paid state is deliberately absent: that is the ledger's to write.
type UpdateAttachmentInput struct {
	DueDate        *time.Time
	BudgetedAmount *decimal.Decimal
	Note           *string
}

// SkippedBill names a source attachment a clone could not carry over.
type SkippedBill struct {
	BillID uuid.UUID `json:"bill_id"`
	Name   string    `json:"name"`
	Reason string    `json:"reason"`
}

// CloneResult is a new budget plus what made it across.
type CloneResult struct {
	Budget   *models.Budget      `json:"budget"`
	Attached []models.BudgetBill `json:"attached"`
	Skipped  []SkippedBill       `json:"skipped"`
}

// List returns budgets newest window first. Budgets whose window has
// already ended are trimmed to the show_num_old_budgets setting unless
// includeOld asks for everything.
func (s *BudgetService) List(includeOld bool) ([]models.Budget, error) {
	var budgets []models.Budget
	if includeOld {
		if err := database.DB.Order("start_date DESC").Find(&budgets).Error; err != nil {
			return nil, err
		}
		return budgets, nil
	}

	today := DateOnly(time.Now().UTC())
	if err := database.DB.Where("end_date >= ?", today).Order("start_date DESC").Find(&budgets).Error; err != nil {
		return nil, err
	}

	n := settingInt(database.DB, models.SettingShowNumOldBudgets, 3)
	if n <= 0 {
		return budgets, nil
	}
	var old []models.Budget
	if err := database.DB.Where("end_date < ?", today).Order("end_date DESC").Limit(n).Find(&old).Error; err != nil {
		return nil, err
	}
	return append(budgets, old...), nil
}

// checkWindowOverlap rejects any window that shares a day with another
// live budget. Both intervals are closed, so touching at a boundary
// counts.
func checkWindowOverlap(tx *gorm.DB, start, end time.Time, excludeID uuid.UUID) error {
	q := tx.Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var existing models.Budget
	err := q.First(&existing).Error
	if err == nil {
		return NewConflictError("budget window overlaps existing budget '%s' (%s to %s)",
			existing.Name,
			existing.StartDate.Format("2006-01-02"),
			existing.EndDate.Format("2006-01-02"))
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// Create validates the window and inserts the budget.
func (s *BudgetService) Create(in BudgetInput) (*models.Budget, error) {
	start := DateOnly(in.StartDate)
	end := DateOnly(in.EndDate)
	if end.Before(start) {
		return nil, NewValidationError("start date must be on or before end date")
	}

	var budget models.Budget
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := checkWindowOverlap(tx, start, end, uuid.Nil); err != nil {
			return err
		}
		budget = models.Budget{
			Name:        in.Name,
			StartDate:   start,
			EndDate:     end,
			Description: in.Description,
			Enabled:     true,
		}
		return tx.Create(&budget).Error
	})
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// Update applies field changes, re-validating the window when dates
// move. The budget's own row is excluded from the overlap check.
func (s *BudgetService) Update(budgetID uuid.UUID, in UpdateBudgetInput) (*models.Budget, error) {
	var budget models.Budget
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&budget, "id = ?", budgetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("budget %s not found", budgetID)
			}
			return err
		}

		start := DateOnly(budget.StartDate)
		end := DateOnly(budget.EndDate)
		if in.StartDate != nil {
			start = DateOnly(*in.StartDate)
		}
		if in.EndDate != nil {
			end = DateOnly(*in.EndDate)
		}
		if end.Before(start) {
			return NewValidationError("start date must be on or before end date")
		}
		if err := checkWindowOverlap(tx, start, end, budget.ID); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"start_date": start,
			"end_date":   end,
		}
		if in.Name != nil {
			updates["name"] = *in.Name
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}
		if in.Enabled != nil {
			updates["enabled"] = *in.Enabled
		}
		if err := tx.Model(&budget).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&budget, "id = ?", budgetID).Error
	})
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// Delete soft-deletes the budget and cascades to its attachments. The
// ledger entries those attachments produced stay put.
func (s *BudgetService) Delete(budgetID uuid.UUID) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var budget models.Budget
		if err := tx.First(&budget, "id = ?", budgetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("budget %s not found", budgetID)
			}
			return err
		}
		if err := tx.Where("budget_id = ?", budgetID).Delete(&models.BudgetBill{}).Error; err != nil {
			return err
		}
		return tx.Delete(&budget).Error
	})
}

// AttachBill validates and creates one attachment. An explicit due
// date must sit inside the window and on the bill's schedule; an
// omitted one is derived as the first occurrence inside the window.
// Bills that never occur in the window are rejected, except
// always-frequency bills, which attach with no due date.
func (s *BudgetService) AttachBill(budgetID uuid.UUID, in AttachBillInput) (*models.BudgetBill, error) {
	var attached models.BudgetBill
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var budget models.Budget
		if err := tx.First(&budget, "id = ?", budgetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("budget %s not found", budgetID)
			}
			return err
		}

		var bill models.Bill
		if err := tx.First(&bill, "id = ?", in.BillID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("bill %s not found", in.BillID)
			}
			return err
		}

		var account models.Account
		if err := tx.First(&account, "id = ?", bill.AccountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("account %s not found", bill.AccountID)
			}
			return err
		}

		var dup int64
		if err := tx.Model(&models.BudgetBill{}).
			Where("budget_id = ? AND bill_id = ?", budget.ID, bill.ID).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return NewConflictError("bill '%s' is already attached to this budget", bill.Name)
		}

		due, err := resolveDueDate(&budget, &bill, in.DueDate)
		if err != nil {
			return err
		}

		amount := bill.BudgetedAmount
		if in.BudgetedAmount != nil {
			amount = *in.BudgetedAmount
		}

		attached = models.BudgetBill{
			BudgetID:          budget.ID,
			BillID:            bill.ID,
			AccountID:         bill.AccountID,
			TransferAccountID: bill.TransferAccountID,
			BudgetedAmount:    amount,
			DueDate:           due,
			Note:              in.Note,
		}
		return tx.Create(&attached).Error
	})
	if err != nil {
		return nil, err
	}
	return &attached, nil
}

// resolveDueDate applies the attach rules for one bill against one
// budget window.
func resolveDueDate(budget *models.Budget, bill *models.Bill, explicit *time.Time) (*time.Time, error) {
	start := DateOnly(budget.StartDate)
	end := DateOnly(budget.EndDate)

	if explicit != nil {
		d := DateOnly(*explicit)
		if d.Before(start) || d.After(end) {
			return nil, NewValidationError("due date %s is outside the budget window %s to %s",
				d.Format("2006-01-02"), start.Format("2006-01-02"), end.Format("2006-01-02"))
		}
		if !IsValidDueDate(bill.Frequency, bill.StartFreq, d) {
			return nil, NewValidationError("due date %s does not fall on the bill's %s schedule",
				d.Format("2006-01-02"), bill.Frequency)
		}
		return &d, nil
	}

	if bill.Frequency == models.FrequencyAlways {
		return nil, nil
	}

	first, ok := FirstOccurrenceIn(bill.Frequency, bill.StartFreq, start, end)
	if !ok {
		return nil, NewValidationError("bill '%s' does not occur within budget date window", bill.Name)
	}
	return &first, nil
}

// UpdateAttachment edits due date, amount or note on one attachment.
func (s *BudgetService) UpdateAttachment(budgetID, budgetBillID uuid.UUID, in UpdateAttachmentInput) (*models.BudgetBill, error) {
	var bb models.BudgetBill
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var budget models.Budget
		if err := tx.First(&budget, "id = ?", budgetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("budget %s not found", budgetID)
			}
			return err
		}
		if err := tx.First(&bb, "id = ? AND budget_id = ?", budgetBillID, budgetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("budget bill %s not found", budgetBillID)
			}
			return err
		}

		updates := map[string]interface{}{}
		if in.DueDate != nil {
			// the bill may have been deleted since attach; validate
			// against its schedule only while it still exists
			var bill models.Bill
			err := tx.First(&bill, "id = ?", bb.BillID).Error
			switch {
			case err == nil:
				due, err := resolveDueDate(&budget, &bill, in.DueDate)
				if err != nil {
					return err
				}
				updates["due_date"] = due
			case errors.Is(err, gorm.ErrRecordNotFound):
				d := DateOnly(*in.DueDate)
				if d.Before(DateOnly(budget.StartDate)) || d.After(DateOnly(budget.EndDate)) {
					return NewValidationError("due date %s is outside the budget window %s to %s",
						d.Format("2006-01-02"),
						DateOnly(budget.StartDate).Format("2006-01-02"),
						DateOnly(budget.EndDate).Format("2006-01-02"))
				}
				updates["due_date"] = d
			default:
				return err
			}
		}
		if in.BudgetedAmount != nil {
			updates["budgeted_amount"] = *in.BudgetedAmount
		}
		if in.Note != nil {
			updates["note"] = *in.Note
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&bb).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&bb, "id = ?", budgetBillID).Error
	})
	if err != nil {
		return nil, err
	}
	return &bb, nil
}

// DetachBill soft-deletes one attachment.
func (s *BudgetService) DetachBill(budgetID, budgetBillID uuid.UUID) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var bb models.BudgetBill
		if err := tx.First(&bb, "id = ? AND budget_id = ?", budgetBillID, budgetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("budget bill %s not found", budgetBillID)
			}
			return err
		}
		return tx.Delete(&bb).Error
	})
}

// Clone creates a new budget window and re-attaches the source's bills
// with due dates derived for the new window. Bills that no longer
// exist or do not occur in the new window are skipped and reported,
// never fatal. Paid state does not carry over.
func (s *BudgetService) Clone(sourceID uuid.UUID, in BudgetInput) (*CloneResult, error) {
	start := DateOnly(in.StartDate)
	end := DateOnly(in.EndDate)
	if end.Before(start) {
		return nil, NewValidationError("start date must be on or before end date")
	}

	res := &CloneResult{Skipped: []SkippedBill{}}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var source models.Budget
		if err := tx.First(&source, "id = ?", sourceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("budget %s not found", sourceID)
			}
			return err
		}

		if err := checkWindowOverlap(tx, start, end, uuid.Nil); err != nil {
			return err
		}

		budget := models.Budget{
			Name:        in.Name,
			StartDate:   start,
			EndDate:     end,
			Description: in.Description,
			Enabled:     true,
		}
		if err := tx.Create(&budget).Error; err != nil {
			return err
		}

		var attachments []models.BudgetBill
		if err := tx.Where("budget_id = ?", source.ID).Order("created_at").Find(&attachments).Error; err != nil {
			return err
		}

		for _, att := range attachments {
			var bill models.Bill
			if err := tx.First(&bill, "id = ?", att.BillID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					res.Skipped = append(res.Skipped, SkippedBill{BillID: att.BillID, Reason: "bill no longer exists"})
					continue
				}
				return err
			}

			var due *time.Time
			if bill.Frequency != models.FrequencyAlways {
				first, ok := FirstOccurrenceIn(bill.Frequency, bill.StartFreq, start, end)
				if !ok {
					res.Skipped = append(res.Skipped, SkippedBill{
						BillID: bill.ID,
						Name:   bill.Name,
						Reason: "does not occur within budget date window",
					})
					continue
				}
				due = &first
			}

			bb := models.BudgetBill{
				BudgetID:          budget.ID,
				BillID:            bill.ID,
				AccountID:         bill.AccountID,
				TransferAccountID: bill.TransferAccountID,
				BudgetedAmount:    att.BudgetedAmount,
				DueDate:           due,
			}
			if err := tx.Create(&bb).Error; err != nil {
				return err
			}
			res.Attached = append(res.Attached, bb)
		}

		res.Budget = &budget
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// pruneCutoff derives the prune threshold from settings; budgets whose
// window ended before it are candidates. Months are approximated as 30
// days.
func pruneCutoff(db *gorm.DB) time.Time {
	months := settingInt(db, models.SettingPruneBudgetsAfter, 24)
	return DateOnly(time.Now().UTC()).AddDate(0, 0, -months*30)
}

func settingInt(db *gorm.DB, key string, fallback int) int {
	var setting models.Setting
	if err := db.First(&setting, "setting_key = ?", key).Error; err != nil {
		return fallback
	}
	n, err := strconv.Atoi(setting.Value)
	if err != nil {
		return fallback
	}
	return n
}

// ListPrunable returns budgets old enough to prune, oldest first.
func (s *BudgetService) ListPrunable() ([]models.Budget, error) {
	var budgets []models.Budget
	cutoff := pruneCutoff(database.DB)
	if err := database.DB.Where("end_date < ?", cutoff).Order("end_date").Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

// Prune soft-deletes every prunable budget and its attachments,
// returning what was removed.
func (s *BudgetService) Prune() ([]models.Budget, error) {
	var pruned []models.Budget
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		cutoff := pruneCutoff(tx)
		if err := tx.Where("end_date < ?", cutoff).Order("end_date").Find(&pruned).Error; err != nil {
			return err
		}
		for _, b := range pruned {
			if err := tx.Where("budget_id = ?", b.ID).Delete(&models.BudgetBill{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&b).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pruned, nil
}
