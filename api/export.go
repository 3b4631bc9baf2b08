package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/hornetmadness/MyBudget/models"
)

// ExportHandler exports the transaction ledger as a file. The same
// filters as the transaction listing apply.
type ExportHandler struct{}

// NewExportHandler creates the export handler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// TransactionWithAccount is a ledger row joined with its account name
// for export.
type TransactionWithAccount struct {
	models.Transaction
	AccountName string `json:"account_name"`
}

func exportRows(c *gin.Context) ([]TransactionWithAccount, bool) {
	query, ok := transactionQuery(c)
	if !ok {
		return nil, false
	}

	var rows []TransactionWithAccount
	if err := query.
		Select("transactions.*, accounts.name AS account_name").
		Joins("LEFT JOIN accounts ON transactions.account_id = accounts.id").
		Order("transactions.occurred_at DESC, transactions.created_at DESC").
		Scan(&rows).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to query transactions"))
		return nil, false
	}
	return rows, true
}

func exportFilename(ext string) string {
	return fmt.Sprintf("transactions_%s.%s", time.Now().UTC().Format("20060102"), ext)
}

// ExportExcel exports ledger entries as a styled xlsx
// @Summary Export transactions as Excel
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param account_id query string false "filter by account"
// @Param budget_bill_id query string false "filter by budget bill"
// @Param type query string false "credit or debit"
// @Param from query string false "occurred on or after"
// @Param to query string false "occurred on or before"
// @Success 200 {file} file "xlsx file"
// @Failure 400 {object} Response
// @Router /api/v1/transactions/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	rows, ok := exportRows(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Transactions"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "B", 20)
	f.SetColWidth(sheetName, "C", "C", 10)
	f.SetColWidth(sheetName, "D", "D", 14)
	f.SetColWidth(sheetName, "E", "E", 40)
	f.SetColWidth(sheetName, "F", "F", 20)

	headers := []string{"Occurred At", "Account", "Type", "Amount", "Note", "Recorded At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	credits := decimal.Zero
	debits := decimal.Zero
	for i, txn := range rows {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), txn.OccurredAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), txn.AccountName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), string(txn.TransactionType))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), txn.Amount.InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), txn.Note)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), txn.CreatedAt.Format("2006-01-02 15:04:05"))

		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), dataStyle)
		if txn.TransactionType == models.TransactionCredit {
			credits = credits.Add(txn.Amount)
		} else {
			debits = debits.Add(txn.Amount)
		}
	}

	summaryRow := len(rows) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Totals")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("C%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", summaryRow),
		credits.Sub(debits).InexactFloat64())
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", summaryRow),
		fmt.Sprintf("%d entries, credits %s, debits %s", len(rows), credits.StringFixed(2), debits.StringFixed(2)))
	f.MergeCell(sheetName, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("F%d", summaryRow))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("F%d", summaryRow), summaryStyle)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename("xlsx")))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to generate Excel file"))
		return
	}
}

// ExportCSV exports ledger entries as CSV
// @Summary Export transactions as CSV
// @Tags export
// @Produce text/csv
// @Param account_id query string false "filter by account"
// @Param budget_bill_id query string false "filter by budget bill"
// @Param type query string false "credit or debit"
// @Param from query string false "occurred on or after"
// @Param to query string false "occurred on or before"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} Response
// @Router /api/v1/transactions/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	rows, ok := exportRows(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// BOM so Excel detects UTF-8
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"ID", "Occurred At", "Account", "Type", "Amount", "Note", "Recorded At"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "failed to generate CSV")
		return
	}

	for _, txn := range rows {
		record := []string{
			txn.ID.String(),
			txn.OccurredAt.Format("2006-01-02 15:04:05"),
			txn.AccountName,
			string(txn.TransactionType),
			txn.Amount.StringFixed(2),
			txn.Note,
			txn.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			InternalError(c, "failed to generate CSV")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "failed to generate CSV")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename("csv")))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON exports ledger entries as JSON with totals
// @Summary Export transactions as JSON
// @Tags export
// @Produce json
// @Param account_id query string false "filter by account"
// @Param budget_bill_id query string false "filter by budget bill"
// @Param type query string false "credit or debit"
// @Param from query string false "occurred on or after"
// @Param to query string false "occurred on or before"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /api/v1/transactions/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	rows, ok := exportRows(c)
	if !ok {
		return
	}

	credits := decimal.Zero
	debits := decimal.Zero
	for _, txn := range rows {
		if txn.TransactionType == models.TransactionCredit {
			credits = credits.Add(txn.Amount)
		} else {
			debits = debits.Add(txn.Amount)
		}
	}

	Success(c, gin.H{
		"total_count":   len(rows),
		"total_credits": credits,
		"total_debits":  debits,
		"net":           credits.Sub(debits),
		"transactions":  rows,
	})
}
