package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"time"

	"budget-ledger/internal/ledger"
	"budget-ledger/internal/models"
	"budget-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出支出明细
type ExportHandler struct {
	Ledger *ledger.Service
}

func NewExportHandler(svc *ledger.Service) *ExportHandler {
	return &ExportHandler{Ledger: svc}
}

var exportHeaders = []string{"Date", "Item", "Amount", "Kind"}

func spendingRecord(sp *models.Spending) []string {
	return []string{
		sp.Date.Format(util.DateLayout),
		sp.Item,
		sp.Amount.StringFixed(2),
		string(sp.Kind),
	}
}

func exportFileName(ext string) string {
	return fmt.Sprintf("spendings_%s.%s", time.Now().Format("20060102"), ext)
}

// ExportCSV 导出支出为 CSV（按日期倒序）
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	spendings, err := h.Ledger.Spendings(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName("csv")))

	// UTF-8 BOM，Excel 才能正确识别编码
	_, _ = c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write(exportHeaders)
	for i := range spendings {
		_ = writer.Write(spendingRecord(&spendings[i]))
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Printf("export: csv for user %d: %v", user.ID, err)
	}
}

// ExportXLSX 导出支出为 XLSX
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	spendings, err := h.Ledger.Spendings(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Spendings"
	index, err := f.NewSheet(sheet)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for i, title := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}
	for idx := range spendings {
		sp := &spendings[idx]
		row := idx + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sp.Date.Format(util.DateLayout))
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sp.Item)
		// 金额写成数值，方便在表格里求和
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), sp.Amount.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), string(sp.Kind))
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 30)
	_ = f.SetColWidth(sheet, "C", "C", 12)
	_ = f.SetColWidth(sheet, "D", "D", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName("xlsx")))

	if err := f.Write(c.Writer); err != nil {
		log.Printf("export: xlsx for user %d: %v", user.ID, err)
	}
}
