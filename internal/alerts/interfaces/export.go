package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	alerts "ecocore-cloud/internal/alerts/domain"
)

// BuildAlertHistoryPDF renders the alert history as a PDF table.
func BuildAlertHistoryPDF(entries []alerts.Alert, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "EcoCore Alert History")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.UTC().Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Alerts: %d", len(entries)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(12, 6, "ID", "1", 0, "C", false, 0, "")
	pdf.CellFormat(38, 6, "Time", "1", 0, "C", false, 0, "")
	pdf.CellFormat(34, 6, "Type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(24, 6, "Room", "1", 0, "C", false, 0, "")
	pdf.CellFormat(80, 6, "Message", "1", 0, "C", false, 0, "")
	pdf.CellFormat(26, 6, "Wastage", "1", 0, "C", false, 0, "")
	pdf.CellFormat(24, 6, "Cost", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Score", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Status", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, entry := range entries {
		pdf.CellFormat(12, 6, fmt.Sprintf("%d", entry.ID), "1", 0, "R", false, 0, "")
		pdf.CellFormat(38, 6, entry.Time.UTC().Format("2006-01-02 15:04:05"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(34, 6, entry.Type, "1", 0, "L", false, 0, "")
		pdf.CellFormat(24, 6, entry.RoomID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(80, 6, entry.Message, "1", 0, "L", false, 0, "")
		pdf.CellFormat(26, 6, entry.ProbableWastage, "1", 0, "R", false, 0, "")
		pdf.CellFormat(24, 6, fmt.Sprintf("%.2f", entry.EstimatedSavings), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%.1f", entry.ProbabilityScore), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, entry.Status, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildAlertHistoryXLSX renders the alert history as a workbook.
func BuildAlertHistoryXLSX(entries []alerts.Alert) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "alerts"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Time", "Type", "Room", "Message", "Wastage", "Estimated Cost", "Probability", "Action", "Status"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(sheet, cell, header)
	}

	for i, entry := range entries {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), entry.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), entry.Time.UTC().Format(time.RFC3339))
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), entry.Type)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), entry.RoomID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), entry.Message)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), entry.ProbableWastage)
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), entry.EstimatedSavings)
		_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", row), entry.ProbabilityScore)
		_ = f.SetCellValue(sheet, fmt.Sprintf("I%d", row), entry.Action)
		_ = f.SetCellValue(sheet, fmt.Sprintf("J%d", row), entry.Status)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
