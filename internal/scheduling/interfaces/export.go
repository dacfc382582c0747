package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	scheduling "ecocore-cloud/internal/scheduling/domain"
)

// BuildScheduleXLSX renders pump and battery decision history as a
// two-sheet workbook.
func BuildScheduleXLSX(pump, battery []scheduling.Decision) ([]byte, error) {
	f := excelize.NewFile()
	pumpSheet := "pump"
	batterySheet := "battery"
	f.SetSheetName("Sheet1", pumpSheet)
	if _, err := f.NewSheet(batterySheet); err != nil {
		return nil, err
	}

	if err := writeDecisionSheet(f, pumpSheet, pump); err != nil {
		return nil, err
	}
	if err := writeDecisionSheet(f, batterySheet, battery); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeDecisionSheet(f *excelize.File, sheet string, entries []scheduling.Decision) error {
	headers := []string{"ID", "Date", "Timestamp", "Quantity", "Unit", "Scheduled", "Duration (h)", "Total Cost", "Money Saved", "Grid Status"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	for i, entry := range entries {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), entry.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), entry.Date)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), entry.Timestamp.UTC().Format(time.RFC3339))
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), entry.Quantity)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), entry.QuantityUnit)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), entry.ScheduledTime)
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), entry.DurationHours)
		_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", row), entry.TotalCost)
		_ = f.SetCellValue(sheet, fmt.Sprintf("I%d", row), entry.MoneySaved)
		_ = f.SetCellValue(sheet, fmt.Sprintf("J%d", row), entry.GridStatus)
	}
	return nil
}
