package infra

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const reportSheet = "Production"

// WriteReportXLSX streams r as a single-sheet workbook to w.
func WriteReportXLSX(r Report, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	header := []interface{}{"Code", "Product", "Unit price", "Producible quantity", "Total value"}
	if err := f.SetSheetRow(reportSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: header: %w", err)
	}

	for i, row := range r.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		price, _ := row.Price.Float64()
		value, _ := row.TotalValue.Float64()
		values := []interface{}{row.Code, row.Name, price, row.ProducibleQuantity, value}
		if err := f.SetSheetRow(reportSheet, cell, &values); err != nil {
			return fmt.Errorf("xlsx: row %d: %w", i+2, err)
		}
	}

	totalRow := len(r.Rows) + 2
	totalValue, _ := r.Summary.TotalValue.Float64()
	totals := []interface{}{"TOTAL", fmt.Sprintf("%d products", r.Summary.Products), nil, r.Summary.TotalUnits, totalValue}
	if err := f.SetSheetRow(reportSheet, fmt.Sprintf("A%d", totalRow), &totals); err != nil {
		return fmt.Errorf("xlsx: totals: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	_ = f.SetCellStyle(reportSheet, "A1", "E1", style)
	_ = f.SetCellStyle(reportSheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("E%d", totalRow), style)
	_ = f.SetColWidth(reportSheet, "B", "B", 36)
	_ = f.SetColWidth(reportSheet, "C", "E", 18)

	return f.Write(w)
}
