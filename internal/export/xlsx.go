package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"equipment-inventory/internal/model"
)

// SheetName is the worksheet holding the summary table.
const SheetName = "Запчасти"

// WriteXLSX writes the summary as a single-sheet Excel workbook.
func WriteXLSX(w io.Writer, parts []model.PartSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &summaryHeaders); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "C1", style); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	for i, part := range parts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := rowToSlice(part)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %q: %w", part.Name, err)
		}
	}
	f.SetColWidth(SheetName, "A", "A", 30)
	f.SetColWidth(SheetName, "B", "B", 18)
	f.SetColWidth(SheetName, "C", "C", 60)

	return f.Write(w)
}
