package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"paper-extractor/internal/domain"
)

const xlsxSheet = "Extractions"

// XLSX writes a single-sheet workbook with the same columns as the CSV export.
func XLSX(w io.Writer, results []domain.ExtractionResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range csvHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(xlsxSheet, cell, h)
	}

	for i, r := range rows(results) {
		line := i + 2
		for col, v := range []string{r.field, r.value, r.snippet, r.confidence} {
			cell, _ := excelize.CoordinatesToCellName(col+1, line)
			_ = f.SetCellValue(xlsxSheet, cell, v)
		}
	}

	_ = f.SetColWidth(xlsxSheet, "A", "A", 24)
	_ = f.SetColWidth(xlsxSheet, "B", "B", 32)
	_ = f.SetColWidth(xlsxSheet, "C", "C", 48)
	_ = f.SetColWidth(xlsxSheet, "D", "D", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}
