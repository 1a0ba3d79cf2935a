package ingest

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"signpress/catalog"
)

// WriteNamesReport builds the xlsx mapping each printed product to
// the name that actually went on its sign, so operators can review
// what the cleaner did.
func WriteNamesReport(records []catalog.CleanedProductRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("ingest: report style: %w", err)
	}

	headers := []any{"ברקוד", "שם פריט", "שם סופי", "מקור"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("ingest: report header: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "D1", headerStyle); err != nil {
		return nil, fmt.Errorf("ingest: report header style: %w", err)
	}

	for i, rec := range records {
		source := "AI"
		if rec.Degraded {
			source = "fallback"
		}
		if rec.KeepOriginalName {
			source = "original"
		}
		row := []any{rec.ID, rec.DisplayName, rec.CleanedName, source}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("ingest: report row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("ingest: encode report: %w", err)
	}
	return buf.Bytes(), nil
}
