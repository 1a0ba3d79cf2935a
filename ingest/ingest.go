// Package ingest is the spreadsheet boundary: it parses an incoming
// catalog workbook into a Batch and writes the final-names report
// that accompanies the printed document.
package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"signpress/catalog"
)

// Mapping names the workbook columns. Defaults follow the supplier's
// Hebrew template.
type Mapping struct {
	ID               string `yaml:"id"`
	Name             string `yaml:"name"`
	Price            string `yaml:"price"`
	Sale             string `yaml:"sale"`
	PrevPrice        string `yaml:"prev_price"`
	ForcePrint       string `yaml:"force_print"`
	KeepOriginalName string `yaml:"keep_original_name"`
	Remove           string `yaml:"remove"`
}

// DefaultMapping returns the supplier template headers.
func DefaultMapping() Mapping {
	return Mapping{
		ID:               "ברקוד",
		Name:             "שם פריט",
		Price:            "מכירה",
		Sale:             "מבצע",
		PrevPrice:        "מחיר קודם",
		ForcePrint:       "אלץ הדפסה",
		KeepOriginalName: "אלץ שם מקורי",
		Remove:           "מחק",
	}
}

func (m Mapping) withDefaults() Mapping {
	def := DefaultMapping()
	if m.ID == "" {
		m.ID = def.ID
	}
	if m.Name == "" {
		m.Name = def.Name
	}
	if m.Price == "" {
		m.Price = def.Price
	}
	if m.Sale == "" {
		m.Sale = def.Sale
	}
	if m.PrevPrice == "" {
		m.PrevPrice = def.PrevPrice
	}
	if m.ForcePrint == "" {
		m.ForcePrint = def.ForcePrint
	}
	if m.KeepOriginalName == "" {
		m.KeepOriginalName = def.KeepOriginalName
	}
	if m.Remove == "" {
		m.Remove = def.Remove
	}
	return m
}

// ReadBatch parses the first sheet of an xlsx workbook. The header
// row is matched against the mapping; id, name and price are
// required. Flag columns count as set when the cell is non-empty.
// Rows with every mapped cell empty are skipped.
func ReadBatch(r io.Reader, mapping Mapping) (catalog.Batch, error) {
	mapping = mapping.withDefaults()
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("ingest: workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("ingest: read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ingest: sheet %s is empty", sheets[0])
	}

	cols := indexColumns(rows[0])
	var missing []string
	for _, req := range []string{mapping.ID, mapping.Name, mapping.Price} {
		if _, ok := cols[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("ingest: missing required columns: %s", strings.Join(missing, ", "))
	}

	cell := func(row []string, header string) string {
		idx, ok := cols[header]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var batch catalog.Batch
	for i, row := range rows[1:] {
		id := trimFloatArtifact(cell(row, mapping.ID))
		name := cell(row, mapping.Name)
		priceRaw := cell(row, mapping.Price)
		if id == "" && name == "" && priceRaw == "" {
			continue
		}
		price, err := catalog.ParseMoney(priceRaw)
		if err != nil {
			return nil, fmt.Errorf("ingest: row %d (%s): %w", i+2, id, err)
		}
		rec := catalog.ProductRecord{
			ID:               id,
			DisplayName:      name,
			Price:            price,
			OnSale:           cell(row, mapping.Sale) != "",
			ForcePrint:       cell(row, mapping.ForcePrint) != "",
			KeepOriginalName: cell(row, mapping.KeepOriginalName) != "",
			Remove:           cell(row, mapping.Remove) != "",
		}
		if prev := cell(row, mapping.PrevPrice); prev != "" && rec.OnSale {
			rec.OriginalPrice, err = catalog.ParseMoney(prev)
			if err != nil {
				return nil, fmt.Errorf("ingest: row %d (%s): previous price: %w", i+2, id, err)
			}
		}
		batch = append(batch, rec)
	}
	if err := batch.Validate(); err != nil {
		return nil, err
	}
	return batch, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h != "" {
			cols[h] = i
		}
	}
	return cols
}

// trimFloatArtifact drops the ".0" a spreadsheet appends when it
// treats a barcode as a number.
func trimFloatArtifact(s string) string {
	return strings.TrimSuffix(s, ".0")
}
