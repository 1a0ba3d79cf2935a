package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"signpress/catalog"
)

// workbook builds an in-memory xlsx with the given header and rows.
func workbook(t *testing.T, header []any, rows ...[]any) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	for i := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &rows[i]); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

var hebrewHeader = []any{"ברקוד", "שם פריט", "מכירה", "מבצע", "מחיר קודם", "אלץ הדפסה", "אלץ שם מקורי", "מחק"}

func TestReadBatch(t *testing.T) {
	r := workbook(t, hebrewHeader,
		[]any{"7290001234.0", "כוס זכוכית 330", "19.90", "", "", "", "", ""},
		[]any{"7290005678", "צלחת פורצלן", "24.90", "כן", "34.90", "", "", ""},
		[]any{"7290009999", "מגש עץ", "49", "", "", "x", "x", ""},
	)
	batch, err := ReadBatch(r, Mapping{})
	if err != nil {
		t.Fatalf("ReadBatch: %v", err)
	}
	if len(batch) != 3 {
		t.Fatalf("want 3 records, got %d", len(batch))
	}

	first := batch[0]
	if first.ID != "7290001234" {
		t.Errorf("float artifact not trimmed: %q", first.ID)
	}
	if first.Price != 1990 {
		t.Errorf("price = %v, want 1990", first.Price)
	}
	if first.OnSale || first.ForcePrint || first.Remove {
		t.Errorf("flags must default off: %+v", first)
	}

	sale := batch[1]
	if !sale.OnSale || sale.OriginalPrice != 3490 {
		t.Errorf("sale record wrong: %+v", sale)
	}

	flagged := batch[2]
	if !flagged.ForcePrint || !flagged.KeepOriginalName {
		t.Errorf("flag columns not honored: %+v", flagged)
	}
	if flagged.Price != 4900 {
		t.Errorf("whole-shekel price = %v, want 4900", flagged.Price)
	}
}

func TestReadBatchMissingColumns(t *testing.T) {
	r := workbook(t, []any{"ברקוד", "שם פריט"}, []any{"1", "א"})
	_, err := ReadBatch(r, Mapping{})
	if err == nil {
		t.Fatal("expected error for missing price column")
	}
	if !strings.Contains(err.Error(), "מכירה") {
		t.Fatalf("error must name the missing column, got %v", err)
	}
}

func TestReadBatchSkipsEmptyRows(t *testing.T) {
	r := workbook(t, hebrewHeader,
		[]any{"1", "א", "10"},
		[]any{"", "", ""},
		[]any{"2", "ב", "20"},
	)
	batch, err := ReadBatch(r, Mapping{})
	if err != nil {
		t.Fatalf("ReadBatch: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("empty row must be skipped, got %d records", len(batch))
	}
}

func TestReadBatchDuplicateID(t *testing.T) {
	r := workbook(t, hebrewHeader,
		[]any{"A1", "א", "10"},
		[]any{"A1", "ב", "20"},
	)
	_, err := ReadBatch(r, Mapping{})
	var integrity *catalog.DataIntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("want DataIntegrityError, got %v", err)
	}
}

func TestReadBatchBadPrice(t *testing.T) {
	r := workbook(t, hebrewHeader, []any{"A1", "א", "abc"})
	if _, err := ReadBatch(r, Mapping{}); err == nil {
		t.Fatal("expected error for unparseable price")
	}
}

func TestReadBatchCustomMapping(t *testing.T) {
	r := workbook(t, []any{"sku", "title", "amount"}, []any{"X9", "Widget", "12.50"})
	batch, err := ReadBatch(r, Mapping{ID: "sku", Name: "title", Price: "amount"})
	if err != nil {
		t.Fatalf("ReadBatch: %v", err)
	}
	if len(batch) != 1 || batch[0].ID != "X9" || batch[0].Price != 1250 {
		t.Fatalf("custom mapping failed: %+v", batch)
	}
}

func TestWriteNamesReportRoundTrip(t *testing.T) {
	records := []catalog.CleanedProductRecord{
		{
			ProductRecord: catalog.ProductRecord{ID: "A1", DisplayName: "כוס (24)"},
			CleanedName:   "כוס זכוכית",
		},
		{
			ProductRecord: catalog.ProductRecord{ID: "B2", DisplayName: "מגש"},
			CleanedName:   "מגש",
			Degraded:      true,
		},
	}
	data, err := WriteNamesReport(records)
	if err != nil {
		t.Fatalf("WriteNamesReport: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("want header + 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "A1" || rows[1][2] != "כוס זכוכית" {
		t.Fatalf("first data row wrong: %v", rows[1])
	}
	if rows[2][3] != "fallback" {
		t.Fatalf("degraded record must be marked, got %v", rows[2])
	}
}
