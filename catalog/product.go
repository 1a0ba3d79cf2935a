// Package catalog defines the product records flowing through the label
// pipeline and the fixed-point Money type used for exact price comparison.
package catalog

import (
	"fmt"
	"strings"
)

// ProductRecord is one row of an incoming catalog batch. It is immutable
// once parsed; the pipeline never writes back into a batch.
type ProductRecord struct {
	// ID is the stable business key (SKU or barcode digits).
	ID          string
	DisplayName string
	Price       Money
	OnSale      bool
	// OriginalPrice is the pre-sale price; meaningful only when OnSale.
	OriginalPrice Money

	// Operator flags carried in the batch file.
	ForcePrint       bool // print regardless of stored state, do not commit
	KeepOriginalName bool // skip the cleaning collaborator for this record
	Remove           bool // print a final label, then drop the state entry
}

// CleanedProductRecord is a ProductRecord plus its customer-facing name.
type CleanedProductRecord struct {
	ProductRecord
	CleanedName string
	// Degraded marks that the local fallback produced CleanedName because
	// the cleaning collaborator was unavailable.
	Degraded bool
}

// Batch is an ordered product list as parsed from one spreadsheet.
type Batch []ProductRecord

// DataIntegrityError marks a batch that cannot be processed safely.
// It is fatal to the batch: nothing is printed and nothing is committed.
type DataIntegrityError struct {
	ID     string
	Reason string
}

func (e *DataIntegrityError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("batch integrity: %s", e.Reason)
	}
	return fmt.Sprintf("batch integrity: product %s: %s", e.ID, e.Reason)
}

// Validate checks batch-level invariants: every record carries a
// well-formed id and no id appears twice. Ids are used verbatim as
// store keys, so surrounding whitespace is rejected here rather than
// trimmed away; ingest already normalizes cell values. Duplicates are
// an error, never silently merged.
func (b Batch) Validate() error {
	seen := make(map[string]struct{}, len(b))
	for i, rec := range b {
		if strings.TrimSpace(rec.ID) == "" {
			return &DataIntegrityError{Reason: fmt.Sprintf("row %d has an empty product id", i+1)}
		}
		if rec.ID != strings.TrimSpace(rec.ID) {
			return &DataIntegrityError{ID: rec.ID, Reason: "has surrounding whitespace"}
		}
		if _, ok := seen[rec.ID]; ok {
			return &DataIntegrityError{ID: rec.ID, Reason: "appears more than once in the batch"}
		}
		seen[rec.ID] = struct{}{}
	}
	return nil
}

// IDs returns the batch ids in input order.
func (b Batch) IDs() []string {
	ids := make([]string, len(b))
	for i, rec := range b {
		ids[i] = rec.ID
	}
	return ids
}
