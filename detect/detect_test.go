package detect

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"signpress/catalog"
	"signpress/store"
)

func record(id string, price catalog.Money) catalog.ProductRecord {
	return catalog.ProductRecord{ID: id, DisplayName: "item " + id, Price: price}
}

func seeded(entries ...store.StateEntry) *store.Memory {
	m := store.NewMemory()
	m.Seed(entries...)
	return m
}

func ids(recs []catalog.ProductRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestDetectClassification(t *testing.T) {
	ctx := context.Background()
	st := seeded(
		store.StateEntry{ProductID: "SAME", LastPrice: 1000},
		store.StateEntry{ProductID: "MOVED", LastPrice: 1000},
	)
	batch := catalog.Batch{
		record("NEW", 500),
		record("SAME", 1000),
		record("MOVED", 1250),
	}
	cs, err := Detect(ctx, batch, st)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if got, want := ids(cs.ToPrint), []string{"NEW", "MOVED"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ToPrint = %v, want %v", got, want)
	}
	if got, want := cs.Unchanged, []string{"SAME"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Unchanged = %v, want %v", got, want)
	}
	if cs.Reasons["NEW"] != ReasonNew || cs.Reasons["MOVED"] != ReasonPriceChanged {
		t.Fatalf("reasons wrong: %v", cs.Reasons)
	}
}

func TestDetectPreservesBatchOrder(t *testing.T) {
	ctx := context.Background()
	batch := catalog.Batch{record("C", 3), record("A", 1), record("B", 2)}
	cs, err := Detect(ctx, batch, store.NewMemory())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if got, want := ids(cs.ToPrint), []string{"C", "A", "B"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order not preserved: %v", got)
	}
}

func TestDetectIdempotent(t *testing.T) {
	ctx := context.Background()
	st := seeded(store.StateEntry{ProductID: "SAME", LastPrice: 1000})
	batch := catalog.Batch{record("NEW", 500), record("SAME", 1000)}

	first, err := Detect(ctx, batch, st)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	second, err := Detect(ctx, batch, st)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("detect must be a pure read: two runs over the same store differ")
	}
	if st.Len() != 1 {
		t.Fatalf("detect mutated the store: %d entries", st.Len())
	}
}

func TestDetectDuplicateIDFailsFast(t *testing.T) {
	ctx := context.Background()
	batch := catalog.Batch{record("A1", 1999), record("A1", 2499)}
	_, err := Detect(ctx, batch, store.NewMemory())
	var integrity *catalog.DataIntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("want DataIntegrityError, got %v", err)
	}
	if integrity.ID != "A1" {
		t.Fatalf("error must name the duplicate id, got %q", integrity.ID)
	}
}

func TestDetectForcedAndRemoval(t *testing.T) {
	ctx := context.Background()
	st := seeded(
		store.StateEntry{ProductID: "FORCED", LastPrice: 1000},
		store.StateEntry{ProductID: "GONE", LastPrice: 2000},
	)
	forced := record("FORCED", 1000)
	forced.ForcePrint = true
	gone := record("GONE", 2000)
	gone.Remove = true

	cs, err := Detect(ctx, catalog.Batch{forced, gone}, st)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if got, want := ids(cs.ToPrint), []string{"FORCED", "GONE"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ToPrint = %v, want %v", got, want)
	}
	if cs.Reasons["FORCED"] != ReasonForced || cs.Reasons["GONE"] != ReasonRemoval {
		t.Fatalf("reasons wrong: %v", cs.Reasons)
	}
	// Neither flag mutates state during detection.
	if st.Len() != 2 {
		t.Fatalf("detect mutated the store: %d entries", st.Len())
	}
}

func TestDetectEmptyBatch(t *testing.T) {
	cs, err := Detect(context.Background(), catalog.Batch{}, store.NewMemory())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !cs.Empty() {
		t.Fatal("empty batch must yield an empty change set")
	}
}
