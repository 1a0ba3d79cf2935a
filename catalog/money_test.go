package catalog

import (
	"errors"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want Money
	}{
		{"19.90", 1990},
		{"19.9", 1990},
		{"19", 1900},
		{"0.05", 5},
		{"₪12.50", 1250},
		{"7,30", 730},
		{"19.9000000", 1990},
		{"-3.20", -320},
		{" 100 ", 10000},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMoney(tc.in)
			if err != nil {
				t.Fatalf("ParseMoney(%q) error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ParseMoney(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseMoneyRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "abc", "1.999", "12.3.4"} {
		if _, err := ParseMoney(in); err == nil {
			t.Fatalf("ParseMoney(%q) should fail", in)
		}
	}
}

func TestParseMoneyRejectsOverlongInput(t *testing.T) {
	// Long enough to wrap int64 if accumulated blindly.
	in := "99999999999999999999999999.00"
	if _, err := ParseMoney(in); err == nil {
		t.Fatalf("ParseMoney(%q) should fail instead of overflowing", in)
	}
	// Twelve whole digits is still accepted.
	got, err := ParseMoney("999999999999.99")
	if err != nil {
		t.Fatalf("ParseMoney: %v", err)
	}
	if got != Money(99999999999999) {
		t.Fatalf("ParseMoney = %d", got)
	}
}

func TestMoneySplitAndFormat(t *testing.T) {
	whole, frac := Money(1999).Split()
	if whole != "19" || frac != "99" {
		t.Fatalf("Split(1999) = %q,%q", whole, frac)
	}
	whole, frac = Money(500).Split()
	if whole != "5" || frac != "00" {
		t.Fatalf("Split(500) = %q,%q", whole, frac)
	}
	if got := Money(2499).Format(","); got != "24,99" {
		t.Fatalf("Format = %q", got)
	}
	if got := Money(2499).String(); got != "24.99" {
		t.Fatalf("String = %q", got)
	}
}

func TestBatchValidate(t *testing.T) {
	ok := Batch{{ID: "A1"}, {ID: "B2"}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := Batch{{ID: "A1"}, {ID: "A1"}}
	err := dup.Validate()
	if err == nil {
		t.Fatalf("duplicate id must fail validation")
	}
	var ie *DataIntegrityError
	if !errors.As(err, &ie) || ie.ID != "A1" {
		t.Fatalf("want DataIntegrityError for A1, got %v", err)
	}

	empty := Batch{{ID: "  "}}
	if err := empty.Validate(); err == nil {
		t.Fatalf("empty id must fail validation")
	}

	// Ids become store keys verbatim; padding must not slip past
	// validation and create a key distinct from its trimmed twin.
	padded := Batch{{ID: "A1"}, {ID: "A1 "}}
	err = padded.Validate()
	if err == nil {
		t.Fatalf("padded id must fail validation")
	}
	if !errors.As(err, &ie) || ie.ID != "A1 " {
		t.Fatalf("want DataIntegrityError for the padded id, got %v", err)
	}
}
