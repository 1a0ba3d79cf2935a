package rules

import "testing"

func TestParseAndApply(t *testing.T) {
	set, err := ParseString(`
# test rules
strip match "\\([0-9]+\\)"
strip prefix "* "
replace " X " with " × "
collapse spaces
trim
`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if set.Len() != 5 {
		t.Fatalf("want 5 rules, got %d", set.Len())
	}

	tests := []struct {
		in   string
		want string
	}{
		{"* כוס זכוכית (24)", "כוס זכוכית"},
		{"מגש 20 X 30", "מגש 20 × 30"},
		{"  שטיח   אמבט ", "שטיח אמבט"},
		{"clean already", "clean already"},
	}
	for _, tt := range tests {
		if got := set.Apply(tt.in); got != tt.want {
			t.Errorf("Apply(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyOrderMatters(t *testing.T) {
	// The strip runs before collapse, so the double space it leaves
	// behind is cleaned up.
	set := MustParse(`
strip match "MKT-[0-9]+"
collapse spaces
trim
`)
	if got, want := set.Apply("צנצנת MKT-50 זכוכית"), "צנצנת זכוכית"; got != want {
		t.Fatalf("Apply = %q, want %q", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad regexp", `strip match "(["`},
		{"unknown verb", `shout "loud"`},
		{"missing with", `replace "a" "b"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseString(tt.src); err == nil {
				t.Fatalf("expected parse error for %q", tt.src)
			}
		})
	}
}

func TestEmptyRuleFile(t *testing.T) {
	set, err := ParseString("# only a comment\n")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if got := set.Apply("unchanged"); got != "unchanged" {
		t.Fatalf("empty set must be identity, got %q", got)
	}
}
