package clean

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"

	"signpress/clean/rules"
)

// defaultRules strips the ERP noise the AI cleaner would otherwise
// handle: internal barcodes and catalogue codes, pack counts, stray
// dimension markers and whitespace damage.
const defaultRules = `
# internal long barcodes and catalogue codes
strip match "\\b7290[0-9]{5,}\\b"
strip match "\\b[A-Z]{2,}-[0-9]+\\b"
strip match "\\([0-9]+\\)"

# dimension and unit cosmetics
replace " X " with " × "
replace " x " with " × "
replace "''" with "״"

collapse spaces
trim
`

// Fallback is the deterministic local cleaner. It never fails, so it
// can terminate any degradation path.
type Fallback struct {
	set *rules.Set
}

var _ Cleaner = (*Fallback)(nil)

// NewFallback builds the stock fallback.
func NewFallback() *Fallback {
	return &Fallback{set: rules.MustParse(defaultRules)}
}

// NewFallbackWithRules uses an operator-supplied rule set.
func NewFallbackWithRules(set *rules.Set) *Fallback {
	return &Fallback{set: set}
}

// Normalize cleans a single name: compatibility normalization first
// (fixes width and ligature variants coming out of spreadsheets),
// then the rule pipeline. An emptied-out name falls back to the
// trimmed input so a label never loses its text to a rule.
func (f *Fallback) Normalize(name string) string {
	out := f.set.Apply(norm.NFKC.String(name))
	if out == "" {
		return strings.TrimSpace(name)
	}
	return out
}

// Clean implements Cleaner over the whole batch.
func (f *Fallback) Clean(_ context.Context, names []string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, name := range names {
		out[name] = f.Normalize(name)
	}
	return out, nil
}
