package label

import (
	"fmt"
	"strconv"
	"strings"
)

// All geometry in this package is expressed in millimeters. Config files
// may specify lengths in other units; ParseLength converts them.

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// ParseLength converts a length string to millimeters. Supported
// suffixes are mm, cm, in and pt; a bare number is taken as mm.
func ParseLength(value string) (float64, error) {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" {
		return 0, fmt.Errorf("empty length")
	}
	factor := 1.0
	num := v
	for _, suf := range []struct {
		s string
		f float64
	}{{"mm", 1}, {"cm", 10}, {"in", 25.4}, {"pt", PtToMm}} {
		if strings.HasSuffix(v, suf.s) {
			factor = suf.f
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("bad length %q: %w", value, err)
	}
	return f * factor, nil
}
