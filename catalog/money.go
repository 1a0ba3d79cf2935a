package catalog

import (
	"fmt"
	"strings"
)

// Money is an amount in minor currency units (agorot, cents). Prices are
// compared as integers; two amounts are equal iff their minor units match.
type Money int64

// ParseMoney parses a price cell into minor units. Accepts "19.90", "19.9",
// "19" and a comma decimal separator; currency symbols and spaces are
// stripped. At most two fractional digits are allowed; price data beyond
// that is an input error, not something to round away.
func ParseMoney(s string) (Money, error) {
	v := strings.TrimSpace(s)
	v = strings.Trim(v, "₪$€ ")
	v = strings.ReplaceAll(v, ",", ".")
	if v == "" {
		return 0, fmt.Errorf("empty price")
	}
	neg := false
	if strings.HasPrefix(v, "-") {
		neg = true
		v = v[1:]
	}
	whole, frac := v, ""
	if i := strings.IndexByte(v, '.'); i >= 0 {
		whole, frac = v[:i], v[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	// Excel float artifacts like "19.900000000000" keep only trailing zeros.
	if len(frac) > 2 {
		if strings.Trim(frac[2:], "0") != "" {
			return 0, fmt.Errorf("price %q has more than two fractional digits", s)
		}
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}
	// 12 whole digits is already far beyond any shelf price; longer
	// input would wrap int64, so treat it as malformed data.
	if len(whole) > 12 {
		return 0, fmt.Errorf("price %q is out of range", s)
	}
	var units int64
	for _, r := range whole {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid price %q", s)
		}
		units = units*10 + int64(r-'0')
	}
	var minor int64
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid price %q", s)
		}
		minor = minor*10 + int64(r-'0')
	}
	m := Money(units*100 + minor)
	if neg {
		m = -m
	}
	return m, nil
}

// Split returns the whole-unit digits and the two fractional digits as
// strings, e.g. 1990 -> ("19", "90"). The label engine draws them at
// different sizes.
func (m Money) Split() (string, string) {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d", sign, v/100), fmt.Sprintf("%02d", v%100)
}

// Format renders the amount with the given decimal separator: "19.90".
func (m Money) Format(sep string) string {
	if sep == "" {
		sep = "."
	}
	whole, frac := m.Split()
	return whole + sep + frac
}

func (m Money) String() string { return m.Format(".") }
