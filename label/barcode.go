package label

import (
	"fmt"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/ean"
)

// Modules encodes a product id under the given symbology and returns
// one bool per barcode module, true for a dark bar. The boombuler
// one-dimensional codes expose exactly one pixel per module, which
// maps directly onto vector rectangles.
func Modules(id, symbology string) ([]bool, error) {
	if id == "" {
		return nil, fmt.Errorf("empty product id")
	}
	var enc func(string) (barcode.BarcodeIntCS, error)
	switch symbology {
	case SymbologyCode128:
		enc = code128.Encode
	case SymbologyEAN13:
		if n := digitCount(id); n != 12 && n != 13 {
			return nil, fmt.Errorf("ean13 needs 12 or 13 digits, got %q", id)
		}
		enc = ean.Encode
	case SymbologyEAN8:
		if n := digitCount(id); n != 7 && n != 8 {
			return nil, fmt.Errorf("ean8 needs 7 or 8 digits, got %q", id)
		}
		enc = ean.Encode
	default:
		return nil, fmt.Errorf("unsupported symbology %q", symbology)
	}
	bc, err := enc(id)
	if err != nil {
		return nil, err
	}
	w := bc.Bounds().Dx()
	modules := make([]bool, w)
	for x := 0; x < w; x++ {
		r, g, b, _ := bc.At(x, 0).RGBA()
		modules[x] = r == 0 && g == 0 && b == 0
	}
	return modules, nil
}

// bars merges consecutive dark modules into filled rectangles scaled
// to the target area.
func bars(modules []bool, x, y, width, height float64, fill Color) []Rect {
	if len(modules) == 0 {
		return nil
	}
	moduleW := width / float64(len(modules))
	var out []Rect
	for i := 0; i < len(modules); {
		if !modules[i] {
			i++
			continue
		}
		j := i
		for j < len(modules) && modules[j] {
			j++
		}
		c := fill
		out = append(out, Rect{
			X:         x + float64(i)*moduleW,
			Y:         y,
			Width:     float64(j-i) * moduleW,
			Height:    height,
			FillColor: &c,
		})
		i = j
	}
	return out
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}
		n++
	}
	return n
}
