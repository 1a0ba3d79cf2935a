// Package fonts resolves the three label font weights. A fonts
// directory with Heebo TTF files gives the printed signs their proper
// Hebrew faces; without one the Go font family ships as a built-in
// fallback so rendering always works.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Set holds raw TTF data per label font weight.
type Set struct {
	Regular   []byte
	Bold      []byte
	ExtraBold []byte
}

// File names looked up inside a fonts directory.
const (
	regularFile   = "Heebo-Regular.ttf"
	boldFile      = "Heebo-Bold.ttf"
	extraBoldFile = "Heebo-ExtraBold.ttf"
)

// Builtin returns the built-in fallback set. The Go fonts carry no
// Hebrew glyphs beyond the basics, so directory fonts are preferred
// for production output.
func Builtin() Set {
	return Set{
		Regular:   goregular.TTF,
		Bold:      gobold.TTF,
		ExtraBold: gobold.TTF,
	}
}

// Dir loads the label fonts from dir. Any missing file falls back to
// the built-in face for that weight; a completely empty or unreadable
// directory yields the full built-in set with no error.
func Dir(dir string) (Set, error) {
	if dir == "" {
		return Builtin(), nil
	}
	set := Builtin()
	for _, f := range []struct {
		name string
		dst  *[]byte
	}{
		{regularFile, &set.Regular},
		{boldFile, &set.Bold},
		{extraBoldFile, &set.ExtraBold},
	} {
		data, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Set{}, fmt.Errorf("fonts: read %s: %w", f.name, err)
		}
		*f.dst = data
	}
	return set, nil
}
