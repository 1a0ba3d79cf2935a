// Package shape resolves mixed-direction text into ordered directional
// runs for label presentation. Logical and visual forms are distinct
// values: Line.Logical and Run.Text always carry logical rune order, and
// only Presentation produces display-ordered text. Stored or compared
// strings must never come from the presentation side.
package shape

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/bidi"
)

// Direction is the reading direction of a run or line.
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

func (d Direction) String() string {
	if d == RightToLeft {
		return "rtl"
	}
	return "ltr"
}

// Run is a maximal substring of uniform direction. Text keeps the
// logical rune order of the input. Visual is the slot the run occupies
// when slots are placed left to right on the page.
type Run struct {
	Text   string    `json:"text"`
	Dir    Direction `json:"dir"`
	Visual int       `json:"visual"`
}

// Presentation returns the display form of the run: contextual letter
// forms applied for joining scripts, then rune order reversed for
// right-to-left runs. Mirrored characters such as brackets are swapped
// during the reverse.
func (r Run) Presentation() string {
	s := Join(r.Text)
	if r.Dir == RightToLeft {
		s = bidi.ReverseString(s)
	}
	return s
}

// Line is the resolved form of one logical string.
type Line struct {
	Logical string    `json:"logical"`
	Base    Direction `json:"base"`
	Runs    []Run     `json:"runs"` // logical order
}

// VisualRuns returns the runs ordered by visual slot, left to right.
func (l Line) VisualRuns() []Run {
	out := make([]Run, len(l.Runs))
	for _, r := range l.Runs {
		out[r.Visual] = r
	}
	return out
}

// Presentation returns the full display string, visual slots joined left
// to right. Callers that place runs individually should use VisualRuns
// instead.
func (l Line) Presentation() string {
	var b strings.Builder
	for _, r := range l.VisualRuns() {
		b.WriteString(r.Presentation())
	}
	return b.String()
}

// Resolve splits text into directional runs and assigns each run the
// visual slot it occupies when slots are placed left to right. fallback
// decides the base direction when the text has no strong characters.
// Paragraph separators are treated as spaces.
func Resolve(text string, fallback Direction) (Line, error) {
	logical := sanitize(text)
	line := Line{Logical: logical, Base: baseOf(logical, fallback)}
	if logical == "" {
		return line, nil
	}

	def := bidi.LeftToRight
	if fallback == RightToLeft {
		def = bidi.RightToLeft
	}
	var p bidi.Paragraph
	if _, err := p.SetString(logical, bidi.DefaultDirection(def)); err != nil {
		return Line{}, fmt.Errorf("shape %q: %w", text, err)
	}
	ord, err := p.Order()
	if err != nil {
		return Line{}, fmt.Errorf("shape %q: %w", text, err)
	}

	line.Runs = splitRuns(ord)
	assignSlots(line.Runs, line.Base)
	return line, nil
}

// splitRuns converts a library ordering into runs, cutting the leading
// number segment off a left-to-right run that directly follows a
// right-to-left run. Such digits keep the embedding level of the
// right-to-left stretch and travel with it, while a following strong
// left-to-right word does not.
func splitRuns(ord bidi.Ordering) []Run {
	runs := make([]Run, 0, ord.NumRuns())
	for i := 0; i < ord.NumRuns(); i++ {
		r := ord.Run(i)
		dir := LeftToRight
		if r.Direction() == bidi.RightToLeft {
			dir = RightToLeft
		}
		text := r.String()
		if dir == LeftToRight && len(runs) > 0 && runs[len(runs)-1].Dir == RightToLeft {
			if head, tail := splitWeakHead(text); head != "" && tail != "" {
				runs = append(runs, Run{Text: head, Dir: LeftToRight})
				text = tail
			}
		}
		runs = append(runs, Run{Text: text, Dir: dir})
	}
	return runs
}

// assignSlots computes the visual order of runs. A right-to-left base
// reverses the whole line. A left-to-right base reverses every stretch
// that starts at a right-to-left run and extends over adjacent
// right-to-left or weak runs.
func assignSlots(runs []Run, base Direction) {
	for i := range runs {
		runs[i].Visual = i
	}
	if base == RightToLeft {
		for i := range runs {
			runs[i].Visual = len(runs) - 1 - i
		}
		return
	}
	for i := 0; i < len(runs); i++ {
		if runs[i].Dir != RightToLeft {
			continue
		}
		j := i
		for k := i + 1; k < len(runs); k++ {
			if runs[k].Dir == RightToLeft || isWeakRun(runs[k].Text) {
				j = k
				continue
			}
			break
		}
		for a, b := i, j; a < b; a, b = a+1, b-1 {
			runs[a].Visual, runs[b].Visual = runs[b].Visual, runs[a].Visual
		}
		i = j
	}
}

// baseOf applies the first-strong rule for the base direction.
func baseOf(s string, fallback Direction) Direction {
	for i := 0; i < len(s); {
		props, sz := bidi.LookupString(s[i:])
		switch props.Class() {
		case bidi.L:
			return LeftToRight
		case bidi.R, bidi.AL:
			return RightToLeft
		}
		i += sz
	}
	return fallback
}

// isWeakRun reports whether a run holds no strong left-to-right rune.
// Digit and measure runs between right-to-left text present left to
// right yet belong to the surrounding right-to-left stretch.
func isWeakRun(s string) bool {
	for i := 0; i < len(s); {
		props, sz := bidi.LookupString(s[i:])
		if props.Class() == bidi.L {
			return false
		}
		i += sz
	}
	return true
}

// splitWeakHead cuts the leading number segment off a run. The head ends
// at the last rune of a number class; separators inside a number are
// kept, anything else stops the scan.
func splitWeakHead(s string) (head, tail string) {
	end := 0
	for i := 0; i < len(s); {
		props, sz := bidi.LookupString(s[i:])
		switch props.Class() {
		case bidi.EN, bidi.AN, bidi.ET, bidi.NSM:
			end = i + sz
		case bidi.ES, bidi.CS:
			// number separators, kept only when more digits follow
		default:
			return s[:end], s[end:]
		}
		i += sz
	}
	return s[:end], s[end:]
}

// sanitize replaces paragraph separators with spaces so a cell value
// that leaked a line break still resolves as one line.
func sanitize(s string) string {
	const seps = "\n\r "
	if !strings.ContainsAny(s, seps) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(seps, r) {
			return ' '
		}
		return r
	}, s)
}
