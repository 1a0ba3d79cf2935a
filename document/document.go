// Package document packs label fragments onto fixed-grid pages. The
// grid walk is row-major from the top left and purely arithmetic:
// the same fragment sequence and page configuration always produce
// the same placement.
package document

import (
	"fmt"

	"signpress/label"
)

// Policy decides what a fragment-level layout failure does to the
// document.
type Policy string

const (
	// PolicySkip omits the failed label, records it and continues.
	PolicySkip Policy = "skip"
	// PolicyAbort fails the whole document on the first bad fragment.
	PolicyAbort Policy = "abort"
)

// PageConfig describes the print grid. Lengths are mm.
type PageConfig struct {
	Width   float64 `json:"width" yaml:"width"`
	Height  float64 `json:"height" yaml:"height"`
	Rows    int     `json:"rows" yaml:"rows"`
	Columns int     `json:"columns" yaml:"columns"`
	GapX    float64 `json:"gap_x" yaml:"gap_x"`
	GapY    float64 `json:"gap_y" yaml:"gap_y"`
	MarginX float64 `json:"margin_x" yaml:"margin_x"`
	MarginY float64 `json:"margin_y" yaml:"margin_y"`
	OnError Policy  `json:"on_error" yaml:"on_error"`
}

// DefaultPageConfig is an A4 sheet in the stock two-column layout.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Width:   210,
		Height:  297,
		Columns: 2,
		Rows:    8,
		GapX:    0.3,
		GapY:    0.35,
		OnError: PolicySkip,
	}
}

func (c PageConfig) withDefaults() PageConfig {
	def := DefaultPageConfig()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.Columns <= 0 {
		c.Columns = def.Columns
	}
	if c.Rows <= 0 {
		c.Rows = def.Rows
	}
	if c.OnError == "" {
		c.OnError = def.OnError
	}
	return c
}

// LabelsPerPage returns the grid capacity.
func (c PageConfig) LabelsPerPage() int { return c.Rows * c.Columns }

// Item is one pagination input: a laid-out fragment or the layout
// error that replaced it.
type Item struct {
	ID       string
	Fragment *label.Fragment
	Err      error
}

// Placed is a fragment with its page position.
type Placed struct {
	Fragment *label.Fragment `json:"fragment"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
}

// Page is one sheet of placed labels.
type Page struct {
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Labels []Placed `json:"labels"`
}

// Meta is carried into the output file header.
type Meta struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Subject string `json:"subject"`
	Creator string `json:"creator"`
}

// Document is the paginated result handed to a renderer.
type Document struct {
	Pages []Page `json:"pages"`
	Meta  Meta   `json:"meta"`
}

// Skipped records a label omitted under PolicySkip.
type Skipped struct {
	ID     string
	Reason error
}

// Paginate packs items onto pages in input order. Under PolicySkip a
// failed item is dropped and reported; under PolicyAbort the first
// failure fails the call. An all-skipped or empty input yields a
// document with no pages.
func Paginate(items []Item, cfg PageConfig) (*Document, []Skipped, error) {
	cfg = cfg.withDefaults()
	switch cfg.OnError {
	case PolicySkip, PolicyAbort:
	default:
		return nil, nil, fmt.Errorf("document: unknown error policy %q", cfg.OnError)
	}

	doc := &Document{}
	var skipped []Skipped
	var page *Page
	slot := 0
	for _, item := range items {
		if item.Err != nil {
			if cfg.OnError == PolicyAbort {
				return nil, nil, fmt.Errorf("document: label %s: %w", item.ID, item.Err)
			}
			skipped = append(skipped, Skipped{ID: item.ID, Reason: item.Err})
			continue
		}
		if item.Fragment == nil {
			continue
		}
		if page == nil || slot == cfg.LabelsPerPage() {
			doc.Pages = append(doc.Pages, Page{Width: cfg.Width, Height: cfg.Height})
			page = &doc.Pages[len(doc.Pages)-1]
			slot = 0
		}
		row := slot / cfg.Columns
		col := slot % cfg.Columns
		page.Labels = append(page.Labels, Placed{
			Fragment: item.Fragment,
			X:        cfg.MarginX + float64(col)*(item.Fragment.Width+cfg.GapX),
			Y:        cfg.MarginY + float64(row)*(item.Fragment.Height+cfg.GapY),
		})
		slot++
	}
	return doc, skipped, nil
}
