// Package label converts one cleaned product record into the vector
// geometry of a printable shelf sign. All output is label-local
// millimeters with the origin at the top left; the engine never
// touches a canvas, so identical input and configuration always yield
// identical geometry.
package label

import (
	"fmt"
	"math"
	"strings"

	"signpress/catalog"
	"signpress/shape"
)

// Measurer reports the advance width of presentation text in mm at
// the given font size. The canvas renderer implements it with real
// font metrics; tests use a fixed-advance fake.
type Measurer interface {
	TextWidth(text string, font FontStyle, size float64) float64
}

// Engine lays out labels for one configuration.
type Engine struct {
	cfg  Config
	m    Measurer
	base shape.Direction
}

// NewEngine validates the configuration and returns an engine.
func NewEngine(cfg Config, m Measurer) (*Engine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("label: engine needs a measurer")
	}
	base := shape.LeftToRight
	if cfg.BaseDirection == "rtl" {
		base = shape.RightToLeft
	}
	return &Engine{cfg: cfg, m: m, base: base}, nil
}

// Config returns the effective configuration after defaulting.
func (e *Engine) Config() Config { return e.cfg }

// Reference design width the stock geometry was drawn against. All
// horizontal positions scale with the configured label width.
const designWidth = 102.0

// Layout produces the fragment for one record. Failures are always
// *LayoutError naming the offending field.
func (e *Engine) Layout(rec catalog.CleanedProductRecord) (*Fragment, error) {
	name := strings.TrimSpace(rec.CleanedName)
	if name == "" {
		return nil, &LayoutError{ID: rec.ID, Field: "name"}
	}
	modules, err := Modules(rec.ID, e.cfg.Symbology)
	if err != nil {
		return nil, &LayoutError{ID: rec.ID, Field: "barcode", Err: err}
	}

	cfg := e.cfg
	w, h := cfg.Width, cfg.Height
	scale := w / designWidth
	bg := cfg.Background
	frag := &Fragment{
		ID:         rec.ID,
		Name:       name,
		Width:      w,
		Height:     h,
		Background: Rect{Width: w, Height: h, FillColor: &bg},
		Hatch:      hatchLines(w, h, cfg.HatchSpacing, cfg.HatchWidth, cfg.HatchColor),
	}

	// White product panel on the right, with name, bars and id.
	panel := Rect{X: 66 * scale, Y: 3 * scale, Width: 34 * scale, Height: 30 * scale}
	fill := cfg.PanelColor
	panel.FillColor = &fill
	frag.Rects = append(frag.Rects, panel)
	e.layoutPanel(frag, panel, name, rec.ID, modules)

	if rec.OnSale {
		e.layoutSale(frag, rec, scale)
	} else {
		e.layoutRegular(frag, rec, scale)
	}
	return frag, nil
}

// layoutRegular draws the standard sign: two gold bands and the price
// centered on the left half.
func (e *Engine) layoutRegular(frag *Fragment, rec catalog.CleanedProductRecord, scale float64) {
	cfg := e.cfg
	frag.Bands = append(frag.Bands,
		Band{X: 2 * scale, Y: 2 * scale, Width: 60 * scale, Height: 1 * scale, Stops: cfg.BandStops, Steps: cfg.BandSteps},
		Band{X: 2 * scale, Y: 33 * scale, Width: 60 * scale, Height: 1 * scale, Stops: cfg.BandStops, Steps: cfg.BandSteps},
	)
	baseline := cfg.Height/2 + 0.35*cfg.PriceFontSize
	texts, _ := e.priceGroup(rec.Price, 33*scale, baseline, cfg.PriceFontSize, cfg.PriceColor, true)
	frag.Texts = append(frag.Texts, texts...)
}

// layoutSale draws the discount variant: sale badge, struck-through
// previous price over a gold strip, highlighted new price.
func (e *Engine) layoutSale(frag *Fragment, rec catalog.CleanedProductRecord, scale float64) {
	cfg := e.cfg

	// Badge in the top left corner.
	badge := e.presentation(cfg.SaleBadgeText)
	badgeW := e.m.TextWidth(badge, FontBold, cfg.BadgeFontSize) + 4
	badgeH := cfg.BadgeFontSize * 1.6
	fill := cfg.SaleColor
	frag.Rects = append(frag.Rects, Rect{Width: badgeW, Height: badgeH, FillColor: &fill})
	frag.Texts = append(frag.Texts, TextBox{
		Content:   badge,
		X:         badgeW / 2,
		Y:         badgeH/2 + 0.35*cfg.BadgeFontSize,
		Anchor:    AnchorCenter,
		Font:      FontBold,
		FontSize:  cfg.BadgeFontSize,
		Color:     cfg.PriceColor,
		TextWidth: badgeW - 4,
	})

	if rec.OriginalPrice > 0 {
		frag.Bands = append(frag.Bands, Band{
			X: 2 * scale, Y: cfg.Height - 12, Width: 60 * scale, Height: 1,
			Stops: cfg.BandStops, Steps: cfg.BandSteps,
		})

		// Previous price, struck through.
		prevBase := cfg.Height - 5
		prevTexts, prevW := e.priceGroup(rec.OriginalPrice, 20, prevBase, cfg.PrevPriceFontSize, cfg.PrevPriceColor, false)
		frag.Texts = append(frag.Texts, prevTexts...)
		midY := prevBase - 0.35*cfg.PrevPriceFontSize
		frag.Strikes = append(frag.Strikes, Line{
			X1: 19, Y1: midY + 0.3*cfg.PrevPriceFontSize,
			X2: 21 + prevW, Y2: midY - 0.3*cfg.PrevPriceFontSize,
			Color: cfg.SaleColor, Width: 0.5,
		})

		texts, _ := e.priceGroup(rec.Price, 12, cfg.Height-15, cfg.SalePriceFontSize, cfg.PriceColor, false)
		frag.Texts = append(frag.Texts, texts...)
		return
	}

	// No previous price: fall back to the standard price block.
	e.layoutRegular(frag, rec, scale)
}

// layoutPanel fills the white panel: wrapped name on top, barcode bars
// and the human-readable id at the bottom.
func (e *Engine) layoutPanel(frag *Fragment, panel Rect, name, id string, modules []bool) {
	cfg := e.cfg
	cx := panel.X + panel.Width/2

	idBaseline := panel.Y + panel.Height - 1.8
	frag.Texts = append(frag.Texts, TextBox{
		Content:   id,
		X:         cx,
		Y:         idBaseline,
		Anchor:    AnchorCenter,
		Font:      FontRegular,
		FontSize:  cfg.DigitsFontSize,
		Color:     cfg.TextColor,
		TextWidth: e.m.TextWidth(id, FontRegular, cfg.DigitsFontSize),
	})

	barBottom := idBaseline - cfg.DigitsFontSize - 0.6
	barWidth := panel.Width * 0.82
	frag.Barcode = bars(modules, cx-barWidth/2, barBottom-cfg.BarcodeHeight, barWidth, cfg.BarcodeHeight, cfg.TextColor)

	nameTop := panel.Y + 1.5
	nameH := barBottom - cfg.BarcodeHeight - 1 - nameTop
	lines := e.wrapName(name, panel.Width-2)
	maxLines := int(nameH / cfg.NameLineHeight)
	if maxLines < 1 {
		maxLines = 1
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	blockTop := nameTop + (nameH-float64(len(lines))*cfg.NameLineHeight)/2
	if blockTop < nameTop {
		blockTop = nameTop
	}
	for i, line := range lines {
		frag.Texts = append(frag.Texts, TextBox{
			Content:   line.text,
			X:         cx,
			Y:         blockTop + float64(i)*cfg.NameLineHeight + 0.8*cfg.NameFontSize,
			Anchor:    AnchorCenter,
			Font:      FontBold,
			FontSize:  cfg.NameFontSize,
			Color:     cfg.TextColor,
			TextWidth: line.width,
		})
	}
}

type measuredLine struct {
	text  string
	width float64
}

// wrapName wraps the logical name into lines that fit the panel. Fit
// checks and the emitted content use the presentation form of each
// candidate line, so mixed-direction names wrap on what the reader
// actually sees.
func (e *Engine) wrapName(name string, width float64) []measuredLine {
	words := strings.Fields(name)
	var lines []measuredLine
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		text := e.presentation(strings.Join(current, " "))
		lines = append(lines, measuredLine{
			text:  text,
			width: e.m.TextWidth(text, FontBold, e.cfg.NameFontSize),
		})
		current = nil
	}
	for _, word := range words {
		candidate := e.presentation(strings.Join(append(current, word), " "))
		if len(current) > 0 && e.m.TextWidth(candidate, FontBold, e.cfg.NameFontSize) > width {
			flush()
		}
		current = append(current, word)
	}
	flush()
	return lines
}

// presentation resolves directional runs and joining forms for one
// display line. Resolve only fails on malformed input that Fields and
// sanitize already rule out, so the logical text is a safe fallback.
func (e *Engine) presentation(text string) string {
	line, err := shape.Resolve(text, e.base)
	if err != nil {
		return text
	}
	return line.Presentation()
}

// priceGroup lays out currency symbol, large whole digits and small
// fraction digits left to right. centered places the group around x;
// otherwise x is the left edge. Returns the boxes and the total width.
func (e *Engine) priceGroup(price catalog.Money, x, baseline, size float64, col Color, centered bool) ([]TextBox, float64) {
	cfg := e.cfg
	whole, frac := price.Split()
	dec := cfg.DecimalSeparator + frac
	sub := size * 0.5
	gap := 2 * PtToMm

	wSym := e.m.TextWidth(cfg.CurrencySymbol, FontRegular, sub)
	wWhole := e.m.TextWidth(whole, FontExtraBold, size)
	wDec := e.m.TextWidth(dec, FontExtraBold, sub)
	total := wSym + gap + wWhole + gap + wDec

	cur := x
	if centered {
		cur = x - total/2
	}
	texts := []TextBox{
		{Content: cfg.CurrencySymbol, X: cur, Y: baseline, Anchor: AnchorLeft, Font: FontRegular, FontSize: sub, Color: col, TextWidth: wSym},
		{Content: whole, X: cur + wSym + gap, Y: baseline, Anchor: AnchorLeft, Font: FontExtraBold, FontSize: size, Color: col, TextWidth: wWhole},
		{Content: dec, X: cur + wSym + gap + wWhole + gap, Y: baseline, Anchor: AnchorLeft, Font: FontExtraBold, FontSize: sub, Color: col, TextWidth: wDec},
	}
	return texts, total
}

// hatchLines covers the label with 45 degree diagonals, clipped to the
// label box analytically so renderers need no clip path.
func hatchLines(w, h, spacing, width float64, col Color) []Line {
	if spacing <= 0 {
		return nil
	}
	var out []Line
	for i := -h; i < w; i += spacing {
		x1 := math.Max(0, i)
		x2 := math.Min(w, i+h)
		if x2-x1 < 1e-9 {
			continue
		}
		out = append(out, Line{
			X1: x1, Y1: h - (x1 - i),
			X2: x2, Y2: h - (x2 - i),
			Color: col, Width: width,
		})
	}
	return out
}
