package label

import "fmt"

// Supported barcode symbologies.
const (
	SymbologyCode128 = "code128"
	SymbologyEAN13   = "ean13"
	SymbologyEAN8    = "ean8"
)

// Config is the label design surface. Lengths and font sizes are mm.
type Config struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`

	CurrencySymbol   string `json:"currency_symbol" yaml:"currency_symbol"`
	DecimalSeparator string `json:"decimal_separator" yaml:"decimal_separator"`
	SaleBadgeText    string `json:"sale_badge_text" yaml:"sale_badge_text"`
	Symbology        string `json:"barcode_symbology" yaml:"barcode_symbology"`
	// BaseDirection is the reading direction assumed for name text that
	// carries no strong script of its own: "rtl" or "ltr".
	BaseDirection string `json:"base_direction" yaml:"base_direction"`

	NameFontSize      float64 `json:"name_font_size" yaml:"name_font_size"`
	NameLineHeight    float64 `json:"name_line_height" yaml:"name_line_height"`
	PriceFontSize     float64 `json:"price_font_size" yaml:"price_font_size"`
	SalePriceFontSize float64 `json:"sale_price_font_size" yaml:"sale_price_font_size"`
	PrevPriceFontSize float64 `json:"prev_price_font_size" yaml:"prev_price_font_size"`
	DigitsFontSize    float64 `json:"digits_font_size" yaml:"digits_font_size"`
	BadgeFontSize     float64 `json:"badge_font_size" yaml:"badge_font_size"`
	BarcodeHeight     float64 `json:"barcode_height" yaml:"barcode_height"`

	HatchSpacing float64 `json:"hatch_spacing" yaml:"hatch_spacing"`
	HatchWidth   float64 `json:"hatch_width" yaml:"hatch_width"`
	BandSteps    int     `json:"band_steps" yaml:"band_steps"`

	Background     Color   `json:"background" yaml:"background"`
	HatchColor     Color   `json:"hatch_color" yaml:"hatch_color"`
	PanelColor     Color   `json:"panel_color" yaml:"panel_color"`
	TextColor      Color   `json:"text_color" yaml:"text_color"`
	PriceColor     Color   `json:"price_color" yaml:"price_color"`
	SaleColor      Color   `json:"sale_color" yaml:"sale_color"`
	PrevPriceColor Color   `json:"prev_price_color" yaml:"prev_price_color"`
	BandStops      []Color `json:"band_stops" yaml:"band_stops"`
}

// DefaultConfig returns the stock sign design: 102x36 mm, dark blue
// field with diagonal hatching, gold gradient stripes and a white
// product panel on the right.
func DefaultConfig() Config {
	return Config{
		Width:  102,
		Height: 36,

		CurrencySymbol:   "₪",
		DecimalSeparator: ".",
		SaleBadgeText:    "מבצע!",
		Symbology:        SymbologyCode128,
		BaseDirection:    "rtl",

		NameFontSize:      12 * PtToMm,
		NameLineHeight:    14 * PtToMm,
		PriceFontSize:     50 * PtToMm,
		SalePriceFontSize: 40 * PtToMm,
		PrevPriceFontSize: 14 * PtToMm,
		DigitsFontSize:    8 * PtToMm,
		BadgeFontSize:     10 * PtToMm,
		BarcodeHeight:     7,

		HatchSpacing: 3 * PtToMm,
		HatchWidth:   0.5 * PtToMm,
		BandSteps:    50,

		Background:     Color{R: 0x25, G: 0x47, B: 0x78},
		HatchColor:     Color{R: 0x1E, G: 0x3A, B: 0x61},
		PanelColor:     Color{R: 0xFF, G: 0xFF, B: 0xFF},
		TextColor:      Color{R: 0x1A, G: 0x22, B: 0x36},
		PriceColor:     Color{R: 0xFF, G: 0xFF, B: 0xFF},
		SaleColor:      Color{R: 0xD3, G: 0x2F, B: 0x2F},
		PrevPriceColor: Color{R: 0xB0, G: 0xBE, B: 0xC5},
		BandStops: []Color{
			{R: 0xC2, G: 0x6F, B: 0x19},
			{R: 0xF6, G: 0xB5, B: 0x32},
			{R: 0xC2, G: 0x6F, B: 0x19},
		},
	}
}

// withDefaults fills zero values from DefaultConfig so partial configs
// stay usable.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.CurrencySymbol == "" {
		c.CurrencySymbol = def.CurrencySymbol
	}
	if c.DecimalSeparator == "" {
		c.DecimalSeparator = def.DecimalSeparator
	}
	if c.SaleBadgeText == "" {
		c.SaleBadgeText = def.SaleBadgeText
	}
	if c.Symbology == "" {
		c.Symbology = def.Symbology
	}
	if c.BaseDirection == "" {
		c.BaseDirection = def.BaseDirection
	}
	if c.NameFontSize <= 0 {
		c.NameFontSize = def.NameFontSize
	}
	if c.NameLineHeight <= 0 {
		c.NameLineHeight = def.NameLineHeight
	}
	if c.PriceFontSize <= 0 {
		c.PriceFontSize = def.PriceFontSize
	}
	if c.SalePriceFontSize <= 0 {
		c.SalePriceFontSize = def.SalePriceFontSize
	}
	if c.PrevPriceFontSize <= 0 {
		c.PrevPriceFontSize = def.PrevPriceFontSize
	}
	if c.DigitsFontSize <= 0 {
		c.DigitsFontSize = def.DigitsFontSize
	}
	if c.BadgeFontSize <= 0 {
		c.BadgeFontSize = def.BadgeFontSize
	}
	if c.BarcodeHeight <= 0 {
		c.BarcodeHeight = def.BarcodeHeight
	}
	if c.HatchSpacing <= 0 {
		c.HatchSpacing = def.HatchSpacing
	}
	if c.HatchWidth <= 0 {
		c.HatchWidth = def.HatchWidth
	}
	if c.BandSteps <= 0 {
		c.BandSteps = def.BandSteps
	}
	if c.Background == (Color{}) && c.PanelColor == (Color{}) {
		// Treat an all-zero palette as unset.
		c.Background = def.Background
		c.HatchColor = def.HatchColor
		c.PanelColor = def.PanelColor
		c.TextColor = def.TextColor
		c.PriceColor = def.PriceColor
		c.SaleColor = def.SaleColor
		c.PrevPriceColor = def.PrevPriceColor
	}
	if len(c.BandStops) == 0 {
		c.BandStops = def.BandStops
	}
	return c
}

func (c Config) validate() error {
	switch c.Symbology {
	case SymbologyCode128, SymbologyEAN13, SymbologyEAN8:
	default:
		return fmt.Errorf("label: unsupported barcode symbology %q", c.Symbology)
	}
	switch c.BaseDirection {
	case "rtl", "ltr":
	default:
		return fmt.Errorf("label: base direction must be rtl or ltr, got %q", c.BaseDirection)
	}
	return nil
}
