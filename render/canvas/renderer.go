// Package canvasrenderer draws label documents to PDF via
// github.com/tdewolff/canvas. It also provides the text measurement
// the label engine needs, so layout and output share one set of font
// metrics.
package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"signpress/document"
	"signpress/fonts"
	"signpress/label"
	"signpress/render"
)

// Renderer implements render.Renderer and label.Measurer on top of a
// canvas PDF writer.
type Renderer struct {
	mu       sync.Mutex
	families map[label.FontStyle]*canvas.FontFamily
}

var (
	_ render.Renderer = (*Renderer)(nil)
	_ label.Measurer  = (*Renderer)(nil)
)

// New loads the font set into canvas font families.
func New(set fonts.Set) (*Renderer, error) {
	r := &Renderer{families: map[label.FontStyle]*canvas.FontFamily{}}
	for _, f := range []struct {
		style label.FontStyle
		data  []byte
	}{
		{label.FontRegular, set.Regular},
		{label.FontBold, set.Bold},
		{label.FontExtraBold, set.ExtraBold},
	} {
		if len(f.data) == 0 {
			return nil, fmt.Errorf("canvas renderer: font %s is empty", f.style)
		}
		family := canvas.NewFontFamily(string(f.style))
		if err := family.LoadFont(f.data, 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("canvas renderer: load font %s: %w", f.style, err)
		}
		r.families[f.style] = family
	}
	return r, nil
}

// TextWidth implements label.Measurer. Size is mm; the face is built
// in pt and canvas reports advance widths back in mm.
func (r *Renderer) TextWidth(text string, font label.FontStyle, size float64) float64 {
	return r.face(font, size, label.Color{}).TextWidth(text)
}

func (r *Renderer) face(font label.FontStyle, sizeMM float64, col label.Color) *canvas.FontFace {
	r.mu.Lock()
	family, ok := r.families[font]
	if !ok {
		family = r.families[label.FontRegular]
	}
	r.mu.Unlock()
	return family.Face(sizeMM*label.MmToPt, rgba(col), canvas.FontRegular, canvas.FontNormal)
}

// Render writes all pages into one PDF.
func (r *Renderer) Render(doc *document.Document) ([]byte, error) {
	if doc == nil || len(doc.Pages) == 0 {
		return nil, fmt.Errorf("canvas renderer: document has no pages")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, doc.Pages[0].Width, doc.Pages[0].Height, nil)
	writer.SetInfo(doc.Meta.Title, doc.Meta.Subject, "", doc.Meta.Author, doc.Meta.Creator)
	for i, page := range doc.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, like the fragments
		for _, placed := range page.Labels {
			r.drawFragment(ctx, placed)
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("canvas renderer: write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// drawFragment paints one label at its page offset. Order matters:
// background, hatch, panels, bands, bars, text, strikethroughs.
func (r *Renderer) drawFragment(ctx *canvas.Context, placed document.Placed) {
	frag := placed.Fragment
	dx, dy := placed.X, placed.Y

	r.drawRect(ctx, frag.Background, dx, dy)
	for _, ln := range frag.Hatch {
		r.drawLine(ctx, ln, dx, dy)
	}
	for _, rc := range frag.Rects {
		r.drawRect(ctx, rc, dx, dy)
	}
	for _, band := range frag.Bands {
		for _, rc := range band.Slices() {
			r.drawRect(ctx, rc, dx, dy)
		}
	}
	for _, rc := range frag.Barcode {
		r.drawRect(ctx, rc, dx, dy)
	}
	for _, tb := range frag.Texts {
		r.drawTextBox(ctx, tb, dx, dy)
	}
	for _, ln := range frag.Strikes {
		r.drawLine(ctx, ln, dx, dy)
	}
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb label.TextBox, dx, dy float64) {
	face := r.face(tb.Font, tb.FontSize, tb.Color)
	var align canvas.TextAlign
	switch tb.Anchor {
	case label.AnchorCenter:
		align = canvas.Center
	case label.AnchorRight:
		align = canvas.Right
	default:
		align = canvas.Left
	}
	line := canvas.NewTextLine(face, tb.Content, align)
	ctx.DrawText(dx+tb.X, dy+tb.Y, line)
}

func (r *Renderer) drawRect(ctx *canvas.Context, rc label.Rect, dx, dy float64) {
	if rc.FillColor != nil {
		ctx.SetFillColor(rgba(*rc.FillColor))
	} else {
		ctx.SetFillColor(color.RGBA{})
	}
	if rc.StrokeWidth > 0 {
		ctx.SetStrokeColor(rgba(rc.StrokeColor))
		ctx.SetStrokeWidth(rc.StrokeWidth)
	} else {
		ctx.SetStrokeColor(color.RGBA{})
		ctx.SetStrokeWidth(0)
	}
	ctx.DrawPath(dx+rc.X, dy+rc.Y, canvas.Rectangle(rc.Width, rc.Height))
}

func (r *Renderer) drawLine(ctx *canvas.Context, ln label.Line, dx, dy float64) {
	w := ln.Width
	if w <= 0 {
		w = 0.2
	}
	ctx.SetStrokeColor(rgba(ln.Color))
	ctx.SetStrokeWidth(w)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
	ctx.DrawPath(dx+ln.X1, dy+ln.Y1, p)
}

func rgba(c label.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
