package canvasrenderer

import (
	"bytes"
	"testing"

	"signpress/catalog"
	"signpress/document"
	"signpress/fonts"
	"signpress/label"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(fonts.Builtin())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestTextWidthGrowsWithContent(t *testing.T) {
	r := newTestRenderer(t)
	size := 12 * label.PtToMm
	short := r.TextWidth("ab", label.FontRegular, size)
	long := r.TextWidth("abcdef", label.FontRegular, size)
	if short <= 0 {
		t.Fatalf("width must be positive, got %g", short)
	}
	if long <= short {
		t.Fatalf("longer text must be wider: %g <= %g", long, short)
	}
}

func TestTextWidthScalesWithSize(t *testing.T) {
	r := newTestRenderer(t)
	small := r.TextWidth("199", label.FontExtraBold, 10*label.PtToMm)
	big := r.TextWidth("199", label.FontExtraBold, 20*label.PtToMm)
	if big <= small {
		t.Fatalf("larger size must be wider: %g <= %g", big, small)
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := newTestRenderer(t)
	engine, err := label.NewEngine(label.Config{}, r)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	frag, err := engine.Layout(catalog.CleanedProductRecord{
		ProductRecord: catalog.ProductRecord{ID: "7290001234", Price: 1990},
		CleanedName:   "Glass Tumbler 330 ml",
	})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	doc, _, err := document.Paginate([]document.Item{{ID: frag.ID, Fragment: frag}}, document.DefaultPageConfig())
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	out, err := r.Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF, starts with %q", out[:min(8, len(out))])
	}
}

func TestRenderRejectsEmptyDocument(t *testing.T) {
	r := newTestRenderer(t)
	if _, err := r.Render(&document.Document{}); err == nil {
		t.Fatal("expected error for a document with no pages")
	}
	if _, err := r.Render(nil); err == nil {
		t.Fatal("expected error for nil document")
	}
}
