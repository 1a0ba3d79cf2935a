// Package render declares the output backend boundary.
package render

import "signpress/document"

// Renderer turns a paginated document into final file bytes, for
// example a PDF.
type Renderer interface {
	Render(doc *document.Document) ([]byte, error)
}
