package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page is the extracted text of one document page. Number is 1-based.
type Page struct {
	Number int
	Text   string
}

// Loader extracts page text from a document on disk.
type Loader interface {
	Load(ctx context.Context, path string) ([]Page, error)
}

// PDFLoader reads PDF files page by page.
type PDFLoader struct{}

// Load returns the non-blank pages of the PDF at path. Malformed files can
// make the parser panic; that is reported as an error.
func (PDFLoader) Load(ctx context.Context, path string) (pages []Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("parse %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d of %s: %w", i, path, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, Page{Number: i, Text: text})
	}
	return pages, nil
}
