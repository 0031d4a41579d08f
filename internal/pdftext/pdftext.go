package pdftext

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Page is the extracted text of one document page. Index is zero-based.
type Page struct {
	Index int
	Text  string
}

// Extract pulls the plain text of every page of a PDF held in memory.
// The parser panics on some malformed files, so that is trapped and
// reported as an ordinary error.
func Extract(data []byte) (pages []Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A broken page leaves a gap; the rest of the document is
			// still usable.
			continue
		}
		pages = append(pages, Page{Index: i - 1, Text: text})
	}
	return pages, nil
}
