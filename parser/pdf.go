package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/stratify/core"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. Each non-empty page becomes one segment
// carrying its page number.
type PDFParser struct{}

func (p *PDFParser) Parse(r io.Reader, filename, docID, uid string) ([]core.TextSegment, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	reader, err := pdflib.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var segments []core.TextSegment
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages the extractor cannot decode.
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		meta := baseMetadata(filename, docID, uid)
		meta[core.MetaPage] = i
		segments = append(segments, core.TextSegment{
			Text:     text,
			Metadata: meta,
		})
	}

	return segments, nil
}
