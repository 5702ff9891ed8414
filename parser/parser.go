package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/poiesic/stratify/core"
)

// ErrUnsupportedFormat indicates a file extension no parser can handle.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Parser converts raw document bytes into ordered text segments.
// Segment order must match the source document's reading order, and every
// segment's metadata must carry filename, doc_id, and uid.
type Parser interface {
	Parse(r io.Reader, filename, docID, uid string) ([]core.TextSegment, error)
}

// SupportedExtensions lists file extensions this package can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".pdf":      true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// baseMetadata builds a fresh metadata map carrying the owning-document
// identifiers. The page number defaults to nil for formats without pages;
// nil-valued entries are dropped at persistence time.
func baseMetadata(filename, docID, uid string) map[string]any {
	return map[string]any{
		core.MetaPage:     nil,
		core.MetaFilename: filename,
		core.MetaDocID:    docID,
		core.MetaUID:      uid,
	}
}
