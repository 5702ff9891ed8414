package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/poiesic/stratify/core"
)

// TextParser handles plain text files. Each blank-line-separated paragraph
// becomes one segment.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename, docID, uid string) ([]core.TextSegment, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	segments := make([]core.TextSegment, 0, len(paragraphs))
	for _, para := range paragraphs {
		segments = append(segments, core.TextSegment{
			Text:     para,
			Metadata: baseMetadata(filename, docID, uid),
		})
	}

	return segments, nil
}
