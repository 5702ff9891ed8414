package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/poiesic/stratify/core"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Each top-level block
// (heading, paragraph, list, code block) becomes one segment of plain text.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename, docID, uid string) ([]core.TextSegment, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var segments []core.TextSegment
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		t := extractText(n, src)
		if t == "" {
			continue
		}
		segments = append(segments, core.TextSegment{
			Text:     t,
			Metadata: baseMetadata(filename, docID, uid),
		})
	}

	return segments, nil
}

// extractText gets the plain text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		// Recurse for nested blocks and inlines. Nested blocks (list items,
		// quoted paragraphs) get line separators; inline spans do not.
		sub := extractText(c, src)
		if sub == "" {
			continue
		}
		if c.Type() == ast.TypeBlock && buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(sub)
	}
	return strings.TrimSpace(buf.String())
}
