package extract

import (
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// docxText extracts the plain text of every paragraph and table in a .docx
// document, one block per line.
func docxText(r io.ReaderAt, size int64) (string, error) {
	doc, err := docx.Parse(r, size)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch block := item.(type) {
		case *docx.Paragraph:
			sb.WriteString(block.String())
			sb.WriteByte('\n')
		case *docx.Table:
			sb.WriteString(block.String())
			sb.WriteByte('\n')
		}
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}
