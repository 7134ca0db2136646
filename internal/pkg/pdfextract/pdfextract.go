package pdfextract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is the plain-text view of an uploaded deck.
type Document struct {
	Text  string
	Pages int
}

func (d *Document) WordCount() int {
	return len(strings.Fields(d.Text))
}

// Extract reads the whole of r and pulls the plain text out of the PDF.
// A PDF with no extractable text yields an empty Text and no error; the
// caller decides whether that is fatal.
func Extract(r io.Reader) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf payload failed: %w", err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("empty pdf payload")
	}

	readerAt := bytes.NewReader(b)
	pdfReader, err := pdf.NewReader(readerAt, int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open pdf failed: %w", err)
	}

	plainReader, err := pdfReader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text failed: %w", err)
	}
	out, err := io.ReadAll(plainReader)
	if err != nil {
		return nil, fmt.Errorf("read pdf text failed: %w", err)
	}

	return &Document{
		Text:  string(out),
		Pages: pdfReader.NumPage(),
	}, nil
}
