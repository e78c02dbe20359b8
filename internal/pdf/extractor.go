package pdfutil

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// Info summarizes an uploaded PDF.
type Info struct {
	Pages   int
	HasText bool
}

// Inspect opens the PDF and reports its page count and whether any page
// carries extractable text (scans usually do not).
func Inspect(data []byte) (Info, error) {
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("new pdf reader: %w", err)
	}
	info := Info{Pages: doc.NumPage()}
	for page := 1; page <= info.Pages && !info.HasText; page++ {
		p := doc.Page(page)
		if p.V.IsNull() || p.V.Key("Contents").IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		info.HasText = strings.TrimSpace(content) != ""
	}
	return info, nil
}

// InspectReader drains r and inspects the result, refusing more than limit
// bytes.
func InspectReader(r io.Reader, limit int64) (Info, []byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return Info{}, nil, fmt.Errorf("read pdf: %w", err)
	}
	if int64(len(data)) > limit {
		return Info{}, nil, fmt.Errorf("pdf exceeds %d bytes", limit)
	}
	info, err := Inspect(data)
	return info, data, err
}
