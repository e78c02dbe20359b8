package emit

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// MIMEDocx is the content type of a WordprocessingML package.
const MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const headingMaxRunes = 60

// DOCXBuilder lays text out one paragraph per line. Measurements are in
// twentieths of a point, font size in half-points.
type DOCXBuilder struct {
	Font        string
	FontSize    int
	LineSpacing int
	EmptyAfter  int
	Indent      int
	Margin      int
}

// NewDOCXBuilder returns the default layout: Calibri 11pt, 1" margins.
func NewDOCXBuilder() *DOCXBuilder {
	return &DOCXBuilder{
		Font:        "Calibri",
		FontSize:    22,
		LineSpacing: 280,
		EmptyAfter:  100,
		Indent:      720,
		Margin:      1440,
	}
}

// IsHeading reports whether a line is laid out as a heading: non-empty,
// shorter than 60 runes, and either all caps or containing a colon.
func IsHeading(line string) bool {
	if strings.TrimSpace(line) == "" || utf8.RuneCountInString(line) >= headingMaxRunes {
		return false
	}
	return line == strings.ToUpper(line) || strings.Contains(line, ":")
}

// Alignment returns the paragraph justification for a line. "Label: value"
// lines count as headings but stay justified.
func Alignment(line string) string {
	if IsHeading(line) && !strings.Contains(line, ":") {
		return "center"
	}
	return "both"
}

// Build returns the .docx bytes for text.
func (b *DOCXBuilder) Build(text string) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	parts := []struct {
		name string
		body func(io.Writer) error
	}{
		{"[Content_Types].xml", writeString(contentTypesXML)},
		{"_rels/.rels", writeString(relsXML)},
		{"word/document.xml", func(out io.Writer) error { return b.writeDocument(out, text) }},
	}
	for _, p := range parts {
		f, err := w.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p.name, err)
		}
		if err := p.body(f); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close docx: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *DOCXBuilder) writeDocument(out io.Writer, text string) error {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.Split(text, "\n") {
		empty := strings.TrimSpace(line) == ""
		after, left := 0, b.Indent
		if empty {
			after, left = b.EmptyAfter, 0
		}
		fmt.Fprintf(&sb, `<w:p><w:pPr><w:spacing w:line="%d" w:lineRule="auto" w:after="%d"/>`, b.LineSpacing, after)
		fmt.Fprintf(&sb, `<w:ind w:left="%d" w:right="%d"/><w:jc w:val="%s"/></w:pPr>`, left, b.Indent, Alignment(line))
		if line != "" {
			fmt.Fprintf(&sb, `<w:r><w:rPr><w:rFonts w:ascii="%[1]s" w:hAnsi="%[1]s" w:cs="%[1]s"/><w:sz w:val="%[2]d"/></w:rPr><w:t xml:space="preserve">`, b.Font, b.FontSize)
			if err := xml.EscapeText(&sb, []byte(line)); err != nil {
				return err
			}
			sb.WriteString(`</w:t></w:r>`)
		}
		sb.WriteString(`</w:p>`)
	}

	fmt.Fprintf(&sb, `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="%[1]d" w:right="%[1]d" w:bottom="%[1]d" w:left="%[1]d" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr>`, b.Margin)
	sb.WriteString(`</w:body></w:document>`)
	_, err := io.WriteString(out, sb.String())
	return err
}

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`
