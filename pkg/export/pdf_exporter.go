package export

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
)

// Field is a labelled value rendered as one line.
type Field struct {
	Label string
	Value string
}

// Section groups fields, paragraphs and an optional table under a heading.
type Section struct {
	Title      string
	Fields     []Field
	Paragraphs []string
	Table      *Table
	// Empty is printed when the section has no other content.
	Empty string
}

// Document is a titled sequence of sections.
type Document struct {
	Title    string
	Subtitle string
	Sections []Section
}

// PDFExporter renders documents into A4 PDFs. Without a UTF-8 font only
// Latin-1 text renders legibly.
type PDFExporter struct {
	font []byte
}

const utf8Family = "doc"

// NewPDFExporter constructs a PDF exporter. fontPath optionally points at a
// TTF font covering the document's scripts.
func NewPDFExporter(fontPath string) (*PDFExporter, error) {
	if fontPath == "" {
		return &PDFExporter{}, nil
	}
	font, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read pdf font: %w", err)
	}
	return &PDFExporter{font: font}, nil
}

// HasUnicodeFont reports whether a UTF-8 font was loaded. Without one,
// Hangul and other non Latin-1 text is transliterated into unreadable glyphs.
func (e *PDFExporter) HasUnicodeFont() bool {
	return len(e.font) > 0
}

// Render creates the PDF bytes for doc.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)

	family := "Arial"
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if len(e.font) > 0 {
		pdf.AddUTF8FontFromBytes(utf8Family, "", e.font)
		pdf.AddUTF8FontFromBytes(utf8Family, "B", e.font)
		family = utf8Family
		translate = func(s string) string { return s }
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load pdf font: %w", err)
	}

	pdf.AddPage()
	width, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	contentWidth := width - left - right

	if doc.Title != "" {
		pdf.SetFont(family, "B", 16)
		pdf.CellFormat(0, 10, translate(doc.Title), "", 1, "C", false, 0, "")
	}
	if doc.Subtitle != "" {
		pdf.SetFont(family, "", 9)
		pdf.CellFormat(0, 6, translate(doc.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, section := range doc.Sections {
		pdf.SetFont(family, "B", 12)
		pdf.CellFormat(0, 8, translate(section.Title), "B", 1, "", false, 0, "")
		pdf.Ln(2)

		rendered := false
		pdf.SetFont(family, "", 10)
		for _, field := range section.Fields {
			pdf.SetFont(family, "B", 10)
			pdf.CellFormat(40, 6, translate(field.Label), "", 0, "", false, 0, "")
			pdf.SetFont(family, "", 10)
			pdf.MultiCell(contentWidth-40, 6, translate(field.Value), "", "", false)
			rendered = true
		}
		for _, paragraph := range section.Paragraphs {
			pdf.MultiCell(contentWidth, 5, translate(paragraph), "", "", false)
			pdf.Ln(1)
			rendered = true
		}
		if section.Table != nil && len(section.Table.Headers) > 0 && len(section.Table.Rows) > 0 {
			renderTable(pdf, family, translate, contentWidth, *section.Table)
			rendered = true
		}
		if !rendered && section.Empty != "" {
			pdf.SetFont(family, "", 10)
			pdf.CellFormat(0, 6, translate(section.Empty), "", 1, "", false, 0, "")
		}
		pdf.Ln(4)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderTable(pdf *gofpdf.Fpdf, family string, translate func(string) string, width float64, table Table) {
	colWidth := width / float64(len(table.Headers))
	pdf.SetFont(family, "B", 9)
	for _, header := range table.Headers {
		pdf.CellFormat(colWidth, 7, translate(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 9)
	for _, row := range table.Rows {
		for i := range table.Headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			pdf.CellFormat(colWidth, 7, translate(value), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
