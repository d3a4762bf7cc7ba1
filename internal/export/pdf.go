package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/goarticle/internal/article"
)

// Filename is the attachment name used when serving a PDF.
const Filename = "article.pdf"

// WritePDF renders a into a plain A4 PDF: headings in bold, paragraphs as
// wrapped text and list items as bullets. Text outside Latin-1 is
// transliterated by the core fonts' code page.
func WritePDF(w io.Writer, a article.Article) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(a.Meta.Title), false)
	pdf.SetSubject(tr(a.Meta.Description), false)
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	for _, b := range a.Blocks {
		switch b.Kind {
		case article.KindHeading:
			size := 12.0
			switch b.Level {
			case 1:
				size = 18
			case 2:
				size = 14
			}
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, size*0.5, tr(b.Text), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
			pdf.Ln(1)
		case article.KindParagraph:
			pdf.MultiCell(0, 5, tr(b.Text), "", "L", false)
			pdf.Ln(3)
		case article.KindList:
			for _, it := range b.Items {
				pdf.CellFormat(6, 5, tr("•"), "", 0, "L", false, 0, "")
				pdf.MultiCell(0, 5, tr(strings.TrimSpace(it)), "", "L", false)
			}
			pdf.Ln(3)
		}
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
