package document

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/go-pdf/fpdf"

	"github.com/bookforge/BookForge/internal/models"
)

// assemblePDF streams the title in a large centered font followed by the
// body text in the body font into an A4 page flow.
func assemblePDF(title, text string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.MultiCell(0, 12, title, "", "C", false)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 6, text, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: pdf encoding: %w", models.ErrAssembly, err)
	}
	slog.Debug("PDF assembled", "title", title, "bytes", buf.Len())
	return buf.Bytes(), nil
}
