package document

import (
	"bytes"
	"fmt"
	"log/slog"

	docx "github.com/fumiama/go-docx"

	"github.com/bookforge/BookForge/internal/models"
)

// assembleDOCX builds a single-section Word document: a centered heading
// with the title followed by the body text as one run.
func assembleDOCX(title, text string) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	heading := doc.AddParagraph()
	heading.Justification("center")
	heading.AddText(title).Size("44").Bold()

	doc.AddParagraph().AddText(text)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: docx encoding: %w", models.ErrAssembly, err)
	}
	slog.Debug("DOCX assembled", "title", title, "bytes", buf.Len())
	return buf.Bytes(), nil
}
