// Package document turns generated book text into binary documents.
//
// It supports EPUB, DOCX and PDF natively and MOBI by shelling out to the
// ebook-convert tool from Calibre. All constructors return the finished file
// as bytes; nothing is written outside the scoped temporary directory used
// for MOBI conversion.
package document

import (
	"context"
	"log/slog"
	"os"

	"github.com/bookforge/BookForge/internal/models"
)

// DefaultConvertPath is the executable used for EPUB-to-MOBI conversion when
// no override is configured. It ships with Calibre.
const DefaultConvertPath = "ebook-convert"

// Opts holds configuration for an Assembler.
type Opts struct {
	// ConvertPath overrides the MOBI converter executable.
	ConvertPath string
	// TempDir overrides the directory for MOBI conversion scratch files.
	TempDir string
}

// Option configures an Assembler.
type Option func(*Opts)

// WithConvertPath sets the path of the EPUB-to-MOBI converter executable.
func WithConvertPath(path string) Option {
	return func(o *Opts) { o.ConvertPath = path }
}

// WithTempDir sets the scratch directory for MOBI conversion.
func WithTempDir(dir string) Option {
	return func(o *Opts) { o.TempDir = dir }
}

// Assembler builds documents in the formats a survey can request.
type Assembler struct {
	convertPath string
	tempDir     string
}

// NewAssembler creates an Assembler with the given options.
func NewAssembler(opts ...Option) *Assembler {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ConvertPath == "" {
		cfg.ConvertPath = DefaultConvertPath
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	slog.Debug("Creating document Assembler", "convert_path", cfg.ConvertPath, "temp_dir", cfg.TempDir)
	return &Assembler{convertPath: cfg.ConvertPath, tempDir: cfg.TempDir}
}

// Assemble produces a document of the requested format from the title and
// body text. Unrecognized formats fall back to EPUB rather than failing;
// the downstream format select should prevent them, so the fallback is only
// a safety net and gets logged.
func (a *Assembler) Assemble(ctx context.Context, format models.BookFormat, title, text string) ([]byte, error) {
	slog.Debug("Assembler Assemble invoked", "format", format, "title", title, "text_length", len(text))
	switch format {
	case models.BookFormatDOCX:
		return assembleDOCX(title, text)
	case models.BookFormatPDF:
		return assemblePDF(title, text)
	case models.BookFormatEPUB:
		return assembleEPUB(title, text)
	case models.BookFormatMOBI:
		return a.assembleMOBI(ctx, title, text)
	default:
		slog.Warn("Assembler unknown format, falling back to EPUB", "format", format)
		return assembleEPUB(title, text)
	}
}

// Filename derives the attachment filename for a document from its title and
// format, per the sanitization policy in filename.go. Unrecognized formats
// get the EPUB extension, matching the assembly fallback.
func (a *Assembler) Filename(title string, format models.BookFormat) string {
	if !models.IsValidBookFormat(format) {
		format = models.BookFormatEPUB
	}
	return SanitizeTitle(title) + "." + string(format)
}
