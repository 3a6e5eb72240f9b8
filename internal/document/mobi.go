package document

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/bookforge/BookForge/internal/models"
	"github.com/bookforge/BookForge/internal/util"
)

// assembleMOBI builds an EPUB, writes it to a scratch file, runs the
// external converter to produce a sibling .mobi file, and reads the result
// back. Both scratch files are removed on every exit path. Scratch names
// are timestamp-qualified plus a random suffix so concurrent conversions in
// the shared directory cannot collide.
func (a *Assembler) assembleMOBI(ctx context.Context, title, text string) ([]byte, error) {
	epubBytes, err := assembleEPUB(title, text)
	if err != nil {
		return nil, err
	}

	base := fmt.Sprintf("bookforge-%d-%s", time.Now().UnixNano(), util.GenerateRandomHex(8))
	epubPath := filepath.Join(a.tempDir, base+".epub")
	mobiPath := filepath.Join(a.tempDir, base+".mobi")
	defer func() {
		if err := os.Remove(epubPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("Assembler failed to remove scratch epub", "path", epubPath, "error", err)
		}
		if err := os.Remove(mobiPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("Assembler failed to remove scratch mobi", "path", mobiPath, "error", err)
		}
	}()

	if err := os.WriteFile(epubPath, epubBytes, 0o600); err != nil {
		return nil, fmt.Errorf("%w: writing scratch epub: %w", models.ErrAssembly, err)
	}

	convert, err := exec.LookPath(a.convertPath)
	if err != nil {
		slog.Error("Assembler converter not found", "convert_path", a.convertPath, "error", err)
		return nil, fmt.Errorf("%w: %w: install Calibre or set EBOOK_CONVERT_PATH", models.ErrAssembly, models.ErrConverterMissing)
	}

	slog.Debug("Assembler invoking converter", "convert", convert, "epub", epubPath, "mobi", mobiPath)
	out, err := exec.CommandContext(ctx, convert, epubPath, mobiPath).CombinedOutput()
	if err != nil {
		slog.Error("Assembler converter failed", "error", err, "output", string(out))
		return nil, fmt.Errorf("%w: ebook-convert failed: %w", models.ErrAssembly, err)
	}

	mobiBytes, err := os.ReadFile(mobiPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading converted mobi: %w", models.ErrAssembly, err)
	}
	slog.Debug("MOBI assembled", "title", title, "bytes", len(mobiBytes))
	return mobiBytes, nil
}
