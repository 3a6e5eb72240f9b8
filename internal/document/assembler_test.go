package document

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/bookforge/BookForge/internal/models"
)

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Book: Part 2!", "My_Book_Part_2"},
		{"plain", "plain"},
		{"  spaced   out  ", "spaced_out"},
		{"???!!!", "book"},
		{"", "book"},
	}
	for _, c := range cases {
		if got := SanitizeTitle(c.in); got != c.want {
			t.Errorf("SanitizeTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFilename(t *testing.T) {
	a := NewAssembler()
	if got := a.Filename("My Book: Part 2!", models.BookFormatPDF); got != "My_Book_Part_2.pdf" {
		t.Errorf("unexpected filename %q", got)
	}
	// unrecognized formats follow the EPUB assembly fallback
	if got := a.Filename("T", "txt"); got != "T.epub" {
		t.Errorf("unexpected fallback filename %q", got)
	}
}

// readZipEntry returns the content of the named entry of a zip archive.
func readZipEntry(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening %s: %v", name, err)
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		return string(content)
	}
	t.Fatalf("archive has no entry %s", name)
	return ""
}

func TestEPUBRoundTrip(t *testing.T) {
	a := NewAssembler()
	data, err := a.Assemble(context.Background(), models.BookFormatEPUB, "T", "body")
	if err != nil {
		t.Fatalf("assemble epub: %v", err)
	}

	chapter := readZipEntry(t, data, "OEBPS/chapter1.xhtml")
	if !strings.Contains(chapter, "body") {
		t.Error("chapter document does not contain the body text")
	}
	opf := readZipEntry(t, data, "OEBPS/content.opf")
	if !strings.Contains(opf, "<dc:title>T</dc:title>") {
		t.Error("package document does not contain the title element")
	}
}

func TestEPUBMimetypeEntryFirstAndStored(t *testing.T) {
	data, err := assembleEPUB("T", "body")
	if err != nil {
		t.Fatalf("assemble epub: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("not a zip archive: %v", err)
	}
	first := zr.File[0]
	if first.Name != "mimetype" {
		t.Errorf("first entry is %s, want mimetype", first.Name)
	}
	if first.Method != zip.Store {
		t.Error("mimetype entry must be stored uncompressed")
	}
}

func TestEPUBNewlinesBecomeLineBreaks(t *testing.T) {
	data, err := assembleEPUB("T", "line one\nline two")
	if err != nil {
		t.Fatalf("assemble epub: %v", err)
	}
	chapter := readZipEntry(t, data, "OEBPS/chapter1.xhtml")
	if !strings.Contains(chapter, "line one<br/>line two") {
		t.Error("newlines were not converted to line breaks")
	}
}

func TestUnknownFormatFallsBackToEPUB(t *testing.T) {
	a := NewAssembler()
	data, err := a.Assemble(context.Background(), "txt", "T", "body")
	if err != nil {
		t.Fatalf("fallback assembly failed: %v", err)
	}
	if readZipEntry(t, data, "mimetype") != "application/epub+zip" {
		t.Error("fallback output is not an epub")
	}
}

func TestDOCXContainsTitleAndBody(t *testing.T) {
	a := NewAssembler()
	data, err := a.Assemble(context.Background(), models.BookFormatDOCX, "Doc Title", "doc body text")
	if err != nil {
		t.Fatalf("assemble docx: %v", err)
	}
	doc := readZipEntry(t, data, "word/document.xml")
	if !strings.Contains(doc, "Doc Title") || !strings.Contains(doc, "doc body text") {
		t.Error("document.xml missing title or body text")
	}
}

func TestPDFOutput(t *testing.T) {
	a := NewAssembler()
	data, err := a.Assemble(context.Background(), models.BookFormatPDF, "T", "body")
	if err != nil {
		t.Fatalf("assemble pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
}

func TestMOBIMissingConverter(t *testing.T) {
	tempDir := t.TempDir()
	a := NewAssembler(
		WithConvertPath("bookforge-converter-that-does-not-exist"),
		WithTempDir(tempDir),
	)

	_, err := a.Assemble(context.Background(), models.BookFormatMOBI, "T", "body")
	if !errors.Is(err, models.ErrAssembly) || !errors.Is(err, models.ErrConverterMissing) {
		t.Fatalf("expected assembly error wrapping converter-missing, got %v", err)
	}
	if !strings.Contains(models.UserMessage(err), "ebook-convert") {
		t.Error("user message should hint at the missing external tool")
	}

	// cleanup must run on the failure path too
	entries, readErr := os.ReadDir(tempDir)
	if readErr != nil {
		t.Fatalf("reading temp dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("temp files left behind after failed conversion: %v", entries)
	}
}

func TestMOBIWithConverter(t *testing.T) {
	if _, err := exec.LookPath(DefaultConvertPath); err != nil {
		t.Skipf("ebook-convert not installed: %v", err)
	}
	tempDir := t.TempDir()
	a := NewAssembler(WithTempDir(tempDir))
	data, err := a.Assemble(context.Background(), models.BookFormatMOBI, "T", "body")
	if err != nil {
		t.Fatalf("assemble mobi: %v", err)
	}
	if len(data) == 0 {
		t.Error("empty mobi output")
	}
	entries, _ := os.ReadDir(tempDir)
	if len(entries) != 0 {
		t.Errorf("temp files left behind after successful conversion: %v", entries)
	}
}
