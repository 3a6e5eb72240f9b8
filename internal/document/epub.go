package document

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bookforge/BookForge/internal/models"
)

// EPUB is assembled by hand: the format wants byte-level control the generic
// writers do not give (the mimetype entry must be the first archive member
// and must be stored uncompressed), and the package needed here is the
// minimal one: a container descriptor, the package document, one nav
// document and one chapter.

const epubContainerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`

const epubPackageTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="book-id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:identifier id="book-id">urn:uuid:%s</dc:identifier>
    <dc:title>%s</dc:title>
    <dc:language>en</dc:language>
    <meta property="dcterms:modified">%s</meta>
  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="chapter1" href="chapter1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="chapter1"/>
  </spine>
</package>
`

const epubNavTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head><title>%s</title></head>
<body>
  <nav epub:type="toc">
    <ol><li><a href="chapter1.xhtml">%s</a></li></ol>
  </nav>
</body>
</html>
`

const epubChapterTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>%s</title></head>
<body>
  <h1>%s</h1>
  <p>%s</p>
</body>
</html>
`

// assembleEPUB builds a minimal valid EPUB 3 package containing the book
// text as a single chapter.
func assembleEPUB(title, text string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	// The mimetype entry must come first and stay uncompressed.
	mimeWriter, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return nil, fmt.Errorf("%w: epub mimetype entry: %w", models.ErrAssembly, err)
	}
	if _, err := mimeWriter.Write([]byte("application/epub+zip")); err != nil {
		return nil, fmt.Errorf("%w: epub mimetype entry: %w", models.ErrAssembly, err)
	}

	escTitle := html.EscapeString(title)
	body := strings.ReplaceAll(html.EscapeString(text), "\n", "<br/>")
	modified := time.Now().UTC().Format("2006-01-02T15:04:05Z")

	entries := []struct {
		name    string
		content string
	}{
		{"META-INF/container.xml", epubContainerXML},
		{"OEBPS/content.opf", fmt.Sprintf(epubPackageTemplate, uuid.NewString(), escTitle, modified)},
		{"OEBPS/nav.xhtml", fmt.Sprintf(epubNavTemplate, escTitle, escTitle)},
		{"OEBPS/chapter1.xhtml", fmt.Sprintf(epubChapterTemplate, escTitle, escTitle, body)},
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			return nil, fmt.Errorf("%w: epub entry %s: %w", models.ErrAssembly, e.name, err)
		}
		if _, err := w.Write([]byte(e.content)); err != nil {
			return nil, fmt.Errorf("%w: epub entry %s: %w", models.ErrAssembly, e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: epub archive close: %w", models.ErrAssembly, err)
	}
	slog.Debug("EPUB assembled", "title", title, "bytes", buf.Len())
	return buf.Bytes(), nil
}
