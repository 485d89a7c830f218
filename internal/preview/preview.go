// Package preview validates files before upload and extracts plain text for
// in-terminal previews. The product accepts PDF, DOCX, plain text, and EPUB;
// anything else is rejected client-side before a byte leaves the machine.
package preview

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/lu4p/cat"
)

// ErrUnsupportedType matches the product's upload validation message.
var ErrUnsupportedType = fmt.Errorf("unsupported file format; use PDF, DOCX, TXT or EPUB")

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
	".epub": "application/epub+zip",
}

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// Info describes a local file cleared for upload.
type Info struct {
	Path        string
	Name        string
	ContentType string
	SizeBytes   int64
	// PageCount is populated for PDFs only; other types report zero.
	PageCount int
}

// Inspect validates the file at path by declared content type and stats it.
func Inspect(path string) (*Info, error) {
	ext := strings.ToLower(filepath.Ext(path))
	contentType, ok := contentTypes[ext]
	if !ok {
		return nil, ErrUnsupportedType
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	info := &Info{
		Path:        path,
		Name:        filepath.Base(path),
		ContentType: contentType,
		SizeBytes:   stat.Size(),
	}
	if ext == ".pdf" {
		if file, reader, err := pdf.Open(path); err == nil {
			info.PageCount = reader.NumPage()
			file.Close()
		}
	}
	return info, nil
}

// SizeMB renders the size the way the upload card shows it.
func (i *Info) SizeMB() string {
	return fmt.Sprintf("%.2f MB", float64(i.SizeBytes)/1024/1024)
}

// ExtractText pulls plain text out of a local document for the terminal
// preview pane. PDFs go through the pdf reader; DOCX, TXT, and RTF go
// through cat. EPUB has no local extractor, so it reports an error the view
// renders as "preview unavailable".
func ExtractText(path string, limit int) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return extractPDF(path, limit)
	case ".docx", ".txt":
		text, err := cat.File(path)
		if err != nil {
			return "", fmt.Errorf("extract %s: %w", ext, err)
		}
		return clip(normalize(text), limit), nil
	case ".epub":
		return "", fmt.Errorf("no local text extraction for EPUB")
	default:
		return "", ErrUnsupportedType
	}
}

func extractPDF(path string, limit int) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", err
	}
	return clip(normalize(builder.String()), limit), nil
}

func normalize(text string) string {
	return strings.TrimSpace(extraneousWhitespace.ReplaceAllString(text, " "))
}

func clip(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	return strings.TrimSpace(text[:limit]) + "…"
}
