// Package export writes downloaded chat transcripts to disk with an
// extension matching the requested format.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/amezcua/folio/internal/api"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Save writes data under dir with a name derived from the document title and
// the current time, and returns the full path.
func Save(dir, title string, format api.ExportFormat, data []byte) (string, error) {
	if !format.Valid() {
		return "", fmt.Errorf("unsupported export format %q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := fmt.Sprintf("%s-chat-%s.%s", sanitize(title), time.Now().Format("20060102-150405"), format)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

func sanitize(title string) string {
	title = strings.TrimSpace(strings.ToLower(title))
	title = unsafeChars.ReplaceAllString(title, "-")
	title = strings.Trim(title, "-")
	if title == "" {
		return "document"
	}
	if len(title) > 48 {
		title = strings.Trim(title[:48], "-")
	}
	return title
}
