package preview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInspectRejectsUnknownExtension(t *testing.T) {
	t.Parallel()
	_, err := Inspect("notes.xlsx")
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestInspectTextFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	info, err := Inspect(path)
	require.NoError(t, err)
	require.Equal(t, "notes.txt", info.Name)
	require.Equal(t, "text/plain", info.ContentType)
	require.Equal(t, int64(11), info.SizeBytes)
	require.Zero(t, info.PageCount)
}

func TestInspectCaseInsensitiveExtension(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "NOTES.TXT")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	info, err := Inspect(path)
	require.NoError(t, err)
	require.Equal(t, "text/plain", info.ContentType)
}

func TestInspectMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Inspect(filepath.Join(t.TempDir(), "gone.pdf"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnsupportedType)
}

func TestExtractTextEPUBUnavailable(t *testing.T) {
	t.Parallel()
	_, err := ExtractText("book.epub", 100)
	require.Error(t, err)
}

func TestSizeMB(t *testing.T) {
	t.Parallel()
	info := &Info{SizeBytes: 3 * 1024 * 1024}
	require.Equal(t, "3.00 MB", info.SizeMB())
}

func TestClipShortensLongText(t *testing.T) {
	t.Parallel()
	require.Equal(t, "abc", clip("abc", 10))
	clipped := clip("abcdefghij", 5)
	require.Equal(t, "abcde…", clipped)
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	t.Parallel()
	require.Equal(t, "a b c", normalize("  a\n\tb   c \n"))
}
