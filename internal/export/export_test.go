package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amezcua/folio/internal/api"
)

func TestSaveWritesFileWithDerivedName(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path, err := Save(dir, "My Report: Final (v2)", api.ExportMarkdown, []byte("# hi"))
	require.NoError(t, err)

	name := filepath.Base(path)
	require.True(t, strings.HasPrefix(name, "my-report-final-v2-chat-"), name)
	require.True(t, strings.HasSuffix(name, ".md"), name)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "# hi", string(data))
}

func TestSaveRejectsUnknownFormat(t *testing.T) {
	t.Parallel()
	_, err := Save(t.TempDir(), "doc", api.ExportFormat("pdf"), nil)
	require.Error(t, err)
}

func TestSaveCreatesMissingDir(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	path, err := Save(dir, "doc", api.ExportJSON, []byte("{}"))
	require.NoError(t, err)
	require.Equal(t, dir, filepath.Dir(path))
}

func TestSanitize(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"///", "document"},
		{"", "document"},
		{"A&B report!", "a-b-report"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, sanitize(tc.in), tc.in)
	}
}

func TestSanitizeCapsLength(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("a", 100)
	require.LessOrEqual(t, len(sanitize(long)), 48)
}
