package gtfsio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFile writes content to a file named filename in a fresh temp
// directory and returns its path, for tests that exercise a single
// per-file parser in isolation.
func writeFile(t *testing.T, filename, content string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, filename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
