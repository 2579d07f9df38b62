package testutils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestDir creates a temporary directory and returns its absolute path.
// Loam prefers absolute paths, so mod fixtures are written here before the
// repository is opened.
func SetupTestDir(t *testing.T) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")
	return absPath
}
