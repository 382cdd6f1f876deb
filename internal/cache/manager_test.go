package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tabledb-go/tdbhdf5/internal/logging"
)

// TestResolveDirectoryCreatesMissing covers that a directory that does
// not yet exist is created rather than rejected.
func TestResolveDirectoryCreatesMissing(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "data", "nested")

	canon, err := ResolveDirectory(target)
	require.NoError(t, err)
	require.DirExists(t, canon)
}

// TestResolveDirectoryRejectsFile covers that a path that exists but is
// not a directory is rejected.
func TestResolveDirectoryRejectsFile(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "not-a-dir")
	f, err := os.Create(file)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = ResolveDirectory(file)
	require.Error(t, err)
}

// TestOpenConnectionSharesSameCanonicalPath covers that two
// OpenConnection calls for the same directory, including once via a
// non-canonical spelling with a trailing separator, share one Connection.
func TestOpenConnectionSharesSameCanonicalPath(t *testing.T) {
	base := t.TempDir()
	m := NewManager(logging.NoOp{})

	c1, release1, err := m.OpenConnection(base)
	require.NoError(t, err)
	defer release1()

	c2, release2, err := m.OpenConnection(base + string(filepath.Separator))
	require.NoError(t, err)
	defer release2()

	require.Same(t, c1, c2)
}
