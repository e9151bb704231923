package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acc.csv"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bcc.csv.xz"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ccc.csv"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ccc.csv.xz"), []byte("x"), 0644))

	path, err := dataFile(dir, "acc")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "acc.csv"), path)

	path, err = dataFile(dir, "bcc")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bcc.csv.xz"), path)

	// When both exist the plain file wins.
	path, err = dataFile(dir, "ccc")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ccc.csv"), path)

	// A missing symbol names both candidates, not just the xz guess.
	_, err = dataFile(dir, "zzz")
	assert.ErrorContains(t, err, "no data file for zzz")
	assert.ErrorContains(t, err, "zzz.csv")
}
