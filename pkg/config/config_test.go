package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "csw.yaml")
	require.NoError(t, os.WriteFile(path, []byte("numCustomFields: 3\nmstHeight: 8\n"), 0o644))

	t.Setenv("CSW_RANGE_SIZE", "9")

	p, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, p.NumCustomFields)
	require.Equal(t, 8, p.MstHeight)
	require.Equal(t, 9, p.RangeSize)
	require.Equal(t, Default().FtTreeHeight, p.FtTreeHeight)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	t.Setenv("CSW_FT_TREE_HEIGHT", "abc")
	_, err = Load("")
	require.Error(t, err)

	t.Setenv("CSW_FT_TREE_HEIGHT", "40")
	_, err = Load("")
	require.Error(t, err)
}
