package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/disc_patcher/vfs"
)

func TestOpenInput(t *testing.T) {
	dir := t.TempDir()

	d, err := openInput(dir)
	require.NoError(t, err)
	assert.IsType(t, &vfs.DirectoryDriver{}, d)

	_, err = openInput(filepath.Join(dir, "missing.iso"))
	assert.Error(t, err)

	_, err = openInput("")
	assert.Error(t, err)
}

func TestPatchRefusesDirtyOutput(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "leftover"), []byte{1}, 0666))

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"patch", "-q", "--input", in, "--output", out})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not empty")
}

func TestPatchRejectsUnknownOverflowPolicy(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"patch", "-q", "--input", t.TempDir(), "--output", t.TempDir(), "--layerOverflow", "merge"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "layerOverflow")
}

func TestReplaceRequiresIso(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"replace", "file.bin"})
	assert.Error(t, cmd.Execute())
}
