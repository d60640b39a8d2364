package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTree(t *testing.T, d Directory) {
	require.NoError(t, WriteFile(d, "files/Metroid1.pak", []byte{1, 2, 3}))
	require.NoError(t, WriteFile(d, "sys/boot.bin", []byte("GM8E01")))
	require.NoError(t, WriteFile(d, "files/Metroid1.pak", []byte{4, 5}))

	data, err := ReadFile(d, "/files/Metroid1.pak")
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 5}, data)

	files, err := Walk(d)
	require.NoError(t, err)
	assert.Equal(t, []string{"files/Metroid1.pak", "sys/boot.bin"}, files)

	_, err = ReadFile(d, "files/missing.pak")
	assert.Error(t, err)

	_, err = ReadFile(d, "files")
	assert.Error(t, err)
}

func TestMemoryDirectory(t *testing.T) {
	testTree(t, NewMemoryDirectory("disc"))
}

func TestDirectoryDriver(t *testing.T) {
	testTree(t, NewDirectoryDriver(t.TempDir()))
}

func TestOutputDirectoryMustBeEmpty(t *testing.T) {
	dir := t.TempDir()
	_, err := NewOutputDirectoryDriver(dir)
	require.NoError(t, err)

	require.NoError(t, WriteFile(NewDirectoryDriver(dir), "a", []byte{1}))
	_, err = NewOutputDirectoryDriver(dir)
	assert.Error(t, err)
}

func TestMemoryFileWriteAtGrows(t *testing.T) {
	f := NewMemoryFile("f", []byte{1, 2})
	n, err := f.WriteAt([]byte{9, 9}, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{1, 2, 0, 9, 9}, f.Bytes())
}
