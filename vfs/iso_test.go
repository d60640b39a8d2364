package vfs

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/disc_patcher/utils"
)

const testPartitionStart = 300

// udfImage builds smallest image udf reader accepts:
// root directory with "files" directory holding "audio.bin"
type udfImage []byte

func (img udfImage) sector(n int) []byte {
	return img[n*utils.SECTOR_SIZE : (n+1)*utils.SECTOR_SIZE]
}

func (img udfImage) block(n int) []byte {
	return img.sector(testPartitionStart + n)
}

func (img udfImage) tag(n int, id uint16) []byte {
	b := img.sector(n)
	binary.LittleEndian.PutUint16(b, id)
	return b
}

func (img udfImage) fileEntry(block int, isDir bool, size uint64, dataBlock uint32) {
	b := img.block(block)
	binary.LittleEndian.PutUint16(b, 0x105)
	if isDir {
		b[17] = 4
	}
	binary.LittleEndian.PutUint64(b[56:], size)
	binary.LittleEndian.PutUint32(b[172:], 8)
	binary.LittleEndian.PutUint32(b[176:], uint32(size))
	binary.LittleEndian.PutUint32(b[180:], dataBlock)
}

// fid writes identifier descriptor at b, returns its padded length
func fid(b []byte, name string, icbBlock uint32) int {
	binary.LittleEndian.PutUint16(b, 0x101)
	b[19] = byte(len(name) + 1)
	binary.LittleEndian.PutUint32(b[24:], icbBlock)
	b[38] = 8
	copy(b[39:], name)
	return (38 + len(name) + 1 + 3) / 4 * 4
}

func testUdfImage() []byte {
	img := udfImage(make([]byte, (testPartitionStart+7)*utils.SECTOR_SIZE))

	binary.LittleEndian.PutUint32(img.tag(256, 2)[20:], 257)
	binary.LittleEndian.PutUint32(img.tag(257, 5)[188:], testPartitionStart)
	img.tag(258, 6)
	img.tag(259, 8)

	fsd := img.block(0)
	binary.LittleEndian.PutUint16(fsd, 0x100)
	binary.LittleEndian.PutUint32(fsd[404:], 1)

	img.fileEntry(1, true, uint64(fid(img.block(2), "files", 3)), 2)
	img.fileEntry(3, true, uint64(fid(img.block(4), "audio.bin", 5)), 4)
	img.fileEntry(5, false, 3, 6)
	copy(img.block(6), []byte{1, 2, 3})
	return img
}

func TestIsoDriverNestedDirectory(t *testing.T) {
	iso, err := NewIsoDriver(NewMemoryFile("disc.iso", testUdfImage()))
	require.NoError(t, err)

	files, err := Walk(iso)
	require.NoError(t, err)
	assert.Equal(t, []string{"files/audio.bin"}, files)

	data, err := ReadFile(iso, "FILES/audio.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	_, err = ReadFile(iso, "files/missing.bin")
	assert.Error(t, err)
	assert.Error(t, WriteFile(iso, "files/new.bin", []byte{1}))
}
