package pack

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/disc_patcher/resource"
)

func testArchive() *Archive {
	plain := resource.NewRaw(resource.Key{Id: 0x10, Type: resource.TXTR}, []byte{1, 2, 3, 4, 5})
	packed := resource.NewRaw(resource.Key{Id: 0x20, Type: resource.CMDL}, bytes.Repeat([]byte("model"), 100))
	packed.Compressed = true
	room := resource.NewRaw(resource.Key{Id: 0x30, Type: resource.MREA}, []byte{9})

	return &Archive{
		Name:      "Metroid1.pak",
		Named:     []NamedResource{{Name: "Landing Site", Key: room.Key()}},
		Resources: []*resource.Resource{plain, packed, room},
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	a := testArchive()
	data, err := a.Marshal()
	require.NoError(t, err)
	assert.Equal(t, 0, len(data)%PAK_ALIGNMENT)

	b, err := ReadArchive(a.Name, data)
	require.NoError(t, err)
	require.Len(t, b.Resources, 3)
	for i, res := range b.Resources {
		assert.Equal(t, a.Resources[i].Key(), res.Key())
		assert.Equal(t, a.Resources[i].Compressed, res.Compressed)
		want, _ := a.Resources[i].Bytes()
		got, _ := res.Bytes()
		assert.Equal(t, want, got)
	}
	assert.Equal(t, "Landing Site", b.Resources[2].Name)

	again, err := b.Marshal()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestArchiveEdit(t *testing.T) {
	a := testArchive()

	assert.False(t, a.Add(resource.NewRaw(resource.Key{Id: 0x10, Type: resource.TXTR}, nil)))
	assert.True(t, a.Add(resource.NewRaw(resource.Key{Id: 0x10, Type: resource.STRG}, nil)))
	assert.Len(t, a.Resources, 4)

	room, ok := a.FindNamed("landing site")
	require.True(t, ok)
	assert.Equal(t, resource.MREA, room.Type)
	assert.Len(t, a.Rooms(), 1)

	assert.True(t, a.Remove(room.Key()))
	assert.False(t, a.Remove(room.Key()))
	assert.Empty(t, a.Named)
	assert.Empty(t, a.Rooms())
}

func TestReadArchiveErrors(t *testing.T) {
	_, err := ReadArchive("bad.pak", []byte{0, 0, 0, 1, 0, 0, 0, 0})
	assert.Error(t, err)

	data, err := testArchive().Marshal()
	require.NoError(t, err)
	_, err = ReadArchive("short.pak", data[:20])
	assert.Error(t, err)
}

func TestCodec(t *testing.T) {
	src := bytes.Repeat([]byte{0xAB, 0xCD}, 1000)
	packed, err := Compress(src)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(src))

	unpacked, err := Decompress(packed)
	require.NoError(t, err)
	assert.Equal(t, src, unpacked)

	_, err = Decompress(packed[:3])
	assert.Error(t, err)
}

func TestDecompressRejectsBadSize(t *testing.T) {
	packed, err := Compress([]byte("hello"))
	require.NoError(t, err)

	huge := append([]byte{}, packed...)
	binary.BigEndian.PutUint32(huge, 0xFFFFFFFF)
	_, err = Decompress(huge)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")

	// stream shorter than header claims
	short := append([]byte{}, packed...)
	binary.BigEndian.PutUint32(short, 6)
	_, err = Decompress(short)
	assert.Error(t, err)

	long := append([]byte{}, packed...)
	binary.BigEndian.PutUint32(long, 4)
	_, err = Decompress(long)
	assert.Error(t, err)
}
