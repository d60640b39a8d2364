package utils

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterBufStack(t *testing.T) {
	w := NewWriter()
	w.W32(0xDEADBEEF)
	w.W16(0x1234)
	w.WBool(true)
	w.W8(0x7F)
	w.WF(1.5)
	w.WLString("abc")
	w.WZString("zz")
	w.Align(32)
	require.Equal(t, 32, w.Pos())

	bs := NewBufStack("test", w.Bytes())
	assert.Equal(t, uint32(0xDEADBEEF), bs.ReadBU32())
	assert.Equal(t, uint16(0x1234), bs.ReadBU16())
	assert.True(t, bs.ReadBool())
	assert.Equal(t, uint8(0x7F), bs.ReadU8())
	assert.Equal(t, float32(1.5), bs.ReadBF())
	assert.Equal(t, "abc", bs.ReadLString())
	assert.Equal(t, "zz", bs.ReadZString())
	assert.Equal(t, 32-bs.Pos(), bs.Left())
}

func TestBufStackIsNotByteReader(t *testing.T) {
	var bs interface{} = NewBufStack("test", []byte{1})
	_, isByteReader := bs.(io.ByteReader)
	assert.False(t, isByteReader)
}

func TestPutBU32(t *testing.T) {
	w := NewWriter()
	w.W32(0)
	w.W32(7)
	w.PutBU32(0, 9)
	assert.Equal(t, []byte{0, 0, 0, 9, 0, 0, 0, 7}, w.Bytes())
}

func readPastEnd(b []byte) (err error) {
	defer RecoverBufStack(&err)
	bs := NewBufStack("root", b).SetName("file")
	bs.SubBuf("child", 2).ReadBU32()
	return nil
}

func TestRecoverBufStack(t *testing.T) {
	err := readPastEnd([]byte{1, 2, 3, 4})
	require.Error(t, err)
	bsErr, ok := err.(*BufStackError)
	require.True(t, ok)
	assert.Contains(t, bsErr.Chain, "buf<child>")
	assert.Contains(t, bsErr.Chain, "buf<root>(file)")

	assert.Panics(t, func() {
		var err error
		defer RecoverBufStack(&err)
		panic("not a buffer error")
	})
}

func TestStrings(t *testing.T) {
	assert.Equal(t, []byte{'a', 'b', 0, 0}, StringToFixedBytes("ab", 4))
	assert.Equal(t, []byte{'a', 'b'}, StringToFixedBytes("abcd", 2))
	assert.Equal(t, "ab", BytesToString([]byte{'a', 'b', 0, 'c'}))
	assert.Equal(t, 2, BytesStringLength([]byte{'a', 'b', 0, 'c'}))
	assert.Equal(t, int64(2), GetRequiredSectorsCount(SECTOR_SIZE+1))
	assert.Equal(t, "ab\\x00", DumpToOneLineString([]byte{'a', 'b', 0}))
}

func TestNameGeneratorIsDeterministic(t *testing.T) {
	var a, b NameGenerator
	first := []string{a.RandomName(), a.RandomName(), a.RandomName()}
	second := []string{b.RandomName(), b.RandomName(), b.RandomName()}
	assert.Equal(t, first, second)
	assert.NotEqual(t, first[0], first[1])

	var c NameGenerator
	c.Reserve(first[0])
	assert.NotEqual(t, first[0], c.RandomName())
}

func TestNameGeneratorIgnoresOtherInstances(t *testing.T) {
	var alone NameGenerator
	expected := []string{alone.RandomName(), alone.RandomName()}

	var a, b NameGenerator
	got := []string{a.RandomName()}
	b.Reserve("Layer")
	b.RandomName()
	b.RandomName()
	got = append(got, a.RandomName())
	assert.Equal(t, expected, got)
}
