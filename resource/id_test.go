package resource

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdRoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 0xDEAF0000, 0x7FFFFFFF, 0xFFFFFFFE} {
		assert.Equal(t, v, New[Model](v).U32())
		assert.Equal(t, v, New[ScanEntry](v).U32())
		assert.True(t, New[Texture](v).IsValid())
		assert.NotEqual(t, Invalid[Texture](), New[Texture](v))
	}
	assert.False(t, Invalid[StringTable]().IsValid())
	assert.Equal(t, InvalidId, Invalid[Model]().U32())
}

func TestIdKindIgnoredByEqual(t *testing.T) {
	scan := New[ScanEntry](0x1234)
	strg := New[StringTable](0x1234)

	assert.True(t, scan.Equal(strg))
	assert.False(t, scan.Equal(New[StringTable](0x1235)))
	assert.NotEqual(t, scan.Key(), strg.Key())
	assert.Equal(t, Key{Id: 0x1234, Type: SCAN}, scan.Key())
}

func TestIdOffset(t *testing.T) {
	base := New[ScanEntry](0xDEAF0000)
	assert.Equal(t, uint32(0xDEAF0003), base.Offset(3).U32())
	assert.Equal(t, "SCAN:DEAF0003", base.Offset(3).String())
}

func TestFourCC(t *testing.T) {
	assert.Equal(t, "CMDL", CMDL.String())
	assert.Equal(t, FourCC(0x434D444C), CMDL)
	assert.Panics(t, func() { NewFourCC("CMD") })
	assert.Equal(t, TXTR, New[Texture](1).Type())

	data, err := json.Marshal(Key{Id: 5, Type: STRG})
	require.NoError(t, err)
	assert.Equal(t, `{"Id":5,"Type":"STRG"}`, string(data))
	var k Key
	require.NoError(t, json.Unmarshal(data, &k))
	assert.Equal(t, Key{Id: 5, Type: STRG}, k)
	assert.Error(t, json.Unmarshal([]byte(`{"Type":"ST"}`), &k))
}

type testRecord struct {
	fourcc FourCC
	data   []byte
}

func (r *testRecord) FourCC() FourCC           { return r.fourcc }
func (r *testRecord) Marshal() ([]byte, error) { return r.data, nil }
func (r *testRecord) Dependencies() []Key      { return nil }
func (r *testRecord) Clone() Record {
	return &testRecord{fourcc: r.fourcc, data: append([]byte(nil), r.data...)}
}

func TestTableValidate(t *testing.T) {
	table := make(Table)
	table.Add(Build(New[Model](1), &testRecord{fourcc: CMDL}))
	table.Add(NewRaw(Key{Id: 2, Type: TXTR}, []byte{1}))
	require.NoError(t, table.Validate())

	table.Add(Build(New[ScanEntry](3), &testRecord{fourcc: STRG}))
	err := table.Validate()
	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Len(t, verr.Problems, 1)
	assert.Contains(t, verr.Problems[0], "SCAN:00000003")
}

func TestTableAddCollision(t *testing.T) {
	table := make(Table)
	table.Add(NewRaw(Key{Id: 1, Type: CMDL}, nil))
	assert.Panics(t, func() { table.Add(NewRaw(Key{Id: 1, Type: CMDL}, nil)) })
	assert.NotPanics(t, func() { table.Add(NewRaw(Key{Id: 1, Type: TXTR}, nil)) })
	assert.Equal(t, []Key{{Id: 1, Type: CMDL}, {Id: 1, Type: TXTR}}, table.Keys())
}

func TestResourceDecodeAndClone(t *testing.T) {
	fourcc := NewFourCC("TEST")
	SetHandler(fourcc, func(data []byte) (Record, error) {
		return &testRecord{fourcc: fourcc, data: data}, nil
	})

	r := NewRaw(Key{Id: 5, Type: fourcc}, []byte{1, 2})
	rec, err := DecodeAs[*testRecord](r)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, rec.data)

	c := r.Clone()
	rec.data[0] = 9
	crec, err := DecodeAs[*testRecord](c)
	require.NoError(t, err)
	assert.Equal(t, byte(1), crec.data[0])

	_, err = NewRaw(Key{Id: 5, Type: NewFourCC("NONE")}, nil).Decode()
	assert.Error(t, err)
}
