package assets

import (
	"github.com/mogaika/disc_patcher/pack"
	"github.com/mogaika/disc_patcher/pack/cmdl"
	"github.com/mogaika/disc_patcher/pack/strg"
	"github.com/mogaika/disc_patcher/pack/txtr"
	"github.com/mogaika/disc_patcher/resource"
)

var (
	testModel   = resource.New[resource.Model](0x100)
	testTexture = resource.New[resource.Texture](0x200)
	testStrg    = resource.New[resource.StringTable](0x300)
	testFrame   = resource.New[resource.Frame](0x500)
)

func encode(id interface{ U32() uint32 }, rec resource.Record) *resource.Resource {
	data, err := rec.Marshal()
	if err != nil {
		panic(err)
	}
	return resource.NewRaw(resource.Key{Id: id.U32(), Type: rec.FourCC()}, data)
}

func testTextureRecord() *txtr.Texture {
	return &txtr.Texture{
		Format:   txtr.FORMAT_RGB565,
		Width:    4,
		Height:   4,
		MipCount: 1,
		Data: []byte{
			0xF8, 0x00, 0xF8, 0x00, 0x07, 0xE0, 0x07, 0xE0,
			0x00, 0x1F, 0x00, 0x1F, 0xFF, 0xFF, 0x00, 0x00,
			0xF8, 0x00, 0xF8, 0x00, 0x07, 0xE0, 0x07, 0xE0,
			0x00, 0x1F, 0x00, 0x1F, 0xFF, 0xFF, 0x00, 0x00,
		},
	}
}

func testArchive() *pack.Archive {
	model := &cmdl.Model{
		Flags:    1,
		Textures: []resource.Id[resource.Texture]{testTexture},
		Body:     []byte("geometry"),
	}
	return &pack.Archive{
		Name: "Metroid1.pak",
		Resources: []*resource.Resource{
			encode(testModel, model),
			encode(testTexture, testTextureRecord()),
			encode(testStrg, strg.New("Missile Expansion\x00")),
			resource.NewRaw(testFrame.Key(), []byte{0xF, 0xA}),
		},
	}
}
