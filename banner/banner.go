package banner

import (
	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/utils"
)

const (
	BNR1_MAGIC = "BNR1"

	IMAGE_OFFSET = 0x20
	IMAGE_SIZE   = 96 * 32 * 2
	TEXT_OFFSET  = IMAGE_OFFSET + IMAGE_SIZE

	GAME_NAME_SIZE      = 0x20
	MAKER_SIZE          = 0x20
	FULL_GAME_NAME_SIZE = 0x40
	FULL_MAKER_SIZE     = 0x40
	DESCRIPTION_SIZE    = 0x80

	BANNER_SIZE = TEXT_OFFSET + GAME_NAME_SIZE + MAKER_SIZE + FULL_GAME_NAME_SIZE + FULL_MAKER_SIZE + DESCRIPTION_SIZE
)

// Banner is disc banner: 96x32 RGB5A3 image and fixed size text fields
type Banner struct {
	Image        []byte
	GameName     string
	Maker        string
	FullGameName string
	FullMaker    string
	Description  string
}

func Parse(b []byte) (bnr *Banner, err error) {
	defer utils.RecoverBufStack(&err)

	bs := utils.NewBufStack("banner", b)
	if magic := string(bs.Read(4)); magic != BNR1_MAGIC {
		return nil, errors.Errorf("[banner] Invalid magic %q", magic)
	}
	bs.Seek(IMAGE_OFFSET)

	return &Banner{
		Image:        bs.ReadCopy(IMAGE_SIZE),
		GameName:     bs.ReadStringBuffer(GAME_NAME_SIZE),
		Maker:        bs.ReadStringBuffer(MAKER_SIZE),
		FullGameName: bs.ReadStringBuffer(FULL_GAME_NAME_SIZE),
		FullMaker:    bs.ReadStringBuffer(FULL_MAKER_SIZE),
		Description:  bs.ReadStringBuffer(DESCRIPTION_SIZE),
	}, nil
}

// Marshal encodes text with current charmap, every field is truncated
// to its size and padded with zeroes
func (bnr *Banner) Marshal() []byte {
	w := utils.NewWriter()
	w.Write([]byte(BNR1_MAGIC))
	w.Skip(IMAGE_OFFSET - w.Pos())

	img := make([]byte, IMAGE_SIZE)
	copy(img, bnr.Image)
	w.Write(img)

	w.Write(utils.StringToFixedBytes(bnr.GameName, GAME_NAME_SIZE))
	w.Write(utils.StringToFixedBytes(bnr.Maker, MAKER_SIZE))
	w.Write(utils.StringToFixedBytes(bnr.FullGameName, FULL_GAME_NAME_SIZE))
	w.Write(utils.StringToFixedBytes(bnr.FullMaker, FULL_MAKER_SIZE))
	w.Write(utils.StringToFixedBytes(bnr.Description, DESCRIPTION_SIZE))
	return w.Bytes()
}

// SetText replaces non empty fields
func (bnr *Banner) SetText(gameName, maker, fullGameName, fullMaker, description string) {
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&bnr.GameName, gameName},
		{&bnr.Maker, maker},
		{&bnr.FullGameName, fullGameName},
		{&bnr.FullMaker, fullMaker},
		{&bnr.Description, description},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
}
