package banner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBannerRoundTrip(t *testing.T) {
	bnr := &Banner{Image: []byte{1, 2, 3}, GameName: "Metroid Prime", Maker: "Nintendo"}
	bnr.SetText("", "", "Metroid Prime Randomized", "", strings.Repeat("d", 0x90))

	data := bnr.Marshal()
	require.Len(t, data, BANNER_SIZE)

	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "Metroid Prime", got.GameName)
	assert.Equal(t, "Nintendo", got.Maker)
	assert.Equal(t, "Metroid Prime Randomized", got.FullGameName)
	assert.Equal(t, "", got.FullMaker)
	assert.Equal(t, strings.Repeat("d", DESCRIPTION_SIZE), got.Description)
	assert.Equal(t, []byte{1, 2, 3}, got.Image[:3])
}

func TestBannerParseErrors(t *testing.T) {
	_, err := Parse([]byte("BNR2"))
	assert.Error(t, err)

	_, err = Parse([]byte("BNR1"))
	assert.Error(t, err)
}
