package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func romWithHeader(cartType, ramSize byte, title string) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[titleStart:], title)
	rom[0x0147] = cartType
	rom[0x0149] = ramSize
	return rom
}

func TestParseHeader_Title(t *testing.T) {
	h, err := ParseHeader(romWithHeader(0x00, 0x00, "TETRIS"))
	require.NoError(t, err)
	assert.Equal(t, "TETRIS", h.Title, "title is NUL-trimmed")
}

func TestParseHeader_TooShort(t *testing.T) {
	_, err := ParseHeader(make([]byte, 0x100))
	assert.Error(t, err)
}

func TestParseHeader_RAMSizes(t *testing.T) {
	cases := []struct {
		code byte
		want int
	}{
		{0x01, 2 * 1024},
		{0x03, 32 * 1024},
		{0x00, 8 * 1024},
		{0x02, 8 * 1024},
		{0x7F, 8 * 1024},
	}
	for _, tc := range cases {
		h, err := ParseHeader(romWithHeader(0x00, tc.code, "T"))
		require.NoError(t, err)
		assert.Equal(t, tc.want, h.RAMSizeBytes, "RAM size code %02x", tc.code)
	}
}

func TestNewCartridge_Types(t *testing.T) {
	c, err := NewCartridge(romWithHeader(0x00, 0x00, "T"))
	require.NoError(t, err)
	assert.IsType(t, &ROMOnly{}, c)

	c, err = NewCartridge(romWithHeader(0x01, 0x03, "T"))
	require.NoError(t, err)
	assert.IsType(t, &MBC1{}, c)

	c, err = NewCartridge(romWithHeader(0x13, 0x03, "T"))
	require.NoError(t, err)
	assert.IsType(t, &MBC3{}, c)
}

func TestNewCartridge_RejectsUnsupportedTypes(t *testing.T) {
	for _, typ := range []byte{0x05, 0x06, 0x19, 0x1B, 0x20, 0xFF} {
		_, err := NewCartridge(romWithHeader(typ, 0x00, "T"))
		assert.Error(t, err, "type %02x must be rejected", typ)
	}
}
