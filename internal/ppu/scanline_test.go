package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dmgemu/internal/memory"
)

func pixelAt(p *PPU, x, y int) byte {
	return p.fb[(y*Width+x)*4]
}

func TestScanline_BackgroundUnsignedTileData(t *testing.T) {
	p, mem := newTestPPU()
	// LCDC default 0x91: BG on, tile data at 0x8000, map at 0x9800.
	// Tile 0 row 0: low plane all ones -> colour 1 across the row.
	mem.Set(0x8000, 0xFF)
	mem.Set(0x8001, 0x00)

	p.line = 0
	p.drawLine(mem)

	// BGP 0xFC maps colour 1 to black
	assert.Equal(t, byte(0x00), pixelAt(p, 0, 0))
	assert.Equal(t, byte(0x00), pixelAt(p, 159, 0))
	assert.Equal(t, byte(0xFF), p.fb[3], "alpha stays opaque")

	// Row 1 of the tile is colour 0 -> white
	p.line = 1
	p.drawLine(mem)
	assert.Equal(t, byte(0xFF), pixelAt(p, 0, 1))
}

func TestScanline_BackgroundSignedTileData(t *testing.T) {
	p, mem := newTestPPU()
	mem.Set(0xFF40, 0x81) // tile data select clear: signed indexes from 0x9000

	mem.Set(0x9800, 0xFF) // tile -1 -> 0x9000 - 16 = 0x8FF0
	mem.Set(0x8FF0, 0xFF)
	mem.Set(0x8FF1, 0xFF) // colour 3 -> black under BGP 0xFC

	p.line = 0
	p.drawLine(mem)
	assert.Equal(t, byte(0x00), pixelAt(p, 0, 0))
}

func TestScanline_BackgroundScroll(t *testing.T) {
	p, mem := newTestPPU()
	// Tile 1 solid colour 1; map entry (0,0) stays tile 0 (blank),
	// map entry (1,0) = tile 1.
	for row := uint16(0); row < 8; row++ {
		mem.Set(0x8010+row*2, 0xFF)
	}
	mem.Set(0x9801, 0x01)

	p.line = 0
	p.drawLine(mem)
	assert.Equal(t, byte(0xFF), pixelAt(p, 0, 0), "tile 0 is blank")
	assert.Equal(t, byte(0x00), pixelAt(p, 8, 0), "tile 1 starts at x=8")

	// Scrolling 8 pixels right brings tile 1 to the left edge
	mem.Set(0xFF43, 8)
	p.drawLine(mem)
	assert.Equal(t, byte(0x00), pixelAt(p, 0, 0))
}

func TestScanline_BackgroundDisabled(t *testing.T) {
	p, mem := newTestPPU()
	mem.Set(0xFF40, 0x90) // BG display off
	mem.Set(0x8000, 0xFF)

	p.line = 0
	p.drawLine(mem)
	assert.Equal(t, byte(0xFF), pixelAt(p, 0, 0), "framebuffer untouched")
}

// writeSprite stores one OAM entry; y and x carry the hardware biases.
func writeSprite(mem *memory.Memory, slot int, y, x, tile, attr byte) {
	base := uint16(0xFE00 + 4*slot)
	mem.Set(base, y)
	mem.Set(base+1, x)
	mem.Set(base+2, tile)
	mem.Set(base+3, attr)
}

func TestScanline_SpriteBasics(t *testing.T) {
	p, mem := newTestPPU()
	mem.Set(0xFF40, 0x82) // LCD on, sprites on, BG off

	// Tile 2, row 3: leftmost pixel colour 1
	mem.Set(0x8000+2*16+3*2, 0x80)
	// Sprite at screen (8,5): OAM y=5+16=21, x=8+8=16; row 3 on line 8
	writeSprite(mem, 0, 21, 16, 2, 0x00)

	p.line = 8
	p.drawLine(mem)

	// OBP0 defaults to 0xFF: colour 1 -> black
	assert.Equal(t, byte(0x00), pixelAt(p, 8, 8))
	// Colour 0 neighbours are transparent
	assert.Equal(t, byte(0xFF), pixelAt(p, 9, 8))
}

func TestScanline_SpriteXFlip(t *testing.T) {
	p, mem := newTestPPU()
	mem.Set(0xFF40, 0x82)

	mem.Set(0x8000+2*16+3*2, 0x80)   // leftmost pixel
	writeSprite(mem, 0, 21, 16, 2, 1<<5) // x-flip mirrors it to the right edge

	p.line = 8
	p.drawLine(mem)

	assert.Equal(t, byte(0xFF), pixelAt(p, 8, 8))
	assert.Equal(t, byte(0x00), pixelAt(p, 15, 8))
	assert.NotZero(t, p.current.XFlippedLines)
}

func TestScanline_SpriteYFlip(t *testing.T) {
	p, mem := newTestPPU()
	mem.Set(0xFF40, 0x82)

	// Row 5 holds the pixels; y-flip maps line row 3 onto tile row 8-3=5
	mem.Set(0x8000+2*16+5*2, 0x80)
	writeSprite(mem, 0, 21, 16, 2, 1<<6)

	p.line = 8
	p.drawLine(mem)

	assert.Equal(t, byte(0x00), pixelAt(p, 8, 8))
	assert.NotZero(t, p.current.YFlippedLines)
}

func TestScanline_SpriteBehindBackground(t *testing.T) {
	p, mem := newTestPPU()
	mem.Set(0xFF40, 0x93)  // BG + sprites
	mem.Set(0xFF47, 0xE4)  // BGP: colour 1 -> light gray 0xC0

	// BG row: colour 1 everywhere on the sprite's line (line 8 -> tile row 0 of map row 1)
	mem.Set(0x9820, 0x01) // map (0,1) = tile 1
	mem.Set(0x9821, 0x01)
	for row := uint16(0); row < 8; row++ {
		mem.Set(0x8010+row*2, 0xFF)
	}

	mem.Set(0x8000+2*16+3*2, 0x80)
	writeSprite(mem, 0, 21, 16, 2, 1<<7) // behind non-zero background

	p.line = 8
	p.drawLine(mem)
	assert.Equal(t, byte(0xC0), pixelAt(p, 8, 8), "sprite hidden behind BG colour 1")

	// Priority clear: the sprite wins
	writeSprite(mem, 0, 21, 16, 2, 0x00)
	p.drawLine(mem)
	assert.Equal(t, byte(0x00), pixelAt(p, 8, 8))
}

func TestScanline_SpriteLimitPerLine(t *testing.T) {
	p, mem := newTestPPU()
	mem.Set(0xFF40, 0x82)

	// Solid tile 2 row 3
	mem.Set(0x8000+2*16+3*2, 0xFF)

	// Eleven sprites on the same line at distinct x positions
	for i := 0; i < 11; i++ {
		writeSprite(mem, i, 21, byte(16+8*i), 2, 0x00)
	}

	p.line = 8
	p.drawLine(mem)

	assert.Equal(t, byte(0x00), pixelAt(p, 8, 8), "first sprite drawn")
	assert.Equal(t, byte(0x00), pixelAt(p, 8+9*8, 8), "tenth sprite drawn")
	assert.Equal(t, byte(0xFF), pixelAt(p, 8+10*8, 8), "eleventh sprite dropped")
	assert.Equal(t, 10, p.current.Sprites)
}

func TestScanline_SpriteSelectionBounds(t *testing.T) {
	p, mem := newTestPPU()
	mem.Set(0xFF40, 0x82)
	mem.Set(0x8000+2*16+3*2, 0xFF)

	// line == sy is excluded by the strict comparison
	writeSprite(mem, 0, 24, 16, 2, 0x00) // sy = 8
	p.line = 8
	p.drawLine(mem)
	assert.Equal(t, byte(0xFF), pixelAt(p, 8, 8))

	// fully off-screen to the left is skipped
	writeSprite(mem, 0, 21, 0, 2, 0x00) // sx = -8
	p.drawLine(mem)
	assert.Equal(t, 0, p.current.Sprites)
}

func TestScanline_WindowIsNoOp(t *testing.T) {
	p, mem := newTestPPU()
	mem.Set(0xFF40, 0xB1) // window display set

	mem.Set(0xFF4A, 0) // WY
	mem.Set(0xFF4B, 7) // WX
	mem.Set(0x9C00, 0x01)

	p.line = 0
	p.drawLine(mem)
	// The window layer is detected but never rendered
	assert.Equal(t, byte(0xFF), pixelAt(p, 0, 0))
}

func TestScanline_PaletteMapping(t *testing.T) {
	assert.Equal(t, byte(0xFF), applyPalette(0, 0xE4))
	assert.Equal(t, byte(0xC0), applyPalette(1, 0xE4))
	assert.Equal(t, byte(0x60), applyPalette(2, 0xE4))
	assert.Equal(t, byte(0x00), applyPalette(3, 0xE4))

	assert.Panics(t, func() { applyPalette(4, 0xE4) })
}
