package ppu

import (
	"fmt"

	"dmgemu/internal/memory"
)

// 2-bit palette fields map to a 4-level grayscale.
var grayscale = [4]byte{0xFF, 0xC0, 0x60, 0x00}

const (
	oamStart   = 0xFE00
	oamEntries = 40

	maxSpritesPerLine = 10
)

// drawLine composites the current scanline into the framebuffer: background
// first, then sprites. The window layer is detected but not rendered.
func (p *PPU) drawLine(mem *memory.Memory) {
	lcdc := mem.Get(0xFF40)
	bgp := mem.Get(0xFF47)

	tileData8000 := lcdc&tileDataBit != 0

	if lcdc&bgDispBit != 0 {
		tilemap := selectTilemap(lcdc&bgTilemapBit != 0)
		p.drawBackground(mem, bgp, tileData8000, tilemap)
	}

	if lcdc&windowDispBit != 0 {
		// Window layer: present on hardware, not drawn here.
		_ = selectTilemap(lcdc&windowTilemapBit != 0)
	}

	if lcdc&spriteDispBit != 0 {
		p.drawSprites(mem, spriteHeight(lcdc), bgp)
	}
}

func (p *PPU) drawBackground(mem *memory.Memory, bgp byte, tileData8000 bool, tilemap uint16) {
	scy := mem.Get(0xFF42)
	scx := mem.Get(0xFF43)

	bgy := uint16(p.line + scy) // wraps mod 256
	vtile := bgy / 8
	ty := bgy % 8

	for i := 0; i < Width; i++ {
		bgx := (uint16(i) + uint16(scx)) % 256
		htile := bgx / 8
		tx := byte(bgx % 8)

		tilenumRaw := mem.Get(tilemap + vtile*32 + htile)
		var tilenum int
		if tileData8000 {
			tilenum = int(tilenumRaw)
		} else {
			tilenum = int(int8(tilenumRaw))
		}

		lo, hi := tileRowData(mem, tileDataBase(tileData8000), tilenum, ty)
		colour := tileColour(lo, hi, tx)
		pixel := applyPalette(colour, bgp)

		p.setPixel(int(p.line)*Width+i, pixel)
	}
}

func (p *PPU) drawSprites(mem *memory.Memory, height int, bgp byte) {
	obp0 := mem.Get(0xFF48)
	obp1 := mem.Get(0xFF49)
	bgClear := applyPalette(0, bgp)

	drawn := 0
	for n := 0; n < oamEntries; n++ {
		if drawn >= maxSpritesPerLine {
			break
		}

		s := loadSprite(mem, n, obp0, obp1)

		if !spriteInRow(int(p.line), s.y, height) || !spriteOnDisplay(s.x) {
			continue
		}

		row := int(p.line) - s.y
		if s.yflip {
			p.current.YFlippedLines++
			row = height - row
		}
		if s.xflip {
			p.current.XFlippedLines++
		}

		lo, hi := tileRowData(mem, 0x8000, int(s.tile), uint16(row))

		visible := false
		for px := 0; px < 8; px++ {
			x := s.x + px
			if x < 0 || x >= Width {
				continue
			}
			visible = true
			idx := int(p.line)*Width + x

			// A sprite behind the background only shows over palette colour 0.
			if s.behindBG && p.fb[idx*4] != bgClear {
				continue
			}

			tx := byte(px)
			if s.xflip {
				tx = byte(7 - px)
			}

			colour := tileColour(lo, hi, tx)
			if colour == 0 {
				// colour 0 is transparent for sprites
				continue
			}
			p.setPixel(idx, applyPalette(colour, s.palette))
		}
		if visible {
			drawn++
		}
	}

	p.current.Sprites += drawn
}

type sprite struct {
	y, x     int // screen coordinates, bias already removed
	tile     byte
	behindBG bool
	yflip    bool
	xflip    bool
	palette  byte
}

func loadSprite(mem *memory.Memory, num int, obp0, obp1 byte) sprite {
	addr := uint16(oamStart + 4*num)
	attr := mem.Get(addr + 3)

	pal := obp0
	if attr&(1<<4) != 0 {
		pal = obp1
	}

	return sprite{
		y:        int(mem.Get(addr)) - 16,
		x:        int(mem.Get(addr+1)) - 8,
		tile:     mem.Get(addr + 2),
		behindBG: attr&(1<<7) != 0,
		yflip:    attr&(1<<6) != 0,
		xflip:    attr&(1<<5) != 0,
		palette:  pal,
	}
}

func spriteInRow(line, sy, height int) bool {
	return sy < line && sy+height > line
}

func spriteOnDisplay(sx int) bool {
	return sx > -8 && sx <= Width
}

// tileRowData fetches the two plane bytes of one tile row. For 16-pixel
// sprites the row offset runs past the first tile into the next one.
func tileRowData(mem *memory.Memory, base uint16, tilenum int, row uint16) (lo, hi byte) {
	const tileSize = 16
	start := uint16(int(base)+tilenum*tileSize) + row*2
	return mem.Get(start), mem.Get(start + 1)
}

// tileColour extracts the 2-bit colour of column tx (0 = leftmost) from a
// tile row: low-plane bit OR'd with the high-plane bit shifted up.
func tileColour(lo, hi byte, tx byte) byte {
	bit := 7 - tx
	return (lo>>bit)&1 | ((hi>>bit)&1)<<1
}

// applyPalette maps a 2-bit colour through a palette register to grayscale.
func applyPalette(colour byte, pal byte) byte {
	switch colour {
	case 0, 1, 2, 3:
		return grayscale[(pal>>(colour*2))&0x03]
	default:
		panic(fmt.Sprintf("invalid colour %d", colour))
	}
}

func (p *PPU) setPixel(idx int, shade byte) {
	start := idx * 4
	p.fb[start] = shade
	p.fb[start+1] = shade
	p.fb[start+2] = shade
	p.fb[start+3] = 0xFF
}

func selectTilemap(bit bool) uint16 {
	if bit {
		return 0x9C00
	}
	return 0x9800
}

func tileDataBase(bit bool) uint16 {
	if bit {
		return 0x8000
	}
	return 0x9000
}

func spriteHeight(lcdc byte) int {
	if lcdc&spriteSizeBit != 0 {
		return 16
	}
	return 8
}
