// Package ppu implements the scanline picture processing unit: the LY/mode
// state machine and the background/sprite rasterizer.
package ppu

import (
	"dmgemu/internal/interrupt"
	"dmgemu/internal/memory"
)

const (
	// Width and Height are the visible LCD dimensions in pixels.
	Width  = 160
	Height = 144
)

// LCDC (0xFF40) bits.
const (
	lcdOnBit         = 1 << 7
	windowTilemapBit = 1 << 6
	windowDispBit    = 1 << 5
	tileDataBit      = 1 << 4
	bgTilemapBit     = 1 << 3
	spriteSizeBit    = 1 << 2
	spriteDispBit    = 1 << 1
	bgDispBit        = 1 << 0
)

// Mode is the PPU state machine state.
type Mode int

const (
	OAMScan Mode = iota
	VRAMRead
	HBlank
	VBlank
)

// Mode durations in CPU clocks.
const (
	oamScanClocks  = 80
	vramReadClocks = 172
	hblankClocks   = 204
	vblankClocks   = 456 // per line, lines 143..153
)

func (m Mode) statCode() byte {
	switch m {
	case HBlank:
		return 0
	case VBlank:
		return 1
	case OAMScan:
		return 2
	default:
		return 3
	}
}

// FrameTrace counts per-frame rendering events, snapshotted at each frame wrap.
type FrameTrace struct {
	Sprites       int
	YFlippedLines int
	XFlippedLines int
}

// PPU owns the RGBA framebuffer and the scanline state machine. It is advanced
// by the clocks each CPU instruction consumed; several mode transitions may
// happen in one call after a long instruction.
type PPU struct {
	mode        Mode
	modeElapsed int
	line        byte

	fb []byte // RGBA, Width*Height*4

	current FrameTrace
	last    FrameTrace
}

func New() *PPU {
	p := &PPU{mode: HBlank}
	p.fb = make([]byte, Width*Height*4)
	p.clearFramebuffer()
	return p
}

// Framebuffer returns the RGBA pixel buffer, row-major, 4 bytes per pixel.
func (p *PPU) Framebuffer() []byte { return p.fb }

// FrameTrace returns the debug counters of the last completed frame.
func (p *PPU) FrameTrace() FrameTrace { return p.last }

// Line returns the current scanline counter (mirrored into LY).
func (p *PPU) Line() byte { return p.line }

// CurrentMode returns the state machine's mode.
func (p *PPU) CurrentMode() Mode { return p.mode }

// Cycle advances the state machine by the given number of CPU clocks.
// It returns true when the PPU transitioned into VBlank, i.e. when a frame
// just completed and the host should redraw.
func (p *PPU) Cycle(mem *memory.Memory, elapsed int) bool {
	lcdc := mem.Get(0xFF40)

	if lcdc&lcdOnBit == 0 {
		// LCD off: clear the STAT mode bits and stay idle.
		mem.Set(0xFF41, mem.Get(0xFF41)&0xFC)
		return false
	}

	enteredVBlank := false
	newline := false

	p.modeElapsed += elapsed
	for {
		switch p.mode {
		case OAMScan:
			if p.modeElapsed < oamScanClocks {
				break
			}
			p.modeElapsed -= oamScanClocks
			p.mode = VRAMRead
			continue
		case VRAMRead:
			if p.modeElapsed < vramReadClocks {
				break
			}
			p.modeElapsed -= vramReadClocks
			p.mode = HBlank
			p.drawLine(mem)
			continue
		case HBlank:
			if p.modeElapsed < hblankClocks {
				break
			}
			p.modeElapsed -= hblankClocks
			p.line++
			newline = true
			if p.line == 143 {
				p.mode = VBlank
				enteredVBlank = true
			} else {
				p.mode = OAMScan
			}
			continue
		case VBlank:
			if p.modeElapsed < vblankClocks {
				break
			}
			p.modeElapsed -= vblankClocks
			p.line++
			newline = true
			if p.line > 153 {
				// Frame wrap: snapshot debug counters, blank for re-writing
				p.last = p.current
				p.current = FrameTrace{}
				p.clearFramebuffer()
				p.mode = OAMScan
				p.line = 0
			}
			continue
		}
		break
	}

	mem.Set(0xFF44, p.line)

	stat := mem.Get(0xFF41)&0xFC | p.mode.statCode()
	mem.Set(0xFF41, stat)

	if enteredVBlank {
		interrupt.Request(mem, interrupt.VBlank)
	}

	if newline && p.coincidenceInterrupt(mem, stat) {
		interrupt.Request(mem, interrupt.LCDStat)
	}

	return enteredVBlank
}

// coincidenceInterrupt decides the LYC=LY STAT interrupt on a new line:
// enabled by STAT bit 6, raised when bit 2 agrees with the LY==LYC comparison.
func (p *PPU) coincidenceInterrupt(mem *memory.Memory, stat byte) bool {
	if stat&(1<<6) == 0 {
		return false
	}
	lyc := mem.Get(0xFF45)
	if stat&(1<<2) != 0 {
		return p.line == lyc
	}
	return p.line != lyc
}

// clearFramebuffer resets every pixel to opaque white.
func (p *PPU) clearFramebuffer() {
	for i := range p.fb {
		p.fb[i] = 0xFF
	}
}
