// Package emu assembles the machine: CPU, MMU, PPU, timer, and cartridge,
// advanced in lockstep by a single-threaded step loop.
package emu

import (
	"log"

	"dmgemu/internal/cart"
	"dmgemu/internal/cpu"
	"dmgemu/internal/interrupt"
	"dmgemu/internal/joypad"
	"dmgemu/internal/memory"
	"dmgemu/internal/ppu"
)

// Button re-exports the joypad button identifiers for hosts.
type Button = joypad.Button

const (
	ButtonA      = joypad.A
	ButtonB      = joypad.B
	ButtonSelect = joypad.Select
	ButtonStart  = joypad.Start
	ButtonUp     = joypad.Up
	ButtonDown   = joypad.Down
	ButtonLeft   = joypad.Left
	ButtonRight  = joypad.Right
)

// One frame is ~70224 CPU clocks.
const frameClocks = 70224

// Machine owns all mutable emulation state for one session. Nothing is
// allocated per step.
type Machine struct {
	cfg   Config
	title string

	cpu *cpu.CPU
	ppu *ppu.PPU
	mem *memory.Memory

	steps uint64
}

// New constructs a machine from a raw ROM image. It fails on images too short
// to contain a header or with an unsupported cartridge type.
func New(rom []byte, cfg Config) (*Machine, error) {
	h, err := cart.ParseHeader(rom)
	if err != nil {
		return nil, err
	}
	c, err := cart.NewCartridge(rom)
	if err != nil {
		return nil, err
	}

	return &Machine{
		cfg:   cfg,
		title: h.Title,
		cpu:   cpu.New(),
		ppu:   ppu.New(),
		mem:   memory.New(c),
	}, nil
}

// Title returns the cartridge header title, NUL-trimmed.
func (m *Machine) Title() string { return m.title }

// Step advances the machine by exactly one CPU instruction: the PPU and timer
// advance by the consumed clocks and at most one interrupt is vectored.
// It returns true when a frame just completed (PPU entered VBlank).
func (m *Machine) Step() bool {
	if m.cfg.Trace && !m.cpu.Halted() {
		in := cpu.Decode(m.mem, m.cpu.PC)
		log.Printf("%04X  %v  AF=%02X%02X BC=%02X%02X DE=%02X%02X HL=%02X%02X SP=%04X",
			m.cpu.PC, in.Op, m.cpu.A, m.cpu.F, m.cpu.B, m.cpu.C, m.cpu.D, m.cpu.E, m.cpu.H, m.cpu.L, m.cpu.SP)
	}

	cycles := m.cpu.Step(m.mem)

	redraw := m.ppu.Cycle(m.mem, cycles)
	m.mem.TickTimer(cycles)

	if in, ok := interrupt.Fetch(m.mem); ok {
		m.cpu.Service(m.mem, in)
	}

	m.steps++
	return redraw
}

// StepFrame runs until the next completed frame. With the LCD off no frame
// ever completes, so it also stops after one frame's worth of clocks
// (every step consumes at least 4).
func (m *Machine) StepFrame() {
	for i := 0; i < frameClocks/4; i++ {
		if m.Step() {
			return
		}
	}
}

// SetButton updates the input matrix and requests a Joypad interrupt on a
// press the selected column can see.
func (m *Machine) SetButton(b Button, pressed bool) {
	if m.mem.Input().Set(b, pressed) {
		interrupt.Request(m.mem, interrupt.Joypad)
	}
}

// Framebuffer returns the 160x144 RGBA pixel buffer, read-only by convention.
func (m *Machine) Framebuffer() []byte { return m.ppu.Framebuffer() }

// FrameTrace returns the PPU debug counters of the last completed frame.
func (m *Machine) FrameTrace() ppu.FrameTrace { return m.ppu.FrameTrace() }

// SerialBuffer exposes accumulated serial output for test-ROM hosts.
func (m *Machine) SerialBuffer() []byte { return m.mem.SerialBuffer() }

// ReadRegion copies out an inclusive address range, for hosts and tests.
func (m *Machine) ReadRegion(start, end uint16) []byte {
	out := make([]byte, 0, int(end)-int(start)+1)
	for a := uint32(start); a <= uint32(end); a++ {
		out = append(out, m.mem.Get(uint16(a)))
	}
	return out
}

// CPU exposes the CPU core for debug hosts.
func (m *Machine) CPU() *cpu.CPU { return m.cpu }

// Memory exposes the MMU for debug hosts.
func (m *Machine) Memory() *memory.Memory { return m.mem }

// SaveBattery returns a copy of cartridge RAM when the cartridge has any.
func (m *Machine) SaveBattery() ([]byte, bool) {
	if bb, ok := m.mem.Cart().(cart.BatteryBacked); ok {
		if data := bb.SaveRAM(); len(data) > 0 {
			return data, true
		}
	}
	return nil, false
}

// LoadBattery restores previously saved cartridge RAM.
func (m *Machine) LoadBattery(data []byte) bool {
	if bb, ok := m.mem.Cart().(cart.BatteryBacked); ok && len(data) > 0 {
		bb.LoadRAM(data)
		return true
	}
	return false
}
