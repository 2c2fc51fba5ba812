// Package cpu implements the SM83 core: register file, flags, instruction
// decode/execute, and interrupt servicing.
package cpu

import (
	"dmgemu/internal/interrupt"
	"dmgemu/internal/memory"
)

// Reg8 selects one of the seven addressable byte registers.
type Reg8 byte

const (
	RegA Reg8 = iota
	RegB
	RegC
	RegD
	RegE
	RegH
	RegL
)

// Reg16 selects a 16-bit register or register pair.
type Reg16 byte

const (
	RegSP Reg16 = iota
	RegBC
	RegDE
	RegHL
	RegAF
)

// Flag bit positions in F.
const (
	flagZ byte = 1 << 7
	flagN byte = 1 << 6
	flagH byte = 1 << 5
	flagC byte = 1 << 4
)

// CPU holds the register file and the interrupt master enable.
// jumped is raised by control transfers so the step loop does not advance PC;
// halted suspends fetching until an interrupt becomes pending.
type CPU struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	SP uint16
	PC uint16

	IME bool

	jumped bool
	halted bool
}

// New returns a CPU in DMG post-boot state.
func New() *CPU {
	return &CPU{
		PC: 0x0100,
		SP: 0xFFFE,
		A:  0x01, F: 0xB0,
		B: 0x00, C: 0x13,
		D: 0x00, E: 0xD8,
		H: 0x01, L: 0x4D,
		IME: true,
	}
}

// Halted reports whether the CPU is suspended by HALT.
func (c *CPU) Halted() bool { return c.halted }

// Step executes one instruction and returns its cycle cost.
// While halted it consumes 8 clocks without fetching.
func (c *CPU) Step(mem *memory.Memory) int {
	if c.halted {
		return 8
	}

	instr := Decode(mem, c.PC)
	cycles := instr.Execute(c, mem)

	// A control transfer already placed PC; don't skip the target.
	if !c.jumped {
		c.PC += instr.Size()
	}
	c.jumped = false

	return cycles
}

// Service vectors a pending interrupt. The halt state is cleared regardless of
// IME; vectoring only happens when IME is set. Returns whether it vectored.
func (c *CPU) Service(mem *memory.Memory, in interrupt.Interrupt) bool {
	c.halted = false

	if !c.IME {
		// The request stays pending in IF
		return false
	}

	c.SP -= 2
	mem.Set16(c.SP, c.PC)
	c.PC = interrupt.Vector(in)

	interrupt.Dismiss(mem, in)
	c.IME = false

	return true
}

// Get returns an 8-bit register's value.
func (c *CPU) Get(reg Reg8) byte {
	switch reg {
	case RegA:
		return c.A
	case RegB:
		return c.B
	case RegC:
		return c.C
	case RegD:
		return c.D
	case RegE:
		return c.E
	case RegH:
		return c.H
	default:
		return c.L
	}
}

// Set writes an 8-bit register.
func (c *CPU) Set(reg Reg8, val byte) {
	switch reg {
	case RegA:
		c.A = val
	case RegB:
		c.B = val
	case RegC:
		c.C = val
	case RegD:
		c.D = val
	case RegE:
		c.E = val
	case RegH:
		c.H = val
	default:
		c.L = val
	}
}

// Get16 returns a 16-bit register pair, high byte first in the pair name.
func (c *CPU) Get16(reg Reg16) uint16 {
	switch reg {
	case RegSP:
		return c.SP
	case RegBC:
		return uint16(c.B)<<8 | uint16(c.C)
	case RegDE:
		return uint16(c.D)<<8 | uint16(c.E)
	case RegHL:
		return uint16(c.H)<<8 | uint16(c.L)
	default:
		return uint16(c.A)<<8 | uint16(c.F&0xF0)
	}
}

// Set16 writes a 16-bit register pair. Writing AF discards F's low nibble.
func (c *CPU) Set16(reg Reg16, val uint16) {
	high := byte(val >> 8)
	low := byte(val)
	switch reg {
	case RegSP:
		c.SP = val
	case RegBC:
		c.B, c.C = high, low
	case RegDE:
		c.D, c.E = high, low
	case RegHL:
		c.H, c.L = high, low
	default:
		c.A, c.F = high, low&0xF0
	}
}

func (c *CPU) setFlags(z, n, h, carry bool) {
	var f byte
	if z {
		f |= flagZ
	}
	if n {
		f |= flagN
	}
	if h {
		f |= flagH
	}
	if carry {
		f |= flagC
	}
	c.F = f
}

func (c *CPU) zFlag() bool { return c.F&flagZ != 0 }
func (c *CPU) nFlag() bool { return c.F&flagN != 0 }
func (c *CPU) hFlag() bool { return c.F&flagH != 0 }
func (c *CPU) cFlag() bool { return c.F&flagC != 0 }

// jump transfers control to addr.
func (c *CPU) jump(addr uint16) {
	c.PC = addr
	c.jumped = true
}

// rjump adds a signed offset (plus the instruction's own size) to PC.
func (c *CPU) rjump(offset int8, size uint16) {
	c.jump(uint16(int32(c.PC) + int32(size) + int32(offset)))
}

// ret pops the return address off the stack and jumps to it.
func (c *CPU) ret(mem *memory.Memory) {
	addr := mem.Get16(c.SP)
	c.SP += 2
	c.jump(addr)
}

func (c *CPU) push16(mem *memory.Memory, val uint16) {
	c.SP -= 2
	mem.Set16(c.SP, val)
}

func (c *CPU) pop16(mem *memory.Memory) uint16 {
	val := mem.Get16(c.SP)
	c.SP += 2
	return val
}

// halt suspends the CPU until an interrupt becomes pending.
func (c *CPU) halt() {
	c.halted = true
}
