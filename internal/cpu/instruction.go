package cpu

import (
	"fmt"

	"dmgemu/internal/memory"
)

// Op enumerates the distinct execution semantics of the instruction set.
// The decoder normalizes opcode bytes into one of these plus its operands;
// execution is a switch on the kind.
type Op int

const (
	OpNop Op = iota

	// Loads
	OpLdImm16   // LD rr,d16
	OpLdImm8    // LD r,d8
	OpLdReg     // LD r,r'
	OpLdPair    // LD r,(rr)
	OpLdHiImm   // LDH A,(FF00+n)
	OpLdHiC     // LD A,(FF00+C)
	OpLdDec     // LD A,(HL-)
	OpLdInc     // LD A,(HL+)
	OpLdAbs     // LD A,(a16)
	OpLdHLSPOff // LD HL,SP+r8
	OpLdSPHL    // LD SP,HL
	OpStSPAbs   // LD (a16),SP
	OpStPair    // LD (rr),r
	OpStImm     // LD (HL),d8
	OpStHiImm   // LDH (FF00+n),A
	OpStHiC     // LD (FF00+C),A
	OpStAbs     // LD (a16),A
	OpStDec     // LD (HL-),A
	OpStInc     // LD (HL+),A

	// Control flow
	OpJp
	OpJpNZ
	OpJpZ
	OpJpNC
	OpJpC
	OpJpHL
	OpJr
	OpJrNZ
	OpJrZ
	OpJrNC
	OpJrC
	OpCall
	OpCallNZ
	OpCallZ
	OpCallNC
	OpCallC
	OpRet
	OpRetNZ
	OpRetZ
	OpRetNC
	OpRetC
	OpReti
	OpRst

	// Stack
	OpPush
	OpPop

	// Arithmetic / logic
	OpAddReg
	OpAddMem
	OpAddImm
	OpAdcReg
	OpAdcMem
	OpAdcImm
	OpSubReg
	OpSubMem
	OpSubImm
	OpSbcReg
	OpSbcMem
	OpSbcImm
	OpAndReg
	OpAndMem
	OpAndImm
	OpXorReg
	OpXorMem
	OpXorImm
	OpOrReg
	OpOrMem
	OpOrImm
	OpCpReg
	OpCpMem
	OpCpImm
	OpAddPair // ADD HL,rr
	OpAddSP   // ADD SP,r8
	OpIncReg
	OpIncMem
	OpDecReg
	OpDecMem
	OpIncPair
	OpDecPair
	OpDaa
	OpCpl
	OpCcf
	OpScf

	// Interrupt control
	OpDi
	OpEi
	OpHalt

	// Accumulator rotates (always clear Z)
	OpRlca
	OpRla
	OpRrca
	OpRra

	// 0xCB page
	OpRlcReg
	OpRlcMem
	OpRrcReg
	OpRrcMem
	OpRlReg
	OpRlMem
	OpRrReg
	OpRrMem
	OpSlaReg
	OpSlaMem
	OpSraReg
	OpSraMem
	OpSrlReg
	OpSrlMem
	OpSwapReg
	OpSwapMem
	OpBitReg
	OpBitMem
	OpResReg
	OpResMem
	OpSetReg
	OpSetMem

	OpIllegal
	OpUnimplemented
)

// Instr is a decoded instruction: a kind plus the operands it needs.
type Instr struct {
	Op    Op
	Dst   Reg8
	Src   Reg8
	Pair  Reg16
	Bit   byte
	Imm8  byte
	Off   int8
	Imm16 uint16
	Raw   byte // raw opcode, kept for diagnostics
}

// Size returns the instruction's length in bytes (1, 2, or 3).
func (i Instr) Size() uint16 {
	switch i.Op {
	case OpLdImm16, OpLdAbs, OpStSPAbs, OpStAbs,
		OpJp, OpJpNZ, OpJpZ, OpJpNC, OpJpC,
		OpCall, OpCallNZ, OpCallZ, OpCallNC, OpCallC:
		return 3
	case OpLdImm8, OpLdHiImm, OpLdHLSPOff, OpStImm, OpStHiImm,
		OpJr, OpJrNZ, OpJrZ, OpJrNC, OpJrC,
		OpAddImm, OpAdcImm, OpSubImm, OpSbcImm,
		OpAndImm, OpXorImm, OpOrImm, OpCpImm, OpAddSP,
		OpRlcReg, OpRlcMem, OpRrcReg, OpRrcMem,
		OpRlReg, OpRlMem, OpRrReg, OpRrMem,
		OpSlaReg, OpSlaMem, OpSraReg, OpSraMem,
		OpSrlReg, OpSrlMem, OpSwapReg, OpSwapMem,
		OpBitReg, OpBitMem, OpResReg, OpResMem, OpSetReg, OpSetMem:
		return 2
	default:
		return 1
	}
}

// Execute runs the instruction against the CPU and memory, returning its
// cycle cost. Conditional control transfers cost more on the taken branch.
func (i Instr) Execute(c *CPU, mem *memory.Memory) int {
	switch i.Op {
	case OpNop:
		return 4

	case OpLdImm16:
		c.Set16(i.Pair, i.Imm16)
		return 12
	case OpLdImm8:
		c.Set(i.Dst, i.Imm8)
		return 8
	case OpLdReg:
		c.Set(i.Dst, c.Get(i.Src))
		return 4
	case OpLdPair:
		c.Set(i.Dst, mem.Get(c.Get16(i.Pair)))
		return 8
	case OpLdHiImm:
		c.A = mem.Get(0xFF00 + uint16(i.Imm8))
		return 12
	case OpLdHiC:
		c.A = mem.Get(0xFF00 + uint16(c.C))
		return 8
	case OpLdDec:
		hl := c.Get16(RegHL)
		c.A = mem.Get(hl)
		c.Set16(RegHL, hl-1)
		return 8
	case OpLdInc:
		hl := c.Get16(RegHL)
		c.A = mem.Get(hl)
		c.Set16(RegHL, hl+1)
		return 8
	case OpLdAbs:
		c.A = mem.Get(i.Imm16)
		return 16
	case OpLdHLSPOff:
		c.Set16(RegHL, c.aluAddSPOff(i.Off))
		return 12
	case OpLdSPHL:
		c.SP = c.Get16(RegHL)
		return 8
	case OpStSPAbs:
		mem.Set16(i.Imm16, c.SP)
		return 20
	case OpStPair:
		mem.Set(c.Get16(i.Pair), c.Get(i.Src))
		return 8
	case OpStImm:
		mem.Set(c.Get16(RegHL), i.Imm8)
		return 12
	case OpStHiImm:
		mem.Set(0xFF00+uint16(i.Imm8), c.A)
		return 12
	case OpStHiC:
		mem.Set(0xFF00+uint16(c.C), c.A)
		return 8
	case OpStAbs:
		mem.Set(i.Imm16, c.A)
		return 16
	case OpStDec:
		hl := c.Get16(RegHL)
		mem.Set(hl, c.A)
		c.Set16(RegHL, hl-1)
		return 8
	case OpStInc:
		hl := c.Get16(RegHL)
		mem.Set(hl, c.A)
		c.Set16(RegHL, hl+1)
		return 8

	case OpJp:
		c.jump(i.Imm16)
		return 16
	case OpJpNZ:
		if !c.zFlag() {
			c.jump(i.Imm16)
			return 16
		}
		return 12
	case OpJpZ:
		if c.zFlag() {
			c.jump(i.Imm16)
			return 16
		}
		return 12
	case OpJpNC:
		if !c.cFlag() {
			c.jump(i.Imm16)
			return 16
		}
		return 12
	case OpJpC:
		if c.cFlag() {
			c.jump(i.Imm16)
			return 16
		}
		return 12
	case OpJpHL:
		c.jump(c.Get16(RegHL))
		return 4
	case OpJr:
		c.rjump(i.Off, i.Size())
		return 12
	case OpJrNZ:
		if !c.zFlag() {
			c.rjump(i.Off, i.Size())
			return 12
		}
		return 8
	case OpJrZ:
		if c.zFlag() {
			c.rjump(i.Off, i.Size())
			return 12
		}
		return 8
	case OpJrNC:
		if !c.cFlag() {
			c.rjump(i.Off, i.Size())
			return 12
		}
		return 8
	case OpJrC:
		if c.cFlag() {
			c.rjump(i.Off, i.Size())
			return 12
		}
		return 8

	case OpCall:
		c.push16(mem, c.PC+i.Size())
		c.jump(i.Imm16)
		return 24
	case OpCallNZ:
		if !c.zFlag() {
			c.push16(mem, c.PC+i.Size())
			c.jump(i.Imm16)
			return 24
		}
		return 12
	case OpCallZ:
		if c.zFlag() {
			c.push16(mem, c.PC+i.Size())
			c.jump(i.Imm16)
			return 24
		}
		return 12
	case OpCallNC:
		if !c.cFlag() {
			c.push16(mem, c.PC+i.Size())
			c.jump(i.Imm16)
			return 24
		}
		return 12
	case OpCallC:
		if c.cFlag() {
			c.push16(mem, c.PC+i.Size())
			c.jump(i.Imm16)
			return 24
		}
		return 12
	case OpRet:
		c.ret(mem)
		return 16
	case OpRetNZ:
		if !c.zFlag() {
			c.ret(mem)
			return 20
		}
		return 8
	case OpRetZ:
		if c.zFlag() {
			c.ret(mem)
			return 20
		}
		return 8
	case OpRetNC:
		if !c.cFlag() {
			c.ret(mem)
			return 20
		}
		return 8
	case OpRetC:
		if c.cFlag() {
			c.ret(mem)
			return 20
		}
		return 8
	case OpReti:
		c.ret(mem)
		c.IME = true
		return 16
	case OpRst:
		c.push16(mem, c.PC+i.Size())
		c.jump(i.Imm16)
		return 16

	case OpPush:
		c.push16(mem, c.Get16(i.Pair))
		return 16
	case OpPop:
		c.Set16(i.Pair, c.pop16(mem))
		return 12

	case OpAddReg:
		c.aluAdd(c.Get(i.Src))
		return 4
	case OpAddMem:
		c.aluAdd(mem.Get(c.Get16(RegHL)))
		return 8
	case OpAddImm:
		c.aluAdd(i.Imm8)
		return 8
	case OpAdcReg:
		c.aluAdc(c.Get(i.Src))
		return 4
	case OpAdcMem:
		c.aluAdc(mem.Get(c.Get16(RegHL)))
		return 8
	case OpAdcImm:
		c.aluAdc(i.Imm8)
		return 8
	case OpSubReg:
		c.aluSub(c.Get(i.Src))
		return 4
	case OpSubMem:
		c.aluSub(mem.Get(c.Get16(RegHL)))
		return 8
	case OpSubImm:
		c.aluSub(i.Imm8)
		return 8
	case OpSbcReg:
		c.aluSbc(c.Get(i.Src))
		return 4
	case OpSbcMem:
		c.aluSbc(mem.Get(c.Get16(RegHL)))
		return 8
	case OpSbcImm:
		c.aluSbc(i.Imm8)
		return 8
	case OpAndReg:
		c.aluAnd(c.Get(i.Src))
		return 4
	case OpAndMem:
		c.aluAnd(mem.Get(c.Get16(RegHL)))
		return 8
	case OpAndImm:
		c.aluAnd(i.Imm8)
		return 8
	case OpXorReg:
		c.aluXor(c.Get(i.Src))
		return 4
	case OpXorMem:
		c.aluXor(mem.Get(c.Get16(RegHL)))
		return 8
	case OpXorImm:
		c.aluXor(i.Imm8)
		return 8
	case OpOrReg:
		c.aluOr(c.Get(i.Src))
		return 4
	case OpOrMem:
		c.aluOr(mem.Get(c.Get16(RegHL)))
		return 8
	case OpOrImm:
		c.aluOr(i.Imm8)
		return 8
	case OpCpReg:
		c.aluCmp(c.Get(i.Src))
		return 4
	case OpCpMem:
		c.aluCmp(mem.Get(c.Get16(RegHL)))
		return 8
	case OpCpImm:
		c.aluCmp(i.Imm8)
		return 8

	case OpAddPair:
		c.aluAddHL(c.Get16(i.Pair))
		return 8
	case OpAddSP:
		c.SP = c.aluAddSPOff(i.Off)
		return 16

	case OpIncReg:
		c.Set(i.Dst, c.aluInc(c.Get(i.Dst)))
		return 4
	case OpIncMem:
		addr := c.Get16(RegHL)
		mem.Set(addr, c.aluInc(mem.Get(addr)))
		return 12
	case OpDecReg:
		c.Set(i.Dst, c.aluDec(c.Get(i.Dst)))
		return 4
	case OpDecMem:
		addr := c.Get16(RegHL)
		mem.Set(addr, c.aluDec(mem.Get(addr)))
		return 12
	case OpIncPair:
		c.Set16(i.Pair, c.Get16(i.Pair)+1)
		return 8
	case OpDecPair:
		c.Set16(i.Pair, c.Get16(i.Pair)-1)
		return 8

	case OpDaa:
		c.aluDaa()
		return 4
	case OpCpl:
		c.aluCpl()
		return 4
	case OpCcf:
		c.aluCcf()
		return 4
	case OpScf:
		c.aluScf()
		return 4

	case OpDi:
		c.IME = false
		return 4
	case OpEi:
		c.IME = true
		return 4
	case OpHalt:
		c.halt()
		return 4

	case OpRlca:
		c.A = c.aluRlc(c.A)
		c.setFlags(false, false, false, c.cFlag())
		return 4
	case OpRla:
		c.A = c.aluRl(c.A)
		c.setFlags(false, false, false, c.cFlag())
		return 4
	case OpRrca:
		c.A = c.aluRrc(c.A)
		c.setFlags(false, false, false, c.cFlag())
		return 4
	case OpRra:
		c.A = c.aluRr(c.A)
		c.setFlags(false, false, false, c.cFlag())
		return 4

	case OpRlcReg:
		c.Set(i.Dst, c.aluRlc(c.Get(i.Dst)))
		return 8
	case OpRlcMem:
		addr := c.Get16(RegHL)
		mem.Set(addr, c.aluRlc(mem.Get(addr)))
		return 16
	case OpRrcReg:
		c.Set(i.Dst, c.aluRrc(c.Get(i.Dst)))
		return 8
	case OpRrcMem:
		addr := c.Get16(RegHL)
		mem.Set(addr, c.aluRrc(mem.Get(addr)))
		return 16
	case OpRlReg:
		c.Set(i.Dst, c.aluRl(c.Get(i.Dst)))
		return 8
	case OpRlMem:
		addr := c.Get16(RegHL)
		mem.Set(addr, c.aluRl(mem.Get(addr)))
		return 16
	case OpRrReg:
		c.Set(i.Dst, c.aluRr(c.Get(i.Dst)))
		return 8
	case OpRrMem:
		addr := c.Get16(RegHL)
		mem.Set(addr, c.aluRr(mem.Get(addr)))
		return 16
	case OpSlaReg:
		c.Set(i.Dst, c.aluSla(c.Get(i.Dst)))
		return 8
	case OpSlaMem:
		addr := c.Get16(RegHL)
		mem.Set(addr, c.aluSla(mem.Get(addr)))
		return 16
	case OpSraReg:
		c.Set(i.Dst, c.aluSra(c.Get(i.Dst)))
		return 8
	case OpSraMem:
		addr := c.Get16(RegHL)
		mem.Set(addr, c.aluSra(mem.Get(addr)))
		return 16
	case OpSrlReg:
		c.Set(i.Dst, c.aluSrl(c.Get(i.Dst)))
		return 8
	case OpSrlMem:
		addr := c.Get16(RegHL)
		mem.Set(addr, c.aluSrl(mem.Get(addr)))
		return 16
	case OpSwapReg:
		c.Set(i.Dst, c.aluSwap(c.Get(i.Dst)))
		return 8
	case OpSwapMem:
		addr := c.Get16(RegHL)
		mem.Set(addr, c.aluSwap(mem.Get(addr)))
		return 16
	case OpBitReg:
		c.aluBit(c.Get(i.Dst), i.Bit)
		return 8
	case OpBitMem:
		c.aluBit(mem.Get(c.Get16(RegHL)), i.Bit)
		return 12
	case OpResReg:
		c.Set(i.Dst, c.Get(i.Dst)&^(1<<i.Bit))
		return 8
	case OpResMem:
		addr := c.Get16(RegHL)
		mem.Set(addr, mem.Get(addr)&^(1<<i.Bit))
		return 16
	case OpSetReg:
		c.Set(i.Dst, c.Get(i.Dst)|1<<i.Bit)
		return 8
	case OpSetMem:
		addr := c.Get16(RegHL)
		mem.Set(addr, mem.Get(addr)|1<<i.Bit)
		return 16

	case OpIllegal:
		panic(fmt.Sprintf("illegal opcode 0x%02X at 0x%04X", i.Raw, c.PC))
	default:
		panic(fmt.Sprintf("unimplemented opcode 0x%02X at 0x%04X", i.Raw, c.PC))
	}
}
