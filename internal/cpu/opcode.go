package cpu

import "dmgemu/internal/memory"

// Decode translates the opcode bytes at addr into a decoded instruction.
// 0xCB selects the extended page. Decoding only reads memory.
func Decode(mem *memory.Memory, addr uint16) Instr {
	op := mem.Get(addr)

	if op == 0xCB {
		return decodeExtended(mem.Get(addr + 1))
	}
	return decodeBase(op, addr+1, mem)
}

// operand register order of the regular opcode blocks; index 6 is (HL).
var regOrder = [8]Reg8{RegB, RegC, RegD, RegE, RegH, RegL, 0, RegA}

func decodeBase(op byte, argstart uint16, mem *memory.Memory) Instr {
	// LD r,r' block, including the (HL) forms; 0x76 is HALT.
	if op >= 0x40 && op <= 0x7F {
		if op == 0x76 {
			return Instr{Op: OpHalt, Raw: op}
		}
		d := (op >> 3) & 7
		s := op & 7
		switch {
		case d == 6:
			return Instr{Op: OpStPair, Pair: RegHL, Src: regOrder[s], Raw: op}
		case s == 6:
			return Instr{Op: OpLdPair, Dst: regOrder[d], Pair: RegHL, Raw: op}
		default:
			return Instr{Op: OpLdReg, Dst: regOrder[d], Src: regOrder[s], Raw: op}
		}
	}

	// Accumulator arithmetic/logic block.
	if op >= 0x80 && op <= 0xBF {
		regOps := [8]Op{OpAddReg, OpAdcReg, OpSubReg, OpSbcReg, OpAndReg, OpXorReg, OpOrReg, OpCpReg}
		memOps := [8]Op{OpAddMem, OpAdcMem, OpSubMem, OpSbcMem, OpAndMem, OpXorMem, OpOrMem, OpCpMem}
		group := (op >> 3) & 7
		idx := op & 7
		if idx == 6 {
			return Instr{Op: memOps[group], Raw: op}
		}
		return Instr{Op: regOps[group], Src: regOrder[idx], Raw: op}
	}

	switch op {
	case 0x00:
		return Instr{Op: OpNop, Raw: op}
	case 0x01:
		return Instr{Op: OpLdImm16, Pair: RegBC, Imm16: mem.Get16(argstart), Raw: op}
	case 0x02:
		return Instr{Op: OpStPair, Pair: RegBC, Src: RegA, Raw: op}
	case 0x03:
		return Instr{Op: OpIncPair, Pair: RegBC, Raw: op}
	case 0x04:
		return Instr{Op: OpIncReg, Dst: RegB, Raw: op}
	case 0x05:
		return Instr{Op: OpDecReg, Dst: RegB, Raw: op}
	case 0x06:
		return Instr{Op: OpLdImm8, Dst: RegB, Imm8: mem.Get(argstart), Raw: op}
	case 0x07:
		return Instr{Op: OpRlca, Raw: op}
	case 0x08:
		return Instr{Op: OpStSPAbs, Imm16: mem.Get16(argstart), Raw: op}
	case 0x09:
		return Instr{Op: OpAddPair, Pair: RegBC, Raw: op}
	case 0x0A:
		return Instr{Op: OpLdPair, Dst: RegA, Pair: RegBC, Raw: op}
	case 0x0B:
		return Instr{Op: OpDecPair, Pair: RegBC, Raw: op}
	case 0x0C:
		return Instr{Op: OpIncReg, Dst: RegC, Raw: op}
	case 0x0D:
		return Instr{Op: OpDecReg, Dst: RegC, Raw: op}
	case 0x0E:
		return Instr{Op: OpLdImm8, Dst: RegC, Imm8: mem.Get(argstart), Raw: op}
	case 0x0F:
		return Instr{Op: OpRrca, Raw: op}

	case 0x10: // STOP
		return Instr{Op: OpUnimplemented, Raw: op}
	case 0x11:
		return Instr{Op: OpLdImm16, Pair: RegDE, Imm16: mem.Get16(argstart), Raw: op}
	case 0x12:
		return Instr{Op: OpStPair, Pair: RegDE, Src: RegA, Raw: op}
	case 0x13:
		return Instr{Op: OpIncPair, Pair: RegDE, Raw: op}
	case 0x14:
		return Instr{Op: OpIncReg, Dst: RegD, Raw: op}
	case 0x15:
		return Instr{Op: OpDecReg, Dst: RegD, Raw: op}
	case 0x16:
		return Instr{Op: OpLdImm8, Dst: RegD, Imm8: mem.Get(argstart), Raw: op}
	case 0x17:
		return Instr{Op: OpRla, Raw: op}
	case 0x18:
		return Instr{Op: OpJr, Off: int8(mem.Get(argstart)), Raw: op}
	case 0x19:
		return Instr{Op: OpAddPair, Pair: RegDE, Raw: op}
	case 0x1A:
		return Instr{Op: OpLdPair, Dst: RegA, Pair: RegDE, Raw: op}
	case 0x1B:
		return Instr{Op: OpDecPair, Pair: RegDE, Raw: op}
	case 0x1C:
		return Instr{Op: OpIncReg, Dst: RegE, Raw: op}
	case 0x1D:
		return Instr{Op: OpDecReg, Dst: RegE, Raw: op}
	case 0x1E:
		return Instr{Op: OpLdImm8, Dst: RegE, Imm8: mem.Get(argstart), Raw: op}
	case 0x1F:
		return Instr{Op: OpRra, Raw: op}

	case 0x20:
		return Instr{Op: OpJrNZ, Off: int8(mem.Get(argstart)), Raw: op}
	case 0x21:
		return Instr{Op: OpLdImm16, Pair: RegHL, Imm16: mem.Get16(argstart), Raw: op}
	case 0x22:
		return Instr{Op: OpStInc, Raw: op}
	case 0x23:
		return Instr{Op: OpIncPair, Pair: RegHL, Raw: op}
	case 0x24:
		return Instr{Op: OpIncReg, Dst: RegH, Raw: op}
	case 0x25:
		return Instr{Op: OpDecReg, Dst: RegH, Raw: op}
	case 0x26:
		return Instr{Op: OpLdImm8, Dst: RegH, Imm8: mem.Get(argstart), Raw: op}
	case 0x27:
		return Instr{Op: OpDaa, Raw: op}
	case 0x28:
		return Instr{Op: OpJrZ, Off: int8(mem.Get(argstart)), Raw: op}
	case 0x29:
		return Instr{Op: OpAddPair, Pair: RegHL, Raw: op}
	case 0x2A:
		return Instr{Op: OpLdInc, Raw: op}
	case 0x2B:
		return Instr{Op: OpDecPair, Pair: RegHL, Raw: op}
	case 0x2C:
		return Instr{Op: OpIncReg, Dst: RegL, Raw: op}
	case 0x2D:
		return Instr{Op: OpDecReg, Dst: RegL, Raw: op}
	case 0x2E:
		return Instr{Op: OpLdImm8, Dst: RegL, Imm8: mem.Get(argstart), Raw: op}
	case 0x2F:
		return Instr{Op: OpCpl, Raw: op}

	case 0x30:
		return Instr{Op: OpJrNC, Off: int8(mem.Get(argstart)), Raw: op}
	case 0x31:
		return Instr{Op: OpLdImm16, Pair: RegSP, Imm16: mem.Get16(argstart), Raw: op}
	case 0x32:
		return Instr{Op: OpStDec, Raw: op}
	case 0x33:
		return Instr{Op: OpIncPair, Pair: RegSP, Raw: op}
	case 0x34:
		return Instr{Op: OpIncMem, Raw: op}
	case 0x35:
		return Instr{Op: OpDecMem, Raw: op}
	case 0x36:
		return Instr{Op: OpStImm, Imm8: mem.Get(argstart), Raw: op}
	case 0x37:
		return Instr{Op: OpScf, Raw: op}
	case 0x38:
		return Instr{Op: OpJrC, Off: int8(mem.Get(argstart)), Raw: op}
	case 0x39:
		return Instr{Op: OpAddPair, Pair: RegSP, Raw: op}
	case 0x3A:
		return Instr{Op: OpLdDec, Raw: op}
	case 0x3B:
		return Instr{Op: OpDecPair, Pair: RegSP, Raw: op}
	case 0x3C:
		return Instr{Op: OpIncReg, Dst: RegA, Raw: op}
	case 0x3D:
		return Instr{Op: OpDecReg, Dst: RegA, Raw: op}
	case 0x3E:
		return Instr{Op: OpLdImm8, Dst: RegA, Imm8: mem.Get(argstart), Raw: op}
	case 0x3F:
		return Instr{Op: OpCcf, Raw: op}

	case 0xC0:
		return Instr{Op: OpRetNZ, Raw: op}
	case 0xC1:
		return Instr{Op: OpPop, Pair: RegBC, Raw: op}
	case 0xC2:
		return Instr{Op: OpJpNZ, Imm16: mem.Get16(argstart), Raw: op}
	case 0xC3:
		return Instr{Op: OpJp, Imm16: mem.Get16(argstart), Raw: op}
	case 0xC4:
		return Instr{Op: OpCallNZ, Imm16: mem.Get16(argstart), Raw: op}
	case 0xC5:
		return Instr{Op: OpPush, Pair: RegBC, Raw: op}
	case 0xC6:
		return Instr{Op: OpAddImm, Imm8: mem.Get(argstart), Raw: op}
	case 0xC7:
		return Instr{Op: OpRst, Imm16: 0x00, Raw: op}
	case 0xC8:
		return Instr{Op: OpRetZ, Raw: op}
	case 0xC9:
		return Instr{Op: OpRet, Raw: op}
	case 0xCA:
		return Instr{Op: OpJpZ, Imm16: mem.Get16(argstart), Raw: op}
	case 0xCC:
		return Instr{Op: OpCallZ, Imm16: mem.Get16(argstart), Raw: op}
	case 0xCD:
		return Instr{Op: OpCall, Imm16: mem.Get16(argstart), Raw: op}
	case 0xCE:
		return Instr{Op: OpAdcImm, Imm8: mem.Get(argstart), Raw: op}
	case 0xCF:
		return Instr{Op: OpRst, Imm16: 0x08, Raw: op}

	case 0xD0:
		return Instr{Op: OpRetNC, Raw: op}
	case 0xD1:
		return Instr{Op: OpPop, Pair: RegDE, Raw: op}
	case 0xD2:
		return Instr{Op: OpJpNC, Imm16: mem.Get16(argstart), Raw: op}
	case 0xD4:
		return Instr{Op: OpCallNC, Imm16: mem.Get16(argstart), Raw: op}
	case 0xD5:
		return Instr{Op: OpPush, Pair: RegDE, Raw: op}
	case 0xD6:
		return Instr{Op: OpSubImm, Imm8: mem.Get(argstart), Raw: op}
	case 0xD7:
		return Instr{Op: OpRst, Imm16: 0x10, Raw: op}
	case 0xD8:
		return Instr{Op: OpRetC, Raw: op}
	case 0xD9:
		return Instr{Op: OpReti, Raw: op}
	case 0xDA:
		return Instr{Op: OpJpC, Imm16: mem.Get16(argstart), Raw: op}
	case 0xDC:
		return Instr{Op: OpCallC, Imm16: mem.Get16(argstart), Raw: op}
	case 0xDE:
		return Instr{Op: OpSbcImm, Imm8: mem.Get(argstart), Raw: op}
	case 0xDF:
		return Instr{Op: OpRst, Imm16: 0x18, Raw: op}

	case 0xE0:
		return Instr{Op: OpStHiImm, Imm8: mem.Get(argstart), Raw: op}
	case 0xE1:
		return Instr{Op: OpPop, Pair: RegHL, Raw: op}
	case 0xE2:
		return Instr{Op: OpStHiC, Raw: op}
	case 0xE5:
		return Instr{Op: OpPush, Pair: RegHL, Raw: op}
	case 0xE6:
		return Instr{Op: OpAndImm, Imm8: mem.Get(argstart), Raw: op}
	case 0xE7:
		return Instr{Op: OpRst, Imm16: 0x20, Raw: op}
	case 0xE8:
		return Instr{Op: OpAddSP, Off: int8(mem.Get(argstart)), Raw: op}
	case 0xE9:
		return Instr{Op: OpJpHL, Raw: op}
	case 0xEA:
		return Instr{Op: OpStAbs, Imm16: mem.Get16(argstart), Raw: op}
	case 0xEE:
		return Instr{Op: OpXorImm, Imm8: mem.Get(argstart), Raw: op}
	case 0xEF:
		return Instr{Op: OpRst, Imm16: 0x28, Raw: op}

	case 0xF0:
		return Instr{Op: OpLdHiImm, Imm8: mem.Get(argstart), Raw: op}
	case 0xF1:
		return Instr{Op: OpPop, Pair: RegAF, Raw: op}
	case 0xF2:
		return Instr{Op: OpLdHiC, Raw: op}
	case 0xF3:
		return Instr{Op: OpDi, Raw: op}
	case 0xF5:
		return Instr{Op: OpPush, Pair: RegAF, Raw: op}
	case 0xF6:
		return Instr{Op: OpOrImm, Imm8: mem.Get(argstart), Raw: op}
	case 0xF7:
		return Instr{Op: OpRst, Imm16: 0x30, Raw: op}
	case 0xF8:
		return Instr{Op: OpLdHLSPOff, Off: int8(mem.Get(argstart)), Raw: op}
	case 0xF9:
		return Instr{Op: OpLdSPHL, Raw: op}
	case 0xFA:
		return Instr{Op: OpLdAbs, Imm16: mem.Get16(argstart), Raw: op}
	case 0xFB:
		return Instr{Op: OpEi, Raw: op}
	case 0xFE:
		return Instr{Op: OpCpImm, Imm8: mem.Get(argstart), Raw: op}
	case 0xFF:
		return Instr{Op: OpRst, Imm16: 0x38, Raw: op}

	default:
		// 0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD
		return Instr{Op: OpIllegal, Raw: op}
	}
}

// decodeExtended covers the 0xCB page: rotates/shifts/swap, then BIT/RES/SET.
func decodeExtended(op byte) Instr {
	idx := op & 7
	y := (op >> 3) & 7

	switch op >> 6 {
	case 0:
		regOps := [8]Op{OpRlcReg, OpRrcReg, OpRlReg, OpRrReg, OpSlaReg, OpSraReg, OpSwapReg, OpSrlReg}
		memOps := [8]Op{OpRlcMem, OpRrcMem, OpRlMem, OpRrMem, OpSlaMem, OpSraMem, OpSwapMem, OpSrlMem}
		if idx == 6 {
			return Instr{Op: memOps[y], Raw: op}
		}
		return Instr{Op: regOps[y], Dst: regOrder[idx], Raw: op}
	case 1:
		if idx == 6 {
			return Instr{Op: OpBitMem, Bit: y, Raw: op}
		}
		return Instr{Op: OpBitReg, Dst: regOrder[idx], Bit: y, Raw: op}
	case 2:
		if idx == 6 {
			return Instr{Op: OpResMem, Bit: y, Raw: op}
		}
		return Instr{Op: OpResReg, Dst: regOrder[idx], Bit: y, Raw: op}
	default:
		if idx == 6 {
			return Instr{Op: OpSetMem, Bit: y, Raw: op}
		}
		return Instr{Op: OpSetReg, Dst: regOrder[idx], Bit: y, Raw: op}
	}
}
