package vm

// Hand-encoding helpers, mirroring the way the reference implementation's
// own test modules build instruction words (encode_add, encode_lui, ...)
// rather than routing through an assembler.

func encodeR(funct7, rs2v, rs1v, funct3, rdv, opcode uint32) uint32 {
	return funct7<<25 | rs2v<<20 | rs1v<<15 | funct3<<12 | rdv<<7 | opcode
}

func encodeI(imm uint32, rs1v, funct3, rdv, opcode uint32) uint32 {
	return (imm&0xfff)<<20 | rs1v<<15 | funct3<<12 | rdv<<7 | opcode
}

// encodeIShift builds a 64-bit shift-immediate word: a 6-bit funct6 at
// bits 31:26 and a 6-bit shamt at bits 25:20 (RV64I widens shamt from 5 to
// 6 bits, absorbing what would otherwise be the low bit of a 7-bit funct7).
func encodeIShift(funct6, shamt, rs1v, funct3, rdv, opcode uint32) uint32 {
	return (funct6&0x3f)<<26 | (shamt&0x3f)<<20 | rs1v<<15 | funct3<<12 | rdv<<7 | opcode
}

func encodeS(imm uint32, rs2v, rs1v, funct3, opcode uint32) uint32 {
	lo := imm & 0x1f
	hi := (imm >> 5) & 0x7f
	return hi<<25 | rs2v<<20 | rs1v<<15 | funct3<<12 | lo<<7 | opcode
}

func encodeB(imm uint32, rs2v, rs1v, funct3, opcode uint32) uint32 {
	b12 := (imm >> 12) & 0x1
	b11 := (imm >> 11) & 0x1
	b10_5 := (imm >> 5) & 0x3f
	b4_1 := (imm >> 1) & 0xf
	return b12<<31 | b10_5<<25 | rs2v<<20 | rs1v<<15 | funct3<<12 | b4_1<<8 | b11<<7 | opcode
}

func encodeU(imm uint32, rdv, opcode uint32) uint32 {
	return (imm & 0xfffff000) | rdv<<7 | opcode
}

func encodeJ(imm uint32, rdv, opcode uint32) uint32 {
	b20 := (imm >> 20) & 0x1
	b19_12 := (imm >> 12) & 0xff
	b11 := (imm >> 11) & 0x1
	b10_1 := (imm >> 1) & 0x3ff
	return b20<<31 | b10_1<<21 | b11<<20 | b19_12<<12 | rdv<<7 | opcode
}
