package vm

import (
	"fmt"
	"strings"
)

// ILEN is the width of an uncompressed RV64I instruction in bytes.
const ILEN = 4

// iabi holds the ABI names of x0-x31, in register order.
var iabi = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// ABINames returns the ABI register names of x0-x31, in register order.
func ABINames() [32]string { return iabi }

// Hart is a single RISC-V hardware thread: a program counter and the 32
// general-purpose integer registers. x0 is wired to zero.
type Hart struct {
	pc    uint64
	xregs [32]uint64
}

// NewHart returns a Hart with pc set to entry and every register zeroed.
func NewHart(entry uint64) *Hart {
	return &Hart{pc: entry}
}

// PC returns the current program counter.
func (h *Hart) PC() uint64 { return h.pc }

// SetPC sets the program counter.
func (h *Hart) SetPC(pc uint64) { h.pc = pc }

// NextPC returns pc advanced by one instruction, without mutating the Hart.
func (h *Hart) NextPC() uint64 { return h.pc + ILEN }

// Xreg reads register i. Reading x0 always yields zero.
func (h *Hart) Xreg(i uint32) uint64 {
	return h.xregs[i&0x1f]
}

// SetXreg writes register i. Writes to x0 are discarded.
func (h *Hart) SetXreg(i uint32, val uint64) {
	i &= 0x1f
	if i == 0 {
		return
	}
	h.xregs[i] = val
}

// String renders the pc and all 32 registers, eight rows of four, the way
// the reference implementation's trap dump does.
func (h *Hart) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "pc 0x%016x\n", h.pc)
	for row := 0; row < 8; row++ {
		for col := 0; col < 4; col++ {
			idx := row*4 + col
			fmt.Fprintf(&b, "x%-2d [%-4s] 0x%016x  ", idx, iabi[idx], h.xregs[idx])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
