package vm

// ecall and ebreak are encoded as SYSTEM-opcode instructions (0x73) with no
// register fields; distinguished by the 12-bit funct12 segment. This core
// treats both as no-ops that only advance pc — it models neither an
// environment-call ABI nor a debugger trap-and-stop, per the conformance
// floor this simulator targets. The Trap taxonomy still carries
// UserEcall/Breakpoint kinds for a caller that wants to upgrade this later.
type ecall struct{}

func (ecall) Matches(inst uint32) bool { return inst == 0x73 }
func (ecall) Execute(inst uint32, hart *Hart, bus *Bus) error {
	hart.SetPC(hart.NextPC())
	return nil
}

type ebreak struct{}

func (ebreak) Matches(inst uint32) bool { return inst == 0x00100073 }
func (ebreak) Execute(inst uint32, hart *Hart, bus *Bus) error {
	hart.SetPC(hart.NextPC())
	return nil
}

// fence is a no-op in this single-hart, non-pipelined simulator: there is
// no reordering for it to constrain. Covers both FENCE and FENCE.I
// encodings (funct3 0 and 1).
type fence struct{}

func (fence) Matches(inst uint32) bool { return inst&0x7f == 0xf }
func (fence) Execute(inst uint32, hart *Hart, bus *Bus) error {
	hart.SetPC(hart.NextPC())
	return nil
}
