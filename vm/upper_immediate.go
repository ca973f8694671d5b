package vm

// lui: rd = imm (sign-extended U-immediate).
type lui struct{}

func (lui) Matches(inst uint32) bool { return inst&0x7f == 0x37 }

func (lui) Execute(inst uint32, hart *Hart, bus *Bus) error {
	hart.SetXreg(rd(inst), uint64(immU(inst)))
	hart.SetPC(hart.NextPC())
	return nil
}

// auipc: rd = pc + imm (sign-extended U-immediate).
type auipc struct{}

func (auipc) Matches(inst uint32) bool { return inst&0x7f == 0x17 }

func (auipc) Execute(inst uint32, hart *Hart, bus *Bus) error {
	hart.SetXreg(rd(inst), hart.PC()+uint64(immU(inst)))
	hart.SetPC(hart.NextPC())
	return nil
}
