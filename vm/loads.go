package vm

// Loads: I-type, opcode 0000011 (0x03), distinguished by funct3.

func loadAddr(inst uint32, hart *Hart) uint64 {
	return hart.Xreg(rs1(inst)) + uint64(immI(inst))
}

type lb struct{}

func (lb) Matches(inst uint32) bool { return inst&0x707f == 0x3 }
func (lb) Execute(inst uint32, hart *Hart, bus *Bus) error {
	v, err := bus.Read8(loadAddr(inst, hart))
	if err != nil {
		return err
	}
	hart.SetXreg(rd(inst), uint64(int64(int8(v))))
	hart.SetPC(hart.NextPC())
	return nil
}

type lh struct{}

func (lh) Matches(inst uint32) bool { return inst&0x707f == 0x1003 }
func (lh) Execute(inst uint32, hart *Hart, bus *Bus) error {
	v, err := bus.Read16(loadAddr(inst, hart))
	if err != nil {
		return err
	}
	hart.SetXreg(rd(inst), uint64(int64(int16(v))))
	hart.SetPC(hart.NextPC())
	return nil
}

type lw struct{}

func (lw) Matches(inst uint32) bool { return inst&0x707f == 0x2003 }
func (lw) Execute(inst uint32, hart *Hart, bus *Bus) error {
	v, err := bus.Read32(loadAddr(inst, hart))
	if err != nil {
		return err
	}
	hart.SetXreg(rd(inst), uint64(int64(int32(v))))
	hart.SetPC(hart.NextPC())
	return nil
}

type ld struct{}

func (ld) Matches(inst uint32) bool { return inst&0x707f == 0x3003 }
func (ld) Execute(inst uint32, hart *Hart, bus *Bus) error {
	v, err := bus.Read64(loadAddr(inst, hart))
	if err != nil {
		return err
	}
	hart.SetXreg(rd(inst), v)
	hart.SetPC(hart.NextPC())
	return nil
}

type lbu struct{}

func (lbu) Matches(inst uint32) bool { return inst&0x707f == 0x4003 }
func (lbu) Execute(inst uint32, hart *Hart, bus *Bus) error {
	v, err := bus.Read8(loadAddr(inst, hart))
	if err != nil {
		return err
	}
	hart.SetXreg(rd(inst), uint64(v))
	hart.SetPC(hart.NextPC())
	return nil
}

type lhu struct{}

func (lhu) Matches(inst uint32) bool { return inst&0x707f == 0x5003 }
func (lhu) Execute(inst uint32, hart *Hart, bus *Bus) error {
	v, err := bus.Read16(loadAddr(inst, hart))
	if err != nil {
		return err
	}
	hart.SetXreg(rd(inst), uint64(v))
	hart.SetPC(hart.NextPC())
	return nil
}

type lwu struct{}

func (lwu) Matches(inst uint32) bool { return inst&0x707f == 0x6003 }
func (lwu) Execute(inst uint32, hart *Hart, bus *Bus) error {
	v, err := bus.Read32(loadAddr(inst, hart))
	if err != nil {
		return err
	}
	hart.SetXreg(rd(inst), uint64(v))
	hart.SetPC(hart.NextPC())
	return nil
}
