package vm

import "testing"

func TestLw_SignExtendsNegativeWord(t *testing.T) {
	hart, bus := newTestMachine()
	hart.SetXreg(1, bus.Origin)
	if err := bus.Write32(bus.Origin, 0xffffffff); err != nil {
		t.Fatalf("setup write failed: %v", err)
	}
	inst := encodeI(0, 1, 2, 2, 0x03) // lw x2, 0(x1)
	if err := (lw{}).Execute(inst, hart, bus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := int64(hart.Xreg(2)); got != -1 {
		t.Errorf("expected x2=-1, got %d", got)
	}
}

func TestLwu_ZeroExtends(t *testing.T) {
	hart, bus := newTestMachine()
	hart.SetXreg(1, bus.Origin)
	if err := bus.Write32(bus.Origin, 0xffffffff); err != nil {
		t.Fatalf("setup write failed: %v", err)
	}
	inst := encodeI(0, 1, 6, 2, 0x03) // lwu x2, 0(x1)
	if err := (lwu{}).Execute(inst, hart, bus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := hart.Xreg(2); got != 0xffffffff {
		t.Errorf("expected x2=0xffffffff, got 0x%x", got)
	}
}

func TestLb_SignExtendsNegativeByte(t *testing.T) {
	hart, bus := newTestMachine()
	hart.SetXreg(1, bus.Origin)
	if err := bus.Write8(bus.Origin, 0x80); err != nil {
		t.Fatalf("setup write failed: %v", err)
	}
	inst := encodeI(0, 1, 0, 2, 0x03) // lb x2, 0(x1)
	if err := (lb{}).Execute(inst, hart, bus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := int64(hart.Xreg(2)); got != -128 {
		t.Errorf("expected x2=-128, got %d", got)
	}
}

func TestLoad_OutOfRegionFaults(t *testing.T) {
	hart, bus := newTestMachine()
	hart.SetXreg(1, bus.Origin+bus.Size) // one past the end
	inst := encodeI(0, 1, 2, 2, 0x03)    // lw x2, 0(x1)
	err := (lw{}).Execute(inst, hart, bus)
	trap, ok := err.(Trap)
	if !ok {
		t.Fatalf("expected Trap, got %T (%v)", err, err)
	}
	if trap.Kind != LoadAccessFault {
		t.Errorf("expected LoadAccessFault, got %v", trap.Kind)
	}
}

func TestLoad_MisalignedFaultsBeforeRegionCheck(t *testing.T) {
	hart, bus := newTestMachine()
	hart.SetXreg(1, bus.Origin+1) // misaligned, but well within region
	inst := encodeI(0, 1, 2, 2, 0x03)
	err := (lw{}).Execute(inst, hart, bus)
	trap, ok := err.(Trap)
	if !ok {
		t.Fatalf("expected Trap, got %T (%v)", err, err)
	}
	if trap.Kind != MisalignedLoad {
		t.Errorf("expected MisalignedLoad, got %v", trap.Kind)
	}
}
