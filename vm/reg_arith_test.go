package vm

import "testing"

func newTestMachine() (*Hart, *Bus) {
	bus := NewBus(0x1000, 0x1000)
	hart := NewHart(0x1000)
	return hart, bus
}

func TestAdd_WrapsOnOverflow(t *testing.T) {
	hart, bus := newTestMachine()
	hart.SetXreg(1, ^uint64(0)) // x1 = -1
	hart.SetXreg(2, 1)
	inst := encodeR(0, 2, 1, 0, 3, 0x33) // add x3, x1, x2
	if err := (add{}).Execute(inst, hart, bus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := hart.Xreg(3); got != 0 {
		t.Errorf("expected x3=0, got 0x%x", got)
	}
	if hart.PC() != 0x1004 {
		t.Errorf("expected pc=0x1004, got 0x%x", hart.PC())
	}
}

func TestAdd_WriteToX0IsDiscarded(t *testing.T) {
	hart, bus := newTestMachine()
	hart.SetXreg(1, 5)
	hart.SetXreg(2, 7)
	inst := encodeR(0, 2, 1, 0, 0, 0x33) // add x0, x1, x2
	if err := (add{}).Execute(inst, hart, bus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hart.Xreg(0) != 0 {
		t.Errorf("expected x0=0, got 0x%x", hart.Xreg(0))
	}
}

func TestSub(t *testing.T) {
	hart, bus := newTestMachine()
	hart.SetXreg(1, 10)
	hart.SetXreg(2, 3)
	inst := encodeR(0x20, 2, 1, 0, 3, 0x33) // sub x3, x1, x2
	if err := (sub{}).Execute(inst, hart, bus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := hart.Xreg(3); got != 7 {
		t.Errorf("expected x3=7, got %d", got)
	}
}

func TestSlt_Signed(t *testing.T) {
	hart, bus := newTestMachine()
	hart.SetXreg(1, ^uint64(0)) // -1
	hart.SetXreg(2, 1)
	inst := encodeR(0, 2, 1, 2, 3, 0x33) // slt x3, x1, x2
	if err := (slt{}).Execute(inst, hart, bus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hart.Xreg(3) != 1 {
		t.Errorf("expected x3=1 (-1 < 1 signed), got %d", hart.Xreg(3))
	}
}

func TestSltu_Unsigned(t *testing.T) {
	hart, bus := newTestMachine()
	hart.SetXreg(1, ^uint64(0)) // max uint64
	hart.SetXreg(2, 1)
	inst := encodeR(0, 2, 1, 3, 3, 0x33) // sltu x3, x1, x2
	if err := (sltu{}).Execute(inst, hart, bus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hart.Xreg(3) != 0 {
		t.Errorf("expected x3=0 (maxuint not < 1 unsigned), got %d", hart.Xreg(3))
	}
}

func TestInstrTable_DispatchesAdd(t *testing.T) {
	hart, bus := newTestMachine()
	hart.SetXreg(1, 1)
	hart.SetXreg(2, 2)
	table := NewInstrTable()
	inst := encodeR(0, 2, 1, 0, 3, 0x33)
	if err := table.Dispatch(inst, hart, bus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hart.Xreg(3) != 3 {
		t.Errorf("expected x3=3, got %d", hart.Xreg(3))
	}
}

func TestInstrTable_IllegalInstruction(t *testing.T) {
	hart, bus := newTestMachine()
	table := NewInstrTable()
	err := table.Dispatch(0xffffffff, hart, bus)
	trap, ok := err.(Trap)
	if !ok {
		t.Fatalf("expected Trap, got %T (%v)", err, err)
	}
	if trap.Kind != IllegalInstruction {
		t.Errorf("expected IllegalInstruction, got %v", trap.Kind)
	}
}
