package vm

import "testing"

func TestJal_LinksAndJumps(t *testing.T) {
	hart, bus := newTestMachine()
	inst := encodeJ(16, 1, 0x6f) // jal x1, +16
	if err := (jal{}).Execute(inst, hart, bus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := hart.PC(); got != 0x1010 {
		t.Errorf("expected pc=0x1010, got 0x%x", got)
	}
	if got := hart.Xreg(1); got != 0x1004 {
		t.Errorf("expected x1=0x1004 (link), got 0x%x", got)
	}
}

func TestJal_MisalignedTargetMutatesNeitherPcNorLink(t *testing.T) {
	hart, bus := newTestMachine()
	hart.SetXreg(1, 0xdead)
	inst := encodeJ(2, 1, 0x6f) // jal x1, +2, misaligned
	err := (jal{}).Execute(inst, hart, bus)
	trap, ok := err.(Trap)
	if !ok {
		t.Fatalf("expected Trap, got %T (%v)", err, err)
	}
	if trap.Kind != MisalignedFetch {
		t.Errorf("expected MisalignedFetch, got %v", trap.Kind)
	}
	if hart.PC() != 0x1000 {
		t.Errorf("expected pc untouched, got 0x%x", hart.PC())
	}
	if hart.Xreg(1) != 0xdead {
		t.Errorf("expected x1 untouched, got 0x%x", hart.Xreg(1))
	}
}

func TestJalr_MasksLowBit(t *testing.T) {
	hart, bus := newTestMachine()
	hart.SetXreg(1, 0x2001) // odd address
	inst := encodeI(0, 1, 0, 2, 0x67) // jalr x2, 0(x1)
	if err := (jalr{}).Execute(inst, hart, bus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := hart.PC(); got != 0x2000 {
		t.Errorf("expected pc=0x2000 (low bit cleared), got 0x%x", got)
	}
	if got := hart.Xreg(2); got != 0x1004 {
		t.Errorf("expected x2=0x1004 (link), got 0x%x", got)
	}
}
