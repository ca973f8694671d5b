package vm

import "testing"

func TestAddi_SignExtendsNegativeImm(t *testing.T) {
	hart, bus := newTestMachine()
	hart.SetXreg(1, 10)
	inst := encodeI(uint32(int32(-1)), 1, 0, 2, 0x13) // addi x2, x1, -1
	if err := (addi{}).Execute(inst, hart, bus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := hart.Xreg(2); got != 9 {
		t.Errorf("expected x2=9, got %d", got)
	}
}

func TestSltiu_ComparesSignExtendedImmAsUnsigned(t *testing.T) {
	hart, bus := newTestMachine()
	hart.SetXreg(1, 5)
	// imm = -1 sign-extends to 0xffff...ffff, the largest uint64 value.
	inst := encodeI(uint32(int32(-1)), 1, 3, 2, 0x13) // sltiu x2, x1, -1
	if err := (sltiu{}).Execute(inst, hart, bus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hart.Xreg(2) != 1 {
		t.Errorf("expected x2=1 (5 < maxuint64), got %d", hart.Xreg(2))
	}
}

func TestSrai_ArithmeticShiftPreservesSign(t *testing.T) {
	hart, bus := newTestMachine()
	hart.SetXreg(1, uint64(int64(-8)))
	inst := encodeIShift(0x10, 1, 1, 5, 2, 0x13) // srai x2, x1, 1
	if err := (srai{}).Execute(inst, hart, bus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := int64(hart.Xreg(2)); got != -4 {
		t.Errorf("expected x2=-4, got %d", got)
	}
}

func TestSlli_UsesSixBitShamt(t *testing.T) {
	hart, bus := newTestMachine()
	hart.SetXreg(1, 1)
	inst := encodeIShift(0, 40, 1, 1, 2, 0x13) // slli x2, x1, 40
	if err := (slli{}).Execute(inst, hart, bus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := hart.Xreg(2); got != 1<<40 {
		t.Errorf("expected x2=1<<40, got 0x%x", got)
	}
}
