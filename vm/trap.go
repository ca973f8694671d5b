package vm

import "fmt"

// TrapKind identifies the category of a Trap.
type TrapKind int

const (
	// Core traps, raised by the dispatcher or an instruction executor.
	IllegalInstruction TrapKind = iota
	Breakpoint
	UserEcall
	SupervisorEcall
	VirtualSupervisorEcall
	MachineEcall

	// Reserved for privileged/virtualization modes this core never enters.
	// No executor in this RV64I-only implementation produces any of these;
	// they exist so the taxonomy matches the full architectural trap set.
	FetchPageFault
	LoadPageFault
	StorePageFault
	DoubleTrap
	SoftwareCheckFault
	HardwareErrorFault
	FetchGuestPageFault
	LoadGuestPageFault
	VirtualInstruction
	StoreGuestPageFault

	// Memory-level traps. The access faults and misaligned loads/stores are
	// raised by the Bus; MisalignedFetch is raised by Machine.Step and by the
	// branch and jump executors.
	MisalignedFetch
	FetchAccessFault
	LoadAccessFault
	StoreAccessFault
	MisalignedLoad
	MisalignedStore
)

var trapNames = map[TrapKind]string{
	IllegalInstruction:     "illegal instruction",
	Breakpoint:             "breakpoint",
	UserEcall:              "environment call from U-mode",
	SupervisorEcall:        "environment call from S-mode",
	VirtualSupervisorEcall: "environment call from VS-mode",
	MachineEcall:           "environment call from M-mode",
	FetchPageFault:         "fetch page fault",
	LoadPageFault:          "load page fault",
	StorePageFault:         "store page fault",
	DoubleTrap:             "double trap",
	SoftwareCheckFault:     "software check fault",
	HardwareErrorFault:     "hardware error fault",
	FetchGuestPageFault:    "fetch guest page fault",
	LoadGuestPageFault:     "load guest page fault",
	VirtualInstruction:     "virtual instruction",
	StoreGuestPageFault:    "store guest page fault",
	MisalignedFetch:        "misaligned fetch",
	FetchAccessFault:       "fetch access fault",
	LoadAccessFault:        "load access fault",
	StoreAccessFault:       "store access fault",
	MisalignedLoad:         "misaligned load",
	MisalignedStore:        "misaligned store",
}

// Trap is a value-type error: every fault path in this interpreter returns
// one instead of panicking. Addr and Inst are populated depending on Kind;
// a zero value in either just means the kind doesn't carry that detail.
type Trap struct {
	Kind TrapKind
	Addr uint64
	Inst uint32
}

func (t Trap) Error() string {
	switch t.Kind {
	case IllegalInstruction:
		return fmt.Sprintf("illegal instruction: 0x%08x", t.Inst)
	case MisalignedFetch, FetchAccessFault, LoadAccessFault, StoreAccessFault,
		MisalignedLoad, MisalignedStore:
		return fmt.Sprintf("%s at 0x%016x", trapNames[t.Kind], t.Addr)
	default:
		return trapNames[t.Kind]
	}
}

func illegalInstruction(inst uint32) Trap {
	return Trap{Kind: IllegalInstruction, Inst: inst}
}

func misalignedFetch(addr uint64) Trap {
	return Trap{Kind: MisalignedFetch, Addr: addr}
}
