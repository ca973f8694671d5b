// Package loader populates a vm.Bus with a statically linked ELF64
// binary's loadable segments. It sits outside the core simulator (the
// Hart/Bus/Machine never parse a binary format themselves) and exists
// purely to give main.go a kernel image to run.
package loader

import (
	"debug/elf"
	"fmt"

	"github.com/lookbusy1344/rv64-emulator/vm"
)

// LoadELF opens path, verifies it is a 64-bit RISC-V ELF binary (it does
// not check that the binary is statically linked), copies every PT_LOAD
// program header's file bytes onto bus at
// its physical address, zero-fills the memsz-filesz tail, and returns the
// entry point.
func LoadELF(path string, bus *vm.Bus) (uint64, error) {
	f, err := elf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening ELF: %w", err)
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS64 {
		return 0, fmt.Errorf("not a 64-bit ELF binary")
	}
	if f.Machine != elf.EM_RISCV {
		return 0, fmt.Errorf("not a RISC-V ELF binary (machine=%s)", f.Machine)
	}

	loaded := false
	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		data := make([]byte, prog.Filesz)
		if _, err := prog.ReadAt(data, 0); err != nil {
			return 0, fmt.Errorf("reading PT_LOAD segment at 0x%x: %w", prog.Paddr, err)
		}
		if err := checkSegmentBounds(bus, prog.Paddr, prog.Memsz); err != nil {
			return 0, err
		}
		bus.LoadSegment(prog.Paddr, data, prog.Memsz)
		loaded = true
	}
	if !loaded {
		return 0, fmt.Errorf("no PT_LOAD segments in %s", path)
	}

	return f.Entry, nil
}

func checkSegmentBounds(bus *vm.Bus, paddr, size uint64) error {
	if paddr < bus.Origin || paddr+size > bus.Origin+bus.Size {
		return fmt.Errorf("segment [0x%x, 0x%x) falls outside bus region [0x%x, 0x%x)",
			paddr, paddr+size, bus.Origin, bus.Origin+bus.Size)
	}
	return nil
}
