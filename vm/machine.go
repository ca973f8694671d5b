package vm

import (
	"fmt"
	"io"
)

// Machine composes a Hart and a Bus and drives the fetch-decode-execute
// loop. Callers outside this package construct a Bus (NewBus) and a
// Machine (NewMachine); NewMachine builds the Hart and instruction table.
type Machine struct {
	Hart  *Hart
	Bus   *Bus
	Entry uint64
	table *InstrTable

	// MaxCycles bounds Run's loop; zero means unbounded.
	MaxCycles uint64
	Cycles    uint64
}

// NewMachine returns a Machine whose hart starts executing at entry.
func NewMachine(bus *Bus, entry uint64) *Machine {
	return &Machine{
		Hart:  NewHart(entry),
		Bus:   bus,
		Entry: entry,
		table: NewInstrTable(),
	}
}

// Reset returns the hart to its entry point with every register zeroed.
// It does not restore bus contents -- re-running a modified image requires
// reloading it onto the bus first.
func (m *Machine) Reset() {
	m.Hart = NewHart(m.Entry)
	m.Cycles = 0
}

// Step fetches, decodes and executes a single instruction. pc's alignment
// is checked here, before the fetch is attempted, so a misaligned pc never
// reaches the Bus.
func (m *Machine) Step() error {
	pc := m.Hart.PC()
	if pc%ILEN != 0 {
		return misalignedFetch(pc)
	}
	inst, err := m.Bus.Fetch(pc)
	if err != nil {
		return err
	}
	if err := m.table.Dispatch(inst, m.Hart, m.Bus); err != nil {
		return err
	}
	m.Cycles++
	return nil
}

// Run steps the machine until a trap occurs or MaxCycles is reached. Every
// trap, including the reserved-but-never-generated kinds, terminates the
// run loop — there is no instruction-level recovery in user-space
// simulation.
func (m *Machine) Run() error {
	for m.MaxCycles == 0 || m.Cycles < m.MaxCycles {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// WriteState writes a human-readable trap report and full hart-state dump
// to w, the diagnostic surface spec.md's error-handling section describes.
func (m *Machine) WriteState(w io.Writer, cause error) {
	if cause != nil {
		fmt.Fprintf(w, "trap: %s\n", cause)
	}
	fmt.Fprint(w, m.Hart.String())
}
