package debugger

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/lookbusy1344/rv64-emulator/vm"
)

// cmdRun resets the machine and starts execution from its entry point.
func (d *Debugger) cmdRun(args []string) error {
	d.Machine.Reset()
	d.Running = true
	d.StepMode = StepNone
	d.Println("Starting program execution...")
	return nil
}

// cmdContinue resumes free execution from the current pc.
func (d *Debugger) cmdContinue(args []string) error {
	d.Running = true
	d.StepMode = StepNone
	d.Println("Continuing...")
	return nil
}

// cmdStep executes a single instruction, descending into calls.
func (d *Debugger) cmdStep(args []string) error {
	d.StepMode = StepSingle
	d.Running = true
	return nil
}

// cmdNext steps over a call instruction rather than descending into it.
func (d *Debugger) cmdNext(args []string) error {
	d.SetStepOver()
	return nil
}

// cmdBreak sets a breakpoint at a numeric address.
func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <address>")
	}
	address, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	bp := d.Breakpoints.AddBreakpoint(address, false)
	d.Printf("Breakpoint %d at 0x%016X\n", bp.ID, address)
	return nil
}

// cmdTBreak sets a one-shot breakpoint that deletes itself after it fires.
func (d *Debugger) cmdTBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tbreak <address>")
	}
	address, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	bp := d.Breakpoints.AddBreakpoint(address, true)
	d.Printf("Temporary breakpoint %d at 0x%016X\n", bp.ID, address)
	return nil
}

// cmdDelete removes a breakpoint by ID, or all breakpoints if no ID given.
func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		d.Breakpoints.Clear()
		d.Println("All breakpoints deleted.")
		return nil
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}
	d.Printf("Breakpoint %d deleted.\n", id)
	return nil
}

func (d *Debugger) cmdEnable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: enable <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	return d.Breakpoints.EnableBreakpoint(id)
}

func (d *Debugger) cmdDisable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: disable <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	return d.Breakpoints.DisableBreakpoint(id)
}

// cmdPrint prints a register's value. Accepts either "x<n>" or an ABI name.
func (d *Debugger) cmdPrint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: print <register>")
	}
	idx, ok := resolveRegisterName(args[0])
	if !ok {
		return fmt.Errorf("unknown register: %s", args[0])
	}
	d.Printf("%s = 0x%016x\n", args[0], d.Machine.Hart.Xreg(idx))
	return nil
}

// cmdInfo reports debugger and machine state: "info registers",
// "info breakpoints" or "info history".
func (d *Debugger) cmdInfo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: info <registers|breakpoints|history>")
	}
	switch args[0] {
	case "registers", "reg", "r":
		d.Println(d.Machine.Hart.String())
	case "breakpoints", "break", "b":
		bps := d.Breakpoints.GetAllBreakpoints()
		sort.Slice(bps, func(i, j int) bool { return bps[i].ID < bps[j].ID })
		if len(bps) == 0 {
			d.Println("No breakpoints set.")
			return nil
		}
		for _, bp := range bps {
			d.Printf("%d: 0x%016X enabled=%v hits=%d\n", bp.ID, bp.Address, bp.Enabled, bp.HitCount)
		}
	case "history":
		if len(d.History) == 0 {
			d.Println("No command history.")
			return nil
		}
		for i, cmd := range d.History {
			d.Printf("%d: %s\n", i+1, cmd)
		}
	default:
		return fmt.Errorf("unknown info subject: %s", args[0])
	}
	return nil
}

// cmdReset returns the hart to its entry point without touching bus
// contents or breakpoints.
func (d *Debugger) cmdReset(args []string) error {
	d.Machine.Reset()
	d.Running = false
	d.StepMode = StepNone
	d.Println("Machine reset.")
	return nil
}

func (d *Debugger) cmdHelp(args []string) error {
	d.Println(`Commands:
  run, r            reset and start execution
  continue, c       resume free execution
  step, s           execute one instruction
  next, n           step over a call instruction
  break, b <addr>   set a breakpoint
  tbreak, tb <addr> set a one-shot breakpoint
  delete, d [id]    delete a breakpoint (or all)
  enable <id>       enable a breakpoint
  disable <id>      disable a breakpoint
  print, p <reg>    print a register
  info registers    dump the hart's register file
  info breakpoints  list breakpoints
  info history      list recently executed commands
  reset             return the hart to its entry point
  help, h, ?        this message`)
	return nil
}

// resolveRegisterName accepts "x0".."x31" or an ABI name like "a0"/"sp".
func resolveRegisterName(name string) (uint32, bool) {
	if len(name) > 1 && name[0] == 'x' {
		if n, err := strconv.Atoi(name[1:]); err == nil && n >= 0 && n < 32 {
			return uint32(n), true
		}
	}
	for i, abi := range vm.ABINames() {
		if abi == name {
			return uint32(i), true
		}
	}
	return 0, false
}
