package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/rv64-emulator/config"
	"github.com/lookbusy1344/rv64-emulator/vm"
)

// Debugger drives a vm.Machine one step at a time under operator control.
// It is a thin loop around the core -- every instruction it runs goes
// through the same Machine.Step the free-running CLI path uses.
type Debugger struct {
	Machine *vm.Machine

	Breakpoints *BreakpointManager

	Running    bool
	StepMode   StepMode
	StepOverPC uint64 // pc to stop at when stepping over a call

	LastCommand string

	// ShowRegisters mirrors config's [debugger] show_registers: when set,
	// RunUntilPause appends a full register dump to Output every time
	// execution pauses, not just when "info registers" is typed.
	ShowRegisters bool

	// History holds the most recently executed command lines, oldest
	// first, capped at HistorySize entries.
	History     []string
	HistorySize int

	Output strings.Builder
}

// StepMode controls how ShouldBreak decides to pause.
type StepMode int

const (
	StepNone   StepMode = iota // run free until a breakpoint or trap
	StepSingle                 // pause after the next instruction
	StepOver                   // pause once pc returns to StepOverPC
)

// NewDebugger wraps machine for interactive control, configured per cfg's
// [debugger] section.
func NewDebugger(machine *vm.Machine, cfg *config.Config) *Debugger {
	return &Debugger{
		Machine:       machine,
		Breakpoints:   NewBreakpointManager(),
		StepMode:      StepNone,
		ShowRegisters: cfg.Debugger.ShowRegisters,
		HistorySize:   cfg.Debugger.HistorySize,
	}
}

// ResolveAddress parses a hex ("0x...") or decimal address literal. There
// is no assembler front end in this simulator, so there are no labels to
// resolve against -- every address is numeric.
func (d *Debugger) ResolveAddress(addrStr string) (uint64, error) {
	addrStr = strings.TrimSpace(addrStr)
	base := 10
	if strings.HasPrefix(addrStr, "0x") || strings.HasPrefix(addrStr, "0X") {
		addrStr = addrStr[2:]
		base = 16
	}
	addr, err := strconv.ParseUint(addrStr, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address: %s", addrStr)
	}
	return addr, nil
}

// ExecuteCommand parses and runs one command line. An empty line repeats
// the last command, matching the conventional debugger REPL behavior.
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)
	if cmdLine == "" {
		cmdLine = d.LastCommand
	}
	if cmdLine != "" {
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}

	d.recordHistory(cmdLine)

	return d.handleCommand(strings.ToLower(parts[0]), parts[1:])
}

// recordHistory appends cmdLine to History, trimming the oldest entries
// once HistorySize is exceeded. HistorySize <= 0 disables history.
func (d *Debugger) recordHistory(cmdLine string) {
	if d.HistorySize <= 0 {
		return
	}
	d.History = append(d.History, cmdLine)
	if over := len(d.History) - d.HistorySize; over > 0 {
		d.History = d.History[over:]
	}
}

func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "run", "r":
		return d.cmdRun(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "step", "s", "si":
		return d.cmdStep(args)
	case "next", "n":
		return d.cmdNext(args)

	case "break", "b":
		return d.cmdBreak(args)
	case "tbreak", "tb":
		return d.cmdTBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "enable":
		return d.cmdEnable(args)
	case "disable":
		return d.cmdDisable(args)

	case "print", "p":
		return d.cmdPrint(args)
	case "info", "i":
		return d.cmdInfo(args)

	case "reset":
		return d.cmdReset(args)

	case "help", "h", "?":
		return d.cmdHelp(args)

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak reports whether the debugger should pause before the next
// Step, and why. RunUntilPause checks it once after every Step.
func (d *Debugger) ShouldBreak() (bool, string) {
	pc := d.Machine.Hart.PC()

	switch d.StepMode {
	case StepSingle:
		d.StepMode = StepNone
		return true, "single step"
	case StepOver:
		if pc == d.StepOverPC {
			d.StepMode = StepNone
			return true, "step over complete"
		}
	}

	if bp := d.Breakpoints.ProcessHit(pc); bp != nil {
		return true, fmt.Sprintf("breakpoint %d", bp.ID)
	}

	return false, ""
}

// SetStepOver arranges for execution to stop after a call instruction
// returns, rather than descending into it. A jal/jalr that writes a link
// register (rd != x0) is treated as a call; anything else just single-steps.
func (d *Debugger) SetStepOver() {
	pc := d.Machine.Hart.PC()
	inst, err := d.Machine.Bus.Fetch(pc)
	if err != nil || !isCallInstruction(inst) {
		d.StepMode = StepSingle
		d.Running = true
		return
	}
	d.StepOverPC = pc + vm.ILEN
	d.StepMode = StepOver
	d.Running = true
}

// RunUntilPause steps the machine until ShouldBreak says to stop or the
// machine traps, reporting the stop reason and -- when ShowRegisters is
// set -- the hart's full register dump to Output. Every trap ends the run,
// matching the free-running CLI path's treatment of Machine.Run's error.
func (d *Debugger) RunUntilPause() {
	for d.Running {
		if err := d.Machine.Step(); err != nil {
			d.Running = false
			d.Printf("trap: %v\n", err)
			d.dumpRegistersIfConfigured()
			return
		}
		if stop, reason := d.ShouldBreak(); stop {
			d.Running = false
			d.Printf("stopped: %s\n", reason)
			d.dumpRegistersIfConfigured()
			return
		}
	}
}

func (d *Debugger) dumpRegistersIfConfigured() {
	if d.ShowRegisters {
		d.Println(d.Machine.Hart.String())
	}
}

func isCallInstruction(inst uint32) bool {
	opcode := inst & 0x7f
	rd := (inst >> 7) & 0x1f
	isJump := opcode == 0x6f || opcode == 0x67 // jal, jalr
	return isJump && rd != 0
}

// GetOutput returns and clears the accumulated output buffer.
func (d *Debugger) GetOutput() string {
	output := d.Output.String()
	d.Output.Reset()
	return output
}

func (d *Debugger) Printf(format string, args ...interface{}) {
	d.Output.WriteString(fmt.Sprintf(format, args...))
}

func (d *Debugger) Println(args ...interface{}) {
	d.Output.WriteString(fmt.Sprintln(args...))
}
