// Command rv64-sim loads an RV64I kernel image and runs it to completion,
// under the interactive debugger, or with live state streamed over the
// status API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lookbusy1344/rv64-emulator/api"
	"github.com/lookbusy1344/rv64-emulator/config"
	"github.com/lookbusy1344/rv64-emulator/debugger"
	"github.com/lookbusy1344/rv64-emulator/loader"
	"github.com/lookbusy1344/rv64-emulator/vm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		ramOrigin  uint64
		ramSize    uint64
		maxCycles  uint64
		configPath string
		debugFlag  bool
		apiPort    int
	)

	flag.Uint64Var(&ramOrigin, "ram-origin", 0, "override the bus's RAM origin address")
	flag.Uint64Var(&ramSize, "ram-size", 0, "override the bus's RAM size in bytes")
	flag.Uint64Var(&maxCycles, "max-cycles", 0, "override the run loop's cycle bound (0 keeps the configured bound)")
	flag.StringVar(&configPath, "config", config.GetConfigPath(), "path to a TOML configuration file")
	flag.BoolVar(&debugFlag, "debug", false, "launch the interactive debugger instead of free-running")
	flag.IntVar(&apiPort, "api-port", 0, "serve live hart-state snapshots on this port (0 disables it)")
	flag.Parse()

	if flag.NArg() < 1 {
		return fmt.Errorf("usage: %s [flags] <kernel-image>", os.Args[0])
	}
	kernelPath := flag.Arg(0)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if ramOrigin != 0 {
		cfg.Machine.RAMOrigin = ramOrigin
	}
	if ramSize != 0 {
		cfg.Machine.RAMSize = ramSize
	}
	if maxCycles != 0 {
		cfg.Machine.MaxCycles = maxCycles
	}

	sysLog := log.New(os.Stderr, "rv64-sim: ", log.LstdFlags)

	bus := vm.NewBus(cfg.Machine.RAMOrigin, cfg.Machine.RAMSize)
	entry, err := loader.LoadELF(kernelPath, bus)
	if err != nil {
		return fmt.Errorf("loading kernel image: %w", err)
	}

	machine := vm.NewMachine(bus, entry)
	machine.MaxCycles = cfg.Machine.MaxCycles
	sysLog.Printf("loaded %s, entry 0x%016x", kernelPath, entry)

	var apiServer *api.Server
	if apiPort != 0 {
		apiServer = api.NewServer(apiPort, machine)
		go func() {
			if err := apiServer.Start(); err != nil {
				sysLog.Printf("status API stopped: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			_ = apiServer.Shutdown(ctx)
		}()
	}

	if debugFlag {
		return runDebugger(machine, cfg)
	}
	return runHeadless(machine, apiServer, cfg, sysLog)
}

// runHeadless runs the machine to completion, broadcasting a snapshot after
// every step when apiServer is non-nil and appending a trace line per step
// to cfg.Trace.OutputFile when cfg.Trace.Enabled.
func runHeadless(machine *vm.Machine, apiServer *api.Server, cfg *config.Config, sysLog *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var traceFile *os.File
	if cfg.Trace.Enabled {
		f, err := os.Create(cfg.Trace.OutputFile) // #nosec G304 -- user-configured trace path
		if err != nil {
			return fmt.Errorf("opening trace file: %w", err)
		}
		defer f.Close()
		traceFile = f
	}

	var runErr error
	for machine.MaxCycles == 0 || machine.Cycles < machine.MaxCycles {
		select {
		case <-ctx.Done():
			sysLog.Println("interrupted")
			return nil
		default:
		}
		pc := machine.Hart.PC()
		if err := machine.Step(); err != nil {
			runErr = err
			break
		}
		if traceFile != nil {
			fmt.Fprintf(traceFile, "%d pc=0x%016x\n", machine.Cycles, pc)
		}
		if apiServer != nil {
			apiServer.Broadcast()
		}
	}

	machine.WriteState(os.Stdout, runErr)
	return nil
}

// runDebugger launches the terminal debugger's TUI.
func runDebugger(machine *vm.Machine, cfg *config.Config) error {
	d := debugger.NewDebugger(machine, cfg)
	tui := debugger.NewTUI(d)
	return tui.Run()
}
