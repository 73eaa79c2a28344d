// Command emu loads and executes a compiled _ad binary (spec §6).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/redthing1/regular-tools/codec"
	"github.com/redthing1/regular-tools/config"
	"github.com/redthing1/regular-tools/debugger"
	"github.com/redthing1/regular-tools/isa"
	"github.com/redthing1/regular-tools/vm"
)

// stdin is the headless debugger's command source, overridable in tests.
var stdin io.Reader = os.Stdin

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("emu", flag.ContinueOnError)
	fs.SetOutput(stderr)
	step := fs.Bool("step", false, "pause after every instruction for one line of input")
	nodbg := fs.Bool("nodbg", false, "suppress per-instruction trace dumps")
	tui := fs.Bool("tui", false, "use the interactive tcell/tview step debugger")
	configPath := fs.String("config", "", "path to an ad-tools config file (default: platform config path)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: emu <in> [--step] [--nodbg] [--tui] [--config path]")
		return 1
	}

	cfg := loadConfig(*configPath, stderr)
	useStep := *step || cfg.Emulator.Step
	useDebug := cfg.Emulator.Debug
	if *nodbg {
		useDebug = false
	}
	useTUI := *tui

	raw, err := os.ReadFile(fs.Arg(0)) // #nosec G304 -- user-supplied path, CLI tool
	if err != nil {
		fmt.Fprintf(stderr, "emu: %v\n", err)
		return 1
	}

	if useTUI {
		return runTUI(raw, stderr)
	}

	if useStep {
		return runStep(raw, stdout, stderr, useDebug)
	}

	machine := vm.New()
	machine.Output = stdout
	machine.Debug = useDebug

	hdr, err := machine.Load(raw, 0)
	if err != nil {
		fmt.Fprintf(stderr, "emu: %v\n", err)
		return 2
	}

	if err := machine.Run(uint32(hdr.DataSize)); err != nil {
		fmt.Fprintf(stderr, "emu: %v\n", err)
		return 2
	}
	return 0
}

// runStep drives the emulator through debugger.RunHeadless, the
// breakpoint-aware line REPL, instead of vm.VM's own blocking OneStep
// (spec §4.7's bare "block on one line of input" mode).
func runStep(raw []byte, stdout, stderr *os.File, useDebug bool) int {
	img, err := codec.Decode(raw)
	if err != nil {
		fmt.Fprintf(stderr, "emu: %v\n", err)
		return 2
	}

	machine := vm.New()
	machine.Output = stdout
	machine.Debug = useDebug

	hdr, err := machine.Load(raw, 0)
	if err != nil {
		fmt.Fprintf(stderr, "emu: %v\n", err)
		return 2
	}
	machine.Reg[isa.RegPC] = uint32(hdr.DataSize)
	machine.Executing = true

	d := debugger.NewDebugger(machine, img)
	if err := debugger.RunHeadless(d, stdin, stdout); err != nil {
		fmt.Fprintf(stderr, "emu: %v\n", err)
		return 2
	}
	return 0
}

func runTUI(raw []byte, stderr *os.File) int {
	img, err := codec.Decode(raw)
	if err != nil {
		fmt.Fprintf(stderr, "emu: %v\n", err)
		return 2
	}

	machine := vm.New()
	hdr, err := machine.Load(raw, 0)
	if err != nil {
		fmt.Fprintf(stderr, "emu: %v\n", err)
		return 2
	}
	machine.Reg[isa.RegPC] = uint32(hdr.DataSize)
	machine.Executing = true

	d := debugger.NewDebugger(machine, img)
	t := debugger.NewTUI(d)
	if err := t.Run(); err != nil {
		fmt.Fprintf(stderr, "emu: %v\n", err)
		return 2
	}
	return 0
}

func loadConfig(path string, stderr *os.File) *config.Config {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(stderr, "emu: %v, using defaults\n", err)
		return config.DefaultConfig()
	}
	return cfg
}
