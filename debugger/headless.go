package debugger

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/redthing1/regular-tools/codec"
)

// RunHeadless drives d from a line-oriented command stream with no TUI
// dependency — the `--step` mode of the emulator CLI. Recognized
// commands: s/step, c/continue, b <addr>/break, regs, list, q/quit. An
// empty line repeats the previous command, matching the REPL idiom most
// line debuggers use.
func RunHeadless(d *Debugger, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "entering step debugger, 'h' for help")
	last := "s"
	for d.VM.Executing {
		fmt.Fprintf(out, "(dbg %s) ", codec.FormatAddress(d.PC()))
		if !scanner.Scan() {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			line = last
		}
		last = line

		fields := strings.Fields(line)
		cmd := fields[0]
		switch cmd {
		case "s", "step":
			if err := d.Step(); err != nil {
				return err
			}
		case "c", "continue":
			if err := d.Continue(); err != nil {
				return err
			}
		case "b", "break":
			if len(fields) < 2 {
				fmt.Fprintln(out, "usage: break <addr>")
				continue
			}
			addr, err := strconv.ParseUint(strings.TrimPrefix(fields[1], "$"), 16, 32)
			if err != nil {
				fmt.Fprintf(out, "bad address %q\n", fields[1])
				continue
			}
			d.Breakpoints.Set(uint32(addr))
		case "regs":
			fmt.Fprint(out, d.FormatRegisters())
		case "list":
			for _, l := range d.Disassembly(10) {
				fmt.Fprintln(out, l)
			}
		case "h", "help":
			fmt.Fprintln(out, "s(tep) c(ontinue) b(reak) <addr> regs list q(uit)")
		case "q", "quit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q\n", cmd)
		}
	}
	fmt.Fprintln(out, "halted")
	return nil
}
