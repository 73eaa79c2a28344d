// Command disasm prints a compiled _ad binary's header summary and
// instruction stream (spec §6, supplemented per SPEC_FULL.md with the
// original disassembler's header-summary line).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/redthing1/regular-tools/codec"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("disasm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	raw := fs.Bool("raw", false, "suppress the address prefix on each instruction line")
	_ = fs.String("config", "", "path to an ad-tools config file (unused by disasm, accepted for flag-surface consistency)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: disasm <in> [--raw] [--config path]")
		return 1
	}

	data, err := os.ReadFile(fs.Arg(0)) // #nosec G304 -- user-supplied path, CLI tool
	if err != nil {
		fmt.Fprintf(stderr, "disasm: %v\n", err)
		return 1
	}

	img, err := codec.Decode(data)
	if err != nil {
		fmt.Fprintf(stderr, "disasm: %v\n", err)
		return 2
	}

	if img.HasHeader {
		fmt.Fprintf(stdout, "magic=rg code_size=%d data_size=%d\n", img.Header.CodeSize, img.Header.DataSize)
	} else {
		fmt.Fprintf(stdout, "no header (bare code), code_size=%d\n", img.Header.CodeSize)
	}

	for _, in := range img.Instructions {
		text := codec.FormatInstruction(in)
		if *raw {
			fmt.Fprintln(stdout, text)
		} else {
			fmt.Fprintf(stdout, "%s: %s\n", codec.FormatAddress(in.Address), text)
		}
	}
	return 0
}
