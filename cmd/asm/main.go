// Command asm compiles an _ad source file to its binary form (spec §6).
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/redthing1/regular-tools/codec"
	"github.com/redthing1/regular-tools/config"
	"github.com/redthing1/regular-tools/lexer"
	"github.com/redthing1/regular-tools/lower"
	"github.com/redthing1/regular-tools/parser"
	"github.com/redthing1/regular-tools/resolve"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("asm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	compat := fs.Bool("compat", false, "suppress the 8-byte header, writing data+code only")
	debugTokens := fs.Bool("debug-tokens", false, "dump the lex result before assembling")
	configPath := fs.String("config", "", "path to an ad-tools config file (default: platform config path)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, "usage: asm <in> <out> [--compat] [--debug-tokens] [--config path]")
		return 1
	}
	in, out := fs.Arg(0), fs.Arg(1)

	cfg := loadConfig(*configPath, stderr)
	useCompat := *compat || cfg.Assembler.Compat
	useDebugTokens := *debugTokens || cfg.Assembler.DebugTokens

	src, err := os.ReadFile(in) // #nosec G304 -- user-supplied path, CLI tool
	if err != nil {
		fmt.Fprintf(stderr, "asm: %v\n", err)
		return 1
	}

	var diag bytes.Buffer
	toks := lexer.New(src, &diag).TokenizeAll()
	if diag.Len() > 0 {
		fmt.Fprint(stderr, diag.String())
	}
	if useDebugTokens {
		for _, tok := range toks {
			fmt.Fprintf(stderr, "%d:%d %s %q\n", tok.Pos.Line, tok.Pos.Column, tok.Kind, tok.Literal)
		}
	}

	prog := parser.Parse(toks)
	if prog.Errors.HasErrors() {
		fmt.Fprint(stderr, prog.Errors.Error())
		return 2
	}

	lower.Lower(prog)
	resolve.Resolve(prog)
	for _, w := range prog.Errors.Warnings {
		fmt.Fprintln(stderr, w.String())
	}
	if prog.Errors.HasErrors() {
		fmt.Fprint(stderr, prog.Errors.Error())
		return 2
	}

	raw, err := codec.Encode(prog, useCompat)
	if err != nil {
		fmt.Fprintf(stderr, "asm: %v\n", err)
		return 2
	}

	if err := os.WriteFile(out, raw, 0600); err != nil {
		fmt.Fprintf(stderr, "asm: %v\n", err)
		return 1
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
		fmt.Fprintf(stderr, "asm: %v, using defaults\n", err)
		return config.DefaultConfig()
	}
	return cfg
}
