package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bjaus/csvmd"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for CLI operations.
var (
	ErrUsage     = errors.New("usage: csvmd [flags] [file]")
	ErrOpenInput = errors.New("failed to open input")
)

// stdio bundles the process streams so tests can substitute them.
type stdio struct {
	in  io.Reader
	out io.Writer
	err io.Writer
	// interactive is true when in is a terminal.
	interactive bool
}

func main() {
	out := bufio.NewWriter(os.Stdout)
	err := run(os.Args[1:], stdio{
		in:          os.Stdin,
		out:         out,
		err:         os.Stderr,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	})
	if ferr := out.Flush(); err == nil && ferr != nil {
		err = fmt.Errorf("%w: flush output: %w", csvmd.ErrIO, ferr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "csvmd:", err)
		os.Exit(exitCodeFor(err))
	}
}

// run parses arguments, opens the input, and converts it to out.
func run(args []string, s stdio) error {
	f, positional, err := parseFlags(args, s.err)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if f.version {
		fmt.Fprintln(s.out, "csvmd", Version)
		return nil
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected at most one file, got %d", ErrUsage, len(positional))
	}

	cfg, err := resolveConfig(f)
	if err != nil {
		return err
	}

	src, name, closeSrc, err := openInput(positional, s)
	if err != nil {
		return err
	}
	defer closeSrc()

	if f.verbose {
		fmt.Fprintf(s.err, "csvmd: reading %s (delimiter %q, align %s, headers %v, stream %v)\n",
			name, cfg.Delimiter, cfg.Align, !cfg.NoHeaders, cfg.Stream)
	}
	if err := csvmd.Write(s.out, src, cfg); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if f.verbose {
		fmt.Fprintln(s.err, "csvmd: done")
	}
	return nil
}

// openInput returns the named file, or stdin when no file is given.
func openInput(positional []string, s stdio) (io.Reader, string, func(), error) {
	if len(positional) == 1 && positional[0] != "-" {
		path := positional[0]
		file, err := os.Open(path) // #nosec G304 -- user-provided input path
		if err != nil {
			return nil, "", nil, fmt.Errorf("%w: %w", ErrOpenInput, err)
		}
		return file, path, func() { _ = file.Close() }, nil
	}
	if s.interactive {
		fmt.Fprintln(s.err, "Waiting for input via stdin... (To read from a file, use `csvmd path/to/file.csv`.)")
		// A terminal can report a position without being able to replay
		// what was typed, so hide Seek and let Stream buffer instead.
		return struct{ io.Reader }{s.in}, "<stdin>", func() {}, nil
	}
	return s.in, "<stdin>", func() {}, nil
}
