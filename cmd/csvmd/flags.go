package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/bjaus/csvmd"
)

// cliFlags holds every command-line option.
type cliFlags struct {
	config       string
	delimiter    string
	noHeaders    bool
	stream       bool
	align        string
	pad          bool
	strictQuotes bool
	verbose      bool
	version      bool

	// changed reports whether a flag was set on the command line.
	changed func(name string) bool
}

// parseFlags parses args (without the program name) and returns the flags
// and positional arguments.
func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("csvmd", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &cliFlags{changed: fs.Changed}

	fs.StringVarP(&f.delimiter, "delimiter", "d", ",", "field delimiter (single character, or \\t)")
	fs.BoolVar(&f.noHeaders, "no-headers", false, "treat the first row as data, not headers")
	fs.BoolVar(&f.stream, "stream", false, "write rows as they are produced (large files)")
	fs.StringVar(&f.align, "align", "left", "header alignment: left, center, right")
	fs.BoolVar(&f.pad, "pad", false, "pad cells to equal display width")
	fs.BoolVar(&f.strictQuotes, "strict-quotes", false, "reject stray quotes instead of keeping them as text")
	fs.StringVarP(&f.config, "config", "c", "", "YAML config file")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "report progress on stderr")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// resolveConfig layers explicitly set flags over the config file, if any,
// and the defaults.
func resolveConfig(f *cliFlags) (csvmd.Config, error) {
	cfg := csvmd.DefaultConfig()
	if f.config != "" {
		loaded, err := csvmd.LoadConfig(f.config)
		if err != nil {
			return csvmd.Config{}, err
		}
		cfg = loaded
	}

	if f.changed("delimiter") || f.config == "" {
		d, err := csvmd.ParseDelimiter(f.delimiter)
		if err != nil {
			return csvmd.Config{}, err
		}
		cfg.Delimiter = d
	}
	if f.changed("align") || f.config == "" {
		a, err := csvmd.ParseAlignment(f.align)
		if err != nil {
			return csvmd.Config{}, err
		}
		cfg.Align = a
	}
	if f.changed("no-headers") {
		cfg.NoHeaders = f.noHeaders
	}
	if f.changed("stream") {
		cfg.Stream = f.stream
	}
	if f.changed("pad") {
		cfg.Pad = f.pad
	}
	if f.changed("strict-quotes") {
		cfg.StrictQuotes = f.strictQuotes
	}
	return cfg, nil
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: csvmd [flags] [file]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert CSV to a Markdown table. Reads stdin when no file is given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
}
