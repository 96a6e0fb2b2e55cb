// Package csvmd converts delimited text into GitHub-flavored Markdown tables.
//
// Input is CSV or any variant with a single-character delimiter. Quoted
// fields may hold delimiters, doubled quotes, and line breaks. Records do not
// need the same number of fields: every row of the table is padded with empty
// cells to the widest record, and nothing is truncated.
//
// # Strategies
//
// [Render] reads the whole input and returns the table as a string:
//
//	md, err := csvmd.Render(strings.NewReader("Name,Age\nJohn,25"), csvmd.Config{})
//
// [Stream] writes rows to an [io.Writer] as they are produced. It reads the
// input twice, first to count columns and then to write. Seekable sources
// such as files are rewound between the passes; anything else is buffered
// in memory first:
//
//	f, _ := os.Open("big.csv")
//	err := csvmd.Stream(os.Stdout, f, csvmd.Config{Align: csvmd.AlignRight})
//
// [Write] picks one of the two from [Config.Stream]. Both produce identical
// bytes for the same input.
//
// # Output
//
// Each row is "| c1 | c2 | ... | cN |" followed by a single "\n". The row
// after the header is "---", ":---:" or "---:" per column depending on
// [Config.Align]. With [Config.NoHeaders] the header row is blank and every
// record is data. Cells go through [Escape]: "|" becomes "\|" and line
// breaks become "<br>".
//
// Set [Config.Pad] to pad cells to a common display width, measured with
// East Asian width rules, so the table also lines up as plain text.
//
// # Errors
//
// A quote inside an unquoted field is kept as text unless
// [Config.StrictQuotes] is set. A quoted field left open at end of input is
// always a parse error.
//
// Failures wrap one of [ErrIO], [ErrParse] or [ErrConfig]. Parse failures
// also carry the [encoding/csv.ParseError] with the line and column:
//
//	var pe *csv.ParseError
//	if errors.Is(err, csvmd.ErrParse) && errors.As(err, &pe) { ... }
//
// # Configuration files
//
// [LoadConfig] reads the same options from YAML:
//
//	delimiter: ";"
//	headers: false
//	align: center
package csvmd
