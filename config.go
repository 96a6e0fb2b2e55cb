package csvmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Alignment controls the separator row syntax.
type Alignment int

const (
	AlignLeft   Alignment = iota // ---
	AlignCenter                  // :---:
	AlignRight                   // ---:
)

var alignNames = map[Alignment]string{
	AlignLeft:   "left",
	AlignCenter: "center",
	AlignRight:  "right",
}

// String returns the alignment name.
func (a Alignment) String() string {
	if s, ok := alignNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Alignment(%d)", int(a))
}

// ParseAlignment parses left, center (or centre), or right, ignoring case.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	}
	return AlignLeft, fmt.Errorf("%w: alignment %q: valid options are left, center, right", ErrConfig, s)
}

// UnmarshalYAML decodes an alignment name.
func (a *Alignment) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseAlignment(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseDelimiter parses a single-character delimiter. The escape \t and the
// word "tab" are accepted for a tab.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: delimiter %q must be a single character", ErrConfig, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if err := validateDelimiter(r); err != nil {
		return 0, err
	}
	return r, nil
}

// Config describes one conversion. The zero value converts comma-separated
// input with a header row, left alignment, and the buffered strategy.
type Config struct {
	// Delimiter separates fields. Zero means comma.
	Delimiter rune
	// NoHeaders treats the first record as data. A blank header row is
	// written in its place.
	NoHeaders bool
	Align     Alignment
	// Stream selects the two-pass streaming strategy in [Write].
	Stream bool
	// Pad pads every cell to its column's display width.
	Pad bool
	// StrictQuotes rejects a quote inside an unquoted field, and a quote in a
	// quoted field that is neither doubled nor closing. By default such
	// quotes are kept as text. An unterminated quoted field is an error
	// either way.
	StrictQuotes bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Delimiter: ','}
}

func (c Config) delimiter() rune {
	if c.Delimiter == 0 {
		return ','
	}
	return c.Delimiter
}

// Validate reports whether c can drive a conversion.
func (c Config) Validate() error {
	if err := validateDelimiter(c.delimiter()); err != nil {
		return err
	}
	if _, ok := alignNames[c.Align]; !ok {
		return fmt.Errorf("%w: unknown alignment %d", ErrConfig, int(c.Align))
	}
	return nil
}

func validateDelimiter(r rune) error {
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError || !utf8.ValidRune(r) {
		return fmt.Errorf("%w: delimiter %q is not allowed", ErrConfig, r)
	}
	return nil
}

// fileConfig is the YAML form of Config.
type fileConfig struct {
	Delimiter    *string    `yaml:"delimiter"`
	Headers      *bool      `yaml:"headers"`
	Align        *Alignment `yaml:"align"`
	Stream       bool       `yaml:"stream"`
	Pad          bool       `yaml:"pad"`
	StrictQuotes bool       `yaml:"strict_quotes"`
}

// ParseConfig decodes a YAML configuration document. Omitted keys keep their
// defaults and unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var fc fileConfig
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		if errors.Is(err, ErrConfig) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if fc.Delimiter != nil {
		d, err := ParseDelimiter(*fc.Delimiter)
		if err != nil {
			return Config{}, err
		}
		cfg.Delimiter = d
	}
	if fc.Headers != nil {
		cfg.NoHeaders = !*fc.Headers
	}
	if fc.Align != nil {
		cfg.Align = *fc.Align
	}
	cfg.Stream = fc.Stream
	cfg.Pad = fc.Pad
	cfg.StrictQuotes = fc.StrictQuotes
	return cfg, cfg.Validate()
}

// LoadConfig reads and decodes the YAML configuration file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: read config: %w", ErrConfig, err)
	}
	return ParseConfig(data)
}
