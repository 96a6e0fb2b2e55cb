package csvmd

import (
	"errors"
	"fmt"
	"io"
)

// Sentinel errors for programmatic error handling.
var (
	ErrIO          = errors.New("i/o error")
	ErrParse       = errors.New("malformed input")
	ErrConfig      = errors.New("invalid configuration")
	ErrInvalidUTF8 = errors.New("invalid UTF-8 text")
)

// Write converts delimited text read from src into a Markdown table and
// writes it to w. cfg.Stream selects [Stream]; otherwise the table is built
// with [Render] and written in one call.
func Write(w io.Writer, src io.Reader, cfg Config) error {
	if cfg.Stream {
		return Stream(w, src, cfg)
	}
	out, err := Render(src, cfg)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return ioError("write output", err)
	}
	return nil
}

func ioError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}

func parseError(err error) error {
	return fmt.Errorf("%w: %w", ErrParse, err)
}
