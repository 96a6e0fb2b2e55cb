package csvmd

import (
	"bytes"
	"io"
	"strings"
)

// Render reads all of src and returns the complete Markdown table. Memory use
// grows with the input; see [Stream] for the two-pass alternative.
func Render(src io.Reader, cfg Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return "", ioError("read source", err)
	}

	rr := newRecordReader(bytes.NewReader(data), cfg)
	m := newMeasure(cfg)
	var rows [][]string
	for {
		record, err := rr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		cells := make([]string, len(record))
		for i, f := range record {
			cells[i] = Escape(f)
		}
		m.addEscaped(cells)
		rows = append(rows, cells)
	}

	var header []string
	if !cfg.NoHeaders && len(rows) > 0 {
		header, rows = rows[0], rows[1:]
	}
	l := m.layout(cfg.Align)

	var b strings.Builder
	b.Grow(estimateSize(len(data), len(rows)+2, l))
	line := make([]byte, 0, 256)
	line = l.appendEscapedRow(line[:0], header)
	b.Write(line)
	line = l.appendSeparator(line[:0])
	b.Write(line)
	for _, cells := range rows {
		line = l.appendEscapedRow(line[:0], cells)
		b.Write(line)
	}
	return b.String(), nil
}

// estimateSize guesses the output length from the input length. Every cell
// adds its " " and " |" framing, every row a leading "|" and newline, and the
// separator up to five marker bytes per column. Delimiters and quotes in the
// input roughly cover escape growth.
func estimateSize(inputLen, rows int, l layout) int {
	n := inputLen + rows*(3*l.cols+2) + 5*l.cols
	for _, w := range l.widths {
		n += rows * w
	}
	return n
}
