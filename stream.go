package csvmd

import (
	"bytes"
	"fmt"
	"io"
)

// Stream converts src to a Markdown table, writing each row to w as soon as
// it is formatted. It reads the records twice: once to measure the column
// count and once to write. A seekable src is rewound between the passes, so
// memory stays bounded by one record and one row. Any other src is first
// copied into memory.
//
// The output is byte-for-byte what [Render] returns for the same input. On
// failure, rows already written to w are left in place.
func Stream(w io.Writer, src io.Reader, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	rs, start, err := rewindable(src)
	if err != nil {
		return err
	}

	m := newMeasure(cfg)
	rr := newRecordReader(rs, cfg)
	for {
		record, err := rr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		m.add(record)
	}
	l := m.layout(cfg.Align)

	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return ioError("rewind source", err)
	}
	return writeRows(w, newRecordReader(rs, cfg), l, !cfg.NoHeaders)
}

// rewindable returns src as a seeker together with the offset to rewind to.
// A src that cannot report its position (a pipe, a socket) is copied into a
// buffer owned by the caller's frame.
func rewindable(src io.Reader) (io.ReadSeeker, int64, error) {
	if s, ok := src.(io.ReadSeeker); ok {
		if pos, err := s.Seek(0, io.SeekCurrent); err == nil {
			return s, pos, nil
		}
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, 0, ioError("read source", err)
	}
	return bytes.NewReader(data), 0, nil
}

// writeRows is the second pass: header, separator, then one Write per data
// row in source order.
func writeRows(w io.Writer, rr *recordReader, l layout, headed bool) error {
	rw := &rowWriter{w: w, line: make([]byte, 0, 256)}

	first, err := rr.Read()
	if err != nil && err != io.EOF {
		return err
	}
	more := err == nil
	if err := checkWidth(first, l, 1); err != nil {
		return err
	}

	var header []string
	if headed {
		header = first
	}
	rw.line = l.appendRow(rw.line[:0], header)
	if err := rw.flush(); err != nil {
		return err
	}
	rw.line = l.appendSeparator(rw.line[:0])
	if err := rw.flush(); err != nil {
		return err
	}
	if more && !headed {
		rw.line = l.appendRow(rw.line[:0], first)
		if err := rw.flush(); err != nil {
			return err
		}
	}

	for n := 2; more; n++ {
		record, err := rr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := checkWidth(record, l, n); err != nil {
			return err
		}
		rw.line = l.appendRow(rw.line[:0], record)
		if err := rw.flush(); err != nil {
			return err
		}
	}
	return nil
}

// rowWriter hands each formatted row to the sink in a single Write. line is
// reused across rows.
type rowWriter struct {
	w    io.Writer
	line []byte
}

func (rw *rowWriter) flush() error {
	if _, err := rw.w.Write(rw.line); err != nil {
		return ioError("write output", err)
	}
	return nil
}

// checkWidth guards against a source that grew between the two passes.
func checkWidth(record []string, l layout, n int) error {
	if len(record) > l.cols {
		return fmt.Errorf("%w: record %d has %d fields but the first pass counted %d: source changed between passes",
			ErrIO, n, len(record), l.cols)
	}
	return nil
}
