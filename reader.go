package csvmd

import (
	"encoding/csv"
	"errors"
	"io"
	"iter"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// recordReader decodes records from one pass over a source. It is not
// restartable; a second pass needs a new reader over a rewound source.
type recordReader struct {
	cr *csv.Reader
	qt *quoteTracker
}

func newRecordReader(src io.Reader, cfg Config) *recordReader {
	// A UTF-8 BOM is dropped and a UTF-16 BOM switches to decoding UTF-16.
	// Without a BOM the bytes pass through unchanged.
	qt := newQuoteTracker(transform.NewReader(src, unicode.BOMOverride(transform.Nop)), cfg.delimiter())
	cr := csv.NewReader(qt)
	cr.Comma = cfg.delimiter()
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = !cfg.StrictQuotes
	return &recordReader{cr: cr, qt: qt}
}

// Read returns the next record, or io.EOF when the source is exhausted.
func (r *recordReader) Read() ([]string, error) {
	record, err := r.cr.Read()
	if err == nil || err == io.EOF {
		if perr := r.unterminated(); perr != nil {
			return nil, perr
		}
	}
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, parseError(err)
		}
		return nil, ioError("read source", err)
	}
	for i, field := range record {
		if utf8.ValidString(field) {
			continue
		}
		line, col := r.cr.FieldPos(i)
		start, _ := r.cr.FieldPos(0)
		return nil, parseError(&csv.ParseError{StartLine: start, Line: line, Column: col, Err: ErrInvalidUTF8})
	}
	return record, nil
}

// unterminated reports a quoted field that ran to end of input. Lenient
// parsing returns such a field as data, so the check happens once the csv
// reader has consumed everything the tracker saw.
func (r *recordReader) unterminated() error {
	qt := r.qt
	if !qt.eof || qt.state != inQuotes || r.cr.InputOffset() < qt.n {
		return nil
	}
	return parseError(&csv.ParseError{
		StartLine: qt.openLine,
		Line:      qt.openLine,
		Column:    qt.openCol,
		Err:       csv.ErrQuote,
	})
}

// Records returns the records of src in source order. Fields are raw, not
// escaped. Record lengths may differ. Iteration stops after the first error,
// which is yielded with a nil record.
func Records(src io.Reader, cfg Config) iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		if err := cfg.Validate(); err != nil {
			yield(nil, err)
			return
		}
		rr := newRecordReader(src, cfg)
		for {
			record, err := rr.Read()
			if err == io.EOF {
				return
			}
			if !yield(record, err) || err != nil {
				return
			}
		}
	}
}

type quoteState int

const (
	fieldStart  quoteState = iota // next byte begins a field
	unquoted                      // inside a field that did not open with a quote
	inQuotes                      // inside a quoted field
	afterQuote                    // a quote inside a quoted field; closes it or is literal
	afterQuoteCR                  // afterQuote followed by \r
)

// quoteTracker passes bytes through unchanged while following the quoting
// state the csv reader sees in lenient mode. A quote followed by anything
// other than a quote, the delimiter or a line end is literal there, so the
// field stays open.
type quoteTracker struct {
	r     io.Reader
	comma []byte
	// matched counts the leading bytes of comma seen so far.
	matched int

	state quoteState
	n     int64
	eof   bool

	line, col         int
	openLine, openCol int
}

func newQuoteTracker(r io.Reader, comma rune) *quoteTracker {
	return &quoteTracker{
		r:     r,
		comma: utf8.AppendRune(nil, comma),
		line:  1,
		col:   1,
	}
}

func (t *quoteTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	t.n += int64(n)
	for _, c := range p[:n] {
		t.scan(c)
	}
	if err == io.EOF && !t.eof {
		t.eof = true
		if t.matched > 0 {
			t.matched = 0
			t.step(evOther)
		}
	}
	return n, err
}

type event int

const (
	evOther event = iota
	evQuote
	evComma
	evNewline
	evCR
)

// scan classifies one byte. A multi-byte delimiter counts once its last
// byte arrives; a partial match is some other rune.
func (t *quoteTracker) scan(c byte) {
	if t.matched > 0 {
		if c == t.comma[t.matched] {
			t.matched++
			if t.matched == len(t.comma) {
				t.matched = 0
				t.step(evComma)
			}
			t.col++
			return
		}
		t.matched = 0
		t.step(evOther)
	}

	switch {
	case c == '"':
		t.step(evQuote)
	case c == '\n':
		t.step(evNewline)
		t.line++
		t.col = 1
		return
	case c == '\r':
		t.step(evCR)
	case c == t.comma[0]:
		if len(t.comma) == 1 {
			t.step(evComma)
		} else {
			t.matched = 1
		}
	default:
		t.step(evOther)
	}
	t.col++
}

func (t *quoteTracker) step(ev event) {
	switch t.state {
	case fieldStart:
		switch ev {
		case evQuote:
			t.state = inQuotes
			t.openLine, t.openCol = t.line, t.col
		case evComma, evNewline:
		default:
			t.state = unquoted
		}
	case unquoted:
		if ev == evComma || ev == evNewline {
			t.state = fieldStart
		}
	case inQuotes:
		if ev == evQuote {
			t.state = afterQuote
		}
	case afterQuote:
		switch ev {
		case evQuote:
			t.state = inQuotes
		case evComma, evNewline:
			t.state = fieldStart
		case evCR:
			t.state = afterQuoteCR
		default:
			t.state = inQuotes
		}
	case afterQuoteCR:
		switch ev {
		case evNewline:
			t.state = fieldStart
		case evQuote:
			t.state = afterQuote
		default:
			t.state = inQuotes
		}
	}
}
