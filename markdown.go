package csvmd

import (
	"github.com/mattn/go-runewidth"
)

// minPadWidth is the narrowest padded column; GFM needs three dashes.
const minPadWidth = 3

var separatorCells = map[Alignment]string{
	AlignLeft:   " --- |",
	AlignCenter: " :---: |",
	AlignRight:  " ---: |",
}

// measure accumulates the column count, and the column display widths when
// padding, over every record of a table.
type measure struct {
	cols   int
	pad    bool
	widths []int
}

func newMeasure(cfg Config) *measure {
	return &measure{pad: cfg.Pad}
}

// add records a row of raw fields.
func (m *measure) add(fields []string) {
	m.cols = max(m.cols, len(fields))
	if !m.pad {
		return
	}
	for i, f := range fields {
		m.widen(i, runewidth.StringWidth(Escape(f)))
	}
}

// addEscaped records a row whose cells are already escaped.
func (m *measure) addEscaped(cells []string) {
	m.cols = max(m.cols, len(cells))
	if !m.pad {
		return
	}
	for i, c := range cells {
		m.widen(i, runewidth.StringWidth(c))
	}
}

func (m *measure) widen(col, w int) {
	for len(m.widths) <= col {
		m.widths = append(m.widths, minPadWidth)
	}
	m.widths[col] = max(m.widths[col], w)
}

// layout returns the row layout for the measured table. An empty table still
// gets one column.
func (m *measure) layout(align Alignment) layout {
	l := layout{cols: max(m.cols, 1), align: align}
	if m.pad {
		l.widths = make([]int, l.cols)
		for i := range l.widths {
			l.widths[i] = minPadWidth
			if i < len(m.widths) {
				l.widths[i] = m.widths[i]
			}
		}
	}
	return l
}

// layout formats output rows. widths is nil unless cells are padded.
type layout struct {
	cols   int
	align  Alignment
	widths []int
}

// appendRow appends one output row built from raw fields.
func (l layout) appendRow(dst []byte, fields []string) []byte {
	dst = append(dst, '|')
	for i := range l.cols {
		var f string
		if i < len(fields) {
			f = fields[i]
		}
		dst = append(dst, ' ')
		if l.widths == nil {
			dst = appendEscaped(dst, f)
		} else {
			dst = l.appendPadded(dst, Escape(f), i)
		}
		dst = append(dst, " |"...)
	}
	return append(dst, '\n')
}

// appendEscapedRow appends one output row built from escaped cells.
func (l layout) appendEscapedRow(dst []byte, cells []string) []byte {
	dst = append(dst, '|')
	for i := range l.cols {
		var c string
		if i < len(cells) {
			c = cells[i]
		}
		dst = append(dst, ' ')
		if l.widths == nil {
			dst = append(dst, c...)
		} else {
			dst = l.appendPadded(dst, c, i)
		}
		dst = append(dst, " |"...)
	}
	return append(dst, '\n')
}

func (l layout) appendPadded(dst []byte, cell string, col int) []byte {
	pad := l.widths[col] - runewidth.StringWidth(cell)
	if pad <= 0 {
		return append(dst, cell...)
	}
	switch l.align {
	case AlignRight:
		dst = appendSpaces(dst, pad)
		return append(dst, cell...)
	case AlignCenter:
		left := pad / 2
		dst = appendSpaces(dst, left)
		dst = append(dst, cell...)
		return appendSpaces(dst, pad-left)
	default:
		dst = append(dst, cell...)
		return appendSpaces(dst, pad)
	}
}

// appendSeparator appends the alignment row that follows the header.
func (l layout) appendSeparator(dst []byte) []byte {
	dst = append(dst, '|')
	for i := range l.cols {
		if l.widths == nil {
			dst = append(dst, separatorCells[l.align]...)
			continue
		}
		dst = append(dst, ' ')
		dst = appendMarker(dst, l.widths[i], l.align)
		dst = append(dst, " |"...)
	}
	return append(dst, '\n')
}

// appendMarker appends a dash run of the given width with colons for the
// alignment.
func appendMarker(dst []byte, width int, align Alignment) []byte {
	switch align {
	case AlignRight:
		dst = appendDashes(dst, width-1)
		return append(dst, ':')
	case AlignCenter:
		dst = append(dst, ':')
		dst = appendDashes(dst, width-2)
		return append(dst, ':')
	default:
		return appendDashes(dst, width)
	}
}

func appendSpaces(dst []byte, n int) []byte {
	for range n {
		dst = append(dst, ' ')
	}
	return dst
}

func appendDashes(dst []byte, n int) []byte {
	for range n {
		dst = append(dst, '-')
	}
	return dst
}
