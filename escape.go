package csvmd

const (
	escapedPipe  = `\|`
	lineBreakTag = "<br>"
)

// Escape returns field in a form that can sit inside a Markdown table cell.
// Pipes become \| and line breaks (\r\n or \n) become <br>. Everything else,
// including surrounding whitespace and a lone \r, is kept as is.
func Escape(field string) string {
	n := escapedLen(field)
	if n == len(field) {
		return field
	}
	return string(appendEscaped(make([]byte, 0, n), field))
}

// appendEscaped appends the escaped form of field to dst. The specials are
// ASCII, so scanning bytes never splits a multi-byte rune.
func appendEscaped(dst []byte, field string) []byte {
	last := 0
	for i := 0; i < len(field); i++ {
		var repl string
		switch field[i] {
		case '|':
			repl = escapedPipe
		case '\n':
			repl = lineBreakTag
		case '\r':
			if i+1 >= len(field) || field[i+1] != '\n' {
				continue
			}
			dst = append(dst, field[last:i]...)
			dst = append(dst, lineBreakTag...)
			i++
			last = i + 1
			continue
		default:
			continue
		}
		dst = append(dst, field[last:i]...)
		dst = append(dst, repl...)
		last = i + 1
	}
	return append(dst, field[last:]...)
}

// escapedLen returns len(Escape(field)) without building it.
func escapedLen(field string) int {
	n := len(field)
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case '|':
			n += len(escapedPipe) - 1
		case '\n':
			n += len(lineBreakTag) - 1
		case '\r':
			if i+1 < len(field) && field[i+1] == '\n' {
				n += len(lineBreakTag) - 2
				i++
			}
		}
	}
	return n
}
