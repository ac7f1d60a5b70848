package token

import (
	"fmt"
	"io"
)

// Error is a diagnostic tied to an optional Symbol so the caller can point
// back at the offending source text. Both the lexer and the assembler
// produce these.
type Error struct {
	Reason string
	Symbol *Symbol
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Symbol == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s at %s: %q", e.Reason, e.Symbol.Start, e.Symbol.Text)
}

// NewError builds an Error with no associated Symbol.
func NewError(reason string) *Error {
	return &Error{Reason: reason}
}

// NewErrorAt builds an Error pointing at sym.
func NewErrorAt(reason string, sym Symbol) *Error {
	return &Error{Reason: reason, Symbol: &sym}
}

// Report writes a caret diagnostic under the offending line of source,
// in the style of the original implementation's error printer.
func (e *Error) Report(w io.Writer, source []string) {
	fmt.Fprintf(w, "ERROR: %s\n", e.Reason)
	if e.Symbol == nil {
		return
	}
	line := e.Symbol.Start.Line
	if line < 1 || line > len(source) {
		return
	}
	fmt.Fprintf(w, " -> %d:%d\n", line, e.Symbol.Start.Col)
	fmt.Fprintf(w, "%d | %s\n", line, source[line-1])
	width := e.Symbol.End.Col - e.Symbol.Start.Col
	if width < 1 {
		width = 1
	}
	nWidth := len(fmt.Sprintf("%d", line))
	fmt.Fprintf(w, "%s | %s%s\n",
		spaces(nWidth), spaces(e.Symbol.Start.Col-1), tildes(width))
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func tildes(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = '~'
	}
	return string(b)
}
