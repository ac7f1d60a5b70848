// Package token defines the lexical units produced by scanning a 6502
// assembly source file: source positions, the spans that tie a token back
// to the text that produced it, and the token kinds themselves.
package token

import "fmt"

// Pos is a 1-indexed source position.
type Pos struct {
	Line int
	Col  int
}

// String implements fmt.Stringer for diagnostic output.
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Symbol is a half-open span of source text, plus the text itself, so that
// errors can point back at exactly what produced them.
type Symbol struct {
	Start Pos
	End   Pos
	Text  string
}

// NewSymbol builds a Symbol starting at (line, col) and ending after the
// rune-length of text.
func NewSymbol(line, col int, text string) Symbol {
	return Symbol{
		Start: Pos{Line: line, Col: col},
		End:   Pos{Line: line, Col: col + len([]rune(text))},
		Text:  text,
	}
}

// Kind enumerates the lexical token kinds.
type Kind int

const (
	Identifier Kind = iota // letters/underscore then alphanumerics/underscore
	Number                 // maximal alphanumeric run; radix decided by the parser
	Colon                  // :
	Hash                   // #
	LParen                 // (
	RParen                 // )
	CommaX                 // ,x or ,X
	CommaY                 // ,y or ,Y
	Hex                    // $
	Bin                    // %
	Oct                    // @
	Dot                    // .
	Equals                 // =
	NewLine                // synthetic end-of-statement marker
)

var kindNames = [...]string{
	Identifier: "Identifier",
	Number:     "Number",
	Colon:      "Colon",
	Hash:       "Hash",
	LParen:     "LParen",
	RParen:     "RParen",
	CommaX:     "CommaX",
	CommaY:     "CommaY",
	Hex:        "Hex",
	Bin:        "Bin",
	Oct:        "Oct",
	Dot:        "Dot",
	Equals:     "Equals",
	NewLine:    "NewLine",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Token is a single lexical unit with its originating Symbol.
type Token struct {
	Kind   Kind
	Symbol Symbol
}

// String implements fmt.Stringer for diagnostic output.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Symbol.Text, t.Symbol.Start)
}
