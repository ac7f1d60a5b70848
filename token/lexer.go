package token

import "strings"

// lexState is the three-state line scanner from spec.md §4.1.
type lexState int

const (
	stateDefault lexState = iota
	stateIdentifier
	stateNumber
)

// Lex scans a sequence of source lines into a token stream. The returned
// stream begins with a synthetic leading NewLine (so statement parsing can
// treat every line uniformly) and contains exactly one NewLine per input
// line. Lexing stops at the first error encountered on a line; it does not
// attempt to recover and continue scanning that line.
func Lex(lines []string) ([]Token, error) {
	tokens := []Token{{Kind: NewLine, Symbol: NewSymbol(0, 0, "")}}
	for i, raw := range lines {
		lineNo := i + 1
		line := stripComment(raw)
		toks, err := lexLine(lineNo, line)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, toks...)
		tokens = append(tokens, Token{Kind: NewLine, Symbol: NewSymbol(lineNo, len([]rune(line))+1, "")})
	}
	return tokens, nil
}

// stripComment discards a ';' and everything after it on the line.
func stripComment(line string) string {
	if idx := strings.IndexByte(line, ';'); idx >= 0 {
		return line[:idx]
	}
	return line
}

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func lexLine(lineNo int, line string) ([]Token, error) {
	runes := []rune(line)
	var tokens []Token
	state := stateDefault
	var buf []rune
	var bufStartCol int

	flushIdentifier := func(endCol int) {
		tokens = append(tokens, Token{Kind: Identifier, Symbol: NewSymbol(lineNo, bufStartCol, string(buf))})
		buf = nil
		state = stateDefault
	}
	flushNumber := func(endCol int) {
		tokens = append(tokens, Token{Kind: Number, Symbol: NewSymbol(lineNo, bufStartCol, string(buf))})
		buf = nil
		state = stateDefault
	}

	col := 1
	for col <= len(runes) {
		c := runes[col-1]
		switch state {
		case stateIdentifier:
			if isIdentCont(c) {
				buf = append(buf, c)
				col++
				continue
			}
			flushIdentifier(col)
			continue // reprocess c in stateDefault
		case stateNumber:
			if isAlnum(c) {
				buf = append(buf, c)
				col++
				continue
			}
			flushNumber(col)
			continue
		}

		// stateDefault
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			col++
		case c == ':':
			tokens = append(tokens, Token{Kind: Colon, Symbol: NewSymbol(lineNo, col, ":")})
			col++
		case c == '#':
			tokens = append(tokens, Token{Kind: Hash, Symbol: NewSymbol(lineNo, col, "#")})
			col++
		case c == '(':
			tokens = append(tokens, Token{Kind: LParen, Symbol: NewSymbol(lineNo, col, "(")})
			col++
		case c == ')':
			tokens = append(tokens, Token{Kind: RParen, Symbol: NewSymbol(lineNo, col, ")")})
			col++
		case c == '.':
			tokens = append(tokens, Token{Kind: Dot, Symbol: NewSymbol(lineNo, col, ".")})
			col++
		case c == '=':
			tokens = append(tokens, Token{Kind: Equals, Symbol: NewSymbol(lineNo, col, "=")})
			col++
		case c == '$':
			tokens = append(tokens, Token{Kind: Hex, Symbol: NewSymbol(lineNo, col, "$")})
			col++
			state = stateNumber
			bufStartCol = col
		case c == '@':
			tokens = append(tokens, Token{Kind: Oct, Symbol: NewSymbol(lineNo, col, "@")})
			col++
			state = stateNumber
			bufStartCol = col
		case c == '%':
			tokens = append(tokens, Token{Kind: Bin, Symbol: NewSymbol(lineNo, col, "%")})
			col++
			state = stateNumber
			bufStartCol = col
		case c == ',':
			if col >= len(runes) {
				return nil, NewErrorAt("unterminated comma", NewSymbol(lineNo, col, ","))
			}
			n := runes[col]
			switch n {
			case 'x', 'X':
				tokens = append(tokens, Token{Kind: CommaX, Symbol: NewSymbol(lineNo, col, ",x")})
			case 'y', 'Y':
				tokens = append(tokens, Token{Kind: CommaY, Symbol: NewSymbol(lineNo, col, ",y")})
			default:
				return nil, NewErrorAt("comma must be followed by x/X or y/Y", NewSymbol(lineNo, col, string([]rune{c, n})))
			}
			col += 2
		case isDigit(c):
			state = stateNumber
			bufStartCol = col
			buf = append(buf, c)
			col++
		case isIdentStart(c):
			state = stateIdentifier
			bufStartCol = col
			buf = append(buf, c)
			col++
		default:
			return nil, NewErrorAt("invalid character", NewSymbol(lineNo, col, string(c)))
		}
	}
	switch state {
	case stateIdentifier:
		flushIdentifier(col)
	case stateNumber:
		flushNumber(col)
	}
	return tokens, nil
}
