package asm

import (
	"strings"

	"github.com/ninoDeme/go6502/token"
)

// expandDefines runs the define pre-pass over a lexed token stream: at the
// top of a line, `define NAME ...` captures every token up to the line's
// NewLine into a named template; later Identifier tokens matching NAME
// anywhere in the rest of the stream (including inside a later define
// body) expand to that captured sequence. A template is built against
// whatever templates already exist at the moment it is captured, so a
// body can never see itself or anything declared after it -- recursion is
// impossible by construction, not by a runtime check.
func expandDefines(toks []token.Token) ([]token.Token, error) {
	templates := map[string][]token.Token{}
	out := make([]token.Token, 0, len(toks))

	i := 0
	for i < len(toks) {
		t := toks[i]

		atLineStart := len(out) > 0 && out[len(out)-1].Kind == token.NewLine
		if atLineStart && t.Kind == token.Identifier && strings.EqualFold(t.Symbol.Text, "define") {
			if i+1 >= len(toks) || toks[i+1].Kind != token.Identifier {
				return nil, newErrAt("define must be followed by a name", t.Symbol)
			}
			name := toks[i+1].Symbol.Text
			j := i + 2
			var body []token.Token
			for j < len(toks) && toks[j].Kind != token.NewLine {
				body = append(body, toks[j])
				j++
			}
			if j >= len(toks) {
				return nil, newErrAt("unterminated define", toks[i+1].Symbol)
			}
			templates[name] = expandTemplateRefs(body, templates)
			i = j // the terminating NewLine is emitted normally below
			continue
		}

		if t.Kind == token.Identifier {
			if body, ok := templates[t.Symbol.Text]; ok {
				out = append(out, body...)
				i++
				continue
			}
		}
		out = append(out, t)
		i++
	}
	return out, nil
}

// expandTemplateRefs rewrites any Identifier in toks naming an
// already-captured template, using only templates known at this point.
func expandTemplateRefs(toks []token.Token, templates map[string][]token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.Identifier {
			if body, ok := templates[t.Symbol.Text]; ok {
				out = append(out, body...)
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
