package token

import (
	"testing"

	"github.com/go-test/deep"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexBasic(t *testing.T) {
	tests := []struct {
		name string
		src  []string
		want []Kind
	}{
		{
			name: "immediate hex",
			src:  []string{"LDA #$42"},
			want: []Kind{NewLine, Identifier, Hash, Hex, Number, NewLine},
		},
		{
			name: "label then instruction",
			src:  []string{"loop:", "  INX"},
			want: []Kind{NewLine, Identifier, Colon, NewLine, Identifier, NewLine},
		},
		{
			name: "indirect x",
			src:  []string{"LDA ($10,X)"},
			want: []Kind{NewLine, Identifier, LParen, Hex, Number, CommaX, RParen, NewLine},
		},
		{
			name: "indirect y",
			src:  []string{"LDA ($10),Y"},
			want: []Kind{NewLine, Identifier, LParen, Hex, Number, RParen, CommaY, NewLine},
		},
		{
			name: "comment stripped",
			src:  []string{"INX ; increment"},
			want: []Kind{NewLine, Identifier, NewLine},
		},
		{
			name: "directive with equals",
			src:  []string{".ORG = $0700"},
			want: []Kind{NewLine, Dot, Identifier, Equals, Hex, Number, NewLine},
		},
		{
			name: "empty line",
			src:  []string{""},
			want: []Kind{NewLine, NewLine},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Lex(tc.src)
			if err != nil {
				t.Fatalf("Lex(%v): %v", tc.src, err)
			}
			if diff := deep.Equal(kinds(got), tc.want); diff != nil {
				t.Errorf("Lex(%v) kinds mismatch: %v", tc.src, diff)
			}
		})
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name string
		src  []string
	}{
		{name: "bad comma suffix", src: []string{"STA $10,Z"}},
		{name: "trailing comma", src: []string{"STA $10,"}},
		{name: "invalid character", src: []string{"LDA ^$10"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Lex(tc.src); err == nil {
				t.Errorf("Lex(%v): expected error, got nil", tc.src)
			}
		})
	}
}

func TestLexPositions(t *testing.T) {
	toks, err := Lex([]string{"  LDA #$42"})
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	// toks[0] is the synthetic leading NewLine; toks[1] is LDA at column 3.
	if got, want := toks[1].Symbol.Start.Col, 3; got != want {
		t.Errorf("LDA start col = %d, want %d", got, want)
	}
	if got, want := toks[1].Symbol.Text, "LDA"; got != want {
		t.Errorf("LDA text = %q, want %q", got, want)
	}
}
