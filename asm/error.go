package asm

import "github.com/ninoDeme/go6502/token"

// AssemblerError is the diagnostic type produced by every assembly stage.
// It is the same type the lexer uses, so a caller gets one Report format
// regardless of which stage failed.
type AssemblerError = token.Error

// newErr builds an AssemblerError with no Symbol attached.
func newErr(reason string) *AssemblerError {
	return token.NewError(reason)
}

// newErrAt builds an AssemblerError pointing at sym.
func newErrAt(reason string, sym token.Symbol) *AssemblerError {
	return token.NewErrorAt(reason, sym)
}
