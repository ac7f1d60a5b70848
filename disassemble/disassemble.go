// Package disassemble turns a 6502 instruction stream back into text,
// one instruction per call, using the same 56-mnemonic/151-opcode table
// the assembler and CPU share.
package disassemble

import (
	"fmt"

	"github.com/ninoDeme/go6502/asm"
	"github.com/ninoDeme/go6502/memory"
)

// Step disassembles the instruction at pc, returning its text and the
// number of bytes to advance pc to reach the next instruction. Reads up
// to two bytes past pc, so the caller must ensure those addresses are
// valid even for a one-byte instruction.
func Step(pc uint16, m memory.Bank) (string, int) {
	opcode := m.Read(pc)
	entry, ok := asm.Decode(opcode)
	if !ok {
		return fmt.Sprintf(".BYTES $%02X ; undocumented opcode", opcode), 1
	}

	size := entry.Mode.OperandSize()
	// b1/b2 match the assembler's emitted order for two-byte operands:
	// high byte at pc+1, low byte at pc+2 (see asm.emitLabelOperand).
	b1 := m.Read(pc + 1)
	b2 := m.Read(pc + 2)

	switch entry.Mode {
	case asm.Implied:
		return entry.Instr.String(), 1
	case asm.Accumulator:
		return fmt.Sprintf("%s A", entry.Instr), 1
	case asm.Immediate:
		return fmt.Sprintf("%s #$%02X", entry.Instr, b1), size
	case asm.ZeroPage:
		return fmt.Sprintf("%s $%02X", entry.Instr, b1), size
	case asm.ZeroPageX:
		return fmt.Sprintf("%s $%02X,X", entry.Instr, b1), size
	case asm.ZeroPageY:
		return fmt.Sprintf("%s $%02X,Y", entry.Instr, b1), size
	case asm.Relative:
		target := uint16(int32(pc) + 2 + int32(int8(b1)))
		return fmt.Sprintf("%s $%04X", entry.Instr, target), size
	case asm.Absolute:
		return fmt.Sprintf("%s $%02X%02X", entry.Instr, b1, b2), size
	case asm.AbsoluteX:
		return fmt.Sprintf("%s $%02X%02X,X", entry.Instr, b1, b2), size
	case asm.AbsoluteY:
		return fmt.Sprintf("%s $%02X%02X,Y", entry.Instr, b1, b2), size
	case asm.Indirect:
		return fmt.Sprintf("%s ($%02X%02X)", entry.Instr, b1, b2), size
	case asm.IndirectX:
		return fmt.Sprintf("%s ($%02X,X)", entry.Instr, b1), size
	case asm.IndirectY:
		return fmt.Sprintf("%s ($%02X),Y", entry.Instr, b1), size
	}
	return entry.Instr.String(), size
}
