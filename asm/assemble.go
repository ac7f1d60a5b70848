package asm

import (
	"github.com/ninoDeme/go6502/token"
)

// defaultOrigin is the program counter value a source file starts at
// when no `.ORG` directive has been seen yet.
const defaultOrigin = uint16(0x0600)

// Options controls non-default Assemble behavior. The zero value selects
// the standard origin.
type Options struct {
	// Origin overrides defaultOrigin when non-zero.
	Origin uint16
}

// Assemble runs the full pipeline -- lex, expand defines, parse statements,
// back-patch labels -- over lines and returns the resulting sparse
// address -> byte image as a Go map. The map carries no iteration order;
// callers that need the bytes in ascending address order sort the keys
// themselves.
func Assemble(lines []string, opts Options) (map[uint16]uint8, error) {
	origin := opts.Origin
	if origin == 0 {
		origin = defaultOrigin
	}

	toks, err := token.Lex(lines)
	if err != nil {
		return nil, err
	}
	toks, err = expandDefines(toks)
	if err != nil {
		return nil, err
	}
	ops, labels, err := parseProgram(toks, origin)
	if err != nil {
		return nil, err
	}
	return finalize(ops, labels)
}

// finalize is the back-patch pass: it walks the intermediate op list
// (whose addresses and, where resolvable, addressing modes are already
// fixed) and emits the sparse address -> byte map, resolving label
// operands against the now-complete label table.
func finalize(ops []IntermediateOp, labels map[string]uint16) (map[uint16]uint8, error) {
	out := map[uint16]uint8{}
	for _, op := range ops {
		if op.Kind == opRawBytes {
			for i, b := range op.Bytes {
				out[op.Addr+uint16(i)] = b
			}
			continue
		}
		if err := emitInstruction(out, op, labels); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func emitInstruction(out map[uint16]uint8, op IntermediateOp, labels map[string]uint16) error {
	switch op.Operand.Kind {
	case OperandLabel:
		return emitLabelOperand(out, op, labels)
	case OperandValue:
		return emitValueOperand(out, op)
	default: // OperandNone: Implied/Accumulator, no operand bytes
		entry, ok := Encode(op.Instr, op.Operand.Mode)
		if !ok {
			return newErrAt("instruction doesn't allow this addressing mode", op.Symbol)
		}
		out[op.Addr] = entry.Opcode
		return nil
	}
}

func emitLabelOperand(out map[uint16]uint8, op IntermediateOp, labels map[string]uint16) error {
	target, ok := labels[op.Operand.Label.Text]
	if !ok {
		return newErrAt("undefined label", op.Operand.Label)
	}
	if entry, ok := Encode(op.Instr, Absolute); ok {
		out[op.Addr] = entry.Opcode
		// The reference implementation this table is ported from
		// emits the high byte first for Absolute/Indirect operands;
		// that ordering is preserved deliberately, not a bug here.
		out[op.Addr+1] = uint8(target >> 8)
		out[op.Addr+2] = uint8(target & 0xFF)
		return nil
	}
	if entry, ok := Encode(op.Instr, Relative); ok {
		disp := int(target) - (int(op.Addr) + 2)
		if disp < -128 || disp > 127 {
			return newErrAt("branch target out of range", op.Operand.Label)
		}
		out[op.Addr] = entry.Opcode
		out[op.Addr+1] = uint8(int8(disp))
		return nil
	}
	return newErrAt("instruction doesn't allow this addressing mode", op.Symbol)
}

func emitValueOperand(out map[uint16]uint8, op IntermediateOp) error {
	entry, ok := Encode(op.Instr, op.Operand.Mode)
	if !ok {
		return newErrAt("instruction doesn't allow this addressing mode", op.Symbol)
	}
	out[op.Addr] = entry.Opcode
	switch op.Operand.Mode.OperandSize() {
	case 2:
		if op.Operand.Value.Val > 0xFF {
			return newErrAt("value out of range", op.Operand.Value.Symbol)
		}
		out[op.Addr+1] = uint8(op.Operand.Value.Val)
	case 3:
		v := op.Operand.Value.Val
		if v > 0xFFFF {
			return newErrAt("value out of range", op.Operand.Value.Symbol)
		}
		// High byte first, matching emitLabelOperand's ordering.
		out[op.Addr+1] = uint8(v >> 8)
		out[op.Addr+2] = uint8(v & 0xFF)
	}
	return nil
}
