package cpu

import "github.com/ninoDeme/go6502/asm"

func (c *Chip) setZN(v uint8) {
	if v == 0 {
		c.SR |= FlagZ
	} else {
		c.SR &^= FlagZ
	}
	if v&0x80 != 0 {
		c.SR |= FlagN
	} else {
		c.SR &^= FlagN
	}
}

func (c *Chip) carry() uint8 {
	if c.SR&FlagC != 0 {
		return 1
	}
	return 0
}

func (c *Chip) adc(operand uint8) {
	sum := uint16(c.A) + uint16(operand) + uint16(c.carry())
	result := uint8(sum)
	if sum > 0xFF {
		c.SR |= FlagC
	} else {
		c.SR &^= FlagC
	}
	if (c.A^operand)&0x80 == 0 && (c.A^result)&0x80 != 0 {
		c.SR |= FlagV
	} else {
		c.SR &^= FlagV
	}
	c.A = result
	c.setZN(c.A)
}

func (c *Chip) sbc(operand uint8) {
	c.adc(operand ^ 0xFF)
}

func (c *Chip) compare(reg, operand uint8) {
	diff := uint16(reg) - uint16(operand)
	if reg >= operand {
		c.SR |= FlagC
	} else {
		c.SR &^= FlagC
	}
	c.setZN(uint8(diff))
}

// applyALU runs an instruction whose operand is a value read from memory
// or the immediate stream, producing only register/flag side effects.
func applyALU(c *Chip, instr asm.Instruction, operand uint8) {
	switch instr {
	case asm.ADC:
		c.adc(operand)
	case asm.SBC:
		c.sbc(operand)
	case asm.AND:
		c.A &= operand
		c.setZN(c.A)
	case asm.ORA:
		c.A |= operand
		c.setZN(c.A)
	case asm.EOR:
		c.A ^= operand
		c.setZN(c.A)
	case asm.LDA:
		c.A = operand
		c.setZN(c.A)
	case asm.LDX:
		c.X = operand
		c.setZN(c.X)
	case asm.LDY:
		c.Y = operand
		c.setZN(c.Y)
	case asm.CMP:
		c.compare(c.A, operand)
	case asm.CPX:
		c.compare(c.X, operand)
	case asm.CPY:
		c.compare(c.Y, operand)
	case asm.BIT:
		if c.A&operand == 0 {
			c.SR |= FlagZ
		} else {
			c.SR &^= FlagZ
		}
		c.SR = c.SR&^(FlagN|FlagV) | operand&(FlagN|FlagV)
	}
}

// applyRMW runs a read-modify-write instruction on operand, returning the
// value to write back.
func applyRMW(c *Chip, instr asm.Instruction, operand uint8) uint8 {
	var result uint8
	switch instr {
	case asm.ASL:
		if operand&0x80 != 0 {
			c.SR |= FlagC
		} else {
			c.SR &^= FlagC
		}
		result = operand << 1
	case asm.LSR:
		if operand&0x01 != 0 {
			c.SR |= FlagC
		} else {
			c.SR &^= FlagC
		}
		result = operand >> 1
	case asm.ROL:
		newCarry := operand&0x80 != 0
		result = operand<<1 | c.carry()
		if newCarry {
			c.SR |= FlagC
		} else {
			c.SR &^= FlagC
		}
	case asm.ROR:
		newCarry := operand&0x01 != 0
		result = operand>>1 | c.carry()<<7
		if newCarry {
			c.SR |= FlagC
		} else {
			c.SR &^= FlagC
		}
	case asm.INC:
		result = operand + 1
	case asm.DEC:
		result = operand - 1
	}
	c.setZN(result)
	return result
}

// storeValue returns the byte a store instruction writes to memory.
func storeValue(c *Chip, instr asm.Instruction) uint8 {
	switch instr {
	case asm.STA:
		return c.A
	case asm.STX:
		return c.X
	case asm.STY:
		return c.Y
	}
	return 0
}

func isStore(instr asm.Instruction) bool {
	switch instr {
	case asm.STA, asm.STX, asm.STY:
		return true
	}
	return false
}

func isRMW(instr asm.Instruction) bool {
	switch instr {
	case asm.ASL, asm.LSR, asm.ROL, asm.ROR, asm.INC, asm.DEC:
		return true
	}
	return false
}

// applyImplied runs the single-byte register/flag instructions that take
// no operand at all.
func applyImplied(c *Chip, instr asm.Instruction) {
	switch instr {
	case asm.CLC:
		c.SR &^= FlagC
	case asm.SEC:
		c.SR |= FlagC
	case asm.CLI:
		c.SR &^= FlagI
	case asm.SEI:
		c.SR |= FlagI
	case asm.CLV:
		c.SR &^= FlagV
	case asm.CLD:
		c.SR &^= FlagD
	case asm.SED:
		c.SR |= FlagD
	case asm.TAX:
		c.X = c.A
		c.setZN(c.X)
	case asm.TXA:
		c.A = c.X
		c.setZN(c.A)
	case asm.TAY:
		c.Y = c.A
		c.setZN(c.Y)
	case asm.TYA:
		c.A = c.Y
		c.setZN(c.A)
	case asm.TSX:
		c.X = c.SP
		c.setZN(c.X)
	case asm.TXS:
		c.SP = c.X
	case asm.DEX:
		c.X--
		c.setZN(c.X)
	case asm.INX:
		c.X++
		c.setZN(c.X)
	case asm.DEY:
		c.Y--
		c.setZN(c.Y)
	case asm.INY:
		c.Y++
		c.setZN(c.Y)
	case asm.NOP:
		// no effect
	}
}

// branchTaken reports whether instr's condition holds given the current
// status register.
func branchTaken(c *Chip, instr asm.Instruction) bool {
	switch instr {
	case asm.BCC:
		return c.SR&FlagC == 0
	case asm.BCS:
		return c.SR&FlagC != 0
	case asm.BEQ:
		return c.SR&FlagZ != 0
	case asm.BNE:
		return c.SR&FlagZ == 0
	case asm.BMI:
		return c.SR&FlagN != 0
	case asm.BPL:
		return c.SR&FlagN == 0
	case asm.BVC:
		return c.SR&FlagV == 0
	case asm.BVS:
		return c.SR&FlagV != 0
	}
	return false
}
