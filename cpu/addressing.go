package cpu

import "github.com/ninoDeme/go6502/asm"

// buildOperandPlan returns the cycles that follow the opcode fetch for
// entry, dispatching control-flow instructions to their own sequences and
// everything else through the generic data-addressing builders.
func buildOperandPlan(entry asm.OpEntry) []planCycle {
	switch entry.Instr {
	case asm.BRK:
		return brkOperandPlan(IRQVector, true)
	case asm.JMP:
		if entry.Mode == asm.Indirect {
			return jmpIndirectPlan()
		}
		return jmpAbsolutePlan()
	case asm.JSR:
		return jsrPlan()
	case asm.RTS:
		return rtsPlan()
	case asm.RTI:
		return rtiPlan()
	case asm.PHA, asm.PHP:
		return pushRegPlan(entry.Instr)
	case asm.PLA, asm.PLP:
		return pullRegPlan(entry.Instr)
	case asm.BCC, asm.BCS, asm.BEQ, asm.BNE, asm.BMI, asm.BPL, asm.BVC, asm.BVS:
		return branchPlan(entry.Instr)
	}

	if entry.Mode == asm.Implied {
		return []planCycle{dummyPCCycle(func(c *Chip) { applyImplied(c, entry.Instr) })}
	}
	if entry.Mode == asm.Accumulator {
		return []planCycle{dummyPCCycle(func(c *Chip) { c.A = applyRMW(c, entry.Instr, c.A) })}
	}

	return buildDataPlan(entry)
}

func dummyPCCycle(effect func(c *Chip)) planCycle {
	return planCycle{
		addr:   func(c *Chip) uint16 { return c.PC },
		read:   true,
		settle: func(c *Chip, _ uint8) { effect(c) },
	}
}

func finishRead(entry asm.OpEntry) planCycle {
	return planCycle{
		addr: func(c *Chip) uint16 { return c.opAddr },
		read: true,
		settle: func(c *Chip, data uint8) {
			applyALU(c, entry.Instr, data)
		},
	}
}

func finishWrite(entry asm.OpEntry) planCycle {
	return planCycle{
		addr: func(c *Chip) uint16 { return c.opAddr },
		read: false,
		data: func(c *Chip) uint8 { return storeValue(c, entry.Instr) },
	}
}

// finishRMW is the read/dummy-write/write trio shared by every
// read-modify-write addressing mode: the original value is read, written
// back unchanged (matching real bus traffic), then the modified value is
// written.
func finishRMW(entry asm.OpEntry) []planCycle {
	return []planCycle{
		{
			addr: func(c *Chip) uint16 { return c.opAddr },
			read: true,
			settle: func(c *Chip, data uint8) {
				c.opVal = data
			},
		},
		{
			addr: func(c *Chip) uint16 { return c.opAddr },
			read: false,
			data: func(c *Chip) uint8 { return c.opVal },
			settle: func(c *Chip, _ uint8) {
				c.opVal = applyRMW(c, entry.Instr, c.opVal)
			},
		},
		{
			addr: func(c *Chip) uint16 { return c.opAddr },
			read: false,
			data: func(c *Chip) uint8 { return c.opVal },
		},
	}
}

func finishCycles(entry asm.OpEntry) []planCycle {
	switch {
	case isStore(entry.Instr):
		return []planCycle{finishWrite(entry)}
	case isRMW(entry.Instr):
		return finishRMW(entry)
	default:
		return []planCycle{finishRead(entry)}
	}
}

func buildDataPlan(entry asm.OpEntry) []planCycle {
	switch entry.Mode {
	case asm.Immediate:
		return []planCycle{{
			addr: func(c *Chip) uint16 { return c.PC },
			read: true,
			settle: func(c *Chip, data uint8) {
				c.PC++
				applyALU(c, entry.Instr, data)
			},
		}}
	case asm.ZeroPage:
		return zeroPagePlan(entry, nil)
	case asm.ZeroPageX:
		return zeroPagePlan(entry, func(c *Chip) uint8 { return c.X })
	case asm.ZeroPageY:
		return zeroPagePlan(entry, func(c *Chip) uint8 { return c.Y })
	case asm.Absolute:
		return absolutePlan(entry, nil, false)
	case asm.AbsoluteX:
		return absolutePlan(entry, func(c *Chip) uint8 { return c.X }, true)
	case asm.AbsoluteY:
		return absolutePlan(entry, func(c *Chip) uint8 { return c.Y }, true)
	case asm.IndirectX:
		return indirectXPlan(entry)
	case asm.IndirectY:
		return indirectYPlan(entry)
	}
	return nil
}

// zeroPagePlan covers ZeroPage and its indexed variants. index is nil for
// unindexed ZeroPage.
func zeroPagePlan(entry asm.OpEntry, index func(c *Chip) uint8) []planCycle {
	plan := []planCycle{{
		addr: func(c *Chip) uint16 { return c.PC },
		read: true,
		settle: func(c *Chip, data uint8) {
			c.opAddr = uint16(data)
			c.PC++
		},
	}}
	if index != nil {
		plan = append(plan, planCycle{
			addr: func(c *Chip) uint16 { return c.opAddr },
			read: true,
			settle: func(c *Chip, _ uint8) {
				c.opAddr = uint16(uint8(c.opAddr) + index(c))
			},
		})
	}
	return append(plan, finishCycles(entry)...)
}

// absolutePlan covers Absolute and its indexed variants. When indexed is
// true, the instruction class decides whether the extra cycle for a
// crossed page is conditional (loads and other read instructions) or
// unconditional (stores and read-modify-write instructions always pay
// it, per isStore/isRMW).
func absolutePlan(entry asm.OpEntry, index func(c *Chip) uint8, indexed bool) []planCycle {
	plan := []planCycle{
		{
			addr: func(c *Chip) uint16 { return c.PC },
			read: true,
			settle: func(c *Chip, data uint8) {
				c.opAddr = uint16(data)
				c.PC++
			},
		},
	}
	plan = append(plan, planCycle{
		addr: func(c *Chip) uint16 { return c.PC },
		read: true,
		settle: func(c *Chip, data uint8) {
			base := c.opAddr | uint16(data)<<8
			c.PC++
			if !indexed {
				c.opAddr = base
				return
			}
			eff := base + uint16(index(c))
			crossed := eff&0xFF00 != base&0xFF00
			c.opAddr = eff
			always := isStore(entry.Instr) || isRMW(entry.Instr)
			if crossed || always {
				c.plan = append(c.plan, planCycle{
					addr: func(cc *Chip) uint16 { return base&0xFF00 | eff&0x00FF },
					read: true,
				})
			}
		},
	})
	return append(plan, finishCycles(entry)...)
}

func indirectXPlan(entry asm.OpEntry) []planCycle {
	plan := []planCycle{
		{
			addr: func(c *Chip) uint16 { return c.PC },
			read: true,
			settle: func(c *Chip, data uint8) {
				c.opVal = data
				c.PC++
			},
		},
		{
			addr: func(c *Chip) uint16 { return uint16(c.opVal) },
			read: true,
			settle: func(c *Chip, _ uint8) {
				c.opVal += c.X
			},
		},
		{
			addr: func(c *Chip) uint16 { return uint16(c.opVal) },
			read: true,
			settle: func(c *Chip, data uint8) {
				c.opAddr = uint16(data)
			},
		},
		{
			addr: func(c *Chip) uint16 { return uint16(c.opVal + 1) },
			read: true,
			settle: func(c *Chip, data uint8) {
				c.opAddr |= uint16(data) << 8
			},
		},
	}
	return append(plan, finishCycles(entry)...)
}

func indirectYPlan(entry asm.OpEntry) []planCycle {
	plan := []planCycle{
		{
			addr: func(c *Chip) uint16 { return c.PC },
			read: true,
			settle: func(c *Chip, data uint8) {
				c.opVal = data
				c.PC++
			},
		},
		{
			addr: func(c *Chip) uint16 { return uint16(c.opVal) },
			read: true,
			settle: func(c *Chip, data uint8) {
				c.opAddr = uint16(data)
			},
		},
		{
			addr: func(c *Chip) uint16 { return uint16(c.opVal + 1) },
			read: true,
			settle: func(c *Chip, data uint8) {
				base := c.opAddr | uint16(data)<<8
				eff := base + uint16(c.Y)
				crossed := eff&0xFF00 != base&0xFF00
				c.opAddr = eff
				always := isStore(entry.Instr)
				if crossed || always {
					c.plan = append(c.plan, planCycle{
						addr: func(cc *Chip) uint16 { return base&0xFF00 | eff&0x00FF },
						read: true,
					})
				}
			},
		},
	}
	return append(plan, finishCycles(entry)...)
}

func pushRegPlan(instr asm.Instruction) []planCycle {
	return []planCycle{
		dummyPCCycle(func(c *Chip) {}),
		{
			addr: spAddr,
			read: false,
			data: func(c *Chip) uint8 {
				if instr == asm.PHP {
					return c.SR | FlagUnused | FlagB
				}
				return c.A
			},
			settle: func(c *Chip, _ uint8) { c.SP-- },
		},
	}
}

func pullRegPlan(instr asm.Instruction) []planCycle {
	return []planCycle{
		dummyPCCycle(func(c *Chip) {}),
		{
			addr:   spAddr,
			read:   true,
			settle: func(c *Chip, _ uint8) { c.SP++ },
		},
		{
			addr: spAddr,
			read: true,
			settle: func(c *Chip, data uint8) {
				if instr == asm.PLP {
					c.SR = data&^FlagB | FlagUnused
				} else {
					c.A = data
					c.setZN(c.A)
				}
			},
		},
	}
}

func jmpAbsolutePlan() []planCycle {
	return []planCycle{
		{
			addr: func(c *Chip) uint16 { return c.PC },
			read: true,
			settle: func(c *Chip, data uint8) {
				c.opVal = data
				c.PC++
			},
		},
		{
			addr: func(c *Chip) uint16 { return c.PC },
			read: true,
			settle: func(c *Chip, data uint8) {
				c.PC = uint16(c.opVal) | uint16(data)<<8
			},
		},
	}
}

func jmpIndirectPlan() []planCycle {
	return []planCycle{
		{
			addr: func(c *Chip) uint16 { return c.PC },
			read: true,
			settle: func(c *Chip, data uint8) {
				c.opVal = data
				c.PC++
			},
		},
		{
			addr: func(c *Chip) uint16 { return c.PC },
			read: true,
			settle: func(c *Chip, data uint8) {
				c.opAddr = uint16(c.opVal) | uint16(data)<<8
				c.PC++
			},
		},
		{
			addr: func(c *Chip) uint16 { return c.opAddr },
			read: true,
			settle: func(c *Chip, data uint8) {
				c.opVal = data
			},
		},
		{
			// The indirect vector never crosses a page: if the low byte of
			// the pointer is 0xFF, the high byte is fetched from the start
			// of the same page, not the next one. This replicates that
			// well-known hardware quirk rather than fixing it.
			addr: func(c *Chip) uint16 {
				return c.opAddr&0xFF00 | uint16(uint8(c.opAddr)+1)
			},
			read: true,
			settle: func(c *Chip, data uint8) {
				c.PC = uint16(c.opVal) | uint16(data)<<8
			},
		},
	}
}

func jsrPlan() []planCycle {
	return []planCycle{
		{
			addr: func(c *Chip) uint16 { return c.PC },
			read: true,
			settle: func(c *Chip, data uint8) {
				c.opVal = data
				c.PC++
			},
		},
		{
			addr: spAddr,
			read: true,
		},
		{
			addr: spAddr,
			read: false,
			data: func(c *Chip) uint8 { return uint8(c.PC >> 8) },
			settle: func(c *Chip, _ uint8) {
				c.SP--
			},
		},
		{
			addr: spAddr,
			read: false,
			data: func(c *Chip) uint8 { return uint8(c.PC) },
			settle: func(c *Chip, _ uint8) {
				c.SP--
			},
		},
		{
			addr: func(c *Chip) uint16 { return c.PC },
			read: true,
			settle: func(c *Chip, data uint8) {
				c.PC = uint16(c.opVal) | uint16(data)<<8
			},
		},
	}
}

func rtsPlan() []planCycle {
	return []planCycle{
		dummyPCCycle(func(c *Chip) {}),
		{
			addr:   spAddr,
			read:   true,
			settle: func(c *Chip, _ uint8) { c.SP++ },
		},
		{
			addr: spAddr,
			read: true,
			settle: func(c *Chip, data uint8) {
				c.opVal = data
				c.SP++
			},
		},
		{
			addr: spAddr,
			read: true,
			settle: func(c *Chip, data uint8) {
				c.PC = uint16(c.opVal) | uint16(data)<<8
			},
		},
		{
			addr: func(c *Chip) uint16 { return c.PC },
			read: true,
			settle: func(c *Chip, _ uint8) {
				c.PC++
			},
		},
	}
}

func rtiPlan() []planCycle {
	return []planCycle{
		dummyPCCycle(func(c *Chip) {}),
		{
			addr:   spAddr,
			read:   true,
			settle: func(c *Chip, _ uint8) { c.SP++ },
		},
		{
			addr: spAddr,
			read: true,
			settle: func(c *Chip, data uint8) {
				c.SR = data&^FlagB | FlagUnused
				c.SP++
			},
		},
		{
			addr: spAddr,
			read: true,
			settle: func(c *Chip, data uint8) {
				c.opVal = data
				c.SP++
			},
		},
		{
			addr: spAddr,
			read: true,
			settle: func(c *Chip, data uint8) {
				c.PC = uint16(c.opVal) | uint16(data)<<8
			},
		},
	}
}

// branchPlan covers all eight relative-addressing conditional branches.
// The displacement byte is always read; a taken branch costs one more
// cycle, and a taken branch that crosses a page costs one more still, per
// the component design's cycle rules.
func branchPlan(instr asm.Instruction) []planCycle {
	return []planCycle{{
		addr: func(c *Chip) uint16 { return c.PC },
		read: true,
		settle: func(c *Chip, data uint8) {
			c.PC++
			if !branchTaken(c, instr) {
				return
			}
			disp := int8(data)
			base := c.PC
			target := uint16(int32(base) + int32(disp))
			crossed := target&0xFF00 != base&0xFF00
			c.plan = append(c.plan, planCycle{
				addr: func(cc *Chip) uint16 { return base },
				read: true,
				settle: func(cc *Chip, _ uint8) {
					cc.PC = target
				},
			})
			if crossed {
				c.plan = append(c.plan, planCycle{
					addr: func(cc *Chip) uint16 { return target },
					read: true,
				})
			}
		},
	}}
}

func spAddr(c *Chip) uint16 { return 0x0100 + uint16(c.SP) }

func pushCycle(real bool, getVal func(c *Chip) uint8) planCycle {
	if real {
		return planCycle{
			addr:   spAddr,
			read:   false,
			data:   getVal,
			settle: func(c *Chip, _ uint8) { c.SP-- },
		}
	}
	return planCycle{addr: spAddr, read: true, settle: func(c *Chip, _ uint8) { c.SP-- }}
}

func vectorReadCycles(vectorLow uint16, setI bool) []planCycle {
	return []planCycle{
		{
			addr:   func(c *Chip) uint16 { return vectorLow },
			read:   true,
			settle: func(c *Chip, data uint8) { c.opVal = data },
		},
		{
			addr: func(c *Chip) uint16 { return vectorLow + 1 },
			read: true,
			settle: func(c *Chip, data uint8) {
				c.PC = uint16(c.opVal) | uint16(data)<<8
				if setI {
					c.SR |= FlagI
				}
			},
		},
	}
}

// brkOperandPlan is appended after the already-fetched BRK opcode: it
// consumes the padding signature byte, pushes PC and SR (with B set),
// and reads the vector. Six cycles, matching the documented BRK timing
// once the leading opcode fetch is included.
func brkOperandPlan(vectorLow uint16, setBFlag bool) []planCycle {
	plan := []planCycle{
		{
			addr:   func(c *Chip) uint16 { return c.PC },
			read:   true,
			settle: func(c *Chip, _ uint8) { c.PC++ },
		},
		pushCycle(true, func(c *Chip) uint8 { return uint8(c.PC >> 8) }),
		pushCycle(true, func(c *Chip) uint8 { return uint8(c.PC) }),
		pushCycle(true, func(c *Chip) uint8 {
			sr := c.SR | FlagUnused
			if setBFlag {
				sr |= FlagB
			} else {
				sr &^= FlagB
			}
			return sr
		}),
	}
	return append(plan, vectorReadCycles(vectorLow, true)...)
}

// hardwareInterruptPlan is used directly as the running plan (it is not
// appended after a fetch, since IRQ/NMI never fetch an opcode byte): two
// dummy cycles, three stack cycles (real writes, B flag cleared), then
// the vector read. Seven cycles total.
func hardwareInterruptPlan(vectorLow uint16) []planCycle {
	return interruptPlan(vectorLow, true, 2)
}

// resetInterruptPlan is the sequence run once `res` deasserts. It carries
// only one leading dummy PC-read cycle rather than hardwareInterruptPlan's
// two: the stall loop in startNext already performed an identical dummy
// PC-read for every cycle `res` was held, and the last of those stalls
// *is* the sequence's first dummy cycle, not an extra cycle ahead of it.
// One dummy cycle here plus the one already spent stalling reproduces the
// documented seven-cycle reset-to-PC timing; the three stack cycles are
// fake reads (no write asserted) since the B flag is clear throughout.
func resetInterruptPlan(vectorLow uint16) []planCycle {
	return interruptPlan(vectorLow, false, 1)
}

func interruptPlan(vectorLow uint16, realPushes bool, dummyCycles int) []planCycle {
	plan := make([]planCycle, 0, dummyCycles+5)
	for i := 0; i < dummyCycles; i++ {
		plan = append(plan, planCycle{addr: func(c *Chip) uint16 { return c.PC }, read: true})
	}
	plan = append(plan,
		pushCycle(realPushes, func(c *Chip) uint8 { return uint8(c.PC >> 8) }),
		pushCycle(realPushes, func(c *Chip) uint8 { return uint8(c.PC) }),
		pushCycle(realPushes, func(c *Chip) uint8 {
			return (c.SR | FlagUnused) &^ FlagB
		}),
	)
	return append(plan, vectorReadCycles(vectorLow, true)...)
}
