// Package cpu implements a cycle-accurate MOS 6502 core. The Chip advances
// by half-steps: each call to Step() is either a phi1 ("address-setup")
// edge, after which the host must service the bus, or a phi2
// ("data-settle") edge, after which no bus transaction is pending. The
// host drives all progress -- there is no internal goroutine or loop.
package cpu

import (
	"github.com/ninoDeme/go6502/asm"
	"github.com/ninoDeme/go6502/irq"
)

// Status register bits, most significant to least significant:
// N V - B D I Z C.
const (
	FlagC      uint8 = 1 << 0
	FlagZ      uint8 = 1 << 1
	FlagI      uint8 = 1 << 2
	FlagD      uint8 = 1 << 3
	FlagB      uint8 = 1 << 4
	FlagUnused uint8 = 1 << 5
	FlagV      uint8 = 1 << 6
	FlagN      uint8 = 1 << 7
)

// Interrupt and reset vectors, low byte address (high byte is addr+1).
const (
	NMIVector   uint16 = 0xFFFA
	ResetVector uint16 = 0xFFFC
	IRQVector   uint16 = 0xFFFE
)

// planCycle is one bus cycle's worth of behavior: the address (and, for a
// write, the data) asserted on phi1, and the settle logic that runs on
// phi2 once the host has serviced the bus.
type planCycle struct {
	addr   func(c *Chip) uint16
	read   bool
	data   func(c *Chip) uint8
	settle func(c *Chip, data uint8)
}

// Chip is the flat 6502 state record: registers, the exposed bus,
// pipelining latches, the two-phase clock, and the three interrupt
// lines. Dispatch runs off a per-instruction plan of bus cycles (see
// planCycle) rather than a separate timing-state bitmask: the plan's
// length and the current opTick already fully determine what the next
// half-step does, so a derived T-state label would carry no information
// the plan doesn't already encode.
type Chip struct {
	A, X, Y, SP uint8
	SR          uint8
	PC          uint16

	// Address, Data and ReadWrite are the bus signals the host services
	// between half-steps: after a phi1 edge, Address and ReadWrite (and,
	// if writing, Data) are valid and the host must act before the next
	// Step() call.
	Address   uint16
	Data      uint8
	ReadWrite bool // true = read, false = write

	ir uint8 // opcode currently executing
	pd uint8 // data latched from the bus on the last phi2 edge

	phi1, phi2 bool

	// Res, Irq and Nmi are the level/edge-sensitive interrupt inputs. A
	// nil Sender behaves as permanently low.
	Res irq.Sender
	Irq irq.Sender
	Nmi irq.Sender

	plan   []planCycle
	opTick int
	opAddr uint16
	opVal  uint8

	resetting bool
	halted    bool
	haltOpcode uint8

	cycles uint64
}

// NewChip constructs a Chip. The host must hold Res raised for at least
// one full cycle before stepping to run the normal reset sequence; a
// freshly constructed Chip with Res already low will instead run whatever
// garbage opcode happens to be at PC==0, so callers that don't want that
// should assert Res themselves.
func NewChip(res, irqLine, nmi irq.Sender) *Chip {
	return &Chip{
		Res:  res,
		Irq:  irqLine,
		Nmi:  nmi,
		SR:   0x06, // I and Z set, per the reset initialization value.
		SP:   0xFD,
		phi1: true,
	}
}

// Halted reports whether the chip has halted on an undocumented opcode.
func (c *Chip) Halted() bool { return c.halted }

// HaltedOpcode returns the opcode that halted the chip, if Halted.
func (c *Chip) HaltedOpcode() uint8 { return c.haltOpcode }

// Cycles returns the number of full cycles (phi1+phi2 pairs) executed so
// far.
func (c *Chip) Cycles() uint64 { return c.cycles }

// AtInstructionBoundary reports whether the next Step() call will begin a
// new opcode fetch (or interrupt sequence) rather than continue one
// already in progress. Callers that want to trace execution one
// instruction at a time should check this before calling Step().
func (c *Chip) AtInstructionBoundary() bool { return len(c.plan) == 0 }

// Step advances the chip by one half-clock. Each half-step is either a
// phi1 edge (the chip places a fresh request on the bus) or a phi2 edge
// (the chip consumes whatever the host placed on the bus in response to
// the last phi1 edge). The host must service the bus between these two
// edges; see the package comment.
func (c *Chip) Step() {
	if len(c.plan) == 0 {
		c.startNext()
	}
	if c.phi1 {
		c.stepPhi1()
	} else {
		c.stepPhi2()
	}
	c.phi1, c.phi2 = !c.phi1, !c.phi2
}

func (c *Chip) stepPhi1() {
	cy := c.plan[c.opTick]
	c.Address = cy.addr(c)
	c.ReadWrite = cy.read
	if !cy.read && cy.data != nil {
		c.Data = cy.data(c)
	}
}

func (c *Chip) stepPhi2() {
	cy := c.plan[c.opTick]
	data := c.Data
	if cy.read {
		c.pd = data
	}
	if cy.settle != nil {
		cy.settle(c, data)
	}
	c.cycles++

	if c.opTick == len(c.plan)-1 {
		c.plan = nil
		c.opTick = 0
	} else {
		c.opTick++
	}
}

// startNext decides what runs next: a stalled reset wait, the shared
// vector-read sequence (reset/NMI/IRQ), or a normal opcode fetch.
func (c *Chip) startNext() {
	if c.Res != nil && c.Res.Raised() {
		c.resetting = true
		c.plan = []planCycle{{addr: func(cc *Chip) uint16 { return cc.PC }, read: true}}
		return
	}
	if c.resetting {
		c.resetting = false
		c.ir = 0
		c.SR &^= FlagB
		c.plan = resetInterruptPlan(ResetVector)
		return
	}
	if c.Nmi != nil && c.Nmi.Raised() {
		c.ir = 0
		c.SR &^= FlagB
		c.plan = hardwareInterruptPlan(NMIVector)
		return
	}
	if c.Irq != nil && c.Irq.Raised() && c.SR&FlagI == 0 {
		c.ir = 0
		c.SR &^= FlagB
		c.plan = hardwareInterruptPlan(IRQVector)
		return
	}
	c.plan = []planCycle{{
		addr: func(cc *Chip) uint16 { return cc.PC },
		read: true,
		settle: func(cc *Chip, data uint8) {
			cc.ir = data
			cc.PC++
			entry, ok := asm.Decode(cc.ir)
			if !ok {
				cc.halted = true
				cc.haltOpcode = cc.ir
				return
			}
			cc.plan = append(cc.plan, buildOperandPlan(entry)...)
		},
	}}
}
