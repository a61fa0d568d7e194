/*
 * PSX - Cpu: registers, load/branch-delay bookkeeping, and the
 * fetch/decode/execute tick.
 *
 * Copyright 2026, PSX core contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package cpu implements a MIPS R3000A interpreter, with a Coprocessor 0
// system-control register file, over a Bus.
package cpu

import (
	"log/slog"

	"github.com/rcornwell/psx/bus"
)

const resetVector = 0xBFC00000

// pendingLoad is the one-slot deferred write modeling the load-delay
// slot: committed into outRegs at the start of the tick after the load.
type pendingLoad struct {
	index uint32
	value uint32
}

// Cpu is the MIPS R3000A register/control state. It holds a non-owning
// reference to a Bus for the duration of execution.
type Cpu struct {
	pc        uint32
	nextPC    uint32
	currentPC uint32

	regs    [32]uint32
	outRegs [32]uint32

	pending pendingLoad

	hi uint32
	lo uint32

	sr    uint32
	cause uint32
	epc   uint32

	branch    bool
	delaySlot bool

	ip uint64

	bus *bus.Bus
}

// New returns a Cpu wired to bus and reset to its power-on state.
func New(b *bus.Bus) *Cpu {
	c := &Cpu{bus: b}
	c.Reset()
	return c
}

// Reset restores power-on state: PC at the BIOS reset vector, all GPRs
// zeroed (R0 permanently so), SR cleared.
func (c *Cpu) Reset() {
	c.pc = resetVector
	c.nextPC = resetVector + 4
	c.currentPC = 0
	c.regs = [32]uint32{}
	c.outRegs = [32]uint32{}
	c.pending = pendingLoad{}
	c.hi = 0xDEADC0DE
	c.lo = 0xDEADC0DE
	c.sr = 0
	c.cause = 0
	c.epc = 0
	c.branch = false
	c.delaySlot = false
	c.ip = 0
}

// PC returns the address of the next instruction to be fetched.
func (c *Cpu) PC() uint32 { return c.pc }

// IP returns the retired-instruction counter.
func (c *Cpu) IP() uint64 { return c.ip }

// Reg returns the committed value of register n (n==0 is always 0).
func (c *Cpu) Reg(n uint32) uint32 { return c.regs[n&0x1F] }

// HiLo returns the multiply/divide result registers.
func (c *Cpu) HiLo() (hi, lo uint32) { return c.hi, c.lo }

// Status (SR), Cause and Epc expose the Cop0 system-control registers.
func (c *Cpu) Status() uint32 { return c.sr }
func (c *Cpu) Cause() uint32  { return c.cause }
func (c *Cpu) Epc() uint32    { return c.epc }

func (c *Cpu) setReg(n uint32, v uint32) {
	c.outRegs[n&0x1F] = v
	c.outRegs[0] = 0
}

// Tick runs run_next_instruction: fetch, commit the pending load, decode
// and execute one instruction, then publish outRegs into regs.
func (c *Cpu) Tick() {
	c.currentPC = c.pc

	// delaySlot reflects whether the instruction at currentPC sits in the
	// delay slot of the previous tick's taken branch/jump. It must be
	// settled before the alignment check below, since a fetch exception
	// needs it for the EPC fixup too.
	c.delaySlot = c.branch
	c.branch = false

	if c.currentPC&0x3 != 0 {
		c.raiseException(excLoadAddressError)
		return
	}

	word := c.bus.Load32(c.pc)

	c.pc = c.nextPC
	c.nextPC = c.pc + 4

	c.outRegs[c.pending.index] = c.pending.value
	c.outRegs[0] = 0
	c.pending = pendingLoad{}

	inst := decode(word)
	c.execute(inst)

	c.regs = c.outRegs
	c.ip++
}

// branchTo sets nextPC to target and marks this tick as a taken control
// transfer, so the following tick's delaySlot bookkeeping is correct.
func (c *Cpu) branchTo(target uint32) {
	c.nextPC = target
	c.branch = true
}

func (c *Cpu) cacheIsolated() bool {
	return c.sr&0x10000 != 0
}

func (c *Cpu) logUnhandled(format string, args ...any) {
	slog.Debug("cpu: "+format, args...)
}
