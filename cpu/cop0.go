/*
 * PSX - Coprocessor 0 (system control) registers and exception dispatch.
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

package cpu

// Exception codes, shifted into CAUSE bits [6:2] on dispatch.
const (
	excLoadAddressError  uint32 = 4
	excStoreAddressError uint32 = 5
	excSysCall           uint32 = 8
	excBreak             uint32 = 9
	excIllegalInstruction uint32 = 10
	excCoprocessorError  uint32 = 11
	excOverflow          uint32 = 12
)

const (
	srIsolateCache uint32 = 1 << 16
	srBEV          uint32 = 1 << 22
	modeStackMask  uint32 = 0x3F
)

// raiseException implements the exception-dispatch algorithm: compute the
// handler vector from BEV, shift the interrupt/mode stack in SR, load
// CAUSE, fix up EPC (rewinding 4 and flagging bit 31 when the faulting
// instruction sits in a delay slot), and vector PC/nextPC with no delay
// slot on entry.
func (c *Cpu) raiseException(code uint32) {
	var handler uint32
	if c.sr&srBEV != 0 {
		handler = 0xBFC00180
	} else {
		handler = 0x80000080
	}

	mode := c.sr & modeStackMask
	// The source has a documented bug here (`sr &= !0x3F`, i.e. bitwise
	// NOT of a boolean which is nonsensical in a systems rewrite); the
	// correct mask is bitwise ~0x3F == 0xFFFFFFC0.
	c.sr = (c.sr &^ modeStackMask) | ((mode << 2) & modeStackMask)

	c.cause = code << 2

	c.epc = c.currentPC
	if c.delaySlot {
		c.epc -= 4
		c.cause |= 1 << 31
	}

	c.pc = handler
	c.nextPC = handler + 4
}

// mfc0 reads a Cop0 register. Only sr(12)/cause(13)/epc(14) are modeled;
// any other register reads as 0 rather than aborting the host, since a
// guest probing an unimplemented Cop0 register is not itself fatal.
func (c *Cpu) mfc0(reg uint32) uint32 {
	switch reg {
	case 12:
		return c.sr
	case 13:
		return c.cause
	case 14:
		return c.epc
	default:
		c.logUnhandled("mfc0: unhandled register %d, returning 0", reg)
		return 0
	}
}

// mtc0 writes a Cop0 register. Register 12 (SR) accepts any value.
// Breakpoint registers (3/5/6/7/9/11) and CAUSE (13) are writable only
// with zero; any other write, or a write to an unrecognized register, is
// a CoprocessorError.
func (c *Cpu) mtc0(reg uint32, value uint32) {
	switch reg {
	case 12:
		c.sr = value
	case 13:
		if value != 0 {
			c.raiseException(excCoprocessorError)
			return
		}
		c.cause = value
	case 3, 5, 6, 7, 9, 11:
		if value != 0 {
			c.raiseException(excCoprocessorError)
		}
	default:
		c.raiseException(excCoprocessorError)
	}
}

// rfe performs the inverse of the exception-entry mode-stack shift.
func (c *Cpu) rfe() {
	c.sr = (c.sr &^ modeStackMask) | ((c.sr & modeStackMask) >> 2)
}
