/*
 * PSX - Opcode dispatch and the full R3000A instruction set used by the
 * BIOS: arithmetic, logic, shifts, loads/stores, branches, jumps,
 * multiply/divide, SYSCALL/BREAK and the Cop0 instructions.
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

import "fmt"

// execute is the primary opcode dispatch: a flat switch on op, with
// nested switches on funct (op==0) and copOp (op==0x10, COP0). This
// compiles to a jump table and needs no per-instruction function-pointer
// table.
func (c *Cpu) execute(i instruction) {
	switch i.op {
	case 0b000000:
		c.executeSpecial(i)
	case 0b000001:
		c.executeBcondZ(i)
	case 0b001111:
		c.opLUI(i)
	case 0b001101:
		c.opORI(i)
	case 0b001100:
		c.opANDI(i)
	case 0b001110:
		c.opXORI(i)
	case 0b001000:
		c.opADDI(i)
	case 0b001001:
		c.opADDIU(i)
	case 0b001010:
		c.opSLTI(i)
	case 0b001011:
		c.opSLTIU(i)
	case 0b100000:
		c.opLB(i)
	case 0b100100:
		c.opLBU(i)
	case 0b100001:
		c.opLH(i)
	case 0b100101:
		c.opLHU(i)
	case 0b100011:
		c.opLW(i)
	case 0b100010:
		c.opLWL(i)
	case 0b100110:
		c.opLWR(i)
	case 0b101000:
		c.opSB(i)
	case 0b101001:
		c.opSH(i)
	case 0b101011:
		c.opSW(i)
	case 0b101010:
		c.opSWL(i)
	case 0b101110:
		c.opSWR(i)
	case 0b000010:
		c.opJ(i)
	case 0b000011:
		c.opJAL(i)
	case 0b000100:
		c.opBEQ(i)
	case 0b000101:
		c.opBNE(i)
	case 0b000111:
		c.opBGTZ(i)
	case 0b000110:
		c.opBLEZ(i)
	case 0b010000:
		c.executeCop0(i)
	case 0b010001, 0b010011:
		c.raiseException(excCoprocessorError)
	case 0b010010:
		panic(fmt.Sprintf("cpu: COP2/GTE instruction unimplemented, word=%#08x pc=%#08x", i.word, c.currentPC))
	case 0b110000, 0b110001, 0b110010, 0b110011:
		c.lwc(i)
	case 0b111000, 0b111001, 0b111010, 0b111011:
		c.swc(i)
	default:
		c.raiseException(excIllegalInstruction)
	}
}

func (c *Cpu) executeSpecial(i instruction) {
	switch i.funct {
	case 0b000000:
		c.opSLL(i)
	case 0b000010:
		c.opSRL(i)
	case 0b000011:
		c.opSRA(i)
	case 0b000100:
		c.opSLLV(i)
	case 0b000110:
		c.opSRLV(i)
	case 0b000111:
		c.opSRAV(i)
	case 0b100000:
		c.opADD(i)
	case 0b100001:
		c.opADDU(i)
	case 0b100010:
		c.opSUB(i)
	case 0b100011:
		c.opSUBU(i)
	case 0b100100:
		c.opAND(i)
	case 0b100101:
		c.opOR(i)
	case 0b100110:
		c.opXOR(i)
	case 0b100111:
		c.opNOR(i)
	case 0b101010:
		c.opSLT(i)
	case 0b101011:
		c.opSLTU(i)
	case 0b011000:
		c.opMULT(i)
	case 0b011001:
		c.opMULTU(i)
	case 0b011010:
		c.opDIV(i)
	case 0b011011:
		c.opDIVU(i)
	case 0b010000:
		c.opMFHI(i)
	case 0b010001:
		c.opMTHI(i)
	case 0b010010:
		c.opMFLO(i)
	case 0b010011:
		c.opMTLO(i)
	case 0b001000:
		c.opJR(i)
	case 0b001001:
		c.opJALR(i)
	case 0b001100:
		c.opSYSCALL(i)
	case 0b001101:
		c.opBREAK(i)
	default:
		c.raiseException(excIllegalInstruction)
	}
}

// executeBcondZ handles the BGEZ/BLTZ/BGEZAL/BLTZAL family sharing
// opcode 0b000001. Bit 16 of rt selects BGEZ(1)/BLTZ(0); bits [20:17]
// == 0b1000 request an unconditional link into R31.
func (c *Cpu) executeBcondZ(i instruction) {
	isBGEZ := i.rt&0x1 != 0
	link := (i.rt>>1)&0xF == 0b1000

	value := int32(c.regs[i.rs])
	taken := (value < 0) != isBGEZ

	if link {
		c.setReg(31, c.pc+4)
	}
	if taken {
		c.branchTo(c.pc + (i.immSE << 2))
	}
}

func (c *Cpu) executeCop0(i instruction) {
	switch i.copOp {
	case 0b00000: // MFC0
		c.pending = pendingLoad{index: i.rt, value: c.mfc0(i.rd)}
	case 0b00100: // MTC0
		c.mtc0(i.rd, c.regs[i.rt])
	case 0b10000: // RFE
		c.rfe()
	default:
		c.raiseException(excIllegalInstruction)
	}
}

// lwc/swc: Cop2 (GTE) forms are unimplemented and fatal; Cop0/1/3 forms
// raise CoprocessorError like any other access to those coprocessors.
func (c *Cpu) lwc(i instruction) {
	if i.op == 0b110010 {
		panic(fmt.Sprintf("cpu: LWC2/GTE unimplemented, pc=%#08x", c.currentPC))
	}
	c.raiseException(excCoprocessorError)
}

func (c *Cpu) swc(i instruction) {
	if i.op == 0b111010 {
		panic(fmt.Sprintf("cpu: SWC2/GTE unimplemented, pc=%#08x", c.currentPC))
	}
	c.raiseException(excCoprocessorError)
}

// --- Immediate ALU ---

func (c *Cpu) opLUI(i instruction) {
	c.setReg(i.rt, i.imm<<16)
}

func (c *Cpu) opORI(i instruction) {
	c.setReg(i.rt, c.regs[i.rs]|i.imm)
}

func (c *Cpu) opANDI(i instruction) {
	c.setReg(i.rt, c.regs[i.rs]&i.imm)
}

func (c *Cpu) opXORI(i instruction) {
	c.setReg(i.rt, c.regs[i.rs]^i.imm)
}

func addOverflows(a, b int32) bool {
	sum := a + b
	return (a >= 0 && b >= 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0)
}

func subOverflows(a, b int32) bool {
	diff := a - b
	return (a >= 0 && b < 0 && diff < 0) || (a < 0 && b >= 0 && diff >= 0)
}

func (c *Cpu) opADDI(i instruction) {
	a := int32(c.regs[i.rs])
	b := int32(i.immSE)
	if addOverflows(a, b) {
		c.raiseException(excOverflow)
		return
	}
	c.setReg(i.rt, uint32(a+b))
}

func (c *Cpu) opADDIU(i instruction) {
	c.setReg(i.rt, c.regs[i.rs]+i.immSE)
}

func (c *Cpu) opSLTI(i instruction) {
	if int32(c.regs[i.rs]) < int32(i.immSE) {
		c.setReg(i.rt, 1)
	} else {
		c.setReg(i.rt, 0)
	}
}

func (c *Cpu) opSLTIU(i instruction) {
	if c.regs[i.rs] < i.immSE {
		c.setReg(i.rt, 1)
	} else {
		c.setReg(i.rt, 0)
	}
}

// --- Loads ---

func (c *Cpu) opLB(i instruction) {
	addr := c.regs[i.rs] + i.immSE
	value := uint32(int32(int8(c.bus.Load8(addr))))
	c.pending = pendingLoad{index: i.rt, value: value}
}

func (c *Cpu) opLBU(i instruction) {
	addr := c.regs[i.rs] + i.immSE
	c.pending = pendingLoad{index: i.rt, value: uint32(c.bus.Load8(addr))}
}

func (c *Cpu) opLH(i instruction) {
	addr := c.regs[i.rs] + i.immSE
	if addr&0x1 != 0 {
		c.raiseException(excLoadAddressError)
		return
	}
	value := uint32(int32(int16(c.bus.Load16(addr))))
	c.pending = pendingLoad{index: i.rt, value: value}
}

func (c *Cpu) opLHU(i instruction) {
	addr := c.regs[i.rs] + i.immSE
	if addr&0x1 != 0 {
		c.raiseException(excLoadAddressError)
		return
	}
	c.pending = pendingLoad{index: i.rt, value: uint32(c.bus.Load16(addr))}
}

func (c *Cpu) opLW(i instruction) {
	addr := c.regs[i.rs] + i.immSE
	if addr&0x3 != 0 {
		c.raiseException(excLoadAddressError)
		return
	}
	if c.cacheIsolated() {
		c.logUnhandled("LW ignored: cache isolated")
		return
	}
	c.pending = pendingLoad{index: i.rt, value: c.bus.Load32(addr)}
}

var lwlShift = [4]uint32{24, 16, 8, 0}
var lwlMask = [4]uint32{0x00FFFFFF, 0x0000FFFF, 0x000000FF, 0x00000000}

func (c *Cpu) opLWL(i instruction) {
	addr := c.regs[i.rs] + i.immSE
	aligned := addr &^ 0x3
	word := c.bus.Load32(aligned)
	cur := c.outRegs[i.rt]

	n := addr & 0x3
	merged := (cur & lwlMask[n]) | (word << lwlShift[n])
	c.pending = pendingLoad{index: i.rt, value: merged}
}

var lwrShift = [4]uint32{0, 8, 16, 24}
var lwrMask = [4]uint32{0x00000000, 0xFF000000, 0xFFFF0000, 0xFFFFFF00}

func (c *Cpu) opLWR(i instruction) {
	addr := c.regs[i.rs] + i.immSE
	aligned := addr &^ 0x3
	word := c.bus.Load32(aligned)
	cur := c.outRegs[i.rt]

	n := addr & 0x3
	merged := (cur & lwrMask[n]) | (word >> lwrShift[n])
	c.pending = pendingLoad{index: i.rt, value: merged}
}

// --- Stores ---

func (c *Cpu) opSB(i instruction) {
	if c.cacheIsolated() {
		return
	}
	addr := c.regs[i.rs] + i.immSE
	c.bus.Store8(addr, uint8(c.regs[i.rt]))
}

func (c *Cpu) opSH(i instruction) {
	if c.cacheIsolated() {
		return
	}
	addr := c.regs[i.rs] + i.immSE
	if addr&0x1 != 0 {
		c.raiseException(excStoreAddressError)
		return
	}
	c.bus.Store16(addr, uint16(c.regs[i.rt]))
}

func (c *Cpu) opSW(i instruction) {
	if c.cacheIsolated() {
		return
	}
	addr := c.regs[i.rs] + i.immSE
	if addr&0x3 != 0 {
		c.raiseException(excStoreAddressError)
		return
	}
	c.bus.Store32(addr, c.regs[i.rt])
}

// swlKeep/swrKeep are the memory-side masks mirroring lwlMask/lwrMask:
// SWL/SWR overwrite the bytes of RAM that LWL/LWR would have replaced in
// the register, and keep the rest of RAM's word intact.
var swlKeep = [4]uint32{0xFFFFFF00, 0xFFFF0000, 0xFF000000, 0x00000000}
var swrKeep = [4]uint32{0x00000000, 0x000000FF, 0x0000FFFF, 0x00FFFFFF}

func (c *Cpu) opSWL(i instruction) {
	if c.cacheIsolated() {
		return
	}
	addr := c.regs[i.rs] + i.immSE
	aligned := addr &^ 0x3
	cur := c.bus.Load32(aligned)
	value := c.regs[i.rt]

	n := addr & 0x3
	merged := (cur & swlKeep[n]) | (value >> lwlShift[n])
	c.bus.Store32(aligned, merged)
}

func (c *Cpu) opSWR(i instruction) {
	if c.cacheIsolated() {
		return
	}
	addr := c.regs[i.rs] + i.immSE
	aligned := addr &^ 0x3
	cur := c.bus.Load32(aligned)
	value := c.regs[i.rt]

	n := addr & 0x3
	merged := (cur & swrKeep[n]) | (value << lwrShift[n])
	c.bus.Store32(aligned, merged)
}

// --- Jumps / branches ---

func (c *Cpu) opJ(i instruction) {
	c.branchTo((c.pc & 0xF0000000) | (i.target << 2))
}

func (c *Cpu) opJAL(i instruction) {
	c.setReg(31, c.pc+4)
	c.branchTo((c.pc & 0xF0000000) | (i.target << 2))
}

func (c *Cpu) opJR(i instruction) {
	c.branchTo(c.regs[i.rs])
}

func (c *Cpu) opJALR(i instruction) {
	dest := c.regs[i.rs]
	c.setReg(i.rd, c.pc+4)
	c.branchTo(dest)
}

func (c *Cpu) opBEQ(i instruction) {
	if c.regs[i.rs] == c.regs[i.rt] {
		c.branchTo(c.pc + (i.immSE << 2))
	}
}

func (c *Cpu) opBNE(i instruction) {
	if c.regs[i.rs] != c.regs[i.rt] {
		c.branchTo(c.pc + (i.immSE << 2))
	}
}

func (c *Cpu) opBGTZ(i instruction) {
	if int32(c.regs[i.rs]) > 0 {
		c.branchTo(c.pc + (i.immSE << 2))
	}
}

func (c *Cpu) opBLEZ(i instruction) {
	if int32(c.regs[i.rs]) <= 0 {
		c.branchTo(c.pc + (i.immSE << 2))
	}
}

// --- Shifts ---

func (c *Cpu) opSLL(i instruction) {
	c.setReg(i.rd, c.regs[i.rt]<<i.shamt)
}

func (c *Cpu) opSRL(i instruction) {
	c.setReg(i.rd, c.regs[i.rt]>>i.shamt)
}

func (c *Cpu) opSRA(i instruction) {
	c.setReg(i.rd, uint32(int32(c.regs[i.rt])>>i.shamt))
}

func (c *Cpu) opSLLV(i instruction) {
	c.setReg(i.rd, c.regs[i.rt]<<(c.regs[i.rs]&0x1F))
}

func (c *Cpu) opSRLV(i instruction) {
	c.setReg(i.rd, c.regs[i.rt]>>(c.regs[i.rs]&0x1F))
}

func (c *Cpu) opSRAV(i instruction) {
	c.setReg(i.rd, uint32(int32(c.regs[i.rt])>>(c.regs[i.rs]&0x1F)))
}

// --- Register ALU ---

func (c *Cpu) opADD(i instruction) {
	a := int32(c.regs[i.rs])
	b := int32(c.regs[i.rt])
	if addOverflows(a, b) {
		c.raiseException(excOverflow)
		return
	}
	c.setReg(i.rd, uint32(a+b))
}

func (c *Cpu) opADDU(i instruction) {
	c.setReg(i.rd, c.regs[i.rs]+c.regs[i.rt])
}

func (c *Cpu) opSUB(i instruction) {
	a := int32(c.regs[i.rs])
	b := int32(c.regs[i.rt])
	if subOverflows(a, b) {
		c.raiseException(excOverflow)
		return
	}
	c.setReg(i.rd, uint32(a-b))
}

func (c *Cpu) opSUBU(i instruction) {
	c.setReg(i.rd, c.regs[i.rs]-c.regs[i.rt])
}

func (c *Cpu) opAND(i instruction) {
	c.setReg(i.rd, c.regs[i.rs]&c.regs[i.rt])
}

func (c *Cpu) opOR(i instruction) {
	c.setReg(i.rd, c.regs[i.rs]|c.regs[i.rt])
}

func (c *Cpu) opXOR(i instruction) {
	c.setReg(i.rd, c.regs[i.rs]^c.regs[i.rt])
}

func (c *Cpu) opNOR(i instruction) {
	c.setReg(i.rd, ^(c.regs[i.rs] | c.regs[i.rt]))
}

func (c *Cpu) opSLT(i instruction) {
	if int32(c.regs[i.rs]) < int32(c.regs[i.rt]) {
		c.setReg(i.rd, 1)
	} else {
		c.setReg(i.rd, 0)
	}
}

func (c *Cpu) opSLTU(i instruction) {
	if c.regs[i.rs] < c.regs[i.rt] {
		c.setReg(i.rd, 1)
	} else {
		c.setReg(i.rd, 0)
	}
}

// --- Multiply / divide ---

func (c *Cpu) opMULT(i instruction) {
	a := int64(int32(c.regs[i.rs]))
	b := int64(int32(c.regs[i.rt]))
	result := uint64(a * b)
	c.hi = uint32(result >> 32)
	c.lo = uint32(result)
}

func (c *Cpu) opMULTU(i instruction) {
	result := uint64(c.regs[i.rs]) * uint64(c.regs[i.rt])
	c.hi = uint32(result >> 32)
	c.lo = uint32(result)
}

func (c *Cpu) opDIV(i instruction) {
	n := int32(c.regs[i.rs])
	d := int32(c.regs[i.rt])

	switch {
	case d == 0:
		c.hi = uint32(n)
		if n >= 0 {
			c.lo = 0xFFFFFFFF
		} else {
			c.lo = 1
		}
	case n == math32MinInt && d == -1:
		c.hi = 0
		c.lo = 0x80000000
	default:
		c.hi = uint32(n % d)
		c.lo = uint32(n / d)
	}
}

const math32MinInt = int32(-2147483648)

func (c *Cpu) opDIVU(i instruction) {
	n := c.regs[i.rs]
	d := c.regs[i.rt]
	if d == 0 {
		c.hi = n
		c.lo = 0xFFFFFFFF
		return
	}
	c.hi = n % d
	c.lo = n / d
}

func (c *Cpu) opMFHI(i instruction) {
	c.setReg(i.rd, c.hi)
}

func (c *Cpu) opMTHI(i instruction) {
	c.hi = c.regs[i.rs]
}

func (c *Cpu) opMFLO(i instruction) {
	c.setReg(i.rd, c.lo)
}

func (c *Cpu) opMTLO(i instruction) {
	c.lo = c.regs[i.rs]
}

// --- System ---

func (c *Cpu) opSYSCALL(i instruction) {
	c.raiseException(excSysCall)
}

func (c *Cpu) opBREAK(i instruction) {
	c.raiseException(excBreak)
}
