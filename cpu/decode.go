/*
 * PSX - 32-bit instruction word field extraction.
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

// instruction is a decoded 32-bit MIPS R3000A word. Fields that do not
// apply to a given opcode are simply unused by its handler.
type instruction struct {
	word uint32

	op     uint32 // word[31:26]
	rs     uint32 // word[25:21]
	rt     uint32 // word[20:16]
	rd     uint32 // word[15:11]
	shamt  uint32 // word[10:6]
	funct  uint32 // word[5:0]
	imm    uint32 // word[15:0]
	immSE  uint32 // sign_extend(imm)
	target uint32 // word[25:0]
	copOp  uint32 // word[25:21], same bits as rs
}

func decode(word uint32) instruction {
	return instruction{
		word:   word,
		op:     (word >> 26) & 0x3F,
		rs:     (word >> 21) & 0x1F,
		rt:     (word >> 16) & 0x1F,
		rd:     (word >> 11) & 0x1F,
		shamt:  (word >> 6) & 0x1F,
		funct:  word & 0x3F,
		imm:    word & 0xFFFF,
		immSE:  signExtend16(uint16(word)),
		target: word & 0x03FFFFFF,
		copOp:  (word >> 21) & 0x1F,
	}
}

func signExtend16(v uint16) uint32 {
	return uint32(int32(int16(v)))
}
