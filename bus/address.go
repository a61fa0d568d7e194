/*
 * PSX - Physical address map and KSEG region masking.
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

package bus

// Range is a half-open [Base, Base+Size) physical address window.
type Range struct {
	Base uint32
	Size uint32
}

// Contains returns the offset of addr within r, or ok=false if addr falls
// outside the range.
func (r Range) Contains(addr uint32) (offset uint32, ok bool) {
	if addr < r.Base || addr >= r.Base+r.Size {
		return 0, false
	}
	return addr - r.Base, true
}

// Fixed address ranges, bit-exact per the address map.
var (
	RangeRAM          = Range{Base: 0x00000000, Size: 0x00200000}
	RangeExpansion1   = Range{Base: 0x1F000000, Size: 0x00080000}
	RangeMemControl   = Range{Base: 0x1F801000, Size: 36}
	RangeRAMSize      = Range{Base: 0x1F801060, Size: 4}
	RangeIRQControl   = Range{Base: 0x1F801070, Size: 8}
	RangeDMA          = Range{Base: 0x1F801080, Size: 0x80}
	RangeTimers       = Range{Base: 0x1F801100, Size: 0x30}
	RangeSPU          = Range{Base: 0x1F801C00, Size: 640}
	RangeExpansion2   = Range{Base: 0x1F802000, Size: 66}
	RangeGPU          = Range{Base: 0x1F801810, Size: 8}
	RangeBIOS         = Range{Base: 0x1FC00000, Size: 0x00080000}
	RangeCacheControl = Range{Base: 0xFFFE0130, Size: 4} // unmasked
)

// regionMask is indexed by addr>>29 and folds KUSEG/KSEG0/KSEG1 into one
// physical view while leaving KSEG2 intact.
var regionMask = [8]uint32{
	0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF,
	0x7FFFFFFF,
	0x1FFFFFFF,
	0xFFFFFFFF, 0xFFFFFFFF,
}

// MaskRegion folds a KUSEG/KSEG0/KSEG1/KSEG2 virtual address down to its
// physical equivalent.
func MaskRegion(addr uint32) uint32 {
	return addr & regionMask[addr>>29]
}
