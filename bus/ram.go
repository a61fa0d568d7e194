/*
 * PSX - 2 MiB main RAM, little-endian byte array.
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

// Ram is the flat 2 MiB little-endian main memory.
type Ram struct {
	data [0x00200000]byte
}

// NewRam returns a zero-initialized Ram.
func NewRam() *Ram {
	return &Ram{}
}

func (r *Ram) Load8(offset uint32) uint8 {
	return r.data[offset]
}

func (r *Ram) Load16(offset uint32) uint16 {
	return uint16(r.data[offset]) | uint16(r.data[offset+1])<<8
}

func (r *Ram) Load32(offset uint32) uint32 {
	return uint32(r.data[offset]) |
		uint32(r.data[offset+1])<<8 |
		uint32(r.data[offset+2])<<16 |
		uint32(r.data[offset+3])<<24
}

func (r *Ram) Store8(offset uint32, value uint8) {
	r.data[offset] = value
}

func (r *Ram) Store16(offset uint32, value uint16) {
	r.data[offset] = byte(value)
	r.data[offset+1] = byte(value >> 8)
}

func (r *Ram) Store32(offset uint32, value uint32) {
	r.data[offset] = byte(value)
	r.data[offset+1] = byte(value >> 8)
	r.data[offset+2] = byte(value >> 16)
	r.data[offset+3] = byte(value >> 24)
}
