/*
 * PSX - 512 KiB read-only BIOS image.
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

import "fmt"

// BiosSize is the required exact size of a BIOS image.
const BiosSize = 0x00080000

// Bios is the immutable 512 KiB read-only boot ROM.
type Bios struct {
	data [BiosSize]byte
}

// NewBios copies image into a new Bios. It refuses to start if the size
// mismatches.
func NewBios(image []byte) (*Bios, error) {
	if len(image) != BiosSize {
		return nil, fmt.Errorf("bios: expected %d bytes, got %d", BiosSize, len(image))
	}
	b := &Bios{}
	copy(b.data[:], image)
	return b, nil
}

func (b *Bios) Load8(offset uint32) uint8 {
	return b.data[offset]
}

func (b *Bios) Load32(offset uint32) uint32 {
	return uint32(b.data[offset]) |
		uint32(b.data[offset+1])<<8 |
		uint32(b.data[offset+2])<<16 |
		uint32(b.data[offset+3])<<24
}
