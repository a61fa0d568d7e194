/*
 * PSX - GpuPort: the minimal GPU surface the DMA engine and bus need.
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

// Package gpu implements the opaque renderer surface the CPU bus and the
// DMA engine require: a status register and two command-word ports. The
// actual rasterizer is an external collaborator and out of scope here.
package gpu

// DmaDirection mirrors the two DMA transfer directions so the status
// register's DMA-request bit can be derived without importing the dma
// package (which itself imports this one).
type DmaDirection int

const (
	DirNone DmaDirection = iota
	DirToRam
	DirFromRam
)

const ringSize = 16

// Gpu is the minimal renderer-facing surface: a status word plus GP0/GP1
// command ports. It keeps a small ring of the most recent command words
// purely so a monitor/debugger can show "what was last sent" without the
// core needing any rendering capability.
type Gpu struct {
	statusConfig uint32 // display-configuration bits set by GP1 commands
	dmaDirection DmaDirection

	gp0Ring [ringSize]uint32
	gp0Next int
	gp1Ring [ringSize]uint32
	gp1Next int
}

// New returns a freshly reset Gpu stub.
func New() *Gpu {
	return &Gpu{}
}

// Status returns the 32-bit GPUSTAT word read at GPU offset 4: the
// display-configuration bits plus the three always-ready bits (26, 27, 28)
// and the DMA-request bit (25) derived from the current DMA direction.
func (g *Gpu) Status() uint32 {
	status := g.statusConfig
	status |= 1 << 26
	status |= 1 << 27
	status |= 1 << 28
	if g.readyForDma() {
		status |= 1 << 25
	}
	return status
}

func (g *Gpu) readyForDma() bool {
	switch g.dmaDirection {
	case DirToRam, DirFromRam:
		return true
	default:
		return false
	}
}

// SetDmaDirection records which way an active DMA transfer is moving data,
// so Status's bit 25 reflects it. Pass DirNone once the channel finishes.
func (g *Gpu) SetDmaDirection(dir DmaDirection) {
	g.dmaDirection = dir
}

// WriteGP0 forwards a GP0 drawing-command word to the renderer.
func (g *Gpu) WriteGP0(word uint32) {
	g.gp0Ring[g.gp0Next%ringSize] = word
	g.gp0Next++
}

// WriteGP1 forwards a GP1 control-command word to the renderer. A subset
// of GP1 commands (display mode, 0x08) feed back into the status word;
// the precedence trap the source had around "val & 0x4 != 0" is avoided
// here by parenthesizing explicitly.
func (g *Gpu) WriteGP1(word uint32) {
	g.gp1Ring[g.gp1Next%ringSize] = word
	g.gp1Next++

	switch word >> 24 {
	case 0x00: // reset GPU
		g.statusConfig = 0
	case 0x08: // display mode
		mode := word & 0x3F
		if (word & 0x40) != 0 {
			mode |= 1 << 6 // horizontal resolution 368 override
		}
		g.statusConfig = (g.statusConfig &^ 0xFF) | mode
	}
}

// LastGP0 returns the most recently forwarded GP0 words, oldest first,
// for monitor inspection.
func (g *Gpu) LastGP0() []uint32 {
	return g.lastOf(g.gp0Ring[:], g.gp0Next)
}

// LastGP1 returns the most recently forwarded GP1 words, oldest first.
func (g *Gpu) LastGP1() []uint32 {
	return g.lastOf(g.gp1Ring[:], g.gp1Next)
}

func (g *Gpu) lastOf(ring []uint32, next int) []uint32 {
	n := len(ring)
	if next < n {
		out := make([]uint32, next)
		copy(out, ring[:next])
		return out
	}
	out := make([]uint32, n)
	for i := range n {
		out[i] = ring[(next+i)%n]
	}
	return out
}
