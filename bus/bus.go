/*
 * PSX - Bus: address decoding and device dispatch for all CPU accesses.
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

// Package bus implements the address-decoding memory bus that multiplexes
// CPU accesses across RAM, the boot ROM, I/O registers and device ports.
package bus

import (
	"fmt"
	"log/slog"

	"github.com/rcornwell/psx/dma"
	"github.com/rcornwell/psx/gpu"
)

// Bus exclusively owns Ram, Bios, the DMA controller, and the GPU stub.
// The CPU holds a non-owning reference to a Bus for the duration of
// execution.
type Bus struct {
	Ram  *Ram
	Bios *Bios
	Dma  *dma.Controller
	Gpu  *gpu.Gpu
}

// New builds a Bus over a freshly reset Ram, the supplied Bios image, a
// reset DMA controller and a reset GPU stub.
func New(bios *Bios) *Bus {
	return &Bus{
		Ram:  NewRam(),
		Bios: bios,
		Dma:  dma.New(),
		Gpu:  gpu.New(),
	}
}

func fatalUnmapped(op string, addr uint32) {
	panic(fmt.Sprintf("bus: unmapped %s address %#08x", op, addr))
}

// Load32 dispatches a 32-bit load: RAM, BIOS, IRQ_CONTROL (stub 0), DMA,
// GPU (status at offset 4), TIMERS (stub 0). Unmatched is fatal.
func (b *Bus) Load32(addr uint32) uint32 {
	phys := MaskRegion(addr)

	if off, ok := RangeRAM.Contains(phys); ok {
		return b.Ram.Load32(off)
	}
	if off, ok := RangeBIOS.Contains(phys); ok {
		return b.Bios.Load32(off)
	}
	if _, ok := RangeIRQControl.Contains(phys); ok {
		return 0
	}
	if off, ok := RangeDMA.Contains(phys); ok {
		return b.Dma.Load32(off)
	}
	if off, ok := RangeGPU.Contains(phys); ok {
		if off == 4 {
			return b.Gpu.Status()
		}
		return 0
	}
	if _, ok := RangeTimers.Contains(phys); ok {
		return 0
	}
	fatalUnmapped("load32", addr)
	return 0
}

// Store32 dispatches a 32-bit store: RAM, MEM_CONTROL (logged unless the
// expected value), RAM_SIZE (ignored), CACHE_CONTROL (ignored, matched
// unmasked), IRQ_CONTROL (logged), DMA, GPU (GP0 at offset 0, GP1 at
// offset 4), TIMERS (ignored). There is no BIOS store range. Unmatched is
// fatal.
func (b *Bus) Store32(addr uint32, value uint32) {
	phys := MaskRegion(addr)

	if off, ok := RangeRAM.Contains(phys); ok {
		b.Ram.Store32(off, value)
		return
	}
	if off, ok := RangeMemControl.Contains(phys); ok {
		switch off {
		case 0:
			if value != 0x1F000000 {
				slog.Debug("bus: unexpected MEM_CONTROL[0] write", "value", fmt.Sprintf("%#x", value))
			}
		case 4:
			if value != 0x1F802000 {
				slog.Debug("bus: unexpected MEM_CONTROL[4] write", "value", fmt.Sprintf("%#x", value))
			}
		default:
			slog.Debug("bus: MEM_CONTROL write", "offset", off, "value", fmt.Sprintf("%#x", value))
		}
		return
	}
	if _, ok := RangeRAMSize.Contains(phys); ok {
		return
	}
	if _, ok := RangeCacheControl.Contains(addr); ok { // CACHE_CONTROL is unmasked
		return
	}
	if _, ok := RangeIRQControl.Contains(phys); ok {
		slog.Debug("bus: IRQ_CONTROL write", "value", fmt.Sprintf("%#x", value))
		return
	}
	if off, ok := RangeDMA.Contains(phys); ok {
		b.Dma.Store32(off, value, b.Ram, b.Gpu)
		return
	}
	if off, ok := RangeGPU.Contains(phys); ok {
		switch off {
		case 0:
			b.Gpu.WriteGP0(value)
		case 4:
			b.Gpu.WriteGP1(value)
		}
		return
	}
	if _, ok := RangeTimers.Contains(phys); ok {
		return
	}
	fatalUnmapped("store32", addr)
}

// Load16 dispatches a 16-bit load: RAM, SPU (stub 0), TIMERS (stub 0),
// IRQ_CONTROL (stub 0). Unmatched is fatal.
func (b *Bus) Load16(addr uint32) uint16 {
	phys := MaskRegion(addr)

	if off, ok := RangeRAM.Contains(phys); ok {
		return b.Ram.Load16(off)
	}
	if _, ok := RangeSPU.Contains(phys); ok {
		return 0
	}
	if _, ok := RangeTimers.Contains(phys); ok {
		return 0
	}
	if _, ok := RangeIRQControl.Contains(phys); ok {
		return 0
	}
	fatalUnmapped("load16", addr)
	return 0
}

// Store16 dispatches a 16-bit store. See Load16 for the probe order.
func (b *Bus) Store16(addr uint32, value uint16) {
	phys := MaskRegion(addr)

	if off, ok := RangeRAM.Contains(phys); ok {
		b.Ram.Store16(off, value)
		return
	}
	if _, ok := RangeSPU.Contains(phys); ok {
		return
	}
	if _, ok := RangeTimers.Contains(phys); ok {
		return
	}
	if _, ok := RangeIRQControl.Contains(phys); ok {
		return
	}
	fatalUnmapped("store16", addr)
}

// Load8 dispatches an 8-bit load: RAM, BIOS, EXPANSION_1 (stub 0xFF).
// Unmatched is fatal.
func (b *Bus) Load8(addr uint32) uint8 {
	phys := MaskRegion(addr)

	if off, ok := RangeRAM.Contains(phys); ok {
		return b.Ram.Load8(off)
	}
	if off, ok := RangeBIOS.Contains(phys); ok {
		return b.Bios.Load8(off)
	}
	if _, ok := RangeExpansion1.Contains(phys); ok {
		return 0xFF
	}
	fatalUnmapped("load8", addr)
	return 0
}

// Store8 dispatches an 8-bit store: RAM, EXPANSION_2 (logged). Unmatched
// is fatal. BIOS never registers a matching store range, so a store
// reaching it is fatal, not silently dropped.
func (b *Bus) Store8(addr uint32, value uint8) {
	phys := MaskRegion(addr)

	if off, ok := RangeRAM.Contains(phys); ok {
		b.Ram.Store8(off, value)
		return
	}
	if _, ok := RangeExpansion2.Contains(phys); ok {
		slog.Debug("bus: EXPANSION_2 write", "addr", fmt.Sprintf("%#x", addr), "value", fmt.Sprintf("%#x", value))
		return
	}
	fatalUnmapped("store8", addr)
}
