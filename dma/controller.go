/*
 * PSX - DMA controller: seven channels, CONTROL/INTERRUPT registers, and
 * the Manual/Request/LinkedList transfer engine.
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

package dma

import (
	"fmt"

	"github.com/rcornwell/psx/gpu"
)

// RamAccess is the slice of Ram's behavior the DMA engine needs. Kept as
// an interface (rather than importing the bus package directly) so bus
// can own both Ram and the DMA controller without a dependency cycle.
type RamAccess interface {
	Load32(offset uint32) uint32
	Store32(offset uint32, value uint32)
}

// GpuAccess is the slice of Gpu's behavior the DMA engine needs.
type GpuAccess interface {
	WriteGP0(word uint32)
	SetDmaDirection(dir gpu.DmaDirection)
}

const ramWrapMask = 0x001FFFFC // RAM wraps at 2 MiB, low two bits ignored

// INTERRUPT register bit layout.
const (
	maskDummyInt    = 0x3F
	bitForceIRQ     = 15
	shiftChanEnable = 16
	bitIrqEnable    = 23
	shiftChanFlags  = 24
	bitAggregate    = 31
)

// Controller owns the seven DMA channels and the shared CONTROL/INTERRUPT
// registers.
type Controller struct {
	Channels [numPorts]Channel

	control uint32 // reset 0x07654321

	irqEnable       bool
	channelIrqEnable [numPorts]bool
	channelIrqFlags  [numPorts]bool
	forceIrq        bool
	dummyInt        uint8
}

// New returns a freshly reset Controller.
func New() *Controller {
	c := &Controller{}
	c.Reset()
	return c
}

// Reset restores the controller's power-on state.
func (c *Controller) Reset() {
	*c = Controller{control: 0x07654321}
}

func decodeOffset(offset uint32) (major uint32, minor uint32) {
	return (offset & 0x70) >> 4, offset & 0xF
}

// Load32 reads a DMA register. offset is relative to the DMA range base.
func (c *Controller) Load32(offset uint32) uint32 {
	major, minor := decodeOffset(offset)
	if major == 7 {
		switch minor {
		case 0x0:
			return c.control
		case 0x4:
			return c.readInterrupt()
		default:
			return 0
		}
	}
	if major >= uint32(numPorts) {
		panic(fmt.Sprintf("dma: load from invalid channel major %d (offset %#x)", major, offset))
	}
	ch := &c.Channels[major]
	switch minor {
	case 0x0:
		return ch.ReadBase()
	case 0x4:
		return ch.ReadBlockControl()
	case 0x8:
		return ch.ReadControl()
	default:
		return 0
	}
}

// Store32 writes a DMA register and, if the write makes a channel active,
// runs its transfer to completion against ram/gpu before returning —
// transfers are synchronous from the CPU's point of view, with no
// interleaving between channels or with instruction execution.
func (c *Controller) Store32(offset uint32, value uint32, ram RamAccess, gp GpuAccess) {
	major, minor := decodeOffset(offset)
	if major == 7 {
		switch minor {
		case 0x0:
			c.control = value
		case 0x4:
			c.writeInterrupt(value)
		}
		return
	}
	if major >= uint32(numPorts) {
		panic(fmt.Sprintf("dma: store to invalid channel major %d (offset %#x)", major, offset))
	}
	ch := &c.Channels[major]
	switch minor {
	case 0x0:
		ch.WriteBase(value)
	case 0x4:
		ch.WriteBlockControl(value)
	case 0x8:
		ch.WriteControl(value)
		if ch.Active() {
			c.run(Port(major), ram, gp)
		}
	}
}

func (c *Controller) readInterrupt() uint32 {
	var v uint32
	v |= uint32(c.dummyInt) & maskDummyInt
	if c.forceIrq {
		v |= 1 << bitForceIRQ
	}
	for i := range numPorts {
		if c.channelIrqEnable[i] {
			v |= 1 << (shiftChanEnable + i)
		}
		if c.channelIrqFlags[i] {
			v |= 1 << (shiftChanFlags + i)
		}
	}
	if c.irqEnable {
		v |= 1 << bitIrqEnable
	}
	if c.aggregateIRQ() {
		v |= 1 << bitAggregate
	}
	return v
}

func (c *Controller) aggregateIRQ() bool {
	if c.forceIrq {
		return true
	}
	if !c.irqEnable {
		return false
	}
	for i := range numPorts {
		if c.channelIrqFlags[i] && c.channelIrqEnable[i] {
			return true
		}
	}
	return false
}

func (c *Controller) writeInterrupt(value uint32) {
	c.dummyInt = uint8(value & maskDummyInt)
	c.forceIrq = value&(1<<bitForceIRQ) != 0
	c.irqEnable = value&(1<<bitIrqEnable) != 0
	for i := range numPorts {
		c.channelIrqEnable[i] = value&(1<<(shiftChanEnable+i)) != 0
		// Channel IRQ flags are write-1-to-clear.
		if value&(1<<(shiftChanFlags+i)) != 0 {
			c.channelIrqFlags[i] = false
		}
	}
}

// run dispatches to the Manual/Request block engine or the LinkedList
// traversal, based on the channel's Sync mode.
func (c *Controller) run(port Port, ram RamAccess, gp GpuAccess) {
	ch := &c.Channels[port]
	switch ch.Sync {
	case SyncManual, SyncRequest:
		c.runBlock(port, ch, ram, gp)
	case SyncLinkedList:
		c.runLinkedList(port, ch, ram, gp)
	default:
		panic(fmt.Sprintf("dma: channel %s: reserved sync mode %d is not implemented by hardware", port, ch.Sync))
	}
}

// runBlock implements Manual and Request transfers: iterate the computed
// transfer size one word at a time, reading from or synthesizing into RAM
// depending on direction and port.
func (c *Controller) runBlock(port Port, ch *Channel, ram RamAccess, gp GpuAccess) {
	words, _ := ch.TransferSize()
	addr := ch.Base & ramWrapMask
	step := ch.AddressStep()

	if ch.Direction == FromRam && port == PortGpu {
		gp.SetDmaDirection(gpu.DirFromRam)
		defer gp.SetDmaDirection(gpu.DirNone)
	} else if ch.Direction == ToRam {
		gp.SetDmaDirection(gpu.DirToRam)
		defer gp.SetDmaDirection(gpu.DirNone)
	}

	remaining := words
	for remaining > 0 {
		curAddr := addr & ramWrapMask
		switch ch.Direction {
		case FromRam:
			word := ram.Load32(curAddr)
			c.deliver(port, word, gp)
		case ToRam:
			value := c.synthesize(port, addr, remaining)
			ram.Store32(curAddr, value)
		}
		addr = uint32(int64(addr) + int64(step))
		remaining--
	}
	ch.Done()
}

// deliver forwards a word read out of RAM to the target port. The GPU is
// the only port the DMA-visible transfer engine understands; any other
// FromRam target is a protocol violation this core does not model.
func (c *Controller) deliver(port Port, word uint32, gp GpuAccess) {
	switch port {
	case PortGpu:
		gp.WriteGP0(word)
	default:
		panic(fmt.Sprintf("dma: unhandled FromRam delivery to port %s", port))
	}
}

// synthesize produces the value a ToRam channel writes into RAM. Only the
// ordering-table-clear port is modeled; every other ToRam port is a fatal
// protocol violation.
func (c *Controller) synthesize(port Port, addr uint32, remaining uint32) uint32 {
	switch port {
	case PortOtc:
		if remaining == 1 {
			return 0x00FFFFFF
		}
		return (addr - 4) & 0x001FFFFF
	default:
		panic(fmt.Sprintf("dma: unhandled ToRam synthesis for port %s", port))
	}
}

// runLinkedList implements the GPU-only FromRam linked-list traversal.
func (c *Controller) runLinkedList(port Port, ch *Channel, ram RamAccess, gp GpuAccess) {
	if port != PortGpu || ch.Direction != FromRam {
		panic(fmt.Sprintf("dma: linked-list DMA only legal on GPU/FromRam, got %s dir=%v", port, ch.Direction))
	}

	gp.SetDmaDirection(gpu.DirFromRam)
	defer gp.SetDmaDirection(gpu.DirNone)

	addr := ch.Base & ramWrapMask
	for {
		header := ram.Load32(addr)
		count := header >> 24
		for range count {
			addr = (addr + 4) & ramWrapMask
			gp.WriteGP0(ram.Load32(addr))
		}
		if header&0x00800000 != 0 {
			break
		}
		addr = header & ramWrapMask
	}
	ch.Done()
}
