/*
 * PSX - Per-channel DMA register file and derived state.
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

// Port identifies one of the seven fixed DMA channels, in register order.
type Port int

const (
	PortMdecIn Port = iota
	PortMdecOut
	PortGpu
	PortCdRom
	PortSpu
	PortPio
	PortOtc
	numPorts
)

var portNames = [numPorts]string{
	PortMdecIn:  "MDECin",
	PortMdecOut: "MDECout",
	PortGpu:     "GPU",
	PortCdRom:   "CDROM",
	PortSpu:     "SPU",
	PortPio:     "PIO",
	PortOtc:     "OTC",
}

func (p Port) String() string {
	if p < 0 || p >= numPorts {
		return "?"
	}
	return portNames[p]
}

// Direction is the per-channel data direction.
type Direction int

const (
	ToRam Direction = iota
	FromRam
)

// Step is the per-word address increment direction.
type Step int

const (
	Increment Step = iota
	Decrement
)

// Sync selects which rule governs when a channel actually moves data.
type Sync int

const (
	SyncManual Sync = iota
	SyncRequest
	SyncLinkedList
)

// CHANNEL_CONTROL bit positions.
const (
	bitDirection  = 0
	bitStep       = 1
	bitChop       = 8
	shiftSync     = 9
	maskSync      = 0x3
	shiftChopDma  = 16
	maskChopSz    = 0x7
	shiftChopCpu  = 20
	bitEnable     = 24
	bitTrigger    = 28
	shiftDummyCtl = 29
	maskDummyCtl  = 0x3
)

// Channel is one of the seven DMA channels' register file plus derived
// state.
type Channel struct {
	Enable    bool
	Direction Direction
	Step      Step
	Sync      Sync
	Trigger   bool
	Chop      bool
	ChopDmaSz uint8
	ChopCpuSz uint8
	Base      uint32 // 24-bit RAM address
	BlockSize uint16
	BlockCount uint16

	dummyCtl uint8 // bits [30:29] of CHANNEL_CONTROL, preserved verbatim
}

// Active reports whether the channel is eligible to run a transfer right
// now: enabled, and either not Manual-synced or explicitly triggered.
func (c *Channel) Active() bool {
	return c.Enable && (c.Sync != SyncManual || c.Trigger)
}

// Done clears Enable and Trigger once a transfer completes.
func (c *Channel) Done() {
	c.Enable = false
	c.Trigger = false
}

// Base register (offset 0x0): 24-bit RAM address.
func (c *Channel) ReadBase() uint32 {
	return c.Base & 0x00FFFFFF
}

func (c *Channel) WriteBase(value uint32) {
	c.Base = value & 0x00FFFFFF
}

// Block control register (offset 0x4): low 16 = block size, high 16 = count.
func (c *Channel) ReadBlockControl() uint32 {
	return uint32(c.BlockSize) | uint32(c.BlockCount)<<16
}

func (c *Channel) WriteBlockControl(value uint32) {
	c.BlockSize = uint16(value)
	c.BlockCount = uint16(value >> 16)
}

// ReadControl reads the CHANNEL_CONTROL register (offset 0x8).
func (c *Channel) ReadControl() uint32 {
	var v uint32
	if c.Direction == FromRam {
		v |= 1 << bitDirection
	}
	if c.Step == Decrement {
		v |= 1 << bitStep
	}
	if c.Chop {
		v |= 1 << bitChop
	}
	v |= uint32(c.Sync&maskSync) << shiftSync
	v |= uint32(c.ChopDmaSz&maskChopSz) << shiftChopDma
	v |= uint32(c.ChopCpuSz&maskChopSz) << shiftChopCpu
	if c.Enable {
		v |= 1 << bitEnable
	}
	if c.Trigger {
		v |= 1 << bitTrigger
	}
	v |= uint32(c.dummyCtl&maskDummyCtl) << shiftDummyCtl
	return v
}

// WriteControl writes CHANNEL_CONTROL. It returns nothing; the caller
// (the controller) checks Active afterwards to decide whether to kick off
// a transfer.
func (c *Channel) WriteControl(value uint32) {
	if value&(1<<bitDirection) != 0 {
		c.Direction = FromRam
	} else {
		c.Direction = ToRam
	}
	if value&(1<<bitStep) != 0 {
		c.Step = Decrement
	} else {
		c.Step = Increment
	}
	c.Chop = value&(1<<bitChop) != 0
	c.Sync = Sync((value >> shiftSync) & maskSync)
	c.ChopDmaSz = uint8((value >> shiftChopDma) & maskChopSz)
	c.ChopCpuSz = uint8((value >> shiftChopCpu) & maskChopSz)
	c.Enable = value&(1<<bitEnable) != 0
	c.Trigger = value&(1<<bitTrigger) != 0
	c.dummyCtl = uint8((value >> shiftDummyCtl) & maskDummyCtl)
}

// TransferSize returns the word count for Manual/Request sync, and
// ok=false for LinkedList (whose length is discovered while traversing
// RAM, not known up front).
func (c *Channel) TransferSize() (words uint32, ok bool) {
	switch c.Sync {
	case SyncManual:
		size := uint32(c.BlockSize)
		if size == 0 {
			size = 0x10000
		}
		return size, true
	case SyncRequest:
		return uint32(c.BlockSize) * uint32(c.BlockCount), true
	case SyncLinkedList:
		return 0, false
	default:
		return 0, true
	}
}

// AddressStep returns the signed per-word address delta implied by Step.
func (c *Channel) AddressStep() int32 {
	if c.Step == Decrement {
		return -4
	}
	return 4
}
