/*
 * PSX - Interactive debugger shell.
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

// Package monitor is a minimal liner-based debugger shell: step, dump
// registers and memory, set breakpoints, free-run, quit. It replaces the
// teacher's device-attach command grammar with the small vocabulary a
// CPU-only core needs.
package monitor

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/rcornwell/psx/bus"
	"github.com/rcornwell/psx/cpu"
	"github.com/rcornwell/psx/util/hex"
)

const prompt = "psx> "

// Monitor drives a Cpu/Bus pair from an interactive liner session.
type Monitor struct {
	cpu  *cpu.Cpu
	bus  *bus.Bus
	line *liner.State

	breakpoints map[uint32]bool
	running     bool
}

// New returns a Monitor over cpu/bus, with a fresh liner session.
func New(c *cpu.Cpu, b *bus.Bus) *Monitor {
	return &Monitor{
		cpu:         c,
		bus:         b,
		line:        liner.NewLiner(),
		breakpoints: make(map[uint32]bool),
	}
}

// Close releases the underlying liner session.
func (m *Monitor) Close() error {
	return m.line.Close()
}

// Run reads and dispatches commands until "quit" or EOF. If stdin is not
// a terminal, liner is left in its default (non-raw) mode.
func (m *Monitor) Run() {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		m.line.SetCtrlCAborts(true)
	}

	for {
		text, err := m.line.Prompt(prompt)
		if err != nil {
			if err == io.EOF {
				return
			}
			fmt.Fprintln(os.Stderr, "monitor:", err)
			return
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		m.line.AppendHistory(text)

		if m.dispatch(text) {
			return
		}
	}
}

// dispatch runs one command line; it returns true when the shell should
// exit.
func (m *Monitor) dispatch(text string) bool {
	fields := strings.Fields(text)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "quit", "exit":
		return true
	case "step":
		m.cmdStep(args)
	case "regs":
		m.cmdRegs()
	case "mem":
		m.cmdMem(args)
	case "break":
		m.cmdBreak(args)
	case "continue", "run":
		m.cmdContinue()
	case "script":
		m.cmdScript(args)
	default:
		fmt.Fprintf(os.Stderr, "monitor: unknown command %q\n", cmd)
	}
	return false
}

// cmdStep advances the CPU by n ticks (default 1), stopping early on a
// breakpoint hit, then prints the landing PC once.
func (m *Monitor) cmdStep(args []string) {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "monitor: bad step count %q\n", args[0])
			return
		}
		n = v
	}
	for i := 0; i < n; i++ {
		m.cpu.Tick()
		if m.breakpoints[m.cpu.PC()] {
			fmt.Printf("breakpoint hit at %#08x\n", m.cpu.PC())
			break
		}
	}
	fmt.Printf("pc=%#08x\n", m.cpu.PC())
}

// cmdRegs prints all 32 GPRs plus PC/HI/LO/SR/CAUSE/EPC/IP.
func (m *Monitor) cmdRegs() {
	var b strings.Builder
	regs := make([]uint32, 32)
	for i := range regs {
		regs[i] = m.cpu.Reg(uint32(i))
	}
	hex.FormatWord(&b, regs)
	fmt.Println(b.String())

	hi, lo := m.cpu.HiLo()
	fmt.Printf("pc=%#08x hi=%#08x lo=%#08x sr=%#08x cause=%#08x epc=%#08x ip=%d\n",
		m.cpu.PC(), hi, lo, m.cpu.Status(), m.cpu.Cause(), m.cpu.Epc(), m.cpu.IP())
}

// cmdMem dumps len bytes read through the bus starting at addr. addr is
// parsed as hex, with or without a leading "0x"; len is decimal.
func (m *Monitor) cmdMem(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "monitor: usage: mem <addr> <len>")
		return
	}
	addr, err := parseHex(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "monitor: bad address %q\n", args[0])
		return
	}
	length, err := strconv.Atoi(args[1])
	if err != nil || length < 0 {
		fmt.Fprintf(os.Stderr, "monitor: bad length %q\n", args[1])
		return
	}

	data := make([]byte, length)
	for i := 0; i < length; i++ {
		data[i] = m.bus.Load8(addr + uint32(i))
	}
	var b strings.Builder
	hex.FormatBytes(&b, true, data)
	fmt.Printf("%#08x: %s\n", addr, b.String())
}

// cmdBreak toggles a breakpoint address. With no args, it lists the
// currently set breakpoints.
func (m *Monitor) cmdBreak(args []string) {
	if len(args) == 0 {
		for addr := range m.breakpoints {
			fmt.Printf("%#08x\n", addr)
		}
		return
	}
	addr, err := parseHex(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "monitor: bad address %q\n", args[0])
		return
	}
	if m.breakpoints[addr] {
		delete(m.breakpoints, addr)
		fmt.Printf("cleared breakpoint at %#08x\n", addr)
	} else {
		m.breakpoints[addr] = true
		fmt.Printf("set breakpoint at %#08x\n", addr)
	}
}

// cmdContinue free-runs until a breakpoint is hit.
func (m *Monitor) cmdContinue() {
	for {
		m.cpu.Tick()
		if m.breakpoints[m.cpu.PC()] {
			fmt.Printf("breakpoint hit at %#08x\n", m.cpu.PC())
			return
		}
	}
}

func parseHex(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 32)
	return uint32(v), err
}
