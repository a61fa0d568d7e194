/*
 * PSX - Lua scripting hook for the monitor.
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

package monitor

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"
)

// runScript loads and executes a Lua file against the monitor's cpu/bus,
// for scripted boot-sequence smoke checks without recompiling Go.
// Exposes four globals to the script: cpu_tick(), cpu_reg(n), cpu_pc(),
// bus_peek(addr).
func (m *Monitor) runScript(path string) error {
	l := lua.NewState()
	defer l.Close()

	l.SetGlobal("cpu_tick", l.NewFunction(func(ls *lua.LState) int {
		m.cpu.Tick()
		return 0
	}))
	l.SetGlobal("cpu_reg", l.NewFunction(func(ls *lua.LState) int {
		n := uint32(ls.CheckNumber(1))
		ls.Push(lua.LNumber(m.cpu.Reg(n)))
		return 1
	}))
	l.SetGlobal("cpu_pc", l.NewFunction(func(ls *lua.LState) int {
		ls.Push(lua.LNumber(m.cpu.PC()))
		return 1
	}))
	l.SetGlobal("bus_peek", l.NewFunction(func(ls *lua.LState) int {
		addr := uint32(ls.CheckNumber(1))
		ls.Push(lua.LNumber(m.bus.Load32(addr)))
		return 1
	}))

	return l.DoFile(path)
}

// cmdScript runs a Lua script file, per the "script <file>" command.
func (m *Monitor) cmdScript(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "monitor: usage: script <file>")
		return
	}
	if err := m.runScript(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "monitor: script error: %v\n", err)
	}
}
