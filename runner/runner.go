/*
 * PSX - Host run loop wrapping the CPU tick.
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

// Package runner gives the host a cancellable goroutine that free-runs
// the CPU without blocking whatever is driving it (the CLI or the
// monitor's command loop).
package runner

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/psx/cpu"
)

// Runner owns one free-running goroutine over a single Cpu. The core
// itself stays single-threaded and cooperative: Runner never calls Tick
// concurrently with anything else touching the Cpu.
type Runner struct {
	cpu *cpu.Cpu

	wg      sync.WaitGroup
	done    chan struct{}
	running bool
	mu      sync.Mutex
}

// New returns a Runner over c, not yet started.
func New(c *cpu.Cpu) *Runner {
	return &Runner{
		cpu:  c,
		done: make(chan struct{}),
	}
}

// Start runs the CPU in a goroutine until Stop is called. Safe to call
// once; a second call is a no-op.
func (r *Runner) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.loop()
}

func (r *Runner) loop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.done:
			slog.Info("runner: stopped")
			return
		default:
		}
		r.cpu.Tick()
	}
}

// Stop signals the run loop to exit and waits for it, up to one second.
func (r *Runner) Stop() {
	close(r.done)

	finished := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		slog.Warn("runner: timed out waiting for CPU goroutine to finish")
	}
}

// Step runs exactly n ticks synchronously on the caller's goroutine,
// for single-step use from the monitor. The Runner must not also be
// Start()-ed concurrently.
func (r *Runner) Step(n int) {
	for i := 0; i < n; i++ {
		r.cpu.Tick()
	}
}
