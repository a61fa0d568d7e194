/*
 * PSX - Entry point: flags, config, logging, and either free-run or the
 * interactive monitor.
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

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/psx/bus"
	"github.com/rcornwell/psx/config"
	"github.com/rcornwell/psx/cpu"
	"github.com/rcornwell/psx/monitor"
	"github.com/rcornwell/psx/runner"
	"github.com/rcornwell/psx/util/logger"
)

func main() {
	biosPath := getopt.StringLong("bios", 'b', "", "path to the 512 KiB BIOS image")
	configPath := getopt.StringLong("config", 'c', "", "path to a config file")
	logPath := getopt.StringLong("log", 'l', "", "path to a log file")
	interactive := getopt.BoolLong("interactive", 'i', "drop into the interactive monitor")
	help := getopt.BoolLong("help", 'h', "print usage and exit")
	getopt.Parse()

	if *help {
		getopt.Usage()
		os.Exit(0)
	}

	cfg := config.Config{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "psx:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// CLI flags override config file values.
	if *biosPath != "" {
		cfg.Bios = *biosPath
	}
	if *logPath != "" {
		cfg.LogFile = *logPath
	}

	setupLogging(cfg)

	if cfg.Bios == "" {
		fmt.Fprintln(os.Stderr, "psx: a BIOS image is required (-b/--bios or config 'bios =')")
		os.Exit(1)
	}

	biosImage, err := os.ReadFile(cfg.Bios)
	if err != nil {
		slog.Error("psx: unable to read BIOS image", "path", cfg.Bios, "error", err)
		os.Exit(1)
	}

	biosDevice, err := bus.NewBios(biosImage)
	if err != nil {
		slog.Error("psx: invalid BIOS image", "path", cfg.Bios, "error", err)
		os.Exit(1)
	}

	theBus := bus.New(biosDevice)
	theCPU := cpu.New(theBus)

	if *interactive {
		mon := monitor.New(theCPU, theBus)
		defer mon.Close()
		mon.Run()
		return
	}

	r := runner.New(theCPU)
	r.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	slog.Info("psx: shutting down")
	r.Stop()
}

func setupLogging(cfg config.Config) {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var logFile io.Writer
	if cfg.LogFile != "" {
		f, err := os.Create(cfg.LogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "psx: unable to create log file:", err)
			os.Exit(1)
		}
		logFile = f
	}

	debug := level == slog.LevelDebug
	handler := logger.NewHandler(logFile, &slog.HandlerOptions{Level: level}, &debug)
	slog.SetDefault(slog.New(handler))
}
