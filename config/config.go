/*
 * PSX - Configuration file parser.
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

// Package config loads the small key = value configuration file accepted
// by the PSX core: a bios path, a log level and an optional log file.
//
// Format:
//
//	'#' starts a comment, rest of line ignored.
//	<line> := <key> '=' <quoteopt>
//	<quoteopt> ::= <string> | '"' *(<letter> | <whitespace>) '"'
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// Config holds the values a config file (or CLI override) may set.
type Config struct {
	Bios     string
	LogLevel string
	LogFile  string
}

// line is the scanner state for one input line, tracking the read position
// as parse() walks it. Syntax errors name the line number (added by Load),
// not a column.
type line struct {
	text string
	pos  int
}

// Load reads a config file and returns the values it sets. Unknown keys
// are a hard parse error; an absent file value is left as "" for the
// caller to fall back to a default or a CLI flag.
func Load(name string) (Config, error) {
	var cfg Config

	file, err := os.Open(name)
	if err != nil {
		return cfg, err
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	lineNumber := 0
	for {
		text, err := reader.ReadString('\n')
		lineNumber++
		if len(text) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return cfg, err
		}

		l := line{text: text}
		key, value, ok, perr := l.parse()
		if perr != nil {
			return cfg, fmt.Errorf("config: line %d: %w", lineNumber, perr)
		}
		if !ok {
			continue
		}

		switch strings.ToLower(key) {
		case "bios":
			cfg.Bios = value
		case "loglevel":
			cfg.LogLevel = value
		case "logfile":
			cfg.LogFile = value
		default:
			return cfg, fmt.Errorf("config: line %d: unknown key %q", lineNumber, key)
		}

		if err != nil && errors.Is(err, io.EOF) {
			break
		}
	}
	return cfg, nil
}

func (l *line) skipSpace() {
	for l.pos < len(l.text) && unicode.IsSpace(rune(l.text[l.pos])) {
		l.pos++
	}
}

func (l *line) isEOL() bool {
	return l.pos >= len(l.text) || l.text[l.pos] == '#'
}

// parse extracts a single key = value pair. ok is false for a blank or
// comment-only line.
func (l *line) parse() (key string, value string, ok bool, err error) {
	l.skipSpace()
	if l.isEOL() {
		return "", "", false, nil
	}

	start := l.pos
	for !l.isEOL() && l.text[l.pos] != '=' && !unicode.IsSpace(rune(l.text[l.pos])) {
		l.pos++
	}
	key = l.text[start:l.pos]
	if key == "" {
		return "", "", false, fmt.Errorf("expected key, found %q", l.text)
	}

	l.skipSpace()
	if l.isEOL() || l.text[l.pos] != '=' {
		return "", "", false, fmt.Errorf("key %q not followed by '='", key)
	}
	l.pos++
	l.skipSpace()

	value, err = l.quoted()
	if err != nil {
		return "", "", false, err
	}
	return key, value, true, nil
}

// quoted reads a bare or double-quoted value through end of line.
func (l *line) quoted() (string, error) {
	if l.isEOL() {
		return "", nil
	}
	if l.text[l.pos] != '"' {
		start := l.pos
		for !l.isEOL() {
			l.pos++
		}
		return strings.TrimRight(l.text[start:l.pos], " \t\r\n"), nil
	}

	l.pos++ // skip opening quote
	start := l.pos
	for l.pos < len(l.text) && l.text[l.pos] != '"' {
		l.pos++
	}
	if l.pos >= len(l.text) {
		return "", errors.New("unterminated quoted string")
	}
	value := l.text[start:l.pos]
	l.pos++ // skip closing quote
	return value, nil
}
