package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "psx.cfg")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestLoadBasicKeys(t *testing.T) {
	path := writeTemp(t, "bios = /boot/scph1001.bin\nloglevel = debug\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Bios != "/boot/scph1001.bin" {
		t.Errorf("Bios = %q, want /boot/scph1001.bin", cfg.Bios)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadQuotedValue(t *testing.T) {
	path := writeTemp(t, `logfile = "/tmp/psx log.txt"`+"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogFile != "/tmp/psx log.txt" {
		t.Errorf("LogFile = %q, want \"/tmp/psx log.txt\"", cfg.LogFile)
	}
}

func TestLoadIgnoresCommentsAndBlankLines(t *testing.T) {
	path := writeTemp(t, "# a comment\n\nbios = x\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Bios != "x" {
		t.Errorf("Bios = %q, want x", cfg.Bios)
	}
}

func TestLoadUnknownKeyIsError(t *testing.T) {
	path := writeTemp(t, "nonsense = 1\n")
	if _, err := Load(path); err == nil {
		t.Errorf("Load() with unknown key should return an error")
	}
}

func TestLoadMissingEqualsIsError(t *testing.T) {
	path := writeTemp(t, "bios\n")
	if _, err := Load(path); err == nil {
		t.Errorf("Load() with no '=' should return an error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path.cfg"); err == nil {
		t.Errorf("Load() of a missing file should return an error")
	}
}
