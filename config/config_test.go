package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "go6502.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeTemp(t, `
[cpu]
variant = "nmos"
clock_rate = "1us"

[assembler]
origin = 32768
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CPU.Variant != VariantNMOS {
		t.Errorf("Variant = %q, want %q", cfg.CPU.Variant, VariantNMOS)
	}
	if cfg.CPU.ClockRate != Duration(time.Microsecond) {
		t.Errorf("ClockRate = %v, want 1us", cfg.CPU.ClockRate)
	}
	if cfg.Assembler.Origin != 32768 {
		t.Errorf("Origin = %d, want 32768", cfg.Assembler.Origin)
	}
}

func TestLoadRejectsUnsupportedVariant(t *testing.T) {
	path := writeTemp(t, `
[cpu]
variant = "cmos"
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for an unsupported CPU variant")
	}
}

func TestDefaultIsNMOS(t *testing.T) {
	cfg := Default()
	if cfg.CPU.Variant != VariantNMOS {
		t.Errorf("Default variant = %q, want %q", cfg.CPU.Variant, VariantNMOS)
	}
}
