// Package config loads the small TOML document cmd/go6502 reads before
// assembling or running a program: which CPU variant to report, how to
// interpret a requested clock rate, and where a source file's program
// counter starts absent an explicit .ORG.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// CPUVariant names a documented 6502 flavor. Only NMOS is implemented;
// the field exists so a config file can be explicit about what it
// expects to run on.
type CPUVariant string

const (
	VariantNMOS CPUVariant = "nmos"
)

// Config is the root of the TOML document.
type Config struct {
	CPU       CPUConfig       `toml:"cpu"`
	Assembler AssemblerConfig `toml:"assembler"`
}

// CPUConfig controls the cpu package's reporting, not its semantics --
// the variant field is validated but every variant currently runs the
// same documented-opcode-only core.
type CPUConfig struct {
	Variant CPUVariant `toml:"variant"`
	// ClockRate, if non-zero, is the nominal clock period used only to
	// report wall-clock-equivalent timings (e.g. "this run took N
	// simulated seconds"); it never throttles execution.
	ClockRate Duration `toml:"clock_rate"`
}

// Duration wraps time.Duration so the TOML decoder accepts the same
// "1us"/"16.6ms" syntax the standard library's time package parses,
// rather than forcing config files to spell out raw nanosecond counts.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// AssemblerConfig controls the asm package's entry point.
type AssemblerConfig struct {
	// Origin overrides the default 0x0600 program counter a source file
	// starts at before any .ORG directive is seen.
	Origin uint16 `toml:"origin"`
}

// Default returns the configuration cmd/go6502 uses when no file is
// given: NMOS reporting, no clock throttling, default origin.
func Default() Config {
	return Config{
		CPU: CPUConfig{Variant: VariantNMOS},
	}
}

// Load reads and validates a TOML config file at path.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}
	if cfg.CPU.Variant != VariantNMOS {
		return Config{}, fmt.Errorf("unsupported cpu variant %q: only %q is implemented", cfg.CPU.Variant, VariantNMOS)
	}
	return cfg, nil
}
