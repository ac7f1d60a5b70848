// Command go6502 assembles 6502 source into a flat binary and runs it
// against the cycle-accurate core, wiring the asm, cpu and memory
// packages behind a small urfave/cli app.
package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/urfave/cli.v2"

	"github.com/ninoDeme/go6502/asm"
	"github.com/ninoDeme/go6502/config"
	"github.com/ninoDeme/go6502/cpu"
	"github.com/ninoDeme/go6502/disassemble"
	"github.com/ninoDeme/go6502/memory"
)

func main() {
	app := &cli.App{
		Name:  "go6502",
		Usage: "Assemble and run 6502 programs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a go6502.toml config file",
			},
		},
		Commands: []*cli.Command{
			assembleCmd(),
			runCmd(),
			disasmCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	path := c.String("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// assembleArgs extracts the single positional source path every
// subcommand takes, erroring if it's missing.
func assembleArgs(c *cli.Context) (string, error) {
	if c.Args().Len() != 1 {
		return "", cli.Exit("expected exactly one source file argument", 1)
	}
	return c.Args().Get(0), nil
}

func assembleCmd() *cli.Command {
	return &cli.Command{
		Name:      "assemble",
		Usage:     "Assemble a source file into a raw binary image",
		ArgsUsage: "<source.asm>",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "origin", Usage: "override the default assembly origin"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write the binary image here instead of stdout"},
		},
		Action: func(c *cli.Context) error {
			path, err := assembleArgs(c)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			origin := uint16(c.Uint("origin"))
			if origin == 0 {
				origin = cfg.Assembler.Origin
			}

			lines, err := readLines(path)
			if err != nil {
				return err
			}
			img, err := asm.Assemble(lines, asm.Options{Origin: origin})
			if err != nil {
				if aerr, ok := err.(*asm.AssemblerError); ok {
					aerr.Report(os.Stderr, lines)
				}
				return err
			}

			out := os.Stdout
			if outPath := c.String("output"); outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return writeBinary(out, img)
		},
	}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Assemble and execute a source file until it halts",
		ArgsUsage: "<source.asm>",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "origin", Usage: "override the default assembly origin"},
			&cli.IntFlag{Name: "max-cycles", Value: 1_000_000, Usage: "stop after this many cycles if the program never halts"},
			&cli.BoolFlag{Name: "trace", Usage: "print each instruction as it is fetched"},
		},
		Action: func(c *cli.Context) error {
			path, err := assembleArgs(c)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			origin := uint16(c.Uint("origin"))
			if origin == 0 {
				origin = cfg.Assembler.Origin
			}

			lines, err := readLines(path)
			if err != nil {
				return err
			}
			img, err := asm.Assemble(lines, asm.Options{Origin: origin})
			if err != nil {
				if aerr, ok := err.(*asm.AssemblerError); ok {
					aerr.Report(os.Stderr, lines)
				}
				return err
			}

			bank, err := memory.LoadSparse(1<<16, img, nil)
			if err != nil {
				return err
			}

			chip := cpu.NewChip(nil, nil, nil)
			start := origin
			if start == 0 {
				start = 0x0600
			}
			chip.PC = start

			maxCycles := c.Int("max-cycles")
			trace := c.Bool("trace")
			for i := 0; i < maxCycles; i++ {
				if trace && chip.AtInstructionBoundary() {
					dis, _ := disassemble.Step(chip.PC, bank)
					fmt.Fprintf(os.Stdout, "%04X  %s\n", chip.PC, dis)
				}
				chip.Step()
				if chip.ReadWrite {
					chip.Data = bank.Read(chip.Address)
				} else {
					bank.Write(chip.Address, chip.Data)
				}
				chip.Step()
				if chip.Halted() {
					break
				}
			}
			if chip.Halted() {
				fmt.Fprintf(os.Stdout, "halted on opcode 0x%02X at PC=0x%04X after %d cycles\n", chip.HaltedOpcode(), chip.PC, chip.Cycles())
			} else {
				fmt.Fprintf(os.Stdout, "cycle budget exhausted after %d cycles, PC=0x%04X\n", chip.Cycles(), chip.PC)
			}
			if cfg.CPU.ClockRate != 0 {
				elapsed := time.Duration(cfg.CPU.ClockRate) * time.Duration(chip.Cycles())
				fmt.Fprintf(os.Stdout, "simulated elapsed time: %s (%s/cycle)\n", elapsed, time.Duration(cfg.CPU.ClockRate))
			}
			fmt.Fprintf(os.Stdout, "A=%02X X=%02X Y=%02X SP=%02X SR=%02X\n", chip.A, chip.X, chip.Y, chip.SP, chip.SR)
			return nil
		},
	}
}

func disasmCmd() *cli.Command {
	return &cli.Command{
		Name:      "disasm",
		Usage:     "Assemble a source file and print its disassembly",
		ArgsUsage: "<source.asm>",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "start", Usage: "address to start disassembling at (default: lowest assembled address)"},
			&cli.IntFlag{Name: "length", Usage: "number of bytes to disassemble (default: the whole assembled image)"},
		},
		Action: func(c *cli.Context) error {
			path, err := assembleArgs(c)
			if err != nil {
				return err
			}
			lines, err := readLines(path)
			if err != nil {
				return err
			}
			img, err := asm.Assemble(lines, asm.Options{})
			if err != nil {
				if aerr, ok := err.(*asm.AssemblerError); ok {
					aerr.Report(os.Stderr, lines)
				}
				return err
			}
			bank, err := memory.LoadSparse(1<<16, img, nil)
			if err != nil {
				return err
			}

			addrs := make([]int, 0, len(img))
			for addr := range img {
				addrs = append(addrs, int(addr))
			}
			sort.Ints(addrs)
			if len(addrs) == 0 {
				return nil
			}
			pc := uint16(addrs[0])
			end := uint16(addrs[len(addrs)-1]) + 1
			if start := c.Uint("start"); start != 0 {
				pc = uint16(start)
			}
			if length := c.Int("length"); length != 0 {
				end = pc + uint16(length)
			}
			for pc < end {
				dis, size := disassemble.Step(pc, bank)
				fmt.Fprintf(os.Stdout, "%04X  %s\n", pc, dis)
				pc += uint16(size)
			}
			return nil
		},
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func writeBinary(w *os.File, img map[uint16]uint8) error {
	addrs := make([]int, 0, len(img))
	for addr := range img {
		addrs = append(addrs, int(addr))
	}
	sort.Ints(addrs)
	buf := bufio.NewWriter(w)
	for _, addr := range addrs {
		if err := buf.WriteByte(img[uint16(addr)]); err != nil {
			return err
		}
	}
	return buf.Flush()
}
