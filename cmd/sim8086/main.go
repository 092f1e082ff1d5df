// Package main provides the entry point for sim8086.
// sim8086 disassembles 8086 machine code and optionally simulates register
// effects.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/sim8086/config"
	"github.com/sarchlab/sim8086/emu"
	"github.com/sarchlab/sim8086/insts"
	"github.com/sarchlab/sim8086/loader"
)

var (
	inputPath  = flag.String("input", "", "Path to the 8086 binary to decode (required)")
	outputPath = flag.String("output", "", "Path to write the assembly listing to")
	_          = flag.Bool("sim", false, "Simulate register effects of MOV instructions")
	configPath = flag.String("config", "", "Path to run configuration file (JSON or YAML)")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	setupLogging(*verbose)

	if *inputPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: sim8086 -input <program.bin> [options]\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		atexit.Exit(1)
	}

	runConfig := config.DefaultRunConfig()
	if *configPath != "" {
		var err error
		runConfig, err = config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading run config: %v\n", err)
			atexit.Exit(1)
		}
	}
	applyFlagOverrides(flag.CommandLine, runConfig)

	var output *bufio.Writer
	if *outputPath != "" {
		w, closeOutput, err := openOutput(*outputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening output: %v\n", err)
			atexit.Exit(1)
		}
		atexit.Register(func() {
			if err := closeOutput(); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			}
		})
		output = w
	}

	var hooks []sim.Hook
	if *verbose {
		hooks = append(hooks, emu.NewLogHook())
	}

	result, err := run(*inputPath, runConfig, hooks...)
	if result != nil {
		fmt.Print(result.Listing)
		if output != nil {
			// A partial listing is still written when the run fails.
			_, _ = output.WriteString(result.Listing)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		atexit.Exit(1)
	}

	if runConfig.Simulate && runConfig.PrintFinalState {
		fmt.Println()
		fmt.Println(emu.RegisterTable(result.RegFile))
	}

	if *verbose {
		fmt.Printf("\nProgram: %s\n", *inputPath)
		fmt.Printf("Instructions decoded: %d\n", result.InstructionCount)
		fmt.Printf("Bytes skipped: %d\n", len(result.Skipped))
	}

	atexit.Exit(0)
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = emu.LevelTrace
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// applyFlagOverrides lets flags given on the command line win over the run
// config file. Flags left at their defaults do not touch the config.
func applyFlagOverrides(fs *flag.FlagSet, runConfig *config.RunConfig) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "sim":
			if g, ok := f.Value.(flag.Getter); ok {
				runConfig.Simulate, _ = g.Get().(bool)
			}
		}
	})
}

// openOutput creates the listing file. The returned close function flushes
// buffered output before closing the file.
func openOutput(path string) (*bufio.Writer, func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w := bufio.NewWriter(f)
	closeOutput := func() error {
		if err := w.Flush(); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to flush output file: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close output file: %w", err)
		}
		slog.Info("listing written", "Path", path)
		return nil
	}

	return w, closeOutput, nil
}

// runResult is what a decode run leaves behind.
type runResult struct {
	Listing          string
	RegFile          *emu.RegFile
	InstructionCount uint64
	Skipped          []int
}

// run decodes the program at path. On a decode error the partial listing is
// returned together with the error.
func run(path string, runConfig *config.RunConfig, hooks ...sim.Hook) (*runResult, error) {
	prog, err := loader.Load(path)
	if err != nil {
		return nil, err
	}

	slog.Info("program loaded", "Path", prog.Path, "Size", prog.Size())

	emulator := emu.NewEmulator(emulatorOptions(runConfig)...)
	for _, h := range hooks {
		emulator.AcceptHook(h)
	}

	emulator.LoadProgram(prog.Data)
	runErr := emulator.Run()

	result := &runResult{
		Listing:          emulator.Output(),
		RegFile:          emulator.RegFile(),
		InstructionCount: emulator.InstructionCount(),
		Skipped:          emulator.Skipped(),
	}

	return result, runErr
}

func emulatorOptions(runConfig *config.RunConfig) []emu.EmulatorOption {
	opts := []emu.EmulatorOption{
		emu.WithSimulation(runConfig.Simulate),
		emu.WithUnknownBytePolicy(policy(runConfig.UnknownBytePolicy)),
		emu.WithMalformedPolicy(policy(runConfig.MalformedPolicy)),
		emu.WithMaxInstructions(runConfig.MaxInstructions),
	}

	if runConfig.SignExtendImm8 {
		opts = append(opts, emu.WithDecoderOptions(insts.WithSignExtendedImm8()))
	}

	return opts
}

func policy(name string) emu.ErrorPolicy {
	if name == config.PolicySkip {
		return emu.PolicySkip
	}
	return emu.PolicyAbort
}
