// Package main is a quick-look entry point: it prints the listing of each
// binary named on the command line with default settings.
//
// Flags, simulation and run configs live in ./cmd/sim8086.
package main

import (
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/sim8086/emu"
	"github.com/sarchlab/sim8086/loader"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: sim8086 <program.bin>...")
		fmt.Fprintln(os.Stderr, "see ./cmd/sim8086 for simulation and run options")
		atexit.Exit(2)
	}

	status := 0
	for _, path := range os.Args[1:] {
		listing, err := disassemble(path)
		fmt.Print(listing)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			status = 1
		}
	}

	atexit.Exit(status)
}

// disassemble returns the listing of one program. A decode error comes back
// with the listing produced up to that point.
func disassemble(path string) (string, error) {
	prog, err := loader.Load(path)
	if err != nil {
		return "", err
	}

	e := emu.NewEmulator()
	e.LoadProgram(prog.Data)
	err = e.Run()

	return e.Output(), err
}
