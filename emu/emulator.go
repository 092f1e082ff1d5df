// Package emu provides functional 8086 register-level simulation.
package emu

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/sim8086/asm"
	"github.com/sarchlab/sim8086/insts"
)

// ErrorPolicy decides what the decode loop does with a recoverable decode
// error.
type ErrorPolicy uint8

// Error policies.
const (
	PolicyAbort ErrorPolicy = iota
	PolicySkip
)

// StepResult represents the result of decoding a single instruction.
type StepResult struct {
	// Inst is the decoded instruction, nil if nothing was decoded.
	Inst *insts.Instruction

	// Effect is the register write made by Inst, if any.
	Effect *Effect

	// Skipped is true if a decode error was skipped under a skip policy.
	Skipped bool

	// Done is true once the input is exhausted.
	Done bool

	// Err is set if the run must stop.
	Err error
}

// Emulator drives the decode loop: it decodes, emits and optionally applies
// each instruction of a program.
type Emulator struct {
	*sim.HookableBase

	regFile  *RegFile
	decoder  *insts.Decoder
	emitter  *asm.Emitter
	moveUnit *MoveUnit

	decoderOpts []insts.DecoderOption

	simulate        bool
	unknownPolicy   ErrorPolicy
	malformedPolicy ErrorPolicy

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
	skipped          []int
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithSimulation enables applying register effects.
func WithSimulation(enabled bool) EmulatorOption {
	return func(e *Emulator) {
		e.simulate = enabled
	}
}

// WithUnknownBytePolicy sets how unrecognized leading bytes are handled.
func WithUnknownBytePolicy(p ErrorPolicy) EmulatorOption {
	return func(e *Emulator) {
		e.unknownPolicy = p
	}
}

// WithMalformedPolicy sets how malformed instructions are handled.
func WithMalformedPolicy(p ErrorPolicy) EmulatorOption {
	return func(e *Emulator) {
		e.malformedPolicy = p
	}
}

// WithMaxInstructions sets the maximum number of instructions to decode.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithDecoderOptions passes options to every decoder the emulator creates.
func WithDecoderOptions(opts ...insts.DecoderOption) EmulatorOption {
	return func(e *Emulator) {
		e.decoderOpts = append(e.decoderOpts, opts...)
	}
}

// WithRegFile makes the emulator operate on an existing register file.
func WithRegFile(regFile *RegFile) EmulatorOption {
	return func(e *Emulator) {
		e.regFile = regFile
	}
}

// NewEmulator creates a new 8086 emulator. Unrecognized bytes are skipped
// and malformed instructions abort unless configured otherwise.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		HookableBase:    sim.NewHookableBase(),
		regFile:         NewRegFile(),
		unknownPolicy:   PolicySkip,
		malformedPolicy: PolicyAbort,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.moveUnit = NewMoveUnit(e.regFile)
	e.LoadProgram(nil)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// InstructionCount returns the number of instructions decoded.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Skipped returns the offsets of every decode error skipped so far.
func (e *Emulator) Skipped() []int {
	return e.skipped
}

// Output returns the assembly listing produced so far.
func (e *Emulator) Output() string {
	return e.emitter.String()
}

// LoadProgram starts a new listing over program. Register state is kept.
func (e *Emulator) LoadProgram(program []byte) {
	e.decoder = insts.NewDecoder(program, e.decoderOpts...)
	e.emitter = asm.NewEmitter()
	e.instructionCount = 0
	e.skipped = nil
}

// Reset clears the register file and the listing.
func (e *Emulator) Reset() {
	e.regFile.Reset()
	e.LoadProgram(nil)
}

// Step decodes a single instruction.
// Returns a StepResult indicating whether the loop should continue.
func (e *Emulator) Step() StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		if e.decoder.Done() {
			return StepResult{Done: true}
		}
		return StepResult{
			Err: fmt.Errorf("max instructions reached at offset %d", e.decoder.Offset()),
		}
	}

	inst, err := e.decoder.Next()
	if errors.Is(err, io.EOF) {
		return StepResult{Done: true}
	}
	if err != nil {
		return e.handleDecodeError(err)
	}

	e.instructionCount++
	e.emitter.Emit(inst)
	e.InvokeHook(sim.HookCtx{
		Domain: e,
		Pos:    HookPosInstDecoded,
		Item:   inst,
	})

	result := StepResult{Inst: inst}

	if !e.simulate {
		return result
	}

	eff, ok, err := e.moveUnit.Apply(inst)
	if err != nil {
		result.Err = err
		return result
	}

	if ok {
		e.emitter.EmitRegChange(eff.Reg, eff.Before, eff.After)
		e.InvokeHook(sim.HookCtx{
			Domain: e,
			Pos:    HookPosRegWrite,
			Item:   eff,
		})
		result.Effect = &eff
	}

	return result
}

// Run decodes until the input is exhausted or an error stops the loop. The
// listing produced before the error stays available from Output.
func (e *Emulator) Run() error {
	for {
		result := e.Step()
		if result.Err != nil {
			return result.Err
		}
		if result.Done {
			return nil
		}
	}
}

func (e *Emulator) handleDecodeError(err error) StepResult {
	var (
		unknown   *insts.UnrecognizedOpcodeError
		malformed *insts.MalformedInstructionError
		offset    int
		policy    ErrorPolicy
	)

	switch {
	case errors.As(err, &unknown):
		offset, policy = unknown.Offset, e.unknownPolicy
	case errors.As(err, &malformed):
		offset, policy = malformed.Offset, e.malformedPolicy
	default:
		// Truncated input always ends the run.
		return StepResult{Err: err}
	}

	if policy != PolicySkip {
		return StepResult{Err: err}
	}

	slog.Warn("skipping undecodable input", "Offset", offset, "Error", err.Error())

	e.skipped = append(e.skipped, offset)
	e.InvokeHook(sim.HookCtx{
		Domain: e,
		Pos:    HookPosByteSkipped,
		Item:   err,
	})

	return StepResult{Skipped: true}
}
