package emu

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/sim8086/asm"
	"github.com/sarchlab/sim8086/insts"
)

// LevelTrace sits between Info and Warn so decode traces can be enabled
// without debug noise.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs at LevelTrace on the default logger.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// HookPosInstDecoded marks when an instruction has been decoded and emitted.
var HookPosInstDecoded = &sim.HookPos{Name: "Inst Decoded"}

// HookPosRegWrite marks when a simulated instruction writes a register.
var HookPosRegWrite = &sim.HookPos{Name: "Reg Write"}

// HookPosByteSkipped marks when the decode loop skips past a decode error.
var HookPosByteSkipped = &sim.HookPos{Name: "Byte Skipped"}

// LogHook traces emulator events through slog.
type LogHook struct{}

// NewLogHook creates a LogHook.
func NewLogHook() *LogHook {
	return &LogHook{}
}

// Func implements sim.Hook.
func (h *LogHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case HookPosInstDecoded:
		inst := ctx.Item.(*insts.Instruction)
		Trace("Decode",
			"Offset", inst.Offset,
			"Length", inst.Length,
			"Inst", asm.FormatInstruction(inst),
		)
	case HookPosRegWrite:
		eff := ctx.Item.(Effect)
		Trace("RegWrite",
			"Reg", eff.Reg.String(),
			"Before", fmt.Sprintf("0x%04x", eff.Before),
			"After", fmt.Sprintf("0x%04x", eff.After),
		)
	case HookPosByteSkipped:
		Trace("Skip", "Error", fmt.Sprint(ctx.Item))
	}
}

// RegisterTable renders the full registers in the order the 8086 manual
// lists them.
func RegisterTable(r *RegFile) string {
	t := table.NewWriter()
	t.SetTitle("Final registers")
	t.AppendHeader(table.Row{"Reg", "Hex", "Dec"})

	for _, reg := range []insts.Reg{
		insts.RegAX, insts.RegBX, insts.RegCX, insts.RegDX,
		insts.RegSP, insts.RegBP, insts.RegSI, insts.RegDI,
		insts.RegIP,
	} {
		v := r.Slot(reg.Slot())
		t.AppendRow(table.Row{reg.String(), fmt.Sprintf("0x%04x", v), v})
	}

	return t.Render()
}
