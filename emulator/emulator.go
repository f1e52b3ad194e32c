// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator assembles an LS-8 machine from a CPU, memory, and a
// console, and runs programs on it.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"
	"time"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/internal"
	"github.com/ezrec/ls8/io"
	"github.com/ezrec/ls8/memory"
)

const (
	MEMORY_SIZE     = memory.SIZE // Bytes of RAM.
	TIMER_INTERRUPT = 0           // Interrupt line raised by the timer.
)

var _emulator_defines = map[string]string{
	"MEM_SIZE":        fmt.Sprintf("%v", MEMORY_SIZE),
	"TIMER_INTERRUPT": fmt.Sprintf("%v", TIMER_INTERRUPT),
}

// Emulator state. CPU + RAM + console.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	Ram     *memory.Ram // Main memory.
	Console io.Console  // Console output device.

	// Timer, if non-zero, raises TIMER_INTERRUPT at this interval of
	// wall clock time.
	Timer time.Duration

	lastTimer time.Time
}

var _ cpu.Output = (*io.Console)(nil)

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Ram:     memory.NewRam(MEMORY_SIZE),
		Program: &cpu.Program{},
	}

	emu.Cpu = cpu.NewCpu(emu.Ram, &emu.Console)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Assembler returns an assembler with the emulator defines predefined.
func (emu *Emulator) Assembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	return
}

// Reset clears memory, loads the program, and resets the CPU to address 0.
func (emu *Emulator) Reset() (err error) {
	emu.Ram.Reset()
	emu.Ram.Verbose = false

	for address, value := range emu.Program.Code() {
		err = emu.Ram.Write(address, value)
		if err != nil {
			return
		}
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset(0)
	emu.lastTimer = time.Time{}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns current program counter.
func (emu *Emulator) Pc() int {
	return emu.Cpu.Pc
}

// Code returns the instruction at the program counter, if any.
func (emu *Emulator) Code() (inst cpu.Instruction, ok bool) {
	inst, err := emu.Cpu.Fetch()
	ok = err == nil
	return
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// timer raises the timer interrupt when its interval has elapsed.
func (emu *Emulator) timer() (err error) {
	if emu.Timer <= 0 {
		return
	}

	now := time.Now()
	if emu.lastTimer.IsZero() {
		emu.lastTimer = now
		return
	}

	if now.Sub(emu.lastTimer) >= emu.Timer {
		emu.lastTimer = now
		err = emu.Cpu.Raise(TIMER_INTERRUPT)
	}

	return
}

// Tick performs a single tick of the emulator.
// done is set once the program has executed HLT.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	if emu.Cpu.State == cpu.STATE_HALTED {
		done = true
		return
	}

	err = emu.timer()
	if err != nil {
		return
	}

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = emu.Cpu.State == cpu.STATE_HALTED
	return
}

// Run ticks as fast as possible until the program halts, faults, or the
// context is done.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}

// Faulted returns true if the program stopped on an error rather than HLT.
func (emu *Emulator) Faulted() bool {
	return emu.Cpu.State == cpu.STATE_FAULTED
}

// Err returns the cause of a fault.
func (emu *Emulator) Err() error {
	if !emu.Faulted() {
		return nil
	}

	return errors.Join(cpu.ErrCpuFaulted, emu.Cpu.Err)
}
