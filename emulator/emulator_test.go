package emulator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/memory"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(MEMORY_SIZE, emu.Ram.Size())
	assert.Equal(cpu.STATE_RUNNING, emu.Cpu.State)

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("256", defines["MEM_SIZE"])
	assert.Equal("7", defines["SP"])
}

func doLoad(t *testing.T, emu *Emulator, program []string) (output *bytes.Buffer) {
	asm := emu.Assembler()
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)
	emu.Program = prog

	err = emu.Reset()
	require.NoError(t, err)

	output = &bytes.Buffer{}
	emu.Console.Output = output
	return
}

func doRunSingle(t *testing.T, emu *Emulator, program []string) (output []byte) {
	assert := assert.New(t)

	buffer := doLoad(t, emu, program)

	for _, line := range emu.Program.Lines {
		if emu.Pc() != line.Address {
			continue
		}
		here := program[line.LineNo-1]
		assert.Equal(line.LineNo, emu.LineNo(), here)
		inst, ok := emu.Code()
		assert.True(ok, here)
		assert.Equal(line.Code, inst.Encode(), here)

		done, err := emu.Tick()
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatalf("%v", err)
		}
		if done {
			break
		}
	}

	output = buffer.Bytes()
	return
}

func TestEmulatorMultiply(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"LDI R0,8",
		"LDI R1,9",
		"MUL R0,R1",
		"PRN R0",
		"HLT",
	}

	output := doRunSingle(t, emu, program)
	assert.Equal("72\n", string(output))
	assert.Equal(5, emu.Ticks())
	assert.Equal(11, emu.Pc())
	assert.False(emu.Faulted())
	assert.NoError(emu.Err())

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(5, emu.Ticks())
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"        LDI R0,0",
		"        LDI R1,5",
		"        LDI R2,Loop",
		"        LDI R3,Done",
		"Loop:   CMP R0,R1",
		"        JEQ R3",
		"        INC R0",
		"        PRN R0",
		"        JMP R2",
		"Done:   LDI R0,'!'",
		"        PRA R0",
		"        HLT",
	}

	output := doLoad(t, emu, program)
	err := emu.Run(context.Background())
	assert.NoError(err)
	assert.Equal("1\n2\n3\n4\n5\n!", output.String())
	assert.Equal(cpu.STATE_HALTED, emu.Cpu.State)
}

func TestEmulatorRun_Canceled(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doLoad(t, emu, []string{"Spin: LDI R0,Spin", "JMP R0"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := emu.Run(ctx)
	assert.ErrorIs(err, context.Canceled)
	assert.Equal(cpu.STATE_RUNNING, emu.Cpu.State)
}

func TestEmulatorFault(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"LDI R0,1",
		"LDI R1,0",
		"DIV R0,R1",
		"HLT",
	}

	doLoad(t, emu, program)
	err := emu.Run(context.Background())

	var er *ErrRuntime
	assert.True(errors.As(err, &er))
	assert.Equal(3, er.LineNo)
	assert.ErrorIs(err, cpu.ErrDivideByZero)
	assert.True(emu.Faulted())
	assert.ErrorIs(emu.Err(), cpu.ErrCpuFaulted)
	assert.ErrorIs(emu.Err(), cpu.ErrDivideByZero)

	// Faults are not a clean halt.
	done, err := emu.Tick()
	assert.False(done)
	assert.ErrorIs(err, cpu.ErrCpuFaulted)
}

func TestEmulatorInvalidOpcode(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doLoad(t, emu, []string{"NOP", "DB 0xff", "HLT"})

	err := emu.Run(context.Background())
	assert.ErrorIs(err, cpu.ErrOpcodeInvalid)

	var eo cpu.ErrOpcode
	assert.True(errors.As(err, &eo))
	assert.Equal(1, eo.Address)
	assert.Equal(cpu.Opcode(0xff), eo.Opcode)
	assert.True(emu.Faulted())
}

func TestEmulatorListing(t *testing.T) {
	assert := assert.New(t)

	listing := []string{
		"10011001 # LDI R0,8",
		"00000000",
		"00001000",
		"01000011 # PRN R0",
		"00000000",
		"00000001 # HLT",
	}

	prog, err := cpu.ReadListing(strings.NewReader(strings.Join(listing, "\n")))
	require.NoError(t, err)

	emu := NewEmulator()
	emu.Program = prog
	require.NoError(t, emu.Reset())
	output := &bytes.Buffer{}
	emu.Console.Output = output

	assert.NoError(emu.Run(context.Background()))
	assert.Equal("8\n", output.String())
}

func TestEmulatorReset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doLoad(t, emu, []string{"LDI R0,0x80", "ST R0,R0", "HLT"})
	assert.NoError(emu.Run(context.Background()))

	value, err := emu.Ram.Read(0x80)
	assert.NoError(err)
	assert.Equal(byte(0x80), value)

	assert.NoError(emu.Reset())
	value, err = emu.Ram.Read(0x80)
	assert.NoError(err)
	assert.Equal(byte(0), value)
	assert.Equal(0, emu.Pc())
	assert.Equal(cpu.STATE_RUNNING, emu.Cpu.State)

	// A program image larger than memory fails to load.
	emu.Program = &cpu.Program{Lines: []cpu.Line{{Address: MEMORY_SIZE, Code: []byte{1}}}}
	err = emu.Reset()
	assert.ErrorIs(err, memory.ErrAddress(0))
}

func TestEmulatorTimer(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"        LDI R0,Handler",
		"        LDI R1,VECTOR_BASE",
		"        ST R1,R0",
		"        LDI IM,1",
		"Spin:   LDI R2,Spin",
		"        JMP R2",
		"Handler: LDI R3,'T'",
		"        PRA R3",
		"        HLT",
	}

	output := doLoad(t, emu, program)
	emu.Timer = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := emu.Run(ctx)
	assert.NoError(err)
	assert.Equal("T", output.String())
	assert.False(emu.Cpu.Interrupts())
}
