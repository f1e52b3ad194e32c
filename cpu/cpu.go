package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/memory"
)

// State is the execution state of the CPU.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING = State(0) // running
	STATE_HALTED  = State(1) // halted
	STATE_FAULTED = State(2) // faulted
)

var _cpu_defines = map[string]string{
	"IM":          fmt.Sprintf("%d", REG_IM),
	"IS":          fmt.Sprintf("%d", REG_IS),
	"SP":          fmt.Sprintf("%d", REG_SP),
	"SP_INIT":     fmt.Sprintf("0x%02x", SP_INIT),
	"VECTOR_BASE": fmt.Sprintf("0x%02x", VECTOR_BASE),
}

// Output receives the values emitted by PRN and PRA, in execution order.
type Output interface {
	// Number emits a value as a decimal integer.
	Number(value byte) error
	// Char emits a value as a raw character code.
	Char(value byte) error
}

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory memory.Memory // Memory the CPU executes from.
	Output Output        // Destination of PRN and PRA, discarded if nil.

	// Trace, if set, is called before each instruction executes.
	Trace func(pc int, inst Instruction)

	Pc       int       // Address of the next instruction.
	Fl       Flags     // Comparison flags.
	Register Registers // Register bank.
	State    State     // Execution state.
	Err      error     // Cause of a STATE_FAULTED.

	Ticks int // Instructions executed since reset.

	interrupts bool // Interrupt dispatch enabled.
}

// NewCpu creates a CPU attached to a memory and an output.
func NewCpu(mem memory.Memory, out Output) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: mem,
		Output: out,
	}

	cpu.Reset(0)

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state to begin execution at entry.
// Memory is left untouched.
func (cpu *Cpu) Reset(entry int) {
	if cpu.Verbose {
		log.Printf("cpu: reset, entry 0x%02x", entry)
	}

	clear(cpu.Register[:])
	cpu.Register[REG_SP] = SP_INIT
	cpu.Pc = entry
	cpu.Fl = 0
	cpu.State = STATE_RUNNING
	cpu.Err = nil
	cpu.Ticks = 0
	cpu.interrupts = true
}

// Running returns true until the CPU halts or faults.
func (cpu *Cpu) Running() bool {
	return cpu.State == STATE_RUNNING
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %v\n", "state", cpu.State)
	text += fmt.Sprintf("% 5s: %02x\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %v\n", "fl", cpu.Fl)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %02x\n", fmt.Sprintf("r%d", n), val)
	}
	if cpu.Err != nil {
		text += fmt.Sprintf("% 5s: %v\n", "err", cpu.Err)
	}

	return
}

// Fetch reads the instruction at PC. Only the operand bytes the opcode
// requires are read.
func (cpu *Cpu) Fetch() (inst Instruction, err error) {
	value, err := cpu.Memory.Read(cpu.Pc)
	if err != nil {
		return
	}

	op := Opcode(value)
	if !op.Valid() {
		err = ErrOpcode{Address: cpu.Pc, Opcode: op}
		return
	}

	inst.Opcode = op
	for n := range op.Operands() {
		value, err = cpu.Memory.Read(cpu.Pc + 1 + n)
		if err != nil {
			return
		}
		inst.Operands = append(inst.Operands, value)
	}

	return
}

// Tick executes a single CPU instruction cycle.
// Any error faults the CPU; later ticks report the fault again.
func (cpu *Cpu) Tick() (err error) {
	switch cpu.State {
	case STATE_HALTED:
		err = ErrCpuHalted
		return
	case STATE_FAULTED:
		err = errors.Join(ErrCpuFaulted, cpu.Err)
		return
	}

	defer func() {
		if err != nil {
			cpu.State = STATE_FAULTED
			cpu.Err = err
			if cpu.Verbose {
				log.Printf("cpu: fault: %v", err)
			}
		}
	}()

	err = cpu.interrupt()
	if err != nil {
		return
	}

	inst, err := cpu.Fetch()
	if err != nil {
		return
	}

	if cpu.Trace != nil {
		cpu.Trace(cpu.Pc, inst)
	}

	err = cpu.Execute(inst)

	return
}

// Execute executes a single decoded instruction located at PC.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	pc := cpu.Pc
	defer func() {
		if err != nil {
			err = &ErrExecute{Address: pc, Instruction: inst, Err: err}
		}
	}()
	if cpu.Verbose {
		log.Printf("%02x: %v", pc, inst)
	}

	def, ok := Lookup(inst.Opcode)
	if !ok {
		err = ErrOpcode{Address: pc, Opcode: inst.Opcode}
		return
	}
	if len(inst.Operands) != inst.Opcode.Operands() {
		err = ErrOperandMissing
		return
	}

	// PC is 8 bits wide, and wraps past the top of the address space.
	next_pc := int(byte(pc + inst.Len()))

	a := inst.operand(0)
	b := inst.operand(1)

	if def.Alu != ALU_OP_NONE {
		err = cpu.doAlu(def.Alu, a, b)
		if err != nil {
			return
		}
		cpu.Pc = next_pc
		cpu.Ticks++
		return
	}

	var value byte
	var target byte

	switch inst.Opcode {
	case OP_NOP:
		// pass
	case OP_HLT:
		cpu.State = STATE_HALTED
		next_pc = pc
	case OP_LDI:
		err = cpu.Register.Set(a, b)
	case OP_LD:
		target, err = cpu.Register.Get(b)
		if err != nil {
			return
		}
		value, err = cpu.Memory.Read(int(target))
		if err != nil {
			return
		}
		err = cpu.Register.Set(a, value)
	case OP_ST:
		target, err = cpu.Register.Get(a)
		if err != nil {
			return
		}
		value, err = cpu.Register.Get(b)
		if err != nil {
			return
		}
		err = cpu.Memory.Write(int(target), value)
	case OP_PRN, OP_PRA:
		value, err = cpu.Register.Get(a)
		if err != nil {
			return
		}
		err = cpu.emit(inst.Opcode, value)
	case OP_PUSH:
		value, err = cpu.Register.Get(a)
		if err != nil {
			return
		}
		err = cpu.push(value)
	case OP_POP:
		// Validate the destination before the stack moves.
		_, err = cpu.Register.Get(a)
		if err != nil {
			return
		}
		value, err = cpu.pop()
		if err != nil {
			return
		}
		err = cpu.Register.Set(a, value)
	case OP_CALL:
		target, err = cpu.Register.Get(a)
		if err != nil {
			return
		}
		err = cpu.push(byte(next_pc))
		next_pc = int(target)
	case OP_RET:
		value, err = cpu.pop()
		next_pc = int(value)
	case OP_INT:
		value, err = cpu.Register.Get(a)
		if err != nil {
			return
		}
		err = cpu.Raise(int(value))
	case OP_IRET:
		next_pc, err = cpu.interruptReturn()
	case OP_JMP, OP_JEQ, OP_JNE, OP_JLT, OP_JGT:
		target, err = cpu.Register.Get(a)
		if err != nil {
			return
		}
		if cpu.jumpTaken(inst.Opcode) {
			next_pc = int(target)
		}
	default:
		// In the instruction set, but without an implementation.
		err = ErrOpcode{Address: pc, Opcode: inst.Opcode}
	}

	if err != nil {
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks++

	return
}

// doAlu applies an ALU operation to the registers named by a and b.
// The result is stored in register a, or in FL for CMP.
func (cpu *Cpu) doAlu(op AluOp, a, b byte) (err error) {
	input, err := cpu.Register.Get(a)
	if err != nil {
		return
	}

	var value byte
	if !op.Unary() {
		value, err = cpu.Register.Get(b)
		if err != nil {
			return
		}
	}

	if op == ALU_OP_CMP {
		cpu.Fl = Compare(input, value)
		return
	}

	output, err := Alu(op, input, value)
	if err != nil {
		err = errors.Join(ErrOpcodeAlu, err)
		return
	}

	err = cpu.Register.Set(a, output)
	return
}

// jumpTaken evaluates the condition of a jump against FL.
func (cpu *Cpu) jumpTaken(op Opcode) bool {
	switch op {
	case OP_JEQ:
		return cpu.Fl&FLAG_EQ != 0
	case OP_JNE:
		return cpu.Fl&FLAG_EQ == 0
	case OP_JLT:
		return cpu.Fl&FLAG_LT != 0
	case OP_JGT:
		return cpu.Fl&FLAG_GT != 0
	}
	return true
}

// emit sends a value to the output.
func (cpu *Cpu) emit(op Opcode, value byte) error {
	if cpu.Output == nil {
		return nil
	}

	if op == OP_PRA {
		return cpu.Output.Char(value)
	}
	return cpu.Output.Number(value)
}
