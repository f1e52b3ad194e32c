package cpu

import (
	"log"
	"math/bits"
)

const (
	VECTOR_BASE     = 0xf8 // Address of the interrupt vector table.
	INTERRUPT_COUNT = 8    // Number of interrupt lines.
)

// Raise marks interrupt line as pending in IS.
func (cpu *Cpu) Raise(line int) (err error) {
	if line < 0 || line >= INTERRUPT_COUNT {
		err = ErrInterruptInvalid
		return
	}

	cpu.Register[REG_IS] |= 1 << line
	return
}

// Interrupts returns true if interrupt dispatch is enabled.
func (cpu *Cpu) Interrupts() bool {
	return cpu.interrupts
}

// interrupt dispatches the lowest numbered pending unmasked interrupt.
// The PC, FL, and R0-R6 are saved on the stack, and dispatch is disabled
// until IRET.
func (cpu *Cpu) interrupt() (err error) {
	if !cpu.interrupts {
		return
	}

	pending := cpu.Register[REG_IM] & cpu.Register[REG_IS]
	if pending == 0 {
		return
	}

	line := bits.TrailingZeros8(pending)
	vector, err := cpu.Memory.Read(VECTOR_BASE + line)
	if err != nil {
		return
	}

	cpu.Register[REG_IS] &^= 1 << line
	cpu.interrupts = false

	saved := []byte{byte(cpu.Pc), byte(cpu.Fl)}
	saved = append(saved, cpu.Register[:REG_SP]...)
	for _, value := range saved {
		err = cpu.push(value)
		if err != nil {
			return
		}
	}

	if cpu.Verbose {
		log.Printf("cpu: interrupt %d, vector 0x%02x", line, vector)
	}

	cpu.Pc = int(vector)
	return
}

// interruptReturn restores the state saved by interrupt, and returns the
// interrupted PC.
func (cpu *Cpu) interruptReturn() (pc int, err error) {
	var value byte
	for reg := REG_SP - 1; reg >= 0; reg-- {
		value, err = cpu.pop()
		if err != nil {
			return
		}
		cpu.Register[reg] = value
	}

	value, err = cpu.pop()
	if err != nil {
		return
	}
	cpu.Fl = Flags(value)

	value, err = cpu.pop()
	if err != nil {
		return
	}
	pc = int(value)

	cpu.interrupts = true
	return
}
