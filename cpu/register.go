package cpu

import (
	"fmt"
)

// Special purpose register assignments.
const (
	REG_COUNT = 8 // Number of general purpose registers.
	REG_IM    = 5 // Interrupt mask.
	REG_IS    = 6 // Interrupt status.
	REG_SP    = 7 // Stack pointer.
)

// Registers is the general purpose register bank R0-R7.
type Registers [REG_COUNT]byte

// Get returns the value of register index.
func (regs *Registers) Get(index byte) (value byte, err error) {
	if int(index) >= len(regs) {
		err = ErrRegister(index)
		return
	}

	value = regs[index]
	return
}

// Set stores value in register index.
func (regs *Registers) Set(index byte, value byte) (err error) {
	if int(index) >= len(regs) {
		err = ErrRegister(index)
		return
	}

	regs[index] = value
	return
}

// Flags is the FL register, set by CMP.
type Flags byte

const (
	FLAG_EQ = Flags(0b001) // Equal
	FLAG_GT = Flags(0b010) // Greater-than
	FLAG_LT = Flags(0b100) // Less-than
)

// String returns the set flags as letters, e.g. "--E".
func (fl Flags) String() string {
	text := []byte("---")
	if fl&FLAG_LT != 0 {
		text[0] = 'L'
	}
	if fl&FLAG_GT != 0 {
		text[1] = 'G'
	}
	if fl&FLAG_EQ != 0 {
		text[2] = 'E'
	}
	if extra := fl &^ (FLAG_EQ | FLAG_GT | FLAG_LT); extra != 0 {
		return fmt.Sprintf("%s+%02x", text, byte(extra))
	}
	return string(text)
}
