package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrCpuHalted        = errors.New(f("cpu halted"))
	ErrCpuFaulted       = errors.New(f("cpu faulted"))
	ErrDivideByZero     = errors.New(f("division by zero"))
	ErrModuloByZero     = errors.New(f("modulo by zero"))
	ErrInterruptInvalid = errors.New(f("interrupt invalid"))

	// Instruction decode errors
	ErrOpcodeMissing  = errors.New(f("opcode missing"))
	ErrOpcodeInvalid  = errors.New(f("opcode invalid"))
	ErrOperandMissing = errors.New(f("operand missing"))
	ErrOpcodeAlu      = errors.New(f("alu"))
	ErrAluOpInvalid   = errors.New(f("alu operation invalid"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOrgSyntax          = errors.New(f(".org syntax"))
	ErrOrgBackwards       = errors.New(f(".org before current address"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrListingSyntax      = errors.New(f("listing syntax"))
)

// ErrOpcode is an undefined opcode fetched at an address.
type ErrOpcode struct {
	Address int
	Opcode  Opcode
}

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x at 0x%02x", byte(eo.Opcode), eo.Address)
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return ok || err == ErrOpcodeInvalid
}

// ErrRegister is a register index outside of R0-R7.
type ErrRegister byte

func (er ErrRegister) Error() string {
	return f("register %d out of range", byte(er))
}

func (er ErrRegister) Is(err error) (ok bool) {
	_, ok = err.(ErrRegister)
	return
}

// ErrExecute locates a failing instruction.
type ErrExecute struct {
	Address     int
	Instruction Instruction
	Err         error
}

func (err *ErrExecute) Error() string {
	return f("0x%02x: %v: %v", err.Address, err.Instruction.String(), err.Err)
}

func (err *ErrExecute) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
