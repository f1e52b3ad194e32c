package cpu

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Opcode is a single LS-8 instruction byte.
type Opcode byte

// Instruction set.
const (
	OP_NOP  = Opcode(0b0000_0000) // nop
	OP_HLT  = Opcode(0b0000_0001) // hlt
	OP_RET  = Opcode(0b0000_1001) // ret
	OP_IRET = Opcode(0b0000_1011) // iret
	OP_PRA  = Opcode(0b0100_0010) // pra
	OP_PRN  = Opcode(0b0100_0011) // prn
	OP_CALL = Opcode(0b0100_1000) // call
	OP_INT  = Opcode(0b0100_1010) // int
	OP_POP  = Opcode(0b0100_1100) // pop
	OP_PUSH = Opcode(0b0100_1101) // push
	OP_JMP  = Opcode(0b0101_0000) // jmp
	OP_JEQ  = Opcode(0b0101_0001) // jeq
	OP_JNE  = Opcode(0b0101_0010) // jne
	OP_JLT  = Opcode(0b0101_0011) // jlt
	OP_JGT  = Opcode(0b0101_0100) // jgt
	OP_NOT  = Opcode(0b0111_0000) // not
	OP_INC  = Opcode(0b0111_1000) // inc
	OP_DEC  = Opcode(0b0111_1001) // dec
	OP_LD   = Opcode(0b1001_1000) // ld
	OP_LDI  = Opcode(0b1001_1001) // ldi
	OP_ST   = Opcode(0b1001_1010) // st
	OP_CMP  = Opcode(0b1010_0000) // cmp
	OP_ADD  = Opcode(0b1010_1000) // add
	OP_SUB  = Opcode(0b1010_1001) // sub
	OP_MUL  = Opcode(0b1010_1010) // mul
	OP_DIV  = Opcode(0b1010_1011) // div
	OP_MOD  = Opcode(0b1010_1100) // mod
	OP_OR   = Opcode(0b1011_0001) // or
	OP_XOR  = Opcode(0b1011_0010) // xor
	OP_AND  = Opcode(0b1011_0011) // and
)

// Definition describes an entry in the instruction set.
type Definition struct {
	Mnemonic string // Assembly mnemonic.
	Alu      AluOp  // ALU operation, or ALU_OP_NONE.
}

// instructionSet is the single mapping from opcode to operation.
var instructionSet = map[Opcode]Definition{
	OP_NOP:  {"NOP", ALU_OP_NONE},
	OP_HLT:  {"HLT", ALU_OP_NONE},
	OP_RET:  {"RET", ALU_OP_NONE},
	OP_IRET: {"IRET", ALU_OP_NONE},
	OP_PRA:  {"PRA", ALU_OP_NONE},
	OP_PRN:  {"PRN", ALU_OP_NONE},
	OP_CALL: {"CALL", ALU_OP_NONE},
	OP_INT:  {"INT", ALU_OP_NONE},
	OP_POP:  {"POP", ALU_OP_NONE},
	OP_PUSH: {"PUSH", ALU_OP_NONE},
	OP_JMP:  {"JMP", ALU_OP_NONE},
	OP_JEQ:  {"JEQ", ALU_OP_NONE},
	OP_JNE:  {"JNE", ALU_OP_NONE},
	OP_JLT:  {"JLT", ALU_OP_NONE},
	OP_JGT:  {"JGT", ALU_OP_NONE},
	OP_NOT:  {"NOT", ALU_OP_NOT},
	OP_INC:  {"INC", ALU_OP_INC},
	OP_DEC:  {"DEC", ALU_OP_DEC},
	OP_LD:   {"LD", ALU_OP_NONE},
	OP_LDI:  {"LDI", ALU_OP_NONE},
	OP_ST:   {"ST", ALU_OP_NONE},
	OP_CMP:  {"CMP", ALU_OP_CMP},
	OP_ADD:  {"ADD", ALU_OP_ADD},
	OP_SUB:  {"SUB", ALU_OP_SUB},
	OP_MUL:  {"MUL", ALU_OP_MUL},
	OP_DIV:  {"DIV", ALU_OP_DIV},
	OP_MOD:  {"MOD", ALU_OP_MOD},
	OP_OR:   {"OR", ALU_OP_OR},
	OP_XOR:  {"XOR", ALU_OP_XOR},
	OP_AND:  {"AND", ALU_OP_AND},
}

// mnemonicMap is the reverse of instructionSet, for the assembler.
var mnemonicMap = func() map[string]Opcode {
	mnemonics := make(map[string]Opcode, len(instructionSet))
	for op, def := range instructionSet {
		mnemonics[def.Mnemonic] = op
	}
	return mnemonics
}()

// Opcodes returns all defined opcodes, in ascending order.
func Opcodes() iter.Seq[Opcode] {
	return slices.Values(slices.Sorted(maps.Keys(instructionSet)))
}

// Lookup returns the definition of an opcode.
func Lookup(op Opcode) (def Definition, ok bool) {
	def, ok = instructionSet[op]
	return
}

// LookupMnemonic returns the opcode for a mnemonic, in any case.
func LookupMnemonic(mnemonic string) (op Opcode, ok bool) {
	op, ok = mnemonicMap[strings.ToUpper(mnemonic)]
	return
}

// Operands returns the number of operand bytes following the opcode.
func (op Opcode) Operands() int {
	return int(op>>6) & 0b11
}

// Valid returns true if the opcode is in the instruction set.
func (op Opcode) Valid() bool {
	_, ok := instructionSet[op]
	return ok
}

// String returns the mnemonic, or the hex value of an undefined opcode.
func (op Opcode) String() string {
	def, ok := instructionSet[op]
	if !ok {
		return fmt.Sprintf("0x%02x", byte(op))
	}
	return def.Mnemonic
}

// Instruction is a decoded opcode with its operand bytes.
type Instruction struct {
	Opcode   Opcode
	Operands []byte
}

// Decode decodes an instruction from the start of code.
// Only as many operand bytes as the opcode requires are consumed.
func Decode(code []byte) (inst Instruction, err error) {
	if len(code) == 0 {
		err = ErrOpcodeMissing
		return
	}

	op := Opcode(code[0])
	if !op.Valid() {
		err = ErrOpcodeInvalid
		return
	}

	need := op.Operands()
	if len(code) < 1+need {
		err = ErrOperandMissing
		return
	}

	inst = Instruction{
		Opcode:   op,
		Operands: slices.Clone(code[1 : 1+need]),
	}

	return
}

// Len returns the encoded length of the instruction in bytes.
func (inst Instruction) Len() int {
	return 1 + inst.Opcode.Operands()
}

// Encode returns the instruction bytes.
func (inst Instruction) Encode() (code []byte) {
	code = append(code, byte(inst.Opcode))
	code = append(code, inst.Operands...)
	return
}

// operand returns operand n, or zero if absent.
func (inst Instruction) operand(n int) byte {
	if n >= len(inst.Operands) {
		return 0
	}
	return inst.Operands[n]
}

// String returns the assembly language representation of this instruction.
func (inst Instruction) String() string {
	words := []string{inst.Opcode.String()}

	var args []string
	for n, value := range inst.Operands {
		if inst.Opcode == OP_LDI && n == 1 {
			args = append(args, fmt.Sprintf("%d", value))
		} else {
			args = append(args, fmt.Sprintf("R%d", value))
		}
	}
	if len(args) > 0 {
		words = append(words, strings.Join(args, ","))
	}

	return strings.Join(words, " ")
}
