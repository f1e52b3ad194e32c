// Package cpu implements the processor and assembler for the LS-8 system.
//
// The CPU consists of a program counter (PC), eight 8-bit general-purpose
// registers (R0-R7), a flags register (FL) set by comparisons, and an ALU.
// Instructions are one opcode byte followed by zero, one, or two operand
// bytes; the top two bits of the opcode hold the operand count.
//
// By convention R5 is the interrupt mask (IM), R6 the interrupt status (IS),
// and R7 the stack pointer (SP).
//
// The assembler provides a small assembly language for the LS-8 instruction
// set, supporting macros, labels, equates, and compile-time expression
// evaluation.
package cpu
