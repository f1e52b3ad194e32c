// Package io provides output devices for the LS-8 emulator.
// It includes a Console that writes values as text to an io.Writer, and a
// Recorder that keeps every emitted value for later inspection.
package io

// Output receives the values emitted by the PRN and PRA instructions.
type Output interface {
	// Number emits a value as a decimal integer.
	Number(value byte) error
	// Char emits a value as a raw character code.
	Char(value byte) error
}

// Kind is the form in which a value was emitted.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	KIND_NUMBER = Kind(0) // number
	KIND_CHAR   = Kind(1) // char
)

var (
	_ Output = (*Console)(nil)
	_ Output = (*Recorder)(nil)
)
