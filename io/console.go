package io

import (
	"fmt"
	"io"
)

// Console writes PRN values as decimal lines and PRA values as raw bytes.
type Console struct {
	Output io.Writer
}

// Number writes value as a decimal line.
func (con *Console) Number(value byte) (err error) {
	if con.Output == nil {
		err = ErrConsoleDetached
		return
	}

	_, err = fmt.Fprintf(con.Output, "%d\n", value)
	return
}

// Char writes value as a single raw byte.
func (con *Console) Char(value byte) (err error) {
	if con.Output == nil {
		err = ErrConsoleDetached
		return
	}

	_, err = con.Output.Write([]byte{value})
	return
}
