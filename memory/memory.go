// Package memory provides the byte addressed store the LS-8 CPU executes from.
package memory

import (
	"log"
)

// SIZE is the address span of an LS-8 machine.
const SIZE = 256

// Memory is a fixed size, byte addressed store.
type Memory interface {
	// Size returns the number of addressable bytes.
	Size() int
	// Read returns the byte at address.
	Read(address int) (value byte, err error)
	// Write stores value at address.
	Write(address int, value byte) error
}

// Ram is a fixed size random access memory.
type Ram struct {
	Verbose bool // Set to log every write.

	data []byte
}

var _ Memory = (*Ram)(nil)

// NewRam allocates a zeroed memory of size bytes.
func NewRam(size int) (ram *Ram) {
	ram = &Ram{
		data: make([]byte, size),
	}

	return
}

// Size returns the number of addressable bytes.
func (ram *Ram) Size() int {
	return len(ram.data)
}

// Read returns the byte at address.
func (ram *Ram) Read(address int) (value byte, err error) {
	if address < 0 || address >= len(ram.data) {
		err = ErrAddress(address)
		return
	}

	value = ram.data[address]
	return
}

// Write stores value at address.
func (ram *Ram) Write(address int, value byte) (err error) {
	if address < 0 || address >= len(ram.data) {
		err = ErrAddress(address)
		return
	}

	if ram.Verbose {
		log.Printf("ram: [%02x] = %02x", address, value)
	}

	ram.data[address] = value
	return
}

// Reset zeros all of memory.
func (ram *Ram) Reset() {
	clear(ram.data)
}

// Load writes a contiguous block starting at address.
func Load(mem Memory, address int, block []byte) (err error) {
	for n, value := range block {
		err = mem.Write(address+n, value)
		if err != nil {
			return
		}
	}

	return
}
