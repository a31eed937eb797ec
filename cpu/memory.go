package cpu

import (
	"iter"
)

const (
	MEMORY_SIZE = 256 // Bytes of addressable memory.

	STACK_TOP   = 0xF4 // Initial stack pointer; the stack grows down from here.
	TRACE_STACK = 0xEC // First address of the stack window shown by a trace.
)

// Memory is the LS-8 address space.
type Memory [MEMORY_SIZE]uint8

// Read returns the byte at an address.
func (mem *Memory) Read(addr uint8) uint8 {
	return mem[addr]
}

// Write stores a byte at an address.
func (mem *Memory) Write(addr uint8, value uint8) {
	mem[addr] = value
}

// Reset zeroes all of memory.
func (mem *Memory) Reset() {
	clear(mem[:])
}

// Load copies bytes into memory starting at address 0.
// Returns ErrMemoryFull if the data does not fit.
func (mem *Memory) Load(data iter.Seq[uint8]) (err error) {
	var addr int
	for value := range data {
		if addr == MEMORY_SIZE {
			err = ErrMemoryFull
			return
		}
		mem[addr] = value
		addr++
	}

	return
}
