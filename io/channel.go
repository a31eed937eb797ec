// Package io provides the I/O collaborators of the LS-8 emulator.
// Channels move whole bytes: a Rom supplies the program image that is
// placed in memory before execution, and a Console receives the values
// observed by the PRN instruction.
package io

import (
	"iter"
)

// Channel defines the interface for all I/O channels attached to the LS-8.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive returns an iterator that yields bytes from the channel.
	Receive() iter.Seq[uint8]
	// Send writes a single byte to the channel.
	Send(value uint8) error
}
