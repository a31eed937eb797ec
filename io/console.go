package io

import (
	"io"
	"iter"

	"github.com/ezrec/ls8/translate"
)

// Console is the observation channel for the PRN instruction.
// Every byte sent is written to Output as a labelled decimal value.
type Console struct {
	Output io.Writer

	Printed []uint8 // Values sent since the last Rewind.
}

var _ Channel = (*Console)(nil)

// Rewind forgets the printed history.
func (cc *Console) Rewind() {
	cc.Printed = cc.Printed[:0]
}

// Receive yields nothing; the console has no input.
func (cc *Console) Receive() iter.Seq[uint8] {
	return func(yield func(value uint8) bool) {}
}

// Send records the value and prints it.
func (cc *Console) Send(value uint8) (err error) {
	cc.Printed = append(cc.Printed, value)

	if cc.Output == nil {
		err = ErrChannelOutput
		return
	}

	_, err = translate.Fprint(cc.Output, "Print Value: %d\n", value)
	return
}
