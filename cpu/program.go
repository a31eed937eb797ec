package cpu

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Opcode represents a line of assembled code with its source location and generated bytes.
type Opcode struct {
	LineNo    int
	Addr      int
	Words     []string
	Codes     []uint8
	LinkLabel string // Label whose address is patched into Codes[LinkIndex].
	LinkIndex int
}

type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode that generated the byte at an address.
func (prog *Program) Debug(addr uint8) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Addr && int(addr) < op.Addr+len(op.Codes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr) - op.Addr,
			}
			break
		}
	}

	return
}

// Binary returns the memory image of the program.
func (prog *Program) Binary() (bins []uint8) {
	for _, code := range prog.Codes() {
		bins = append(bins, code)
	}

	return
}

// Codes iterates over the address and value of every program byte.
func (prog *Program) Codes() iter.Seq2[uint8, uint8] {
	return func(yield func(addr uint8, code uint8) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(uint8(op.Addr+n), code) {
					return
				}
			}
		}
	}
}

// WriteTo writes the program in the .ls8 text format, with each
// instruction's source text as a comment.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	for _, op := range prog.Opcodes {
		for index, code := range op.Codes {
			line := fmt.Sprintf("%08b", code)
			if index == 0 {
				line += " # " + strings.Join(op.Words, " ")
			}
			var count int
			count, err = fmt.Fprintln(w, line)
			n += int64(count)
			if err != nil {
				return
			}
		}
	}

	return
}
