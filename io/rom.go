package io

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"slices"
	"strconv"
	"strings"
)

const ROM_SIZE = 256 // Largest program image that fits in memory.

// Rom is a read-only channel holding a program image.
type Rom struct {
	Data []uint8
}

var _ Channel = (*Rom)(nil)

// ReadRom parses the .ls8 text format: one 8 digit binary number per
// line, '#' to end of line is a comment, and blank lines are skipped.
// Nothing is returned unless the whole input parses.
func ReadRom(input io.Reader) (rom *Rom, err error) {
	scanner := bufio.NewScanner(input)

	var data []uint8
	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	for scanner.Scan() {
		lineno++
		line = scanner.Text()

		text, _, _ := strings.Cut(line, "#")
		text = strings.TrimSpace(text)
		if len(text) == 0 {
			continue
		}

		var value uint8
		value, err = parseBinary(text)
		if err != nil {
			return
		}

		if len(data) == ROM_SIZE {
			err = ErrRomFull
			return
		}
		data = append(data, value)
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	rom = &Rom{Data: data}
	return
}

// parseBinary converts an 8 character string of '0' and '1' to a byte.
func parseBinary(text string) (value uint8, err error) {
	if len(text) != 8 {
		err = ErrParseBinary(text)
		return
	}

	v64, err := strconv.ParseUint(text, 2, 8)
	if err != nil {
		err = ErrParseBinary(text)
		return
	}

	value = uint8(v64)
	return
}

// Rewind has nothing to do; every Receive starts at the first byte.
func (rc *Rom) Rewind() {
}

// Receive yields the program image, first byte first.
func (rc *Rom) Receive() iter.Seq[uint8] {
	return slices.Values(rc.Data)
}

// Send is refused, the image is read-only.
func (rc *Rom) Send(value uint8) error {
	return ErrChannelFull
}

// WriteTo writes the image back out in the .ls8 text format.
func (rc *Rom) WriteTo(w io.Writer) (n int64, err error) {
	for _, value := range rc.Data {
		var count int
		count, err = fmt.Fprintf(w, "%08b\n", value)
		n += int64(count)
		if err != nil {
			return
		}
	}

	return
}
