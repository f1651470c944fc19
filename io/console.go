package io

import (
	"io"
	"strconv"
)

// Console writes PRN and PRA output to an io.Writer.
type Console struct {
	Output io.Writer

	Numbers int // Count of numbers written since rewind.
	Chars   int // Count of characters written since rewind.

	buf []byte
}

var _ Channel = (*Console)(nil)

// Rewind clears the output statistics. The output stream is not rewound.
func (cc *Console) Rewind() {
	cc.Numbers = 0
	cc.Chars = 0
}

// Number writes the decimal value followed by a newline.
func (cc *Console) Number(value uint8) (err error) {
	if cc.Output == nil {
		err = ErrConsoleMissing
		return
	}

	cc.buf = strconv.AppendUint(cc.buf[:0], uint64(value), 10)
	cc.buf = append(cc.buf, '\n')

	_, err = cc.Output.Write(cc.buf)
	if err != nil {
		return
	}

	cc.Numbers++
	return
}

// Char writes the value as a single byte.
func (cc *Console) Char(value uint8) (err error) {
	if cc.Output == nil {
		err = ErrConsoleMissing
		return
	}

	_, err = cc.Output.Write([]byte{value})
	if err != nil {
		return
	}

	cc.Chars++
	return
}
