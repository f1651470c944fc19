package cpu

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Link is a label reference waiting to be resolved into a byte.
type Link struct {
	Index int    // Index into Line.Bytes.
	Label string // Label to resolve.
}

// Line represents a line of source with its location and generated bytes.
type Line struct {
	LineNo int
	Pc     int
	Words  []string
	Bytes  []uint8
	Links  []Link
}

// Program is a loaded or assembled program listing.
type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug returns the source line containing the byte at pc.
func (prog *Program) Debug(pc uint16) (dbg Debug) {
	for n, line := range prog.Lines {
		if int(pc) >= line.Pc && int(pc) < line.Pc+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(pc) - line.Pc,
			}
			break
		}
	}

	return
}

// Size returns the number of bytes in the program.
func (prog *Program) Size() (size int) {
	for _, line := range prog.Lines {
		end := line.Pc + len(line.Bytes)
		if end > size {
			size = end
		}
	}

	return
}

// Binary returns the memory image of the program, starting at address 0.
func (prog *Program) Binary() (bins []uint8) {
	bins = make([]uint8, prog.Size())
	for pc, value := range prog.Bytes() {
		bins[pc] = value
	}

	return
}

// Bytes iterates over each address and byte of the program.
func (prog *Program) Bytes() iter.Seq2[uint16, uint8] {
	return func(yield func(pc uint16, value uint8) bool) {
		for _, line := range prog.Lines {
			pc := uint16(line.Pc)
			for n, value := range line.Bytes {
				if !yield(pc+uint16(n), value) {
					return
				}
			}
		}
	}
}

// WriteTo writes the program in the .ls8 text format, one binary
// literal per line, with the source of each line as a comment.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	for _, line := range prog.Lines {
		for index, value := range line.Bytes {
			var text string
			if index == 0 && len(line.Words) != 0 {
				text = fmt.Sprintf("%08b # %v\n", value, strings.Join(line.Words, " "))
			} else {
				text = fmt.Sprintf("%08b\n", value)
			}
			var wrote int
			wrote, err = io.WriteString(w, text)
			n += int64(wrote)
			if err != nil {
				return
			}
		}
	}

	return
}

// Disassembly iterates over each instruction in a memory image.
func Disassembly(code []uint8) iter.Seq2[uint16, string] {
	return func(yield func(pc uint16, text string) bool) {
		for pc := 0; pc < len(code); {
			text, size := Disassemble(code[pc:])
			if !yield(uint16(pc), text) {
				return
			}
			pc += size
		}
	}
}
