package cpu

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"
)

// Loader reads programs in the .ls8 text format.
//
// Blank lines, and lines whose first non-space character is '#', are
// ignored. The first word of every other line is an 8-bit binary
// literal, placed at consecutive addresses starting from 0.
type Loader struct {
	Verbose bool // If set, verbosely logs each loaded byte.
}

// Parse parses an input stream into a Program.
func (ld *Loader) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{}
	pc := 0

	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		text := strings.TrimSpace(line)
		if len(text) == 0 || text[0] == '#' {
			continue
		}

		text, _, _ = strings.Cut(text, "#")
		words := strings.Fields(text)

		var value uint8
		value, err = parseBinary(words[0])
		if err != nil {
			prog = nil
			return
		}

		if pc >= MEMORY_SIZE {
			prog = nil
			err = ErrProgramSize
			return
		}

		if ld.Verbose {
			log.Printf("%v: %02x: %08b", lineno, pc, value)
		}

		prog.Lines = append(prog.Lines, Line{
			LineNo: lineno,
			Pc:     pc,
			Words:  words,
			Bytes:  []uint8{value},
		})
		pc++
	}

	err = scanner.Err()
	if err != nil {
		prog = nil
	}

	return
}

// parseBinary parses an 8-bit base-2 literal, with an optional 0b prefix.
func parseBinary(word string) (value uint8, err error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(word, "0b"), "0B")
	v64, perr := strconv.ParseUint(digits, 2, 8)
	if perr != nil || len(digits) == 0 {
		err = ErrParseBinary
		return
	}

	value = uint8(v64)
	return
}
