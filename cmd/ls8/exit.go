package main

import (
	"errors"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
)

// Process exit codes.
const (
	EXIT_OK         = 0
	EXIT_FAILURE    = 1 // Usage, load, or configuration failure.
	EXIT_ADDRESS    = 2
	EXIT_REGISTER   = 3
	EXIT_OPCODE     = 4
	EXIT_ALU        = 5
	EXIT_OVERFLOW   = 6
	EXIT_UNDERFLOW  = 7
	EXIT_TICK_LIMIT = 8
)

var exitCodes = []struct {
	err  error
	code int
}{
	{cpu.ErrStackOverflow, EXIT_OVERFLOW},
	{cpu.ErrStackUnderflow, EXIT_UNDERFLOW},
	{cpu.ErrOpcodeUnknown, EXIT_OPCODE},
	{cpu.ErrAluOperation, EXIT_ALU},
	{cpu.ErrDivideByZero, EXIT_ALU},
	{cpu.ErrRegisterInvalid, EXIT_REGISTER},
	{cpu.ErrAddressRange, EXIT_ADDRESS},
	{emulator.ErrTickLimit, EXIT_TICK_LIMIT},
}

// exitCode maps an engine failure to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return EXIT_OK
	}

	var syntax *cpu.ErrSyntax
	if errors.As(err, &syntax) {
		return EXIT_FAILURE
	}

	for _, entry := range exitCodes {
		if errors.Is(err, entry.err) {
			return entry.code
		}
	}

	return EXIT_FAILURE
}
