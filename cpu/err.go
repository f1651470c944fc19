package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrAddressRange    = errors.New(f("address out of range"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrOpcodeUnknown   = errors.New(f("opcode unknown"))
	ErrAluOperation    = errors.New(f("alu operation unsupported"))
	ErrDivideByZero    = errors.New(f("divide by zero"))
	ErrStackOverflow   = errors.New(f("stack overflow"))
	ErrStackUnderflow  = errors.New(f("stack underflow"))
	ErrProgramSize     = errors.New(f("program exceeds memory"))
	ErrHalted          = errors.New(f("halted"))
	ErrOperandMissing  = errors.New(f("operand missing"))

	// Operand decode errors
	ErrOperandA = errors.New(f("operand a"))
	ErrOperandB = errors.New(f("operand b"))

	// Loader errors
	ErrParseBinary = errors.New(f("not an 8-bit binary literal"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrValueRange         = errors.New(f("value does not fit in a byte"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrAddress reports the address of an out of range memory access.
type ErrAddress uint16

func (ea ErrAddress) Error() string {
	return f("address 0x%04x", uint16(ea))
}

func (ea ErrAddress) Unwrap() error {
	return ErrAddressRange
}

// ErrRegister reports an out of range register index.
type ErrRegister uint8

func (er ErrRegister) Error() string {
	return f("register R%d", uint8(er))
}

func (er ErrRegister) Unwrap() error {
	return ErrRegisterInvalid
}

// ErrInstruction locates a fatal error at the instruction that raised it.
type ErrInstruction struct {
	Pc     uint16
	Opcode Opcode
	Err    error
}

func (err *ErrInstruction) Error() string {
	return f("pc 0x%02x %v: %v", err.Pc, err.Opcode, err.Err)
}

func (err *ErrInstruction) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

func (err ErrParseRegister) Unwrap() error {
	return ErrRegisterInvalid
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
