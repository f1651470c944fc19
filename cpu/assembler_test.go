// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// assemble parses the source lines, failing the test on error.
func assemble(t *testing.T, asm *Assembler, lines ...string) (prog *Program) {
	prog, err := asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog := assemble(t, asm)
	assert.Equal(0, len(prog.Lines))
	assert.Equal(0, prog.Size())

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("R7", asm.Equate["SP"])
	assert.Equal("0xf4", asm.Equate["STACK_INIT"])
	assert.Equal("256", asm.Equate["MEMORY_SIZE"])
	assert.Equal("0x04", asm.Equate["FL_LESS"])
}

func TestAssemblerPrint8(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		"; print8: print the number 8",
		"        LDI R0,8 ; load",
		"        PRN R0",
		"        HLT",
	)

	assert.Equal([]uint8{0x82, 0x00, 0x08, 0x47, 0x00, 0x01}, prog.Binary())
	assert.Equal(2, prog.Lines[0].LineNo)
	assert.Equal([]string{"LDI", "R0", "8"}, prog.Lines[0].Words)
	assert.Equal(4, prog.Debug(5).LineNo)

	cpu, out := newTestCpu(t, prog.Binary()...)
	assert.NoError(cpu.Run())
	assert.Equal("8\n", out.String())
}

func TestAssemblerMult(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		"ldi r0,8",
		"ldi r1,9",
		"mul r0,r1",
		"prn r0",
		"hlt",
	)

	cpu, out := newTestCpu(t, prog.Binary()...)
	assert.NoError(cpu.Run())
	assert.Equal("72\n", out.String())
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		"        LDI R1,sub",
		"        CALL R1",
		"        HLT",
		"sub:    LDI R0,'A'",
		"        PRA R0",
		"        RET",
	)

	assert.Equal(6, asm.Label["sub"])
	assert.Equal([]uint8{
		0x82, 1, 6,
		0x50, 1,
		0x01,
		0x82, 0, 'A',
		0x48, 0,
		0x11,
	}, prog.Binary())

	cpu, out := newTestCpu(t, prog.Binary()...)
	assert.NoError(cpu.Run())
	assert.Equal("A", out.String())
}

func TestAssemblerEquate(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("LIMIT", "10")
	asm.Predefine("LIMIT", "12")

	prog := assemble(t, asm,
		".equ COUNT 3",
		"LDI R0,COUNT",
		"LDI R1,LIMIT",
		"PUSH SP",
		"LDI R2,LINENO",
	)

	assert.Equal([]uint8{
		0x82, 0, 3,
		0x82, 1, 12,
		0x45, 7,
		0x82, 2, 5,
	}, prog.Binary())
	assert.Equal("3", asm.Equate["COUNT"])
}

func TestAssemblerExpression(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		".equ BASE 0x10",
		"start: LDI R0,$(BASE*2+1)",
		"DB $(300),$(start+1)",
	)

	assert.Equal([]uint8{0x82, 0, 0x21, 44, 1}, prog.Binary())

	_, err := asm.Parse(strings.NewReader("LDI R0,$(1+)"))
	assert.Error(err)

	_, err = asm.Parse(strings.NewReader(`LDI R0,$("text")`))
	var expr ErrParseExpression
	assert.True(errors.As(err, &expr))
}

func TestAssemblerData(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		"data: DB 0x41,'B',-1,~0,0b101,'\\n',','",
		"      DB data,end",
		"end:  DB 0",
	)

	assert.Equal([]uint8{0x41, 'B', 0xff, 0xff, 5, '\n', ',', 0, 9, 0}, prog.Binary())
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		".macro PRINT reg",
		"        PRN reg",
		".endm",
		"        LDI R2,5",
		"        PRINT R2",
		"        HLT",
	)

	assert.Equal([]uint8{0x82, 2, 5, 0x47, 2, 0x01}, prog.Binary())
	assert.Contains(asm.Macro, "PRINT")
	assert.Equal([]string{"reg"}, asm.Macro["PRINT"].Args)
	assert.Equal(2, asm.Macro["PRINT"].LineNo)

	// Macro arguments do not leak out of the expansion.
	_, ok := asm.Equate["reg"]
	assert.False(ok)
}

func TestAssemblerMacroLocal(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		".macro DOWN reg",
		"        LDI R5,0",
		"        LDI R6,@top",
		"@top:   PRN reg",
		"        DEC reg",
		"        CMP reg,R5",
		"        JNE R6",
		".endm",
		"        LDI R0,2",
		"        DOWN R0",
		"        LDI R0,1",
		"        DOWN R0",
		"        HLT",
	)

	assert.Contains(asm.Label, "DOWN_1_top")
	assert.Contains(asm.Label, "DOWN_2_top")

	cpu, out := newTestCpu(t, prog.Binary()...)
	assert.NoError(cpu.Run())
	assert.Equal("2\n1\n1\n", out.String())
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		source string
		lineno int
		err    error
	}){
		{"mnemonic", "NOP\nFOO R0", 2, ErrInstructionInvalid},
		{"missing", "LDI R0", 1, ErrOpcodeValueMissing},
		{"extra", "LDI R0,1,2", 1, ErrOpcodeExtraArgs},
		{"register", "PRN 3", 1, ErrRegisterInvalid},
		{"register_range", "PRN R8", 1, ErrRegisterInvalid},
		{"range", "LDI R0,256", 1, ErrValueRange},
		{"range_neg", "LDI R0,-129", 1, ErrValueRange},
		{"label_dup", "x: HLT\nx: HLT", 2, ErrLabelDuplicate},
		{"equ", ".equ A", 1, ErrEquateSyntax},
		{"equ_dup", ".equ A 1\n.equ A 2", 2, ErrEquateDuplicate},
		{"macro", ".macro", 1, ErrMacroSyntax},
		{"macro_nest", ".macro A\n.macro B", 2, ErrMacroNesting},
		{"macro_dup", ".macro A\n.endm\n.macro A\n.endm", 3, ErrMacroDuplicate},
		{"macro_lonely", ".macro A\nHLT", 2, ErrMacroLonely},
		{"endm_lonely", "HLT\n.endm", 2, ErrMacroLonelyEndm},
		{"macro_args", ".macro M a\n.endm\nM", 3, ErrMacroSyntax},
		{"db", "DB", 1, ErrOpcodeValueMissing},
		{"size", strings.Repeat("NOP\n", MEMORY_SIZE+1), MEMORY_SIZE + 1, ErrProgramSize},
	}

	for _, entry := range table {
		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(entry.source))
		assert.Nil(prog, entry.name)
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}
}

func TestAssemblerLabelMissing(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("NOP\nLDI R0,nowhere\nHLT"))

	var missing ErrLabelMissing
	assert.True(errors.As(err, &missing))
	assert.Equal(ErrLabelMissing("nowhere"), missing)

	var syntax *ErrSyntax
	assert.True(errors.As(err, &syntax))
	assert.Equal(2, syntax.LineNo)
}

func TestAssemblerNumber(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("LDI R0,12z"))

	var number ErrParseNumber
	assert.True(errors.As(err, &number))
	assert.Equal(ErrParseNumber("12z"), number)
}

func TestAssemblerMacroError(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader(".macro BAD\n  FOO\n.endm\nBAD"))

	assert.ErrorIs(err, ErrInstructionInvalid)

	var macro *ErrMacro
	if assert.True(errors.As(err, &macro)) {
		assert.Equal("BAD", macro.Macro)
		assert.Equal(2, macro.Line)
	}
}

func TestAssemblerReuse(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	assemble(t, asm, "x: HLT")

	// Labels are cleared between runs.
	prog := assemble(t, asm, "NOP", "x: HLT")
	assert.Equal(1, asm.Label["x"])
	assert.Equal([]uint8{0x00, 0x01}, prog.Binary())
}

func TestAssemblerEmptyEquate(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("SCREEN", "")

	_, err := asm.Parse(strings.NewReader("LDI R0,SCREEN\nHLT"))
	var number ErrParseNumber
	assert.True(errors.As(err, &number))

	// Expressions skip equates that are not numbers.
	prog, err := asm.Parse(strings.NewReader("LDI R0,$(1+1)\nHLT"))
	assert.NoError(err)
	if prog != nil {
		assert.Equal([]uint8{0x82, 0, 2, 0x01}, prog.Binary())
	}

	_, err = asm.Parse(strings.NewReader("LDI R0,~"))
	assert.True(errors.As(err, &number))
	assert.Equal(ErrParseNumber("~"), number)
}

func TestAssemblerMacroCommaArgs(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := assemble(t, asm,
		".macro MOVE dst,src",
		"        LDI R6,0",
		"        ADD R6,src",
		"        LDI dst,0",
		"        ADD dst,R6",
		".endm",
		"        LDI R1,9",
		"        MOVE R2,R1",
		"        PRN R2",
		"        HLT",
	)

	assert.Equal([]string{"dst", "src"}, asm.Macro["MOVE"].Args)

	cpu, out := newTestCpu(t, prog.Binary()...)
	assert.NoError(cpu.Run())
	assert.Equal("9\n", out.String())
}
