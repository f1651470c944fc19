package cpu

import (
	"fmt"
	"strings"
)

// Opcode is an LS-8 instruction byte, laid out as AABCDDDD:
// AA is the operand count, B marks an ALU instruction,
// C marks an instruction that sets the PC, and DDDD identifies it.
type Opcode uint8

const (
	OP_NOP  = Opcode(0b0000_0000)
	OP_HLT  = Opcode(0b0000_0001)
	OP_RET  = Opcode(0b0001_0001)
	OP_PUSH = Opcode(0b0100_0101)
	OP_POP  = Opcode(0b0100_0110)
	OP_PRN  = Opcode(0b0100_0111)
	OP_PRA  = Opcode(0b0100_1000)
	OP_CALL = Opcode(0b0101_0000)
	OP_JMP  = Opcode(0b0101_0100)
	OP_JEQ  = Opcode(0b0101_0101)
	OP_JNE  = Opcode(0b0101_0110)
	OP_JGT  = Opcode(0b0101_0111)
	OP_JLT  = Opcode(0b0101_1000)
	OP_JLE  = Opcode(0b0101_1001)
	OP_JGE  = Opcode(0b0101_1010)
	OP_INC  = Opcode(0b0110_0101)
	OP_DEC  = Opcode(0b0110_0110)
	OP_NOT  = Opcode(0b0110_1001)
	OP_LDI  = Opcode(0b1000_0010)
	OP_LD   = Opcode(0b1000_0011)
	OP_ST   = Opcode(0b1000_0100)
	OP_ADD  = Opcode(0b1010_0000)
	OP_SUB  = Opcode(0b1010_0001)
	OP_MUL  = Opcode(0b1010_0010)
	OP_DIV  = Opcode(0b1010_0011)
	OP_MOD  = Opcode(0b1010_0100)
	OP_CMP  = Opcode(0b1010_0111)
	OP_AND  = Opcode(0b1010_1000)
	OP_OR   = Opcode(0b1010_1010)
	OP_XOR  = Opcode(0b1010_1011)
	OP_SHL  = Opcode(0b1010_1100)
	OP_SHR  = Opcode(0b1010_1101)
)

const (
	OPCODE_OPERANDS = 0b1100_0000 // Mask of the operand count bits.
	OPCODE_ALU      = 0b0010_0000 // Set on ALU instructions.
	OPCODE_SETS_PC  = 0b0001_0000 // Set on instructions that write the PC.
)

// Operands returns the number of operand bytes following the opcode.
func (op Opcode) Operands() int {
	return int(op&OPCODE_OPERANDS) >> 6
}

// Size returns the instruction length in bytes.
func (op Opcode) Size() uint16 {
	return uint16(op.Operands()) + 1
}

// IsAlu returns true if the opcode is routed through the ALU.
func (op Opcode) IsAlu() bool {
	return (op & OPCODE_ALU) != 0
}

// SetsPc returns true if the opcode supplies its own next PC.
func (op Opcode) SetsPc() bool {
	return (op & OPCODE_SETS_PC) != 0
}

// Known returns true if the opcode has a registered handler.
func (op Opcode) Known() bool {
	_, ok := opcodeTable[op]
	return ok
}

func (op Opcode) String() string {
	def, ok := opcodeTable[op]
	if !ok {
		return fmt.Sprintf("0x%02x", uint8(op))
	}
	return def.Name
}

// AluOp is an ALU operation, decoupled from operand decoding.
type AluOp int

const (
	ALU_OP_NONE = AluOp(iota)
	ALU_OP_ADD
	ALU_OP_SUB
	ALU_OP_MUL
	ALU_OP_DIV
	ALU_OP_MOD
	ALU_OP_INC
	ALU_OP_DEC
	ALU_OP_AND
	ALU_OP_OR
	ALU_OP_XOR
	ALU_OP_NOT
	ALU_OP_SHL
	ALU_OP_SHR
)

var aluNames = [...]string{
	ALU_OP_NONE: "none",
	ALU_OP_ADD:  "add",
	ALU_OP_SUB:  "sub",
	ALU_OP_MUL:  "mul",
	ALU_OP_DIV:  "div",
	ALU_OP_MOD:  "mod",
	ALU_OP_INC:  "inc",
	ALU_OP_DEC:  "dec",
	ALU_OP_AND:  "and",
	ALU_OP_OR:   "or",
	ALU_OP_XOR:  "xor",
	ALU_OP_NOT:  "not",
	ALU_OP_SHL:  "shl",
	ALU_OP_SHR:  "shr",
}

func (op AluOp) String() string {
	if op < 0 || int(op) >= len(aluNames) {
		return fmt.Sprintf("AluOp(%d)", int(op))
	}
	return aluNames[op]
}

// CodeArg is the kind of an operand byte.
//
//go:generate go tool stringer -linecomment -type=CodeArg
type CodeArg int

const (
	ARG_REG = CodeArg(0) // reg
	ARG_IMM = CodeArg(1) // imm
)

// execFunc executes a decoded instruction and returns the next PC.
type execFunc func(cpu *Cpu, ins Instruction) (next uint16, err error)

// OpcodeDef describes how an opcode is decoded and executed.
type OpcodeDef struct {
	Name string    // Mnemonic.
	Args []CodeArg // Operand kinds, one per operand byte.
	Alu  AluOp     // ALU operation, for ALU routed instructions.

	exec execFunc
}

var (
	argNone   = []CodeArg{}
	argReg    = []CodeArg{ARG_REG}
	argRegReg = []CodeArg{ARG_REG, ARG_REG}
	argRegImm = []CodeArg{ARG_REG, ARG_IMM}
)

// opcodeTable is the dispatch table. Adding an instruction is adding an entry.
var opcodeTable = map[Opcode]*OpcodeDef{
	OP_NOP:  {Name: "NOP", Args: argNone, exec: (*Cpu).execNop},
	OP_HLT:  {Name: "HLT", Args: argNone, exec: (*Cpu).execHlt},
	OP_LDI:  {Name: "LDI", Args: argRegImm, exec: (*Cpu).execLdi},
	OP_LD:   {Name: "LD", Args: argRegReg, exec: (*Cpu).execLd},
	OP_ST:   {Name: "ST", Args: argRegReg, exec: (*Cpu).execSt},
	OP_PRN:  {Name: "PRN", Args: argReg, exec: (*Cpu).execPrn},
	OP_PRA:  {Name: "PRA", Args: argReg, exec: (*Cpu).execPra},
	OP_PUSH: {Name: "PUSH", Args: argReg, exec: (*Cpu).execPush},
	OP_POP:  {Name: "POP", Args: argReg, exec: (*Cpu).execPop},
	OP_CALL: {Name: "CALL", Args: argReg, exec: (*Cpu).execCall},
	OP_RET:  {Name: "RET", Args: argNone, exec: (*Cpu).execRet},
	OP_CMP:  {Name: "CMP", Args: argRegReg, exec: (*Cpu).execCmp},
	OP_JMP:  {Name: "JMP", Args: argReg, exec: (*Cpu).execJmp},
	OP_JEQ:  {Name: "JEQ", Args: argReg, exec: (*Cpu).execJeq},
	OP_JNE:  {Name: "JNE", Args: argReg, exec: (*Cpu).execJne},
	OP_JGT:  {Name: "JGT", Args: argReg, exec: (*Cpu).execJgt},
	OP_JLT:  {Name: "JLT", Args: argReg, exec: (*Cpu).execJlt},
	OP_JLE:  {Name: "JLE", Args: argReg, exec: (*Cpu).execJle},
	OP_JGE:  {Name: "JGE", Args: argReg, exec: (*Cpu).execJge},
	OP_ADD:  {Name: "ADD", Args: argRegReg, Alu: ALU_OP_ADD, exec: (*Cpu).execAlu},
	OP_SUB:  {Name: "SUB", Args: argRegReg, Alu: ALU_OP_SUB, exec: (*Cpu).execAlu},
	OP_MUL:  {Name: "MUL", Args: argRegReg, Alu: ALU_OP_MUL, exec: (*Cpu).execAlu},
	OP_DIV:  {Name: "DIV", Args: argRegReg, Alu: ALU_OP_DIV, exec: (*Cpu).execAlu},
	OP_MOD:  {Name: "MOD", Args: argRegReg, Alu: ALU_OP_MOD, exec: (*Cpu).execAlu},
	OP_INC:  {Name: "INC", Args: argReg, Alu: ALU_OP_INC, exec: (*Cpu).execAlu},
	OP_DEC:  {Name: "DEC", Args: argReg, Alu: ALU_OP_DEC, exec: (*Cpu).execAlu},
	OP_AND:  {Name: "AND", Args: argRegReg, Alu: ALU_OP_AND, exec: (*Cpu).execAlu},
	OP_OR:   {Name: "OR", Args: argRegReg, Alu: ALU_OP_OR, exec: (*Cpu).execAlu},
	OP_XOR:  {Name: "XOR", Args: argRegReg, Alu: ALU_OP_XOR, exec: (*Cpu).execAlu},
	OP_NOT:  {Name: "NOT", Args: argReg, Alu: ALU_OP_NOT, exec: (*Cpu).execAlu},
	OP_SHL:  {Name: "SHL", Args: argRegReg, Alu: ALU_OP_SHL, exec: (*Cpu).execAlu},
	OP_SHR:  {Name: "SHR", Args: argRegReg, Alu: ALU_OP_SHR, exec: (*Cpu).execAlu},
}

// Lookup returns the definition of an opcode.
func Lookup(op Opcode) (def *OpcodeDef, ok bool) {
	def, ok = opcodeTable[op]
	return
}

// Instruction is a fetched and decoded instruction.
type Instruction struct {
	Pc       uint16  // Address of the opcode byte.
	Opcode   Opcode  // Opcode byte.
	Operands []uint8 // Operand bytes that followed the opcode.
	Alu      AluOp   // ALU operation, if ALU routed.
}

// Next returns the address of the following instruction.
func (ins Instruction) Next() uint16 {
	return ins.Pc + ins.Opcode.Size()
}

// String returns the assembly language representation of the instruction.
func (ins Instruction) String() string {
	def, ok := opcodeTable[ins.Opcode]
	if !ok {
		return fmt.Sprintf("DB 0x%02x", uint8(ins.Opcode))
	}

	args := make([]string, 0, len(ins.Operands))
	for n, value := range ins.Operands {
		kind := ARG_IMM
		if n < len(def.Args) {
			kind = def.Args[n]
		}
		switch kind {
		case ARG_REG:
			args = append(args, fmt.Sprintf("R%d", value))
		default:
			args = append(args, fmt.Sprintf("0x%02x", value))
		}
	}

	if len(args) == 0 {
		return def.Name
	}

	return def.Name + " " + strings.Join(args, ",")
}

// Decode decodes the instruction at the start of code, without
// executing it. Unknown opcodes decode as single byte instructions.
func Decode(pc uint16, code []uint8) (ins Instruction, err error) {
	if len(code) == 0 {
		err = ErrAddress(pc)
		return
	}

	ins = Instruction{Pc: pc, Opcode: Opcode(code[0])}

	def, ok := opcodeTable[ins.Opcode]
	if !ok {
		err = ErrOpcodeUnknown
		return
	}
	ins.Alu = def.Alu

	need := ins.Opcode.Operands()
	if len(code) < need+1 {
		ins.Operands = code[1:]
		err = ErrOperandMissing
		return
	}
	ins.Operands = code[1 : need+1]

	return
}

// Disassemble returns the text and size of the instruction at the start of code.
func Disassemble(code []uint8) (text string, size int) {
	ins, err := Decode(0, code)
	if err != nil {
		if len(code) == 0 {
			return
		}
		return fmt.Sprintf("DB 0x%02x", code[0]), 1
	}

	return ins.String(), int(ins.Opcode.Size())
}
