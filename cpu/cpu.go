package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/ls8/io"
)

// Console is the output device used by PRN and PRA.
type Console io.Channel

const (
	MEMORY_SIZE    = 256  // Addressable memory, in bytes.
	REGISTER_COUNT = 8    // General purpose registers.
	REG_SP         = 7    // Register used as the stack pointer.
	STACK_INIT     = 0xf4 // Initial stack pointer.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%d", MEMORY_SIZE),
	"STACK_INIT":  fmt.Sprintf("0x%02x", STACK_INIT),
	"SP":          fmt.Sprintf("R%d", REG_SP),
	"FL_LESS":     fmt.Sprintf("0x%02x", uint8(FLAG_LESS)),
	"FL_GREATER":  fmt.Sprintf("0x%02x", uint8(FLAG_GREATER)),
	"FL_EQUAL":    fmt.Sprintf("0x%02x", uint8(FLAG_EQUAL)),
}

// Flags is the comparison flags register, laid out as 00000LGE.
type Flags uint8

const (
	FLAG_EQUAL   = Flags(0b001)
	FLAG_GREATER = Flags(0b010)
	FLAG_LESS    = Flags(0b100)
)

// Equal returns true if the last comparison was equal.
func (fl Flags) Equal() bool {
	return (fl & FLAG_EQUAL) != 0
}

// Greater returns true if the last comparison was greater-than.
func (fl Flags) Greater() bool {
	return (fl & FLAG_GREATER) != 0
}

// Less returns true if the last comparison was less-than.
func (fl Flags) Less() bool {
	return (fl & FLAG_LESS) != 0
}

func (fl Flags) String() string {
	s := strings.Builder{}

	for _, bit := range []struct {
		flag Flags
		set  rune
	}{
		{FLAG_LESS, 'L'},
		{FLAG_GREATER, 'G'},
		{FLAG_EQUAL, 'E'},
	} {
		if (fl & bit.flag) != 0 {
			s.WriteRune(bit.set)
		} else {
			s.WriteRune(bit.set - 'A' + 'a')
		}
	}

	return s.String()
}

// Cpu is the simulation context for an LS-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Console Console // Output device for PRN and PRA.

	Memory   [MEMORY_SIZE]uint8    // Main memory.
	Register [REGISTER_COUNT]uint8 // Register bank. R7 is the stack pointer.
	Pc       uint16                // Address of the next instruction.
	Flags    Flags                 // Result of the last CMP.
	Running  bool                  // Cleared by HLT.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU, reset and ready to load a program.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears memory, registers, and flags.
// - Sets the stack pointer to STACK_INIT.
// - Sets the PC to 0, and marks the CPU as running.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Register[REG_SP] = STACK_INIT
	cpu.Pc = 0
	cpu.Flags = 0
	cpu.Running = true
	cpu.Ticks = 0

	if cpu.Console != nil {
		cpu.Console.Rewind()
	}
}

// Load copies a program into memory, starting at address 0.
func (cpu *Cpu) Load(data []uint8) (err error) {
	if len(data) > MEMORY_SIZE {
		err = ErrProgramSize
		return
	}

	copy(cpu.Memory[:], data)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(data))
	}

	return
}

// Read returns the byte at a memory address.
func (cpu *Cpu) Read(address uint16) (value uint8, err error) {
	if address >= MEMORY_SIZE {
		err = ErrAddress(address)
		return
	}

	value = cpu.Memory[address]
	return
}

// Write stores a byte at a memory address.
func (cpu *Cpu) Write(address uint16, value uint8) (err error) {
	if address >= MEMORY_SIZE {
		err = ErrAddress(address)
		return
	}

	cpu.Memory[address] = value
	return
}

// Reg returns the value of a register.
func (cpu *Cpu) Reg(index uint8) (value uint8, err error) {
	if index >= REGISTER_COUNT {
		err = ErrRegister(index)
		return
	}

	value = cpu.Register[index]
	return
}

// SetReg sets the value of a register.
func (cpu *Cpu) SetReg(index uint8, value uint8) (err error) {
	if index >= REGISTER_COUNT {
		err = ErrRegister(index)
		return
	}

	cpu.Register[index] = value
	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	var code [3]uint8
	for n := range code {
		code[n], _ = cpu.Read(cpu.Pc + uint16(n))
	}

	text = fmt.Sprintf("%02X | %02X %02X %02X | %v |", cpu.Pc, code[0], code[1], code[2], cpu.Flags)
	for _, reg := range cpu.Register {
		text += fmt.Sprintf(" %02X", reg)
	}

	return
}

// Fetch reads and decodes the instruction at the PC.
func (cpu *Cpu) Fetch() (ins Instruction, err error) {
	ins.Pc = cpu.Pc

	op, err := cpu.Read(cpu.Pc)
	if err != nil {
		return
	}
	ins.Opcode = Opcode(op)

	def, ok := opcodeTable[ins.Opcode]
	if !ok {
		err = ErrOpcodeUnknown
		return
	}
	ins.Alu = def.Alu

	need := ins.Opcode.Operands()
	ins.Operands = make([]uint8, need)
	for n := range need {
		ins.Operands[n], err = cpu.Read(cpu.Pc + 1 + uint16(n))
		if err != nil {
			return
		}
	}

	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	if !cpu.Running {
		err = ErrHalted
		return
	}

	ins, err := cpu.Fetch()
	if err != nil {
		err = &ErrInstruction{Pc: ins.Pc, Opcode: ins.Opcode, Err: err}
		return
	}

	err = cpu.Execute(ins)
	return
}

// Run executes instructions until HLT, or the first fatal error.
func (cpu *Cpu) Run() (err error) {
	for cpu.Running {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single decoded instruction.
// On error, the PC is left at the faulting instruction.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	defer func() {
		if err != nil {
			err = &ErrInstruction{Pc: ins.Pc, Opcode: ins.Opcode, Err: err}
		}
	}()

	def, ok := opcodeTable[ins.Opcode]
	if !ok {
		err = ErrOpcodeUnknown
		return
	}

	if len(ins.Operands) != ins.Opcode.Operands() {
		err = ErrOperandMissing
		return
	}

	if cpu.Verbose {
		log.Printf("%02x: %v", ins.Pc, ins)
	}

	next, err := def.exec(cpu, ins)
	if err != nil {
		return
	}

	cpu.Pc = next
	cpu.Ticks++

	if cpu.Verbose {
		log.Printf("cpu: %v", cpu)
	}

	return
}

// operand returns the register index and value named by operand n.
func (cpu *Cpu) operand(ins Instruction, n int) (index uint8, value uint8, err error) {
	index = ins.Operands[n]
	value, err = cpu.Reg(index)
	if err != nil {
		if n == 0 {
			err = errors.Join(ErrOperandA, err)
		} else {
			err = errors.Join(ErrOperandB, err)
		}
	}

	return
}

func (cpu *Cpu) execNop(ins Instruction) (next uint16, err error) {
	next = ins.Next()
	return
}

// execHlt stops the CPU, leaving the PC at the HLT instruction.
func (cpu *Cpu) execHlt(ins Instruction) (next uint16, err error) {
	cpu.Running = false
	next = ins.Pc

	if cpu.Verbose {
		log.Printf("cpu: halt")
	}

	return
}

func (cpu *Cpu) execLdi(ins Instruction) (next uint16, err error) {
	err = cpu.SetReg(ins.Operands[0], ins.Operands[1])
	if err != nil {
		err = errors.Join(ErrOperandA, err)
		return
	}

	next = ins.Next()
	return
}

func (cpu *Cpu) execLd(ins Instruction) (next uint16, err error) {
	_, address, err := cpu.operand(ins, 1)
	if err != nil {
		return
	}

	value, err := cpu.Read(uint16(address))
	if err != nil {
		return
	}

	err = cpu.SetReg(ins.Operands[0], value)
	if err != nil {
		err = errors.Join(ErrOperandA, err)
		return
	}

	next = ins.Next()
	return
}

func (cpu *Cpu) execSt(ins Instruction) (next uint16, err error) {
	_, address, err := cpu.operand(ins, 0)
	if err != nil {
		return
	}

	_, value, err := cpu.operand(ins, 1)
	if err != nil {
		return
	}

	err = cpu.Write(uint16(address), value)
	if err != nil {
		return
	}

	next = ins.Next()
	return
}

func (cpu *Cpu) execPrn(ins Instruction) (next uint16, err error) {
	_, value, err := cpu.operand(ins, 0)
	if err != nil {
		return
	}

	if cpu.Console == nil {
		err = io.ErrConsoleMissing
		return
	}

	err = cpu.Console.Number(value)
	if err != nil {
		return
	}

	next = ins.Next()
	return
}

func (cpu *Cpu) execPra(ins Instruction) (next uint16, err error) {
	_, value, err := cpu.operand(ins, 0)
	if err != nil {
		return
	}

	if cpu.Console == nil {
		err = io.ErrConsoleMissing
		return
	}

	err = cpu.Console.Char(value)
	if err != nil {
		return
	}

	next = ins.Next()
	return
}

func (cpu *Cpu) execPush(ins Instruction) (next uint16, err error) {
	_, value, err := cpu.operand(ins, 0)
	if err != nil {
		return
	}

	err = cpu.Push(value)
	if err != nil {
		return
	}

	next = ins.Next()
	return
}

func (cpu *Cpu) execPop(ins Instruction) (next uint16, err error) {
	if ins.Operands[0] >= REGISTER_COUNT {
		err = errors.Join(ErrOperandA, ErrRegister(ins.Operands[0]))
		return
	}

	value, err := cpu.Pop()
	if err != nil {
		return
	}

	cpu.Register[ins.Operands[0]] = value

	next = ins.Next()
	return
}

func (cpu *Cpu) execCall(ins Instruction) (next uint16, err error) {
	_, target, err := cpu.operand(ins, 0)
	if err != nil {
		return
	}

	ret := ins.Next()
	if ret >= MEMORY_SIZE {
		err = ErrAddress(ret)
		return
	}

	err = cpu.Push(uint8(ret))
	if err != nil {
		return
	}

	next = uint16(target)
	return
}

func (cpu *Cpu) execRet(ins Instruction) (next uint16, err error) {
	value, err := cpu.Pop()
	if err != nil {
		return
	}

	next = uint16(value)
	return
}

func (cpu *Cpu) execCmp(ins Instruction) (next uint16, err error) {
	_, a, err := cpu.operand(ins, 0)
	if err != nil {
		return
	}

	_, b, err := cpu.operand(ins, 1)
	if err != nil {
		return
	}

	cpu.Flags = Compare(a, b)

	next = ins.Next()
	return
}

// jumpIf jumps to the address in the operand register when taken.
func (cpu *Cpu) jumpIf(ins Instruction, taken bool) (next uint16, err error) {
	_, target, err := cpu.operand(ins, 0)
	if err != nil {
		return
	}

	if taken {
		next = uint16(target)
	} else {
		next = ins.Next()
	}

	return
}

func (cpu *Cpu) execJmp(ins Instruction) (next uint16, err error) {
	return cpu.jumpIf(ins, true)
}

func (cpu *Cpu) execJeq(ins Instruction) (next uint16, err error) {
	return cpu.jumpIf(ins, cpu.Flags.Equal())
}

func (cpu *Cpu) execJne(ins Instruction) (next uint16, err error) {
	return cpu.jumpIf(ins, !cpu.Flags.Equal())
}

func (cpu *Cpu) execJgt(ins Instruction) (next uint16, err error) {
	return cpu.jumpIf(ins, cpu.Flags.Greater())
}

func (cpu *Cpu) execJlt(ins Instruction) (next uint16, err error) {
	return cpu.jumpIf(ins, cpu.Flags.Less())
}

func (cpu *Cpu) execJle(ins Instruction) (next uint16, err error) {
	return cpu.jumpIf(ins, cpu.Flags.Less() || cpu.Flags.Equal())
}

func (cpu *Cpu) execJge(ins Instruction) (next uint16, err error) {
	return cpu.jumpIf(ins, cpu.Flags.Greater() || cpu.Flags.Equal())
}

// execAlu decodes the register operands of an ALU routed instruction,
// and writes the ALU output back to the first register.
func (cpu *Cpu) execAlu(ins Instruction) (next uint16, err error) {
	index, a, err := cpu.operand(ins, 0)
	if err != nil {
		return
	}

	var b uint8
	if len(ins.Operands) > 1 {
		_, b, err = cpu.operand(ins, 1)
		if err != nil {
			return
		}
	}

	output, err := cpu.Alu(ins.Alu, a, b)
	if err != nil {
		return
	}

	cpu.Register[index] = output

	next = ins.Next()
	return
}
