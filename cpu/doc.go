// Package cpu implements the processor, loader and assembler for the LS-8 system.
//
// The CPU consists of 256 bytes of memory, eight 8-bit general-purpose
// registers (R0-R7, with R7 as the stack pointer), a program counter, and a
// flags register set by CMP. Instructions are one to three bytes long; the
// two high bits of each opcode give its operand count.
//
// Opcodes dispatch through a table of definitions. Arithmetic and logic
// instructions share a single decoder, and differ only by their AluOp.
//
// Every out of range memory access, invalid register, unknown opcode, and
// stack overflow or underflow is a fatal error, reported wrapped in an
// ErrInstruction that locates the faulting instruction.
//
// The Loader reads the .ls8 binary-literal text format. The Assembler provides
// a mnemonic assembly language, supporting macros, labels, equates, and
// compile-time expression evaluation.
package cpu
