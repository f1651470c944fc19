package cpu

// Alu performs the requested ALU action, and returns the output value.
// All arithmetic wraps modulo 256.
func (cpu *Cpu) Alu(op AluOp, a uint8, b uint8) (output uint8, err error) {
	switch op {
	case ALU_OP_ADD:
		output = a + b
	case ALU_OP_SUB:
		output = a - b
	case ALU_OP_MUL:
		output = a * b
	case ALU_OP_DIV:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		output = a / b
	case ALU_OP_MOD:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		output = a % b
	case ALU_OP_INC:
		output = a + 1
	case ALU_OP_DEC:
		output = a - 1
	case ALU_OP_AND:
		output = a & b
	case ALU_OP_OR:
		output = a | b
	case ALU_OP_XOR:
		output = a ^ b
	case ALU_OP_NOT:
		output = ^a
	case ALU_OP_SHL:
		output = a << b
	case ALU_OP_SHR:
		output = a >> b
	default:
		err = ErrAluOperation
	}

	return
}

// Compare returns the flags for an unsigned comparison of a to b.
// Exactly one of FLAG_LESS, FLAG_GREATER or FLAG_EQUAL is set.
func Compare(a uint8, b uint8) (fl Flags) {
	switch {
	case a < b:
		fl = FLAG_LESS
	case a > b:
		fl = FLAG_GREATER
	default:
		fl = FLAG_EQUAL
	}

	return
}
