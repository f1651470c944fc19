package cpu

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlu(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op     AluOp
		a, b   uint8
		output uint8
	}){
		{ALU_OP_ADD, 5, 3, 8},
		{ALU_OP_ADD, 255, 2, 1},
		{ALU_OP_SUB, 5, 3, 2},
		{ALU_OP_SUB, 0, 1, 255},
		{ALU_OP_MUL, 12, 10, 120},
		{ALU_OP_MUL, 16, 17, 16},
		{ALU_OP_DIV, 100, 7, 14},
		{ALU_OP_MOD, 100, 7, 2},
		{ALU_OP_INC, 254, 0, 255},
		{ALU_OP_INC, 255, 0, 0},
		{ALU_OP_DEC, 0, 0, 255},
		{ALU_OP_AND, 0b1100, 0b1010, 0b1000},
		{ALU_OP_OR, 0b1100, 0b1010, 0b1110},
		{ALU_OP_XOR, 0b1100, 0b1010, 0b0110},
		{ALU_OP_NOT, 0b1010_0101, 0, 0b0101_1010},
		{ALU_OP_SHL, 0b1000_0001, 1, 0b0000_0010},
		{ALU_OP_SHL, 0xff, 8, 0},
		{ALU_OP_SHR, 0b1000_0001, 1, 0b0100_0000},
		{ALU_OP_SHR, 0xff, 200, 0},
	}

	cpu := NewCpu()
	for _, entry := range table {
		output, err := cpu.Alu(entry.op, entry.a, entry.b)
		assert.NoError(err, entry.op.String())
		assert.Equal(entry.output, output, "%v %d %d", entry.op, entry.a, entry.b)
	}
}

func TestAlu_Errors(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	_, err := cpu.Alu(ALU_OP_DIV, 1, 0)
	assert.ErrorIs(err, ErrDivideByZero)

	_, err = cpu.Alu(ALU_OP_MOD, 1, 0)
	assert.ErrorIs(err, ErrDivideByZero)

	_, err = cpu.Alu(ALU_OP_NONE, 1, 2)
	assert.ErrorIs(err, ErrAluOperation)

	_, err = cpu.Alu(AluOp(99), 1, 2)
	assert.ErrorIs(err, ErrAluOperation)
}

func TestCompare(t *testing.T) {
	assert := assert.New(t)

	for a := range 256 {
		for b := range 256 {
			fl := Compare(uint8(a), uint8(b))
			if !assert.Equal(1, bits.OnesCount8(uint8(fl)), "%d %d", a, b) {
				return
			}
			assert.Equal(a == b, fl.Equal())
			assert.Equal(a > b, fl.Greater())
			assert.Equal(a < b, fl.Less())
		}
	}
}

func TestAluOp_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("add", ALU_OP_ADD.String())
	assert.Equal("shr", ALU_OP_SHR.String())
	assert.Equal("AluOp(-1)", AluOp(-1).String())
}
