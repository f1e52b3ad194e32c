package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlu(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		op       AluOp
		a, b     byte
		expected byte
	}{
		{ALU_OP_ADD, 3, 4, 7},
		{ALU_OP_ADD, 0xff, 2, 1},
		{ALU_OP_SUB, 9, 4, 5},
		{ALU_OP_SUB, 0, 1, 0xff},
		{ALU_OP_MUL, 8, 9, 72},
		{ALU_OP_MUL, 16, 16, 0},
		{ALU_OP_DIV, 72, 8, 9},
		{ALU_OP_DIV, 7, 2, 3},
		{ALU_OP_MOD, 7, 2, 1},
		{ALU_OP_MOD, 8, 4, 0},
		{ALU_OP_AND, 0b1100, 0b1010, 0b1000},
		{ALU_OP_OR, 0b1100, 0b1010, 0b1110},
		{ALU_OP_XOR, 0b1100, 0b1010, 0b0110},
		{ALU_OP_NOT, 0b1111_0000, 0x55, 0b0000_1111},
		{ALU_OP_INC, 5, 0x55, 6},
		{ALU_OP_INC, 0xff, 0, 0},
		{ALU_OP_DEC, 5, 0x55, 4},
		{ALU_OP_DEC, 0, 0, 0xff},
	}

	for _, entry := range table {
		output, err := Alu(entry.op, entry.a, entry.b)
		assert.NoError(err, entry.op.String())
		assert.Equal(entry.expected, output, entry.op.String())
	}
}

func TestAlu_Commutative(t *testing.T) {
	assert := assert.New(t)

	for _, op := range []AluOp{ALU_OP_ADD, ALU_OP_MUL, ALU_OP_AND, ALU_OP_OR, ALU_OP_XOR} {
		for a := range 256 {
			for _, b := range []byte{0, 1, 3, 4, 0x7f, 0xff} {
				ab, err := Alu(op, byte(a), b)
				assert.NoError(err)
				ba, err := Alu(op, b, byte(a))
				assert.NoError(err)
				assert.Equal(ab, ba, op.String())
			}
		}
	}
}

func TestAlu_Errors(t *testing.T) {
	assert := assert.New(t)

	_, err := Alu(ALU_OP_DIV, 1, 0)
	assert.Equal(ErrDivideByZero, err)

	_, err = Alu(ALU_OP_MOD, 1, 0)
	assert.Equal(ErrModuloByZero, err)

	_, err = Alu(ALU_OP_CMP, 1, 0)
	assert.Equal(ErrAluOpInvalid, err)

	_, err = Alu(ALU_OP_NONE, 1, 0)
	assert.Equal(ErrAluOpInvalid, err)

	_, err = Alu(AluOp(99), 1, 0)
	assert.Equal(ErrAluOpInvalid, err)
	assert.Equal("AluOp(99)", AluOp(99).String())
	assert.Equal("cmp", ALU_OP_CMP.String())
}

func TestCompare(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(FLAG_GT, Compare(5, 4))
	assert.Equal(FLAG_LT, Compare(4, 5))
	assert.Equal(FLAG_EQ, Compare(5, 5))

	for a := range 256 {
		for _, b := range []byte{0, 0x80, 0xff} {
			fl := Compare(byte(a), b)
			set := 0
			for _, bit := range []Flags{FLAG_EQ, FLAG_GT, FLAG_LT} {
				if fl&bit != 0 {
					set++
				}
			}
			assert.Equal(1, set)
		}
	}
}
