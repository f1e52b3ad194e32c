package cpu

// AluOp is an ALU operation type.
type AluOp int

//go:generate go tool stringer -linecomment -type=AluOp
const (
	ALU_OP_NONE = AluOp(0)  // none
	ALU_OP_ADD  = AluOp(1)  // add
	ALU_OP_SUB  = AluOp(2)  // sub
	ALU_OP_MUL  = AluOp(3)  // mul
	ALU_OP_DIV  = AluOp(4)  // div
	ALU_OP_MOD  = AluOp(5)  // mod
	ALU_OP_AND  = AluOp(6)  // and
	ALU_OP_OR   = AluOp(7)  // or
	ALU_OP_XOR  = AluOp(8)  // xor
	ALU_OP_NOT  = AluOp(9)  // not
	ALU_OP_INC  = AluOp(10) // inc
	ALU_OP_DEC  = AluOp(11) // dec
	ALU_OP_CMP  = AluOp(12) // cmp
)

// Unary returns true for operations taking a single register.
func (op AluOp) Unary() bool {
	switch op {
	case ALU_OP_NOT, ALU_OP_INC, ALU_OP_DEC:
		return true
	}
	return false
}

// Alu performs the requested arithmetic or logic operation on two register
// values, and returns the value to store in the destination register.
// Results wrap at 8 bits. Unary operations ignore b.
func Alu(op AluOp, a, b byte) (output byte, err error) {
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
			err = ErrModuloByZero
			return
		}
		output = a % b
	case ALU_OP_AND:
		output = a & b
	case ALU_OP_OR:
		output = a | b
	case ALU_OP_XOR:
		output = a ^ b
	case ALU_OP_NOT:
		output = ^a
	case ALU_OP_INC:
		output = a + 1
	case ALU_OP_DEC:
		output = a - 1
	default:
		err = ErrAluOpInvalid
	}

	return
}

// Compare returns the flags for a CMP of a against b.
// Exactly one of FLAG_LT, FLAG_GT, or FLAG_EQ is set.
func Compare(a, b byte) (fl Flags) {
	switch {
	case a > b:
		fl = FLAG_GT
	case a < b:
		fl = FLAG_LT
	default:
		fl = FLAG_EQ
	}
	return
}
