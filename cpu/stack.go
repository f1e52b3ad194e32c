package cpu

const (
	SP_INIT = 0xf4 // Stack pointer after reset; the stack grows down.
)

// push decrements SP and stores value at the new top of stack.
func (cpu *Cpu) push(value byte) (err error) {
	sp := cpu.Register[REG_SP] - 1
	err = cpu.Memory.Write(int(sp), value)
	if err != nil {
		return
	}

	cpu.Register[REG_SP] = sp
	return
}

// pop reads the top of stack and increments SP.
func (cpu *Cpu) pop() (value byte, err error) {
	sp := cpu.Register[REG_SP]
	value, err = cpu.Memory.Read(int(sp))
	if err != nil {
		return
	}

	cpu.Register[REG_SP] = sp + 1
	return
}

// Stack returns the values between SP and SP_INIT, top first.
func (cpu *Cpu) Stack() (data []byte) {
	for sp := int(cpu.Register[REG_SP]); sp < SP_INIT; sp++ {
		value, err := cpu.Memory.Read(sp)
		if err != nil {
			break
		}
		data = append(data, value)
	}

	return
}
