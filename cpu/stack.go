package cpu

// The stack lives in main memory, and grows down from STACK_INIT.
// REG_SP addresses the most recently pushed byte.

// Push decrements the stack pointer, and stores value at the new top.
func (cpu *Cpu) Push(value uint8) (err error) {
	sp := cpu.Register[REG_SP]
	if sp == 0 {
		err = ErrStackOverflow
		return
	}

	sp--
	cpu.Memory[sp] = value
	cpu.Register[REG_SP] = sp

	return
}

// Pop returns the byte at the top of the stack, and increments the
// stack pointer.
func (cpu *Cpu) Pop() (value uint8, err error) {
	sp := cpu.Register[REG_SP]
	if sp == MEMORY_SIZE-1 {
		err = ErrStackUnderflow
		return
	}

	value = cpu.Memory[sp]
	cpu.Register[REG_SP] = sp + 1

	return
}

// Peek returns the byte at the top of the stack.
func (cpu *Cpu) Peek() (value uint8) {
	return cpu.Memory[cpu.Register[REG_SP]]
}

// Depth returns the number of bytes pushed below STACK_INIT.
// The result is negative if the stack has been popped past STACK_INIT.
func (cpu *Cpu) Depth() int {
	return STACK_INIT - int(cpu.Register[REG_SP])
}
