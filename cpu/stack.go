package cpu

// Stack is the downward growing stack in memory, addressed by the
// stack pointer register.
type Stack struct {
	Memory   *Memory
	Register *[REGISTER_COUNT]uint8
}

// Push decrements the stack pointer, then stores the value at the new top.
func (s Stack) Push(value uint8) {
	s.Register[REG_SP]--
	s.Memory.Write(s.Register[REG_SP], value)
}

// Pop loads the value at the top, then increments the stack pointer.
func (s Stack) Pop() (value uint8) {
	value = s.Peek()
	s.Register[REG_SP]++
	return
}

// Peek returns the value at the top without moving the stack pointer.
func (s Stack) Peek() uint8 {
	return s.Memory.Read(s.Register[REG_SP])
}

// Depth returns the number of bytes pushed below STACK_TOP.
func (s Stack) Depth() int {
	return STACK_TOP - int(s.Register[REG_SP])
}
