package cpu

// Alu performs an ALU operation on two registers. Arithmetic results
// wrap modulo 256. CMP sets exactly one of FLAG_E, FLAG_G or FLAG_L.
func (cpu *Cpu) Alu(code Code, reg_a, reg_b uint8) (err error) {
	a, err := cpu.GetRegister(reg_a)
	if err != nil {
		return
	}
	b, err := cpu.GetRegister(reg_b)
	if err != nil {
		return
	}

	switch code {
	case OP_ADD:
		cpu.Register[reg_a] = a + b
	case OP_SUB:
		cpu.Register[reg_a] = a - b
	case OP_MUL:
		cpu.Register[reg_a] = a * b
	case OP_DIV:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		cpu.Register[reg_a] = a / b
	case OP_CMP:
		switch {
		case a == b:
			cpu.Flags = FLAG_E
		case a > b:
			cpu.Flags = FLAG_G
		default:
			cpu.Flags = FLAG_L
		}
	default:
		err = ErrOpcodeAlu
	}

	return
}
