package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/io"
)

// Channel is an I/O channel interface.
type Channel io.Channel

const (
	REGISTER_COUNT = 8 // General purpose registers.
	REG_SP         = 7 // Register holding the stack pointer.
)

// Flags is the flag register, set by CMP.
type Flags uint8

const (
	FLAG_E = Flags(0b001) // Equal
	FLAG_G = Flags(0b010) // Greater than
	FLAG_L = Flags(0b100) // Less than
)

var _cpu_defines = map[string]string{
	"SP":          fmt.Sprintf("%d", REG_SP),
	"STACK_TOP":   fmt.Sprintf("0x%02x", STACK_TOP),
	"MEMORY_SIZE": fmt.Sprintf("%d", MEMORY_SIZE),
	"FLAG_E":      fmt.Sprintf("0b%03b", FLAG_E),
	"FLAG_G":      fmt.Sprintf("0b%03b", FLAG_G),
	"FLAG_L":      fmt.Sprintf("0b%03b", FLAG_L),
}

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool // Set to log a trace before every instruction.

	Pc       uint8                 // Address of the next instruction.
	Register [REGISTER_COUNT]uint8 // Register bank; R7 is the stack pointer.
	Flags    Flags                 // Result of the last CMP.
	Memory   Memory                // Address space.
	Running  bool                  // False once halted.

	Ticks int // Instructions executed since reset.

	Output Channel // Receives values from PRN.
}

// NewCpu creates a CPU in its reset state.
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
// - Zeros memory, registers, flags and the PC.
// - Sets the stack pointer to STACK_TOP.
// - Marks the CPU as running.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory.Reset()
	clear(cpu.Register[:])
	cpu.Register[REG_SP] = STACK_TOP
	cpu.Flags = 0
	cpu.Pc = 0
	cpu.Ticks = 0
	cpu.Running = true

	if cpu.Output != nil {
		cpu.Output.Rewind()
	}
}

// Load places a program image in memory, starting at address 0.
func (cpu *Cpu) Load(in Channel) (err error) {
	return cpu.Memory.Load(in.Receive())
}

// Stack returns a view of the stack.
func (cpu *Cpu) Stack() Stack {
	return Stack{Memory: &cpu.Memory, Register: &cpu.Register}
}

// GetRegister returns the value of a register.
func (cpu *Cpu) GetRegister(index uint8) (value uint8, err error) {
	if int(index) >= len(cpu.Register) {
		err = ErrRegisterInvalid
		return
	}

	value = cpu.Register[index]
	return
}

// SetRegister sets the value of a register.
func (cpu *Cpu) SetRegister(index uint8, value uint8) (err error) {
	if int(index) >= len(cpu.Register) {
		err = ErrRegisterInvalid
		return
	}

	cpu.Register[index] = value
	return
}

// String returns a single line trace of the CPU state: the PC, the
// instruction bytes at the PC, all registers, and the top of the stack.
func (cpu *Cpu) String() (text string) {
	mem := &cpu.Memory
	pc := cpu.Pc

	text = fmt.Sprintf("TRACE --> PC: %02d | RAM: %03d %03d %03d | Register:",
		pc, mem.Read(pc), mem.Read(pc+1), mem.Read(pc+2))
	for _, val := range cpu.Register {
		text += fmt.Sprintf(" %02d", val)
	}
	text += " | Stack:"
	for addr := TRACE_STACK; addr < STACK_TOP; addr++ {
		text += fmt.Sprintf(" %02d", mem.Read(uint8(addr)))
	}

	return
}

// Decode fetches the instruction at an address.
func (cpu *Cpu) Decode(pc uint8) (in Instruction) {
	code := Code(cpu.Memory.Read(pc))

	count := min(code.Operands(), 2)

	in = Instruction{
		Pc:       pc,
		Code:     code,
		Operands: make([]uint8, count),
	}
	for n := range count {
		in.Operands[n] = cpu.Memory.Read(pc + 1 + uint8(n))
	}

	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	if !cpu.Running {
		err = ErrHalted
		return
	}

	if cpu.Verbose {
		log.Print(cpu.String())
	}

	in := cpu.Decode(cpu.Pc)

	err = cpu.Execute(in)
	if err != nil {
		cpu.Running = false
		return
	}

	cpu.Ticks++

	return
}

// Run ticks the CPU until it halts.
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
func (cpu *Cpu) Execute(in Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(in), err)
		}
	}()

	code := in.Code
	next_pc := in.Pc + in.Len()

	switch {
	case code.Operands() > 2:
		err = cpu.unknown(in, ErrInstructionUnknown)
		return
	case code.IsAlu():
		if !code.Known() {
			err = cpu.unknown(in, ErrOpcodeAlu)
			return
		}
		var a, b uint8
		a, err = in.A()
		if err != nil {
			return
		}
		b, err = in.B()
		if err != nil {
			return
		}
		err = cpu.Alu(code, a, b)
		if err != nil {
			return
		}
		cpu.Pc = next_pc
	case code.Known():
		err = cpu.dispatch(in, next_pc)
		if err != nil {
			return
		}
		if !code.SetsPc() {
			cpu.Pc = next_pc
		}
	default:
		err = cpu.unknown(in, ErrInstructionUnknown)
		return
	}

	return
}

// unknown reports an opcode the CPU cannot execute, and halts.
func (cpu *Cpu) unknown(in Instruction, kind error) error {
	log.Printf("%v 0x%02x at 0x%02x", kind, uint8(in.Code), in.Pc)
	cpu.Running = false
	return kind
}

// dispatch runs the handler for a non-ALU instruction. Only handlers
// for instructions with CODE_SETS_PC touch the PC.
func (cpu *Cpu) dispatch(in Instruction, next_pc uint8) (err error) {
	stack := cpu.Stack()

	// Every handler except HLT and RET reads register[a].
	var a, value uint8
	if len(in.Operands) > 0 {
		a = in.Operands[0]
		value, err = cpu.GetRegister(a)
		if err != nil {
			return
		}
	}

	switch in.Code {
	case OP_HLT:
		cpu.Running = false
	case OP_LDI:
		var b uint8
		b, err = in.B()
		if err != nil {
			return
		}
		err = cpu.SetRegister(a, b)
	case OP_PRN:
		if cpu.Output == nil {
			err = ErrChannelInvalid
			return
		}
		err = cpu.Output.Send(value)
	case OP_PUSH:
		stack.Push(value)
	case OP_POP:
		err = cpu.SetRegister(a, stack.Pop())
	case OP_CALL:
		stack.Push(next_pc)
		cpu.Pc = value
	case OP_RET:
		cpu.Pc = stack.Pop()
	case OP_JMP:
		cpu.Pc = value
	case OP_JEQ:
		cpu.Pc = next_pc
		if (cpu.Flags & FLAG_E) != 0 {
			cpu.Pc = value
		}
	case OP_JNE:
		cpu.Pc = next_pc
		if (cpu.Flags & FLAG_E) == 0 {
			cpu.Pc = value
		}
	default:
		err = ErrInstructionUnknown
	}

	return
}
