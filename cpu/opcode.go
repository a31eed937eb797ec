package cpu

import (
	"fmt"
)

// Code is an LS-8 opcode byte.
//
//	bits 7-6: operand count (0-2)
//	bit  5:   ALU operation
//	bit  4:   instruction sets the PC
//	bits 3-0: instruction identifier
type Code uint8

const (
	CODE_OPERANDS_MASK  = Code(0b11 << 6) // Operand count field.
	CODE_OPERANDS_SHIFT = 6               // Operand count field shift.
	CODE_ALU            = Code(1 << 5)    // Routed to the ALU.
	CODE_SETS_PC        = Code(1 << 4)    // Handler owns the PC.
)

// Instruction set.
const (
	OP_HLT  = Code(0b00000001) // HLT
	OP_RET  = Code(0b00010001) // RET
	OP_PUSH = Code(0b01000101) // PUSH
	OP_POP  = Code(0b01000110) // POP
	OP_PRN  = Code(0b01000111) // PRN
	OP_CALL = Code(0b01010000) // CALL
	OP_JMP  = Code(0b01010100) // JMP
	OP_JEQ  = Code(0b01010101) // JEQ
	OP_JNE  = Code(0b01010110) // JNE
	OP_LDI  = Code(0b10000010) // LDI
	OP_ADD  = Code(0b10100000) // ADD
	OP_SUB  = Code(0b10100001) // SUB
	OP_MUL  = Code(0b10100010) // MUL
	OP_DIV  = Code(0b10100011) // DIV
	OP_CMP  = Code(0b10100111) // CMP
)

// codeNames maps each known opcode to its mnemonic.
var codeNames = map[Code]string{
	OP_HLT:  "HLT",
	OP_RET:  "RET",
	OP_PUSH: "PUSH",
	OP_POP:  "POP",
	OP_PRN:  "PRN",
	OP_CALL: "CALL",
	OP_JMP:  "JMP",
	OP_JEQ:  "JEQ",
	OP_JNE:  "JNE",
	OP_LDI:  "LDI",
	OP_ADD:  "ADD",
	OP_SUB:  "SUB",
	OP_MUL:  "MUL",
	OP_DIV:  "DIV",
	OP_CMP:  "CMP",
}

// Operands returns the operand count field (0-3).
func (code Code) Operands() int {
	return int((code & CODE_OPERANDS_MASK) >> CODE_OPERANDS_SHIFT)
}

// Len returns the instruction length in bytes, including the opcode.
func (code Code) Len() uint8 {
	return uint8(code.Operands()) + 1
}

// IsAlu returns true if the opcode is routed to the ALU.
func (code Code) IsAlu() bool {
	return (code & CODE_ALU) != 0
}

// SetsPc returns true if the instruction updates the PC itself.
func (code Code) SetsPc() bool {
	return (code & CODE_SETS_PC) != 0
}

// Known returns true if the opcode is part of the instruction set.
func (code Code) Known() bool {
	_, ok := codeNames[code]
	return ok
}

// String returns the mnemonic, or the hex value of an unknown opcode.
func (code Code) String() string {
	name, ok := codeNames[code]
	if !ok {
		return fmt.Sprintf("0x%02X", uint8(code))
	}
	return name
}

// Instruction is a decoded opcode and the operand bytes that followed it.
type Instruction struct {
	Pc       uint8   // Address of the opcode.
	Code     Code    // Opcode.
	Operands []uint8 // Zero, one or two operand bytes.
}

// A returns the first operand.
func (in Instruction) A() (value uint8, err error) {
	if len(in.Operands) < 1 {
		err = ErrOperandMissing
		return
	}
	value = in.Operands[0]
	return
}

// B returns the second operand.
func (in Instruction) B() (value uint8, err error) {
	if len(in.Operands) < 2 {
		err = ErrOperandMissing
		return
	}
	value = in.Operands[1]
	return
}

// Len returns the number of bytes the instruction occupies in memory.
func (in Instruction) Len() uint8 {
	return in.Code.Len()
}

// String returns the disassembly of the instruction.
func (in Instruction) String() (out string) {
	out = in.Code.String()
	for n, operand := range in.Operands {
		sep := ","
		if n == 0 {
			sep = " "
		}
		out += fmt.Sprintf("%v%d", sep, operand)
	}
	return
}
