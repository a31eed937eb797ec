// Package cpu implements the processor and assembler for the LS-8 system.
//
// The CPU consists of a program counter (PC), 256 bytes of memory, eight
// 8-bit registers (R0-R7, with R7 as the stack pointer), an ALU, and a flag
// register written by CMP and read by the conditional jumps. Each opcode
// byte encodes its own length, whether it is an ALU operation, and whether
// it sets the PC, so the fetch-decode-execute loop needs no lookup table to
// step over an instruction.
//
// The assembler provides an assembly language for the LS-8 instruction set,
// supporting labels, equates, raw data, and compile-time expression evaluation.
package cpu
