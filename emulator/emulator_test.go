package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/io"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.True(emu.Cpu.Running)

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("7", defines["SP"])
	assert.Equal("0xf4", defines["STACK_TOP"])
	assert.Equal("0xec", defines["TRACE_STACK"])
	assert.Equal("256", defines["ROM_SIZE"])
}

func doAssemble(emu *Emulator, program []string, t *testing.T) (output *bytes.Buffer) {
	asm := &cpu.Assembler{}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	emu.Program = prog

	output = &bytes.Buffer{}
	emu.Console.Output = output

	err = emu.Reset()
	if err != nil {
		t.Fatal(err)
	}

	return
}

func doRunSingle(emu *Emulator, program []string, t *testing.T) (output []byte) {
	assert := assert.New(t)

	tape_output := doAssemble(emu, program, t)

	for _, op := range emu.Program.Opcodes {
		assert.Equal(emu.LineNo(), op.LineNo)
		assert.Equal(emu.Pc(), op.Addr)
		done, err := emu.Tick()
		here := program[op.LineNo-1]
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatalf("%v: %v", here, err)
		}
		assert.Equal(op.Codes[0] == uint8(cpu.OP_HLT), done, here)
	}

	output = tape_output.Bytes()
	return
}

func doRunBranch(emu *Emulator, program []string, t *testing.T) (output []byte) {
	tape_output := doAssemble(emu, program, t)

	err := emu.Run()
	if err != nil {
		t.Log(emu.Cpu.String())
		t.Fatal(err)
	}

	output = tape_output.Bytes()
	return
}

func TestEmulatorPrint8(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"LDI R0,8",
		"PRN R0",
		"HLT",
	}

	output := doRunSingle(emu, program, t)

	assert.Equal("Print Value: 8\n", string(output))
	assert.Equal(3, emu.Ticks())
	assert.False(emu.Cpu.Running)
}

func TestEmulatorAlu(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"LDI R0,8",
		"LDI R1,9",
		"ADD R0,R1", // 17
		"PRN R0",
		"LDI R2,3",
		"MUL R0,R2", // 51
		"PRN R0",
		"SUB R0,R1", // 42
		"PRN R0",
		"DIV R0,R2", // 14
		"PRN R0",
		"HLT",
	}

	output := doRunSingle(emu, program, t)

	assert.Equal([]uint8{17, 51, 42, 14}, emu.Console.Printed)
	assert.Equal("Print Value: 17\nPrint Value: 51\nPrint Value: 42\nPrint Value: 14\n", string(output))
}

func TestEmulatorStack(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"LDI R0,1",
		"LDI R1,2",
		"PUSH R0",
		"PUSH R1",
		"LDI R0,3",
		"POP R0",
		"PRN R0", // 2
		"PUSH R0",
		"LDI R0,4",
		"PUSH R0",
		"POP R0",
		"PRN R0", // 4
		"POP R0",
		"PRN R0", // 2
		"POP R0",
		"PRN R0", // 1
		"HLT",
	}

	doRunSingle(emu, program, t)

	assert.Equal([]uint8{2, 4, 2, 1}, emu.Console.Printed)
	assert.Equal(uint8(cpu.STACK_TOP), emu.Cpu.Register[cpu.REG_SP])
}

func TestEmulatorCall(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"LDI R1,Mult2Print",
		"LDI R0,10",
		"CALL R1",
		"LDI R0,15",
		"CALL R1",
		"LDI R0,18",
		"CALL R1",
		"LDI R0,30",
		"CALL R1",
		"HLT",
		"",
		"Mult2Print:",
		"ADD R0,R0",
		"PRN R0",
		"RET",
	}

	doRunBranch(emu, program, t)

	assert.Equal([]uint8{20, 30, 36, 60}, emu.Console.Printed)
	assert.Equal(uint8(cpu.STACK_TOP), emu.Cpu.Register[cpu.REG_SP])
}

func TestEmulatorBranch(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"LDI R0,10",
		"LDI R1,20",
		"LDI R2,Test1",
		"CMP R0,R1",
		"JEQ R2       ; Does not jump, R0 != R1",
		"LDI R3,1",
		"PRN R3       ; Prints 1",
		"Test1:",
		"LDI R2,Test2",
		"CMP R0,R1",
		"JNE R2       ; Jumps, R0 != R1",
		"LDI R3,0",
		"PRN R3       ; Skipped",
		"Test2:",
		"LDI R1,10",
		"LDI R2,Test3",
		"CMP R0,R1",
		"JEQ R2       ; Jumps, R0 == R1",
		"LDI R3,0",
		"PRN R3       ; Skipped",
		"Test3:",
		"LDI R2,Test4",
		"CMP R0,R1",
		"JNE R2       ; Does not jump",
		"LDI R3,4",
		"PRN R3       ; Prints 4",
		"Test4:",
		"LDI R3,5",
		"PRN R3       ; Prints 5",
		"LDI R2,Test5",
		"JMP R2",
		"PRN R3       ; Skipped",
		"Test5:",
		"HLT",
	}

	doRunBranch(emu, program, t)

	assert.Equal([]uint8{1, 4, 5}, emu.Console.Printed)
}

func TestEmulatorLoop(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		".equ COUNT R0",
		".equ ONE R1",
		".equ LIMIT R2",
		"LDI COUNT,0",
		"LDI ONE,1",
		"LDI LIMIT,$(2 + 3)",
		"LDI R3,Loop",
		"Loop:",
		"ADD COUNT,ONE",
		"PRN COUNT",
		"CMP COUNT,LIMIT",
		"JNE R3",
		"HLT",
	}

	doRunBranch(emu, program, t)

	assert.Equal([]uint8{1, 2, 3, 4, 5}, emu.Console.Printed)
	assert.Equal(cpu.FLAG_E, emu.Cpu.Flags)
}

func TestEmulatorRom(t *testing.T) {
	assert := assert.New(t)

	text := `
10000010 # LDI R0,8
00000000
00001000
10000010 # LDI R1,9
00000001
00001001
10100000 # ADD R0,R1
00000000
00000001
01000111 # PRN R0
00000000
00000001 # HLT
`
	rom, err := io.ReadRom(strings.NewReader(text))
	assert.NoError(err)

	emu := NewEmulator()
	emu.Rom = *rom
	output := &bytes.Buffer{}
	emu.Console.Output = output

	assert.NoError(emu.Reset())
	assert.Equal(0, emu.LineNo())
	assert.NoError(emu.Run())

	assert.Equal("Print Value: 17\n", output.String())
	assert.False(emu.Cpu.Running)

	// A second reset reruns the same image.
	output.Reset()
	assert.NoError(emu.Reset())
	assert.Equal(uint8(8), emu.Cpu.Memory.Read(2))
	assert.True(emu.Cpu.Running)
	assert.NoError(emu.Run())
	assert.Equal("Print Value: 17\n", output.String())
	assert.Equal([]uint8{17}, emu.Console.Printed)
}

func TestEmulatorUnknown(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Rom.Data = []uint8{0b11111111}
	assert.NoError(emu.Reset())

	done, err := emu.Tick()
	assert.True(done)
	assert.True(Unknown(err))

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(uint8(0), runtime.Pc)
		assert.Equal(0, runtime.LineNo)
	}

	// Halted: further ticks do nothing.
	done, err = emu.Tick()
	assert.True(done)
	assert.NoError(err)
}

func TestEmulatorUnknownAlu(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code    uint8
		unknown bool
		err     error
	}){
		{0b11111111, true, cpu.ErrInstructionUnknown},
		{0b10100100, false, cpu.ErrOpcodeAlu},
	}

	for _, entry := range table {
		emu := NewEmulator()
		emu.Rom.Data = []uint8{uint8(cpu.OP_LDI), 0, 1, entry.code, 0, 1}
		assert.NoError(emu.Reset())

		err := emu.Run()
		assert.ErrorIs(err, entry.err)
		assert.Equal(entry.unknown, Unknown(err))
		assert.Equal(1, emu.Ticks())
		assert.False(emu.Cpu.Running)

		var runtime *ErrRuntime
		if assert.True(errors.As(err, &runtime)) {
			assert.Equal(uint8(3), runtime.Pc)
		}
	}
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"LDI R0,1",
		"LDI R1,0",
		"DIV R0,R1",
		"HLT",
	}
	doAssemble(emu, program, t)

	err := emu.Run()
	assert.ErrorIs(err, cpu.ErrDivideByZero)
	assert.False(Unknown(err))

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(uint8(6), runtime.Pc)
		assert.Equal(3, runtime.LineNo)
		assert.Contains(runtime.Error(), "line 3")
	}
}

func TestEmulatorTooLarge(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Rom.Data = make([]uint8, cpu.MEMORY_SIZE+1)

	assert.ErrorIs(emu.Reset(), cpu.ErrMemoryFull)
	assert.False(emu.Cpu.Running)
}
