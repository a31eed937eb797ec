// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
	"github.com/ezrec/ls8/io"
	"github.com/ezrec/ls8/translate"
)

var f = translate.From

func usage() {
	fmt.Fprintln(flag.CommandLine.Output(), f("usage: %v [-v] [-a] [-s] [-o output.ls8] program", os.Args[0]))
	flag.PrintDefaults()
}

func main() {
	var assemble bool
	var save bool
	var output string
	var verbose bool

	flag.BoolVar(&assemble, "a", false, "Assemble the program from LS-8 source")
	flag.BoolVar(&save, "s", false, "Save the program as .ls8, do not execute")
	flag.StringVar(&output, "o", "-", "Output for -s")
	flag.BoolVar(&verbose, "v", false, "Verbose mode, trace every instruction")
	flag.Usage = usage

	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	program := flag.Arg(0)

	inf, err := os.Open(program)
	if err != nil {
		log.Fatalf("%v: %v", program, err)
	}
	defer inf.Close()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Console.Output = os.Stdout

	if assemble {
		asm := &cpu.Assembler{Verbose: verbose}
		for equ, value := range emu.Defines() {
			asm.Predefine(equ, value)
		}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
	} else {
		var rom *io.Rom
		rom, err = io.ReadRom(inf)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
		emu.Rom = *rom
	}

	if save {
		ouf := os.Stdout
		if output != "-" {
			ouf, err = os.Create(output)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
			defer ouf.Close()
		}

		if emu.Program != nil {
			_, err = emu.Program.WriteTo(ouf)
		} else {
			_, err = emu.Rom.WriteTo(ouf)
		}
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", program, err)
	}

	err = emu.Run()
	if emulator.Unknown(err) {
		// Already reported by the CPU.
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}
