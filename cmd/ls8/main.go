// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
	"github.com/ezrec/ls8/internal"
)

func main() {
	var compile string
	var listing string
	var save bool
	var output string
	var hz float64
	var timer time.Duration
	var defines bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&listing, "l", "", ".ls8 listing to load")
	flag.BoolVar(&save, "s", false, "Write the .ls8 listing to the output, do not execute")
	flag.StringVar(&output, "o", "-", "Console output")
	flag.Float64Var(&hz, "hz", 0, "Clock rate in Hz, 0 to run flat out")
	flag.DurationVar(&timer, "t", 0, "Timer interrupt interval, 0 to disable")
	flag.BoolVar(&defines, "D", false, "Print the assembler predefines and exit")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Timer = timer

	if defines {
		for key, value := range internal.IterSeq2Sorted(emu.Defines()) {
			fmt.Printf("%v=%v\n", key, value)
		}
		return
	}

	var prog *cpu.Program

	switch {
	case len(compile) != 0 && len(listing) != 0:
		log.Fatalf("%v: -c and -l are exclusive", os.Args[0])
	case len(compile) != 0:
		// Compile a new instruction stream.
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := emu.Assembler()
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case len(listing) != 0:
		inf, err := os.Open(listing)
		if err != nil {
			log.Fatalf("%v: %v", listing, err)
		}
		defer inf.Close()

		prog, err = cpu.ReadListing(inf)
		if err != nil {
			log.Fatalf("%v: %v", listing, err)
		}
	default:
		log.Fatalf("%v: one of -c or -l is required", os.Args[0])
	}

	ouf := os.Stdout
	if output != "-" {
		var err error
		ouf, err = os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
	}

	if save {
		err := prog.WriteListing(ouf)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	emu.Program = prog
	emu.Console.Output = ouf

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if hz <= 0 {
		err = emu.Run(ctx)
	} else {
		clk := emulator.NewClock(time.Duration(float64(time.Second)/hz), emu.Tick)
		clk.Verbose = verbose
		clk.Start(ctx)
		err = clk.Wait()
		clk.Stop()
	}

	if verbose {
		log.Printf("ticks: %v", emu.Ticks())
		log.Printf("\n%v", emu.Cpu.String())
	}

	if err != nil {
		log.Fatal(err)
	}
}
