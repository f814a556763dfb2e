// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// The command-line driver.
//
//	ket program.ket            run the program
//	ket -pp program.ket        print the rewritten source and stop
//	ket -dump program.ket      also print the instruction stream
//
// Configuration comes from a ket.toml beside the program (or -config);
// flags override the file.

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pterm/pterm"

	"github.com/s48/ket"
	"github.com/s48/ket/front"
	"github.com/s48/ket/ir"
)

func main() {
	ppFlag := flag.Bool("pp", false, "print the rewritten source and exit")
	dumpFlag := flag.Bool("dump", false, "print the instruction stream after running")
	jsonFlag := flag.Bool("json", false, "dump as JSON instead of text")
	seedFlag := flag.Int64("seed", 0, "measurement seed (overrides ket.toml)")
	maxQubitsFlag := flag.Int("max-qubits", 0, "qubit cap (overrides ket.toml)")
	noExecFlag := flag.Bool("no-exec", false, "build the instruction stream but do not execute it")
	configFlag := flag.String("config", "", "explicit ket.toml path")
	flag.Parse()
	given := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { given[f.Name] = true })

	if flag.NArg() != 1 {
		pterm.Error.Println("usage: ket [flags] program.ket")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	if *ppFlag {
		text, err := os.ReadFile(path)
		if err != nil {
			fail(err)
		}
		prog, err := ket.TransformSource(path, string(text))
		if err != nil {
			fail(err)
		}
		fmt.Print(front.Print(prog))
		return
	}

	config, err := loadConfig(path, *configFlag)
	if err != nil {
		fail(err)
	}
	options := config.Options()
	applyOverrides(options, given, *seedFlag, *maxQubitsFlag, *noExecFlag)

	result, err := ket.RunFile(path, options)
	if err != nil {
		fail(err)
	}

	if *dumpFlag {
		if *jsonFlag || config.Dump.Format == "json" {
			text, err := ir.DumpJSON(result.Process)
			if err != nil {
				fail(err)
			}
			fmt.Println(string(text))
		} else {
			fmt.Print(ir.Dump(result.Process))
		}
	}
}

// A flag overrides ket.toml only when it was given on the command
// line; a flag's default never shadows a configured value, and any
// value (including -1) works as a seed.
func applyOverrides(options *ket.OptionsT, given map[string]bool,
	seed int64, maxQubits int, noExec bool) {
	if given["seed"] {
		options.Seed = seed
	}
	if given["max-qubits"] {
		options.MaxQubits = maxQubits
	}
	if noExec {
		options.Execute = false
	}
}

func loadConfig(programPath string, configPath string) (ket.ConfigT, error) {
	if configPath != "" {
		return ket.LoadConfig(configPath)
	}
	return ket.FindConfig(programPath)
}

func fail(err error) {
	pterm.Error.Println(err)
	os.Exit(1)
}
