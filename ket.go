// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Package ket ties the pipeline together: parse, rewrite the control
// flow, evaluate the rewritten tree against a fresh quantum process,
// and optionally execute the instruction stream the evaluation built.

package ket

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/s48/ket/eval"
	"github.com/s48/ket/front"
	"github.com/s48/ket/ir"
	"github.com/s48/ket/pp"
)

type OptionsT struct {
	Name      string            // program name for error messages
	Out       io.Writer         // print() output, default os.Stdout
	Source    ir.MeasureSourceT // measurement outcomes, default seeded random
	Seed      int64             // seed for the default source
	MaxQubits int               // qubit cap, zero means no limit
	Execute   bool              // run the instruction stream after evaluation
}

type ResultT struct {
	Program *front.ProgramT // the rewritten tree
	Process *ir.ProcessT
	Run     *ir.RunT // nil unless Execute was set
}

// TransformSource parses and rewrites without evaluating, for the
// driver's -pp flag.
func TransformSource(name string, source string) (*front.ProgramT, error) {
	prog, err := front.ParseProgram(name, source)
	if err != nil {
		return nil, err
	}
	return pp.Transform(prog), nil
}

// RunSource puts a program through the whole pipeline.  The program
// runs against a process pushed for the occasion, so concurrent or
// leftover process state never leaks between runs.
func RunSource(source string, options *OptionsT) (*ResultT, error) {
	if options == nil {
		options = &OptionsT{}
	}
	name := options.Name
	if name == "" {
		name = "<input>"
	}
	out := options.Out
	if out == nil {
		out = os.Stdout
	}

	prog, err := TransformSource(name, source)
	if err != nil {
		return nil, err
	}

	process := ir.Begin()
	process.MaxQubits = options.MaxQubits
	defer ir.End()

	evaluator := eval.MakeEvaluator(process, out)
	if err := evaluator.Run(prog); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	ir.CheckBlocks(process)

	result := &ResultT{Program: prog, Process: process}
	if options.Execute {
		measureSource := options.Source
		if measureSource == nil {
			measureSource = &ir.RandomSourceT{Rand: rand.New(rand.NewSource(options.Seed))}
		}
		run, err := ir.Execute(process, measureSource)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		result.Run = run
	}
	return result, nil
}

// RunFile is RunSource for a file on disk.
func RunFile(path string, options *OptionsT) (*ResultT, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if options == nil {
		options = &OptionsT{}
	}
	if options.Name == "" {
		copied := *options
		copied.Name = path
		options = &copied
	}
	return RunSource(string(text), options)
}
