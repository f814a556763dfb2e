// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Quantum processes and their instruction streams.  A process owns an
// ordered sequence of labeled blocks.  Instructions are appended to the
// block most recently opened; 'jump' and 'branch' terminate a block and
// the next 'OpenBlock' starts the next one.
//
// Which process is current is a stack discipline: 'Begin' pushes a new
// process, 'End' pops it.  Everything here runs on a single thread of
// control; the stack is plain package state.

package ir

import (
	"fmt"

	"github.com/s48/ket/util"
)

type ProcessT struct {
	Id     int
	Blocks []*BlockT

	// Qubit cap, enforced by Alloc.  Zero means no limit.
	MaxQubits int

	current     *BlockT
	labelCount  int
	futureCount int
	qubitCount  int
}

// One basic block.  'Terminated' is set once the block ends in a jump
// or branch; only the final fall-through block of a program may be left
// unterminated.

type BlockT struct {
	Label *LabelT
	Insts []InstT

	terminated bool
}

func MakeProcess(id int) *ProcessT {
	process := &ProcessT{Id: id}
	// The entry block needs no explicit OpenBlock.
	entry := &LabelT{index: 0, process: process, opened: true}
	process.labelCount = 1
	process.current = &BlockT{Label: entry}
	process.Blocks = append(process.Blocks, process.current)
	return process
}

func (process *ProcessT) append(inst InstT) {
	if process.current.terminated {
		panic("instruction appended after block terminator")
	}
	process.current.Insts = append(process.current.Insts, inst)
}

func (process *ProcessT) NewLabel() *LabelT {
	label := &LabelT{index: process.labelCount, process: process}
	process.labelCount += 1
	return label
}

func (process *ProcessT) OpenBlock(label *LabelT) {
	if label.process != process {
		panic("label opened in the wrong process")
	}
	if label.opened {
		panic(fmt.Sprintf("label %s opened twice", label))
	}
	if !process.current.terminated {
		// The previous block falls through, which the execution
		// engine has no way to express.
		panic(fmt.Sprintf("block %s left unterminated", process.current.Label))
	}
	label.opened = true
	process.current = &BlockT{Label: label}
	process.Blocks = append(process.Blocks, process.current)
}

func (process *ProcessT) Jump(label *LabelT) {
	process.append(&JumpInstT{Target: label})
	process.current.terminated = true
}

func (process *ProcessT) Branch(test *FutureT, then *LabelT, otherwise *LabelT) {
	if test == nil {
		panic("branch test is not a future")
	}
	process.append(&BranchInstT{Test: test, Then: then, Else: otherwise})
	process.current.terminated = true
}

func (process *ProcessT) Alloc(numQubits int) (*QuantT, error) {
	if numQubits < 1 {
		return nil, fmt.Errorf("cannot allocate less than 1 qubit")
	}
	if process.MaxQubits != 0 && process.MaxQubits < process.qubitCount+numQubits {
		return nil, fmt.Errorf("qubit limit of %d exceeded", process.MaxQubits)
	}
	qubits := make([]int, numQubits)
	for i := range qubits {
		qubits[i] = process.qubitCount
		process.qubitCount += 1
		process.append(&AllocInstT{Qubit: qubits[i]})
	}
	return &QuantT{process: process, qubits: qubits}, nil
}

func (process *ProcessT) Gate(gate GateT, quant *QuantT, param float64) {
	for _, qubit := range quant.qubits {
		process.append(&GateInstT{Gate: gate, Qubit: qubit, Param: param})
	}
}

func (process *ProcessT) Measure(quant *QuantT) *FutureT {
	future := process.newFuture(&measureExprT{})
	qubits := make([]int, len(quant.qubits))
	copy(qubits, quant.qubits)
	process.append(&MeasureInstT{Future: future, Qubits: qubits})
	return future
}

func (process *ProcessT) Set(target *FutureT, value *FutureT) {
	process.append(&SetInstT{Target: target, Value: value})
}

func (process *ProcessT) String() string {
	return fmt.Sprintf("<process %d>", process.Id)
}

//----------------------------------------------------------------
// The current-process stack.  Process 0 is pushed at startup, as in
// the native runtime.

var processStack util.StackT[*ProcessT]
var processCount = 0

func init() {
	Begin()
}

func Begin() *ProcessT {
	process := MakeProcess(processCount)
	processCount += 1
	processStack.Push(process)
	return process
}

func End() *ProcessT {
	return processStack.Pop()
}

func Top() *ProcessT {
	return processStack.Top()
}

// Package-level versions of the builder primitives, all operating on
// the current process.

func NewLabel() *LabelT       { return Top().NewLabel() }
func OpenBlock(label *LabelT) { Top().OpenBlock(label) }
func Jump(label *LabelT)      { Top().Jump(label) }
func Branch(test *FutureT, then *LabelT, otherwise *LabelT) {
	Top().Branch(test, then, otherwise)
}
