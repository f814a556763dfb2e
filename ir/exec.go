// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Run an instruction stream for testing and for the command-line
// driver.  Gates are recorded but have no simulated state; measurement
// outcomes come from a pluggable source.  What this does interpret
// fully is the control structure: jumps, branches, and the future
// expressions branches test.

package ir

import (
	"fmt"
	"math/rand"
)

// A MeasureSource decides the outcome of each measurement.  Tests use
// ScriptSource; the driver uses RandomSource.
type MeasureSourceT interface {
	Sample(qubits []int) int64
}

// ScriptSource replays a fixed list of outcomes.
type ScriptSourceT struct {
	Outcomes []int64

	next int
}

func (source *ScriptSourceT) Sample(qubits []int) int64 {
	if len(source.Outcomes) <= source.next {
		panic("measurement script exhausted")
	}
	outcome := source.Outcomes[source.next]
	source.next += 1
	return outcome
}

// RandomSource draws uniform outcomes over the measured qubits.
type RandomSourceT struct {
	Rand *rand.Rand
}

func (source *RandomSourceT) Sample(qubits []int) int64 {
	return source.Rand.Int63n(1 << uint(len(qubits)))
}

//----------------------------------------------------------------

// The result of one execution: resolved future values plus per-block
// entry counts (block order matches process.Blocks).
type RunT struct {
	Values map[*FutureT]int64
	Visits []int

	process *ProcessT
}

// FutureValue evaluates a future against the measurements recorded
// during the run.
func (run *RunT) FutureValue(future *FutureT) (int64, error) {
	return run.futureValue(future)
}

func (run *RunT) futureValue(future *FutureT) (int64, error) {
	if value, found := run.Values[future]; found {
		return value, nil
	}
	switch expr := future.expr.(type) {
	case *litExprT:
		return expr.value, nil
	case *measureExprT:
		return 0, fmt.Errorf("future %s read before its measurement ran", future)
	case *binExprT:
		x, err := run.futureValue(expr.x)
		if err != nil {
			return 0, err
		}
		y, err := run.futureValue(expr.y)
		if err != nil {
			return 0, err
		}
		return evalOp(expr.op, x, y)
	default:
		panic("future has unknown expression kind")
	}
}

func evalOp(op string, x int64, y int64) (int64, error) {
	switch op {
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "/":
		if y == 0 {
			return 0, fmt.Errorf("future division by zero")
		}
		return x / y, nil
	case "%":
		if y == 0 {
			return 0, fmt.Errorf("future division by zero")
		}
		return x % y, nil
	case "<<":
		return x << uint(y), nil
	case ">>":
		return x >> uint(y), nil
	case "&":
		return x & y, nil
	case "|":
		return x | y, nil
	case "^":
		return x ^ y, nil
	case "==":
		return boolToInt(x == y), nil
	case "!=":
		return boolToInt(x != y), nil
	case "<":
		return boolToInt(x < y), nil
	case "<=":
		return boolToInt(x <= y), nil
	case ">":
		return boolToInt(x > y), nil
	case ">=":
		return boolToInt(x >= y), nil
	default:
		panic("unknown future operator " + op)
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

//----------------------------------------------------------------

// MaxBlockEntries bounds the total number of block entries in one
// execution, as a fuse against runaway quantum loops.
const MaxBlockEntries = 100000

// Execute walks the block graph from the entry block, sampling
// measurements from 'source', until it falls off the end of a block
// with no terminator.
func Execute(process *ProcessT, source MeasureSourceT) (*RunT, error) {
	CheckBlocks(process)
	run := &RunT{
		Values:  map[*FutureT]int64{},
		Visits:  make([]int, len(process.Blocks)),
		process: process,
	}
	blocks := map[*LabelT]int{}
	for i, block := range process.Blocks {
		blocks[block.Label] = i
	}

	entries := 0
	index := 0
	for {
		entries += 1
		if MaxBlockEntries < entries {
			return nil, fmt.Errorf("execution fuse blown after %d block entries", entries-1)
		}
		run.Visits[index] += 1
		block := process.Blocks[index]
		next := -1
		for _, rawInst := range block.Insts {
			switch inst := rawInst.(type) {
			case *AllocInstT, *GateInstT:
				// No simulated state.
			case *MeasureInstT:
				run.Values[inst.Future] = source.Sample(inst.Qubits)
			case *SetInstT:
				value, err := run.futureValue(inst.Value)
				if err != nil {
					return nil, err
				}
				run.Values[inst.Target] = value
			case *JumpInstT:
				next = blocks[inst.Target]
			case *BranchInstT:
				test, err := run.futureValue(inst.Test)
				if err != nil {
					return nil, err
				}
				if test != 0 {
					next = blocks[inst.Then]
				} else {
					next = blocks[inst.Else]
				}
			default:
				panic("unknown instruction kind")
			}
		}
		if next == -1 {
			return run, nil // fell off the final block
		}
		index = next
	}
}
