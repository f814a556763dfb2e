// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// The instructions that make up a block.  These mirror what the
// execution engine understands: qubit allocation, gates, measurements,
// future assignment, and the two terminators.

package ir

import (
	"fmt"
	"strings"
)

type InstT interface {
	String() string
}

type GateT int

const (
	PauliX GateT = iota
	PauliY
	PauliZ
	Hadamard
	Phase
	RotationX
	RotationY
	RotationZ
)

var gateNames = map[GateT]string{
	PauliX:    "x",
	PauliY:    "y",
	PauliZ:    "z",
	Hadamard:  "h",
	Phase:     "p",
	RotationX: "rx",
	RotationY: "ry",
	RotationZ: "rz",
}

func (gate GateT) String() string { return gateNames[gate] }

type AllocInstT struct {
	Qubit int
}

type GateInstT struct {
	Gate  GateT
	Qubit int
	Param float64
}

type MeasureInstT struct {
	Future *FutureT
	Qubits []int
}

type SetInstT struct {
	Target *FutureT
	Value  *FutureT
}

type JumpInstT struct {
	Target *LabelT
}

type BranchInstT struct {
	Test *FutureT
	Then *LabelT
	Else *LabelT
}

func (inst *AllocInstT) String() string {
	return fmt.Sprintf("alloc q%d", inst.Qubit)
}

func (inst *GateInstT) String() string {
	if inst.Param == 0 {
		return fmt.Sprintf("%s q%d", inst.Gate, inst.Qubit)
	}
	return fmt.Sprintf("%s(%g) q%d", inst.Gate, inst.Param, inst.Qubit)
}

func (inst *MeasureInstT) String() string {
	qubits := make([]string, len(inst.Qubits))
	for i, qubit := range inst.Qubits {
		qubits[i] = fmt.Sprintf("q%d", qubit)
	}
	return fmt.Sprintf("measure %s [%s]", inst.Future, strings.Join(qubits, " "))
}

func (inst *SetInstT) String() string {
	return fmt.Sprintf("set %s %s", inst.Target, inst.Value.Expr())
}

func (inst *JumpInstT) String() string {
	return fmt.Sprintf("jump %s", inst.Target)
}

func (inst *BranchInstT) String() string {
	return fmt.Sprintf("branch %s %s %s", inst.Test.Expr(), inst.Then, inst.Else)
}
