// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

package ir

import (
	"fmt"
)

// A quant is a list of allocated qubit indexes.  Gates apply to every
// qubit in the list; measuring reads all of them as one integer.

type QuantT struct {
	process *ProcessT
	qubits  []int
}

func (quant *QuantT) Process() *ProcessT { return quant.process }
func (quant *QuantT) Len() int           { return len(quant.qubits) }

func (quant *QuantT) Qubits() []int {
	qubits := make([]int, len(quant.qubits))
	copy(qubits, quant.qubits)
	return qubits
}

// At returns a single-qubit quant, counting from zero.
func (quant *QuantT) At(i int) *QuantT {
	if i < 0 || len(quant.qubits) <= i {
		panic(fmt.Sprintf("qubit index %d out of range", i))
	}
	return &QuantT{process: quant.process, qubits: []int{quant.qubits[i]}}
}

// Concat joins two quants from the same process, as in 'x(q + aux)'.
func (quant *QuantT) Concat(other *QuantT) *QuantT {
	if quant.process != other.process {
		panic("concatenating quants from different processes")
	}
	qubits := append(quant.Qubits(), other.Qubits()...)
	return &QuantT{process: quant.process, qubits: qubits}
}

func (quant *QuantT) String() string {
	return fmt.Sprintf("<quant %v>", quant.qubits)
}
