// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

package ir

import (
	"fmt"
)

// A label names one basic block in its process's instruction stream.
// Labels have identity equality only.  A label is created unopened;
// opening it starts its block.

type LabelT struct {
	index   int
	process *ProcessT
	opened  bool
}

func (label *LabelT) Index() int         { return label.index }
func (label *LabelT) Process() *ProcessT { return label.process }
func (label *LabelT) Opened() bool       { return label.opened }

// Begin opens the label's block in its own process.
func (label *LabelT) Begin() {
	label.process.OpenBlock(label)
}

func (label *LabelT) String() string {
	return fmt.Sprintf("L%d", label.index)
}
