// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Structural checks on a process's block graph.  Violations are
// defects in whatever built the stream, so they panic.

package ir

import (
	"fmt"

	"github.com/s48/ket/util"
)

// CheckBlocks verifies that:
//   - every block but the last ends in exactly one terminator,
//   - terminators appear only at the ends of blocks,
//   - every jump and branch targets a label that was opened,
//   - no two blocks share a label.
func CheckBlocks(process *ProcessT) {
	opened := util.NewSet[*LabelT]()
	for _, block := range process.Blocks {
		if opened.Contains(block.Label) {
			panic(fmt.Sprintf("label %s has two blocks", block.Label))
		}
		opened.Add(block.Label)
	}
	for i, block := range process.Blocks {
		last := len(block.Insts) - 1
		for j, inst := range block.Insts {
			terminator := false
			switch inst := inst.(type) {
			case *JumpInstT:
				terminator = true
				checkTarget(opened, block, inst.Target)
			case *BranchInstT:
				terminator = true
				checkTarget(opened, block, inst.Then)
				checkTarget(opened, block, inst.Else)
			}
			if terminator && j != last {
				panic(fmt.Sprintf("terminator in the middle of block %s", block.Label))
			}
		}
		if i < len(process.Blocks)-1 && !block.terminated {
			panic(fmt.Sprintf("block %s does not end in a terminator", block.Label))
		}
	}
}

func checkTarget(opened util.SetT[*LabelT], block *BlockT, target *LabelT) {
	if target == nil {
		panic(fmt.Sprintf("nil jump target in block %s", block.Label))
	}
	if !opened.Contains(target) {
		panic(fmt.Sprintf("block %s jumps to unopened label %s", block.Label, target))
	}
}
