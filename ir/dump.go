// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Serializing instruction streams, for golden tests and the driver's
// -dump flag.

package ir

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Dump renders the process's blocks as text, one instruction per line.
func Dump(process *ProcessT) string {
	var out strings.Builder
	for _, block := range process.Blocks {
		fmt.Fprintf(&out, "%s:\n", block.Label)
		for _, inst := range block.Insts {
			fmt.Fprintf(&out, "  %s\n", inst)
		}
	}
	return out.String()
}

type jsonBlockT struct {
	Label string   `json:"label"`
	Insts []string `json:"instructions"`
}

// DumpJSON renders the same stream as JSON, for tooling that wants
// structure instead of text.
func DumpJSON(process *ProcessT) ([]byte, error) {
	blocks := make([]jsonBlockT, len(process.Blocks))
	for i, block := range process.Blocks {
		insts := make([]string, len(block.Insts))
		for j, inst := range block.Insts {
			insts[j] = inst.String()
		}
		blocks[i] = jsonBlockT{Label: block.Label.String(), Insts: insts}
	}
	return json.MarshalIndent(blocks, "", "  ")
}

// Counts of interest to tests: how many branch terminators and how
// many non-entry blocks the stream has.
func (process *ProcessT) BranchCount() int {
	count := 0
	for _, block := range process.Blocks {
		for _, inst := range block.Insts {
			if _, isBranch := inst.(*BranchInstT); isBranch {
				count += 1
			}
		}
	}
	return count
}

func (process *ProcessT) LabelCount() int {
	return process.labelCount
}
