// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

package util

import (
	"sort"
	"testing"
)

func TestStack(t *testing.T) {
	var stack StackT[int]
	if !stack.Empty() {
		t.Error("new stack is not empty")
	}
	stack.Push(1)
	stack.Push(2)
	if stack.Top() != 2 || stack.Len() != 2 {
		t.Errorf("top %d len %d, want 2 2", stack.Top(), stack.Len())
	}
	if stack.Pop() != 2 || stack.Pop() != 1 {
		t.Error("pops came back out of order")
	}
	if !stack.Empty() {
		t.Error("drained stack is not empty")
	}
	defer func() {
		if recover() == nil {
			t.Error("popping an empty stack did not panic")
		}
	}()
	stack.Pop()
}

func TestSet(t *testing.T) {
	set := NewSet(3, 1)
	set.Add(2)
	set.Add(1)
	if !set.Contains(1) || !set.Contains(2) || !set.Contains(3) {
		t.Errorf("set is missing members: %v", set.Members())
	}
	if set.Contains(4) {
		t.Error("set contains 4")
	}
	members := set.Members()
	sort.Ints(members)
	if len(members) != 3 {
		t.Errorf("set has %d members, want 3: %v", len(members), members)
	}
}
