// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

package pp

import (
	"strings"
	"testing"

	"github.com/s48/ket/eval"
	"github.com/s48/ket/front"
	"github.com/s48/ket/ir"
)

func parse(t *testing.T, source string) *front.ProgramT {
	t.Helper()
	prog, err := front.ParseProgram("test", source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return prog
}

// Run a program against a fresh process and return its print output
// and the process.
func runProgram(t *testing.T, prog *front.ProgramT) (string, *ir.ProcessT) {
	t.Helper()
	process := ir.Begin()
	defer ir.End()
	var out strings.Builder
	evaluator := eval.MakeEvaluator(process, &out)
	if err := evaluator.Run(prog); err != nil {
		t.Fatalf("evaluation failed: %v\nsource:\n%s", err, front.Print(prog))
	}
	ir.CheckBlocks(process)
	return out.String(), process
}

//----------------------------------------------------------------
// Classical equivalence: with no deferred values anywhere, the
// transformed program behaves exactly like the original, and leaves
// the instruction stream untouched.

var classicalPrograms = []string{
	`n = 0
s = 0
while n < 10 {
    n = n + 1
    if n % 2 == 0 { continue }
    if n == 9 { break }
    s = s + n
}
print(n, s)`,

	`n = 3
while n > 0 {
    n = n - 1
} else {
    print("done", n)
}`,

	`n = 0
while true {
    n = n + 1
    if n == 2 { break }
} else {
    print("never")
}
print(n)`,

	`while false {
    print("no")
} else {
    print("else")
}`,

	`i = 0
total = 0
while i < 3 {
    j = 0
    while j < 5 {
        if j == 2 { break }
        total = total + 1
        j = j + 1
    }
    i = i + 1
}
print(i, total)`,

	`i = 0
hits = 0
while i < 4 {
    i = i + 1
    j = 0
    while j < 4 {
        j = j + 1
        if j == 2 { continue }
        hits = hits + 1
    }
}
print(i, hits)`,

	`x = 7
if x < 5 {
    print("low")
} else if x < 10 {
    print("mid")
} else {
    print("high")
}`,

	`n = 5
f = 1
while n > 1 {
    f = f * n
    n = n - 1
} else {
    print("factorial", f)
}`,

	`n = 0
while n < 3 {
    n = n + 1
    if n == 1 {
        continue
    } else {
        print("n", n)
    }
}`,
}

func TestClassicalEquivalence(t *testing.T) {
	for i, source := range classicalPrograms {
		plainOut, _ := runProgram(t, parse(t, source))
		transformed := Transform(parse(t, source))
		transformedOut, process := runProgram(t, transformed)
		if plainOut != transformedOut {
			t.Errorf("program %d diverged:\nplain:\n%s\ntransformed:\n%s\nrewrite:\n%s",
				i, plainOut, transformedOut, front.Print(transformed))
		}
		// A purely classical run must not touch the stream.
		if process.LabelCount() != 1 || process.BranchCount() != 0 {
			t.Errorf("program %d emitted instructions: %d labels, %d branches",
				i, process.LabelCount(), process.BranchCount())
		}
	}
}

// A condition with a side effect runs exactly once per decision on
// the classical path: once for an if, iterations+1 times for a while.
func TestSingleEvaluation(t *testing.T) {
	cases := []struct {
		source string
		want   int64
	}{
		{`if tick() < 100 { a = 1 }`, 1},
		{`if tick() > 100 { a = 1 } else { a = 2 }`, 1},
		{`while tick() < 3 { a = 1 }`, 3},
		{`while tick() < 3 { a = 1 } else { a = 2 }`, 3},
		{`n = 0
while tick() < 100 {
    n = n + 1
    if n == 2 { break }
}`, 2},
		{`n = 0
while tick() < 4 {
    n = n + 1
    if n == 1 { continue }
}`, 4},
	}
	for _, c := range cases {
		for _, doTransform := range []bool{false, true} {
			prog := parse(t, c.source)
			if doTransform {
				Transform(prog)
			}
			process := ir.Begin()
			var out strings.Builder
			evaluator := eval.MakeEvaluator(process, &out)
			ticks := int64(0)
			evaluator.Register("tick", func(ev *eval.EvaluatorT, args []any) (any, error) {
				ticks += 1
				return ticks, nil
			})
			err := evaluator.Run(prog)
			ir.End()
			if err != nil {
				t.Fatalf("evaluation failed: %v", err)
			}
			if ticks != c.want {
				t.Errorf("transform=%v: condition ran %d times, want %d:\n%s",
					doTransform, ticks, c.want, c.source)
			}
		}
	}
}

//----------------------------------------------------------------
// Deferred-path block graphs.

func TestDeferredIf(t *testing.T) {
	source := `
q = quant(1)
h(q)
m = measure(q)
if m == 1 {
    x(q)
}
print("after")
`
	out, process := runProgram(t, Transform(parse(t, source)))
	if out != "after\n" {
		t.Errorf("output %q", out)
	}
	// Entry plus then and end: no else block was declared, so none is
	// allocated.
	if process.LabelCount() != 3 {
		t.Errorf("got %d labels, want 3:\n%s", process.LabelCount(), ir.Dump(process))
	}
	if process.BranchCount() != 1 {
		t.Errorf("got %d branches, want 1:\n%s", process.BranchCount(), ir.Dump(process))
	}
	if len(process.Blocks) != 3 {
		t.Errorf("got %d blocks, want 3:\n%s", len(process.Blocks), ir.Dump(process))
	}
}

func TestDeferredIfElse(t *testing.T) {
	source := `
q = quant(1)
h(q)
m = measure(q)
if m == 1 {
    x(q)
} else {
    z(q)
}
`
	_, process := runProgram(t, Transform(parse(t, source)))
	if process.LabelCount() != 4 {
		t.Errorf("got %d labels, want 4:\n%s", process.LabelCount(), ir.Dump(process))
	}
	dump := ir.Dump(process)
	// Both arms end up in the stream, in separate blocks.
	if !strings.Contains(dump, "x q0") || !strings.Contains(dump, "z q0") {
		t.Errorf("missing an arm:\n%s", dump)
	}
}

// Branch exclusivity at execution time: only one arm's block is ever
// entered per run.
func TestBranchExclusivity(t *testing.T) {
	source := `
q = quant(1)
h(q)
m = measure(q)
if m == 1 {
    x(q)
} else {
    z(q)
}
`
	for outcome := int64(0); outcome <= 1; outcome++ {
		_, process := runProgram(t, Transform(parse(t, source)))
		run, err := ir.Execute(process, &ir.ScriptSourceT{Outcomes: []int64{outcome}})
		if err != nil {
			t.Fatalf("execute failed: %v", err)
		}
		// Blocks: entry, then, else, end.
		thenVisits, elseVisits := run.Visits[1], run.Visits[2]
		if outcome == 1 && (thenVisits != 1 || elseVisits != 0) {
			t.Errorf("outcome 1: visits then=%d else=%d", thenVisits, elseVisits)
		}
		if outcome == 0 && (thenVisits != 0 || elseVisits != 1) {
			t.Errorf("outcome 0: visits then=%d else=%d", thenVisits, elseVisits)
		}
	}
}

func TestDeferredWhile(t *testing.T) {
	source := `
q = quant(1)
h(q)
ndone = future(1)
while ndone == 1 {
    h(q)
    set(ndone, measure(q))
}
`
	_, process := runProgram(t, Transform(parse(t, source)))
	// The loop body runs until a measurement comes back 0.
	run, err := ir.Execute(process, &ir.ScriptSourceT{Outcomes: []int64{1, 1, 0}})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	total := 0
	for _, visits := range run.Visits {
		total += visits
	}
	// entry + 4 begin entries + 3 loop entries + end.
	if total != 9 {
		t.Errorf("total block entries %d, want 9:\n%s", total, ir.Dump(process))
	}
}

// A while that exhausts a deferred condition runs its else clause
// blocks exactly once; a break jumps straight to end, skipping them.
func TestDeferredWhileElse(t *testing.T) {
	source := `
q = quant(1)
ndone = future(1)
while ndone == 1 {
    set(ndone, measure(q))
} else {
    x(q)
}
`
	_, process := runProgram(t, Transform(parse(t, source)))
	dump := ir.Dump(process)
	if !strings.Contains(dump, "x q0") {
		t.Fatalf("else clause missing from the stream:\n%s", dump)
	}
	run, err := ir.Execute(process, &ir.ScriptSourceT{Outcomes: []int64{0}})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	// Blocks: entry, begin, loop, else, end.
	if run.Visits[3] != 1 {
		t.Errorf("else block entered %d times, want 1:\n%s", run.Visits[3], dump)
	}
}

func TestDeferredBreakSkipsElse(t *testing.T) {
	source := `
q = quant(1)
ndone = future(1)
while ndone == 1 {
    set(ndone, measure(q))
    break
} else {
    x(q)
}
`
	_, process := runProgram(t, Transform(parse(t, source)))
	run, err := ir.Execute(process, &ir.ScriptSourceT{Outcomes: []int64{1}})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	for i, block := range process.Blocks {
		for _, inst := range block.Insts {
			if gate, isGate := inst.(*ir.GateInstT); isGate && gate.Gate == ir.PauliX {
				if run.Visits[i] != 0 {
					t.Errorf("else block entered after break:\n%s", ir.Dump(process))
				}
			}
		}
	}
}

func TestDeferredContinue(t *testing.T) {
	source := `
q = quant(1)
ndone = future(1)
while ndone == 1 {
    set(ndone, measure(q))
    continue
    h(q)
}
`
	_, process := runProgram(t, Transform(parse(t, source)))
	run, err := ir.Execute(process, &ir.ScriptSourceT{Outcomes: []int64{1, 0}})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	// The h gate sits in the dead block after the continue's jump.
	for i, block := range process.Blocks {
		for _, inst := range block.Insts {
			if gate, isGate := inst.(*ir.GateInstT); isGate && gate.Gate == ir.Hadamard {
				if run.Visits[i] != 0 {
					t.Errorf("dead block after continue was entered:\n%s", ir.Dump(process))
				}
			}
		}
	}
}

// Find the block carrying 'gate' and check how often a run entered it.
func checkGateVisits(t *testing.T, process *ir.ProcessT, run *ir.RunT,
	gate ir.GateT, want int) {
	t.Helper()
	for i, block := range process.Blocks {
		for _, inst := range block.Insts {
			gateInst, isGate := inst.(*ir.GateInstT)
			if isGate && gateInst.Gate == gate {
				if run.Visits[i] != want {
					t.Errorf("block with gate %s entered %d times, want %d:\n%s",
						gate, run.Visits[i], want, ir.Dump(process))
				}
				return
			}
		}
	}
	t.Errorf("no block carries gate %s:\n%s", gate, ir.Dump(process))
}

// A break in a deferred loop nested inside another deferred loop
// leaves the inner loop only: the z gate after the inner loop runs
// once per outer iteration, and the h gate after the break never
// runs.
func TestNestedDeferredBreak(t *testing.T) {
	source := `
q = quant(1)
outer = future(1)
while outer == 1 {
    inner = future(1)
    while inner == 1 {
        break
        h(q)
    }
    z(q)
    set(outer, measure(q))
}
`
	_, process := runProgram(t, Transform(parse(t, source)))
	run, err := ir.Execute(process, &ir.ScriptSourceT{Outcomes: []int64{1, 0}})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	checkGateVisits(t, process, run, ir.PauliZ, 2)
	checkGateVisits(t, process, run, ir.Hadamard, 0)
}

// A continue in the inner of two nested deferred loops re-enters the
// inner loop's begin block; if it targeted the outer loop instead,
// the outer condition would never be updated and the execution fuse
// would blow.
func TestNestedDeferredContinue(t *testing.T) {
	source := `
q = quant(1)
outer = future(1)
while outer == 1 {
    inner = future(1)
    while inner == 1 {
        set(inner, measure(q))
        continue
        x(q)
    }
    z(q)
    set(outer, measure(q))
}
`
	_, process := runProgram(t, Transform(parse(t, source)))
	run, err := ir.Execute(process, &ir.ScriptSourceT{Outcomes: []int64{0, 0}})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	checkGateVisits(t, process, run, ir.PauliZ, 1)
	checkGateVisits(t, process, run, ir.PauliX, 0)
}

// The generated gotos bind to the right loop: an inner break targets
// the inner loop's end name, a continue after the inner loop targets
// the outer loop's begin name (the saved context is restored once the
// inner loop is done).
func TestNestedLoopGotoTargets(t *testing.T) {
	prog := Transform(parse(t, `
while a == 1 {
    while b == 1 {
        break
    }
    continue
}
`))
	printed := front.Print(prog)
	for _, want := range []string{
		"$goto($while_end1)",   // inner break
		"$goto($while_begin0)", // outer continue
	} {
		if !strings.Contains(printed, want) {
			t.Errorf("rewrite missing %q:\n%s", want, printed)
		}
	}
	for _, wrong := range []string{
		"$goto($while_end0)",   // break leaked to the outer loop
		"$goto($while_begin1)", // continue leaked to the inner loop
	} {
		if strings.Contains(printed, wrong) {
			t.Errorf("rewrite contains %q:\n%s", wrong, printed)
		}
	}
}

//----------------------------------------------------------------
// Hygiene.

// Two syntactically identical ifs get disjoint label sets; if they
// shared names, the second would open an already-opened label and
// panic.
func TestLabelUniqueness(t *testing.T) {
	source := `
q = quant(1)
m = measure(q)
if m == 1 { x(q) }
if m == 1 { x(q) }
`
	_, process := runProgram(t, Transform(parse(t, source)))
	if process.LabelCount() != 5 {
		t.Errorf("got %d labels, want 5:\n%s", process.LabelCount(), ir.Dump(process))
	}
}

func TestNestedDispatch(t *testing.T) {
	// A classical if nested inside a deferred if keeps its classical
	// semantics while its statements land in the outer then-block.
	source := `
q = quant(1)
m = measure(q)
n = 2
if m == 1 {
    if n == 2 {
        x(q)
    } else {
        z(q)
    }
}
`
	_, process := runProgram(t, Transform(parse(t, source)))
	dump := ir.Dump(process)
	if !strings.Contains(dump, "x q0") {
		t.Errorf("inner classical then-arm missing:\n%s", dump)
	}
	if strings.Contains(dump, "z q0") {
		t.Errorf("inner classical else-arm was emitted:\n%s", dump)
	}
	// Only the outer if allocates labels.
	if process.LabelCount() != 3 {
		t.Errorf("got %d labels, want 3:\n%s", process.LabelCount(), ir.Dump(process))
	}
}

func TestDeferredInsideClassical(t *testing.T) {
	source := `
q = quant(1)
m = measure(q)
n = 2
if n == 2 {
    if m == 1 {
        x(q)
    }
}
`
	_, process := runProgram(t, Transform(parse(t, source)))
	if process.LabelCount() != 3 || process.BranchCount() != 1 {
		t.Errorf("got %d labels and %d branches, want 3 and 1:\n%s",
			process.LabelCount(), process.BranchCount(), ir.Dump(process))
	}
}

//----------------------------------------------------------------
// The generated tree itself.

func TestIfRewriteShape(t *testing.T) {
	prog := Transform(parse(t, "if a { b() }"))
	want := `$if_test0 = a
if $is_future($if_test0) {
    $if_end0 = $if($if_test0)
    b()
    $next($if_end0)
} else {
    if $if_test0 {
        b()
    }
}
`
	if got := front.Print(prog); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestWhileRewriteShape(t *testing.T) {
	prog := Transform(parse(t, "while a { b() } else { c() }"))
	printed := front.Print(prog)
	for _, want := range []string{
		"$while_test0 = a",
		"if $is_future($while_test0) {",
		"$while_begin0, $while_loop0, $while_else0, $while_end0 = $while_else()",
		"$while_test($while_test0, $while_loop0, $while_else0)",
		"$loop($while_begin0, $while_else0)",
		"$next($while_end0)",
		"while ($while_first0 or a) {",
		"c()",
	} {
		if !strings.Contains(printed, want) {
			t.Errorf("rewrite missing %q:\n%s", want, printed)
		}
	}
}

func TestFreshCounterPerTransform(t *testing.T) {
	first := front.Print(Transform(parse(t, "if a { b() }")))
	second := front.Print(Transform(parse(t, "if a { b() }")))
	if first != second {
		t.Errorf("transforms of the same source differ:\n%s\n----\n%s", first, second)
	}
}

// break/continue outside any loop pass through untouched.
func TestBareBreakUntouched(t *testing.T) {
	prog := Transform(parse(t, "if a { break }"))
	printed := front.Print(prog)
	if strings.Contains(printed, "$goto") {
		t.Errorf("break outside a loop was rewritten:\n%s", printed)
	}
	if !strings.Contains(printed, "break") {
		t.Errorf("break disappeared:\n%s", printed)
	}
}
