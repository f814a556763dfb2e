// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

package ket

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/s48/ket/ir"
)

// Each X.ket in the archive runs with its print output compared
// against X.out.  An X.outcomes section scripts the measurements and
// turns on execution of the emitted stream.
func TestPrograms(t *testing.T) {
	archive, err := txtar.ParseFile("testdata/programs.txtar")
	if err != nil {
		t.Fatal(err)
	}
	sections := map[string]string{}
	names := []string{}
	for _, file := range archive.Files {
		sections[file.Name] = string(file.Data)
		if strings.HasSuffix(file.Name, ".ket") {
			names = append(names, strings.TrimSuffix(file.Name, ".ket"))
		}
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			var out strings.Builder
			options := &OptionsT{Name: name, Out: &out}
			if outcomes, found := sections[name+".outcomes"]; found {
				options.Execute = true
				options.Source = scriptSource(t, outcomes)
			}
			result, err := RunSource(sections[name+".ket"], options)
			if err != nil {
				t.Fatal(err)
			}
			if want := sections[name+".out"]; out.String() != want {
				t.Errorf("output:\n%s\nwant:\n%s", out.String(), want)
			}
			if options.Execute && result.Run == nil {
				t.Error("execution produced no run")
			}
		})
	}
}

func scriptSource(t *testing.T, text string) *ir.ScriptSourceT {
	t.Helper()
	outcomes := []int64{}
	for _, field := range strings.Fields(text) {
		outcome, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			t.Fatalf("bad outcome %q: %v", field, err)
		}
		outcomes = append(outcomes, outcome)
	}
	return &ir.ScriptSourceT{Outcomes: outcomes}
}

func TestRunSourceErrors(t *testing.T) {
	if _, err := RunSource("if {", nil); err == nil {
		t.Error("a parse error got through")
	}
	var out strings.Builder
	if _, err := RunSource("a = b", &OptionsT{Out: &out}); err == nil {
		t.Error("a runtime error got through")
	}
}

func TestMaxQubits(t *testing.T) {
	var out strings.Builder
	_, err := RunSource("q = quant(4)", &OptionsT{Out: &out, MaxQubits: 2})
	if err == nil {
		t.Error("allocation past the cap succeeded")
	}
}

func TestRandomSourceIsSeeded(t *testing.T) {
	source := `
q = quant(8)
h(q)
m = measure(q)
`
	run := func(seed int64) *ir.RunT {
		var out strings.Builder
		result, err := RunSource(source, &OptionsT{Out: &out, Seed: seed, Execute: true})
		if err != nil {
			t.Fatal(err)
		}
		return result.Run
	}
	values := func(run *ir.RunT) []int64 {
		result := []int64{}
		for _, value := range run.Values {
			result = append(result, value)
		}
		return result
	}
	first, second := values(run(7)), values(run(7))
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Errorf("same seed gave %v then %v", first, second)
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.ket")
	if err := os.WriteFile(path, []byte("print(\"from file\")\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out strings.Builder
	if _, err := RunFile(path, &OptionsT{Out: &out}); err != nil {
		t.Fatal(err)
	}
	if out.String() != "from file\n" {
		t.Errorf("output %q", out.String())
	}
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ket.toml")
	text := `
[run]
seed = 11
max_qubits = 5
execute = false

[dump]
format = "json"
`
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if config.Run.Seed != 11 || config.Run.MaxQubits != 5 || config.Run.Execute {
		t.Errorf("run config %+v", config.Run)
	}
	if config.Dump.Format != "json" {
		t.Errorf("dump format %q", config.Dump.Format)
	}
	options := config.Options()
	if options.Seed != 11 || options.MaxQubits != 5 || options.Execute {
		t.Errorf("options %+v", options)
	}

	// Missing files fall back to the defaults.
	config, err = FindConfig(filepath.Join(dir, "sub", "prog.ket"))
	if err != nil {
		t.Fatal(err)
	}
	if config != DefaultConfig() {
		t.Errorf("defaults %+v", config)
	}

	// A config beside the program is picked up.
	config, err = FindConfig(filepath.Join(dir, "prog.ket"))
	if err != nil {
		t.Fatal(err)
	}
	if config.Run.Seed != 11 {
		t.Errorf("found config %+v", config)
	}

	if err := os.WriteFile(path, []byte("[dump]\nformat = \"yaml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("a bad dump format got through")
	}
}
