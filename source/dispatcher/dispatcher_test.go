package dispatcher_test

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/tim-hardcastle/dsh/source/command"
	"github.com/tim-hardcastle/dsh/source/dispatcher"
	"github.com/tim-hardcastle/dsh/source/object"
	"github.com/tim-hardcastle/dsh/source/test_helper"
	"github.com/tim-hardcastle/dsh/source/values"
)

func addTestCommands(d *dispatcher.Dispatcher) {
	d.Commands.Add("boom", "panics", "boom", 0, func(env *object.Environment, args ...values.Value) (values.Value, error) {
		panic("kaboom")
	})
	d.Commands.Add("fail", "fails", "fail x", 1, func(env *object.Environment, args ...values.Value) (values.Value, error) {
		return values.Value{}, errors.Errorf("failed on %v", args[0])
	})
	d.Commands.Add("nothing", "returns nothing", "nothing", 0, func(env *object.Environment, args ...values.Value) (values.Value, error) {
		return values.Value{}, nil
	})
	d.Commands.Add("count", "counts its arguments", "count ...", command.Variadic, func(env *object.Environment, args ...values.Value) (values.Value, error) {
		return values.Int(int64(len(args))), nil
	})
}

func addTestMacros(d *dispatcher.Dispatcher) {
	test_helper.AddMacro(d, "setup", "x = 2", "y = #(x * 10)")
	test_helper.AddMacro(d, "a", "z = 1")
	test_helper.AddMacro(d, "b", ";a", "#(z + 1)")
	test_helper.AddMacro(d, "loop", ";loop")
	test_helper.AddMacro(d, "bad", "w = 1", "#(1 / 0)", "w = 2")
	test_helper.AddMacro(d, "empty")
	test_helper.AddMacro(d, "broken", `"unterminated`)
	test_helper.AddMacro(d, "skips", `"unterminated`, "#(3 + 4)")
}

func setup(d *dispatcher.Dispatcher) {
	addTestCommands(d)
	addTestMacros(d)
}

func TestAssignment(t *testing.T) {
	tests := []test_helper.TestItem{
		{Input: "x = 5\nx", Want: `5`},
		{Input: "x = 5\nx = #(x + 1)\nx", Want: `6`},
		{Input: "x = #(2 + 3)\ny = #(x * 2)\ny", Want: `10`},
		{Input: "x = :gcd 12 18\nx", Want: `6`},
		{Input: `x = 5`, Want: `5`},
		{Input: "x = 5\n#(x * x)", Want: `25`},
		{Input: `x = "a b"`, Want: `a b`},
		{Input: "x = true\n#(x + 1)", Want: `2`},
		{Input: `s = #("\\" + ")")`, Want: `\)`},
	}
	test_helper.RunTest(t, setup, tests, test_helper.TestValues)
}

func TestLiterals(t *testing.T) {
	tests := []test_helper.TestItem{
		{Input: `42`, Want: `42`},
		{Input: `-2.50`, Want: `-2.5`},
		{Input: `"hello"`, Want: `"hello"`},
		{Input: `true`, Want: `true`},
		{Input: `null`, Want: `null`},
		{Input: `x = "5"`, Want: `"5"`},
		{Input: `#("a" + 1)`, Want: `"a1"`},
		{Input: `#([1, 2] * 2)`, Want: `[2, 4]`},
	}
	test_helper.RunTest(t, setup, tests, test_helper.TestLiterals)
}

// A line with several tokens and no command in front is the value of its last token.
func TestLastToken(t *testing.T) {
	tests := []test_helper.TestItem{
		{Input: `1 2 3`, Want: `3`},
		{Input: `5 "b"`, Want: `b`},
		{Input: `= 5`, Want: `5`},
	}
	test_helper.RunTest(t, setup, tests, test_helper.TestValues)
}

func TestCommands(t *testing.T) {
	tests := []test_helper.TestItem{
		{Input: `:nothing`, Want: `null`},
		{Input: `:count`, Want: `0`},
		{Input: `:count 1 "a" #(2 + 2) ;a`, Want: `4`},
		{Input: `x = :nothing`, Want: `null`},
	}
	test_helper.RunTest(t, setup, tests, test_helper.TestValues)
}

func TestMacros(t *testing.T) {
	tests := []test_helper.TestItem{
		{Input: `;setup`, Want: `20`},
		{Input: ";setup\nx", Want: `2`},
		{Input: `;b`, Want: `2`},
		{Input: `v = ;setup`, Want: `20`},
		{Input: `;skips`, Want: `7`},
		{Input: `:count ;setup ;b`, Want: `2`},
	}
	test_helper.RunTest(t, setup, tests, test_helper.TestValues)
}

func TestErrors(t *testing.T) {
	tests := []test_helper.TestItem{
		{Input: ``, Want: `disp/empty`},
		{Input: `   `, Want: `disp/empty`},
		{Input: `x`, Want: `disp/variable`},
		{Input: `#(y + 1)`, Want: `calc/variable`},
		{Input: `x =`, Want: `disp/assign/value`},
		{Input: `=`, Want: `disp/assign/token`},
		{Input: `:nope`, Want: `disp/command/unknown`},
		{Input: `;nope`, Want: `disp/macro/unknown`},
		{Input: `;empty`, Want: `disp/macro/empty`},
		{Input: `;broken`, Want: `disp/macro/empty`},
		{Input: `;loop`, Want: `disp/macro/depth`},
		{Input: `;bad`, Want: `values/divide/zero`},
		{Input: `:boom`, Want: `disp/command/fault`},
		{Input: `:fail 1`, Want: `disp/command/fault`},
		{Input: `:fail`, Want: `disp/command/arity`},
		{Input: `:fail #(1 / 0)`, Want: `values/divide/zero`},
		{Input: `:count undefined`, Want: `disp/variable`},
		{Input: `x = :nope`, Want: `disp/command/unknown`},
		{Input: `"abc`, Want: `lex/quote`},
		{Input: `1 2 x`, Want: `disp/variable`},
		{Input: `e = 1`, Want: `env/constant`},
		{Input: `x = 1`, Want: `ok`},
	}
	test_helper.RunTest(t, setup, tests, test_helper.TestErrors)
}

func TestMessages(t *testing.T) {
	tests := []test_helper.TestItem{
		{Input: `x`, Want: `[Runtime error] undefined variable: x`},
		{Input: `:nope`, Want: `[Runtime error] unknown command: nope`},
		{Input: `;nope`, Want: `[Runtime error] unknown macro: nope`},
		{Input: `;empty`, Want: `[Runtime error] macro is empty: empty`},
		{Input: `:boom`, Want: `[Runtime error] command execution failed: boom - kaboom`},
		{Input: `:fail 7`, Want: `[Runtime error] command execution failed: fail - failed on 7`},
		{Input: `x =`, Want: `[Syntax error] assignment requires a value after '='`},
		{Input: `:gcd 1 2 3`, Want: `[Validation error] command 'gcd' expects 2 arguments, got 3`},
	}
	test_helper.RunTest(t, setup, tests, test_helper.TestMessages)
}

func TestMacroStopsAtFirstError(t *testing.T) {
	d := test_helper.NewDispatcher()
	addTestMacros(d)
	if r := d.Execute(`;bad`); r.IsOk() {
		t.Fatalf("Wanted an error, got %v", r.Value())
	}
	if got := d.Env.Get("w").String(); got != "1" {
		t.Fatalf("Lines before the failure should have run and lines after it shouldn't: w is %v", got)
	}
	// The depth must be unwound after a failure, or the next macro would fail too.
	if r := d.Execute(`;setup`); r.IsError() {
		t.Fatalf("Unexpected error after a failed macro: %v", r.Err())
	}
}

func TestMaxMacroDepth(t *testing.T) {
	d := test_helper.NewDispatcher()
	addTestMacros(d)
	d.SetMaxMacroDepth(3)
	r := d.Execute(`;loop`)
	if r.IsOk() || r.Err().Message != "macro recursion too deep invoking 'loop' (limit 3)" {
		t.Fatalf("Wanted the depth limit in the error, got %v", r)
	}
	d.SetMaxMacroDepth(1)
	if r := d.Execute(`;b`); r.IsOk() {
		t.Fatalf("A macro calling a macro should exceed a depth of 1")
	}
	if r := d.Execute(`;a`); r.IsError() {
		t.Fatalf("A macro calling no macro shouldn't exceed a depth of 1: %v", r.Err())
	}
}

func TestFailedAssignmentLeavesVariable(t *testing.T) {
	d := test_helper.NewDispatcher()
	d.Execute(`x = 1`)
	if r := d.Execute(`x = #(1 / 0)`); r.IsOk() {
		t.Fatalf("Wanted an error")
	}
	if got := d.Env.Get("x").String(); got != "1" {
		t.Fatalf("A failed assignment shouldn't change the variable, but x is %v", got)
	}
}
