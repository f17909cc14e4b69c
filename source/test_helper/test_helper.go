package test_helper

import (
	"strings"
	"testing"

	"github.com/tim-hardcastle/dsh/source/builtins"
	"github.com/tim-hardcastle/dsh/source/command"
	"github.com/tim-hardcastle/dsh/source/dispatcher"
	"github.com/tim-hardcastle/dsh/source/lexer"
	"github.com/tim-hardcastle/dsh/source/macro"
	"github.com/tim-hardcastle/dsh/source/object"
	"github.com/tim-hardcastle/dsh/source/report"
	"github.com/tim-hardcastle/dsh/source/settings"
	"github.com/tim-hardcastle/dsh/source/text"
)

// Auxiliary types and functions for testing the dispatcher and the things it calls.

type TestItem struct {
	Input string
	Want  string
}

// Makes a dispatcher with the builtin commands and constants, and an unsaved macro registry.
func NewDispatcher() *dispatcher.Dispatcher {
	env := object.NewEnclosedEnvironment(builtins.Constants())
	commands := command.NewRegistry()
	builtins.Register(commands)
	return dispatcher.New(env, commands, macro.NewRegistry(nil))
}

// Records a macro directly into the dispatcher's registry. Lines which don't tokenize are kept
// as empty lines, as they would be if they'd been loaded from a store.
func AddMacro(d *dispatcher.Dispatcher, name string, lines ...string) {
	m := macro.New(name)
	for _, line := range lines {
		m.AddRawLine(line)
	}
	m.TokenizeAll(lexer.NewTokenizer(""))
	d.Macros.Add(m)
}

// Each test gets a fresh dispatcher, set up by the optional setup function. The input may be
// several lines separated by newlines, all of which are run: F sees the dispatcher after the
// lines before the last have been executed, and is given the last one.
func RunTest(t *testing.T, setup func(d *dispatcher.Dispatcher), tests []TestItem, F func(d *dispatcher.Dispatcher, s string) (string, error)) {
	t.Helper()
	for _, test := range tests {
		if settings.SHOW_TESTS {
			println(text.BULLET + "Running test " + text.Emph(test.Input))
		}
		d := NewDispatcher()
		if setup != nil {
			setup(d)
		}
		lines := strings.Split(test.Input, "\n")
		for _, line := range lines[:len(lines)-1] {
			if r := d.Execute(line); r.IsError() {
				t.Fatalf("Test failed with input %s | There were errors executing the line %s : %v", test.Input, line, r.Err())
			}
		}
		got, e := F(d, lines[len(lines)-1])
		if e != nil {
			println(text.Red(test.Input))
			println("There were errors executing the line: \n" + e.Error() + "\n")
		}
		if !(test.Want == got) {
			t.Fatalf(`Test failed with input %s | Wanted : %s | Got : %s.`, test.Input, test.Want, got)
		}
	}
}

// Returns the string form of the value of the line.
func TestValues(d *dispatcher.Dispatcher, s string) (string, error) {
	r := d.Execute(s)
	if r.IsError() {
		return "", r.Err()
	}
	return r.Value().String(), nil
}

// Returns the literal form of the value of the line, so that strings can be told from numbers.
func TestLiterals(d *dispatcher.Dispatcher, s string) (string, error) {
	r := d.Execute(s)
	if r.IsError() {
		return "", r.Err()
	}
	return r.Value().Literal(), nil
}

// Returns the identifier of the error the line produces, or "ok" if it doesn't.
func TestErrors(d *dispatcher.Dispatcher, s string) (string, error) {
	r := d.Execute(s)
	if r.IsOk() {
		return "ok", nil
	}
	return r.Err().ErrorId, nil
}

// Returns the kind and message of the error the line produces, or "ok".
func TestMessages(d *dispatcher.Dispatcher, s string) (string, error) {
	r := d.Execute(s)
	if r.IsOk() {
		return "ok", nil
	}
	return Describe(r.Err()), nil
}

func Describe(e *report.Error) string {
	return "[" + e.Kind.String() + "] " + e.Message
}
