package hub_test

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tim-hardcastle/dsh/source/builtins"
	"github.com/tim-hardcastle/dsh/source/command"
	"github.com/tim-hardcastle/dsh/source/database"
	"github.com/tim-hardcastle/dsh/source/dispatcher"
	"github.com/tim-hardcastle/dsh/source/hub"
	"github.com/tim-hardcastle/dsh/source/lexer"
	"github.com/tim-hardcastle/dsh/source/macro"
	"github.com/tim-hardcastle/dsh/source/object"
	"github.com/tim-hardcastle/dsh/source/settings"
	"github.com/tim-hardcastle/dsh/source/test_helper"
	"github.com/tim-hardcastle/dsh/source/text"
)

type hubTestItem struct {
	input string
	want  string
	quit  bool
}

// Each sequence of lines is run through one hub, checking the output of each.
func runHubTest(t *testing.T, h *hub.Hub, tests []hubTestItem) {
	t.Helper()
	text.SetColor(false)
	for _, test := range tests {
		if settings.SHOW_TESTS {
			println(text.BULLET + "Running test " + text.Emph(test.input))
		}
		got, quit := h.Do(test.input)
		if got != test.want || quit != test.quit {
			t.Fatalf(`Test failed with input %s | Wanted : %q, %v | Got : %q, %v.`, test.input, test.want, test.quit, got, quit)
		}
	}
}

func TestHub(t *testing.T) {
	h := hub.New(test_helper.NewDispatcher())
	runHubTest(t, h, []hubTestItem{
		{``, ``, false},
		{`// A comment.`, ``, false},
		{`x = 5`, `=> 5`, false},
		{`x`, `=> 5`, false},
		{`s = "a b"`, `=> a b`, false},
		{`env`, "s = \"a b\"\nx = 5\n2 variables", false},
		{`clear`, `OK`, false},
		{`env`, `The environment is empty.`, false},
		{`env = 3`, `=> 3`, false},
		{`:env`, "env = 3\n1 variable", false},
		{`version`, `dsh version ` + settings.VERSION, false},
		{`help gcd`, `  ▪ :gcd a b : the greatest common divisor of two whole numbers`, false},
		{`help nothing`, `Hub error: there is no command or macro called 'nothing'`, false},
		{`#(1 / 4)`, `=> 0.25`, false},
		{`quit`, ``, true},
		{`:q`, ``, true},
		{`exit`, ``, true},
	})
}

func TestErrorsAndWhy(t *testing.T) {
	h := hub.New(test_helper.NewDispatcher())
	runHubTest(t, h, []hubTestItem{
		{`why`, `There was no error.`, false},
		{`y`, `[Runtime error] undefined variable: y`, false},
		{`#(1 / 0)`, `[Arithmetic error] Division by zero`, false},
	})
	got, _ := h.Do(`why`)
	if !strings.HasPrefix(got, "[Arithmetic error] Division by zero\n") || len(got) <= len("[Arithmetic error] Division by zero\n") {
		t.Fatalf("'why' should explain the last error, got %q", got)
	}
	runHubTest(t, h, []hubTestItem{
		{`reset`, `OK`, false},
		{`why`, `There was no error.`, false},
	})
}

func TestRecording(t *testing.T) {
	h := hub.New(test_helper.NewDispatcher())
	runHubTest(t, h, []hubTestItem{
		{`record`, `Hub error: 'record' needs a name for the macro, e.g. 'record setup'`, false},
		{`record setup`, `Recording 'setup'. Enter 'end' to finish, 'undo' to remove the last line, 'show' to see the lines so far, or 'cancel' to stop without saving.`, false},
		{`a = 2`, ``, false},
		{`"bad`, `[Syntax error] unterminated string literal at position 0`, false},
		{`b = #(a * 3)`, ``, false},
		{`show`, " 1: a = 2\n 2: b = #(a * 3)", false},
		{`undo`, `Removed 'b = #(a * 3)'`, false},
		{`b = #(a * 4)`, ``, false},
		{`end`, `Recorded 'setup' with 2 lines.`, false},
		{`a`, `[Runtime error] undefined variable: a`, false},
		{`;setup`, `=> 8`, false},
		{`a`, `=> 2`, false},
		{`macros`, `  ▪ ;setup (2 lines)`, false},
		{`show setup`, " 1: a = 2\n 2: b = #(a * 4)", false},
		{`forget setup`, `OK`, false},
		{`;setup`, `[Runtime error] unknown macro: setup`, false},
		{`forget setup`, `Hub error: macro not found: setup`, false},
		{`macros`, `There are no macros.`, false},
		{`record temp`, `Recording 'temp'. Enter 'end' to finish, 'undo' to remove the last line, 'show' to see the lines so far, or 'cancel' to stop without saving.`, false},
		{`undo`, `There is nothing to undo.`, false},
		{`cancel`, `Stopped recording 'temp'.`, false},
		{`macros`, `There are no macros.`, false},
	})
}

func TestPrompt(t *testing.T) {
	text.SetColor(false)
	h := hub.New(test_helper.NewDispatcher())
	if h.Prompt() != text.PROMPT {
		t.Fatalf("Wanted the plain prompt, got %q", h.Prompt())
	}
	h.Do(`record setup`)
	if !h.IsRecording() || h.Prompt() != "setup "+text.PROMPT {
		t.Fatalf("Wanted the name of the macro in the prompt, got %q", h.Prompt())
	}
}

func TestRunScript(t *testing.T) {
	text.SetColor(false)
	h := hub.New(test_helper.NewDispatcher())
	var out bytes.Buffer
	err := h.RunScript(strings.NewReader("x = 2\ny = #(x + 1)\n\ny\nz\n"), &out)
	want := "=> 2\n=> 3\n=> 3\n[Runtime error] undefined variable: z\n"
	if out.String() != want {
		t.Fatalf(`Test failed | Wanted : %q | Got : %q.`, want, out.String())
	}
	if err == nil || err.Error() != "1 of 5 lines failed" {
		t.Fatalf("Wanted the failure to be reported, got %v", err)
	}
	out.Reset()
	if err := h.RunScript(strings.NewReader("y\nexit\nz\n"), &out); err != nil || out.String() != "=> 3\n" {
		t.Fatalf("A script should stop at 'exit', got %q, %v", out.String(), err)
	}
}

func TestExec(t *testing.T) {
	text.SetColor(false)
	h := hub.New(test_helper.NewDispatcher())
	var out bytes.Buffer
	if err := h.Exec(`#(6 * 7)`, &out); err != nil || out.String() != "=> 42\n" {
		t.Fatalf("Test failed with input #(6 * 7) | Wanted : => 42 | Got : %q, %v.", out.String(), err)
	}
	out.Reset()
	err := h.Exec(`:gcd 1`, &out)
	if err == nil || out.String() != "[Validation error] command 'gcd' expects 2 arguments, got 1\n" {
		t.Fatalf("Test failed with input :gcd 1 | Wanted an error | Got : %q, %v.", out.String(), err)
	}
	if err := h.Exec(`help`, io.Discard); err != nil {
		t.Fatalf("A hub command shouldn't fail, got %v", err)
	}
}

func newPersistentHub(t *testing.T, path string) (*hub.Hub, *database.MacroStore) {
	store, err := database.Open("SQLite", path)
	if err != nil {
		t.Fatalf("Couldn't open the macro store: %v", err)
	}
	commands := command.NewRegistry()
	builtins.Register(commands)
	macros := macro.NewRegistry(store)
	if err := macros.Load(lexer.NewTokenizer("")); err != nil {
		t.Fatalf("Couldn't load macros: %v", err)
	}
	return hub.New(dispatcher.New(object.NewEnclosedEnvironment(builtins.Constants()), commands, macros)), store
}

func TestMacrosPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macros.db")
	h, store := newPersistentHub(t, path)
	runHubTest(t, h, []hubTestItem{
		{`record double`, `Recording 'double'. Enter 'end' to finish, 'undo' to remove the last line, 'show' to see the lines so far, or 'cancel' to stop without saving.`, false},
		{`n = #(n * 2)`, ``, false},
		{`end`, `Recorded 'double' with 1 line.`, false},
	})
	store.Close()
	h, store = newPersistentHub(t, path)
	runHubTest(t, h, []hubTestItem{
		{`n = 21`, `=> 21`, false},
		{`;double`, `=> 42`, false},
		{`forget double`, `OK`, false},
	})
	store.Close()
	h, store = newPersistentHub(t, path)
	defer store.Close()
	runHubTest(t, h, []hubTestItem{
		{`macros`, `There are no macros.`, false},
	})
}

func TestComplete(t *testing.T) {
	d := test_helper.NewDispatcher()
	test_helper.AddMacro(d, "setup", "x = 1")
	test_helper.AddMacro(d, "sales", "y = 2")
	h := hub.New(d)
	h.Do(`reply = 1`)
	tests := []struct {
		prefix string
		want   string
	}{
		{":ra", ":range"},
		{":ro", ":round, :row"},
		{";s", ";sales, ;setup"},
		{"re", "record, reply, reset"},
		{"zz", ""},
	}
	for _, test := range tests {
		if got := strings.Join(h.Complete(test.prefix), ", "); got != test.want {
			t.Fatalf(`Test failed with input %s | Wanted : %s | Got : %s.`, test.prefix, test.want, got)
		}
	}
}

func TestCheckMacros(t *testing.T) {
	d := test_helper.NewDispatcher()
	test_helper.AddMacro(d, "a", ";b")
	h := hub.New(d)
	runHubTest(t, h, []hubTestItem{
		{`check`, `Warning: there is no macro called ';b'`, false},
		{`record b`, `Recording 'b'. Enter 'end' to finish, 'undo' to remove the last line, 'show' to see the lines so far, or 'cancel' to stop without saving.`, false},
		{`;a`, ``, false},
		{`end`, "Recorded 'b' with 1 line.\nWarning: the macros ';a', ';b' invoke one another in a loop", false},
		{`forget a`, `OK`, false},
		{`check`, `Warning: there is no macro called ';a'`, false},
		{`forget b`, `OK`, false},
		{`check`, `OK`, false},
	})
}
