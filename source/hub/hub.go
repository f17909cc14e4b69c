package hub

// The hub is the front door through which lines reach the dispatcher. It first checks whether a
// line is addressed to the hub itself, e.g. 'env' or 'record setup', and if not passes it on to
// be dispatched. Either way it returns what should be shown to the user.

import (
	"bufio"
	"io"
	"slices"
	"strings"

	"github.com/google/shlex"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tim-hardcastle/dsh/source/dispatcher"
	"github.com/tim-hardcastle/dsh/source/lexer"
	"github.com/tim-hardcastle/dsh/source/macro"
	"github.com/tim-hardcastle/dsh/source/report"
	"github.com/tim-hardcastle/dsh/source/settings"
	"github.com/tim-hardcastle/dsh/source/text"
)

var (
	MARGIN = 84
)

type Hub struct {
	Dispatcher *dispatcher.Dispatcher
	lastError  *report.Error
	recording  *macro.Macro // Non-nil while a macro is being recorded.
	tokenizer  *lexer.Tokenizer
	failures   int // The number of lines which have failed, for reporting on scripts.
}

func New(d *dispatcher.Dispatcher) *Hub {
	return &Hub{Dispatcher: d, tokenizer: lexer.NewTokenizer("")}
}

type hubCommand func(hub *Hub, args []string) (string, bool)

var hubCommands map[string]hubCommand

func init() {
	hubCommands = map[string]hubCommand{
		"exit":     (*Hub).quit,
		"quit":     (*Hub).quit,
		":q":       (*Hub).quit,
		"help":     (*Hub).help,
		":help":    (*Hub).help,
		":h":       (*Hub).help,
		"env":      (*Hub).env,
		":env":     (*Hub).env,
		"clear":    (*Hub).clear,
		":clear":   (*Hub).clear,
		"reset":    (*Hub).reset,
		":reset":   (*Hub).reset,
		"version":  (*Hub).version,
		":version": (*Hub).version,
		"why":      (*Hub).why,
		"commands": (*Hub).commands,
		"macros":   (*Hub).macros,
		"record":   (*Hub).record,
		"show":     (*Hub).show,
		"forget":   (*Hub).forget,
		"check":    (*Hub).check,
	}
}

// This takes a line of input and returns the output, and whether the user wants to quit.
func (hub *Hub) Do(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if hub.recording != nil {
		return hub.recordLine(line), false
	}
	if line == "" || strings.HasPrefix(line, "//") {
		return "", false
	}
	if verb, args, ok := hub.parseHubCommand(line); ok {
		return verb(hub, args)
	}
	return hub.evaluate(line), false
}

// A line is for the hub if its first word is one of the hub's verbs and it isn't an assignment
// to a variable which happens to have that name.
func (hub *Hub) parseHubCommand(line string) (hubCommand, []string, bool) {
	words, err := shlex.Split(line)
	if err != nil || len(words) == 0 {
		return nil, nil, false
	}
	verb, ok := hubCommands[words[0]]
	if !ok || (len(words) > 1 && words[1] == "=") {
		return nil, nil, false
	}
	return verb, words[1:], true
}

func (hub *Hub) evaluate(line string) string {
	r := hub.Dispatcher.Execute(line)
	if r.IsError() {
		return hub.fail(r.Err())
	}
	return text.RESULT + r.Value().String()
}

func (hub *Hub) fail(e *report.Error) string {
	hub.lastError = e
	hub.failures++
	if e.Cause != nil {
		settings.Logger().WithFields(logrus.Fields{"error": e.ErrorId}).Debugf("%+v", e.Cause)
	}
	return text.Red(Describe(e))
}

// The form in which errors are shown to the user.
func Describe(e *report.Error) string {
	return "[" + e.Kind.String() + "] " + e.Message
}

func hubError(s string) string {
	return text.Red("Hub error: " + s)
}

func (hub *Hub) Prompt() string {
	if hub.recording != nil {
		return text.Yellow(hub.recording.Name) + " " + text.PROMPT
	}
	return text.PROMPT
}

func (hub *Hub) IsRecording() bool {
	return hub.recording != nil
}

func (hub *Hub) quit(args []string) (string, bool) {
	return "", true
}

func (hub *Hub) help(args []string) (string, bool) {
	if len(args) == 0 {
		return strings.TrimSuffix(text.Pretty(text.REPL_HELP, 2, MARGIN), "\n"), false
	}
	name := strings.TrimLeft(args[0], ":;")
	if cmd, ok := hub.Dispatcher.Commands.Get(name); ok {
		return text.BULLET + text.Cyan(":"+cmd.Hint) + " : " + cmd.Description, false
	}
	if m, ok := hub.Dispatcher.Macros.Get(name); ok {
		return "Macro " + text.Emph(name) + ":\n" + strings.TrimSuffix(m.Show(), "\n"), false
	}
	return hubError("there is no command or macro called " + text.Emph(name)), false
}

func (hub *Hub) env(args []string) (string, bool) {
	env := hub.Dispatcher.Env
	if env.Len() == 0 {
		return "The environment is empty.", false
	}
	return strings.TrimSuffix(env.StringDumpVariables(), "\n") + "\n" + text.Count(env.Len(), "variable"), false
}

func (hub *Hub) clear(args []string) (string, bool) {
	hub.Dispatcher.Env.Clear()
	return text.Green("OK"), false
}

// Like clear, but forgets the last error as well.
func (hub *Hub) reset(args []string) (string, bool) {
	hub.Dispatcher.Env.Clear()
	hub.lastError = nil
	hub.failures = 0
	return text.Green("OK"), false
}

func (hub *Hub) version(args []string) (string, bool) {
	return "dsh version " + settings.VERSION, false
}

func (hub *Hub) why(args []string) (string, bool) {
	if hub.lastError == nil {
		return "There was no error.", false
	}
	return Describe(hub.lastError) + "\n" + strings.TrimSuffix(text.Pretty(report.Explain(hub.lastError), 2, MARGIN), "\n"), false
}

func (hub *Hub) commands(args []string) (string, bool) {
	lines := []string{}
	for _, name := range hub.Dispatcher.Commands.Names() {
		cmd, _ := hub.Dispatcher.Commands.Get(name)
		lines = append(lines, text.BULLET+text.Cyan(":"+cmd.Hint)+" : "+cmd.Description)
	}
	return strings.Join(lines, "\n"), false
}

func (hub *Hub) macros(args []string) (string, bool) {
	names := hub.Dispatcher.Macros.Names()
	if len(names) == 0 {
		return "There are no macros.", false
	}
	lines := []string{}
	for _, name := range names {
		m, _ := hub.Dispatcher.Macros.Get(name)
		lines = append(lines, text.BULLET+text.Cyan(";"+name)+" ("+text.Count(m.Len(), "line")+")")
	}
	return strings.Join(lines, "\n"), false
}

func (hub *Hub) show(args []string) (string, bool) {
	if len(args) != 1 {
		return hubError("'show' needs the name of a macro"), false
	}
	m, ok := hub.Dispatcher.Macros.Get(strings.TrimPrefix(args[0], ";"))
	if !ok {
		return hubError("there is no macro called " + text.Emph(args[0])), false
	}
	return strings.TrimSuffix(m.Show(), "\n"), false
}

func (hub *Hub) forget(args []string) (string, bool) {
	if len(args) != 1 {
		return hubError("'forget' needs the name of a macro"), false
	}
	if err := hub.Dispatcher.Macros.Delete(strings.TrimPrefix(args[0], ";")); err != nil {
		return hubError(err.Error()), false
	}
	return text.Green("OK"), false
}

func (hub *Hub) check(args []string) (string, bool) {
	if warnings := hub.checkMacros(""); warnings != "" {
		return strings.TrimPrefix(warnings, "\n"), false
	}
	return text.Green("OK"), false
}

// Warns about macros which invoke each other in a loop or which invoke macros that don't exist.
// If a name is given, only warnings involving that macro are given.
func (hub *Hub) checkMacros(name string) string {
	result := ""
	cycle := hub.Dispatcher.Macros.Cycle()
	if len(cycle) > 0 && (name == "" || slices.Contains(cycle, name)) {
		result = result + "\n" + text.Yellow("Warning: ") + "the macros " + describeMacros(cycle) +
			" invoke one another in a loop"
	}
	for _, missing := range hub.Dispatcher.Macros.Missing() {
		if m, ok := hub.Dispatcher.Macros.Get(name); name == "" || ok && slices.Contains(m.Invokes(), missing) {
			result = result + "\n" + text.Yellow("Warning: ") + "there is no macro called " + text.Emph(";"+missing)
		}
	}
	return result
}

func describeMacros(names []string) string {
	parts := []string{}
	for _, name := range names {
		parts = append(parts, text.Emph(";"+name))
	}
	return strings.Join(parts, ", ")
}

// Starts recording a macro. Until 'end', lines are tokenized and kept rather than executed.
func (hub *Hub) record(args []string) (string, bool) {
	if len(args) != 1 || !lexer.IsIdentifier(strings.TrimPrefix(args[0], ";")) {
		return hubError("'record' needs a name for the macro, e.g. 'record setup'"), false
	}
	hub.recording = macro.New(strings.TrimPrefix(args[0], ";"))
	return "Recording " + text.Emph(hub.recording.Name) + ". Enter 'end' to finish, 'undo' to remove " +
		"the last line, 'show' to see the lines so far, or 'cancel' to stop without saving.", false
}

func (hub *Hub) recordLine(line string) string {
	m := hub.recording
	switch line {
	case "end":
		hub.recording = nil
		if err := hub.Dispatcher.Macros.Add(m); err != nil {
			settings.Logger().Warn(err.Error())
			return hubError(err.Error() + "; the macro will last until the end of the session")
		}
		return "Recorded " + text.Emph(m.Name) + " with " + text.Count(m.Len(), "line") + "." + hub.checkMacros(m.Name)
	case "cancel":
		hub.recording = nil
		return "Stopped recording " + text.Emph(m.Name) + "."
	case "undo":
		if last, ok := m.Undo(); ok {
			return "Removed " + text.Emph(last)
		}
		return "There is nothing to undo."
	case "show":
		return strings.TrimSuffix(m.Show(), "\n")
	}
	if e := m.AddLine(hub.tokenizer, line); e != nil {
		return hub.fail(e)
	}
	return ""
}

// Runs one line, as given on the command line, writing its output to out. If the line fails the
// error is returned as well as shown.
func (hub *Hub) Exec(line string, out io.Writer) error {
	failuresBefore := hub.failures
	output, _ := hub.Do(line)
	if output != "" {
		io.WriteString(out, output+"\n")
	}
	if hub.failures > failuresBefore && hub.lastError != nil {
		return hub.lastError
	}
	return nil
}

// Runs every line of a script, writing the output of each to out. A line which fails doesn't
// stop the script, but the script as a whole then returns an error.
func (hub *Hub) RunScript(in io.Reader, out io.Writer) error {
	failuresBefore := hub.failures
	lines := 0
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		lines++
		output, quit := hub.Do(scanner.Text())
		if output != "" {
			io.WriteString(out, output+"\n")
		}
		if quit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading script")
	}
	if failed := hub.failures - failuresBefore; failed > 0 {
		return errors.Errorf("%v of %v failed", failed, text.Count(lines, "line"))
	}
	return nil
}

// The things the user might be partway through typing, for tab completion: commands after a ':',
// macros after a ';', and otherwise variables and the hub's own verbs.
func (hub *Hub) Complete(prefix string) []string {
	candidates := []string{}
	switch {
	case strings.HasPrefix(prefix, ":"):
		for _, name := range hub.Dispatcher.Commands.Names() {
			candidates = append(candidates, ":"+name)
		}
	case strings.HasPrefix(prefix, ";"):
		for _, name := range hub.Dispatcher.Macros.Names() {
			candidates = append(candidates, ";"+name)
		}
	default:
		candidates = append(candidates, hub.Dispatcher.Env.Names()...)
		for verb := range hubCommands {
			if !strings.HasPrefix(verb, ":") {
				candidates = append(candidates, verb)
			}
		}
	}
	result := []string{}
	for _, candidate := range candidates {
		if strings.HasPrefix(candidate, prefix) {
			result = append(result, candidate)
		}
	}
	slices.Sort(result)
	return result
}
