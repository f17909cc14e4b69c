package dispatcher

// The dispatcher takes a tokenized line and decides what to do with it. A line is either an
// assignment, 'name = <unit>', or just a '<unit>' to be evaluated, where a unit is one token or
// a command followed by its arguments.

import (
	"github.com/sirupsen/logrus"

	"github.com/tim-hardcastle/dsh/source/calculator"
	"github.com/tim-hardcastle/dsh/source/command"
	"github.com/tim-hardcastle/dsh/source/lexer"
	"github.com/tim-hardcastle/dsh/source/macro"
	"github.com/tim-hardcastle/dsh/source/object"
	"github.com/tim-hardcastle/dsh/source/report"
	"github.com/tim-hardcastle/dsh/source/settings"
	"github.com/tim-hardcastle/dsh/source/token"
	"github.com/tim-hardcastle/dsh/source/values"
)

type Dispatcher struct {
	Env       *object.Environment
	Commands  *command.Registry
	Macros    *macro.Registry
	calc      *calculator.Calculator
	tokenizer *lexer.Tokenizer
	maxDepth  int
	depth     int // How many macros deep we are.
}

func New(env *object.Environment, commands *command.Registry, macros *macro.Registry) *Dispatcher {
	return &Dispatcher{
		Env:       env,
		Commands:  commands,
		Macros:    macros,
		calc:      calculator.New(env),
		tokenizer: lexer.NewTokenizer(""),
		maxDepth:  settings.DEFAULT_MACRO_DEPTH,
	}
}

func (d *Dispatcher) SetMaxMacroDepth(n int) {
	if n > 0 {
		d.maxDepth = n
	}
}

// Tokenizes a line and processes it.
func (d *Dispatcher) Execute(line string) report.Result[values.Value] {
	d.tokenizer.Reset(line)
	return report.FlatMap(d.tokenizer.Tokenize(), d.Process)
}

// Processes a tokenized line.
func (d *Dispatcher) Process(toks []token.Token) report.Result[values.Value] {
	return report.Protect("disp/fault", func() report.Result[values.Value] {
		if len(toks) == 0 {
			return report.Throw[values.Value]("disp/empty")
		}
		if len(toks) >= 2 && toks[0].Type == token.VARIABLE && toks[1].Type == token.ASSIGNMENT {
			return d.assign(toks[0].Literal, toks[2:])
		}
		return d.evaluateUnit(toks)
	})
}

func (d *Dispatcher) assign(name string, toks []token.Token) report.Result[values.Value] {
	if len(toks) == 0 {
		return report.Throw[values.Value]("disp/assign/value")
	}
	d.log("assign", name)
	return report.FlatMap(d.evaluateUnit(toks), func(v values.Value) report.Result[values.Value] {
		if e := d.Env.Set(name, v); e != nil {
			return report.Fail[values.Value](e)
		}
		return report.Ok(v)
	})
}

// A unit is one token, or a command and its arguments. Anything else is resolved by evaluating
// only its last token.
func (d *Dispatcher) evaluateUnit(toks []token.Token) report.Result[values.Value] {
	switch {
	case len(toks) == 1:
		return d.evaluateToken(toks[0])
	case toks[0].Type == token.COMMAND:
		return d.invokeCommand(toks[0], toks[1:])
	}
	return d.evaluateToken(toks[len(toks)-1])
}

func (d *Dispatcher) evaluateToken(tok token.Token) report.Result[values.Value] {
	d.log(string(tok.Type), tok.Literal)
	switch tok.Type {
	case token.LITERAL:
		if tok.Value.T == values.UNDEFINED_VALUE {
			return report.Throw[values.Value]("disp/literal", tok.Literal)
		}
		return report.Ok(tok.Value)
	case token.EXPRESSION:
		return d.calc.Evaluate(tok.Body())
	case token.MACRO:
		return d.runMacro(tok.Name())
	case token.COMMAND:
		return d.invokeCommand(tok, nil)
	case token.VARIABLE:
		if v, ok := d.Env.Lookup(tok.Literal); ok {
			return report.Ok(v)
		}
		return report.Throw[values.Value]("disp/variable", tok.Literal)
	case token.ASSIGNMENT:
		return report.Throw[values.Value]("disp/assign/token")
	}
	return report.Throw[values.Value]("disp/fault", tok.Type)
}

// The arguments are evaluated one token at a time, and the first to fail is the error returned.
func (d *Dispatcher) invokeCommand(tok token.Token, params []token.Token) report.Result[values.Value] {
	name := tok.Name()
	cmd, ok := d.Commands.Get(name)
	if !ok {
		return report.Throw[values.Value]("disp/command/unknown", name)
	}
	args := make([]values.Value, 0, len(params))
	for _, param := range params {
		arg := d.evaluateToken(param)
		if arg.IsError() {
			return arg
		}
		args = append(args, arg.Value())
	}
	if !cmd.Accepts(len(args)) {
		return report.Throw[values.Value]("disp/command/arity", name, cmd.Arity, len(args))
	}
	return d.call(cmd, args)
}

// Calls the command's function, turning whatever goes wrong inside it into a runtime error which
// names the command.
func (d *Dispatcher) call(cmd *command.Command, args []values.Value) (res report.Result[values.Value]) {
	defer func() {
		if p := recover(); p != nil {
			cause := report.FaultCause(p)
			res = report.ThrowWithCause[values.Value]("disp/command/fault", cause, cmd.Name, cause.Error())
		}
	}()
	v, err := cmd.Execute(d.Env, args...)
	if err != nil {
		return report.ThrowWithCause[values.Value]("disp/command/fault", err, cmd.Name, err.Error())
	}
	if v.T == values.UNDEFINED_VALUE {
		return report.Ok(values.NULL_V)
	}
	return report.Ok(v)
}

// Replays the lines of a macro through Process. The value is that of the last line, and the
// first line to fail stops the macro and is the error returned.
func (d *Dispatcher) runMacro(name string) report.Result[values.Value] {
	m, ok := d.Macros.Get(name)
	if !ok {
		return report.Throw[values.Value]("disp/macro/unknown", name)
	}
	if m.IsEmpty() {
		return report.Throw[values.Value]("disp/macro/empty", name)
	}
	if d.depth >= d.maxDepth {
		return report.Throw[values.Value]("disp/macro/depth", name, d.maxDepth)
	}
	d.depth++
	defer func() { d.depth-- }()
	if settings.SHOW_MACROS {
		settings.Logger().WithFields(logrus.Fields{"macro": name, "depth": d.depth}).Debug("running macro")
	}
	last := values.NULL_V
	for _, line := range m.Lines {
		if len(line) == 0 {
			continue
		}
		r := d.Process(line)
		if r.IsError() {
			return r
		}
		last = r.Value()
	}
	return report.Ok(last)
}

func (d *Dispatcher) log(kind, literal string) {
	if settings.SHOW_DISPATCHER {
		settings.Logger().WithFields(logrus.Fields{"kind": kind, "token": literal}).Debug("dispatch")
	}
}
