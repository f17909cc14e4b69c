package macro

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tim-hardcastle/dsh/source/lexer"
	"github.com/tim-hardcastle/dsh/source/report"
	"github.com/tim-hardcastle/dsh/source/token"
)

// A macro is a named sequence of lines, kept both as typed and as tokenized at the time of
// recording, so that replaying one doesn't tokenize anything.
type Macro struct {
	Name     string
	RawLines []string
	Lines    [][]token.Token
}

func New(name string) *Macro {
	return &Macro{Name: name}
}

// A line of a macro which wouldn't tokenize.
type LineError struct {
	Macro string
	Line  int // Counting from 1.
	Text  string
	Err   *report.Error
}

func (le LineError) Error() string {
	return fmt.Sprintf("invalid line %v in macro '%v': %v (%v)", le.Line, le.Macro, le.Text, le.Err.Message)
}

// Tokenizes a line and adds it to the macro. A line which fails to tokenize isn't added, and the
// error is returned. Blank lines are ignored.
func (m *Macro) AddLine(tz *lexer.Tokenizer, line string) *report.Error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	tz.Reset(line)
	toks := tz.Tokenize()
	if toks.IsError() {
		return toks.Err()
	}
	m.RawLines = append(m.RawLines, line)
	m.Lines = append(m.Lines, toks.Value())
	return nil
}

// Adds a line without tokenizing it, for when we're loading a macro. TokenizeAll must be called
// afterwards.
func (m *Macro) AddRawLine(line string) {
	if line = strings.TrimSpace(line); line != "" {
		m.RawLines = append(m.RawLines, line)
	}
}

// Removes the last line, returning it.
func (m *Macro) Undo() (string, bool) {
	if len(m.RawLines) == 0 {
		return "", false
	}
	last := m.RawLines[len(m.RawLines)-1]
	m.RawLines = m.RawLines[:len(m.RawLines)-1]
	if len(m.Lines) > len(m.RawLines) {
		m.Lines = m.Lines[:len(m.RawLines)]
	}
	return last, true
}

// Re-tokenizes the raw lines. A line which fails gets an empty token line in its place, so that
// the line numbers still match up, and is reported.
func (m *Macro) TokenizeAll(tz *lexer.Tokenizer) []LineError {
	errs := []LineError{}
	m.Lines = make([][]token.Token, 0, len(m.RawLines))
	for i, line := range m.RawLines {
		tz.Reset(line)
		toks := tz.Tokenize()
		if toks.IsError() {
			errs = append(errs, LineError{Macro: m.Name, Line: i + 1, Text: line, Err: toks.Err()})
			m.Lines = append(m.Lines, []token.Token{})
			continue
		}
		m.Lines = append(m.Lines, toks.Value())
	}
	return errs
}

// The lines numbered for display.
func (m *Macro) Show() string {
	if len(m.RawLines) == 0 {
		return "Macro is currently empty."
	}
	var b strings.Builder
	for i, line := range m.RawLines {
		fmt.Fprintf(&b, "%2d: %s\n", i+1, line)
	}
	return b.String()
}

func (m *Macro) Len() int {
	return len(m.RawLines)
}

// Whether the macro has no line with anything to run in it.
func (m *Macro) IsEmpty() bool {
	for _, line := range m.Lines {
		if len(line) > 0 {
			return false
		}
	}
	return true
}

func (m *Macro) Clear() {
	m.RawLines = nil
	m.Lines = nil
}

// The names of the macros this one invokes, in order of first appearance.
func (m *Macro) Invokes() []string {
	result := []string{}
	for _, line := range m.Lines {
		for _, tok := range line {
			if tok.Type == token.MACRO && !slices.Contains(result, tok.Name()) {
				result = append(result, tok.Name())
			}
		}
	}
	return result
}
