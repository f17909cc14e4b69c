package lexer

import (
	"regexp"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/tim-hardcastle/dsh/source/report"
	"github.com/tim-hardcastle/dsh/source/settings"
	"github.com/tim-hardcastle/dsh/source/token"
	"github.com/tim-hardcastle/dsh/source/values"
)

// The tokenizer makes one pass along a line, left to right. Whitespace between tokens is thrown
// away. The first error ends the pass, and the tokens found so far are discarded with it.
type Tokenizer struct {
	runes  *RuneSupplier
	tstart int // The position of the first rune of the token being read.
	tokens []token.Token
}

var (
	numberPattern   = regexp.MustCompile(`^-?\d+(\.\d+)?([eE][+-]?\d+)?`)
	badPointPattern = regexp.MustCompile(`^-?\.\d`)
	filenamePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_./-]*\.[A-Za-z0-9]+`)
	keywordPattern  = regexp.MustCompile(`^(true|false|null)`)
	namePattern     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)
)

// Words kept back for control flow, which may not be used as variable names.
var RESERVED_WORDS = []string{"if", "else", "while", "for", "return", "break", "continue"}

func NewTokenizer(line string) *Tokenizer {
	return &Tokenizer{runes: NewRuneSupplier([]rune(line))}
}

// Points the tokenizer at a new line, so that the same one can be used over and over.
func (tz *Tokenizer) Reset(line string) {
	tz.runes.Reset([]rune(line))
	tz.tstart = 0
	tz.tokens = nil
}

// Convenience function for tokenizing one line.
func Tokenize(line string) report.Result[[]token.Token] {
	return NewTokenizer(line).Tokenize()
}

func (tz *Tokenizer) Tokenize() report.Result[[]token.Token] {
	return report.Protect("lex/fault", func() report.Result[[]token.Token] {
		for {
			tz.skipWhitespace()
			if tz.runes.AtEnd() {
				break
			}
			tz.tstart = tz.runes.Position()
			if e := tz.getToken(); e != nil {
				tz.tokens = nil
				return report.Fail[[]token.Token](e)
			}
		}
		result := tz.tokens
		tz.tokens = nil
		if result == nil {
			result = []token.Token{}
		}
		return report.Ok(result)
	})
}

func (tz *Tokenizer) skipWhitespace() {
	for !tz.runes.AtEnd() && IsWhitespace(tz.runes.CurrentRune()) {
		tz.runes.Next()
	}
}

// Reads one token starting at the current rune.
func (tz *Tokenizer) getToken() *report.Error {
	switch tz.runes.CurrentRune() {
	case token.EXPRESSION_SIGIL:
		return tz.readExpression()
	case token.COMMAND_SIGIL:
		return tz.readName(token.COMMAND, "command")
	case token.MACRO_SIGIL:
		return tz.readName(token.MACRO, "macro")
	case token.ASSIGNMENT_SIGIL:
		tz.runes.Next()
		tz.addToken(token.ASSIGNMENT, values.Value{})
		return nil
	case '"':
		return tz.readString()
	}
	remaining := tz.runes.Remaining()

	// We may have a number.
	if badPointPattern.MatchString(remaining) {
		tz.runes.Next()
		for IsIdentifierChar(tz.runes.CurrentRune()) || tz.runes.CurrentRune() == '.' {
			tz.runes.Next()
		}
		return report.CreateErr("lex/number", nil, tz.tstart, tz.text())
	}
	if match := numberPattern.FindString(remaining); match != "" {
		next := []rune(tz.runes.Slice(tz.tstart+len(match), tz.tstart+len(match)+1))
		if len(next) == 0 || !(IsIdentifierChar(next[0]) || next[0] == '.') {
			v, ok := values.ParseNumber(match)
			if !ok {
				return report.CreateErr("lex/number", nil, tz.tstart, match)
			}
			tz.runes.Skip(len(match))
			tz.addToken(token.LITERAL, v)
			return nil
		}
		// Otherwise it's something like 2024.csv, or else it's malformed.
		if filename := filenamePattern.FindString(remaining); filename != "" {
			tz.runes.Skip(len(filename))
			tz.addToken(token.LITERAL, values.Str(filename))
			return nil
		}
		tz.runes.Skip(len(match))
		for IsIdentifierChar(tz.runes.CurrentRune()) || tz.runes.CurrentRune() == '.' {
			tz.runes.Next()
		}
		return report.CreateErr("lex/number", nil, tz.tstart, tz.text())
	}

	// Or a keyword, provided it isn't just the start of a longer name.
	if match := keywordPattern.FindString(remaining); match != "" {
		after := []rune(tz.runes.Slice(tz.tstart+len(match), tz.tstart+len(match)+1))
		if len(after) == 0 || !(IsIdentifierChar(after[0]) || after[0] == '.') {
			tz.runes.Skip(len(match))
			switch match {
			case "true":
				tz.addToken(token.LITERAL, values.TRUE)
			case "false":
				tz.addToken(token.LITERAL, values.FALSE)
			default:
				tz.addToken(token.LITERAL, values.NULL_V)
			}
			return nil
		}
	}

	// Or a filename, which is a string, and which we have to check for before identifiers.
	if filename := filenamePattern.FindString(remaining); filename != "" {
		tz.runes.Skip(len(filename))
		tz.addToken(token.LITERAL, values.Str(filename))
		return nil
	}

	// Or a variable.
	if name := namePattern.FindString(remaining); name != "" {
		if slices.Contains(RESERVED_WORDS, name) {
			return report.CreateErr("lex/reserved", nil, name, tz.tstart)
		}
		tz.runes.Skip(len(name))
		tz.addToken(token.VARIABLE, values.Value{})
		return nil
	}

	// Or we have nothing recognizable.
	return report.CreateErr("lex/char", nil, tz.runes.CurrentRune(), tz.tstart)
}

// A '#' followed by '(' runs until the parentheses balance, not counting any inside string
// literals. Otherwise it runs to the next whitespace or sigil.
func (tz *Tokenizer) readExpression() *report.Error {
	tz.runes.Next()
	if tz.runes.CurrentRune() == '(' {
		depth := 0
		inString, escape := false, false
		for !tz.runes.AtEnd() {
			ch := tz.runes.CurrentRune()
			switch {
			case escape:
				escape = false
			case inString && ch == '\\':
				escape = true
			case ch == '"':
				inString = !inString
			case inString:
			case ch == '(':
				depth++
			case ch == ')':
				depth--
			}
			tz.runes.Next()
			if depth == 0 {
				break
			}
		}
		if depth > 0 {
			return report.CreateErr("lex/paren", nil, tz.tstart)
		}
	} else {
		for !tz.runes.AtEnd() && !IsWhitespace(tz.runes.CurrentRune()) && !IsSigil(tz.runes.CurrentRune()) {
			tz.runes.Next()
		}
	}
	if tz.runes.Position() == tz.tstart+1 {
		return report.CreateErr("lex/empty", nil, "expression", tz.tstart)
	}
	tz.addToken(token.EXPRESSION, values.Value{})
	return nil
}

// Commands and macros run from the sigil to the next whitespace.
func (tz *Tokenizer) readName(tokenType token.TokenType, kindword string) *report.Error {
	tz.runes.Next()
	for !tz.runes.AtEnd() && !IsWhitespace(tz.runes.CurrentRune()) {
		tz.runes.Next()
	}
	if tz.runes.Position() == tz.tstart+1 {
		return report.CreateErr("lex/empty", nil, kindword, tz.tstart)
	}
	tz.addToken(tokenType, values.Value{})
	return nil
}

func (tz *Tokenizer) readString() *report.Error {
	raw, ok := tz.runes.ReadQuotedString()
	if !ok {
		return report.CreateErr("lex/quote", nil, tz.tstart)
	}
	s := Unquote(raw, tz.tstart)
	if s.IsError() {
		return s.Err()
	}
	tz.addToken(token.LITERAL, values.Str(s.Value()))
	return nil
}

// The text of the token read so far.
func (tz *Tokenizer) text() string {
	return tz.runes.Slice(tz.tstart, tz.runes.Position())
}

func (tz *Tokenizer) addToken(tokenType token.TokenType, v values.Value) {
	tok := token.Token{Type: tokenType, Literal: tz.text(), ChStart: tz.tstart, ChEnd: tz.runes.Position(), Value: v}
	if settings.SHOW_TOKENIZER {
		settings.Logger().WithFields(logrus.Fields{"type": tok.Type, "literal": tok.Literal, "start": tok.ChStart}).Debug("token")
	}
	tz.tokens = append(tz.tokens, tok)
}
