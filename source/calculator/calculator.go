package calculator

// This is a recursive evaluator which works directly on the text of an expression rather than on
// a tree. At each level we try to read the whole of the text as something simple, a number or a
// variable or whatever. If we can't, we look for the operator that binds least tightly, split the
// text there, evaluate both halves, and combine them.

import (
	"fmt"
	"strings"

	"github.com/tim-hardcastle/dsh/source/lexer"
	"github.com/tim-hardcastle/dsh/source/report"
	"github.com/tim-hardcastle/dsh/source/values"
)

// Anything the calculator can look variables up in.
type Variables interface {
	Lookup(name string) (values.Value, bool)
}

type Calculator struct {
	env Variables
}

func New(env Variables) *Calculator {
	return &Calculator{env: env}
}

// Evaluates the text of an expression, i.e. what follows the '#'.
func (c *Calculator) Evaluate(expression string) report.Result[values.Value] {
	return report.Protect("calc/fault", func() report.Result[values.Value] {
		return c.evaluate(expression)
	})
}

func (c *Calculator) evaluate(expression string) report.Result[values.Value] {
	expr := strings.TrimSpace(expression)
	if expr == "" {
		return report.Throw[values.Value]("calc/empty")
	}
	if !balanced([]rune(expr)) {
		return report.Throw[values.Value]("calc/balance", expr)
	}
	expr = stripParentheses(expr)
	if expr == "" {
		return report.Throw[values.Value]("calc/empty")
	}
	if v, ok := values.ParseNumber(expr); ok {
		return report.Ok(v)
	}
	rs := []rune(expr)
	if rs[0] == '[' && closingBracket(rs, 0) == len(rs)-1 {
		return c.evaluateArray(rs)
	}
	if lexer.IsStringLiteral(expr) {
		return report.Map(lexer.Unquote(expr, 0), values.Str)
	}
	switch expr {
	case "true":
		return report.Ok(values.TRUE)
	case "false":
		return report.Ok(values.FALSE)
	case "null":
		return report.Ok(values.NULL_V)
	}
	if lexer.IsIdentifier(expr) {
		if v, ok := c.env.Lookup(expr); ok {
			return report.Ok(v)
		}
		return report.Throw[values.Value]("calc/variable", expr)
	}
	if pos, op := findSplit(rs); op != nil {
		left, right := string(rs[:pos]), string(rs[pos+1:])
		return report.FlatMap(c.evaluate(left), func(l values.Value) report.Result[values.Value] {
			return report.FlatMap(c.evaluate(right), func(r values.Value) report.Result[values.Value] {
				return op.Apply(l, r)
			})
		})
	}
	// Only a unary sign is left to try.
	switch rs[0] {
	case '-':
		return report.FlatMap(c.evaluate(string(rs[1:])), values.Negate)
	case '+':
		return c.evaluate(string(rs[1:]))
	}
	return report.Throw[values.Value]("calc/invalid", expr)
}

func (c *Calculator) evaluateArray(rs []rune) report.Result[values.Value] {
	content := strings.TrimSpace(string(rs[1 : len(rs)-1]))
	if content == "" {
		return report.Ok(values.ListValue(values.NewList()))
	}
	elements := []values.Value{}
	for i, item := range splitTopLevel([]rune(content), ',') {
		v := c.evaluate(item)
		if v.IsError() {
			return report.Fail[values.Value](report.Annotate(v.Err(), fmt.Sprintf("invalid array element at index %v", i)))
		}
		elements = append(elements, v.Value())
	}
	return values.NewListValue(elements)
}

// The scanner walks along an expression keeping track of how deeply nested in brackets it is and
// whether it's inside a string literal, which are the two things that make a character not count.
type scanner struct {
	parens, brackets int
	inString         bool
	last             rune
}

// Updates the state for the next character, and reports whether that character is at the top
// level, i.e. not inside brackets or a string and not itself a bracket or quote.
func (s *scanner) next(ch rune) bool {
	topLevel := false
	switch {
	case ch == '"' && s.last != '\\':
		s.inString = !s.inString
	case s.inString:
	case ch == '(':
		s.parens++
	case ch == ')':
		s.parens--
	case ch == '[':
		s.brackets++
	case ch == ']':
		s.brackets--
	default:
		topLevel = s.parens == 0 && s.brackets == 0
	}
	if s.last == '\\' && ch == '\\' {
		s.last = 0 // So that "\\" doesn't escape the quote after it.
	} else {
		s.last = ch
	}
	return topLevel
}

func balanced(rs []rune) bool {
	s := scanner{}
	for _, ch := range rs {
		s.next(ch)
		if s.parens < 0 || s.brackets < 0 {
			return false
		}
	}
	return s.parens == 0 && s.brackets == 0 && !s.inString
}

func stripParentheses(expr string) string {
	for len(expr) >= 2 && expr[0] == '(' && expr[len(expr)-1] == ')' && balanced([]rune(expr[1:len(expr)-1])) {
		expr = strings.TrimSpace(expr[1 : len(expr)-1])
	}
	return expr
}

// Finds the index of the bracket closing the one at the given position, or -1.
func closingBracket(rs []rune, pos int) int {
	s := scanner{}
	for i := pos; i < len(rs); i++ {
		s.next(rs[i])
		if !s.inString && s.parens == 0 && s.brackets == 0 {
			return i
		}
	}
	return -1
}

func splitTopLevel(rs []rune, sep rune) []string {
	result := []string{}
	s := scanner{}
	start := 0
	for i, ch := range rs {
		if s.next(ch) && ch == sep {
			result = append(result, string(rs[start:i]))
			start = i + 1
		}
	}
	return append(result, string(rs[start:]))
}

// Finds the operator to split on: the rightmost one at the top level in the loosest-binding tier
// that has any, so that 10 - 3 - 2 is (10 - 3) - 2. An operator can't be the first or last
// character, and a sign that is really unary doesn't count.
func findSplit(rs []rune) (int, *values.Operator) {
	for tier := 1; tier <= values.MAX_PRECEDENCE; tier++ {
		pos := -1
		var found *values.Operator
		s := scanner{}
		for i, ch := range rs {
			if !s.next(ch) || i == 0 || i == len(rs)-1 {
				continue
			}
			op, ok := values.Lookup(string(ch))
			if !ok || op.Precedence != tier || isUnary(rs, i) {
				continue
			}
			pos, found = i, op
		}
		if found != nil {
			return pos, found
		}
	}
	return -1, nil
}

// A + or - is unary if nothing but an operator or an opening bracket comes before it, or if it's
// the sign of an exponent, as in 1e-3.
func isUnary(rs []rune, i int) bool {
	if rs[i] != '-' && rs[i] != '+' {
		return false
	}
	if i >= 2 && (rs[i-1] == 'e' || rs[i-1] == 'E') && isDigit(rs[i-2]) && i+1 < len(rs) && isDigit(rs[i+1]) {
		return true
	}
	j := i - 1
	for j >= 0 && lexer.IsWhitespace(rs[j]) {
		j--
	}
	if j < 0 {
		return true
	}
	if _, ok := values.Lookup(string(rs[j])); ok {
		return true
	}
	return rs[j] == '(' || rs[j] == '[' || rs[j] == ','
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
