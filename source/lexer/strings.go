package lexer

import (
	"regexp"
	"strings"

	"github.com/tim-hardcastle/dsh/source/report"
)

var (
	stringPattern     = regexp.MustCompile(`^"(?:[^"\\]|\\.)*"$`)
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Whether the whole of s is one double-quoted string literal, escapes and all.
func IsStringLiteral(s string) bool {
	return stringPattern.MatchString(s)
}

func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

func IsIdentifierChar(ch rune) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ('0' <= ch && ch <= '9')
}

func IsSigil(ch rune) bool {
	return ch == '#' || ch == ':' || ch == ';' || ch == '='
}

func IsWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

// Reads a string literal starting at the opening quote, leaving the supplier just after the
// closing quote. The literal is returned as written, quotes and backslashes included. If it's
// not closed before the end of the line, ok is false.
func (runes *RuneSupplier) ReadQuotedString() (string, bool) {
	var result strings.Builder
	result.WriteRune(runes.CurrentRune())
	escape := false
	for {
		runes.Next()
		ch := runes.CurrentRune()
		if runes.AtEnd() || ch == '\n' || ch == '\r' {
			return result.String(), false
		}
		result.WriteRune(ch)
		if escape {
			escape = false
			continue
		}
		if ch == '\\' {
			escape = true
			continue
		}
		if ch == '"' {
			runes.Next()
			return result.String(), true
		}
	}
}

// Takes a quoted string literal and returns its contents with the escape sequences \n \t \r \\
// and \" replaced by what they stand for. The offset is where the literal began in the line, so
// that a bad escape can be reported at the right position.
func Unquote(quoted string, offset int) report.Result[string] {
	runes := []rune(quoted)
	if len(runes) < 2 || runes[0] != '"' || runes[len(runes)-1] != '"' {
		return report.Throw[string]("lex/quote", offset)
	}
	content := runes[1 : len(runes)-1]
	var result strings.Builder
	for i := 0; i < len(content); i++ {
		c := content[i]
		if c != '\\' || i+1 >= len(content) {
			result.WriteRune(c)
			continue
		}
		i++
		switch content[i] {
		case 'n':
			result.WriteRune('\n')
		case 't':
			result.WriteRune('\t')
		case 'r':
			result.WriteRune('\r')
		case '\\':
			result.WriteRune('\\')
		case '"':
			result.WriteRune('"')
		default:
			return report.Throw[string]("lex/escape", content[i], offset+i)
		}
	}
	return report.Ok(result.String())
}
