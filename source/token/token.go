package token

import (
	"fmt"
	"strings"

	"github.com/tim-hardcastle/dsh/source/values"
)

type TokenType string

const (
	LITERAL    = "LITERAL"    // 42, "foo", true, data.csv
	EXPRESSION = "EXPRESSION" // #(x + 1)
	COMMAND    = "COMMAND"    // :sum
	MACRO      = "MACRO"      // ;setup
	ASSIGNMENT = "ASSIGNMENT" // =
	VARIABLE   = "VARIABLE"   // x
)

// The sigils which introduce the prefixed kinds of token.
const (
	EXPRESSION_SIGIL = '#'
	COMMAND_SIGIL    = ':'
	MACRO_SIGIL      = ';'
	ASSIGNMENT_SIGIL = '='
)

// Literal is the raw text of the token, including any sigil. ChStart and ChEnd are rune offsets
// into the line. A LITERAL token carries its value, parsed once by the tokenizer.
type Token struct {
	Type    TokenType
	Literal string
	ChStart int
	ChEnd   int
	Value   values.Value
}

// The text after the sigil, i.e. the name of a command or macro, or the body of an expression.
func (t Token) Body() string {
	switch t.Type {
	case EXPRESSION, COMMAND, MACRO:
		if len(t.Literal) > 0 {
			return t.Literal[1:]
		}
	}
	return t.Literal
}

func (t Token) Name() string {
	return strings.TrimSpace(t.Body())
}

func (t Token) String() string {
	if t.Type == LITERAL {
		return fmt.Sprintf("%v(%v : %v)", t.Type, t.Literal, t.Value.TypeName())
	}
	return fmt.Sprintf("%v(%v)", t.Type, t.Literal)
}

func Describe(toks []Token) string {
	parts := make([]string, 0, len(toks))
	for _, tok := range toks {
		parts = append(parts, tok.String())
	}
	return strings.Join(parts, " ")
}
