package lexer

import (
	"testing"

	"github.com/tim-hardcastle/dsh/source/report"
	"github.com/tim-hardcastle/dsh/source/token"
)

type testItem struct {
	tokenType token.TokenType
	literal   string
	value     string // The string form of the value of a literal.
}

func checkTokens(t *testing.T, input string, items []testItem) {
	t.Helper()
	r := Tokenize(input)
	if r.IsError() {
		t.Fatalf("Tokenizing %q failed: %v", input, r.Err())
	}
	toks := r.Value()
	if len(toks) != len(items) {
		t.Fatalf("Tokenizing %q | Wanted %v tokens | Got %v: %v", input, len(items), len(toks), token.Describe(toks))
	}
	for i, item := range items {
		tok := toks[i]
		if tok.Type != item.tokenType || tok.Literal != item.literal {
			t.Fatalf("Tokenizing %q, token %v | Wanted : %v(%v) | Got : %v(%v)", input, i, item.tokenType, item.literal, tok.Type, tok.Literal)
		}
		if item.tokenType == token.LITERAL && tok.Value.String() != item.value {
			t.Fatalf("Tokenizing %q, token %v | Wanted value : %v | Got : %v", input, i, item.value, tok.Value.String())
		}
	}
}

func TestTokenize(t *testing.T) {
	checkTokens(t, `x = 5`, []testItem{
		{token.VARIABLE, "x", ""},
		{token.ASSIGNMENT, "=", ""},
		{token.LITERAL, "5", "5"},
	})
	checkTokens(t, `  :sum 1 -2.50 1e2  `, []testItem{
		{token.COMMAND, ":sum", ""},
		{token.LITERAL, "1", "1"},
		{token.LITERAL, "-2.50", "-2.5"},
		{token.LITERAL, "1e2", "100"},
	})
	checkTokens(t, `y=#(2 + (3 * "(")) ;setup`, []testItem{
		{token.VARIABLE, "y", ""},
		{token.ASSIGNMENT, "=", ""},
		{token.EXPRESSION, `#(2 + (3 * "("))`, ""},
		{token.MACRO, ";setup", ""},
	})
	checkTokens(t, `#("\\" + ")") x`, []testItem{
		{token.EXPRESSION, `#("\\" + ")")`, ""},
		{token.VARIABLE, "x", ""},
	})
	checkTokens(t, `#("\")" + 1)`, []testItem{
		{token.EXPRESSION, `#("\")" + 1)`, ""},
	})
	checkTokens(t, `#x+1;m`, []testItem{
		{token.EXPRESSION, "#x+1", ""},
		{token.MACRO, ";m", ""},
	})
	checkTokens(t, `"a\tb\"c" true falsehood null`, []testItem{
		{token.LITERAL, `"a\tb\"c"`, "a\tb\"c"},
		{token.LITERAL, "true", "true"},
		{token.VARIABLE, "falsehood", ""},
		{token.LITERAL, "null", "null"},
	})
	checkTokens(t, `:load data/sales-2024.csv 2024.csv`, []testItem{
		{token.COMMAND, ":load", ""},
		{token.LITERAL, "data/sales-2024.csv", "data/sales-2024.csv"},
		{token.LITERAL, "2024.csv", "2024.csv"},
	})
	checkTokens(t, ``, []testItem{})
}

func TestTokenizerErrors(t *testing.T) {
	tests := []struct {
		input string
		id    string
	}{
		{`"abc`, "lex/quote"},
		{`#(1+2`, "lex/paren"},
		{`:`, "lex/empty"},
		{`; x`, "lex/empty"},
		{`#`, "lex/empty"},
		{`.5`, "lex/number"},
		{`12abc`, "lex/number"},
		{`x @ y`, "lex/char"},
		{`while = 1`, "lex/reserved"},
		{`"bad \q escape"`, "lex/escape"},
	}
	for _, test := range tests {
		r := Tokenize(test.input)
		if r.IsOk() {
			t.Fatalf("Tokenizing %q should have failed, got %v", test.input, token.Describe(r.Value()))
		}
		if r.Err().Kind != report.Syntax || r.Err().ErrorId != test.id {
			t.Fatalf("Tokenizing %q | Wanted : Syntax %v | Got : %v %v", test.input, test.id, r.Err().Kind, r.Err().ErrorId)
		}
	}
}

func TestTokenizerReset(t *testing.T) {
	tz := NewTokenizer(`"unterminated`)
	if tz.Tokenize().IsOk() {
		t.Fatalf("Expected an error")
	}
	tz.Reset(`a b`)
	r := tz.Tokenize()
	if r.IsError() || len(r.Value()) != 2 {
		t.Fatalf("After a reset the tokenizer should read the new line, got %v", r)
	}
	tz.Reset(`c`)
	r = tz.Tokenize()
	if r.IsError() || len(r.Value()) != 1 || r.Value()[0].Literal != "c" {
		t.Fatalf("Tokens from a previous line shouldn't survive a reset, got %v", r)
	}
}

func TestNumberRoundTrip(t *testing.T) {
	for input, want := range map[string]string{"3.14000": "3.14", "100": "100", "-0.50": "-0.5", "7.0": "7"} {
		r := Tokenize(input)
		if r.IsError() || r.Value()[0].Value.String() != want {
			t.Fatalf("Test failed with input %s | Wanted : %s | Got : %v.", input, want, r)
		}
	}
}

func TestUnquote(t *testing.T) {
	r := Unquote(`"line\none\\"`, 0)
	if r.IsError() || r.Value() != "line\none\\" {
		t.Fatalf("Unquote failed: %v", r)
	}
	if !IsStringLiteral(`"a\"b"`) || IsStringLiteral(`"a" + "b"`) {
		t.Fatalf("IsStringLiteral should only accept one whole literal")
	}
}
