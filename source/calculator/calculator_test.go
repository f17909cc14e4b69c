package calculator

import (
	"testing"

	"github.com/tim-hardcastle/dsh/source/object"
	"github.com/tim-hardcastle/dsh/source/report"
	"github.com/tim-hardcastle/dsh/source/values"
)

func newCalculator() *Calculator {
	env := object.NewEnvironment()
	env.Set("x", values.Int(5))
	env.Set("name", values.Str("dsh"))
	l, _ := values.ListOf(values.Int(1), values.Int(2), values.Int(3))
	env.Set("xs", values.ListValue(l))
	return New(env)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"((7))", "7"},
		{"10 - 3 - 2", "5"},
		{"100 / 10 / 5", "2"},
		{"2 ^ 3 ^ 2", "64"},
		{"17 % 5", "2"},
		{"-x", "-5"},
		{"-(1 + 2)", "-3"},
		{"2 * -3", "-6"},
		{"x - -3", "8"},
		{"2*1e-3", "0.002"},
		{"1.50 + 1", "2.5"},
		{"x * 2 + 1", "11"},
		{`"a + b"`, "a + b"},
		{`name + "!"`, "dsh!"},
		{`"x = " + x`, "x = 5"},
		{`"tab\there"`, "tab\there"},
		{"true", "true"},
		{"null", "null"},
		{"[1, 2, 3]", "1, 2, 3"},
		{"[]", ""},
		{"[1, 2 + 3, x]", "1, 5, 5"},
		{"[1, 2] * 2", "2, 4"},
		{"xs + 1", "2, 3, 4"},
		{"xs + [10, 20]", "11, 22, 3"},
		{"5 + xs", "5"},
		{"[(1 + 1), 3]", "2, 3"},
		{`["a,b", "c"]`, "a,b, c"},
	}
	c := newCalculator()
	for _, test := range tests {
		r := c.Evaluate(test.input)
		if r.IsError() {
			t.Fatalf(`Test failed with input %s | Wanted : %s | Got error : %v.`, test.input, test.want, r.Err())
		}
		if got := r.Value().String(); got != test.want {
			t.Fatalf(`Test failed with input %s | Wanted : %s | Got : %s.`, test.input, test.want, got)
		}
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  report.Kind
		id    string
	}{
		{"", report.Validation, "calc/empty"},
		{"   ", report.Validation, "calc/empty"},
		{"()", report.Validation, "calc/empty"},
		{"(1 + 2", report.Syntax, "calc/balance"},
		{"1 + 2)", report.Syntax, "calc/balance"},
		{"[1, 2", report.Syntax, "calc/balance"},
		{"y + 1", report.Runtime, "calc/variable"},
		{"5 / 0", report.Arithmetic, "values/divide/zero"},
		{"0 ^ 0", report.Arithmetic, "values/power/zero"},
		{"5 % 0", report.Arithmetic, "values/modulo/zero"},
		{"2 +", report.Syntax, "calc/invalid"},
		{"2 3", report.Syntax, "calc/invalid"},
		{`[1, "a"]`, report.Validation, "values/list/type"},
		{"[1, y]", report.Runtime, "calc/variable"},
		{`"abc" - 1`, report.TypeConversion, "values/convert/number"},
	}
	c := newCalculator()
	for _, test := range tests {
		r := c.Evaluate(test.input)
		if r.IsOk() {
			t.Fatalf(`Test failed with input %q | Wanted an error | Got : %v.`, test.input, r.Value())
		}
		if r.Err().Kind != test.kind || r.Err().ErrorId != test.id {
			t.Fatalf(`Test failed with input %q | Wanted : %v %s | Got : %v %s (%s).`, test.input, test.kind, test.id, r.Err().Kind, r.Err().ErrorId, r.Err().Message)
		}
	}
}

func TestErrorsPropagateUnchanged(t *testing.T) {
	c := newCalculator()
	r := c.Evaluate("1 + (2 * (3 / 0))")
	if r.IsOk() || r.Err().Message != "Division by zero" {
		t.Fatalf("Wanted the division error to reach the top unchanged, got %v", r)
	}
	r = c.Evaluate("[1, 2 / 0]")
	if r.IsOk() || r.Err().Message != "invalid array element at index 1: Division by zero" {
		t.Fatalf("Wanted the index of the bad element, got %v", r)
	}
}
