package values

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tim-hardcastle/dsh/source/report"
)

type ValueType uint32

const (
	UNDEFINED_VALUE ValueType = iota // For debugging purposes, it is useful to have the zero value something it should never actually be.
	NULL
	NUMBER
	STRING
	BOOL
	LIST
	MATRIX
	UNKNOWN
)

var typeNames = map[ValueType]string{
	UNDEFINED_VALUE: "undefined",
	NULL:            "null",
	NUMBER:          "number",
	STRING:          "string",
	BOOL:            "boolean",
	LIST:            "list",
	MATRIX:          "matrix",
	UNKNOWN:         "unknown",
}

func (t ValueType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "undefined"
}

// The payload V is a decimal.Decimal for a NUMBER, a string for a STRING, a bool for a BOOL,
// a *List for a LIST, a *Matrix for a MATRIX, and nil for NULL and UNKNOWN.
type Value struct {
	T ValueType
	V any
}

var (
	FALSE     = Value{T: BOOL, V: false}
	TRUE      = Value{T: BOOL, V: true}
	NULL_V    = Value{T: NULL}
	UNKNOWN_V = Value{T: UNKNOWN}
	ZERO      = Value{T: NUMBER, V: decimal.Zero}
	ONE       = Value{T: NUMBER, V: decimal.NewFromInt(1)}
)

func Num(d decimal.Decimal) Value {
	return Value{T: NUMBER, V: d}
}

func Int(i int64) Value {
	return Value{T: NUMBER, V: decimal.NewFromInt(i)}
}

func Str(s string) Value {
	return Value{T: STRING, V: s}
}

func Bool(b bool) Value {
	if b {
		return TRUE
	}
	return FALSE
}

func ListValue(l *List) Value {
	return Value{T: LIST, V: l}
}

func MatrixValue(m *Matrix) Value {
	return Value{T: MATRIX, V: m}
}

// Digits, an optional fractional part and an optional exponent. A leading decimal point is not
// a number.
var numberPattern = regexp.MustCompile(`^-?\d+(\.\d+)?([eE][+-]?\d+)?$`)

// Parses the literal form of a number.
func ParseNumber(s string) (Value, bool) {
	if !numberPattern.MatchString(s) {
		return Value{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Value{}, false
	}
	return Num(d), true
}

func (v Value) Decimal() decimal.Decimal {
	if d, ok := v.V.(decimal.Decimal); ok {
		return d
	}
	return decimal.Zero
}

func (v Value) List() *List {
	if l, ok := v.V.(*List); ok {
		return l
	}
	return NewList()
}

func (v Value) Matrix() *Matrix {
	if m, ok := v.V.(*Matrix); ok {
		return m
	}
	return NewMatrix()
}

func (v Value) TypeName() string {
	return v.T.String()
}

func (v Value) IsStructured() bool {
	return v.T == LIST || v.T == MATRIX
}

// Conversions.

func (v Value) AsNumber() report.Result[Value] {
	switch v.T {
	case NUMBER:
		return report.Ok(v)
	case STRING:
		d, err := decimal.NewFromString(strings.TrimSpace(v.V.(string)))
		if err != nil {
			return report.ThrowWithCause[Value]("values/convert/number", err, v.V.(string))
		}
		return report.Ok(Num(d))
	case BOOL:
		if v.V.(bool) {
			return report.Ok(ONE)
		}
		return report.Ok(ZERO)
	case NULL, UNKNOWN:
		return report.Ok(ZERO)
	case LIST:
		return report.Ok(Int(int64(v.V.(*List).Len())))
	case MATRIX:
		m := v.V.(*Matrix)
		return report.Ok(Int(int64(m.Rows() * m.Cols())))
	}
	return report.Throw[Value]("values/type", v.T)
}

func (v Value) AsString() report.Result[Value] {
	switch v.T {
	case STRING:
		return report.Ok(v)
	case NUMBER, BOOL, NULL, UNKNOWN, LIST, MATRIX:
		return report.Ok(Str(v.String()))
	}
	return report.Throw[Value]("values/type", v.T)
}

func (v Value) AsBoolean() report.Result[Value] {
	switch v.T {
	case BOOL:
		return report.Ok(v)
	case NUMBER:
		return report.Ok(Bool(!v.V.(decimal.Decimal).IsZero()))
	case STRING:
		return report.Ok(Bool(v.V.(string) != ""))
	case NULL, UNKNOWN:
		return report.Ok(FALSE)
	case LIST:
		return report.Ok(Bool(!v.V.(*List).IsEmpty()))
	case MATRIX:
		return report.Ok(Bool(!v.V.(*Matrix).IsEmpty()))
	}
	return report.Throw[Value]("values/type", v.T)
}

// The string form of a value, which is what it converts to and what the REPL shows. Numbers lose
// their trailing zeros.
func (v Value) String() string {
	switch v.T {
	case NUMBER:
		return v.V.(decimal.Decimal).String()
	case STRING:
		return v.V.(string)
	case BOOL:
		if v.V.(bool) {
			return "true"
		}
		return "false"
	case NULL:
		return "null"
	case UNKNOWN:
		return "unknown"
	case LIST:
		return v.V.(*List).String()
	case MATRIX:
		return v.V.(*Matrix).String()
	}
	return "undefined"
}

// A form of the value which could be typed back in, more or less: strings are quoted and lists are
// bracketed. Used when listing the environment.
func (v Value) Literal() string {
	switch v.T {
	case STRING:
		return quote(v.V.(string))
	case LIST:
		l := v.V.(*List)
		parts := make([]string, 0, l.Len())
		for it := l.Iterator(); it.Unfinished(); {
			parts = append(parts, it.GetValue().Literal())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case MATRIX:
		m := v.V.(*Matrix)
		rows := make([]string, 0, m.Rows())
		for i := 0; i < m.Rows(); i++ {
			rows = append(rows, ListValue(m.Row(i)).Literal())
		}
		return "[" + strings.Join(rows, ", ") + "]"
	}
	return v.String()
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return `"` + r.Replace(s) + `"`
}

// Structural equality, with numbers compared by value so that 2.50 equals 2.5.
func Equal(v, w Value) bool {
	if v.T != w.T {
		return false
	}
	switch v.T {
	case NUMBER:
		return v.V.(decimal.Decimal).Equal(w.V.(decimal.Decimal))
	case STRING:
		return v.V.(string) == w.V.(string)
	case BOOL:
		return v.V.(bool) == w.V.(bool)
	case NULL, UNKNOWN, UNDEFINED_VALUE:
		return true
	case LIST:
		l, k := v.V.(*List), w.V.(*List)
		if l.Len() != k.Len() {
			return false
		}
		for i := 0; i < l.Len(); i++ {
			if !Equal(l.Get(i), k.Get(i)) {
				return false
			}
		}
		return true
	case MATRIX:
		m, n := v.V.(*Matrix), w.V.(*Matrix)
		if m.Rows() != n.Rows() || m.Cols() != n.Cols() {
			return false
		}
		for i := 0; i < m.Rows(); i++ {
			for j := 0; j < m.Cols(); j++ {
				if !Equal(m.Get(i, j), n.Get(i, j)) {
					return false
				}
			}
		}
		return true
	}
	return false
}
