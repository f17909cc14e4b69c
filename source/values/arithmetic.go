package values

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/tim-hardcastle/dsh/source/report"
	"github.com/tim-hardcastle/dsh/source/settings"
)

// Each of the six arithmetic operators is described by one of these. The broadcasting and coercion
// rules are the same for all of them, and are implemented once, in Apply: the only thing that
// differs between operators is what they do to two numbers.
type Operator struct {
	Name         string
	Symbol       string
	Precedence   int   // 1 for + and -, 2 for *, / and %, 3 for ^.
	Identity     Value // What a structured right operand is replaced by when the left is a scalar.
	concatenates bool  // True only for addition.
	scalar       func(a, b decimal.Decimal) report.Result[Value]
}

var (
	ADD = &Operator{Name: "add", Symbol: "+", Precedence: 1, Identity: ZERO, concatenates: true,
		scalar: func(a, b decimal.Decimal) report.Result[Value] { return report.Ok(Num(a.Add(b))) }}
	SUBTRACT = &Operator{Name: "subtract", Symbol: "-", Precedence: 1, Identity: ZERO,
		scalar: func(a, b decimal.Decimal) report.Result[Value] { return report.Ok(Num(a.Sub(b))) }}
	MULTIPLY = &Operator{Name: "multiply", Symbol: "*", Precedence: 2, Identity: ONE,
		scalar: func(a, b decimal.Decimal) report.Result[Value] { return report.Ok(Num(a.Mul(b))) }}
	DIVIDE = &Operator{Name: "divide", Symbol: "/", Precedence: 2, Identity: ONE, scalar: divide}
	MODULO = &Operator{Name: "modulo", Symbol: "%", Precedence: 2, Identity: ONE, scalar: modulo}
	POWER  = &Operator{Name: "power", Symbol: "^", Precedence: 3, Identity: ONE, scalar: power}
)

var operators = map[string]*Operator{}

func init() {
	for _, op := range []*Operator{ADD, SUBTRACT, MULTIPLY, DIVIDE, MODULO, POWER} {
		operators[op.Symbol] = op
	}
}

// Finds the operator with the given symbol.
func Lookup(symbol string) (*Operator, bool) {
	op, ok := operators[symbol]
	return op, ok
}

// The highest precedence any operator has.
const MAX_PRECEDENCE = 3

func (op *Operator) String() string {
	return op.Symbol
}

// Applies the operator to two values. Broadcasting is driven by the left operand: a list or matrix
// on the left is operated on element by element. A list or matrix on the right of a scalar is
// replaced by the operator's identity, so that 5 + [1, 2] is 5 + 0 while [1, 2] + 5 is [6, 7].
func (op *Operator) Apply(left, right Value) (res report.Result[Value]) {
	defer func() {
		if p := recover(); p != nil {
			res = report.Fail[Value](report.CreateErr("values/fault", report.FaultCause(p), op.Name, p))
		}
	}()
	switch {
	case left.T == LIST:
		return op.applyToList(left.V.(*List), right)
	case left.T == MATRIX:
		return op.applyToMatrix(left.V.(*Matrix), right)
	case right.IsStructured():
		return op.Apply(left, op.Identity)
	case op.concatenates && (left.T == STRING || right.T == STRING):
		return report.Ok(Str(left.String() + right.String()))
	}
	return report.FlatMap(left.AsNumber(), func(l Value) report.Result[Value] {
		return report.FlatMap(right.AsNumber(), func(r Value) report.Result[Value] {
			return op.scalar(l.Decimal(), r.Decimal())
		})
	})
}

func (op *Operator) applyToList(l *List, right Value) report.Result[Value] {
	if right.T == LIST {
		r := right.V.(*List)
		if max(l.Len(), r.Len()) > settings.MAX_BROADCAST_ELEMENTS {
			return report.Throw[Value]("values/size", "list", settings.MAX_BROADCAST_ELEMENTS)
		}
		shared := min(l.Len(), r.Len())
		result := make([]Value, 0, max(l.Len(), r.Len()))
		for i := 0; i < shared; i++ {
			v := op.Apply(l.Get(i), r.Get(i))
			if v.IsError() {
				return report.Fail[Value](report.Annotate(v.Err(), fmt.Sprintf("list operation failed at index %v", i)))
			}
			result = append(result, v.Value())
		}
		longer := l
		if r.Len() > l.Len() {
			longer = r
		}
		for i := shared; i < longer.Len(); i++ {
			result = append(result, longer.Get(i))
		}
		return NewListValue(result)
	}
	if l.Len() > settings.MAX_BROADCAST_ELEMENTS {
		return report.Throw[Value]("values/size", "list", settings.MAX_BROADCAST_ELEMENTS)
	}
	result := make([]Value, 0, l.Len())
	for it := l.Iterator(); it.Unfinished(); {
		i, el := it.GetKeyValuePair()
		v := op.Apply(el, right)
		if v.IsError() {
			return report.Fail[Value](report.Annotate(v.Err(), fmt.Sprintf("list broadcast operation failed at index %v", i.V)))
		}
		result = append(result, v.Value())
	}
	return NewListValue(result)
}

func (op *Operator) applyToMatrix(m *Matrix, right Value) report.Result[Value] {
	if right.T == MATRIX {
		n := right.V.(*Matrix)
		rows, cols := max(m.Rows(), n.Rows()), max(m.Cols(), n.Cols())
		if rows*cols > settings.MAX_BROADCAST_ELEMENTS {
			return report.Throw[Value]("values/size", "matrix", settings.MAX_BROADCAST_ELEMENTS)
		}
		sharedRows, sharedCols := min(m.Rows(), n.Rows()), min(m.Cols(), n.Cols())
		result := make([][]Value, rows)
		for i := 0; i < rows; i++ {
			result[i] = make([]Value, cols)
			for j := 0; j < cols; j++ {
				switch {
				case i < sharedRows && j < sharedCols:
					v := op.Apply(m.Get(i, j), n.Get(i, j))
					if v.IsError() {
						return report.Fail[Value](report.Annotate(v.Err(), fmt.Sprintf("matrix operation failed at position [%v,%v]", i, j)))
					}
					result[i][j] = v.Value()
				case i < m.Rows() && j < m.Cols():
					result[i][j] = m.Get(i, j)
				default:
					result[i][j] = n.Get(i, j) // Which is null if n hasn't got it either.
				}
			}
		}
		return NewMatrixValue(result)
	}
	if m.Rows()*m.Cols() > settings.MAX_BROADCAST_ELEMENTS {
		return report.Throw[Value]("values/size", "matrix", settings.MAX_BROADCAST_ELEMENTS)
	}
	result := make([][]Value, m.Rows())
	for i := 0; i < m.Rows(); i++ {
		result[i] = make([]Value, m.Cols())
		for j := 0; j < m.Cols(); j++ {
			v := op.Apply(m.Get(i, j), right)
			if v.IsError() {
				return report.Fail[Value](report.Annotate(v.Err(), fmt.Sprintf("matrix operation failed at position [%v,%v]", i, j)))
			}
			result[i][j] = v.Value()
		}
	}
	return NewMatrixValue(result)
}

func divide(a, b decimal.Decimal) report.Result[Value] {
	if b.IsZero() {
		return report.Throw[Value]("values/divide/zero")
	}
	return report.Ok(Num(Quotient(a, b)))
}

// Divides to DIVISION_PRECISION significant figures, however large or small the quotient. The
// divisor must not be zero.
func Quotient(a, b decimal.Decimal) decimal.Decimal {
	if a.IsZero() {
		return decimal.Zero
	}
	places := int32(settings.DIVISION_PRECISION) - (magnitude(a) - magnitude(b))
	q := a.DivRound(b, places)
	if digits(q) > settings.DIVISION_PRECISION {
		q = a.DivRound(b, places-1)
	}
	return q
}

// The power of ten of the leading digit, so 1 for 12.5 and -3 for 0.004.
func magnitude(d decimal.Decimal) int32 {
	return int32(digits(d)) + d.Exponent() - 1
}

func digits(d decimal.Decimal) int {
	return len(new(big.Int).Abs(d.Coefficient()).String())
}

func modulo(a, b decimal.Decimal) report.Result[Value] {
	if b.IsZero() {
		return report.Throw[Value]("values/modulo/zero")
	}
	return report.Ok(Num(a.Mod(b)))
}

func power(a, b decimal.Decimal) report.Result[Value] {
	if a.IsZero() && b.IsZero() {
		return report.Throw[Value]("values/power/zero")
	}
	if b.Equal(b.Truncate(0)) {
		if b.Abs().GreaterThan(decimal.NewFromInt(settings.MAX_EXACT_EXPONENT)) {
			return report.Throw[Value]("values/power/range", b.String())
		}
		exp := b.IntPart()
		if exp >= 0 {
			return report.Ok(Num(exactPower(a, exp)))
		}
		return divide(decimal.NewFromInt(1), exactPower(a, -exp))
	}
	x, _ := a.Float64()
	y, _ := b.Float64()
	f := math.Pow(x, y)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return report.Throw[Value]("values/power/nan")
	}
	return report.Ok(Num(decimal.NewFromFloat(f)))
}

// Square-and-multiply, which is exact since decimals don't round on multiplication.
func exactPower(base decimal.Decimal, exp int64) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		exp >>= 1
		if exp > 0 {
			base = base.Mul(base)
		}
	}
	return result
}

// These are what the rest of dsh calls.

func Add(left, right Value) report.Result[Value] {
	return ADD.Apply(left, right)
}

func Subtract(left, right Value) report.Result[Value] {
	return SUBTRACT.Apply(left, right)
}

func Multiply(left, right Value) report.Result[Value] {
	return MULTIPLY.Apply(left, right)
}

func Divide(left, right Value) report.Result[Value] {
	return DIVIDE.Apply(left, right)
}

func Modulo(left, right Value) report.Result[Value] {
	return MODULO.Apply(left, right)
}

func Power(left, right Value) report.Result[Value] {
	return POWER.Apply(left, right)
}

// Unary minus, which is multiplication by -1 and so broadcasts like anything else.
func Negate(v Value) report.Result[Value] {
	return MULTIPLY.Apply(v, Int(-1))
}
