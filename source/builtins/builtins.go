package builtins

// The commands dsh comes with, and its constants. A command's function gets its arguments already
// evaluated, and anything it returns as an error is reported by the dispatcher as a failure of the
// command.

import (
	"encoding/csv"
	"encoding/hex"
	"os"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/blake2b"

	"github.com/tim-hardcastle/dsh/source/command"
	"github.com/tim-hardcastle/dsh/source/object"
	"github.com/tim-hardcastle/dsh/source/settings"
	"github.com/tim-hardcastle/dsh/source/values"
)

type builtin struct {
	description string
	hint        string
	arity       int
	fn          command.Function
}

var BUILTINS = map[string]builtin{
	"abs":       {"the absolute value of a number", "abs x", 1, btAbs},
	"bool":      {"converts a value to a boolean", "bool x", 1, btBool},
	"col":       {"a column of a matrix, counting from 0", "col m j", 2, btCol},
	"digest":    {"the BLAKE2b-256 digest of the string form of a value", "digest x", 1, btDigest},
	"echo":      {"the string forms of the arguments, joined by spaces", "echo x y ...", command.Variadic, btEcho},
	"factorial": {"the factorial of a whole number", "factorial n", 1, btFactorial},
	"gcd":       {"the greatest common divisor of two whole numbers", "gcd a b", 2, btGcd},
	"lcm":       {"the least common multiple of two whole numbers", "lcm a b", 2, btLcm},
	"len":       {"the length of a string or list, or the number of cells of a matrix", "len x", 1, btLen},
	"load":      {"reads a CSV file into a matrix, optionally skipping a header row", "load file [header]", command.Variadic, btLoad},
	"matrix":    {"makes a matrix with the given lists as rows", "matrix row1 row2 ...", command.Variadic, btMatrix},
	"max":       {"the largest of some numbers, or of a list of them", "max x y ...", command.Variadic, btMax},
	"mean":      {"the mean of some numbers, or of a list of them", "mean x y ...", command.Variadic, btMean},
	"min":       {"the smallest of some numbers, or of a list of them", "min x y ...", command.Variadic, btMin},
	"num":       {"converts a value to a number", "num x", 1, btNum},
	"range":     {"the numbers from a up to but not including b", "range a b [step]", command.Variadic, btRange},
	"reverse":   {"a list in reverse order", "reverse l", 1, btReverse},
	"round":     {"rounds a number, to a given number of places if supplied", "round x [places]", command.Variadic, btRound},
	"row":       {"a row of a matrix, counting from 0", "row m i", 2, btRow},
	"shape":     {"the number of rows and columns of a matrix", "shape m", 1, btShape},
	"sort":      {"a list of numbers or strings in ascending order", "sort l", 1, btSort},
	"str":       {"converts a value to a string", "str x", 1, btStr},
	"sum":       {"the sum of some numbers, or of a list of them", "sum x y ...", command.Variadic, btSum},
	"type":      {"the type of a value", "type x", 1, btType},
	"vars":      {"the names of the variables in the environment", "vars", 0, btVars},
}

// Adds the builtins to a registry.
func Register(r *command.Registry) {
	for name, b := range BUILTINS {
		r.Add(name, b.description, b.hint, b.arity, b.fn)
	}
}

// The outer environment every session encloses, holding the constants.
func Constants() *object.Environment {
	env := object.NewEnvironment()
	env.InitializeConstant("pi", values.Num(decimal.RequireFromString("3.1415926535897932384626433832795029")))
	env.InitializeConstant("e", values.Num(decimal.RequireFromString("2.7182818284590452353602874713526625")))
	return env
}

const MAX_FACTORIAL = 1000

func btAbs(env *object.Environment, args ...values.Value) (values.Value, error) {
	d, err := number(args[0])
	if err != nil {
		return values.Value{}, err
	}
	return values.Num(d.Abs()), nil
}

func btBool(env *object.Environment, args ...values.Value) (values.Value, error) {
	return args[0].AsBoolean().Get()
}

func btCol(env *object.Environment, args ...values.Value) (values.Value, error) {
	m, j, err := matrixAndIndex(args, "col")
	if err != nil {
		return values.Value{}, err
	}
	if j >= m.Cols() {
		return values.Value{}, errors.Errorf("column %v is out of range for a matrix with %v columns", j, m.Cols())
	}
	return values.ListValue(m.Column(j)), nil
}

func btDigest(env *object.Environment, args ...values.Value) (values.Value, error) {
	sum := blake2b.Sum256([]byte(args[0].String()))
	return values.Str(hex.EncodeToString(sum[:])), nil
}

func btEcho(env *object.Environment, args ...values.Value) (values.Value, error) {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, arg.String())
	}
	return values.Str(strings.Join(parts, " ")), nil
}

func btFactorial(env *object.Environment, args ...values.Value) (values.Value, error) {
	n, err := integer(args[0], "factorial")
	if err != nil {
		return values.Value{}, err
	}
	if n < 0 || n > MAX_FACTORIAL {
		return values.Value{}, errors.Errorf("factorial needs a whole number from 0 to %v, got %v", MAX_FACTORIAL, n)
	}
	result := decimal.NewFromInt(1)
	for i := int64(2); i <= n; i++ {
		result = result.Mul(decimal.NewFromInt(i))
	}
	return values.Num(result), nil
}

func btGcd(env *object.Environment, args ...values.Value) (values.Value, error) {
	a, b, err := integerPair(args, "gcd")
	if err != nil {
		return values.Value{}, err
	}
	return values.Int(gcd(a, b)), nil
}

func btLcm(env *object.Environment, args ...values.Value) (values.Value, error) {
	a, b, err := integerPair(args, "lcm")
	if err != nil {
		return values.Value{}, err
	}
	if a == 0 || b == 0 {
		return values.ZERO, nil
	}
	return values.Num(decimal.NewFromInt(a / gcd(a, b)).Mul(decimal.NewFromInt(b)).Abs()), nil
}

func btLen(env *object.Environment, args ...values.Value) (values.Value, error) {
	switch args[0].T {
	case values.STRING:
		return values.Int(int64(len([]rune(args[0].V.(string))))), nil
	case values.LIST, values.MATRIX:
		return args[0].AsNumber().Get()
	}
	return values.Value{}, errors.Errorf("len needs a string, list or matrix, got a %v", args[0].TypeName())
}

func btLoad(env *object.Environment, args ...values.Value) (values.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return values.Value{}, errors.Errorf("load takes a filename and optionally 'true' to skip a header, got %v arguments", len(args))
	}
	header := false
	if len(args) == 2 {
		b, err := args[1].AsBoolean().Get()
		if err != nil {
			return values.Value{}, err
		}
		header = b.V.(bool)
	}
	return loadCSV(args[0].String(), header)
}

func btMatrix(env *object.Environment, args ...values.Value) (values.Value, error) {
	rows := make([][]values.Value, 0, len(args))
	for i, arg := range args {
		switch arg.T {
		case values.LIST:
			rows = append(rows, arg.List().Elements())
		case values.MATRIX:
			rows = append(rows, arg.Matrix().Cells()...)
		default:
			return values.Value{}, errors.Errorf("matrix needs lists for its rows, but argument %v is a %v", i+1, arg.TypeName())
		}
	}
	return values.NewMatrixValue(rows).Get()
}

func btMax(env *object.Environment, args ...values.Value) (values.Value, error) {
	return extremum("max", args, decimal.Decimal.GreaterThan)
}

func btMean(env *object.Environment, args ...values.Value) (values.Value, error) {
	ds, err := numbers(args)
	if err != nil {
		return values.Value{}, err
	}
	if len(ds) == 0 {
		return values.Value{}, errors.New("mean needs at least one number")
	}
	total := decimal.Zero
	for _, d := range ds {
		total = total.Add(d)
	}
	return values.Num(values.Quotient(total, decimal.NewFromInt(int64(len(ds))))), nil
}

func btMin(env *object.Environment, args ...values.Value) (values.Value, error) {
	return extremum("min", args, decimal.Decimal.LessThan)
}

func btNum(env *object.Environment, args ...values.Value) (values.Value, error) {
	return args[0].AsNumber().Get()
}

func btRange(env *object.Environment, args ...values.Value) (values.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return values.Value{}, errors.Errorf("range takes a start, an end and optionally a step, got %v arguments", len(args))
	}
	ds, err := numbers(args)
	if err != nil {
		return values.Value{}, err
	}
	step := decimal.NewFromInt(1)
	if len(ds) == 3 {
		step = ds[2]
	}
	if step.IsZero() {
		return values.Value{}, errors.New("the step of a range can't be zero")
	}
	result := []values.Value{}
	for x := ds[0]; (step.IsPositive() && x.LessThan(ds[1])) || (step.IsNegative() && x.GreaterThan(ds[1])); x = x.Add(step) {
		if len(result) >= settings.MAX_BROADCAST_ELEMENTS {
			return values.Value{}, errors.Errorf("a range can't have more than %v elements", settings.MAX_BROADCAST_ELEMENTS)
		}
		result = append(result, values.Num(x))
	}
	return values.NewListValue(result).Get()
}

func btReverse(env *object.Environment, args ...values.Value) (values.Value, error) {
	if args[0].T != values.LIST {
		return values.Value{}, errors.Errorf("reverse needs a list, got a %v", args[0].TypeName())
	}
	elements := args[0].List().Elements()
	slices.Reverse(elements)
	return values.NewListValue(elements).Get()
}

func btRound(env *object.Environment, args ...values.Value) (values.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return values.Value{}, errors.Errorf("round takes a number and optionally a number of places, got %v arguments", len(args))
	}
	d, err := number(args[0])
	if err != nil {
		return values.Value{}, err
	}
	places := int64(0)
	if len(args) == 2 {
		if places, err = integer(args[1], "round"); err != nil {
			return values.Value{}, err
		}
	}
	return values.Num(d.Round(int32(places))), nil
}

func btRow(env *object.Environment, args ...values.Value) (values.Value, error) {
	m, i, err := matrixAndIndex(args, "row")
	if err != nil {
		return values.Value{}, err
	}
	if i >= m.Rows() {
		return values.Value{}, errors.Errorf("row %v is out of range for a matrix with %v rows", i, m.Rows())
	}
	return values.ListValue(m.Row(i)), nil
}

func btShape(env *object.Environment, args ...values.Value) (values.Value, error) {
	if args[0].T != values.MATRIX {
		return values.Value{}, errors.Errorf("shape needs a matrix, got a %v", args[0].TypeName())
	}
	m := args[0].Matrix()
	return values.NewListValue([]values.Value{values.Int(int64(m.Rows())), values.Int(int64(m.Cols()))}).Get()
}

// Nulls go to the end.
func btSort(env *object.Environment, args ...values.Value) (values.Value, error) {
	if args[0].T != values.LIST {
		return values.Value{}, errors.Errorf("sort needs a list, got a %v", args[0].TypeName())
	}
	elements := args[0].List().Elements()
	slices.SortStableFunc(elements, func(a, b values.Value) int {
		switch {
		case a.T == values.NULL && b.T == values.NULL:
			return 0
		case a.T == values.NULL:
			return 1
		case b.T == values.NULL:
			return -1
		case a.T == values.NUMBER:
			return a.Decimal().Cmp(b.Decimal())
		}
		return strings.Compare(a.String(), b.String())
	})
	return values.NewListValue(elements).Get()
}

func btStr(env *object.Environment, args ...values.Value) (values.Value, error) {
	return args[0].AsString().Get()
}

func btSum(env *object.Environment, args ...values.Value) (values.Value, error) {
	ds, err := numbers(args)
	if err != nil {
		return values.Value{}, err
	}
	total := decimal.Zero
	for _, d := range ds {
		total = total.Add(d)
	}
	return values.Num(total), nil
}

func btType(env *object.Environment, args ...values.Value) (values.Value, error) {
	return values.Str(args[0].TypeName()), nil
}

func btVars(env *object.Environment, args ...values.Value) (values.Value, error) {
	names := env.Names()
	result := make([]values.Value, 0, len(names))
	for _, name := range names {
		result = append(result, values.Str(name))
	}
	return values.NewListValue(result).Get()
}

// Helper functions.

func number(v values.Value) (decimal.Decimal, error) {
	n, err := v.AsNumber().Get()
	if err != nil {
		return decimal.Zero, err
	}
	return n.Decimal(), nil
}

func integer(v values.Value, name string) (int64, error) {
	d, err := number(v)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) || d.Abs().GreaterThan(decimal.NewFromInt(1<<53)) {
		return 0, errors.Errorf("%v needs a whole number, got %v", name, d.String())
	}
	return d.IntPart(), nil
}

func integerPair(args []values.Value, name string) (int64, int64, error) {
	a, err := integer(args[0], name)
	if err != nil {
		return 0, 0, err
	}
	b, err := integer(args[1], name)
	return a, b, err
}

func matrixAndIndex(args []values.Value, name string) (*values.Matrix, int, error) {
	if args[0].T != values.MATRIX {
		return nil, 0, errors.Errorf("%v needs a matrix, got a %v", name, args[0].TypeName())
	}
	i, err := integer(args[1], name)
	if err != nil {
		return nil, 0, err
	}
	if i < 0 {
		return nil, 0, errors.Errorf("%v needs an index of at least 0, got %v", name, i)
	}
	return args[0].Matrix(), int(i), nil
}

// The numbers among the arguments, or among the elements of a single list or matrix argument.
// Nulls are skipped.
func numbers(args []values.Value) ([]decimal.Decimal, error) {
	if len(args) == 1 && args[0].IsStructured() {
		structured := args[0]
		args = nil
		for it := values.Elements(structured); it.Unfinished(); {
			args = append(args, it.GetValue())
		}
	}
	result := make([]decimal.Decimal, 0, len(args))
	for _, arg := range args {
		if arg.T == values.NULL {
			continue
		}
		d, err := number(arg)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, nil
}

func extremum(name string, args []values.Value, better func(decimal.Decimal, decimal.Decimal) bool) (values.Value, error) {
	ds, err := numbers(args)
	if err != nil {
		return values.Value{}, err
	}
	if len(ds) == 0 {
		return values.Value{}, errors.Errorf("%v needs at least one number", name)
	}
	best := ds[0]
	for _, d := range ds[1:] {
		if better(d, best) {
			best = d
		}
	}
	return values.Num(best), nil
}

func gcd(a, b int64) int64 {
	a, b = abs(a), abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// A CSV file becomes a matrix of numbers if every cell that isn't blank is a number, and a matrix
// of strings otherwise. Blank cells are null.
func loadCSV(filename string, header bool) (values.Value, error) {
	file, err := os.Open(filename)
	if err != nil {
		return values.Value{}, errors.Wrapf(err, "opening %v", filename)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return values.Value{}, errors.Wrapf(err, "reading %v", filename)
	}
	if header && len(records) > 0 {
		records = records[1:]
	}
	numeric := true
	for _, record := range records {
		for _, field := range record {
			if _, ok := values.ParseNumber(strings.TrimSpace(field)); !ok && strings.TrimSpace(field) != "" {
				numeric = false
			}
		}
	}
	rows := make([][]values.Value, 0, len(records))
	cells := 0
	for _, record := range records {
		row := make([]values.Value, 0, len(record))
		for _, field := range record {
			field = strings.TrimSpace(field)
			switch {
			case field == "":
				row = append(row, values.NULL_V)
			case numeric:
				v, _ := values.ParseNumber(field)
				row = append(row, v)
			default:
				row = append(row, values.Str(field))
			}
		}
		cells += len(row)
		if cells > settings.MAX_BROADCAST_ELEMENTS {
			return values.Value{}, errors.Errorf("%v has more than %v cells", filename, settings.MAX_BROADCAST_ELEMENTS)
		}
		rows = append(rows, row)
	}
	return values.NewMatrixValue(rows).Get()
}
