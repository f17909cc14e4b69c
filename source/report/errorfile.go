package report

import (
	"fmt"
	"strings"
)

type ErrorCreator struct {
	Kind        Kind
	Message     func(args ...any) string
	Explanation func(args ...any) string
}

// A map from error identifiers to the kind of the error and functions that supply the
// corresponding error messages and explanations.
//
// Errors in the map are in alphabetical order of their identifers.
//
// Major categories are calc, disp, env, lex, result and values.
//
// Two otherwise identical errors thrown in different places in the Go code must be assigned
// different identifiers, if only by suffixing /a, /b, etc to the identifier.

var ErrorCreatorMap = map[string]ErrorCreator{

	// TEMPLATE
	"": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return ""
		},
		Explanation: func(args ...any) string {
			return ""
		},
	},

	"calc/balance": {
		Kind: Syntax,
		Message: func(args ...any) string {
			return "unbalanced parentheses in expression " + emph(args[0])
		},
		Explanation: func(args ...any) string {
			return "Every '(' in an expression must be closed by a ')', and every '[' by a ']', " +
				"not counting any that appear inside string literals."
		},
	},

	"calc/empty": {
		Kind: Validation,
		Message: func(args ...any) string {
			return "empty expression"
		},
		Explanation: func(args ...any) string {
			return "There was nothing to evaluate: an expression, or one operand of an operator, was blank."
		},
	},

	"calc/fault": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return fmt.Sprintf("unexpected error during evaluation: %v", args[0])
		},
		Explanation: func(args ...any) string {
			return "Something went wrong inside the calculator that it doesn't know how to describe. " +
				"This is a bug in dsh rather than in your expression."
		},
	},

	"calc/invalid": {
		Kind: Syntax,
		Message: func(args ...any) string {
			return "invalid expression " + emph(args[0])
		},
		Explanation: func(args ...any) string {
			return "The calculator couldn't read this as a number, a string, a boolean, null, an array, " +
				"a variable, or two operands joined by one of the operators + - * / % ^."
		},
	},

	"calc/variable": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return "undefined variable " + emph(args[0])
		},
		Explanation: func(args ...any) string {
			return "An expression can only refer to a variable which has already been given a value, " +
				"e.g. by 'x = 5'."
		},
	},

	"disp/assign/token": {
		Kind: Syntax,
		Message: func(args ...any) string {
			return "unexpected assignment token"
		},
		Explanation: func(args ...any) string {
			return "An '=' can only appear directly after the name of the variable being assigned to."
		},
	},

	"disp/assign/value": {
		Kind: Syntax,
		Message: func(args ...any) string {
			return "assignment requires a value after '='"
		},
		Explanation: func(args ...any) string {
			return "An assignment has the form 'name = value', where the value may be a literal, " +
				"an expression, a macro, a variable or a command with its arguments."
		},
	},

	"disp/command/arity": {
		Kind: Validation,
		Message: func(args ...any) string {
			return fmt.Sprintf("command %v expects %v, got %v", emph(args[0]), plural(args[1].(int), "argument"), args[2])
		},
		Explanation: func(args ...any) string {
			return "Each command declares how many arguments it takes; 'help' lists them."
		},
	},

	"disp/command/fault": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return fmt.Sprintf("command execution failed: %v - %v", args[0], args[1])
		},
		Explanation: func(args ...any) string {
			return "The command " + emph(args[0]) + " was found and called, but failed while running. " +
				"The message after the dash is the command's own account of what went wrong."
		},
	},

	"disp/command/unknown": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return "unknown command: " + fmt.Sprint(args[0])
		},
		Explanation: func(args ...any) string {
			return "There is no command called " + emph(args[0]) + ". Type 'help' for a list of commands."
		},
	},

	"disp/empty": {
		Kind: Syntax,
		Message: func(args ...any) string {
			return "no tokens to process"
		},
		Explanation: func(args ...any) string {
			return "The dispatcher was given an empty line."
		},
	},

	"disp/fault": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return fmt.Sprintf("unexpected error during dispatch: %v", args[0])
		},
		Explanation: func(args ...any) string {
			return "Something went wrong inside the dispatcher that it doesn't know how to describe. " +
				"This is a bug in dsh rather than in your input."
		},
	},

	"disp/literal": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return "literal token missing value: " + fmt.Sprint(args[0])
		},
		Explanation: func(args ...any) string {
			return "Literal tokens are given their values when they're tokenized. This one wasn't, which is a bug in dsh."
		},
	},

	"disp/macro/depth": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return fmt.Sprintf("macro recursion too deep invoking %v (limit %v)", emph(args[0]), args[1])
		},
		Explanation: func(args ...any) string {
			return "A macro which invokes itself, directly or through other macros, would run forever, " +
				"so macros may only be nested to a fixed depth. This can be changed with DSH_MAX_MACRO_DEPTH."
		},
	},

	"disp/macro/empty": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return "macro is empty: " + fmt.Sprint(args[0])
		},
		Explanation: func(args ...any) string {
			return "The macro " + emph(args[0]) + " has no lines to run. Record some with 'record " +
				fmt.Sprint(args[0]) + "'."
		},
	},

	"disp/macro/unknown": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return "unknown macro: " + fmt.Sprint(args[0])
		},
		Explanation: func(args ...any) string {
			return "There is no macro called " + emph(args[0]) + ". Type 'macros' to list the ones there are."
		},
	},

	"disp/variable": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return "undefined variable: " + fmt.Sprint(args[0])
		},
		Explanation: func(args ...any) string {
			return "A variable has to be given a value, e.g. by '" + fmt.Sprint(args[0]) + " = 5', before it can be used."
		},
	},

	"env/constant": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return "cannot assign to constant " + emph(args[0])
		},
		Explanation: func(args ...any) string {
			return "The name " + emph(args[0]) + " belongs to a built-in constant, and so it can't be " +
				"given a new value. Pick another name for your variable."
		},
	},

	"lex/char": {
		Kind: Syntax,
		Message: func(args ...any) string {
			return fmt.Sprintf("unexpected character %q at position %v", args[0], args[1])
		},
		Explanation: func(args ...any) string {
			return "A token can start with one of the sigils # : ; =, a quote, a digit or minus sign, " +
				"or a letter or underscore. This character is none of those."
		},
	},

	"lex/empty": {
		Kind: Syntax,
		Message: func(args ...any) string {
			return fmt.Sprintf("empty %v at position %v", args[0], args[1])
		},
		Explanation: func(args ...any) string {
			return "A sigil must be followed by something: '#' by an expression, ':' by the name " +
				"of a command, and ';' by the name of a macro."
		},
	},

	"lex/escape": {
		Kind: Syntax,
		Message: func(args ...any) string {
			return fmt.Sprintf("invalid escape sequence '\\%c' at position %v", args[0], args[1])
		},
		Explanation: func(args ...any) string {
			return `The escape sequences allowed in a string literal are \n, \t, \r, \\ and \".`
		},
	},

	"lex/fault": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return fmt.Sprintf("unexpected error during tokenization: %v", args[0])
		},
		Explanation: func(args ...any) string {
			return "Something went wrong inside the tokenizer that it doesn't know how to describe. " +
				"This is a bug in dsh rather than in your input."
		},
	},

	"lex/number": {
		Kind: Syntax,
		Message: func(args ...any) string {
			return fmt.Sprintf("invalid number format at position %v: %v", args[0], args[1])
		},
		Explanation: func(args ...any) string {
			return "A number is an optional minus sign, one or more digits, an optional fractional part " +
				"and an optional exponent, e.g. -12.5e3. It can't begin with a decimal point."
		},
	},

	"lex/paren": {
		Kind: Syntax,
		Message: func(args ...any) string {
			return fmt.Sprintf("unterminated parenthesized expression starting at position %v", args[0])
		},
		Explanation: func(args ...any) string {
			return "An expression beginning '#(' runs until its parentheses balance. This one never did."
		},
	},

	"lex/quote": {
		Kind: Syntax,
		Message: func(args ...any) string {
			return fmt.Sprintf("unterminated string literal at position %v", args[0])
		},
		Explanation: func(args ...any) string {
			return "A string literal must be closed by a second '\"' on the same line."
		},
	},

	"lex/reserved": {
		Kind: Syntax,
		Message: func(args ...any) string {
			return fmt.Sprintf("reserved word %v used as identifier at position %v", emph(args[0]), args[1])
		},
		Explanation: func(args ...any) string {
			return "The words " + strings.Join([]string{"if", "else", "while", "for", "return", "break", "continue"}, ", ") +
				" are reserved and can't be used as variable names."
		},
	},

	"report/id": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return "unknown error identifier " + emph(args[0])
		},
		Explanation: func(args ...any) string {
			return "This is a bug in dsh: an error was raised which isn't in the catalogue."
		},
	},

	"result/filter": {
		Kind: Validation,
		Message: func(args ...any) string {
			return fmt.Sprint(args[0])
		},
		Explanation: func(args ...any) string {
			return "A value was produced but failed a check that was made on it."
		},
	},

	"result/filter/fault": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return fmt.Sprintf("error in filter predicate: %v", args[0])
		},
	},

	"result/flatmap/fault": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return fmt.Sprintf("error in flatMap operation: %v", args[0])
		},
	},

	"result/map/fault": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return fmt.Sprintf("error in map operation: %v", args[0])
		},
	},

	"result/nil": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return "failure with no error"
		},
	},

	"result/recover/fault": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return fmt.Sprintf("error in recovery function: %v", args[0])
		},
	},

	"values/convert/number": {
		Kind: TypeConversion,
		Message: func(args ...any) string {
			return fmt.Sprintf("cannot convert %v to number", emph(args[0]))
		},
		Explanation: func(args ...any) string {
			return "Arithmetic other than '+' converts its operands to numbers, and this string doesn't " +
				"look like one. ('+' would have concatenated instead.)"
		},
	},

	"values/divide/zero": {
		Kind: Arithmetic,
		Message: func(args ...any) string {
			return "Division by zero"
		},
		Explanation: func(args ...any) string {
			return "Dividing by zero has no meaningful result."
		},
	},

	"values/fault": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return fmt.Sprintf("unexpected error in %v operation: %v", args[0], args[1])
		},
	},

	"values/list/type": {
		Kind: Validation,
		Message: func(args ...any) string {
			return fmt.Sprintf("all elements must be of type %v, but got %v", emph(args[0]), emph(args[1]))
		},
		Explanation: func(args ...any) string {
			return "Lists are homogeneous: the first element which isn't null fixes the type of the " +
				"whole list, and after that only nulls and values of that type can be added."
		},
	},

	"values/matrix/type": {
		Kind: Validation,
		Message: func(args ...any) string {
			return fmt.Sprintf("all matrix elements must be of the same type; found %v, expected %v", emph(args[0]), emph(args[1]))
		},
		Explanation: func(args ...any) string {
			return "Matrices are homogeneous: the first cell which isn't null fixes the type of every cell."
		},
	},

	"values/modulo/zero": {
		Kind: Arithmetic,
		Message: func(args ...any) string {
			return "Modulus by zero"
		},
		Explanation: func(args ...any) string {
			return "The remainder after division by zero has no meaningful value."
		},
	},

	"values/power/nan": {
		Kind: Arithmetic,
		Message: func(args ...any) string {
			return "power operation resulted in NaN or Infinity"
		},
		Explanation: func(args ...any) string {
			return "Fractional powers are computed in floating point, and this one has no finite real " +
				"result, e.g. a fractional power of a negative number."
		},
	},

	"values/power/range": {
		Kind: Arithmetic,
		Message: func(args ...any) string {
			return fmt.Sprintf("exponent %v is too large", args[0])
		},
		Explanation: func(args ...any) string {
			return "Integer powers are computed exactly, and so the exponent must be of a size that can " +
				"be computed in reasonable time and memory."
		},
	},

	"values/power/zero": {
		Kind: Arithmetic,
		Message: func(args ...any) string {
			return "0^0 is undefined"
		},
		Explanation: func(args ...any) string {
			return "Zero to the power zero is an indeterminate form, so dsh refuses to pick a value for it."
		},
	},

	"values/size": {
		Kind: Validation,
		Message: func(args ...any) string {
			return fmt.Sprintf("%v operation would create too many elements (max %v)", args[0], args[1])
		},
		Explanation: func(args ...any) string {
			return "Operations on lists and matrices are capped in size so that a runaway expression can't " +
				"exhaust memory."
		},
	},

	"values/type": {
		Kind: Runtime,
		Message: func(args ...any) string {
			return fmt.Sprintf("unhandled value type %v", args[0])
		},
	},
}

func emph(s any) string {
	if t, ok := s.(string); ok {
		s = strings.TrimSpace(t)
	}
	return fmt.Sprintf("'%v'", s)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func describe(v any) string {
	return fmt.Sprint(v)
}
