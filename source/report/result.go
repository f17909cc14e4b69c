package report

// A Result is either a value or an *Error, never both. The combinators below are how the
// tokenizer, calculator and dispatcher chain fallible steps; the first failure short-circuits
// everything after it and arrives at the top unaltered.
type Result[T any] struct {
	value T
	err   *Error
}

func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

func Fail[T any](e *Error) Result[T] {
	if e == nil {
		e = CreateErr("result/nil", nil)
	}
	return Result[T]{err: e}
}

// Makes a failed Result from an identifier in the error catalogue.
func Throw[T any](errorId string, args ...any) Result[T] {
	return Fail[T](CreateErr(errorId, nil, args...))
}

// As Throw, but recording the error which caused this one.
func ThrowWithCause[T any](errorId string, cause error, args ...any) Result[T] {
	return Fail[T](CreateErr(errorId, cause, args...))
}

func (r Result[T]) IsOk() bool {
	return r.err == nil
}

func (r Result[T]) IsError() bool {
	return r.err != nil
}

// Returns the success value, or the zero value of T if this is a failure.
func (r Result[T]) Value() T {
	return r.value
}

// Returns the failure, or nil if this is a success.
func (r Result[T]) Err() *Error {
	return r.err
}

// Unpacks the Result Go-style. We must take care not to return a nil *Error inside a non-nil
// error interface.
func (r Result[T]) Get() (T, error) {
	if r.err != nil {
		return r.value, r.err
	}
	return r.value, nil
}

func (r Result[T]) OrElse(defaultValue T) T {
	if r.err != nil {
		return defaultValue
	}
	return r.value
}

func (r Result[T]) String() string {
	if r.err != nil {
		return "Error(" + r.err.Kind.String() + ": " + r.err.Message + ")"
	}
	return "Ok(" + describe(r.value) + ")"
}

// Downgrades a success to a validation error if the predicate doesn't hold.
func (r Result[T]) Filter(predicate func(T) bool, message string) (res Result[T]) {
	if r.err != nil {
		return r
	}
	defer func() {
		if p := recover(); p != nil {
			res = Fail[T](CreateErr("result/filter/fault", FaultCause(p), p))
		}
	}()
	if predicate(r.value) {
		return r
	}
	return Throw[T]("result/filter", message)
}

// Substitutes a value for a failure.
func (r Result[T]) Recover(recovery func(*Error) T) (res Result[T]) {
	if r.err == nil {
		return r
	}
	defer func() {
		if p := recover(); p != nil {
			res = Fail[T](CreateErr("result/recover/fault", FaultCause(p), p))
		}
	}()
	return Ok(recovery(r.err))
}

// Substitutes an alternative computation for a failure.
func (r Result[T]) RecoverWith(recovery func(*Error) Result[T]) (res Result[T]) {
	if r.err == nil {
		return r
	}
	defer func() {
		if p := recover(); p != nil {
			res = Fail[T](CreateErr("result/recover/fault", FaultCause(p), p))
		}
	}()
	return recovery(r.err)
}

// Transforms the success value. A panic inside the mapper becomes a runtime error.
func Map[T, U any](r Result[T], mapper func(T) U) (res Result[U]) {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	defer func() {
		if p := recover(); p != nil {
			res = Fail[U](CreateErr("result/map/fault", FaultCause(p), p))
		}
	}()
	return Ok(mapper(r.value))
}

// Chains the next fallible step. A failure is passed on exactly as it is.
func FlatMap[T, U any](r Result[T], mapper func(T) Result[U]) (res Result[U]) {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	defer func() {
		if p := recover(); p != nil {
			res = Fail[U](CreateErr("result/flatmap/fault", FaultCause(p), p))
		}
	}()
	return mapper(r.value)
}

// Runs a function at a component boundary, turning any panic into a runtime error with the
// given identifier.
func Protect[T any](errorId string, f func() Result[T]) (res Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			res = Fail[T](CreateErr(errorId, FaultCause(p), p))
		}
	}()
	return f()
}
