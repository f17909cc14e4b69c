package report

import (
	"strconv"
	"testing"

	"github.com/pkg/errors"
)

func half(n int) Result[int] {
	if n%2 != 0 {
		return Throw[int]("result/filter", strconv.Itoa(n)+" is odd")
	}
	return Ok(n / 2)
}

func TestChaining(t *testing.T) {
	r := FlatMap(FlatMap(Ok(12), half), half)
	if r.IsError() || r.Value() != 3 {
		t.Fatalf("Wanted Ok(3), got %v", r)
	}
	r = FlatMap(FlatMap(FlatMap(Ok(12), half), half), half)
	if r.IsOk() || r.Err().Message != "3 is odd" {
		t.Fatalf("Wanted the first failure, got %v", r)
	}
	called := false
	r = FlatMap(r, func(n int) Result[int] { called = true; return Ok(n) })
	if called || r.Err().Message != "3 is odd" {
		t.Fatalf("A failure should be passed on without calling the next step")
	}
}

func TestMap(t *testing.T) {
	s := Map(Ok(42), strconv.Itoa)
	if s.Value() != "42" {
		t.Fatalf("Wanted \"42\", got %v", s)
	}
	var m map[string]int
	r := Map(Ok("x"), func(k string) int { m[k] = 1; return 1 })
	if r.IsOk() || r.Err().ErrorId != "result/map/fault" || r.Err().Kind != Runtime {
		t.Fatalf("A panic in the mapper should become a runtime error, got %v", r)
	}
	if r.Err().Cause == nil {
		t.Fatalf("The panic should be kept as the cause")
	}
}

func TestFilterAndRecover(t *testing.T) {
	positive := func(n int) bool { return n > 0 }
	if r := Ok(5).Filter(positive, "must be positive"); r.IsError() {
		t.Fatalf("Unexpected error: %v", r.Err())
	}
	r := Ok(-5).Filter(positive, "must be positive")
	if r.IsOk() || r.Err().Kind != Validation || r.Err().Message != "must be positive" {
		t.Fatalf("Wanted a validation error, got %v", r)
	}
	if got := r.Recover(func(e *Error) int { return 0 }); got.Value() != 0 || got.IsError() {
		t.Fatalf("Recover should substitute a value, got %v", got)
	}
	if got := r.RecoverWith(func(e *Error) Result[int] { return half(3) }); got.Err().Message != "3 is odd" {
		t.Fatalf("RecoverWith should substitute a computation, got %v", got)
	}
	if got := r.OrElse(7); got != 7 {
		t.Fatalf("Wanted the default, got %v", got)
	}
	if got := r.Recover(func(e *Error) int { panic("no") }); got.Err().ErrorId != "result/recover/fault" {
		t.Fatalf("A panic in recovery should become a runtime error, got %v", got)
	}
}

func TestProtect(t *testing.T) {
	r := Protect("calc/fault", func() Result[int] {
		var xs []int
		return Ok(xs[3])
	})
	if r.IsOk() || r.Err().ErrorId != "calc/fault" || r.Err().Kind != Runtime {
		t.Fatalf("Wanted calc/fault, got %v", r)
	}
}

func TestGet(t *testing.T) {
	if _, err := Ok(1).Get(); err != nil {
		t.Fatalf("A success should give a nil error, got %v", err)
	}
	_, err := Throw[int]("values/divide/zero").Get()
	var e *Error
	if !errors.As(err, &e) || e.ErrorId != "values/divide/zero" {
		t.Fatalf("Wanted the error itself, got %v", err)
	}
}

func TestCreateErr(t *testing.T) {
	e := CreateErr("no/such/id", nil)
	if e.ErrorId != "report/id" || e.Kind != Runtime {
		t.Fatalf("An unknown identifier should be reported as such, got %v", e)
	}
	e = Annotate(CreateErr("values/divide/zero", nil), "list operation failed at index 2")
	if e.Error() != "Arithmetic error: list operation failed at index 2: Division by zero" || e.ErrorId != "values/divide/zero" {
		t.Fatalf("Annotating should keep the kind and identity, got %v", e)
	}
	if Explain(e) == "" || Explain(nil) != "There was no error." {
		t.Fatalf("Explain failed")
	}
}
