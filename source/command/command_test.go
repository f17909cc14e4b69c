package command

import (
	"testing"

	"github.com/tim-hardcastle/dsh/source/object"
	"github.com/tim-hardcastle/dsh/source/values"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Add("zero", "Returns zero.", "zero", 0, func(env *object.Environment, args ...values.Value) (values.Value, error) {
		return values.ZERO, nil
	})
	r.Add("count", "Counts its arguments.", "count ...", Variadic, func(env *object.Environment, args ...values.Value) (values.Value, error) {
		return values.Int(int64(len(args))), nil
	})
	if r.Len() != 2 || !r.Has("zero") || r.Has("one") {
		t.Fatalf("The registry should contain exactly the commands added to it")
	}
	if names := r.Names(); names[0] != "count" || names[1] != "zero" {
		t.Fatalf("Names should be sorted, got %v", names)
	}
	c, _ := r.Get("count")
	if !c.Accepts(0) || !c.Accepts(7) {
		t.Fatalf("A variadic command should accept any number of arguments")
	}
	z, _ := r.Get("zero")
	if z.Accepts(1) || !z.Accepts(0) {
		t.Fatalf("A command of arity 0 should only accept 0 arguments")
	}
	v, err := c.Execute(object.NewEnvironment(), values.Int(1), values.Int(2))
	if err != nil || !values.Equal(v, values.Int(2)) {
		t.Fatalf("Wanted 2, got %v, %v", v, err)
	}
}
