package object

import (
	"slices"
	"strings"

	"github.com/tim-hardcastle/dsh/source/report"
	"github.com/tim-hardcastle/dsh/source/values"
)

type AccessType int

const (
	ACCESS_VARIABLE AccessType = iota
	ACCESS_CONSTANT
)

// An environment maps names to values. It may have an outer environment, which is searched for
// any name the environment doesn't have itself: this is where the constants live.
type Environment struct {
	Store map[string]Storage
	Ext   *Environment
}

type Storage struct {
	val    values.Value
	access AccessType
}

func (storage Storage) GetValue() values.Value {
	return storage.val
}

func (storage Storage) GetAccessType() AccessType {
	return storage.access
}

func NewEnvironment() *Environment {
	return &Environment{Store: make(map[string]Storage)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Ext = outer
	return env
}

// Gets the value of a name, which is null if there's no such name.
func (e *Environment) Get(name string) values.Value {
	v, _ := e.Lookup(name)
	return v
}

func (e *Environment) Lookup(name string) (values.Value, bool) {
	storage, ok := e.Store[name]
	if ok {
		return storage.val, true
	}
	if e.Ext == nil {
		return values.NULL_V, false
	}
	return e.Ext.Lookup(name)
}

func (e *Environment) Has(name string) bool {
	_, ok := e.Lookup(name)
	return ok
}

func (e *Environment) IsConstant(name string) bool {
	storage, ok := e.Store[name]
	if ok {
		return storage.access == ACCESS_CONSTANT
	}
	return e.Ext != nil && e.Ext.IsConstant(name)
}

// Sets a variable, failing if the name belongs to a constant here or further out.
func (e *Environment) Set(name string, val values.Value) *report.Error {
	if e.IsConstant(name) {
		return report.CreateErr("env/constant", nil, name)
	}
	e.Store[name] = Storage{val, ACCESS_VARIABLE}
	return nil
}

func (e *Environment) InitializeConstant(name string, val values.Value) {
	e.Store[name] = Storage{val, ACCESS_CONSTANT}
}

// Deletes a variable from this environment. Constants stay put.
func (e *Environment) Delete(name string) bool {
	storage, ok := e.Store[name]
	if !ok || storage.access == ACCESS_CONSTANT {
		return false
	}
	delete(e.Store, name)
	return true
}

// Removes all the variables, leaving the constants.
func (e *Environment) Clear() {
	for k, v := range e.Store {
		if v.access != ACCESS_CONSTANT {
			delete(e.Store, k)
		}
	}
}

// The names of the variables in this environment, in alphabetical order.
func (e *Environment) Names() []string {
	result := []string{}
	for k, v := range e.Store {
		if v.access != ACCESS_CONSTANT {
			result = append(result, k)
		}
	}
	slices.Sort(result)
	return result
}

func (e *Environment) Len() int {
	return len(e.Names())
}

// For outputting the variables as a list of assignments which could be typed back in.
func (e *Environment) StringDumpVariables() string {
	result := ""
	for _, k := range e.Names() {
		result = result + k + " = " + e.Store[k].val.Literal() + "\n"
	}
	return result
}

func (e *Environment) String() string {
	parts := []string{}
	for _, k := range e.Names() {
		parts = append(parts, k+" = "+e.Store[k].val.Literal())
	}
	result := strings.Join(parts, ", ")
	if e.Ext != nil {
		result = result + "\n    + {" + e.Ext.String() + "}"
	}
	return result
}
