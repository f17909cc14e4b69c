package command

import (
	"slices"

	"github.com/tim-hardcastle/dsh/source/object"
	"github.com/tim-hardcastle/dsh/source/values"
)

// The arity of a command which takes any number of arguments.
const Variadic = -1

// What a command does. It gets the environment and the values of its arguments, already evaluated.
// Returning an error, or panicking, is reported by the dispatcher as a failure of the command.
type Function func(env *object.Environment, args ...values.Value) (values.Value, error)

type Command struct {
	Name        string
	Description string
	Hint        string // How to call it, e.g. "gcd a b".
	Arity       int
	Fn          Function
}

func (c *Command) Execute(env *object.Environment, args ...values.Value) (values.Value, error) {
	return c.Fn(env, args...)
}

// Whether the command can be called with n arguments.
func (c *Command) Accepts(n int) bool {
	return c.Arity == Variadic || c.Arity == n
}

type Registry struct {
	commands map[string]*Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// Adds a command, replacing any other of the same name.
func (r *Registry) Register(c *Command) {
	r.commands[c.Name] = c
}

// For the common case where we don't want to construct the Command ourselves.
func (r *Registry) Add(name, description, hint string, arity int, fn Function) {
	r.Register(&Command{Name: name, Description: description, Hint: hint, Arity: arity, Fn: fn})
}

func (r *Registry) Get(name string) (*Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.commands[name]
	return ok
}

func (r *Registry) Names() []string {
	result := make([]string, 0, len(r.commands))
	for k := range r.commands {
		result = append(result, k)
	}
	slices.Sort(result)
	return result
}

// The commands in alphabetical order of name.
func (r *Registry) All() []*Command {
	result := make([]*Command, 0, len(r.commands))
	for _, name := range r.Names() {
		result = append(result, r.commands[name])
	}
	return result
}

func (r *Registry) Len() int {
	return len(r.commands)
}
